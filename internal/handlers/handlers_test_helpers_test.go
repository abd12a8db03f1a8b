package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/middleware"
	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext builds a gin context carrying an authenticated user and an
// optional JSON body.
func newTestContext(t *testing.T, userID, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(method, target, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		c.Set(middleware.CtxUserIDKey, userID)
	}

	return c, recorder
}

// decodeData unmarshals the data portion of an API response into dest.
func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, dest any) {
	t.Helper()

	var payload response.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.True(t, payload.Success, "expected success response, got %s", recorder.Body.String())

	raw, err := json.Marshal(payload.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

func seedOwner(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedRoom(t *testing.T, db *gorm.DB, ownerID, name string) *models.Room {
	t.Helper()

	room := models.Room{
		OwnerID:     ownerID,
		Name:        name,
		Number:      name,
		MonthlyRent: 4500,
		Status:      models.RoomAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return &room
}

func seedInvoice(t *testing.T, db *gorm.DB, roomID string) *models.Invoice {
	t.Helper()

	invoice := models.Invoice{
		InvoiceNo: "INV-202501-" + roomID[:4],
		RoomID:    roomID,
		Amount:    4500,
		IssuedAt:  time.Now(),
		DueDate:   time.Now().AddDate(0, 0, 7),
		Status:    models.InvoicePending,
	}
	require.NoError(t, db.Create(&invoice).Error)
	return &invoice
}

func requireStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, recorder.Code, "unexpected status, body: %s", recorder.Body.String())
}
