package reminder

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaiKT/rentflow/internal/database/testutil"
	"github.com/GaiKT/rentflow/internal/models"
)

func TestReporterGenerateMonthly(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := seedOwner(t, db)
	room := seedRoom(t, db, owner.ID)

	now := time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	inMonth := models.Invoice{
		InvoiceNo: "INV-0001",
		RoomID:    room.ID,
		Amount:    4500,
		DueDate:   monthStart.AddDate(0, 0, 10),
		IssuedAt:  monthStart.AddDate(0, 0, 1),
		Status:    models.InvoicePaid,
	}
	require.NoError(t, db.Create(&inMonth).Error)

	outOfMonth := models.Invoice{
		InvoiceNo: "INV-0002",
		RoomID:    room.ID,
		Amount:    9999,
		DueDate:   monthStart.AddDate(0, -1, 10),
		IssuedAt:  monthStart.AddDate(0, -1, 1),
		Status:    models.InvoicePaid,
	}
	require.NoError(t, db.Create(&outOfMonth).Error)

	receipt := models.Receipt{
		ReceiptNo:     "RCP-0001",
		InvoiceID:     inMonth.ID,
		Amount:        4500,
		PaidAt:        monthStart.AddDate(0, 0, 5),
		PaymentMethod: models.PaymentPromptPay,
	}
	require.NoError(t, db.Create(&receipt).Error)

	reporter, err := NewReporter(db, WithReporterClock(func() time.Time { return now }))
	require.NoError(t, err)

	created, err := reporter.GenerateMonthly(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var notice models.Notification
	require.NoError(t, db.Take(&notice, "type = ?", models.NotifyMonthlyReport).Error)
	assert.Equal(t, owner.ID, notice.UserID)
	assert.Contains(t, notice.Message, "03/2025")
	assert.Contains(t, notice.Message, "1 ฉบับ")
	assert.Contains(t, notice.Message, "4500.00")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(notice.Metadata, &payload))
	assert.Equal(t, "2025-03", payload["month"])
	assert.EqualValues(t, 1, payload["invoices_issued"])
	assert.EqualValues(t, 4500, payload["collected_total"])
}

func TestReporterSkipsInactiveOwners(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	inactive := models.User{
		Username: "dormant",
		Email:    "dormant@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Model(&inactive).Update("is_active", false).Error)

	reporter, err := NewReporter(db)
	require.NoError(t, err)

	created, err := reporter.GenerateMonthly(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}
