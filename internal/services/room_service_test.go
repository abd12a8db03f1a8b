package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaiKT/rentflow/internal/database/testutil"
	"github.com/GaiKT/rentflow/internal/models"
	apperrors "github.com/GaiKT/rentflow/pkg/errors"
)

func TestRoomServiceCreateAndGet(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")

	svc, err := NewRoomService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	room, err := svc.Create(ctx, owner.ID, CreateRoomInput{
		Name:        "A101",
		Number:      "101",
		Floor:       1,
		MonthlyRent: 4500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, room.Status)

	loaded, err := svc.GetByID(ctx, owner.ID, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "A101", loaded.Name)
}

func TestRoomServiceScopedToOwner(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	other := createOwner(t, db, "other")
	room := createRoom(t, db, owner.ID, "A101")

	svc, err := NewRoomService(db, nil)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), other.ID, room.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRoomServiceListFilters(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")

	svc, err := NewRoomService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Create(ctx, owner.ID, CreateRoomInput{Name: "A101", MonthlyRent: 4500})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, CreateRoomInput{Name: "B202", MonthlyRent: 6000, Status: models.RoomMaintenance})
	require.NoError(t, err)

	rooms, total, err := svc.List(ctx, owner.ID, ListRoomsOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rooms, 2)

	rooms, total, err = svc.List(ctx, owner.ID, ListRoomsOptions{
		Filters: RoomFilters{Status: models.RoomMaintenance},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rooms, 1)
	assert.Equal(t, "B202", rooms[0].Name)

	rooms, _, err = svc.List(ctx, owner.ID, ListRoomsOptions{
		Filters: RoomFilters{Query: "A10"},
	})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "A101", rooms[0].Name)
}

func TestRoomServiceUpdateValidatesStatus(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")

	svc, err := NewRoomService(db, nil)
	require.NoError(t, err)

	bad := "HAUNTED"
	_, err = svc.Update(context.Background(), owner.ID, room.ID, UpdateRoomInput{Status: &bad})
	require.Error(t, err)

	good := models.RoomOccupied
	updated, err := svc.Update(context.Background(), owner.ID, room.ID, UpdateRoomInput{Status: &good})
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, updated.Status)
}

func TestRoomServiceDeleteGuardsActiveContract(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	createActiveContract(t, db, room.ID)

	svc, err := NewRoomService(db, nil)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), owner.ID, room.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
}

func TestRoomServiceDeleteGuardsOpenInvoices(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	invoice := createPendingInvoice(t, db, room.ID, "INV-TEST-0001")

	svc, err := NewRoomService(db, nil)
	require.NoError(t, err)

	require.Error(t, svc.Delete(context.Background(), owner.ID, room.ID))

	// Settle the invoice; delete succeeds even with a receipt on record.
	require.NoError(t, db.Model(&models.Invoice{}).
		Where("room_id = ?", room.ID).
		Update("status", models.InvoicePaid).Error)
	receipt := models.Receipt{
		ReceiptNo:     "RCP-TEST-0001",
		InvoiceID:     invoice.ID,
		Amount:        invoice.Amount,
		PaidAt:        time.Now().UTC(),
		PaymentMethod: models.PaymentBankTransfer,
	}
	require.NoError(t, db.Create(&receipt).Error)

	require.NoError(t, svc.Delete(context.Background(), owner.ID, room.ID))

	for _, table := range []struct {
		name  string
		model any
	}{
		{"rooms", &models.Room{}},
		{"invoices", &models.Invoice{}},
		{"receipts", &models.Receipt{}},
	} {
		var n int64
		require.NoError(t, db.Model(table.model).Count(&n).Error)
		assert.Zerof(t, n, "expected no %s rows after delete", table.name)
	}
}
