package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaiKT/rentflow/internal/database/testutil"
	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/internal/notifications"
	apperrors "github.com/GaiKT/rentflow/pkg/errors"
)

func TestInvoiceServiceCreateGeneratesNumber(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")

	svc, err := NewInvoiceService(db, notifications.NewHub(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	due := time.Now().UTC().AddDate(0, 0, 14)

	first, err := svc.Create(ctx, owner.ID, CreateInvoiceInput{
		RoomID:  room.ID,
		Amount:  4500,
		DueDate: due,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{6}-0001$`, first.InvoiceNo)
	assert.Equal(t, models.InvoicePending, first.Status)

	second, err := svc.Create(ctx, owner.ID, CreateInvoiceInput{
		RoomID:  room.ID,
		Amount:  4500,
		DueDate: due,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{6}-0002$`, second.InvoiceNo)

	var notice models.Notification
	require.NoError(t, db.Where("type = ?", models.NotifyInvoiceCreated).
		Order("created_at").First(&notice).Error)
	assert.Contains(t, notice.Message, first.InvoiceNo)
}

func TestInvoiceServiceCreateLinksContract(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	contract := createActiveContract(t, db, room.ID)

	otherRoom := createRoom(t, db, owner.ID, "B202")

	svc, err := NewInvoiceService(db, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	due := time.Now().UTC().AddDate(0, 0, 14)

	invoice, err := svc.Create(ctx, owner.ID, CreateInvoiceInput{
		RoomID:     room.ID,
		ContractID: contract.ID,
		Amount:     4500,
		DueDate:    due,
	})
	require.NoError(t, err)
	require.NotNil(t, invoice.ContractID)
	assert.Equal(t, contract.ID, *invoice.ContractID)

	// A contract from another room is rejected.
	_, err = svc.Create(ctx, owner.ID, CreateInvoiceInput{
		RoomID:     otherRoom.ID,
		ContractID: contract.ID,
		Amount:     4500,
		DueDate:    due,
	})
	require.Error(t, err)
}

func TestInvoiceServicePayCreatesReceipt(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	invoice := createPendingInvoice(t, db, room.ID, "INV-202503-0001")

	svc, err := NewInvoiceService(db, notifications.NewHub(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	receipt, err := svc.Pay(ctx, owner.ID, invoice.ID, PayInvoiceInput{
		PaymentMethod: models.PaymentPromptPay,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^RCP-\d{6}-0001$`, receipt.ReceiptNo)
	assert.Equal(t, invoice.Amount, receipt.Amount)
	assert.False(t, receipt.PaidAt.IsZero())

	var reloaded models.Invoice
	require.NoError(t, db.Take(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, models.InvoicePaid, reloaded.Status)
	assert.Equal(t, models.PaymentPromptPay, reloaded.PaymentMethod)

	var notice models.Notification
	require.NoError(t, db.Take(&notice, "type = ?", models.NotifyPaymentReceived).Error)
	assert.Contains(t, notice.Message, invoice.InvoiceNo)

	// Paying again is a conflict.
	_, err = svc.Pay(ctx, owner.ID, invoice.ID, PayInvoiceInput{
		PaymentMethod: models.PaymentCash,
	})
	require.Error(t, err)
}

func TestInvoiceServicePayAcceptsOverdue(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	invoice := createPendingInvoice(t, db, room.ID, "INV-202503-0001")
	require.NoError(t, db.Model(&invoice).Update("status", models.InvoiceOverdue).Error)

	svc, err := NewInvoiceService(db, nil, nil)
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), owner.ID, invoice.ID, PayInvoiceInput{
		PaymentMethod: models.PaymentBankTransfer,
	})
	require.NoError(t, err)
}

func TestInvoiceServicePayRejectsUnknownMethod(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	invoice := createPendingInvoice(t, db, room.ID, "INV-202503-0001")

	svc, err := NewInvoiceService(db, nil, nil)
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), owner.ID, invoice.ID, PayInvoiceInput{
		PaymentMethod: "BARTER",
	})
	require.Error(t, err)
}

func TestInvoiceServiceCancel(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	invoice := createPendingInvoice(t, db, room.ID, "INV-202503-0001")

	svc, err := NewInvoiceService(db, notifications.NewHub(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	cancelled, err := svc.Cancel(ctx, owner.ID, invoice.ID, "issued by mistake")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceCancelled, cancelled.Status)

	// Cancelled invoices cannot be paid or re-cancelled.
	_, err = svc.Pay(ctx, owner.ID, invoice.ID, PayInvoiceInput{PaymentMethod: models.PaymentCash})
	require.Error(t, err)
	_, err = svc.Cancel(ctx, owner.ID, invoice.ID, "")
	require.Error(t, err)
}

func TestInvoiceServiceCancelRejectsPaid(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	room := createRoom(t, db, owner.ID, "A101")
	invoice := createPendingInvoice(t, db, room.ID, "INV-202503-0001")

	svc, err := NewInvoiceService(db, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Pay(ctx, owner.ID, invoice.ID, PayInvoiceInput{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, owner.ID, invoice.ID, "")
	require.Error(t, err)
}

func TestInvoiceServiceListFilters(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	other := createOwner(t, db, "other")
	room := createRoom(t, db, owner.ID, "A101")
	otherRoom := createRoom(t, db, other.ID, "Z999")

	createPendingInvoice(t, db, room.ID, "INV-202503-0001")
	paid := createPendingInvoice(t, db, room.ID, "INV-202503-0002")
	require.NoError(t, db.Model(&paid).Update("status", models.InvoicePaid).Error)
	createPendingInvoice(t, db, otherRoom.ID, "INV-202503-0003")

	svc, err := NewInvoiceService(db, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	invoices, total, err := svc.List(ctx, owner.ID, ListInvoicesOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, invoices, 2)

	invoices, total, err = svc.List(ctx, owner.ID, ListInvoicesOptions{
		Filters: InvoiceFilters{Status: models.InvoicePending},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-202503-0001", invoices[0].InvoiceNo)
}

func TestInvoiceServiceScopedToOwner(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	owner := createOwner(t, db, "owner")
	other := createOwner(t, db, "other")
	room := createRoom(t, db, owner.ID, "A101")
	invoice := createPendingInvoice(t, db, room.ID, "INV-202503-0001")

	svc, err := NewInvoiceService(db, nil, nil)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), other.ID, invoice.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Pay(context.Background(), other.ID, invoice.ID, PayInvoiceInput{
		PaymentMethod: models.PaymentCash,
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
