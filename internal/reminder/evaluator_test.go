package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaiKT/rentflow/internal/models"
)

var evalNow = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func activeContract(id, owner, room string, endDate time.Time) models.Contract {
	contract := models.Contract{
		RoomID:     "room-" + room,
		TenantName: "Somchai",
		StartDate:  endDate.AddDate(-1, 0, 0),
		EndDate:    endDate,
		Status:     models.ContractActive,
	}
	contract.ID = id
	contract.Room = &models.Room{Name: room, OwnerID: owner}
	return contract
}

func pendingInvoice(id, owner, room string, dueDate time.Time) models.Invoice {
	invoice := models.Invoice{
		InvoiceNo: "INV-" + id,
		RoomID:    "room-" + room,
		Amount:    4500,
		DueDate:   dueDate,
		Status:    models.InvoicePending,
	}
	invoice.ID = id
	invoice.Room = &models.Room{Name: room, OwnerID: owner}
	return invoice
}

func TestEvaluateContractExpiryWindows(t *testing.T) {
	contracts := []models.Contract{
		activeContract("c30", "owner-1", "A101", evalNow.AddDate(0, 0, 30)),
		activeContract("c7", "owner-1", "A102", evalNow.AddDate(0, 0, 7)),
		activeContract("c1", "owner-1", "A103", evalNow.AddDate(0, 0, 1)),
		activeContract("c15", "owner-1", "A104", evalNow.AddDate(0, 0, 15)),
	}

	result := Evaluate(evalNow, contracts, nil)

	require.Len(t, result.Notifications, 3)
	require.Empty(t, result.OverdueInvoiceIDs)

	for _, notice := range result.Notifications {
		assert.Equal(t, models.NotifyContractExpiry, notice.Type)
		assert.Equal(t, "owner-1", notice.UserID)
	}

	assert.Contains(t, result.Notifications[0].Message, "30 วัน")
	assert.Contains(t, result.Notifications[1].Message, "7 วัน")
	assert.Contains(t, result.Notifications[2].Message, "1 วัน")
}

func TestEvaluateSevenDayContractMessage(t *testing.T) {
	endDate := evalNow.AddDate(0, 0, 7)
	contracts := []models.Contract{activeContract("c7", "owner-1", "B201", endDate)}

	result := Evaluate(evalNow, contracts, nil)

	require.Len(t, result.Notifications, 1)
	notice := result.Notifications[0]
	assert.Contains(t, notice.Message, "7 วัน")
	assert.Contains(t, notice.Message, endDate.Format("02/01/2006"))
	assert.Contains(t, notice.Message, "Somchai")
}

func TestEvaluateRentDueWindows(t *testing.T) {
	invoices := []models.Invoice{
		pendingInvoice("i7", "owner-1", "A101", evalNow.AddDate(0, 0, 7)),
		pendingInvoice("i15", "owner-1", "A102", evalNow.AddDate(0, 0, 15)),
	}

	result := Evaluate(evalNow, nil, invoices)

	require.Len(t, result.Notifications, 1)
	assert.Equal(t, models.NotifyRentDue, result.Notifications[0].Type)
	assert.Contains(t, result.Notifications[0].Message, "INV-i7")
	assert.Empty(t, result.OverdueInvoiceIDs)
}

func TestEvaluateOverdueInvoice(t *testing.T) {
	// Due 2024-12-30, evaluated 2025-01-01: two full days past due.
	invoices := []models.Invoice{
		pendingInvoice("late", "owner-1", "A101", time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)),
	}

	result := Evaluate(evalNow, nil, invoices)

	require.Len(t, result.Notifications, 1)
	notice := result.Notifications[0]
	assert.Equal(t, models.NotifyInvoiceOverdue, notice.Type)
	assert.Contains(t, notice.Message, "2 วัน")
	assert.Equal(t, []string{"late"}, result.OverdueInvoiceIDs)
}

func TestEvaluateDueExactlyNowIsNotOverdue(t *testing.T) {
	invoices := []models.Invoice{
		pendingInvoice("ontime", "owner-1", "A101", evalNow),
	}

	result := Evaluate(evalNow, nil, invoices)

	assert.Empty(t, result.OverdueInvoiceIDs)
	for _, notice := range result.Notifications {
		assert.NotEqual(t, models.NotifyInvoiceOverdue, notice.Type)
	}
}

func TestEvaluateDueWithinSameDayIsNotTransitioned(t *testing.T) {
	// Twelve hours past due floors to zero days and must not transition.
	invoices := []models.Invoice{
		pendingInvoice("sameday", "owner-1", "A101", evalNow.Add(-12*time.Hour)),
	}

	result := Evaluate(evalNow, nil, invoices)

	assert.Empty(t, result.OverdueInvoiceIDs)
	assert.Empty(t, result.Notifications)
}

func TestEvaluateSkipsZeroDates(t *testing.T) {
	contract := activeContract("czero", "owner-1", "A101", time.Time{})
	invoice := pendingInvoice("izero", "owner-1", "A102", time.Time{})

	result := Evaluate(evalNow, []models.Contract{contract}, []models.Invoice{invoice})

	assert.Empty(t, result.Notifications)
	assert.Empty(t, result.OverdueInvoiceIDs)
}

func TestEvaluateSkipsRecordsWithoutOwner(t *testing.T) {
	contract := activeContract("c7", "", "A101", evalNow.AddDate(0, 0, 7))
	invoice := pendingInvoice("late", "", "A102", evalNow.AddDate(0, 0, -3))

	result := Evaluate(evalNow, []models.Contract{contract}, []models.Invoice{invoice})

	assert.Empty(t, result.Notifications)
	assert.Empty(t, result.OverdueInvoiceIDs)
}

func TestEvaluateIgnoresNonActiveAndNonPending(t *testing.T) {
	expired := activeContract("cexp", "owner-1", "A101", evalNow.AddDate(0, 0, 7))
	expired.Status = models.ContractExpired

	paid := pendingInvoice("ipaid", "owner-1", "A102", evalNow.AddDate(0, 0, -5))
	paid.Status = models.InvoicePaid

	result := Evaluate(evalNow, []models.Contract{expired}, []models.Invoice{paid})

	assert.Empty(t, result.Notifications)
	assert.Empty(t, result.OverdueInvoiceIDs)
}

func TestEvaluateOverlappingWindowBoundary(t *testing.T) {
	// A date exactly 6 days out sits on the shared boundary of the 7-day
	// window's lower bound; windows are inclusive on both ends so both the
	// 7-day pass and no other emit. A date 7 days out only matches the
	// 7-day window upper bound.
	boundary := evalNow.AddDate(0, 0, 6)
	contracts := []models.Contract{activeContract("cb", "owner-1", "A101", boundary)}

	result := Evaluate(evalNow, contracts, nil)
	require.Len(t, result.Notifications, 1)
	assert.Contains(t, result.Notifications[0].Message, "7 วัน")
}

func TestEvaluateDeterministicOrder(t *testing.T) {
	contracts := []models.Contract{
		activeContract("c30", "owner-1", "A101", evalNow.AddDate(0, 0, 30)),
		activeContract("c1", "owner-1", "A102", evalNow.AddDate(0, 0, 1)),
	}
	invoices := []models.Invoice{
		pendingInvoice("i7", "owner-1", "A103", evalNow.AddDate(0, 0, 7)),
		pendingInvoice("late", "owner-1", "A104", evalNow.AddDate(0, 0, -2)),
	}

	first := Evaluate(evalNow, contracts, invoices)
	second := Evaluate(evalNow, contracts, invoices)

	require.Equal(t, first, second)

	require.Len(t, first.Notifications, 4)
	assert.Equal(t, models.NotifyContractExpiry, first.Notifications[0].Type)
	assert.Equal(t, models.NotifyContractExpiry, first.Notifications[1].Type)
	assert.Equal(t, models.NotifyRentDue, first.Notifications[2].Type)
	assert.Equal(t, models.NotifyInvoiceOverdue, first.Notifications[3].Type)
	assert.Equal(t, []string{"late"}, first.OverdueInvoiceIDs)
}
