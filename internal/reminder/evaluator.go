package reminder

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/GaiKT/rentflow/internal/models"
)

// reminderWindows are the fixed look-ahead periods, in days, before a contract
// end date or invoice due date that trigger an advance notification.
var reminderWindows = []int{30, 7, 1}

const day = 24 * time.Hour

const noticeDateFormat = "02/01/2006"

// Result is the outcome of a single evaluation pass.
type Result struct {
	// Notifications holds the records to persist, in deterministic order:
	// contract expiry notices per window (30, 7, 1), then rent due notices
	// per window, then overdue notices in input order.
	Notifications []models.Notification

	// OverdueInvoiceIDs lists pending invoices that must transition to
	// OVERDUE, in input order.
	OverdueInvoiceIDs []string
}

// Evaluate computes reminder notifications and overdue transitions from a
// snapshot of active contracts and pending invoices. It performs no I/O and
// is deterministic for identical inputs and now.
//
// A contract or invoice matches window d when its end or due date falls in
// [now + (d-1) days, now + d days], both bounds inclusive. The windows
// overlap at their boundaries; a date landing on a shared boundary produces
// one notification per matching window. Records with a zero date or without
// a resolvable owner never match.
func Evaluate(now time.Time, contracts []models.Contract, invoices []models.Invoice) Result {
	var result Result

	for _, d := range reminderWindows {
		for _, contract := range contracts {
			if contract.Status != models.ContractActive {
				continue
			}
			ownerID := contractOwner(contract)
			if ownerID == "" || !inWindow(now, contract.EndDate, d) {
				continue
			}
			result.Notifications = append(result.Notifications, contractExpiryNotice(ownerID, contract, d))
		}
	}

	for _, d := range reminderWindows {
		for _, invoice := range invoices {
			if invoice.Status != models.InvoicePending {
				continue
			}
			ownerID := invoiceOwner(invoice)
			if ownerID == "" || !inWindow(now, invoice.DueDate, d) {
				continue
			}
			result.Notifications = append(result.Notifications, rentDueNotice(ownerID, invoice, d))
		}
	}

	for _, invoice := range invoices {
		if invoice.Status != models.InvoicePending {
			continue
		}
		ownerID := invoiceOwner(invoice)
		if ownerID == "" || invoice.DueDate.IsZero() || !invoice.DueDate.Before(now) {
			continue
		}
		daysPastDue := int(now.Sub(invoice.DueDate) / day)
		if daysPastDue <= 0 {
			continue
		}
		result.Notifications = append(result.Notifications, overdueNotice(ownerID, invoice, daysPastDue))
		result.OverdueInvoiceIDs = append(result.OverdueInvoiceIDs, invoice.ID)
	}

	return result
}

// contractOwner resolves the notification recipient for a contract. The room
// association must be preloaded; without it the record is skipped.
func contractOwner(c models.Contract) string {
	if c.Room == nil {
		return ""
	}
	return c.Room.OwnerID
}

func invoiceOwner(i models.Invoice) string {
	if i.Room == nil {
		return ""
	}
	return i.Room.OwnerID
}

func roomName(room *models.Room) string {
	if room == nil {
		return ""
	}
	return room.Name
}

// inWindow reports whether target falls within the 24-hour window ending at
// d days from now. Zero targets never match.
func inWindow(now, target time.Time, d int) bool {
	if target.IsZero() {
		return false
	}
	lower := now.Add(time.Duration(d-1) * day)
	upper := now.Add(time.Duration(d) * day)
	return !target.Before(lower) && !target.After(upper)
}

func contractExpiryNotice(ownerID string, contract models.Contract, daysLeft int) models.Notification {
	message := fmt.Sprintf("สัญญาเช่าของ %s (ห้อง %s) จะหมดอายุในอีก %d วัน (%s)",
		contract.TenantName, roomName(contract.Room), daysLeft, contract.EndDate.Format(noticeDateFormat))

	return models.Notification{
		UserID:   ownerID,
		Type:     models.NotifyContractExpiry,
		Title:    "สัญญาเช่าใกล้หมดอายุ",
		Message:  message,
		Severity: "warning",
		Metadata: noticeMetadata(map[string]interface{}{
			"contract_id": contract.ID,
			"room_id":     contract.RoomID,
			"days_left":   daysLeft,
			"end_date":    contract.EndDate.Format(time.RFC3339),
		}),
	}
}

func rentDueNotice(ownerID string, invoice models.Invoice, daysLeft int) models.Notification {
	message := fmt.Sprintf("ใบแจ้งหนี้ %s (ห้อง %s) ครบกำหนดชำระในอีก %d วัน (%s)",
		invoice.InvoiceNo, roomName(invoice.Room), daysLeft, invoice.DueDate.Format(noticeDateFormat))

	return models.Notification{
		UserID:   ownerID,
		Type:     models.NotifyRentDue,
		Title:    "ใกล้ถึงกำหนดชำระค่าเช่า",
		Message:  message,
		Severity: "warning",
		Metadata: noticeMetadata(map[string]interface{}{
			"invoice_id": invoice.ID,
			"invoice_no": invoice.InvoiceNo,
			"room_id":    invoice.RoomID,
			"days_left":  daysLeft,
			"due_date":   invoice.DueDate.Format(time.RFC3339),
		}),
	}
}

func overdueNotice(ownerID string, invoice models.Invoice, daysPastDue int) models.Notification {
	message := fmt.Sprintf("ใบแจ้งหนี้ %s (ห้อง %s) เกินกำหนดชำระมาแล้ว %d วัน",
		invoice.InvoiceNo, roomName(invoice.Room), daysPastDue)

	return models.Notification{
		UserID:   ownerID,
		Type:     models.NotifyInvoiceOverdue,
		Title:    "ใบแจ้งหนี้เกินกำหนดชำระ",
		Message:  message,
		Severity: "error",
		Metadata: noticeMetadata(map[string]interface{}{
			"invoice_id":    invoice.ID,
			"invoice_no":    invoice.InvoiceNo,
			"room_id":       invoice.RoomID,
			"days_past_due": daysPastDue,
			"due_date":      invoice.DueDate.Format(time.RFC3339),
		}),
	}
}

func noticeMetadata(fields map[string]interface{}) datatypes.JSON {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(payload)
}
