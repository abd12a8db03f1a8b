package models

// DisplayLabel bundles the presentation metadata for an enum value. The UI and
// document templates must read labels from this table instead of redefining
// them per screen.
type DisplayLabel struct {
	Label string // English label
	Thai  string // Thai label used on rendered documents
	Color string // badge colour hint for the dashboard
}

var contractStatusLabels = map[string]DisplayLabel{
	ContractPending:    {Label: "Pending", Thai: "รอดำเนินการ", Color: "yellow"},
	ContractActive:     {Label: "Active", Thai: "ใช้งานอยู่", Color: "green"},
	ContractExpired:    {Label: "Expired", Thai: "หมดอายุ", Color: "gray"},
	ContractTerminated: {Label: "Terminated", Thai: "ยกเลิกสัญญา", Color: "red"},
}

var invoiceStatusLabels = map[string]DisplayLabel{
	InvoicePending:   {Label: "Pending", Thai: "รอชำระ", Color: "yellow"},
	InvoicePaid:      {Label: "Paid", Thai: "ชำระแล้ว", Color: "green"},
	InvoiceOverdue:   {Label: "Overdue", Thai: "เกินกำหนด", Color: "red"},
	InvoiceCancelled: {Label: "Cancelled", Thai: "ยกเลิก", Color: "gray"},
}

var roomStatusLabels = map[string]DisplayLabel{
	RoomAvailable:   {Label: "Available", Thai: "ว่าง", Color: "green"},
	RoomOccupied:    {Label: "Occupied", Thai: "มีผู้เช่า", Color: "blue"},
	RoomMaintenance: {Label: "Maintenance", Thai: "ปิดปรับปรุง", Color: "orange"},
}

var paymentMethodLabels = map[string]DisplayLabel{
	PaymentCash:         {Label: "Cash", Thai: "เงินสด"},
	PaymentBankTransfer: {Label: "Bank transfer", Thai: "โอนผ่านธนาคาร"},
	PaymentPromptPay:    {Label: "PromptPay", Thai: "พร้อมเพย์"},
	PaymentCreditCard:   {Label: "Credit card", Thai: "บัตรเครดิต"},
}

var notificationTypeLabels = map[string]DisplayLabel{
	NotifyContractExpiry:     {Label: "Contract expiring", Color: "orange"},
	NotifyContractCreated:    {Label: "Contract created", Color: "green"},
	NotifyContractTerminated: {Label: "Contract terminated", Color: "red"},
	NotifyRentDue:            {Label: "Rent due", Color: "yellow"},
	NotifyInvoiceCreated:     {Label: "Invoice issued", Color: "blue"},
	NotifyInvoiceOverdue:     {Label: "Invoice overdue", Color: "red"},
	NotifyInvoiceCancelled:   {Label: "Invoice cancelled", Color: "gray"},
	NotifyPaymentReceived:    {Label: "Payment received", Color: "green"},
	NotifyReceiptCreated:     {Label: "Receipt issued", Color: "green"},
	NotifyMonthlyReport:      {Label: "Monthly report", Color: "blue"},
	NotifySystem:             {Label: "System", Color: "gray"},
}

var unknownLabel = DisplayLabel{Label: "Unknown", Thai: "ไม่ทราบสถานะ", Color: "gray"}

// ContractStatusLabel resolves display metadata for a contract status.
func ContractStatusLabel(status string) DisplayLabel {
	if l, ok := contractStatusLabels[status]; ok {
		return l
	}
	return unknownLabel
}

// InvoiceStatusLabel resolves display metadata for an invoice status.
func InvoiceStatusLabel(status string) DisplayLabel {
	if l, ok := invoiceStatusLabels[status]; ok {
		return l
	}
	return unknownLabel
}

// RoomStatusLabel resolves display metadata for a room status.
func RoomStatusLabel(status string) DisplayLabel {
	if l, ok := roomStatusLabels[status]; ok {
		return l
	}
	return unknownLabel
}

// PaymentMethodLabel resolves display metadata for a payment method.
func PaymentMethodLabel(method string) DisplayLabel {
	if l, ok := paymentMethodLabels[method]; ok {
		return l
	}
	return unknownLabel
}

// NotificationTypeLabel resolves display metadata for a notification type.
func NotificationTypeLabel(kind string) DisplayLabel {
	if l, ok := notificationTypeLabels[kind]; ok {
		return l
	}
	return unknownLabel
}

// ValidContractStatus reports whether the supplied status is a known value.
func ValidContractStatus(status string) bool {
	_, ok := contractStatusLabels[status]
	return ok
}

// ValidInvoiceStatus reports whether the supplied status is a known value.
func ValidInvoiceStatus(status string) bool {
	_, ok := invoiceStatusLabels[status]
	return ok
}

// ValidRoomStatus reports whether the supplied status is a known value.
func ValidRoomStatus(status string) bool {
	_, ok := roomStatusLabels[status]
	return ok
}

// ValidPaymentMethod reports whether the supplied method is a known value.
func ValidPaymentMethod(method string) bool {
	_, ok := paymentMethodLabels[method]
	return ok
}
