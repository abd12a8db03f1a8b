package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaiKT/rentflow/internal/models"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()

	r, err := NewRenderer(Config{
		BusinessName:    "หอพักสุขใจ",
		BusinessAddress: "99 ถนนทดสอบ กรุงเทพฯ",
		FooterNote:      "ติดต่อ 02-000-0000",
	})
	require.NoError(t, err)
	return r
}

func unpaidInvoice() *models.Invoice {
	return &models.Invoice{
		InvoiceNo:   "INV-202503-0001",
		Amount:      3500,
		IssuedAt:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:      models.InvoicePending,
		Description: "ค่าเช่าเดือนมีนาคม",
		Room:        &models.Room{Name: "A-101"},
		Contract:    &models.Contract{TenantName: "สมชาย ใจดี"},
	}
}

func TestRenderInvoiceEmbedsPaymentQR(t *testing.T) {
	r := testRenderer(t)
	owner := &models.User{PromptPayID: "0812345678"}

	html, err := r.RenderInvoice(unpaidInvoice(), owner)
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "INV-202503-0001")
	assert.Contains(t, out, "A-101")
	assert.Contains(t, out, "สมชาย ใจดี")
	assert.Contains(t, out, "หอพักสุขใจ")
	assert.Contains(t, out, "3500.00")
	assert.Contains(t, out, "05/03/2025")
	assert.Contains(t, out, "รอชำระ")
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.NotContains(t, out, "ZgotmplZ")
	assert.Contains(t, out, "0812345678")
}

func TestRenderInvoiceOmitsQRWhenPaid(t *testing.T) {
	r := testRenderer(t)
	owner := &models.User{PromptPayID: "0812345678"}

	invoice := unpaidInvoice()
	invoice.Status = models.InvoicePaid

	html, err := r.RenderInvoice(invoice, owner)
	require.NoError(t, err)

	out := string(html)
	assert.NotContains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, "ชำระแล้ว")
}

func TestRenderInvoiceOmitsQRWithoutPromptPay(t *testing.T) {
	r := testRenderer(t)

	html, err := r.RenderInvoice(unpaidInvoice(), &models.User{})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "data:image/png;base64,")
}

func TestRenderInvoiceEscapesContent(t *testing.T) {
	r := testRenderer(t)

	invoice := unpaidInvoice()
	invoice.Description = `<script>alert("x")</script>`

	html, err := r.RenderInvoice(invoice, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>alert")
}

func TestRenderInvoiceNilInvoice(t *testing.T) {
	r := testRenderer(t)

	_, err := r.RenderInvoice(nil, nil)
	require.Error(t, err)
}

func TestRenderReceipt(t *testing.T) {
	r := testRenderer(t)

	receipt := &models.Receipt{
		ReceiptNo:     "RCP-202503-0001",
		Amount:        3500,
		PaidAt:        time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC),
		PaymentMethod: models.PaymentPromptPay,
		Note:          "โอนครบถ้วน",
		Invoice: &models.Invoice{
			InvoiceNo: "INV-202503-0001",
			Room:      &models.Room{Name: "A-101"},
		},
	}

	html, err := r.RenderReceipt(receipt)
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "RCP-202503-0001")
	assert.Contains(t, out, "INV-202503-0001")
	assert.Contains(t, out, "A-101")
	assert.Contains(t, out, "04/03/2025")
	assert.Contains(t, out, "พร้อมเพย์")
	assert.Contains(t, out, "3500.00")
	assert.Contains(t, out, "โอนครบถ้วน")
}

func TestRenderReceiptNilReceipt(t *testing.T) {
	r := testRenderer(t)

	_, err := r.RenderReceipt(nil)
	require.Error(t, err)
}
