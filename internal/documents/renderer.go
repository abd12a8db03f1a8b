package documents

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/GaiKT/rentflow/internal/models"
)

// Config carries the letterhead fields printed on every document.
type Config struct {
	BusinessName    string
	BusinessAddress string
	FooterNote      string
}

// Renderer produces printable HTML invoice and receipt documents.
type Renderer struct {
	cfg      Config
	invoice  *template.Template
	receipt  *template.Template
	qrSize   int
	dateFmt  string
	qrSource func(target string, amount float64, size int) (string, error)
}

// NewRenderer parses the document templates and returns a ready renderer.
func NewRenderer(cfg Config) (*Renderer, error) {
	invoice, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("documents: parse invoice template: %w", err)
	}
	receipt, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("documents: parse receipt template: %w", err)
	}

	return &Renderer{
		cfg:      cfg,
		invoice:  invoice,
		receipt:  receipt,
		qrSize:   256,
		dateFmt:  "02/01/2006",
		qrSource: QRDataURI,
	}, nil
}

type invoiceView struct {
	BusinessName    string
	BusinessAddress string
	FooterNote      string

	InvoiceNo   string
	RoomName    string
	TenantName  string
	Description string
	Amount      string
	IssuedAt    string
	DueDate     string
	StatusLabel string
	StatusColor string

	// template.URL so the url filter does not reject the data: scheme.
	QRDataURI  template.URL
	PromptPay  string
	RenderedAt string
}

type receiptView struct {
	BusinessName    string
	BusinessAddress string
	FooterNote      string

	ReceiptNo   string
	InvoiceNo   string
	RoomName    string
	Amount      string
	PaidAt      string
	MethodLabel string
	Note        string
	RenderedAt  string
}

// RenderInvoice produces the HTML invoice document. When the owner has a
// PromptPay id configured the document embeds a one-time payment QR for the
// invoice amount.
func (r *Renderer) RenderInvoice(invoice *models.Invoice, owner *models.User) ([]byte, error) {
	if invoice == nil {
		return nil, errors.New("documents: invoice is required")
	}

	status := models.InvoiceStatusLabel(invoice.Status)
	view := invoiceView{
		BusinessName:    r.cfg.BusinessName,
		BusinessAddress: r.cfg.BusinessAddress,
		FooterNote:      r.cfg.FooterNote,
		InvoiceNo:       invoice.InvoiceNo,
		Description:     invoice.Description,
		Amount:          fmt.Sprintf("%.2f", invoice.Amount),
		IssuedAt:        invoice.IssuedAt.Format(r.dateFmt),
		DueDate:         invoice.DueDate.Format(r.dateFmt),
		StatusLabel:     status.Thai,
		StatusColor:     status.Color,
		RenderedAt:      time.Now().Format(r.dateFmt),
	}
	if invoice.Room != nil {
		view.RoomName = invoice.Room.Name
	}
	if invoice.Contract != nil {
		view.TenantName = invoice.Contract.TenantName
	}

	if owner != nil && owner.PromptPayID != "" && invoice.Status != models.InvoicePaid && invoice.Status != models.InvoiceCancelled {
		uri, err := r.qrSource(owner.PromptPayID, invoice.Amount, r.qrSize)
		if err != nil {
			return nil, fmt.Errorf("documents: render payment qr: %w", err)
		}
		view.QRDataURI = template.URL(uri)
		view.PromptPay = owner.PromptPayID
	}

	var buf bytes.Buffer
	if err := r.invoice.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("documents: render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReceipt produces the HTML receipt document.
func (r *Renderer) RenderReceipt(receipt *models.Receipt) ([]byte, error) {
	if receipt == nil {
		return nil, errors.New("documents: receipt is required")
	}

	view := receiptView{
		BusinessName:    r.cfg.BusinessName,
		BusinessAddress: r.cfg.BusinessAddress,
		FooterNote:      r.cfg.FooterNote,
		ReceiptNo:       receipt.ReceiptNo,
		Amount:          fmt.Sprintf("%.2f", receipt.Amount),
		PaidAt:          receipt.PaidAt.Format(r.dateFmt),
		MethodLabel:     models.PaymentMethodLabel(receipt.PaymentMethod).Thai,
		Note:            receipt.Note,
		RenderedAt:      time.Now().Format(r.dateFmt),
	}
	if receipt.Invoice != nil {
		view.InvoiceNo = receipt.Invoice.InvoiceNo
		if receipt.Invoice.Room != nil {
			view.RoomName = receipt.Invoice.Room.Name
		}
	}

	var buf bytes.Buffer
	if err := r.receipt.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("documents: render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
