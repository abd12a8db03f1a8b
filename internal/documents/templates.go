package documents

const invoiceTemplate = `<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>ใบแจ้งหนี้ {{.InvoiceNo}}</title>
<style>
  body { font-family: "Sarabun", "Tahoma", sans-serif; color: #1f2937; margin: 2rem; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #1f2937; padding-bottom: 1rem; }
  .title { font-size: 1.6rem; font-weight: bold; }
  .meta td { padding: 0.15rem 0.75rem 0.15rem 0; }
  .amount { font-size: 1.4rem; font-weight: bold; }
  .badge { display: inline-block; padding: 0.2rem 0.6rem; border-radius: 0.4rem; color: #fff; }
  .badge.yellow { background: #d97706; }
  .badge.green { background: #059669; }
  .badge.red { background: #dc2626; }
  .badge.gray { background: #6b7280; }
  .qr { text-align: center; margin-top: 1.5rem; }
  .footer { margin-top: 2rem; font-size: 0.85rem; color: #6b7280; border-top: 1px solid #e5e7eb; padding-top: 0.5rem; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="title">{{.BusinessName}}</div>
      <div>{{.BusinessAddress}}</div>
    </div>
    <div>
      <div class="title">ใบแจ้งหนี้</div>
      <div>เลขที่ {{.InvoiceNo}}</div>
    </div>
  </div>

  <table class="meta">
    <tr><td>ห้อง</td><td>{{.RoomName}}</td></tr>
    {{if .TenantName}}<tr><td>ผู้เช่า</td><td>{{.TenantName}}</td></tr>{{end}}
    <tr><td>วันที่ออก</td><td>{{.IssuedAt}}</td></tr>
    <tr><td>ครบกำหนดชำระ</td><td>{{.DueDate}}</td></tr>
    <tr><td>สถานะ</td><td><span class="badge {{.StatusColor}}">{{.StatusLabel}}</span></td></tr>
    {{if .Description}}<tr><td>รายการ</td><td>{{.Description}}</td></tr>{{end}}
    <tr><td>ยอดชำระ</td><td class="amount">{{.Amount}} บาท</td></tr>
  </table>

  {{if .QRDataURI}}
  <div class="qr">
    <img src="{{.QRDataURI}}" alt="PromptPay QR" width="256" height="256">
    <div>สแกนเพื่อชำระผ่านพร้อมเพย์ ({{.PromptPay}})</div>
  </div>
  {{end}}

  <div class="footer">
    {{if .FooterNote}}<div>{{.FooterNote}}</div>{{end}}
    <div>เอกสารออกเมื่อ {{.RenderedAt}}</div>
  </div>
</body>
</html>
`

const receiptTemplate = `<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>ใบเสร็จรับเงิน {{.ReceiptNo}}</title>
<style>
  body { font-family: "Sarabun", "Tahoma", sans-serif; color: #1f2937; margin: 2rem; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #1f2937; padding-bottom: 1rem; }
  .title { font-size: 1.6rem; font-weight: bold; }
  .meta td { padding: 0.15rem 0.75rem 0.15rem 0; }
  .amount { font-size: 1.4rem; font-weight: bold; }
  .footer { margin-top: 2rem; font-size: 0.85rem; color: #6b7280; border-top: 1px solid #e5e7eb; padding-top: 0.5rem; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="title">{{.BusinessName}}</div>
      <div>{{.BusinessAddress}}</div>
    </div>
    <div>
      <div class="title">ใบเสร็จรับเงิน</div>
      <div>เลขที่ {{.ReceiptNo}}</div>
    </div>
  </div>

  <table class="meta">
    {{if .InvoiceNo}}<tr><td>อ้างอิงใบแจ้งหนี้</td><td>{{.InvoiceNo}}</td></tr>{{end}}
    {{if .RoomName}}<tr><td>ห้อง</td><td>{{.RoomName}}</td></tr>{{end}}
    <tr><td>วันที่ชำระ</td><td>{{.PaidAt}}</td></tr>
    <tr><td>ช่องทางชำระ</td><td>{{.MethodLabel}}</td></tr>
    {{if .Note}}<tr><td>หมายเหตุ</td><td>{{.Note}}</td></tr>{{end}}
    <tr><td>จำนวนเงิน</td><td class="amount">{{.Amount}} บาท</td></tr>
  </table>

  <div class="footer">
    {{if .FooterNote}}<div>{{.FooterNote}}</div>{{end}}
    <div>เอกสารออกเมื่อ {{.RenderedAt}}</div>
  </div>
</body>
</html>
`
