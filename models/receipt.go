package models

import (
	"bytes"
	"context"
	"html/template"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt {{.Sale.SaleNumber}}</title>
<style>
body { font-family: monospace; width: 320px; margin: 0 auto; }
table { width: 100%; border-collapse: collapse; }
td.amount { text-align: right; }
hr { border: none; border-top: 1px dashed #000; }
.center { text-align: center; }
</style>
</head>
<body>
<div class="center">
<h3>{{.BusinessName}}</h3>
<p>{{.BranchName}}</p>
</div>
<hr>
<p>Receipt: {{.Sale.SaleNumber}}<br>
Date: {{.Sale.SaleDateTime.Format "2006-01-02 15:04"}}<br>
Cashier: {{.CashierName}}</p>
<hr>
<table>
{{range .Sale.Details}}
<tr>
<td>{{.Name}}</td>
<td class="amount">{{.Qty}} x {{.UnitPrice}}</td>
<td class="amount">{{.LineTotal}}</td>
</tr>
{{end}}
</table>
<hr>
<table>
<tr><td>Subtotal</td><td class="amount">{{.Sale.Subtotal}}</td></tr>
{{if not .Sale.DiscountAmount.IsZero}}<tr><td>Discount</td><td class="amount">-{{.Sale.DiscountAmount}}</td></tr>{{end}}
{{if not .Sale.TaxAmount.IsZero}}<tr><td>Tax</td><td class="amount">{{.Sale.TaxAmount}}</td></tr>{{end}}
<tr><td><b>Total</b></td><td class="amount"><b>{{.Sale.Total}}</b></td></tr>
<tr><td>Paid ({{.PaymentModeName}})</td><td class="amount">{{.Sale.PaidAmount}}</td></tr>
<tr><td>Change</td><td class="amount">{{.Sale.ChangeAmount}}</td></tr>
</table>
{{if .Sale.Status.IsVoided}}<hr><div class="center"><b>*** VOIDED ***</b></div>{{end}}
<hr>
<div class="center"><p>Thank you!</p></div>
</body>
</html>
`))

type receiptData struct {
	Sale            *SaleTransaction
	BusinessName    string
	BranchName      string
	CashierName     string
	PaymentModeName string
}

func (s SaleStatus) IsVoided() bool {
	return s == SaleStatusVoided
}

// RenderReceipt renders the printable HTML receipt for a sale.
func RenderReceipt(ctx context.Context, saleId int) (string, error) {
	sale, err := GetSaleTransaction(ctx, saleId)
	if err != nil {
		return "", err
	}

	data := receiptData{Sale: sale}

	business, err := GetBusiness(ctx)
	if err == nil {
		data.BusinessName = business.Name
		// receipts show the store-local time, not UTC
		sale.SaleDateTime = utils.ConvertToLocalTime(sale.SaleDateTime, business.Timezone)
	}
	if branch, err := GetResource[Branch](ctx, sale.BranchId); err == nil {
		data.BranchName = branch.Name
	}
	if cashier, err := GetResource[User](ctx, sale.CashierId); err == nil {
		data.CashierName = cashier.Name
	}
	if paymentMode, err := GetResource[PaymentMode](ctx, sale.PaymentModeId); err == nil {
		data.PaymentModeName = paymentMode.Name
	}

	// round displayed amounts to two places
	sale.Subtotal = sale.Subtotal.Round(2)
	sale.DiscountAmount = sale.DiscountAmount.Round(2)
	sale.TaxAmount = sale.TaxAmount.Round(2)
	sale.Total = sale.Total.Round(2)
	sale.PaidAmount = sale.PaidAmount.Round(2)
	sale.ChangeAmount = sale.ChangeAmount.Round(2)
	for i := range sale.Details {
		sale.Details[i].UnitPrice = sale.Details[i].UnitPrice.Round(2)
		sale.Details[i].LineTotal = sale.Details[i].LineTotal.Round(2)
		sale.Details[i].Qty = normalizeQty(sale.Details[i].Qty)
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeQty(qty decimal.Decimal) decimal.Decimal {
	if qty.Equal(qty.Truncate(0)) {
		return qty.Truncate(0)
	}
	return qty
}
