package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/egannguyen/storefront-backend/internal/entity"
)

// HTMLInvoice renders a printable HTML invoice.
type HTMLInvoice struct {
	store StoreInfo
}

func NewHTMLInvoice(store StoreInfo) *HTMLInvoice {
	return &HTMLInvoice{store: store}
}

func (h *HTMLInvoice) RenderInvoice(order *entity.Order, items []entity.OrderItem) (Attachment, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, confirmationView{Store: h.store, Order: order, Items: items}); err != nil {
		return Attachment{}, fmt.Errorf("failed to render invoice: %w", err)
	}
	return Attachment{
		Filename:    "invoice-" + order.OrderCode + ".html",
		ContentType: "text/html; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(funcs).Parse(header + footer + `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Invoice {{.Order.OrderCode}}</title></head><body>
{{template "header" .}}
<h3>Invoice {{.Order.OrderCode}}</h3>
<p>Order number {{.Order.OrderNumber}}, issued {{.Order.CreatedAt.Format "2006-01-02"}}</p>
<p><strong>Bill to</strong><br>{{.Order.CustomerName}}<br>{{.Order.CustomerEmail}}<br>
{{.Order.AddressStreet}}{{if .Order.AddressHouse}} {{.Order.AddressHouse}}{{end}}<br>
{{.Order.AddressPostalCode}} {{.Order.AddressCity}}, {{.Order.AddressCountry}}</p>
<table style="width:100%;border-collapse:collapse" border="1" cellpadding="4">
<thead><tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Unit price</th><th align="right">Amount</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.ProductName}}{{if .VariantName}} ({{.VariantName}}){{end}}</td><td align="right">{{.Quantity}}</td><td align="right">{{currency .UnitPrice}}</td><td align="right">{{currency .TotalPrice}}</td></tr>
{{end}}</tbody>
</table>
<table style="width:100%;margin-top:16px">
<tr><td>Subtotal</td><td align="right">{{currency .Order.Subtotal}}</td></tr>
<tr><td>Shipping</td><td align="right">{{currency .Order.ShippingFee}}</td></tr>
<tr><td>Tax</td><td align="right">{{currency .Order.TaxAmount}}</td></tr>
{{if not .Order.DiscountAmount.IsZero}}<tr><td>Discount</td><td align="right">-{{currency .Order.DiscountAmount}}</td></tr>{{end}}
<tr><td><strong>Total due</strong></td><td align="right"><strong>{{currency .Order.TotalAmount}}</strong></td></tr>
</table>
{{template "footer" .}}
</body></html>`))
