package notification

import (
	"html/template"

	"github.com/egannguyen/storefront-backend/internal/entity"
)

type confirmationView struct {
	Store   StoreInfo
	Order   *entity.Order
	Items   []entity.OrderItem
	Payment *entity.Payment
}

var funcs = template.FuncMap{"currency": FormatCurrency}

const header = `{{define "header"}}<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
{{if .Store.LogoURL}}<img src="{{.Store.LogoURL}}" alt="{{.Store.Name}}" style="max-height:60px">{{end}}
<h2>{{.Store.Name}}</h2>{{end}}`

const footer = `{{define "footer"}}{{if .Store.SupportEmail}}<p>Questions? Contact us at <a href="mailto:{{.Store.SupportEmail}}">{{.Store.SupportEmail}}</a>.</p>{{end}}
</div>{{end}}`

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(funcs).Parse(header + footer + `{{template "header" .}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Thank you for your order <strong>{{.Order.OrderCode}}</strong>.</p>
<table style="width:100%;border-collapse:collapse">
<thead><tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Price</th><th align="right">Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.ProductName}}{{if .VariantName}} ({{.VariantName}}){{end}}</td><td align="right">{{.Quantity}}</td><td align="right">{{currency .UnitPrice}}</td><td align="right">{{currency .TotalPrice}}</td></tr>
{{end}}</tbody>
</table>
<table style="width:100%;margin-top:16px">
<tr><td>Subtotal</td><td align="right">{{currency .Order.Subtotal}}</td></tr>
<tr><td>Shipping</td><td align="right">{{currency .Order.ShippingFee}}</td></tr>
<tr><td>Tax</td><td align="right">{{currency .Order.TaxAmount}}</td></tr>
{{if not .Order.DiscountAmount.IsZero}}<tr><td>Discount</td><td align="right">-{{currency .Order.DiscountAmount}}</td></tr>{{end}}
<tr><td><strong>Total</strong></td><td align="right"><strong>{{currency .Order.TotalAmount}}</strong></td></tr>
</table>
{{if .Payment}}<p>Payment method: {{.Payment.Method}} ({{.Payment.Status}})</p>{{end}}
<p>Shipping to: {{.Order.AddressStreet}}{{if .Order.AddressHouse}} {{.Order.AddressHouse}}{{end}}{{if .Order.AddressApartment}}, apt. {{.Order.AddressApartment}}{{end}}, {{.Order.AddressCity}}, {{.Order.AddressPostalCode}}, {{.Order.AddressCountry}}</p>
{{template "footer" .}}`))

var cancellationTemplate = template.Must(template.New("cancellation").Funcs(funcs).Parse(header + footer + `{{template "header" .}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Your order <strong>{{.Order.OrderCode}}</strong> for {{currency .Order.TotalAmount}} has been cancelled.</p>
{{template "footer" .}}`))
