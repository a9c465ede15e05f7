// Package notification sends customer emails about their orders.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/entity"
)

// Notifier tells customers about their orders. Implementations may skip a
// message silently (returning nil) when delivery is not possible.
type Notifier interface {
	OrderConfirmation(ctx context.Context, order *entity.Order, items []entity.OrderItem, payment *entity.Payment) error
	OrderCancelled(ctx context.Context, order *entity.Order) error
}

// InvoiceRenderer produces an invoice document for an order.
type InvoiceRenderer interface {
	RenderInvoice(order *entity.Order, items []entity.OrderItem) (Attachment, error)
}

// StoreInfo brands outgoing mail.
type StoreInfo struct {
	Name         string
	SupportEmail string
	LogoURL      string
}

// EmailNotifier renders order emails and hands them to a Mailer.
type EmailNotifier struct {
	mailer  Mailer
	store   StoreInfo
	invoice InvoiceRenderer
	log     *zap.Logger
}

// Option configures an EmailNotifier.
type Option func(*EmailNotifier)

// WithInvoice attaches an invoice to confirmation emails.
func WithInvoice(r InvoiceRenderer) Option {
	return func(n *EmailNotifier) { n.invoice = r }
}

// NewEmailNotifier creates a notifier. A nil mailer means mail is not
// configured and every message is skipped.
func NewEmailNotifier(mailer Mailer, store StoreInfo, log *zap.Logger, opts ...Option) *EmailNotifier {
	n := &EmailNotifier{mailer: mailer, store: store, log: log}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *EmailNotifier) OrderConfirmation(ctx context.Context, order *entity.Order, items []entity.OrderItem, payment *entity.Payment) error {
	if !n.deliverable(order) {
		return nil
	}

	var body bytes.Buffer
	err := confirmationTemplate.Execute(&body, confirmationView{
		Store:   n.store,
		Order:   order,
		Items:   items,
		Payment: payment,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	msg := Message{
		To:      order.CustomerEmail,
		Subject: "Order confirmation " + order.OrderCode,
		HTML:    body.String(),
	}
	if n.invoice != nil {
		invoice, err := n.invoice.RenderInvoice(order, items)
		if err != nil {
			n.log.Warn("Invoice rendering failed, sending without attachment", zap.String("order_code", order.OrderCode), zap.Error(err))
		} else {
			msg.Attachments = append(msg.Attachments, invoice)
		}
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	n.log.Info("Confirmation email sent", zap.String("order_code", order.OrderCode))
	return nil
}

func (n *EmailNotifier) OrderCancelled(ctx context.Context, order *entity.Order) error {
	if !n.deliverable(order) {
		return nil
	}

	var body bytes.Buffer
	if err := cancellationTemplate.Execute(&body, confirmationView{Store: n.store, Order: order}); err != nil {
		return fmt.Errorf("failed to render cancellation email: %w", err)
	}

	err := n.mailer.Send(ctx, Message{
		To:      order.CustomerEmail,
		Subject: "Order cancelled " + order.OrderCode,
		HTML:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to send cancellation email: %w", err)
	}
	n.log.Info("Cancellation email sent", zap.String("order_code", order.OrderCode))
	return nil
}

func (n *EmailNotifier) deliverable(order *entity.Order) bool {
	if n.mailer == nil {
		n.log.Debug("SMTP not configured, skipping email", zap.String("order_code", order.OrderCode))
		return false
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		n.log.Debug("Order has no customer email, skipping", zap.String("order_code", order.OrderCode))
		return false
	}
	return true
}

// FormatCurrency renders an amount as US dollars, e.g. $1,234.50.
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + "$" + sb.String() + "." + frac
}
