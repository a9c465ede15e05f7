package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a domain event.
type Event interface {
	EventType() string
}

// OrderCreated is emitted after an order and its items are committed.
type OrderCreated struct {
	OrderID       int64           `json:"order_id"`
	OrderCode     string          `json:"order_code"`
	CustomerID    *int64          `json:"customer_id"`
	CustomerEmail string          `json:"customer_email"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (e OrderCreated) EventType() string { return "OrderCreated" }

// OrderStatusChanged is emitted after a status transition is committed.
type OrderStatusChanged struct {
	OrderID          int64            `json:"order_id"`
	PreviousStatus   string           `json:"previous_status"`
	Status           string           `json:"status"`
	ReservationState ReservationState `json:"reservation_state"`
	StockMode        StockMode        `json:"stock_mode,omitempty"`
	ChangedAt        time.Time        `json:"changed_at"`
}

func (e OrderStatusChanged) EventType() string { return "OrderStatusChanged" }
