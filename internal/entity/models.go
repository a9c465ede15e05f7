package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a storefront buyer. Identity is auth_user_id when present,
// otherwise email or phone.
type Customer struct {
	ID         int64     `json:"id"`
	AuthUserID *string   `json:"auth_user_id"`
	FullName   *string   `json:"full_name"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Product carries the stock view of a catalog product.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
	LowStockLevel *int            `json:"low_stock_level"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductVariant is a sellable variation of a product with its own stock.
type ProductVariant struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
}

// InventoryUpdate is an administrative stock overwrite.
type InventoryUpdate struct {
	StockQuantity int
	InStock       bool
	LowStockLevel *int
}

// Order is the order header. Customer and address fields are a snapshot
// taken at creation time.
type Order struct {
	ID                int64            `json:"id"`
	OrderNumber       int64            `json:"order_number"`
	OrderCode         string           `json:"order_code"`
	CustomerID        *int64           `json:"customer_id"`
	CustomerName      string           `json:"customer_name"`
	CustomerEmail     string           `json:"customer_email"`
	CustomerPhone     string           `json:"customer_phone"`
	AddressStreet     string           `json:"address_street"`
	AddressHouse      *string          `json:"address_house"`
	AddressApartment  *string          `json:"address_apartment"`
	AddressCity       string           `json:"address_city"`
	AddressRegion     *string          `json:"address_region"`
	AddressPostalCode string           `json:"address_postal_code"`
	AddressCountry    string           `json:"address_country"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	ShippingFee       decimal.Decimal  `json:"shipping_fee"`
	TaxAmount         decimal.Decimal  `json:"tax_amount"`
	DiscountAmount    decimal.Decimal  `json:"discount_amount"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	Status            string           `json:"status"`
	ReservationState  ReservationState `json:"reservation_state"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// OrderItem is a line item within an order. Prices are a snapshot and are
// never re-derived.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   *int64          `json:"product_id"`
	VariantID   *int64          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName *string         `json:"variant_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Payment records how an order was (or will be) paid. Nothing is charged here.
type Payment struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	TransactionID *string         `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StatusHistory is one row of the append-only order status log.
type StatusHistory struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	ChangedAt time.Time `json:"changed_at"`
}

// OrderFilter narrows order listings. Zero values mean "any".
type OrderFilter struct {
	Status     string
	Email      string
	Phone      string
	CustomerID *int64
}

// OrderSummary is an order annotated for list views.
type OrderSummary struct {
	Order
	ItemsCount    int     `json:"items_count"`
	PaymentStatus *string `json:"payment_status"`
}

// OrderDetail is an order with everything attached to it.
type OrderDetail struct {
	Order
	Items         []OrderItem     `json:"items"`
	Payments      []Payment       `json:"payments"`
	StatusHistory []StatusHistory `json:"status_history"`
}

// FAQ is a storefront question/answer entry.
type FAQ struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	IsPublished bool      `json:"is_published"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HeroSlide is a homepage banner image.
type HeroSlide struct {
	ID             int64     `json:"id"`
	ImageURL       string    `json:"image_url"`
	MobileImageURL *string   `json:"mobile_image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Trend is a curated "what's trending" card.
type Trend struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
