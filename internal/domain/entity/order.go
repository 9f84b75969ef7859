package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerDetails identifies who the order was for
type CustomerDetails struct {
	Name  string `gorm:"size:255" json:"name"`
	Phone string `gorm:"size:32;index" json:"phone"`
	Email string `gorm:"size:255" json:"email,omitempty"`
}

// Order is a priced snapshot of a sale. Completed orders are never modified.
type Order struct {
	ID                     uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Code                   string             `gorm:"size:32;not null;index" json:"code"`
	UserID                 *uuid.UUID         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Source                 enum.OrderSource   `gorm:"default:0" json:"source"`
	Status                 enum.OrderStatus   `gorm:"default:0;index" json:"status"`
	SubtotalBeforeDiscount decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal_before_discount"`
	DiscountPercent        decimal.Decimal    `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	DiscountAmount         decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TaxRatePercent         decimal.Decimal    `gorm:"type:decimal(5,2);not null" json:"tax_rate_percent"`
	TaxAmount              decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	FinalTotal             decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"final_total"`
	PaymentMethod          enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	CashierName            string             `gorm:"size:255" json:"cashier_name"`
	Customer               CustomerDetails    `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Timestamp              time.Time          `gorm:"not null;index" json:"timestamp"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID and normalises the timestamp to UTC
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	o.Timestamp = o.Timestamp.UTC()
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsCompleted reports whether the order has been paid and closed
func (o *Order) IsCompleted() bool {
	return o.Status == enum.OrderStatusCompleted
}

// ItemCount is the total quantity across lines
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// OrderItem is one priced line of an order
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"-"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	MenuItemID string          `gorm:"size:64;index" json:"menu_item_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Category   string          `gorm:"size:64" json:"category"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	Position   int             `gorm:"not null;default:0" json:"-"`
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
