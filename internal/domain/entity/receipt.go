package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is the issued-receipt record of a completed order. One per order.
type Receipt struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	UserID   *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Number   string          `gorm:"size:64;not null;uniqueIndex" json:"number"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	IssuedAt time.Time       `gorm:"not null" json:"issued_at"`

	// Relationships
	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.IssuedAt.IsZero() {
		r.IssuedAt = time.Now()
	}
	r.IssuedAt = r.IssuedAt.UTC()
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptHeader holds the shop identity printed at the top of receipts and KOTs.
type ReceiptHeader struct {
	ShopName       string `json:"shop_name"`
	Tagline        string `json:"tagline,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Footer         string `json:"footer,omitempty"`
	CurrencySymbol string `json:"currency_symbol"`
}
