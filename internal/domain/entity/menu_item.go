package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem is a sellable item in the café catalog
type MenuItem struct {
	ID          string          `gorm:"size:64;primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category    string          `gorm:"size:64;not null;index" json:"category"`
	ImageRef    string          `gorm:"size:512" json:"image_ref,omitempty"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	IsPopular   bool            `gorm:"not null" json:"is_popular"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
	Position    int             `gorm:"not null;default:0;index" json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate generates an id before creating a new menu item
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// MenuItemPatch carries the fields of a partial update; nil means unchanged
type MenuItemPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	ImageRef    *string
	Description *string
	IsPopular   *bool
	IsAvailable *bool
}

// Apply merges the patch into the item
func (p MenuItemPatch) Apply(m *MenuItem) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Price != nil {
		m.Price = RoundMoney(*p.Price)
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.ImageRef != nil {
		m.ImageRef = *p.ImageRef
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.IsPopular != nil {
		m.IsPopular = *p.IsPopular
	}
	if p.IsAvailable != nil {
		m.IsAvailable = *p.IsAvailable
	}
}
