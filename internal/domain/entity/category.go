package entity

import "time"

// AllCategoryID is the reserved catch-all category
const AllCategoryID = "all"

// Category groups menu items for the cashier view
type Category struct {
	ID           string    `gorm:"size:64;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	DisplayColor string    `gorm:"size:32" json:"display_color"`
	IconRef      string    `gorm:"size:64" json:"icon_ref"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	ItemCount    int64     `gorm:"-" json:"item_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// IsAll reports whether this is the reserved catch-all category
func (c *Category) IsAll() bool {
	return c.ID == AllCategoryID
}
