package request

import "github.com/shopspring/decimal"

// CreateMenuItemRequest is the body of POST /api/menu. Field names follow the
// menu API used by the online ordering front end.
type CreateMenuItemRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	IsPopular   bool            `json:"isPopular"`
	Available   *bool           `json:"available"`
}

// UpdateMenuItemRequest is a partial update; omitted fields are unchanged
type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"imageUrl"`
	Description *string          `json:"description"`
	IsPopular   *bool            `json:"isPopular"`
	Available   *bool            `json:"available"`
}

// MenuFilterRequest represents query parameters for listing the menu
type MenuFilterRequest struct {
	Category  string `form:"category"`
	Available bool   `form:"available"`
}

// ReorderRequest moves the item at FromIndex to ToIndex
type ReorderRequest struct {
	FromIndex *int `json:"from_index" binding:"required"`
	ToIndex   *int `json:"to_index" binding:"required"`
}

// CategoryRequest represents a create or update category request
type CategoryRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayColor string `json:"display_color"`
	IconRef      string `json:"icon_ref"`
}
