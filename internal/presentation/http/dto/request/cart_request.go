package request

import "github.com/shopspring/decimal"

// AddCartItemRequest adds one unit of a menu item
type AddCartItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
}

// UpdateQuantityRequest changes a line quantity by delta
type UpdateQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// UpdateNotesRequest sets the kitchen note of a line
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// CustomerRequest identifies the buyer
type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CheckoutRequest finalises the cashier's cart
type CheckoutRequest struct {
	Customer        CustomerRequest `json:"customer"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	PaymentMethod   string          `json:"payment_method"`
	EmailReceipt    bool            `json:"email_receipt"`
}

// QuoteRequest represents query parameters for a cart quote
type QuoteRequest struct {
	DiscountPercent string `form:"discount_percent"`
}
