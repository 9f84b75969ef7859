package request

import "github.com/shopspring/decimal"

// OrderItemRequest is one requested line of a remote order
type OrderItemRequest struct {
	MenuItem string `json:"menuItem"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest represents a remote order
type CreateOrderRequest struct {
	Items    []OrderItemRequest `json:"items"`
	Customer CustomerRequest    `json:"customer"`
}

// UpdateOrderStatusRequest changes the status of a pending order
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderFilterRequest represents query parameters for listing orders
type OrderFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	Source    string `form:"source"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// AnalyticsRequest selects the analytics window
type AnalyticsRequest struct {
	Period string `form:"period"`
	From   string `form:"from"`
	To     string `form:"to"`
}

// ExportRequest filters exports by month (YYYY-MM)
type ExportRequest struct {
	Month string `form:"month"`
}

// PrintRequest selects which document to send to the printer
type PrintRequest struct {
	Document string `json:"document"`
}

// TaxSettingsRequest is a partial update of the tax configuration
type TaxSettingsRequest struct {
	Scheme          *string          `json:"scheme"`
	FlatRatePercent *decimal.Decimal `json:"flat_rate_percent"`
	CGSTPercent     *decimal.Decimal `json:"cgst_percent"`
	SGSTPercent     *decimal.Decimal `json:"sgst_percent"`
	IGSTPercent     *decimal.Decimal `json:"igst_percent"`
	GSTEnabled      *bool            `json:"gst_enabled"`
}
