package repository

import (
	"context"
	"time"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// AnalyticsRepository defines read-only queries over order history
type AnalyticsRepository interface {
	// CompletedOrders returns completed orders with items in [from, to), oldest
	// first. A zero bound is open.
	CompletedOrders(ctx context.Context, from, to time.Time) ([]entity.Order, error)

	// SumCompleted totals finalTotal of completed orders in [from, to) paid
	// with the given method.
	SumCompleted(ctx context.Context, method enum.PaymentMethod, from, to time.Time) (decimal.Decimal, error)
}
