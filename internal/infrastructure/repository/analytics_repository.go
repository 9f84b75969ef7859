package repository

import (
	"context"
	"time"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// CompletedOrders loads completed orders with their items in [from, to)
func (r *analyticsRepository) CompletedOrders(ctx context.Context, from, to time.Time) ([]entity.Order, error) {
	var orders []entity.Order
	err := conn(ctx, r.db).
		Scopes(Completed, TimeRange("timestamp", from, to)).
		Preload("Items", orderedItems).
		Order("timestamp ASC").
		Find(&orders).Error
	return orders, err
}

// SumCompleted returns the total of completed orders paid with method in [from, to)
func (r *analyticsRepository) SumCompleted(ctx context.Context, method enum.PaymentMethod, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := conn(ctx, r.db).
		Model(&entity.Order{}).
		Scopes(Completed, TimeRange("timestamp", from, to)).
		Where("payment_method = ?", method).
		Select("COALESCE(SUM(final_total), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	// sqlite sums REAL columns, so round back to money places
	return entity.RoundMoney(row.Total), nil
}
