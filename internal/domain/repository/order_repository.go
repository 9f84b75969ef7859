package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Create stores the order and its items in one transaction
	Create(ctx context.Context, order *entity.Order) error
	// CreateBatch stores many orders, used by CSV import
	CreateBatch(ctx context.Context, orders []entity.Order) error
	// GetByID returns the order with items, or nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAll removes every order and returns how many were removed
	DeleteAll(ctx context.Context) (int64, error)
	// DeleteCompletedBetween removes completed orders with from <= timestamp < to
	DeleteCompletedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// OrderFilterParams contains filtering parameters for order queries.
// Results are newest first.
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	Source     *enum.OrderSource
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time // exclusive
}
