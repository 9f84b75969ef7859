package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

func (r *orderRepository) CreateBatch(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			if err := tx.Create(&orders[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Preload("Items", orderedItems).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := conn(ctx, r.db).Model(&entity.Order{}).
		Scopes(ContainsFold(params.Search, "code", "customer_name", "customer_phone"))

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Source != nil {
		query = query.Where("source = ?", *params.Source)
	}

	var from, to time.Time
	if params.StartDate != nil {
		from = *params.StartDate
	}
	if params.EndDate != nil {
		to = *params.EndDate
	}
	query = query.Scopes(TimeRange("timestamp", from, to))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items", orderedItems).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return conn(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Order{}, "id = ?", id).Error
	})
}

func (r *orderRepository) DeleteAll(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.Receipt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("1 = 1").Delete(&entity.Order{})
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}

func (r *orderRepository) DeleteCompletedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&entity.Order{}).Select("id").
			Scopes(Completed, TimeRange("timestamp", from, to))

		if err := tx.Where("order_id IN (?)", ids).Delete(&entity.Receipt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id IN (?)", ids).Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Scopes(Completed, TimeRange("timestamp", from, to)).Delete(&entity.Order{})
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}
