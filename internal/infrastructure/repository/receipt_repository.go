package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	err := conn(ctx, r.db).Omit("Order").Create(receipt).Error
	if err != nil && isUniqueViolation(err) {
		return apperror.NewConflictError("Receipt already exists for this order.")
	}
	return err
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Preload("Order").
		Preload("Order.Items", orderedItems).
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).First(&receipt, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) List(ctx context.Context, userID *uuid.UUID) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	query := conn(ctx, r.db).Model(&entity.Receipt{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	err := query.Order("issued_at DESC").Find(&receipts).Error
	return receipts, err
}

// isUniqueViolation matches the duplicate-key errors of postgres and sqlite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
