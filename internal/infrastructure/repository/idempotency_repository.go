package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var stored entity.IdempotencyKey
	err := conn(ctx, r.db).First(&stored, "key = ? AND user_id = ?", key, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &stored, err
}

// Create keeps the first response stored under a key; a concurrent retry
// that loses the race is not an error.
func (r *idempotencyRepository) Create(ctx context.Context, stored *entity.IdempotencyKey) error {
	err := conn(ctx, r.db).Create(stored).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := conn(ctx, r.db).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&entity.IdempotencyKey{})
	return res.RowsAffected, res.Error
}
