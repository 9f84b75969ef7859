package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
)

// IdempotencyRepository stores the first response of checkout and order
// requests so client retries replay it
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, stored *entity.IdempotencyKey) error
	// DeleteExpired reports how many keys were purged
	DeleteExpired(ctx context.Context) (int64, error)
}
