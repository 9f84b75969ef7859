package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
)

// ReceiptRepository defines the interface for issued receipts
type ReceiptRepository interface {
	// Create fails with a conflict when the order already has a receipt
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error)
	// List returns receipts newest first; a nil userID lists everyone's
	List(ctx context.Context, userID *uuid.UUID) ([]entity.Receipt, error)
}
