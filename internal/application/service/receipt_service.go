package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/utils"
)

const receiptPrefix = "RCP"

// ReceiptService issues receipt records for completed orders
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
	orderRepo   repository.OrderRepository
	now         func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(receiptRepo repository.ReceiptRepository, orderRepo repository.OrderRepository) *ReceiptService {
	return &ReceiptService{receiptRepo: receiptRepo, orderRepo: orderRepo, now: time.Now}
}

// IssueReceipt records the receipt of a completed order. An order has at
// most one receipt.
func (s *ReceiptService) IssueReceipt(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !order.IsCompleted() {
		return nil, apperror.NewBadRequestError("Receipts can only be issued for completed orders.")
	}

	receipt := &entity.Receipt{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Number:   utils.GenerateReceiptNo(receiptPrefix),
		Total:    order.FinalTotal,
		IssuedAt: s.now(),
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	receipt.Order = order
	return receipt, nil
}

// GetReceipt returns a receipt its owner or an admin may see
func (s *ReceiptService) GetReceipt(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if !actor.IsAdmin() && (receipt.UserID == nil || *receipt.UserID != actor.UserID) {
		return nil, apperror.ErrForbidden
	}
	return receipt, nil
}

// ListReceipts lists every receipt
func (s *ReceiptService) ListReceipts(ctx context.Context) ([]entity.Receipt, error) {
	return s.list(ctx, nil)
}

// ListMyReceipts lists the actor's receipts
func (s *ReceiptService) ListMyReceipts(ctx context.Context, actor Actor) ([]entity.Receipt, error) {
	id := actor.UserID
	return s.list(ctx, &id)
}

func (s *ReceiptService) list(ctx context.Context, userID *uuid.UUID) ([]entity.Receipt, error) {
	receipts, err := s.receiptRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = []entity.Receipt{}
	}
	return receipts, nil
}
