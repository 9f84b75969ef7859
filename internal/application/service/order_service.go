package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/pagination"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/shopspring/decimal"
)

// remoteCashier is recorded as the cashier of orders placed through the API
const remoteCashier = "Online"

// ErrInvalidMenuItem is returned when a remote order names an unknown or
// unavailable menu item
var ErrInvalidMenuItem = apperror.NewAppError(http.StatusBadRequest, "Invalid or unavailable menu item.")

// OrderService handles orders placed through the remote API
type OrderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuItemRepository
	tax       *TaxService
	sequence  *OrderSequence
	notifier  Notifier
	now       func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuItemRepository,
	tax *TaxService,
	sequence *OrderSequence,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		tax:       tax,
		sequence:  sequence,
		notifier:  notifierOrNop(notifier),
		now:       time.Now,
	}
}

// OrderItemInput represents an item in an order
type OrderItemInput struct {
	MenuItemID string
	Quantity   int
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	Actor    Actor
	Items    []OrderItemInput
	Customer entity.CustomerDetails
}

// CreateOrder prices the requested items from the current menu and records a
// pending order. Client prices are never trusted and no discount applies.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewFieldError("items", "At least one item is required")
	}

	// Merge repeated ids and keep first-seen order
	quantities := make(map[string]int, len(input.Items))
	var ids []string
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewFieldError("items", "Quantity must be at least 1 (item "+strconv.Itoa(i+1)+")")
		}
		if _, seen := quantities[item.MenuItemID]; !seen {
			ids = append(ids, item.MenuItemID)
		}
		quantities[item.MenuItemID] += item.Quantity
	}

	// Batch fetch all menu items in one query (prevents N+1)
	menuItems, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	menuMap := make(map[string]*entity.MenuItem, len(menuItems))
	for i := range menuItems {
		menuMap[menuItems[i].ID] = &menuItems[i]
	}

	lines := make([]PriceLine, 0, len(ids))
	items := make([]entity.OrderItem, 0, len(ids))
	for i, id := range ids {
		menuItem, exists := menuMap[id]
		if !exists || !menuItem.IsAvailable {
			return nil, ErrInvalidMenuItem
		}
		qty := quantities[id]
		lines = append(lines, PriceLine{UnitPrice: menuItem.Price, Quantity: qty})
		items = append(items, entity.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Category:   menuItem.Category,
			UnitPrice:  menuItem.Price,
			Quantity:   qty,
			LineTotal:  entity.RoundMoney(menuItem.Price.Mul(decimal.NewFromInt(int64(qty)))),
			Position:   i,
		})
	}

	tax, err := s.tax.Load(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := Price(lines, decimal.Zero, tax)

	customer := input.Customer
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		customer.Name = input.Actor.Name
	}
	if customer.Email == "" {
		customer.Email = input.Actor.Email
	}
	userID := input.Actor.UserID

	order := &entity.Order{
		UserID:                 &userID,
		Source:                 enum.OrderSourceRemote,
		Status:                 enum.OrderStatusPending,
		SubtotalBeforeDiscount: breakdown.RawSubtotal,
		DiscountPercent:        decimal.Zero,
		DiscountAmount:         decimal.Zero,
		TaxRatePercent:         breakdown.TaxRatePercent,
		TaxAmount:              breakdown.TaxAmount,
		FinalTotal:             breakdown.FinalTotal,
		PaymentMethod:          enum.PaymentMethodNone,
		CashierName:            remoteCashier,
		Customer:               customer,
		Timestamp:              s.now(),
		Items:                  items,
	}

	err = s.sequence.Next(ctx, func(ctx context.Context, code string) error {
		order.Code = code
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(realtime.EventKOTCreated, order)
	return order, nil
}

// GetOrder retrieves an order the actor may see: their own, or any for admins
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !actor.IsAdmin() && (order.UserID == nil || *order.UserID != actor.UserID) {
		return nil, apperror.ErrForbidden
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListMyOrders lists the actor's own orders
func (s *OrderService) ListMyOrders(ctx context.Context, actor Actor, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	userID := actor.UserID
	return s.ListOrders(ctx, &repository.OrderFilterParams{Pagination: params, UserID: &userID})
}

func (s *OrderService) mutable(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.IsCompleted() {
		return nil, apperror.NewConflictError("Completed orders cannot be changed")
	}
	return order, nil
}

// UpdateOrderStatus moves a pending or cancelled order to a new status.
// Completed orders are final.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	order, err := s.mutable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.notifier.Broadcast(realtime.EventOrderUpdated, order)
	if order.IsCompleted() {
		s.notifier.Broadcast(realtime.EventOrderCompleted, order)
	}
	return order, nil
}

// DeleteOrder removes an order that has not been completed
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.mutable(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}
