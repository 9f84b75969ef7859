package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/shopspring/decimal"
)

// CheckoutService turns a cashier's cart into a completed order
type CheckoutService struct {
	carts          *CartService
	tax            *TaxService
	sequence       *OrderSequence
	orderRepo      repository.OrderRepository
	renderer       *RenderService
	notifier       Notifier
	defaultCashier string
	now            func() time.Time
	mu             sync.Mutex
}

// NewCheckoutService creates a new checkout service. renderer may be nil.
func NewCheckoutService(
	carts *CartService,
	tax *TaxService,
	sequence *OrderSequence,
	orderRepo repository.OrderRepository,
	renderer *RenderService,
	notifier Notifier,
	defaultCashier string,
) *CheckoutService {
	return &CheckoutService{
		carts:          carts,
		tax:            tax,
		sequence:       sequence,
		orderRepo:      orderRepo,
		renderer:       renderer,
		notifier:       notifierOrNop(notifier),
		defaultCashier: defaultCashier,
		now:            time.Now,
	}
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	Actor           Actor
	Customer        entity.CustomerDetails
	DiscountPercent decimal.Decimal
	PaymentMethod   enum.PaymentMethod
	EmailReceipt    bool
}

// Quote is the live price of the actor's cart
type Quote struct {
	Cart      *entity.Cart           `json:"cart"`
	Breakdown PriceBreakdown         `json:"breakdown"`
	Tax       entity.TaxConfiguration `json:"tax"`
	NextCode  string                 `json:"next_code"`
}

func validateDiscount(p decimal.Decimal) *apperror.FieldError {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return &apperror.FieldError{Field: "discount_percent", Message: "Discount must be between 0 and 100"}
	}
	return nil
}

// Quote prices the actor's cart without changing anything
func (s *CheckoutService) Quote(ctx context.Context, owner uuid.UUID, discountPercent decimal.Decimal) (*Quote, error) {
	if fe := validateDiscount(discountPercent); fe != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{*fe})
	}
	cart, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	tax, err := s.tax.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := s.sequence.Peek(ctx)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Cart:      cart,
		Breakdown: Price(CartLines(cart), discountPercent, tax),
		Tax:       tax,
		NextCode:  next,
	}, nil
}

func (s *CheckoutService) validate(input *CheckoutInput) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Customer.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer.name", Message: "Customer name is required"})
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer.phone", Message: "Customer phone is required"})
	}
	if fe := validateDiscount(input.DiscountPercent); fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	if !input.PaymentMethod.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_method", Message: "Payment method must be cash, card or upi"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	if input.DiscountPercent.IsPositive() && !input.Actor.IsAdmin() {
		return apperror.ErrAdminRequired
	}
	return nil
}

// Checkout prices the cart, records a completed order, advances the order
// sequence and clears the cart. Nothing changes when any step fails before
// the order is stored.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Order, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner := input.Actor.UserID
	cart, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}
	tax, err := s.tax.Load(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := Price(CartLines(cart), input.DiscountPercent, tax)

	cashier := strings.TrimSpace(input.Actor.Name)
	if cashier == "" {
		cashier = s.defaultCashier
	}

	items := make([]entity.OrderItem, len(cart.Items))
	for i, it := range cart.Items {
		items[i] = entity.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Category:   it.Category,
			UnitPrice:  it.Price,
			Quantity:   it.Quantity,
			Notes:      it.Notes,
			LineTotal:  it.LineTotal(),
			Position:   i,
		}
	}

	var userID *uuid.UUID
	if owner != uuid.Nil {
		userID = &owner
	}

	order := &entity.Order{
		UserID:                 userID,
		Source:                 enum.OrderSourcePOS,
		Status:                 enum.OrderStatusCompleted,
		SubtotalBeforeDiscount: breakdown.RawSubtotal,
		DiscountPercent:        breakdown.DiscountPercent,
		DiscountAmount:         breakdown.DiscountAmount,
		TaxRatePercent:         breakdown.TaxRatePercent,
		TaxAmount:              breakdown.TaxAmount,
		FinalTotal:             breakdown.FinalTotal,
		PaymentMethod:          input.PaymentMethod,
		CashierName:            cashier,
		Customer: entity.CustomerDetails{
			Name:  strings.TrimSpace(input.Customer.Name),
			Phone: strings.TrimSpace(input.Customer.Phone),
			Email: strings.TrimSpace(input.Customer.Email),
		},
		Timestamp: s.now(),
		Items:     items,
	}

	err = s.sequence.Next(ctx, func(ctx context.Context, code string) error {
		order.Code = code
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, owner); err != nil {
		log.Error().Err(err).Str("order", order.Code).Msg("Order stored but cart could not be cleared")
	}

	log.Info().
		Str("order", order.Code).
		Str("cashier", cashier).
		Str("total", order.FinalTotal.StringFixed(entity.MoneyPlaces)).
		Str("payment", order.PaymentMethod.String()).
		Msg("Checkout completed")

	s.notifier.Broadcast(realtime.EventOrderCompleted, order)
	s.notifier.Broadcast(realtime.EventKOTCreated, order)

	if s.renderer != nil {
		s.renderer.AutoPrint(order)
		if input.EmailReceipt {
			s.renderer.EmailReceiptAsync(order)
		}
	}

	return order, nil
}
