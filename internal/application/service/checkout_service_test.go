package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	infraRepo "github.com/sangkips/cafe-pos/internal/infrastructure/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_EspressoScenario(t *testing.T) {
	f := newFixture(t)
	f.addToCart(f.admin, "Espresso", 2)

	order, err := f.checkoutAs(f.admin, "cash", "10")
	require.NoError(t, err)

	assert.Equal(t, "ORD-0001", order.Code)
	assert.Equal(t, enum.OrderStatusCompleted, order.Status)
	assert.Equal(t, enum.OrderSourcePOS, order.Source)
	assert.Equal(t, "360.00", order.SubtotalBeforeDiscount.StringFixed(2))
	assert.Equal(t, "36.00", order.DiscountAmount.StringFixed(2))
	assert.Equal(t, "58.32", order.TaxAmount.StringFixed(2))
	assert.Equal(t, "382.32", order.FinalTotal.StringFixed(2))
	assert.Equal(t, "Mohammed Haris T A", order.CashierName)
	assert.Equal(t, "Priya", order.Customer.Name)

	stored, err := f.orderRepo.GetByID(f.ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, "360.00", stored.Items[0].LineTotal.StringFixed(2))

	cart, err := f.carts.Get(f.ctx, f.admin.UserID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	assert.Equal(t, []string{realtime.EventOrderCompleted, realtime.EventKOTCreated}, f.notifier.names())
}

func TestCheckout_SequenceAdvancesAndResetsDaily(t *testing.T) {
	f := newFixture(t)

	for _, want := range []string{"ORD-0001", "ORD-0002"} {
		f.addToCart(f.cashier, "Latte", 1)
		order, err := f.checkoutAs(f.cashier, "upi", "0")
		require.NoError(t, err)
		assert.Equal(t, want, order.Code)
	}

	f.setNow(time.Date(2026, 3, 11, 0, 5, 0, 0, ist))
	f.addToCart(f.cashier, "Latte", 1)
	order, err := f.checkoutAs(f.cashier, "card", "0")
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", order.Code)
}

func TestCheckout_DiscountNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	f.addToCart(f.cashier, "Espresso", 1)

	_, err := f.checkoutAs(f.cashier, "cash", "5")
	assert.Equal(t, apperror.ErrAdminRequired, err)

	// nothing changed
	cart, err := f.carts.Get(f.ctx, f.cashier.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItemCount())
	next, err := f.sequence.Peek(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", next)
	assert.Empty(t, f.notifier.names())

	order, err := f.checkoutAs(f.cashier, "cash", "0")
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", order.Code)
	assert.Equal(t, "Anu", order.CashierName)
}

func TestCheckout_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkoutAs(f.admin, "cash", "0")
	assert.Equal(t, apperror.ErrEmptyCart, err)

	f.addToCart(f.admin, "Espresso", 1)

	tests := []struct {
		name  string
		input CheckoutInput
		field string
	}{
		{"blank name", CheckoutInput{Customer: entity.CustomerDetails{Name: "  ", Phone: "1"}, PaymentMethod: enum.PaymentMethodCash}, "customer.name"},
		{"blank phone", CheckoutInput{Customer: entity.CustomerDetails{Name: "A", Phone: " "}, PaymentMethod: enum.PaymentMethodCash}, "customer.phone"},
		{"discount over 100", CheckoutInput{Customer: entity.CustomerDetails{Name: "A", Phone: "1"}, DiscountPercent: money("101"), PaymentMethod: enum.PaymentMethodCash}, "discount_percent"},
		{"negative discount", CheckoutInput{Customer: entity.CustomerDetails{Name: "A", Phone: "1"}, DiscountPercent: money("-1"), PaymentMethod: enum.PaymentMethodCash}, "discount_percent"},
		{"no payment method", CheckoutInput{Customer: entity.CustomerDetails{Name: "A", Phone: "1"}}, "payment_method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.Actor = f.admin
			_, err := f.checkout.Checkout(f.ctx, &in)
			appErr := apperror.GetAppError(err)
			require.Equal(t, 422, appErr.Code)
			require.Len(t, appErr.Errors, 1)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)

			cart, err := f.carts.Get(f.ctx, f.admin.UserID)
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, f.item("Espresso").ID, cart.Items[0].MenuItemID)
			assert.Equal(t, 1, cart.Items[0].Quantity)
		})
	}

	assert.Empty(t, f.allOrders())
	next, err := f.sequence.Peek(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", next)
}

// flakySettings fails writes of one key until healed
type flakySettings struct {
	repository.SettingsRepository
	mu      sync.Mutex
	failKey string
	err     error
}

func (s *flakySettings) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if key == s.failKey && err != nil {
		return err
	}
	return s.SettingsRepository.Put(ctx, key, value)
}

func (s *flakySettings) heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

func TestCheckout_CounterWriteFailureKeepsNothing(t *testing.T) {
	f := newFixture(t)
	diskFull := errors.New("disk full")
	settings := &flakySettings{SettingsRepository: f.settings, failKey: keyOrderCounter, err: diskFull}
	f.sequence = NewOrderSequence(settings, infraRepo.NewTransactor(f.db), ist, "ORD")
	f.checkout = NewCheckoutService(f.carts, f.tax, f.sequence, f.orderRepo, f.renderer, f.notifier, "Default Cashier")
	f.setNow(f.now)

	f.addToCart(f.cashier, "Espresso", 1)
	_, err := f.checkoutAs(f.cashier, "cash", "0")
	require.ErrorIs(t, err, diskFull)

	assert.Empty(t, f.allOrders())
	cart, err := f.carts.Get(f.ctx, f.cashier.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItemCount())
	assert.Empty(t, f.notifier.names())

	settings.heal()
	first, err := f.checkoutAs(f.cashier, "cash", "0")
	require.NoError(t, err)
	f.addToCart(f.cashier, "Latte", 1)
	second, err := f.checkoutAs(f.cashier, "cash", "0")
	require.NoError(t, err)

	assert.Equal(t, "ORD-0001", first.Code)
	assert.Equal(t, "ORD-0002", second.Code)
	assert.Len(t, f.allOrders(), 2)
}

func TestCheckout_DefaultCashierAndAutoPrint(t *testing.T) {
	f := newFixture(t)
	f.renderer.autoPrint = true
	anonymous := Actor{UserID: f.cashier.UserID, Role: entity.RoleCashier}
	f.addToCart(anonymous, "Croissant", 1)

	order, err := f.checkoutAs(anonymous, "cash", "0")
	require.NoError(t, err)
	assert.Equal(t, "Default Cashier", order.CashierName)

	assert.Eventually(t, func() bool { return len(f.printer.Jobs()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestCheckout_EmailsReceiptWhenAsked(t *testing.T) {
	f := newFixture(t)
	f.addToCart(f.cashier, "Croissant", 1)

	_, err := f.checkout.Checkout(f.ctx, &CheckoutInput{
		Actor:         f.cashier,
		Customer:      entity.CustomerDetails{Name: "Priya", Phone: "98765", Email: "priya@example.com"},
		PaymentMethod: enum.PaymentMethodCard,
		EmailReceipt:  true,
	})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return f.mailer.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestCheckout_QuoteFollowsTax(t *testing.T) {
	f := newFixture(t)
	f.addToCart(f.cashier, "Espresso", 1)

	q, err := f.checkout.Quote(f.ctx, f.cashier.UserID, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "212.40", q.Breakdown.FinalTotal.StringFixed(2))
	assert.Equal(t, "ORD-0001", q.NextCode)

	_, err = f.tax.Save(f.ctx, entity.TaxConfiguration{Scheme: enum.TaxSchemeFlat, FlatRatePercent: money("5")})
	require.NoError(t, err)

	q, err = f.checkout.Quote(f.ctx, f.cashier.UserID, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "189.00", q.Breakdown.FinalTotal.StringFixed(2))

	_, err = f.checkout.Quote(f.ctx, f.cashier.UserID, money("150"))
	assert.True(t, apperror.IsValidation(err))
}
