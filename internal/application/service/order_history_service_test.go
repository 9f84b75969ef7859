package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) sellAt(at time.Time, name, method string) {
	f.t.Helper()
	f.setNow(at)
	f.addToCart(f.cashier, name, 1)
	_, err := f.checkoutAs(f.cashier, method, "0")
	require.NoError(f.t, err)
}

func TestOrderHistory_ListAndGet(t *testing.T) {
	f := newFixture(t)
	f.sellAt(time.Date(2026, 3, 10, 9, 0, 0, 0, ist), "Espresso", "cash")
	f.sellAt(time.Date(2026, 3, 10, 10, 0, 0, 0, ist), "Latte", "card")

	page, err := f.history.ListOrders(f.ctx, &repository.OrderFilterParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "ORD-0002", page.Items[0].Code)
	assert.EqualValues(t, 2, page.Pagination.Total)

	order, err := f.history.GetOrder(f.ctx, page.Items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso", order.Items[0].Name)

	_, err = f.history.GetOrder(f.ctx, uuid.New())
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestOrderHistory_ResetTodayKeepsEarlierDays(t *testing.T) {
	f := newFixture(t)
	f.sellAt(time.Date(2026, 3, 9, 23, 50, 0, 0, ist), "Espresso", "cash")
	f.sellAt(time.Date(2026, 3, 10, 0, 10, 0, 0, ist), "Latte", "cash")
	f.sellAt(time.Date(2026, 3, 10, 18, 0, 0, 0, ist), "Croissant", "upi")

	n, err := f.history.ResetToday(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	left := f.allOrders()
	require.Len(t, left, 1)
	assert.Equal(t, "Espresso", left[0].Items[0].Name)
	assert.Contains(t, f.notifier.names(), realtime.EventOrdersReset)
}

func TestOrderHistory_ResetAllRestartsSequence(t *testing.T) {
	f := newFixture(t)
	f.sellAt(f.now, "Espresso", "cash")
	f.sellAt(f.now.Add(time.Minute), "Espresso", "cash")
	_, err := f.history.ResetCashDrawer(f.ctx)
	require.NoError(t, err)

	n, err := f.history.ResetAll(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Empty(t, f.allOrders())

	next, err := f.sequence.Peek(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", next)

	drawer, err := f.history.CashToday(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, drawer.LastReset)
}

func TestOrderHistory_CashDrawer(t *testing.T) {
	f := newFixture(t)
	f.sellAt(time.Date(2026, 3, 9, 20, 0, 0, 0, ist), "Club Sandwich", "cash")
	f.sellAt(time.Date(2026, 3, 10, 9, 0, 0, 0, ist), "Espresso", "cash")
	f.sellAt(time.Date(2026, 3, 10, 9, 5, 0, 0, ist), "Latte", "card")

	drawer, err := f.history.CashToday(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "212.40", drawer.Total.StringFixed(2))
	assert.Nil(t, drawer.LastReset)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, ist).Unix(), drawer.Since.Unix())

	f.setNow(time.Date(2026, 3, 10, 12, 0, 0, 0, ist))
	drawer, err = f.history.ResetCashDrawer(f.ctx)
	require.NoError(t, err)
	assert.True(t, drawer.Total.IsZero())
	require.NotNil(t, drawer.LastReset)
	assert.Contains(t, f.notifier.names(), realtime.EventCashDrawerReset)

	f.sellAt(time.Date(2026, 3, 10, 13, 0, 0, 0, ist), "Croissant", "cash")
	drawer, err = f.history.CashToday(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "177.00", drawer.Total.StringFixed(2))
}

func TestOrderHistory_CorruptCashResetIsIgnored(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.settings.Put(f.ctx, keyLastCashReset, "not json"))
	f.sellAt(f.now, "Espresso", "cash")

	drawer, err := f.history.CashToday(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, drawer.LastReset)
	assert.Equal(t, "212.40", drawer.Total.StringFixed(2))
}
