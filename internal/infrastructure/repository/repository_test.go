package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/internal/infrastructure/database"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOrder(code string, ts time.Time, status enum.OrderStatus, method enum.PaymentMethod, total string) *entity.Order {
	return &entity.Order{
		Code:                   code,
		Status:                 status,
		PaymentMethod:          method,
		SubtotalBeforeDiscount: money(total),
		FinalTotal:             money(total),
		Timestamp:              ts,
		Customer:               entity.CustomerDetails{Name: "Guest", Phone: "9999"},
		Items: []entity.OrderItem{
			{MenuItemID: "e1", Name: "Espresso", UnitPrice: money(total), Quantity: 1, LineTotal: money(total), Position: 0},
		},
	}
}

func TestSettingsRepository_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(setupTestDB(t))

	_, ok, err := repo.Get(ctx, "taxSettings")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Put(ctx, "taxSettings", `{"scheme":"gst"}`))
	require.NoError(t, repo.Put(ctx, "taxSettings", `{"scheme":"flat"}`))

	v, ok, err := repo.Get(ctx, "taxSettings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"scheme":"flat"}`, v)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, "taxSettings"))
	require.NoError(t, repo.Delete(ctx, "taxSettings"))
	_, ok, _ = repo.Get(ctx, "taxSettings")
	assert.False(t, ok)
}

func TestSettingsRepository_MissingKeyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	var queryErrs []error
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:query_errors", func(tx *gorm.DB) {
		if tx.Error != nil {
			queryErrs = append(queryErrs, tx.Error)
		}
	}))
	repo := NewSettingsRepository(db)

	v, ok, err := repo.Get(ctx, "orderCounter")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.Empty(t, queryErrs)

	require.NoError(t, repo.Put(ctx, "orderCounter", `{"date":"2026-10-16","counter":3}`))
	v, ok, err = repo.Get(ctx, "orderCounter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"date":"2026-10-16","counter":3}`, v)
}

func TestOrderRepository_CreateAndGetWithItems(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(setupTestDB(t))

	o := newOrder("ORD-0001", time.Now(), enum.OrderStatusCompleted, enum.PaymentMethodCash, "382.32")
	o.Items = append(o.Items, entity.OrderItem{MenuItemID: "c1", Name: "Cappuccino", UnitPrice: money("220"), Quantity: 2, LineTotal: money("440"), Position: 1})
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ORD-0001", got.Code)
	assert.True(t, got.FinalTotal.Equal(money("382.32")))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Espresso", got.Items[0].Name)
	assert.Equal(t, "Cappuccino", got.Items[1].Name)
	_, offset := got.Timestamp.Zone()
	assert.Zero(t, offset)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(setupTestDB(t))
	base := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

	for i, code := range []string{"ORD-0001", "ORD-0002", "ORD-0003"} {
		require.NoError(t, repo.Create(ctx, newOrder(code, base.Add(time.Duration(i)*time.Minute), enum.OrderStatusCompleted, enum.PaymentMethodCash, "100")))
	}

	orders, total, err := repo.List(ctx, &domainRepo.OrderFilterParams{Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-0003", orders[0].Code)
	assert.Equal(t, "ORD-0002", orders[1].Code)

	orders, total, err = repo.List(ctx, &domainRepo.OrderFilterParams{Pagination: pagination.DefaultPagination(), Search: "ord-0001"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "ORD-0001", orders[0].Code)
}

func TestOrderRepository_ListPagesStableOnEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(setupTestDB(t))
	ts := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, newOrder(fmt.Sprintf("ORD-%04d", i), ts, enum.OrderStatusCompleted, enum.PaymentMethodCash, "100")))
	}

	page := func(n int) []string {
		orders, total, err := repo.List(ctx, &domainRepo.OrderFilterParams{Pagination: &pagination.PaginationParams{Page: n, PerPage: 2}})
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		ids := make([]string, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID.String())
		}
		return ids
	}

	var walked []string
	for n := 1; n <= 3; n++ {
		walked = append(walked, page(n)...)
	}
	require.Len(t, walked, 5)
	seen := make(map[string]bool)
	for _, id := range walked {
		assert.False(t, seen[id], "order %s listed twice", id)
		seen[id] = true
	}

	var again []string
	for n := 1; n <= 3; n++ {
		again = append(again, page(n)...)
	}
	assert.Equal(t, walked, again)
}

func TestOrderRepository_DeleteCompletedBetween(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	today := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	yesterday := newOrder("ORD-0001", today.Add(-2*time.Hour), enum.OrderStatusCompleted, enum.PaymentMethodCash, "100")
	todayDone := newOrder("ORD-0001", today.Add(3*time.Hour), enum.OrderStatusCompleted, enum.PaymentMethodCash, "100")
	todayPending := newOrder("ORD-0002", today.Add(4*time.Hour), enum.OrderStatusPending, enum.PaymentMethodNone, "100")
	for _, o := range []*entity.Order{yesterday, todayDone, todayPending} {
		require.NoError(t, repo.Create(ctx, o))
	}

	n, err := repo.DeleteCompletedBetween(ctx, today, today.Add(24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, _ := repo.GetByID(ctx, yesterday.ID)
	assert.NotNil(t, got)
	got, _ = repo.GetByID(ctx, todayPending.ID)
	assert.NotNil(t, got)
	got, _ = repo.GetByID(ctx, todayDone.ID)
	assert.Nil(t, got)

	var orphanItems int64
	db.Model(&entity.OrderItem{}).Where("order_id = ?", todayDone.ID).Count(&orphanItems)
	assert.Zero(t, orphanItems)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestAnalyticsRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	orders := NewOrderRepository(db)
	analytics := NewAnalyticsRepository(db)
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	require.NoError(t, orders.Create(ctx, newOrder("ORD-0001", day.Add(9*time.Hour), enum.OrderStatusCompleted, enum.PaymentMethodCash, "382.32")))
	require.NoError(t, orders.Create(ctx, newOrder("ORD-0002", day.Add(10*time.Hour), enum.OrderStatusCompleted, enum.PaymentMethodCash, "118")))
	require.NoError(t, orders.Create(ctx, newOrder("ORD-0003", day.Add(11*time.Hour), enum.OrderStatusCompleted, enum.PaymentMethodUPI, "50")))
	require.NoError(t, orders.Create(ctx, newOrder("ORD-0004", day.Add(12*time.Hour), enum.OrderStatusPending, enum.PaymentMethodCash, "999")))

	completed, err := analytics.CompletedOrders(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, completed, 3)
	assert.Equal(t, "ORD-0001", completed[0].Code)
	assert.Len(t, completed[0].Items, 1)

	cash, err := analytics.SumCompleted(ctx, enum.PaymentMethodCash, day, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "500.32", cash.StringFixed(2))

	cash, err = analytics.SumCompleted(ctx, enum.PaymentMethodCash, day.Add(10*time.Hour), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "118.00", cash.StringFixed(2))

	none, err := analytics.SumCompleted(ctx, enum.PaymentMethodCard, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}

func TestMenuItemRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuItemRepository(setupTestDB(t))

	for i, name := range []string{"Espresso", "Latte", "Croissant"} {
		cat := "coffee"
		if name == "Croissant" {
			cat = "pastries"
		}
		require.NoError(t, repo.Create(ctx, &entity.MenuItem{Name: name, Price: money("100"), Category: cat, IsAvailable: name != "Latte", Position: i}))
	}

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts["coffee"])
	assert.EqualValues(t, 1, counts["pastries"])

	available, err := repo.List(ctx, "coffee", true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Espresso", available[0].Name)

	all, err := repo.List(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, repo.Reorder(ctx, []string{all[2].ID, all[0].ID, all[1].ID}))
	all, err = repo.List(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Croissant", "Espresso", "Latte"}, []string{all[0].Name, all[1].Name, all[2].Name})

	max, err := repo.MaxPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, max)
}

func TestReceiptRepository_DuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	orders := NewOrderRepository(db)
	receipts := NewReceiptRepository(db)

	o := newOrder("ORD-0001", time.Now(), enum.OrderStatusCompleted, enum.PaymentMethodCash, "100")
	require.NoError(t, orders.Create(ctx, o))

	require.NoError(t, receipts.Create(ctx, &entity.Receipt{OrderID: o.ID, Number: "RCPT-1", Total: o.FinalTotal}))
	err := receipts.Create(ctx, &entity.Receipt{OrderID: o.ID, Number: "RCPT-2", Total: o.FinalTotal})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 409, appErr.Code)
	assert.Equal(t, "Receipt already exists for this order.", appErr.Message)

	byOrder, err := receipts.GetByOrderID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, byOrder)

	full, err := receipts.GetByID(ctx, byOrder.ID)
	require.NoError(t, err)
	require.NotNil(t, full.Order)
	assert.Len(t, full.Order.Items, 1)
}

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &entity.User{Name: "Asha", Email: "Asha@Cafe.Test", Role: entity.RoleCashier}))

	u, err := repo.GetByEmail(ctx, "asha@cafe.test")
	require.NoError(t, err)
	require.NotNil(t, u)

	users, total, err := repo.List(ctx, pagination.DefaultPagination(), "ASHA")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)

	n, err := repo.CountByRole(ctx, entity.RoleCashier)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
