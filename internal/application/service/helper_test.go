package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/config"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/internal/infrastructure/database"
	infraRepo "github.com/sangkips/cafe-pos/internal/infrastructure/repository"
	"github.com/sangkips/cafe-pos/pkg/pagination"
	"github.com/sangkips/cafe-pos/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type event struct {
	Name string
	Data interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) Broadcast(name string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{Name: name, Data: data})
}

func (n *recordingNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Name
	}
	return out
}

type fakeMailer struct {
	mu      sync.Mutex
	enabled bool
	sent    []string
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendHTML(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	now time.Time

	settings   repository.SettingsRepository
	menuRepo   repository.MenuItemRepository
	orderRepo  repository.OrderRepository
	users      repository.UserRepository
	notifier   *recordingNotifier
	printer    *printer.MemoryPrinter
	mailer     *fakeMailer
	tax        *TaxService
	sequence   *OrderSequence
	carts      *CartService
	catalog    *CatalogService
	renderer   *RenderService
	checkout   *CheckoutService
	history    *OrderHistoryService
	analytics  *AnalyticsService
	exports    *ExportService
	orders     *OrderService
	receipts   *ReceiptService
	admin      Actor
	cashier    Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewSQLiteDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{}))

	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		now:      time.Date(2026, 3, 10, 14, 30, 0, 0, ist),
		notifier: &recordingNotifier{},
		printer:  printer.NewMemoryPrinter(),
		mailer:   &fakeMailer{enabled: true},
		admin:    Actor{UserID: uuid.New(), Name: "Mohammed Haris T A", Role: entity.RoleAdmin},
		cashier:  Actor{UserID: uuid.New(), Name: "Anu", Role: entity.RoleCashier},
	}

	f.settings = infraRepo.NewSettingsRepository(db)
	f.menuRepo = infraRepo.NewMenuItemRepository(db)
	f.orderRepo = infraRepo.NewOrderRepository(db)
	f.users = infraRepo.NewUserRepository(db)
	categoryRepo := infraRepo.NewCategoryRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsRepository(db)

	f.tax = NewTaxService(f.settings, f.notifier)
	f.sequence = NewOrderSequence(f.settings, infraRepo.NewTransactor(db), ist, "ORD")
	f.carts = NewCartService(f.settings, f.menuRepo)
	f.catalog = NewCatalogService(f.menuRepo, categoryRepo, f.notifier)
	f.renderer = NewRenderService(f.orderRepo, RenderOptions{
		Header: entity.ReceiptHeader{
			ShopName:       "HADIR'S CAFE",
			Tagline:        "Love at first sip",
			Address:        "Alapakkam, Chennai",
			Phone:          "+91 99418 39385",
			Footer:         "Thank you for visiting! / Visit us again soon.",
			CurrencySymbol: "₹",
		},
		Location:    ist,
		Printer:     f.printer,
		PrinterType: "memory",
		Width:       printer.Width58mm,
		Mailer:      f.mailer,
	})
	f.checkout = NewCheckoutService(f.carts, f.tax, f.sequence, f.orderRepo, f.renderer, f.notifier, "Default Cashier")
	f.history = NewOrderHistoryService(f.orderRepo, analyticsRepo, f.settings, ist, f.notifier)
	f.analytics = NewAnalyticsService(analyticsRepo, ist)
	f.exports = NewExportService(f.orderRepo, analyticsRepo, f.catalog, f.tax, f.sequence, f.history, f.renderer.Header(), ist)
	f.orders = NewOrderService(f.orderRepo, f.menuRepo, f.tax, f.sequence, f.notifier)
	f.receipts = NewReceiptService(infraRepo.NewReceiptRepository(db), f.orderRepo)

	f.setNow(f.now)
	return f
}

// setNow moves every service clock
func (f *fixture) setNow(now time.Time) {
	f.now = now
	clock := func() time.Time { return f.now }
	f.sequence.now = clock
	f.checkout.now = clock
	f.history.now = clock
	f.analytics.now = clock
	f.exports.now = clock
	f.orders.now = clock
	f.receipts.now = clock
}

func (f *fixture) item(name string) *entity.MenuItem {
	f.t.Helper()
	items, err := f.catalog.ListItems(f.ctx, entity.AllCategoryID, false)
	require.NoError(f.t, err)
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	f.t.Fatalf("menu item %q not seeded", name)
	return nil
}

func (f *fixture) addToCart(owner Actor, name string, qty int) {
	f.t.Helper()
	id := f.item(name).ID
	for i := 0; i < qty; i++ {
		_, err := f.carts.AddItem(f.ctx, owner.UserID, id)
		require.NoError(f.t, err)
	}
}

func (f *fixture) checkoutAs(actor Actor, method string, discount string) (*entity.Order, error) {
	return f.checkout.Checkout(f.ctx, &CheckoutInput{
		Actor:           actor,
		Customer:        entity.CustomerDetails{Name: "Priya", Phone: "9876543210"},
		DiscountPercent: decimal.RequireFromString(discount),
		PaymentMethod:   mustMethod(method),
	})
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustMethod(s string) enum.PaymentMethod {
	m, _ := enum.ParsePaymentMethod(s)
	return m
}

func (f *fixture) allOrders() []entity.Order {
	f.t.Helper()
	orders, _, err := f.orderRepo.List(f.ctx, &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
	})
	require.NoError(f.t, err)
	return orders
}
