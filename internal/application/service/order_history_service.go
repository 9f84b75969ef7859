package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/pagination"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/shopspring/decimal"
)

// OrderHistoryService reads and resets recorded orders and tracks the
// daily cash drawer
type OrderHistoryService struct {
	orderRepo     repository.OrderRepository
	analyticsRepo repository.AnalyticsRepository
	settings      repository.SettingsRepository
	loc           *time.Location
	notifier      Notifier
	now           func() time.Time
}

// NewOrderHistoryService creates a new order history service
func NewOrderHistoryService(
	orderRepo repository.OrderRepository,
	analyticsRepo repository.AnalyticsRepository,
	settings repository.SettingsRepository,
	loc *time.Location,
	notifier Notifier,
) *OrderHistoryService {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHistoryService{
		orderRepo:     orderRepo,
		analyticsRepo: analyticsRepo,
		settings:      settings,
		loc:           loc,
		notifier:      notifierOrNop(notifier),
		now:           time.Now,
	}
}

// ListOrders lists orders newest first
func (s *OrderHistoryService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
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

// GetOrder retrieves an order by ID
func (s *OrderHistoryService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ResetAll deletes every order and restarts the order sequence and the cash drawer
func (s *OrderHistoryService) ResetAll(ctx context.Context) (int64, error) {
	n, err := s.orderRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, key := range []string{keyOrderCounter, keyLastCashReset} {
		if err := s.settings.Delete(ctx, key); err != nil {
			return n, err
		}
	}

	log.Warn().Int64("orders", n).Msg("Order history reset")
	s.notifier.Broadcast(realtime.EventOrdersReset, map[string]interface{}{"scope": "all", "deleted": n})
	return n, nil
}

// ResetToday deletes the completed orders of the current shop-local day.
// Earlier days are untouched.
func (s *OrderHistoryService) ResetToday(ctx context.Context) (int64, error) {
	from, to := dayBounds(s.now(), s.loc)
	n, err := s.orderRepo.DeleteCompletedBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	log.Warn().Int64("orders", n).Str("day", dayKey(from, s.loc)).Msg("Today's orders reset")
	s.notifier.Broadcast(realtime.EventOrdersReset, map[string]interface{}{"scope": "today", "deleted": n})
	return n, nil
}

// CashDrawer is today's cash takings since the drawer was last emptied
type CashDrawer struct {
	Total     decimal.Decimal `json:"total"`
	Since     time.Time       `json:"since"`
	LastReset *time.Time      `json:"last_reset,omitempty"`
}

type cashResetState struct {
	At time.Time `json:"at"`
}

func (s *OrderHistoryService) lastCashReset(ctx context.Context) (*time.Time, error) {
	var st cashResetState
	found, err := loadJSON(ctx, s.settings, keyLastCashReset, &st)
	if err != nil && !errors.Is(err, errCorrupt) {
		return nil, err
	}
	if !found || st.At.IsZero() {
		return nil, nil
	}
	return &st.At, nil
}

// CashToday sums today's completed cash orders taken after the last drawer reset
func (s *OrderHistoryService) CashToday(ctx context.Context) (*CashDrawer, error) {
	from, to := dayBounds(s.now(), s.loc)
	last, err := s.lastCashReset(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil && last.After(from) {
		from = *last
	}

	total, err := s.analyticsRepo.SumCompleted(ctx, enum.PaymentMethodCash, from, to)
	if err != nil {
		return nil, err
	}
	return &CashDrawer{Total: total, Since: from.In(s.loc), LastReset: last}, nil
}

// ResetCashDrawer records now as the point the drawer was emptied
func (s *OrderHistoryService) ResetCashDrawer(ctx context.Context) (*CashDrawer, error) {
	at := s.now().UTC()
	if err := saveJSON(ctx, s.settings, keyLastCashReset, cashResetState{At: at}); err != nil {
		return nil, err
	}
	s.notifier.Broadcast(realtime.EventCashDrawerReset, map[string]time.Time{"at": at})
	return s.CashToday(ctx)
}
