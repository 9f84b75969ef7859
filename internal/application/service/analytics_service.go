package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

const (
	firstHour   = 8
	lastHour    = 22
	topItemsMax = 5

	// units sold in a day that mark a product popular
	popularSoldMin = 5
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// AnalyticsService aggregates completed orders into dashboard figures. It
// only reads history.
type AnalyticsService struct {
	repo repository.AnalyticsRepository
	loc  *time.Location
	now  func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo repository.AnalyticsRepository, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{repo: repo, loc: loc, now: time.Now}
}

// AnalyticsRange selects the orders to aggregate. Period "today" wins over
// dates. From and To are calendar days in the shop timezone, both inclusive.
type AnalyticsRange struct {
	Period string
	From   string
	To     string
}

// Summary holds the headline figures
type Summary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	OrderCount        int             `json:"order_count"`
	UniqueCustomers   int             `json:"unique_customers"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ItemsSold         int             `json:"items_sold"`
	AvgItemsPerOrder  decimal.Decimal `json:"avg_items_per_order"`
	PeakHour          string          `json:"peak_hour"`
}

// TopItem is a best seller by revenue
type TopItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// Bucket is one bar of a histogram
type Bucket struct {
	Label   string          `json:"label"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Analytics is the dashboard payload
type Analytics struct {
	From          *time.Time `json:"from,omitempty"`
	To            *time.Time `json:"to,omitempty"`
	Summary       Summary    `json:"summary"`
	TopItems      []TopItem  `json:"top_items"`
	Hourly        []Bucket   `json:"hourly"`
	Weekday       []Bucket   `json:"weekday"`
	PaymentMethod []Bucket   `json:"payment_methods"`
}

// HourLabel formats an hour of the day on a 12-hour clock: "8 AM", "12 PM", "3 PM"
func HourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

func (s *AnalyticsService) parseDay(field, v string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", v, s.loc)
	if err != nil {
		return time.Time{}, apperror.NewFieldError(field, "Date must be YYYY-MM-DD")
	}
	return t, nil
}

// Bounds resolves a range to [from, to) instants; zero values are open
func (s *AnalyticsService) Bounds(r AnalyticsRange) (time.Time, time.Time, error) {
	var from, to time.Time
	switch r.Period {
	case "today":
		from, to = dayBounds(s.now(), s.loc)
		return from, to, nil
	case "", "custom", "all":
	default:
		return from, to, apperror.NewFieldError("period", "Period must be today or custom")
	}

	var err error
	if r.From != "" {
		if from, err = s.parseDay("from", r.From); err != nil {
			return from, to, err
		}
	}
	if r.To != "" {
		if to, err = s.parseDay("to", r.To); err != nil {
			return from, to, err
		}
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, apperror.NewFieldError("to", "End date must not be before start date")
	}
	return from, to, nil
}

// Compute loads the completed orders in range and aggregates them
func (s *AnalyticsService) Compute(ctx context.Context, r AnalyticsRange) (*Analytics, error) {
	from, to, err := s.Bounds(r)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.CompletedOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}

	a := Aggregate(orders, s.loc)
	if !from.IsZero() {
		f := from.In(s.loc)
		a.From = &f
	}
	if !to.IsZero() {
		t := to.In(s.loc)
		a.To = &t
	}
	return a, nil
}

// Aggregate computes dashboard figures over orders. Hours and weekdays are
// taken in loc. Orders that are not completed are ignored.
func Aggregate(orders []entity.Order, loc *time.Location) *Analytics {
	revenue := decimal.Zero
	tax := decimal.Zero
	count := 0
	itemsSold := 0
	phones := make(map[string]struct{})

	hourly := make([]Bucket, lastHour-firstHour+1)
	for i := range hourly {
		hourly[i] = Bucket{Label: HourLabel(firstHour + i), Revenue: decimal.Zero}
	}
	weekdayIndex := make(map[time.Weekday]int, len(weekdayOrder))
	weekday := make([]Bucket, len(weekdayOrder))
	for i, d := range weekdayOrder {
		weekdayIndex[d] = i
		weekday[i] = Bucket{Label: d.String()[:3], Revenue: decimal.Zero}
	}

	type itemAgg struct {
		TopItem
		first int
	}
	items := make(map[string]*itemAgg)
	payments := make(map[string]*Bucket)
	var paymentOrder []string

	for _, o := range orders {
		if !o.IsCompleted() {
			continue
		}
		count++
		revenue = revenue.Add(o.FinalTotal)
		tax = tax.Add(o.TaxAmount)
		if o.Customer.Phone != "" {
			phones[o.Customer.Phone] = struct{}{}
		}

		ts := o.Timestamp.In(loc)
		if h := ts.Hour(); h >= firstHour && h <= lastHour {
			b := &hourly[h-firstHour]
			b.Orders++
			b.Revenue = b.Revenue.Add(o.FinalTotal)
		}
		wb := &weekday[weekdayIndex[ts.Weekday()]]
		wb.Orders++
		wb.Revenue = wb.Revenue.Add(o.FinalTotal)

		label := o.PaymentMethod.Label()
		pb, ok := payments[label]
		if !ok {
			pb = &Bucket{Label: label, Revenue: decimal.Zero}
			payments[label] = pb
			paymentOrder = append(paymentOrder, label)
		}
		pb.Orders++
		pb.Revenue = pb.Revenue.Add(o.FinalTotal)

		for _, it := range o.Items {
			itemsSold += it.Quantity
			key := it.MenuItemID
			if key == "" {
				key = "name:" + it.Name
			}
			agg, ok := items[key]
			if !ok {
				agg = &itemAgg{TopItem: TopItem{MenuItemID: it.MenuItemID, Name: it.Name, Revenue: decimal.Zero}, first: len(items)}
				items[key] = agg
			}
			agg.Quantity += it.Quantity
			agg.Revenue = agg.Revenue.Add(it.LineTotal)
		}
	}

	ranked := make([]*itemAgg, 0, len(items))
	for _, it := range items {
		ranked = append(ranked, it)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		return ranked[i].first < ranked[j].first
	})
	top := make([]TopItem, 0, topItemsMax)
	for i := 0; i < len(ranked) && i < topItemsMax; i++ {
		top = append(top, ranked[i].TopItem)
	}

	methods := make([]Bucket, 0, len(paymentOrder))
	for _, label := range paymentOrder {
		methods = append(methods, *payments[label])
	}

	summary := Summary{
		TotalRevenue:      entity.RoundMoney(revenue),
		TotalTax:          entity.RoundMoney(tax),
		OrderCount:        count,
		UniqueCustomers:   len(phones),
		AverageOrderValue: decimal.Zero,
		ItemsSold:         itemsSold,
		AvgItemsPerOrder:  decimal.Zero,
		PeakHour:          "N/A",
	}
	if count > 0 {
		n := decimal.NewFromInt(int64(count))
		summary.AverageOrderValue = entity.RoundMoney(revenue.Div(n))
		summary.AvgItemsPerOrder = decimal.NewFromInt(int64(itemsSold)).Div(n).Round(1)
	}
	peak := 0
	for _, b := range hourly {
		if b.Orders > peak {
			peak = b.Orders
			summary.PeakHour = b.Label
		}
	}

	return &Analytics{
		Summary:       summary,
		TopItems:      top,
		Hourly:        hourly,
		Weekday:       weekday,
		PaymentMethod: methods,
	}
}

// ProductSale is one product's sales today with the change against yesterday
type ProductSale struct {
	MenuItemID   string          `json:"menu_item_id,omitempty"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AveragePrice decimal.Decimal `json:"average_price"`
	TrendPercent decimal.Decimal `json:"trend_percent"`
	IsPopular    bool            `json:"is_popular"`
}

// ProductSalesReport lists today's products, best revenue first. Categories
// holds "all" followed by every category sold today.
type ProductSalesReport struct {
	Category   string        `json:"category"`
	Categories []string      `json:"categories"`
	Products   []ProductSale `json:"products"`
}

// ProductSales reports today's per-product sales. An empty category or "all"
// keeps every product.
func (s *AnalyticsService) ProductSales(ctx context.Context, category string) (*ProductSalesReport, error) {
	today, tomorrow := dayBounds(s.now(), s.loc)
	orders, err := s.repo.CompletedOrders(ctx, today.AddDate(0, 0, -1), tomorrow)
	if err != nil {
		return nil, err
	}
	return ProductSalesSince(orders, today, category), nil
}

// ProductSalesSince aggregates orders placed at or after dayStart and
// compares the quantities with orders placed before it.
func ProductSalesSince(orders []entity.Order, dayStart time.Time, category string) *ProductSalesReport {
	if category == "" {
		category = "all"
	}

	type productAgg struct {
		ProductSale
		first int
	}
	today := make(map[string]*productAgg)
	yesterday := make(map[string]int)
	categories := []string{"all"}
	seenCategory := make(map[string]bool)

	for _, o := range orders {
		if !o.IsCompleted() {
			continue
		}
		isToday := !o.Timestamp.Before(dayStart)
		for _, it := range o.Items {
			key := it.MenuItemID
			if key == "" {
				key = "name:" + it.Name
			}
			if !isToday {
				yesterday[key] += it.Quantity
				continue
			}
			agg, ok := today[key]
			if !ok {
				agg = &productAgg{
					ProductSale: ProductSale{MenuItemID: it.MenuItemID, Name: it.Name, Category: it.Category, TotalRevenue: decimal.Zero},
					first:       len(today),
				}
				today[key] = agg
				if it.Category != "" && !seenCategory[it.Category] {
					seenCategory[it.Category] = true
					categories = append(categories, it.Category)
				}
			}
			agg.TotalSold += it.Quantity
			agg.TotalRevenue = agg.TotalRevenue.Add(it.LineTotal)
		}
	}

	ranked := make([]*productAgg, 0, len(today))
	for key, agg := range today {
		if category != "all" && agg.Category != category {
			continue
		}
		agg.TotalRevenue = entity.RoundMoney(agg.TotalRevenue)
		agg.AveragePrice = decimal.Zero
		if agg.TotalSold > 0 {
			agg.AveragePrice = entity.RoundMoney(agg.TotalRevenue.Div(decimal.NewFromInt(int64(agg.TotalSold))))
		}
		agg.TrendPercent = salesTrend(agg.TotalSold, yesterday[key])
		agg.IsPopular = agg.TotalSold >= popularSoldMin
		ranked = append(ranked, agg)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].TotalRevenue.Cmp(ranked[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return ranked[i].first < ranked[j].first
	})

	products := make([]ProductSale, 0, len(ranked))
	for _, p := range ranked {
		products = append(products, p.ProductSale)
	}
	return &ProductSalesReport{Category: category, Categories: categories, Products: products}
}

// salesTrend is the percentage change from before to now, or 100 for a
// product that sold nothing before.
func salesTrend(now, before int) decimal.Decimal {
	if before == 0 {
		if now > 0 {
			return decimal.NewFromInt(100)
		}
		return decimal.Zero
	}
	diff := decimal.NewFromInt(int64(now - before))
	return diff.Div(decimal.NewFromInt(int64(before))).Mul(decimal.NewFromInt(100)).Round(1)
}
