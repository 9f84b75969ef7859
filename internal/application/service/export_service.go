package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/pagination"
	"github.com/sangkips/cafe-pos/pkg/report"
	"github.com/shopspring/decimal"
)

// CSVHeaders is the column layout of the sales report
var CSVHeaders = []string{
	"Order ID", "Date", "Time", "Customer Name", "Customer Phone",
	"Items", "Total Amount", "Payment Method", "Cashier",
}

const (
	csvDateLayout = "02/01/2006"
	csvTimeLayout = "03:04:05 PM"
	recentOrders  = 15
)

var itemPattern = regexp.MustCompile(`^(.*\S)\s*\((\d+)x\)$`)

// ExportService produces sales reports and backups and imports CSV history
type ExportService struct {
	orderRepo     repository.OrderRepository
	analyticsRepo repository.AnalyticsRepository
	catalog       *CatalogService
	tax           *TaxService
	sequence      *OrderSequence
	history       *OrderHistoryService
	header        entity.ReceiptHeader
	loc           *time.Location
	now           func() time.Time
}

// NewExportService creates a new export service
func NewExportService(
	orderRepo repository.OrderRepository,
	analyticsRepo repository.AnalyticsRepository,
	catalog *CatalogService,
	tax *TaxService,
	sequence *OrderSequence,
	history *OrderHistoryService,
	header entity.ReceiptHeader,
	loc *time.Location,
) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{
		orderRepo:     orderRepo,
		analyticsRepo: analyticsRepo,
		catalog:       catalog,
		tax:           tax,
		sequence:      sequence,
		history:       history,
		header:        header,
		loc:           loc,
		now:           time.Now,
	}
}

// monthBounds parses YYYY-MM into [first of month, first of next month) in
// the shop timezone. An empty month is unbounded.
func (s *ExportService) monthBounds(month string) (time.Time, time.Time, error) {
	if month == "" {
		return time.Time{}, time.Time{}, nil
	}
	start, err := time.ParseInLocation("2006-01", month, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewFieldError("month", "Month must be YYYY-MM")
	}
	return start, start.AddDate(0, 1, 0), nil
}

// ReportFileName is the download name of a sales report
func ReportFileName(month, ext string) string {
	if month == "" {
		month = "all"
	}
	return fmt.Sprintf("sales_report_%s.%s", month, ext)
}

func (s *ExportService) completedInMonth(ctx context.Context, month string) ([]entity.Order, error) {
	from, to, err := s.monthBounds(month)
	if err != nil {
		return nil, err
	}
	return s.analyticsRepo.CompletedOrders(ctx, from, to)
}

// item names may contain the separator; it is backslash-escaped in the cell
var itemNameEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`)

// FormatItems renders order lines as "Latte (2x); Croissant (1x)"
func FormatItems(items []entity.OrderItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s (%dx)", itemNameEscaper.Replace(it.Name), it.Quantity)
	}
	return strings.Join(parts, "; ")
}

// splitItems splits on separators that are not escaped, keeping escapes
func splitItems(s string) []string {
	var parts []string
	var b strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == ';':
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	return append(parts, b.String())
}

func unescapeItemName(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// ParseItems reverses FormatItems. Prices and categories are not recoverable.
func ParseItems(s string) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	for _, part := range splitItems(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := itemPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("malformed item %q", part)
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("malformed quantity in %q", part)
		}
		items = append(items, entity.OrderItem{
			Name:      unescapeItemName(m[1]),
			Quantity:  qty,
			UnitPrice: decimal.Zero,
			LineTotal: decimal.Zero,
			Position:  len(items),
		})
	}
	return items, nil
}

func (s *ExportService) csvRow(o entity.Order) []string {
	ts := o.Timestamp.In(s.loc)
	return []string{
		o.Code,
		ts.Format(csvDateLayout),
		ts.Format(csvTimeLayout),
		o.Customer.Name,
		o.Customer.Phone,
		FormatItems(o.Items),
		o.FinalTotal.StringFixed(entity.MoneyPlaces),
		strings.ToUpper(o.PaymentMethod.String()),
		o.CashierName,
	}
}

// WriteCSV writes completed orders of a month (or all, when month is empty)
// as a sales report. Returns the number of orders written.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, month string) (int, error) {
	orders, err := s.completedInMonth(ctx, month)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeaders); err != nil {
		return 0, err
	}
	for _, o := range orders {
		if err := cw.Write(s.csvRow(o)); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(orders), cw.Error()
}

// ImportResult reports what a CSV import did
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *ExportService) parseRow(row []string, col map[string]int) (*entity.Order, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	code := get("Order ID")
	if code == "" {
		return nil, errors.New("missing order id")
	}
	total, err := decimal.NewFromString(get("Total Amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid total %q", get("Total Amount"))
	}
	items, err := ParseItems(get("Items"))
	if err != nil {
		return nil, err
	}

	ts := s.now()
	if d := get("Date"); d != "" {
		layout, value := csvDateLayout, d
		if t := get("Time"); t != "" {
			layout, value = csvDateLayout+" "+csvTimeLayout, d+" "+strings.ToUpper(t)
		}
		parsed, err := time.ParseInLocation(layout, value, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", value)
		}
		ts = parsed
	}

	method, err := enum.ParsePaymentMethod(get("Payment Method"))
	if err != nil {
		method = enum.PaymentMethodNone
	}

	total = entity.RoundMoney(total)
	return &entity.Order{
		Code:                   code,
		Source:                 enum.OrderSourceImport,
		Status:                 enum.OrderStatusCompleted,
		SubtotalBeforeDiscount: total,
		DiscountPercent:        decimal.Zero,
		DiscountAmount:         decimal.Zero,
		TaxRatePercent:         decimal.Zero,
		TaxAmount:              decimal.Zero,
		FinalTotal:             total,
		PaymentMethod:          method,
		CashierName:            get("Cashier"),
		Customer: entity.CustomerDetails{
			Name:  get("Customer Name"),
			Phone: get("Customer Phone"),
		},
		Timestamp: ts,
		Items:     items,
	}, nil
}

// ImportCSV appends orders from a sales report. The import is lossy: the
// subtotal equals the total, tax is zero and lines carry no prices. Rows
// that cannot be read are skipped and reported.
func (s *ExportService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, apperror.NewFieldError("file", "CSV file is empty")
	}
	if err != nil {
		return nil, apperror.NewFieldError("file", "CSV file could not be read")
	}
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{"Order ID", "Total Amount", "Items"} {
		if _, ok := col[required]; !ok {
			return nil, apperror.NewFieldError("file", "Missing column "+required)
		}
	}

	result := &ImportResult{}
	var orders []entity.Order
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		order, err := s.parseRow(row, col)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		orders = append(orders, *order)
	}

	if len(orders) > 0 {
		if err := s.orderRepo.CreateBatch(ctx, orders); err != nil {
			return nil, err
		}
	}
	result.Imported = len(orders)

	log.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("CSV import finished")
	return result, nil
}

// WriteXLSX writes the sales report as a workbook with order, item and
// summary sheets
func (s *ExportService) WriteXLSX(ctx context.Context, w io.Writer, month string) error {
	orders, err := s.completedInMonth(ctx, month)
	if err != nil {
		return err
	}

	orderRows := make([][]interface{}, len(orders))
	for i, o := range orders {
		row := s.csvRow(o)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cells[6] = o.FinalTotal.InexactFloat64()
		orderRows[i] = cells
	}

	a := Aggregate(orders, s.loc)
	itemRows := make([][]interface{}, len(a.TopItems))
	for i, it := range a.TopItems {
		itemRows[i] = []interface{}{it.Name, it.Quantity, it.Revenue.InexactFloat64()}
	}
	summaryRows := [][]interface{}{
		{"Total orders", a.Summary.OrderCount},
		{"Total revenue", a.Summary.TotalRevenue.InexactFloat64()},
		{"Total tax", a.Summary.TotalTax.InexactFloat64()},
		{"Average order value", a.Summary.AverageOrderValue.InexactFloat64()},
		{"Unique customers", a.Summary.UniqueCustomers},
		{"Items sold", a.Summary.ItemsSold},
		{"Peak hour", a.Summary.PeakHour},
	}

	return report.WriteXLSX(w,
		report.Table{Sheet: "Orders", Headers: CSVHeaders, Rows: orderRows},
		report.Table{Sheet: "Top Items", Headers: []string{"Item", "Quantity", "Revenue"}, Rows: itemRows},
		report.Table{Sheet: "Summary", Headers: []string{"Metric", "Value"}, Rows: summaryRows},
	)
}

// WritePDF writes a one-page summary: order count, revenue and the most
// recent orders
func (s *ExportService) WritePDF(ctx context.Context, w io.Writer, month string) error {
	orders, err := s.completedInMonth(ctx, month)
	if err != nil {
		return err
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.FinalTotal)
	}

	var rows [][]string
	for i := len(orders) - 1; i >= 0 && len(rows) < recentOrders; i-- {
		o := orders[i]
		rows = append(rows, []string{
			o.Code,
			o.Timestamp.In(s.loc).Format(csvDateLayout),
			thermalMoney(o.FinalTotal),
			o.Customer.Name,
		})
	}

	subtitle := s.header.ShopName
	if month != "" {
		subtitle += " - " + month
	}
	return report.WritePDF(w, report.Summary{
		Title:       "Sales Report",
		Subtitle:    subtitle,
		GeneratedAt: s.now().In(s.loc).Format("02 Jan 2006 15:04"),
		Figures: [][2]string{
			{"Total Orders", strconv.Itoa(len(orders))},
			{"Total Revenue", thermalMoney(entity.RoundMoney(revenue))},
		},
		Headers: []string{"Order", "Date", "Total", "Customer"},
		Widths:  []float64{35, 35, 35, 75},
		Rows:    rows,
	})
}

// Backup is a full snapshot of the café's data
type Backup struct {
	Timestamp     time.Time               `json:"timestamp"`
	OrderHistory  []entity.Order          `json:"orderHistory"`
	MenuItems     []entity.MenuItem       `json:"menuItems"`
	Categories    []entity.Category       `json:"categories"`
	TaxSettings   entity.TaxConfiguration `json:"taxSettings"`
	OrderCounter  map[string]interface{}  `json:"orderCounter"`
	LastCashReset *time.Time              `json:"lastCashReset"`
}

func (s *ExportService) allOrders(ctx context.Context) ([]entity.Order, error) {
	params := &repository.OrderFilterParams{Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100}}
	var all []entity.Order
	for {
		orders, total, err := s.orderRepo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, orders...)
		if len(orders) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		params.Pagination.Page++
	}
}

// Backup collects every order, the catalog and the stored settings
func (s *ExportService) Backup(ctx context.Context) (*Backup, error) {
	orders, err := s.allOrders(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.ListItems(ctx, entity.AllCategoryID, false)
	if err != nil {
		return nil, err
	}
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tax, err := s.tax.Load(ctx)
	if err != nil {
		return nil, err
	}
	counter, err := s.sequence.State(ctx)
	if err != nil {
		return nil, err
	}
	lastReset, err := s.history.lastCashReset(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	return &Backup{
		Timestamp:     s.now().UTC(),
		OrderHistory:  orders,
		MenuItems:     items,
		Categories:    categories,
		TaxSettings:   tax,
		OrderCounter:  counter,
		LastCashReset: lastReset,
	}, nil
}
