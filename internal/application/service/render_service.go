package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/printer"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// thermalCurrency replaces the currency symbol on ESC/POS output; most
// printer code pages have no rupee glyph.
const thermalCurrency = "Rs."

// Mailer sends rendered HTML documents
type Mailer interface {
	Enabled() bool
	SendHTML(to, subject, htmlBody string) error
}

// RenderedOrder holds both printable documents of an order
type RenderedOrder struct {
	ReceiptHTML string `json:"receipt_html"`
	KOTHTML     string `json:"kot_html"`
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
	AutoPrint  bool   `json:"auto_print"`
}

// RenderService formats receipts and kitchen tickets as HTML and ESC/POS
// and sends them to the thermal printer or the customer's inbox.
type RenderService struct {
	header      entity.ReceiptHeader
	loc         *time.Location
	printer     printer.Printer
	printerType string
	width       int
	autoPrint   bool
	mailer      Mailer
	orderRepo   repository.OrderRepository
	tmpl        *template.Template
}

// RenderOptions configures a RenderService
type RenderOptions struct {
	Header      entity.ReceiptHeader
	Location    *time.Location
	Printer     printer.Printer
	PrinterType string
	Width       int
	AutoPrint   bool
	Mailer      Mailer
}

// NewRenderService creates a new render service
func NewRenderService(orderRepo repository.OrderRepository, opts RenderOptions) *RenderService {
	if opts.Printer == nil {
		opts.Printer = printer.NewNullPrinter()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Width <= 0 {
		opts.Width = printer.Width58mm
	}
	symbol := opts.Header.CurrencySymbol
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return symbol + d.StringFixed(entity.MoneyPlaces) },
	}).ParseFS(templateFS, "templates/*.html"))

	return &RenderService{
		header:      opts.Header,
		loc:         opts.Location,
		printer:     opts.Printer,
		printerType: opts.PrinterType,
		width:       opts.Width,
		autoPrint:   opts.AutoPrint,
		mailer:      opts.Mailer,
		orderRepo:   orderRepo,
		tmpl:        tmpl,
	}
}

// Header returns the shop identity printed on documents
func (s *RenderService) Header() entity.ReceiptHeader {
	return s.header
}

type documentData struct {
	Header      entity.ReceiptHeader
	Order       *entity.Order
	Date        string
	Time        string
	FooterLines []string
}

type pageData struct {
	Title    string
	Sections []template.HTML
}

func (s *RenderService) data(order *entity.Order) documentData {
	ts := order.Timestamp.In(s.loc)
	return documentData{
		Header:      s.header,
		Order:       order,
		Date:        ts.Format("02/01/2006"),
		Time:        ts.Format("3:04:05 pm"),
		FooterLines: s.footerLines(),
	}
}

func (s *RenderService) footerLines() []string {
	var lines []string
	for _, l := range strings.Split(s.header.Footer, "/") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func (s *RenderService) section(name string, d documentData) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, d); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func (s *RenderService) page(title string, sections ...template.HTML) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page", pageData{Title: title, Sections: sections}); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// Render returns the customer receipt and the kitchen ticket as two HTML pages
func (s *RenderService) Render(order *entity.Order) (*RenderedOrder, error) {
	d := s.data(order)
	receipt, err := s.section("receipt", d)
	if err != nil {
		return nil, err
	}
	kot, err := s.section("kot", d)
	if err != nil {
		return nil, err
	}

	receiptHTML, err := s.page("Receipt "+order.Code, receipt)
	if err != nil {
		return nil, err
	}
	kotHTML, err := s.page("KOT "+order.Code, kot)
	if err != nil {
		return nil, err
	}
	return &RenderedOrder{ReceiptHTML: receiptHTML, KOTHTML: kotHTML}, nil
}

// RenderCombined returns one HTML page with the receipt followed by the
// kitchen ticket on a new page
func (s *RenderService) RenderCombined(order *entity.Order) (string, error) {
	d := s.data(order)
	receipt, err := s.section("receipt", d)
	if err != nil {
		return "", err
	}
	kot, err := s.section("kot", d)
	if err != nil {
		return "", err
	}
	return s.page("Order "+order.Code, receipt, kot)
}

func thermalMoney(d decimal.Decimal) string {
	return thermalCurrency + d.StringFixed(entity.MoneyPlaces)
}

// ReceiptESCPOS converts an order into a thermal customer receipt
func (s *RenderService) ReceiptESCPOS(order *entity.Order) []byte {
	d := s.data(order)
	doc := printer.NewDocument(s.width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(s.header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if s.header.Tagline != "" {
		doc.Text(s.header.Tagline)
	}
	if s.header.Address != "" {
		doc.Text(s.header.Address)
	}
	if s.header.Phone != "" {
		doc.TextF("Ph: %s", s.header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", order.Code).
		KeyValue("Date:", d.Date).
		KeyValue("Time:", d.Time).
		KeyValue("Cashier:", order.CashierName).
		KeyValue("Customer:", order.Customer.Name).
		KeyValue("Phone:", order.Customer.Phone)

	doc.Separator('-')

	for _, item := range order.Items {
		doc.ItemLine(item.Quantity, item.Name, thermalMoney(item.LineTotal))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", thermalMoney(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", thermalMoney(order.SubtotalBeforeDiscount))
	if order.DiscountAmount.IsPositive() {
		doc.KeyValue(fmt.Sprintf("Discount (%s%%):", order.DiscountPercent), "-"+thermalMoney(order.DiscountAmount))
	}
	doc.KeyValue(fmt.Sprintf("Tax (%s%%):", order.TaxRatePercent), thermalMoney(order.TaxAmount))
	doc.SetBold(true).
		KeyValue("TOTAL:", thermalMoney(order.FinalTotal)).
		SetBold(false)
	doc.KeyValue("Payment:", order.PaymentMethod.Label())

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed()
	for _, l := range d.FooterLines {
		doc.Text(l)
	}
	doc.LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// KOTESCPOS converts an order into a thermal kitchen ticket without prices
func (s *RenderService) KOTESCPOS(order *entity.Order) []byte {
	d := s.data(order)
	doc := printer.NewDocument(s.width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(s.header.ShopName).
		SetFontSize(printer.FontDouble).
		Text("KOT").
		SetFontSize(printer.FontNormal).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('=')

	doc.SetBold(true).
		KeyValue("Order:", "#"+order.Code).
		SetBold(false).
		KeyValue("Date:", d.Date).
		KeyValue("Time:", d.Time).
		KeyValue("Cashier:", order.CashierName).
		KeyValue("Customer:", order.Customer.Name).
		Separator('=')

	for _, item := range order.Items {
		doc.SetBold(true).QtyLine(item.Name, item.Quantity).SetBold(false)
		if item.Notes != "" {
			doc.TextF("  * %s", item.Notes)
		}
	}

	doc.Separator('=').
		Banner(fmt.Sprintf("TOTAL ITEMS: %d", order.ItemCount())).
		FeedLines(3).
		Cut()

	return doc.Bytes()
}

// PrintReceipt sends the customer receipt to the printer
func (s *RenderService) PrintReceipt(order *entity.Order) error {
	if err := s.printer.Print(s.ReceiptESCPOS(order)); err != nil {
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// PrintKOT sends the kitchen ticket to the printer
func (s *RenderService) PrintKOT(order *entity.Order) error {
	if err := s.printer.Print(s.KOTESCPOS(order)); err != nil {
		return fmt.Errorf("failed to print KOT: %w", err)
	}
	return nil
}

// PrintAll sends the receipt and the kitchen ticket as one job
func (s *RenderService) PrintAll(order *entity.Order) error {
	data := append(s.ReceiptESCPOS(order), s.KOTESCPOS(order)...)
	if err := s.printer.Print(data); err != nil {
		return fmt.Errorf("failed to print order: %w", err)
	}
	return nil
}

// AutoPrint prints the order in the background when auto-print is enabled.
// Failures are logged only.
func (s *RenderService) AutoPrint(order *entity.Order) {
	if !s.autoPrint {
		return
	}
	go func() {
		if err := s.PrintAll(order); err != nil {
			log.Error().Err(err).Str("order", order.Code).Msg("Auto-print failed")
		}
	}()
}

// EmailReceipt sends the receipt HTML to the customer's email address
func (s *RenderService) EmailReceipt(order *entity.Order) error {
	if order.Customer.Email == "" {
		return apperror.NewFieldError("email", "Customer has no email address")
	}
	if s.mailer == nil || !s.mailer.Enabled() {
		return apperror.NewBadRequestError("Email is not configured")
	}
	doc, err := s.Render(order)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s receipt %s", s.header.ShopName, order.Code)
	if err := s.mailer.SendHTML(order.Customer.Email, subject, doc.ReceiptHTML); err != nil {
		return fmt.Errorf("failed to email receipt: %w", err)
	}
	return nil
}

// EmailReceiptAsync emails the receipt in the background when the order has
// an address and a mailer is configured
func (s *RenderService) EmailReceiptAsync(order *entity.Order) {
	if order.Customer.Email == "" || s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	go func() {
		if err := s.EmailReceipt(order); err != nil {
			log.Error().Err(err).Str("order", order.Code).Msg("Receipt email failed")
		}
	}()
}

func (s *RenderService) loadOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// RenderOrder loads an order and renders it
func (s *RenderService) RenderOrder(ctx context.Context, id uuid.UUID) (*RenderedOrder, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Render(order)
}

// RenderOrderCombined loads an order and renders the combined page
func (s *RenderService) RenderOrderCombined(ctx context.Context, id uuid.UUID) (string, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return "", err
	}
	return s.RenderCombined(order)
}

// PrintOrder loads an order and prints the requested document: receipt, kot or both
func (s *RenderService) PrintOrder(ctx context.Context, id uuid.UUID, document string) error {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return err
	}
	switch document {
	case "receipt":
		err = s.PrintReceipt(order)
	case "kot":
		err = s.PrintKOT(order)
	case "", "both":
		err = s.PrintAll(order)
	default:
		return apperror.NewFieldError("document", "Must be receipt, kot or both")
	}
	if err != nil {
		log.Error().Err(err).Str("order", order.Code).Msg("Printer error")
		return apperror.NewAppError(http.StatusBadGateway, err.Error())
	}
	return nil
}

// EmailOrder loads an order and emails its receipt
func (s *RenderService) EmailOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return err
	}
	return s.EmailReceipt(order)
}

// GetStatus returns printer connection status.
func (s *RenderService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		Width:      s.width,
		AutoPrint:  s.autoPrint,
	}
}

// TestPrint sends a sample receipt to the printer and returns it
func (s *RenderService) TestPrint() (*entity.Order, error) {
	order := &entity.Order{
		Code:                   "TEST-0001",
		Timestamp:              time.Now(),
		CashierName:            "System",
		Customer:               entity.CustomerDetails{Name: "Printer Test", Phone: "-"},
		SubtotalBeforeDiscount: decimal.NewFromInt(20),
		DiscountPercent:        decimal.Zero,
		DiscountAmount:         decimal.Zero,
		TaxRatePercent:         decimal.Zero,
		TaxAmount:              decimal.Zero,
		FinalTotal:             decimal.NewFromInt(20),
		PaymentMethod:          enum.PaymentMethodCash,
		Items: []entity.OrderItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(10)},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(10)},
		},
	}

	if err := s.PrintReceipt(order); err != nil {
		return order, fmt.Errorf("test print failed: %w", err)
	}
	return order, nil
}
