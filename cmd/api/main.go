package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/config"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/internal/infrastructure/database"
	"github.com/sangkips/cafe-pos/internal/infrastructure/repository"
	"github.com/sangkips/cafe-pos/internal/presentation/http/handler"
	"github.com/sangkips/cafe-pos/internal/presentation/http/middleware"
	"github.com/sangkips/cafe-pos/internal/presentation/http/routes"
	"github.com/sangkips/cafe-pos/pkg/email"
	"github.com/sangkips/cafe-pos/pkg/logger"
	"github.com/sangkips/cafe-pos/pkg/printer"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/sangkips/cafe-pos/pkg/utils"
)

const idempotencySweep = time.Hour

func main() {
	cfg := config.Load()
	logger.Init(cfg.App.Env, cfg.App.Debug)
	log := logger.Component("api")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default data")
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize printer, printing disabled")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	hub := realtime.NewHub()
	loc := cfg.Shop.Location()

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	taxService := service.NewTaxService(settingsRepo, hub)
	sequence := service.NewOrderSequence(settingsRepo, repository.NewTransactor(db), loc, cfg.Shop.OrderPrefix)
	cartService := service.NewCartService(settingsRepo, menuRepo)
	catalogService := service.NewCatalogService(menuRepo, categoryRepo, hub)
	renderService := service.NewRenderService(orderRepo, service.RenderOptions{
		Header: entity.ReceiptHeader{
			ShopName:       cfg.Shop.Name,
			Tagline:        cfg.Shop.Tagline,
			Address:        cfg.Shop.Address,
			Phone:          cfg.Shop.Phone,
			Footer:         cfg.Shop.Footer,
			CurrencySymbol: cfg.Shop.CurrencySymbol,
		},
		Location:    loc,
		Printer:     thermalPrinter,
		PrinterType: cfg.Printer.Type,
		Width:       cfg.Printer.Width,
		AutoPrint:   cfg.Printer.AutoPrint,
		Mailer:      emailService,
	})
	checkoutService := service.NewCheckoutService(cartService, taxService, sequence, orderRepo, renderService, hub, cfg.Shop.DefaultCashier)
	historyService := service.NewOrderHistoryService(orderRepo, analyticsRepo, settingsRepo, loc, hub)
	analyticsService := service.NewAnalyticsService(analyticsRepo, loc)
	exportService := service.NewExportService(orderRepo, analyticsRepo, catalogService, taxService, sequence, historyService, renderService.Header(), loc)
	orderService := service.NewOrderService(orderRepo, menuRepo, taxService, sequence, hub)
	receiptService := service.NewReceiptService(receiptRepo, orderRepo)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Menu:     handler.NewMenuHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService, checkoutService),
		Order:    handler.NewOrderHandler(orderService, loc),
		Receipt:  handler.NewReceiptHandler(receiptService),
		History:  handler.NewHistoryHandler(historyService, analyticsService, loc),
		Settings: handler.NewSettingsHandler(taxService),
		Printer:  handler.NewPrinterHandler(renderService),
		Export:   handler.NewExportHandler(exportService),
		WS:       handler.NewWSHandler(hub, cfg.CORS.AllowedOrigins),
	}

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepIdempotencyKeys(ctx, idempotencyRepo)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Str("env", cfg.App.Env).Str("shop", cfg.Shop.Name).Msgf("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// sweepIdempotencyKeys purges expired keys until ctx is cancelled
func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository) {
	log := logger.Component("idempotency")
	ticker := time.NewTicker(idempotencySweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to purge expired keys")
				continue
			}
			if n > 0 {
				log.Info().Int64("purged", n).Msg("Expired idempotency keys removed")
			}
		}
	}
}
