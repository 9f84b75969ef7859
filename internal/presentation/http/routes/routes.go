package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/config"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/internal/presentation/http/handler"
	"github.com/sangkips/cafe-pos/internal/presentation/http/middleware"
	"github.com/sangkips/cafe-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Menu     *handler.MenuHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Receipt  *handler.ReceiptHandler
	History  *handler.HistoryHandler
	Settings *handler.SettingsHandler
	Printer  *handler.PrinterHandler
	Export   *handler.ExportHandler
	WS       *handler.WSHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

var (
	adminOnly = middleware.RequireRole(entity.RoleAdmin)
	staffOnly = middleware.RequireRole(entity.RoleAdmin, entity.RoleCashier)
)

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewClientRateLimiter(
			middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))
	}
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	api := router.Group("/api")
	{
		// Public routes are limited per IP
		public := api.Group("")
		public.Use(rateLimiter.Middleware())
		registerAuthRoutes(public, h)
		registerPublicMenuRoutes(public, h)

		// Protected routes are limited per user
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())

		protected.GET("/profile", h.Auth.Me)
		protected.PUT("/profile/password", h.Auth.ChangePassword)

		registerMenuAdminRoutes(protected, h)
		registerOrderRoutes(protected, h, idempotency)
		registerReceiptRoutes(protected, h)
		registerUserRoutes(protected, h)
		registerPOSRoutes(protected, h, idempotency)
	}

	return router
}

func registerAuthRoutes(api *gin.RouterGroup, h *Handlers) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerPublicMenuRoutes(api *gin.RouterGroup, h *Handlers) {
	api.GET("/menu", h.Menu.List)
	api.GET("/menu/:id", h.Menu.Get)
}

func registerMenuAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	menu := protected.Group("/menu")
	menu.Use(adminOnly)
	{
		menu.POST("", h.Menu.Create)
		menu.PUT("/:id", h.Menu.Update)
		menu.DELETE("/:id", h.Menu.Delete)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	orders := protected.Group("/orders")
	{
		orders.POST("", idempotency, h.Order.Create)
		orders.GET("/my", h.Order.ListMine)
		orders.GET("/:id", h.Order.Get)

		orders.GET("", adminOnly, h.Order.List)
		orders.PUT("/:id/status", adminOnly, h.Order.UpdateStatus)
		orders.DELETE("/:id", adminOnly, h.Order.Delete)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("/my", h.Receipt.ListMine)
		receipts.GET("/:id", h.Receipt.Get)

		receipts.GET("", adminOnly, h.Receipt.List)
		receipts.POST("/:orderId", adminOnly, h.Receipt.Issue)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/admin/users")
	users.Use(adminOnly)
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerPOSRoutes(protected *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	pos := protected.Group("/pos")
	pos.Use(staffOnly)

	pos.GET("/ws", h.WS.Serve)

	cart := pos.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:itemId", h.Cart.UpdateQuantity)
		cart.PUT("/items/:itemId/notes", h.Cart.SetNotes)
		cart.DELETE("/items/:itemId", h.Cart.RemoveItem)
	}
	pos.GET("/quote", h.Cart.Quote)
	pos.POST("/checkout", idempotency, h.Cart.Checkout)

	pos.GET("/tax", h.Settings.GetTax)
	pos.PUT("/tax", adminOnly, h.Settings.UpdateTax)

	categories := pos.Group("/categories")
	{
		categories.GET("", h.Menu.ListCategories)
		categories.POST("", adminOnly, h.Menu.CreateCategory)
		categories.PUT("/:id", adminOnly, h.Menu.UpdateCategory)
		categories.DELETE("/:id", adminOnly, h.Menu.DeleteCategory)
	}
	pos.PATCH("/menu/:id/availability", adminOnly, h.Menu.ToggleAvailability)
	pos.POST("/menu/reorder", adminOnly, h.Menu.Reorder)

	orders := pos.Group("/orders")
	{
		orders.GET("", h.History.List)
		orders.GET("/:id", h.History.Get)
		orders.GET("/:id/receipt", h.Printer.Receipt)
		orders.GET("/:id/kot", h.Printer.KOT)
		orders.GET("/:id/document", h.Printer.Combined)
		orders.POST("/:id/print", h.Printer.Print)
		orders.POST("/:id/email", h.Printer.Email)
	}

	resets := pos.Group("/resets")
	resets.Use(adminOnly)
	{
		resets.POST("/all", h.History.ResetAll)
		resets.POST("/today", h.History.ResetToday)
		resets.POST("/cash-drawer", h.History.ResetCashDrawer)
	}
	pos.GET("/cash-drawer", h.History.CashDrawer)
	pos.GET("/analytics", h.History.Analytics)
	pos.GET("/analytics/products", h.History.ProductSales)

	exports := pos.Group("/exports")
	exports.Use(adminOnly)
	{
		exports.GET("/csv", h.Export.CSV)
		exports.GET("/xlsx", h.Export.XLSX)
		exports.GET("/pdf", h.Export.PDF)
		exports.GET("/backup", h.Export.Backup)
		exports.POST("/import", h.Export.Import)
	}

	printer := pos.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
