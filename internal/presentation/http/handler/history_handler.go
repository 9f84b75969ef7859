package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/response"
)

// HistoryHandler serves order history, resets, the cash drawer and analytics
type HistoryHandler struct {
	historyService   *service.OrderHistoryService
	analyticsService *service.AnalyticsService
	loc              *time.Location
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.OrderHistoryService, analyticsService *service.AnalyticsService, loc *time.Location) *HistoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryHandler{historyService: historyService, analyticsService: analyticsService, loc: loc}
}

// List returns order history, newest first
func (h *HistoryHandler) List(c *gin.Context) {
	params, err := orderFilter(c, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.historyService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

// Get returns one order with its items
func (h *HistoryHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.historyService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// ResetAll deletes every order and restarts numbering
func (h *HistoryHandler) ResetAll(c *gin.Context) {
	n, err := h.historyService.ResetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "All orders deleted", gin.H{"deleted": n})
}

// ResetToday deletes today's completed orders
func (h *HistoryHandler) ResetToday(c *gin.Context) {
	n, err := h.historyService.ResetToday(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Today's orders deleted", gin.H{"deleted": n})
}

// CashDrawer returns today's cash takings since the last drawer reset
func (h *HistoryHandler) CashDrawer(c *gin.Context) {
	drawer, err := h.historyService.CashToday(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash drawer retrieved", drawer)
}

// ResetCashDrawer marks the drawer as emptied now
func (h *HistoryHandler) ResetCashDrawer(c *gin.Context) {
	drawer, err := h.historyService.ResetCashDrawer(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash drawer reset", drawer)
}

// Analytics aggregates completed orders over a period or date range
func (h *HistoryHandler) Analytics(c *gin.Context) {
	var req request.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.analyticsService.Compute(c.Request.Context(), service.AnalyticsRange{
		Period: req.Period,
		From:   req.From,
		To:     req.To,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Analytics computed", result)
}

// ProductSales reports today's per-product sales, optionally for one category
func (h *HistoryHandler) ProductSales(c *gin.Context) {
	report, err := h.analyticsService.ProductSales(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product sales computed", report)
}
