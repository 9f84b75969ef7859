package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/pagination"
)

const dateLayout = "2006-01-02"

// orderFilter builds list parameters from the query string. Dates are shop
// calendar days and both ends are inclusive.
func orderFilter(c *gin.Context, loc *time.Location) (*repository.OrderFilterParams, error) {
	var filter request.OrderFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		return nil, apperror.NewBadRequestError("Invalid query parameters")
	}

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	params.Pagination.Validate()

	if filter.Status != "" {
		status, err := enum.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, apperror.NewFieldError("status", "Must be pending, completed or cancelled")
		}
		params.Status = &status
	}
	if filter.Source != "" {
		source, err := enum.ParseOrderSource(filter.Source)
		if err != nil {
			return nil, apperror.NewFieldError("source", "Must be pos, remote or import")
		}
		params.Source = &source
	}
	if filter.StartDate != "" {
		start, err := time.ParseInLocation(dateLayout, filter.StartDate, loc)
		if err != nil {
			return nil, apperror.NewFieldError("start_date", "Must be YYYY-MM-DD")
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, filter.EndDate, loc)
		if err != nil {
			return nil, apperror.NewFieldError("end_date", "Must be YYYY-MM-DD")
		}
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}
	return params, nil
}

// OrderHandler handles remote (online) orders
type OrderHandler struct {
	orderService *service.OrderService
	loc          *time.Location
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{orderService: orderService, loc: loc}
}

// Create handles placing a remote order
// @Summary Place order
// @Description Re-prices the requested items from the live menu and records a pending order
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateOrderRequest true "Order items"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{
			MenuItemID: item.MenuItem,
			Quantity:   item.Quantity,
		}
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		Actor: actor,
		Items: items,
		Customer: entity.CustomerDetails{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// List handles listing every order (admin)
func (h *OrderHandler) List(c *gin.Context) {
	params, err := orderFilter(c, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

// ListMine handles listing the caller's own orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := pagination.FromQuery(c.Query("page"), c.Query("per_page"))
	result, err := h.orderService.ListMyOrders(c.Request.Context(), actor, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

// Get handles getting a single order
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// UpdateStatus handles updating order status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewFieldError("status", "Must be pending, completed or cancelled"))
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Delete handles removing an order that is not completed
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order deleted successfully", nil)
}
