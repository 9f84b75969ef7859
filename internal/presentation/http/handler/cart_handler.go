package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartHandler drives the cashier's cart and checkout
type CartHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, checkoutService *service.CheckoutService) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService}
}

// Get returns the caller's cart
func (h *CartHandler) Get(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", cart)
}

// AddItem adds one unit of a menu item
func (h *CartHandler) AddItem(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), actor.UserID, req.MenuItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// UpdateQuantity changes a line by delta; lines that reach zero are removed
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), actor.UserID, c.Param("itemId"), req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", cart)
}

// SetNotes sets the kitchen note of a line
func (h *CartHandler) SetNotes(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.SetNotes(c.Request.Context(), actor.UserID, c.Param("itemId"), req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", cart)
}

// RemoveItem drops a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), actor.UserID, c.Param("itemId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", cart)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), actor.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared", nil)
}

// Quote prices the cart with an optional discount without placing an order
func (h *CartHandler) Quote(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	discount := decimal.Zero
	if req.DiscountPercent != "" {
		d, err := decimal.NewFromString(req.DiscountPercent)
		if err != nil {
			response.Error(c, apperror.NewFieldError("discount_percent", "Must be a number"))
			return
		}
		discount = d
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), actor.UserID, discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote calculated", quote)
}

// Checkout finalises the cart into a completed order
// @Summary Checkout
// @Description Prices the cart, stores a completed order and clears the cart. Discounts require the admin role.
// @Tags pos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CheckoutRequest true "Checkout details"
// @Success 201 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /pos/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// unknown methods stay None and fail validation with a field error
	method, _ := enum.ParsePaymentMethod(req.PaymentMethod)

	order, err := h.checkoutService.Checkout(c.Request.Context(), &service.CheckoutInput{
		Actor: actor,
		Customer: entity.CustomerDetails{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		},
		DiscountPercent: req.DiscountPercent,
		PaymentMethod:   method,
		EmailReceipt:    req.EmailReceipt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order completed", order)
}
