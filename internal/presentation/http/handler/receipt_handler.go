package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipts issued for completed orders
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Issue creates the receipt of a completed order
func (h *ReceiptHandler) Issue(c *gin.Context) {
	orderID, err := parseID(c, "orderId")
	if err != nil {
		response.Error(c, err)
		return
	}

	receipt, err := h.receiptService.IssueReceipt(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", receipt)
}

// List returns every receipt
func (h *ReceiptHandler) List(c *gin.Context) {
	receipts, err := h.receiptService.ListReceipts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", receipts)
}

// ListMine returns the caller's receipts
func (h *ReceiptHandler) ListMine(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	receipts, err := h.receiptService.ListMyReceipts(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", receipts)
}

// Get returns one receipt to its owner or an admin
func (h *ReceiptHandler) Get(c *gin.Context) {
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

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}
