package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/cafe-pos/pkg/apperror"
)

// SettingsHandler exposes the tax configuration
type SettingsHandler struct {
	taxService *service.TaxService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(taxService *service.TaxService) *SettingsHandler {
	return &SettingsHandler{taxService: taxService}
}

// GetTax returns the active tax configuration
func (h *SettingsHandler) GetTax(c *gin.Context) {
	cfg, err := h.taxService.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tax settings retrieved successfully", gin.H{
		"settings":       cfg,
		"effective_rate": cfg.EffectiveRate(),
	})
}

// UpdateTax merges the request into the stored configuration
func (h *SettingsHandler) UpdateTax(c *gin.Context) {
	var req request.TaxSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.taxService.Load(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Scheme != nil {
		scheme, err := enum.ParseTaxScheme(*req.Scheme)
		if err != nil {
			response.Error(c, apperror.NewFieldError("scheme", "Must be gst or flat"))
			return
		}
		cfg.Scheme = scheme
	}
	if req.FlatRatePercent != nil {
		cfg.FlatRatePercent = *req.FlatRatePercent
	}
	if req.CGSTPercent != nil {
		cfg.CGSTPercent = *req.CGSTPercent
	}
	if req.SGSTPercent != nil {
		cfg.SGSTPercent = *req.SGSTPercent
	}
	if req.IGSTPercent != nil {
		cfg.IGSTPercent = *req.IGSTPercent
	}
	if req.GSTEnabled != nil {
		cfg.GSTEnabled = *req.GSTEnabled
	}

	saved, err := h.taxService.Save(ctx, cfg)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tax settings updated successfully", gin.H{
		"settings":       saved,
		"effective_rate": saved.EffectiveRate(),
		"warnings":       service.TaxRateHints(saved),
	})
}
