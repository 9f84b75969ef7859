package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/response"
)

// MenuHandler handles menu items and categories
type MenuHandler struct {
	catalogService *service.CatalogService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(catalogService *service.CatalogService) *MenuHandler {
	return &MenuHandler{catalogService: catalogService}
}

// List handles listing menu items in display order
// @Summary List menu
// @Tags menu
// @Produce json
// @Param category query string false "Category id"
// @Param available query bool false "Only available items"
// @Success 200 {object} response.APIResponse
// @Router /menu [get]
func (h *MenuHandler) List(c *gin.Context) {
	var filter request.MenuFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	items, err := h.catalogService.ListItems(c.Request.Context(), filter.Category, filter.Available)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu retrieved successfully", items)
}

// Get handles getting a single menu item
func (h *MenuHandler) Get(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item retrieved successfully", item)
}

// Create handles adding a menu item
// @Summary Create menu item
// @Tags menu
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateMenuItemRequest true "Menu item"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /menu [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req request.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item, err := h.catalogService.AddItem(c.Request.Context(), &service.CreateMenuItemInput{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		ImageRef:    req.ImageURL,
		Description: req.Description,
		IsPopular:   req.IsPopular,
		IsAvailable: available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Menu item created successfully", item)
}

// Update handles a partial menu item update
func (h *MenuHandler) Update(c *gin.Context) {
	var req request.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), c.Param("id"), entity.MenuItemPatch{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		ImageRef:    req.ImageURL,
		Description: req.Description,
		IsPopular:   req.IsPopular,
		IsAvailable: req.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item updated successfully", item)
}

// Delete handles removing a menu item
func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.catalogService.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item deleted successfully", nil)
}

// ToggleAvailability flips whether an item can be sold
func (h *MenuHandler) ToggleAvailability(c *gin.Context) {
	item, err := h.catalogService.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Availability updated", item)
}

// Reorder moves one item within the display order
func (h *MenuHandler) Reorder(c *gin.Context) {
	var req request.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items, err := h.catalogService.Reorder(c.Request.Context(), *req.FromIndex, *req.ToIndex)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu reordered", items)
}

// ListCategories returns categories with live item counts
func (h *MenuHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

func categoryInput(req request.CategoryRequest) *service.CategoryInput {
	return &service.CategoryInput{
		ID:           req.ID,
		Name:         req.Name,
		DisplayColor: req.DisplayColor,
		IconRef:      req.IconRef,
	}
}

// CreateCategory adds a category
func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.catalogService.AddCategory(c.Request.Context(), categoryInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

// UpdateCategory renames or recolours a category
func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), c.Param("id"), categoryInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// DeleteCategory removes a category; its items keep their category id
func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.RemoveCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category deleted successfully", nil)
}
