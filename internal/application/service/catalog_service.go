package service

import (
	"context"
	"strings"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/sangkips/cafe-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// CatalogService handles menu item and category operations
type CatalogService struct {
	menuRepo     repository.MenuItemRepository
	categoryRepo repository.CategoryRepository
	notifier     Notifier
}

// NewCatalogService creates a new catalog service
func NewCatalogService(menuRepo repository.MenuItemRepository, categoryRepo repository.CategoryRepository, notifier Notifier) *CatalogService {
	return &CatalogService{
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
		notifier:     notifierOrNop(notifier),
	}
}

// CreateMenuItemInput represents the create menu item input
type CreateMenuItemInput struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	ImageRef    string
	Description string
	IsPopular   bool
	IsAvailable bool
}

func (s *CatalogService) checkCategory(ctx context.Context, id string) error {
	if id == entity.AllCategoryID {
		return apperror.NewFieldError("category", "Items cannot be assigned to the all category")
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewFieldError("category", "Unknown category")
	}
	return nil
}

// AddItem appends a menu item at the end of the display order
func (s *CatalogService) AddItem(ctx context.Context, input *CreateMenuItemInput) (*entity.MenuItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	if !input.Price.IsPositive() {
		return nil, apperror.NewFieldError("price", "Price must be greater than zero")
	}
	if err := s.checkCategory(ctx, input.Category); err != nil {
		return nil, err
	}

	max, err := s.menuRepo.MaxPosition(ctx)
	if err != nil {
		return nil, err
	}

	item := &entity.MenuItem{
		Name:        name,
		Price:       entity.RoundMoney(input.Price),
		Category:    input.Category,
		ImageRef:    input.ImageRef,
		Description: input.Description,
		IsPopular:   input.IsPopular,
		IsAvailable: input.IsAvailable,
		Position:    max + 1,
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(realtime.EventCatalogChanged, item)
	return item, nil
}

// GetItem retrieves a menu item by id
func (s *CatalogService) GetItem(ctx context.Context, id string) (*entity.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	return item, nil
}

// ListItems lists items of a category in display order. The all category,
// or an empty one, lists every item including those whose category is gone.
func (s *CatalogService) ListItems(ctx context.Context, category string, availableOnly bool) ([]entity.MenuItem, error) {
	if category == entity.AllCategoryID {
		category = ""
	}
	items, err := s.menuRepo.List(ctx, category, availableOnly)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.MenuItem{}
	}
	return items, nil
}

// UpdateItem merges a patch into an existing item
func (s *CatalogService) UpdateItem(ctx context.Context, id string, patch entity.MenuItemPatch) (*entity.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperror.NewFieldError("name", "Name cannot be empty")
	}
	if patch.Price != nil && !patch.Price.IsPositive() {
		return nil, apperror.NewFieldError("price", "Price must be greater than zero")
	}
	if patch.Category != nil && *patch.Category != item.Category {
		if err := s.checkCategory(ctx, *patch.Category); err != nil {
			return nil, err
		}
	}

	patch.Apply(item)
	item.Name = strings.TrimSpace(item.Name)

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(realtime.EventCatalogChanged, item)
	return item, nil
}

// RemoveItem deletes a menu item. Past orders keep their snapshot.
func (s *CatalogService) RemoveItem(ctx context.Context, id string) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Broadcast(realtime.EventCatalogChanged, map[string]string{"removed": id})
	return nil
}

// ToggleAvailability flips whether the item can be sold
func (s *CatalogService) ToggleAvailability(ctx context.Context, id string) (*entity.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	available := !item.IsAvailable
	return s.UpdateItem(ctx, id, entity.MenuItemPatch{IsAvailable: &available})
}

// Reorder moves the item at fromIndex to toIndex in the full display order
func (s *CatalogService) Reorder(ctx context.Context, fromIndex, toIndex int) ([]entity.MenuItem, error) {
	items, err := s.menuRepo.List(ctx, "", false)
	if err != nil {
		return nil, err
	}

	n := len(items)
	var fieldErrors []apperror.FieldError
	if fromIndex < 0 || fromIndex >= n {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "from_index", Message: "Index out of range"})
	}
	if toIndex < 0 || toIndex >= n {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "to_index", Message: "Index out of range"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	moved := items[fromIndex]
	items = append(items[:fromIndex], items[fromIndex+1:]...)
	items = append(items[:toIndex], append([]entity.MenuItem{moved}, items[toIndex:]...)...)

	ids := make([]string, n)
	for i := range items {
		ids[i] = items[i].ID
		items[i].Position = i
	}
	if err := s.menuRepo.Reorder(ctx, ids); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(realtime.EventCatalogChanged, map[string]int{"from_index": fromIndex, "to_index": toIndex})
	return items, nil
}

// ListCategories returns categories with item counts computed from the
// current menu. The all category counts the sum of the others.
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.menuRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	var sum int64
	for i := range categories {
		if categories[i].IsAll() {
			continue
		}
		categories[i].ItemCount = counts[categories[i].ID]
		sum += categories[i].ItemCount
	}
	for i := range categories {
		if categories[i].IsAll() {
			categories[i].ItemCount = sum
		}
	}
	return categories, nil
}

// CategoryInput represents the create/update category input
type CategoryInput struct {
	ID           string
	Name         string
	DisplayColor string
	IconRef      string
}

// AddCategory creates a category. The id defaults to a slug of the name.
func (s *CatalogService) AddCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	id := input.ID
	if id == "" {
		id = utils.Slugify(name)
	}
	if id == "" {
		return nil, apperror.NewFieldError("id", "Id is required")
	}
	if id == entity.AllCategoryID {
		return nil, apperror.NewFieldError("id", "The all category is reserved")
	}

	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category with this id already exists")
	}

	max, err := s.categoryRepo.MaxPosition(ctx)
	if err != nil {
		return nil, err
	}

	category := &entity.Category{
		ID:           id,
		Name:         name,
		DisplayColor: input.DisplayColor,
		IconRef:      input.IconRef,
		Position:     max + 1,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(realtime.EventCatalogChanged, category)
	return category, nil
}

// UpdateCategory changes a category's display fields. Ids never change.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input *CategoryInput) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	if input.ID != "" && input.ID != id {
		return nil, apperror.NewFieldError("id", "Category id cannot be changed")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.DisplayColor != "" {
		category.DisplayColor = input.DisplayColor
	}
	if input.IconRef != "" {
		category.IconRef = input.IconRef
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(realtime.EventCatalogChanged, category)
	return category, nil
}

// RemoveCategory deletes a category. Its items stay and remain listed under all.
func (s *CatalogService) RemoveCategory(ctx context.Context, id string) error {
	if id == entity.AllCategoryID {
		return apperror.NewFieldError("id", "The all category cannot be removed")
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.notifier.Broadcast(realtime.EventCatalogChanged, map[string]string{"removed_category": id})
	return nil
}
