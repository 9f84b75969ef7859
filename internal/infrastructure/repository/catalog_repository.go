package repository

import (
	"context"
	"errors"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type menuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository creates a new menu item repository
func NewMenuItemRepository(db *gorm.DB) domainRepo.MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return conn(ctx, r.db).Create(item).Error
}

func (r *menuItemRepository) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := conn(ctx, r.db).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *menuItemRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *menuItemRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	return conn(ctx, r.db).Save(item).Error
}

func (r *menuItemRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Delete(&entity.MenuItem{}, "id = ?", id).Error
}

func (r *menuItemRepository) List(ctx context.Context, category string, availableOnly bool) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	query := conn(ctx, r.db).Model(&entity.MenuItem{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	err := query.Order("position ASC, created_at ASC").Find(&items).Error
	return items, err
}

func (r *menuItemRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&entity.MenuItem{}).Count(&n).Error
	return n, err
}

func (r *menuItemRepository) MaxPosition(ctx context.Context) (int, error) {
	var row struct{ Max int }
	err := conn(ctx, r.db).Model(&entity.MenuItem{}).
		Select("COALESCE(MAX(position), -1) AS max").
		Scan(&row).Error
	return row.Max, err
}

func (r *menuItemRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := conn(ctx, r.db).Model(&entity.MenuItem{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// Reorder writes every position in one transaction
func (r *menuItemRepository) Reorder(ctx context.Context, ids []string) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&entity.MenuItem{}).Where("id = ?", id).Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return conn(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var category entity.Category
	err := conn(ctx, r.db).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return conn(ctx, r.db).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := conn(ctx, r.db).Order("position ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) MaxPosition(ctx context.Context) (int, error) {
	var row struct{ Max int }
	err := conn(ctx, r.db).Model(&entity.Category{}).
		Select("COALESCE(MAX(position), -1) AS max").
		Scan(&row).Error
	return row.Max, err
}
