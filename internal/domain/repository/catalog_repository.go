package repository

import (
	"context"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
)

// MenuItemRepository defines the interface for menu item data operations
type MenuItemRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	// GetByID returns nil when absent
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id string) error
	// List returns items ordered by position. An empty category lists all.
	List(ctx context.Context, category string, availableOnly bool) ([]entity.MenuItem, error)
	Count(ctx context.Context) (int64, error)
	MaxPosition(ctx context.Context) (int, error)
	// CountByCategory counts items per category key
	CountByCategory(ctx context.Context) (map[string]int64, error)
	// Reorder rewrites positions so ids[i] gets position i
	Reorder(ctx context.Context, ids []string) error
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.Category, error)
	MaxPosition(ctx context.Context) (int, error)
}
