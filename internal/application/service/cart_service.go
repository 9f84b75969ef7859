package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
)

// CartService keeps one open cart per cashier and persists it on every change
type CartService struct {
	settings repository.SettingsRepository
	menu     repository.MenuItemRepository
	mu       sync.Mutex
}

// NewCartService creates a new cart service
func NewCartService(settings repository.SettingsRepository, menu repository.MenuItemRepository) *CartService {
	return &CartService{settings: settings, menu: menu}
}

func cartKey(owner uuid.UUID) string {
	return keyCartPrefix + owner.String()
}

// Get returns the owner's cart. A missing or unreadable cart is empty.
func (s *CartService) Get(ctx context.Context, owner uuid.UUID) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, owner)
}

func (s *CartService) load(ctx context.Context, owner uuid.UUID) (*entity.Cart, error) {
	cart := entity.NewCart()
	_, err := loadJSON(ctx, s.settings, cartKey(owner), cart)
	if errors.Is(err, errCorrupt) {
		return entity.NewCart(), nil
	}
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}
	if cart.Normalize() {
		log.Warn().Str("owner", owner.String()).Msg("Dropped invalid lines from stored cart")
	}
	return cart, nil
}

// mutate loads the cart, applies fn and persists the result when fn reports a change
func (s *CartService) mutate(ctx context.Context, owner uuid.UUID, fn func(*entity.Cart) (bool, error)) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	changed, err := fn(cart)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := saveJSON(ctx, s.settings, cartKey(owner), cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// AddItem adds one unit of a menu item. Unavailable items are rejected.
func (s *CartService) AddItem(ctx context.Context, owner uuid.UUID, menuItemID string) (*entity.Cart, error) {
	item, err := s.menu.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	if !item.IsAvailable {
		return nil, apperror.NewFieldError("menu_item_id", item.Name+" is currently unavailable")
	}

	return s.mutate(ctx, owner, func(c *entity.Cart) (bool, error) {
		c.Add(item)
		return true, nil
	})
}

// UpdateQuantity adds delta to a line; the line goes away at zero
func (s *CartService) UpdateQuantity(ctx context.Context, owner uuid.UUID, menuItemID string, delta int) (*entity.Cart, error) {
	return s.mutate(ctx, owner, func(c *entity.Cart) (bool, error) {
		return c.UpdateQuantity(menuItemID, delta), nil
	})
}

// RemoveItem drops a line
func (s *CartService) RemoveItem(ctx context.Context, owner uuid.UUID, menuItemID string) (*entity.Cart, error) {
	return s.mutate(ctx, owner, func(c *entity.Cart) (bool, error) {
		return c.Remove(menuItemID), nil
	})
}

// SetNotes attaches kitchen notes to a line
func (s *CartService) SetNotes(ctx context.Context, owner uuid.UUID, menuItemID, notes string) (*entity.Cart, error) {
	return s.mutate(ctx, owner, func(c *entity.Cart) (bool, error) {
		if !c.SetNotes(menuItemID, notes) {
			return false, apperror.NewNotFoundError("Cart item")
		}
		return true, nil
	})
}

// Clear empties the cart and deletes its stored copy
func (s *CartService) Clear(ctx context.Context, owner uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Delete(ctx, cartKey(owner))
}
