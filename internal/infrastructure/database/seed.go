package database

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/config"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultCategories is the catalog shipped with a fresh install. The reserved
// "all" category always comes first.
func DefaultCategories() []entity.Category {
	return []entity.Category{
		{ID: entity.AllCategoryID, Name: "All Items", DisplayColor: "#8B5E3C", IconRef: "grid", Position: 0},
		{ID: "coffee", Name: "Coffee & Tea", DisplayColor: "#6F4E37", IconRef: "coffee", Position: 1},
		{ID: "pastries", Name: "Pastries", DisplayColor: "#D2691E", IconRef: "croissant", Position: 2},
		{ID: "sandwiches", Name: "Sandwiches", DisplayColor: "#CD853F", IconRef: "sandwich", Position: 3},
		{ID: "salads", Name: "Fresh Salads", DisplayColor: "#6B8E23", IconRef: "salad", Position: 4},
		{ID: "beverages", Name: "Cold Drinks", DisplayColor: "#4682B4", IconRef: "cup-soda", Position: 5},
	}
}

// DefaultMenuItems is the menu shipped with a fresh install
func DefaultMenuItems() []entity.MenuItem {
	item := func(name, price, category, description string, popular bool) entity.MenuItem {
		return entity.MenuItem{
			Name:        name,
			Price:       decimal.RequireFromString(price),
			Category:    category,
			Description: description,
			IsPopular:   popular,
			IsAvailable: true,
		}
	}
	items := []entity.MenuItem{
		item("Espresso", "180", "coffee", "Rich and bold single shot", true),
		item("Cappuccino", "220", "coffee", "Espresso with steamed milk foam", true),
		item("Latte", "250", "coffee", "Smooth espresso with steamed milk", false),
		item("Americano", "200", "coffee", "Espresso topped with hot water", false),
		item("Croissant", "150", "pastries", "Buttery, flaky French pastry", true),
		item("Chocolate Muffin", "180", "pastries", "Moist muffin with chocolate chips", false),
		item("Club Sandwich", "350", "sandwiches", "Triple-decker with chicken and veggies", true),
		item("Caesar Salad", "280", "salads", "Crisp romaine with parmesan and croutons", false),
		item("Iced Tea", "120", "beverages", "Refreshing lemon iced tea", false),
		item("Fresh Orange Juice", "160", "beverages", "Freshly squeezed oranges", false),
	}
	for i := range items {
		items[i].Position = i
	}
	return items
}

// SeedDefaultData creates the reserved category, the default catalog when the
// menu is empty, and the configured admin account.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig) error {
	log.Info().Msg("Seeding default data...")

	var categoryCount int64
	if err := db.Model(&entity.Category{}).Count(&categoryCount).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if categoryCount == 0 {
		categories := DefaultCategories()
		if err := db.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	} else {
		var all entity.Category
		err := db.First(&all, "id = ?", entity.AllCategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			all = DefaultCategories()[0]
			if err := db.Create(&all).Error; err != nil {
				return fmt.Errorf("seed all category: %w", err)
			}
		} else if err != nil {
			return err
		}
	}

	var itemCount int64
	if err := db.Model(&entity.MenuItem{}).Count(&itemCount).Error; err != nil {
		return fmt.Errorf("count menu items: %w", err)
	}
	if itemCount == 0 {
		items := DefaultMenuItems()
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("seed menu items: %w", err)
		}
		log.Info().Int("items", len(items)).Msg("Seeded default menu")
	}

	if admin.Email != "" && admin.Password != "" {
		var existing entity.User
		err := db.Where("email = ?", admin.Email).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hashed, err := utils.HashPassword(admin.Password)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to hash admin password")
				break
			}
			name := admin.Name
			if name == "" {
				name = "Administrator"
			}
			user := entity.User{Name: name, Email: admin.Email, Password: hashed, Role: entity.RoleAdmin}
			if err := db.Create(&user).Error; err != nil {
				log.Warn().Err(err).Msg("Failed to create admin user")
			} else {
				log.Info().Str("email", admin.Email).Msg("Admin user created")
			}
		case err != nil:
			return err
		default:
			log.Info().Str("email", admin.Email).Msg("Admin user already exists")
		}
	}

	log.Info().Msg("Default data seeding completed")
	return nil
}
