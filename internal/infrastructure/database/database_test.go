package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/config"
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewSQLiteDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestSeedDefaultData(t *testing.T) {
	db := setupTestDB(t)
	admin := config.AdminConfig{Name: "Owner", Email: "owner@cafe.test", Password: "secret123"}

	require.NoError(t, SeedDefaultData(db, admin))
	// seeding twice is a no-op
	require.NoError(t, SeedDefaultData(db, admin))

	var categories, items, users int64
	db.Model(&entity.Category{}).Count(&categories)
	db.Model(&entity.MenuItem{}).Count(&items)
	db.Model(&entity.User{}).Count(&users)
	assert.EqualValues(t, 6, categories)
	assert.EqualValues(t, 10, items)
	assert.EqualValues(t, 1, users)

	var owner entity.User
	require.NoError(t, db.First(&owner, "email = ?", "owner@cafe.test").Error)
	assert.Equal(t, entity.RoleAdmin, owner.Role)
	assert.True(t, utils.CheckPasswordHash("secret123", owner.Password))

	var espresso entity.MenuItem
	require.NoError(t, db.First(&espresso, "name = ?", "Espresso").Error)
	assert.Equal(t, "180", espresso.Price.String())
	assert.True(t, espresso.IsPopular)
	assert.NotEmpty(t, espresso.ID)
}

func TestSeedDefaultData_RestoresAllCategory(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&entity.Category{ID: "coffee", Name: "Coffee"}).Error)

	require.NoError(t, SeedDefaultData(db, config.AdminConfig{}))

	var all entity.Category
	require.NoError(t, db.First(&all, "id = ?", entity.AllCategoryID).Error)
	assert.Equal(t, "All Items", all.Name)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}
