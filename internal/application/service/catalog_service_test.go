package service

import (
	"testing"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryCounts(t *testing.T, f *fixture) map[string]int64 {
	t.Helper()
	categories, err := f.catalog.ListCategories(f.ctx)
	require.NoError(t, err)
	counts := make(map[string]int64, len(categories))
	for _, c := range categories {
		counts[c.ID] = c.ItemCount
	}
	return counts
}

func names(items []entity.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestCatalog_CategoryCounts(t *testing.T) {
	f := newFixture(t)

	counts := categoryCounts(t, f)
	assert.Equal(t, map[string]int64{
		"all": 10, "coffee": 4, "pastries": 2, "sandwiches": 1, "salads": 1, "beverages": 2,
	}, counts)

	_, err := f.catalog.AddItem(f.ctx, &CreateMenuItemInput{
		Name: "Filter Coffee", Price: money("90"), Category: "coffee", IsAvailable: true,
	})
	require.NoError(t, err)
	require.NoError(t, f.catalog.RemoveItem(f.ctx, f.item("Iced Tea").ID))

	counts = categoryCounts(t, f)
	assert.EqualValues(t, 5, counts["coffee"])
	assert.EqualValues(t, 1, counts["beverages"])
	assert.EqualValues(t, 10, counts["all"])
}

func TestCatalog_AddItem(t *testing.T) {
	f := newFixture(t)

	item, err := f.catalog.AddItem(f.ctx, &CreateMenuItemInput{
		Name: "  Masala Chai ", Price: money("60.456"), Category: "beverages", IsAvailable: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Masala Chai", item.Name)
	assert.Equal(t, "60.46", item.Price.StringFixed(2))
	assert.Equal(t, 10, item.Position)
	assert.Contains(t, f.notifier.names(), realtime.EventCatalogChanged)

	all, err := f.catalog.ListItems(f.ctx, entity.AllCategoryID, false)
	require.NoError(t, err)
	assert.Equal(t, "Masala Chai", all[len(all)-1].Name)

	tests := []struct {
		name  string
		input CreateMenuItemInput
		field string
	}{
		{"blank name", CreateMenuItemInput{Name: " ", Price: money("10"), Category: "coffee"}, "name"},
		{"negative price", CreateMenuItemInput{Name: "X", Price: money("-1"), Category: "coffee"}, "price"},
		{"zero price", CreateMenuItemInput{Name: "X", Price: money("0"), Category: "coffee"}, "price"},
		{"all category", CreateMenuItemInput{Name: "X", Price: money("10"), Category: entity.AllCategoryID}, "category"},
		{"unknown category", CreateMenuItemInput{Name: "X", Price: money("10"), Category: "desserts"}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.AddItem(f.ctx, &tt.input)
			appErr := apperror.GetAppError(err)
			require.Equal(t, 422, appErr.Code)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}
}

func TestCatalog_ListItems(t *testing.T) {
	f := newFixture(t)

	pastries, err := f.catalog.ListItems(f.ctx, "pastries", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Croissant", "Chocolate Muffin"}, names(pastries))

	_, err = f.catalog.ToggleAvailability(f.ctx, f.item("Croissant").ID)
	require.NoError(t, err)

	pastries, err = f.catalog.ListItems(f.ctx, "pastries", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chocolate Muffin"}, names(pastries))

	none, err := f.catalog.ListItems(f.ctx, "desserts", false)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCatalog_UpdateItem(t *testing.T) {
	f := newFixture(t)
	latte := f.item("Latte")

	price := money("260")
	popular := true
	updated, err := f.catalog.UpdateItem(f.ctx, latte.ID, entity.MenuItemPatch{Price: &price, IsPopular: &popular})
	require.NoError(t, err)
	assert.Equal(t, "260.00", updated.Price.StringFixed(2))
	assert.True(t, updated.IsPopular)
	assert.Equal(t, "Latte", updated.Name)
	assert.Equal(t, "coffee", updated.Category)

	zero := money("0")
	_, err = f.catalog.UpdateItem(f.ctx, latte.ID, entity.MenuItemPatch{Price: &zero})
	assert.Equal(t, "price", apperror.GetAppError(err).Errors[0].Field)

	blank := ""
	_, err = f.catalog.UpdateItem(f.ctx, latte.ID, entity.MenuItemPatch{Name: &blank})
	assert.Equal(t, "name", apperror.GetAppError(err).Errors[0].Field)

	_, err = f.catalog.UpdateItem(f.ctx, "missing", entity.MenuItemPatch{Price: &price})
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	assert.Equal(t, 404, apperror.GetAppError(f.catalog.RemoveItem(f.ctx, "missing")).Code)
}

func TestCatalog_Reorder(t *testing.T) {
	f := newFixture(t)

	items, err := f.catalog.Reorder(f.ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cappuccino", "Latte", "Espresso"}, names(items[:3]))

	listed, err := f.catalog.ListItems(f.ctx, entity.AllCategoryID, false)
	require.NoError(t, err)
	assert.Equal(t, names(items), names(listed))

	_, err = f.catalog.Reorder(f.ctx, -1, 10)
	appErr := apperror.GetAppError(err)
	require.Equal(t, 422, appErr.Code)
	assert.Len(t, appErr.Errors, 2)
}

func TestCatalog_Categories(t *testing.T) {
	f := newFixture(t)

	c, err := f.catalog.AddCategory(f.ctx, &CategoryInput{Name: "Desserts & Sweets", DisplayColor: "#FFC0CB"})
	require.NoError(t, err)
	assert.Equal(t, "desserts-sweets", c.ID)
	assert.Equal(t, 6, c.Position)

	_, err = f.catalog.AddCategory(f.ctx, &CategoryInput{ID: "desserts-sweets", Name: "Again"})
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	_, err = f.catalog.AddCategory(f.ctx, &CategoryInput{ID: entity.AllCategoryID, Name: "Everything"})
	assert.True(t, apperror.IsValidation(err))

	updated, err := f.catalog.UpdateCategory(f.ctx, "desserts-sweets", &CategoryInput{Name: "Desserts"})
	require.NoError(t, err)
	assert.Equal(t, "Desserts", updated.Name)
	assert.Equal(t, "#FFC0CB", updated.DisplayColor)

	_, err = f.catalog.UpdateCategory(f.ctx, "desserts-sweets", &CategoryInput{ID: "sweets"})
	assert.True(t, apperror.IsValidation(err))

	assert.True(t, apperror.IsValidation(f.catalog.RemoveCategory(f.ctx, entity.AllCategoryID)))
	assert.Equal(t, 404, apperror.GetAppError(f.catalog.RemoveCategory(f.ctx, "nope")).Code)
}

func TestCatalog_RemovedCategoryKeepsItemsUnderAll(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.catalog.RemoveCategory(f.ctx, "salads"))

	all, err := f.catalog.ListItems(f.ctx, entity.AllCategoryID, false)
	require.NoError(t, err)
	assert.Contains(t, names(all), "Caesar Salad")

	counts := categoryCounts(t, f)
	_, ok := counts["salads"]
	assert.False(t, ok)
	assert.EqualValues(t, 9, counts["all"])
}
