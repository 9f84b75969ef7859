package service

import (
	"testing"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddAndTotals(t *testing.T) {
	f := newFixture(t)
	owner := f.cashier.UserID

	f.addToCart(f.cashier, "Espresso", 2)
	f.addToCart(f.cashier, "Croissant", 1)

	cart, err := f.carts.Get(f.ctx, owner)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Espresso", cart.Items[0].Name)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.TotalItemCount())
	assert.Equal(t, "510.00", cart.TotalPrice().StringFixed(2))
}

func TestCartService_UpdateQuantityBelowZeroRemoves(t *testing.T) {
	f := newFixture(t)
	owner := f.cashier.UserID
	f.addToCart(f.cashier, "Latte", 3)
	id := f.item("Latte").ID

	cart, err := f.carts.UpdateQuantity(f.ctx, owner, id, -5)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	cart, err = f.carts.UpdateQuantity(f.ctx, owner, "unknown", 1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_RejectsUnavailableItem(t *testing.T) {
	f := newFixture(t)
	latte := f.item("Latte")
	_, err := f.catalog.ToggleAvailability(f.ctx, latte.ID)
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.ctx, f.cashier.UserID, latte.ID)
	assert.True(t, apperror.IsValidation(err))

	_, err = f.carts.AddItem(f.ctx, f.cashier.UserID, "missing")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCartService_PersistsPerOwner(t *testing.T) {
	f := newFixture(t)
	f.addToCart(f.cashier, "Espresso", 1)

	// a fresh service over the same store sees the same cart
	reloaded := NewCartService(f.settings, f.menuRepo)
	cart, err := reloaded.Get(f.ctx, f.cashier.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItemCount())

	other, err := reloaded.Get(f.ctx, f.admin.UserID)
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestCartService_CorruptStateBecomesEmptyCart(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.settings.Put(f.ctx, cartKey(f.cashier.UserID), "{not json"))

	cart, err := f.carts.Get(f.ctx, f.cashier.UserID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	f.addToCart(f.cashier, "Espresso", 1)
	cart, err = f.carts.Get(f.ctx, f.cashier.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItemCount())
}

func TestCartService_NotesAndClear(t *testing.T) {
	f := newFixture(t)
	owner := f.cashier.UserID
	f.addToCart(f.cashier, "Cappuccino", 1)
	id := f.item("Cappuccino").ID

	cart, err := f.carts.SetNotes(f.ctx, owner, id, "extra hot")
	require.NoError(t, err)
	assert.Equal(t, "extra hot", cart.Items[0].Notes)

	_, err = f.carts.SetNotes(f.ctx, owner, "missing", "x")
	assert.Error(t, err)

	require.NoError(t, f.carts.Clear(f.ctx, owner))
	_, ok, err := f.settings.Get(f.ctx, cartKey(owner))
	require.NoError(t, err)
	assert.False(t, ok)

	cart, err = f.carts.RemoveItem(f.ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, entity.NewCart(), cart)
}
