package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestApplyProductUpdates_ClampsCartQuantity(t *testing.T) {
	st := New()
	st.SetCart([]models.CartItem{
		{Product: models.Product{ID: "p1", Price: 100, InStock: 10}, Quantity: 5},
	})

	changed := st.ApplyProductUpdates(map[string]models.ProductUpdate{
		"p1": {Price: 100, InStock: 3},
	})

	assert.True(t, changed)
	cart := st.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)

	// A later restock never raises the quantity back.
	st.ApplyProductUpdates(map[string]models.ProductUpdate{
		"p1": {Price: 100, InStock: 10},
	})
	assert.Equal(t, 3, st.Cart()[0].Quantity)
}

func TestApplyProductUpdates_NoChangeNoVersionBump(t *testing.T) {
	st := New()
	st.SetCart([]models.CartItem{
		{Product: models.Product{ID: "p1", Price: 100, Discount: 5, InStock: 10}, Quantity: 2},
	})
	version := st.Version()

	changed := st.ApplyProductUpdates(map[string]models.ProductUpdate{
		"p1": {Price: 100, Discount: 5, InStock: 10},
	})

	assert.False(t, changed)
	assert.Equal(t, version, st.Version())
}

func TestApplyProductUpdates_ReachesAllCollections(t *testing.T) {
	p := models.Product{ID: "p1", Name: "P1", Price: 100, InStock: 10}

	st := New()
	st.SetCart([]models.CartItem{{Product: p, Quantity: 1}})
	st.SetWishlist([]models.WishlistItem{{Product: p}})
	st.SetCurrentProduct(&p)
	st.SetProducts([]models.Product{p})
	st.SetFeatured([]models.Product{p})
	st.SetDiscounted([]models.Product{p})

	changed := st.ApplyProductUpdates(map[string]models.ProductUpdate{
		"p1": {Price: 75, InStock: 10},
	})
	assert.True(t, changed)

	assert.Equal(t, float64(75), st.Cart()[0].Price)
	assert.Equal(t, float64(75), st.Wishlist()[0].Price)
	assert.Equal(t, float64(75), st.CurrentProduct().Price)
	assert.Equal(t, float64(75), st.Products()[0].Price)
	assert.Equal(t, float64(75), st.Featured()[0].Price)
	assert.Equal(t, float64(75), st.Discounted()[0].Price)
}

func TestApplyProductUpdates_IgnoresUnknownIDs(t *testing.T) {
	st := New()
	st.SetCart([]models.CartItem{
		{Product: models.Product{ID: "p1", Price: 100, InStock: 10}, Quantity: 1},
	})
	version := st.Version()

	changed := st.ApplyProductUpdates(map[string]models.ProductUpdate{
		"other": {Price: 1, InStock: 1},
	})

	assert.False(t, changed)
	assert.Equal(t, version, st.Version())
}

func TestProductIDs_RespectsLimit(t *testing.T) {
	st := New()
	st.SetProducts([]models.Product{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	assert.Equal(t, []string{"a", "b"}, st.ProductIDs(2))
	assert.Equal(t, []string{"a", "b", "c"}, st.ProductIDs(10))
}

func TestAdminQuery_DefaultsToPageOne(t *testing.T) {
	st := New()
	page, status := st.AdminQuery()
	assert.Equal(t, 1, page)
	assert.Equal(t, "", status)

	st.SetAdminOrders(nil, models.Pagination{Page: 4, Total: 80, Pages: 4})
	st.SetAdminStatusFilter("pending")
	page, status = st.AdminQuery()
	assert.Equal(t, 4, page)
	assert.Equal(t, "pending", status)
}

func TestCopiesAreIsolated(t *testing.T) {
	st := New()
	st.SetCart([]models.CartItem{
		{Product: models.Product{ID: "p1", Price: 100}, Quantity: 1},
	})

	cart := st.Cart()
	cart[0].Quantity = 99

	assert.Equal(t, 1, st.Cart()[0].Quantity)
}
