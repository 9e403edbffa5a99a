package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistItem_UnmarshalsWrappedProduct(t *testing.T) {
	raw := `{"product": {"_id": "p1", "name": "Keyboard", "price": 1200, "discount": 10, "inStock": 4}}`

	var item WishlistItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, "p1", item.ID)
	assert.Equal(t, float64(1200), item.Price)
	assert.Equal(t, 10, item.Discount)
}

func TestWishlistItem_UnmarshalsBareProduct(t *testing.T) {
	raw := `{"_id": "p2", "name": "Mouse", "price": 500, "inStock": 12}`

	var item WishlistItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, "p2", item.ID)
	assert.Equal(t, "Mouse", item.Name)
	assert.Equal(t, 12, item.InStock)
}

func TestProductApply(t *testing.T) {
	p := Product{ID: "p1", Price: 100, Discount: 0, InStock: 5}

	assert.False(t, p.Apply(ProductUpdate{Price: 100, Discount: 0, InStock: 5}))

	assert.True(t, p.Apply(ProductUpdate{Price: 80, Discount: 20, InStock: 5}))
	assert.Equal(t, float64(80), p.Price)
	assert.Equal(t, 20, p.Discount)
}
