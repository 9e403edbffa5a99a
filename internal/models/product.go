package models

import "encoding/json"

type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Discount int     `json:"discount"`
	InStock  int     `json:"inStock"`
	Image    string  `json:"image,omitempty"`
	Category string  `json:"category,omitempty"`
}

// ProductUpdate is the projection of a product's mutable fields used for
// change detection and overlay merges.
type ProductUpdate struct {
	Name     string
	Price    float64
	Discount int
	InStock  int
}

func (p *Product) Update() ProductUpdate {
	return ProductUpdate{
		Name:     p.Name,
		Price:    p.Price,
		Discount: p.Discount,
		InStock:  p.InStock,
	}
}

// Apply overlays the projection fields onto the product and reports whether
// any of them actually changed.
func (p *Product) Apply(u ProductUpdate) bool {
	if p.Price == u.Price && p.Discount == u.Discount && p.InStock == u.InStock {
		return false
	}
	p.Price = u.Price
	p.Discount = u.Discount
	p.InStock = u.InStock
	return true
}

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// WishlistItem normalizes the two shapes the API emits for wishlist entries:
// either a bare product or an object wrapping it under a "product" key.
type WishlistItem struct {
	Product
}

func (w *WishlistItem) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Product *Product `json:"product"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Product != nil {
		w.Product = *wrapped.Product
		return nil
	}

	var bare Product
	if err := json.Unmarshal(data, &bare); err != nil {
		return err
	}
	w.Product = bare
	return nil
}

func (w WishlistItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Product)
}
