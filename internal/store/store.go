// Package store owns the primary client state. Sync engines never reach into
// it directly; they propose merges through the methods below, which apply
// overlay-if-different semantics and report whether anything actually changed.
package store

import (
	"sync"

	"storefront/internal/models"
)

type Store struct {
	mu      sync.RWMutex
	version uint64

	cart           []models.CartItem
	wishlist       []models.WishlistItem
	currentProduct *models.Product
	products       []models.Product
	featured       []models.Product
	discounted     []models.Product

	currentOrder     *models.Order
	orders           []models.Order
	ordersPagination models.Pagination

	adminOrders       []models.Order
	adminPagination   models.Pagination
	adminStatusFilter string
	adminNewOrders    int
}

func New() *Store {
	return &Store{}
}

// Version increments on every committed change. Two identical merges in a row
// leave it untouched, which is what keeps redundant downstream work away.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// --- cart ---

func (s *Store) Cart() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Store) SetCart(items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = append([]models.CartItem(nil), items...)
	s.version++
}

func (s *Store) CartIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.cart))
	for _, item := range s.cart {
		ids = append(ids, item.ID)
	}
	return ids
}

// --- wishlist ---

func (s *Store) Wishlist() []models.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WishlistItem, len(s.wishlist))
	copy(out, s.wishlist)
	return out
}

func (s *Store) SetWishlist(items []models.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist = append([]models.WishlistItem(nil), items...)
	s.version++
}

func (s *Store) WishlistIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.wishlist))
	for _, item := range s.wishlist {
		ids = append(ids, item.ID)
	}
	return ids
}

// --- products ---

func (s *Store) CurrentProduct() *models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentProduct == nil {
		return nil
	}
	p := *s.currentProduct
	return &p
}

func (s *Store) SetCurrentProduct(p *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.currentProduct = nil
	} else {
		cp := *p
		s.currentProduct = &cp
	}
	s.version++
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) SetProducts(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product(nil), products...)
	s.version++
}

// ProductIDs returns the ids of at most limit products from the general list.
func (s *Store) ProductIDs(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit > len(s.products) {
		limit = len(s.products)
	}
	ids := make([]string, 0, limit)
	for _, p := range s.products[:limit] {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *Store) Featured() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.featured))
	copy(out, s.featured)
	return out
}

func (s *Store) SetFeatured(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.featured = append([]models.Product(nil), products...)
	s.version++
}

func (s *Store) FeaturedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return productIDs(s.featured)
}

func (s *Store) Discounted() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.discounted))
	copy(out, s.discounted)
	return out
}

func (s *Store) SetDiscounted(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounted = append([]models.Product(nil), products...)
	s.version++
}

func (s *Store) DiscountedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return productIDs(s.discounted)
}

func productIDs(products []models.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// ApplyProductUpdates overlays fetched projections onto the cart, wishlist,
// current product and the three product lists. Cart quantities are clamped to
// the fetched stock, never raised. Returns whether any collection changed;
// the version only moves when one did.
func (s *Store) ApplyProductUpdates(updates map[string]models.ProductUpdate) bool {
	if len(updates) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false

	for i := range s.cart {
		u, ok := updates[s.cart[i].ID]
		if !ok {
			continue
		}
		if s.cart[i].Apply(u) {
			changed = true
		}
		if s.cart[i].Quantity > u.InStock {
			s.cart[i].Quantity = u.InStock
			changed = true
		}
	}

	for i := range s.wishlist {
		if u, ok := updates[s.wishlist[i].ID]; ok && s.wishlist[i].Apply(u) {
			changed = true
		}
	}

	if s.currentProduct != nil {
		if u, ok := updates[s.currentProduct.ID]; ok && s.currentProduct.Apply(u) {
			changed = true
		}
	}

	for _, list := range [][]models.Product{s.products, s.featured, s.discounted} {
		for i := range list {
			if u, ok := updates[list[i].ID]; ok && list[i].Apply(u) {
				changed = true
			}
		}
	}

	if changed {
		s.version++
	}
	return changed
}

// --- orders ---

func (s *Store) CurrentOrder() *models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentOrder == nil {
		return nil
	}
	o := *s.currentOrder
	return &o
}

func (s *Store) SetCurrentOrder(o *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o == nil {
		s.currentOrder = nil
	} else {
		cp := *o
		s.currentOrder = &cp
	}
	s.version++
}

func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) SetOrders(orders []models.Order, pagination models.Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]models.Order(nil), orders...)
	s.ordersPagination = pagination
	s.version++
}

func (s *Store) OrdersPagination() models.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordersPagination
}

// --- admin orders ---

func (s *Store) AdminOrders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.adminOrders))
	copy(out, s.adminOrders)
	return out
}

func (s *Store) SetAdminOrders(orders []models.Order, pagination models.Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminOrders = append([]models.Order(nil), orders...)
	s.adminPagination = pagination
	s.version++
}

// AdminQuery returns the page and status filter the admin sync should poll
// with, derived from the current pagination state.
func (s *Store) AdminQuery() (page int, status string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page = s.adminPagination.Page
	if page == 0 {
		page = 1
	}
	return page, s.adminStatusFilter
}

func (s *Store) SetAdminStatusFilter(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminStatusFilter = status
}

func (s *Store) AddAdminNewOrders(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminNewOrders += n
}

func (s *Store) AdminNewOrders() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminNewOrders
}
