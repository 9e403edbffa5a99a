package sync

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	gosync "sync"
	"testing"

	"storefront/internal/api"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/store"
)

type recorded struct {
	message  string
	severity notify.Severity
}

type recordingNotifier struct {
	mu    gosync.Mutex
	items []recorded
}

func (r *recordingNotifier) Notify(message string, severity notify.Severity) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, recorded{message: message, severity: severity})
	return fmt.Sprintf("n-%d", len(r.items))
}

func (r *recordingNotifier) recorded() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recorded, len(r.items))
	copy(out, r.items)
	return out
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// fakeAPI serves the storefront endpoints from in-memory fixtures that tests
// mutate between sync cycles.
type fakeAPI struct {
	mu gosync.Mutex

	products   map[string]models.Product
	featured   []models.Product
	discounted []models.Product

	order            *models.Order
	orders           []models.Order
	ordersPagination models.Pagination

	adminOrders     []models.Order
	adminPagination models.Pagination

	failAll        bool
	batchCalls     int
	orderCalls     int
	lastAdminQuery url.Values
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{products: make(map[string]models.Product)}
}

func (f *fakeAPI) setProduct(p models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

func (f *fakeAPI) orderCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderCalls
}

func (f *fakeAPI) adminQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAdminQuery
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failAll {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == "POST" && r.URL.Path == "/products/batch":
			f.batchCalls++
			var req struct {
				ProductIDs []string `json:"productIds"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			products := make([]models.Product, 0, len(req.ProductIDs))
			for _, id := range req.ProductIDs {
				if p, ok := f.products[id]; ok {
					products = append(products, p)
				}
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"products": products})

		case r.URL.Path == "/products/featured":
			json.NewEncoder(w).Encode(map[string]interface{}{"data": f.featured})

		case r.URL.Path == "/products/discounted":
			json.NewEncoder(w).Encode(map[string]interface{}{"data": f.discounted})

		case r.URL.Path == "/orders/my-orders":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"orders":     f.orders,
				"pagination": f.ordersPagination,
			})

		case r.URL.Path == "/orders/admin/all":
			f.lastAdminQuery = r.URL.Query()
			json.NewEncoder(w).Encode(map[string]interface{}{
				"orders":     f.adminOrders,
				"pagination": f.adminPagination,
			})

		case strings.HasPrefix(r.URL.Path, "/orders/"):
			f.orderCalls++
			id := strings.TrimPrefix(r.URL.Path, "/orders/")
			if f.order == nil || f.order.ID != id {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"order": f.order})

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, f *fakeAPI, token string) *api.Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, func() string { return token }, testLogger())
}

func testLogger() *logger.Logger {
	return logger.New("error")
}

func newTestStore() *store.Store {
	return store.New()
}
