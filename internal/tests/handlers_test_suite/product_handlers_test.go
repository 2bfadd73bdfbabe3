package handlers_test_suite

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"reflect"
	"slices"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	handler "github.com/momna763/Target-Lock/internal/http/handlers"
	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

func TestCreateProduct_Valid(t *testing.T) {
	env := newTestEnv(t)

	created := env.createProduct(t, product("Wireless Earbuds", "Electronics", 88, 12.5, "audio", "bluetooth"))

	if !primitive.IsValidObjectID(created.ID) {
		t.Errorf("expected an ObjectID, got %q", created.ID)
	}
	if created.Name != "Wireless Earbuds" {
		t.Errorf("expected name 'Wireless Earbuds', got %v", created.Name)
	}
	if created.ProfitabilityScore != 88 {
		t.Errorf("expected profitability 88, got %v", created.ProfitabilityScore)
	}
	if created.Price == nil {
		t.Fatalf("expected a price")
	}
	if created.Price.Currency != "USD" {
		t.Errorf("expected default currency USD, got %v", created.Price.Currency)
	}
	if !slices.Equal(created.Tags, []string{"audio", "bluetooth"}) {
		t.Errorf("unexpected tags %v", created.Tags)
	}
	if created.TrackedSince.IsZero() {
		t.Errorf("expected trackedSince to be set")
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	env := newTestEnv(t)
	tooHigh := 101

	tests := []struct {
		name           string
		payload        handler.ProductRequest
		expectedFields []string
	}{
		{
			name:           "Empty name and category",
			payload:        handler.ProductRequest{},
			expectedFields: []string{"name", "category"},
		},
		{
			name:           "Score out of range",
			payload:        handler.ProductRequest{Name: "Lamp", Category: "Home", ProfitabilityScore: &tooHigh},
			expectedFields: []string{"profitabilityScore"},
		},
		{
			name:           "Non-positive price",
			payload:        handler.ProductRequest{Name: "Lamp", Category: "Home", Price: &handler.PriceRequest{Current: 0}},
			expectedFields: []string{"price.current"},
		},
		{
			name:           "Negative stock",
			payload:        handler.ProductRequest{Name: "Lamp", Category: "Home", Availability: &handler.AvailabilityRequest{StockCount: -1}},
			expectedFields: []string{"availability.stockCount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/products", env.adminToken, tt.payload)
			expectStatus(t, w, http.StatusBadRequest)

			resp := decode[handler.ValidationErrorResponse](t, w)
			var fields []string
			for _, e := range resp.Errors {
				fields = append(fields, e.Field)
			}
			slices.Sort(fields)
			want := slices.Clone(tt.expectedFields)
			slices.Sort(want)
			if !slices.Equal(want, fields) {
				t.Errorf("expected errors on %v, got %v", want, fields)
			}
		})
	}
}

func TestCreateProduct_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(`{"name": "Lamp" "category": }`))
	req.Header.Set("Authorization", "Bearer "+env.adminToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/products", env.userToken, product("Lamp", "Home", 50, 0))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin, got %d", w.Code)
	}

	w = env.do(http.MethodPost, "/api/products", "", product("Lamp", "Home", 50, 0))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}

func TestGetProducts_Filters(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, product("Smart Watch", "Electronics", 92, 18))
	env.createProduct(t, product("Smart Lamp", "Home", 70, 4))
	env.createProduct(t, product("Yoga Mat", "Sports", 81, 11))
	outOfStock := product("Smart Plug", "Electronics", 60, 2)
	outOfStock.Availability = &handler.AvailabilityRequest{InStock: false}
	env.createProduct(t, outOfStock)

	tests := []struct {
		name      string
		query     string
		wantNames []string
		wantTotal int
	}{
		{"all, best first", "", []string{"Smart Watch", "Yoga Mat", "Smart Lamp", "Smart Plug"}, 4},
		{"name search is case-insensitive", "?q=smart", []string{"Smart Watch", "Smart Lamp", "Smart Plug"}, 3},
		{"category", "?category=Electronics", []string{"Smart Watch", "Smart Plug"}, 2},
		{"min profitability", "?minProfitability=80", []string{"Smart Watch", "Yoga Mat"}, 2},
		{"out of stock only", "?inStock=false", []string{"Smart Plug"}, 1},
		{"paging keeps the total", "?limit=2&offset=1", []string{"Yoga Mat", "Smart Lamp"}, 4},
		{"offset past the end", "?offset=10", []string{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/products"+tt.query, env.userToken, nil)
			expectStatus(t, w, http.StatusOK)

			resp := decode[handler.ProductsSearchResult](t, w)
			names := []string{}
			for _, p := range resp.Data {
				names = append(names, p.Name)
			}
			if !slices.Equal(tt.wantNames, names) {
				t.Errorf("expected %v, got %v", tt.wantNames, names)
			}
			if resp.Meta.TotalCount != tt.wantTotal {
				t.Errorf("expected totalCount %d, got %d", tt.wantTotal, resp.Meta.TotalCount)
			}
		})
	}
}

func TestGetProducts_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"?limit=0", "?limit=1001", "?limit=abc", "?offset=-1", "?inStock=maybe", "?minProfitability=150"} {
		w := env.do(http.MethodGet, "/api/products"+q, env.userToken, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestGetProductByID(t *testing.T) {
	env := newTestEnv(t)
	created := env.createProduct(t, product("Desk Fan", "Home", 66, 3))

	w := env.do(http.MethodGet, productPath(created.ID), env.userToken, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Product](t, w).Name; got != "Desk Fan" {
		t.Errorf("expected 'Desk Fan', got %v", got)
	}

	w = env.do(http.MethodGet, productPath("not-an-id"), env.userToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed id, got %d", w.Code)
	}

	w = env.do(http.MethodGet, productPath(primitive.NewObjectID().Hex()), env.userToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown id, got %d", w.Code)
	}
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	created := env.createProduct(t, product("Desk Fan", "Home", 66, 3))

	w := env.do(http.MethodPut, productPath(created.ID), env.adminToken, product("Tower Fan", "Home", 77, 9))
	expectStatus(t, w, http.StatusOK)

	updated := decode[models.Product](t, w)
	if updated.ID != created.ID {
		t.Errorf("expected id %s to be kept, got %s", created.ID, updated.ID)
	}
	if updated.Name != "Tower Fan" || updated.ProfitabilityScore != 77 {
		t.Errorf("update not applied: %+v", updated)
	}

	w = env.do(http.MethodPut, productPath(primitive.NewObjectID().Hex()), env.adminToken, product("Ghost", "Home", 1, 0))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = env.do(http.MethodPut, productPath(created.ID), env.adminToken, handler.ProductRequest{Name: "No category"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	created := env.createProduct(t, product("Desk Fan", "Home", 66, 3))

	w := env.do(http.MethodDelete, productPath(created.ID), env.userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin, got %d", w.Code)
	}

	w = env.do(http.MethodDelete, productPath(created.ID), env.adminToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}

	w = env.do(http.MethodDelete, productPath(created.ID), env.adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestTrendingAndCategories(t *testing.T) {
	env := newTestEnv(t)
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		category := "Home"
		if i%3 == 0 {
			category = "Garden"
		}
		env.createProduct(t, product(name, category, 50+i, 0))
	}

	w := env.do(http.MethodGet, "/api/products/trending", env.userToken, nil)
	expectStatus(t, w, http.StatusOK)
	trending := decode[[]models.Product](t, w)
	if len(trending) != 5 {
		t.Fatalf("expected 5 trending products, got %d", len(trending))
	}
	if trending[0].Name != "G" || trending[4].Name != "C" {
		t.Errorf("expected G..C, got %s..%s", trending[0].Name, trending[4].Name)
	}

	w = env.do(http.MethodGet, "/api/products/categories", env.userToken, nil)
	expectStatus(t, w, http.StatusOK)
	want := []repo.CategoryCount{{Category: "Home", Count: 4}, {Category: "Garden", Count: 3}}
	if got := decode[[]repo.CategoryCount](t, w); !reflect.DeepEqual(want, got) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
