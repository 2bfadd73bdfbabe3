package handlers_integrated_test_suite

import (
	"math"
	"net/http"
	"reflect"
	"testing"
	"time"

	handler "github.com/momna763/Target-Lock/internal/http/handlers"
	"github.com/momna763/Target-Lock/internal/insights"
	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

func score(v int) *int { return &v }

func TestCatalogFlow(t *testing.T) {
	env := newIntegratedEnv(t)

	var ids []string
	for _, req := range []handler.ProductRequest{
		{Name: "Smart Watch", Category: "Electronics", ProfitabilityScore: score(90), TrendPercentage: 20, Tags: []string{"wearable"}, Availability: &handler.AvailabilityRequest{InStock: true, StockCount: 3}},
		{Name: "Throw Pillow", Category: "Home", ProfitabilityScore: score(70), TrendPercentage: 5},
		{Name: "Power Bank", Category: "Electronics", ProfitabilityScore: score(81), TrendPercentage: 11, Tags: []string{"gadget"}},
	} {
		w := env.do(http.MethodPost, "/api/products", env.token, req)
		expectStatus(t, w, http.StatusCreated)
		ids = append(ids, decode[models.Product](t, w).ID)
	}

	t.Run("Search uses the mongo filter", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/products?q=POWER", env.token, nil)
		expectStatus(t, w, http.StatusOK)
		resp := decode[handler.ProductsSearchResult](t, w)
		if len(resp.Data) != 1 || resp.Data[0].Name != "Power Bank" {
			t.Fatalf("expected only Power Bank, got %+v", resp.Data)
		}
		if resp.Meta.TotalCount != 1 {
			t.Errorf("expected totalCount 1, got %d", resp.Meta.TotalCount)
		}

		w = env.do(http.MethodGet, "/api/products?inStock=false", env.token, nil)
		if total := decode[handler.ProductsSearchResult](t, w).Meta.TotalCount; total != 2 {
			t.Errorf("expected 2 out-of-stock products, got %d", total)
		}
	})

	t.Run("Categories are aggregated", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/products/categories", env.token, nil)
		expectStatus(t, w, http.StatusOK)
		want := []repo.CategoryCount{{Category: "Electronics", Count: 2}, {Category: "Home", Count: 1}}
		if got := decode[[]repo.CategoryCount](t, w); !reflect.DeepEqual(want, got) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("Metrics and recommendations read the store", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/metrics", env.token, nil)
		expectStatus(t, w, http.StatusOK)
		if src := w.Header().Get(handler.DataSourceHeader); src != "" {
			t.Errorf("expected no data source header, got %q", src)
		}
		want := handler.MetricsResponse{
			TotalProducts:    3,
			AvgProfitability: 80,
			TrendingThisWeek: 2,
			TopCategory:      "Electronics",
			MarketsCovered:   2,
		}
		if got := decode[handler.MetricsResponse](t, w); got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}

		w = env.do(http.MethodGet, "/api/recommendations?limit=1", env.token, nil)
		expectStatus(t, w, http.StatusOK)
		scored := decode[[]insights.ScoredProduct](t, w)
		if len(scored) != 1 || scored[0].ID != ids[0] {
			t.Errorf("expected Smart Watch first, got %+v", scored)
		}
	})

	t.Run("Trend points chain their previous value", func(t *testing.T) {
		day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		for i, v := range []float64{50, 75} {
			date := day.AddDate(0, 0, i)
			w := env.do(http.MethodPost, "/api/trends", env.token, handler.TrendRequest{ProductID: ids[1], Metric: models.MetricSales, Value: v, Date: &date})
			expectStatus(t, w, http.StatusCreated)
		}

		w := env.do(http.MethodGet, "/api/trends/"+ids[1]+"?metric=sales", env.token, nil)
		expectStatus(t, w, http.StatusOK)
		trends := decode[[]models.Trend](t, w)
		if len(trends) != 2 {
			t.Fatalf("expected 2 trend points, got %d", len(trends))
		}
		if trends[1].ProductID != ids[1] {
			t.Errorf("expected product %s, got %s", ids[1], trends[1].ProductID)
		}
		if math.Abs(trends[1].ChangePercentage-50) > 1e-9 {
			t.Errorf("expected +50%%, got %v", trends[1].ChangePercentage)
		}
	})

	t.Run("Delete removes the document", func(t *testing.T) {
		w := env.do(http.MethodDelete, "/api/products/"+ids[2], env.token, nil)
		expectStatus(t, w, http.StatusNoContent)

		w = env.do(http.MethodGet, "/api/products/"+ids[2], env.token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", w.Code)
		}
	})
}

func TestHealth_AllUp(t *testing.T) {
	env := newIntegratedEnv(t)

	w := env.do(http.MethodGet, "/health", "", nil)
	expectStatus(t, w, http.StatusOK)
	resp := decode[handler.HealthResponse](t, w)
	want := map[string]string{"mongo": "up", "postgres": "up"}
	if !reflect.DeepEqual(want, resp.Checks) {
		t.Errorf("expected %v, got %v", want, resp.Checks)
	}
}
