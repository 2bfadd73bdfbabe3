package handlers_test_suite

import (
	"math"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	handler "github.com/momna763/Target-Lock/internal/http/handlers"
	"github.com/momna763/Target-Lock/internal/models"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrends_RecordAndList(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, product("Air Fryer", "Home", 75, 8))
	day1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	w := env.do(http.MethodPost, "/api/trends", env.adminToken, handler.TrendRequest{ProductID: p.ID, Metric: models.MetricPrice, Value: 100, Date: &day1})
	expectStatus(t, w, http.StatusCreated)
	first := decode[models.Trend](t, w)
	if first.PreviousValue != nil || first.Change != 0 {
		t.Errorf("first point should have no previous value, got %+v", first)
	}
	if first.Source != "manual" {
		t.Errorf("expected source manual, got %q", first.Source)
	}

	w = env.do(http.MethodPost, "/api/trends", env.adminToken, handler.TrendRequest{ProductID: p.ID, Metric: models.MetricPrice, Value: 120, Date: &day2})
	expectStatus(t, w, http.StatusCreated)
	second := decode[models.Trend](t, w)
	if second.PreviousValue == nil {
		t.Fatalf("expected previous value to be taken from the first point")
	}
	if !near(*second.PreviousValue, 100) || !near(second.Change, 20) || !near(second.ChangePercentage, 20) {
		t.Errorf("expected previous 100, change 20, 20%%, got %v %v %v", *second.PreviousValue, second.Change, second.ChangePercentage)
	}

	w = env.do(http.MethodGet, "/api/trends/"+p.ID, env.userToken, nil)
	expectStatus(t, w, http.StatusOK)
	trends := decode[[]models.Trend](t, w)
	if len(trends) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(trends))
	}
	if trends[0].ID != first.ID || trends[1].ID != second.ID {
		t.Errorf("expected oldest first, got %s, %s", trends[0].ID, trends[1].ID)
	}

	w = env.do(http.MethodGet, "/api/trends?productId="+p.ID+"&metric=sales", env.userToken, nil)
	expectStatus(t, w, http.StatusOK)
	if n := len(decode[[]models.Trend](t, w)); n != 0 {
		t.Errorf("expected no sales points, got %d", n)
	}
}

func TestTrends_ExplicitPreviousValue(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, product("Air Fryer", "Home", 75, 8))
	prev := 0.0

	w := env.do(http.MethodPost, "/api/trends", env.adminToken, handler.TrendRequest{ProductID: p.ID, Metric: models.MetricSales, Value: 40, PreviousValue: &prev})
	expectStatus(t, w, http.StatusCreated)

	trend := decode[models.Trend](t, w)
	if !near(trend.Change, 40) {
		t.Errorf("expected change 40, got %v", trend.Change)
	}
	if trend.ChangePercentage != 0 {
		t.Errorf("expected no percentage from a zero base, got %v", trend.ChangePercentage)
	}
}

func TestTrends_Errors(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, product("Air Fryer", "Home", 75, 8))

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"unknown metric", http.MethodPost, "/api/trends", env.adminToken, handler.TrendRequest{ProductID: p.ID, Metric: "mood", Value: 1}, http.StatusBadRequest},
		{"unknown product", http.MethodPost, "/api/trends", env.adminToken, handler.TrendRequest{ProductID: primitive.NewObjectID().Hex(), Metric: models.MetricPrice, Value: 1}, http.StatusNotFound},
		{"non-admin", http.MethodPost, "/api/trends", env.userToken, handler.TrendRequest{ProductID: p.ID, Metric: models.MetricPrice, Value: 1}, http.StatusForbidden},
		{"unknown metric filter", http.MethodGet, "/api/trends/" + p.ID + "?metric=mood", env.userToken, nil, http.StatusBadRequest},
		{"malformed id", http.MethodGet, "/api/trends/bad-id", env.userToken, nil, http.StatusBadRequest},
		{"missing product id", http.MethodGet, "/api/trends", env.userToken, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
