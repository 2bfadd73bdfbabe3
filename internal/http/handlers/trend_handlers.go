package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

const defaultTrendSource = "manual"

// GetTrends godoc
// @Summary Trend points of a product
// @Description Metric observations for one product, oldest first
// @Tags trends
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param metric query string false "price, sales, popularity, profitability or stock"
// @Success 200 {array} models.Trend
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/trends/{productId} [get]
func (s *Server) GetTrends(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		productID = r.URL.Query().Get("productId")
	}
	if productID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	metric := strings.TrimSpace(r.URL.Query().Get("metric"))
	if metric != "" && !slices.Contains(models.TrendMetrics, metric) {
		writeError(w, http.StatusBadRequest, "unknown metric")
		return
	}

	trends, err := s.trends.ListByProduct(r.Context(), productID, metric)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidID) {
			writeError(w, http.StatusBadRequest, "invalid product ID")
			return
		}
		s.internalError(w, r, "could not fetch trends", err)
		return
	}
	s.respond(w, r, http.StatusOK, trends)
}

// CreateTrend godoc
// @Summary Record a trend point
// @Description Without previousValue the latest stored value of the same metric is used
// @Tags trends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trend body TrendRequest true "Trend point"
// @Success 201 {object} models.Trend
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/trends [post]
func (s *Server) CreateTrend(w http.ResponseWriter, r *http.Request) {
	var req TrendRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if !slices.Contains(models.TrendMetrics, req.Metric) {
		writeError(w, http.StatusBadRequest, "metric must be one of "+strings.Join(models.TrendMetrics, ", "))
		return
	}

	if _, err := s.products.GetByID(r.Context(), req.ProductID); err != nil {
		s.writeRepoError(w, r, "could not fetch product", err)
		return
	}

	trend := models.Trend{
		ProductID:     req.ProductID,
		Metric:        req.Metric,
		Value:         req.Value,
		PreviousValue: req.PreviousValue,
		Source:        req.Source,
		Date:          s.now().UTC(),
	}
	if req.Date != nil {
		trend.Date = req.Date.UTC()
	}
	if trend.Source == "" {
		trend.Source = defaultTrendSource
	}
	if trend.PreviousValue == nil {
		latest, err := s.trends.Latest(r.Context(), req.ProductID, req.Metric)
		switch {
		case err == nil:
			prev := latest.Value
			trend.PreviousValue = &prev
		case !errors.Is(err, repo.ErrTrendNotFound):
			s.internalError(w, r, "could not fetch previous trend", err)
			return
		}
	}
	trend.ApplyPrevious()

	created, err := s.trends.Create(r.Context(), trend)
	if err != nil {
		s.internalError(w, r, "could not record trend", err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}
