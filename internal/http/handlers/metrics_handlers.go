package handlers

import (
	"net/http"

	"github.com/momna763/Target-Lock/internal/insights"
)

// GetMetrics godoc
// @Summary Dashboard metrics
// @Description Totals, average profitability, trending count, top category and distinct tags over the whole catalog
// @Tags insights
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MetricsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/metrics [get]
func (s *Server) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m, src, err := s.catalog.Metrics(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to compute metrics", err)
		return
	}
	markSource(w, src)
	s.respond(w, r, http.StatusOK, metricsResponse(m))
}

func metricsResponse(m insights.MetricsSnapshot) MetricsResponse {
	return MetricsResponse{
		TotalProducts:    m.TotalProducts,
		AvgProfitability: m.AvgProfitability,
		TrendingThisWeek: m.TrendingCount,
		TopCategory:      m.TopCategory,
		MarketsCovered:   m.DistinctTagCount,
	}
}

// GetRecommendations godoc
// @Summary Recommended products
// @Description Products ranked by recommendation score with the reason for each
// @Tags insights
// @Produce json
// @Security BearerAuth
// @Param limit query int false "How many to return (default 8, max 100)"
// @Success 200 {array} insights.ScoredProduct
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/recommendations [get]
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n := s.recommendationLimit
	if limit != nil {
		n = *limit
	}
	if n < 0 || n > insights.MaxRecommendationLimit {
		writeError(w, http.StatusBadRequest, "limit must be between 0 and 100")
		return
	}

	scored, src, err := s.catalog.Recommendations(r.Context(), n)
	if err != nil {
		s.internalError(w, r, "failed to compute recommendations", err)
		return
	}
	markSource(w, src)
	s.respond(w, r, http.StatusOK, scored)
}
