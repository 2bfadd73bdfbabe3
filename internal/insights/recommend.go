package insights

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/momna763/Target-Lock/internal/models"
)

// DefaultRecommendationLimit is how many products the dashboard asks for.
// MaxRecommendationLimit caps what the API hands out per request.
const (
	DefaultRecommendationLimit = 8
	MaxRecommendationLimit     = 100
)

// Score tiers. Points are additive per product.
const (
	HighProfitabilityScore  = 85
	GoodProfitabilityScore  = 75
	StrongTrendPercentage   = 15.0
	PositiveTrendPercentage = 10.0

	highProfitabilityPoints = 40
	goodProfitabilityPoints = 25
	strongTrendPoints       = 30
	positiveTrendPoints     = 20
	inStockPoints           = 10
)

const fallbackReason = "Available product"

// ScoredProduct is a product annotated with its recommendation rank.
type ScoredProduct struct {
	models.Product
	RecommendationScore int    `json:"recommendationScore"`
	Reason              string `json:"reason"`
}

// Score applies the additive rule set to a single product.
func Score(p models.Product) (int, string) {
	var score int
	var reason string

	switch {
	case p.ProfitabilityScore >= HighProfitabilityScore:
		score += highProfitabilityPoints
		reason = "High profitability potential"
	case p.ProfitabilityScore >= GoodProfitabilityScore:
		score += goodProfitabilityPoints
		reason = "Good profitability potential"
	}

	var trend string
	switch {
	case p.TrendPercentage >= StrongTrendPercentage:
		score += strongTrendPoints
		trend = "strong upward trend"
	case p.TrendPercentage >= PositiveTrendPercentage:
		score += positiveTrendPoints
		trend = "positive trend"
	}
	reason = joinReason(reason, " and ", trend)

	if p.InStock() {
		score += inStockPoints
		reason = joinReason(reason, ", ", "in stock")
	}

	if reason == "" {
		reason = fallbackReason
	}
	return score, reason
}

func joinReason(reason, sep, fragment string) string {
	switch {
	case fragment == "":
		return reason
	case reason == "":
		return fragment
	default:
		return reason + sep + fragment
	}
}

// Recommend scores every product and returns the n best, highest first.
// Equal scores keep their input order. products is not modified.
func Recommend(products []models.Product, n int) ([]ScoredProduct, error) {
	if products == nil {
		return nil, fmt.Errorf("%w: products must not be nil", ErrInvalidArgument)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidArgument, n)
	}

	scored := make([]ScoredProduct, len(products))
	for i, p := range products {
		score, reason := Score(p)
		scored[i] = ScoredProduct{Product: p, RecommendationScore: score, Reason: reason}
	}

	slices.SortStableFunc(scored, func(a, b ScoredProduct) int {
		return cmp.Compare(b.RecommendationScore, a.RecommendationScore)
	})

	if n < len(scored) {
		scored = scored[:n]
	}
	return scored, nil
}
