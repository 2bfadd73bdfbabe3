// Package insights holds the dashboard arithmetic: the metrics snapshot and
// the recommendation ranking. Everything here is a pure function of the
// product slice it is given; nothing is cached and nothing is mutated.
package insights

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/momna763/Target-Lock/internal/models"
)

// DefaultTrendingThreshold is the trendPercentage at which a product counts as trending.
const DefaultTrendingThreshold = 10.0

// NoCategory is reported as TopCategory when no product carries a category.
const NoCategory = "N/A"

// ErrInvalidArgument is returned when the input is not a product collection at all.
var ErrInvalidArgument = errors.New("invalid argument")

// MetricsSnapshot summarises a product collection at one point in time.
type MetricsSnapshot struct {
	TotalProducts    int
	AvgProfitability int
	TrendingCount    int
	TopCategory      string
	DistinctTagCount int
}

// Aggregator computes MetricsSnapshot values. The zero value uses
// DefaultTrendingThreshold; NewAggregator pins the threshold, zero included.
type Aggregator struct {
	TrendingThreshold float64
	thresholdSet      bool
}

// NewAggregator returns an Aggregator with the given trending threshold.
func NewAggregator(trendingThreshold float64) Aggregator {
	return Aggregator{TrendingThreshold: trendingThreshold, thresholdSet: true}
}

// Aggregate uses the default threshold.
func Aggregate(products []models.Product) (MetricsSnapshot, error) {
	return Aggregator{}.Aggregate(products)
}

// Aggregate reduces products to a MetricsSnapshot in a single pass.
// A nil slice is rejected; an empty one yields the zero snapshot with
// TopCategory set to NoCategory.
func (a Aggregator) Aggregate(products []models.Product) (MetricsSnapshot, error) {
	if products == nil {
		return MetricsSnapshot{}, fmt.Errorf("%w: products must not be nil", ErrInvalidArgument)
	}

	threshold := a.TrendingThreshold
	if threshold == 0 && !a.thresholdSet {
		threshold = DefaultTrendingThreshold
	}

	snap := MetricsSnapshot{TotalProducts: len(products), TopCategory: NoCategory}

	var scoreSum int
	categoryCounts := make(map[string]int)
	var categoryOrder []string
	tags := make(map[string]struct{})

	for _, p := range products {
		scoreSum += p.ProfitabilityScore

		if p.TrendPercentage >= threshold {
			snap.TrendingCount++
		}

		if strings.TrimSpace(p.Category) != "" {
			if _, seen := categoryCounts[p.Category]; !seen {
				categoryOrder = append(categoryOrder, p.Category)
			}
			categoryCounts[p.Category]++
		}

		for _, tag := range p.Tags {
			tags[tag] = struct{}{}
		}
	}

	if len(products) > 0 {
		snap.AvgProfitability = roundHalfUp(float64(scoreSum) / float64(len(products)))
	}

	// first-seen order makes the tie-break independent of map iteration
	best := 0
	for _, c := range categoryOrder {
		if categoryCounts[c] > best {
			best = categoryCounts[c]
			snap.TopCategory = c
		}
	}

	snap.DistinctTagCount = len(tags)
	return snap, nil
}

// roundHalfUp rounds .5 toward positive infinity, like JavaScript's Math.round.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
