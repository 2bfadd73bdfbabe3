package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momna763/Target-Lock/internal/models"
)

func scoredInput(name string, score int, trend float64, inStock bool) models.Product {
	p := models.Product{Name: name, Category: "Electronics", ProfitabilityScore: score, TrendPercentage: trend}
	if inStock {
		p.Availability = &models.Availability{InStock: true, StockCount: 5}
	}
	return p
}

func TestScore_Rules(t *testing.T) {
	tests := []struct {
		name       string
		product    models.Product
		wantScore  int
		wantReason string
	}{
		{
			name:       "high profit, strong trend, in stock",
			product:    scoredInput("a", 90, 20, true),
			wantScore:  80,
			wantReason: "High profitability potential and strong upward trend, in stock",
		},
		{
			name:       "nothing applies",
			product:    scoredInput("b", 40, 0, false),
			wantScore:  0,
			wantReason: "Available product",
		},
		{
			name:       "good profit and positive trend",
			product:    scoredInput("c", 75, 10, false),
			wantScore:  45,
			wantReason: "Good profitability potential and positive trend",
		},
		{
			name:       "upper edge of good tier",
			product:    scoredInput("d", 84, 14.99, false),
			wantScore:  45,
			wantReason: "Good profitability potential and positive trend",
		},
		{
			name:       "profit and stock only",
			product:    scoredInput("e", 85, 9, true),
			wantScore:  50,
			wantReason: "High profitability potential, in stock",
		},
		{
			name:       "trend and stock only",
			product:    scoredInput("f", 10, 15, true),
			wantScore:  40,
			wantReason: "strong upward trend, in stock",
		},
		{
			name:       "stock only",
			product:    scoredInput("g", 74, -5, true),
			wantScore:  10,
			wantReason: "in stock",
		},
		{
			name:       "missing availability block",
			product:    models.Product{Name: "h", ProfitabilityScore: 95},
			wantScore:  40,
			wantReason: "High profitability potential",
		},
		{
			name: "availability present but out of stock",
			product: models.Product{
				Name:         "i",
				Availability: &models.Availability{InStock: false, StockCount: 3},
			},
			wantScore:  0,
			wantReason: "Available product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reason := Score(tt.product)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestRecommend_SingleProductScenarios(t *testing.T) {
	got, err := Recommend([]models.Product{scoredInput("hit", 90, 20, true)}, 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 80, got[0].RecommendationScore)
	assert.Equal(t, "High profitability potential and strong upward trend, in stock", got[0].Reason)
	assert.Equal(t, "hit", got[0].Name)

	got, err = Recommend([]models.Product{scoredInput("miss", 40, 0, false)}, 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].RecommendationScore)
	assert.Equal(t, "Available product", got[0].Reason)
}

func TestRecommend_SortedAndStable(t *testing.T) {
	products := []models.Product{
		scoredInput("low-1", 10, 0, false),  // 0
		scoredInput("mid-1", 80, 0, true),   // 35
		scoredInput("top", 90, 20, true),    // 80
		scoredInput("mid-2", 75, 0, true),   // 35
		scoredInput("low-2", 20, 0, false),  // 0
		scoredInput("mid-3", 0, 12, true),   // 30
		scoredInput("mid-4", 76, 0.5, true), // 35
	}

	got, err := Recommend(products, len(products))
	require.NoError(t, err)

	var names []string
	for i, sp := range got {
		names = append(names, sp.Name)
		if i > 0 {
			assert.LessOrEqual(t, sp.RecommendationScore, got[i-1].RecommendationScore)
		}
	}
	assert.Equal(t, []string{"top", "mid-1", "mid-2", "mid-4", "mid-3", "low-1", "low-2"}, names)
}

func TestRecommend_Limit(t *testing.T) {
	var products []models.Product
	for i := range 12 {
		products = append(products, scoredInput(fmt.Sprintf("p%d", i), i*8, float64(i), i%2 == 0))
	}

	for _, n := range []int{0, 1, 8, 12, 50} {
		got, err := Recommend(products, n)
		require.NoError(t, err)
		assert.Len(t, got, min(n, len(products)), "limit %d", n)
	}

	got, err := Recommend([]models.Product{}, 8)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommend_InvalidArguments(t *testing.T) {
	_, err := Recommend(nil, 8)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Recommend([]models.Product{scoredInput("a", 1, 1, false)}, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRecommend_DoesNotMutateAndIsIdempotent(t *testing.T) {
	products := []models.Product{
		scoredInput("a", 10, 0, false),
		scoredInput("b", 95, 30, true),
		scoredInput("c", 80, 11, false),
		scoredInput("d", 10, 0, false),
	}
	before := fmt.Sprintf("%+v", products)

	first, err := Recommend(products, 3)
	require.NoError(t, err)
	second, err := Recommend(products, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, fmt.Sprintf("%+v", products))
	assert.Equal(t, "a", products[0].Name)
}
