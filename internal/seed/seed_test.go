package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momna763/Target-Lock/internal/models"
)

var seedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAccounts_FirstIsAdmin(t *testing.T) {
	accounts := NewGenerator(1, seedTime).Accounts()

	require.Len(t, accounts, UserCount)
	assert.Equal(t, models.RoleAdmin, accounts[0].Role)
	for _, a := range accounts[1:] {
		assert.Equal(t, models.RoleUser, a.Role)
		assert.GreaterOrEqual(t, len(a.Password), 6)
	}
}

func TestProducts_Ranges(t *testing.T) {
	products := NewGenerator(42, seedTime).Products()

	require.Len(t, products, ProductCount)
	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.Contains(t, departments, p.Category)
		assert.GreaterOrEqual(t, p.ProfitabilityScore, 60)
		assert.LessOrEqual(t, p.ProfitabilityScore, 95)
		assert.GreaterOrEqual(t, p.TrendPercentage, -20.0)
		assert.LessOrEqual(t, p.TrendPercentage, 40.0)
		assert.GreaterOrEqual(t, p.CurrentPrice(), 10.0)
		assert.LessOrEqual(t, p.CurrentPrice(), 500.0)
		assert.NotEmpty(t, p.Tags)
		assert.LessOrEqual(t, len(p.Tags), 3)
		assert.False(t, p.TrackedSince.After(seedTime))
	}
}

func TestProducts_SameSeedSameData(t *testing.T) {
	a := NewGenerator(7, seedTime).Products()
	b := NewGenerator(7, seedTime).Products()

	assert.Equal(t, a, b)
}

func TestTrends_OnlyFirstTenProducts(t *testing.T) {
	ids := make([]string, 15)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}

	trends := NewGenerator(3, seedTime).Trends(ids)

	require.Len(t, trends, TrendedProducts*TrendsPerProduct)
	for _, tr := range trends {
		assert.Contains(t, ids[:TrendedProducts], tr.ProductID)
		assert.Contains(t, models.TrendMetrics, tr.Metric)
		require.NotNil(t, tr.PreviousValue)
		assert.InDelta(t, tr.Value-*tr.PreviousValue, tr.Change, 1e-9)
	}
}

func TestReports_TwoPerUser(t *testing.T) {
	reports := NewGenerator(5, seedTime).Reports([]int{1, 2, 3})

	require.Len(t, reports, 3*ReportsPerUser)
	assert.Equal(t, 1, reports[0].UserID)
	assert.Equal(t, 3, reports[5].UserID)
	for _, r := range reports {
		assert.Contains(t, models.ReportTypes, r.Type)
		assert.NotEmpty(t, r.Filters.Categories)
		assert.Contains(t, r.Data, "metrics")
	}
}
