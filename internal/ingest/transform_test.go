package ingest

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momna763/Target-Lock/internal/models"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{
		"Rs. 45,000":     45000,
		"Rs. 1,24,999":   124999,
		"PKR 29999":      29999,
		"Rs. 45,000.75":  45000,
		"call for price": 0,
		"":               0,
	}
	for in, want := range cases {
		assert.True(t, decimal.NewFromInt(want).Equal(ParsePrice(in)), "%q -> %s", in, ParsePrice(in))
	}
}

func TestPriceOf_Numbers(t *testing.T) {
	assert.True(t, decimal.NewFromInt(500).Equal(priceOf(int32(500))))
	assert.True(t, decimal.NewFromInt(500).Equal(priceOf(int64(500))))
	assert.True(t, decimal.RequireFromString("499.5").Equal(priceOf(499.5)))
	assert.True(t, decimal.Zero.Equal(priceOf(nil)))
}

func TestDetectBrand(t *testing.T) {
	assert.Equal(t, "Samsung", DetectBrand("SAMSUNG Galaxy A15"))
	assert.Equal(t, "iPhone", DetectBrand("Apple iPhone 13"), "iPhone is listed before Apple")
	assert.Equal(t, "Tecno", DetectBrand("tecno spark 20"))
	assert.Equal(t, DefaultBrand, DetectBrand("Generic phone"))
}

func TestPriceTier(t *testing.T) {
	assert.Equal(t, TierBudget, PriceTier(decimal.NewFromInt(29999)))
	assert.Equal(t, TierMidRange, PriceTier(decimal.NewFromInt(30000)))
	assert.Equal(t, TierMidRange, PriceTier(decimal.NewFromInt(79999)))
	assert.Equal(t, TierPremium, PriceTier(decimal.NewFromInt(80000)))
}

func TestProfitabilityRanges(t *testing.T) {
	e := NewEstimator(rand.New(rand.NewPCG(3, 4)))
	for range 500 {
		b := e.Profitability(TierBudget, "Xiaomi")
		assert.True(t, b >= 70 && b <= 89, b)
		m := e.Profitability(TierMidRange, "Oppo")
		assert.True(t, m >= 60 && m <= 79, m)
		p := e.Profitability(TierPremium, "Nokia")
		assert.True(t, p >= 40 && p <= 59, p)
		s := e.Profitability(TierPremium, "Samsung")
		assert.True(t, s >= 30 && s <= 49, s)
	}
}

func TestTransform(t *testing.T) {
	e := NewEstimator(rand.New(rand.NewPCG(1, 1)))
	p := e.Transform(RawListing{ExternalID: "abc", Name: "Infinix Hot 40", Price: "Rs. 35,499", Image: "img.jpg", URL: "https://example.com/p"})

	assert.Equal(t, "Infinix Hot 40", p.Name)
	assert.Equal(t, Category, p.Category)
	assert.Equal(t, &models.Price{Current: 35499, Currency: Currency}, p.Price)
	assert.Equal(t, []string{"Infinix", "Smartphone", "Electronics", "Mobile", TierMidRange, "Daraz"}, p.Tags)
	assert.Equal(t, "Infinix smartphone - Infinix Hot 40. Available on Daraz Pakistan.", p.Description)
	require.NotNil(t, p.Availability)
	assert.True(t, p.Availability.InStock)
	assert.GreaterOrEqual(t, p.Availability.StockCount, 10)
	assert.LessOrEqual(t, p.Availability.StockCount, 59)
	assert.GreaterOrEqual(t, p.TrendPercentage, 0.0)
	assert.LessOrEqual(t, p.TrendPercentage, 24.0)
	assert.Equal(t, &models.Metadata{Source: MetadataSource, ExternalID: "abc", URL: "https://example.com/p"}, p.Metadata)

	unnamed := e.Transform(RawListing{})
	assert.Equal(t, "Unknown Smartphone", unnamed.Name)
	assert.Equal(t, "Mobile smartphone - Mobile Phone. Available on Daraz Pakistan.", unnamed.Description)
	assert.Equal(t, TierBudget, unnamed.Tags[4])
}

func TestTransform_Reproducible(t *testing.T) {
	raws := []RawListing{{Name: "Vivo Y17"}, {Name: "Realme C55", Price: 45000.0}}
	a := NewEstimator(rand.New(rand.NewPCG(9, 9))).TransformAll(raws)
	b := NewEstimator(rand.New(rand.NewPCG(9, 9))).TransformAll(raws)

	for i := range a {
		assert.Equal(t, a[i].ProfitabilityScore, b[i].ProfitabilityScore)
		assert.Equal(t, a[i].TrendPercentage, b[i].TrendPercentage)
		assert.Equal(t, a[i].StockCount(), b[i].StockCount())
	}
}

func TestSummarize(t *testing.T) {
	e := NewEstimator(rand.New(rand.NewPCG(5, 5)))
	products := e.TransformAll([]RawListing{
		{Name: "Samsung A05", Price: "Rs. 25,000"},
		{Name: "Samsung S24", Price: "Rs. 2,50,000"},
		{Name: "Oppo A78", Price: "Rs. 55,000"},
		{Name: "Nokia 105", Price: "Rs. 5,000"},
	})

	s := Summarize(products)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Budget)
	assert.Equal(t, 1, s.MidRange)
	assert.Equal(t, 1, s.Premium)
	assert.Equal(t, []BrandCount{{"Samsung", 2}, {"Nokia", 1}}, s.TopBrands(2))
}
