package catalog

import (
	"time"

	"github.com/momna763/Target-Lock/internal/models"
)

var demoTrackedSince = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

type demoItem struct {
	id, name, category, description string
	price                           float64
	profitability                   int
	trend                           float64
	inStock                         bool
	stock                           int
	tags                            []string
}

var demoItems = []demoItem{
	{"66a000000000000000000001", "Smart LED Desk Lamp", "Electronics", "Voice-controlled smart lamp with adjustable brightness and color temperature", 89.99, 85, 12, true, 45, []string{"smart-home", "led", "voice-control"}},
	{"66a000000000000000000002", "Eco Bottle", "Home", "Insulated stainless steel water bottle", 24.50, 78, 8, true, 120, []string{"eco-friendly", "bestseller"}},
	{"66a000000000000000000003", "Yoga Mat", "Fitness", "Non-slip mat with alignment lines", 39.00, 81, 15, true, 60, []string{"trending", "eco-friendly"}},
	{"66a000000000000000000004", "Face Cream", "Beauty", "Daily moisturising cream for all skin types", 19.99, 72, 10, false, 0, []string{"new"}},
	{"66a000000000000000000005", "Portable Projector", "Gadgets", "Pocket projector with built-in speaker", 249.00, 88, 22, true, 14, []string{"premium", "trending"}},
	{"66a000000000000000000006", "Noise Cancelling Headphones", "Audio", "Over-ear headphones with active noise cancelling", 179.00, 76, 11, true, 30, []string{"premium"}},
	{"66a000000000000000000007", "Fitness Tracker", "Wearables", "Heart-rate and sleep tracking band", 59.99, 90, 18, false, 0, []string{"trending", "bestseller"}},
	{"66a000000000000000000008", "Smart Home Hub", "Electronics", "Hub for lights, plugs and sensors", 129.00, 64, 4, true, 8, []string{"smart-home", "new"}},
}

// DemoProducts returns a fresh copy of the built-in demo catalog.
func DemoProducts() []models.Product {
	products := make([]models.Product, 0, len(demoItems))
	for _, it := range demoItems {
		products = append(products, models.Product{
			ID:                 it.id,
			Name:               it.name,
			Category:           it.category,
			Description:        it.description,
			Price:              &models.Price{Current: it.price, Currency: "USD"},
			ProfitabilityScore: it.profitability,
			TrendPercentage:    it.trend,
			Availability:       &models.Availability{InStock: it.inStock, StockCount: it.stock},
			Tags:               append([]string(nil), it.tags...),
			Source:             "demo",
			TrackedSince:       demoTrackedSince,
			LastUpdated:        demoTrackedSince,
			CreatedAt:          demoTrackedSince,
			UpdatedAt:          demoTrackedSince,
		})
	}
	return products
}
