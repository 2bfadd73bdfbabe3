// Package seed generates the demo dataset loaded by cmd/seed.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momna763/Target-Lock/internal/models"
)

const (
	UserCount          = 5
	ProductCount       = 20
	TrendedProducts    = 10
	TrendsPerProduct   = 5
	ReportsPerUser     = 2
	DefaultPassword    = "targetlock123"
	defaultUserPrefix  = "analyst"
	defaultAdminName   = "admin"
	productTrackWindow = 365 * 24 * time.Hour
)

var (
	departments  = []string{"Electronics", "Home", "Sports", "Beauty", "Fashion", "Toys", "Garden", "Books"}
	adjectives   = []string{"Ergonomic", "Sleek", "Rustic", "Smart", "Handcrafted", "Gorgeous", "Practical", "Refined"}
	materials    = []string{"Steel", "Wooden", "Cotton", "Granite", "Bamboo", "Plastic", "Leather", "Ceramic"}
	nouns        = []string{"Chair", "Keyboard", "Lamp", "Bottle", "Backpack", "Headphones", "Watch", "Speaker"}
	productTags  = []string{"new", "trending", "eco-friendly", "premium", "bestseller"}
	reportTags   = []string{"monthly", "analysis", "performance", "insights"}
	reportCats   = []string{"Electronics", "Fashion", "Home", "Sports", "Beauty"}
	sources      = []string{"manual", "api", "web-scraping"}
	trendSources = []string{"manual", "api", "web-scraping", "calculated"}
	seedReports  = []string{models.ReportProductAnalysis, models.ReportTrend, models.ReportProfitability, models.ReportCustom}
)

// Account is a user to register; the first one is the admin.
type Account struct {
	Username string
	Password string
	Role     string
}

// Generator draws every value from one seeded source, so equal seeds give
// equal datasets.
type Generator struct {
	rnd *rand.Rand
	now time.Time
}

func NewGenerator(seed uint64, now time.Time) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now.UTC()}
}

func (g *Generator) Accounts() []Account {
	accounts := make([]Account, 0, UserCount)
	for i := range UserCount {
		a := Account{Username: fmt.Sprintf("%s%d", defaultUserPrefix, i), Password: DefaultPassword, Role: models.RoleUser}
		if i == 0 {
			a.Username = defaultAdminName
			a.Role = models.RoleAdmin
		}
		accounts = append(accounts, a)
	}
	return accounts
}

func (g *Generator) Products() []models.Product {
	products := make([]models.Product, 0, ProductCount)
	for range ProductCount {
		tracked := g.past(productTrackWindow)
		price, _ := decimal.NewFromInt(int64(g.between(1000, 50000))).Shift(-2).Float64()
		products = append(products, models.Product{
			Name:               fmt.Sprintf("%s %s %s", pick(g, adjectives), pick(g, materials), pick(g, nouns)),
			Category:           pick(g, departments),
			Description:        "Seeded demo product for local development.",
			ImageURL:           fmt.Sprintf("https://picsum.photos/seed/%d/400/400", g.rnd.IntN(100000)),
			ProfitabilityScore: g.between(60, 95),
			TrendPercentage:    float64(g.between(-20, 40)),
			Price:              &models.Price{Current: price, Currency: "USD"},
			Availability:       &models.Availability{InStock: g.rnd.IntN(2) == 1, StockCount: g.between(0, 100)},
			Tags:               g.subset(productTags, 1, 3),
			Source:             "seed",
			Metadata: &models.Metadata{
				Source:     pick(g, sources),
				ExternalID: uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%d", g.rnd.Uint64())).String(),
			},
			TrackedSince: tracked,
			LastUpdated:  g.past(7 * 24 * time.Hour),
		})
	}
	return products
}

// Trends builds TrendsPerProduct points for each of the first
// TrendedProducts ids.
func (g *Generator) Trends(productIDs []string) []models.Trend {
	if len(productIDs) > TrendedProducts {
		productIDs = productIDs[:TrendedProducts]
	}
	trends := make([]models.Trend, 0, len(productIDs)*TrendsPerProduct)
	for _, id := range productIDs {
		for range TrendsPerProduct {
			base := float64(g.between(50, 200))
			prev := base + float64(g.between(-20, 20))
			t := models.Trend{
				ProductID:     id,
				Date:          g.past(productTrackWindow),
				Metric:        pick(g, models.TrendMetrics),
				Value:         base,
				PreviousValue: &prev,
				Source:        pick(g, trendSources),
				CreatedAt:     g.now,
			}
			t.ApplyPrevious()
			trends = append(trends, t)
		}
	}
	return trends
}

func (g *Generator) Reports(userIDs []int) []models.Report {
	reports := make([]models.Report, 0, len(userIDs)*ReportsPerUser)
	for _, uid := range userIDs {
		for i := range ReportsPerUser {
			start := g.past(productTrackWindow)
			end := g.past(7 * 24 * time.Hour)
			chart := make([]int, 7)
			for j := range chart {
				chart[j] = g.between(10, 100)
			}
			reports = append(reports, models.Report{
				UserID:      uid,
				Type:        pick(g, seedReports),
				Title:       fmt.Sprintf("Market snapshot %d for user %d", i+1, uid),
				Description: "Seeded report with sample metrics.",
				Data: map[string]any{
					"metrics": map[string]any{
						"totalProducts":    g.between(10, 50),
						"avgProfitability": g.between(70, 95),
						"topCategory":      pick(g, departments),
					},
					"charts": map[string]any{"type": "line", "data": chart},
				},
				Filters:     models.ReportFilters{Start: &start, End: &end, Categories: g.subset(reportCats, 1, 3)},
				IsPublic:    g.rnd.IntN(2) == 1,
				Tags:        g.subset(reportTags, 1, 2),
				GeneratedAt: g.now,
			})
		}
	}
	return reports
}

// between returns an int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.IntN(hi-lo+1)
}

func (g *Generator) past(window time.Duration) time.Time {
	return g.now.Add(-time.Duration(g.rnd.Int64N(int64(window)))).Truncate(time.Second)
}

func (g *Generator) subset(from []string, lo, hi int) []string {
	n := g.between(lo, hi)
	idx := g.rnd.Perm(len(from))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, from[i])
	}
	return out
}

func pick[T any](g *Generator, from []T) T {
	return from[g.rnd.IntN(len(from))]
}
