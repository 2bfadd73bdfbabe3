// Package ingest turns raw scraped smartphone listings into catalog products.
package ingest

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/momna763/Target-Lock/internal/models"
)

const (
	Category       = "Smartphones"
	Currency       = "PKR"
	MetadataSource = "web-scraping"
	DefaultBrand   = "Mobile"
	unknownName    = "Unknown Smartphone"

	TierBudget   = "Budget"
	TierMidRange = "Mid-Range"
	TierPremium  = "Premium"
)

var (
	budgetCeiling   = decimal.NewFromInt(30000)
	midRangeCeiling = decimal.NewFromInt(80000)
	digitsPattern   = regexp.MustCompile(`[\d,]+`)
)

// Brands are matched case-insensitively against the listing name, in order.
var Brands = []string{"Samsung", "iPhone", "Apple", "Xiaomi", "Oppo", "Vivo", "Realme", "OnePlus", "Huawei", "Nokia", "Infinix", "Tecno"}

// RawListing is one document of the scraped collection.
type RawListing struct {
	ExternalID string
	Name       string
	// Price is either a display string like "Rs. 45,000" or a number.
	Price any
	Image string
	URL   string
}

// ParsePrice extracts the first run of digits from s, ignoring thousands
// separators and anything after it. Unparseable input yields zero.
func ParsePrice(s string) decimal.Decimal {
	match := digitsPattern.FindString(s)
	digits := strings.ReplaceAll(match, ",", "")
	if digits == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func priceOf(v any) decimal.Decimal {
	switch p := v.(type) {
	case string:
		return ParsePrice(p)
	case int32:
		return decimal.NewFromInt32(p)
	case int64:
		return decimal.NewFromInt(p)
	case int:
		return decimal.NewFromInt(int64(p))
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(p)
	}
	return decimal.Zero
}

func DetectBrand(name string) string {
	upper := strings.ToUpper(name)
	for _, b := range Brands {
		if strings.Contains(upper, strings.ToUpper(b)) {
			return b
		}
	}
	return DefaultBrand
}

func PriceTier(price decimal.Decimal) string {
	switch {
	case price.LessThan(budgetCeiling):
		return TierBudget
	case price.LessThan(midRangeCeiling):
		return TierMidRange
	}
	return TierPremium
}

// Estimator fills the fields a scrape cannot observe. Its randomness comes
// from the injected source so runs can be reproduced.
type Estimator struct {
	rnd *rand.Rand
	now func() time.Time
}

func NewEstimator(rnd *rand.Rand) *Estimator {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Estimator{rnd: rnd, now: time.Now}
}

// Profitability estimates a score by price tier; the two dominant brands
// lose 10 points with a floor of 30.
func (e *Estimator) Profitability(tier, brand string) int {
	var base int
	switch tier {
	case TierBudget:
		base = 70
	case TierMidRange:
		base = 60
	default:
		base = 40
	}
	score := base + e.rnd.IntN(20)
	if brand == "iPhone" || brand == "Samsung" {
		score = max(score-10, 30)
	}
	return score
}

func (e *Estimator) Transform(raw RawListing) models.Product {
	name := strings.TrimSpace(raw.Name)
	displayName := name
	if name == "" {
		name = unknownName
		displayName = "Mobile Phone"
	}

	price := priceOf(raw.Price)
	brand := DetectBrand(raw.Name)
	tier := PriceTier(price)
	current, _ := price.Float64()
	now := e.now().UTC()

	return models.Product{
		Name:               name,
		Category:           Category,
		ImageURL:           raw.Image,
		ProfitabilityScore: e.Profitability(tier, brand),
		TrendPercentage:    float64(e.rnd.IntN(25)),
		Description:        fmt.Sprintf("%s smartphone - %s. Available on Daraz Pakistan.", brand, displayName),
		Price:              &models.Price{Current: current, Currency: Currency},
		Availability:       &models.Availability{InStock: true, StockCount: 10 + e.rnd.IntN(50)},
		Tags:               []string{brand, "Smartphone", "Electronics", "Mobile", tier, "Daraz"},
		Metadata:           &models.Metadata{Source: MetadataSource, ExternalID: raw.ExternalID, URL: raw.URL},
		TrackedSince:       now,
		LastUpdated:        now,
	}
}

func (e *Estimator) TransformAll(raws []RawListing) []models.Product {
	out := make([]models.Product, 0, len(raws))
	for _, r := range raws {
		out = append(out, e.Transform(r))
	}
	return out
}

type BrandCount struct {
	Brand string
	Count int
}

// Stats summarises a transformed batch by price tier and brand.
type Stats struct {
	Total    int
	Budget   int
	MidRange int
	Premium  int
	Brands   map[string]int
}

func Summarize(products []models.Product) Stats {
	s := Stats{Total: len(products), Brands: make(map[string]int)}
	for _, p := range products {
		if len(p.Tags) > 0 {
			s.Brands[p.Tags[0]]++
		}
		switch PriceTier(decimal.NewFromFloat(p.CurrentPrice())) {
		case TierBudget:
			s.Budget++
		case TierMidRange:
			s.MidRange++
		default:
			s.Premium++
		}
	}
	return s
}

// TopBrands returns the n most frequent brands, ties by name.
func (s Stats) TopBrands(n int) []BrandCount {
	out := make([]BrandCount, 0, len(s.Brands))
	for b, c := range s.Brands {
		out = append(out, BrandCount{Brand: b, Count: c})
	}
	slices.SortFunc(out, func(a, b BrandCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Brand, b.Brand)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
