package repo

import (
	"cmp"
	"slices"
	"strings"

	"github.com/momna763/Target-Lock/internal/models"
)

const (
	DefaultProductLimit = 50
	MaxProductLimit     = 1000
)

type ProductFilter struct {
	Query            string
	Category         string
	MinProfitability *int
	InStock          *bool
	Offset           *int
	Limit            *int
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Query)) {
		return false
	}
	if pf.Category != "" && p.Category != pf.Category {
		return false
	}
	if pf.MinProfitability != nil && p.ProfitabilityScore < *pf.MinProfitability {
		return false
	}
	if pf.InStock != nil && p.InStock() != *pf.InStock {
		return false
	}
	return true
}

// sortByProfitability orders products the way listings are shown:
// best profitability first, then by name.
func sortByProfitability(products []models.Product) {
	slices.SortStableFunc(products, func(a, b models.Product) int {
		if c := cmp.Compare(b.ProfitabilityScore, a.ProfitabilityScore); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// window returns the [start, end) bounds for offset/limit over n items.
func window(n int, offset, limit *int) (int, int) {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, n)
	}
	end := n
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, n)
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
