package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/momna763/Target-Lock/internal/models"
)

const (
	maxNameLen        = 200
	maxCategoryLen    = 50
	maxDescriptionLen = 1000
	defaultCurrency   = "USD"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		errs = append(errs, ProductValidationError{Field: "name", Description: "name is required"})
	case utf8.RuneCountInString(name) > maxNameLen:
		errs = append(errs, ProductValidationError{Field: "name", Description: fmt.Sprintf("name must be at most %d characters", maxNameLen)})
	}

	category := strings.TrimSpace(p.Category)
	switch {
	case category == "":
		errs = append(errs, ProductValidationError{Field: "category", Description: "category is required"})
	case utf8.RuneCountInString(category) > maxCategoryLen:
		errs = append(errs, ProductValidationError{Field: "category", Description: fmt.Sprintf("category must be at most %d characters", maxCategoryLen)})
	}

	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		errs = append(errs, ProductValidationError{Field: "description", Description: fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)})
	}
	if p.ProfitabilityScore != nil && (*p.ProfitabilityScore < 0 || *p.ProfitabilityScore > 100) {
		errs = append(errs, ProductValidationError{Field: "profitabilityScore", Description: "profitabilityScore must be between 0 and 100"})
	}
	if p.Price != nil && p.Price.Current <= 0 {
		errs = append(errs, ProductValidationError{Field: "price.current", Description: "price must be greater than zero"})
	}
	if p.Availability != nil && p.Availability.StockCount < 0 {
		errs = append(errs, ProductValidationError{Field: "availability.stockCount", Description: "stockCount cannot be negative"})
	}
	return errs
}

// applyRequest copies the writable fields of req onto p.
func applyRequest(p *models.Product, req ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Category = strings.TrimSpace(req.Category)
	p.Description = strings.TrimSpace(req.Description)
	p.TrendPercentage = req.TrendPercentage
	p.Tags = cleanTags(req.Tags)
	p.ImageURL = req.ImageURL
	p.ProductURL = req.ProductURL
	p.SellerName = req.SellerName

	p.ProfitabilityScore = 0
	if req.ProfitabilityScore != nil {
		p.ProfitabilityScore = *req.ProfitabilityScore
	}

	p.Price = nil
	if req.Price != nil {
		currency := strings.ToUpper(strings.TrimSpace(req.Price.Currency))
		if currency == "" {
			currency = defaultCurrency
		}
		p.Price = &models.Price{Current: req.Price.Current, Currency: currency}
	}

	p.Availability = nil
	if req.Availability != nil {
		p.Availability = &models.Availability{InStock: req.Availability.InStock, StockCount: req.Availability.StockCount}
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
