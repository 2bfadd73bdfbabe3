package models

import "time"

// Product represents a tracked listing in the Target Lock catalog.
type Product struct {
	ID                 string        `json:"_id" bson:"-"`
	Name               string        `json:"name" bson:"name"`
	Category           string        `json:"category" bson:"category"`
	Description        string        `json:"description,omitempty" bson:"description,omitempty"`
	Price              *Price        `json:"price,omitempty" bson:"price,omitempty"`
	ProfitabilityScore int           `json:"profitabilityScore" bson:"profitabilityScore"`
	TrendPercentage    float64       `json:"trendPercentage" bson:"trendPercentage"`
	Availability       *Availability `json:"availability,omitempty" bson:"availability,omitempty"`
	Tags               []string      `json:"tags" bson:"tags"`
	ImageURL           string        `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	ProductURL         string        `json:"productUrl,omitempty" bson:"productUrl,omitempty"`
	SellerName         string        `json:"sellerName,omitempty" bson:"sellerName,omitempty"`
	Source             string        `json:"source,omitempty" bson:"source,omitempty"`
	Metadata           *Metadata     `json:"metadata,omitempty" bson:"metadata,omitempty"`
	TrackedSince       time.Time     `json:"trackedSince" bson:"trackedSince"`
	LastUpdated        time.Time     `json:"lastUpdated" bson:"lastUpdated"`
	CreatedAt          time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type Price struct {
	Current  float64 `json:"current" bson:"current"`
	Currency string  `json:"currency" bson:"currency"`
}

type Availability struct {
	InStock    bool `json:"inStock" bson:"inStock"`
	StockCount int  `json:"stockCount" bson:"stockCount"`
}

// Metadata records where a product came from.
type Metadata struct {
	Source     string `json:"source,omitempty" bson:"source,omitempty"`
	ExternalID string `json:"externalId,omitempty" bson:"externalId,omitempty"`
	URL        string `json:"url,omitempty" bson:"url,omitempty"`
}

// CurrentPrice returns the listed price, or 0 when none was scraped.
func (p Product) CurrentPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return p.Price.Current
}

// InStock reports the availability flag; a missing block counts as out of stock.
func (p Product) InStock() bool {
	return p.Availability != nil && p.Availability.InStock
}

func (p Product) StockCount() int {
	if p.Availability == nil {
		return 0
	}
	return p.Availability.StockCount
}
