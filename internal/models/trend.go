package models

import "time"

// Trend metrics accepted by the trends collection.
const (
	MetricPrice         = "price"
	MetricSales         = "sales"
	MetricPopularity    = "popularity"
	MetricProfitability = "profitability"
	MetricStock         = "stock"
)

var TrendMetrics = []string{MetricPrice, MetricSales, MetricPopularity, MetricProfitability, MetricStock}

// Trend is one observation of a product metric at a point in time.
type Trend struct {
	ID               string    `json:"_id" bson:"-"`
	ProductID        string    `json:"productId" bson:"-"`
	Date             time.Time `json:"date" bson:"date"`
	Metric           string    `json:"metric" bson:"metric"`
	Value            float64   `json:"value" bson:"value"`
	PreviousValue    *float64  `json:"previousValue,omitempty" bson:"previousValue,omitempty"`
	Change           float64   `json:"change" bson:"change"`
	ChangePercentage float64   `json:"changePercentage" bson:"changePercentage"`
	Source           string    `json:"source" bson:"source"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

// ApplyPrevious derives Change and ChangePercentage from PreviousValue.
func (t *Trend) ApplyPrevious() {
	if t.PreviousValue == nil {
		t.Change = 0
		t.ChangePercentage = 0
		return
	}
	prev := *t.PreviousValue
	t.Change = t.Value - prev
	if prev == 0 {
		t.ChangePercentage = 0
		return
	}
	t.ChangePercentage = t.Change / prev * 100
}
