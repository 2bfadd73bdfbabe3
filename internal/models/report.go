package models

import "time"

const (
	ReportProductAnalysis = "product-analysis"
	ReportTrend           = "trend-report"
	ReportProfitability   = "profitability-report"
	ReportCustom          = "custom"
	ReportCSVExport       = "csv-export"
	ReportExcelExport     = "excel-export"
)

var ReportTypes = []string{
	ReportProductAnalysis,
	ReportTrend,
	ReportProfitability,
	ReportCustom,
	ReportCSVExport,
	ReportExcelExport,
}

// Report is the saved metadata of a generated report; the file itself is not stored.
type Report struct {
	ID          string         `json:"_id" bson:"-"`
	UserID      int            `json:"userId" bson:"userId"`
	Type        string         `json:"type" bson:"type"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Data        map[string]any `json:"data" bson:"data"`
	Filters     ReportFilters  `json:"filters" bson:"filters"`
	IsPublic    bool           `json:"isPublic" bson:"isPublic"`
	Tags        []string       `json:"tags,omitempty" bson:"tags,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt" bson:"generatedAt"`
}

type ReportFilters struct {
	Start      *time.Time `json:"start,omitempty" bson:"start,omitempty"`
	End        *time.Time `json:"end,omitempty" bson:"end,omitempty"`
	Categories []string   `json:"categories,omitempty" bson:"categories,omitempty"`
	ProductIDs []string   `json:"products,omitempty" bson:"products,omitempty"`
}
