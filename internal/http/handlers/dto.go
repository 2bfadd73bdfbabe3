package handlers

import (
	"time"

	"github.com/momna763/Target-Lock/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string                   `json:"error"`
	Errors []ProductValidationError `json:"errors"`
}

type PriceRequest struct {
	Current  float64 `json:"current"`
	Currency string  `json:"currency,omitempty"`
}

type AvailabilityRequest struct {
	InStock    bool `json:"inStock"`
	StockCount int  `json:"stockCount"`
}

type ProductRequest struct {
	Name               string               `json:"name"`
	Category           string               `json:"category"`
	Description        string               `json:"description,omitempty"`
	Price              *PriceRequest        `json:"price,omitempty"`
	ProfitabilityScore *int                 `json:"profitabilityScore,omitempty"`
	TrendPercentage    float64              `json:"trendPercentage"`
	Availability       *AvailabilityRequest `json:"availability,omitempty"`
	Tags               []string             `json:"tags,omitempty"`
	ImageURL           string               `json:"imageUrl,omitempty"`
	ProductURL         string               `json:"productUrl,omitempty"`
	SellerName         string               `json:"sellerName,omitempty"`
}

type Meta struct {
	TotalCount int `json:"totalCount"`
}

type ProductsSearchResult struct {
	Data []models.Product `json:"data"`
	Meta Meta             `json:"meta"`
}

// MetricsResponse is the dashboard shape of insights.MetricsSnapshot.
type MetricsResponse struct {
	TotalProducts    int    `json:"totalProducts"`
	AvgProfitability int    `json:"avgProfitability"`
	TrendingThisWeek int    `json:"trendingThisWeek"`
	TopCategory      string `json:"topCategory"`
	MarketsCovered   int    `json:"marketsCovered"`
}

type TrendRequest struct {
	ProductID     string     `json:"productId"`
	Date          *time.Time `json:"date,omitempty"`
	Metric        string     `json:"metric"`
	Value         float64    `json:"value"`
	PreviousValue *float64   `json:"previousValue,omitempty"`
	Source        string     `json:"source,omitempty"`
}

type ReportRequest struct {
	Type        string               `json:"type"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Data        map[string]any       `json:"data,omitempty"`
	Filters     models.ReportFilters `json:"filters"`
	IsPublic    bool                 `json:"isPublic"`
	Tags        []string             `json:"tags,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Message models.ChatMessage `json:"message"`
	Reply   models.ChatMessage `json:"reply"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type RegisterResult struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	UpdatedProductsCount  int                      `json:"updated"`
	Errors                []ProductValidationError `json:"errors"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks,omitempty"`
}
