// Package reports renders product exports as CSV or XLSX.
package reports

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/momna763/Target-Lock/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	productsSheet = "Products"
	summarySheet  = "Summary"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrUnknownField  = errors.New("unknown export field")
)

// Fields lists the exportable columns in their default order.
var Fields = []string{
	"name",
	"category",
	"price",
	"currency",
	"profitabilityScore",
	"trendPercentage",
	"stockCount",
	"inStock",
	"tags",
	"lastUpdated",
}

var headers = map[string]string{
	"name":               "Name",
	"category":           "Category",
	"price":              "Price",
	"currency":           "Currency",
	"profitabilityScore": "Profitability Score",
	"trendPercentage":    "Trend %",
	"stockCount":         "Stock Count",
	"inStock":            "In Stock",
	"tags":               "Tags",
	"lastUpdated":        "Last Updated",
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) ReportType() string {
	if f == FormatXLSX {
		return models.ReportExcelExport
	}
	return models.ReportCSVExport
}

func (f Format) FileName(now time.Time) string {
	return fmt.Sprintf("products-%s.%s", now.UTC().Format("20060102-150405"), f)
}

// Options selects columns and ordering. Empty Fields means all of them;
// empty SortBy means profitabilityScore.
type Options struct {
	Fields    []string
	SortBy    string
	Ascending bool
}

func (o Options) columns() ([]string, error) {
	if len(o.Fields) == 0 {
		return Fields, nil
	}
	cols := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := headers[f]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
		if !slices.Contains(cols, f) {
			cols = append(cols, f)
		}
	}
	if len(cols) == 0 {
		return Fields, nil
	}
	return cols, nil
}

func sorted(products []models.Product, o Options) ([]models.Product, error) {
	key := o.SortBy
	if key == "" {
		key = "profitabilityScore"
	}

	var less func(a, b models.Product) int
	switch key {
	case "name":
		less = func(a, b models.Product) int { return cmp.Compare(a.Name, b.Name) }
	case "category":
		less = func(a, b models.Product) int { return cmp.Compare(a.Category, b.Category) }
	case "price":
		less = func(a, b models.Product) int { return cmp.Compare(a.CurrentPrice(), b.CurrentPrice()) }
	case "profitabilityScore":
		less = func(a, b models.Product) int { return cmp.Compare(a.ProfitabilityScore, b.ProfitabilityScore) }
	case "trendPercentage":
		less = func(a, b models.Product) int { return cmp.Compare(a.TrendPercentage, b.TrendPercentage) }
	case "stockCount":
		less = func(a, b models.Product) int { return cmp.Compare(a.StockCount(), b.StockCount()) }
	case "lastUpdated":
		less = func(a, b models.Product) int { return a.LastUpdated.Compare(b.LastUpdated) }
	default:
		return nil, fmt.Errorf("%w: cannot sort by %q", ErrUnknownField, key)
	}

	out := slices.Clone(products)
	slices.SortStableFunc(out, func(a, b models.Product) int {
		if o.Ascending {
			return less(a, b)
		}
		return less(b, a)
	})
	return out, nil
}

// Summary is the footer of every export.
type Summary struct {
	Rows            int             `json:"rows"`
	Categories      int             `json:"categories"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
}

// Summarize counts rows and categories and sums price * stockCount.
func Summarize(products []models.Product) Summary {
	cats := make(map[string]struct{})
	total := decimal.Zero
	for _, p := range products {
		if p.Category != "" {
			cats[p.Category] = struct{}{}
		}
		value := decimal.NewFromFloat(p.CurrentPrice()).Mul(decimal.NewFromInt(int64(p.StockCount())))
		total = total.Add(value)
	}
	return Summary{Rows: len(products), Categories: len(cats), TotalStockValue: total.Round(2)}
}

func textValue(p models.Product, field string) string {
	switch field {
	case "name":
		return p.Name
	case "category":
		return p.Category
	case "price":
		return decimal.NewFromFloat(p.CurrentPrice()).StringFixed(2)
	case "currency":
		if p.Price == nil {
			return ""
		}
		return p.Price.Currency
	case "profitabilityScore":
		return strconv.Itoa(p.ProfitabilityScore)
	case "trendPercentage":
		return strconv.FormatFloat(p.TrendPercentage, 'f', -1, 64)
	case "stockCount":
		return strconv.Itoa(p.StockCount())
	case "inStock":
		return strconv.FormatBool(p.InStock())
	case "tags":
		return strings.Join(p.Tags, ";")
	case "lastUpdated":
		if p.LastUpdated.IsZero() {
			return ""
		}
		return p.LastUpdated.UTC().Format(time.RFC3339)
	}
	return ""
}

func cellValue(p models.Product, field string) any {
	switch field {
	case "price":
		v, _ := decimal.NewFromFloat(p.CurrentPrice()).Round(2).Float64()
		return v
	case "profitabilityScore":
		return p.ProfitabilityScore
	case "trendPercentage":
		return p.TrendPercentage
	case "stockCount":
		return p.StockCount()
	case "inStock":
		return p.InStock()
	}
	return textValue(p, field)
}

func headerRow(cols []string) []string {
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = headers[c]
	}
	return row
}

// Write renders products in format f to w and returns the export summary.
func Write(w io.Writer, f Format, products []models.Product, o Options) (Summary, error) {
	switch f {
	case FormatCSV:
		return WriteCSV(w, products, o)
	case FormatXLSX:
		return WriteXLSX(w, products, o)
	}
	return Summary{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteCSV writes a header, one row per product, a blank line and the summary.
func WriteCSV(w io.Writer, products []models.Product, o Options) (Summary, error) {
	cols, err := o.columns()
	if err != nil {
		return Summary{}, err
	}
	rows, err := sorted(products, o)
	if err != nil {
		return Summary{}, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headerRow(cols)); err != nil {
		return Summary{}, err
	}
	record := make([]string, len(cols))
	for _, p := range rows {
		for i, c := range cols {
			record[i] = textValue(p, c)
		}
		if err := cw.Write(record); err != nil {
			return Summary{}, err
		}
	}

	summary := Summarize(rows)
	footer := [][]string{
		{},
		{"Total rows", strconv.Itoa(summary.Rows)},
		{"Categories", strconv.Itoa(summary.Categories)},
		{"Total stock value", summary.TotalStockValue.StringFixed(2)},
	}
	if err := cw.WriteAll(footer); err != nil {
		return Summary{}, err
	}
	return summary, cw.Error()
}

// WriteXLSX writes a Products sheet and a Summary sheet.
func WriteXLSX(w io.Writer, products []models.Product, o Options) (Summary, error) {
	cols, err := o.columns()
	if err != nil {
		return Summary{}, err
	}
	rows, err := sorted(products, o)
	if err != nil {
		return Summary{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return Summary{}, err
	}

	header := make([]any, len(cols))
	for i, h := range headerRow(cols) {
		header[i] = h
	}
	if err := f.SetSheetRow(productsSheet, "A1", &header); err != nil {
		return Summary{}, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Summary{}, err
	}
	if err := f.SetRowStyle(productsSheet, 1, 1, bold); err != nil {
		return Summary{}, err
	}

	for r, p := range rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = cellValue(p, c)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return Summary{}, err
		}
		if err := f.SetSheetRow(productsSheet, cell, &values); err != nil {
			return Summary{}, err
		}
	}

	summary := Summarize(rows)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return Summary{}, err
	}
	total, _ := summary.TotalStockValue.Float64()
	for i, kv := range [][]any{
		{"Total rows", summary.Rows},
		{"Categories", summary.Categories},
		{"Total stock value", total},
	} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &kv); err != nil {
			return Summary{}, err
		}
	}

	if err := f.Write(w); err != nil {
		return Summary{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return summary, nil
}
