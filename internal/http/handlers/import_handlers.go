package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

const maxImportSize = 10 << 20

var errUnsupportedFile = errors.New("file must be .csv or .xlsx")

// importColumns maps normalised header names to product fields.
var importColumns = map[string]string{
	"name":               "name",
	"category":           "category",
	"description":        "description",
	"price":              "price",
	"currency":           "currency",
	"profitabilityscore": "profitabilityScore",
	"profitability":      "profitabilityScore",
	"trendpercentage":    "trendPercentage",
	"trend":              "trendPercentage",
	"instock":            "inStock",
	"stockcount":         "stockCount",
	"stock":              "stockCount",
	"tags":               "tags",
}

type importRow struct {
	line   int
	values map[string]string
}

func normaliseHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toImportRows(records [][]string) ([]importRow, error) {
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}

	index := map[int]string{}
	for i, h := range records[0] {
		if field, ok := importColumns[normaliseHeader(h)]; ok {
			index[i] = field
		}
	}
	if !containsValue(index, "name") {
		return nil, errors.New("header must contain a name column")
	}

	rows := make([]importRow, 0, len(records)-1)
	for n, record := range records[1:] {
		values := map[string]string{}
		empty := true
		for i, cell := range record {
			field, ok := index[i]
			if !ok {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			values[field] = cell
		}
		if empty {
			continue
		}
		rows = append(rows, importRow{line: n + 2, values: values})
	}
	return rows, nil
}

func containsValue(m map[int]string, v string) bool {
	for _, x := range m {
		if x == v {
			return true
		}
	}
	return false
}

func parseCSV(r io.Reader) ([]importRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV read error: %w", err)
	}
	return toImportRows(records)
}

func parseXLSX(r io.Reader) ([]importRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid Excel file: %w", err)
	}
	defer f.Close()

	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return toImportRows(records)
}

// productRequest converts a row into the same request the JSON API takes.
func (row importRow) productRequest() (ProductRequest, error) {
	v := row.values
	req := ProductRequest{
		Name:        v["name"],
		Category:    v["category"],
		Description: v["description"],
	}
	if tags := v["tags"]; tags != "" {
		req.Tags = strings.Split(tags, ";")
	}

	if s := v["price"]; s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return req, fmt.Errorf("invalid price %q", s)
		}
		req.Price = &PriceRequest{Current: price, Currency: v["currency"]}
	}
	if s := v["profitabilityScore"]; s != "" {
		score, err := strconv.Atoi(s)
		if err != nil {
			return req, fmt.Errorf("invalid profitabilityScore %q", s)
		}
		req.ProfitabilityScore = &score
	}
	if s := v["trendPercentage"]; s != "" {
		trend, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return req, fmt.Errorf("invalid trendPercentage %q", s)
		}
		req.TrendPercentage = trend
	}

	inStock, stock := v["inStock"], v["stockCount"]
	if inStock != "" || stock != "" {
		req.Availability = &AvailabilityRequest{}
		if stock != "" {
			n, err := strconv.Atoi(stock)
			if err != nil {
				return req, fmt.Errorf("invalid stockCount %q", stock)
			}
			req.Availability.StockCount = n
			req.Availability.InStock = n > 0
		}
		if inStock != "" {
			b, err := strconv.ParseBool(inStock)
			if err != nil {
				return req, fmt.Errorf("invalid inStock %q", inStock)
			}
			req.Availability.InStock = b
		}
	}
	return req, nil
}

// ImportProducts godoc
// @Summary Import products via CSV or Excel
// @Description Rows whose name already exists are skipped or updated according to mode
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/products/import [post]
// @Security BearerAuth
func (s *Server) ImportProducts(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	var rows []importRow
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		rows, err = parseCSV(file)
	case ".xlsx":
		rows, err = parseXLSX(file)
	default:
		err = errUnsupportedFile
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}
	rowError := func(row importRow, field, format string, args ...any) {
		result.Errors = append(result.Errors, ProductValidationError{
			Field:       field,
			Description: fmt.Sprintf("row %d: ", row.line) + fmt.Sprintf(format, args...),
		})
	}

	ctx := r.Context()
	now := s.now().UTC()
	for _, row := range rows {
		req, err := row.productRequest()
		if err != nil {
			rowError(row, "", "%v", err)
			continue
		}
		if errs := validateProduct(req); len(errs) > 0 {
			for _, e := range errs {
				rowError(row, e.Field, "%s", e.Description)
			}
			continue
		}

		existing, err := s.products.GetByName(ctx, strings.TrimSpace(req.Name))
		switch {
		case err == nil:
			if mode == "skip" {
				rowError(row, "name", "product '%s' already exists", existing.Name)
				continue
			}
			applyRequest(&existing, req)
			existing.LastUpdated = now
			if _, err := s.products.Update(ctx, existing); err != nil {
				rowError(row, "", "failed to update '%s'", existing.Name)
				continue
			}
			result.UpdatedProductsCount++
		case errors.Is(err, repo.ErrProductNotFound):
			product := models.Product{TrackedSince: now, LastUpdated: now, Source: "import"}
			applyRequest(&product, req)
			if _, err := s.products.Create(ctx, product); err != nil {
				rowError(row, "", "%v", err)
				continue
			}
			result.ImportedProductsCount++
		default:
			s.internalError(w, r, "could not import products", err)
			return
		}
	}

	s.respond(w, r, http.StatusOK, result)
}
