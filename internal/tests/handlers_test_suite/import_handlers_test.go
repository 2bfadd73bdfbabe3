package handlers_test_suite

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	handler "github.com/momna763/Target-Lock/internal/http/handlers"
	"github.com/momna763/Target-Lock/internal/models"
)

func (e *testEnv) stored(t *testing.T, name string) models.Product {
	t.Helper()
	p, err := e.products.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("expected %s to be stored: %v", name, err)
	}
	return p
}

func TestImportProducts_CSV(t *testing.T) {
	t.Run("File with unique valid products", func(t *testing.T) {
		env := newTestEnv(t)
		csvData := "Name,Category,Price,Profitability Score,Trend %,Stock,Tags\n" +
			"Mouse,Electronics,25.99,80,12,10,office;usb\n" +
			"Kettle,Home,45.00,65,3,0,\n"

		w := env.upload("/api/products/import", "products.csv", []byte(csvData))
		expectStatus(t, w, http.StatusOK)

		resp := decode[handler.ImportProductsResult](t, w)
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}

		mouse := env.stored(t, "Mouse")
		if mouse.ProfitabilityScore != 80 || !mouse.InStock() || mouse.Source != "import" {
			t.Errorf("unexpected Mouse %+v", mouse)
		}
		if env.stored(t, "Kettle").InStock() {
			t.Errorf("expected Kettle with zero stock to be out of stock")
		}
	})

	t.Run("Invalid rows are reported, valid ones kept", func(t *testing.T) {
		env := newTestEnv(t)
		csvData := "name,category,price,profitabilityScore\n" +
			"Mouse,Electronics,25.99,80\n" +
			",Electronics,10,50\n" +
			"Cable,Electronics,abc,50\n"

		w := env.upload("/api/products/import", "products.csv", []byte(csvData))
		expectStatus(t, w, http.StatusOK)

		resp := decode[handler.ImportProductsResult](t, w)
		if resp.ImportedProductsCount != 1 {
			t.Errorf("expected 1 imported product, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 2 {
			t.Fatalf("expected 2 errors, got %v", resp.Errors)
		}
		if !strings.Contains(resp.Errors[0].Description, "row 3") || !strings.Contains(resp.Errors[1].Description, "row 4") {
			t.Errorf("errors do not name rows 3 and 4: %v", resp.Errors)
		}
	})

	t.Run("Existing names are skipped by default and updated on request", func(t *testing.T) {
		env := newTestEnv(t)
		env.createProduct(t, product("Mouse", "Electronics", 40, 0))
		csvData := "name,category,profitabilityScore\nMouse,Electronics,90\n"

		w := env.upload("/api/products/import", "products.csv", []byte(csvData))
		resp := decode[handler.ImportProductsResult](t, w)
		if resp.ImportedProductsCount != 0 {
			t.Errorf("expected nothing imported, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 1 || resp.Errors[0].Field != "name" {
			t.Fatalf("expected one name error, got %v", resp.Errors)
		}

		w = env.upload("/api/products/import?mode=update", "products.csv", []byte(csvData))
		resp = decode[handler.ImportProductsResult](t, w)
		if resp.UpdatedProductsCount != 1 || len(resp.Errors) != 0 {
			t.Errorf("expected one update and no errors, got %+v", resp)
		}
		if got := env.stored(t, "Mouse").ProfitabilityScore; got != 90 {
			t.Errorf("expected profitability 90 after update, got %d", got)
		}
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.upload("/api/products/import", "products.txt", []byte("name\nMouse\n"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Missing name column", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.upload("/api/products/import", "products.csv", []byte("category,price\nHome,10\n"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestImportProducts_XLSX(t *testing.T) {
	env := newTestEnv(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Name", "Category", "Price", "Profitability"},
		{"Blender", "Home", 59.5, 77},
		{"Tent", "Sports", 120, 83},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}

	w := env.upload("/api/products/import", "products.xlsx", buf.Bytes())
	expectStatus(t, w, http.StatusOK)

	resp := decode[handler.ImportProductsResult](t, w)
	if resp.ImportedProductsCount != 2 || len(resp.Errors) != 0 {
		t.Errorf("expected 2 imported and no errors, got %+v", resp)
	}

	tent := env.stored(t, "Tent")
	if tent.ProfitabilityScore != 83 {
		t.Errorf("expected profitability 83, got %d", tent.ProfitabilityScore)
	}
	if math.Abs(tent.CurrentPrice()-120) > 1e-9 {
		t.Errorf("expected price 120, got %v", tent.CurrentPrice())
	}
}

func TestImportProducts_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartFile("products.csv", []byte("name,category\nMouse,Electronics\n"))

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+env.userToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden, got %d", w.Code)
	}
}
