package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

const trendingProductsLimit = 5

func (s *Server) writeRepoError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, repo.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid product ID")
	case errors.Is(err, repo.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	default:
		s.internalError(w, r, msg, err)
	}
}

// GetProducts godoc
// @Summary Search products
// @Description Lists products ordered by profitability, best first
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive name search"
// @Param category query string false "Exact category"
// @Param minProfitability query int false "Minimum profitability score"
// @Param inStock query bool false "Availability filter"
// @Param limit query int false "Page size (default 50, max 1000)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func (s *Server) GetProducts(w http.ResponseWriter, r *http.Request) {
	pf, err := productFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, total, err := s.products.Filter(r.Context(), pf)
	if err != nil {
		s.internalError(w, r, "could not fetch products", err)
		return
	}
	s.respond(w, r, http.StatusOK, ProductsSearchResult{Data: products, Meta: Meta{TotalCount: total}})
}

func productFilterFromQuery(r *http.Request) (repo.ProductFilter, error) {
	q := r.URL.Query()
	pf := repo.ProductFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
	}

	var err error
	if pf.MinProfitability, err = queryInt(r, "minProfitability"); err != nil {
		return pf, err
	}
	if pf.MinProfitability != nil && (*pf.MinProfitability < 0 || *pf.MinProfitability > 100) {
		return pf, errors.New("minProfitability must be between 0 and 100")
	}
	if pf.InStock, err = queryBool(r, "inStock"); err != nil {
		return pf, err
	}
	if pf.Offset, err = queryInt(r, "offset"); err != nil {
		return pf, err
	}
	if pf.Offset != nil && *pf.Offset < 0 {
		return pf, errors.New("offset cannot be negative")
	}
	if pf.Limit, err = queryInt(r, "limit"); err != nil {
		return pf, err
	}
	if pf.Limit == nil {
		limit := repo.DefaultProductLimit
		pf.Limit = &limit
	}
	if *pf.Limit < 1 || *pf.Limit > repo.MaxProductLimit {
		return pf, errors.New("limit must be between 1 and 1000")
	}
	return pf, nil
}

// GetTrendingProducts godoc
// @Summary Top products by profitability
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /api/products/trending [get]
func (s *Server) GetTrendingProducts(w http.ResponseWriter, r *http.Request) {
	limit := trendingProductsLimit
	products, _, err := s.products.Filter(r.Context(), repo.ProductFilter{Limit: &limit})
	if err != nil {
		s.internalError(w, r, "could not fetch trending products", err)
		return
	}
	s.respond(w, r, http.StatusOK, products)
}

// GetCategories godoc
// @Summary Product categories with counts
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repo.CategoryCount
// @Failure 500 {object} ErrorResponse
// @Router /api/products/categories [get]
func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.products.Categories(r.Context())
	if err != nil {
		s.internalError(w, r, "could not fetch categories", err)
		return
	}
	s.respond(w, r, http.StatusOK, cats)
}

// GetProductByID godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (s *Server) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, r, "could not fetch product", err)
		return
	}
	s.respond(w, r, http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create a new product
// @Description Adds a product to the catalog (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {object} ValidationErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/products [post]
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		s.respond(w, r, http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Errors: validationErrors})
		return
	}

	now := s.now().UTC()
	product := models.Product{TrackedSince: now, LastUpdated: now}
	applyRequest(&product, req)

	created, err := s.products.Create(r.Context(), product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			writeError(w, http.StatusConflict, "product already exists")
			return
		}
		s.internalError(w, r, "could not create product", err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// UpdateProduct godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "New product state"
// @Success 200 {object} models.Product
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	existing, err := s.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, r, "could not fetch product", err)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		s.respond(w, r, http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Errors: validationErrors})
		return
	}

	applyRequest(&existing, req)
	existing.LastUpdated = s.now().UTC()

	updated, err := s.products.Update(r.Context(), existing)
	if err != nil {
		s.writeRepoError(w, r, "could not update product", err)
		return
	}
	s.respond(w, r, http.StatusOK, updated)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeRepoError(w, r, "could not delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
