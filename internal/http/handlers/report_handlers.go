package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/reports"
	"github.com/momna763/Target-Lock/internal/repo"
)

const maxReportTitleLen = 200

// ExportProducts godoc
// @Summary Export products as CSV or Excel
// @Description Streams the export and records a report entry for the caller
// @Tags reports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "csv (default) or xlsx"
// @Param category query string false "Only this category"
// @Param sortBy query string false "Sort column (default profitabilityScore)"
// @Param sortOrder query string false "asc or desc (default desc)"
// @Param fields query string false "Comma-separated columns"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/reports/export [get]
func (s *Server) ExportProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := reports.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := reports.Options{SortBy: strings.TrimSpace(q.Get("sortBy"))}
	switch strings.ToLower(q.Get("sortOrder")) {
	case "", "desc":
	case "asc":
		opts.Ascending = true
	default:
		writeError(w, http.StatusBadRequest, "sortOrder must be asc or desc")
		return
	}
	if fields := strings.TrimSpace(q.Get("fields")); fields != "" {
		opts.Fields = strings.Split(fields, ",")
	}

	category := strings.TrimSpace(q.Get("category"))
	products, _, err := s.products.Filter(r.Context(), repo.ProductFilter{Category: category})
	if err != nil {
		s.internalError(w, r, "could not fetch products", err)
		return
	}

	var buf bytes.Buffer
	summary, err := reports.Write(&buf, format, products, opts)
	if err != nil {
		if errors.Is(err, reports.ErrUnknownField) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, "could not render export", err)
		return
	}

	now := s.now()
	report := models.Report{
		UserID: identity(r).UserID,
		Type:   format.ReportType(),
		Title:  fmt.Sprintf("Product export (%s)", format),
		Data: map[string]any{
			"rows":            summary.Rows,
			"categories":      summary.Categories,
			"totalStockValue": summary.TotalStockValue.StringFixed(2),
		},
		GeneratedAt: now.UTC(),
	}
	if category != "" {
		report.Filters.Categories = []string{category}
	}
	if _, err := s.reports.Create(r.Context(), report); err != nil {
		s.logger(r).Warn("export not recorded", zap.Error(err))
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName(now)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger(r).Warn("failed to write export", zap.Error(err))
	}
}

// CreateReport godoc
// @Summary Save report metadata
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body ReportRequest true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} ErrorResponse
// @Router /api/reports [post]
func (s *Server) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if !slices.Contains(models.ReportTypes, req.Type) {
		writeError(w, http.StatusBadRequest, "type must be one of "+strings.Join(models.ReportTypes, ", "))
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || utf8.RuneCountInString(title) > maxReportTitleLen {
		writeError(w, http.StatusBadRequest, "title is required and must be at most 200 characters")
		return
	}

	data := req.Data
	if data == nil {
		data = map[string]any{}
	}
	created, err := s.reports.Create(r.Context(), models.Report{
		UserID:      identity(r).UserID,
		Type:        req.Type,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Data:        data,
		Filters:     req.Filters,
		IsPublic:    req.IsPublic,
		Tags:        cleanTags(req.Tags),
		GeneratedAt: s.now().UTC(),
	})
	if err != nil {
		s.internalError(w, r, "could not save report", err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// GetReports godoc
// @Summary Reports visible to the caller
// @Description The caller's reports plus public ones, newest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Report
// @Failure 500 {object} ErrorResponse
// @Router /api/reports [get]
func (s *Server) GetReports(w http.ResponseWriter, r *http.Request) {
	list, err := s.reports.List(r.Context(), identity(r).UserID)
	if err != nil {
		s.internalError(w, r, "could not fetch reports", err)
		return
	}
	s.respond(w, r, http.StatusOK, list)
}
