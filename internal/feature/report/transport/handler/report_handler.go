// Package handler provides the HTTP handlers for the report feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"finance_backend/internal/api"
	"finance_backend/internal/feature/report/usecase"
	jwtmw "finance_backend/internal/platform/jwt"
)

// ReportUsecase defines the report operations the handler depends on.
type ReportUsecase interface {
	Summary(ctx context.Context, userID uint, start, end *time.Time) (*usecase.Summary, error)
	ByCategory(ctx context.Context, userID uint, start, end *time.Time) (*usecase.ByCategory, error)
	Monthly(ctx context.Context, userID uint, months int) (*usecase.MonthlyReport, error)
}

// ReportHandler handles HTTP requests for the aggregated report views.
type ReportHandler struct {
	reports ReportUsecase
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reports ReportUsecase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary handles GET /reports/summary. start_date and end_date are
// optional inclusive bounds.
func (h *ReportHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	s, err := h.reports.Summary(c.Request.Context(), userID, start, end)
	if err != nil {
		slog.Error("summary report failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, summaryResponse(s))
}

// ByCategory handles GET /reports/by-category.
func (h *ReportHandler) ByCategory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	r, err := h.reports.ByCategory(c.Request.Context(), userID, start, end)
	if err != nil {
		slog.Error("by-category report failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	resp := api.ByCategoryResponse{
		IncomeCategories:  categorySummaries(r.Income),
		ExpenseCategories: categorySummaries(r.Expense),
		Summary:           summaryResponse(&r.Summary),
	}
	c.JSON(http.StatusOK, resp)
}

// Monthly handles GET /reports/monthly. An optional ?months=1..24 bounds
// the trend window; values outside that range are rejected.
func (h *ReportHandler) Monthly(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	months := usecase.DefaultMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > usecase.MaxMonths {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "months must be between 1 and 24"})
			return
		}
		months = n
	}

	r, err := h.reports.Monthly(c.Request.Context(), userID, months)
	if err != nil {
		slog.Error("monthly report failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	resp := api.MonthlyReportResponse{
		Trends:  make([]api.MonthlyTrendResponse, 0, len(r.Trends)),
		Summary: summaryResponse(&r.Summary),
	}
	for _, b := range r.Trends {
		resp.Trends = append(resp.Trends, api.MonthlyTrendResponse{
			Month:   b.Month,
			Income:  b.Income,
			Expense: b.Expense,
			Balance: b.Balance,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func summaryResponse(s *usecase.Summary) api.SummaryResponse {
	return api.SummaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Balance:      s.Balance,
		PeriodStart:  s.PeriodStart,
		PeriodEnd:    s.PeriodEnd,
	}
}

func categorySummaries(group []usecase.CategorySummary) []api.CategorySummaryResponse {
	out := make([]api.CategorySummaryResponse, 0, len(group))
	for _, cs := range group {
		out = append(out, api.CategorySummaryResponse{
			CategoryID:       cs.CategoryID,
			CategoryName:     cs.CategoryName,
			CategoryType:     string(cs.CategoryType),
			Total:            cs.Total,
			Percentage:       cs.Percentage,
			TransactionCount: cs.TransactionCount,
		})
	}
	return out
}

func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
		return 0, false
	}
	return userID, true
}

// dateRange parses the optional start_date/end_date query parameters,
// accepting RFC 3339 timestamps and bare YYYY-MM-DD dates.
func dateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid start_date"})
			return nil, nil, false
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid end_date"})
			return nil, nil, false
		}
		end = &t
	}
	return start, end, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
