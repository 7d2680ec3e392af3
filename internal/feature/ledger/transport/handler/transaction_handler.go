package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"finance_backend/internal/api"
	"finance_backend/internal/feature/ledger/domain/entity"
	"finance_backend/internal/feature/ledger/usecase"
)

// TransactionUsecase defines the transaction operations the handler
// depends on.
type TransactionUsecase interface {
	List(ctx context.Context, userID uint, f usecase.TransactionFilter, page, perPage int) (*usecase.TransactionPage, error)
	Create(ctx context.Context, userID uint, amount float64, description *string, date time.Time, categoryID uint) (*entity.Transaction, error)
	Get(ctx context.Context, id, userID uint) (*entity.Transaction, error)
	Update(ctx context.Context, id, userID uint, upd usecase.TransactionUpdate) (*entity.Transaction, error)
	Delete(ctx context.Context, id, userID uint) error
}

// TransactionHandler handles HTTP requests for transaction CRUD and the
// paginated listing.
type TransactionHandler struct {
	transactions TransactionUsecase
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(transactions TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// List handles GET /transactions. Supported query parameters: page,
// per_page (capped at 100), category_id, start_date, end_date (inclusive,
// RFC 3339 or YYYY-MM-DD), and type.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", usecase.DefaultPerPage)
	if perPage > usecase.MaxPerPage {
		perPage = usecase.MaxPerPage
	}

	var f usecase.TransactionFilter
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid category_id"})
			return
		}
		cid := uint(id)
		f.CategoryID = &cid
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid start_date"})
			return
		}
		f.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid end_date"})
			return
		}
		f.EndDate = &t
	}
	if raw := c.Query("type"); raw != "" {
		t, err := entity.ParseTransactionType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "type must be income or expense"})
			return
		}
		f.Type = &t
	}

	result, err := h.transactions.List(c.Request.Context(), userID, f, page, perPage)
	if err != nil {
		slog.Error("transaction list failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	items := make([]api.TransactionResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, transactionResponse(&result.Items[i]))
	}
	c.JSON(http.StatusOK, api.TransactionListResponse{
		Items:   items,
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
		Pages:   result.Pages,
	})
}

// Create handles POST /transactions. A category_id the user does not own
// yields 400, never a silent reassignment.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req api.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), userID, req.Amount, req.Description, req.Date, req.CategoryID)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.JSON(http.StatusCreated, transactionResponse(tx))
}

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	tx, err := h.transactions.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.JSON(http.StatusOK, transactionResponse(tx))
}

// Update handles PUT /transactions/:id. A description field explicitly set
// to null clears the stored text, while an absent field leaves it alone;
// the raw body distinguishes the two cases.
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	var req api.TransactionUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Amount != nil && *req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount must be positive"})
		return
	}

	upd := usecase.TransactionUpdate{
		Amount:     req.Amount,
		Date:       req.Date,
		CategoryID: req.CategoryID,
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		if _, ok := fields["description"]; ok {
			upd.Description = &req.Description
		}
	}

	tx, err := h.transactions.Update(c.Request.Context(), id, userID, upd)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.JSON(http.StatusOK, transactionResponse(tx))
}

// Delete handles DELETE /transactions/:id. The category the transaction
// pointed at survives.
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), id, userID); err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TransactionHandler) writeError(c *gin.Context, err error, userID uint) {
	switch {
	case errors.Is(err, usecase.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "transaction not found"})
	case errors.Is(err, usecase.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid category"})
	default:
		slog.Error("transaction operation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func transactionResponse(t *entity.Transaction) api.TransactionResponse {
	return api.TransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CategoryID:  t.CategoryID,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
