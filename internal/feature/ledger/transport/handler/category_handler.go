// Package handler provides the HTTP handlers for the ledger feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finance_backend/internal/api"
	"finance_backend/internal/feature/ledger/domain/entity"
	"finance_backend/internal/feature/ledger/usecase"
	jwtmw "finance_backend/internal/platform/jwt"
)

// CategoryUsecase defines the category operations the handler depends on.
type CategoryUsecase interface {
	List(ctx context.Context, userID uint, typ *entity.TransactionType) ([]entity.Category, error)
	Create(ctx context.Context, userID uint, name string, typ entity.TransactionType) (*entity.Category, error)
	Get(ctx context.Context, id, userID uint) (*entity.Category, error)
	Update(ctx context.Context, id, userID uint, upd usecase.CategoryUpdate) (*entity.Category, error)
	Delete(ctx context.Context, id, userID uint) error
}

// CategoryHandler handles HTTP requests for category CRUD.
type CategoryHandler struct {
	categories CategoryUsecase
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List handles GET /categories. An optional ?type=income|expense query
// narrows the listing.
func (h *CategoryHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var typ *entity.TransactionType
	if raw := c.Query("type"); raw != "" {
		t, err := entity.ParseTransactionType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "type must be income or expense"})
			return
		}
		typ = &t
	}

	cats, err := h.categories.List(c.Request.Context(), userID, typ)
	if err != nil {
		slog.Error("category list failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	resp := make([]api.CategoryResponse, 0, len(cats))
	for i := range cats {
		resp = append(resp, categoryResponse(&cats[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req api.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	typ, err := entity.ParseTransactionType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "type must be income or expense"})
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), userID, req.Name, typ)
	if err != nil {
		slog.Error("category create failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusCreated, categoryResponse(cat))
}

// Get handles GET /categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	cat, err := h.categories.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.JSON(http.StatusOK, categoryResponse(cat))
}

// Update handles PUT /categories/:id. Absent body fields are left
// unchanged.
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req api.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	upd := usecase.CategoryUpdate{Name: req.Name}
	if req.Type != nil {
		t, err := entity.ParseTransactionType(*req.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "type must be income or expense"})
			return
		}
		upd.Type = &t
	}

	cat, err := h.categories.Update(c.Request.Context(), id, userID, upd)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.JSON(http.StatusOK, categoryResponse(cat))
}

// Delete handles DELETE /categories/:id. Every transaction referencing the
// category is removed with it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id, userID); err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) writeError(c *gin.Context, err error, userID uint) {
	if errors.Is(err, usecase.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "category not found"})
		return
	}
	slog.Error("category operation failed", "error", err, "user_id", userID)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
}

func categoryResponse(cat *entity.Category) api.CategoryResponse {
	return api.CategoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		Type:      string(cat.Type),
		UserID:    cat.UserID,
		CreatedAt: cat.CreatedAt,
	}
}

// requireUser pulls the authenticated user id set by the JWT middleware.
// Routes are registered behind the middleware, so a miss means a wiring
// bug rather than a client error, but the response is still a clean 401.
func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
		return 0, false
	}
	return userID, true
}

// pathID parses the :id path segment.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}
