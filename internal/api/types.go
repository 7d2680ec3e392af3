// Package api defines the request and response types shared by the HTTP
// transport layer.
package api

import "time"

// ErrorResponse is the uniform error body returned by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRequest is the body for POST /auth/register.
// Gin binding tags enforce email format and the minimum password length.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of a user. It never includes the
// password hash.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryRequest is the body for creating a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Type string `json:"type" binding:"required"`
}

// CategoryUpdateRequest is the body for updating a category. All fields
// are optional; absent fields are left unchanged.
type CategoryUpdateRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
	Type *string `json:"type"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionRequest is the body for creating a transaction.
type TransactionRequest struct {
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
	CategoryID  uint      `json:"category_id" binding:"required"`
}

// TransactionUpdateRequest is the body for updating a transaction. All
// fields are optional; absent fields are left unchanged.
type TransactionUpdateRequest struct {
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	CategoryID  *uint      `json:"category_id"`
}

// TransactionResponse is the public view of a transaction.
type TransactionResponse struct {
	ID          uint      `json:"id"`
	Amount      float64   `json:"amount"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
	CategoryID  *uint     `json:"category_id"`
	UserID      uint      `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionListResponse is a paginated page of transactions.
// Pages is ceil(Total / PerPage).
type TransactionListResponse struct {
	Items   []TransactionResponse `json:"items"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
	Pages   int                   `json:"pages"`
}

// SummaryResponse is the overall income/expense summary for a period.
type SummaryResponse struct {
	TotalIncome  float64    `json:"total_income"`
	TotalExpense float64    `json:"total_expense"`
	Balance      float64    `json:"balance"`
	PeriodStart  *time.Time `json:"period_start,omitempty"`
	PeriodEnd    *time.Time `json:"period_end,omitempty"`
}

// CategorySummaryResponse is one category's share of a by-category report.
type CategorySummaryResponse struct {
	CategoryID       uint    `json:"category_id"`
	CategoryName     string  `json:"category_name"`
	CategoryType     string  `json:"category_type"`
	Total            float64 `json:"total"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transaction_count"`
}

// ByCategoryResponse partitions category summaries by type alongside the
// overall summary over the same window.
type ByCategoryResponse struct {
	IncomeCategories  []CategorySummaryResponse `json:"income_categories"`
	ExpenseCategories []CategorySummaryResponse `json:"expense_categories"`
	Summary           SummaryResponse           `json:"summary"`
}

// MonthlyTrendResponse is one month bucket of a monthly report,
// with Month formatted as "YYYY-MM".
type MonthlyTrendResponse struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// MonthlyReportResponse lists month buckets in chronological order plus a
// summary over exactly the included buckets.
type MonthlyReportResponse struct {
	Trends  []MonthlyTrendResponse `json:"trends"`
	Summary SummaryResponse        `json:"summary"`
}
