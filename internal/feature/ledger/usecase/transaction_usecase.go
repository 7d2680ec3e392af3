package usecase

import (
	"context"
	"errors"
	"time"

	"finance_backend/internal/feature/ledger/domain/entity"
)

const (
	// DefaultPerPage is the page size used when the caller gives none.
	DefaultPerPage = 20
	// MaxPerPage caps the page size accepted from the API.
	MaxPerPage = 100
)

// TransactionFilter narrows a transaction listing. Nil fields are ignored.
// Date bounds are inclusive.
type TransactionFilter struct {
	CategoryID *uint
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *entity.TransactionType
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Items   []entity.Transaction
	Total   int64
	Page    int
	PerPage int
	Pages   int
}

// TransactionRepository abstracts the persistence layer for transactions.
type TransactionRepository interface {
	// List returns one page of the user's transactions ordered by date
	// descending, plus the total count matching the filter.
	List(ctx context.Context, userID uint, f TransactionFilter, offset, limit int) ([]entity.Transaction, int64, error)

	// Create persists a new transaction.
	Create(ctx context.Context, t *entity.Transaction) error

	// FindByID retrieves a transaction scoped to the owning user, or
	// ErrTransactionNotFound.
	FindByID(ctx context.Context, id, userID uint) (*entity.Transaction, error)

	// Update saves an existing transaction.
	Update(ctx context.Context, t *entity.Transaction) error

	// Delete removes a transaction, or ErrTransactionNotFound.
	Delete(ctx context.Context, id, userID uint) error
}

// TransactionUpdate carries the optional fields of a transaction update.
// Nil fields are left unchanged. Description is a pointer-to-pointer so a
// present-but-null JSON field can clear the text.
type TransactionUpdate struct {
	Amount      *float64
	Description **string
	Date        *time.Time
	CategoryID  *uint
}

// TransactionUsecase provides business logic for transaction operations.
type TransactionUsecase struct {
	transactions TransactionRepository
	categories   CategoryRepository
	reports      ReportInvalidator
}

// NewTransactionUsecase creates a TransactionUsecase. reports may be nil.
func NewTransactionUsecase(transactions TransactionRepository, categories CategoryRepository, reports ReportInvalidator) *TransactionUsecase {
	return &TransactionUsecase{transactions: transactions, categories: categories, reports: reports}
}

// List returns one page of the user's transactions. page and perPage are
// normalized here; the API boundary additionally caps perPage at MaxPerPage.
func (u *TransactionUsecase) List(ctx context.Context, userID uint, f TransactionFilter, page, perPage int) (*TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}

	items, total, err := u.transactions.List(ctx, userID, f, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &TransactionPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	}, nil
}

// Create records a transaction against a category the user owns. A
// category_id belonging to another user is rejected with ErrInvalidCategory,
// never silently reassigned.
func (u *TransactionUsecase) Create(ctx context.Context, userID uint, amount float64, description *string, date time.Time, categoryID uint) (*entity.Transaction, error) {
	if err := u.checkCategory(ctx, categoryID, userID); err != nil {
		return nil, err
	}

	t := &entity.Transaction{
		Amount:      amount,
		Description: description,
		Date:        date,
		CategoryID:  &categoryID,
		UserID:      userID,
	}
	if err := u.transactions.Create(ctx, t); err != nil {
		return nil, err
	}
	u.invalidate(ctx, userID)
	return t, nil
}

// Get retrieves one transaction owned by the user.
func (u *TransactionUsecase) Get(ctx context.Context, id, userID uint) (*entity.Transaction, error) {
	return u.transactions.FindByID(ctx, id, userID)
}

// Update applies the non-nil fields of upd to the user's transaction. A
// category change is re-validated for ownership.
func (u *TransactionUsecase) Update(ctx context.Context, id, userID uint, upd TransactionUpdate) (*entity.Transaction, error) {
	t, err := u.transactions.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if upd.CategoryID != nil {
		if err := u.checkCategory(ctx, *upd.CategoryID, userID); err != nil {
			return nil, err
		}
		t.CategoryID = upd.CategoryID
	}
	if upd.Amount != nil {
		t.Amount = *upd.Amount
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}

	if err := u.transactions.Update(ctx, t); err != nil {
		return nil, err
	}
	u.invalidate(ctx, userID)
	return t, nil
}

// Delete removes a transaction. Its category is never touched.
func (u *TransactionUsecase) Delete(ctx context.Context, id, userID uint) error {
	if err := u.transactions.Delete(ctx, id, userID); err != nil {
		return err
	}
	u.invalidate(ctx, userID)
	return nil
}

func (u *TransactionUsecase) checkCategory(ctx context.Context, categoryID, userID uint) error {
	if _, err := u.categories.FindByID(ctx, categoryID, userID); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return ErrInvalidCategory
		}
		return err
	}
	return nil
}

func (u *TransactionUsecase) invalidate(ctx context.Context, userID uint) {
	if u.reports != nil {
		u.reports.InvalidateUser(ctx, userID)
	}
}
