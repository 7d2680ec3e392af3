package usecase

import (
	"context"

	"finance_backend/internal/feature/ledger/domain/entity"
)

// CategoryRepository abstracts the persistence layer for categories.
// Following Go convention, interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type CategoryRepository interface {
	// List returns the user's categories ordered by name, optionally
	// filtered by type.
	List(ctx context.Context, userID uint, typ *entity.TransactionType) ([]entity.Category, error)

	// Create persists a new category.
	Create(ctx context.Context, c *entity.Category) error

	// FindByID retrieves a category scoped to the owning user, or
	// ErrCategoryNotFound.
	FindByID(ctx context.Context, id, userID uint) (*entity.Category, error)

	// Update saves an existing category.
	Update(ctx context.Context, c *entity.Category) error

	// DeleteWithTransactions deletes a category and every transaction
	// referencing it as one atomic unit, or ErrCategoryNotFound.
	DeleteWithTransactions(ctx context.Context, id, userID uint) error
}

// ReportInvalidator drops cached report data for a user after a ledger
// mutation.
type ReportInvalidator interface {
	InvalidateUser(ctx context.Context, userID uint)
}

// CategoryUpdate carries the optional fields of a category update.
// Nil fields are left unchanged.
type CategoryUpdate struct {
	Name *string
	Type *entity.TransactionType
}

// CategoryUsecase provides business logic for category operations. Every
// operation is scoped to the authenticated user's id.
type CategoryUsecase struct {
	categories CategoryRepository
	reports    ReportInvalidator
}

// NewCategoryUsecase creates a CategoryUsecase. reports may be nil when no
// report cache is configured.
func NewCategoryUsecase(categories CategoryRepository, reports ReportInvalidator) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, reports: reports}
}

// List returns the user's categories, optionally filtered by type.
func (u *CategoryUsecase) List(ctx context.Context, userID uint, typ *entity.TransactionType) ([]entity.Category, error) {
	return u.categories.List(ctx, userID, typ)
}

// Create adds a category for the user. Duplicate (name, type) pairs are
// permitted.
func (u *CategoryUsecase) Create(ctx context.Context, userID uint, name string, typ entity.TransactionType) (*entity.Category, error) {
	c := &entity.Category{Name: name, Type: typ, UserID: userID}
	if err := u.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, userID)
	return c, nil
}

// Get retrieves one category owned by the user.
func (u *CategoryUsecase) Get(ctx context.Context, id, userID uint) (*entity.Category, error) {
	return u.categories.FindByID(ctx, id, userID)
}

// Update applies the non-nil fields of upd to the user's category.
func (u *CategoryUsecase) Update(ctx context.Context, id, userID uint, upd CategoryUpdate) (*entity.Category, error) {
	c, err := u.categories.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Type != nil {
		c.Type = *upd.Type
	}

	if err := u.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, userID)
	return c, nil
}

// Delete removes the category and cascades to all its transactions.
// Deleting a transaction elsewhere never removes its category.
func (u *CategoryUsecase) Delete(ctx context.Context, id, userID uint) error {
	if err := u.categories.DeleteWithTransactions(ctx, id, userID); err != nil {
		return err
	}
	u.invalidate(ctx, userID)
	return nil
}

func (u *CategoryUsecase) invalidate(ctx context.Context, userID uint) {
	if u.reports != nil {
		u.reports.InvalidateUser(ctx, userID)
	}
}
