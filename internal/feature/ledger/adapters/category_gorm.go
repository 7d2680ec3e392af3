// Package adapters provides the repository implementations for the ledger
// feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"finance_backend/internal/feature/ledger/domain/entity"
	"finance_backend/internal/feature/ledger/usecase"
)

// defaultCategories is the starter set created for every new account.
var defaultCategories = []struct {
	Name string
	Type entity.TransactionType
}{
	{"Food & Dining", entity.TypeExpense},
	{"Groceries", entity.TypeExpense},
	{"Housing", entity.TypeExpense},
	{"Utilities", entity.TypeExpense},
	{"Transportation", entity.TypeExpense},
	{"Healthcare", entity.TypeExpense},
	{"Insurance", entity.TypeExpense},
	{"Entertainment", entity.TypeExpense},
	{"Shopping", entity.TypeExpense},
	{"Education", entity.TypeExpense},
	{"Travel", entity.TypeExpense},
	{"Subscriptions", entity.TypeExpense},
	{"Other Expense", entity.TypeExpense},
	{"Salary", entity.TypeIncome},
	{"Freelance", entity.TypeIncome},
	{"Investment", entity.TypeIncome},
	{"Bonus", entity.TypeIncome},
	{"Refund", entity.TypeIncome},
	{"Gift Received", entity.TypeIncome},
	{"Other Income", entity.TypeIncome},
}

// categoryGorm is the GORM implementation of the CategoryRepository
// interface.
type categoryGorm struct {
	db *gorm.DB
}

// Compile-time check that categoryGorm implements CategoryRepository.
var _ usecase.CategoryRepository = (*categoryGorm)(nil)

// NewCategoryRepository creates a categoryGorm bound to the given
// connection.
func NewCategoryRepository(db *gorm.DB) *categoryGorm {
	return &categoryGorm{db: db}
}

// List returns the user's categories ordered by name, optionally filtered
// by type.
func (r *categoryGorm) List(ctx context.Context, userID uint, typ *entity.TransactionType) ([]entity.Category, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if typ != nil {
		q = q.Where("type = ?", *typ)
	}

	var cs []entity.Category
	if err := q.Order("name").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

// Create inserts a category.
func (r *categoryGorm) Create(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// FindByID retrieves a category scoped to the owning user, or
// usecase.ErrCategoryNotFound.
func (r *categoryGorm) FindByID(ctx context.Context, id, userID uint) (*entity.Category, error) {
	var c entity.Category
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update saves all fields of an existing category.
func (r *categoryGorm) Update(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteWithTransactions removes a category and every transaction
// referencing it in a single database transaction. Ownership is checked
// inside the same transaction.
func (r *categoryGorm) DeleteWithTransactions(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c entity.Category
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrCategoryNotFound
			}
			return err
		}

		if err := tx.Where("category_id = ? AND user_id = ?", id, userID).
			Delete(&entity.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

// SeedDefaultCategories inserts the default category set for userID on the
// given connection. The auth feature calls it with an open transaction so
// account creation and seeding commit together.
func SeedDefaultCategories(ctx context.Context, db *gorm.DB, userID uint) error {
	cs := make([]entity.Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		cs = append(cs, entity.Category{Name: d.Name, Type: d.Type, UserID: userID})
	}
	return db.WithContext(ctx).Create(&cs).Error
}
