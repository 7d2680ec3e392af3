package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"finance_backend/internal/feature/ledger/domain/entity"
	"finance_backend/internal/feature/ledger/usecase"
)

// transactionGorm is the GORM implementation of the TransactionRepository
// interface.
type transactionGorm struct {
	db *gorm.DB
}

// Compile-time check that transactionGorm implements TransactionRepository.
var _ usecase.TransactionRepository = (*transactionGorm)(nil)

// NewTransactionRepository creates a transactionGorm bound to the given
// connection.
func NewTransactionRepository(db *gorm.DB) *transactionGorm {
	return &transactionGorm{db: db}
}

// List returns one page of the user's transactions ordered by date
// descending, plus the total count matching the filter. The type filter
// joins through the owning category. Date bounds are inclusive; an inverted
// range simply matches nothing.
func (r *transactionGorm) List(ctx context.Context, userID uint, f usecase.TransactionFilter, offset, limit int) ([]entity.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("transactions.user_id = ?", userID)

	if f.CategoryID != nil {
		q = q.Where("transactions.category_id = ?", *f.CategoryID)
	}
	if f.StartDate != nil {
		q = q.Where("transactions.date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("transactions.date <= ?", *f.EndDate)
	}
	if f.Type != nil {
		q = q.Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("categories.type = ?", *f.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ts []entity.Transaction
	if err := q.Order("transactions.date DESC").Offset(offset).Limit(limit).Find(&ts).Error; err != nil {
		return nil, 0, err
	}
	return ts, total, nil
}

// Create inserts a transaction.
func (r *transactionGorm) Create(ctx context.Context, t *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByID retrieves a transaction scoped to the owning user, or
// usecase.ErrTransactionNotFound.
func (r *transactionGorm) FindByID(ctx context.Context, id, userID uint) (*entity.Transaction, error) {
	var t entity.Transaction
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update saves all fields of an existing transaction.
func (r *transactionGorm) Update(ctx context.Context, t *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete removes a transaction, or usecase.ErrTransactionNotFound when no
// owned row matches.
func (r *transactionGorm) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTransactionNotFound
	}
	return nil
}
