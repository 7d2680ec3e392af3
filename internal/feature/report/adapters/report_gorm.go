// Package adapters implements the report row source on GORM.
package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finance_backend/internal/feature/report/usecase"
)

type reportGorm struct {
	db *gorm.DB
}

// NewRowSource creates a GORM-backed report row source.
func NewRowSource(db *gorm.DB) usecase.RowSource {
	return &reportGorm{db: db}
}

var _ usecase.RowSource = (*reportGorm)(nil)

// Rows returns the user's transactions joined with their category's name
// and type, ordered by date. Bounds are inclusive; nil means open.
func (r *reportGorm) Rows(ctx context.Context, userID uint, start, end *time.Time) ([]usecase.Row, error) {
	q := r.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.category_id, categories.name AS category_name, categories.type AS category_type, transactions.amount, transactions.date").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID)

	if start != nil {
		q = q.Where("transactions.date >= ?", *start)
	}
	if end != nil {
		q = q.Where("transactions.date <= ?", *end)
	}

	var rows []usecase.Row
	if err := q.Order("transactions.date").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("scan report rows: %w", err)
	}
	return rows, nil
}
