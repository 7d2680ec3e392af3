// Package entity defines the domain entities for the ledger feature.
package entity

import (
	"fmt"
	"time"
)

// TransactionType classifies a category and, through it, the direction of
// every transaction recorded against it.
type TransactionType string

const (
	// TypeIncome marks money flowing in.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money flowing out.
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType validates a raw type literal at the API boundary.
// Everything past the boundary carries the typed value.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	default:
		return "", fmt.Errorf("invalid transaction type %q: must be 'income' or 'expense'", s)
	}
}

// Category is a named income or expense bucket owned by exactly one user.
// Duplicate (name, type) pairs per user are permitted.
type Category struct {
	// ID is the unique identifier for the category.
	ID uint `gorm:"primaryKey"`

	// Name is the display name of the category.
	Name string `gorm:"size:100;not null"`

	// Type is income or expense. Transactions inherit their direction
	// from it.
	Type TransactionType `gorm:"size:16;not null;index"`

	// UserID is the owning user. Every query must filter by it.
	UserID uint `gorm:"not null;index"`

	// CreatedAt is the timestamp when the category was created.
	CreatedAt time.Time
}
