// Package usecase implements the business logic for the ledger feature.
package usecase

import "errors"

var (
	// ErrCategoryNotFound is returned when a category does not exist or is
	// not owned by the requesting user. The two cases are deliberately
	// indistinguishable.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTransactionNotFound is returned when a transaction does not exist
	// or is not owned by the requesting user.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidCategory is returned when a transaction references a
	// category that does not exist or belongs to another user.
	ErrInvalidCategory = errors.New("invalid category")
)
