package entity

import "time"

// Transaction is a single monetary event. Amount is always strictly
// positive; direction comes from the category's type.
type Transaction struct {
	// ID is the unique identifier for the transaction.
	ID uint `gorm:"primaryKey"`

	// Amount is the monetary value. Always > 0.
	Amount float64 `gorm:"not null"`

	// Description is optional free text.
	Description *string `gorm:"type:text"`

	// Date is the effective business date, distinct from CreatedAt.
	Date time.Time `gorm:"not null;index"`

	// CategoryID references a category owned by the same user. Nullable
	// so a row can survive schema-level reference removal, though the
	// application deletes transactions together with their category.
	CategoryID *uint `gorm:"index"`

	// UserID is the owning user and the authorization boundary.
	UserID uint `gorm:"not null;index"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time
}
