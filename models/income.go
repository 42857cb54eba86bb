package models

import (
	"time"

	"github.com/google/uuid"
)

// Income is a single earning recorded by an authenticated subject
type Income struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Owner       string    `json:"owner" db:"owner"` // verified token subject
	Amount      float64   `json:"amount" db:"amount"`
	Date        time.Time `json:"date" db:"date"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewIncome creates a new Income owned by the given subject
func NewIncome(owner string, amount float64, date time.Time, description string) *Income {
	now := time.Now().UTC()
	return &Income{
		ID:          uuid.New(),
		Owner:       owner,
		Amount:      amount,
		Date:        TruncateDate(date),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOwnedBy reports whether the income belongs to subject
func (i *Income) IsOwnedBy(subject string) bool {
	return i != nil && subject != "" && i.Owner == subject
}
