package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for entry dates on the wire
const DateLayout = "2006-01-02"

// Expense is a single spend recorded by an authenticated subject
type Expense struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Owner       string    `json:"owner" db:"owner"` // verified token subject
	Amount      float64   `json:"amount" db:"amount"`
	Date        time.Time `json:"date" db:"date"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewExpense creates a new Expense owned by the given subject
func NewExpense(owner string, amount float64, date time.Time, description string) *Expense {
	now := time.Now().UTC()
	return &Expense{
		ID:          uuid.New(),
		Owner:       owner,
		Amount:      amount,
		Date:        TruncateDate(date),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOwnedBy reports whether the expense belongs to subject
func (e *Expense) IsOwnedBy(subject string) bool {
	return e != nil && subject != "" && e.Owner == subject
}

// DailyTotal is the summed amount of an owner's expenses or incomes on one date
type DailyTotal struct {
	Date  time.Time `json:"date" db:"date"`
	Total float64   `json:"total" db:"total"`
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
	}
	return d, nil
}

// TruncateDate drops the time-of-day part, keeping the calendar date in UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
