package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/expense-api/models"
)

// ErrNotFound is returned when a row does not exist for the requested key
var ErrNotFound = errors.New("record not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ExpenseRepository handles expense data operations.
// Every query that touches existing rows is scoped to an owner.
type ExpenseRepository interface {
	// Create inserts a new expense
	Create(ctx context.Context, expense *models.Expense) error

	// GetByID retrieves an expense by ID regardless of owner
	GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)

	// ListByOwner retrieves all expenses of an owner, newest date first
	ListByOwner(ctx context.Context, owner string) ([]*models.Expense, error)

	// Update updates amount, date and description of an owner's expense
	Update(ctx context.Context, expense *models.Expense) error

	// Delete deletes an owner's expense
	Delete(ctx context.Context, id uuid.UUID, owner string) error

	// SummarizeByDate sums an owner's expenses per date, oldest first
	SummarizeByDate(ctx context.Context, owner string) ([]models.DailyTotal, error)
}

// IncomeRepository handles income data operations.
// Every query that touches existing rows is scoped to an owner.
type IncomeRepository interface {
	// Create inserts a new income
	Create(ctx context.Context, income *models.Income) error

	// GetByID retrieves an income by ID regardless of owner
	GetByID(ctx context.Context, id uuid.UUID) (*models.Income, error)

	// ListByOwner retrieves all incomes of an owner, newest date first
	ListByOwner(ctx context.Context, owner string) ([]*models.Income, error)

	// Update updates amount, date and description of an owner's income
	Update(ctx context.Context, income *models.Income) error

	// Delete deletes an owner's income
	Delete(ctx context.Context, id uuid.UUID, owner string) error

	// SummarizeByDate sums an owner's incomes per date, oldest first
	SummarizeByDate(ctx context.Context, owner string) ([]models.DailyTotal, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Expenses ExpenseRepository
	Incomes  IncomeRepository
}
