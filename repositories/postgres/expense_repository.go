package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/expense-api/models"
	"github.com/upb/expense-api/repositories"
	"go.uber.org/zap"
)

const expenseColumns = `id, owner, amount, date, description, created_at, updated_at`

// ExpenseRepository implements the repositories.ExpenseRepository interface
type ExpenseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *DB, logger *zap.Logger) repositories.ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		expense.ID,
		expense.Owner,
		expense.Amount,
		expense.Date,
		expense.Description,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	r.logger.Debug("expense created", zap.String("id", expense.ID.String()), zap.String("owner", expense.Owner))
	return nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	expense, err := scanExpense(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// ListByOwner retrieves all expenses of an owner
func (r *ExpenseRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE owner = $1
		ORDER BY date DESC, created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*models.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// Update updates an expense owned by expense.Owner
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET amount = $1, date = $2, description = $3, updated_at = $4
		WHERE id = $5 AND owner = $6
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		expense.Amount,
		expense.Date,
		expense.Description,
		expense.UpdatedAt,
		expense.ID,
		expense.Owner,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if err := requireAffected(result, "expense", expense.ID); err != nil {
		return err
	}

	r.logger.Debug("expense updated", zap.String("id", expense.ID.String()))
	return nil
}

// Delete deletes an expense owned by owner
func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID, owner string) error {
	query := `DELETE FROM expenses WHERE id = $1 AND owner = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if err := requireAffected(result, "expense", id); err != nil {
		return err
	}

	r.logger.Debug("expense deleted", zap.String("id", id.String()))
	return nil
}

// SummarizeByDate sums an owner's expenses per calendar date
func (r *ExpenseRepository) SummarizeByDate(ctx context.Context, owner string) ([]models.DailyTotal, error) {
	query := `
		SELECT date, SUM(amount) AS total
		FROM expenses
		WHERE owner = $1
		GROUP BY date
		ORDER BY date
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	defer rows.Close()

	return scanDailyTotals(rows)
}

// scanDailyTotals reads (date, total) rows of a GROUP BY date query
func scanDailyTotals(rows *sql.Rows) ([]models.DailyTotal, error) {
	totals := make([]models.DailyTotal, 0)
	for rows.Next() {
		var total models.DailyTotal
		if err := rows.Scan(&total.Date, &total.Total); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		total.Date = models.TruncateDate(total.Date)
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily totals: %w", err)
	}

	return totals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	err := row.Scan(
		&expense.ID,
		&expense.Owner,
		&expense.Amount,
		&expense.Date,
		&expense.Description,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.Date = models.TruncateDate(expense.Date)
	return expense, nil
}

// requireAffected maps an update or delete that matched no row to ErrNotFound
func requireAffected(result sql.Result, entity string, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, repositories.ErrNotFound)
	}
	return nil
}
