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

const incomeColumns = `id, owner, amount, date, description, created_at, updated_at`

// IncomeRepository implements the repositories.IncomeRepository interface
type IncomeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewIncomeRepository creates a new income repository
func NewIncomeRepository(db *DB, logger *zap.Logger) repositories.IncomeRepository {
	return &IncomeRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new income
func (r *IncomeRepository) Create(ctx context.Context, income *models.Income) error {
	query := `
		INSERT INTO incomes (` + incomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		income.ID,
		income.Owner,
		income.Amount,
		income.Date,
		income.Description,
		income.CreatedAt,
		income.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}

	r.logger.Debug("income created", zap.String("id", income.ID.String()), zap.String("owner", income.Owner))
	return nil
}

// GetByID retrieves an income by ID
func (r *IncomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE id = $1`

	income, err := scanIncome(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("income %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get income: %w", err)
	}

	return income, nil
}

// ListByOwner retrieves all incomes of an owner
func (r *IncomeRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Income, error) {
	query := `
		SELECT ` + incomeColumns + `
		FROM incomes
		WHERE owner = $1
		ORDER BY date DESC, created_at DESC
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	incomes := make([]*models.Income, 0)
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incomes: %w", err)
	}

	return incomes, nil
}

// Update updates an income owned by income.Owner
func (r *IncomeRepository) Update(ctx context.Context, income *models.Income) error {
	query := `
		UPDATE incomes
		SET amount = $1, date = $2, description = $3, updated_at = $4
		WHERE id = $5 AND owner = $6
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		income.Amount,
		income.Date,
		income.Description,
		income.UpdatedAt,
		income.ID,
		income.Owner,
	)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}

	if err := requireAffected(result, "income", income.ID); err != nil {
		return err
	}

	r.logger.Debug("income updated", zap.String("id", income.ID.String()))
	return nil
}

// Delete deletes an income owned by owner
func (r *IncomeRepository) Delete(ctx context.Context, id uuid.UUID, owner string) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM incomes WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}

	if err := requireAffected(result, "income", id); err != nil {
		return err
	}

	r.logger.Debug("income deleted", zap.String("id", id.String()))
	return nil
}

// SummarizeByDate sums an owner's incomes per calendar date
func (r *IncomeRepository) SummarizeByDate(ctx context.Context, owner string) ([]models.DailyTotal, error) {
	query := `
		SELECT date, SUM(amount) AS total
		FROM incomes
		WHERE owner = $1
		GROUP BY date
		ORDER BY date
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize incomes: %w", err)
	}
	defer rows.Close()

	return scanDailyTotals(rows)
}

func scanIncome(row rowScanner) (*models.Income, error) {
	income := &models.Income{}
	err := row.Scan(
		&income.ID,
		&income.Owner,
		&income.Amount,
		&income.Date,
		&income.Description,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	income.Date = models.TruncateDate(income.Date)
	return income, nil
}
