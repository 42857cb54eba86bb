// Package expense implements the owner-scoped expense use cases.
package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/expense-api/models"
	"github.com/upb/expense-api/repositories"
	"github.com/upb/expense-api/services"
	"go.uber.org/zap"
)

// Input carries the caller-editable fields of an expense
type Input struct {
	Amount      float64
	Date        time.Time
	Description string
}

func (in Input) validate() error {
	if in.Amount <= 0 {
		return services.FieldError(services.ErrInvalidAmount, "amount")
	}
	if in.Date.IsZero() {
		return services.FieldError(services.ErrInvalidDate, "date")
	}
	return nil
}

// Service manages expenses on behalf of an authenticated owner.
// Rows owned by another subject are reported as not found.
type Service struct {
	repo   repositories.ExpenseRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewService creates a new expense service
func NewService(repo repositories.ExpenseRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns the owner's expenses
func (s *Service) List(ctx context.Context, owner string) ([]*models.Expense, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}

	expenses, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, services.WrapInternal("failed to list expenses", err)
	}
	return expenses, nil
}

// Create records a new expense for owner
func (s *Service) Create(ctx context.Context, owner string, in Input) (*models.Expense, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	expense := models.NewExpense(owner, in.Amount, in.Date, strings.TrimSpace(in.Description))
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, services.WrapInternal("failed to create expense", err)
	}

	s.logger.Info("expense created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("owner", owner))
	return expense, nil
}

// Update replaces the editable fields of one of owner's expenses
func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, in Input) (*models.Expense, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	return services.InTx(ctx, s.txMgr, func(ctx context.Context) (*models.Expense, error) {
		expense, err := s.owned(ctx, owner, id)
		if err != nil {
			return nil, err
		}

		expense.Amount = in.Amount
		expense.Date = models.TruncateDate(in.Date)
		expense.Description = strings.TrimSpace(in.Description)
		expense.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, expense); err != nil {
			return nil, s.mapRepoError("failed to update expense", err)
		}
		return expense, nil
	})
}

// Delete removes one of owner's expenses
func (s *Service) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	if owner == "" {
		return services.ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id, owner); err != nil {
		return s.mapRepoError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted",
		zap.String("expense_id", id.String()),
		zap.String("owner", owner))
	return nil
}

// Summary returns the owner's totals per date, oldest first
func (s *Service) Summary(ctx context.Context, owner string) ([]models.DailyTotal, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}

	totals, err := s.repo.SummarizeByDate(ctx, owner)
	if err != nil {
		return nil, services.WrapInternal("failed to summarize expenses", err)
	}
	return totals, nil
}

func (s *Service) owned(ctx context.Context, owner string, id uuid.UUID) (*models.Expense, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("failed to get expense", err)
	}
	if !expense.IsOwnedBy(owner) {
		s.logger.Warn("expense access denied",
			zap.String("expense_id", id.String()),
			zap.String("owner", owner))
		return nil, services.ErrExpenseNotFound
	}
	return expense, nil
}

func (s *Service) mapRepoError(message string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return services.ErrExpenseNotFound
	}
	return services.WrapInternal(message, err)
}
