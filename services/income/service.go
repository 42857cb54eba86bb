// Package income implements the owner-scoped income use cases.
package income

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/expense-api/models"
	"github.com/upb/expense-api/repositories"
	"github.com/upb/expense-api/services"
	"go.uber.org/zap"
)

// Input carries the caller-editable fields of an income
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

// Service manages incomes on behalf of an authenticated owner.
// Rows owned by another subject are reported as not found.
type Service struct {
	repo   repositories.IncomeRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewService creates a new income service
func NewService(repo repositories.IncomeRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns the owner's incomes, newest first
func (s *Service) List(ctx context.Context, owner string) ([]*models.Income, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}

	incomes, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, services.WrapInternal("failed to list incomes", err)
	}
	return incomes, nil
}

// Timeline returns the owner's incomes oldest first, one point per income
func (s *Service) Timeline(ctx context.Context, owner string) ([]*models.Income, error) {
	incomes, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	points := make([]*models.Income, len(incomes))
	copy(points, incomes)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

// Create records a new income for owner
func (s *Service) Create(ctx context.Context, owner string, in Input) (*models.Income, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	income := models.NewIncome(owner, in.Amount, in.Date, strings.TrimSpace(in.Description))
	if err := s.repo.Create(ctx, income); err != nil {
		return nil, services.WrapInternal("failed to create income", err)
	}

	s.logger.Info("income created",
		zap.String("income_id", income.ID.String()),
		zap.String("owner", owner))
	return income, nil
}

// Update replaces the editable fields of one of owner's incomes
func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, in Input) (*models.Income, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	return services.InTx(ctx, s.txMgr, func(ctx context.Context) (*models.Income, error) {
		income, err := s.owned(ctx, owner, id)
		if err != nil {
			return nil, err
		}

		income.Amount = in.Amount
		income.Date = models.TruncateDate(in.Date)
		income.Description = strings.TrimSpace(in.Description)
		income.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, income); err != nil {
			return nil, s.mapRepoError("failed to update income", err)
		}
		return income, nil
	})
}

// Delete removes one of owner's incomes
func (s *Service) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	if owner == "" {
		return services.ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id, owner); err != nil {
		return s.mapRepoError("failed to delete income", err)
	}

	s.logger.Info("income deleted",
		zap.String("income_id", id.String()),
		zap.String("owner", owner))
	return nil
}

// Summary returns the owner's income totals per date, oldest first
func (s *Service) Summary(ctx context.Context, owner string) ([]models.DailyTotal, error) {
	if owner == "" {
		return nil, services.ErrUnauthorized
	}

	totals, err := s.repo.SummarizeByDate(ctx, owner)
	if err != nil {
		return nil, services.WrapInternal("failed to summarize incomes", err)
	}
	return totals, nil
}

func (s *Service) owned(ctx context.Context, owner string, id uuid.UUID) (*models.Income, error) {
	income, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("failed to get income", err)
	}
	if !income.IsOwnedBy(owner) {
		s.logger.Warn("income access denied",
			zap.String("income_id", id.String()),
			zap.String("owner", owner))
		return nil, services.ErrIncomeNotFound
	}
	return income, nil
}

func (s *Service) mapRepoError(message string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return services.ErrIncomeNotFound
	}
	return services.WrapInternal(message, err)
}
