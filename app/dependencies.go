package app

import (
	"context"
	"fmt"

	"github.com/upb/expense-api/auth"
	"github.com/upb/expense-api/config"
	"github.com/upb/expense-api/middleware"
	"github.com/upb/expense-api/repositories"
	"github.com/upb/expense-api/repositories/postgres"
	"github.com/upb/expense-api/services/expense"
	"github.com/upb/expense-api/services/income"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Expenses  repositories.ExpenseRepository
	Incomes   repositories.IncomeRepository
	TxManager repositories.TransactionManager

	// Auth
	Gate           *auth.Gate
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	ExpenseService *expense.Service
	IncomeService  *income.Service
}

// Option customizes NewDependencies
type Option func(*options)

type options struct {
	db *postgres.DB
}

// WithDatabase adopts an already opened pool instead of dialing cfg.Database
func WithDatabase(db *postgres.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// NewDependencies creates and wires up all application dependencies.
// A missing JWT secret is a startup error. The database is optional; without
// it only the health and protected routes are served.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Dependencies, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	switch {
	case o.db != nil:
		deps.RepoFactory = postgres.NewRepositoryFactoryFromDB(o.db, logger)
	case cfg.Database.Configured():
		factory, err := postgres.NewRepositoryFactory(cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.RepoFactory = factory
	default:
		logger.Warn("database not configured, expense and income endpoints disabled")
	}

	if deps.RepoFactory != nil {
		if err := deps.initDatabase(ctx); err != nil {
			_ = deps.RepoFactory.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.initRepositories()
		deps.initServices()
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initAuth builds the token verifier and the gate in front of protected routes
func (d *Dependencies) initAuth(cfg *config.Config) error {
	verifierOpts := []auth.VerifierOption{
		auth.WithRequireExpiry(cfg.Auth.RequireExpiry),
		auth.WithLeeway(cfg.Auth.Leeway),
	}
	if cfg.Auth.Issuer != "" {
		verifierOpts = append(verifierOpts, auth.WithIssuer(cfg.Auth.Issuer))
	}
	if cfg.Auth.Audience != "" {
		verifierOpts = append(verifierOpts, auth.WithAudience(cfg.Auth.Audience))
	}

	verifier, err := auth.NewHMACVerifier([]byte(cfg.Auth.Secret), verifierOpts...)
	if err != nil {
		return err
	}

	d.Gate = auth.NewGate(verifier, auth.WithBearerScheme(cfg.Auth.RequireBearerScheme))
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Gate, d.Logger)

	d.Logger.Info("auth gate initialized", zap.String("auth", cfg.Auth.String()))
	return nil
}

// initDatabase applies the schema on the factory's pool
func (d *Dependencies) initDatabase(ctx context.Context) error {
	d.DB = d.RepoFactory.GetDB()

	if err := d.DB.InitSchema(ctx); err != nil {
		return err
	}

	d.Logger.Info("database ready")
	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Expenses = repos.Expenses
	d.Incomes = repos.Incomes
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.ExpenseService = expense.NewService(d.Expenses, d.TxManager, d.Logger)
	d.IncomeService = income.NewService(d.Incomes, d.TxManager, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
