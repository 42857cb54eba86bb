package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/expense-api/app"
	"github.com/upb/expense-api/handlers"
	"github.com/upb/expense-api/middleware"
	"github.com/upb/expense-api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	var database handlers.HealthChecker
	if deps.DB != nil {
		database = deps.DB
	}
	health := handlers.NewHealthHandler(database, deps.Config.Environment, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Get("/v1/status", health.HandleStatus)

		r.With(deps.AuthMiddleware.RequireAuth).
			Get("/protected", handlers.NewProtectedHandler(deps.Logger).HandleProtected)

		if deps.ExpenseService != nil {
			expenses := handlers.NewExpenseHandler(deps.ExpenseService, deps.Logger)
			r.Route("/expenses", func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuth)
				r.Get("/", expenses.HandleListExpenses)
				r.Post("/", expenses.HandleCreateExpense)
				r.Get("/summary", expenses.HandleSummary)
				r.Put("/{id}", expenses.HandleUpdateExpense)
				r.Delete("/{id}", expenses.HandleDeleteExpense)
			})
		}

		if deps.IncomeService != nil {
			incomes := handlers.NewIncomeHandler(deps.IncomeService, deps.Logger)
			r.Route("/incomes", func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuth)
				r.Get("/", incomes.HandleListIncomes)
				r.Post("/", incomes.HandleCreateIncome)
				r.Get("/summary", incomes.HandleSummary)
				r.Get("/timeline", incomes.HandleTimeline)
				r.Put("/{id}", incomes.HandleUpdateIncome)
				r.Delete("/{id}", incomes.HandleDeleteIncome)
			})
		}
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}
