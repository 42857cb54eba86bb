package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/upb/expense-api/models"
	"github.com/upb/expense-api/services/expense"
	"github.com/upb/expense-api/utils"
	"go.uber.org/zap"
)

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// ExpenseService defines the expense operations used by the handler
type ExpenseService interface {
	List(ctx context.Context, owner string) ([]*models.Expense, error)
	Create(ctx context.Context, owner string, in expense.Input) (*models.Expense, error)
	Update(ctx context.Context, owner string, id uuid.UUID, in expense.Input) (*models.Expense, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) error
	Summary(ctx context.Context, owner string) ([]models.DailyTotal, error)
}

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	service ExpenseService
	logger  *zap.Logger
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		service: service,
		logger:  logger,
	}
}

// HandleListExpenses handles GET /api/expenses
func (h *ExpenseHandler) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.List(r.Context(), owner)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = expenseToResponse(e)
	}
	_ = utils.WriteOK(w, responses)
}

// HandleCreateExpense handles POST /api/expenses
func (h *ExpenseHandler) HandleCreateExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), owner, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, expenseToResponse(created))
}

// HandleUpdateExpense handles PUT /api/expenses/{id}
func (h *ExpenseHandler) HandleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, ok := parseEntryID(w, r, "expense")
	if !ok {
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), owner, id, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, expenseToResponse(updated))
}

// HandleDeleteExpense handles DELETE /api/expenses/{id}
func (h *ExpenseHandler) HandleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, ok := parseEntryID(w, r, "expense")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), owner, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// HandleSummary handles GET /api/expenses/summary
func (h *ExpenseHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	totals, err := h.service.Summary(r.Context(), owner)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, dailyTotalsToResponse(totals))
}

func (h *ExpenseHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	return requireSubject(w, r, h.logger)
}

func (h *ExpenseHandler) decodeInput(w http.ResponseWriter, r *http.Request) (expense.Input, bool) {
	e, ok := decodeEntry(w, r, h.logger)
	if !ok {
		return expense.Input{}, false
	}
	return expense.Input{Amount: e.amount, Date: e.date, Description: e.description}, true
}

// expenseToResponse converts an Expense model to an ExpenseResponse
func expenseToResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Date:        e.Date.Format(models.DateLayout),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}
