package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/upb/expense-api/models"
	"github.com/upb/expense-api/services/income"
	"github.com/upb/expense-api/utils"
	"go.uber.org/zap"
)

// IncomeResponse represents an income in API responses
type IncomeResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// TimelinePointResponse is one point of the income line chart
type TimelinePointResponse struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// IncomeService defines the income operations used by the handler
type IncomeService interface {
	List(ctx context.Context, owner string) ([]*models.Income, error)
	Timeline(ctx context.Context, owner string) ([]*models.Income, error)
	Create(ctx context.Context, owner string, in income.Input) (*models.Income, error)
	Update(ctx context.Context, owner string, id uuid.UUID, in income.Input) (*models.Income, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) error
	Summary(ctx context.Context, owner string) ([]models.DailyTotal, error)
}

// IncomeHandler handles income-related HTTP requests
type IncomeHandler struct {
	service IncomeService
	logger  *zap.Logger
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(service IncomeService, logger *zap.Logger) *IncomeHandler {
	return &IncomeHandler{
		service: service,
		logger:  logger,
	}
}

// HandleListIncomes handles GET /api/incomes
func (h *IncomeHandler) HandleListIncomes(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireSubject(w, r, h.logger)
	if !ok {
		return
	}

	incomes, err := h.service.List(r.Context(), owner)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	responses := make([]IncomeResponse, len(incomes))
	for i, in := range incomes {
		responses[i] = incomeToResponse(in)
	}
	_ = utils.WriteOK(w, responses)
}

// HandleCreateIncome handles POST /api/incomes
func (h *IncomeHandler) HandleCreateIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireSubject(w, r, h.logger)
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

	_ = utils.WriteCreated(w, incomeToResponse(created))
}

// HandleUpdateIncome handles PUT /api/incomes/{id}
func (h *IncomeHandler) HandleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireSubject(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := parseEntryID(w, r, "income")
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

	_ = utils.WriteOK(w, incomeToResponse(updated))
}

// HandleDeleteIncome handles DELETE /api/incomes/{id}
func (h *IncomeHandler) HandleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireSubject(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := parseEntryID(w, r, "income")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), owner, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// HandleSummary handles GET /api/incomes/summary
func (h *IncomeHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireSubject(w, r, h.logger)
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

// HandleTimeline handles GET /api/incomes/timeline
func (h *IncomeHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireSubject(w, r, h.logger)
	if !ok {
		return
	}

	incomes, err := h.service.Timeline(r.Context(), owner)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	points := make([]TimelinePointResponse, len(incomes))
	for i, in := range incomes {
		points[i] = TimelinePointResponse{Date: in.Date.Format(models.DateLayout), Amount: in.Amount}
	}
	_ = utils.WriteOK(w, points)
}

func (h *IncomeHandler) decodeInput(w http.ResponseWriter, r *http.Request) (income.Input, bool) {
	e, ok := decodeEntry(w, r, h.logger)
	if !ok {
		return income.Input{}, false
	}
	return income.Input{Amount: e.amount, Date: e.date, Description: e.description}, true
}

func incomeToResponse(i *models.Income) IncomeResponse {
	return IncomeResponse{
		ID:          i.ID,
		Amount:      i.Amount,
		Date:        i.Date.Format(models.DateLayout),
		Description: i.Description,
		CreatedAt:   i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   i.UpdatedAt.Format(time.RFC3339),
	}
}
