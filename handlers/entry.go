package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/expense-api/middleware"
	"github.com/upb/expense-api/models"
	"github.com/upb/expense-api/utils"
	"go.uber.org/zap"
)

// maxEntryBodyBytes caps expense and income request bodies
const maxEntryBodyBytes = 1 << 20

// EntryRequest is the body of expense and income create and update calls.
// There is no owner field; the owner is always the verified subject.
type EntryRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Description string  `json:"description" validate:"max=255"`
}

// DailyTotalResponse is one bar of a per-date summary
type DailyTotalResponse struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// entry is a decoded and validated EntryRequest
type entry struct {
	amount      float64
	date        time.Time
	description string
}

// requireSubject returns the verified subject, writing a 401 when there is none
func requireSubject(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil || identity.Subject == "" {
		logger.Warn("request without subject",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
		_ = utils.WriteUnauthorized(w, middleware.MessageInvalidToken)
		return "", false
	}
	return identity.Subject, true
}

func decodeEntry(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (entry, bool) {
	requestID := middleware.GetRequestIDFromContext(r.Context())

	var req EntryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntryBodyBytes))
	if err := dec.Decode(&req); err != nil {
		logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return entry{}, false
	}

	if err := utils.ValidateStruct(&req); err != nil {
		logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, logger)
		return entry{}, false
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		HandleValidationError(w, err, logger)
		return entry{}, false
	}

	return entry{amount: req.Amount, date: date, description: req.Description}, true
}

// parseEntryID reads the {id} URL parameter; kind names the resource in the 400 message
func parseEntryID(w http.ResponseWriter, r *http.Request, kind string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid "+kind+" ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func dailyTotalsToResponse(totals []models.DailyTotal) []DailyTotalResponse {
	responses := make([]DailyTotalResponse, len(totals))
	for i, t := range totals {
		responses[i] = DailyTotalResponse{Date: t.Date.Format(models.DateLayout), Total: t.Total}
	}
	return responses
}
