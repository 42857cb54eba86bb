package handlers

import (
	"net/http"

	"github.com/upb/expense-api/auth"
	"github.com/upb/expense-api/middleware"
	"github.com/upb/expense-api/utils"
	"go.uber.org/zap"
)

// ProtectedMessage is returned by the protected echo route
const ProtectedMessage = "This is a protected route"

// ProtectedResponse echoes the verified identity back to the caller
type ProtectedResponse struct {
	Message string         `json:"message"`
	User    *auth.Identity `json:"user"`
}

// ProtectedHandler serves routes that only describe the caller
type ProtectedHandler struct {
	logger *zap.Logger
}

// NewProtectedHandler creates a new ProtectedHandler
func NewProtectedHandler(logger *zap.Logger) *ProtectedHandler {
	return &ProtectedHandler{logger: logger}
}

// HandleProtected handles GET /api/protected; it must sit behind RequireAuth
func (h *ProtectedHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		h.logger.Error("protected route reached without identity",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
		_ = utils.WriteUnauthorized(w, middleware.MessageMissingToken)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, ProtectedResponse{
		Message: ProtectedMessage,
		User:    identity,
	}); err != nil {
		h.logger.Error("failed to write protected response", zap.Error(err))
	}
}
