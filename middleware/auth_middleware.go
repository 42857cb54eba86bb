package middleware

import (
	"net/http"

	"github.com/upb/expense-api/auth"
	"github.com/upb/expense-api/utils"
	"go.uber.org/zap"
)

// Rejection messages returned to clients with a 401
const (
	MessageMissingToken = "No token, authorization denied"
	MessageInvalidToken = "Invalid token"
)

// AuthMiddleware adapts an auth.Gate to net/http
type AuthMiddleware struct {
	gate   *auth.Gate
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(gate *auth.Gate, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		gate:   gate,
		logger: logger,
	}
}

// RequireAuth forwards only requests carrying a verified bearer token.
// The verified identity is placed in the request context before next runs.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		verdict := m.gate.Authenticate(r)

		switch verdict.Reason {
		case auth.ReasonMissingCredential:
			m.logger.Warn("missing token",
				zap.String("request_id", requestID),
				zap.String("reason", string(verdict.Reason)),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, MessageMissingToken)
			return

		case auth.ReasonInvalidCredential:
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.String("reason", string(verdict.Reason)),
				zap.String("path", r.URL.Path),
				zap.Error(verdict.Err))
			_ = utils.WriteUnauthorized(w, MessageInvalidToken)
			return
		}

		if !verdict.Authorized() {
			m.logger.Error("gate returned neither identity nor reason",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, MessageInvalidToken)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", verdict.Identity.Subject))

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, verdict.Identity)))
	})
}
