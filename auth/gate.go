package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// AuthorizationHeader is the header carrying the bearer credential
const AuthorizationHeader = "Authorization"

// TokenVerifier verifies a raw credential and returns the identity it carries
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Verdict is the outcome of authenticating a single request
type Verdict struct {
	Identity *Identity
	Reason   Reason
	Err      error
}

// Authorized reports whether the request may proceed
func (v Verdict) Authorized() bool {
	return v.Identity != nil && v.Reason == ReasonNone
}

func rejected(reason Reason, err error) Verdict {
	return Verdict{Reason: reason, Err: err}
}

// Gate decides whether a request may reach protected logic
type Gate struct {
	verifier            TokenVerifier
	requireBearerScheme bool
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithBearerScheme requires the header scheme label to be "Bearer" when set.
// By default the label is ignored and only the token segment is used.
func WithBearerScheme(required bool) GateOption {
	return func(g *Gate) {
		g.requireBearerScheme = required
	}
}

// NewGate creates a gate backed by the given verifier
func NewGate(verifier TokenVerifier, opts ...GateOption) *Gate {
	g := &Gate{verifier: verifier}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate extracts and verifies the request credential.
// It never writes a response; callers act on the returned verdict.
func (g *Gate) Authenticate(r *http.Request) (verdict Verdict) {
	scheme, token, err := ParseAuthorizationHeader(r.Header.Get(AuthorizationHeader))
	if err != nil {
		return rejected(ReasonMissingCredential, err)
	}
	if g.requireBearerScheme && !strings.EqualFold(scheme, "Bearer") {
		return rejected(ReasonMissingCredential, fmt.Errorf("%w: unsupported scheme %q", ErrMissingCredential, scheme))
	}

	// A verifier that panics must not let the request through.
	defer func() {
		if rec := recover(); rec != nil {
			verdict = rejected(ReasonInvalidCredential, fmt.Errorf("%w: verifier panic: %v", ErrInvalidCredential, rec))
		}
	}()

	identity, err := g.verifier.Verify(r.Context(), token)
	if err != nil {
		return rejected(ReasonInvalidCredential, err)
	}
	if identity == nil {
		return rejected(ReasonInvalidCredential, fmt.Errorf("%w: verifier returned no identity", ErrInvalidCredential))
	}

	return Verdict{Identity: identity}
}

// ParseAuthorizationHeader splits a "<scheme> <token>" header on whitespace.
// A missing header or a header without a second segment yields ErrMissingCredential.
func ParseAuthorizationHeader(header string) (scheme, token string, err error) {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", "", ErrMissingCredential
	}
	return parts[0], parts[1], nil
}

// ExtractBearerToken returns the token segment of an Authorization header value
func ExtractBearerToken(header string) (string, error) {
	_, token, err := ParseAuthorizationHeader(header)
	return token, err
}
