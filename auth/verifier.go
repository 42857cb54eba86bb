package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// hmacMethods are the only algorithms accepted for shared-secret tokens
var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// HMACVerifier verifies HMAC-signed JWTs against a single shared secret.
// It holds no mutable state and is safe for concurrent use.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

type verifierOptions struct {
	requireExpiry bool
	leeway        time.Duration
	issuer        string
	audience      string
	now           func() time.Time
}

// VerifierOption configures an HMACVerifier
type VerifierOption func(*verifierOptions)

// WithRequireExpiry rejects tokens without an exp claim when set
func WithRequireExpiry(required bool) VerifierOption {
	return func(o *verifierOptions) {
		o.requireExpiry = required
	}
}

// WithLeeway allows for clock skew when checking exp, nbf and iat
func WithLeeway(d time.Duration) VerifierOption {
	return func(o *verifierOptions) {
		o.leeway = d
	}
}

// WithIssuer requires the iss claim to match
func WithIssuer(issuer string) VerifierOption {
	return func(o *verifierOptions) {
		o.issuer = issuer
	}
}

// WithAudience requires the aud claim to contain the given value
func WithAudience(audience string) VerifierOption {
	return func(o *verifierOptions) {
		o.audience = audience
	}
}

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) VerifierOption {
	return func(o *verifierOptions) {
		o.now = now
	}
}

// NewHMACVerifier creates a verifier for the given secret.
// Expiry is required unless WithRequireExpiry(false) is passed.
func NewHMACVerifier(secret []byte, opts ...VerifierOption) (*HMACVerifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	o := verifierOptions{requireExpiry: true}
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(hmacMethods),
	}
	if o.requireExpiry {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(o.leeway))
	}
	if o.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(o.issuer))
	}
	if o.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(o.audience))
	}
	if o.now != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(o.now))
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &HMACVerifier{
		secret: key,
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

// Verify checks the token signature and time-based claims and returns the decoded identity.
// Every failure wraps ErrInvalidCredential.
func (v *HMACVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidCredential)
	}

	claims := jwt.MapClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidCredential
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	return identity, nil
}

func (v *HMACVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.secret, nil
}
