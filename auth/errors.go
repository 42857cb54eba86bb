package auth

import "errors"

var (
	// ErrMissingCredential is returned when no usable bearer token is present
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential is returned when a token fails signature, structure or expiry checks
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrEmptySecret is returned when a verifier is built without a signing key
	ErrEmptySecret = errors.New("signing secret is empty")
)

// Reason classifies why the gate rejected a request
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonMissingCredential Reason = "missing_credential"
	ReasonInvalidCredential Reason = "invalid_credential"
)
