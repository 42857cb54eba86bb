package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// registeredClaims are the claim names mapped onto Identity fields; everything else lands in Extra.
var registeredClaims = map[string]struct{}{
	"sub": {},
	"iss": {},
	"aud": {},
	"exp": {},
	"nbf": {},
	"iat": {},
	"jti": {},
}

// Identity is the verified claim set attached to an authenticated request
type Identity struct {
	Subject   string
	Issuer    string
	Audience  []string
	ID        string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
	NotBefore *time.Time

	// Extra holds custom claims exactly as decoded from the token payload
	Extra map[string]any

	// payload is the verified claim set as decoded, nil for hand-built identities
	payload map[string]any
}

// Claim returns a custom claim by name
func (i *Identity) Claim(name string) (any, bool) {
	if i == nil || i.Extra == nil {
		return nil, false
	}
	v, ok := i.Extra[name]
	return v, ok
}

// MarshalJSON encodes the identity as a flat claim set.
// A verified identity encodes the token payload unchanged, so a string aud stays
// a string and fractional NumericDates keep their fraction.
func (i Identity) MarshalJSON() ([]byte, error) {
	if i.payload != nil {
		return json.Marshal(i.payload)
	}

	out := make(map[string]any, len(i.Extra)+7)
	for k, v := range i.Extra {
		out[k] = v
	}
	if i.Subject != "" {
		out["sub"] = i.Subject
	}
	if i.Issuer != "" {
		out["iss"] = i.Issuer
	}
	if len(i.Audience) > 0 {
		out["aud"] = i.Audience
	}
	if i.ID != "" {
		out["jti"] = i.ID
	}
	if i.IssuedAt != nil {
		out["iat"] = numericValue(*i.IssuedAt)
	}
	if i.ExpiresAt != nil {
		out["exp"] = numericValue(*i.ExpiresAt)
	}
	if i.NotBefore != nil {
		out["nbf"] = numericValue(*i.NotBefore)
	}
	return json.Marshal(out)
}

// identityFromClaims converts verified map claims into an Identity
func identityFromClaims(claims jwt.MapClaims) (*Identity, error) {
	identity := &Identity{
		Extra:   make(map[string]any),
		payload: make(map[string]any, len(claims)),
	}
	for k, v := range claims {
		identity.payload[k] = v
	}

	var err error
	if identity.Subject, err = claims.GetSubject(); err != nil {
		return nil, fmt.Errorf("sub: %w", err)
	}
	if identity.Issuer, err = claims.GetIssuer(); err != nil {
		return nil, fmt.Errorf("iss: %w", err)
	}
	aud, err := claims.GetAudience()
	if err != nil {
		return nil, fmt.Errorf("aud: %w", err)
	}
	identity.Audience = []string(aud)

	if jti, ok := claims["jti"]; ok {
		s, ok := jti.(string)
		if !ok {
			return nil, fmt.Errorf("jti: %w", jwt.ErrInvalidType)
		}
		identity.ID = s
	}

	if identity.IssuedAt, err = numericDate(claims.GetIssuedAt); err != nil {
		return nil, fmt.Errorf("iat: %w", err)
	}
	if identity.ExpiresAt, err = numericDate(claims.GetExpirationTime); err != nil {
		return nil, fmt.Errorf("exp: %w", err)
	}
	if identity.NotBefore, err = numericDate(claims.GetNotBefore); err != nil {
		return nil, fmt.Errorf("nbf: %w", err)
	}

	for k, v := range claims {
		if _, ok := registeredClaims[k]; ok {
			continue
		}
		identity.Extra[k] = v
	}

	return identity, nil
}

func numericDate(get func() (*jwt.NumericDate, error)) (*time.Time, error) {
	nd, err := get()
	if err != nil {
		return nil, err
	}
	if nd == nil {
		return nil, nil
	}
	t := nd.Time
	return &t, nil
}

// numericValue encodes t as NumericDate seconds, fractional only when needed
func numericValue(t time.Time) any {
	if t.Nanosecond() == 0 {
		return t.Unix()
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
