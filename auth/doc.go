// Package auth implements the request authentication gate.
//
// A Gate reads the Authorization header, verifies the bearer token with a
// TokenVerifier (HMACVerifier for shared-secret JWTs) and returns a Verdict:
// either an authorized Identity or a rejection reason. The gate is stateless;
// the only long-lived value is the verifier's secret, which is read-only after
// construction.
package auth
