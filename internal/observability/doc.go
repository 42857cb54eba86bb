// Package observability builds the process-wide zap logger.
//
// The level and encoding come from configuration; every component receives
// the resulting *zap.Logger through its constructor.
package observability
