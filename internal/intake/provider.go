// Package intake talks to the third-party intake-form provider. The
// provider owns the record format; everything it returns is passed
// through to API clients uninspected.
package intake

import (
	"context"

	"github.com/carelight/claimsbridge/internal/result"
)

// Record is the upstream intake payload. No fields are interpreted here.
type Record map[string]any

// Error codes surfaced in failure envelopes.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeUpstream    = "UPSTREAM_ERROR"
	CodeUnreachable = "UPSTREAM_UNREACHABLE"
)

// Provider looks up intake records by their opaque identifier. All
// failures are reported through the envelope; implementations never
// panic.
type Provider interface {
	GetIntake(ctx context.Context, id string) result.Result[Record]
}
