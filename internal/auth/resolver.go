// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ResolvedPrincipal is the identity established for a single request.
type ResolvedPrincipal struct {
	ID   ulid.ULID
	Kind Kind
}

// Resolver authenticates bearer tokens. It is stateless and has no side
// effects beyond metrics.
type Resolver struct {
	tokens TokenVerifier
}

// NewResolver creates a resolver backed by the given verifier.
func NewResolver(tokens TokenVerifier) (*Resolver, error) {
	if tokens == nil {
		return nil, oops.In("auth").Errorf("token verifier is required")
	}
	return &Resolver{tokens: tokens}, nil
}

// Resolve returns the principal named by token when it verifies for kind.
// Empty, malformed, badly signed, and wrong-kind tokens all yield the same
// UNAUTHORIZED error.
func (r *Resolver) Resolve(_ context.Context, token string, kind Kind) (ResolvedPrincipal, error) {
	if token == "" {
		recordAttempt(OperationResolve, kind, OutcomeRejected)
		return ResolvedPrincipal{}, unauthorized()
	}
	id, err := r.tokens.Verify(token, kind)
	if err != nil {
		recordAttempt(OperationResolve, kind, OutcomeRejected)
		return ResolvedPrincipal{}, unauthorized()
	}
	recordAttempt(OperationResolve, kind, OutcomeSuccess)
	return ResolvedPrincipal{ID: id, Kind: kind}, nil
}

// The verifier's reason is dropped so callers cannot tell failures apart.
func unauthorized() error {
	return oops.Code(CodeUnauthorized).Errorf("unauthorized")
}

type principalKey struct{}

// WithPrincipal returns a context carrying the resolved principal.
func WithPrincipal(ctx context.Context, p ResolvedPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal placed by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (ResolvedPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ResolvedPrincipal)
	return p, ok
}
