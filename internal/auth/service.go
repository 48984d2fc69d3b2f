// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/coursehub/coursehub/pkg/errutil"
)

// CredentialService handles signup and signin for one principal kind.
type CredentialService struct {
	kind   Kind
	repo   PrincipalRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewCredentialService creates a credential service for kind.
// A nil logger falls back to slog.Default().
func NewCredentialService(kind Kind, repo PrincipalRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) (*CredentialService, error) {
	if !kind.Valid() {
		return nil, oops.In("auth").With("kind", string(kind)).Errorf("invalid principal kind")
	}
	if repo == nil {
		return nil, oops.In("auth").Errorf("principal repository is required")
	}
	if hasher == nil {
		return nil, oops.In("auth").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.In("auth").Errorf("token issuer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialService{
		kind:   kind,
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("kind", string(kind)),
	}, nil
}

// Kind returns the principal kind this service handles.
func (s *CredentialService) Kind() Kind {
	return s.kind
}

// Signup registers a new principal. It issues no token.
func (s *CredentialService) Signup(ctx context.Context, in SignupInput) (*Principal, error) {
	if fields := in.Validate(); len(fields) > 0 {
		recordAttempt(OperationSignup, s.kind, OutcomeRejected)
		return nil, ValidationError(fields)
	}

	_, err := s.repo.GetByEmail(ctx, s.kind, in.Email)
	switch {
	case err == nil:
		recordAttempt(OperationSignup, s.kind, OutcomeRejected)
		return nil, alreadyRegistered(nil)
	case !errors.Is(err, ErrNotFound):
		return nil, s.internal(ctx, OperationSignup, "lookup principal", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.internal(ctx, OperationSignup, "hash password", err)
	}

	p, err := NewPrincipal(s.kind, in.Email, hash, in.FirstName, in.LastName)
	if err != nil {
		return nil, s.internal(ctx, OperationSignup, "build principal", err)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		// Lost a race against a concurrent signup for the same email.
		if errors.Is(err, ErrAlreadyExists) {
			recordAttempt(OperationSignup, s.kind, OutcomeRejected)
			return nil, alreadyRegistered(err)
		}
		return nil, s.internal(ctx, OperationSignup, "persist principal", err)
	}

	recordAttempt(OperationSignup, s.kind, OutcomeSuccess)
	s.logger.InfoContext(ctx, "principal registered", "principal_id", p.ID.String())
	return p, nil
}

// Signin checks credentials and returns a bearer token for the principal.
func (s *CredentialService) Signin(ctx context.Context, in SigninInput) (string, error) {
	if fields := in.Validate(); len(fields) > 0 {
		recordAttempt(OperationSignin, s.kind, OutcomeRejected)
		return "", ValidationError(fields)
	}

	p, err := s.repo.GetByEmail(ctx, s.kind, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			recordAttempt(OperationSignin, s.kind, OutcomeRejected)
			return "", oops.Code(CodeNotFound).Errorf("account not found")
		}
		return "", s.internal(ctx, OperationSignin, "lookup principal", err)
	}

	ok, err := s.hasher.Verify(in.Password, p.PasswordHash)
	if err != nil {
		return "", s.internal(ctx, OperationSignin, "verify password", err)
	}
	if !ok {
		recordAttempt(OperationSignin, s.kind, OutcomeRejected)
		return "", oops.Code(CodeInvalidCredentials).Errorf("invalid email or password")
	}

	token, err := s.tokens.Issue(p.ID, s.kind)
	if err != nil {
		return "", s.internal(ctx, OperationSignin, "issue token", err)
	}

	recordAttempt(OperationSignin, s.kind, OutcomeSuccess)
	return token, nil
}

func alreadyRegistered(cause error) error {
	b := oops.Code(CodeAlreadyRegistered)
	if cause != nil {
		return b.Wrapf(cause, "email already registered")
	}
	return b.Errorf("email already registered")
}

func (s *CredentialService) internal(ctx context.Context, operation, step string, err error) error {
	recordAttempt(operation, s.kind, OutcomeError)
	wrapped := oops.Code(CodeInternal).
		With("step", step).
		Wrap(err)
	errutil.LogErrorContext(ctx, s.logger, operation+" failed", wrapped)
	return wrapped
}
