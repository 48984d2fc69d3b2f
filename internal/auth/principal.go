// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Principal is an authenticated identity of one kind.
// Principals are created at signup and never mutated afterwards.
type Principal struct {
	ID           ulid.ULID
	Kind         Kind
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// NewPrincipal creates a principal with a fresh ID.
// The email is stored as given; callers validate input first.
func NewPrincipal(kind Kind, email, passwordHash, firstName, lastName string) (*Principal, error) {
	if !kind.Valid() {
		return nil, oops.In("auth").With("kind", string(kind)).Errorf("invalid principal kind")
	}
	if strings.TrimSpace(email) == "" {
		return nil, oops.In("auth").Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, oops.In("auth").Errorf("password hash is required")
	}
	return &Principal{
		ID:           ulid.Make(),
		Kind:         kind,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// PrincipalRepository persists principals. Every method is scoped to a single
// kind; the learner and admin email spaces never overlap.
type PrincipalRepository interface {
	// Create inserts a principal. Returns ErrAlreadyExists when the email is
	// already registered for the principal's kind.
	Create(ctx context.Context, p *Principal) error

	// GetByEmail returns ErrNotFound when no principal of kind has the email.
	GetByEmail(ctx context.Context, kind Kind, email string) (*Principal, error)

	// GetByID returns ErrNotFound when no principal of kind has the id.
	GetByID(ctx context.Context, kind Kind, id ulid.ULID) (*Principal, error)
}
