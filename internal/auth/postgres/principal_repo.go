// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package postgres implements auth.PrincipalRepository on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/store"
)

// Each kind has its own table; the statements below are chosen per kind
// rather than built from the table name at runtime.
var (
	insertSQL = map[auth.Kind]string{
		auth.KindLearner: `INSERT INTO learners (id, email, password_hash, first_name, last_name, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
		auth.KindAdmin: `INSERT INTO admins (id, email, password_hash, first_name, last_name, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
	}
	byEmailSQL = map[auth.Kind]string{
		auth.KindLearner: `SELECT id, email, password_hash, first_name, last_name, created_at
			FROM learners WHERE email = $1`,
		auth.KindAdmin: `SELECT id, email, password_hash, first_name, last_name, created_at
			FROM admins WHERE email = $1`,
	}
	byIDSQL = map[auth.Kind]string{
		auth.KindLearner: `SELECT id, email, password_hash, first_name, last_name, created_at
			FROM learners WHERE id = $1`,
		auth.KindAdmin: `SELECT id, email, password_hash, first_name, last_name, created_at
			FROM admins WHERE id = $1`,
	}
)

// PrincipalRepository implements auth.PrincipalRepository using PostgreSQL.
type PrincipalRepository struct {
	db store.Querier
}

// NewPrincipalRepository creates a new PrincipalRepository.
func NewPrincipalRepository(db store.Querier) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

// Create inserts a principal into its kind's table.
func (r *PrincipalRepository) Create(ctx context.Context, p *auth.Principal) error {
	query, ok := insertSQL[p.Kind]
	if !ok {
		return oops.In("principal_repo").With("kind", string(p.Kind)).Errorf("unknown principal kind")
	}

	_, err := r.db.Exec(ctx, query,
		p.ID.String(),
		p.Email,
		p.PasswordHash,
		p.FirstName,
		p.LastName,
		p.CreatedAt,
	)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return oops.In("principal_repo").
				With("kind", string(p.Kind)).
				Wrap(auth.ErrAlreadyExists)
		}
		return oops.In("principal_repo").
			With("operation", "insert principal").
			With("kind", string(p.Kind)).
			Wrap(err)
	}
	return nil
}

// GetByEmail retrieves a principal by exact email within kind.
func (r *PrincipalRepository) GetByEmail(ctx context.Context, kind auth.Kind, email string) (*auth.Principal, error) {
	query, ok := byEmailSQL[kind]
	if !ok {
		return nil, oops.In("principal_repo").With("kind", string(kind)).Errorf("unknown principal kind")
	}
	p, err := scanPrincipal(r.db.QueryRow(ctx, query, email), kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.In("principal_repo").With("kind", string(kind)).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.In("principal_repo").
			With("operation", "get principal by email").
			With("kind", string(kind)).
			Wrap(err)
	}
	return p, nil
}

// GetByID retrieves a principal by id within kind.
func (r *PrincipalRepository) GetByID(ctx context.Context, kind auth.Kind, id ulid.ULID) (*auth.Principal, error) {
	query, ok := byIDSQL[kind]
	if !ok {
		return nil, oops.In("principal_repo").With("kind", string(kind)).Errorf("unknown principal kind")
	}
	p, err := scanPrincipal(r.db.QueryRow(ctx, query, id.String()), kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.In("principal_repo").
			With("kind", string(kind)).
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.In("principal_repo").
			With("operation", "get principal by id").
			With("id", id.String()).
			Wrap(err)
	}
	return p, nil
}

func scanPrincipal(row pgx.Row, kind auth.Kind) (*auth.Principal, error) {
	var (
		p     auth.Principal
		idStr string
	)
	if err := row.Scan(&idStr, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName, &p.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with query context
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.With("operation", "parse principal id").With("id", idStr).Wrap(err)
	}
	p.ID = id
	p.Kind = kind
	return &p, nil
}
