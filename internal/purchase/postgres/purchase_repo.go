// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package postgres implements purchase.Repository on PostgreSQL.
package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/purchase"
	"github.com/coursehub/coursehub/internal/store"
)

// PurchaseRepository implements purchase.Repository using PostgreSQL.
type PurchaseRepository struct {
	db store.Querier
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(db store.Querier) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create inserts a purchase row.
func (r *PurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO purchases (id, learner_id, course_id, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID.String(), p.LearnerID.String(), p.CourseID.String(), p.CreatedAt)
	if err != nil {
		return oops.In("purchase_repo").
			With("operation", "insert purchase").
			With("learner_id", p.LearnerID.String()).
			With("course_id", p.CourseID.String()).
			Wrap(err)
	}
	return nil
}

// ListByLearner returns the learner's purchases, oldest first.
func (r *PurchaseRepository) ListByLearner(ctx context.Context, learnerID ulid.ULID) ([]*purchase.Purchase, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, learner_id, course_id, created_at FROM purchases
		 WHERE learner_id = $1 ORDER BY created_at, id`,
		learnerID.String())
	if err != nil {
		return nil, oops.In("purchase_repo").With("operation", "list purchases").Wrap(err)
	}
	defer rows.Close()

	var out []*purchase.Purchase
	for rows.Next() {
		var (
			p                   purchase.Purchase
			id, learner, course string
		)
		if err := rows.Scan(&id, &learner, &course, &p.CreatedAt); err != nil {
			return nil, oops.In("purchase_repo").With("operation", "scan purchase row").Wrap(err)
		}
		if p.ID, err = ulid.Parse(id); err != nil {
			return nil, oops.In("purchase_repo").With("id", id).Wrap(err)
		}
		if p.LearnerID, err = ulid.Parse(learner); err != nil {
			return nil, oops.In("purchase_repo").With("learner_id", learner).Wrap(err)
		}
		if p.CourseID, err = ulid.Parse(course); err != nil {
			return nil, oops.In("purchase_repo").With("course_id", course).Wrap(err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("purchase_repo").With("operation", "iterate purchases").Wrap(err)
	}
	return out, nil
}
