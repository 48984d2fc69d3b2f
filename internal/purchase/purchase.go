// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package purchase records course purchases by learners.
//
// Recording is deliberately lenient: the course is not looked up and
// repeated purchases of the same course are all kept.
package purchase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/coursehub/coursehub/internal/course"
)

// Purchase is one recorded purchase.
type Purchase struct {
	ID        ulid.ULID
	LearnerID ulid.ULID
	CourseID  ulid.ULID
	CreatedAt time.Time
}

// Repository persists purchases.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error

	// ListByLearner returns the learner's purchases, oldest first.
	ListByLearner(ctx context.Context, learnerID ulid.ULID) ([]*Purchase, error)
}

// CourseLookup resolves course ids to courses, skipping unknown ids.
type CourseLookup interface {
	ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*course.Course, error)
}
