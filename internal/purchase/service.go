// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package purchase

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
	"github.com/coursehub/coursehub/pkg/errutil"
)

// Service records purchases and lists what a learner bought.
type Service struct {
	repo    Repository
	courses CourseLookup
	logger  *slog.Logger
}

// NewService creates a purchase service. A nil logger falls back to
// slog.Default().
func NewService(repo Repository, courses CourseLookup, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.In("purchase").Errorf("purchase repository is required")
	}
	if courses == nil {
		return nil, oops.In("purchase").Errorf("course lookup is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, courses: courses, logger: logger}, nil
}

// Record stores a purchase of courseID by learnerID. It does not check that
// the course exists or that it was bought before.
func (s *Service) Record(ctx context.Context, learnerID, courseID ulid.ULID) (*Purchase, error) {
	p := &Purchase{
		ID:        ulid.Make(),
		LearnerID: learnerID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, s.internal(ctx, "record purchase", err)
	}
	Recorded.Inc()
	return p, nil
}

// PurchasedCourses returns the courses learnerID bought, in purchase order
// and without repeats. Purchases of courses that no longer exist are
// skipped.
func (s *Service) PurchasedCourses(ctx context.Context, learnerID ulid.ULID) ([]*course.Course, error) {
	purchases, err := s.repo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, s.internal(ctx, "list purchases", err)
	}
	if len(purchases) == 0 {
		return nil, nil
	}

	seen := make(map[ulid.ULID]struct{}, len(purchases))
	ids := make([]ulid.ULID, 0, len(purchases))
	for _, p := range purchases {
		if _, dup := seen[p.CourseID]; dup {
			continue
		}
		seen[p.CourseID] = struct{}{}
		ids = append(ids, p.CourseID)
	}

	found, err := s.courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, s.internal(ctx, "resolve purchased courses", err)
	}
	byID := make(map[ulid.ULID]*course.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	out := make([]*course.Course, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) internal(ctx context.Context, step string, err error) error {
	wrapped := oops.Code(auth.CodeInternal).
		With("step", step).
		Wrap(err)
	errutil.LogErrorContext(ctx, s.logger, "purchase operation failed", wrapped)
	return wrapped
}
