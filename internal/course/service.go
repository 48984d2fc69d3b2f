// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package course

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/pkg/errutil"
)

// Service runs catalog operations. Mutations re-check ownership on every
// call; nothing is cached.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a course service. A nil logger falls back to
// slog.Default().
func NewService(repo Repository, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.In("course").Errorf("course repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Create adds a course owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID ulid.ULID, in Input) (*Course, error) {
	if fields := in.Validate(); len(fields) > 0 {
		recordMutation(OperationCreate, OutcomeInvalid)
		return nil, auth.ValidationError(fields)
	}

	now := s.now()
	c := &Course{
		ID:          ulid.Make(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, s.internal(ctx, OperationCreate, "persist course", err)
	}

	recordMutation(OperationCreate, OutcomeSuccess)
	return c, nil
}

// Get returns one course.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Course, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, s.internal(ctx, "get", "load course", err)
	}
	return c, nil
}

// ListByOwner returns the courses ownerID created.
func (s *Service) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*Course, error) {
	courses, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.internal(ctx, "list", "list owner courses", err)
	}
	return courses, nil
}

// ListAll returns the whole catalog.
func (s *Service) ListAll(ctx context.Context) ([]*Course, error) {
	courses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list", "list courses", err)
	}
	return courses, nil
}

// Update changes a course owned by principalID.
func (s *Service) Update(ctx context.Context, principalID, courseID ulid.ULID, patch Patch) (*Course, error) {
	if patch.Empty() {
		recordMutation(OperationUpdate, OutcomeInvalid)
		return nil, auth.ValidationError([]auth.FieldError{{Field: "course", Message: "no fields to update"}})
	}
	if fields := patch.Validate(); len(fields) > 0 {
		recordMutation(OperationUpdate, OutcomeInvalid)
		return nil, auth.ValidationError(fields)
	}

	if err := s.authorize(ctx, OperationUpdate, principalID, courseID); err != nil {
		return nil, err
	}

	c, err := s.repo.Update(ctx, courseID, principalID, patch, s.now())
	if err != nil {
		// Deleted between the ownership check and the write.
		if errors.Is(err, auth.ErrNotFound) {
			recordMutation(OperationUpdate, OutcomeNotFound)
			return nil, notFound(courseID)
		}
		return nil, s.internal(ctx, OperationUpdate, "update course", err)
	}

	recordMutation(OperationUpdate, OutcomeSuccess)
	return c, nil
}

// Delete removes a course owned by principalID. A course that disappears
// after the ownership check counts as deleted.
func (s *Service) Delete(ctx context.Context, principalID, courseID ulid.ULID) error {
	if err := s.authorize(ctx, OperationDelete, principalID, courseID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, courseID, principalID); err != nil && !errors.Is(err, auth.ErrNotFound) {
		return s.internal(ctx, OperationDelete, "delete course", err)
	}

	recordMutation(OperationDelete, OutcomeSuccess)
	return nil
}

// authorize loads the course and applies AuthorizeMutation. A missing course
// is NOT_FOUND, never FORBIDDEN.
func (s *Service) authorize(ctx context.Context, operation string, principalID, courseID ulid.ULID) error {
	c, err := s.repo.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			recordMutation(operation, OutcomeNotFound)
			return notFound(courseID)
		}
		return s.internal(ctx, operation, "load course", err)
	}
	if err := AuthorizeMutation(principalID, c); err != nil {
		recordMutation(operation, OutcomeForbidden)
		return err
	}
	return nil
}

func notFound(id ulid.ULID) error {
	return oops.Code(auth.CodeNotFound).
		With("course_id", id.String()).
		Errorf("course not found")
}

func (s *Service) internal(ctx context.Context, operation, step string, err error) error {
	switch operation {
	case OperationCreate, OperationUpdate, OperationDelete:
		recordMutation(operation, OutcomeError)
	}
	wrapped := oops.Code(auth.CodeInternal).
		With("step", step).
		Wrap(err)
	errutil.LogErrorContext(ctx, s.logger, "course "+operation+" failed", wrapped)
	return wrapped
}
