// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
)

// CourseStore implements course.Repository.
type CourseStore struct {
	mu      sync.RWMutex
	courses map[ulid.ULID]course.Course
}

// NewCourseStore creates an empty store.
func NewCourseStore() *CourseStore {
	return &CourseStore{courses: make(map[ulid.ULID]course.Course)}
}

// Create implements course.Repository.
func (s *CourseStore) Create(_ context.Context, c *course.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.courses[c.ID]; exists {
		return oops.In("memory").With("course_id", c.ID.String()).Wrap(auth.ErrAlreadyExists)
	}
	s.courses[c.ID] = *c
	return nil
}

// Get implements course.Repository.
func (s *CourseStore) Get(_ context.Context, id ulid.ULID) (*course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &c, nil
}

// ListByOwner implements course.Repository.
func (s *CourseStore) ListByOwner(_ context.Context, ownerID ulid.ULID) ([]*course.Course, error) {
	return s.filter(func(c course.Course) bool { return c.OwnerID == ownerID }), nil
}

// ListAll implements course.Repository.
func (s *CourseStore) ListAll(_ context.Context) ([]*course.Course, error) {
	return s.filter(func(course.Course) bool { return true }), nil
}

// ListByIDs implements course.Repository.
func (s *CourseStore) ListByIDs(_ context.Context, ids []ulid.ULID) ([]*course.Course, error) {
	return s.filter(func(c course.Course) bool { return slices.Contains(ids, c.ID) }), nil
}

// Update implements course.Repository. The owner match and the write happen
// under one lock.
func (s *CourseStore) Update(_ context.Context, id, ownerID ulid.ULID, patch course.Patch, now time.Time) (*course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok || c.OwnerID != ownerID {
		return nil, auth.ErrNotFound
	}
	patch.Apply(&c, now)
	s.courses[id] = c
	return &c, nil
}

// Delete implements course.Repository.
func (s *CourseStore) Delete(_ context.Context, id, ownerID ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok || c.OwnerID != ownerID {
		return auth.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

// filter returns copies of matching courses ordered by id, which is
// creation order for ULIDs.
func (s *CourseStore) filter(keep func(course.Course) bool) []*course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*course.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if keep(c) {
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *course.Course) int { return a.ID.Compare(b.ID) })
	return out
}
