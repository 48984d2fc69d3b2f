// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package course manages the course catalog and the ownership rule that
// gates changes to it.
package course

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/coursehub/coursehub/internal/auth"
)

// Field limits for course input, counted in characters.
const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 5000
	ImageURLMaxLength    = 2048
)

// Course is a catalog entry owned by the admin that created it.
type Course struct {
	ID          ulid.ULID
	Title       string
	Description string
	Price       float64
	ImageURL    string
	OwnerID     ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input carries the fields supplied when creating a course.
type Input struct {
	Title       string
	Description string
	Price       float64
	ImageURL    string
}

// Patch carries the fields to change on update. Nil fields are left as-is.
// The owner is not patchable.
type Patch struct {
	Title       *string
	Description *string
	Price       *float64
	ImageURL    *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.ImageURL == nil
}

// Apply writes the patch onto c and bumps UpdatedAt.
func (p Patch) Apply(c *Course, now time.Time) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	c.UpdatedAt = now
}

// Validate returns every offending field.
func (in Input) Validate() []auth.FieldError {
	return Patch{
		Title:       &in.Title,
		Description: &in.Description,
		Price:       &in.Price,
		ImageURL:    &in.ImageURL,
	}.Validate()
}

// Validate checks the fields that are present.
func (p Patch) Validate() []auth.FieldError {
	var errs []auth.FieldError
	if p.Title != nil {
		switch n := utf8.RuneCountInString(*p.Title); {
		case n == 0:
			errs = append(errs, auth.FieldError{Field: "title", Message: "title is required"})
		case n > TitleMaxLength:
			errs = append(errs, auth.FieldError{Field: "title", Message: "title must be at most 200 characters"})
		}
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > DescriptionMaxLength {
		errs = append(errs, auth.FieldError{Field: "description", Message: "description must be at most 5000 characters"})
	}
	if p.Price != nil && (math.IsNaN(*p.Price) || math.IsInf(*p.Price, 0) || *p.Price < 0) {
		errs = append(errs, auth.FieldError{Field: "price", Message: "price must be a non-negative number"})
	}
	if p.ImageURL != nil && utf8.RuneCountInString(*p.ImageURL) > ImageURLMaxLength {
		errs = append(errs, auth.FieldError{Field: "imageUrl", Message: "image URL must be at most 2048 characters"})
	}
	return errs
}

// Repository persists courses.
type Repository interface {
	Create(ctx context.Context, c *Course) error

	// Get returns auth.ErrNotFound when the course does not exist.
	Get(ctx context.Context, id ulid.ULID) (*Course, error)

	// ListByOwner returns the owner's courses, oldest first.
	ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*Course, error)

	// ListAll returns every course, oldest first.
	ListAll(ctx context.Context) ([]*Course, error)

	// ListByIDs returns the courses that exist among ids. Unknown ids are
	// skipped.
	ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*Course, error)

	// Update applies patch to the course only while it is still owned by
	// ownerID. Returns auth.ErrNotFound when no such row matched.
	Update(ctx context.Context, id, ownerID ulid.ULID, patch Patch, now time.Time) (*Course, error)

	// Delete removes the course while it is still owned by ownerID.
	// Returns auth.ErrNotFound when no such row matched.
	Delete(ctx context.Context, id, ownerID ulid.ULID) error
}
