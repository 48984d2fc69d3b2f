// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package postgres implements course.Repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
	"github.com/coursehub/coursehub/internal/store"
)

const courseColumns = `id, title, description, price, image_url, owner_id, created_at, updated_at`

// CourseRepository implements course.Repository using PostgreSQL.
type CourseRepository struct {
	db store.Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db store.Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO courses (id, title, description, price, image_url, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		c.ID.String(),
		c.Title,
		c.Description,
		c.Price,
		c.ImageURL,
		c.OwnerID.String(),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return oops.In("course_repo").With("course_id", c.ID.String()).Wrap(auth.ErrAlreadyExists)
		}
		return oops.In("course_repo").
			With("operation", "insert course").
			With("course_id", c.ID.String()).
			Wrap(err)
	}
	return nil
}

// Get retrieves a course by id.
func (r *CourseRepository) Get(ctx context.Context, id ulid.ULID) (*course.Course, error) {
	row := r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id.String())
	c, err := scanCourse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.In("course_repo").With("course_id", id.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.In("course_repo").
			With("operation", "get course").
			With("course_id", id.String()).
			Wrap(err)
	}
	return c, nil
}

// ListByOwner returns the owner's courses, oldest first.
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*course.Course, error) {
	return r.list(ctx, "list courses by owner",
		`SELECT `+courseColumns+` FROM courses WHERE owner_id = $1 ORDER BY id`, ownerID.String())
}

// ListAll returns every course, oldest first.
func (r *CourseRepository) ListAll(ctx context.Context) ([]*course.Course, error) {
	return r.list(ctx, "list courses", `SELECT `+courseColumns+` FROM courses ORDER BY id`)
}

// ListByIDs returns the courses among ids that exist.
func (r *CourseRepository) ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*course.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	return r.list(ctx, "list courses by id",
		`SELECT `+courseColumns+` FROM courses WHERE id = ANY($1) ORDER BY id`, strIDs)
}

// Update applies patch while the course is still owned by ownerID. The
// owner condition is part of the WHERE clause, so a concurrent delete or a
// foreign owner leaves zero rows and yields auth.ErrNotFound.
func (r *CourseRepository) Update(ctx context.Context, id, ownerID ulid.ULID, patch course.Patch, now time.Time) (*course.Course, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE courses SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			price       = COALESCE($5, price),
			image_url   = COALESCE($6, image_url),
			updated_at  = $7
		WHERE id = $1 AND owner_id = $2
		RETURNING `+courseColumns,
		id.String(),
		ownerID.String(),
		patch.Title,
		patch.Description,
		patch.Price,
		patch.ImageURL,
		now,
	)
	c, err := scanCourse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.In("course_repo").With("course_id", id.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.In("course_repo").
			With("operation", "update course").
			With("course_id", id.String()).
			Wrap(err)
	}
	return c, nil
}

// Delete removes the course while it is still owned by ownerID.
func (r *CourseRepository) Delete(ctx context.Context, id, ownerID ulid.ULID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1 AND owner_id = $2`, id.String(), ownerID.String())
	if err != nil {
		return oops.In("course_repo").
			With("operation", "delete course").
			With("course_id", id.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.In("course_repo").With("course_id", id.String()).Wrap(auth.ErrNotFound)
	}
	return nil
}

func (r *CourseRepository) list(ctx context.Context, operation, query string, args ...any) ([]*course.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.In("course_repo").With("operation", operation).Wrap(err)
	}
	defer rows.Close()

	var out []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, oops.In("course_repo").With("operation", operation).Wrap(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("course_repo").With("operation", operation).Wrap(err)
	}
	return out, nil
}

func scanCourse(row pgx.Row) (*course.Course, error) {
	var (
		c              course.Course
		idStr, ownerID string
	)
	if err := row.Scan(&idStr, &c.Title, &c.Description, &c.Price, &c.ImageURL, &ownerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with query context
	}
	var err error
	if c.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.With("operation", "parse course id").With("id", idStr).Wrap(err)
	}
	if c.OwnerID, err = ulid.Parse(ownerID); err != nil {
		return nil, oops.With("operation", "parse owner id").With("id", ownerID).Wrap(err)
	}
	return &c, nil
}
