// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/course"
)

type courseDoc struct {
	ID          any       `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	ImageURL    string    `bson:"imageUrl"`
	CreatorID   any       `bson:"creatorId"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toCourseDoc(c *course.Course) courseDoc {
	return courseDoc{
		ID:          idValue(c.ID),
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		CreatorID:   idValue(c.OwnerID),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d courseDoc) course() (*course.Course, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, oops.In("mongodb").With("operation", "parse course id").Wrap(err)
	}
	owner, err := parseID(d.CreatorID)
	if err != nil {
		return nil, oops.In("mongodb").With("operation", "parse creator id").Wrap(err)
	}
	return &course.Course{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		OwnerID:     owner,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

// patchSet builds the $set document for a patch.
func patchSet(p course.Patch, now time.Time) bson.D {
	set := bson.D{}
	if p.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *p.Title})
	}
	if p.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *p.Description})
	}
	if p.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *p.Price})
	}
	if p.ImageURL != nil {
		set = append(set, bson.E{Key: "imageUrl", Value: *p.ImageURL})
	}
	return append(set, bson.E{Key: "updatedAt", Value: now})
}

func ownedBy(id, ownerID ulid.ULID) bson.D {
	return bson.D{
		{Key: "_id", Value: idValue(id)},
		{Key: "creatorId", Value: idValue(ownerID)},
	}
}

// CourseStore implements course.Repository.
type CourseStore struct {
	coll *mongo.Collection
}

// Create implements course.Repository.
func (s *CourseStore) Create(ctx context.Context, c *course.Course) error {
	if _, err := s.coll.InsertOne(ctx, toCourseDoc(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return oops.In("mongodb").With("course_id", c.ID.String()).Wrap(auth.ErrAlreadyExists)
		}
		return oops.In("mongodb").
			With("operation", "insert course").
			With("course_id", c.ID.String()).
			Wrap(err)
	}
	return nil
}

// Get implements course.Repository.
func (s *CourseStore) Get(ctx context.Context, id ulid.ULID) (*course.Course, error) {
	var doc courseDoc
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: idValue(id)}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, oops.In("mongodb").With("course_id", id.String()).Wrap(auth.ErrNotFound)
		}
		return nil, oops.In("mongodb").
			With("operation", "find course").
			With("course_id", id.String()).
			Wrap(err)
	}
	return doc.course()
}

// ListByOwner implements course.Repository.
func (s *CourseStore) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*course.Course, error) {
	return s.find(ctx, "list courses by owner", bson.D{{Key: "creatorId", Value: idValue(ownerID)}})
}

// ListAll implements course.Repository.
func (s *CourseStore) ListAll(ctx context.Context) ([]*course.Course, error) {
	return s.find(ctx, "list courses", bson.D{})
}

// ListByIDs implements course.Repository.
func (s *CourseStore) ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*course.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, "list courses by id", bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idValues(ids)}}}})
}

// Update implements course.Repository. The owner is part of the filter, so
// a concurrent delete leaves nothing to match.
func (s *CourseStore) Update(ctx context.Context, id, ownerID ulid.ULID, patch course.Patch, now time.Time) (*course.Course, error) {
	var doc courseDoc
	err := s.coll.FindOneAndUpdate(ctx,
		ownedBy(id, ownerID),
		bson.D{{Key: "$set", Value: patchSet(patch, now)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, oops.In("mongodb").With("course_id", id.String()).Wrap(auth.ErrNotFound)
		}
		return nil, oops.In("mongodb").
			With("operation", "update course").
			With("course_id", id.String()).
			Wrap(err)
	}
	return doc.course()
}

// Delete implements course.Repository.
func (s *CourseStore) Delete(ctx context.Context, id, ownerID ulid.ULID) error {
	res, err := s.coll.DeleteOne(ctx, ownedBy(id, ownerID))
	if err != nil {
		return oops.In("mongodb").
			With("operation", "delete course").
			With("course_id", id.String()).
			Wrap(err)
	}
	if res.DeletedCount == 0 {
		return oops.In("mongodb").With("course_id", id.String()).Wrap(auth.ErrNotFound)
	}
	return nil
}

func (s *CourseStore) find(ctx context.Context, operation string, filter bson.D) ([]*course.Course, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, oops.In("mongodb").With("operation", operation).Wrap(err)
	}
	var docs []courseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, oops.In("mongodb").With("operation", operation).Wrap(err)
	}

	out := make([]*course.Course, 0, len(docs))
	for _, d := range docs {
		c, err := d.course()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
