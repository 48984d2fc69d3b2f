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

	"github.com/coursehub/coursehub/internal/auth"
)

type principalDoc struct {
	ID        any       `bson:"_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toPrincipalDoc(p *auth.Principal) principalDoc {
	return principalDoc{
		ID:        idValue(p.ID),
		Email:     p.Email,
		Password:  p.PasswordHash,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		CreatedAt: p.CreatedAt,
	}
}

func (d principalDoc) principal(kind auth.Kind) (*auth.Principal, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, oops.In("mongodb").With("operation", "parse principal id").Wrap(err)
	}
	return &auth.Principal{
		ID:           id,
		Kind:         kind,
		Email:        d.Email,
		PasswordHash: d.Password,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

// PrincipalStore implements auth.PrincipalRepository. Uniqueness of email
// is enforced by the unique index EnsureIndexes creates on each collection.
type PrincipalStore struct {
	learners *mongo.Collection
	admins   *mongo.Collection
}

func (s *PrincipalStore) collection(kind auth.Kind) (*mongo.Collection, error) {
	switch kind {
	case auth.KindLearner:
		return s.learners, nil
	case auth.KindAdmin:
		return s.admins, nil
	default:
		return nil, oops.In("mongodb").With("kind", string(kind)).Errorf("unknown principal kind")
	}
}

// Create implements auth.PrincipalRepository.
func (s *PrincipalStore) Create(ctx context.Context, p *auth.Principal) error {
	coll, err := s.collection(p.Kind)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, toPrincipalDoc(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return oops.In("mongodb").With("kind", string(p.Kind)).Wrap(auth.ErrAlreadyExists)
		}
		return oops.In("mongodb").
			With("operation", "insert principal").
			With("kind", string(p.Kind)).
			Wrap(err)
	}
	return nil
}

// GetByEmail implements auth.PrincipalRepository.
func (s *PrincipalStore) GetByEmail(ctx context.Context, kind auth.Kind, email string) (*auth.Principal, error) {
	return s.findOne(ctx, kind, bson.D{{Key: "email", Value: email}})
}

// GetByID implements auth.PrincipalRepository.
func (s *PrincipalStore) GetByID(ctx context.Context, kind auth.Kind, id ulid.ULID) (*auth.Principal, error) {
	return s.findOne(ctx, kind, bson.D{{Key: "_id", Value: idValue(id)}})
}

func (s *PrincipalStore) findOne(ctx context.Context, kind auth.Kind, filter bson.D) (*auth.Principal, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	var doc principalDoc
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, oops.In("mongodb").With("kind", string(kind)).Wrap(auth.ErrNotFound)
		}
		return nil, oops.In("mongodb").
			With("operation", "find principal").
			With("kind", string(kind)).
			Wrap(err)
	}
	return doc.principal(kind)
}
