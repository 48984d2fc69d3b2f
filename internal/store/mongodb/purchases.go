// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package mongodb

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/coursehub/coursehub/internal/purchase"
)

type purchaseDoc struct {
	ID        any       `bson:"_id"`
	UserID    any       `bson:"userId"`
	CourseID  any       `bson:"courseId"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toPurchaseDoc(p *purchase.Purchase) purchaseDoc {
	return purchaseDoc{
		ID:        idValue(p.ID),
		UserID:    idValue(p.LearnerID),
		CourseID:  idValue(p.CourseID),
		CreatedAt: p.CreatedAt,
	}
}

func (d purchaseDoc) purchase() (*purchase.Purchase, error) {
	var (
		p   = purchase.Purchase{CreatedAt: d.CreatedAt.UTC()}
		err error
	)
	if p.ID, err = parseID(d.ID); err != nil {
		return nil, oops.In("mongodb").With("field", "_id").Wrap(err)
	}
	if p.LearnerID, err = parseID(d.UserID); err != nil {
		return nil, oops.In("mongodb").With("field", "userId").Wrap(err)
	}
	if p.CourseID, err = parseID(d.CourseID); err != nil {
		return nil, oops.In("mongodb").With("field", "courseId").Wrap(err)
	}
	return &p, nil
}

// PurchaseStore implements purchase.Repository.
type PurchaseStore struct {
	coll *mongo.Collection
}

// Create implements purchase.Repository.
func (s *PurchaseStore) Create(ctx context.Context, p *purchase.Purchase) error {
	if _, err := s.coll.InsertOne(ctx, toPurchaseDoc(p)); err != nil {
		return oops.In("mongodb").
			With("operation", "insert purchase").
			With("learner_id", p.LearnerID.String()).
			Wrap(err)
	}
	return nil
}

// ListByLearner implements purchase.Repository.
func (s *PurchaseStore) ListByLearner(ctx context.Context, learnerID ulid.ULID) ([]*purchase.Purchase, error) {
	sort := bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	cur, err := s.coll.Find(ctx, bson.D{{Key: "userId", Value: idValue(learnerID)}}, options.Find().SetSort(sort))
	if err != nil {
		return nil, oops.In("mongodb").With("operation", "list purchases").Wrap(err)
	}
	var docs []purchaseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, oops.In("mongodb").With("operation", "list purchases").Wrap(err)
	}

	out := make([]*purchase.Purchase, 0, len(docs))
	for _, d := range docs {
		p, err := d.purchase()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
