// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package mongodb stores principals, courses and purchases in MongoDB using
// the collection and field names of the legacy coursehub database:
// learners in "users", admins in "admins", then "courses" and "purchases".
// Document ids are ULID strings.
package mongodb

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names.
const (
	LearnersCollection  = "users"
	AdminsCollection    = "admins"
	CoursesCollection   = "courses"
	PurchasesCollection = "purchases"
)

// Options tunes the connection.
type Options struct {
	Database       string
	ConnectRetries uint64
	RetryBase      time.Duration
}

// Client owns the driver client and hands out the per-entity stores.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the primary, retrying with exponential
// backoff while the server comes up.
func Connect(ctx context.Context, uri string, opts Options) (*Client, error) {
	if opts.Database == "" {
		return nil, oops.In("mongodb").Errorf("database name is required")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, oops.In("mongodb").With("operation", "connect").Wrap(err)
	}

	base := opts.RetryBase
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	attempt := 0
	err = retry.Do(ctx, retry.WithMaxRetries(opts.ConnectRetries, retry.NewExponential(base)), func(ctx context.Context) error {
		attempt++
		if pingErr := client.Ping(ctx, readpref.Primary()); pingErr != nil {
			slog.WarnContext(ctx, "mongodb not ready", "attempt", attempt, "error", pingErr)
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // ping error takes precedence
		return nil, oops.In("mongodb").
			With("operation", "ping").
			With("attempts", attempt).
			Wrap(err)
	}

	return &Client{client: client, db: client.Database(opts.Database)}, nil
}

// EnsureIndexes creates the unique email indexes and the lookup indexes.
// It is idempotent.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		LearnersCollection: {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		AdminsCollection:   {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		CoursesCollection:  {{Keys: bson.D{{Key: "creatorId", Value: 1}}}},
		PurchasesCollection: {{Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: 1},
		}}},
	}
	for name, models := range indexes {
		if _, err := c.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return oops.In("mongodb").
				With("operation", "create indexes").
				With("collection", name).
				Wrap(err)
		}
	}
	return nil
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return oops.In("mongodb").With("operation", "ping").Wrap(err)
	}
	return nil
}

// Close disconnects the driver client.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return oops.In("mongodb").With("operation", "disconnect").Wrap(err)
	}
	return nil
}

// Principals returns the principal store.
func (c *Client) Principals() *PrincipalStore {
	return &PrincipalStore{
		learners: c.db.Collection(LearnersCollection),
		admins:   c.db.Collection(AdminsCollection),
	}
}

// Courses returns the course store.
func (c *Client) Courses() *CourseStore {
	return &CourseStore{coll: c.db.Collection(CoursesCollection)}
}

// Purchases returns the purchase store.
func (c *Client) Purchases() *PurchaseStore {
	return &PurchaseStore{coll: c.db.Collection(PurchasesCollection)}
}
