// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package store holds the shared Postgres plumbing: pool construction,
// embedded schema migrations, and the Querier interface the repositories
// are written against. Backend-specific stores live in the mongo and memory
// subpackages and in the postgres subpackages of each domain package.
package store
