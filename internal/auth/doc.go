// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package auth provides credential issuance and principal resolution for
// coursehub.
//
// # Principals
//
// There are two independent principal kinds, KindLearner and KindAdmin. Each
// kind has its own credential space (the same email may be registered once as
// a learner and once as an admin) and its own token signing secret. A token
// issued for one kind never verifies as the other.
//
// Principals are created with NewPrincipal after the signup input has passed
// ValidateSignup. Direct struct initialization bypasses validation.
//
// # Services
//
//   - CredentialService - signup and signin for one principal kind
//   - TokenService - HS256 bearer token issue and verify, one secret per kind
//   - Resolver - turns a bearer token into a ResolvedPrincipal or UNAUTHORIZED
//
// # Errors
//
// Services return oops errors whose code is one of the Code* constants.
// Repositories and helpers below the services return uncoded errors, or the
// ErrNotFound and ErrAlreadyExists sentinels, so the service code is the one
// callers see.
package auth
