// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import "errors"

// Error codes surfaced to callers of the coursehub services.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeAlreadyRegistered  = "ALREADY_REGISTERED"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInternal           = "INTERNAL_FAILURE"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by a repository when a uniqueness constraint
// rejects a write.
var ErrAlreadyExists = errors.New("already exists")
