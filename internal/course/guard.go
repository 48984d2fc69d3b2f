// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package course

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
)

// AuthorizeMutation allows a change to c only when principalID owns it.
// Identifiers are compared in their canonical string form.
func AuthorizeMutation(principalID ulid.ULID, c *Course) error {
	if c == nil {
		return oops.Code(auth.CodeNotFound).Errorf("course not found")
	}
	if principalID.String() != c.OwnerID.String() {
		return oops.Code(auth.CodeForbidden).
			With("course_id", c.ID.String()).
			Errorf("course is owned by another account")
	}
	return nil
}
