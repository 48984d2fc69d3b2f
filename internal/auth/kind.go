// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import "github.com/samber/oops"

// Kind identifies one of the two principal namespaces.
type Kind string

// Principal kinds.
const (
	KindLearner Kind = "learner"
	KindAdmin   Kind = "admin"
)

// Kinds lists every principal kind.
func Kinds() []Kind {
	return []Kind{KindLearner, KindAdmin}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindLearner || k == KindAdmin
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", oops.In("auth").
			With("kind", s).
			Errorf("unknown principal kind %q", s)
	}
	return k, nil
}
