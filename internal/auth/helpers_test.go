// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub/internal/auth"
)

// fastHasher keeps argon2 memory small so tests can hash concurrently.
func fastHasher(t *testing.T) *auth.Argon2idHasher {
	t.Helper()
	h, err := auth.NewArgon2idHasherWithParams(auth.Argon2Params{
		Time:    1,
		Memory:  64,
		Threads: 1,
		SaltLen: 16,
		KeyLen:  32,
	})
	require.NoError(t, err)
	return h
}

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("learner-secret", "admin-secret")
	require.NoError(t, err)
	return tokens
}
