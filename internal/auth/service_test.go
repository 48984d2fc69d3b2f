// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/auth/mocks"
	"github.com/coursehub/coursehub/internal/store/memory"
	"github.com/coursehub/coursehub/pkg/errutil"
)

var validSignup = auth.SignupInput{
	Email:     "a@x.com",
	Password:  "Abc12345!",
	FirstName: "Ada",
	LastName:  "Lovelace",
}

func TestNewCredentialService_NilDependencies(t *testing.T) {
	tests := []struct {
		name        string
		kind        auth.Kind
		repo        auth.PrincipalRepository
		hasher      auth.PasswordHasher
		tokens      auth.TokenIssuer
		expectError string
	}{
		{
			name:        "invalid kind",
			kind:        auth.Kind("guest"),
			repo:        mocks.NewMockPrincipalRepository(t),
			hasher:      mocks.NewMockPasswordHasher(t),
			tokens:      mocks.NewMockTokenIssuer(t),
			expectError: "invalid principal kind",
		},
		{
			name:        "nil repository",
			kind:        auth.KindLearner,
			hasher:      mocks.NewMockPasswordHasher(t),
			tokens:      mocks.NewMockTokenIssuer(t),
			expectError: "principal repository is required",
		},
		{
			name:        "nil hasher",
			kind:        auth.KindLearner,
			repo:        mocks.NewMockPrincipalRepository(t),
			tokens:      mocks.NewMockTokenIssuer(t),
			expectError: "password hasher is required",
		},
		{
			name:        "nil token issuer",
			kind:        auth.KindLearner,
			repo:        mocks.NewMockPrincipalRepository(t),
			hasher:      mocks.NewMockPasswordHasher(t),
			expectError: "token issuer is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewCredentialService(tt.kind, tt.repo, tt.hasher, tt.tokens, nil)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestCredentialService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("persists hashed principal", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)

		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "Abc12345!").Return("$argon2id$digest", nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p *auth.Principal) bool {
			return p.Kind == auth.KindLearner &&
				p.Email == "a@x.com" &&
				p.PasswordHash == "$argon2id$digest" &&
				p.FirstName == "Ada" &&
				p.LastName == "Lovelace"
		})).Return(nil)

		svc, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, tokens, nil)
		require.NoError(t, err)

		p, err := svc.Signup(ctx, validSignup)
		require.NoError(t, err)
		assert.False(t, p.ID.IsZero())
		tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("weak password never reaches the store", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		in := validSignup
		in.Password = "abc"
		_, err = svc.Signup(ctx, in)
		errutil.AssertErrorCode(t, err, auth.CodeValidationFailed)

		fields := auth.FieldsFromError(err)
		require.Len(t, fields, 1)
		assert.Equal(t, "password", fields[0].Field)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("existing email is already registered", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		existing := &auth.Principal{ID: ulid.Make(), Kind: auth.KindAdmin, Email: "a@x.com"}
		repo.On("GetByEmail", ctx, auth.KindAdmin, "a@x.com").Return(existing, nil)

		svc, err := auth.NewCredentialService(auth.KindAdmin, repo, mocks.NewMockPasswordHasher(t), mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		_, err = svc.Signup(ctx, validSignup)
		errutil.AssertErrorCode(t, err, auth.CodeAlreadyRegistered)
		assert.NotContains(t, err.Error(), "admin")
	})

	t.Run("lost uniqueness race is already registered", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "Abc12345!").Return("$argon2id$digest", nil)
		repo.On("Create", ctx, mock.Anything).Return(auth.ErrAlreadyExists)

		svc, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		_, err = svc.Signup(ctx, validSignup)
		errutil.AssertErrorCode(t, err, auth.CodeAlreadyRegistered)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(nil, errors.New("connection refused"))

		svc, err := auth.NewCredentialService(auth.KindLearner, repo, mocks.NewMockPasswordHasher(t), mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		_, err = svc.Signup(ctx, validSignup)
		errutil.AssertErrorCode(t, err, auth.CodeInternal)
		errutil.AssertErrorContext(t, err, "step", "lookup principal")
	})

	t.Run("hash failure is internal", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "Abc12345!").Return("", errors.New("entropy exhausted"))

		svc, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		_, err = svc.Signup(ctx, validSignup)
		errutil.AssertErrorCode(t, err, auth.CodeInternal)
		errutil.AssertErrorContext(t, err, "step", "hash password")
	})
}

func TestCredentialService_Signin(t *testing.T) {
	ctx := context.Background()
	creds := auth.SigninInput{Email: "a@x.com", Password: "Abc12345!"}
	principal := &auth.Principal{ID: ulid.Make(), Kind: auth.KindLearner, Email: "a@x.com", PasswordHash: "$argon2id$digest"}

	t.Run("issues token on match", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(principal, nil)
		hasher.On("Verify", "Abc12345!", "$argon2id$digest").Return(true, nil)
		tokens.On("Issue", principal.ID, auth.KindLearner).Return("signed-token", nil)

		svc, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, tokens, nil)
		require.NoError(t, err)

		token, err := svc.Signin(ctx, creds)
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("invalid input is rejected before lookup", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		svc, err := auth.NewCredentialService(auth.KindLearner, repo, mocks.NewMockPasswordHasher(t), mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		_, err = svc.Signin(ctx, auth.SigninInput{Email: "bad", Password: "Abc12345!"})
		errutil.AssertErrorCode(t, err, auth.CodeValidationFailed)
		repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(nil, auth.ErrNotFound)
		svc, err := auth.NewCredentialService(auth.KindLearner, repo, mocks.NewMockPasswordHasher(t), mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		_, err = svc.Signin(ctx, creds)
		errutil.AssertErrorCode(t, err, auth.CodeNotFound)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(principal, nil)
		hasher.On("Verify", "Abc12345!", "$argon2id$digest").Return(false, nil)

		svc, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, tokens, nil)
		require.NoError(t, err)

		_, err = svc.Signin(ctx, creds)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
		tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("malformed stored digest is internal", func(t *testing.T) {
		repo := mocks.NewMockPrincipalRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		repo.On("GetByEmail", ctx, auth.KindLearner, "a@x.com").Return(principal, nil)
		hasher.On("Verify", "Abc12345!", "$argon2id$digest").Return(false, errors.New("invalid digest format"))

		svc, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, mocks.NewMockTokenIssuer(t), nil)
		require.NoError(t, err)

		_, err = svc.Signin(ctx, creds)
		errutil.AssertErrorCode(t, err, auth.CodeInternal)
		errutil.AssertErrorContext(t, err, "step", "verify password")
	})
}

// End to end over the in-memory store with real hashing and tokens.
func TestCredentialService_SignupSigninResolve(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPrincipalStore()
	tokens := testTokens(t)
	hasher := fastHasher(t)

	learners, err := auth.NewCredentialService(auth.KindLearner, repo, hasher, tokens, nil)
	require.NoError(t, err)
	admins, err := auth.NewCredentialService(auth.KindAdmin, repo, hasher, tokens, nil)
	require.NoError(t, err)
	resolver, err := auth.NewResolver(tokens)
	require.NoError(t, err)

	p, err := learners.Signup(ctx, validSignup)
	require.NoError(t, err)

	token, err := learners.Signin(ctx, auth.SigninInput{Email: "a@x.com", Password: "Abc12345!"})
	require.NoError(t, err)

	resolved, err := resolver.Resolve(ctx, token, auth.KindLearner)
	require.NoError(t, err)
	assert.Equal(t, p.ID, resolved.ID)

	_, err = resolver.Resolve(ctx, token, auth.KindAdmin)
	errutil.AssertErrorCode(t, err, auth.CodeUnauthorized)

	t.Run("kinds have independent email spaces", func(t *testing.T) {
		_, err := admins.Signin(ctx, auth.SigninInput{Email: "a@x.com", Password: "Abc12345!"})
		errutil.AssertErrorCode(t, err, auth.CodeNotFound)

		_, err = admins.Signup(ctx, validSignup)
		require.NoError(t, err)
	})

	t.Run("second signup for same kind is rejected", func(t *testing.T) {
		_, err := learners.Signup(ctx, validSignup)
		errutil.AssertErrorCode(t, err, auth.CodeAlreadyRegistered)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := learners.Signin(ctx, auth.SigninInput{Email: "a@x.com", Password: "Abc12345?"})
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
	})
}

func TestCredentialService_ConcurrentDuplicateSignup(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPrincipalStore()
	svc, err := auth.NewCredentialService(auth.KindLearner, repo, fastHasher(t), testTokens(t), nil)
	require.NoError(t, err)

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Signup(ctx, validSignup)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errutil.Code(err) == auth.CodeAlreadyRegistered:
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}
