// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(principalID ulid.ULID, kind Kind) (string, error)
}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(token string, kind Kind) (ulid.ULID, error)
}

// tokenClaims is the signed payload. Tokens carry no expiry.
type tokenClaims struct {
	PrincipalID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with one secret per kind.
type TokenService struct {
	secrets map[Kind][]byte
	now     func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for the iat claim.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service. Both secrets must be non-empty
// and distinct so that a token of one kind can never verify as the other.
func NewTokenService(learnerSecret, adminSecret string, opts ...TokenOption) (*TokenService, error) {
	if learnerSecret == "" {
		return nil, oops.In("token").Errorf("learner token secret is required")
	}
	if adminSecret == "" {
		return nil, oops.In("token").Errorf("admin token secret is required")
	}
	if learnerSecret == adminSecret {
		return nil, oops.In("token").Errorf("learner and admin token secrets must differ")
	}

	s := &TokenService{
		secrets: map[Kind][]byte{
			KindLearner: []byte(learnerSecret),
			KindAdmin:   []byte(adminSecret),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the principal with the secret of kind.
func (s *TokenService) Issue(principalID ulid.ULID, kind Kind) (string, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return "", oops.In("token").With("kind", string(kind)).Errorf("unknown principal kind")
	}

	claims := tokenClaims{
		PrincipalID: principalID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", oops.In("token").With("operation", "sign").Wrap(err)
	}
	return signed, nil
}

// Verify checks the token against the secret of kind only and returns the
// principal id it names. Every failure is returned as an error.
func (s *TokenService) Verify(token string, kind Kind) (ulid.ULID, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return ulid.ULID{}, oops.In("token").With("kind", string(kind)).Errorf("unknown principal kind")
	}
	if token == "" {
		return ulid.ULID{}, oops.In("token").Errorf("token is empty")
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ulid.ULID{}, oops.In("token").With("operation", "parse").Wrap(err)
	}

	id, err := ulid.Parse(claims.PrincipalID)
	if err != nil {
		return ulid.ULID{}, oops.In("token").With("operation", "decode id").Wrap(err)
	}
	return id, nil
}
