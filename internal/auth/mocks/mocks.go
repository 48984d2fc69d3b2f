// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package mocks provides testify mocks for the auth interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/coursehub/coursehub/internal/auth"
)

// TestingT is the subset of testing.T the constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockPrincipalRepository is a mock of auth.PrincipalRepository.
type MockPrincipalRepository struct {
	mock.Mock
}

// NewMockPrincipalRepository creates a mock that asserts its expectations on cleanup.
func NewMockPrincipalRepository(t TestingT) *MockPrincipalRepository {
	m := &MockPrincipalRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create implements auth.PrincipalRepository.
func (m *MockPrincipalRepository) Create(ctx context.Context, p *auth.Principal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// GetByEmail implements auth.PrincipalRepository.
func (m *MockPrincipalRepository) GetByEmail(ctx context.Context, kind auth.Kind, email string) (*auth.Principal, error) {
	args := m.Called(ctx, kind, email)
	p, _ := args.Get(0).(*auth.Principal)
	return p, args.Error(1)
}

// GetByID implements auth.PrincipalRepository.
func (m *MockPrincipalRepository) GetByID(ctx context.Context, kind auth.Kind, id ulid.ULID) (*auth.Principal, error) {
	args := m.Called(ctx, kind, id)
	p, _ := args.Get(0).(*auth.Principal)
	return p, args.Error(1)
}

// MockPasswordHasher is a mock of auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock that asserts its expectations on cleanup.
func NewMockPasswordHasher(t TestingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Verify implements auth.PasswordHasher.
func (m *MockPasswordHasher) Verify(password, digest string) (bool, error) {
	args := m.Called(password, digest)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock of auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a mock that asserts its expectations on cleanup.
func NewMockTokenIssuer(t TestingT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Issue implements auth.TokenIssuer.
func (m *MockTokenIssuer) Issue(principalID ulid.ULID, kind auth.Kind) (string, error) {
	args := m.Called(principalID, kind)
	return args.String(0), args.Error(1)
}

// MockTokenVerifier is a mock of auth.TokenVerifier.
type MockTokenVerifier struct {
	mock.Mock
}

// NewMockTokenVerifier creates a mock that asserts its expectations on cleanup.
func NewMockTokenVerifier(t TestingT) *MockTokenVerifier {
	m := &MockTokenVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Verify implements auth.TokenVerifier.
func (m *MockTokenVerifier) Verify(token string, kind auth.Kind) (ulid.ULID, error) {
	args := m.Called(token, kind)
	id, _ := args.Get(0).(ulid.ULID)
	return id, args.Error(1)
}
