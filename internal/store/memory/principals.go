// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
)

// PrincipalStore implements auth.PrincipalRepository.
type PrincipalStore struct {
	mu      sync.RWMutex
	byID    map[auth.Kind]map[ulid.ULID]auth.Principal
	byEmail map[auth.Kind]map[string]ulid.ULID
}

// NewPrincipalStore creates an empty store.
func NewPrincipalStore() *PrincipalStore {
	s := &PrincipalStore{
		byID:    make(map[auth.Kind]map[ulid.ULID]auth.Principal),
		byEmail: make(map[auth.Kind]map[string]ulid.ULID),
	}
	for _, k := range auth.Kinds() {
		s.byID[k] = make(map[ulid.ULID]auth.Principal)
		s.byEmail[k] = make(map[string]ulid.ULID)
	}
	return s
}

// Create stores p. The email check and insert happen under one lock.
func (s *PrincipalStore) Create(_ context.Context, p *auth.Principal) error {
	if !p.Kind.Valid() {
		return oops.In("memory").With("kind", string(p.Kind)).Errorf("unknown principal kind")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[p.Kind][p.Email]; taken {
		return oops.In("memory").With("kind", string(p.Kind)).Wrap(auth.ErrAlreadyExists)
	}
	s.byID[p.Kind][p.ID] = *p
	s.byEmail[p.Kind][p.Email] = p.ID
	return nil
}

// GetByEmail implements auth.PrincipalRepository.
func (s *PrincipalStore) GetByEmail(_ context.Context, kind auth.Kind, email string) (*auth.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[kind][email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	p := s.byID[kind][id]
	return &p, nil
}

// GetByID implements auth.PrincipalRepository.
func (s *PrincipalStore) GetByID(_ context.Context, kind auth.Kind, id ulid.ULID) (*auth.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[kind][id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &p, nil
}
