// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/coursehub/coursehub/internal/purchase"
)

// PurchaseStore implements purchase.Repository.
type PurchaseStore struct {
	mu        sync.RWMutex
	purchases []purchase.Purchase
}

// NewPurchaseStore creates an empty store.
func NewPurchaseStore() *PurchaseStore {
	return &PurchaseStore{}
}

// Create appends p. Duplicates are kept.
func (s *PurchaseStore) Create(_ context.Context, p *purchase.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purchases = append(s.purchases, *p)
	return nil
}

// ListByLearner implements purchase.Repository.
func (s *PurchaseStore) ListByLearner(_ context.Context, learnerID ulid.ULID) ([]*purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*purchase.Purchase
	for _, p := range s.purchases {
		if p.LearnerID == learnerID {
			out = append(out, &p)
		}
	}
	return out, nil
}
