// Package session holds the process-wide inventory slots. There are exactly
// two, one per source tag; each upload replaces its slot wholesale and the
// store starts empty on every process run.
package session

import (
	"sync"

	"stationrecon/pkg/contracts/domain"
)

// Store is the two-slot session state shared by the upload, compare and
// report paths. Writes are last-write-wins; reads of both slots happen under
// one lock so a compare never observes a half-replaced pair.
type Store struct {
	mu    sync.RWMutex
	slots map[domain.Source]*domain.Inventory
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{slots: make(map[domain.Source]*domain.Inventory, 2)}
}

// Put replaces the slot for the inventory's source atomically.
func (s *Store) Put(inv *domain.Inventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[inv.Source] = inv
}

// Get returns the inventory stored for one source, or nil when the slot is
// empty.
func (s *Store) Get(source domain.Source) *domain.Inventory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[source]
}

// Snapshot returns both slots as seen at a single instant. Either value may
// be nil.
func (s *Store) Snapshot() (assetInventory, hydex *domain.Inventory) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[domain.SourceAssetInventory], s.slots[domain.SourceHydex]
}

// Complete reports whether both slots are populated.
func (s *Store) Complete() bool {
	a, h := s.Snapshot()
	return a != nil && h != nil
}

// Reset clears both slots.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[domain.Source]*domain.Inventory, 2)
}
