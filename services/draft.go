package services

import (
	"sync"
)

// DraftStore holds per-request delivery adjustment drafts until the delivery
// commits or the draft is discarded. Drafts are process-local state, not
// persisted; a raw draft value may be out of range and is clamped when the
// plan is built.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[int64]map[string]int
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[int64]map[string]int)}
}

func (s *DraftStore) Save(requestID int64, adjustments map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(map[string]int, len(adjustments))
	for partID, qty := range adjustments {
		copied[partID] = qty
	}
	s.drafts[requestID] = copied
}

func (s *DraftStore) Get(requestID int64) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[requestID]
}

func (s *DraftStore) Clear(requestID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, requestID)
}
