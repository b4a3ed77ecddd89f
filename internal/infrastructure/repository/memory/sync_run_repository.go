package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/runledger"
)

type SyncRunRepository struct {
	mu      sync.Mutex
	entries []runledger.Entry
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{}
}

func (r *SyncRunRepository) Insert(_ context.Context, entry runledger.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns a copy of the recorded runs, oldest first.
func (r *SyncRunRepository) Entries() []runledger.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]runledger.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
