package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
)

// FixtureRepository is the in-memory tier used in dev and tests. It mirrors
// the postgres repository's semantics, including the monotonic score clamp
// on live-state writes.
type FixtureRepository struct {
	mu         sync.RWMutex
	byExternal map[int64]fixture.Fixture
	nextID     int64
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	byExternal := make(map[int64]fixture.Fixture, len(fixtures))
	var nextID int64 = 1
	for _, item := range fixtures {
		if item.ID == 0 {
			item.ID = nextID
		}
		if item.ID >= nextID {
			nextID = item.ID + 1
		}
		byExternal[item.ExternalID] = item
	}

	return &FixtureRepository{byExternal: byExternal, nextID: nextID}
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID int64) (*fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byExternal[externalID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *FixtureRepository) ListTrackedLive(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.byExternal {
		if item.Phase.IsTrackedLive() {
			out = append(out, item)
		}
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) ListKickingOffSoon(_ context.Context, from, until time.Time) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.byExternal {
		if item.Phase != fixture.PhaseScheduled {
			continue
		}
		if item.KickoffAt.Before(from) || item.KickoffAt.After(until) {
			continue
		}
		out = append(out, item)
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) UpsertLiveState(_ context.Context, state fixture.LiveState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	item, ok := r.byExternal[state.ExternalID]
	if !ok {
		item = fixture.Fixture{
			ID:         r.nextID,
			ExternalID: state.ExternalID,
			CreatedAt:  now,
		}
		r.nextID++
	}

	item.Phase = state.Phase
	item.PhaseStartedAt = state.PhaseStartedAt
	item.BaseMinute = state.BaseMinute
	if state.HomeScore > item.HomeScore {
		item.HomeScore = state.HomeScore
	}
	if state.AwayScore > item.AwayScore {
		item.AwayScore = state.AwayScore
	}
	item.LastLiveUpdateAt = state.LastLiveUpdateAt
	item.UpdatedAt = now

	r.byExternal[state.ExternalID] = item
	return nil
}

func sortFixtures(items []fixture.Fixture) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].ExternalID < items[j].ExternalID
		}
		return items[i].KickoffAt.Before(items[j].KickoffAt)
	})
}
