package fixture

import (
	"context"
	"time"
)

// Repository exposes fixture reads and the reconciler's live-state write.
// GetByExternalID returns (nil, nil) when no fixture matches. Tracked-live
// queries must exclude scheduled and finished fixtures so a finished match
// can never re-enter the sync loop.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (*Fixture, error)
	ListTrackedLive(ctx context.Context) ([]Fixture, error)
	ListKickingOffSoon(ctx context.Context, from, until time.Time) ([]Fixture, error)
	UpsertLiveState(ctx context.Context, state LiveState) error
}
