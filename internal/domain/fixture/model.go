package fixture

import "time"

// Fixture is one football match. Scheduling fields are written by the bulk
// importer; live-state fields (phase, timing, scores) are owned by the live
// reconciler after creation.
type Fixture struct {
	ID               int64
	ExternalID       int64
	Provider         string
	LeagueExternalID int64
	HomeTeam         string
	AwayTeam         string
	KickoffAt        time.Time
	Phase            Phase
	PhaseStartedAt   *time.Time
	BaseMinute       *int
	HomeScore        int
	AwayScore        int
	LastLiveUpdateAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LiveState is the full live-state snapshot written per fixture. Writes are
// keyed by external id and replace every live-state field at once, so
// overlapping sync runs cannot leave a fixture half-updated.
type LiveState struct {
	ExternalID       int64
	Phase            Phase
	PhaseStartedAt   *time.Time
	BaseMinute       *int
	HomeScore        int
	AwayScore        int
	LastLiveUpdateAt *time.Time
}
