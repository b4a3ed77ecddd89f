package runledger

import "time"

type JobType string

const (
	JobTypeSyncLive JobType = "sync-live"
)

// Entry is one reconciliation attempt. Entries are insert-only; nothing in
// this service updates or deletes them.
type Entry struct {
	JobType        JobType
	Success        bool
	MatchesUpdated int
	ErrorText      string
	Params         Params
	CreatedAt      time.Time
}

// Params is the structured detail column for an entry.
type Params struct {
	ProviderCallSkipped bool   `json:"provider_call_skipped"`
	SkipReason          string `json:"skip_reason,omitempty"`
	APIFixturesReturned *int   `json:"api_fixtures_returned,omitempty"`
	LiveTracked         int    `json:"live_tracked"`
	KickingOffSoon      int    `json:"kicking_off_soon"`
	FixtureErrors       int    `json:"fixture_errors,omitempty"`
}
