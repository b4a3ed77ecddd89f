package usecase

import (
	"context"
	"time"
)

// LiveScoreboardFixture is one in-progress match as reported by the data
// provider, already flattened out of the provider's envelope.
type LiveScoreboardFixture struct {
	ExternalID       int64
	LeagueExternalID int64
	StatusShort      string
	ElapsedMinute    *int
	KickoffAt        time.Time
	HomeGoals        *int
	AwayGoals        *int
}

// LiveScoreboardClient fetches the provider's live scoreboard in one call.
type LiveScoreboardClient interface {
	FetchLiveFixtures(ctx context.Context) ([]LiveScoreboardFixture, error)
}
