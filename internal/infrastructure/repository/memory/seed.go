package memory

import (
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
)

const (
	LeagueExternalIDPremierLeague int64 = 39
	LeagueExternalIDLaLiga        int64 = 140
)

// SeedFixtures returns a small schedule for local development: one match
// already live, one at half time and two still to kick off.
func SeedFixtures(now time.Time) []fixture.Fixture {
	now = now.UTC()

	liveStarted := now.Add(-20 * time.Minute)
	liveBase := 0
	htStarted := now.Add(-3 * time.Minute)
	htBase := 45

	return []fixture.Fixture{
		{
			ExternalID:       900101,
			Provider:         "api-football",
			LeagueExternalID: LeagueExternalIDPremierLeague,
			HomeTeam:         "Arsenal",
			AwayTeam:         "Liverpool",
			KickoffAt:        now.Add(-22 * time.Minute),
			Phase:            fixture.PhaseLive,
			PhaseStartedAt:   &liveStarted,
			BaseMinute:       &liveBase,
			HomeScore:        1,
		},
		{
			ExternalID:       900102,
			Provider:         "api-football",
			LeagueExternalID: LeagueExternalIDLaLiga,
			HomeTeam:         "Girona",
			AwayTeam:         "Sevilla",
			KickoffAt:        now.Add(-50 * time.Minute),
			Phase:            fixture.PhaseHalfTime,
			PhaseStartedAt:   &htStarted,
			BaseMinute:       &htBase,
			HomeScore:        0,
			AwayScore:        2,
		},
		{
			ExternalID:       900103,
			Provider:         "api-football",
			LeagueExternalID: LeagueExternalIDPremierLeague,
			HomeTeam:         "Newcastle",
			AwayTeam:         "Everton",
			KickoffAt:        now.Add(5 * time.Minute),
			Phase:            fixture.PhaseScheduled,
		},
		{
			ExternalID:       900104,
			Provider:         "api-football",
			LeagueExternalID: LeagueExternalIDLaLiga,
			HomeTeam:         "Real Betis",
			AwayTeam:         "Valencia",
			KickoffAt:        now.Add(3 * time.Hour),
			Phase:            fixture.PhaseScheduled,
		},
	}
}
