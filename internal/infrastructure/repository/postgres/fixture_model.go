package postgres

import (
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID               int64      `db:"id"`
	ExternalID       int64      `db:"external_id"`
	Provider         string     `db:"provider"`
	LeagueExternalID int64      `db:"league_external_id"`
	HomeTeam         string     `db:"home_team"`
	AwayTeam         string     `db:"away_team"`
	KickoffAt        time.Time  `db:"kickoff_at"`
	Phase            string     `db:"phase"`
	PhaseStartedAt   *time.Time `db:"phase_started_at"`
	BaseMinute       *int       `db:"base_minute"`
	HomeScore        int        `db:"home_score"`
	AwayScore        int        `db:"away_score"`
	LastLiveUpdateAt *time.Time `db:"last_live_update_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:               m.ID,
		ExternalID:       m.ExternalID,
		Provider:         m.Provider,
		LeagueExternalID: m.LeagueExternalID,
		HomeTeam:         m.HomeTeam,
		AwayTeam:         m.AwayTeam,
		KickoffAt:        m.KickoffAt,
		Phase:            fixture.Phase(m.Phase),
		PhaseStartedAt:   m.PhaseStartedAt,
		BaseMinute:       m.BaseMinute,
		HomeScore:        m.HomeScore,
		AwayScore:        m.AwayScore,
		LastLiveUpdateAt: m.LastLiveUpdateAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
