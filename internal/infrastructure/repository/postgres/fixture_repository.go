package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchpulse/livecenter/internal/domain/fixture"
	qb "github.com/matchpulse/livecenter/internal/platform/querybuilder"
)

var fixtureColumns = []string{
	"id",
	"external_id",
	"provider",
	"league_external_id",
	"home_team",
	"away_team",
	"kickoff_at",
	"phase",
	"phase_started_at",
	"base_minute",
	"home_score",
	"away_score",
	"last_live_update_at",
	"created_at",
	"updated_at",
}

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (*fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select fixture by external id: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *FixtureRepository) ListTrackedLive(ctx context.Context) ([]fixture.Fixture, error) {
	phases := fixture.TrackedLivePhases()
	values := make([]any, 0, len(phases))
	for _, p := range phases {
		values = append(values, string(p))
	}

	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.In("phase", values)).
		OrderBy("kickoff_at", "external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tracked live query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListKickingOffSoon(ctx context.Context, from, until time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(
			qb.Eq("phase", string(fixture.PhaseScheduled)),
			qb.Gte("kickoff_at", from),
			qb.Lte("kickoff_at", until),
		).
		OrderBy("kickoff_at", "external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select kicking off soon query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

// UpsertLiveState writes the whole live-state slice of a fixture in one
// statement. GREATEST keeps provider glitches from lowering stored scores
// even if two runs interleave.
func (r *FixtureRepository) UpsertLiveState(ctx context.Context, state fixture.LiveState) error {
	query, args, err := qb.InsertInto("fixtures").
		Columns("external_id", "phase", "phase_started_at", "base_minute", "home_score", "away_score", "last_live_update_at").
		Values(
			state.ExternalID,
			string(state.Phase),
			state.PhaseStartedAt,
			state.BaseMinute,
			state.HomeScore,
			state.AwayScore,
			state.LastLiveUpdateAt,
		).
		Suffix(`ON CONFLICT (external_id) DO UPDATE SET
			phase = EXCLUDED.phase,
			phase_started_at = EXCLUDED.phase_started_at,
			base_minute = EXCLUDED.base_minute,
			home_score = GREATEST(fixtures.home_score, EXCLUDED.home_score),
			away_score = GREATEST(fixtures.away_score, EXCLUDED.away_score),
			last_live_update_at = EXCLUDED.last_live_update_at,
			updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert live state query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert live state: %w", err)
	}
	return nil
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, query string, args []any) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
