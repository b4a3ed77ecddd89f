package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
	"github.com/matchpulse/livecenter/internal/domain/matchclock"
)

// FixtureView is a fixture paired with its display clock, computed at read
// time from the stored phase anchor.
type FixtureView struct {
	Fixture fixture.Fixture
	Clock   matchclock.Status
}

type FixtureService struct {
	fixtureRepo fixture.Repository
	now         func() time.Time
}

func NewFixtureService(fixtureRepo fixture.Repository) *FixtureService {
	return &FixtureService{
		fixtureRepo: fixtureRepo,
		now:         time.Now,
	}
}

func (s *FixtureService) GetByExternalID(ctx context.Context, externalID int64) (FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "FixtureService.GetByExternalID")
	defer span.End()

	if externalID <= 0 {
		return FixtureView{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}

	item, err := s.fixtureRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return FixtureView{}, fmt.Errorf("get fixture: %w", err)
	}
	if item == nil {
		return FixtureView{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, externalID)
	}

	return s.toView(*item), nil
}

// ListLive returns every fixture currently mid-match, ordered by kickoff.
func (s *FixtureService) ListLive(ctx context.Context) ([]FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "FixtureService.ListLive")
	defer span.End()

	fixtures, err := s.fixtureRepo.ListTrackedLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live fixtures: %w", err)
	}

	sort.Slice(fixtures, func(i, j int) bool {
		if fixtures[i].KickoffAt.Equal(fixtures[j].KickoffAt) {
			return fixtures[i].ExternalID < fixtures[j].ExternalID
		}
		return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt)
	})

	views := make([]FixtureView, 0, len(fixtures))
	for _, item := range fixtures {
		views = append(views, s.toView(item))
	}
	return views, nil
}

func (s *FixtureService) toView(item fixture.Fixture) FixtureView {
	clock := matchclock.Compute(matchclock.Snapshot{
		Phase:          item.Phase,
		PhaseStartedAt: item.PhaseStartedAt,
		BaseMinute:     item.BaseMinute,
		KickoffAt:      item.KickoffAt,
	}, s.now())
	return FixtureView{Fixture: item, Clock: clock}
}
