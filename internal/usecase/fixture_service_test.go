package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
	"github.com/stretchr/testify/require"
)

func TestFixtureService_GetByExternalID_AttachesClock(t *testing.T) {
	t.Parallel()

	startedAt := syncNow.Add(-23 * time.Minute)
	base := 0
	repo := &stubSyncFixtureRepository{
		byID: map[int64]fixture.Fixture{
			1001: {
				ExternalID:     1001,
				HomeTeam:       "Arsenal",
				AwayTeam:       "Chelsea",
				Phase:          fixture.PhaseLive,
				PhaseStartedAt: &startedAt,
				BaseMinute:     &base,
				KickoffAt:      syncNow.Add(-25 * time.Minute),
			},
		},
	}
	service := NewFixtureService(repo)
	service.now = func() time.Time { return syncNow }

	view, err := service.GetByExternalID(context.Background(), 1001)
	require.NoError(t, err)
	require.Equal(t, "23", view.Clock.Label)
	require.True(t, view.Clock.IsLive)
	require.Equal(t, "Arsenal", view.Fixture.HomeTeam)
}

func TestFixtureService_GetByExternalID_NotFound(t *testing.T) {
	t.Parallel()

	service := NewFixtureService(&stubSyncFixtureRepository{})

	_, err := service.GetByExternalID(context.Background(), 4040)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestFixtureService_GetByExternalID_RejectsNonPositiveID(t *testing.T) {
	t.Parallel()

	service := NewFixtureService(&stubSyncFixtureRepository{})

	_, err := service.GetByExternalID(context.Background(), 0)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestFixtureService_ListLive_OrdersByKickoff(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{
			{ExternalID: 2, Phase: fixture.PhaseHalfTime, KickoffAt: syncNow.Add(-30 * time.Minute)},
			{ExternalID: 1, Phase: fixture.PhaseSecondHalf, KickoffAt: syncNow.Add(-90 * time.Minute)},
		},
	}
	service := NewFixtureService(repo)
	service.now = func() time.Time { return syncNow }

	views, err := service.ListLive(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, int64(1), views[0].Fixture.ExternalID)
	require.Equal(t, int64(2), views[1].Fixture.ExternalID)
	require.Equal(t, "HT", views[1].Clock.Label)
	require.True(t, views[1].Clock.IsHalfTime)
}
