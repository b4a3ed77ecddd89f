package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
	"github.com/matchpulse/livecenter/internal/domain/runledger"
	"github.com/matchpulse/livecenter/internal/infrastructure/repository/memory"
)

var syncNow = time.Date(2026, 3, 7, 20, 30, 0, 0, time.UTC)

type stubScoreboardClient struct {
	items []LiveScoreboardFixture
	err   error
	calls int
}

func (s *stubScoreboardClient) FetchLiveFixtures(ctx context.Context) ([]LiveScoreboardFixture, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubSyncFixtureRepository struct {
	mu      sync.Mutex
	byID    map[int64]fixture.Fixture
	tracked []fixture.Fixture
	soon    []fixture.Fixture
	failIDs map[int64]bool
	upserts []fixture.LiveState
}

func (s *stubSyncFixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (*fixture.Fixture, error) {
	item, ok := s.byID[externalID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubSyncFixtureRepository) ListTrackedLive(ctx context.Context) ([]fixture.Fixture, error) {
	return s.tracked, nil
}

func (s *stubSyncFixtureRepository) ListKickingOffSoon(ctx context.Context, from, until time.Time) ([]fixture.Fixture, error) {
	return s.soon, nil
}

func (s *stubSyncFixtureRepository) UpsertLiveState(ctx context.Context, state fixture.LiveState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[state.ExternalID] {
		return fmt.Errorf("write rejected for fixture %d", state.ExternalID)
	}
	s.upserts = append(s.upserts, state)
	return nil
}

func (s *stubSyncFixtureRepository) upsertByID(externalID int64) (fixture.LiveState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, state := range s.upserts {
		if state.ExternalID == externalID {
			return state, true
		}
	}
	return fixture.LiveState{}, false
}

type stubRunLedgerRepository struct {
	mu      sync.Mutex
	entries []runledger.Entry
	err     error
}

func (s *stubRunLedgerRepository) Insert(ctx context.Context, entry runledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubRunLedgerRepository) last(t *testing.T) runledger.Entry {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		t.Fatal("expected a ledger entry")
	}
	return s.entries[len(s.entries)-1]
}

func newSyncService(repo *stubSyncFixtureRepository, client *stubScoreboardClient, ledger *stubRunLedgerRepository, cfg LiveSyncConfig) *LiveSyncService {
	service := NewLiveSyncService(client, repo, ledger, cfg, nil)
	service.now = func() time.Time { return syncNow }
	return service
}

func trackedLiveFixture(externalID int64, phase fixture.Phase, home, away int) fixture.Fixture {
	startedAt := syncNow.Add(-20 * time.Minute)
	base := 0
	if b, ok := fixture.BaseMinute(phase); ok {
		base = b
	}
	return fixture.Fixture{
		ExternalID:       externalID,
		LeagueExternalID: 39,
		Phase:            phase,
		PhaseStartedAt:   &startedAt,
		BaseMinute:       &base,
		HomeScore:        home,
		AwayScore:        away,
		KickoffAt:        syncNow.Add(-25 * time.Minute),
	}
}

func intRef(v int) *int { return &v }

func TestLiveSyncService_SkipsProviderWhenNothingToTrack(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{}
	client := &stubScoreboardClient{}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	result, err := service.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if !result.ProviderCallSkipped {
		t.Fatal("expected provider call to be skipped")
	}
	if client.calls != 0 {
		t.Fatalf("expected zero provider calls, got %d", client.calls)
	}

	entry := ledger.last(t)
	if !entry.Success || !entry.Params.ProviderCallSkipped {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}
	if entry.Params.SkipReason == "" {
		t.Fatal("expected a skip reason")
	}
	if entry.Params.APIFixturesReturned != nil {
		t.Fatal("skipped run must not report an api fixture count")
	}
}

func TestLiveSyncService_PhaseChangeRestampsTimingAnchor(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseLive, 1, 0)},
	}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       1001,
			LeagueExternalID: 39,
			StatusShort:      "HT",
			ElapsedMinute:    intRef(45),
			HomeGoals:        intRef(1),
			AwayGoals:        intRef(0),
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	result, err := service.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if result.MatchesUpdated != 1 {
		t.Fatalf("expected one update, got %d", result.MatchesUpdated)
	}

	state, ok := repo.upsertByID(1001)
	if !ok {
		t.Fatal("expected an upsert for fixture 1001")
	}
	if state.Phase != fixture.PhaseHalfTime {
		t.Fatalf("unexpected phase: %s", state.Phase)
	}
	if state.PhaseStartedAt == nil || !state.PhaseStartedAt.Equal(syncNow) {
		t.Fatalf("expected phase anchor at %s, got %v", syncNow, state.PhaseStartedAt)
	}
	if state.BaseMinute == nil || *state.BaseMinute != 45 {
		t.Fatalf("unexpected base minute: %v", state.BaseMinute)
	}
}

func TestLiveSyncService_ScoreOnlyChangeKeepsTimingAnchor(t *testing.T) {
	t.Parallel()

	local := trackedLiveFixture(1001, fixture.PhaseSecondHalf, 1, 0)
	repo := &stubSyncFixtureRepository{tracked: []fixture.Fixture{local}}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       1001,
			LeagueExternalID: 39,
			StatusShort:      "2H",
			ElapsedMinute:    intRef(67),
			HomeGoals:        intRef(2),
			AwayGoals:        intRef(0),
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	if _, err := service.SyncLive(context.Background()); err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}

	state, ok := repo.upsertByID(1001)
	if !ok {
		t.Fatal("expected an upsert for fixture 1001")
	}
	if state.HomeScore != 2 || state.AwayScore != 0 {
		t.Fatalf("unexpected scores: %d-%d", state.HomeScore, state.AwayScore)
	}
	if state.PhaseStartedAt == nil || !state.PhaseStartedAt.Equal(*local.PhaseStartedAt) {
		t.Fatalf("score update must not move the phase anchor, got %v", state.PhaseStartedAt)
	}
	if state.LastLiveUpdateAt == nil || !state.LastLiveUpdateAt.Equal(syncNow) {
		t.Fatalf("expected last update stamp at %s, got %v", syncNow, state.LastLiveUpdateAt)
	}
}

func TestLiveSyncService_UnchangedFixtureWritesNothing(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseLive, 1, 0)},
	}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       1001,
			LeagueExternalID: 39,
			StatusShort:      "1H",
			ElapsedMinute:    intRef(23),
			HomeGoals:        intRef(1),
			AwayGoals:        intRef(0),
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	result, err := service.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if result.MatchesUpdated != 0 {
		t.Fatalf("expected no updates, got %d", result.MatchesUpdated)
	}
	if len(repo.upserts) != 0 {
		t.Fatalf("expected no writes, got %d", len(repo.upserts))
	}
}

func TestLiveSyncService_MissingFromFeedFinishesFixture(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseSecondHalf, 2, 1)},
	}
	client := &stubScoreboardClient{}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	if _, err := service.SyncLive(context.Background()); err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}

	state, ok := repo.upsertByID(1001)
	if !ok {
		t.Fatal("expected an upsert for fixture 1001")
	}
	if state.Phase != fixture.PhaseFinished {
		t.Fatalf("unexpected phase: %s", state.Phase)
	}
	if state.PhaseStartedAt == nil || !state.PhaseStartedAt.Equal(syncNow) {
		t.Fatalf("finished fixtures must keep an anchor at %s, got %v", syncNow, state.PhaseStartedAt)
	}
	if state.BaseMinute != nil {
		t.Fatalf("finished fixtures must not carry a clock baseline, got %v", state.BaseMinute)
	}
	if state.HomeScore != 2 || state.AwayScore != 1 {
		t.Fatalf("final score must keep the last known value, got %d-%d", state.HomeScore, state.AwayScore)
	}
}

func TestLiveSyncService_FullTimeStatusKeepsTimingAnchor(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseSecondHalf, 1, 1)},
	}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       1001,
			LeagueExternalID: 39,
			StatusShort:      "FT",
			HomeGoals:        intRef(1),
			AwayGoals:        intRef(1),
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	if _, err := service.SyncLive(context.Background()); err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}

	state, ok := repo.upsertByID(1001)
	if !ok {
		t.Fatal("expected an upsert for fixture 1001")
	}
	if state.Phase != fixture.PhaseFinished {
		t.Fatalf("unexpected phase: %s", state.Phase)
	}
	if state.PhaseStartedAt == nil || !state.PhaseStartedAt.Equal(syncNow) {
		t.Fatalf("expected anchor at %s, got %v", syncNow, state.PhaseStartedAt)
	}
	if state.BaseMinute != nil {
		t.Fatalf("finished fixtures must not carry a clock baseline, got %v", state.BaseMinute)
	}
}

func TestLiveSyncService_FinishedFixtureIsNeverRevived(t *testing.T) {
	t.Parallel()

	endedAt := syncNow.Add(-10 * time.Minute)
	repo := memory.NewFixtureRepository([]fixture.Fixture{
		{
			ExternalID:       3001,
			LeagueExternalID: 39,
			Phase:            fixture.PhaseFinished,
			PhaseStartedAt:   &endedAt,
			HomeScore:        2,
			AwayScore:        1,
			KickoffAt:        syncNow.Add(-2 * time.Hour),
		},
		trackedLiveFixture(3002, fixture.PhaseLive, 0, 0),
	})
	// The provider glitches and re-reports the finished match as in play.
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{
			{ExternalID: 3001, LeagueExternalID: 39, StatusShort: "1H", ElapsedMinute: intRef(5), HomeGoals: intRef(0), AwayGoals: intRef(0)},
			{ExternalID: 3002, LeagueExternalID: 39, StatusShort: "HT", ElapsedMinute: intRef(45), HomeGoals: intRef(1), AwayGoals: intRef(0)},
		},
	}
	ledger := &stubRunLedgerRepository{}
	service := NewLiveSyncService(client, repo, ledger, LiveSyncConfig{}, nil)
	service.now = func() time.Time { return syncNow }

	if _, err := service.SyncLive(context.Background()); err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}

	revived, err := repo.GetByExternalID(context.Background(), 3001)
	if err != nil {
		t.Fatalf("get finished fixture: %v", err)
	}
	if revived.Phase != fixture.PhaseFinished {
		t.Fatalf("finished fixture must stay finished, got %s", revived.Phase)
	}
	if revived.HomeScore != 2 || revived.AwayScore != 1 {
		t.Fatalf("final score must stand, got %d-%d", revived.HomeScore, revived.AwayScore)
	}

	// The run itself proceeded: the still-live fixture picked up its update.
	updated, err := repo.GetByExternalID(context.Background(), 3002)
	if err != nil {
		t.Fatalf("get live fixture: %v", err)
	}
	if updated.Phase != fixture.PhaseHalfTime {
		t.Fatalf("expected tracked fixture to move to ht, got %s", updated.Phase)
	}
	if client.calls != 1 {
		t.Fatalf("expected one provider call, got %d", client.calls)
	}
}

func TestLiveSyncService_ScoresNeverDecrease(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseLive, 2, 1)},
	}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       1001,
			LeagueExternalID: 39,
			StatusShort:      "1H",
			ElapsedMinute:    intRef(30),
			HomeGoals:        intRef(0),
			AwayGoals:        intRef(0),
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	result, err := service.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if result.MatchesUpdated != 0 {
		t.Fatalf("a lower provider score must be ignored, got %d updates", result.MatchesUpdated)
	}
}

func TestLiveSyncService_ScheduledFixtureGoesLiveAtKickoff(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		soon: []fixture.Fixture{{
			ExternalID:       2002,
			LeagueExternalID: 140,
			Phase:            fixture.PhaseScheduled,
			KickoffAt:        syncNow.Add(2 * time.Minute),
		}},
	}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       2002,
			LeagueExternalID: 140,
			StatusShort:      "1H",
			ElapsedMinute:    intRef(1),
			HomeGoals:        intRef(0),
			AwayGoals:        intRef(0),
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	if _, err := service.SyncLive(context.Background()); err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}

	state, ok := repo.upsertByID(2002)
	if !ok {
		t.Fatal("expected an upsert for fixture 2002")
	}
	if state.Phase != fixture.PhaseLive {
		t.Fatalf("unexpected phase: %s", state.Phase)
	}
	if state.BaseMinute == nil || *state.BaseMinute != 0 {
		t.Fatalf("unexpected base minute: %v", state.BaseMinute)
	}
}

func TestLiveSyncService_UnknownStatusIsIgnored(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseLive, 0, 0)},
	}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       1001,
			LeagueExternalID: 39,
			StatusShort:      "XYZ",
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	result, err := service.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if result.MatchesUpdated != 0 || len(repo.upserts) != 0 {
		t.Fatalf("unknown status must leave the fixture untouched, got %d writes", len(repo.upserts))
	}
}

func TestLiveSyncService_LeagueAllowlistFiltersSnapshot(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseLive, 0, 0)},
	}
	// The fixture's league is not allow-listed, so its snapshot row is
	// dropped and the fixture is treated as missing from the feed.
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{{
			ExternalID:       1001,
			LeagueExternalID: 39,
			StatusShort:      "HT",
		}},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{LeagueAllowlist: []int64{999}})

	if _, err := service.SyncLive(context.Background()); err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}

	state, ok := repo.upsertByID(1001)
	if !ok {
		t.Fatal("expected an upsert for fixture 1001")
	}
	if state.Phase != fixture.PhaseFinished {
		t.Fatalf("unexpected phase: %s", state.Phase)
	}
}

func TestLiveSyncService_ProviderFailureRecordsFailedRun(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{trackedLiveFixture(1001, fixture.PhaseLive, 0, 0)},
	}
	client := &stubScoreboardClient{err: fmt.Errorf("provider down")}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	if _, err := service.SyncLive(context.Background()); err == nil {
		t.Fatal("expected provider failure to surface")
	}

	entry := ledger.last(t)
	if entry.Success {
		t.Fatal("expected a failed ledger entry")
	}
	if entry.ErrorText == "" {
		t.Fatal("expected error text on the ledger entry")
	}
	if len(repo.upserts) != 0 {
		t.Fatalf("expected no writes on provider failure, got %d", len(repo.upserts))
	}
}

func TestLiveSyncService_FixtureWriteFailureDoesNotFailRun(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{
		tracked: []fixture.Fixture{
			trackedLiveFixture(1001, fixture.PhaseLive, 0, 0),
			trackedLiveFixture(1002, fixture.PhaseLive, 0, 0),
		},
		failIDs: map[int64]bool{1002: true},
	}
	client := &stubScoreboardClient{
		items: []LiveScoreboardFixture{
			{ExternalID: 1001, LeagueExternalID: 39, StatusShort: "HT"},
			{ExternalID: 1002, LeagueExternalID: 39, StatusShort: "HT"},
		},
	}
	ledger := &stubRunLedgerRepository{}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	result, err := service.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if result.MatchesUpdated != 1 {
		t.Fatalf("expected one successful update, got %d", result.MatchesUpdated)
	}

	entry := ledger.last(t)
	if !entry.Success {
		t.Fatal("fixture write failures must not fail the run")
	}
	if entry.Params.FixtureErrors != 1 {
		t.Fatalf("expected one fixture error, got %d", entry.Params.FixtureErrors)
	}
}

func TestLiveSyncService_LedgerFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	repo := &stubSyncFixtureRepository{}
	client := &stubScoreboardClient{}
	ledger := &stubRunLedgerRepository{err: fmt.Errorf("ledger unavailable")}
	service := newSyncService(repo, client, ledger, LiveSyncConfig{})

	if _, err := service.SyncLive(context.Background()); err != nil {
		t.Fatalf("ledger failure must not surface, got %v", err)
	}
}
