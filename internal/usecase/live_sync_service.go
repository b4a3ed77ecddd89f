package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
	"github.com/matchpulse/livecenter/internal/domain/runledger"
	"github.com/matchpulse/livecenter/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

// scheduledLookback widens the kicking-off-soon window backwards so a match
// whose kickoff time already passed but has not appeared in the live feed yet
// keeps the sync loop polling.
const scheduledLookback = 3 * time.Hour

const defaultSyncWorkers = 8

const (
	skipReasonNoTrackedFixtures = "no tracked live or imminent fixtures"
)

type LiveSyncConfig struct {
	KickoffLookahead time.Duration
	LeagueAllowlist  []int64
	WorkerCount      int
}

type LiveSyncResult struct {
	MatchesUpdated      int
	ProviderCallSkipped bool
	APIFixturesReturned *int
}

// LiveSyncService runs one reconciliation pass: it reads tracked fixtures
// fresh from the store, makes at most one provider call, and writes full
// live-state snapshots for every fixture that changed.
type LiveSyncService struct {
	scoreboard  LiveScoreboardClient
	fixtureRepo fixture.Repository
	ledgerRepo  runledger.Repository
	cfg         LiveSyncConfig
	logger      *logging.Logger
	allowlist   map[int64]struct{}
	now         func() time.Time
}

func NewLiveSyncService(
	scoreboard LiveScoreboardClient,
	fixtureRepo fixture.Repository,
	ledgerRepo runledger.Repository,
	cfg LiveSyncConfig,
	logger *logging.Logger,
) *LiveSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.KickoffLookahead <= 0 {
		cfg.KickoffLookahead = 10 * time.Minute
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultSyncWorkers
	}

	var allowlist map[int64]struct{}
	if len(cfg.LeagueAllowlist) > 0 {
		allowlist = make(map[int64]struct{}, len(cfg.LeagueAllowlist))
		for _, id := range cfg.LeagueAllowlist {
			allowlist[id] = struct{}{}
		}
	}

	return &LiveSyncService{
		scoreboard:  scoreboard,
		fixtureRepo: fixtureRepo,
		ledgerRepo:  ledgerRepo,
		cfg:         cfg,
		logger:      logger,
		allowlist:   allowlist,
		now:         time.Now,
	}
}

// SyncLive reconciles the store against the provider's live scoreboard. Every
// run leaves a ledger entry, including skipped and failed runs. Per-fixture
// write failures are counted and logged but do not fail the run.
func (s *LiveSyncService) SyncLive(ctx context.Context) (LiveSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "LiveSyncService.SyncLive")
	defer span.End()

	now := s.now().UTC()

	tracked, err := s.fixtureRepo.ListTrackedLive(ctx)
	if err != nil {
		err = fmt.Errorf("list tracked live fixtures: %w", err)
		s.recordRun(ctx, s.failedEntry(err, runledger.Params{}))
		return LiveSyncResult{}, err
	}

	soon, err := s.fixtureRepo.ListKickingOffSoon(ctx, now.Add(-scheduledLookback), now.Add(s.cfg.KickoffLookahead))
	if err != nil {
		err = fmt.Errorf("list fixtures kicking off soon: %w", err)
		s.recordRun(ctx, s.failedEntry(err, runledger.Params{LiveTracked: len(tracked)}))
		return LiveSyncResult{}, err
	}

	params := runledger.Params{
		LiveTracked:    len(tracked),
		KickingOffSoon: len(soon),
	}

	if len(tracked) == 0 && len(soon) == 0 {
		params.ProviderCallSkipped = true
		params.SkipReason = skipReasonNoTrackedFixtures
		s.recordRun(ctx, runledger.Entry{
			JobType: runledger.JobTypeSyncLive,
			Success: true,
			Params:  params,
		})
		s.logger.DebugContext(ctx, "live sync skipped", "reason", params.SkipReason)
		return LiveSyncResult{ProviderCallSkipped: true}, nil
	}

	snapshot, err := s.scoreboard.FetchLiveFixtures(ctx)
	if err != nil {
		err = fmt.Errorf("fetch live scoreboard: %w", err)
		s.recordRun(ctx, s.failedEntry(err, params))
		return LiveSyncResult{}, err
	}

	returned := len(snapshot)
	params.APIFixturesReturned = &returned

	remoteByID := make(map[int64]LiveScoreboardFixture, len(snapshot))
	for _, item := range snapshot {
		if !s.leagueAllowed(item.LeagueExternalID) {
			continue
		}
		remoteByID[item.ExternalID] = item
	}

	updates := s.planUpdates(ctx, tracked, soon, remoteByID, now)

	updated, failed := s.applyUpdates(ctx, updates)
	params.FixtureErrors = failed

	s.recordRun(ctx, runledger.Entry{
		JobType:        runledger.JobTypeSyncLive,
		Success:        true,
		MatchesUpdated: updated,
		Params:         params,
	})

	s.logger.InfoContext(ctx, "live sync completed",
		"live_tracked", len(tracked),
		"kicking_off_soon", len(soon),
		"api_fixtures_returned", returned,
		"matches_updated", updated,
		"fixture_errors", failed,
	)

	return LiveSyncResult{
		MatchesUpdated:      updated,
		APIFixturesReturned: &returned,
	}, nil
}

// planUpdates diffs local fixtures against the provider snapshot and returns
// the full-state writes to apply. Tracked fixtures absent from the snapshot
// are closed out as finished; scheduled fixtures absent from it are left
// untouched.
func (s *LiveSyncService) planUpdates(
	ctx context.Context,
	tracked []fixture.Fixture,
	soon []fixture.Fixture,
	remoteByID map[int64]LiveScoreboardFixture,
	now time.Time,
) []fixture.LiveState {
	updates := make([]fixture.LiveState, 0, len(tracked)+len(soon))

	for _, local := range tracked {
		remote, ok := remoteByID[local.ExternalID]
		if !ok {
			updates = append(updates, finishedState(local, now))
			continue
		}
		if state, changed := s.reconcileFixture(ctx, local, remote, now); changed {
			updates = append(updates, state)
		}
	}

	for _, local := range soon {
		remote, ok := remoteByID[local.ExternalID]
		if !ok {
			continue
		}
		if state, changed := s.reconcileFixture(ctx, local, remote, now); changed {
			updates = append(updates, state)
		}
	}

	return updates
}

// reconcileFixture computes the next live state for one fixture. A phase
// change restamps the timing anchor at now with the canonical base minute; a
// score-only change keeps the current anchor so the display clock does not
// jump.
func (s *LiveSyncService) reconcileFixture(
	ctx context.Context,
	local fixture.Fixture,
	remote LiveScoreboardFixture,
	now time.Time,
) (fixture.LiveState, bool) {
	phase, known := fixture.PhaseFromStatus(remote.StatusShort, remote.ElapsedMinute)
	if !known {
		s.logger.WarnContext(ctx, "unknown provider status code",
			"status", remote.StatusShort,
			"fixture_external_id", local.ExternalID,
		)
		return fixture.LiveState{}, false
	}

	homeScore := clampScore(local.HomeScore, remote.HomeGoals)
	awayScore := clampScore(local.AwayScore, remote.AwayGoals)

	if phase == local.Phase {
		if homeScore == local.HomeScore && awayScore == local.AwayScore {
			return fixture.LiveState{}, false
		}
		stamp := now
		return fixture.LiveState{
			ExternalID:       local.ExternalID,
			Phase:            local.Phase,
			PhaseStartedAt:   local.PhaseStartedAt,
			BaseMinute:       local.BaseMinute,
			HomeScore:        homeScore,
			AwayScore:        awayScore,
			LastLiveUpdateAt: &stamp,
		}, true
	}

	if local.Phase == fixture.PhaseScheduled && phase == fixture.PhaseScheduled {
		return fixture.LiveState{}, false
	}

	stamp := now
	state := fixture.LiveState{
		ExternalID:       local.ExternalID,
		Phase:            phase,
		HomeScore:        homeScore,
		AwayScore:        awayScore,
		LastLiveUpdateAt: &stamp,
	}
	// Every phase except scheduled keeps a non-nil anchor; finished keeps the
	// anchor of the moment it ended but has no clock baseline.
	if phase != fixture.PhaseScheduled {
		started := now
		state.PhaseStartedAt = &started
	}
	if base, ok := fixture.BaseMinute(phase); ok {
		state.BaseMinute = &base
	}
	return state, true
}

// applyUpdates writes the planned states concurrently. Each state touches a
// distinct fixture row, so writes are independent.
func (s *LiveSyncService) applyUpdates(ctx context.Context, updates []fixture.LiveState) (int, int) {
	if len(updates) == 0 {
		return 0, 0
	}

	workers := s.cfg.WorkerCount
	if workers > len(updates) {
		workers = len(updates)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		s.logger.WarnContext(ctx, "worker pool unavailable, writing sequentially", "error", err)
		return s.applySequentially(ctx, updates)
	}
	defer pool.Release()

	var updated atomic.Int32
	var failed atomic.Int32
	var wg sync.WaitGroup

	for _, state := range updates {
		state := state
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.fixtureRepo.UpsertLiveState(ctx, state); err != nil {
				failed.Add(1)
				s.logger.ErrorContext(ctx, "upsert live state failed",
					"fixture_external_id", state.ExternalID,
					"phase", state.Phase,
					"error", err,
				)
				return
			}
			updated.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			s.logger.ErrorContext(ctx, "submit live state write failed",
				"fixture_external_id", state.ExternalID,
				"error", submitErr,
			)
		}
	}
	wg.Wait()

	return int(updated.Load()), int(failed.Load())
}

func (s *LiveSyncService) applySequentially(ctx context.Context, updates []fixture.LiveState) (int, int) {
	updated, failed := 0, 0
	for _, state := range updates {
		if err := s.fixtureRepo.UpsertLiveState(ctx, state); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "upsert live state failed",
				"fixture_external_id", state.ExternalID,
				"phase", state.Phase,
				"error", err,
			)
			continue
		}
		updated++
	}
	return updated, failed
}

// recordRun appends a ledger entry. Ledger failures are logged and swallowed
// so bookkeeping can never break the sync itself.
func (s *LiveSyncService) recordRun(ctx context.Context, entry runledger.Entry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if err := s.ledgerRepo.Insert(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "record sync run failed", "job_type", entry.JobType, "error", err)
	}
}

func (s *LiveSyncService) failedEntry(cause error, params runledger.Params) runledger.Entry {
	return runledger.Entry{
		JobType:   runledger.JobTypeSyncLive,
		Success:   false,
		ErrorText: cause.Error(),
		Params:    params,
	}
}

func (s *LiveSyncService) leagueAllowed(leagueExternalID int64) bool {
	if s.allowlist == nil {
		return true
	}
	_, ok := s.allowlist[leagueExternalID]
	return ok
}

// finishedState closes out a fixture that dropped off the live feed. The
// anchor is restamped at the moment the match ended, the clock baseline is
// cleared, and the last known scores stand as final.
func finishedState(local fixture.Fixture, now time.Time) fixture.LiveState {
	stamp := now
	return fixture.LiveState{
		ExternalID:       local.ExternalID,
		Phase:            fixture.PhaseFinished,
		PhaseStartedAt:   &stamp,
		HomeScore:        local.HomeScore,
		AwayScore:        local.AwayScore,
		LastLiveUpdateAt: &stamp,
	}
}

// clampScore keeps provider score glitches from ever lowering a stored score.
func clampScore(current int, remote *int) int {
	if remote == nil || *remote < current {
		return current
	}
	return *remote
}
