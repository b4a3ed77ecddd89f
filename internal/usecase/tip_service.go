package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
	"github.com/matchpulse/livecenter/internal/domain/tips"
	"github.com/matchpulse/livecenter/internal/platform/cache"
	"github.com/matchpulse/livecenter/internal/platform/logging"
)

// TipService serves per-fixture tips behind a short TTL cache. Generation is
// comparatively expensive, so concurrent requests for the same fixture share
// one provider call.
type TipService struct {
	fixtureRepo fixture.Repository
	provider    tips.Provider
	store       *cache.Store
	logger      *logging.Logger
}

func NewTipService(fixtureRepo fixture.Repository, provider tips.Provider, store *cache.Store, logger *logging.Logger) *TipService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TipService{
		fixtureRepo: fixtureRepo,
		provider:    provider,
		store:       store,
		logger:      logger,
	}
}

func (s *TipService) GetForFixture(ctx context.Context, fixtureExternalID int64) (tips.Tip, error) {
	ctx, span := startUsecaseSpan(ctx, "TipService.GetForFixture")
	defer span.End()

	if fixtureExternalID <= 0 {
		return tips.Tip{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}

	item, err := s.fixtureRepo.GetByExternalID(ctx, fixtureExternalID)
	if err != nil {
		return tips.Tip{}, fmt.Errorf("get fixture: %w", err)
	}
	if item == nil {
		return tips.Tip{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, fixtureExternalID)
	}

	key := "tip:" + strconv.FormatInt(fixtureExternalID, 10)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		tip, genErr := s.provider.Generate(ctx, tips.Request{
			FixtureExternalID: item.ExternalID,
			HomeTeam:          item.HomeTeam,
			AwayTeam:          item.AwayTeam,
			KickoffAt:         item.KickoffAt,
		})
		if genErr != nil {
			return nil, genErr
		}
		return tip, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "tip generation failed", "fixture_external_id", fixtureExternalID, "error", err)
		return tips.Tip{}, fmt.Errorf("%w: tip generation failed", ErrDependencyUnavailable)
	}

	tip, ok := value.(tips.Tip)
	if !ok {
		return tips.Tip{}, fmt.Errorf("unexpected cached tip type %T", value)
	}
	return tip, nil
}
