package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/tips"
	"github.com/matchpulse/livecenter/internal/usecase"
)

func (h *Handler) ListLiveFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveFixtures")
	defer span.End()

	views, err := h.fixtureService.ListLive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list live fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(views))
	for _, view := range views {
		items = append(items, fixtureViewToDTO(view))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	fixtureID, err := parseFixtureID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.fixtureService.GetByExternalID(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureViewToDTO(view))
}

func (h *Handler) GetFixtureTip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixtureTip")
	defer span.End()

	fixtureID, err := parseFixtureID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tip, err := h.tipService.GetForFixture(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture tip failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tipToDTO(tip))
}

func parseFixtureID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("fixtureID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: fixture id must be a positive integer", usecase.ErrInvalidInput)
	}
	return id, nil
}

type fixtureDTO struct {
	ExternalID       int64    `json:"externalId"`
	LeagueExternalID int64    `json:"leagueExternalId"`
	HomeTeam         string   `json:"homeTeam"`
	AwayTeam         string   `json:"awayTeam"`
	KickoffAt        string   `json:"kickoffAt"`
	Phase            string   `json:"phase"`
	HomeScore        int      `json:"homeScore"`
	AwayScore        int      `json:"awayScore"`
	LastLiveUpdateAt *string  `json:"lastLiveUpdateAt,omitempty"`
	Clock            clockDTO `json:"clock"`
}

type clockDTO struct {
	Label       string `json:"label"`
	IsLive      bool   `json:"isLive"`
	IsHalfTime  bool   `json:"isHalfTime"`
	IsFinished  bool   `json:"isFinished"`
	IsPenalties bool   `json:"isPenalties"`
}

type tipDTO struct {
	FixtureExternalID int64  `json:"fixtureExternalId"`
	Headline          string `json:"headline"`
	Body              string `json:"body"`
	GeneratedAt       string `json:"generatedAt"`
}

func fixtureViewToDTO(view usecase.FixtureView) fixtureDTO {
	item := view.Fixture

	var lastUpdate *string
	if item.LastLiveUpdateAt != nil {
		formatted := item.LastLiveUpdateAt.UTC().Format(time.RFC3339)
		lastUpdate = &formatted
	}

	return fixtureDTO{
		ExternalID:       item.ExternalID,
		LeagueExternalID: item.LeagueExternalID,
		HomeTeam:         item.HomeTeam,
		AwayTeam:         item.AwayTeam,
		KickoffAt:        item.KickoffAt.UTC().Format(time.RFC3339),
		Phase:            string(item.Phase),
		HomeScore:        item.HomeScore,
		AwayScore:        item.AwayScore,
		LastLiveUpdateAt: lastUpdate,
		Clock: clockDTO{
			Label:       view.Clock.Label,
			IsLive:      view.Clock.IsLive,
			IsHalfTime:  view.Clock.IsHalfTime,
			IsFinished:  view.Clock.IsFinished,
			IsPenalties: view.Clock.IsPenalties,
		},
	}
}

func tipToDTO(tip tips.Tip) tipDTO {
	return tipDTO{
		FixtureExternalID: tip.FixtureExternalID,
		Headline:          tip.Headline,
		Body:              tip.Body,
		GeneratedAt:       tip.GeneratedAt.UTC().Format(time.RFC3339),
	}
}
