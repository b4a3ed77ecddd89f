package httpapi

import (
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matchpulse/livecenter/internal/usecase"
)

type syncLiveRequest struct {
	// Reason is free-form caller context for the server log, e.g. which
	// cron schedule fired. The body may be omitted entirely.
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

type syncLiveResponse struct {
	Success             bool `json:"success"`
	MatchesUpdated      int  `json:"matchesUpdated"`
	ProviderCallSkipped bool `json:"providerCallSkipped"`
	APIFixturesReturned *int `json:"apiFixturesReturned,omitempty"`
}

func (h *Handler) RunSyncLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLiveJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: live sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSyncLiveRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Reason != "" {
		h.logger.InfoContext(ctx, "live sync requested", "reason", req.Reason)
	}

	result, err := h.syncService.SyncLive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "run sync live job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncLiveResponse{
		Success:             true,
		MatchesUpdated:      result.MatchesUpdated,
		ProviderCallSkipped: result.ProviderCallSkipped,
		APIFixturesReturned: result.APIFixturesReturned,
	})
}

func decodeSyncLiveRequest(r *http.Request) (syncLiveRequest, error) {
	var req syncLiveRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return syncLiveRequest{}, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return req, nil
	}

	if err := sonic.Unmarshal(body, &req); err != nil {
		return syncLiveRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}
