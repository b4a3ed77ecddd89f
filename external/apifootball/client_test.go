package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matchpulse/livecenter/internal/platform/resilience"
)

const livePayload = `{
  "response": [
    {
      "fixture": {"id": 1001, "date": "2026-03-07T20:00:00+00:00", "status": {"short": "1H", "elapsed": 23}},
      "league": {"id": 39},
      "goals": {"home": 1, "away": 0}
    },
    {
      "fixture": {"id": 1002, "date": "2026-03-07T19:30:00+00:00", "status": {"short": "HT", "elapsed": 45}},
      "league": {"id": 140},
      "goals": {"home": 0, "away": 0}
    }
  ]
}`

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		APIKey:         "secret-key",
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
	return client, server
}

func TestFetchLiveFixtures_DecodesPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-apisports-key"); got != "secret-key" {
			t.Errorf("unexpected api key header: %q", got)
		}
		if got := r.URL.Query().Get("live"); got != "all" {
			t.Errorf("unexpected live query: %q", got)
		}
		_, _ = w.Write([]byte(livePayload))
	}), 0)

	items, err := client.FetchLiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("FetchLiveFixtures error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected fixture count: %d", len(items))
	}

	first := items[0]
	if first.ExternalID != 1001 || first.LeagueExternalID != 39 {
		t.Fatalf("unexpected identifiers: %+v", first)
	}
	if first.StatusShort != "1H" {
		t.Fatalf("unexpected status: %q", first.StatusShort)
	}
	if first.ElapsedMinute == nil || *first.ElapsedMinute != 23 {
		t.Fatalf("unexpected elapsed: %v", first.ElapsedMinute)
	}
	if first.HomeGoals == nil || *first.HomeGoals != 1 || first.AwayGoals == nil || *first.AwayGoals != 0 {
		t.Fatalf("unexpected goals: %+v", first)
	}
	wantKickoff := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)
	if !first.KickoffAt.Equal(wantKickoff) {
		t.Fatalf("unexpected kickoff: %s", first.KickoffAt)
	}
}

func TestFetchLiveFixtures_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(livePayload))
	}), 1)

	items, err := client.FetchLiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected fixture count after retry: %d", len(items))
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestFetchLiveFixtures_NoRetryOnAuthFailure(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid key"}`))
	}), 2)

	if _, err := client.FetchLiveFixtures(context.Background()); err == nil {
		t.Fatal("expected error for non-retryable status")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected single attempt, got %d", got)
	}
}

func TestFetchLiveFixtures_RequiresAPIKey(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://localhost:0"})
	if _, err := client.FetchLiveFixtures(context.Background()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestFetchLiveFixtures_SkipsRowsWithoutID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[{"fixture":{"id":0,"status":{"short":"1H"}},"league":{"id":39},"goals":{}}]}`))
	}), 0)

	items, err := client.FetchLiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("FetchLiveFixtures error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected zero usable fixtures, got %d", len(items))
	}
}

func TestNewClient_DoesNotMutateCallerHTTPClient(t *testing.T) {
	t.Parallel()

	callerClient := &http.Client{}
	client := NewClient(ClientConfig{
		HTTPClient: callerClient,
		APIKey:     "secret-key",
	})

	if callerClient.Timeout != 0 {
		t.Fatalf("caller's client was mutated, timeout=%s", callerClient.Timeout)
	}
	if client.httpClient == callerClient {
		t.Fatal("expected the client to hold its own http.Client copy")
	}
	if client.httpClient.Timeout != 12*time.Second {
		t.Fatalf("unexpected default timeout: %s", client.httpClient.Timeout)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`Get "https://x?key=secret-key": timeout`, "secret-key")
	if strings.Contains(got, "secret-key") {
		t.Fatalf("api key leaked in error text: %s", got)
	}
	if !strings.Contains(got, "REDACTED") {
		t.Fatalf("expected redaction marker, got %s", got)
	}
}
