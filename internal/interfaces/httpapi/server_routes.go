package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerFixtureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures/live", handler.ListLiveFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/tip", handler.GetFixtureTip)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, syncToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-live", RequireSyncToken(syncToken, http.HandlerFunc(handler.RunSyncLiveJob)))
}
