package apifootball

// liveFixturesEnvelope mirrors the provider's GET /fixtures?live=all payload,
// reduced to the fields the sync pipeline consumes.
type liveFixturesEnvelope struct {
	Response []liveFixtureItem `json:"response"`
}

type liveFixtureItem struct {
	Fixture fixtureInfo `json:"fixture"`
	League  leagueInfo  `json:"league"`
	Goals   goalsInfo   `json:"goals"`
}

type fixtureInfo struct {
	ID     int64         `json:"id"`
	Date   string        `json:"date"`
	Status fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueInfo struct {
	ID int64 `json:"id"`
}

type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
