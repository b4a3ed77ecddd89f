package tips

import "time"

// Request describes the fixture a tip should be generated for.
type Request struct {
	FixtureExternalID int64
	HomeTeam          string
	AwayTeam          string
	KickoffAt         time.Time
}

// Tip is an editorial betting suggestion produced by an external generator.
type Tip struct {
	FixtureExternalID int64     `json:"fixtureExternalId"`
	Headline          string    `json:"headline"`
	Body              string    `json:"body"`
	GeneratedAt       time.Time `json:"generatedAt"`
}
