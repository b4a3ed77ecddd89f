package tips

import (
	"context"
	"fmt"
	"time"
)

// HeuristicProvider is the built-in tip generator used when no external
// generator is configured. Tips are deterministic for a fixture so cached
// and regenerated responses agree.
type HeuristicProvider struct {
	now func() time.Time
}

func NewHeuristicProvider() *HeuristicProvider {
	return &HeuristicProvider{now: time.Now}
}

func (p *HeuristicProvider) Generate(_ context.Context, req Request) (Tip, error) {
	if req.FixtureExternalID <= 0 {
		return Tip{}, fmt.Errorf("fixture external id is required")
	}

	headline := fmt.Sprintf("%s vs %s", req.HomeTeam, req.AwayTeam)
	body := "Expect a tight opening half; late goals have been the pattern for both sides."
	if req.FixtureExternalID%2 == 0 {
		body = "Both teams have found the net consistently; over 1.5 goals looks likely."
	}

	return Tip{
		FixtureExternalID: req.FixtureExternalID,
		Headline:          headline,
		Body:              body,
		GeneratedAt:       p.now().UTC(),
	}, nil
}
