package matchclock

import (
	"strconv"
	"time"

	"github.com/matchpulse/livecenter/internal/domain/fixture"
)

// Snapshot is the slice of fixture state the clock needs. It is read once
// per render; the label is recomputed from wall-clock time, never polled.
type Snapshot struct {
	Phase          fixture.Phase
	PhaseStartedAt *time.Time
	BaseMinute     *int
	KickoffAt      time.Time
}

// Status is the derived display state for one fixture.
type Status struct {
	Label       string
	IsLive      bool
	IsHalfTime  bool
	IsFinished  bool
	IsPenalties bool
}

const (
	labelHalfTime      = "HT"
	labelExtraBreak    = "ET HT"
	labelPenalties     = "PEN"
	labelFullTime      = "FT"
	labelLiveFallback  = "LIVE"
	kickoffLabelLayout = "15:04"
)

// Compute derives the display minute and status flags for a fixture at the
// given instant. It is pure: same snapshot and now always yield the same
// status.
func Compute(snap Snapshot, now time.Time) Status {
	switch snap.Phase {
	case fixture.PhaseScheduled:
		return Status{Label: snap.KickoffAt.Format(kickoffLabelLayout)}
	case fixture.PhaseHalfTime:
		return Status{Label: labelHalfTime, IsHalfTime: true}
	case fixture.PhaseExtraBreak:
		return Status{Label: labelExtraBreak, IsHalfTime: true}
	case fixture.PhasePenalties:
		return Status{Label: labelPenalties, IsPenalties: true}
	case fixture.PhaseFinished:
		return Status{Label: labelFullTime, IsFinished: true}
	}

	if !snap.Phase.IsRunning() {
		return Status{Label: labelLiveFallback, IsLive: true}
	}
	if snap.PhaseStartedAt == nil || snap.BaseMinute == nil {
		// Timing fields lag one sync behind the phase on occasion.
		return Status{Label: labelLiveFallback, IsLive: true}
	}

	elapsed := int(now.Sub(*snap.PhaseStartedAt) / time.Minute)
	if elapsed < 0 {
		elapsed = 0
	}
	minute := *snap.BaseMinute + elapsed

	label := strconv.Itoa(minute)
	if ceiling, ok := fixture.MinuteCeiling(snap.Phase); ok && minute >= ceiling {
		label = strconv.Itoa(ceiling) + "+" + strconv.Itoa(minute-ceiling)
	}

	return Status{Label: label, IsLive: true}
}
