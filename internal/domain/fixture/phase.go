package fixture

import "strings"

// Phase is the stage of a match. Lifecycle:
// scheduled -> live -> ht -> 2h -> [et1 -> et_ht -> et2] -> pens -> finished,
// plus a direct jump to finished when a match drops out of the live feed.
type Phase string

const (
	PhaseScheduled   Phase = "scheduled"
	PhaseLive        Phase = "live"
	PhaseHalfTime    Phase = "ht"
	PhaseSecondHalf  Phase = "2h"
	PhaseExtraFirst  Phase = "et1"
	PhaseExtraBreak  Phase = "et_ht"
	PhaseExtraSecond Phase = "et2"
	PhasePenalties   Phase = "pens"
	PhaseFinished    Phase = "finished"
)

// baseMinuteByPhase anchors the display clock for each in-play phase. Pause
// phases carry the ceiling of the leg they follow so the clock can resume
// from a consistent baseline.
var baseMinuteByPhase = map[Phase]int{
	PhaseLive:        0,
	PhaseHalfTime:    45,
	PhaseSecondHalf:  45,
	PhaseExtraFirst:  90,
	PhaseExtraBreak:  105,
	PhaseExtraSecond: 105,
	PhasePenalties:   120,
}

// minuteCeilingByPhase is the regulation minute at which a running phase
// switches to stoppage notation.
var minuteCeilingByPhase = map[Phase]int{
	PhaseLive:        45,
	PhaseSecondHalf:  90,
	PhaseExtraFirst:  105,
	PhaseExtraSecond: 120,
}

// statusToPhase translates provider short status codes. Interrupted play
// (SUSP, INT) stays tracked as live; abandoned-like outcomes are terminal;
// postponed matches go back to the schedule.
var statusToPhase = map[string]Phase{
	"NS":   PhaseScheduled,
	"TBD":  PhaseScheduled,
	"PST":  PhaseScheduled,
	"1H":   PhaseLive,
	"LIVE": PhaseLive,
	"SUSP": PhaseLive,
	"INT":  PhaseLive,
	"HT":   PhaseHalfTime,
	"2H":   PhaseSecondHalf,
	"ET":   PhaseExtraFirst,
	"BT":   PhaseExtraBreak,
	"P":    PhasePenalties,
	"FT":   PhaseFinished,
	"AET":  PhaseFinished,
	"PEN":  PhaseFinished,
	"CANC": PhaseFinished,
	"ABD":  PhaseFinished,
	"AWD":  PhaseFinished,
	"WO":   PhaseFinished,
}

// PhaseFromStatus maps a provider status code to a phase. The provider uses
// one code for both extra-time legs, so the reported elapsed minute picks the
// leg. Unknown codes map to scheduled so a new provider code never breaks a
// running sync; callers are expected to log them.
func PhaseFromStatus(short string, elapsed *int) (Phase, bool) {
	phase, ok := statusToPhase[strings.ToUpper(strings.TrimSpace(short))]
	if !ok {
		return PhaseScheduled, false
	}
	if phase == PhaseExtraFirst && elapsed != nil && *elapsed > 105 {
		return PhaseExtraSecond, true
	}
	return phase, true
}

// BaseMinute returns the canonical display-clock baseline for a phase.
func BaseMinute(phase Phase) (int, bool) {
	base, ok := baseMinuteByPhase[phase]
	return base, ok
}

// MinuteCeiling returns the stoppage-time threshold for a running phase.
func MinuteCeiling(phase Phase) (int, bool) {
	ceiling, ok := minuteCeilingByPhase[phase]
	return ceiling, ok
}

// IsRunning reports whether the match clock is ticking in this phase.
func (p Phase) IsRunning() bool {
	switch p {
	case PhaseLive, PhaseSecondHalf, PhaseExtraFirst, PhaseExtraSecond:
		return true
	default:
		return false
	}
}

// IsTrackedLive reports whether the fixture is mid-match from the
// reconciler's point of view: not scheduled, not terminal.
func (p Phase) IsTrackedLive() bool {
	switch p {
	case PhaseScheduled, PhaseFinished:
		return false
	default:
		return true
	}
}

// TrackedLivePhases lists every phase the reconciler keeps polling for.
func TrackedLivePhases() []Phase {
	return []Phase{
		PhaseLive,
		PhaseHalfTime,
		PhaseSecondHalf,
		PhaseExtraFirst,
		PhaseExtraBreak,
		PhaseExtraSecond,
		PhasePenalties,
	}
}
