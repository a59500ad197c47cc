/*
attribution.go - Overtime attribution

PURPOSE:
  Two stateful accumulators decide where overtime lands:

  DayAccumulator ("tail attribution"): within one day, work records are
  processed in start-time order against the day's capacity. The earliest
  hours of the day fill the regular quota; whatever work happens latest
  absorbs the overtime. A record straddling the threshold is split.

  TierAccumulator: across one person's chronological day sequence, tracks
  cumulative overtime hours. Once the cumulative total crosses the
  configured threshold, further overtime hours attract the second-tier
  multiplier. Must be updated exactly once per overtime-bearing record,
  in traversal order - reordering silently changes tier results.

  Both accumulators are local to a single calculation run and never
  shared across persons or invocations.
*/
package engine

// =============================================================================
// DAY ACCUMULATOR - Within-day tail attribution
// =============================================================================

// DayAccumulator splits work durations into regular and overtime portions
// against one day's capacity. Break and paid-leave records bypass it
// entirely and never advance the running total.
type DayAccumulator struct {
	capacity Hours
	used     Hours
}

func NewDayAccumulator(capacity Hours) *DayAccumulator {
	return &DayAccumulator{capacity: capacity.Clamp()}
}

// Split attributes a work record's duration. Invariant: regular+overtime
// equals the duration exactly, and the accumulator advances by the full
// duration regardless of which branch applies.
func (a *DayAccumulator) Split(duration Hours) (regular, overtime Hours) {
	duration = duration.Clamp()

	switch {
	case a.used.GreaterOrEqual(a.capacity):
		// Quota already exhausted: everything is overtime.
		regular, overtime = Hours{}, duration
	case a.used.Add(duration).GreaterThan(a.capacity):
		// Straddles the threshold.
		regular = a.capacity.Sub(a.used)
		overtime = duration.Sub(regular)
	default:
		regular, overtime = duration, Hours{}
	}

	a.used = a.used.Add(duration)
	return regular, overtime
}

// Used returns the total work duration processed so far today.
func (a *DayAccumulator) Used() Hours { return a.used }

// =============================================================================
// TIER ACCUMULATOR - Cross-day second-tier overtime tracking
// =============================================================================

// TierAccumulator tracks one person's cumulative overtime across the
// chronological day sequence of a single run. Thresholds are passed per
// call because per-day overrides may change them mid-range.
type TierAccumulator struct {
	cumulative Hours
}

// Take consumes one overtime interval and returns how many of its hours
// fall past the tier threshold. enabled=false (tier multiplier not above
// the base multiplier) or a negative threshold disables the tier; the
// cumulative total still advances so later days see the full history.
func (t *TierAccumulator) Take(overtime, threshold Hours, enabled bool) Hours {
	overtime = overtime.Clamp()
	before := t.cumulative
	t.cumulative = t.cumulative.Add(overtime)

	if !enabled || threshold.IsNegative() {
		return Hours{}
	}

	after := before.Add(overtime)
	switch {
	case !after.GreaterThan(threshold):
		return Hours{}
	case before.GreaterOrEqual(threshold):
		return overtime
	default:
		return after.Sub(threshold)
	}
}

// Cumulative returns total overtime hours processed so far for this person.
func (t *TierAccumulator) Cumulative() Hours { return t.cumulative }
