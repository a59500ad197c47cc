/*
Package engine implements the overtime and cost analysis core.

PURPOSE:
  This package converts a flat batch of time-tracking records into a
  per-person, per-day, per-record breakdown of regular vs. overtime hours
  plus the monetary totals (earned, cost, profit) they produce. The whole
  computation is a pure, synchronous transform over an in-memory snapshot:
  no I/O, no hidden state between invocations.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeRecord: A single tracked interval with billability, kind and rates
  - PersonOverride: Per-person capacity/multiplier customization at
    global, weekly or per-date granularity
  - Holiday / TimeOffRecord: Day-level capacity adjustments
  - Config / CalculationParams: Feature toggles and numeric defaults
  - Context: The complete caller-supplied input snapshot for one run

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every hour and currency figure
  2. Totality: Malformed inputs resolve to safe zeroes, never errors
  3. Type Safety: Strong typing for person/record/project identifiers
  4. Purity: The engine reads the Context and returns a Result; caller
     data is never mutated unless AnnotateRecords is explicitly invoked

USAGE:
  result := engine.Calculate(engine.Context{
      From:    engine.NewDay(2025, time.March, 1),
      To:      engine.NewDay(2025, time.March, 31),
      Persons: roster,
      Records: records,
      Params:  engine.DefaultParams(),
  })

SEE ALSO:
  - capacity.go: Daily capacity resolution and anomaly flags
  - attribution.go: Within-day overtime split and cross-day tier tracking
  - aggregate.go: Orchestration and per-person totals
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PersonID string
type RecordID string
type ProjectID string

// Person is one roster entry. Every known person gets an analysis,
// even when the batch contains no records for them.
type Person struct {
	ID   PersonID
	Name string
}

// =============================================================================
// TIME RECORD - One tracked interval as delivered by the data provider
// =============================================================================

// Kind is the declared entry kind on a raw record.
type Kind string

const (
	KindWork    Kind = "work"
	KindBreak   Kind = "break"
	KindHoliday Kind = "holiday"
	KindTimeOff Kind = "time_off"
)

// Interval is the record's time span. Duration, when present, is an
// ISO-8601 duration string ("PT8H30M"); it wins over end-minus-start.
type Interval struct {
	Start    time.Time
	End      time.Time
	Duration string
}

// AmountKind tags entries in a record's auxiliary amount list.
type AmountKind string

const (
	AmountEarned AmountKind = "EARNED"
	AmountCost   AmountKind = "COST"
)

// AmountEntry is a typed total-currency figure attached to a record.
// Divided by the record duration it yields an hourly rate.
type AmountEntry struct {
	Kind  AmountKind
	Value decimal.Decimal
}

// TimeRecord is one raw time entry. The engine reads it; the Analysis
// field is only written by AnnotateRecords at the caller's request.
type TimeRecord struct {
	ID        RecordID
	PersonID  PersonID
	ProjectID ProjectID
	Interval  Interval
	Billable  bool
	Kind      Kind

	// Rate information. A rate may arrive directly (EarnedRate/CostRate),
	// via the generic HourlyRate, or via the Amounts list. Nil means absent.
	EarnedRate *decimal.Decimal
	CostRate   *decimal.Decimal
	HourlyRate *decimal.Decimal
	Amounts    []AmountEntry

	Analysis *RecordAnalysis
}

// =============================================================================
// PERSON PROFILE - Externally sourced defaults, feature-flag gated
// =============================================================================

// PersonProfile carries the provider-sourced daily capacity and working
// weekday set. Both are optional; nil means the profile says nothing.
type PersonProfile struct {
	CapacityHours *Hours
	WorkingDays   []time.Weekday
}

// WorksOn reports whether the profile's working-day set includes wd.
// A profile without a declared set works every day.
func (p PersonProfile) WorksOn(wd time.Weekday) bool {
	if p.WorkingDays == nil {
		return true
	}
	for _, d := range p.WorkingDays {
		if d == wd {
			return true
		}
	}
	return false
}

// =============================================================================
// PERSON OVERRIDE - Multi-level capacity/multiplier customization
// =============================================================================

// OverrideMode selects which bucket table of a PersonOverride is active.
type OverrideMode string

const (
	OverrideGlobal OverrideMode = "global"
	OverrideWeekly OverrideMode = "weekly"
	OverridePerDay OverrideMode = "perDay"
)

// OverrideValues is one bucket of the four customizable fields.
// Nil fields defer to the next precedence tier.
type OverrideValues struct {
	Capacity       *Hours           `json:"capacity,omitempty"`
	Multiplier     *decimal.Decimal `json:"multiplier,omitempty"`
	TierThreshold  *Hours           `json:"tier_threshold,omitempty"`
	TierMultiplier *decimal.Decimal `json:"tier_multiplier,omitempty"`
}

// PersonOverride customizes capacity and overtime multipliers for one
// person. Precedence per field: per-day (exact date) > weekly (weekday
// bucket) > global > profile > system default. The weekly/per-day layer
// is only consulted when its mode is active AND its bucket has a value;
// otherwise resolution falls through, never to a blanket "no override".
type PersonOverride struct {
	Mode   OverrideMode                    `json:"mode"`
	Global OverrideValues                  `json:"global"`
	Weekly map[time.Weekday]OverrideValues `json:"weekly,omitempty"`
	PerDay map[Day]OverrideValues          `json:"per_day,omitempty"`
}

// chain returns the override buckets to consult for day, highest
// precedence first. The global bucket is always the last entry.
func (o *PersonOverride) chain(day Day) []OverrideValues {
	var out []OverrideValues
	switch o.Mode {
	case OverridePerDay:
		if v, ok := o.PerDay[day]; ok {
			out = append(out, v)
		}
	case OverrideWeekly:
		if v, ok := o.Weekly[day.Weekday()]; ok {
			out = append(out, v)
		}
	}
	return append(out, o.Global)
}

// =============================================================================
// HOLIDAYS AND TIME OFF - Day-level capacity adjustments
// =============================================================================

// Holiday marks one date as a zero-capacity day. Multi-day holidays are
// expanded by the caller into one entry per covered date (ExpandHoliday).
type Holiday struct {
	Date      Day       `json:"date"`
	Name      string    `json:"name"`
	ProjectID ProjectID `json:"project_id,omitempty"`
}

// ExpandHoliday produces one Holiday per date in [from, to].
func ExpandHoliday(name string, project ProjectID, from, to Day) []Holiday {
	var out []Holiday
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, Holiday{Date: d, Name: name, ProjectID: project})
	}
	return out
}

// TimeOffRecord marks one date as a full or partial absence.
type TimeOffRecord struct {
	Date    Day   `json:"date"`
	FullDay bool  `json:"full_day"`
	Hours   Hours `json:"hours"`
}

// =============================================================================
// CONFIG AND CALCULATION PARAMS - Global toggles and numeric defaults
// =============================================================================

// AmountBasis selects which rate basis feeds person-level totals.
type AmountBasis string

const (
	BasisEarned AmountBasis = "earned"
	BasisCost   AmountBasis = "cost"
)

// Config carries the global feature toggles.
type Config struct {
	UseProfileCapacity    bool        `json:"use_profile_capacity"`
	UseProfileWorkingDays bool        `json:"use_profile_working_days"`
	ApplyHolidays         bool        `json:"apply_holidays"`
	ApplyTimeOff          bool        `json:"apply_time_off"`
	AmountDisplay         AmountBasis `json:"amount_display"`
}

// Basis returns the configured display basis, defaulting to earned.
func (c Config) Basis() AmountBasis {
	if c.AmountDisplay == BasisCost {
		return BasisCost
	}
	return BasisEarned
}

// CalculationParams carries the system-wide numeric defaults. TierThreshold
// is the cumulative overtime (in hours, across days) after which the
// second-tier multiplier applies; a negative threshold disables the tier,
// as does a TierMultiplier at or below OvertimeMultiplier.
type CalculationParams struct {
	DailyThreshold     Hours           `json:"daily_threshold"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
	TierThreshold      Hours           `json:"tier_threshold"`
	TierMultiplier     decimal.Decimal `json:"tier_multiplier"`
}

// DefaultParams returns the stock parameters: 8h days, 1.5x overtime,
// second tier disabled.
func DefaultParams() CalculationParams {
	return CalculationParams{
		DailyThreshold:     HoursOf(8),
		OvertimeMultiplier: decimal.NewFromFloat(1.5),
		TierThreshold:      HoursOf(-1),
		TierMultiplier:     decimal.Zero,
	}
}

// =============================================================================
// CONTEXT - The complete input snapshot for one calculation run
// =============================================================================

// Context bundles everything one Calculate invocation reads. All maps are
// caller-owned caches; the engine never writes to them and holds no
// reference past the call. Concurrent runs need independent snapshots.
type Context struct {
	From Day
	To   Day

	Persons []Person
	Records []TimeRecord

	Profiles  map[PersonID]PersonProfile
	Holidays  map[PersonID]map[Day]Holiday
	TimeOff   map[PersonID]map[Day]TimeOffRecord
	Overrides map[PersonID]PersonOverride

	Config Config
	Params CalculationParams
}
