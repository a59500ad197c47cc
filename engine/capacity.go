/*
capacity.go - Daily capacity resolution

PURPOSE:
  Answers, for one person and one date: how many hours count as regular
  time before overtime begins, and which day-level anomalies apply
  (holiday, non-working day, time off). This is a multi-source precedence
  resolver: overrides at three granularities, the person's profile, and
  the system defaults all compete per field.

PRECEDENCE (per field, independently):
  per-day override > weekly override > global override > profile > default

  The weekly/per-day bucket is only consulted when the override's mode
  selects it AND the bucket holds a value for that field. An empty bucket
  falls through to the override's own global values, then onward - never
  to a blanket "no override".

ANOMALY ORDER:
  1. Non-working weekday (profile-driven): capacity forced to 0
  2. baseCapacity captured (pre-anomaly value, reported for statistics)
  3. Holiday: capacity forced to 0, name/project recorded
  4. Time off: capacity reduced (full-day = baseCapacity, partial = hours),
     floored at 0; on a holiday the hours are recorded but nothing changes
  5. Record-based fallback detection when the holiday/time-off feature
     flags are off but the day's raw records carry holiday/time-off kinds

SEE ALSO:
  - types.go: PersonOverride and its chain()
  - aggregate.go: Calls Resolve once per person-day
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// DAY CAPACITY - Resolved threshold and anomaly flags for one person-day
// =============================================================================

// DayCapacity is the resolved outcome for one person and date. Capacity
// is the effective regular-hours threshold after anomaly adjustments;
// BaseCapacity is the pre-anomaly value used to report holiday/time-off
// hour magnitudes. The multiplier fields ride along because they resolve
// through the same override chain.
type DayCapacity struct {
	Capacity     Hours
	BaseCapacity Hours

	IsHoliday    bool
	IsNonWorking bool
	IsTimeOff    bool

	HolidayName    string
	HolidayProject ProjectID
	HolidayHours   Hours
	TimeOffHours   Hours

	Multiplier     decimal.Decimal
	TierThreshold  Hours
	TierMultiplier decimal.Decimal
}

// =============================================================================
// CAPACITY RESOLVER
// =============================================================================

// CapacityResolver resolves per-day capacity from the caller-supplied
// context. It is stateless; one instance may serve a whole run.
type CapacityResolver struct {
	Config    Config
	Params    CalculationParams
	Overrides map[PersonID]PersonOverride
	Profiles  map[PersonID]PersonProfile
	Holidays  map[PersonID]map[Day]Holiday
	TimeOff   map[PersonID]map[Day]TimeOffRecord
}

// NewCapacityResolver builds a resolver over one context snapshot.
func NewCapacityResolver(ctx Context) *CapacityResolver {
	return &CapacityResolver{
		Config:    ctx.Config,
		Params:    ctx.Params,
		Overrides: ctx.Overrides,
		Profiles:  ctx.Profiles,
		Holidays:  ctx.Holidays,
		TimeOff:   ctx.TimeOff,
	}
}

// Resolve computes the DayCapacity for one person and date. dayRecords
// are that day's raw records; they are consulted only for fallback
// anomaly detection when the holiday/time-off flags are off.
func (r *CapacityResolver) Resolve(person PersonID, day Day, dayRecords []TimeRecord) DayCapacity {
	buckets := r.overrideBuckets(person, day)
	profile, hasProfile := r.Profiles[person]

	out := DayCapacity{
		Capacity: r.resolveCapacity(buckets, profile, hasProfile),
		Multiplier: resolveFactor(buckets,
			func(v OverrideValues) *decimal.Decimal { return v.Multiplier },
			r.Params.OvertimeMultiplier),
		TierThreshold: resolveHours(buckets,
			func(v OverrideValues) *Hours { return v.TierThreshold },
			r.Params.TierThreshold),
		TierMultiplier: resolveFactor(buckets,
			func(v OverrideValues) *decimal.Decimal { return v.TierMultiplier },
			r.Params.TierMultiplier),
	}

	// Non-working weekday per profile. Independent of the later flags and
	// may coexist with them.
	if r.Config.UseProfileWorkingDays && hasProfile && !profile.WorksOn(day.Weekday()) {
		out.IsNonWorking = true
		out.Capacity = Hours{}
	}

	// Pre-anomaly capacity, reported as the magnitude of holiday and
	// full-day time-off adjustments.
	out.BaseCapacity = out.Capacity

	if r.Config.ApplyHolidays {
		if hol, ok := r.Holidays[person][day]; ok {
			r.markHoliday(&out, hol.Name, hol.ProjectID)
		}
	}

	if r.Config.ApplyTimeOff {
		if to, ok := r.TimeOff[person][day]; ok {
			r.markTimeOff(&out, to.FullDay, to.Hours)
		}
	}

	r.detectFromRecords(&out, dayRecords)

	if out.IsHoliday && out.HolidayHours.IsZero() {
		out.HolidayHours = out.BaseCapacity
	}
	return out
}

// overrideBuckets returns the override buckets for person/day in
// precedence order, or nil when the person has no override.
func (r *CapacityResolver) overrideBuckets(person PersonID, day Day) []OverrideValues {
	ov, ok := r.Overrides[person]
	if !ok {
		return nil
	}
	return ov.chain(day)
}

func (r *CapacityResolver) resolveCapacity(buckets []OverrideValues, profile PersonProfile, hasProfile bool) Hours {
	for _, b := range buckets {
		if b.Capacity != nil {
			return b.Capacity.Clamp()
		}
	}
	if r.Config.UseProfileCapacity && hasProfile && profile.CapacityHours != nil {
		return profile.CapacityHours.Clamp()
	}
	return r.Params.DailyThreshold.Clamp()
}

func resolveHours(buckets []OverrideValues, pick func(OverrideValues) *Hours, fallback Hours) Hours {
	for _, b := range buckets {
		if v := pick(b); v != nil {
			return *v
		}
	}
	return fallback
}

func resolveFactor(buckets []OverrideValues, pick func(OverrideValues) *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	for _, b := range buckets {
		if v := pick(b); v != nil {
			return *v
		}
	}
	return fallback
}

// =============================================================================
// ANOMALY APPLICATION
// =============================================================================

func (r *CapacityResolver) markHoliday(out *DayCapacity, name string, project ProjectID) {
	out.IsHoliday = true
	out.HolidayName = name
	out.HolidayProject = project
	out.Capacity = Hours{}
}

// markTimeOff records a time-off day. On a holiday the capacity is
// already zero; the hours are still recorded for statistics.
func (r *CapacityResolver) markTimeOff(out *DayCapacity, fullDay bool, hours Hours) {
	out.IsTimeOff = true

	reduction := hours.Clamp()
	if fullDay {
		reduction = out.BaseCapacity
	}
	out.TimeOffHours = reduction

	if !out.IsHoliday {
		out.Capacity = out.Capacity.Sub(reduction).Clamp()
	}
}

// detectFromRecords synthesizes holiday/time-off flags from the day's raw
// records when the corresponding feature flag is off (i.e. calendar data
// could not be fetched). Already-detected anomalies are not re-applied.
func (r *CapacityResolver) detectFromRecords(out *DayCapacity, dayRecords []TimeRecord) {
	for _, rec := range dayRecords {
		switch rec.Kind {
		case KindHoliday:
			if !r.Config.ApplyHolidays && !out.IsHoliday {
				r.markHoliday(out, "", rec.ProjectID)
			}
		case KindTimeOff:
			if !r.Config.ApplyTimeOff && !out.IsTimeOff {
				d := ResolveDuration(rec.Interval)
				r.markTimeOff(out, d.IsZero(), d)
			}
		}
	}
}
