/*
aggregate.go - Analysis orchestration

PURPOSE:
  Drives the full calculation: groups records by person and day, walks
  the entire date range (including empty days, so expected-capacity
  totals stay deterministic regardless of data sparsity), and for each
  record runs classification, tail attribution, rate resolution, tier
  tracking and amount computation, folding everything into per-person
  totals.

CONTROL FLOW:
  persons -> days in range -> (capacity once per day)
    -> sort day's records by start time (stable; ties keep input order)
    -> per record: classify -> split work into regular/overtime
       -> resolve rates -> tier update if overtime > 0 -> price both bases
    -> record annotation + fold into totals

FAILURE SEMANTICS:
  Nothing here returns an error. Records without a usable start time are
  annotated with zeroes but belong to no day; malformed durations resolve
  to zero; every numeric guard resolves to a safe default rather than
  aborting the batch.

SEE ALSO:
  - capacity.go: Per-day threshold resolution
  - attribution.go: The two accumulators threaded through this loop
*/
package engine

import (
	"sort"
)

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// Tag is a day-level anomaly marker copied onto record annotations.
type Tag string

const (
	TagHoliday Tag = "HOLIDAY"
	TagOffDay  Tag = "OFF-DAY"
	TagTimeOff Tag = "TIME-OFF"
)

// RecordAnalysis is the classification annotated onto one record.
// Amount fields are priced on the configured display basis; Cost is the
// overtime-inclusive total on the cost basis regardless of display mode,
// and Profit is always earned total minus cost total.
type RecordAnalysis struct {
	Class    Class
	Regular  Hours
	Overtime Hours
	Billable bool

	Rate   Money
	Cost   Money
	Profit Money

	RegularAmount     Money
	OvertimeAmount    Money
	Tier1Premium      Money
	Tier2Premium      Money
	TotalWithOvertime Money
	TotalPlain        Money

	Tags []Tag
}

// DayAnalysis bundles one day's resolved capacity with its records.
type DayAnalysis struct {
	Date     Day
	Capacity DayCapacity
	Records  []RecordResult
}

// RecordResult pairs a record identity with its annotation, preserving
// the processing order within the day.
type RecordResult struct {
	RecordID RecordID
	Analysis *RecordAnalysis
}

// Totals is the per-person aggregate over the whole range.
type Totals struct {
	Regular  Hours
	Overtime Hours
	Total    Hours
	Breaks   Hours

	Billable    Hours
	NonBillable Hours

	Amount       Money
	Profit       Money
	Tier1Premium Money
	Tier2Premium Money

	ExpectedCapacity Hours

	HolidayCount int
	HolidayHours Hours
	TimeOffCount int
	TimeOffHours Hours
}

// PersonAnalysis is one person's complete result, created fresh per run
// even when the person has zero records.
type PersonAnalysis struct {
	Person Person
	Days   map[Day]*DayAnalysis
	Totals Totals
}

// Result is the output of one Calculate invocation. Annotations holds
// every processed record's analysis keyed by record identity, including
// records that could not be assigned to a day.
type Result struct {
	Analyses    []PersonAnalysis
	Annotations map[RecordID]*RecordAnalysis
}

// AnnotateRecords writes the computed analyses back onto the caller's
// records, for callers that want the mutate-in-place contract instead of
// the side-effect-free Result.
func AnnotateRecords(records []TimeRecord, annotations map[RecordID]*RecordAnalysis) {
	for i := range records {
		if a, ok := annotations[records[i].ID]; ok {
			records[i].Analysis = a
		}
	}
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Calculate runs the full analysis over one context snapshot. It never
// fails: a closed, already-fetched input set always produces a Result.
func Calculate(ctx Context) *Result {
	agg := &aggregator{
		ctx:      ctx,
		capacity: NewCapacityResolver(ctx),
		result:   &Result{Annotations: make(map[RecordID]*RecordAnalysis)},
	}
	return agg.run()
}

type aggregator struct {
	ctx      Context
	capacity *CapacityResolver
	result   *Result
}

func (g *aggregator) run() *Result {
	from, to, ok := g.resolveRange()
	if !ok {
		return g.result
	}

	grouped, dayless := g.groupRecords(from, to)

	// Records that cannot even be assigned to a day still receive a zero
	// annotation so every input record reports an analysis.
	for _, rec := range dayless {
		g.result.Annotations[rec.ID] = &RecordAnalysis{
			Class:    Classify(rec.Kind),
			Billable: rec.Billable,
		}
	}

	for _, person := range g.roster(grouped) {
		analysis := g.analyzePerson(person, from, to, grouped[person.ID])
		g.result.Analyses = append(g.result.Analyses, analysis)
	}
	return g.result
}

// resolveRange returns the inclusive date range, deriving it from the
// records when the caller left it open.
func (g *aggregator) resolveRange() (Day, Day, bool) {
	from, to := g.ctx.From, g.ctx.To
	if from.IsZero() || to.IsZero() {
		for _, rec := range g.ctx.Records {
			if !HasUsableInterval(rec.Interval) {
				continue
			}
			d := DayOf(rec.Interval.Start)
			if from.IsZero() || d.Before(from) {
				from = d
			}
			if to.IsZero() || d.After(to) {
				to = d
			}
		}
	}
	if from.IsZero() || to.IsZero() || from.After(to) {
		return Day{}, Day{}, false
	}
	return from, to, true
}

// groupRecords splits the batch into per-person per-day groups plus the
// records that carry no usable start time. Records outside the range are
// ignored entirely.
func (g *aggregator) groupRecords(from, to Day) (map[PersonID]map[Day][]TimeRecord, []TimeRecord) {
	grouped := make(map[PersonID]map[Day][]TimeRecord)
	var dayless []TimeRecord

	for _, rec := range g.ctx.Records {
		if !HasUsableInterval(rec.Interval) {
			dayless = append(dayless, rec)
			continue
		}
		day := DayOf(rec.Interval.Start)
		if day.Before(from) || day.After(to) {
			continue
		}
		byDay := grouped[rec.PersonID]
		if byDay == nil {
			byDay = make(map[Day][]TimeRecord)
			grouped[rec.PersonID] = byDay
		}
		byDay[day] = append(byDay[day], rec)
	}
	return grouped, dayless
}

// roster returns the persons to analyze: the caller's roster plus any
// record owners missing from it, in a deterministic order.
func (g *aggregator) roster(grouped map[PersonID]map[Day][]TimeRecord) []Person {
	persons := make([]Person, 0, len(g.ctx.Persons))
	seen := make(map[PersonID]bool, len(g.ctx.Persons))
	for _, p := range g.ctx.Persons {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		persons = append(persons, p)
	}

	var extra []Person
	for id := range grouped {
		if !seen[id] {
			extra = append(extra, Person{ID: id, Name: string(id)})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ID < extra[j].ID })
	return append(persons, extra...)
}

// =============================================================================
// PER-PERSON FOLD
// =============================================================================

func (g *aggregator) analyzePerson(person Person, from, to Day, byDay map[Day][]TimeRecord) PersonAnalysis {
	analysis := PersonAnalysis{
		Person: person,
		Days:   make(map[Day]*DayAnalysis),
	}

	// Cross-day tier state, threaded chronologically. Local to this
	// person and this run.
	tiers := &TierAccumulator{}

	EachDay(from, to, func(day Day) {
		dayRecords := byDay[day]
		dayCap := g.capacity.Resolve(person.ID, day, dayRecords)

		analysis.Totals.ExpectedCapacity = analysis.Totals.ExpectedCapacity.Add(dayCap.Capacity)
		if dayCap.IsHoliday {
			analysis.Totals.HolidayCount++
			analysis.Totals.HolidayHours = analysis.Totals.HolidayHours.Add(dayCap.HolidayHours)
		}
		if dayCap.IsTimeOff {
			analysis.Totals.TimeOffCount++
			analysis.Totals.TimeOffHours = analysis.Totals.TimeOffHours.Add(dayCap.TimeOffHours)
		}
		if len(dayRecords) == 0 {
			return
		}

		dayResult := g.analyzeDay(day, dayCap, dayRecords, tiers, &analysis.Totals)
		analysis.Days[day] = dayResult
	})

	return analysis
}

func (g *aggregator) analyzeDay(day Day, dayCap DayCapacity, records []TimeRecord, tiers *TierAccumulator, totals *Totals) *DayAnalysis {
	// Stable sort: identical start times keep original input order, so
	// repeated runs attribute overtime identically.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Interval.Start.Before(records[j].Interval.Start)
	})

	dayResult := &DayAnalysis{Date: day, Capacity: dayCap}
	accumulator := NewDayAccumulator(dayCap.Capacity)
	tags := dayTags(dayCap)
	tierEnabled := TierEnabled(dayCap.Multiplier, dayCap.TierMultiplier)

	for _, rec := range records {
		class := Classify(rec.Kind)
		duration := ResolveDuration(rec.Interval)

		regular, overtime := duration, Hours{}
		if class == ClassWork {
			regular, overtime = accumulator.Split(duration)
		}

		var tierHours Hours
		if overtime.IsPositive() {
			tierHours = tiers.Take(overtime, dayCap.TierThreshold, tierEnabled)
		}

		rates := ResolveRates(rec, duration)
		annotation := g.price(rec, dayCap, rates, regular, overtime, tierHours)
		annotation.Class = class
		annotation.Tags = tags

		g.result.Annotations[rec.ID] = annotation
		dayResult.Records = append(dayResult.Records, RecordResult{RecordID: rec.ID, Analysis: annotation})

		foldTotals(totals, class, duration, regular, overtime, annotation)
	}
	return dayResult
}

// price computes both rate bases and assembles the annotation. The
// display basis feeds the amount fields; profit always comes from both.
func (g *aggregator) price(rec TimeRecord, dayCap DayCapacity, rates Rates, regular, overtime, tierHours Hours) *RecordAnalysis {
	earned := CalculateAmounts(AmountInput{
		Rate:           rates.Earned,
		Regular:        regular,
		Overtime:       overtime,
		Multiplier:     dayCap.Multiplier,
		TierHours:      tierHours,
		TierMultiplier: dayCap.TierMultiplier,
	})
	cost := CalculateAmounts(AmountInput{
		Rate:           rates.Cost,
		Regular:        regular,
		Overtime:       overtime,
		Multiplier:     dayCap.Multiplier,
		TierHours:      tierHours,
		TierMultiplier: dayCap.TierMultiplier,
	})

	display, displayRate := earned, rates.Earned
	if g.ctx.Config.Basis() == BasisCost {
		display, displayRate = cost, rates.Cost
	}

	return &RecordAnalysis{
		Regular:           regular,
		Overtime:          overtime,
		Billable:          rec.Billable,
		Rate:              displayRate,
		Cost:              cost.TotalWithOvertime,
		Profit:            earned.TotalWithOvertime.Sub(cost.TotalWithOvertime),
		RegularAmount:     display.Regular,
		OvertimeAmount:    display.OvertimeBase,
		Tier1Premium:      display.Tier1Premium,
		Tier2Premium:      display.Tier2Premium,
		TotalWithOvertime: display.TotalWithOvertime,
		TotalPlain:        display.TotalPlain,
	}
}

func foldTotals(totals *Totals, class Class, duration, regular, overtime Hours, a *RecordAnalysis) {
	switch class {
	case ClassBreak:
		totals.Breaks = totals.Breaks.Add(duration)
	default:
		totals.Regular = totals.Regular.Add(regular)
		totals.Overtime = totals.Overtime.Add(overtime)
		totals.Total = totals.Total.Add(duration)
	}

	if a.Billable {
		totals.Billable = totals.Billable.Add(duration)
	} else {
		totals.NonBillable = totals.NonBillable.Add(duration)
	}

	totals.Amount = totals.Amount.Add(a.TotalWithOvertime)
	totals.Profit = totals.Profit.Add(a.Profit)
	totals.Tier1Premium = totals.Tier1Premium.Add(a.Tier1Premium)
	totals.Tier2Premium = totals.Tier2Premium.Add(a.Tier2Premium)
}

func dayTags(dayCap DayCapacity) []Tag {
	var tags []Tag
	if dayCap.IsHoliday {
		tags = append(tags, TagHoliday)
	}
	if dayCap.IsNonWorking {
		tags = append(tags, TagOffDay)
	}
	if dayCap.IsTimeOff {
		tags = append(tags, TagTimeOff)
	}
	return tags
}
