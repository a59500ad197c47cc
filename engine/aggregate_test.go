package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// SHARED TEST HELPERS
// =============================================================================

func hours(v float64) engine.Hours { return engine.HoursOf(v) }
func money(v float64) engine.Money { return engine.MoneyOf(v) }

func day(s string) engine.Day {
	d, err := engine.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// work builds a billable work record starting at hour h on the given day.
func work(id string, person engine.PersonID, d engine.Day, startHour, durationHours float64, hourlyRate float64) engine.TimeRecord {
	start := d.Time().Add(time.Duration(startHour * float64(time.Hour)))
	rate := decimal.NewFromFloat(hourlyRate)
	return engine.TimeRecord{
		ID:         engine.RecordID(id),
		PersonID:   person,
		Interval:   engine.Interval{Start: start, End: start.Add(time.Duration(durationHours * float64(time.Hour)))},
		Billable:   true,
		Kind:       engine.KindWork,
		HourlyRate: &rate,
	}
}

func singlePersonContext(records ...engine.TimeRecord) engine.Context {
	return engine.Context{
		Persons: []engine.Person{{ID: "p1", Name: "Person One"}},
		Records: records,
		Params:  engine.DefaultParams(),
	}
}

func personResult(t *testing.T, result *engine.Result, id engine.PersonID) engine.PersonAnalysis {
	t.Helper()
	for _, a := range result.Analyses {
		if a.Person.ID == id {
			return a
		}
	}
	t.Fatalf("no analysis for person %s", id)
	return engine.PersonAnalysis{}
}

// =============================================================================
// END-TO-END CALCULATION TESTS
// =============================================================================

func TestCalculate_TenHourDay_SplitsAndPrices(t *testing.T) {
	// GIVEN: One 10h record on an 8h-capacity day at 20/h, 1.5x overtime
	// WHEN: Calculating
	// THEN: 8h regular, 2h overtime, total amount 220

	result := engine.Calculate(singlePersonContext(
		work("r1", "p1", day("2026-03-02"), 8, 10, 20),
	))

	a := result.Annotations["r1"]
	if a == nil {
		t.Fatal("record r1 has no annotation")
	}
	if !a.Regular.Equal(hours(8)) {
		t.Errorf("expected 8h regular, got %v", a.Regular)
	}
	if !a.Overtime.Equal(hours(2)) {
		t.Errorf("expected 2h overtime, got %v", a.Overtime)
	}
	if !a.TotalWithOvertime.Equal(money(220)) {
		t.Errorf("expected 220 total, got %v", a.TotalWithOvertime)
	}

	totals := personResult(t, result, "p1").Totals
	if !totals.Amount.Equal(money(220)) {
		t.Errorf("expected person amount 220, got %v", totals.Amount)
	}
}

func TestCalculate_TailAttribution_LatestRecordAbsorbsOvertime(t *testing.T) {
	// GIVEN: A 6h morning record and a 4h evening record on an 8h day
	// WHEN: Calculating
	// THEN: The morning is all regular; the evening splits 2h/2h

	result := engine.Calculate(singlePersonContext(
		// Deliberately supplied evening-first: attribution must follow
		// start time, not input order.
		work("evening", "p1", day("2026-03-02"), 15, 4, 20),
		work("morning", "p1", day("2026-03-02"), 8, 6, 20),
	))

	morning := result.Annotations["morning"]
	if !morning.Regular.Equal(hours(6)) || !morning.Overtime.IsZero() {
		t.Errorf("morning: expected 6h/0h, got %v/%v", morning.Regular, morning.Overtime)
	}

	evening := result.Annotations["evening"]
	if !evening.Regular.Equal(hours(2)) || !evening.Overtime.Equal(hours(2)) {
		t.Errorf("evening: expected 2h/2h, got %v/%v", evening.Regular, evening.Overtime)
	}
}

func TestCalculate_IdenticalStartTimes_InputOrderStable(t *testing.T) {
	// GIVEN: Two records with the same start time straddling the threshold
	// WHEN: Calculating repeatedly
	// THEN: The earlier input record always takes the regular hours

	build := func() engine.Context {
		return singlePersonContext(
			work("first", "p1", day("2026-03-02"), 9, 5, 20),
			work("second", "p1", day("2026-03-02"), 9, 5, 20),
		)
	}

	for i := 0; i < 10; i++ {
		result := engine.Calculate(build())
		first := result.Annotations["first"]
		second := result.Annotations["second"]
		if !first.Overtime.IsZero() {
			t.Fatalf("run %d: first record absorbed overtime %v", i, first.Overtime)
		}
		if !second.Overtime.Equal(hours(2)) {
			t.Fatalf("run %d: expected second record overtime 2h, got %v", i, second.Overtime)
		}
	}
}

func TestCalculate_CrossDayTier_AccumulatesChronologically(t *testing.T) {
	// GIVEN: Two 10h days (2h overtime each), tier threshold 1h, tier 2.0x,
	//        rate 20/h
	// WHEN: Calculating
	// THEN: Day one: 1h of its overtime is second tier; day two: all 2h.
	//       Day 1 total: 160+40+20+10 = 230. Day 2 total: 160+40+20+20 = 240.

	ctx := singlePersonContext(
		work("d1", "p1", day("2026-03-02"), 8, 10, 20),
		work("d2", "p1", day("2026-03-03"), 8, 10, 20),
	)
	ctx.Params.TierThreshold = engine.HoursOf(1)
	ctx.Params.TierMultiplier = decimal.NewFromFloat(2.0)

	result := engine.Calculate(ctx)

	d1 := result.Annotations["d1"]
	if !d1.Tier2Premium.Equal(money(10)) {
		t.Errorf("day1: expected tier-2 premium 10, got %v", d1.Tier2Premium)
	}
	if !d1.TotalWithOvertime.Equal(money(230)) {
		t.Errorf("day1: expected 230, got %v", d1.TotalWithOvertime)
	}

	d2 := result.Annotations["d2"]
	if !d2.Tier2Premium.Equal(money(20)) {
		t.Errorf("day2: expected tier-2 premium 20, got %v", d2.Tier2Premium)
	}
	if !d2.TotalWithOvertime.Equal(money(240)) {
		t.Errorf("day2: expected 240, got %v", d2.TotalWithOvertime)
	}
}

func TestCalculate_TierState_NotSharedAcrossPersons(t *testing.T) {
	// GIVEN: Two persons with identical overtime-heavy days
	// WHEN: Calculating with a cumulative tier threshold
	// THEN: Each person's tier accumulates independently

	ctx := engine.Context{
		Persons: []engine.Person{{ID: "p1"}, {ID: "p2"}},
		Records: []engine.TimeRecord{
			work("p1-d1", "p1", day("2026-03-02"), 8, 10, 20),
			work("p2-d1", "p2", day("2026-03-02"), 8, 10, 20),
		},
		Params: engine.DefaultParams(),
	}
	ctx.Params.TierThreshold = engine.HoursOf(1)
	ctx.Params.TierMultiplier = decimal.NewFromFloat(2.0)

	result := engine.Calculate(ctx)

	for _, id := range []engine.RecordID{"p1-d1", "p2-d1"} {
		if got := result.Annotations[id].Tier2Premium; !got.Equal(money(10)) {
			t.Errorf("%s: expected tier-2 premium 10, got %v", id, got)
		}
	}
}

func TestCalculate_BreaksBypassAttribution(t *testing.T) {
	// GIVEN: 8h of work around a 1h break
	// WHEN: Calculating
	// THEN: The break never advances the quota, so no overtime appears;
	//       break hours land in their own bucket

	lunch := work("lunch", "p1", day("2026-03-02"), 12, 1, 0)
	lunch.Kind = engine.KindBreak

	result := engine.Calculate(singlePersonContext(
		work("am", "p1", day("2026-03-02"), 8, 4, 20),
		lunch,
		work("pm", "p1", day("2026-03-02"), 13, 4, 20),
	))

	pm := result.Annotations["pm"]
	if !pm.Overtime.IsZero() {
		t.Errorf("break inflated the quota: pm overtime %v", pm.Overtime)
	}

	totals := personResult(t, result, "p1").Totals
	if !totals.Breaks.Equal(hours(1)) {
		t.Errorf("expected 1h breaks, got %v", totals.Breaks)
	}
	if !totals.Total.Equal(hours(8)) {
		t.Errorf("expected 8h total (breaks excluded), got %v", totals.Total)
	}
}

func TestCalculate_HolidayDay_PaidLeaveStaysRegular(t *testing.T) {
	// GIVEN: A holiday with an 8h holiday-kind record on it
	// WHEN: Calculating with the holidays flag on
	// THEN: The record is paid leave, counted as regular despite the
	//       day's zero capacity; the day reports holiday hours

	holidayRec := work("hol", "p1", day("2026-03-04"), 9, 8, 20)
	holidayRec.Kind = engine.KindHoliday

	ctx := singlePersonContext(holidayRec)
	ctx.Config = engine.Config{ApplyHolidays: true}
	ctx.Holidays = map[engine.PersonID]map[engine.Day]engine.Holiday{
		"p1": {day("2026-03-04"): {Date: day("2026-03-04"), Name: "Founders' Day"}},
	}

	result := engine.Calculate(ctx)

	a := result.Annotations["hol"]
	if a.Class != engine.ClassPaidLeave {
		t.Errorf("expected paid-leave class, got %v", a.Class)
	}
	if !a.Regular.Equal(hours(8)) || !a.Overtime.IsZero() {
		t.Errorf("expected 8h regular / 0h overtime, got %v/%v", a.Regular, a.Overtime)
	}

	totals := personResult(t, result, "p1").Totals
	if totals.HolidayCount != 1 {
		t.Errorf("expected 1 holiday, got %d", totals.HolidayCount)
	}
	if !totals.HolidayHours.Equal(hours(8)) {
		t.Errorf("expected 8 holiday hours, got %v", totals.HolidayHours)
	}
}

func TestCalculate_WorkOnZeroCapacityDay_AllOvertime(t *testing.T) {
	// GIVEN: Actual work performed on a holiday
	// WHEN: Calculating
	// THEN: Every worked hour is overtime and tagged HOLIDAY

	ctx := singlePersonContext(work("r1", "p1", day("2026-03-04"), 9, 4, 20))
	ctx.Config = engine.Config{ApplyHolidays: true}
	ctx.Holidays = map[engine.PersonID]map[engine.Day]engine.Holiday{
		"p1": {day("2026-03-04"): {Date: day("2026-03-04"), Name: "Founders' Day"}},
	}

	result := engine.Calculate(ctx)

	a := result.Annotations["r1"]
	if !a.Overtime.Equal(hours(4)) {
		t.Errorf("expected 4h overtime, got %v", a.Overtime)
	}
	if len(a.Tags) != 1 || a.Tags[0] != engine.TagHoliday {
		t.Errorf("expected HOLIDAY tag, got %v", a.Tags)
	}
}

func TestCalculate_UnparseableRecord_ZeroAnnotationNoPanic(t *testing.T) {
	// GIVEN: A record with no start time and garbage duration
	// WHEN: Calculating alongside a normal record
	// THEN: The batch completes; the broken record reports all zeroes

	broken := engine.TimeRecord{
		ID:       "broken",
		PersonID: "p1",
		Billable: true,
		Kind:     engine.KindWork,
		Interval: engine.Interval{Duration: "not-a-duration"},
	}

	result := engine.Calculate(singlePersonContext(
		work("ok", "p1", day("2026-03-02"), 9, 8, 20),
		broken,
	))

	a := result.Annotations["broken"]
	if a == nil {
		t.Fatal("broken record has no annotation")
	}
	if !a.Regular.IsZero() || !a.Overtime.IsZero() || !a.TotalWithOvertime.IsZero() {
		t.Errorf("expected zero annotation, got %+v", a)
	}

	if got := result.Annotations["ok"]; !got.Regular.Equal(hours(8)) {
		t.Errorf("healthy record affected: %+v", got)
	}
}

func TestCalculate_ExpectedCapacity_IndependentOfRecordSparsity(t *testing.T) {
	// GIVEN: A five-day range with records on only two days
	// WHEN: Calculating
	// THEN: Expected capacity covers every day in the range

	ctx := singlePersonContext(
		work("r1", "p1", day("2026-03-02"), 9, 8, 20),
		work("r2", "p1", day("2026-03-05"), 9, 8, 20),
	)
	ctx.From = day("2026-03-02")
	ctx.To = day("2026-03-06")

	result := engine.Calculate(ctx)

	totals := personResult(t, result, "p1").Totals
	if !totals.ExpectedCapacity.Equal(hours(40)) {
		t.Errorf("expected 40h capacity over 5 days, got %v", totals.ExpectedCapacity)
	}
}

func TestCalculate_RangeDerivedFromRecords(t *testing.T) {
	// GIVEN: No explicit from/to
	// WHEN: Calculating over records spanning three days
	// THEN: The range derives from the record extremes

	result := engine.Calculate(singlePersonContext(
		work("r1", "p1", day("2026-03-02"), 9, 8, 20),
		work("r2", "p1", day("2026-03-04"), 9, 8, 20),
	))

	totals := personResult(t, result, "p1").Totals
	if !totals.ExpectedCapacity.Equal(hours(24)) {
		t.Errorf("expected 24h over the derived 3-day range, got %v", totals.ExpectedCapacity)
	}
}

func TestCalculate_EmptyBatchWithoutRange_EmptyResult(t *testing.T) {
	// GIVEN: No records and no range
	// WHEN: Calculating
	// THEN: An empty result, not a panic

	result := engine.Calculate(engine.Context{Params: engine.DefaultParams()})

	if len(result.Analyses) != 0 || len(result.Annotations) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestCalculate_RosterWithoutRecords_StillAnalyzed(t *testing.T) {
	// GIVEN: A rostered person with no records, plus a record from an
	//        unknown person
	// WHEN: Calculating over an explicit range
	// THEN: Both appear in the analyses; the idle person carries expected
	//       capacity and zero worked hours

	ctx := engine.Context{
		From:    day("2026-03-02"),
		To:      day("2026-03-03"),
		Persons: []engine.Person{{ID: "idle", Name: "Idle Person"}},
		Records: []engine.TimeRecord{work("r1", "stranger", day("2026-03-02"), 9, 8, 20)},
		Params:  engine.DefaultParams(),
	}

	result := engine.Calculate(ctx)

	if len(result.Analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(result.Analyses))
	}

	idle := personResult(t, result, "idle")
	if !idle.Totals.ExpectedCapacity.Equal(hours(16)) {
		t.Errorf("idle person: expected 16h capacity, got %v", idle.Totals.ExpectedCapacity)
	}
	if !idle.Totals.Total.IsZero() {
		t.Errorf("idle person: expected zero worked hours, got %v", idle.Totals.Total)
	}

	stranger := personResult(t, result, "stranger")
	if !stranger.Totals.Total.Equal(hours(8)) {
		t.Errorf("stranger: expected 8h, got %v", stranger.Totals.Total)
	}
}

func TestCalculate_ProfitAndCostBasis(t *testing.T) {
	// GIVEN: A record billed at 100/h with an internal cost of 60/h
	// WHEN: Calculating 8 regular hours
	// THEN: Cost 480, profit 320; switching the display basis changes the
	//       amount fields but not cost or profit

	earned := decimal.NewFromInt(100)
	cost := decimal.NewFromInt(60)
	rec := engine.TimeRecord{
		ID:         "r1",
		PersonID:   "p1",
		Interval:   engine.Interval{Start: day("2026-03-02").Time().Add(9 * time.Hour), End: day("2026-03-02").Time().Add(17 * time.Hour)},
		Billable:   true,
		Kind:       engine.KindWork,
		EarnedRate: &earned,
		CostRate:   &cost,
	}

	ctx := singlePersonContext(rec)
	result := engine.Calculate(ctx)

	a := result.Annotations["r1"]
	if !a.Cost.Equal(money(480)) {
		t.Errorf("expected cost 480, got %v", a.Cost)
	}
	if !a.Profit.Equal(money(320)) {
		t.Errorf("expected profit 320, got %v", a.Profit)
	}
	if !a.TotalWithOvertime.Equal(money(800)) {
		t.Errorf("earned basis: expected display total 800, got %v", a.TotalWithOvertime)
	}

	ctx.Config.AmountDisplay = engine.BasisCost
	result = engine.Calculate(ctx)
	a = result.Annotations["r1"]
	if !a.TotalWithOvertime.Equal(money(480)) {
		t.Errorf("cost basis: expected display total 480, got %v", a.TotalWithOvertime)
	}
	if !a.Profit.Equal(money(320)) {
		t.Errorf("cost basis: profit changed to %v", a.Profit)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	// GIVEN: The same context snapshot
	// WHEN: Calculating twice
	// THEN: Totals and annotations are identical

	build := func() engine.Context {
		ctx := singlePersonContext(
			work("r1", "p1", day("2026-03-02"), 8, 10, 20),
			work("r2", "p1", day("2026-03-03"), 9, 8, 20),
		)
		ctx.Params.TierThreshold = engine.HoursOf(1)
		ctx.Params.TierMultiplier = decimal.NewFromFloat(2.0)
		return ctx
	}

	first := engine.Calculate(build())
	second := engine.Calculate(build())

	ft := personResult(t, first, "p1").Totals
	st := personResult(t, second, "p1").Totals
	if !ft.Amount.Equal(st.Amount) || !ft.Overtime.Equal(st.Overtime) || !ft.Tier2Premium.Equal(st.Tier2Premium) {
		t.Errorf("runs diverge: %+v vs %+v", ft, st)
	}

	for id, a := range first.Annotations {
		b := second.Annotations[id]
		if !a.TotalWithOvertime.Equal(b.TotalWithOvertime) || !a.Overtime.Equal(b.Overtime) {
			t.Errorf("record %s diverges between runs", id)
		}
	}
}

func TestCalculate_SourceRecordsNotMutated(t *testing.T) {
	// GIVEN: A batch of records
	// WHEN: Calculating without calling AnnotateRecords
	// THEN: The caller's records keep nil Analysis

	records := []engine.TimeRecord{work("r1", "p1", day("2026-03-02"), 9, 8, 20)}
	ctx := singlePersonContext(records...)

	engine.Calculate(ctx)

	if records[0].Analysis != nil {
		t.Error("Calculate mutated the caller's record")
	}
}

func TestAnnotateRecords_WritesBack(t *testing.T) {
	// GIVEN: A computed result
	// WHEN: Explicitly annotating the source slice
	// THEN: Each record receives its analysis

	records := []engine.TimeRecord{work("r1", "p1", day("2026-03-02"), 9, 8, 20)}
	result := engine.Calculate(singlePersonContext(records...))

	engine.AnnotateRecords(records, result.Annotations)

	if records[0].Analysis == nil {
		t.Fatal("record not annotated")
	}
	if !records[0].Analysis.Regular.Equal(hours(8)) {
		t.Errorf("expected 8h regular, got %v", records[0].Analysis.Regular)
	}
}

func TestCalculate_RecordsOutsideRange_Ignored(t *testing.T) {
	// GIVEN: An explicit range and a record outside it
	// WHEN: Calculating
	// THEN: The outside record is ignored entirely

	ctx := singlePersonContext(
		work("inside", "p1", day("2026-03-02"), 9, 8, 20),
		work("outside", "p1", day("2026-04-01"), 9, 8, 20),
	)
	ctx.From = day("2026-03-02")
	ctx.To = day("2026-03-06")

	result := engine.Calculate(ctx)

	if _, ok := result.Annotations["outside"]; ok {
		t.Error("out-of-range record was processed")
	}
	totals := personResult(t, result, "p1").Totals
	if !totals.Total.Equal(hours(8)) {
		t.Errorf("expected 8h total, got %v", totals.Total)
	}
}
