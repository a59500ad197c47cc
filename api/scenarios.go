/*
scenarios.go - Demo scenario runners for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that run the analysis engine over canned,
	realistic batches. Each scenario demonstrates a specific feature of
	the calculation: daily overtime, the second overtime tier, holiday
	and absence handling, and multi-person cost/profit analysis.

AVAILABLE SCENARIOS:

	standard-week:    One person, five 8-hour days, no overtime
	long-days:        10-hour days triggering the 1.5x overtime premium
	tiered-overtime:  Cumulative overtime crossing the second-tier threshold
	holiday-week:     Public holiday and a half-day absence mid-week
	mixed-team:       Contractor vs. employee with overrides and profit

HOW SCENARIOS WORK:
 1. Build a complete calculation context in memory (roster, records,
    overrides, calendars)
 2. Run the calculation
 3. Return the standard analysis response

	Scenarios never touch the settings store; they are safe to run against
	any deployment, including production.

USAGE VIA API:

	POST /api/scenarios/run
	{"scenario_id": "tiered-overtime"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create builder function: buildXxxScenario() engine.Context
 3. Add case to RunScenario handler

SEE ALSO:
  - handlers.go: RunAnalysis, writeJSON/writeError helpers
  - dto.go: AnalysisResponse serialization
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one runnable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-week",
		Name:        "Standard Week",
		Description: "Five 8-hour days at capacity, no overtime",
		Category:    "basics",
	},
	{
		ID:          "long-days",
		Name:        "Long Days",
		Description: "10-hour days with the tail two hours paid at 1.5x",
		Category:    "overtime",
	},
	{
		ID:          "tiered-overtime",
		Name:        "Tiered Overtime",
		Description: "Cumulative overtime crossing into a 2.0x second tier",
		Category:    "overtime",
	},
	{
		ID:          "holiday-week",
		Name:        "Holiday Week",
		Description: "Public holiday plus a half-day absence reducing capacity",
		Category:    "calendar",
	},
	{
		ID:          "mixed-team",
		Name:        "Mixed Team",
		Description: "Employee and contractor with per-person overrides and profit",
		Category:    "costing",
	},
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// RunScenario runs a predefined scenario end-to-end and returns the
// analysis response it produces.
// POST /api/scenarios/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var calcCtx engine.Context
	switch req.ScenarioID {
	case "standard-week":
		calcCtx = buildStandardWeekScenario()
	case "long-days":
		calcCtx = buildLongDaysScenario()
	case "tiered-overtime":
		calcCtx = buildTieredOvertimeScenario()
	case "holiday-week":
		calcCtx = buildHolidayWeekScenario()
	case "mixed-team":
		calcCtx = buildMixedTeamScenario()
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	result := engine.Calculate(calcCtx)
	writeJSON(w, http.StatusOK, toAnalysisResponse(result))
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

// The demo week: Monday March 2 through Friday March 6, 2026.
var (
	demoWeekStart = engine.NewDay(2026, time.March, 2)
	demoWeekEnd   = engine.NewDay(2026, time.March, 6)
)

func demoRecord(id string, person engine.PersonID, day engine.Day, startHour, hours int, rate float64) engine.TimeRecord {
	start := day.Time().Add(time.Duration(startHour) * time.Hour)
	r := decimal.NewFromFloat(rate)
	return engine.TimeRecord{
		ID:         engine.RecordID(id),
		PersonID:   person,
		Interval:   engine.Interval{Start: start, End: start.Add(time.Duration(hours) * time.Hour)},
		Billable:   true,
		Kind:       engine.KindWork,
		HourlyRate: &r,
	}
}

func buildStandardWeekScenario() engine.Context {
	person := engine.PersonID("alice")
	var records []engine.TimeRecord
	for i := 0; i < 5; i++ {
		day := demoWeekStart.AddDays(i)
		records = append(records, demoRecord("std-"+day.String(), person, day, 9, 8, 50))
	}
	return engine.Context{
		From:    demoWeekStart,
		To:      demoWeekEnd,
		Persons: []engine.Person{{ID: person, Name: "Alice Johnson"}},
		Records: records,
		Params:  engine.DefaultParams(),
	}
}

func buildLongDaysScenario() engine.Context {
	person := engine.PersonID("bob")
	var records []engine.TimeRecord
	for i := 0; i < 5; i++ {
		day := demoWeekStart.AddDays(i)
		// Morning block fills capacity; the evening block is the tail
		// that absorbs overtime.
		records = append(records, demoRecord("long-am-"+day.String(), person, day, 8, 6, 40))
		records = append(records, demoRecord("long-pm-"+day.String(), person, day, 15, 4, 40))
	}
	return engine.Context{
		From:    demoWeekStart,
		To:      demoWeekEnd,
		Persons: []engine.Person{{ID: person, Name: "Bob Smith"}},
		Records: records,
		Params:  engine.DefaultParams(),
	}
}

func buildTieredOvertimeScenario() engine.Context {
	person := engine.PersonID("carol")
	var records []engine.TimeRecord
	for i := 0; i < 5; i++ {
		day := demoWeekStart.AddDays(i)
		records = append(records, demoRecord("tier-"+day.String(), person, day, 9, 11, 60))
	}
	// 3h overtime/day; the cumulative total crosses the 6h tier threshold
	// on Wednesday, from which point overtime pays 2.0x instead of 1.5x.
	params := engine.DefaultParams()
	params.TierThreshold = engine.HoursOf(6)
	params.TierMultiplier = decimal.NewFromFloat(2.0)
	return engine.Context{
		From:    demoWeekStart,
		To:      demoWeekEnd,
		Persons: []engine.Person{{ID: person, Name: "Carol Davis"}},
		Records: records,
		Params:  params,
	}
}

func buildHolidayWeekScenario() engine.Context {
	person := engine.PersonID("dave")
	var records []engine.TimeRecord
	for i := 0; i < 5; i++ {
		day := demoWeekStart.AddDays(i)
		if i == 2 {
			continue // Wednesday is the holiday; nothing tracked
		}
		hours := 8
		if i == 4 {
			hours = 4 // half-day absence Friday afternoon
		}
		records = append(records, demoRecord("hol-"+day.String(), person, day, 9, hours, 55))
	}

	wednesday := demoWeekStart.AddDays(2)
	friday := demoWeekStart.AddDays(4)
	return engine.Context{
		From:    demoWeekStart,
		To:      demoWeekEnd,
		Persons: []engine.Person{{ID: person, Name: "Dave Wilson"}},
		Records: records,
		Holidays: map[engine.PersonID]map[engine.Day]engine.Holiday{
			person: {wednesday: {Date: wednesday, Name: "Founders' Day"}},
		},
		TimeOff: map[engine.PersonID]map[engine.Day]engine.TimeOffRecord{
			person: {friday: {Date: friday, Hours: engine.HoursOf(4)}},
		},
		Config: engine.Config{ApplyHolidays: true, ApplyTimeOff: true},
		Params: engine.DefaultParams(),
	}
}

func buildMixedTeamScenario() engine.Context {
	employee := engine.PersonID("emma")
	contractor := engine.PersonID("frank")

	earned := decimal.NewFromFloat(120)
	cost := decimal.NewFromFloat(75)

	var records []engine.TimeRecord
	for i := 0; i < 5; i++ {
		day := demoWeekStart.AddDays(i)
		records = append(records, demoRecord("team-emp-"+day.String(), employee, day, 9, 9, 45))

		// Contractor work carries both a billing and a cost rate, so
		// the analysis yields a per-record margin.
		start := day.Time().Add(10 * time.Hour)
		records = append(records, engine.TimeRecord{
			ID:         engine.RecordID("team-con-" + day.String()),
			PersonID:   contractor,
			Interval:   engine.Interval{Start: start, End: start.Add(7 * time.Hour)},
			Billable:   true,
			Kind:       engine.KindWork,
			EarnedRate: &earned,
			CostRate:   &cost,
		})
	}

	// The contractor works 6-hour days by agreement, so the seventh hour
	// of each tracked day is already overtime.
	contractorCap := engine.HoursOf(6)
	return engine.Context{
		From: demoWeekStart,
		To:   demoWeekEnd,
		Persons: []engine.Person{
			{ID: employee, Name: "Emma Thompson"},
			{ID: contractor, Name: "Frank Rivera"},
		},
		Records: records,
		Overrides: map[engine.PersonID]engine.PersonOverride{
			contractor: {
				Mode:   engine.OverrideGlobal,
				Global: engine.OverrideValues{Capacity: &contractorCap},
			},
		},
		Params: engine.DefaultParams(),
	}
}
