/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal engine model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMERIC REPRESENTATION:
  The engine computes in decimal; on the wire, hours and amounts are
  plain JSON numbers rounded to 4 decimal places.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: SettingsJSON and OverrideJSON wire shapes
*/
package api

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/factory"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// AnalysisRequest carries one complete calculation input. Collections
// omitted from the request are filled from the settings store.
type AnalysisRequest struct {
	From string `json:"from"`
	To   string `json:"to"`

	Persons []PersonDTO `json:"persons"`
	Records []RecordDTO `json:"records"`

	Profiles  map[string]ProfileDTO           `json:"profiles,omitempty"`
	Holidays  map[string][]HolidayDTO         `json:"holidays,omitempty"`
	TimeOff   map[string][]TimeOffDTO         `json:"time_off,omitempty"`
	Overrides map[string]factory.OverrideJSON `json:"overrides,omitempty"`

	Settings *factory.SettingsJSON `json:"settings,omitempty"`
}

// PersonDTO is one roster entry.
type PersonDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RecordDTO is one raw time entry on the wire. Start/End are RFC 3339
// timestamps; Duration is an ISO-8601 duration string.
type RecordDTO struct {
	ID        string `json:"id"`
	PersonID  string `json:"person_id"`
	ProjectID string `json:"project_id,omitempty"`

	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Duration string `json:"duration,omitempty"`

	Billable bool   `json:"billable"`
	Kind     string `json:"kind,omitempty"`

	EarnedRate *float64    `json:"earned_rate,omitempty"`
	CostRate   *float64    `json:"cost_rate,omitempty"`
	HourlyRate *float64    `json:"hourly_rate,omitempty"`
	Amounts    []AmountDTO `json:"amounts,omitempty"`
}

// AmountDTO is one typed total-currency entry on a record.
type AmountDTO struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// ProfileDTO is a provider-sourced person profile. WorkingDays holds
// lowercase English weekday names.
type ProfileDTO struct {
	CapacityHours *float64 `json:"capacity_hours,omitempty"`
	WorkingDays   []string `json:"working_days,omitempty"`
}

// HolidayDTO is one holiday. EndDate, when set, expands the holiday to
// one entry per covered date.
type HolidayDTO struct {
	Date      string `json:"date"`
	EndDate   string `json:"end_date,omitempty"`
	Name      string `json:"name"`
	ProjectID string `json:"project_id,omitempty"`
}

// TimeOffDTO is one absence entry.
type TimeOffDTO struct {
	Date    string  `json:"date"`
	FullDay bool    `json:"full_day"`
	Hours   float64 `json:"hours,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AnalysisResponse is the complete calculation output: one analysis per
// person plus every record's annotation.
type AnalysisResponse struct {
	Analyses []PersonAnalysisDTO  `json:"analyses"`
	Records  []AnnotatedRecordDTO `json:"records"`
}

type PersonAnalysisDTO struct {
	Person PersonDTO         `json:"person"`
	Totals TotalsDTO         `json:"totals"`
	Days   map[string]DayDTO `json:"days"`
}

type DayDTO struct {
	Capacity CapacityDTO          `json:"capacity"`
	Records  []AnnotatedRecordDTO `json:"records"`
}

type CapacityDTO struct {
	Capacity     float64 `json:"capacity"`
	BaseCapacity float64 `json:"base_capacity"`

	IsHoliday    bool `json:"is_holiday,omitempty"`
	IsNonWorking bool `json:"is_non_working,omitempty"`
	IsTimeOff    bool `json:"is_time_off,omitempty"`

	HolidayName    string  `json:"holiday_name,omitempty"`
	HolidayProject string  `json:"holiday_project,omitempty"`
	HolidayHours   float64 `json:"holiday_hours,omitempty"`
	TimeOffHours   float64 `json:"time_off_hours,omitempty"`

	Multiplier     float64 `json:"multiplier"`
	TierThreshold  float64 `json:"tier_threshold"`
	TierMultiplier float64 `json:"tier_multiplier"`
}

type AnnotatedRecordDTO struct {
	ID       string      `json:"id"`
	Analysis AnalysisDTO `json:"analysis"`
}

type AnalysisDTO struct {
	Class    string  `json:"class"`
	Regular  float64 `json:"regular"`
	Overtime float64 `json:"overtime"`
	Billable bool    `json:"billable"`

	Rate   float64 `json:"rate"`
	Cost   float64 `json:"cost"`
	Profit float64 `json:"profit"`

	RegularAmount     float64 `json:"regular_amount"`
	OvertimeAmount    float64 `json:"overtime_amount"`
	Tier1Premium      float64 `json:"tier1_premium"`
	Tier2Premium      float64 `json:"tier2_premium"`
	TotalWithOvertime float64 `json:"total_with_overtime"`
	TotalPlain        float64 `json:"total_plain"`

	Tags []string `json:"tags,omitempty"`
}

type TotalsDTO struct {
	Regular  float64 `json:"regular"`
	Overtime float64 `json:"overtime"`
	Total    float64 `json:"total"`
	Breaks   float64 `json:"breaks"`

	Billable    float64 `json:"billable"`
	NonBillable float64 `json:"non_billable"`

	Amount       float64 `json:"amount"`
	Profit       float64 `json:"profit"`
	Tier1Premium float64 `json:"tier1_premium"`
	Tier2Premium float64 `json:"tier2_premium"`

	ExpectedCapacity float64 `json:"expected_capacity"`

	HolidayCount int     `json:"holiday_count"`
	HolidayHours float64 `json:"holiday_hours"`
	TimeOffCount int     `json:"time_off_count"`
	TimeOffHours float64 `json:"time_off_hours"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS - wire -> engine
// =============================================================================

func roundHours(h engine.Hours) float64 {
	f, _ := h.Value.Round(4).Float64()
	return f
}

func roundMoney(m engine.Money) float64 {
	f, _ := m.Value.Round(4).Float64()
	return f
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toEngineRecord(dto RecordDTO) engine.TimeRecord {
	rec := engine.TimeRecord{
		ID:        engine.RecordID(dto.ID),
		PersonID:  engine.PersonID(dto.PersonID),
		ProjectID: engine.ProjectID(dto.ProjectID),
		Billable:  dto.Billable,
		Kind:      engine.Kind(dto.Kind),
		Interval: engine.Interval{
			Start:    parseTimestamp(dto.Start),
			End:      parseTimestamp(dto.End),
			Duration: dto.Duration,
		},
	}
	rec.EarnedRate = toDecimalPtr(dto.EarnedRate)
	rec.CostRate = toDecimalPtr(dto.CostRate)
	rec.HourlyRate = toDecimalPtr(dto.HourlyRate)
	for _, a := range dto.Amounts {
		rec.Amounts = append(rec.Amounts, engine.AmountEntry{
			Kind:  engine.AmountKind(a.Kind),
			Value: engine.MoneyOf(a.Value).Value,
		})
	}
	return rec
}

func toEngineProfile(dto ProfileDTO) engine.PersonProfile {
	var profile engine.PersonProfile
	if dto.CapacityHours != nil {
		h := engine.HoursOf(*dto.CapacityHours)
		profile.CapacityHours = &h
	}
	if dto.WorkingDays != nil {
		profile.WorkingDays = []time.Weekday{}
		for _, name := range dto.WorkingDays {
			if wd, ok := parseWeekday(name); ok {
				profile.WorkingDays = append(profile.WorkingDays, wd)
			}
		}
	}
	return profile
}

func parseWeekday(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(name, wd.String()) {
			return wd, true
		}
	}
	return 0, false
}

func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// =============================================================================
// CONVERSIONS - engine -> wire
// =============================================================================

func toAnalysisDTO(a *engine.RecordAnalysis) AnalysisDTO {
	dto := AnalysisDTO{
		Class:             string(a.Class),
		Regular:           roundHours(a.Regular),
		Overtime:          roundHours(a.Overtime),
		Billable:          a.Billable,
		Rate:              roundMoney(a.Rate),
		Cost:              roundMoney(a.Cost),
		Profit:            roundMoney(a.Profit),
		RegularAmount:     roundMoney(a.RegularAmount),
		OvertimeAmount:    roundMoney(a.OvertimeAmount),
		Tier1Premium:      roundMoney(a.Tier1Premium),
		Tier2Premium:      roundMoney(a.Tier2Premium),
		TotalWithOvertime: roundMoney(a.TotalWithOvertime),
		TotalPlain:        roundMoney(a.TotalPlain),
	}
	for _, tag := range a.Tags {
		dto.Tags = append(dto.Tags, string(tag))
	}
	return dto
}

func toCapacityDTO(c engine.DayCapacity) CapacityDTO {
	multiplier, _ := c.Multiplier.Float64()
	tierMultiplier, _ := c.TierMultiplier.Float64()
	return CapacityDTO{
		Capacity:       roundHours(c.Capacity),
		BaseCapacity:   roundHours(c.BaseCapacity),
		IsHoliday:      c.IsHoliday,
		IsNonWorking:   c.IsNonWorking,
		IsTimeOff:      c.IsTimeOff,
		HolidayName:    c.HolidayName,
		HolidayProject: string(c.HolidayProject),
		HolidayHours:   roundHours(c.HolidayHours),
		TimeOffHours:   roundHours(c.TimeOffHours),
		Multiplier:     multiplier,
		TierThreshold:  roundHours(c.TierThreshold),
		TierMultiplier: tierMultiplier,
	}
}

func toTotalsDTO(t engine.Totals) TotalsDTO {
	return TotalsDTO{
		Regular:          roundHours(t.Regular),
		Overtime:         roundHours(t.Overtime),
		Total:            roundHours(t.Total),
		Breaks:           roundHours(t.Breaks),
		Billable:         roundHours(t.Billable),
		NonBillable:      roundHours(t.NonBillable),
		Amount:           roundMoney(t.Amount),
		Profit:           roundMoney(t.Profit),
		Tier1Premium:     roundMoney(t.Tier1Premium),
		Tier2Premium:     roundMoney(t.Tier2Premium),
		ExpectedCapacity: roundHours(t.ExpectedCapacity),
		HolidayCount:     t.HolidayCount,
		HolidayHours:     roundHours(t.HolidayHours),
		TimeOffCount:     t.TimeOffCount,
		TimeOffHours:     roundHours(t.TimeOffHours),
	}
}

func toAnalysisResponse(result *engine.Result) AnalysisResponse {
	resp := AnalysisResponse{
		Analyses: make([]PersonAnalysisDTO, 0, len(result.Analyses)),
		Records:  make([]AnnotatedRecordDTO, 0, len(result.Annotations)),
	}

	for _, pa := range result.Analyses {
		dto := PersonAnalysisDTO{
			Person: PersonDTO{ID: string(pa.Person.ID), Name: pa.Person.Name},
			Totals: toTotalsDTO(pa.Totals),
			Days:   make(map[string]DayDTO, len(pa.Days)),
		}
		for day, dayAnalysis := range pa.Days {
			dayDTO := DayDTO{Capacity: toCapacityDTO(dayAnalysis.Capacity)}
			for _, rr := range dayAnalysis.Records {
				dayDTO.Records = append(dayDTO.Records, AnnotatedRecordDTO{
					ID:       string(rr.RecordID),
					Analysis: toAnalysisDTO(rr.Analysis),
				})
			}
			dto.Days[day.String()] = dayDTO
		}
		resp.Analyses = append(resp.Analyses, dto)
	}

	for id, analysis := range result.Annotations {
		resp.Records = append(resp.Records, AnnotatedRecordDTO{
			ID:       string(id),
			Analysis: toAnalysisDTO(analysis),
		})
	}
	sort.Slice(resp.Records, func(i, j int) bool { return resp.Records[i].ID < resp.Records[j].ID })
	return resp
}
