/*
Package factory provides JSON to engine configuration conversion.

PURPOSE:
  Converts JSON settings and override definitions into engine.Config,
  engine.CalculationParams and engine.PersonOverride values. This enables
  configuration without code changes - admins send JSON, and the factory
  produces the proper Go structs with defaults filled in and obvious
  mistakes rejected.

JSON SCHEMA (settings):
  {
    "use_profile_capacity": true,
    "use_profile_working_days": true,
    "apply_holidays": true,
    "apply_time_off": true,
    "amount_display": "earned",
    "daily_threshold": 8,
    "overtime_multiplier": 1.5,
    "tier_threshold": 20,
    "tier_multiplier": 2.0
  }

JSON SCHEMA (override):
  {
    "mode": "weekly",
    "global": {"capacity": 8, "multiplier": 1.5},
    "weekly": {
      "friday": {"capacity": 6}
    },
    "per_day": {
      "2025-03-10": {"capacity": 0}
    }
  }

DEFAULTS:
  Omitted numeric settings fall back to engine.DefaultParams (8h days,
  1.5x overtime, second tier disabled). Omitted override fields defer to
  the next precedence tier - absence means "no opinion", not zero.

SEE ALSO:
  - engine/types.go: The target configuration types
  - api/handlers.go: Uses this factory for settings/override endpoints
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/overtime-engine/engine"
)

// ConfigFactory converts JSON payloads into engine configuration values.
type ConfigFactory struct{}

func NewConfigFactory() *ConfigFactory { return &ConfigFactory{} }

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsJSON is the wire shape for global settings. Pointers
// distinguish "omitted" from explicit zero values.
type SettingsJSON struct {
	UseProfileCapacity    bool   `json:"use_profile_capacity"`
	UseProfileWorkingDays bool   `json:"use_profile_working_days"`
	ApplyHolidays         bool   `json:"apply_holidays"`
	ApplyTimeOff          bool   `json:"apply_time_off"`
	AmountDisplay         string `json:"amount_display,omitempty"`

	DailyThreshold     *float64 `json:"daily_threshold,omitempty"`
	OvertimeMultiplier *float64 `json:"overtime_multiplier,omitempty"`
	TierThreshold      *float64 `json:"tier_threshold,omitempty"`
	TierMultiplier     *float64 `json:"tier_multiplier,omitempty"`
}

// ParseSettings converts a JSON document into Config and
// CalculationParams, filling defaults for every omitted field.
func (f *ConfigFactory) ParseSettings(data []byte) (engine.Config, engine.CalculationParams, error) {
	var js SettingsJSON
	if err := json.Unmarshal(data, &js); err != nil {
		return engine.Config{}, engine.CalculationParams{}, fmt.Errorf("invalid settings JSON: %w", err)
	}
	return f.BuildSettings(js)
}

// BuildSettings validates and converts an already-decoded SettingsJSON.
func (f *ConfigFactory) BuildSettings(js SettingsJSON) (engine.Config, engine.CalculationParams, error) {
	cfg := engine.Config{
		UseProfileCapacity:    js.UseProfileCapacity,
		UseProfileWorkingDays: js.UseProfileWorkingDays,
		ApplyHolidays:         js.ApplyHolidays,
		ApplyTimeOff:          js.ApplyTimeOff,
	}

	switch strings.ToLower(js.AmountDisplay) {
	case "", string(engine.BasisEarned):
		cfg.AmountDisplay = engine.BasisEarned
	case string(engine.BasisCost):
		cfg.AmountDisplay = engine.BasisCost
	default:
		return engine.Config{}, engine.CalculationParams{},
			fmt.Errorf("unknown amount_display %q (want earned or cost)", js.AmountDisplay)
	}

	params := engine.DefaultParams()
	if js.DailyThreshold != nil {
		if *js.DailyThreshold < 0 {
			return engine.Config{}, engine.CalculationParams{},
				fmt.Errorf("daily_threshold must be non-negative, got %v", *js.DailyThreshold)
		}
		params.DailyThreshold = engine.HoursOf(*js.DailyThreshold)
	}
	if js.OvertimeMultiplier != nil {
		if *js.OvertimeMultiplier < 1 {
			return engine.Config{}, engine.CalculationParams{},
				fmt.Errorf("overtime_multiplier must be at least 1, got %v", *js.OvertimeMultiplier)
		}
		params.OvertimeMultiplier = decimal.NewFromFloat(*js.OvertimeMultiplier)
	}
	if js.TierThreshold != nil {
		// Negative is the explicit disable value; keep it as given.
		params.TierThreshold = engine.HoursOf(*js.TierThreshold)
	}
	if js.TierMultiplier != nil {
		if *js.TierMultiplier < 0 {
			return engine.Config{}, engine.CalculationParams{},
				fmt.Errorf("tier_multiplier must be non-negative, got %v", *js.TierMultiplier)
		}
		params.TierMultiplier = decimal.NewFromFloat(*js.TierMultiplier)
	}

	return cfg, params, nil
}

// FormatSettings converts stored settings back into the wire shape.
func (f *ConfigFactory) FormatSettings(cfg engine.Config, params engine.CalculationParams) SettingsJSON {
	daily := params.DailyThreshold.Float()
	otMult, _ := params.OvertimeMultiplier.Float64()
	tierThreshold := params.TierThreshold.Float()
	tierMult, _ := params.TierMultiplier.Float64()

	return SettingsJSON{
		UseProfileCapacity:    cfg.UseProfileCapacity,
		UseProfileWorkingDays: cfg.UseProfileWorkingDays,
		ApplyHolidays:         cfg.ApplyHolidays,
		ApplyTimeOff:          cfg.ApplyTimeOff,
		AmountDisplay:         string(cfg.Basis()),
		DailyThreshold:        &daily,
		OvertimeMultiplier:    &otMult,
		TierThreshold:         &tierThreshold,
		TierMultiplier:        &tierMult,
	}
}

// =============================================================================
// OVERRIDES
// =============================================================================

// ValuesJSON is one override bucket on the wire. Omitted fields defer to
// the next precedence tier.
type ValuesJSON struct {
	Capacity       *float64 `json:"capacity,omitempty"`
	Multiplier     *float64 `json:"multiplier,omitempty"`
	TierThreshold  *float64 `json:"tier_threshold,omitempty"`
	TierMultiplier *float64 `json:"tier_multiplier,omitempty"`
}

// OverrideJSON is the wire shape for a person override. Weekly buckets
// are keyed by lowercase English weekday names, per-day buckets by
// "2006-01-02" dates.
type OverrideJSON struct {
	Mode   string                `json:"mode"`
	Global ValuesJSON            `json:"global"`
	Weekly map[string]ValuesJSON `json:"weekly,omitempty"`
	PerDay map[string]ValuesJSON `json:"per_day,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseOverride converts a JSON document into a PersonOverride.
func (f *ConfigFactory) ParseOverride(data []byte) (engine.PersonOverride, error) {
	var js OverrideJSON
	if err := json.Unmarshal(data, &js); err != nil {
		return engine.PersonOverride{}, fmt.Errorf("invalid override JSON: %w", err)
	}
	return f.BuildOverride(js)
}

// BuildOverride validates and converts an already-decoded OverrideJSON.
func (f *ConfigFactory) BuildOverride(js OverrideJSON) (engine.PersonOverride, error) {
	out := engine.PersonOverride{Global: buildValues(js.Global)}

	switch engine.OverrideMode(js.Mode) {
	case engine.OverrideGlobal, "":
		out.Mode = engine.OverrideGlobal
	case engine.OverrideWeekly:
		out.Mode = engine.OverrideWeekly
	case engine.OverridePerDay:
		out.Mode = engine.OverridePerDay
	default:
		return engine.PersonOverride{}, fmt.Errorf("unknown override mode %q", js.Mode)
	}

	if len(js.Weekly) > 0 {
		out.Weekly = make(map[time.Weekday]engine.OverrideValues, len(js.Weekly))
		for name, values := range js.Weekly {
			wd, ok := weekdayNames[strings.ToLower(name)]
			if !ok {
				return engine.PersonOverride{}, fmt.Errorf("unknown weekday %q", name)
			}
			out.Weekly[wd] = buildValues(values)
		}
	}

	if len(js.PerDay) > 0 {
		out.PerDay = make(map[engine.Day]engine.OverrideValues, len(js.PerDay))
		for date, values := range js.PerDay {
			day, err := engine.ParseDay(date)
			if err != nil {
				return engine.PersonOverride{}, err
			}
			out.PerDay[day] = buildValues(values)
		}
	}

	return out, nil
}

// FormatOverride converts a stored override back into the wire shape.
func (f *ConfigFactory) FormatOverride(ov engine.PersonOverride) OverrideJSON {
	out := OverrideJSON{
		Mode:   string(ov.Mode),
		Global: formatValues(ov.Global),
	}
	if len(ov.Weekly) > 0 {
		out.Weekly = make(map[string]ValuesJSON, len(ov.Weekly))
		for wd, values := range ov.Weekly {
			out.Weekly[strings.ToLower(wd.String())] = formatValues(values)
		}
	}
	if len(ov.PerDay) > 0 {
		out.PerDay = make(map[string]ValuesJSON, len(ov.PerDay))
		for day, values := range ov.PerDay {
			out.PerDay[day.String()] = formatValues(values)
		}
	}
	return out
}

func buildValues(js ValuesJSON) engine.OverrideValues {
	var out engine.OverrideValues
	if js.Capacity != nil {
		h := engine.HoursOf(*js.Capacity)
		out.Capacity = &h
	}
	if js.Multiplier != nil {
		d := decimal.NewFromFloat(*js.Multiplier)
		out.Multiplier = &d
	}
	if js.TierThreshold != nil {
		h := engine.HoursOf(*js.TierThreshold)
		out.TierThreshold = &h
	}
	if js.TierMultiplier != nil {
		d := decimal.NewFromFloat(*js.TierMultiplier)
		out.TierMultiplier = &d
	}
	return out
}

func formatValues(v engine.OverrideValues) ValuesJSON {
	var out ValuesJSON
	if v.Capacity != nil {
		f := v.Capacity.Float()
		out.Capacity = &f
	}
	if v.Multiplier != nil {
		f, _ := v.Multiplier.Float64()
		out.Multiplier = &f
	}
	if v.TierThreshold != nil {
		f := v.TierThreshold.Float()
		out.TierThreshold = &f
	}
	if v.TierMultiplier != nil {
		f, _ := v.TierMultiplier.Float64()
		out.TierMultiplier = &f
	}
	return out
}
