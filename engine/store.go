/*
store.go - Persistence interfaces for caller-owned context data

PURPOSE:
  The engine itself holds no state between invocations; everything it
  reads arrives in the Context. These interfaces define how the outer
  layers (API, server) persist the pieces of that context that users
  configure: per-person overrides, the global settings, and the
  holiday/time-off calendars.

IMPLEMENTATIONS:
  - engine/store/memory.go: In-memory, for tests and development
  - store/sqlite/sqlite.go: Production SQLite

MISSING DATA:
  Absent overrides/settings/calendar entries are not errors; stores
  return nil pointers or empty maps and the engine treats them as
  "no adjustment applies".
*/
package engine

import "context"

// OverrideStore persists per-person capacity/multiplier overrides.
type OverrideStore interface {
	// SaveOverride creates or replaces the override for a person.
	SaveOverride(ctx context.Context, person PersonID, override PersonOverride) error

	// GetOverride returns the person's override, or nil when none is set.
	GetOverride(ctx context.Context, person PersonID) (*PersonOverride, error)

	// ListOverrides returns all stored overrides keyed by person.
	ListOverrides(ctx context.Context) (map[PersonID]PersonOverride, error)

	// DeleteOverride removes a person's override. Deleting a missing
	// override is not an error.
	DeleteOverride(ctx context.Context, person PersonID) error
}

// SettingsStore persists the global Config and CalculationParams.
type SettingsStore interface {
	SaveSettings(ctx context.Context, cfg Config, params CalculationParams) error

	// LoadSettings returns the stored settings, or the zero Config and
	// DefaultParams when nothing has been saved yet.
	LoadSettings(ctx context.Context) (Config, CalculationParams, error)
}

// CalendarStore persists per-person holiday and time-off entries,
// one entry per person per date.
type CalendarStore interface {
	SaveHoliday(ctx context.Context, person PersonID, holiday Holiday) error
	ListHolidays(ctx context.Context, person PersonID) (map[Day]Holiday, error)

	SaveTimeOff(ctx context.Context, person PersonID, timeOff TimeOffRecord) error
	ListTimeOff(ctx context.Context, person PersonID) (map[Day]TimeOffRecord, error)
}

// SettingsRepository is the full storage surface the API layer wires.
type SettingsRepository interface {
	OverrideStore
	SettingsStore
	CalendarStore
}
