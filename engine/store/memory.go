// Package store provides in-memory implementations of the engine's
// storage interfaces, for tests and development.
package store

import (
	"context"
	"sync"

	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory SettingsRepository
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	overrides map[engine.PersonID]engine.PersonOverride
	holidays  map[engine.PersonID]map[engine.Day]engine.Holiday
	timeOff   map[engine.PersonID]map[engine.Day]engine.TimeOffRecord

	hasSettings bool
	config      engine.Config
	params      engine.CalculationParams
}

var _ engine.SettingsRepository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		overrides: make(map[engine.PersonID]engine.PersonOverride),
		holidays:  make(map[engine.PersonID]map[engine.Day]engine.Holiday),
		timeOff:   make(map[engine.PersonID]map[engine.Day]engine.TimeOffRecord),
	}
}

// -----------------------------------------------------------------------------
// Overrides
// -----------------------------------------------------------------------------

func (m *Memory) SaveOverride(_ context.Context, person engine.PersonID, override engine.PersonOverride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[person] = override
	return nil
}

func (m *Memory) GetOverride(_ context.Context, person engine.PersonID) (*engine.PersonOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ov, ok := m.overrides[person]; ok {
		return &ov, nil
	}
	return nil, nil
}

func (m *Memory) ListOverrides(_ context.Context) (map[engine.PersonID]engine.PersonOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[engine.PersonID]engine.PersonOverride, len(m.overrides))
	for id, ov := range m.overrides {
		out[id] = ov
	}
	return out, nil
}

func (m *Memory) DeleteOverride(_ context.Context, person engine.PersonID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, person)
	return nil
}

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

func (m *Memory) SaveSettings(_ context.Context, cfg engine.Config, params engine.CalculationParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config, m.params, m.hasSettings = cfg, params, true
	return nil
}

func (m *Memory) LoadSettings(_ context.Context) (engine.Config, engine.CalculationParams, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasSettings {
		return engine.Config{}, engine.DefaultParams(), nil
	}
	return m.config, m.params, nil
}

// -----------------------------------------------------------------------------
// Calendars
// -----------------------------------------------------------------------------

func (m *Memory) SaveHoliday(_ context.Context, person engine.PersonID, holiday engine.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holidays[person] == nil {
		m.holidays[person] = make(map[engine.Day]engine.Holiday)
	}
	m.holidays[person][holiday.Date] = holiday
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, person engine.PersonID) (map[engine.Day]engine.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[engine.Day]engine.Holiday, len(m.holidays[person]))
	for d, h := range m.holidays[person] {
		out[d] = h
	}
	return out, nil
}

func (m *Memory) SaveTimeOff(_ context.Context, person engine.PersonID, timeOff engine.TimeOffRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timeOff[person] == nil {
		m.timeOff[person] = make(map[engine.Day]engine.TimeOffRecord)
	}
	m.timeOff[person][timeOff.Date] = timeOff
	return nil
}

func (m *Memory) ListTimeOff(_ context.Context, person engine.PersonID) (map[engine.Day]engine.TimeOffRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[engine.Day]engine.TimeOffRecord, len(m.timeOff[person]))
	for d, rec := range m.timeOff[person] {
		out[d] = rec
	}
	return out, nil
}
