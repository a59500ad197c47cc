/*
Package sqlite provides a SQLite-backed implementation of the engine's
storage interfaces.

PURPOSE:
  Persists the user-configured pieces of a calculation context: per-person
  overrides, the global settings, and the holiday/time-off calendars.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  engine.OverrideStore:  Per-person capacity/multiplier overrides
  engine.SettingsStore:  Global config and calculation parameters
  engine.CalendarStore:  Holiday and time-off entries

KEY TABLES:
  overrides:  One JSON payload per person (mode + bucket tables)
  settings:   Single-row JSON payload (config + params)
  holidays:   One row per person per date
  time_off:   One row per person per date

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time, better crash
  recovery.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/overtime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/overtime-engine/engine"
)

// Store implements engine.SettingsRepository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.SettingsRepository = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS overrides (
		person_id TEXT PRIMARY KEY,
		payload   TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		person_id  TEXT NOT NULL,
		date       TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		project_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (person_id, date)
	);

	CREATE TABLE IF NOT EXISTS time_off (
		person_id TEXT NOT NULL,
		date      TEXT NOT NULL,
		full_day  INTEGER NOT NULL DEFAULT 0,
		hours     TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (person_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_person ON holidays(person_id);
	CREATE INDEX IF NOT EXISTS idx_time_off_person ON time_off(person_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// OVERRIDES
// =============================================================================

func (s *Store) SaveOverride(ctx context.Context, person engine.PersonID, override engine.PersonOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("failed to encode override: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO overrides (person_id, payload, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(person_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, string(person), string(payload))
	return err
}

func (s *Store) GetOverride(ctx context.Context, person engine.PersonID) (*engine.PersonOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM overrides WHERE person_id = ?`, string(person),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var override engine.PersonOverride
	if err := json.Unmarshal([]byte(payload), &override); err != nil {
		return nil, fmt.Errorf("failed to decode override for %s: %w", person, err)
	}
	return &override, nil
}

func (s *Store) ListOverrides(ctx context.Context) (map[engine.PersonID]engine.PersonOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT person_id, payload FROM overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[engine.PersonID]engine.PersonOverride)
	for rows.Next() {
		var personID, payload string
		if err := rows.Scan(&personID, &payload); err != nil {
			return nil, err
		}
		var override engine.PersonOverride
		if err := json.Unmarshal([]byte(payload), &override); err != nil {
			return nil, fmt.Errorf("failed to decode override for %s: %w", personID, err)
		}
		out[engine.PersonID(personID)] = override
	}
	return out, rows.Err()
}

func (s *Store) DeleteOverride(ctx context.Context, person engine.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM overrides WHERE person_id = ?`, string(person))
	return err
}

// =============================================================================
// SETTINGS
// =============================================================================

type settingsPayload struct {
	Config engine.Config            `json:"config"`
	Params engine.CalculationParams `json:"params"`
}

func (s *Store) SaveSettings(ctx context.Context, cfg engine.Config, params engine.CalculationParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(settingsPayload{Config: cfg, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, payload) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload
	`, string(payload))
	return err
}

func (s *Store) LoadSettings(ctx context.Context) (engine.Config, engine.CalculationParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return engine.Config{}, engine.DefaultParams(), nil
	}
	if err != nil {
		return engine.Config{}, engine.CalculationParams{}, err
	}

	var stored settingsPayload
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return engine.Config{}, engine.CalculationParams{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return stored.Config, stored.Params, nil
}

// =============================================================================
// CALENDARS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, person engine.PersonID, holiday engine.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (person_id, date, name, project_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(person_id, date) DO UPDATE SET
			name = excluded.name,
			project_id = excluded.project_id
	`, string(person), holiday.Date.String(), holiday.Name, string(holiday.ProjectID))
	return err
}

func (s *Store) ListHolidays(ctx context.Context, person engine.PersonID) (map[engine.Day]engine.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name, project_id FROM holidays WHERE person_id = ? ORDER BY date`,
		string(person))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[engine.Day]engine.Holiday)
	for rows.Next() {
		var date, name, projectID string
		if err := rows.Scan(&date, &name, &projectID); err != nil {
			return nil, err
		}
		day, err := engine.ParseDay(date)
		if err != nil {
			return nil, fmt.Errorf("corrupt holiday date for %s: %w", person, err)
		}
		out[day] = engine.Holiday{Date: day, Name: name, ProjectID: engine.ProjectID(projectID)}
	}
	return out, rows.Err()
}

func (s *Store) SaveTimeOff(ctx context.Context, person engine.PersonID, timeOff engine.TimeOffRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fullDay := 0
	if timeOff.FullDay {
		fullDay = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_off (person_id, date, full_day, hours)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(person_id, date) DO UPDATE SET
			full_day = excluded.full_day,
			hours = excluded.hours
	`, string(person), timeOff.Date.String(), fullDay, timeOff.Hours.String())
	return err
}

func (s *Store) ListTimeOff(ctx context.Context, person engine.PersonID) (map[engine.Day]engine.TimeOffRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, full_day, hours FROM time_off WHERE person_id = ? ORDER BY date`,
		string(person))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[engine.Day]engine.TimeOffRecord)
	for rows.Next() {
		var date, hours string
		var fullDay int
		if err := rows.Scan(&date, &fullDay, &hours); err != nil {
			return nil, err
		}
		day, err := engine.ParseDay(date)
		if err != nil {
			return nil, fmt.Errorf("corrupt time-off date for %s: %w", person, err)
		}
		out[day] = engine.TimeOffRecord{
			Date:    day,
			FullDay: fullDay != 0,
			Hours:   engine.HoursFrom(parseStoredDecimal(hours)),
		}
	}
	return out, rows.Err()
}

// parseStoredDecimal reads a decimal we wrote ourselves; a corrupt value
// degrades to zero rather than failing the whole load.
func parseStoredDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
