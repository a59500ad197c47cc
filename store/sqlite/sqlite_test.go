package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func hoursPtr(v float64) *engine.Hours {
	h := engine.HoursOf(v)
	return &h
}

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func mustDay(t *testing.T, s string) engine.Day {
	d, err := engine.ParseDay(s)
	require.NoError(t, err)
	return d
}

// =============================================================================
// OVERRIDE PERSISTENCE TESTS
// =============================================================================

func TestOverrides_SaveAndGet_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	override := engine.PersonOverride{
		Mode:   engine.OverrideWeekly,
		Global: engine.OverrideValues{Capacity: hoursPtr(7.5), Multiplier: decPtr(1.5)},
		Weekly: map[time.Weekday]engine.OverrideValues{
			time.Friday: {Capacity: hoursPtr(4)},
		},
	}

	require.NoError(t, store.SaveOverride(ctx, "p1", override))

	got, err := store.GetOverride(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, engine.OverrideWeekly, got.Mode)
	require.NotNil(t, got.Global.Capacity)
	assert.True(t, got.Global.Capacity.Equal(engine.HoursOf(7.5)), "global capacity survived")
	require.NotNil(t, got.Global.Multiplier)
	assert.True(t, got.Global.Multiplier.Equal(decimal.NewFromFloat(1.5)))
	require.Contains(t, got.Weekly, time.Friday)
	assert.True(t, got.Weekly[time.Friday].Capacity.Equal(engine.HoursOf(4)))
}

func TestOverrides_PerDayBucket_SurvivesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pinned := mustDay(t, "2026-03-02")
	override := engine.PersonOverride{
		Mode: engine.OverridePerDay,
		PerDay: map[engine.Day]engine.OverrideValues{
			pinned: {Capacity: hoursPtr(10), TierThreshold: hoursPtr(2), TierMultiplier: decPtr(2.0)},
		},
	}

	require.NoError(t, store.SaveOverride(ctx, "p1", override))

	got, err := store.GetOverride(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Contains(t, got.PerDay, pinned)
	assert.True(t, got.PerDay[pinned].Capacity.Equal(engine.HoursOf(10)))
	assert.True(t, got.PerDay[pinned].TierMultiplier.Equal(decimal.NewFromFloat(2.0)))
}

func TestOverrides_Get_Missing_ReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetOverride(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got, "missing override should be nil, not an error")
}

func TestOverrides_Save_Replaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOverride(ctx, "p1", engine.PersonOverride{
		Mode:   engine.OverrideGlobal,
		Global: engine.OverrideValues{Capacity: hoursPtr(6)},
	}))
	require.NoError(t, store.SaveOverride(ctx, "p1", engine.PersonOverride{
		Mode:   engine.OverrideGlobal,
		Global: engine.OverrideValues{Capacity: hoursPtr(9)},
	}))

	got, err := store.GetOverride(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Global.Capacity.Equal(engine.HoursOf(9)), "second save wins")

	all, err := store.ListOverrides(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOverrides_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOverride(ctx, "p1", engine.PersonOverride{Mode: engine.OverrideGlobal}))
	require.NoError(t, store.DeleteOverride(ctx, "p1"))

	got, err := store.GetOverride(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is not an error
	assert.NoError(t, store.DeleteOverride(ctx, "p1"))
}

// =============================================================================
// SETTINGS PERSISTENCE TESTS
// =============================================================================

func TestSettings_Unset_ReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	cfg, params, err := store.LoadSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, engine.Config{}, cfg)
	assert.True(t, params.DailyThreshold.Equal(engine.HoursOf(8)), "default daily threshold")
	assert.True(t, params.OvertimeMultiplier.Equal(decimal.NewFromFloat(1.5)))
}

func TestSettings_SaveAndLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg := engine.Config{
		UseProfileCapacity: true,
		ApplyHolidays:      true,
		AmountDisplay:      engine.BasisCost,
	}
	params := engine.CalculationParams{
		DailyThreshold:     engine.HoursOf(7.5),
		OvertimeMultiplier: decimal.NewFromFloat(1.25),
		TierThreshold:      engine.HoursOf(10),
		TierMultiplier:     decimal.NewFromFloat(2.0),
	}
	require.NoError(t, store.SaveSettings(ctx, cfg, params))

	gotCfg, gotParams, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, gotCfg)
	assert.True(t, gotParams.DailyThreshold.Equal(params.DailyThreshold))
	assert.True(t, gotParams.TierThreshold.Equal(params.TierThreshold))
	assert.True(t, gotParams.TierMultiplier.Equal(params.TierMultiplier))
}

func TestSettings_Save_Replaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSettings(ctx, engine.Config{ApplyHolidays: true}, engine.DefaultParams()))
	require.NoError(t, store.SaveSettings(ctx, engine.Config{ApplyTimeOff: true}, engine.DefaultParams()))

	cfg, _, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.ApplyHolidays)
	assert.True(t, cfg.ApplyTimeOff)
}

// =============================================================================
// CALENDAR PERSISTENCE TESTS
// =============================================================================

func TestHolidays_SaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d1 := mustDay(t, "2026-12-24")
	d2 := mustDay(t, "2026-12-25")
	require.NoError(t, store.SaveHoliday(ctx, "p1", engine.Holiday{Date: d1, Name: "Christmas Eve"}))
	require.NoError(t, store.SaveHoliday(ctx, "p1", engine.Holiday{Date: d2, Name: "Christmas", ProjectID: "proj-1"}))
	require.NoError(t, store.SaveHoliday(ctx, "p2", engine.Holiday{Date: d2, Name: "Christmas"}))

	got, err := store.ListHolidays(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2, "calendars are per person")
	assert.Equal(t, "Christmas Eve", got[d1].Name)
	assert.Equal(t, engine.ProjectID("proj-1"), got[d2].ProjectID)
}

func TestHolidays_SamePersonSameDate_Replaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := mustDay(t, "2026-05-01")
	require.NoError(t, store.SaveHoliday(ctx, "p1", engine.Holiday{Date: d, Name: "Old Name"}))
	require.NoError(t, store.SaveHoliday(ctx, "p1", engine.Holiday{Date: d, Name: "May Day"}))

	got, err := store.ListHolidays(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "May Day", got[d].Name)
}

func TestTimeOff_SaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	full := mustDay(t, "2026-03-02")
	partial := mustDay(t, "2026-03-03")
	require.NoError(t, store.SaveTimeOff(ctx, "p1", engine.TimeOffRecord{Date: full, FullDay: true}))
	require.NoError(t, store.SaveTimeOff(ctx, "p1", engine.TimeOffRecord{Date: partial, Hours: engine.HoursOf(3.5)}))

	got, err := store.ListTimeOff(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[full].FullDay)
	assert.False(t, got[partial].FullDay)
	assert.True(t, got[partial].Hours.Equal(engine.HoursOf(3.5)))
}

func TestCalendars_EmptyPerson_EmptyMaps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	holidays, err := store.ListHolidays(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, holidays)

	timeOff, err := store.ListTimeOff(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, timeOff)
}
