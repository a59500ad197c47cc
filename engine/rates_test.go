package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// RATE RESOLUTION TESTS
// =============================================================================

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestResolveRates_DirectFieldsWin(t *testing.T) {
	// GIVEN: A record with direct earned/cost rates AND an hourly rate
	// WHEN: Resolving
	// THEN: The direct fields win over the generic hourly rate

	rec := engine.TimeRecord{
		Billable:   true,
		EarnedRate: decPtr(100),
		CostRate:   decPtr(60),
		HourlyRate: decPtr(45),
	}

	rates := engine.ResolveRates(rec, hours(8))

	if !rates.Earned.Equal(money(100)) {
		t.Errorf("expected earned rate 100, got %v", rates.Earned)
	}
	if !rates.Cost.Equal(money(60)) {
		t.Errorf("expected cost rate 60, got %v", rates.Cost)
	}
}

func TestResolveRates_HourlyRateFallback(t *testing.T) {
	// GIVEN: A record with only the generic hourly rate
	// WHEN: Resolving
	// THEN: Both bases fall back to it

	rec := engine.TimeRecord{Billable: true, HourlyRate: decPtr(45)}

	rates := engine.ResolveRates(rec, hours(8))

	if !rates.Earned.Equal(money(45)) || !rates.Cost.Equal(money(45)) {
		t.Errorf("expected 45/45, got %v/%v", rates.Earned, rates.Cost)
	}
}

func TestResolveRates_AmountsDividedByDuration(t *testing.T) {
	// GIVEN: A record carrying typed total amounts and no rate fields
	// WHEN: Resolving against an 8h duration
	// THEN: Amount / duration yields the hourly rate per basis

	rec := engine.TimeRecord{
		Billable: true,
		Amounts: []engine.AmountEntry{
			{Kind: engine.AmountEarned, Value: decimal.NewFromInt(400)},
			{Kind: engine.AmountCost, Value: decimal.NewFromInt(240)},
		},
	}

	rates := engine.ResolveRates(rec, hours(8))

	if !rates.Earned.Equal(money(50)) {
		t.Errorf("expected earned rate 50, got %v", rates.Earned)
	}
	if !rates.Cost.Equal(money(30)) {
		t.Errorf("expected cost rate 30, got %v", rates.Cost)
	}
}

func TestResolveRates_AmountsWithZeroDuration_NoRate(t *testing.T) {
	// GIVEN: Typed amounts but a zero resolved duration
	// WHEN: Resolving
	// THEN: No rate can be derived; zero, not a division error

	rec := engine.TimeRecord{
		Billable: true,
		Amounts:  []engine.AmountEntry{{Kind: engine.AmountEarned, Value: decimal.NewFromInt(400)}},
	}

	rates := engine.ResolveRates(rec, hours(0))

	if !rates.Earned.IsZero() {
		t.Errorf("expected zero earned rate, got %v", rates.Earned)
	}
}

func TestResolveRates_NonBillable_EarnsNothing(t *testing.T) {
	// GIVEN: A non-billable record with rates on every channel
	// WHEN: Resolving
	// THEN: The earned rate is forced to zero; the cost rate survives

	rec := engine.TimeRecord{
		Billable:   false,
		EarnedRate: decPtr(100),
		CostRate:   decPtr(60),
	}

	rates := engine.ResolveRates(rec, hours(8))

	if !rates.Earned.IsZero() {
		t.Errorf("non-billable record earned %v", rates.Earned)
	}
	if !rates.Cost.Equal(money(60)) {
		t.Errorf("expected cost rate 60, got %v", rates.Cost)
	}
}

func TestResolveRates_NegativeRate_ClampedToZero(t *testing.T) {
	// GIVEN: A corrupt negative rate
	// WHEN: Resolving
	// THEN: Clamped to zero rather than producing negative amounts

	rec := engine.TimeRecord{Billable: true, HourlyRate: decPtr(-20)}

	rates := engine.ResolveRates(rec, hours(8))

	if !rates.Earned.IsZero() || !rates.Cost.IsZero() {
		t.Errorf("expected zero rates, got %v/%v", rates.Earned, rates.Cost)
	}
}

func TestResolveRates_NoRateAnywhere_Zero(t *testing.T) {
	// GIVEN: A record with no rate information at all
	// WHEN: Resolving
	// THEN: Zero rates; the record still participates in hour totals

	rates := engine.ResolveRates(engine.TimeRecord{Billable: true}, hours(8))

	if !rates.Earned.IsZero() || !rates.Cost.IsZero() {
		t.Errorf("expected zero rates, got %v/%v", rates.Earned, rates.Cost)
	}
}
