/*
amounts.go - Monetary amount computation

PURPOSE:
  Turns resolved hours, rates and multipliers into money. Computed
  independently for the earned-rate and cost-rate bases; profit is the
  difference of their overtime-inclusive totals.

FORMULAS (per basis):
  regularAmount   = regular * rate
  overtimeBase    = overtime * rate
  tier1Premium    = overtime * rate * (multiplier - 1)
  tier2Premium    = tierHours * rate * (tierMultiplier - multiplier)
  totalWithOT     = regular + overtimeBase + tier1 + tier2
  totalPlain      = regular + overtimeBase

  A tier multiplier configured below the base multiplier is floored at
  the base multiplier, so the tier-2 premium can never be negative.
*/
package engine

import "github.com/shopspring/decimal"

// AmountInput is everything needed to price one record on one rate basis.
type AmountInput struct {
	Rate           Money
	Regular        Hours
	Overtime       Hours
	Multiplier     decimal.Decimal
	TierHours      Hours // tier-2-eligible portion of Overtime
	TierMultiplier decimal.Decimal
}

// AmountBreakdown is the priced result for one basis.
type AmountBreakdown struct {
	Regular      Money
	OvertimeBase Money
	Tier1Premium Money
	Tier2Premium Money

	// TotalWithOvertime includes both premiums; TotalPlain prices the same
	// hours as if no multipliers applied.
	TotalWithOvertime Money
	TotalPlain        Money
}

var one = decimal.NewFromInt(1)

// CalculateAmounts prices one record on one rate basis.
func CalculateAmounts(in AmountInput) AmountBreakdown {
	multiplier := in.Multiplier
	if multiplier.LessThan(one) {
		multiplier = one
	}
	tierMultiplier := in.TierMultiplier
	if tierMultiplier.LessThan(multiplier) {
		tierMultiplier = multiplier
	}

	out := AmountBreakdown{
		Regular:      in.Rate.MulHours(in.Regular.Clamp()),
		OvertimeBase: in.Rate.MulHours(in.Overtime.Clamp()),
	}
	out.Tier1Premium = in.Rate.MulHours(in.Overtime.Clamp()).MulFactor(multiplier.Sub(one))
	if in.TierHours.IsPositive() {
		out.Tier2Premium = in.Rate.MulHours(in.TierHours).MulFactor(tierMultiplier.Sub(multiplier))
	}

	out.TotalPlain = out.Regular.Add(out.OvertimeBase)
	out.TotalWithOvertime = out.TotalPlain.Add(out.Tier1Premium).Add(out.Tier2Premium)
	return out
}

// TierEnabled reports whether the second tier is in effect for the given
// multipliers: it requires a tier multiplier strictly above the base one.
func TierEnabled(multiplier, tierMultiplier decimal.Decimal) bool {
	return tierMultiplier.GreaterThan(multiplier)
}
