/*
rates.go - Effective hourly rate extraction

PURPOSE:
  A record's rate can arrive in several mutually-fallback-ordered shapes:
  a direct earned/cost rate field, a generic hourly rate, or a typed
  total-amount entry that must be divided by the record's duration.
  This file collapses those shapes into one earned rate and one cost rate.

RESOLUTION ORDER (per rate, first hit wins):
  1. Direct field (EarnedRate / CostRate)
  2. Generic HourlyRate
  3. Amounts list entry (EARNED / COST) divided by duration, duration > 0

BILLABILITY:
  Non-billable work earns nothing: the earned rate is forced to zero.
  The cost rate is unaffected - internal cost is incurred regardless.

TOTALITY:
  Extraction never fails. Absent or negative inputs resolve to zero.
*/
package engine

import "github.com/shopspring/decimal"

// Rates is the resolved pair of effective hourly rates for one record.
type Rates struct {
	Earned Money
	Cost   Money
}

// rateExtractor is one step of the fallback chain: it either produces a
// rate or defers to the next extractor.
type rateExtractor func() (Money, bool)

// ResolveRates extracts the effective earned and cost hourly rates for a
// record whose duration has already been resolved.
func ResolveRates(rec TimeRecord, duration Hours) Rates {
	earned := firstRate(
		directRate(rec.EarnedRate),
		directRate(rec.HourlyRate),
		amountRate(rec.Amounts, AmountEarned, duration),
	)
	cost := firstRate(
		directRate(rec.CostRate),
		directRate(rec.HourlyRate),
		amountRate(rec.Amounts, AmountCost, duration),
	)

	if !rec.Billable {
		earned = Money{}
	}
	return Rates{Earned: earned, Cost: cost}
}

func firstRate(extractors ...rateExtractor) Money {
	for _, ex := range extractors {
		if rate, ok := ex(); ok {
			return rate.Clamp()
		}
	}
	return Money{}
}

func directRate(field *decimal.Decimal) rateExtractor {
	return func() (Money, bool) {
		if field == nil {
			return Money{}, false
		}
		return MoneyFrom(*field), true
	}
}

func amountRate(entries []AmountEntry, kind AmountKind, duration Hours) rateExtractor {
	return func() (Money, bool) {
		if !duration.IsPositive() {
			return Money{}, false
		}
		for _, e := range entries {
			if e.Kind == kind {
				return MoneyFrom(e.Value).DivHours(duration), true
			}
		}
		return Money{}, false
	}
}
