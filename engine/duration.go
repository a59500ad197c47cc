package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DURATION RESOLUTION - Total, never-failing
// =============================================================================

// ResolveDuration extracts a record interval's duration in hours.
// Resolution order:
//  1. the explicit ISO-8601 duration string, when it parses
//  2. end minus start, when both timestamps are usable
//  3. zero
//
// The result is always finite and non-negative. Malformed intervals
// contribute zero duration rather than failing the batch.
func ResolveDuration(iv Interval) Hours {
	if iv.Duration != "" {
		if h, ok := parseISODuration(iv.Duration); ok {
			return h.Clamp()
		}
	}
	if !iv.Start.IsZero() && !iv.End.IsZero() && iv.End.After(iv.Start) {
		return HoursOf(iv.End.Sub(iv.Start).Hours())
	}
	return Hours{}
}

// HasUsableInterval reports whether the record carries any time signal at
// all: records with neither a parseable duration nor a valid start are
// skipped by the aggregator (they cannot even be assigned to a day).
func HasUsableInterval(iv Interval) bool {
	return !iv.Start.IsZero()
}

// parseISODuration parses the subset of ISO-8601 durations that time
// trackers emit: P[nW][nD][T[nH][nM][nS]], with decimal fractions allowed
// on any component. Returns ok=false on anything it cannot read; it never
// panics and never returns a negative result as ok.
func parseISODuration(s string) (Hours, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 || s[0] != 'P' {
		return Hours{}, false
	}
	s = s[1:]

	total := decimal.Zero
	inTime := false
	sawComponent := false
	num := ""

	addComponent := func(unit byte) bool {
		if num == "" {
			return false
		}
		v, err := decimal.NewFromString(num)
		if err != nil || v.IsNegative() {
			return false
		}
		num = ""
		var inHours decimal.Decimal
		switch {
		case unit == 'W' && !inTime:
			inHours = v.Mul(decimal.NewFromInt(7 * 24))
		case unit == 'D' && !inTime:
			inHours = v.Mul(decimal.NewFromInt(24))
		case unit == 'H' && inTime:
			inHours = v
		case unit == 'M' && inTime:
			inHours = v.Div(decimal.NewFromInt(60))
		case unit == 'S' && inTime:
			inHours = v.Div(decimal.NewFromInt(3600))
		default:
			return false
		}
		total = total.Add(inHours)
		sawComponent = true
		return true
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 'T':
			if inTime || num != "" {
				return Hours{}, false
			}
			inTime = true
		case c >= '0' && c <= '9' || c == '.' || c == ',':
			if c == ',' {
				c = '.'
			}
			num += string(c)
		case c == 'W' || c == 'D' || c == 'H' || c == 'M' || c == 'S':
			if !addComponent(c) {
				return Hours{}, false
			}
		default:
			return Hours{}, false
		}
	}

	if !sawComponent || num != "" {
		return Hours{}, false
	}
	return HoursFrom(total), true
}
