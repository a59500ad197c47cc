package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Duration quantity in hours
// =============================================================================

// Hours is an hour count backed by decimal arithmetic. Keeping hours and
// money as distinct types prevents accidentally adding one to the other.
type Hours struct {
	Value decimal.Decimal
}

func HoursOf(v float64) Hours           { return Hours{Value: decimal.NewFromFloat(v)} }
func HoursFrom(v decimal.Decimal) Hours { return Hours{Value: v} }

func (h Hours) Add(o Hours) Hours { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Neg() Hours        { return Hours{Value: h.Value.Neg()} }

func (h Hours) Min(o Hours) Hours {
	if h.LessThan(o) {
		return h
	}
	return o
}

func (h Hours) Max(o Hours) Hours {
	if h.GreaterThan(o) {
		return h
	}
	return o
}

func (h Hours) IsZero() bool             { return h.Value.IsZero() }
func (h Hours) IsNegative() bool         { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool         { return h.Value.IsPositive() }
func (h Hours) LessThan(o Hours) bool    { return h.Value.LessThan(o.Value) }
func (h Hours) GreaterThan(o Hours) bool { return h.Value.GreaterThan(o.Value) }
func (h Hours) GreaterOrEqual(o Hours) bool { return !h.Value.LessThan(o.Value) }
func (h Hours) Equal(o Hours) bool       { return h.Value.Equal(o.Value) }
func (h Hours) Float() float64           { f, _ := h.Value.Float64(); return f }

// Clamp floors negative hours at zero. Malformed input never produces
// negative durations downstream.
func (h Hours) Clamp() Hours {
	if h.IsNegative() {
		return Hours{}
	}
	return h
}

func (h Hours) MarshalJSON() ([]byte, error)  { return h.Value.MarshalJSON() }
func (h *Hours) UnmarshalJSON(b []byte) error { return h.Value.UnmarshalJSON(b) }

func (h Hours) String() string { return h.Value.String() }

// =============================================================================
// MONEY - Currency amount (also used for hourly rates)
// =============================================================================

// Money is a currency figure. Rates are Money per hour; multiplying a
// rate by Hours yields an amount.
type Money struct {
	Value decimal.Decimal
}

func MoneyOf(v float64) Money           { return Money{Value: decimal.NewFromFloat(v)} }
func MoneyFrom(v decimal.Decimal) Money { return Money{Value: v} }

func (m Money) Add(o Money) Money        { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money        { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) IsZero() bool             { return m.Value.IsZero() }
func (m Money) IsNegative() bool         { return m.Value.IsNegative() }
func (m Money) Equal(o Money) bool       { return m.Value.Equal(o.Value) }
func (m Money) Float() float64           { f, _ := m.Value.Float64(); return f }

// MulHours multiplies an hourly rate by an hour count.
func (m Money) MulHours(h Hours) Money { return Money{Value: m.Value.Mul(h.Value)} }

// MulFactor scales an amount by a plain factor (a multiplier delta).
func (m Money) MulFactor(f decimal.Decimal) Money { return Money{Value: m.Value.Mul(f)} }

// DivHours converts a total amount into an hourly rate. Division by zero
// hours resolves to zero rather than panicking.
func (m Money) DivHours(h Hours) Money {
	if h.Value.IsZero() {
		return Money{}
	}
	return Money{Value: m.Value.Div(h.Value)}
}

// Clamp floors negative money at zero.
func (m Money) Clamp() Money {
	if m.IsNegative() {
		return Money{}
	}
	return m
}

func (m Money) MarshalJSON() ([]byte, error)  { return m.Value.MarshalJSON() }
func (m *Money) UnmarshalJSON(b []byte) error { return m.Value.UnmarshalJSON(b) }

func (m Money) String() string { return m.Value.String() }
