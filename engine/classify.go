package engine

// =============================================================================
// ENTRY CLASSIFICATION - Record kind -> accounting class
// =============================================================================

// Class is the accounting classification of a record. It decides which
// bucket a record's hours land in and whether the record participates in
// overtime attribution.
type Class string

const (
	// ClassWork: ordinary work; subject to tail attribution and overtime.
	ClassWork Class = "work"

	// ClassBreak: tracked as a separate bucket; never overtime, never
	// advances the day accumulator.
	ClassBreak Class = "break"

	// ClassPaidLeave: holiday and time-off entries; accounted as regular
	// time with ordinary per-record amounts, excluded from overtime.
	ClassPaidLeave Class = "paid_leave"
)

// Classify maps a declared record kind to its accounting class.
// Unknown kinds are treated as ordinary work.
func Classify(k Kind) Class {
	switch k {
	case KindBreak:
		return ClassBreak
	case KindHoliday, KindTimeOff:
		return ClassPaidLeave
	default:
		return ClassWork
	}
}
