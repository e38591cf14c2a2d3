package generic

// =============================================================================
// DATE RANGE - Inclusive [From, To] at day granularity
// =============================================================================

// DateRange is a closed range of calendar days. Both ends are included,
// so a range with From == To covers exactly one day.
//
// Examples:
//   - Position assignment: 2021-04-01 .. 2021-08-31
//   - One-day absence:     2021-04-30 .. 2021-04-30
type DateRange struct {
	From Date
	To   Date
}

// NewDateRange validates and returns a range. A range whose From is after
// its To is rejected, never swapped.
func NewDateRange(from, to Date) (DateRange, error) {
	if from.After(to) {
		return DateRange{}, &InvalidRangeError{From: from, To: to}
	}
	return DateRange{From: from, To: to}, nil
}

// Overlaps reports whether the two ranges share at least one day.
// Ranges touching on a single day (a.To == b.From) overlap on that day.
func Overlaps(a, b DateRange) bool {
	return a.From.BeforeOrEqual(b.To) && b.From.BeforeOrEqual(a.To)
}

// Overlaps is the method form of the package-level Overlaps.
func (r DateRange) Overlaps(other DateRange) bool {
	return Overlaps(r, other)
}

// Contains returns true if d is within [From, To].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.From) && d.BeforeOrEqual(r.To)
}

// Days returns the number of days covered, both ends included.
func (r DateRange) Days() int {
	return DaysBetween(r.From, r.To) + 1
}

// Valid reports whether From <= To.
func (r DateRange) Valid() bool {
	return r.From.BeforeOrEqual(r.To)
}

func (r DateRange) String() string {
	return "[" + r.From.String() + ".." + r.To.String() + "]"
}
