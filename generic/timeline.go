/*
timeline.go - Timeline segmentation: interval merge over dated items

PURPOSE:
  Turns a bag of dated, possibly-overlapping items (position assignments,
  absences, staffing requests) into an ordered, non-overlapping partition of
  a query window. Each partition (Segment) carries the exact set of items
  active during it. Report builders fold those items into report rows.

KEY CONCEPTS:
  TimedItem:  One occurrence of a payload together with its DateRange.
              Adding the same payload twice yields two occurrences.
  Timeline:   Unordered bag of TimedItems. The payload's dates are read
              through two accessor functions bound at construction.
  Segment:    A maximal contiguous day range with a constant active set.
              Never empty.
  View:       Segments for a window, ascending, non-overlapping.

ALGORITHM (sweep line over change points):
  The active set can only change on an item's From, or on the day after its
  To. GetView collects those change points for items overlapping the window,
  plus the window start and a terminal point at windowEnd+1, sorts them and
  turns each consecutive pair (b_i, b_i+1) into the candidate [b_i, b_i+1 - 1].
  Membership is decided by overlap with the candidate itself, so items that
  start before or end after the window are clipped correctly. Candidates with
  no members are gaps and are dropped.

  Example, window [04-01..08-31]:
    P1    [04-01 ........ 04-30]
    P2                   [04-30 ........ 05-31]
    P3                                          [06-01 .. 06-30]

    [04-01..04-29]{P1} [04-30..04-30]{P1,P2} [05-01..05-31]{P2} [06-01..06-30]{P3}

  Cost: O(N log N) to sort change points, O(N*S) for membership.

CONCURRENCY:
  Build once, read many. Add is not safe to race with GetView; concurrent
  GetView calls on a timeline that is no longer being mutated are safe.

USAGE:
  tl := generic.NewTimeline(
      func(p Position) generic.Date { return p.From },
      func(p Position) generic.Date { return p.To },
  )
  for _, p := range positions {
      if err := tl.Add(p); err != nil {
          return err
      }
  }
  view, err := tl.GetView(start, end)

SEE ALSO:
  - daterange.go: Overlap predicate
  - staffing/report.go: Builders that fold segments into rows
*/
package generic

import (
	"slices"
)

// =============================================================================
// TIMED ITEM - One occurrence of a payload on the timeline
// =============================================================================

// TimedItem pairs a payload with its range. Owned by the Timeline it was
// added to and never mutated after Add.
type TimedItem[T any] struct {
	Range   DateRange
	Payload T

	seq int // insertion sequence, breaks ordering ties inside a segment
}

// =============================================================================
// TIMELINE
// =============================================================================

// Timeline is an unordered bag of dated items.
type Timeline[T any] struct {
	fromOf func(T) Date
	toOf   func(T) Date
	order  func(a, b T) int
	items  []*TimedItem[T]
}

// NewTimeline creates an empty timeline that reads each payload's range
// through the given accessors.
func NewTimeline[T any](from, to func(T) Date) *Timeline[T] {
	return &Timeline[T]{fromOf: from, toOf: to}
}

// OrderBy sets the order of items that share the same range inside a
// segment. Without it, such items keep their insertion order. cmp must be a
// total order on payloads for views to be independent of insertion order.
func (tl *Timeline[T]) OrderBy(cmp func(a, b T) int) *Timeline[T] {
	tl.order = cmp
	return tl
}

// Add appends one occurrence of payload. Payloads are never deduplicated.
// A payload whose range ends before it starts is rejected and not added.
func (tl *Timeline[T]) Add(payload T) error {
	item, err := tl.newItem(payload, len(tl.items))
	if err != nil {
		return err
	}
	tl.items = append(tl.items, item)
	return nil
}

// AddAll adds every payload, or none of them if any is invalid.
func (tl *Timeline[T]) AddAll(payloads ...T) error {
	items := make([]*TimedItem[T], 0, len(payloads))
	for i, p := range payloads {
		item, err := tl.newItem(p, len(tl.items)+i)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	tl.items = append(tl.items, items...)
	return nil
}

// Len returns the number of occurrences added so far.
func (tl *Timeline[T]) Len() int {
	return len(tl.items)
}

func (tl *Timeline[T]) newItem(payload T, seq int) (*TimedItem[T], error) {
	r, err := NewDateRange(tl.fromOf(payload), tl.toOf(payload))
	if err != nil {
		return nil, err
	}
	return &TimedItem[T]{Range: r, Payload: payload, seq: seq}, nil
}

// GetView partitions [windowStart, windowEnd] into segments of constant
// active item sets. Days with no active item are left out.
func (tl *Timeline[T]) GetView(windowStart, windowEnd Date) (View[T], error) {
	if windowStart.After(windowEnd) {
		return nil, &InvalidWindowError{Start: windowStart, End: windowEnd}
	}
	window := DateRange{From: windowStart, To: windowEnd}

	active := make([]*TimedItem[T], 0, len(tl.items))
	boundaries := []Date{windowStart, windowEnd.AddDays(1)}
	for _, item := range tl.items {
		if !Overlaps(item.Range, window) {
			continue
		}
		active = append(active, item)
		if item.Range.From.AfterOrEqual(windowStart) {
			boundaries = append(boundaries, item.Range.From)
		}
		if next := item.Range.To.AddDays(1); next.BeforeOrEqual(windowEnd) {
			boundaries = append(boundaries, next)
		}
	}

	slices.SortFunc(boundaries, Date.Compare)
	boundaries = slices.CompactFunc(boundaries, Date.Equal)
	slices.SortFunc(active, tl.compareItems)

	view := make(View[T], 0, len(boundaries)-1)
	for i := 0; i+1 < len(boundaries); i++ {
		candidate := DateRange{From: boundaries[i], To: boundaries[i+1].AddDays(-1)}

		var members []*TimedItem[T]
		for _, item := range active {
			if Overlaps(item.Range, candidate) {
				members = append(members, item)
			}
		}
		if len(members) == 0 {
			continue
		}
		view = append(view, Segment[T]{From: candidate.From, To: candidate.To, occurrences: members})
	}
	return view, nil
}

// compareItems orders occurrences by range, then by payload order if one
// was set, then by insertion.
func (tl *Timeline[T]) compareItems(a, b *TimedItem[T]) int {
	if c := a.Range.From.Compare(b.Range.From); c != 0 {
		return c
	}
	if c := a.Range.To.Compare(b.Range.To); c != 0 {
		return c
	}
	if tl.order != nil {
		if c := tl.order(a.Payload, b.Payload); c != 0 {
			return c
		}
	}
	return a.seq - b.seq
}

// =============================================================================
// SEGMENT & VIEW
// =============================================================================

// Segment is a contiguous day range with a constant, non-empty active set.
type Segment[T any] struct {
	From Date
	To   Date

	occurrences []*TimedItem[T]
}

// Range returns the segment's days as a DateRange.
func (s Segment[T]) Range() DateRange {
	return DateRange{From: s.From, To: s.To}
}

// Items returns a snapshot of the active payloads, one entry per occurrence.
func (s Segment[T]) Items() []T {
	out := make([]T, len(s.occurrences))
	for i, item := range s.occurrences {
		out[i] = item.Payload
	}
	return out
}

// Occurrences returns the active items. Callers must not modify them.
func (s Segment[T]) Occurrences() []*TimedItem[T] {
	return slices.Clone(s.occurrences)
}

// Len returns the number of active occurrences.
func (s Segment[T]) Len() int {
	return len(s.occurrences)
}

func (s Segment[T]) String() string {
	return s.Range().String()
}

// View is the ordered list of segments returned by GetView.
type View[T any] []Segment[T]

// At returns the segment covering d, if any.
func (v View[T]) At(d Date) (Segment[T], bool) {
	i, found := slices.BinarySearchFunc(v, d, func(s Segment[T], target Date) int {
		switch {
		case s.To.Before(target):
			return -1
		case s.From.After(target):
			return 1
		default:
			return 0
		}
	})
	if !found {
		return Segment[T]{}, false
	}
	return v[i], true
}
