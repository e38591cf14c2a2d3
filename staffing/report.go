/*
report.go - Report builders on top of the timeline engine

PURPOSE:
  Maps staffing records onto a generic.Timeline, asks for the view of a
  window and folds every segment into a report row.

REPORTS:
  Person allocation timeline:
    Items are the person's position instances and absences. A row's
    Workload is the sum of every active position's Workload and every
    active absence's AbsencePercentage.

  Request timeline:
    Items are a project's resource allocation requests, dated through
    their linked position instance. A row's Workload is the sum of the
    active requests' Workload.

AGGREGATION RULE:
  Always the SUM over every active occurrence. Never average, never max,
  never deduplicated: a record passed twice counts twice.

SEE ALSO:
  - generic/timeline.go: Segmentation algorithm
  - service.go: Loads records from a Store and calls these builders
*/
package staffing

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/warp/staffing-timeline/generic"
)

// =============================================================================
// PERSON ALLOCATION TIMELINE
// =============================================================================

type ItemKind string

const (
	ItemPosition ItemKind = "position"
	ItemAbsence  ItemKind = "absence"
)

// AllocationItem is either a position instance or an absence.
type AllocationItem struct {
	Kind     ItemKind
	Position *PositionInstance
	Absence  *Absence
}

func (i AllocationItem) From() generic.Date {
	if i.Kind == ItemAbsence {
		return i.Absence.From
	}
	return i.Position.From
}

func (i AllocationItem) To() generic.Date {
	if i.Kind == ItemAbsence {
		return i.Absence.To
	}
	return i.Position.To
}

// Workload is the item's contribution to a row's total.
func (i AllocationItem) Workload() decimal.Decimal {
	if i.Kind == ItemAbsence {
		return i.Absence.AbsencePercentage
	}
	return i.Position.Workload
}

// compareAllocationItems puts positions before absences, then orders by ID.
func compareAllocationItems(a, b AllocationItem) int {
	if a.Kind != b.Kind {
		if a.Kind == ItemPosition {
			return -1
		}
		return 1
	}
	if a.Kind == ItemAbsence {
		return cmp.Compare(a.Absence.ID, b.Absence.ID)
	}
	return cmp.Compare(a.Position.ID, b.Position.ID)
}

// PersonTimelineRow is one segment of a person's allocation.
type PersonTimelineRow struct {
	From      generic.Date
	To        generic.Date
	Positions []PositionInstance
	Absences  []Absence
	Workload  decimal.Decimal
}

type PersonTimeline struct {
	PersonID PersonID
	Window   generic.DateRange
	Rows     []PersonTimelineRow
}

// BuildPersonTimeline merges positions and absences into rows covering window.
// A record with From after To fails the whole build.
func BuildPersonTimeline(personID PersonID, positions []PositionInstance, absences []Absence, window generic.DateRange) (*PersonTimeline, error) {
	tl := generic.NewTimeline(AllocationItem.From, AllocationItem.To).OrderBy(compareAllocationItems)

	for i := range positions {
		if err := tl.Add(AllocationItem{Kind: ItemPosition, Position: &positions[i]}); err != nil {
			return nil, fmt.Errorf("position %s: %w", positions[i].ID, err)
		}
	}
	for i := range absences {
		if err := tl.Add(AllocationItem{Kind: ItemAbsence, Absence: &absences[i]}); err != nil {
			return nil, fmt.Errorf("absence %s: %w", absences[i].ID, err)
		}
	}

	view, err := tl.GetView(window.From, window.To)
	if err != nil {
		return nil, err
	}

	rows := make([]PersonTimelineRow, 0, len(view))
	for _, seg := range view {
		row := PersonTimelineRow{From: seg.From, To: seg.To, Workload: decimal.Zero}
		for _, item := range seg.Items() {
			switch item.Kind {
			case ItemPosition:
				row.Positions = append(row.Positions, *item.Position)
			case ItemAbsence:
				row.Absences = append(row.Absences, *item.Absence)
			}
			row.Workload = row.Workload.Add(item.Workload())
		}
		rows = append(rows, row)
	}

	return &PersonTimeline{PersonID: personID, Window: window, Rows: rows}, nil
}

// =============================================================================
// REQUEST TIMELINE
// =============================================================================

// RequestTimelineRow is one segment of a project's open requests.
type RequestTimelineRow struct {
	From     generic.Date
	To       generic.Date
	Requests []ResourceRequest
	Workload decimal.Decimal
}

type RequestTimeline struct {
	ProjectID ProjectID
	Window    generic.DateRange
	Rows      []RequestTimelineRow

	// Undated lists requests with no linked position instance. They have
	// no range, so they are reported here instead of in Rows.
	Undated []ResourceRequest
}

func requestFrom(r *ResourceRequest) generic.Date { return r.PositionInstance.From }
func requestTo(r *ResourceRequest) generic.Date   { return r.PositionInstance.To }

func compareRequests(a, b *ResourceRequest) int {
	return cmp.Or(cmp.Compare(a.Number, b.Number), cmp.Compare(a.ID, b.ID))
}

// BuildRequestTimeline merges requests into rows covering window.
func BuildRequestTimeline(projectID ProjectID, requests []ResourceRequest, window generic.DateRange) (*RequestTimeline, error) {
	tl := generic.NewTimeline(requestFrom, requestTo).OrderBy(compareRequests)
	report := &RequestTimeline{ProjectID: projectID, Window: window}

	for i := range requests {
		if !requests[i].IsDated() {
			report.Undated = append(report.Undated, requests[i])
			continue
		}
		if err := tl.Add(&requests[i]); err != nil {
			return nil, fmt.Errorf("request %s: %w", requests[i].ID, err)
		}
	}

	view, err := tl.GetView(window.From, window.To)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(report.Undated, func(a, b ResourceRequest) int { return compareRequests(&a, &b) })

	report.Rows = make([]RequestTimelineRow, 0, len(view))
	for _, seg := range view {
		row := RequestTimelineRow{From: seg.From, To: seg.To, Workload: decimal.Zero}
		for _, req := range seg.Items() {
			row.Requests = append(row.Requests, *req)
			row.Workload = row.Workload.Add(req.Workload)
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}
