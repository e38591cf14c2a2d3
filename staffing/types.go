// Package staffing implements the staffing reports on top of the generic
// timeline engine: person allocation timelines (positions + absences) and
// project request timelines.
package staffing

import (
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-timeline/generic"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PersonID string
type ProjectID string

// =============================================================================
// POSITION INSTANCE - A dated slice of an org-chart position
// =============================================================================

// PositionInstance is one dated assignment period of a project position.
// Workload is a percentage of full time (100 = full time).
type PositionInstance struct {
	ID         string
	PositionID string
	ProjectID  ProjectID
	PersonID   PersonID // empty = vacant
	Name       string
	From       generic.Date
	To         generic.Date
	Workload   decimal.Decimal
}

func (p PositionInstance) Range() generic.DateRange {
	return generic.DateRange{From: p.From, To: p.To}
}

// =============================================================================
// ABSENCE
// =============================================================================

type AbsenceType string

const (
	AbsenceTypeAbsence    AbsenceType = "absence"
	AbsenceTypeVacation   AbsenceType = "vacation"
	AbsenceTypeOtherTasks AbsenceType = "otherTasks"
)

// Valid reports whether t is a known absence type.
func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceTypeAbsence, AbsenceTypeVacation, AbsenceTypeOtherTasks:
		return true
	}
	return false
}

// Absence is a leave or other-task period for a person.
// AbsencePercentage is how much of the person's time it takes.
type Absence struct {
	ID                string
	PersonID          PersonID
	Type              AbsenceType
	From              generic.Date
	To                generic.Date
	AbsencePercentage decimal.Decimal
	IsPrivate         bool
	Comment           string
}

func (a Absence) Range() generic.DateRange {
	return generic.DateRange{From: a.From, To: a.To}
}

// =============================================================================
// RESOURCE ALLOCATION REQUEST
// =============================================================================

type RequestState string

const (
	RequestCreated      RequestState = "created"
	RequestProposal     RequestState = "proposal"
	RequestApproval     RequestState = "approval"
	RequestProvisioning RequestState = "provisioning"
	RequestCompleted    RequestState = "completed"
)

// Valid reports whether s is a known request state.
func (s RequestState) Valid() bool {
	switch s {
	case RequestCreated, RequestProposal, RequestApproval, RequestProvisioning, RequestCompleted:
		return true
	}
	return false
}

// ResourceRequest asks for someone to fill a position instance. It has no
// dates of its own: its range comes from the linked position instance.
type ResourceRequest struct {
	ID                 string
	Number             int64
	ProjectID          ProjectID
	State              RequestState
	PositionInstanceID string
	ProposedPersonID   PersonID
	Workload           decimal.Decimal

	// Resolved by the store from PositionInstanceID; nil when unlinked.
	PositionInstance *PositionInstance
}

// IsDated reports whether the request can be placed on a timeline.
func (r ResourceRequest) IsDated() bool {
	return r.PositionInstance != nil
}
