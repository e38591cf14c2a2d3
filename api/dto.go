/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

FORMATS:
  Dates are "YYYY-MM-DD". Workloads are decimals; responses encode them as
  strings ("62.5"), requests accept either strings or numbers.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-timeline/staffing"
)

// =============================================================================
// RECORDS
// =============================================================================

// PositionDTO represents a position instance.
type PositionDTO struct {
	ID         string          `json:"id"`
	PositionID string          `json:"position_id"`
	ProjectID  string          `json:"project_id"`
	PersonID   string          `json:"person_id,omitempty"`
	Name       string          `json:"name,omitempty"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Workload   decimal.Decimal `json:"workload"`
}

// CreatePositionRequest is the request to save a position instance.
type CreatePositionRequest struct {
	ID         string          `json:"id"`
	PositionID string          `json:"position_id"`
	ProjectID  string          `json:"project_id"`
	PersonID   string          `json:"person_id"`
	Name       string          `json:"name"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Workload   decimal.Decimal `json:"workload"`
}

// AbsenceDTO represents an absence.
type AbsenceDTO struct {
	ID                string          `json:"id"`
	PersonID          string          `json:"person_id"`
	Type              string          `json:"type"`
	From              string          `json:"from"`
	To                string          `json:"to"`
	AbsencePercentage decimal.Decimal `json:"absence_percentage"`
	IsPrivate         bool            `json:"is_private"`
	Comment           string          `json:"comment,omitempty"`
}

// CreateAbsenceRequest is the request to save an absence.
type CreateAbsenceRequest struct {
	ID                string          `json:"id"`
	PersonID          string          `json:"person_id"`
	Type              string          `json:"type"`
	From              string          `json:"from"`
	To                string          `json:"to"`
	AbsencePercentage decimal.Decimal `json:"absence_percentage"`
	IsPrivate         bool            `json:"is_private"`
	Comment           string          `json:"comment"`
}

// RequestDTO represents a resource allocation request.
type RequestDTO struct {
	ID                 string          `json:"id"`
	Number             int64           `json:"number"`
	ProjectID          string          `json:"project_id"`
	State              string          `json:"state"`
	PositionInstanceID string          `json:"position_instance_id,omitempty"`
	ProposedPersonID   string          `json:"proposed_person_id,omitempty"`
	Workload           decimal.Decimal `json:"workload"`
	From               string          `json:"from,omitempty"`
	To                 string          `json:"to,omitempty"`
}

// CreateResourceRequest is the request to save a resource allocation request.
type CreateResourceRequest struct {
	ID                 string          `json:"id"`
	Number             int64           `json:"number"`
	ProjectID          string          `json:"project_id"`
	State              string          `json:"state"`
	PositionInstanceID string          `json:"position_instance_id"`
	ProposedPersonID   string          `json:"proposed_person_id"`
	Workload           decimal.Decimal `json:"workload"`
}

// =============================================================================
// TIMELINES
// =============================================================================

// PersonTimelineDTO is the allocation timeline of one person.
type PersonTimelineDTO struct {
	PersonID string                 `json:"person_id"`
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Rows     []PersonTimelineRowDTO `json:"rows"`
}

type PersonTimelineRowDTO struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Workload  decimal.Decimal `json:"workload"`
	Positions []PositionDTO   `json:"positions"`
	Absences  []AbsenceDTO    `json:"absences"`
}

// RequestTimelineDTO is the request timeline of one project.
type RequestTimelineDTO struct {
	ProjectID string                  `json:"project_id"`
	From      string                  `json:"from"`
	To        string                  `json:"to"`
	Rows      []RequestTimelineRowDTO `json:"rows"`
	Undated   []RequestDTO            `json:"undated"`
}

type RequestTimelineRowDTO struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Workload decimal.Decimal `json:"workload"`
	Requests []RequestDTO    `json:"requests"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPositionDTO(p staffing.PositionInstance) PositionDTO {
	return PositionDTO{
		ID:         p.ID,
		PositionID: p.PositionID,
		ProjectID:  string(p.ProjectID),
		PersonID:   string(p.PersonID),
		Name:       p.Name,
		From:       p.From.String(),
		To:         p.To.String(),
		Workload:   p.Workload,
	}
}

func toAbsenceDTO(a staffing.Absence) AbsenceDTO {
	return AbsenceDTO{
		ID:                a.ID,
		PersonID:          string(a.PersonID),
		Type:              string(a.Type),
		From:              a.From.String(),
		To:                a.To.String(),
		AbsencePercentage: a.AbsencePercentage,
		IsPrivate:         a.IsPrivate,
		Comment:           a.Comment,
	}
}

func toRequestDTO(r staffing.ResourceRequest) RequestDTO {
	dto := RequestDTO{
		ID:                 r.ID,
		Number:             r.Number,
		ProjectID:          string(r.ProjectID),
		State:              string(r.State),
		PositionInstanceID: r.PositionInstanceID,
		ProposedPersonID:   string(r.ProposedPersonID),
		Workload:           r.Workload,
	}
	if r.PositionInstance != nil {
		dto.From = r.PositionInstance.From.String()
		dto.To = r.PositionInstance.To.String()
	}
	return dto
}

func toPersonTimelineDTO(t *staffing.PersonTimeline) PersonTimelineDTO {
	dto := PersonTimelineDTO{
		PersonID: string(t.PersonID),
		From:     t.Window.From.String(),
		To:       t.Window.To.String(),
		Rows:     make([]PersonTimelineRowDTO, len(t.Rows)),
	}
	for i, row := range t.Rows {
		rowDTO := PersonTimelineRowDTO{
			From:      row.From.String(),
			To:        row.To.String(),
			Workload:  row.Workload,
			Positions: make([]PositionDTO, len(row.Positions)),
			Absences:  make([]AbsenceDTO, len(row.Absences)),
		}
		for j, p := range row.Positions {
			rowDTO.Positions[j] = toPositionDTO(p)
		}
		for j, a := range row.Absences {
			rowDTO.Absences[j] = toAbsenceDTO(a)
		}
		dto.Rows[i] = rowDTO
	}
	return dto
}

func toRequestTimelineDTO(t *staffing.RequestTimeline) RequestTimelineDTO {
	dto := RequestTimelineDTO{
		ProjectID: string(t.ProjectID),
		From:      t.Window.From.String(),
		To:        t.Window.To.String(),
		Rows:      make([]RequestTimelineRowDTO, len(t.Rows)),
		Undated:   make([]RequestDTO, len(t.Undated)),
	}
	for i, row := range t.Rows {
		rowDTO := RequestTimelineRowDTO{
			From:     row.From.String(),
			To:       row.To.String(),
			Workload: row.Workload,
			Requests: make([]RequestDTO, len(row.Requests)),
		}
		for j, r := range row.Requests {
			rowDTO.Requests[j] = toRequestDTO(r)
		}
		dto.Rows[i] = rowDTO
	}
	for i, r := range t.Undated {
		dto.Undated[i] = toRequestDTO(r)
	}
	return dto
}
