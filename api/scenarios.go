/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with dated records
	that exercise the timeline edge cases: overlapping leave, positions
	touching on a single day, and requests crossing the window edges.

AVAILABLE SCENARIOS:

	positions-with-leave: Back-to-back positions with a leave across the change
	touching-positions:   Positions sharing one day, then a gap
	project-requests:     Requests dated through position instances, one undated

HOW SCENARIOS WORK:
 1. Save position instances
 2. Save absences
 3. Save requests linked to the instances
 Records use fixed IDs, so loading a scenario twice overwrites it.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "touching-positions"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description and loader

NOTE:

	Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Record handlers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/staffing-timeline/generic"
	"github.com/warp/staffing-timeline/staffing"
)

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PersonID    string `json:"person_id,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	From        string `json:"from"`
	To          string `json:"to"`
}

type scenario struct {
	ScenarioDTO
	load func(ctx context.Context, store staffing.Store) error
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "positions-with-leave",
			Name:        "Positions With Leave",
			Description: "Two back-to-back positions and a vacation spanning the change",
			PersonID:    "demo-person-1",
			From:        "2021-04-01",
			To:          "2021-08-31",
		},
		load: loadPositionsWithLeaveScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "touching-positions",
			Name:        "Touching Positions",
			Description: "Positions sharing a single day, followed by a separate position",
			PersonID:    "demo-person-2",
			From:        "2021-04-01",
			To:          "2021-08-31",
		},
		load: loadTouchingPositionsScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "project-requests",
			Name:        "Project Requests",
			Description: "Requests on instances crossing the window, plus one without an instance",
			ProjectID:   "demo-project",
			From:        "2021-04-04",
			To:          "2021-05-30",
		},
		load: loadProjectRequestsScenario,
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, out)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, s := range scenarios {
		if s.ID != req.ScenarioID {
			continue
		}
		if err := s.load(r.Context(), h.Store); err != nil {
			h.writeDomainError(w, "Failed to load scenario", err)
			return
		}
		h.Logger.WithField("scenario", s.ID).Info("scenario loaded")
		writeJSON(w, http.StatusOK, s.ScenarioDTO)
		return
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
}

// =============================================================================
// LOADERS
// =============================================================================

func loadPositionsWithLeaveScenario(ctx context.Context, store staffing.Store) error {
	person := staffing.PersonID("demo-person-1")
	positions := []staffing.PositionInstance{
		demoPosition("demo-pwl-p1", "demo-project", person, "Lead Engineer", "2021-04-01", "2021-04-30", 100),
		demoPosition("demo-pwl-p2", "demo-project", person, "Architect", "2021-05-01", "2021-05-31", 100),
	}
	for _, p := range positions {
		if err := store.SavePosition(ctx, p); err != nil {
			return err
		}
	}
	return store.SaveAbsence(ctx, staffing.Absence{
		ID:                "demo-pwl-leave",
		PersonID:          person,
		Type:              staffing.AbsenceTypeVacation,
		From:              generic.MustParseDate("2021-04-15"),
		To:                generic.MustParseDate("2021-05-15"),
		AbsencePercentage: decimal.NewFromInt(50),
	})
}

func loadTouchingPositionsScenario(ctx context.Context, store staffing.Store) error {
	person := staffing.PersonID("demo-person-2")
	for _, p := range []staffing.PositionInstance{
		demoPosition("demo-tp-p1", "demo-project", person, "Engineer", "2021-04-01", "2021-04-30", 100),
		demoPosition("demo-tp-p2", "demo-project", person, "Senior Engineer", "2021-04-30", "2021-05-31", 100),
		demoPosition("demo-tp-p3", "demo-other", person, "Advisor", "2021-06-01", "2021-06-30", 20),
	} {
		if err := store.SavePosition(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func loadProjectRequestsScenario(ctx context.Context, store staffing.Store) error {
	instances := []staffing.PositionInstance{
		demoPosition("demo-pr-i1", "demo-project", "", "Geologist", "2021-04-01", "2021-04-30", 100),
		demoPosition("demo-pr-i2", "demo-project", "", "Drilling Engineer", "2021-04-03", "2021-05-31", 100),
		demoPosition("demo-pr-i3", "demo-project", "", "Planner", "2021-05-01", "2021-06-30", 100),
	}
	for _, p := range instances {
		if err := store.SavePosition(ctx, p); err != nil {
			return err
		}
	}

	requests := []staffing.ResourceRequest{
		{ID: "demo-pr-r1", Number: 1, PositionInstanceID: "demo-pr-i1", Workload: decimal.NewFromInt(100)},
		{ID: "demo-pr-r2", Number: 2, PositionInstanceID: "demo-pr-i2", Workload: decimal.NewFromInt(50)},
		{ID: "demo-pr-r3", Number: 3, PositionInstanceID: "demo-pr-i3", Workload: decimal.NewFromInt(20)},
		{ID: "demo-pr-r4", Number: 4, Workload: decimal.NewFromInt(40)},
	}
	for _, r := range requests {
		r.ProjectID = "demo-project"
		r.State = staffing.RequestApproval
		if err := store.SaveRequest(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func demoPosition(id string, project staffing.ProjectID, person staffing.PersonID, name, from, to string, workload int64) staffing.PositionInstance {
	return staffing.PositionInstance{
		ID:         id,
		PositionID: id + "-pos",
		ProjectID:  project,
		PersonID:   person,
		Name:       name,
		From:       generic.MustParseDate(from),
		To:         generic.MustParseDate(to),
		Workload:   decimal.NewFromInt(workload),
	}
}
