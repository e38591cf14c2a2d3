/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario loads and produces the timeline it is meant
	to demonstrate. These double as integration tests of store + builders.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/warp/staffing-timeline/generic"
	"github.com/warp/staffing-timeline/store/sqlite"
)

func setupTestHandler(t *testing.T) *Handler {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewHandler(store, nil)
}

func scenarioWindow(t *testing.T, id string) generic.DateRange {
	for _, s := range scenarios {
		if s.ID == id {
			return generic.DateRange{From: generic.MustParseDate(s.From), To: generic.MustParseDate(s.To)}
		}
	}
	t.Fatalf("scenario %s not defined", id)
	return generic.DateRange{}
}

func TestScenario_PositionsWithLeave(t *testing.T) {
	// GIVEN: The positions-with-leave scenario
	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := loadPositionsWithLeaveScenario(ctx, handler.Store); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	// WHEN: Building the person's timeline
	report, err := handler.Reports.PersonTimeline(ctx, "demo-person-1", scenarioWindow(t, "positions-with-leave"))
	if err != nil {
		t.Fatalf("Failed to build timeline: %v", err)
	}

	// THEN: Four rows, the middle two carry the leave
	if len(report.Rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(report.Rows))
	}
	wantWorkloads := []string{"100", "150", "150", "100"}
	for i, want := range wantWorkloads {
		if got := report.Rows[i].Workload.String(); got != want {
			t.Errorf("row %d: expected workload %s, got %s", i, want, got)
		}
	}
	if last := report.Rows[3].To.String(); last != "2021-05-31" {
		t.Errorf("Expected last row to end 2021-05-31, got %s", last)
	}
}

func TestScenario_TouchingPositions(t *testing.T) {
	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := loadTouchingPositionsScenario(ctx, handler.Store); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	report, err := handler.Reports.PersonTimeline(ctx, "demo-person-2", scenarioWindow(t, "touching-positions"))
	if err != nil {
		t.Fatalf("Failed to build timeline: %v", err)
	}

	if len(report.Rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(report.Rows))
	}
	touch := report.Rows[1]
	if touch.From.String() != "2021-04-30" || touch.To.String() != "2021-04-30" {
		t.Errorf("Expected single-day row on 2021-04-30, got %s..%s", touch.From, touch.To)
	}
	if len(touch.Positions) != 2 {
		t.Errorf("Expected 2 positions on the shared day, got %d", len(touch.Positions))
	}
}

func TestScenario_ProjectRequests(t *testing.T) {
	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := loadProjectRequestsScenario(ctx, handler.Store); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	// Loading twice overwrites instead of duplicating
	if err := loadProjectRequestsScenario(ctx, handler.Store); err != nil {
		t.Fatalf("Failed to reload scenario: %v", err)
	}

	report, err := handler.Reports.ProjectRequestTimeline(ctx, "demo-project", scenarioWindow(t, "project-requests"))
	if err != nil {
		t.Fatalf("Failed to build timeline: %v", err)
	}

	if len(report.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(report.Rows))
	}
	if got := report.Rows[0].Workload.String(); got != "150" {
		t.Errorf("Expected first row workload 150, got %s", got)
	}
	if got := report.Rows[1].Workload.String(); got != "70" {
		t.Errorf("Expected second row workload 70, got %s", got)
	}
	if len(report.Undated) != 1 {
		t.Errorf("Expected 1 undated request, got %d", len(report.Undated))
	}
}

func TestLoadScenario_HTTP(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/scenarios/load", map[string]string{"scenario_id": "touching-positions"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	resp = get(t, srv, "/api/persons/demo-person-2/timeline?from=2021-04-01&to=2021-08-31")
	timeline := decode[PersonTimelineDTO](t, resp)
	if len(timeline.Rows) != 4 {
		t.Errorf("Expected 4 rows, got %d", len(timeline.Rows))
	}

	resp = post(t, srv, "/api/scenarios/load", map[string]string{"scenario_id": "nope"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown scenario, got %d", resp.StatusCode)
	}
}
