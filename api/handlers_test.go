/*
handlers_test.go - End-to-end tests for API handlers

Tests for:
- Saving positions, absences and requests
- Person and project timelines over HTTP
- Error status mapping
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staffing-timeline/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	srv := httptest.NewServer(NewRouter(NewHandler(store, logger), []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// PERSON TIMELINE
// =============================================================================

func TestPersonTimeline_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	// GIVEN: Two positions and a leave for person-1
	for _, p := range []map[string]any{
		{"id": "P1", "position_id": "pos-1", "project_id": "proj-1", "person_id": "person-1", "from": "2021-04-01", "to": "2021-04-30", "workload": 100},
		{"id": "P2", "position_id": "pos-2", "project_id": "proj-1", "person_id": "person-1", "from": "2021-05-01", "to": "2021-05-31", "workload": "80"},
	} {
		resp := post(t, srv, "/api/positions", p)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := post(t, srv, "/api/absences", map[string]any{
		"id": "L1", "person_id": "person-1", "type": "vacation",
		"from": "2021-04-15", "to": "2021-05-15", "absence_percentage": 20,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN: Fetching the timeline for April through August
	resp = get(t, srv, "/api/persons/person-1/timeline?from=2021-04-01&to=2021-08-31")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	timeline := decode[PersonTimelineDTO](t, resp)

	// THEN: Four rows with summed workloads, nothing trailing
	require.Len(t, timeline.Rows, 4)
	assert.Equal(t, "person-1", timeline.PersonID)

	expected := []struct{ from, to, workload string }{
		{"2021-04-01", "2021-04-14", "100"},
		{"2021-04-15", "2021-04-30", "120"},
		{"2021-05-01", "2021-05-15", "100"},
		{"2021-05-16", "2021-05-31", "80"},
	}
	for i, want := range expected {
		assert.Equal(t, want.from, timeline.Rows[i].From, "row %d", i)
		assert.Equal(t, want.to, timeline.Rows[i].To, "row %d", i)
		assert.Equal(t, want.workload, timeline.Rows[i].Workload.String(), "row %d", i)
	}
	require.Len(t, timeline.Rows[1].Absences, 1)
	assert.Equal(t, "vacation", timeline.Rows[1].Absences[0].Type)
}

func TestPersonTimeline_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/persons/nobody/timeline?from=2021-04-01&to=2021-08-31")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["rows"]))
}

func TestPersonTimeline_InvalidWindow(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"reversed", "?from=2021-08-31&to=2021-04-01"},
		{"missing to", "?from=2021-04-01"},
		{"bad format", "?from=04/01/2021&to=2021-08-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv, "/api/persons/person-1/timeline"+tt.query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			errResp := decode[ErrorResponse](t, resp)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

// =============================================================================
// RECORD VALIDATION
// =============================================================================

func TestCreatePosition_InvalidRange(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/positions", map[string]any{
		"position_id": "pos-1", "project_id": "proj-1", "person_id": "person-1",
		"from": "2021-05-31", "to": "2021-05-01", "workload": 100,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errResp := decode[ErrorResponse](t, resp)
	assert.Contains(t, errResp.Details, "invalid range")
}

func TestCreatePosition_GeneratesID(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/positions", map[string]any{
		"position_id": "pos-1", "project_id": "proj-1",
		"from": "2021-04-01", "to": "2021-04-30", "workload": "50.5",
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[PositionDTO](t, resp)
	assert.Len(t, p.ID, 36)
	assert.Equal(t, "50.5", p.Workload.String())
}

func TestCreateAbsence_UnknownType(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/absences", map[string]any{
		"person_id": "person-1", "type": "sabbatical",
		"from": "2021-04-01", "to": "2021-04-30", "absence_percentage": 100,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRequest_UnknownInstance(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/requests", map[string]any{
		"project_id": "proj-1", "position_instance_id": "missing", "workload": 100,
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateRequest_State(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		state  string
		status int
	}{
		{"default", "", http.StatusCreated},
		{"known", "provisioning", http.StatusCreated},
		{"unknown", "cancelled", http.StatusBadRequest},
		{"wrong case", "Approval", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/api/requests", map[string]any{
				"project_id": "proj-1", "state": tt.state, "workload": 100,
			})
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

// =============================================================================
// PROJECT REQUEST TIMELINE
// =============================================================================

func TestProjectRequestTimeline_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	// GIVEN: Instances crossing the window and requests on them
	for _, p := range []map[string]any{
		{"id": "I1", "position_id": "pos-1", "project_id": "proj-1", "from": "2021-04-01", "to": "2021-04-30", "workload": 100},
		{"id": "I2", "position_id": "pos-2", "project_id": "proj-1", "from": "2021-04-03", "to": "2021-05-31", "workload": 100},
		{"id": "I3", "position_id": "pos-3", "project_id": "proj-1", "from": "2021-05-01", "to": "2021-06-30", "workload": 100},
	} {
		require.Equal(t, http.StatusCreated, post(t, srv, "/api/positions", p).StatusCode)
	}
	for _, rr := range []map[string]any{
		{"id": "R1", "number": 1, "project_id": "proj-1", "position_instance_id": "I1", "workload": 100},
		{"id": "R2", "number": 2, "project_id": "proj-1", "position_instance_id": "I2", "workload": 50},
		{"id": "R3", "number": 3, "project_id": "proj-1", "position_instance_id": "I3", "workload": 20},
		{"id": "R4", "number": 4, "project_id": "proj-1", "workload": 10},
	} {
		require.Equal(t, http.StatusCreated, post(t, srv, "/api/requests", rr).StatusCode)
	}

	// WHEN: Viewing a window inside the instances
	resp := get(t, srv, "/api/projects/proj-1/requests/timeline?from=2021-04-04&to=2021-05-30")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	timeline := decode[RequestTimelineDTO](t, resp)

	// THEN: Two clipped rows plus the undated request
	require.Len(t, timeline.Rows, 2)
	assert.Equal(t, "2021-04-04", timeline.Rows[0].From)
	assert.Equal(t, "2021-04-30", timeline.Rows[0].To)
	assert.Equal(t, "150", timeline.Rows[0].Workload.String())
	assert.Equal(t, "2021-05-01", timeline.Rows[1].From)
	assert.Equal(t, "2021-05-30", timeline.Rows[1].To)
	assert.Equal(t, "70", timeline.Rows[1].Workload.String())

	require.Len(t, timeline.Undated, 1)
	assert.Equal(t, "R4", timeline.Undated[0].ID)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
