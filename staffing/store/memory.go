// Package store provides staffing.Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/staffing-timeline/generic"
	"github.com/warp/staffing-timeline/staffing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	positions map[string]staffing.PositionInstance
	absences  map[string]staffing.Absence
	requests  map[string]staffing.ResourceRequest
}

// Compile-time check that Memory implements staffing.Store
var _ staffing.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		positions: make(map[string]staffing.PositionInstance),
		absences:  make(map[string]staffing.Absence),
		requests:  make(map[string]staffing.ResourceRequest),
	}
}

func (m *Memory) SavePosition(_ context.Context, p staffing.PositionInstance) error {
	if _, err := generic.NewDateRange(p.From, p.To); err != nil {
		return fmt.Errorf("position %s: %w", p.ID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[p.ID] = p
	return nil
}

func (m *Memory) SaveAbsence(_ context.Context, a staffing.Absence) error {
	if _, err := generic.NewDateRange(a.From, a.To); err != nil {
		return fmt.Errorf("absence %s: %w", a.ID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[a.ID] = a
	return nil
}

func (m *Memory) SaveRequest(_ context.Context, r staffing.ResourceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.PositionInstanceID != "" {
		if _, ok := m.positions[r.PositionInstanceID]; !ok {
			return fmt.Errorf("position instance %s: %w", r.PositionInstanceID, generic.ErrNotFound)
		}
	}
	r.PositionInstance = nil // resolved on read
	m.requests[r.ID] = r
	return nil
}

func (m *Memory) GetPosition(_ context.Context, id string) (*staffing.PositionInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.positions[id]
	if !ok {
		return nil, fmt.Errorf("position instance %s: %w", id, generic.ErrNotFound)
	}
	return &p, nil
}

func (m *Memory) ListPositionsForPerson(_ context.Context, personID staffing.PersonID, window generic.DateRange) ([]staffing.PositionInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []staffing.PositionInstance
	for _, p := range m.positions {
		if p.PersonID != "" && p.PersonID == personID && generic.Overlaps(p.Range(), window) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].From.Equal(out[j].From) {
			return out[i].From.Before(out[j].From)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ListAbsencesForPerson(_ context.Context, personID staffing.PersonID, window generic.DateRange) ([]staffing.Absence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []staffing.Absence
	for _, a := range m.absences {
		if a.PersonID == personID && generic.Overlaps(a.Range(), window) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].From.Equal(out[j].From) {
			return out[i].From.Before(out[j].From)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ListRequestsForProject(_ context.Context, projectID staffing.ProjectID, window generic.DateRange) ([]staffing.ResourceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []staffing.ResourceRequest
	for _, r := range m.requests {
		if r.ProjectID != projectID {
			continue
		}
		if p, ok := m.positions[r.PositionInstanceID]; ok {
			if !generic.Overlaps(p.Range(), window) {
				continue
			}
			r.PositionInstance = &p
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
