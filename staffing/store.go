/*
store.go - Persistence interface for dated staffing records

PURPOSE:
  The report builders only need already-resolved records. The Store is the
  boundary that resolves them for one person or one project and a window.

WINDOW FILTERING:
  List* methods return every record whose range overlaps the window
  (inclusive on both ends). Records are not clipped: clipping is the
  timeline engine's job.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - staffing/store/memory.go: In-memory for testing

SEE ALSO:
  - service.go: Uses Store to feed the builders
*/
package staffing

import (
	"context"

	"github.com/warp/staffing-timeline/generic"
)

// Store persists position instances, absences and requests.
// Save* replaces any record with the same ID.
type Store interface {
	SavePosition(ctx context.Context, p PositionInstance) error
	SaveAbsence(ctx context.Context, a Absence) error

	// SaveRequest fails with generic.ErrNotFound when the linked position
	// instance doesn't exist.
	SaveRequest(ctx context.Context, r ResourceRequest) error

	// GetPosition returns generic.ErrNotFound when missing.
	GetPosition(ctx context.Context, id string) (*PositionInstance, error)

	// ListPositionsForPerson never returns vacant instances.
	ListPositionsForPerson(ctx context.Context, personID PersonID, window generic.DateRange) ([]PositionInstance, error)
	ListAbsencesForPerson(ctx context.Context, personID PersonID, window generic.DateRange) ([]Absence, error)

	// ListRequestsForProject returns requests whose linked position instance
	// overlaps the window, plus every request without a linked instance.
	ListRequestsForProject(ctx context.Context, projectID ProjectID, window generic.DateRange) ([]ResourceRequest, error)
}
