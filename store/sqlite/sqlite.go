/*
Package sqlite provides a SQLite-backed implementation of staffing.Store.

PURPOSE:
  Persists the dated records the report builders consume: position
  instances, absences and resource allocation requests. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  position_instances: Dated slices of org-chart positions (with workload)
  absences:           Leave and other-task periods (with percentage)
  resource_requests:  Staffing requests, dated through position_instance_id

DATES:
  Stored as TEXT in YYYY-MM-DD. Lexical order equals calendar order, so the
  overlap filter (from_date <= windowEnd AND to_date >= windowStart) runs
  directly in SQL and uses the indexes.

DECIMALS:
  Workloads are stored as TEXT (decimal.Decimal.String()) to avoid
  floating-point drift in summed reports.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/staffing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := staffing.NewReportService(store, logger)

SEE ALSO:
  - staffing/store.go: Interface definition
  - staffing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-timeline/generic"
	"github.com/warp/staffing-timeline/staffing"
)

// Store implements staffing.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time check that Store implements staffing.Store
var _ staffing.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Position instances
	CREATE TABLE IF NOT EXISTS position_instances (
		id TEXT PRIMARY KEY,
		position_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		person_id TEXT,
		name TEXT,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		workload TEXT NOT NULL,
		created_at TEXT NOT NULL,
		CHECK (from_date <= to_date)
	);

	CREATE INDEX IF NOT EXISTS idx_position_instances_person_dates
		ON position_instances(person_id, from_date, to_date);
	CREATE INDEX IF NOT EXISTS idx_position_instances_project
		ON position_instances(project_id);

	-- Absences
	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		type TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		absence_percentage TEXT NOT NULL,
		is_private BOOLEAN DEFAULT FALSE,
		comment TEXT,
		created_at TEXT NOT NULL,
		CHECK (from_date <= to_date)
	);

	CREATE INDEX IF NOT EXISTS idx_absences_person_dates
		ON absences(person_id, from_date, to_date);

	-- Resource allocation requests
	CREATE TABLE IF NOT EXISTS resource_requests (
		id TEXT PRIMARY KEY,
		number INTEGER NOT NULL,
		project_id TEXT NOT NULL,
		state TEXT NOT NULL,
		position_instance_id TEXT REFERENCES position_instances(id),
		proposed_person_id TEXT,
		workload TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resource_requests_project
		ON resource_requests(project_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POSITION INSTANCES
// =============================================================================

// SavePosition inserts or replaces a position instance.
func (s *Store) SavePosition(ctx context.Context, p staffing.PositionInstance) error {
	if _, err := generic.NewDateRange(p.From, p.To); err != nil {
		return fmt.Errorf("position %s: %w", p.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO position_instances
		(id, position_id, project_id, person_id, name, from_date, to_date, workload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position_id = excluded.position_id,
			project_id = excluded.project_id,
			person_id = excluded.person_id,
			name = excluded.name,
			from_date = excluded.from_date,
			to_date = excluded.to_date,
			workload = excluded.workload
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.PositionID,
		string(p.ProjectID),
		nullString(string(p.PersonID)),
		p.Name,
		p.From.String(),
		p.To.String(),
		p.Workload.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save position instance: %w", err)
	}
	return nil
}

// GetPosition loads a single position instance.
func (s *Store) GetPosition(ctx context.Context, id string) (*staffing.PositionInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, position_id, project_id, person_id, name, from_date, to_date, workload
		FROM position_instances WHERE id = ?
	`, id)
	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("position instance %s: %w", id, generic.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPositionsForPerson returns the person's instances overlapping window.
func (s *Store) ListPositionsForPerson(ctx context.Context, personID staffing.PersonID, window generic.DateRange) ([]staffing.PositionInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, position_id, project_id, person_id, name, from_date, to_date, workload
		FROM position_instances
		WHERE person_id = ? AND from_date <= ? AND to_date >= ?
		ORDER BY from_date, id
	`, string(personID), window.To.String(), window.From.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query position instances: %w", err)
	}
	defer rows.Close()

	var out []staffing.PositionInstance
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// ABSENCES
// =============================================================================

// SaveAbsence inserts or replaces an absence.
func (s *Store) SaveAbsence(ctx context.Context, a staffing.Absence) error {
	if _, err := generic.NewDateRange(a.From, a.To); err != nil {
		return fmt.Errorf("absence %s: %w", a.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO absences
		(id, person_id, type, from_date, to_date, absence_percentage, is_private, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		string(a.PersonID),
		string(a.Type),
		a.From.String(),
		a.To.String(),
		a.AbsencePercentage.String(),
		a.IsPrivate,
		a.Comment,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save absence: %w", err)
	}
	return nil
}

// ListAbsencesForPerson returns the person's absences overlapping window.
func (s *Store) ListAbsencesForPerson(ctx context.Context, personID staffing.PersonID, window generic.DateRange) ([]staffing.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, person_id, type, from_date, to_date, absence_percentage, is_private, comment
		FROM absences
		WHERE person_id = ? AND from_date <= ? AND to_date >= ?
		ORDER BY from_date, id
	`, string(personID), window.To.String(), window.From.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var out []staffing.Absence
	for rows.Next() {
		var (
			a                   staffing.Absence
			personIDStr, typ    string
			fromStr, toStr, pct string
			comment             sql.NullString
		)
		if err := rows.Scan(&a.ID, &personIDStr, &typ, &fromStr, &toStr, &pct, &a.IsPrivate, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		a.PersonID = staffing.PersonID(personIDStr)
		a.Type = staffing.AbsenceType(typ)
		a.Comment = comment.String
		if a.From, a.To, err = parseDates(fromStr, toStr); err != nil {
			return nil, fmt.Errorf("absence %s: %w", a.ID, err)
		}
		if a.AbsencePercentage, err = decimal.NewFromString(pct); err != nil {
			return nil, fmt.Errorf("absence %s: invalid percentage: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// RESOURCE REQUESTS
// =============================================================================

// SaveRequest inserts or replaces a request. The linked position instance,
// if any, must already exist.
func (s *Store) SaveRequest(ctx context.Context, r staffing.ResourceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.PositionInstanceID != "" {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM position_instances WHERE id = ?`, r.PositionInstanceID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("position instance %s: %w", r.PositionInstanceID, generic.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check position instance: %w", err)
		}
	}

	query := `
		INSERT OR REPLACE INTO resource_requests
		(id, number, project_id, state, position_instance_id, proposed_person_id, workload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.Number,
		string(r.ProjectID),
		string(r.State),
		nullString(r.PositionInstanceID),
		nullString(string(r.ProposedPersonID)),
		r.Workload.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

// ListRequestsForProject returns the project's requests whose instance
// overlaps window, plus the ones with no instance at all.
func (s *Store) ListRequestsForProject(ctx context.Context, projectID staffing.ProjectID, window generic.DateRange) ([]staffing.ResourceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.number, r.project_id, r.state, r.proposed_person_id, r.workload,
		       p.id, p.position_id, p.project_id, p.person_id, p.name, p.from_date, p.to_date, p.workload
		FROM resource_requests r
		LEFT JOIN position_instances p ON p.id = r.position_instance_id
		WHERE r.project_id = ?
		  AND (p.id IS NULL OR (p.from_date <= ? AND p.to_date >= ?))
		ORDER BY r.number, r.id
	`, string(projectID), window.To.String(), window.From.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var out []staffing.ResourceRequest
	for rows.Next() {
		var (
			r                         staffing.ResourceRequest
			projectIDStr, state, load string
			proposed                  sql.NullString
			pID, pPosID, pProject     sql.NullString
			pPerson, pName            sql.NullString
			pFrom, pTo, pLoad         sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Number, &projectIDStr, &state, &proposed, &load,
			&pID, &pPosID, &pProject, &pPerson, &pName, &pFrom, &pTo, &pLoad); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		r.ProjectID = staffing.ProjectID(projectIDStr)
		r.State = staffing.RequestState(state)
		r.ProposedPersonID = staffing.PersonID(proposed.String)
		if r.Workload, err = decimal.NewFromString(load); err != nil {
			return nil, fmt.Errorf("request %s: invalid workload: %w", r.ID, err)
		}

		if pID.Valid {
			p := staffing.PositionInstance{
				ID:         pID.String,
				PositionID: pPosID.String,
				ProjectID:  staffing.ProjectID(pProject.String),
				PersonID:   staffing.PersonID(pPerson.String),
				Name:       pName.String,
			}
			if p.From, p.To, err = parseDates(pFrom.String, pTo.String); err != nil {
				return nil, fmt.Errorf("position instance %s: %w", p.ID, err)
			}
			if p.Workload, err = decimal.NewFromString(pLoad.String); err != nil {
				return nil, fmt.Errorf("position instance %s: invalid workload: %w", p.ID, err)
			}
			r.PositionInstanceID = p.ID
			r.PositionInstance = &p
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(row scanner) (staffing.PositionInstance, error) {
	var (
		p                    staffing.PositionInstance
		projectID            string
		personID, name       sql.NullString
		fromStr, toStr, load string
	)
	if err := row.Scan(&p.ID, &p.PositionID, &projectID, &personID, &name, &fromStr, &toStr, &load); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan position instance: %w", err)
	}
	p.ProjectID = staffing.ProjectID(projectID)
	p.PersonID = staffing.PersonID(personID.String)
	p.Name = name.String

	var err error
	if p.From, p.To, err = parseDates(fromStr, toStr); err != nil {
		return p, fmt.Errorf("position instance %s: %w", p.ID, err)
	}
	if p.Workload, err = decimal.NewFromString(load); err != nil {
		return p, fmt.Errorf("position instance %s: invalid workload: %w", p.ID, err)
	}
	return p, nil
}

func parseDates(from, to string) (generic.Date, generic.Date, error) {
	f, err := generic.ParseDate(from)
	if err != nil {
		return generic.Date{}, generic.Date{}, err
	}
	t, err := generic.ParseDate(to)
	if err != nil {
		return generic.Date{}, generic.Date{}, err
	}
	return f, t, nil
}

// dsn appends the connection options to dbPath, which may already carry
// its own query parameters (file:staffing.db?mode=ro).
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on&_journal_mode=WAL"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
