package staffing

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/warp/staffing-timeline/generic"
)

// =============================================================================
// REPORT SERVICE - Store-backed entry point for the report builders
// =============================================================================

// ReportService resolves the records for one person or project and builds
// the timeline report. A timeline is built per call and thrown away.
type ReportService struct {
	Store  Store
	Logger *logrus.Logger
}

func NewReportService(store Store, logger *logrus.Logger) *ReportService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReportService{Store: store, Logger: logger}
}

// PersonTimeline builds the allocation timeline of a person for window.
func (s *ReportService) PersonTimeline(ctx context.Context, personID PersonID, window generic.DateRange) (*PersonTimeline, error) {
	if !window.Valid() {
		return nil, &generic.InvalidWindowError{Start: window.From, End: window.To}
	}

	positions, err := s.Store.ListPositionsForPerson(ctx, personID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	absences, err := s.Store.ListAbsencesForPerson(ctx, personID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load absences: %w", err)
	}

	report, err := BuildPersonTimeline(personID, positions, absences, window)
	if err != nil {
		s.Logger.WithError(err).WithField("person_id", personID).Error("person timeline rejected")
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"person_id": personID,
		"window":    window.String(),
		"positions": len(positions),
		"absences":  len(absences),
		"rows":      len(report.Rows),
	}).Debug("built person timeline")
	return report, nil
}

// ProjectRequestTimeline builds the request timeline of a project for window.
func (s *ReportService) ProjectRequestTimeline(ctx context.Context, projectID ProjectID, window generic.DateRange) (*RequestTimeline, error) {
	if !window.Valid() {
		return nil, &generic.InvalidWindowError{Start: window.From, End: window.To}
	}

	requests, err := s.Store.ListRequestsForProject(ctx, projectID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}

	report, err := BuildRequestTimeline(projectID, requests, window)
	if err != nil {
		s.Logger.WithError(err).WithField("project_id", projectID).Error("request timeline rejected")
		return nil, err
	}

	fields := logrus.Fields{
		"project_id": projectID,
		"window":     window.String(),
		"requests":   len(requests),
		"rows":       len(report.Rows),
	}
	if len(report.Undated) > 0 {
		s.Logger.WithFields(fields).WithField("undated", len(report.Undated)).Warn("requests without position instance left off the timeline")
	} else {
		s.Logger.WithFields(fields).Debug("built request timeline")
	}
	return report, nil
}
