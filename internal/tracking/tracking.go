// Package tracking assigns incidents to officers and keeps their case history.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/internal/incident"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
)

// CaseView is everything a reporter or admin sees when tracking a case.
type CaseView struct {
	Incident models.Incident       `json:"incident"`
	Police   *models.Police        `json:"assigned_police,omitempty"`
	History  []models.CaseTracking `json:"history"`
}

type Service struct {
	incidents repository.IncidentRepo
	cases     repository.CaseRepo
	police    repository.PoliceRepo
	policy    incident.TransitionPolicy
	logger    *slog.Logger
}

func New(incidents repository.IncidentRepo, cases repository.CaseRepo, police repository.PoliceRepo, policy incident.TransitionPolicy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if policy == nil {
		policy = incident.AnyTransition{}
	}
	return &Service{incidents: incidents, cases: cases, police: police, policy: policy, logger: logger}
}

func (s *Service) loadIncident(ctx context.Context, id string) (*models.Incident, error) {
	if !incident.ValidID(id) {
		return nil, apperr.NotFound("Incident not found")
	}

	inc, err := s.incidents.GetIncident(ctx, id)
	if err != nil {
		return nil, apperr.Server("Failed to fetch case", fmt.Errorf("get incident %s: %w", id, err))
	}
	if inc == nil {
		return nil, apperr.NotFound("Incident not found")
	}

	return inc, nil
}

// AssignCase hands an incident to an officer, recording the status and notes.
func (s *Service) AssignCase(ctx context.Context, incidentID string, policeID int64, status models.Status, notes string) (*models.CaseTracking, error) {
	if status == "" {
		status = models.StatusNew
	}
	if !status.Valid() {
		return nil, apperr.Validation(apperr.FieldError{Field: "status", Message: "Invalid status"})
	}

	inc, err := s.loadIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allowed(inc.Status, status) {
		return nil, apperr.Validation(apperr.FieldError{Field: "status", Message: fmt.Sprintf("Cannot change status from %s to %s", inc.Status, status)})
	}

	officer, err := s.police.GetPolice(ctx, policeID)
	if err != nil {
		return nil, apperr.Server("Failed to assign case", fmt.Errorf("get police %d: %w", policeID, err))
	}
	if officer == nil {
		return nil, apperr.NotFound("Police officer not found")
	}

	c := models.CaseTracking{IncidentID: inc.ID, PoliceID: officer.ID, Status: status, Notes: strings.TrimSpace(notes)}
	if _, err := s.cases.AppendCaseStatus(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Incident not found")
		}
		return nil, apperr.Server("Failed to assign case", fmt.Errorf("append case: %w", err))
	}

	s.logger.Info("case assigned", "incident_id", inc.ID, "police_id", officer.ID, "status", status)
	return &c, nil
}

// TrackCase returns the incident, its current officer and the full history.
func (s *Service) TrackCase(ctx context.Context, incidentID string) (*CaseView, error) {
	inc, err := s.loadIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	history, err := s.cases.ListCasesByIncident(ctx, inc.ID)
	if err != nil {
		return nil, apperr.Server("Failed to fetch case", fmt.Errorf("list cases: %w", err))
	}
	if history == nil {
		history = []models.CaseTracking{}
	}

	view := &CaseView{Incident: *inc, History: history}
	if len(history) > 0 {
		officer, err := s.police.GetPolice(ctx, history[len(history)-1].PoliceID)
		if err != nil {
			return nil, apperr.Server("Failed to fetch case", fmt.Errorf("get police: %w", err))
		}
		view.Police = officer
	}

	return view, nil
}

// UpdateCaseStatus appends a history row for the currently assigned officer
// and moves the incident to status.
func (s *Service) UpdateCaseStatus(ctx context.Context, incidentID string, status models.Status, notes string) (*models.CaseTracking, error) {
	if !status.Valid() {
		return nil, apperr.Validation(apperr.FieldError{Field: "status", Message: "Invalid status"})
	}

	inc, err := s.loadIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allowed(inc.Status, status) {
		return nil, apperr.Validation(apperr.FieldError{Field: "status", Message: fmt.Sprintf("Cannot change status from %s to %s", inc.Status, status)})
	}

	history, err := s.cases.ListCasesByIncident(ctx, inc.ID)
	if err != nil {
		return nil, apperr.Server("Failed to update case", fmt.Errorf("list cases: %w", err))
	}
	if len(history) == 0 {
		return nil, apperr.NotFound("Case not found")
	}

	c := models.CaseTracking{IncidentID: inc.ID, PoliceID: history[len(history)-1].PoliceID, Status: status, Notes: strings.TrimSpace(notes)}
	if _, err := s.cases.AppendCaseStatus(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Incident not found")
		}
		return nil, apperr.Server("Failed to update case", fmt.Errorf("append case: %w", err))
	}

	s.logger.Info("case status updated", "incident_id", inc.ID, "status", status)
	return &c, nil
}
