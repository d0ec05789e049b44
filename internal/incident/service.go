// Package incident validates, stores and assigns incident reports.
package incident

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
)

// maxIDAttempts bounds id regeneration after a primary key collision.
const maxIDAttempts = 5

// NewIncident is the reporter-supplied part of an incident.
type NewIncident struct {
	Date        string
	Time        string
	Location    string
	Type        models.IncidentType
	Description string
	// Reporter defaults to the reporting user's name.
	Reporter    string
	HasEvidence bool
}

// Report is the outcome of a successful CreateIncident.
type Report struct {
	Incident models.Incident
	Case     models.CaseTracking
	Police   models.Police
}

type Service struct {
	incidents repository.IncidentRepo
	users     repository.UserRepo
	police    repository.PoliceRepo
	policy    TransitionPolicy
	logger    *slog.Logger

	newID func(date string) (string, error)
	pick  func(n int) int
}

func New(incidents repository.IncidentRepo, users repository.UserRepo, police repository.PoliceRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		incidents: incidents,
		users:     users,
		police:    police,
		policy:    AnyTransition{},
		logger:    logger,
		newID:     NewID,
		pick:      rand.Intn,
	}
}

// SetTransitionPolicy replaces the default unrestricted policy.
func (s *Service) SetTransitionPolicy(p TransitionPolicy) {
	if p != nil {
		s.policy = p
	}
}

// Policy returns the active transition policy.
func (s *Service) Policy() TransitionPolicy {
	return s.policy
}

// CreateIncident validates the report, assigns it to a random officer and
// stores the incident with its first case tracking row.
func (s *Service) CreateIncident(ctx context.Context, userID int64, in NewIncident) (*Report, error) {
	if errs := validateNew(&in); len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Server("Failed to report incident", fmt.Errorf("get user %d: %w", userID, err))
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	officers, err := s.police.ListPolice(ctx)
	if err != nil {
		return nil, apperr.Server("Failed to report incident", fmt.Errorf("list police: %w", err))
	}
	if len(officers) == 0 {
		return nil, apperr.Server("No police officers available", errors.New("police roster is empty"))
	}
	officer := officers[s.pick(len(officers))]

	reporter := in.Reporter
	if reporter == "" {
		reporter = user.Name
	}

	for attempt := 1; ; attempt++ {
		id, err := s.newID(in.Date)
		if err != nil {
			return nil, apperr.Server("Failed to report incident", err)
		}

		inc := models.Incident{
			ID:          id,
			UserID:      userID,
			Date:        in.Date,
			Time:        in.Time,
			Location:    in.Location,
			Type:        in.Type,
			Description: in.Description,
			Status:      models.StatusNew,
			Reporter:    reporter,
			HasEvidence: in.HasEvidence,
		}
		c := models.CaseTracking{PoliceID: officer.ID, Status: models.StatusNew, Notes: "Case assigned on report"}

		_, err = s.incidents.CreateIncidentWithCase(ctx, &inc, &c)
		if err == nil {
			s.logger.Info("incident reported", "incident_id", inc.ID, "user_id", userID, "police_id", officer.ID)
			return &Report{Incident: inc, Case: c, Police: officer}, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Server("Failed to report incident", fmt.Errorf("create incident: %w", err))
		}
		if attempt >= maxIDAttempts {
			return nil, apperr.Server("Failed to report incident", fmt.Errorf("no free incident id after %d attempts", attempt))
		}

		s.logger.Warn("incident id collision, regenerating", "incident_id", id, "attempt", attempt)
	}
}

func (s *Service) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	if !ValidID(id) {
		return nil, apperr.NotFound("Incident not found")
	}

	inc, err := s.incidents.GetIncident(ctx, id)
	if err != nil {
		return nil, apperr.Server("Failed to fetch incident", fmt.Errorf("get incident %s: %w", id, err))
	}
	if inc == nil {
		return nil, apperr.NotFound("Incident not found")
	}

	return inc, nil
}

// ListIncidents returns incidents newest first.
func (s *Service) ListIncidents(ctx context.Context, f models.IncidentFilter) ([]models.Incident, error) {
	if f.Status != "" {
		if fe := checkStatus(f.Status); fe != nil {
			return nil, apperr.Validation(*fe)
		}
	}

	list, err := s.incidents.ListIncidents(ctx, f)
	if err != nil {
		return nil, apperr.Server("Failed to fetch incidents", fmt.Errorf("list incidents: %w", err))
	}
	if list == nil {
		list = []models.Incident{}
	}

	return list, nil
}

// ListUserIncidents returns the incidents reported by userID.
func (s *Service) ListUserIncidents(ctx context.Context, userID int64) ([]models.Incident, error) {
	return s.ListIncidents(ctx, models.IncidentFilter{UserID: userID})
}

func (s *Service) UpdateIncident(ctx context.Context, id string, u models.IncidentUpdate) error {
	if u.Empty() {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "No fields to update"})
	}
	if errs := validateUpdate(&u); len(errs) > 0 {
		return apperr.Validation(errs...)
	}

	current, err := s.GetIncident(ctx, id)
	if err != nil {
		return err
	}
	if u.Status != nil && !s.policy.Allowed(current.Status, *u.Status) {
		return apperr.Validation(apperr.FieldError{
			Field:   "status",
			Message: fmt.Sprintf("Cannot change status from %s to %s", current.Status, *u.Status),
		})
	}

	ok, err := s.incidents.UpdateIncident(ctx, id, u)
	if err != nil {
		return apperr.Server("Failed to update incident", fmt.Errorf("update incident %s: %w", id, err))
	}
	if !ok {
		return apperr.NotFound("Incident not found")
	}

	s.logger.Info("incident updated", "incident_id", id)
	return nil
}

// DeleteIncident removes the incident and its case history.
func (s *Service) DeleteIncident(ctx context.Context, id string) error {
	if !ValidID(id) {
		return apperr.NotFound("Incident not found")
	}

	ok, err := s.incidents.DeleteIncident(ctx, id)
	if err != nil {
		return apperr.Server("Failed to delete incident", fmt.Errorf("delete incident %s: %w", id, err))
	}
	if !ok {
		return apperr.NotFound("Incident not found")
	}

	s.logger.Info("incident deleted", "incident_id", id)
	return nil
}
