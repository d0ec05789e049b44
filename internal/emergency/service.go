// Package emergency manages emergency contacts and fans an SOS out to them.
package emergency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
	"github.com/garnizeh/hersafety/pkg/sms"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}[0-9]$`)

// SOSResult reports how the alert fan-out went.
type SOSResult struct {
	AlertID  int64 `json:"alertId"`
	Notified int   `json:"notified"`
	Failed   int   `json:"failed"`
}

type Service struct {
	contacts repository.ContactRepo
	alerts   repository.SOSRepo
	users    repository.UserRepo
	sender   sms.Provider
	from     string
	logger   *slog.Logger
}

func New(contacts repository.ContactRepo, alerts repository.SOSRepo, users repository.UserRepo, sender sms.Provider, from string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if sender == nil {
		sender = sms.NewLogProvider(logger)
	}
	return &Service{contacts: contacts, alerts: alerts, users: users, sender: sender, from: from, logger: logger}
}

func (s *Service) AddContact(ctx context.Context, userID int64, name, phone, relation string) (*models.EmergencyContact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	var errs []apperr.FieldError
	if name == "" {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "Name is required"})
	}
	if !phonePattern.MatchString(phone) {
		errs = append(errs, apperr.FieldError{Field: "phone", Message: "Phone must be a valid phone number"})
	}
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	c := models.EmergencyContact{UserID: userID, Name: name, Phone: phone, Relation: strings.TrimSpace(relation)}
	if _, err := s.contacts.CreateContact(ctx, &c); err != nil {
		return nil, apperr.Server("Failed to add emergency contact", fmt.Errorf("create contact: %w", err))
	}

	return &c, nil
}

func (s *Service) ListContacts(ctx context.Context, userID int64) ([]models.EmergencyContact, error) {
	list, err := s.contacts.ListContactsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Server("Failed to fetch emergency contacts", fmt.Errorf("list contacts: %w", err))
	}
	if list == nil {
		list = []models.EmergencyContact{}
	}
	return list, nil
}

// DeleteContact removes one of userID's contacts. Contacts of other users
// are reported as not found.
func (s *Service) DeleteContact(ctx context.Context, userID, contactID int64) error {
	ok, err := s.contacts.DeleteContact(ctx, userID, contactID)
	if err != nil {
		return apperr.Server("Failed to delete emergency contact", fmt.Errorf("delete contact: %w", err))
	}
	if !ok {
		return apperr.NotFound("Emergency contact not found")
	}
	return nil
}

// SendSOS texts every emergency contact of userID with a map link to
// location. It only fails when contacts exist and none could be reached.
func (s *Service) SendSOS(ctx context.Context, userID int64, location string) (*SOSResult, error) {
	lat, lng, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ListContactsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Server("Failed to send SOS", fmt.Errorf("list contacts: %w", err))
	}

	name := "A HerSafety user"
	if u, err := s.users.GetUserByID(ctx, userID); err == nil && u != nil && u.Name != "" {
		name = u.Name
	}
	body := fmt.Sprintf("SOS from %s. Last known location: https://maps.google.com/?q=%.6f,%.6f", name, lat, lng)

	alert := models.SOSAlert{UserID: userID, Latitude: lat, Longitude: lng}
	var errs []error
	for _, c := range contacts {
		if _, err := s.sender.Send(ctx, &sms.Message{To: c.Phone, From: s.from, Body: body}); err != nil {
			alert.Failed++
			errs = append(errs, fmt.Errorf("contact %d: %w", c.ID, err))
			s.logger.Warn("sos delivery failed", "user_id", userID, "contact_id", c.ID, "err", err)
			continue
		}
		alert.Notified++
	}

	if len(contacts) == 0 {
		s.logger.Warn("sos received with no emergency contacts", "user_id", userID)
	}

	if _, err := s.alerts.CreateSOSAlert(ctx, &alert); err != nil {
		s.logger.Error("failed to record sos alert", "user_id", userID, "err", err)
	}

	if len(contacts) > 0 && alert.Notified == 0 {
		return nil, apperr.Server("Failed to notify emergency contacts", errors.Join(errs...))
	}

	s.logger.Info("sos sent", "user_id", userID, "alert_id", alert.ID, "notified", alert.Notified, "failed", alert.Failed)
	return &SOSResult{AlertID: alert.ID, Notified: alert.Notified, Failed: alert.Failed}, nil
}
