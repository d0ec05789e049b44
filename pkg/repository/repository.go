package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/hersafety/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups return (nil, nil) when the record does not exist. Mutations that
// target a single row report whether the row existed.

var (
	// ErrDuplicate is returned when an insert violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound is returned by mutations whose target row is missing.
	ErrNotFound = errors.New("not found")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserRole(ctx context.Context, id int64, role string) error
}

type IncidentRepo interface {
	// CreateIncidentWithCase stores the incident and its first case tracking
	// row atomically and returns the case tracking id.
	CreateIncidentWithCase(ctx context.Context, inc *models.Incident, c *models.CaseTracking) (int64, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	ListIncidents(ctx context.Context, f models.IncidentFilter) ([]models.Incident, error)
	UpdateIncident(ctx context.Context, id string, u models.IncidentUpdate) (bool, error)
	// DeleteIncident removes the incident together with its case history.
	DeleteIncident(ctx context.Context, id string) (bool, error)
}

type CaseRepo interface {
	CreateCase(ctx context.Context, c *models.CaseTracking) (int64, error)
	ListCasesByIncident(ctx context.Context, incidentID string) ([]models.CaseTracking, error)
	// AppendCaseStatus inserts a history row and moves the incident to the
	// row's status in one transaction.
	AppendCaseStatus(ctx context.Context, c *models.CaseTracking) (int64, error)
}

type PoliceRepo interface {
	CreatePolice(ctx context.Context, p *models.Police) (int64, error)
	GetPolice(ctx context.Context, id int64) (*models.Police, error)
	ListPolice(ctx context.Context) ([]models.Police, error)
}

type ContactRepo interface {
	CreateContact(ctx context.Context, c *models.EmergencyContact) (int64, error)
	ListContactsByUser(ctx context.Context, userID int64) ([]models.EmergencyContact, error)
	DeleteContact(ctx context.Context, userID, id int64) (bool, error)
}

type SOSRepo interface {
	CreateSOSAlert(ctx context.Context, a *models.SOSAlert) (int64, error)
}
