package models

import "time"

// Domain models matching the database schema in db/migrations/*/0001_init.sql

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Phone        string    `json:"phone" db:"phone"`
	Address      *string   `json:"address,omitempty" db:"address"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Status is the lifecycle state of an incident and of each case tracking entry.
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// IncidentType classifies what was reported.
type IncidentType string

const (
	TypeHarassment          IncidentType = "harassment"
	TypeAssault             IncidentType = "assault"
	TypeStalking            IncidentType = "stalking"
	TypeDomesticViolence    IncidentType = "domestic_violence"
	TypeWorkplaceHarassment IncidentType = "workplace_harassment"
	TypeOther               IncidentType = "other"
)

var IncidentTypes = []IncidentType{
	TypeHarassment,
	TypeAssault,
	TypeStalking,
	TypeDomesticViolence,
	TypeWorkplaceHarassment,
	TypeOther,
}

func (t IncidentType) Valid() bool {
	for _, v := range IncidentTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Incident struct {
	ID          string       `json:"id" db:"id"`
	UserID      int64        `json:"user_id" db:"user_id"`
	Date        string       `json:"date" db:"date"`
	Time        string       `json:"time" db:"time"`
	Location    string       `json:"location" db:"location"`
	Type        IncidentType `json:"type" db:"type"`
	Description string       `json:"description" db:"description"`
	Status      Status       `json:"status" db:"status"`
	Reporter    string       `json:"reporter" db:"reporter"`
	HasEvidence bool         `json:"has_evidence" db:"has_evidence"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// IncidentUpdate carries the subset of mutable incident fields to change.
// Nil fields are left untouched.
type IncidentUpdate struct {
	Date        *string       `json:"date,omitempty"`
	Location    *string       `json:"location,omitempty"`
	Type        *IncidentType `json:"type,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *Status       `json:"status,omitempty"`
	Reporter    *string       `json:"reporter,omitempty"`
	HasEvidence *bool         `json:"has_evidence,omitempty"`
}

// Empty reports whether no field is set.
func (u IncidentUpdate) Empty() bool {
	return u.Date == nil && u.Location == nil && u.Type == nil && u.Description == nil &&
		u.Status == nil && u.Reporter == nil && u.HasEvidence == nil
}

// IncidentFilter narrows ListIncidents. Zero values match everything.
type IncidentFilter struct {
	UserID int64
	Status Status
}

type CaseTracking struct {
	ID         int64     `json:"id" db:"id"`
	IncidentID string    `json:"incident_id" db:"incident_id"`
	PoliceID   int64     `json:"police_id" db:"police_id"`
	Status     Status    `json:"status" db:"status"`
	Notes      string    `json:"notes" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Police struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	BadgeNumber string `json:"badge_number" db:"badge_number"`
	Phone       string `json:"phone" db:"phone"`
	Station     string `json:"station" db:"station"`
}

type EmergencyContact struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Relation  string    `json:"relation" db:"relation"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SOSAlert records one emergency signal and how many contacts were reached.
type SOSAlert struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Notified  int       `json:"notified" db:"notified"`
	Failed    int       `json:"failed" db:"failed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
