package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
)

// Mocks bundles in-memory repositories for service and handler tests. Every
// repo is safe for concurrent use. Set an *Err field to make the matching
// call fail.
type Mocks struct {
	Users     *mockUserRepo
	Incidents *mockIncidentRepo
	Police    *mockPoliceRepo
	Contacts  *mockContactRepo
	SOS       *mockSOSRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:     &mockUserRepo{byID: map[int64]*models.User{}},
		Incidents: &mockIncidentRepo{byID: map[string]*models.Incident{}},
		Police:    &mockPoliceRepo{},
		Contacts:  &mockContactRepo{},
		SOS:       &mockSOSRepo{},
	}
}

type mockUserRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64

	CreateErr error
	GetErr    error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}

	m.nextID++
	stored := *u
	stored.ID = m.nextID
	if stored.Role == "" {
		stored.Role = models.RoleUser
	}
	stored.CreatedAt = time.Now().UTC()
	m.byID[stored.ID] = &stored

	return stored.ID, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateUserRole(ctx context.Context, id int64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

// mockIncidentRepo also serves as the CaseRepo since both tables move together.
type mockIncidentRepo struct {
	mu         sync.Mutex
	byID       map[string]*models.Incident
	cases      []models.CaseTracking
	nextCaseID int64
	seq        int64

	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error
	DeleteErr error
	CaseErr   error
}

func (m *mockIncidentRepo) CreateIncidentWithCase(ctx context.Context, inc *models.Incident, c *models.CaseTracking) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	if _, ok := m.byID[inc.ID]; ok {
		return 0, repository.ErrDuplicate
	}
	if m.CaseErr != nil {
		return 0, m.CaseErr
	}

	ts := m.tick()
	inc.CreatedAt, inc.UpdatedAt = ts, ts
	stored := *inc
	m.byID[inc.ID] = &stored

	m.nextCaseID++
	c.ID = m.nextCaseID
	c.IncidentID = inc.ID
	c.CreatedAt = ts
	m.cases = append(m.cases, *c)

	return c.ID, nil
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (m *mockIncidentRepo) tick() time.Time {
	m.seq++
	return time.UnixMilli(1_700_000_000_000 + m.seq).UTC()
}

func (m *mockIncidentRepo) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if inc, ok := m.byID[id]; ok {
		cp := *inc
		return &cp, nil
	}
	return nil, nil
}

func (m *mockIncidentRepo) ListIncidents(ctx context.Context, f models.IncidentFilter) ([]models.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var out []models.Incident
	for _, inc := range m.byID {
		if f.UserID > 0 && inc.UserID != f.UserID {
			continue
		}
		if f.Status != "" && inc.Status != f.Status {
			continue
		}
		out = append(out, *inc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return strings.Compare(out[i].ID, out[j].ID) > 0
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (m *mockIncidentRepo) UpdateIncident(ctx context.Context, id string, u models.IncidentUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	inc, ok := m.byID[id]
	if !ok {
		return false, nil
	}

	if u.Date != nil {
		inc.Date = *u.Date
	}
	if u.Location != nil {
		inc.Location = *u.Location
	}
	if u.Type != nil {
		inc.Type = *u.Type
	}
	if u.Description != nil {
		inc.Description = *u.Description
	}
	if u.Status != nil {
		inc.Status = *u.Status
	}
	if u.Reporter != nil {
		inc.Reporter = *u.Reporter
	}
	if u.HasEvidence != nil {
		inc.HasEvidence = *u.HasEvidence
	}
	inc.UpdatedAt = m.tick()

	return true, nil
}

func (m *mockIncidentRepo) DeleteIncident(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}

	delete(m.byID, id)
	kept := m.cases[:0]
	for _, c := range m.cases {
		if c.IncidentID != id {
			kept = append(kept, c)
		}
	}
	m.cases = kept

	return true, nil
}

func (m *mockIncidentRepo) CreateCase(ctx context.Context, c *models.CaseTracking) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CaseErr != nil {
		return 0, m.CaseErr
	}
	if _, ok := m.byID[c.IncidentID]; !ok {
		return 0, repository.ErrNotFound
	}

	m.nextCaseID++
	c.ID = m.nextCaseID
	c.CreatedAt = m.tick()
	m.cases = append(m.cases, *c)

	return c.ID, nil
}

func (m *mockIncidentRepo) ListCasesByIncident(ctx context.Context, incidentID string) ([]models.CaseTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CaseErr != nil {
		return nil, m.CaseErr
	}

	var out []models.CaseTracking
	for _, c := range m.cases {
		if c.IncidentID == incidentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockIncidentRepo) AppendCaseStatus(ctx context.Context, c *models.CaseTracking) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CaseErr != nil {
		return 0, m.CaseErr
	}
	inc, ok := m.byID[c.IncidentID]
	if !ok {
		return 0, repository.ErrNotFound
	}

	ts := m.tick()
	inc.Status = c.Status
	inc.UpdatedAt = ts

	m.nextCaseID++
	c.ID = m.nextCaseID
	c.CreatedAt = ts
	m.cases = append(m.cases, *c)

	return c.ID, nil
}

type mockPoliceRepo struct {
	mu       sync.Mutex
	officers []models.Police

	CreateErr error
	ListErr   error
}

// Seed replaces the roster, assigning ids from 1.
func (m *mockPoliceRepo) Seed(officers ...models.Police) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.officers = nil
	for i, p := range officers {
		p.ID = int64(i + 1)
		m.officers = append(m.officers, p)
	}
}

func (m *mockPoliceRepo) CreatePolice(ctx context.Context, p *models.Police) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, existing := range m.officers {
		if existing.BadgeNumber == p.BadgeNumber {
			return 0, repository.ErrDuplicate
		}
	}

	stored := *p
	stored.ID = int64(len(m.officers) + 1)
	m.officers = append(m.officers, stored)

	return stored.ID, nil
}

func (m *mockPoliceRepo) GetPolice(ctx context.Context, id int64) (*models.Police, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.officers {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockPoliceRepo) ListPolice(ctx context.Context) ([]models.Police, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Police(nil), m.officers...), nil
}

type mockContactRepo struct {
	mu       sync.Mutex
	contacts []models.EmergencyContact
	nextID   int64

	CreateErr error
	ListErr   error
}

func (m *mockContactRepo) CreateContact(ctx context.Context, c *models.EmergencyContact) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}

	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	m.contacts = append(m.contacts, *c)

	return c.ID, nil
}

func (m *mockContactRepo) ListContactsByUser(ctx context.Context, userID int64) ([]models.EmergencyContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var out []models.EmergencyContact
	for _, c := range m.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockContactRepo) DeleteContact(ctx context.Context, userID, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.contacts {
		if c.ID == id && c.UserID == userID {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockSOSRepo struct {
	mu     sync.Mutex
	Alerts []models.SOSAlert

	CreateErr error
}

func (m *mockSOSRepo) CreateSOSAlert(ctx context.Context, a *models.SOSAlert) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}

	a.ID = int64(len(m.Alerts) + 1)
	a.CreatedAt = time.Now().UTC()
	m.Alerts = append(m.Alerts, *a)

	return a.ID, nil
}

var (
	_ repository.UserRepo     = (*mockUserRepo)(nil)
	_ repository.IncidentRepo = (*mockIncidentRepo)(nil)
	_ repository.CaseRepo     = (*mockIncidentRepo)(nil)
	_ repository.PoliceRepo   = (*mockPoliceRepo)(nil)
	_ repository.ContactRepo  = (*mockContactRepo)(nil)
	_ repository.SOSRepo      = (*mockSOSRepo)(nil)
)
