package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/garnizeh/hersafety/api"
	"github.com/garnizeh/hersafety/internal/auth"
	"github.com/garnizeh/hersafety/internal/config"
	"github.com/garnizeh/hersafety/internal/emergency"
	"github.com/garnizeh/hersafety/internal/incident"
	"github.com/garnizeh/hersafety/internal/tracking"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository/mock"
	"github.com/garnizeh/hersafety/pkg/sms"
)

const testSecret = "testsecret"

type testEnv struct {
	router *mux.Router
	mocks  *mock.Mocks
	sms    *recordingSender
	// tokens for a regular user, a second user and an admin
	user, other, admin       string
	userID, otherID, adminID int64
}

type recordingSender struct {
	sent []*sms.Message
}

func (s *recordingSender) Send(ctx context.Context, msg *sms.Message) (*sms.Result, error) {
	s.sent = append(s.sent, msg)
	return &sms.Result{MessageID: "m", Status: "sent"}, nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api.SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	m := mock.NewMocks()
	m.Police.Seed(
		models.Police{Name: "SI Kavya", BadgeNumber: "WPS-1", Station: "Central"},
		models.Police{Name: "SI Meera", BadgeNumber: "WPS-2", Station: "North"},
	)
	sender := &recordingSender{}

	authSvc := auth.NewService(m.Users, testSecret, time.Hour, nil)
	incSvc := incident.New(m.Incidents, m.Users, m.Police, nil)
	svcs := api.Services{
		Auth:      authSvc,
		Incidents: incSvc,
		Tracking:  tracking.New(m.Incidents, m.Incidents, m.Police, incSvc.Policy(), nil),
		Emergency: emergency.New(m.Contacts, m.SOS, m.Users, sender, "HerSafety", nil),
	}

	cfg := &config.Config{JWTSecret: testSecret, TokenDuration: time.Hour}
	r, err := api.SetupRoutes(cfg, "test", "now", svcs)
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}

	env := &testEnv{router: r, mocks: m, sms: sender}
	env.userID, env.user = env.login(t, "Asha", "asha@example.com", models.RoleUser)
	env.otherID, env.other = env.login(t, "Bina", "bina@example.com", models.RoleUser)
	env.adminID, env.admin = env.login(t, "Admin", "admin@example.com", models.RoleAdmin)

	return env
}

func (e *testEnv) login(t *testing.T, name, email, role string) (int64, string) {
	t.Helper()
	id, err := e.mocks.Users.CreateUser(context.Background(), &models.User{Name: name, Email: email, Role: role})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tok, err := auth.IssueToken(&models.User{ID: id, Email: email, Role: role}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return id, tok
}

// do sends body (marshalled unless it is a string) with an optional bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

type errorBody struct {
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Missing []string `json:"missing"`
}

func validReport() map[string]any {
	return map[string]any{
		"date":        "2024-03-01",
		"time":        "14:30",
		"location":    "MG Road metro station",
		"type":        "harassment",
		"description": "Man followed me out of the station",
		"evidence":    true,
	}
}

// report files validReport as the regular user and returns the incident id.
func (e *testEnv) report(t *testing.T, token string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/incidents/report", token, validReport())
	if w.Code != http.StatusCreated {
		t.Fatalf("report: expected 201, got %d %s", w.Code, w.Body.String())
	}
	return decode[map[string]any](t, w)["incidentId"].(string)
}
