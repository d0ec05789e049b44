package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/hersafety/internal/auth"
	"github.com/garnizeh/hersafety/internal/config"
	"github.com/garnizeh/hersafety/internal/emergency"
	"github.com/garnizeh/hersafety/internal/incident"
	"github.com/garnizeh/hersafety/internal/tracking"
)

// Services are the domain services the router dispatches to.
type Services struct {
	Auth      *auth.Service
	Incidents *incident.Service
	Tracking  *tracking.Service
	Emergency *emergency.Service
	// DB is optional and only used by /health.
	DB Pinger
}

func SetupRoutes(cfg *config.Config, version, buildTime string, svc Services) (*mux.Router, error) {
	enforcer, err := NewEnforcer()
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{DB: svc.DB}
	authHandler := NewAuthHandler(svc.Auth)
	incidentsHandler := NewIncidentsHandler(svc.Incidents)
	casesHandler := NewCasesHandler(svc.Tracking)
	policeHandler := NewPoliceHandler(svc.Tracking)
	emergencyHandler := NewEmergencyHandler(svc.Emergency)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/users/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", authHandler.Login).Methods(http.MethodPost)

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))
	protected.Use(RBACMiddleware(enforcer))

	protected.HandleFunc("/users/me", authHandler.Me).Methods(http.MethodGet)

	protected.HandleFunc("/incidents/report", incidentsHandler.Report).Methods(http.MethodPost)
	protected.HandleFunc("/incidents", incidentsHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/incidents/{id}", incidentsHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/incidents/{id}", incidentsHandler.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/incidents/{id}", incidentsHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/cases/assign", casesHandler.Assign).Methods(http.MethodPost)
	protected.HandleFunc("/cases/{id}", casesHandler.Track).Methods(http.MethodGet)
	protected.HandleFunc("/cases/{id}", casesHandler.Update).Methods(http.MethodPut)

	protected.HandleFunc("/police/add", policeHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/police", policeHandler.List).Methods(http.MethodGet)

	protected.HandleFunc("/emergency-contacts/add", emergencyHandler.AddContact).Methods(http.MethodPost)
	protected.HandleFunc("/emergency-contacts", emergencyHandler.AddContact).Methods(http.MethodPost)
	protected.HandleFunc("/emergency-contacts", emergencyHandler.ListContacts).Methods(http.MethodGet)
	protected.HandleFunc("/emergency-contacts/sos", emergencyHandler.SOS).Methods(http.MethodPost)
	protected.HandleFunc("/emergency-contacts/{id}", emergencyHandler.DeleteContact).Methods(http.MethodDelete)

	// preflight requests only need the CORS headers
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r, nil
}
