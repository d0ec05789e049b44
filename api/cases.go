package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/hersafety/internal/tracking"
	"github.com/garnizeh/hersafety/pkg/models"
)

type CasesHandler struct {
	svc *tracking.Service
}

func NewCasesHandler(svc *tracking.Service) *CasesHandler {
	return &CasesHandler{svc: svc}
}

type assignRequest struct {
	IncidentID string        `json:"incident_id"`
	PoliceID   int64         `json:"police_id"`
	Status     models.Status `json:"status"`
	Notes      string        `json:"notes"`
}

type assignResponse struct {
	Message    string `json:"message"`
	TrackingID int64  `json:"trackingId"`
}

type caseUpdateRequest struct {
	Status models.Status `json:"status"`
	Notes  string        `json:"notes"`
}

func (h *CasesHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeBody(r, assignSchema, []string{"incident_id", "police_id"}, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.AssignCase(r.Context(), req.IncidentID, req.PoliceID, req.Status, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, assignResponse{Message: "Case assigned successfully", TrackingID: c.ID}, http.StatusCreated)
}

func (h *CasesHandler) Track(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.TrackCase(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ensureOwner(r, view.Incident.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, view, http.StatusOK)
}

func (h *CasesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req caseUpdateRequest
	if err := decodeBody(r, caseUpdateSchema, []string{"status"}, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.UpdateCaseStatus(r.Context(), mux.Vars(r)["id"], req.Status, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, c, http.StatusOK)
}
