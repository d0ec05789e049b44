package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/internal/incident"
	"github.com/garnizeh/hersafety/pkg/models"
)

type IncidentsHandler struct {
	svc *incident.Service
}

func NewIncidentsHandler(svc *incident.Service) *IncidentsHandler {
	return &IncidentsHandler{svc: svc}
}

type reportRequest struct {
	Date        string              `json:"date"`
	Time        string              `json:"time"`
	Location    string              `json:"location"`
	Type        models.IncidentType `json:"type"`
	Description string              `json:"description"`
	Reporter    string              `json:"reporter"`
	Evidence    bool                `json:"evidence"`
	// HasEvidence is accepted as an alias of Evidence.
	HasEvidence bool                `json:"has_evidence"`
}

type reportResponse struct {
	Message        string        `json:"message"`
	IncidentID     string        `json:"incidentId"`
	CaseTrackingID int64         `json:"caseTrackingId"`
	AssignedPolice models.Police `json:"assignedPolice"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var reportRequired = []string{"date", "time", "location", "type", "description"}

func (h *IncidentsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeBody(r, reportSchema, reportRequired, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userID, _ := caller(r)
	rep, err := h.svc.CreateIncident(r.Context(), userID, incident.NewIncident{
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
		Reporter:    req.Reporter,
		HasEvidence: req.Evidence || req.HasEvidence,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, reportResponse{
		Message:        "Incident reported successfully",
		IncidentID:     rep.Incident.ID,
		CaseTrackingID: rep.Case.ID,
		AssignedPolice: rep.Police,
	}, http.StatusCreated)
}

// List returns every incident to admins, optionally filtered by status and
// user_id, and only the caller's own incidents to everyone else.
func (h *IncidentsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)
	q := r.URL.Query()

	f := models.IncidentFilter{Status: models.Status(q.Get("status"))}
	if role == models.RoleAdmin {
		if v := q.Get("user_id"); v != "" {
			id, err := parseID(v)
			if err != nil {
				writeError(w, r, apperr.Validation(apperr.FieldError{Field: "user_id", Message: "user_id must be a positive integer"}))
				return
			}
			f.UserID = id
		}
	} else {
		f.UserID = userID
	}

	list, err := h.svc.ListIncidents(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *IncidentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	inc, err := h.svc.GetIncident(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ensureOwner(r, inc.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, inc, http.StatusOK)
}

func (h *IncidentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var u models.IncidentUpdate
	if err := decodeBody(r, incidentUpdateSchema, nil, &u); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.UpdateIncident(r.Context(), mux.Vars(r)["id"], u); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Incident updated successfully"}, http.StatusOK)
}

func (h *IncidentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIncident(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Incident deleted successfully"}, http.StatusOK)
}

// ensureOwner lets admins through and otherwise requires the caller to own
// the record.
func ensureOwner(r *http.Request, ownerID int64) error {
	userID, role := caller(r)
	if role == models.RoleAdmin || userID == ownerID {
		return nil
	}
	return apperr.Forbidden("You do not have access to this incident")
}
