package api

import (
	"net/http"

	"github.com/garnizeh/hersafety/internal/tracking"
	"github.com/garnizeh/hersafety/pkg/models"
)

type PoliceHandler struct {
	svc *tracking.Service
}

func NewPoliceHandler(svc *tracking.Service) *PoliceHandler {
	return &PoliceHandler{svc: svc}
}

type addPoliceResponse struct {
	Message  string `json:"message"`
	PoliceID int64  `json:"policeId"`
}

func (h *PoliceHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.Police
	if err := decodeBody(r, policeSchema, []string{"name", "badge_number"}, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.ID = 0

	p, err := h.svc.AddPolice(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, addPoliceResponse{Message: "Police added successfully", PoliceID: p.ID}, http.StatusCreated)
}

func (h *PoliceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPolice(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}
