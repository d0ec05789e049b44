package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/internal/emergency"
)

type EmergencyHandler struct {
	svc *emergency.Service
}

func NewEmergencyHandler(svc *emergency.Service) *EmergencyHandler {
	return &EmergencyHandler{svc: svc}
}

type contactRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

type contactResponse struct {
	Message   string `json:"message"`
	ContactID int64  `json:"contactId"`
}

type sosRequest struct {
	Location string `json:"location"`
}

type sosResponse struct {
	Message string `json:"message"`
	emergency.SOSResult
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

func (h *EmergencyHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(r, contactSchema, []string{"name", "phone"}, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userID, _ := caller(r)
	c, err := h.svc.AddContact(r.Context(), userID, req.Name, req.Phone, req.Relation)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, contactResponse{Message: "Emergency contact added", ContactID: c.ID}, http.StatusCreated)
}

func (h *EmergencyHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)
	list, err := h.svc.ListContacts(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *EmergencyHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, apperr.NotFound("Emergency contact not found"))
		return
	}

	userID, _ := caller(r)
	if err := h.svc.DeleteContact(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Emergency contact deleted"}, http.StatusOK)
}

func (h *EmergencyHandler) SOS(w http.ResponseWriter, r *http.Request) {
	var req sosRequest
	if err := decodeBody(r, sosSchema, []string{"location"}, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userID, _ := caller(r)
	res, err := h.svc.SendSOS(r.Context(), userID, req.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, sosResponse{Message: "SOS alert sent", SOSResult: *res}, http.StatusOK)
}
