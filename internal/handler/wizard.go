package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/wizard"
)

// wizardState is the session snapshot returned by every wizard endpoint.
type wizardState struct {
	ID    string                  `json:"id"`
	State string                  `json:"state"`
	Draft domain.AppointmentDraft `json:"draft"`
}

func sessionState(id string, m *wizard.Machine) wizardState {
	return wizardState{ID: id, State: m.State().String(), Draft: m.Draft()}
}

// StartWizard handles POST /api/wizard: opens a new booking session with an
// empty draft at the first step.
func (s *Server) StartWizard(w http.ResponseWriter, r *http.Request) {
	id, m := s.sessions.Start(s.poster)
	writeJSON(w, http.StatusCreated, sessionState(id, m))
}

// GetWizard handles GET /api/wizard/{id}.
func (s *Server) GetWizard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "wizard session not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionState(id, m))
}

// UpdateWizard handles PATCH /api/wizard/{id}: merges field updates into the
// draft. Budget fields clear each other per the tagged-union rule.
func (s *Server) UpdateWizard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "wizard session not found")
		return
	}

	var upd wizard.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", malformedBodyMessage)
		return
	}

	m.Apply(upd)
	writeJSON(w, http.StatusOK, sessionState(id, m))
}

// WizardNext handles POST /api/wizard/{id}/next. When the current step is
// incomplete the state is unchanged and the response says so; the caller
// decides how to surface it.
func (s *Server) WizardNext(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "wizard session not found")
		return
	}

	if !m.Next() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "current step is incomplete")
		return
	}
	writeJSON(w, http.StatusOK, sessionState(id, m))
}

// WizardPrev handles POST /api/wizard/{id}/prev.
func (s *Server) WizardPrev(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "wizard session not found")
		return
	}

	m.Prev()
	writeJSON(w, http.StatusOK, sessionState(id, m))
}

// WizardSubmit handles POST /api/wizard/{id}/submit. Success schedules the
// session for reaping after the auto-close delay; failure leaves the draft
// editable at the contact step for an explicit retry.
func (s *Server) WizardSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "wizard session not found")
		return
	}

	if err := m.Submit(r.Context()); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
			return
		}
		writeError(w, http.StatusBadGateway, "submit_failed", err.Error())
		return
	}

	s.sessions.ReapAfterSubmit(id)
	writeJSON(w, http.StatusOK, sessionState(id, m))
}

// CloseWizard handles DELETE /api/wizard/{id}: discards the draft immediately.
func (s *Server) CloseWizard(w http.ResponseWriter, r *http.Request) {
	s.sessions.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
