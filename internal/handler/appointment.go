package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/mail"
)

// The appointment endpoints keep the serverless contract: flat {"error": ...}
// bodies, 400 for validation, 500 with provider detail for send failures.

// AddToCalendar handles POST /api/appointments/add-to-calendar.
func (s *Server) AddToCalendar(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAppointment(w, r)
	if !ok {
		return
	}

	appt, err := s.bookings.AddToCalendar(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeAppointmentError(w, http.StatusBadRequest, unwrapMessage(err), "")
			return
		}
		writeAppointmentError(w, http.StatusInternalServerError, "could not save the appointment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "appointment added to calendar",
		"id":      appt.ID.String(),
	})
}

// NotifyOwner handles POST /api/appointments/notify-owner.
func (s *Server) NotifyOwner(w http.ResponseWriter, r *http.Request) {
	s.notify(w, r, s.bookings.NotifyOwner)
}

// NotifyClient handles POST /api/appointments/notify-client.
func (s *Server) NotifyClient(w http.ResponseWriter, r *http.Request) {
	s.notify(w, r, s.bookings.NotifyClient)
}

// notify is the shared body of the two notification endpoints; only the
// service call differs. A send failure is a 500 with the provider's message
// as detail — it does not undo an already-created calendar entry, which is a
// separate request.
func (s *Server) notify(w http.ResponseWriter, r *http.Request, send func(context.Context, domain.AppointmentRequest) (mail.SendResult, error)) {
	req, ok := decodeAppointment(w, r)
	if !ok {
		return
	}

	result, err := send(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeAppointmentError(w, http.StatusBadRequest, unwrapMessage(err), "")
			return
		}
		writeAppointmentError(w, http.StatusInternalServerError, "could not send the notification email", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "notification sent",
		"resendId": result.ID,
		"testMode": result.TestMode,
	})
}

// decodeAppointment parses the shared request body. A false return means the
// 400 response has already been written.
func decodeAppointment(w http.ResponseWriter, r *http.Request) (domain.AppointmentRequest, bool) {
	var req domain.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppointmentError(w, http.StatusBadRequest, malformedBodyMessage, "")
		return domain.AppointmentRequest{}, false
	}
	return req, true
}
