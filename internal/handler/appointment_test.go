package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/handler"
	"github.com/vroomauto/marketplace/internal/mail"
)

func bookingServer(bookings *mockBookingServicer) http.Handler {
	return handler.NewServer(nil, nil, bookings, nil, nil).Routes()
}

const appointmentBody = `{
	"date": "2026-09-15",
	"time": "14:00",
	"name": "Alice Martin",
	"email": "alice@example.com",
	"phone": "0612345678",
	"message": "Plutôt le matin",
	"vroomer": "Jean",
	"duration": "30"
}`

func TestAddToCalendar_ok(t *testing.T) {
	id := uuid.New()
	var received domain.AppointmentRequest
	bookings := &mockBookingServicer{
		addToCalendarFunc: func(_ context.Context, req domain.AppointmentRequest) (domain.Appointment, error) {
			received = req
			return domain.Appointment{ID: id}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/add-to-calendar", strings.NewReader(appointmentBody))
	rec := httptest.NewRecorder()
	bookingServer(bookings).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "appointment added to calendar", resp["message"])
	assert.Equal(t, id.String(), resp["id"])

	assert.Equal(t, "2026-09-15", received.Date)
	assert.Equal(t, "Jean", received.Vroomer)
	assert.Equal(t, "30", received.Duration)
}

func TestAddToCalendar_malformedBodyIs400(t *testing.T) {
	bookings := &mockBookingServicer{
		addToCalendarFunc: func(context.Context, domain.AppointmentRequest) (domain.Appointment, error) {
			t.Fatal("service must not be called for a malformed body")
			return domain.Appointment{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/add-to-calendar", strings.NewReader("{{"))
	rec := httptest.NewRecorder()
	bookingServer(bookings).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "request body is not valid JSON", resp["error"])
}

func TestAddToCalendar_validationErrorIsFlat400(t *testing.T) {
	bookings := &mockBookingServicer{
		addToCalendarFunc: func(context.Context, domain.AppointmentRequest) (domain.Appointment, error) {
			return domain.Appointment{}, fmt.Errorf("%w: email address is invalid", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/add-to-calendar", strings.NewReader(appointmentBody))
	rec := httptest.NewRecorder()
	bookingServer(bookings).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "email address is invalid", resp["error"])
	_, hasDetails := resp["details"]
	assert.False(t, hasDetails)
}

func TestAddToCalendar_persistenceFailureCarriesDetails(t *testing.T) {
	bookings := &mockBookingServicer{
		addToCalendarFunc: func(context.Context, domain.AppointmentRequest) (domain.Appointment, error) {
			return domain.Appointment{}, errors.New("connection refused")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/add-to-calendar", strings.NewReader(appointmentBody))
	rec := httptest.NewRecorder()
	bookingServer(bookings).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "could not save the appointment", resp["error"])
	assert.Contains(t, resp["details"], "connection refused")
}

func TestNotifyOwner_ok(t *testing.T) {
	bookings := &mockBookingServicer{
		notifyOwnerFunc: func(context.Context, domain.AppointmentRequest) (mail.SendResult, error) {
			return mail.SendResult{ID: "msg_abc", TestMode: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/notify-owner", strings.NewReader(appointmentBody))
	rec := httptest.NewRecorder()
	bookingServer(bookings).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message  string `json:"message"`
		ResendID string `json:"resendId"`
		TestMode bool   `json:"testMode"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "notification sent", resp.Message)
	assert.Equal(t, "msg_abc", resp.ResendID)
	assert.True(t, resp.TestMode)
}

func TestNotifyClient_sendFailureIs500WithProviderDetail(t *testing.T) {
	bookings := &mockBookingServicer{
		notifyClientFunc: func(context.Context, domain.AppointmentRequest) (mail.SendResult, error) {
			return mail.SendResult{}, errors.New("provider returned 422: Invalid from address")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/notify-client", strings.NewReader(appointmentBody))
	rec := httptest.NewRecorder()
	bookingServer(bookings).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "could not send the notification email", resp["error"])
	assert.Contains(t, resp["details"], "Invalid from address")
}

func TestNotifyClient_validationErrorIs400(t *testing.T) {
	bookings := &mockBookingServicer{
		notifyClientFunc: func(context.Context, domain.AppointmentRequest) (mail.SendResult, error) {
			return mail.SendResult{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/notify-client", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	bookingServer(bookings).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "date is required")
}
