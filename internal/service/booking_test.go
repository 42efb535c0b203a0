package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/mail"
	"github.com/vroomauto/marketplace/internal/service"
)

// mockAppointmentRepo implements repo.AppointmentRepo.
type mockAppointmentRepo struct {
	calls      int
	created    domain.Appointment
	createFunc func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m.calls++
	m.created = appt
	if m.createFunc != nil {
		return m.createFunc(ctx, appt)
	}
	appt.ID = uuid.MustParse("3f1a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8")
	appt.CreatedAt = time.Now()
	return appt, nil
}

// mockSender implements mail.Sender.
type mockSender struct {
	calls    int
	lastMsg  mail.Message
	sendFunc func(ctx context.Context, msg mail.Message) (mail.SendResult, error)
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) (mail.SendResult, error) {
	m.calls++
	m.lastMsg = msg
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return mail.SendResult{ID: "msg_1"}, nil
}

func validRequest() domain.AppointmentRequest {
	return domain.AppointmentRequest{
		Date:     "2026-09-15",
		Time:     "14:00",
		Name:     "Alice Martin",
		Email:    "alice@example.com",
		Phone:    "0612345678",
		Message:  "Plutôt le matin",
		Vroomer:  "Jean",
		Duration: "30",
	}
}

func TestAddToCalendar_persistsParsedAppointment(t *testing.T) {
	repo := &mockAppointmentRepo{}
	svc := service.NewBookingService(repo, &mockSender{}, "owner@vroomauto.fr", "https://vroomauto.fr")

	appt, err := svc.AddToCalendar(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, uuid.MustParse("3f1a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8"), appt.ID)
	require.Equal(t, 1, repo.calls)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), repo.created.Date)
	assert.Equal(t, "14:00", repo.created.StartTime)
	assert.Equal(t, 30, repo.created.DurationMinutes)
	assert.Equal(t, "Jean", repo.created.Vroomer)
}

func TestAddToCalendar_rejectsUnknownDuration(t *testing.T) {
	repo := &mockAppointmentRepo{}
	svc := service.NewBookingService(repo, &mockSender{}, "owner@vroomauto.fr", "https://vroomauto.fr")

	req := validRequest()
	req.Duration = "45"

	_, err := svc.AddToCalendar(context.Background(), req)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "duration must be 30 or 60")
	assert.Zero(t, repo.calls)
}

func TestAddToCalendar_rejectsMalformedEmail(t *testing.T) {
	repo := &mockAppointmentRepo{}
	svc := service.NewBookingService(repo, &mockSender{}, "owner@vroomauto.fr", "https://vroomauto.fr")

	req := validRequest()
	req.Email = "alice-at-example"

	_, err := svc.AddToCalendar(context.Background(), req)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.calls)
}

func TestAddToCalendar_missingFieldNamedInError(t *testing.T) {
	svc := service.NewBookingService(&mockAppointmentRepo{}, &mockSender{}, "owner@vroomauto.fr", "https://vroomauto.fr")

	req := validRequest()
	req.Vroomer = ""

	_, err := svc.AddToCalendar(context.Background(), req)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "vroomer is required")
}

func TestPostAppointment_isOneCalendarCreation(t *testing.T) {
	repo := &mockAppointmentRepo{}
	svc := service.NewBookingService(repo, &mockSender{}, "owner@vroomauto.fr", "https://vroomauto.fr")

	require.NoError(t, svc.PostAppointment(context.Background(), validRequest()))
	assert.Equal(t, 1, repo.calls)
}

func TestNotifyOwner_mailsTheOwner(t *testing.T) {
	sender := &mockSender{}
	svc := service.NewBookingService(&mockAppointmentRepo{}, sender, "owner@vroomauto.fr", "https://vroomauto.fr")

	res, err := svc.NotifyOwner(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "msg_1", res.ID)
	require.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{"owner@vroomauto.fr"}, sender.lastMsg.To)
	assert.Contains(t, sender.lastMsg.Subject, "Alice Martin")
	assert.Contains(t, sender.lastMsg.Text, "2026-09-15")
	assert.Empty(t, sender.lastMsg.Attachments)
}

func TestNotifyClient_attachesCalendarInvite(t *testing.T) {
	sender := &mockSender{}
	svc := service.NewBookingService(&mockAppointmentRepo{}, sender, "owner@vroomauto.fr", "https://vroomauto.fr")

	_, err := svc.NotifyClient(context.Background(), validRequest())
	require.NoError(t, err)

	require.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{"alice@example.com"}, sender.lastMsg.To)

	require.Len(t, sender.lastMsg.Attachments, 1)
	att := sender.lastMsg.Attachments[0]
	assert.Equal(t, "rendez-vous.ics", att.Filename)
	assert.Equal(t, "text/calendar", att.ContentType)

	decoded, err := base64.StdEncoding.DecodeString(att.ContentBase64)
	require.NoError(t, err)
	ical := string(decoded)
	assert.Contains(t, ical, "BEGIN:VCALENDAR")
	assert.Contains(t, ical, "DTSTART:20260915T140000Z")
	assert.Contains(t, ical, "DTEND:20260915T143000Z")
	assert.Contains(t, ical, "TRIGGER:-PT30M")
	assert.Contains(t, ical, "mailto:alice@example.com")
}

func TestNotifyClient_validationBlocksSend(t *testing.T) {
	sender := &mockSender{}
	svc := service.NewBookingService(&mockAppointmentRepo{}, sender, "owner@vroomauto.fr", "https://vroomauto.fr")

	req := validRequest()
	req.Date = "15/09/2026"

	_, err := svc.NotifyClient(context.Background(), req)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, sender.calls)
}

func TestNotifyOwner_sendFailureIsWrapped(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(context.Context, mail.Message) (mail.SendResult, error) {
			return mail.SendResult{}, errors.New("provider down")
		},
	}
	svc := service.NewBookingService(&mockAppointmentRepo{}, sender, "owner@vroomauto.fr", "https://vroomauto.fr")

	_, err := svc.NotifyOwner(context.Background(), validRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}
