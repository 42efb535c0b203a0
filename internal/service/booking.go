package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/ics"
	"github.com/vroomauto/marketplace/internal/mail"
	"github.com/vroomauto/marketplace/internal/repo"
)

// BookingService implements the appointment flow behind the three serverless
// endpoints: calendar persistence, owner notification, client notification.
// The calendar entry and the notifications are deliberately not a shared
// transaction — a failed email never undoes a created appointment.
type BookingService struct {
	appts         repo.AppointmentRepo
	mailer        mail.Sender
	ownerEmail    string
	publicBaseURL string
	now           func() time.Time
}

// NewBookingService constructs a BookingService. ownerEmail receives the
// internal notification; publicBaseURL builds links inside emails.
func NewBookingService(appts repo.AppointmentRepo, mailer mail.Sender, ownerEmail, publicBaseURL string) *BookingService {
	return &BookingService{
		appts:         appts,
		mailer:        mailer,
		ownerEmail:    ownerEmail,
		publicBaseURL: publicBaseURL,
		now:           time.Now,
	}
}

// PostAppointment adapts the booking service to the wizard's Poster seam:
// a wizard submission is one appointment creation, nothing more.
func (s *BookingService) PostAppointment(ctx context.Context, req domain.AppointmentRequest) error {
	_, err := s.AddToCalendar(ctx, req)
	return err
}

// AddToCalendar validates the request and persists the appointment.
func (s *BookingService) AddToCalendar(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error) {
	date, duration, err := validateAppointment(req)
	if err != nil {
		return domain.Appointment{}, err
	}

	appt, err := s.appts.Create(ctx, domain.Appointment{
		Date:            date,
		StartTime:       req.Time,
		DurationMinutes: duration,
		Vroomer:         req.Vroomer,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Message:         req.Message,
	})
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("service.BookingService.AddToCalendar: %w", err)
	}
	return appt, nil
}

// NotifyOwner emails the marketplace team about a new booking.
func (s *BookingService) NotifyOwner(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error) {
	if _, _, err := validateAppointment(req); err != nil {
		return mail.SendResult{}, err
	}

	text := strings.Join([]string{
		"Nouveau rendez-vous réservé.",
		"",
		"Client : " + req.Name,
		"Email : " + req.Email,
		"Téléphone : " + orDash(req.Phone),
		"Date : " + req.Date + " à " + req.Time,
		"Durée : " + req.Duration + " minutes",
		"Vroomer : " + req.Vroomer,
		"Message : " + orDash(req.Message),
	}, "\n")

	result, err := s.mailer.Send(ctx, mail.Message{
		To:      []string{s.ownerEmail},
		Subject: "Nouveau rendez-vous — " + req.Name,
		Text:    text,
		HTML:    ownerHTML(req, s.publicBaseURL),
	})
	if err != nil {
		return mail.SendResult{}, fmt.Errorf("service.BookingService.NotifyOwner: %w", err)
	}
	return result, nil
}

// NotifyClient emails the booking confirmation to the client, with the
// calendar invite attached.
func (s *BookingService) NotifyClient(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error) {
	date, duration, err := validateAppointment(req)
	if err != nil {
		return mail.SendResult{}, err
	}

	start, err := startAt(date, req.Time)
	if err != nil {
		return mail.SendResult{}, err
	}

	invite := ics.Invite{
		UID:             uuid.NewString() + "@vroomauto",
		Start:           start,
		DurationMinutes: duration,
		Summary:         "Rendez-vous Vroom Auto avec " + req.Vroomer,
		Description:     "Rendez-vous de " + req.Duration + " minutes avec votre vroomer " + req.Vroomer + ".",
		OrganizerName:   "Vroom Auto",
		OrganizerEmail:  s.ownerEmail,
		AttendeeName:    req.Name,
		AttendeeEmail:   req.Email,
	}

	text := strings.Join([]string{
		"Bonjour " + req.Name + ",",
		"",
		"Votre rendez-vous est confirmé pour le " + req.Date + " à " + req.Time + " (" + req.Duration + " minutes).",
		"Votre vroomer : " + req.Vroomer,
		"",
		"L'invitation calendrier est jointe à cet email.",
		"",
		"À bientôt,",
		"L'équipe Vroom Auto",
	}, "\n")

	result, err := s.mailer.Send(ctx, mail.Message{
		To:      []string{req.Email},
		Subject: "Votre rendez-vous Vroom Auto est confirmé",
		Text:    text,
		HTML:    clientHTML(req, s.publicBaseURL),
		Attachments: []mail.Attachment{{
			Filename:      "rendez-vous.ics",
			ContentBase64: ics.BuildBase64(invite, s.now()),
			ContentType:   "text/calendar",
		}},
	})
	if err != nil {
		return mail.SendResult{}, fmt.Errorf("service.BookingService.NotifyClient: %w", err)
	}
	return result, nil
}

// validateAppointment checks the shared request shape: required fields,
// email plausibility, a known duration, and parseable date/time values.
// All failures wrap domain.ErrValidation and happen before any network call.
func validateAppointment(req domain.AppointmentRequest) (time.Time, int, error) {
	for _, f := range []struct{ name, value string }{
		{"date", req.Date},
		{"time", req.Time},
		{"name", req.Name},
		{"email", req.Email},
		{"vroomer", req.Vroomer},
		{"duration", req.Duration},
	} {
		if f.value == "" {
			return time.Time{}, 0, fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}

	if at := strings.Index(req.Email, "@"); at <= 0 || !strings.Contains(req.Email[at+1:], ".") {
		return time.Time{}, 0, fmt.Errorf("%w: email address is invalid", domain.ErrValidation)
	}

	var duration int
	switch req.Duration {
	case "30":
		duration = 30
	case "60":
		duration = 60
	default:
		return time.Time{}, 0, fmt.Errorf("%w: duration must be 30 or 60", domain.ErrValidation)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, req.Date)
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: invalid time %q", domain.ErrValidation, req.Time)
	}

	return date, duration, nil
}

// startAt combines the date and the "15:04" time-of-day into one instant.
func startAt(date time.Time, timeOfDay string) (time.Time, error) {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time %q", domain.ErrValidation, timeOfDay)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func ownerHTML(req domain.AppointmentRequest, baseURL string) string {
	return "<h2>Nouveau rendez-vous</h2>" +
		"<p><strong>" + req.Name + "</strong> (" + req.Email + ") a réservé le " +
		req.Date + " à " + req.Time + " pour " + req.Duration + " minutes avec " + req.Vroomer + ".</p>" +
		"<p>Message : " + orDash(req.Message) + "</p>" +
		`<p><a href="` + baseURL + `/admin/rendez-vous">Voir les rendez-vous</a></p>`
}

func clientHTML(req domain.AppointmentRequest, baseURL string) string {
	return "<h2>Rendez-vous confirmé</h2>" +
		"<p>Bonjour " + req.Name + ", votre rendez-vous du " + req.Date + " à " + req.Time +
		" (" + req.Duration + " minutes) avec " + req.Vroomer + " est confirmé.</p>" +
		"<p>L'invitation calendrier est jointe à cet email.</p>" +
		`<p><a href="` + baseURL + `">Vroom Auto</a></p>`
}
