package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentDraft is the in-memory state collected by the booking wizard.
// It exists only for the lifetime of a wizard session and is never persisted
// as-is; Submit builds an AppointmentRequest from it.
//
// BudgetRange and BudgetCustom are mutually exclusive: setting one to a
// non-empty value clears the other. They model a tagged union stored as two
// optional fields.
type AppointmentDraft struct {
	Duration     string `json:"duration"` // "30" | "60" minutes
	Vroomer      string `json:"vroomer"`  // advisor identifier
	Date         string `json:"date"`     // "2006-01-02"
	Time         string `json:"time"`     // "15:04"
	Motorisation string `json:"motorisation"`
	BudgetRange  string `json:"budgetRange"`
	BudgetCustom string `json:"budgetCustom"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Message      string `json:"message"`
}

// AppointmentRequest is the minimal payload sent to the appointment endpoints.
// The wizard collects vehicle-preference fields (motorisation, budget) but
// intentionally does not send them in this calendar payload.
type AppointmentRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	Vroomer  string `json:"vroomer"`
	Duration string `json:"duration"`
}

// Appointment is the persisted booking created by the add-to-calendar endpoint.
type Appointment struct {
	ID              uuid.UUID `json:"id"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"` // "15:04"
	DurationMinutes int       `json:"duration_minutes"`
	Vroomer         string    `json:"vroomer"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
