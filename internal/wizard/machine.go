// Package wizard implements the four-step appointment booking state machine.
// A Machine owns one domain.AppointmentDraft for its lifetime, gates forward
// movement on per-step completeness, and produces exactly one outbound
// request on a successful Submit.
//
// A Machine is not safe for concurrent use; each booking session owns its
// own Machine, mirroring one browser session owning one form.
package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/vroomauto/marketplace/internal/domain"
)

// State identifies where the machine is in the booking flow.
type State int

const (
	// StateDurationAdvisor collects duration ("30"|"60") and the advisor.
	StateDurationAdvisor State = iota + 1
	// StateDateTime collects the appointment date and time of day.
	StateDateTime
	// StateVehiclePrefs collects motorisation and exactly one budget field.
	StateVehiclePrefs
	// StateContactInfo collects name, email, and optional phone/message.
	StateContactInfo
	// StateSubmitting means the single outbound POST is in flight.
	StateSubmitting
	// StateSubmitted is terminal; the session is reaped shortly after.
	StateSubmitted
)

// String returns the state name for logs and session responses.
func (s State) String() string {
	switch s {
	case StateDurationAdvisor:
		return "duration_advisor"
	case StateDateTime:
		return "date_time"
	case StateVehiclePrefs:
		return "vehicle_prefs"
	case StateContactInfo:
		return "contact_info"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

// Poster issues the one outbound request built from a completed draft.
// The production implementation POSTs to the add-to-calendar endpoint.
type Poster interface {
	PostAppointment(ctx context.Context, req domain.AppointmentRequest) error
}

// Machine drives one appointment draft through the four steps.
type Machine struct {
	state  State
	draft  domain.AppointmentDraft
	poster Poster
}

// New returns a Machine at the first step with an empty draft.
func New(poster Poster) *Machine {
	return &Machine{state: StateDurationAdvisor, poster: poster}
}

// State reports the current state.
func (m *Machine) State() State { return m.state }

// Draft returns a copy of the current draft.
func (m *Machine) Draft() domain.AppointmentDraft { return m.draft }

// Update is a partial draft update. Nil fields are left untouched.
type Update struct {
	Duration     *string `json:"duration"`
	Vroomer      *string `json:"vroomer"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Motorisation *string `json:"motorisation"`
	BudgetRange  *string `json:"budgetRange"`
	BudgetCustom *string `json:"budgetCustom"`
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Message      *string `json:"message"`
}

// Apply merges an Update into the draft. Writing a non-empty BudgetCustom
// clears BudgetRange and vice versa: the two fields model a tagged union.
// When one Update carries both, BudgetCustom wins.
// Updates are ignored once submission has started.
func (m *Machine) Apply(u Update) {
	if m.state == StateSubmitting || m.state == StateSubmitted {
		return
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&m.draft.Duration, u.Duration)
	set(&m.draft.Vroomer, u.Vroomer)
	set(&m.draft.Date, u.Date)
	set(&m.draft.Time, u.Time)
	set(&m.draft.Motorisation, u.Motorisation)
	set(&m.draft.Name, u.Name)
	set(&m.draft.Email, u.Email)
	set(&m.draft.Phone, u.Phone)
	set(&m.draft.Message, u.Message)

	if u.BudgetRange != nil {
		m.draft.BudgetRange = *u.BudgetRange
		if m.draft.BudgetRange != "" {
			m.draft.BudgetCustom = ""
		}
	}
	if u.BudgetCustom != nil {
		m.draft.BudgetCustom = *u.BudgetCustom
		if m.draft.BudgetCustom != "" {
			m.draft.BudgetRange = ""
		}
	}
}

// Next advances to the following step. It is a no-op returning false when the
// current step's completeness predicate does not hold, or when the machine is
// past the last editable step.
func (m *Machine) Next() bool {
	if m.state < StateDurationAdvisor || m.state >= StateContactInfo {
		return false
	}
	if !m.StepComplete(m.state) {
		return false
	}
	m.state++
	return true
}

// Prev moves back one step. Allowed from steps 2–4 only.
func (m *Machine) Prev() bool {
	if m.state <= StateDurationAdvisor || m.state > StateContactInfo {
		return false
	}
	m.state--
	return true
}

// StepComplete reports whether the given step's required fields are filled.
// Step 3 additionally requires that exactly one of the two budget fields is
// set; the tagged-union invariant in Apply guarantees they are never both set.
func (m *Machine) StepComplete(s State) bool {
	d := m.draft
	switch s {
	case StateDurationAdvisor:
		return d.Duration != "" && d.Vroomer != ""
	case StateDateTime:
		return d.Date != "" && d.Time != ""
	case StateVehiclePrefs:
		return d.Motorisation != "" && (d.BudgetRange != "") != (d.BudgetCustom != "")
	case StateContactInfo:
		return d.Name != "" && d.Email != ""
	}
	return false
}

// Submit builds the minimal appointment payload and issues exactly one POST
// through the Poster. Vehicle-preference fields are collected but
// intentionally not part of this payload.
//
// Submit is only valid from the contact step with every step complete.
// Apply allows any field to be edited while the machine sits at the contact
// step, so a previously completed step may have been emptied since Next
// checked it; Submit re-verifies all four before the POST. On failure the
// machine returns to the contact step with editing re-enabled and the error
// is returned; there is no automatic retry.
func (m *Machine) Submit(ctx context.Context) error {
	if m.state != StateContactInfo {
		return fmt.Errorf("%w: submission is only possible from the contact step", domain.ErrValidation)
	}
	for s := StateDurationAdvisor; s <= StateContactInfo; s++ {
		if !m.StepComplete(s) {
			return fmt.Errorf("%w: step %s is incomplete", domain.ErrValidation, s)
		}
	}
	if !plausibleEmail(m.draft.Email) {
		return fmt.Errorf("%w: email address is invalid", domain.ErrValidation)
	}

	m.state = StateSubmitting
	err := m.poster.PostAppointment(ctx, domain.AppointmentRequest{
		Date:     m.draft.Date,
		Time:     m.draft.Time,
		Name:     m.draft.Name,
		Email:    m.draft.Email,
		Phone:    m.draft.Phone,
		Message:  m.draft.Message,
		Vroomer:  m.draft.Vroomer,
		Duration: m.draft.Duration,
	})
	if err != nil {
		m.state = StateContactInfo
		return fmt.Errorf("wizard.Machine.Submit: %w", err)
	}

	m.state = StateSubmitted
	return nil
}

// plausibleEmail applies the same cheap shape check the form does:
// one "@" with a dot somewhere after it. Full verification is the email
// provider's problem.
func plausibleEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
