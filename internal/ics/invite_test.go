package ics_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomauto/marketplace/internal/ics"
)

func sampleInvite() ics.Invite {
	return ics.Invite{
		UID:             "abc-123@vroomauto",
		Start:           time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Summary:         "Rendez-vous Vroom Auto",
		Description:     "Conseiller: Jean",
		OrganizerName:   "Vroom Auto",
		OrganizerEmail:  "contact@vroomauto.fr",
		AttendeeName:    "Alice Martin",
		AttendeeEmail:   "alice@example.com",
	}
}

func TestBuild_eventTimes(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	out := ics.Build(sampleInvite(), now)

	assert.Contains(t, out, "DTSTAMP:20260901T103000Z")
	assert.Contains(t, out, "DTSTART:20260915T140000Z")
	// DTEND is start plus the duration.
	assert.Contains(t, out, "DTEND:20260915T143000Z")
}

func TestBuild_structureAndAlarm(t *testing.T) {
	out := ics.Build(sampleInvite(), time.Now())

	for _, line := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:abc-123@vroomauto",
		"ORGANIZER;CN=Vroom Auto:mailto:contact@vroomauto.fr",
		"ATTENDEE;CN=Alice Martin;RSVP=TRUE:mailto:alice@example.com",
		"BEGIN:VALARM",
		"TRIGGER:-PT30M",
		"ACTION:DISPLAY",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		assert.Contains(t, out, line)
	}

	// RFC 5545 requires CRLF line endings, with no stray bare LFs.
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestBuild_escapesReservedCharacters(t *testing.T) {
	inv := sampleInvite()
	inv.Summary = "Essai; Peugeot, 308"
	inv.Description = "Ligne 1\nLigne 2"

	out := ics.Build(inv, time.Now())

	assert.Contains(t, out, `SUMMARY:Essai\; Peugeot\, 308`)
	assert.Contains(t, out, `DESCRIPTION:Ligne 1\nLigne 2`)
}

func TestBuildBase64_decodesToBuildOutput(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	inv := sampleInvite()

	decoded, err := base64.StdEncoding.DecodeString(ics.BuildBase64(inv, now))
	require.NoError(t, err)
	assert.Equal(t, ics.Build(inv, now), string(decoded))
}

func TestBuild_longerDuration(t *testing.T) {
	inv := sampleInvite()
	inv.DurationMinutes = 60

	out := ics.Build(inv, time.Now())

	assert.Contains(t, out, "DTEND:20260915T150000Z")
}
