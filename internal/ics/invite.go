// Package ics builds iCalendar invite attachments for booking confirmations.
package ics

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "20060102T150405Z"

// Invite describes one appointment event.
type Invite struct {
	// UID uniquely identifies the event across calendar clients.
	UID string
	// Start is the appointment start in UTC.
	Start time.Time
	// DurationMinutes sets DTEND = Start + DurationMinutes.
	DurationMinutes int
	Summary         string
	Description     string
	OrganizerName   string
	OrganizerEmail  string
	AttendeeName    string
	AttendeeEmail   string
}

// Build renders the invite as a VCALENDAR/VEVENT text block with a
// 30-minute-prior display alarm. now stamps DTSTAMP. Lines are CRLF-separated
// as RFC 5545 requires.
func Build(inv Invite, now time.Time) string {
	end := inv.Start.Add(time.Duration(inv.DurationMinutes) * time.Minute)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Vroom Auto//Marketplace//FR",
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + inv.UID,
		"DTSTAMP:" + now.UTC().Format(timestampLayout),
		"DTSTART:" + inv.Start.UTC().Format(timestampLayout),
		"DTEND:" + end.UTC().Format(timestampLayout),
		"SUMMARY:" + escape(inv.Summary),
		"DESCRIPTION:" + escape(inv.Description),
		fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", inv.OrganizerName, inv.OrganizerEmail),
		fmt.Sprintf("ATTENDEE;CN=%s;RSVP=TRUE:mailto:%s", inv.AttendeeName, inv.AttendeeEmail),
		"BEGIN:VALARM",
		"TRIGGER:-PT30M",
		"ACTION:DISPLAY",
		"DESCRIPTION:" + escape(inv.Summary),
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n")
}

// BuildBase64 renders the invite and base64-encodes it for attachment transport.
func BuildBase64(inv Invite, now time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(Build(inv, now)))
}

// escape backslash-escapes the characters RFC 5545 reserves in text values.
func escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
