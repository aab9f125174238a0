// Package calendar exports productions as an iCalendar (.ics) document.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

const (
	prodID    = "-//CTX Live Theatre//ctx-theatre//EN"
	calName   = "CTX Live Theatre"
	uidDomain = "ctx-theatre"
	dateForm  = "20060102"

	// maxLineOctets is the RFC 5545 content line limit, excluding CRLF
	maxLineOctets = 75
)

var byDay = map[time.Weekday]string{
	time.Sunday: "SU", time.Monday: "MO", time.Tuesday: "TU", time.Wednesday: "WE",
	time.Thursday: "TH", time.Friday: "FR", time.Saturday: "SA",
}

// GenerateICS generates one calendar holding an all-day event per record.
// Records without a known start date are left out.
func GenerateICS(records []*production.Record) string {
	return generate(records, time.Now())
}

func generate(records []*production.Record, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:"+calName)

	for _, rec := range records {
		if rec.StartDate.IsZero() {
			continue
		}
		writeEvent(&ics, rec, now)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

// Exportable returns how many records GenerateICS will include
func Exportable(records []*production.Record) int {
	n := 0
	for _, rec := range records {
		if !rec.StartDate.IsZero() {
			n++
		}
	}
	return n
}

func writeEvent(ics *strings.Builder, rec *production.Record, now time.Time) {
	start, end := rec.StartDate, rec.EndDate
	if end.IsZero() {
		end = start
	}

	writeLine(ics, "BEGIN:VEVENT")

	// UID - stable across exports so calendar apps update instead of duplicating
	writeLine(ics, fmt.Sprintf("UID:%s@%s", rec.Key, uidDomain))
	writeLine(ics, "DTSTAMP:"+formatICSTime(now))

	// Weekly performances become a one-day event repeating on the named days.
	// Otherwise the event spans the whole run; DTEND is exclusive.
	if rule, first, ok := weeklyRule(rec.Weekdays(), start, end); ok {
		writeLine(ics, "DTSTART;VALUE=DATE:"+first.Time().Format(dateForm))
		writeLine(ics, "DTEND;VALUE=DATE:"+first.AddDays(1).Time().Format(dateForm))
		writeLine(ics, rule)
	} else {
		writeLine(ics, "DTSTART;VALUE=DATE:"+start.Time().Format(dateForm))
		writeLine(ics, "DTEND;VALUE=DATE:"+end.AddDays(1).Time().Format(dateForm))
	}

	writeLine(ics, "SUMMARY:"+escapeICS(rec.Title))

	if location := location(rec); location != "" {
		writeLine(ics, "LOCATION:"+escapeICS(location))
	}
	if description := description(rec); description != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(description))
	}
	if rec.URL != "" {
		writeLine(ics, "URL:"+rec.URL)
	}
	if rec.Category != "" {
		writeLine(ics, "CATEGORIES:"+escapeICS(rec.Category))
	}

	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
}

// weeklyRule builds the RRULE for performances on days between start and end.
// The first occurrence is moved to the first matching day, as DTSTART always
// counts as an occurrence. ok is false when no named day falls in the run.
func weeklyRule(days []time.Weekday, start, end production.Date) (string, production.Date, bool) {
	if len(days) == 0 || !end.After(start) {
		return "", production.Date{}, false
	}

	want := make(map[time.Weekday]bool, len(days))
	codes := make([]string, 0, len(days))
	for _, d := range days {
		want[d] = true
		codes = append(codes, byDay[d])
	}

	first := start
	for !want[first.Weekday()] {
		first = first.AddDays(1)
		if first.After(end) {
			return "", production.Date{}, false
		}
	}

	rule := fmt.Sprintf("RRULE:FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", strings.Join(codes, ","), end.Time().Format(dateForm))
	return rule, first, true
}

func location(rec *production.Record) string {
	parts := make([]string, 0, 2)
	if rec.VenueName != "" {
		parts = append(parts, rec.VenueName)
	}
	if rec.VenueAddress != "" {
		parts = append(parts, rec.VenueAddress)
	}
	return strings.Join(parts, ", ")
}

func description(rec *production.Record) string {
	var parts []string
	if rec.DaysOfWeek != "" {
		parts = append(parts, rec.DaysOfWeek)
	}
	synopsis := rec.SynopsisText
	if synopsis == "" {
		synopsis = rec.FeedDescription
	}
	if synopsis != "" {
		parts = append(parts, synopsis)
	}
	return strings.Join(parts, "\n\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine writes one content line, folded at 75 octets without splitting
// a UTF-8 sequence. Continuation lines start with a single space.
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1 // the leading space counts
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
