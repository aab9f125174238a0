package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gordoncheme/ctx-theatre-browser/internal/htmltext"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

// DateRange is the result of parsing a production's date heading
type DateRange struct {
	Text       string // heading text, or the fallback match when the heading is empty
	Start      production.Date
	End        production.Date
	DaysOfWeek string
}

const monthPattern = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

// Matches "Jan. 16 - Jan. 24, 2026", "January 5 – 20, 2024", "Dec 30, 2024 to Jan 3, 2025",
// "March 7th" and similar. Four-digit or 'YY years may follow a day directly;
// a bare two-digit year needs a comma ("Jan 16, 26").
var dateRangePattern = regexp.MustCompile(`(?i)\b` +
	`(?P<sm>` + monthPattern + `)\.?\s+(?P<sd>\d{1,2})(?:st|nd|rd|th)?\b` +
	`(?:,?\s*(?P<sy>\d{4}|'\d{2})\b|,\s*(?P<sy2>\d{2})\b)?` +
	`(?:\s*(?:-|–|—|\bto\b|\bthrough\b|\bthru\b)\s*` +
	`(?:(?P<em>` + monthPattern + `)\.?\s+)?(?P<ed>\d{1,2})(?:st|nd|rd|th)?\b` +
	`(?:,?\s*(?P<ey>\d{4}|'\d{2})\b|,\s*(?P<ey2>\d{2})\b)?)?`)

// A day list after a start date: "Oct. 3, 10 & 17, 2026", "Mar 1 and 15".
var dayListPattern = regexp.MustCompile(`(?i)^(?:\s*(?:,|&|\band\b)\s*\d{1,2}(?:st|nd|rd|th)?\b)+(?:,?\s*(\d{4}|'\d{2})\b)?`)

// What may follow a day in a list. A bare two-digit "year" followed by one
// of these is another day.
var listContinuation = regexp.MustCompile(`(?i)^\s*(?:,|&|\band\b)?\s*(?:\d{4}|'\d{2}|\d{1,2}(?:st|nd|rd|th)?)\b`)

var dayNumber = regexp.MustCompile(`\d+`)

var monthByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDateRange extracts start/end dates and the weekday phrase from a date
// heading such as "Jan. 16 - Jan. 24, 2026 Fridays-Saturdays".
//
// When the heading carries no year, or its dates are impossible, the first
// date range with a year found in pageText is used instead. If nothing
// matches the dates stay zero; this is a partial result, not an error.
func ParseDateRange(heading, pageText string) DateRange {
	heading = htmltext.Collapse(heading)
	result := DateRange{Text: heading}

	m, found := firstMatch(heading)
	if found {
		if start, end, err := m.resolve(); err == nil {
			result.Start, result.End = start, end
		}
		result.DaysOfWeek = production.WeekdayPhrase(heading[m.end:])
		if result.DaysOfWeek == "" {
			result.DaysOfWeek = production.WeekdayPhrase(heading[:m.start])
		}
	} else {
		result.DaysOfWeek = production.WeekdayPhrase(heading)
	}

	if result.Start.IsZero() {
		if fm, ok := firstDatedMatch(pageText); ok {
			result.Start, result.End, _ = fm.resolve()
			if result.Text == "" {
				result.Text = fm.text
			}
		}
	}

	return result
}

type dateMatch struct {
	text       string
	start, end int // byte offsets of the match

	startMonth, endMonth time.Month
	startDay, endDay     int
	startYear, endYear   int // 0 when absent
	hasEnd               bool
}

func (m dateMatch) hasYear() bool {
	return m.startYear != 0 || m.endYear != 0
}

// resolve turns the match into calendar dates. A year given on one side
// applies to the other; a range whose end month is earlier than its start
// month crosses into the next year.
func (m dateMatch) resolve() (production.Date, production.Date, error) {
	if !m.hasYear() {
		return production.Date{}, production.Date{}, fmt.Errorf("no year in %q", m.text)
	}

	endMonth, endDay := m.endMonth, m.endDay
	if !m.hasEnd {
		endMonth, endDay = m.startMonth, m.startDay
	}

	startYear, endYear := m.startYear, m.endYear
	switch {
	case startYear == 0:
		startYear = endYear
		if endMonth < m.startMonth {
			startYear--
		}
	case endYear == 0:
		endYear = startYear
		if endMonth < m.startMonth {
			endYear++
		}
	}

	start, err := production.NewDate(startYear, m.startMonth, m.startDay)
	if err != nil {
		return production.Date{}, production.Date{}, err
	}
	end, err := production.NewDate(endYear, endMonth, endDay)
	if err != nil {
		return production.Date{}, production.Date{}, err
	}
	if end.Before(start) {
		return production.Date{}, production.Date{}, fmt.Errorf("range %q ends before it starts", m.text)
	}
	return start, end, nil
}

func firstMatch(text string) (dateMatch, bool) {
	loc := dateRangePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return dateMatch{}, false
	}
	return newDateMatch(text, loc), true
}

// firstDatedMatch returns the first match in text that has a year and
// resolves to a valid range.
func firstDatedMatch(text string) (dateMatch, bool) {
	for _, loc := range dateRangePattern.FindAllStringSubmatchIndex(text, -1) {
		m := newDateMatch(text, loc)
		if _, _, err := m.resolve(); err == nil {
			return m, true
		}
	}
	return dateMatch{}, false
}

func newDateMatch(text string, loc []int) dateMatch {
	group := func(name string) string {
		i := dateRangePattern.SubexpIndex(name)
		if loc[2*i] < 0 {
			return ""
		}
		return text[loc[2*i]:loc[2*i+1]]
	}
	// A "year" directly followed by ':' is a show time ("Jan 16, 10:30pm").
	// A bare two-digit one followed by more days is a day ("Oct 3, 10 & 17").
	year := func(names ...string) int {
		for _, name := range names {
			i := dateRangePattern.SubexpIndex(name)
			if loc[2*i] < 0 {
				continue
			}
			end := loc[2*i+1]
			if end < len(text) && text[end] == ':' {
				return 0
			}
			if strings.HasSuffix(name, "2") && continuesList(text[end:]) {
				return 0
			}
			return parseYear(text[loc[2*i]:end])
		}
		return 0
	}

	m := dateMatch{
		text:       text[loc[0]:loc[1]],
		start:      loc[0],
		end:        loc[1],
		startMonth: parseMonth(group("sm")),
		startDay:   atoi(group("sd")),
		startYear:  year("sy", "sy2"),
	}
	m.endMonth = m.startMonth
	if ed := group("ed"); ed != "" {
		m.hasEnd = true
		m.endDay = atoi(ed)
		if em := group("em"); em != "" {
			m.endMonth = parseMonth(em)
		}
		m.endYear = year("ey", "ey2")
	}
	if !m.hasEnd && m.startYear == 0 {
		m.extendDayList(text, loc[2*dateRangePattern.SubexpIndex("sd")+1])
	}
	return m
}

// extendDayList reads a list of further days in the start month following
// the start day at offset from, making the last listed day the end date.
func (m *dateMatch) extendDayList(text string, from int) {
	loc := dayListPattern.FindStringSubmatchIndex(text[from:])
	if loc == nil {
		return
	}
	if end := from + loc[1]; loc[2] < 0 && end < len(text) && text[end] == ':' {
		return
	}
	days, year := text[from:from+loc[1]], 0
	if loc[2] >= 0 {
		days = text[from : from+loc[2]]
		year = parseYear(text[from+loc[2] : from+loc[3]])
	}
	numbers := dayNumber.FindAllString(days, -1)
	if len(numbers) == 0 {
		return
	}

	m.hasEnd = true
	m.endYear = year
	m.endMonth = m.startMonth
	m.endDay = atoi(numbers[len(numbers)-1])
	m.end = from + loc[1]
	m.text = text[m.start:m.end]
}

// continuesList reports whether rest starts with another day or a year
func continuesList(rest string) bool {
	loc := listContinuation.FindStringIndex(rest)
	if loc == nil {
		return false
	}
	return loc[1] >= len(rest) || rest[loc[1]] != ':'
}

func parseMonth(s string) time.Month {
	if len(s) < 3 {
		return 0
	}
	return monthByPrefix[strings.ToLower(s[:3])]
}

// parseYear handles "2026", "'26" and "26". Two-digit years are 20YY.
func parseYear(s string) int {
	s = strings.TrimPrefix(s, "'")
	year := atoi(s)
	if len(s) == 2 {
		year += 2000
	}
	return year
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
