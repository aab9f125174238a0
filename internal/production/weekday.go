package production

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var weekdayPattern = regexp.MustCompile(`(?i)\b(sun(?:day)?|mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:r(?:s(?:day)?)?)?|fri(?:day)?|sat(?:urday)?)s?\b\.?`)

var weekdayByPrefix = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// WeekdayPhrase returns the part of text spanning the first through the last
// weekday name, e.g. "Thursdays and Fridays" out of
// "Thursdays and Fridays at 7:30pm". Returns "" if text names no weekday.
func WeekdayPhrase(text string) string {
	locs := weekdayPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return ""
	}
	return strings.TrimSpace(text[locs[0][0]:locs[len(locs)-1][1]])
}

// ParseWeekdays returns the weekdays named in a phrase such as
// "Fridays-Saturdays", "Thu - Sun" or "Thursdays and Saturdays".
// A dash, "to" or "through" between two names is an inclusive range.
// The result is ordered Sunday first and has no duplicates.
func ParseWeekdays(phrase string) []time.Weekday {
	matches := weekdayPattern.FindAllStringSubmatchIndex(phrase, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[time.Weekday]bool)
	var prev time.Weekday
	for i, m := range matches {
		day := weekdayByPrefix[strings.ToLower(phrase[m[2]:m[2]+3])]
		if i > 0 && isRangeSeparator(phrase[matches[i-1][1]:m[0]]) {
			for d := prev; d != day; d = (d + 1) % 7 {
				seen[d] = true
			}
		}
		seen[day] = true
		prev = day
	}

	days := make([]time.Weekday, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

func isRangeSeparator(between string) bool {
	switch strings.ToLower(strings.TrimSpace(between)) {
	case "-", "–", "—", "to", "through", "thru":
		return true
	}
	return false
}
