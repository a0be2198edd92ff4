// Package timeexpr resolves short natural-language time phrases into
// concrete instants. Resolution is pure: every function takes the
// reference time explicitly and computes in its location.
package timeexpr

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultHour is the hour used when a phrase names a day but no time
const DefaultHour = 9

// MaxOffset bounds "in <N> <unit>" phrases. Larger offsets are left
// unresolved.
const MaxOffset = 10 * 365 * day

const day = 24 * time.Hour

var (
	relativePattern = regexp.MustCompile(`(?i)\bin\s+(\d+)\s*(second|sec|minute|min|hour|hr|day)s?\b`)

	clockMeridiemPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clockColonPattern    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	clockAtPattern       = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)

	tomorrowPattern = regexp.MustCompile(`(?i)\btomorrow\b`)
	weekdayPattern  = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Resolve converts phrase into an instant relative to now. The second return
// value is false when no rule matches; that is not an error and callers apply
// their own fallback.
//
// Rules are tried in order and the first match wins:
//
//	in <N> seconds|minutes|hours|days   now + N units
//	<H>[:<M>] [am|pm]                   that time today, rolled to tomorrow when passed
//	tomorrow                            tomorrow at 09:00
//	<weekday>                           next such day strictly after today at 09:00
func Resolve(phrase string, now time.Time) (time.Time, bool) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return time.Time{}, false
	}

	if t, ok := resolveRelative(phrase, now); ok {
		return t, true
	}

	if hour, minute, ok := parseClock(phrase); ok {
		if day, named := namedDay(phrase, now); named {
			return atClock(day, hour, minute), true
		}
		t := atClock(now, hour, minute)
		if !t.After(now) {
			t = atClock(addDays(now, 1), hour, minute)
		}
		return t, true
	}

	if tomorrowPattern.MatchString(phrase) {
		return atClock(addDays(now, 1), DefaultHour, 0), true
	}

	if m := weekdayPattern.FindStringSubmatch(phrase); m != nil {
		return atClock(nextWeekday(now, weekdays[strings.ToLower(m[1])]), DefaultHour, 0), true
	}

	return time.Time{}, false
}

func resolveRelative(phrase string, now time.Time) (time.Time, bool) {
	m := relativePattern.FindStringSubmatch(phrase)
	if m == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	switch strings.ToLower(m[2]) {
	case "second", "sec":
		return addOffset(now, n, time.Second)
	case "minute", "min":
		return addOffset(now, n, time.Minute)
	case "hour", "hr":
		return addOffset(now, n, time.Hour)
	case "day":
		return addOffset(now, n, day)
	}
	return time.Time{}, false
}

// addOffset adds n units to now. Days are added on the calendar so a DST
// change keeps the wall clock time.
func addOffset(now time.Time, n int, unit time.Duration) (time.Time, bool) {
	if n < 0 || int64(n) > int64(MaxOffset/unit) {
		return time.Time{}, false
	}
	if unit == day {
		return now.AddDate(0, 0, n), true
	}
	return now.Add(time.Duration(n) * unit), true
}

// parseClock extracts an hour and minute. A bare number only counts as a
// clock time when written as H:MM, with am/pm, or after "at".
func parseClock(phrase string) (hour, minute int, ok bool) {
	if m := clockMeridiemPattern.FindStringSubmatch(phrase); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		if h >= 1 && h <= 12 && min < 60 {
			return to24(h, strings.ToLower(m[3])), min, true
		}
	}

	if m := clockColonPattern.FindStringSubmatch(phrase); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h < 24 && min < 60 {
			return h, min, true
		}
	}

	if m := clockAtPattern.FindStringSubmatch(phrase); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 24 {
			return h, 0, true
		}
	}

	return 0, 0, false
}

func to24(hour int, meridiem string) int {
	switch {
	case meridiem == "pm" && hour != 12:
		return hour + 12
	case meridiem == "am" && hour == 12:
		return 0
	}
	return hour
}

// namedDay returns the base day named by phrase (tomorrow or a weekday)
func namedDay(phrase string, now time.Time) (time.Time, bool) {
	if tomorrowPattern.MatchString(phrase) {
		return addDays(now, 1), true
	}
	if m := weekdayPattern.FindStringSubmatch(phrase); m != nil {
		return nextWeekday(now, weekdays[strings.ToLower(m[1])]), true
	}
	return time.Time{}, false
}

func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return addDays(now, days)
}

func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
