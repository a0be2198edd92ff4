package timeexpr

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EndOfDayHour is the hour end-of-day style deadlines resolve to
const EndOfDayHour = 18

var (
	byTodayPattern     = regexp.MustCompile(`(?i)\bby\s+(today|tonight)\b`)
	byTomorrowPattern  = regexp.MustCompile(`(?i)\bby\s+tomorrow\b`)
	byEndOfDayPattern  = regexp.MustCompile(`(?i)\bby\s+(end\s+of\s+(the\s+)?day|eod)\b`)
	byEndOfWeekPattern = regexp.MustCompile(`(?i)\bby\s+(end\s+of\s+(the\s+)?week|eow)\b`)
	inHoursPattern     = regexp.MustCompile(`(?i)\bin\s+(\d+)\s*hours?\b`)
	inDaysPattern      = regexp.MustCompile(`(?i)\bin\s+(\d+)\s*days?\b`)
	hourMeridiemPat    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
)

// ResolveDeadline finds a deadline inside a conversational message such as
// "send the invites by tomorrow". It recognizes a smaller vocabulary than
// Resolve, with end-of-day phrases mapping to 18:00.
func ResolveDeadline(text string, now time.Time) (time.Time, bool) {
	switch {
	case byTodayPattern.MatchString(text):
		return atClock(now, EndOfDayHour, 0), true

	case byTomorrowPattern.MatchString(text):
		return atClock(addDays(now, 1), EndOfDayHour, 0), true

	case byEndOfDayPattern.MatchString(text):
		return atClock(now, EndOfDayHour, 0), true

	case byEndOfWeekPattern.MatchString(text):
		return endOfWeek(now), true
	}

	if m := inHoursPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return addOffset(now, n, time.Hour)
		}
	}

	if m := inDaysPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return addOffset(now, n, day)
		}
	}

	if m := hourMeridiemPat.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h >= 1 && h <= 12 {
			t := atClock(now, to24(h, strings.ToLower(m[2])), 0)
			if !t.After(now) {
				t = addDays(t, 1)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// endOfWeek is the upcoming Friday at 18:00, today when it is Friday and
// 18:00 has not passed
func endOfWeek(now time.Time) time.Time {
	days := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	t := atClock(addDays(now, days), EndOfDayHour, 0)
	if !t.After(now) {
		t = addDays(t, 7)
	}
	return t
}

// Fallback is the default trigger time for actions that need one but named
// none: before CutoffHour it is today at TodayHour, otherwise tomorrow at
// TomorrowHour.
type Fallback struct {
	CutoffHour   int
	TodayHour    int
	TomorrowHour int
}

// DefaultFallback is a 17:00 cutoff with today 18:00 / tomorrow 09:00
var DefaultFallback = Fallback{
	CutoffHour:   17,
	TodayHour:    18,
	TomorrowHour: 9,
}

func (f Fallback) Apply(now time.Time) time.Time {
	if now.Hour() < f.CutoffHour {
		return atClock(now, f.TodayHour, 0)
	}
	return atClock(addDays(now, 1), f.TomorrowHour, 0)
}
