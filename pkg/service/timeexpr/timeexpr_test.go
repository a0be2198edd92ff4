package timeexpr_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/service/timeexpr"
	"github.com/m-mizutani/gt"
)

// Wednesday 2026-10-14 10:00 UTC
var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
}

func TestResolveRelative(t *testing.T) {
	units := []struct {
		word string
		unit time.Duration
	}{
		{"second", time.Second},
		{"minute", time.Minute},
		{"hour", time.Hour},
		{"day", 24 * time.Hour},
	}

	for _, u := range units {
		for _, n := range []int{0, 1, 5, 100} {
			phrase := fmt.Sprintf("in %d %ss", n, u.word)
			t.Run(phrase, func(t *testing.T) {
				got, ok := timeexpr.Resolve(phrase, now)
				gt.Bool(t, ok).True()
				gt.Value(t, got).Equal(now.Add(time.Duration(n) * u.unit))
			})
		}
	}

	t.Run("singular unit", func(t *testing.T) {
		got, ok := timeexpr.Resolve("in 1 hour", now)
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(now.Add(time.Hour))
	})

	t.Run("relative wins over clock", func(t *testing.T) {
		got, ok := timeexpr.Resolve("in 2 hours at 3pm", now)
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(now.Add(2 * time.Hour))
	})
}

func TestResolveRelativeBounds(t *testing.T) {
	t.Run("largest offset resolves", func(t *testing.T) {
		got, ok := timeexpr.Resolve("in 3650 days", now)
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(now.AddDate(0, 0, 3650))
	})

	for _, phrase := range []string{
		"in 9999999999 hours",
		"in 87601 hours",
		"in 3651 days",
		"in 99999999999999999999 seconds",
	} {
		t.Run(phrase, func(t *testing.T) {
			_, ok := timeexpr.Resolve(phrase, now)
			gt.Bool(t, ok).False()
		})
	}

	t.Run("deadline with huge offset is unresolved", func(t *testing.T) {
		_, ok := timeexpr.ResolveDeadline("call back in 9999999999 hours", now)
		gt.Bool(t, ok).False()

		_, ok = timeexpr.ResolveDeadline("send it in 9999999999 days", now)
		gt.Bool(t, ok).False()
	})
}

func TestResolveClock(t *testing.T) {
	testCases := []struct {
		phrase string
		want   time.Time
	}{
		{"3pm", at(14, 15, 0)},
		{"3 PM", at(14, 15, 0)},
		{"at 3:45pm", at(14, 15, 45)},
		{"12pm", at(14, 12, 0)},
		{"15:30", at(14, 15, 30)},
		{"at 16", at(14, 16, 0)},
		// already passed today
		{"9am", at(15, 9, 0)},
		{"12am", at(15, 0, 0)},
		{"10:00", at(15, 10, 0)},
		{"08:15", at(15, 8, 15)},
		// day named alongside the clock
		{"tomorrow at 3pm", at(15, 15, 0)},
		{"tomorrow 9am", at(15, 9, 0)},
		{"friday at 11:30", at(16, 11, 30)},
	}

	for _, tc := range testCases {
		t.Run(tc.phrase, func(t *testing.T) {
			got, ok := timeexpr.Resolve(tc.phrase, now)
			gt.Bool(t, ok).True()
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestResolveTwelveHourEdges(t *testing.T) {
	midnight := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC).Add(-time.Minute)

	noon, ok := timeexpr.Resolve("12pm", midnight)
	gt.Bool(t, ok).True()
	gt.Number(t, noon.Hour()).Equal(12)

	zero, ok := timeexpr.Resolve("12am", midnight)
	gt.Bool(t, ok).True()
	gt.Number(t, zero.Hour()).Equal(0)
	gt.Value(t, zero).Equal(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))
}

func TestResolvePassedTimeNeverInPast(t *testing.T) {
	for h := 0; h < 24; h++ {
		phrase := fmt.Sprintf("%02d:00", h)
		t.Run(phrase, func(t *testing.T) {
			got, ok := timeexpr.Resolve(phrase, now)
			gt.Bool(t, ok).True()
			gt.Bool(t, got.After(now)).True()
			gt.Number(t, got.Hour()).Equal(h)
			gt.Bool(t, got.Sub(now) <= 24*time.Hour).True()
		})
	}
}

func TestResolveDays(t *testing.T) {
	testCases := []struct {
		phrase string
		want   time.Time
	}{
		{"tomorrow", at(15, 9, 0)},
		{"Tomorrow morning", at(15, 9, 0)},
		{"friday", at(16, 9, 0)},
		{"next Friday", at(16, 9, 0)},
		{"by MONDAY", at(19, 9, 0)},
		// today is Wednesday so the next one is a week away
		{"wednesday", at(21, 9, 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.phrase, func(t *testing.T) {
			got, ok := timeexpr.Resolve(tc.phrase, now)
			gt.Bool(t, ok).True()
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestResolveUnresolved(t *testing.T) {
	for _, phrase := range []string{"", "soon", "later today", "someday", "around 5", "in a while"} {
		t.Run(phrase, func(t *testing.T) {
			_, ok := timeexpr.Resolve(phrase, now)
			gt.Bool(t, ok).False()
		})
	}
}

func TestResolveKeepsLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	local := time.Date(2026, 10, 14, 20, 0, 0, 0, loc)

	got, ok := timeexpr.Resolve("tomorrow", local)
	gt.Bool(t, ok).True()
	gt.Value(t, got).Equal(time.Date(2026, 10, 15, 9, 0, 0, 0, loc))
}

func TestResolveDeadline(t *testing.T) {
	testCases := []struct {
		text string
		now  time.Time
		want time.Time
		ok   bool
	}{
		{"send the invites by tomorrow", now, at(15, 18, 0), true},
		{"finish the deck by today", now, at(14, 18, 0), true},
		{"book it by tonight", now, at(14, 18, 0), true},
		{"review by end of day", now, at(14, 18, 0), true},
		{"review by EOD", now, at(14, 18, 0), true},
		{"ship it by end of the week", now, at(16, 18, 0), true},
		{"ship it by eow", at(16, 19, 0), at(23, 18, 0), true},
		{"ship it by eow", at(16, 12, 0), at(16, 18, 0), true},
		{"call back in 3 hours", now, now.Add(3 * time.Hour), true},
		{"send it in 2 days", now, now.AddDate(0, 0, 2), true},
		{"sync at 4pm", now, at(14, 16, 0), true},
		{"sync at 8am", now, at(15, 8, 0), true},
		{"sync at 12pm", now, at(14, 12, 0), true},
		{"just do it", now, time.Time{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := timeexpr.ResolveDeadline(tc.text, tc.now)
			if !tc.ok {
				gt.Bool(t, ok).False()
				return
			}
			gt.Bool(t, ok).True()
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestFallback(t *testing.T) {
	t.Run("before cutoff is today 18:00", func(t *testing.T) {
		got := timeexpr.DefaultFallback.Apply(at(14, 16, 59))
		gt.Value(t, got).Equal(at(14, 18, 0))
	})

	t.Run("at cutoff is tomorrow 09:00", func(t *testing.T) {
		got := timeexpr.DefaultFallback.Apply(at(14, 17, 0))
		gt.Value(t, got).Equal(at(15, 9, 0))
	})

	t.Run("custom policy", func(t *testing.T) {
		f := timeexpr.Fallback{CutoffHour: 12, TodayHour: 13, TomorrowHour: 8}
		gt.Value(t, f.Apply(at(14, 11, 0))).Equal(at(14, 13, 0))
		gt.Value(t, f.Apply(at(14, 12, 0))).Equal(at(15, 8, 0))
	})
}
