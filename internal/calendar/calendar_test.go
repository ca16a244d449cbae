package calendar

import (
	"testing"
	"time"
	_ "time/tzdata"
)

var eet = time.FixedZone("EET", 2*3600)

func TestCivilDateOf(t *testing.T) {
	// 2026-01-14 23:30 UTC is already 2026-01-15 in EET.
	instant := time.Date(2026, time.January, 14, 23, 30, 0, 0, time.UTC)
	d := CivilDateOf(instant, eet)
	if d.Year != 2026 || d.Month != time.January || d.Day != 15 {
		t.Fatalf("unexpected civil date: %+v", d)
	}
}

func TestAddDaysNormalizes(t *testing.T) {
	d := CivilDate{Year: 2026, Month: time.January, Day: 31}.AddDays(1)
	if d.Year != 2026 || d.Month != time.February || d.Day != 1 {
		t.Fatalf("expected 2026-02-01, got %+v", d)
	}
	d = CivilDate{Year: 2026, Month: time.January, Day: 1}.AddDays(-1)
	if d.Year != 2025 || d.Month != time.December || d.Day != 31 {
		t.Fatalf("expected 2025-12-31, got %+v", d)
	}
}

func TestWeekdayIndex(t *testing.T) {
	if got := (CivilDate{Year: 2026, Month: time.January, Day: 11}).WeekdayIndex(); got != 0 {
		t.Fatalf("expected Sunday index 0, got %d", got)
	}
	if got := (CivilDate{Year: 2026, Month: time.January, Day: 12}).WeekdayIndex(); got != 1 {
		t.Fatalf("expected Monday index 1, got %d", got)
	}
}

func TestCivilInstantRoundTrip(t *testing.T) {
	d := CivilDate{Year: 2026, Month: time.March, Day: 3}
	instant := CivilInstant(d, 15, 0, 0, eet)
	if !instant.Equal(time.Date(2026, time.March, 3, 13, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected instant: %v", instant)
	}
	if got := CivilDateOf(instant, eet); got != d {
		t.Fatalf("round trip changed date: %+v", got)
	}
}

func TestOffsetMinutesCairoWinter(t *testing.T) {
	cairo := loadCairo(t)
	instant := time.Date(2026, time.January, 14, 12, 0, 0, 0, time.UTC)
	if got := OffsetMinutes(instant, cairo); got != 120 {
		t.Fatalf("expected +120 minutes, got %d", got)
	}
}

func TestCivilInstantCairoSummer(t *testing.T) {
	cairo := loadCairo(t)
	// Cairo observes UTC+3 in July.
	d := CivilDate{Year: 2026, Month: time.July, Day: 15}
	instant := CivilInstant(d, 12, 0, 0, cairo)
	if want := time.Date(2026, time.July, 15, 9, 0, 0, 0, time.UTC); !instant.Equal(want) {
		t.Fatalf("summer noon: got %v, want %v", instant, want)
	}
	if got := OffsetMinutes(instant, cairo); got != 180 {
		t.Fatalf("expected +180 minutes in summer, got %d", got)
	}
}

func TestPeriodBoundariesAcrossDSTStart(t *testing.T) {
	cairo := loadCairo(t)
	// Cairo springs forward to UTC+3 on 2026-04-24. Sweep hourly across two
	// weeks straddling the change: the week must always contain now, except
	// for the Monday 06:00-12:00 gap between week close and week open.
	start := time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14*24; i++ {
		now := start.Add(time.Duration(i) * time.Hour)
		b := PeriodBoundaries(now, cairo)
		if now.Before(b.StartOfWeek) {
			t.Fatalf("start of week %v after now %v", b.StartOfWeek, now)
		}
		local := now.In(cairo)
		inGap := local.Weekday() == time.Monday &&
			local.Hour() >= BusinessDayEndHour && local.Hour() < BusinessDayStartHour
		if inGap {
			if now.Before(b.EndOfWeek) {
				t.Fatalf("now %v inside week despite the Monday gap (end %v)", now, b.EndOfWeek)
			}
		} else if !now.Before(b.EndOfWeek) {
			t.Fatalf("now %v not inside week ending %v", now, b.EndOfWeek)
		}
	}
}

func loadCairo(t *testing.T) *time.Location {
	t.Helper()
	cairo, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return cairo
}

func TestBusinessDayBeforeNoon(t *testing.T) {
	// 11:59 local still belongs to the previous trading day.
	now := time.Date(2026, time.January, 14, 9, 59, 0, 0, time.UTC) // 11:59 EET
	start, end := BusinessDayRange(now, eet)
	wantStart := time.Date(2026, time.January, 13, 10, 0, 0, 0, time.UTC) // 13th 12:00 EET
	wantEnd := time.Date(2026, time.January, 14, 4, 0, 0, 0, time.UTC)    // 14th 06:00 EET
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Fatalf("got [%v, %v], want [%v, %v]", start, end, wantStart, wantEnd)
	}
}

func TestBusinessDayAfterNoon(t *testing.T) {
	now := time.Date(2026, time.January, 14, 10, 1, 0, 0, time.UTC) // 12:01 EET
	start, end := BusinessDayRange(now, eet)
	wantStart := time.Date(2026, time.January, 14, 10, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, time.January, 15, 4, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Fatalf("got [%v, %v], want [%v, %v]", start, end, wantStart, wantEnd)
	}
}

func TestPeriodBoundariesMidweek(t *testing.T) {
	// Wednesday 2026-01-14 15:00 EET.
	now := time.Date(2026, time.January, 14, 13, 0, 0, 0, time.UTC)
	b := PeriodBoundaries(now, eet)

	if want := time.Date(2026, time.January, 12, 10, 0, 0, 0, time.UTC); !b.StartOfWeek.Equal(want) {
		t.Fatalf("start of week: got %v, want %v", b.StartOfWeek, want)
	}
	if want := time.Date(2026, time.January, 19, 4, 0, 0, 0, time.UTC); !b.EndOfWeek.Equal(want) {
		t.Fatalf("end of week: got %v, want %v", b.EndOfWeek, want)
	}
	if want := time.Date(2026, time.January, 13, 22, 0, 0, 0, time.UTC); !b.StartOfToday.Equal(want) {
		t.Fatalf("start of today: got %v, want %v", b.StartOfToday, want)
	}
	if want := time.Date(2025, time.December, 31, 22, 0, 0, 0, time.UTC); !b.StartOfMonth.Equal(want) {
		t.Fatalf("start of month: got %v, want %v", b.StartOfMonth, want)
	}
	if !b.StartOfYear.Equal(b.StartOfMonth) {
		t.Fatalf("start of year in January must equal start of month")
	}
	if b.StartOfWeek.After(now) {
		t.Fatalf("start of week must not be after now")
	}
	if !now.Before(b.EndOfWeek) {
		t.Fatalf("now must precede end of week")
	}
}

func TestPeriodBoundariesMondayBeforeNoon(t *testing.T) {
	// Monday 2026-01-12 09:00 EET: the current week is still the one that
	// started the previous Monday.
	now := time.Date(2026, time.January, 12, 7, 0, 0, 0, time.UTC)
	b := PeriodBoundaries(now, eet)
	if want := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC); !b.StartOfWeek.Equal(want) {
		t.Fatalf("start of week: got %v, want %v", b.StartOfWeek, want)
	}
	if want := time.Date(2026, time.January, 12, 4, 0, 0, 0, time.UTC); !b.EndOfWeek.Equal(want) {
		t.Fatalf("end of week: got %v, want %v", b.EndOfWeek, want)
	}
	if b.StartOfWeek.After(now) {
		t.Fatalf("start of week must not be after now")
	}
}
