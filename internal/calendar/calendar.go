// Package calendar resolves wall-clock business periods in a fixed shop
// timezone. All arithmetic is done on civil dates so the boundaries stay
// correct across DST transitions of the shop timezone.
package calendar

import "time"

// BusinessDayStartHour and BusinessDayEndHour bound a trading day: the day
// opens at noon and closes at 06:00 the following civil day.
const (
	BusinessDayStartHour = 12
	BusinessDayEndHour   = 6
)

// CivilDate is a timezone-free calendar date.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// CivilDateOf returns the calendar date of t as observed in loc.
func CivilDateOf(t time.Time, loc *time.Location) CivilDate {
	y, m, d := t.In(loc).Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// AddDays returns the date n calendar days after d (n may be negative).
// Normalization of month and year overflow is delegated to time.Date.
func (d CivilDate) AddDays(n int) CivilDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	y, m, day := t.Date()
	return CivilDate{Year: y, Month: m, Day: day}
}

// WeekdayIndex returns the weekday of d with Sunday as 0 and Saturday as 6.
func (d CivilDate) WeekdayIndex() int {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return int(t.Weekday())
}

// OffsetMinutes reports the UTC offset, in minutes, that loc observes at
// instant t.
func OffsetMinutes(t time.Time, loc *time.Location) int {
	_, off := t.In(loc).Zone()
	return off / 60
}

// CivilInstant maps a wall-clock time in loc to the instant it denotes.
// The candidate instant is built as if the wall clock were UTC, then shifted
// by the offset loc observes at that candidate instant. For the rare wall
// times skipped or repeated by a DST jump this resolves to a single nearby
// instant rather than failing.
func CivilInstant(d CivilDate, hour, minute, sec int, loc *time.Location) time.Time {
	cand := time.Date(d.Year, d.Month, d.Day, hour, minute, sec, 0, time.UTC)
	_, off := cand.In(loc).Zone()
	return cand.Add(-time.Duration(off) * time.Second)
}

// BusinessDayOf returns the civil date of the trading day that instant t
// belongs to. Sales before noon are counted against the previous trading
// day, which is still open until 06:00.
func BusinessDayOf(t time.Time, loc *time.Location) CivilDate {
	local := t.In(loc)
	d := CivilDateOf(t, loc)
	if local.Hour() < BusinessDayStartHour {
		return d.AddDays(-1)
	}
	return d
}

// BusinessDayRange returns the [start, end] instants of the trading day that
// now falls in: noon on the trading date through 06:00 the next civil day.
func BusinessDayRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	bd := BusinessDayOf(now, loc)
	start := CivilInstant(bd, BusinessDayStartHour, 0, 0, loc)
	end := CivilInstant(bd.AddDays(1), BusinessDayEndHour, 0, 0, loc)
	return start, end
}

// Boundaries carries every period start the aggregator needs, resolved for a
// single reference instant.
type Boundaries struct {
	// StartOfToday is midnight of the civil date, used by the admin
	// per-cashier view which counts a plain calendar day.
	StartOfToday time.Time

	BusinessDayStart time.Time
	BusinessDayEnd   time.Time

	// StartOfWeek is Monday noon; EndOfWeek is the following Monday 06:00.
	StartOfWeek time.Time
	EndOfWeek   time.Time

	StartOfMonth time.Time
	StartOfYear  time.Time
}

// PeriodBoundaries resolves all reporting period boundaries for now in loc.
func PeriodBoundaries(now time.Time, loc *time.Location) Boundaries {
	today := CivilDateOf(now, loc)

	daysSinceMonday := (today.WeekdayIndex() + 6) % 7
	weekStartDate := today.AddDays(-daysSinceMonday)
	startOfWeek := CivilInstant(weekStartDate, BusinessDayStartHour, 0, 0, loc)
	if now.Before(startOfWeek) {
		// Monday before noon still belongs to the previous week.
		weekStartDate = weekStartDate.AddDays(-7)
		startOfWeek = CivilInstant(weekStartDate, BusinessDayStartHour, 0, 0, loc)
	}
	endOfWeek := CivilInstant(weekStartDate.AddDays(7), BusinessDayEndHour, 0, 0, loc)

	bdStart, bdEnd := BusinessDayRange(now, loc)

	return Boundaries{
		StartOfToday:     CivilInstant(today, 0, 0, 0, loc),
		BusinessDayStart: bdStart,
		BusinessDayEnd:   bdEnd,
		StartOfWeek:      startOfWeek,
		EndOfWeek:        endOfWeek,
		StartOfMonth:     CivilInstant(CivilDate{Year: today.Year, Month: today.Month, Day: 1}, 0, 0, 0, loc),
		StartOfYear:      CivilInstant(CivilDate{Year: today.Year, Month: time.January, Day: 1}, 0, 0, 0, loc),
	}
}
