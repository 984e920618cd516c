package market

import (
	"time"
	_ "time/tzdata"
)

var newYork = mustLoadLocation("America/New_York")

// NewYork returns the America/New_York location. Forex and CFD order
// cutoffs are anchored to it regardless of the instrument's own calendar.
func NewYork() *time.Location {
	return newYork
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civilDateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

// Session is a single trading session expressed as offsets from local midnight.
type Session struct {
	Open  time.Duration
	Close time.Duration
}

func (s Session) valid() bool {
	return s.Close > s.Open
}

// Exchange describes when an instrument's venue trades: one session per
// weekday plus a holiday set. It is built once and read-only afterwards.
type Exchange struct {
	loc      *time.Location
	sessions [7]Session
	holidays map[civilDate]struct{}
}

// NewExchange creates an exchange trading the given session on the given
// weekdays in the given location.
func NewExchange(loc *time.Location, open, close time.Duration, days ...time.Weekday) *Exchange {
	e := &Exchange{
		loc:      loc,
		holidays: make(map[civilDate]struct{}),
	}
	for _, d := range days {
		e.sessions[d] = Session{Open: open, Close: close}
	}
	return e
}

// NewYorkEquity returns the regular US equity session, 09:30-16:00 Mon-Fri.
func NewYorkEquity() *Exchange {
	return NewExchange(newYork,
		9*time.Hour+30*time.Minute, 16*time.Hour,
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// FxWeek returns a weekday-round-the-clock session in New York time.
func FxWeek() *Exchange {
	return NewExchange(newYork,
		0, 24*time.Hour,
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// TwentyFourSeven returns an always-open UTC session.
func TwentyFourSeven() *Exchange {
	return NewExchange(time.UTC,
		0, 24*time.Hour,
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)
}

// Location returns the exchange time zone.
func (e *Exchange) Location() *time.Location {
	return e.loc
}

// AddHolidays marks full-day closures. Only the date part is used.
func (e *Exchange) AddHolidays(dates ...time.Time) *Exchange {
	for _, d := range dates {
		e.holidays[civilDateOf(d.In(e.loc))] = struct{}{}
	}
	return e
}

// IsDateOpen reports whether the exchange trades at all on t's local date.
func (e *Exchange) IsDateOpen(t time.Time) bool {
	local := t.In(e.loc)
	if !e.sessions[local.Weekday()].valid() {
		return false
	}
	_, holiday := e.holidays[civilDateOf(local)]
	return !holiday
}

// IsOpen reports whether the exchange is open at instant t.
func (e *Exchange) IsOpen(t time.Time) bool {
	local := t.In(e.loc)
	if !e.IsDateOpen(local) {
		return false
	}
	sess := e.sessions[local.Weekday()]
	open := e.at(local, sess.Open)
	close := e.at(local, sess.Close)
	return !local.Before(open) && local.Before(close)
}

// NextMarketClose returns the first session close at or after from,
// skipping holidays and closed weekdays. If no session exists within a
// year the input is returned unchanged.
func (e *Exchange) NextMarketClose(from time.Time) time.Time {
	local := from.In(e.loc)
	day := local
	for i := 0; i < 366; i++ {
		if e.IsDateOpen(day) {
			close := e.at(day, e.sessions[day.Weekday()].Close)
			if !close.Before(local) {
				return close
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return from
}

// at resolves an offset-from-midnight on day's date, DST-correct.
func (e *Exchange) at(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.In(e.loc).Date()
	h := offset / time.Hour
	min := (offset % time.Hour) / time.Minute
	sec := (offset % time.Minute) / time.Second
	return time.Date(y, m, d, int(h), int(min), int(sec), 0, e.loc)
}
