// Package ordering decides which calendar dates accept new orders or
// cancellations and plans the creates and deletes needed to move a month
// of orders towards a set of selections. Every function takes the current
// instant explicitly and none of them touch storage.
package ordering

import (
	"fmt"
	"time"

	"github.com/chrisdamba/webdiner/internal/models"
)

const (
	DefaultCutoffHour = 9
	DefaultTimezone   = "Asia/Taipei"
)

// Policy evaluates the daily ordering cutoff in a single reference
// location.
type Policy struct {
	loc        *time.Location
	cutoffHour int
}

// NewPolicy returns a policy closing each day at cutoffHour:00 in loc.
// A nil loc means UTC.
func NewPolicy(loc *time.Location, cutoffHour int) Policy {
	if loc == nil {
		loc = time.UTC
	}
	return Policy{loc: loc, cutoffHour: cutoffHour}
}

// LoadPolicy resolves an IANA zone name.
func LoadPolicy(timezone string, cutoffHour int) (Policy, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Policy{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if cutoffHour < 0 || cutoffHour > 23 {
		return Policy{}, fmt.Errorf("cutoff hour %d out of range", cutoffHour)
	}
	return NewPolicy(loc, cutoffHour), nil
}

func (p Policy) Location() *time.Location {
	if p.loc == nil {
		return time.UTC
	}
	return p.loc
}

func (p Policy) CutoffHour() int { return p.cutoffHour }

// Today is the calendar date of now in the reference location.
func (p Policy) Today(now time.Time) models.Date {
	return models.DateOf(now.In(p.Location()))
}

// IsPast reports whether date can no longer be ordered or cancelled.
// Earlier dates are always past; today becomes past at the cutoff hour,
// inclusive.
func (p Policy) IsPast(date models.Date, now time.Time) bool {
	local := now.In(p.Location())
	today := models.DateOf(local)
	if date.Before(today) {
		return true
	}
	if date == today {
		return local.Hour() >= p.cutoffHour
	}
	return false
}

// CanCancel has no grace window beyond the ordering cutoff.
func (p Policy) CanCancel(orderDate models.Date, now time.Time) bool {
	return !p.IsPast(orderDate, now)
}

// Cutoff is the instant date stops accepting changes.
func (p Policy) Cutoff(date models.Date) time.Time {
	return time.Date(date.Year, date.Month, date.Day, p.cutoffHour, 0, 0, 0, p.Location())
}

// MinOrderDate is the earliest date still open at now.
func (p Policy) MinOrderDate(now time.Time) models.Date {
	today := p.Today(now)
	if p.IsPast(today, now) {
		return today.AddDays(1)
	}
	return today
}

type DayStatus string

const (
	DayOpen    DayStatus = "open"
	DayPast    DayStatus = "past"
	DayHoliday DayStatus = "holiday"
)

// Status classifies date for calendar views. Holidays are reported as such
// even once they are past.
func (p Policy) Status(date models.Date, now time.Time, cal Calendar) DayStatus {
	switch {
	case cal.IsHoliday(date):
		return DayHoliday
	case p.IsPast(date, now):
		return DayPast
	default:
		return DayOpen
	}
}
