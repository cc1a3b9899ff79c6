package ordering

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/webdiner/internal/models"
)

var taipei = time.FixedZone("CST", 8*60*60)

func testPolicy() Policy { return NewPolicy(taipei, DefaultCutoffHour) }

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, taipei)
}

func date(y int, m time.Month, d int) models.Date { return models.Date{Year: y, Month: m, Day: d} }

func TestIsPast(t *testing.T) {
	t.Parallel()
	p := testPolicy()

	tests := []struct {
		name string
		date models.Date
		now  time.Time
		want bool
	}{
		{"yesterday at midnight", date(2024, 6, 9), at(2024, 6, 10, 0, 0, 0), true},
		{"last year", date(2023, 12, 31), at(2024, 6, 10, 0, 0, 0), true},
		{"today before cutoff", date(2024, 6, 10), at(2024, 6, 10, 8, 59, 59), false},
		{"today at cutoff", date(2024, 6, 10), at(2024, 6, 10, 9, 0, 0), true},
		{"today after cutoff", date(2024, 6, 10), at(2024, 6, 10, 17, 30, 0), true},
		{"tomorrow late at night", date(2024, 6, 11), at(2024, 6, 10, 23, 59, 0), false},
		{"far future", date(2025, 1, 1), at(2024, 6, 10, 12, 0, 0), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.IsPast(tt.date, tt.now))
			assert.Equal(t, !tt.want, p.CanCancel(tt.date, tt.now))
		})
	}
}

func TestIsPastUsesReferenceZone(t *testing.T) {
	t.Parallel()
	p := testPolicy()

	// 00:30 UTC is 08:30 in the reference zone, still open.
	assert.False(t, p.IsPast(date(2024, 6, 10), time.Date(2024, 6, 10, 0, 30, 0, 0, time.UTC)))
	// 01:00 UTC is 09:00 in the reference zone.
	assert.True(t, p.IsPast(date(2024, 6, 10), time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)))
	// 20:00 UTC on the 9th is already the 10th at 04:00 locally, so the 9th is gone.
	assert.True(t, p.IsPast(date(2024, 6, 9), time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC)))
}

func TestLoadPolicy(t *testing.T) {
	t.Parallel()

	p, err := LoadPolicy(DefaultTimezone, DefaultCutoffHour)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Taipei", p.Location().String())
	assert.Equal(t, 9, p.CutoffHour())

	_, err = LoadPolicy("Mars/Olympus", 9)
	require.Error(t, err)

	_, err = LoadPolicy(DefaultTimezone, 24)
	require.Error(t, err)
}

func TestMinOrderDateAndCutoff(t *testing.T) {
	t.Parallel()
	p := testPolicy()

	assert.Equal(t, date(2024, 6, 10), p.MinOrderDate(at(2024, 6, 10, 8, 0, 0)))
	assert.Equal(t, date(2024, 6, 11), p.MinOrderDate(at(2024, 6, 10, 9, 0, 0)))
	assert.True(t, p.Cutoff(date(2024, 6, 10)).Equal(at(2024, 6, 10, 9, 0, 0)))
}

func TestCutoffOnDaylightSavingChange(t *testing.T) {
	t.Parallel()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	p := NewPolicy(ny, DefaultCutoffHour)

	// Clocks jump from 02:00 to 03:00 on this day.
	d := date(2024, 3, 10)
	cutoff := p.Cutoff(d)
	assert.Equal(t, 9, cutoff.In(ny).Hour())
	assert.True(t, p.IsPast(d, cutoff))
	assert.False(t, p.IsPast(d, cutoff.Add(-time.Second)))
}

func TestCalendarIsHoliday(t *testing.T) {
	t.Parallel()

	cal := NewCalendar([]models.SpecialDay{
		{Date: date(2024, 6, 15), IsHoliday: false, Description: "make-up workday"},
		{Date: date(2024, 6, 10), IsHoliday: true, Description: "Dragon Boat Festival"},
	})

	assert.False(t, cal.IsHoliday(date(2024, 6, 15)), "overridden Saturday is a workday")
	assert.True(t, cal.IsHoliday(date(2024, 6, 16)), "plain Sunday")
	assert.True(t, cal.IsHoliday(date(2024, 6, 22)), "plain Saturday")
	assert.True(t, cal.IsHoliday(date(2024, 6, 10)), "overridden Monday")
	assert.False(t, cal.IsHoliday(date(2024, 6, 11)), "plain Tuesday")

	var empty Calendar
	assert.True(t, empty.IsHoliday(date(2024, 6, 15)))
	assert.False(t, empty.IsHoliday(date(2024, 6, 14)))

	days := cal.Days()
	require.Len(t, days, 2)
	assert.Equal(t, date(2024, 6, 10), days[0].Date)
	assert.Equal(t, date(2024, 6, 15), days[1].Date)
}

func TestStatus(t *testing.T) {
	t.Parallel()
	p := testPolicy()
	cal := NewCalendar(nil)
	now := at(2024, 6, 12, 10, 0, 0)

	assert.Equal(t, DayPast, p.Status(date(2024, 6, 12), now, cal))
	assert.Equal(t, DayOpen, p.Status(date(2024, 6, 13), now, cal))
	assert.Equal(t, DayHoliday, p.Status(date(2024, 6, 15), now, cal))
	assert.Equal(t, DayHoliday, p.Status(date(2024, 6, 9), now, cal))
}
