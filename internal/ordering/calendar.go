package ordering

import (
	"sort"

	"github.com/chrisdamba/webdiner/internal/models"
)

// Calendar holds the special-day overrides keyed by date. The zero value
// has no overrides, so only weekends are holidays.
type Calendar struct {
	days map[models.Date]models.SpecialDay
}

func NewCalendar(days []models.SpecialDay) Calendar {
	c := Calendar{days: make(map[models.Date]models.SpecialDay, len(days))}
	for _, d := range days {
		c.days[d.Date] = d
	}
	return c
}

// IsHoliday applies the override for date when one exists, otherwise
// Saturday and Sunday are holidays.
func (c Calendar) IsHoliday(date models.Date) bool {
	if sd, ok := c.days[date]; ok {
		return sd.IsHoliday
	}
	return date.IsWeekend()
}

func (c Calendar) Lookup(date models.Date) (models.SpecialDay, bool) {
	sd, ok := c.days[date]
	return sd, ok
}

func (c Calendar) Len() int { return len(c.days) }

// Days returns the overrides in date order.
func (c Calendar) Days() []models.SpecialDay {
	out := make([]models.SpecialDay, 0, len(c.days))
	for _, sd := range c.days {
		out = append(out, sd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
