package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.June, Day: 10}, d)
	assert.Equal(t, "2024-06-10", d.String())

	for _, bad := range []string{"", "2024-13-01", "10/06/2024", "2024-02-30"} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
		var invalid *InvalidDateError
		require.True(t, errors.As(err, &invalid), bad)
		assert.Equal(t, bad, invalid.Value)
		assert.ErrorIs(t, err, ErrInvalidDate)
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()

	d := Date{Year: 2024, Month: time.February, Day: 28}
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d.AddDays(1))
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 1}, d.AddDays(2))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, 0, d.Compare(NewDate(2024, time.February, 28)))

	// 2024-06-10 is a Monday, 2024-06-16 a Sunday.
	mon := Date{Year: 2024, Month: time.June, Day: 10}
	assert.Equal(t, 0, mon.WeekdayIndex())
	assert.Equal(t, 6, mon.AddDays(6).WeekdayIndex())
	assert.False(t, mon.IsWeekend())
	assert.True(t, mon.AddDays(5).IsWeekend())
}

func TestMonthDays(t *testing.T) {
	t.Parallel()

	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	days := m.Days()
	require.Len(t, days, 29)
	assert.Equal(t, m.First(), days[0])
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, m.Last())
	assert.True(t, m.Contains(days[10]))
	assert.False(t, m.Contains(days[28].AddDays(1)))

	_, err = ParseMonth("2024-2-1")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	in := Selection{Date: Date{Year: 2024, Month: time.June, Day: 10}, VendorID: "v1", MenuItemID: "i1"}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-10","vendor_id":"v1","menu_item_id":"i1"}`, string(b))

	var out Selection
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`{"date":"June 10"}`), &out)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSelectionMatches(t *testing.T) {
	t.Parallel()

	order := Order{VendorID: "v1", MenuItemID: "i1", Status: OrderStatusPending}
	assert.True(t, Selection{VendorID: "v1", MenuItemID: "i1"}.Matches(order))
	assert.False(t, Selection{VendorID: "v1", MenuItemID: "i2"}.Matches(order))
	assert.False(t, Selection{NoOrder: true}.Matches(order))
	assert.True(t, Selection{NoOrder: true}.Matches(Order{Status: OrderStatusNoOrder}))
}

func TestMenuItemAvailableOn(t *testing.T) {
	t.Parallel()

	tue := Date{Year: 2024, Month: time.June, Day: 11}
	one, two := 1, 2
	assert.True(t, MenuItem{}.AvailableOn(tue))
	assert.True(t, MenuItem{Weekday: &one}.AvailableOn(tue))
	assert.False(t, MenuItem{Weekday: &two}.AvailableOn(tue))

	seven := 7
	assert.False(t, ValidWeekday(&seven))
	assert.True(t, ValidWeekday(nil))
}
