package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
)

func TestCreateOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.orders()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, f.user, models.Selection{Date: date(2024, 6, 10), VendorID: "v1", MenuItemID: "i2"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "u1", order.UserID)
	require.Len(t, f.events.placed, 1)
	assert.Equal(t, order.ID, f.events.placed[0].ID)

	_, err = svc.CreateOrder(ctx, f.user, models.Selection{Date: date(2024, 6, 10), VendorID: "v1", MenuItemID: "i1"})
	assert.ErrorIs(t, err, models.ErrOrderExists)
}

func TestCreateOrderRejections(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sel  models.Selection
		want error
	}{
		{"saturday", models.Selection{Date: date(2024, 6, 15), VendorID: "v1", MenuItemID: "i1"}, models.ErrHoliday},
		{"yesterday", models.Selection{Date: date(2024, 6, 7), VendorID: "v1", MenuItemID: "i1"}, models.ErrPastCutoff},
		{"no vendor", models.Selection{Date: date(2024, 6, 11)}, models.ErrVendorRequired},
		{"unknown vendor", models.Selection{Date: date(2024, 6, 11), VendorID: "nope", MenuItemID: "i1"}, models.ErrVendorNotFound},
		{"inactive vendor", models.Selection{Date: date(2024, 6, 11), VendorID: "v3", MenuItemID: "i4"}, models.ErrVendorInactive},
		{"foreign item", models.Selection{Date: date(2024, 6, 11), VendorID: "v1", MenuItemID: "i3"}, models.ErrMenuItemNotFound},
		{"wrong weekday", models.Selection{Date: date(2024, 6, 11), VendorID: "v1", MenuItemID: "i2"}, models.ErrItemUnavailable},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			_, err := f.orders().CreateOrder(context.Background(), f.user, tt.sel)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.events.placed)
		})
	}
}

func TestCreateOrderCutoff(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.orders()
	sel := models.Selection{Date: date(2024, 6, 10), VendorID: "v1", MenuItemID: "i1"}

	f.clock.Set(time.Date(2024, 6, 10, 9, 0, 0, 0, taipei))
	_, err := svc.CreateOrder(context.Background(), f.user, sel)
	assert.ErrorIs(t, err, models.ErrPastCutoff)

	f.clock.Set(time.Date(2024, 6, 10, 8, 59, 59, 0, taipei))
	_, err = svc.CreateOrder(context.Background(), f.user, sel)
	assert.NoError(t, err)
}

func TestCreateOrderSpecialDays(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SpecialDays.Upsert(ctx, &models.SpecialDay{ID: "sd1", Date: date(2024, 6, 15), IsHoliday: false, Description: "make-up day"}))
	require.NoError(t, f.store.SpecialDays.Upsert(ctx, &models.SpecialDay{ID: "sd2", Date: date(2024, 6, 11), IsHoliday: true, Description: "Dragon Boat"}))
	svc := f.orders()

	_, err := svc.CreateOrder(ctx, f.user, models.Selection{Date: date(2024, 6, 15), VendorID: "v1", MenuItemID: "i1"})
	assert.NoError(t, err)

	_, err = svc.CreateOrder(ctx, f.user, models.Selection{Date: date(2024, 6, 11), VendorID: "v1", MenuItemID: "i1"})
	assert.ErrorIs(t, err, models.ErrHoliday)
}

func TestCreateNoOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	order, err := f.orders().CreateOrder(context.Background(), f.user, models.Selection{Date: date(2024, 6, 11), NoOrder: true, VendorID: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusNoOrder, order.Status)
	assert.Empty(t, order.VendorID)
	assert.Empty(t, order.MenuItemID)
}

func TestCreateBatchSkipsRejectedEntries(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedOrder(t, "existing", f.user, date(2024, 6, 12), f.daily)

	created, err := f.orders().CreateBatch(context.Background(), f.user, []models.Selection{
		{Date: date(2024, 6, 7), VendorID: "v1", MenuItemID: "i1"},
		{Date: date(2024, 6, 10), VendorID: "v1", MenuItemID: "i1"},
		{Date: date(2024, 6, 11), VendorID: "v2", MenuItemID: "i3"},
		{Date: date(2024, 6, 12), VendorID: "v1", MenuItemID: "i1"},
		{Date: date(2024, 6, 15), VendorID: "v1", MenuItemID: "i1"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, date(2024, 6, 10), created[0].Date)
	assert.Equal(t, date(2024, 6, 11), created[1].Date)
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.orders()
	ctx := context.Background()

	open := f.seedOrder(t, "open", f.user, date(2024, 6, 10), f.daily)
	past := f.seedOrder(t, "past", f.user, date(2024, 6, 7), f.daily)
	theirs := f.seedOrder(t, "theirs", f.other, date(2024, 6, 11), f.daily)

	_, err := svc.CancelOrder(ctx, f.user, theirs.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	_, err = svc.CancelOrder(ctx, f.user, past.ID)
	assert.ErrorIs(t, err, models.ErrPastCutoff)

	cancelled, err := svc.CancelOrder(ctx, f.user, open.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, cancelled.ID)
	require.Len(t, f.events.cancelled, 1)

	_, err = f.store.Orders.GetByID(ctx, open.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestMonthCalendar(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, "o1", f.user, date(2024, 6, 10), f.daily)
	require.NoError(t, f.store.SpecialDays.Upsert(ctx, &models.SpecialDay{ID: "sd", Date: date(2024, 6, 10), IsHoliday: false, Description: "regular"}))

	cal, err := f.orders().MonthCalendar(ctx, f.user, models.Month{Year: 2024, Month: time.June})
	require.NoError(t, err)
	require.Len(t, cal.Days, 30)
	assert.Equal(t, date(2024, 6, 10), cal.MinOrderDate)

	byDate := map[models.Date]CalendarDay{}
	for _, d := range cal.Days {
		byDate[d.Date] = d
	}
	assert.Equal(t, ordering.DayHoliday, byDate[date(2024, 6, 1)].Status)
	assert.Equal(t, ordering.DayPast, byDate[date(2024, 6, 7)].Status)

	today := byDate[date(2024, 6, 10)]
	assert.Equal(t, ordering.DayOpen, today.Status)
	assert.Equal(t, "regular", today.Description)
	require.NotNil(t, today.Order)
	assert.Equal(t, "o1", today.Order.ID)
	assert.True(t, today.CanCancel)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, taipei).UTC(), today.Cutoff.UTC())
}

func TestReconcileMonthReplace(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, "past", f.user, date(2024, 6, 7), f.daily)
	f.seedOrder(t, "today", f.user, date(2024, 6, 10), f.daily)

	res, err := f.orders().ReconcileMonth(ctx, f.user, ReconcileInput{
		Month: models.Month{Year: 2024, Month: time.June},
		Mode:  ordering.ReplaceMode,
		Selections: []models.Selection{
			{Date: date(2024, 6, 7), VendorID: "v2", MenuItemID: "i3"},
			{Date: date(2024, 6, 10), VendorID: "v2", MenuItemID: "i3"},
			{Date: date(2024, 6, 11), NoOrder: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []ordering.OrderRef{{ID: "today", Date: date(2024, 6, 10)}}, res.Deleted)
	require.Len(t, res.Created, 2)
	assert.Equal(t, "i3", res.Created[0].MenuItemID)
	assert.Equal(t, models.OrderStatusNoOrder, res.Created[1].Status)
	assert.Equal(t, []models.Date{date(2024, 6, 7)}, res.Skipped)

	past, err := f.store.Orders.GetByID(ctx, "past")
	require.NoError(t, err)
	assert.Equal(t, "i1", past.MenuItemID)
}

func TestReconcileMonthMergeKeepsExisting(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedOrder(t, "today", f.user, date(2024, 6, 10), f.daily)

	res, err := f.orders().ReconcileMonth(context.Background(), f.user, ReconcileInput{
		Month: models.Month{Year: 2024, Month: time.June},
		Mode:  ordering.MergeMode,
		Selections: []models.Selection{
			{Date: date(2024, 6, 10), VendorID: "v2", MenuItemID: "i3"},
			{Date: date(2024, 6, 11), VendorID: "v2", MenuItemID: "i3"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Deleted)
	require.Len(t, res.Created, 1)
	assert.Equal(t, date(2024, 6, 11), res.Created[0].Date)
}

func TestReconcileMonthSkipUnchanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedOrder(t, "today", f.user, date(2024, 6, 10), f.daily)

	res, err := f.orders().ReconcileMonth(context.Background(), f.user, ReconcileInput{
		Month:         models.Month{Year: 2024, Month: time.June},
		Mode:          ordering.ReplaceMode,
		SkipUnchanged: true,
		Selections:    []models.Selection{{Date: date(2024, 6, 10), VendorID: "v1", MenuItemID: "i1"}},
	})
	require.NoError(t, err)
	assert.True(t, res.Plan.Empty())
}

func TestReconcileMonthPartialFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, "keep", f.user, date(2024, 6, 11), f.daily)
	diskFull := errors.New("disk full")
	f.store.Orders.FailOn = map[models.Date]error{date(2024, 6, 11): diskFull}

	res, err := f.orders().ReconcileMonth(ctx, f.user, ReconcileInput{
		Month: models.Month{Year: 2024, Month: time.June},
		Mode:  ordering.ReplaceMode,
		Selections: []models.Selection{
			{Date: date(2024, 6, 11), VendorID: "v2", MenuItemID: "i3"},
			{Date: date(2024, 6, 12), VendorID: "v2", MenuItemID: "i3"},
		},
	})

	var partial *ordering.PartialBatchFailure
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorIs(t, err, ordering.ErrReplaceAborted)
	assert.Equal(t, []models.Date{date(2024, 6, 12)}, partial.Succeeded)
	assert.Equal(t, []models.Date{date(2024, 6, 11), date(2024, 6, 11)}, partial.FailedDates())

	require.Len(t, res.Created, 1)
	assert.Equal(t, date(2024, 6, 12), res.Created[0].Date)
	assert.Empty(t, res.Deleted)

	kept, err := f.store.Orders.GetByID(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "i1", kept.MenuItemID)
}

func TestReconcileMonthRejectsForeignDates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.orders().ReconcileMonth(context.Background(), f.user, ReconcileInput{
		Month:      models.Month{Year: 2024, Month: time.June},
		Selections: []models.Selection{{Date: date(2024, 7, 1), NoOrder: true}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestReconcileMonthRejectsRepeatedDates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders().ReconcileMonth(ctx, f.user, ReconcileInput{
		Month: models.Month{Year: 2024, Month: time.June},
		Selections: []models.Selection{
			{Date: date(2024, 6, 7), NoOrder: true},
			{Date: date(2024, 6, 7), NoOrder: true},
		},
	})
	assert.ErrorIs(t, err, models.ErrInvalidRange)

	n, err := f.store.Orders.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearRange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, "past", f.user, date(2024, 6, 7), f.daily)
	f.seedOrder(t, "a", f.user, date(2024, 6, 10), f.daily)
	f.seedOrder(t, "b", f.user, date(2024, 6, 11), f.daily)
	f.seedOrder(t, "other", f.other, date(2024, 6, 11), f.daily)

	res, err := f.orders().ClearRange(ctx, f.user, date(2024, 6, 1), date(2024, 6, 30))
	require.NoError(t, err)
	assert.Equal(t, []ordering.OrderRef{{ID: "a", Date: date(2024, 6, 10)}, {ID: "b", Date: date(2024, 6, 11)}}, res.Deleted)

	n, err := f.store.Orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = f.orders().ClearRange(ctx, f.user, date(2024, 6, 30), date(2024, 6, 1))
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}
