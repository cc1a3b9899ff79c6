package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/webdiner/internal/models"
)

func TestCreateVendor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.vendors()
	ctx := context.Background()

	v, err := svc.CreateVendor(ctx, VendorInput{Name: "  Taco Stand "})
	require.NoError(t, err)
	assert.Equal(t, "Taco Stand", v.Name)
	assert.Equal(t, models.DefaultVendorColor, v.Color)
	assert.True(t, v.IsActive)

	_, err = svc.CreateVendor(ctx, VendorInput{Name: "Taco Stand"})
	assert.ErrorIs(t, err, models.ErrVendorExists)

	_, err = svc.CreateVendor(ctx, VendorInput{Name: " "})
	assert.ErrorIs(t, err, models.ErrNameRequired)
}

func TestDeleteVendorIsSoft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.vendors()
	ctx := context.Background()

	require.NoError(t, svc.DeleteVendor(ctx, "v2"))

	active, err := svc.ListVendors(ctx, false)
	require.NoError(t, err)
	for _, v := range active {
		assert.NotEqual(t, "v2", v.ID)
	}

	v, err := svc.GetVendor(ctx, "v2")
	require.NoError(t, err)
	assert.False(t, v.IsActive)
}

func TestMenuItemValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.vendors()
	ctx := context.Background()

	_, err := svc.CreateMenuItem(ctx, "v1", MenuItemInput{Name: "Soup", Price: -1})
	assert.ErrorIs(t, err, models.ErrInvalidPrice)

	_, err = svc.CreateMenuItem(ctx, "v1", MenuItemInput{Name: "Soup", Price: 50, Weekday: intPtr(7)})
	assert.ErrorIs(t, err, models.ErrInvalidWeekday)

	_, err = svc.CreateMenuItem(ctx, "missing", MenuItemInput{Name: "Soup", Price: 50})
	assert.ErrorIs(t, err, models.ErrVendorNotFound)

	item, err := svc.CreateMenuItem(ctx, "v1", MenuItemInput{Name: "Soup", Price: 50, Weekday: intPtr(4)})
	require.NoError(t, err)
	require.NotNil(t, item.Weekday)

	_, err = svc.UpdateMenuItem(ctx, "v2", item.ID, MenuItemUpdate{Price: intPtr(60)})
	assert.ErrorIs(t, err, models.ErrMenuItemNotFound)

	updated, err := svc.UpdateMenuItem(ctx, "v1", item.ID, MenuItemUpdate{Price: intPtr(60), ClearWeekday: true})
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Price)
	assert.Nil(t, updated.Weekday)
}

func TestAvailable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.vendors()
	ctx := context.Background()

	names := func(menus []models.VendorMenu) map[string][]string {
		out := map[string][]string{}
		for _, m := range menus {
			for _, item := range m.MenuItems {
				out[m.Name] = append(out[m.Name], item.Name)
			}
		}
		return out
	}

	monday, err := svc.Available(ctx, date(2024, 6, 10))
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"Bento Box":    {"Chicken Bento", "Monday Curry"},
		"Noodle House": {"Ramen"},
	}, names(monday))

	require.NoError(t, svc.DeleteMenuItem(ctx, "v2", "i3"))
	tuesday, err := svc.Available(ctx, date(2024, 6, 11))
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"Bento Box": {"Chicken Bento"}}, names(tuesday))

	saturday, err := svc.Available(ctx, date(2024, 6, 15))
	require.NoError(t, err)
	assert.Empty(t, saturday)
}
