package factories

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/repositories/memory"
)

func TestMenuItemFactory(t *testing.T) {
	var vf VendorFactory
	var mf MenuItemFactory
	v := vf.CreateVendor()

	for i := 0; i < 50; i++ {
		item := mf.CreateMenuItem(v)
		assert.Equal(t, v.ID, item.VendorID)
		assert.NotEmpty(t, item.Name)
		assert.GreaterOrEqual(t, item.Price, 60)
		assert.LessOrEqual(t, item.Price, 200)
		assert.True(t, models.ValidWeekday(item.Weekday))
		if item.Weekday != nil {
			assert.LessOrEqual(t, *item.Weekday, 4, "specials fall on workdays")
		}
	}
}

func TestDepartmentNamesAreUnique(t *testing.T) {
	var df DepartmentFactory
	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		d := df.CreateDepartment(i)
		assert.False(t, seen[d.Name], d.Name)
		seen[d.Name] = true
	}
}

func TestGenerateDataset(t *testing.T) {
	ds := GenerateDataset(DatasetOptions{
		Departments:     3,
		Vendors:         2,
		ItemsPerVendor:  4,
		Users:           7,
		Month:           models.Month{Year: 2024, Month: time.June},
		HolidaysInMonth: 2,
	})

	require.Len(t, ds.Departments, 3)
	require.Len(t, ds.Vendors, 2)
	require.Len(t, ds.MenuItems, 8)
	require.Len(t, ds.Users, 7)
	assert.LessOrEqual(t, len(ds.SpecialDays), 2)
	assert.Equal(t, 20+len(ds.SpecialDays), ds.Size())

	assert.Equal(t, models.RoleSysAdmin, ds.Users[0].Role)
	assert.Equal(t, "E0001", ds.Users[0].EmployeeID)
	assert.Equal(t, ds.Departments[1].ID, ds.Users[4].DepartmentID)

	for _, d := range ds.SpecialDays {
		assert.True(t, d.IsHoliday)
		assert.False(t, d.Date.IsWeekend())
		assert.Equal(t, time.June, d.Date.Month)
	}
}

func TestDatasetLoad(t *testing.T) {
	ds := GenerateDataset(DatasetOptions{Departments: 2, Vendors: 2, ItemsPerVendor: 3, Users: 5})
	store := memory.NewStore()
	var progress bytes.Buffer

	err := ds.Load(context.Background(), Repositories{
		Departments: store.Departments,
		Vendors:     store.Vendors,
		MenuItems:   store.MenuItems,
		Users:       store.Users,
		SpecialDays: store.SpecialDays,
	}, &progress)
	require.NoError(t, err)

	ctx := context.Background()
	n, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	n, err = store.MenuItems.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.NotEmpty(t, progress.String())

	// Employee IDs are unique, so a second load collides.
	other := memory.NewStore()
	err = ds.Load(ctx, Repositories{
		Departments: other.Departments,
		Vendors:     other.Vendors,
		MenuItems:   other.MenuItems,
		Users:       store.Users,
		SpecialDays: other.SpecialDays,
	}, nil)
	assert.ErrorIs(t, err, models.ErrUserExists)
}
