package factories

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/repositories"
)

type DatasetOptions struct {
	Departments     int
	Vendors         int
	ItemsPerVendor  int
	Users           int
	Month           models.Month
	HolidaysInMonth int
}

// Dataset is a consistent set of reference data ready to be bulk inserted.
type Dataset struct {
	Departments []*models.Department
	Vendors     []*models.Vendor
	MenuItems   []*models.MenuItem
	Users       []*models.User
	SpecialDays []*models.SpecialDay
}

func (d *Dataset) Size() int {
	return len(d.Departments) + len(d.Vendors) + len(d.MenuItems) + len(d.Users) + len(d.SpecialDays)
}

// GenerateDataset builds reference data. The first user is always a
// sysadmin so a fresh install can be administered.
func GenerateDataset(opts DatasetOptions) *Dataset {
	var (
		df DepartmentFactory
		vf VendorFactory
		mf MenuItemFactory
		uf UserFactory
		sf SpecialDayFactory
	)
	ds := &Dataset{}

	for i := 0; i < opts.Departments; i++ {
		ds.Departments = append(ds.Departments, df.CreateDepartment(i))
	}
	vendorNames := make(map[string]bool)
	for i := 0; i < opts.Vendors; i++ {
		v := vf.CreateVendor()
		for vendorNames[v.Name] {
			v.Name = fmt.Sprintf("%s %d", v.Name, i+1)
		}
		vendorNames[v.Name] = true
		ds.Vendors = append(ds.Vendors, v)
		for j := 0; j < opts.ItemsPerVendor; j++ {
			ds.MenuItems = append(ds.MenuItems, mf.CreateMenuItem(v))
		}
	}
	for i := 0; i < opts.Users; i++ {
		var dep *models.Department
		if len(ds.Departments) > 0 {
			dep = ds.Departments[i%len(ds.Departments)]
		}
		u := uf.CreateUser(i+1, dep)
		if i == 0 {
			u.Role = models.RoleSysAdmin
		}
		ds.Users = append(ds.Users, u)
	}

	if opts.HolidaysInMonth > 0 && opts.Month.Year != 0 {
		for _, d := range opts.Month.Days() {
			if len(ds.SpecialDays) == opts.HolidaysInMonth {
				break
			}
			if d.IsWeekend() || fake.IntBetween(0, 3) != 0 {
				continue
			}
			ds.SpecialDays = append(ds.SpecialDays, sf.CreateHoliday(d, "Company holiday"))
		}
	}
	return ds
}

// Repositories are the stores a dataset is loaded into.
type Repositories struct {
	Departments repositories.DepartmentRepository
	Vendors     repositories.VendorRepository
	MenuItems   repositories.MenuItemRepository
	Users       repositories.UserRepository
	SpecialDays repositories.SpecialDayRepository
}

// Load bulk inserts the dataset, parents first. Progress is drawn on
// progress unless it is nil.
func (d *Dataset) Load(ctx context.Context, repos Repositories, progress io.Writer) error {
	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(d.Size(),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("seeding"),
			progressbar.OptionShowCount(),
		)
	}
	step := func(name string, n int, fn func() error) error {
		if n == 0 {
			return nil
		}
		if err := fn(); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		if bar != nil {
			_ = bar.Add(n)
		}
		return nil
	}

	if err := step("departments", len(d.Departments), func() error {
		return repos.Departments.BulkCreate(ctx, d.Departments)
	}); err != nil {
		return err
	}
	if err := step("vendors", len(d.Vendors), func() error {
		return repos.Vendors.BulkCreate(ctx, d.Vendors)
	}); err != nil {
		return err
	}
	if err := step("menu items", len(d.MenuItems), func() error {
		return repos.MenuItems.BulkCreate(ctx, d.MenuItems)
	}); err != nil {
		return err
	}
	if err := step("users", len(d.Users), func() error {
		return repos.Users.BulkCreate(ctx, d.Users)
	}); err != nil {
		return err
	}
	if err := step("special days", len(d.SpecialDays), func() error {
		return repos.SpecialDays.BulkCreate(ctx, d.SpecialDays)
	}); err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}
