package app

import (
	"context"
	"strings"

	"github.com/chrisdamba/webdiner/internal/models"
)

type VendorService struct {
	repos Repositories
	newID func() string
}

func NewVendorService(repos Repositories, opts ...Option) *VendorService {
	o := applyOptions(opts)
	return &VendorService{repos: repos, newID: o.newID}
}

type VendorInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type VendorUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"is_active"`
}

func (s *VendorService) ListVendors(ctx context.Context, includeInactive bool) ([]*models.Vendor, error) {
	return s.repos.Vendors.GetAll(ctx, !includeInactive)
}

func (s *VendorService) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	return s.repos.Vendors.GetByID(ctx, id)
}

func (s *VendorService) CreateVendor(ctx context.Context, in VendorInput) (*models.Vendor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.ErrNameRequired
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = models.DefaultVendorColor
	}
	v := &models.Vendor{
		ID:          s.newID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Color:       color,
		IsActive:    true,
	}
	if err := s.repos.Vendors.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VendorService) UpdateVendor(ctx context.Context, id string, in VendorUpdate) (*models.Vendor, error) {
	v, err := s.repos.Vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.ErrNameRequired
		}
		v.Name = name
	}
	if in.Description != nil {
		v.Description = strings.TrimSpace(*in.Description)
	}
	if in.Color != nil && strings.TrimSpace(*in.Color) != "" {
		v.Color = strings.TrimSpace(*in.Color)
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	if err := s.repos.Vendors.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVendor deactivates the vendor; its past orders keep their
// references.
func (s *VendorService) DeleteVendor(ctx context.Context, id string) error {
	active := false
	_, err := s.UpdateVendor(ctx, id, VendorUpdate{IsActive: &active})
	return err
}

type MenuItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Weekday     *int   `json:"weekday"`
}

type MenuItemUpdate struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Price        *int    `json:"price"`
	Weekday      *int    `json:"weekday"`
	ClearWeekday bool    `json:"clear_weekday"`
	IsActive     *bool   `json:"is_active"`
}

func (s *VendorService) ListMenu(ctx context.Context, vendorID string, includeInactive bool) ([]*models.MenuItem, error) {
	if _, err := s.repos.Vendors.GetByID(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.repos.MenuItems.GetByVendorID(ctx, vendorID, !includeInactive)
}

func (s *VendorService) CreateMenuItem(ctx context.Context, vendorID string, in MenuItemInput) (*models.MenuItem, error) {
	if _, err := s.repos.Vendors.GetByID(ctx, vendorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, models.ErrNameRequired
	case in.Price < 0:
		return nil, models.ErrInvalidPrice
	case !models.ValidWeekday(in.Weekday):
		return nil, models.ErrInvalidWeekday
	}
	item := &models.MenuItem{
		ID:          s.newID(),
		VendorID:    vendorID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Weekday:     in.Weekday,
		IsActive:    true,
	}
	if err := s.repos.MenuItems.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *VendorService) UpdateMenuItem(ctx context.Context, vendorID, itemID string, in MenuItemUpdate) (*models.MenuItem, error) {
	item, err := s.repos.MenuItems.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.VendorID != vendorID {
		return nil, models.ErrMenuItemNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.ErrNameRequired
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, models.ErrInvalidPrice
		}
		item.Price = *in.Price
	}
	switch {
	case in.ClearWeekday:
		item.Weekday = nil
	case in.Weekday != nil:
		if !models.ValidWeekday(in.Weekday) {
			return nil, models.ErrInvalidWeekday
		}
		item.Weekday = in.Weekday
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if err := s.repos.MenuItems.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *VendorService) DeleteMenuItem(ctx context.Context, vendorID, itemID string) error {
	active := false
	_, err := s.UpdateMenuItem(ctx, vendorID, itemID, MenuItemUpdate{IsActive: &active})
	return err
}

// Available lists the active vendors serving at least one active item on
// date, with only those items. Holidays have no vendors.
func (s *VendorService) Available(ctx context.Context, date models.Date) ([]models.VendorMenu, error) {
	out := []models.VendorMenu{}
	cal, err := loadCalendar(ctx, s.repos.SpecialDays, date, date)
	if err != nil {
		return nil, err
	}
	if cal.IsHoliday(date) {
		return out, nil
	}

	vendors, err := s.repos.Vendors.GetAll(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, v := range vendors {
		items, err := s.repos.MenuItems.GetByVendorID(ctx, v.ID, true)
		if err != nil {
			return nil, err
		}
		menu := models.VendorMenu{Vendor: *v, MenuItems: []models.MenuItem{}}
		for _, item := range items {
			if item.AvailableOn(date) {
				menu.MenuItems = append(menu.MenuItems, *item)
			}
		}
		if len(menu.MenuItems) > 0 {
			out = append(out, menu)
		}
	}
	return out, nil
}
