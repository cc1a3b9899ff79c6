package models

import "time"

const DefaultVendorColor = "#3B82F6"

type Vendor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MenuItem belongs to a vendor. Weekday uses Monday=0 numbering; nil means
// the item is served every day.
type MenuItem struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int       `json:"price"`
	Weekday     *int      `json:"weekday"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m MenuItem) AvailableOn(d Date) bool {
	return m.Weekday == nil || *m.Weekday == d.WeekdayIndex()
}

func ValidWeekday(w *int) bool {
	return w == nil || (*w >= 0 && *w <= 6)
}

// VendorMenu is a vendor with the menu items offered on a given day.
type VendorMenu struct {
	Vendor
	MenuItems []MenuItem `json:"menu_items"`
}
