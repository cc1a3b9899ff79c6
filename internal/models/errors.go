package models

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderExists        = errors.New("an order already exists for this date")
	ErrPastCutoff         = errors.New("ordering for this date has closed")
	ErrHoliday            = errors.New("date is a holiday")
	ErrVendorRequired     = errors.New("vendor and menu item are required")
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrVendorInactive     = errors.New("vendor is not active")
	ErrVendorExists       = errors.New("vendor name already exists")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrItemUnavailable    = errors.New("menu item is not available on this date")
	ErrInvalidWeekday     = errors.New("weekday must be between 0 and 6")
	ErrInvalidPrice       = errors.New("price must not be negative")
	ErrNameRequired       = errors.New("name is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("employee id already exists")
	ErrUserInactive       = errors.New("user is not active")
	ErrInvalidRole        = errors.New("invalid role")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department name already exists")
	ErrSpecialDayNotFound = errors.New("special day not found")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrForbidden          = errors.New("forbidden")
	ErrTimeOverrideOff    = errors.New("time override is disabled")
)
