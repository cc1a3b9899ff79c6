package models

import "time"

type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleSysAdmin Role = "sysadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSysAdmin:
		return true
	}
	return false
}

// IsAdmin is true for both administrator roles.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSysAdmin }

type User struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employee_id"`
	Name             string    `json:"name"`
	Extension        string    `json:"extension,omitempty"`
	Email            string    `json:"email,omitempty"`
	Role             Role      `json:"role"`
	DepartmentID     string    `json:"department_id,omitempty"`
	Title            string    `json:"title,omitempty"`
	IsDepartmentHead bool      `json:"is_department_head"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

type Department struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// SpecialDay overrides the weekend rule for a single date.
type SpecialDay struct {
	ID          string `json:"id"`
	Date        Date   `json:"date"`
	IsHoliday   bool   `json:"is_holiday"`
	Description string `json:"description,omitempty"`
}
