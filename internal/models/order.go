package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusNoOrder   OrderStatus = "no_order"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order is a persisted meal choice for one user on one date. A no-order
// record carries no vendor or menu item.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Date       Date        `json:"order_date"`
	VendorID   string      `json:"vendor_id,omitempty"`
	MenuItemID string      `json:"menu_item_id,omitempty"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (o Order) IsNoOrder() bool { return o.Status == OrderStatusNoOrder }

// Selection is a pending, unsaved choice for a date.
type Selection struct {
	Date       Date   `json:"date"`
	VendorID   string `json:"vendor_id,omitempty"`
	MenuItemID string `json:"menu_item_id,omitempty"`
	NoOrder    bool   `json:"no_order,omitempty"`
}

// Matches reports whether o already records exactly this choice.
func (s Selection) Matches(o Order) bool {
	if s.NoOrder || o.IsNoOrder() {
		return s.NoOrder && o.IsNoOrder()
	}
	return s.VendorID == o.VendorID && s.MenuItemID == o.MenuItemID
}

// OrderDetail is an order joined with its vendor, menu item and owner.
type OrderDetail struct {
	Order
	VendorName      string `json:"vendor_name,omitempty"`
	VendorColor     string `json:"vendor_color,omitempty"`
	ItemName        string `json:"item_name,omitempty"`
	ItemDescription string `json:"item_description,omitempty"`
	ItemPrice       int    `json:"item_price"`
	EmployeeID      string `json:"employee_id,omitempty"`
	UserName        string `json:"user_name,omitempty"`
	DepartmentName  string `json:"department_name,omitempty"`
}
