package models

type ItemStat struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	Count      int    `json:"count"`
	Total      int    `json:"total"`
}

type VendorStat struct {
	VendorID string     `json:"vendor_id"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Orders   int        `json:"orders"`
	Total    int        `json:"total"`
	Items    []ItemStat `json:"items"`
}

// DailyStats summarises every order placed for one date.
type DailyStats struct {
	Date        Date         `json:"date"`
	TotalOrders int          `json:"total_orders"`
	NoOrders    int          `json:"no_orders"`
	TotalAmount int          `json:"total_amount"`
	Vendors     []VendorStat `json:"vendors"`
}

// DailyDetail is one active user and their order for a date, if any.
type DailyDetail struct {
	UserID         string       `json:"user_id"`
	EmployeeID     string       `json:"employee_id"`
	Name           string       `json:"name"`
	DepartmentName string       `json:"department_name,omitempty"`
	Order          *OrderDetail `json:"order"`
}

type AnnouncementItem struct {
	VendorName string   `json:"vendor_name"`
	ItemName   string   `json:"item_name"`
	Price      int      `json:"price"`
	Count      int      `json:"count"`
	People     []string `json:"people"`
}

type Announcement struct {
	Date        Date               `json:"date"`
	Items       []AnnouncementItem `json:"items"`
	TotalOrders int                `json:"total_orders"`
	TotalAmount int                `json:"total_amount"`
}
