package repositories

import (
	"context"

	"github.com/chrisdamba/webdiner/internal/models"
)

type UserRepository interface {
	BulkCreate(ctx context.Context, users []*models.User) error
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	GetAll(ctx context.Context, skip, limit int) ([]*models.User, error)
	GetActive(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type DepartmentRepository interface {
	BulkCreate(ctx context.Context, departments []*models.Department) error
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id string) (*models.Department, error)
	GetByName(ctx context.Context, name string) (*models.Department, error)
	GetAll(ctx context.Context, activeOnly bool) ([]*models.Department, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type VendorRepository interface {
	BulkCreate(ctx context.Context, vendors []*models.Vendor) error
	Create(ctx context.Context, vendor *models.Vendor) error
	Update(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, id string) (*models.Vendor, error)
	GetByName(ctx context.Context, name string) (*models.Vendor, error)
	GetAll(ctx context.Context, activeOnly bool) ([]*models.Vendor, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error
	Create(ctx context.Context, menuItem *models.MenuItem) error
	Update(ctx context.Context, menuItem *models.MenuItem) error
	GetByID(ctx context.Context, id string) (*models.MenuItem, error)
	GetByVendorID(ctx context.Context, vendorID string, activeOnly bool) ([]*models.MenuItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type SpecialDayRepository interface {
	BulkCreate(ctx context.Context, days []*models.SpecialDay) error
	Upsert(ctx context.Context, day *models.SpecialDay) error
	DeleteByDate(ctx context.Context, date models.Date) error
	GetAll(ctx context.Context) ([]models.SpecialDay, error)
	GetRange(ctx context.Context, from, to models.Date) ([]models.SpecialDay, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// Upsert replaces whatever the user holds for order.Date.
	Upsert(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	DeleteByUserAndDate(ctx context.Context, userID string, date models.Date) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUserAndDate(ctx context.Context, userID string, date models.Date) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.OrderDetail, error)
	ListByUserRange(ctx context.Context, userID string, from, to models.Date) ([]models.Order, error)
	ListDetailsByRange(ctx context.Context, from, to models.Date) ([]models.OrderDetail, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
