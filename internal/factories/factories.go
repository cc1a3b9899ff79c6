package factories

import (
	"fmt"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/chrisdamba/webdiner/internal/models"
)

var fake = faker.New()

var departmentNames = []string{
	"Engineering", "Finance", "Human Resources", "Sales", "Marketing",
	"Operations", "Legal", "Customer Support", "Procurement", "Research",
}

var vendorColors = []string{
	"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6", "#EC4899", "#14B8A6",
}

var vendorSuffixes = []string{"Kitchen", "Bento", "Noodle House", "Canteen", "Deli", "Diner"}

type DepartmentFactory struct{}

func (df *DepartmentFactory) CreateDepartment(displayOrder int) *models.Department {
	name := departmentNames[displayOrder%len(departmentNames)]
	if displayOrder >= len(departmentNames) {
		name = fmt.Sprintf("%s %d", name, displayOrder/len(departmentNames)+1)
	}
	return &models.Department{
		ID:           cuid.New(),
		Name:         name,
		DisplayOrder: displayOrder,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

type VendorFactory struct{}

func (vf *VendorFactory) CreateVendor() *models.Vendor {
	return &models.Vendor{
		ID:          cuid.New(),
		Name:        fake.Person().LastName() + " " + fake.RandomStringElement(vendorSuffixes),
		Description: fake.Lorem().Sentence(6),
		Color:       fake.RandomStringElement(vendorColors),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

type MenuItemFactory struct{}

// CreateMenuItem returns an item for vendor. Roughly one in three items is
// a weekday special.
func (mf *MenuItemFactory) CreateMenuItem(vendor *models.Vendor) *models.MenuItem {
	item := &models.MenuItem{
		ID:          cuid.New(),
		VendorID:    vendor.ID,
		Name:        generateRandomDish(),
		Description: fake.Lorem().Sentence(8),
		Price:       fake.IntBetween(6, 20) * 10,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if fake.IntBetween(0, 2) == 0 {
		w := fake.IntBetween(0, 4)
		item.Weekday = &w
	}
	return item
}

func generateRandomDish() string {
	mains := []string{"Chicken", "Pork", "Beef", "Tofu", "Salmon", "Mackerel", "Shrimp", "Vegetable"}
	styles := []string{"Bento", "Rice Bowl", "Noodles", "Curry", "Fried Rice", "Dumplings", "Salad"}
	return fake.RandomStringElement(mains) + " " + fake.RandomStringElement(styles)
}

type UserFactory struct{}

// CreateUser builds an active employee with a sequential employee ID.
func (uf *UserFactory) CreateUser(seq int, department *models.Department) *models.User {
	u := &models.User{
		ID:         cuid.New(),
		EmployeeID: fmt.Sprintf("E%04d", seq),
		Name:       fake.Person().Name(),
		Extension:  fake.Numerify("####"),
		Email:      fake.Internet().Email(),
		Role:       models.RoleUser,
		Title:      fake.Company().JobTitle(),
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if department != nil {
		u.DepartmentID = department.ID
	}
	return u
}

type SpecialDayFactory struct{}

func (sf *SpecialDayFactory) CreateHoliday(date models.Date, description string) *models.SpecialDay {
	return &models.SpecialDay{
		ID:          cuid.New(),
		Date:        date,
		IsHoliday:   true,
		Description: description,
	}
}

// CreateMakeupWorkday marks a weekend date as a working day.
func (sf *SpecialDayFactory) CreateMakeupWorkday(date models.Date) *models.SpecialDay {
	return &models.SpecialDay{
		ID:          cuid.New(),
		Date:        date,
		IsHoliday:   false,
		Description: "Makeup workday",
	}
}
