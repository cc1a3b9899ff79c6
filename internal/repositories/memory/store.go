// Package memory keeps every repository in process memory. It backs the
// service tests and the `serve --storage memory` demo mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/webdiner/internal/models"
)

// Store owns the shared data behind the individual repositories.
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	users       map[string]models.User
	departments map[string]models.Department
	vendors     map[string]models.Vendor
	menuItems   map[string]models.MenuItem
	specialDays map[models.Date]models.SpecialDay
	orders      map[string]models.Order

	Users       *UserRepository
	Departments *DepartmentRepository
	Vendors     *VendorRepository
	MenuItems   *MenuItemRepository
	SpecialDays *SpecialDayRepository
	Orders      *OrderRepository
}

func NewStore() *Store {
	s := &Store{
		now:         func() time.Time { return time.Now().UTC() },
		users:       make(map[string]models.User),
		departments: make(map[string]models.Department),
		vendors:     make(map[string]models.Vendor),
		menuItems:   make(map[string]models.MenuItem),
		specialDays: make(map[models.Date]models.SpecialDay),
		orders:      make(map[string]models.Order),
	}
	s.Users = &UserRepository{s: s}
	s.Departments = &DepartmentRepository{s: s}
	s.Vendors = &VendorRepository{s: s}
	s.MenuItems = &MenuItemRepository{s: s}
	s.SpecialDays = &SpecialDayRepository{s: s}
	s.Orders = &OrderRepository{s: s}
	return s
}

type UserRepository struct{ s *Store }

func (r *UserRepository) BulkCreate(ctx context.Context, users []*models.User) error {
	for _, u := range users {
		if err := r.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.EmployeeID == user.EmployeeID {
			return models.ErrUserExists
		}
	}
	if user.DepartmentID != "" {
		if _, ok := r.s.departments[user.DepartmentID]; !ok {
			return models.ErrDepartmentNotFound
		}
	}
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[user.ID]
	if !ok {
		return models.ErrUserNotFound
	}
	for _, u := range r.s.users {
		if u.ID != user.ID && u.EmployeeID == user.EmployeeID {
			return models.ErrUserExists
		}
	}
	if user.DepartmentID != "" {
		if _, ok := r.s.departments[user.DepartmentID]; !ok {
			return models.ErrDepartmentNotFound
		}
	}
	user.CreatedAt = current.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(r.s.users, id)
	for oid, o := range r.s.orders {
		if o.UserID == id {
			delete(r.s.orders, oid)
		}
	}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmployeeID(_ context.Context, employeeID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.EmployeeID == employeeID {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *UserRepository) GetAll(_ context.Context, skip, limit int) ([]*models.User, error) {
	users := r.sorted(false)
	if limit <= 0 {
		limit = 100
	}
	if skip >= len(users) {
		return []*models.User{}, nil
	}
	end := skip + limit
	if end > len(users) {
		end = len(users)
	}
	return users[skip:end], nil
}

func (r *UserRepository) GetActive(context.Context) ([]*models.User, error) {
	return r.sorted(true), nil
}

func (r *UserRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

func (r *UserRepository) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users = make(map[string]models.User)
	r.s.orders = make(map[string]models.Order)
	return nil
}

func (r *UserRepository) sorted(activeOnly bool) []*models.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := []*models.User{}
	for _, u := range r.s.users {
		if activeOnly && !u.IsActive {
			continue
		}
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].EmployeeID < users[j].EmployeeID })
	return users
}

type DepartmentRepository struct{ s *Store }

func (r *DepartmentRepository) BulkCreate(ctx context.Context, departments []*models.Department) error {
	for _, d := range departments {
		if err := r.Create(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *DepartmentRepository) Create(_ context.Context, d *models.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.departments {
		if existing.Name == d.Name {
			return models.ErrDepartmentExists
		}
	}
	d.CreatedAt = r.s.now()
	r.s.departments[d.ID] = *d
	return nil
}

func (r *DepartmentRepository) Update(_ context.Context, d *models.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.departments[d.ID]
	if !ok {
		return models.ErrDepartmentNotFound
	}
	for _, existing := range r.s.departments {
		if existing.ID != d.ID && existing.Name == d.Name {
			return models.ErrDepartmentExists
		}
	}
	d.CreatedAt = current.CreatedAt
	r.s.departments[d.ID] = *d
	return nil
}

func (r *DepartmentRepository) GetByID(_ context.Context, id string) (*models.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.departments[id]
	if !ok {
		return nil, models.ErrDepartmentNotFound
	}
	return &d, nil
}

func (r *DepartmentRepository) GetByName(_ context.Context, name string) (*models.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.departments {
		if d.Name == name {
			d := d
			return &d, nil
		}
	}
	return nil, models.ErrDepartmentNotFound
}

func (r *DepartmentRepository) GetAll(_ context.Context, activeOnly bool) ([]*models.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*models.Department{}
	for _, d := range r.s.departments {
		if activeOnly && !d.IsActive {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *DepartmentRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.departments), nil
}

func (r *DepartmentRepository) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.departments = make(map[string]models.Department)
	return nil
}

type VendorRepository struct{ s *Store }

func (r *VendorRepository) BulkCreate(ctx context.Context, vendors []*models.Vendor) error {
	for _, v := range vendors {
		if err := r.Create(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *VendorRepository) Create(_ context.Context, v *models.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.vendors {
		if existing.Name == v.Name {
			return models.ErrVendorExists
		}
	}
	v.CreatedAt = r.s.now()
	r.s.vendors[v.ID] = *v
	return nil
}

func (r *VendorRepository) Update(_ context.Context, v *models.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.vendors[v.ID]
	if !ok {
		return models.ErrVendorNotFound
	}
	for _, existing := range r.s.vendors {
		if existing.ID != v.ID && existing.Name == v.Name {
			return models.ErrVendorExists
		}
	}
	v.CreatedAt = current.CreatedAt
	r.s.vendors[v.ID] = *v
	return nil
}

func (r *VendorRepository) GetByID(_ context.Context, id string) (*models.Vendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, models.ErrVendorNotFound
	}
	return &v, nil
}

func (r *VendorRepository) GetByName(_ context.Context, name string) (*models.Vendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, v := range r.s.vendors {
		if v.Name == name {
			v := v
			return &v, nil
		}
	}
	return nil, models.ErrVendorNotFound
}

func (r *VendorRepository) GetAll(_ context.Context, activeOnly bool) ([]*models.Vendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*models.Vendor{}
	for _, v := range r.s.vendors {
		if activeOnly && !v.IsActive {
			continue
		}
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *VendorRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.vendors), nil
}

func (r *VendorRepository) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vendors = make(map[string]models.Vendor)
	r.s.menuItems = make(map[string]models.MenuItem)
	return nil
}

type MenuItemRepository struct{ s *Store }

func (r *MenuItemRepository) BulkCreate(ctx context.Context, items []*models.MenuItem) error {
	for _, m := range items {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *MenuItemRepository) Create(_ context.Context, m *models.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[m.VendorID]; !ok {
		return models.ErrVendorNotFound
	}
	m.CreatedAt = r.s.now()
	r.s.menuItems[m.ID] = *m
	return nil
}

func (r *MenuItemRepository) Update(_ context.Context, m *models.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.menuItems[m.ID]
	if !ok {
		return models.ErrMenuItemNotFound
	}
	m.VendorID = current.VendorID
	m.CreatedAt = current.CreatedAt
	r.s.menuItems[m.ID] = *m
	return nil
}

func (r *MenuItemRepository) GetByID(_ context.Context, id string) (*models.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.menuItems[id]
	if !ok {
		return nil, models.ErrMenuItemNotFound
	}
	return &m, nil
}

func (r *MenuItemRepository) GetByVendorID(_ context.Context, vendorID string, activeOnly bool) ([]*models.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*models.MenuItem{}
	for _, m := range r.s.menuItems {
		if m.VendorID != vendorID || (activeOnly && !m.IsActive) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := weekdayKey(out[i].Weekday), weekdayKey(out[j].Weekday)
		if wi != wj {
			return wi < wj
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MenuItemRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.menuItems), nil
}

func (r *MenuItemRepository) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.menuItems = make(map[string]models.MenuItem)
	return nil
}

func weekdayKey(w *int) int {
	if w == nil {
		return -1
	}
	return *w
}

type SpecialDayRepository struct{ s *Store }

func (r *SpecialDayRepository) BulkCreate(ctx context.Context, days []*models.SpecialDay) error {
	for _, d := range days {
		if err := r.Upsert(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *SpecialDayRepository) Upsert(_ context.Context, day *models.SpecialDay) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.specialDays[day.Date]; ok {
		day.ID = existing.ID
	}
	r.s.specialDays[day.Date] = *day
	return nil
}

func (r *SpecialDayRepository) DeleteByDate(_ context.Context, date models.Date) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.specialDays[date]; !ok {
		return models.ErrSpecialDayNotFound
	}
	delete(r.s.specialDays, date)
	return nil
}

func (r *SpecialDayRepository) GetAll(context.Context) ([]models.SpecialDay, error) {
	return r.filter(func(models.Date) bool { return true }), nil
}

func (r *SpecialDayRepository) GetRange(_ context.Context, from, to models.Date) ([]models.SpecialDay, error) {
	return r.filter(func(d models.Date) bool { return !d.Before(from) && !d.After(to) }), nil
}

func (r *SpecialDayRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.specialDays), nil
}

func (r *SpecialDayRepository) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.specialDays = make(map[models.Date]models.SpecialDay)
	return nil
}

func (r *SpecialDayRepository) filter(keep func(models.Date) bool) []models.SpecialDay {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.SpecialDay{}
	for d, sd := range r.s.specialDays {
		if keep(d) {
			out = append(out, sd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

type OrderRepository struct {
	s *Store
	// FailOn lets tests inject store failures per order date.
	FailOn map[models.Date]error
}

func (r *OrderRepository) Create(_ context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.FailOn[order.Date]; err != nil {
		return err
	}
	for _, o := range r.s.orders {
		if o.UserID == order.UserID && o.Date == order.Date {
			return models.ErrOrderExists
		}
	}
	order.CreatedAt = r.s.now()
	r.s.orders[order.ID] = *order
	return nil
}

func (r *OrderRepository) Upsert(_ context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.orders {
		if o.UserID == order.UserID && o.Date == order.Date {
			order.ID = id
			order.CreatedAt = o.CreatedAt
			r.s.orders[id] = *order
			return nil
		}
	}
	order.CreatedAt = r.s.now()
	r.s.orders[order.ID] = *order
	return nil
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	if err := r.FailOn[o.Date]; err != nil {
		return err
	}
	delete(r.s.orders, id)
	return nil
}

func (r *OrderRepository) DeleteByUserAndDate(_ context.Context, userID string, date models.Date) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.orders {
		if o.UserID == userID && o.Date == date {
			delete(r.s.orders, id)
			return nil
		}
	}
	return models.ErrOrderNotFound
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return &o, nil
}

func (r *OrderRepository) GetByUserAndDate(_ context.Context, userID string, date models.Date) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.UserID == userID && o.Date == date {
			o := o
			return &o, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]models.OrderDetail, error) {
	return r.details(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepository) ListByUserRange(_ context.Context, userID string, from, to models.Date) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range r.s.orders {
		if o.UserID == userID && !o.Date.Before(from) && !o.Date.After(to) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *OrderRepository) ListDetailsByRange(_ context.Context, from, to models.Date) ([]models.OrderDetail, error) {
	return r.details(func(o models.Order) bool { return !o.Date.Before(from) && !o.Date.After(to) }), nil
}

func (r *OrderRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.orders), nil
}

func (r *OrderRepository) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders = make(map[string]models.Order)
	return nil
}

func (r *OrderRepository) details(keep func(models.Order) bool) []models.OrderDetail {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.OrderDetail{}
	for _, o := range r.s.orders {
		if !keep(o) {
			continue
		}
		d := models.OrderDetail{Order: o}
		if v, ok := r.s.vendors[o.VendorID]; ok {
			d.VendorName, d.VendorColor = v.Name, v.Color
		}
		if m, ok := r.s.menuItems[o.MenuItemID]; ok {
			d.ItemName, d.ItemDescription, d.ItemPrice = m.Name, m.Description, m.Price
		}
		if u, ok := r.s.users[o.UserID]; ok {
			d.EmployeeID, d.UserName = u.EmployeeID, u.Name
			if dep, ok := r.s.departments[u.DepartmentID]; ok {
				d.DepartmentName = dep.Name
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}
