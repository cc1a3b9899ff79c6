package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/webdiner/internal/clock"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
)

// AdminService backs the back-office screens: people, departments,
// calendar overrides, daily reporting and order overrides.
type AdminService struct {
	repos  Repositories
	clock  clock.Clock
	policy ordering.Policy
	events EventPublisher
	logger zerolog.Logger
	newID  func() string
	debug  *clock.Adjustable
}

func NewAdminService(repos Repositories, clk clock.Clock, policy ordering.Policy, opts ...Option) *AdminService {
	o := applyOptions(opts)
	return &AdminService{
		repos:  repos,
		clock:  clk,
		policy: policy,
		events: o.events,
		logger: o.logger,
		newID:  o.newID,
		debug:  o.debug,
	}
}

// Today is the current date in the ordering zone.
func (s *AdminService) Today() models.Date {
	return s.policy.Today(s.clock.Now())
}

type UserInput struct {
	EmployeeID       string      `json:"employee_id"`
	Name             string      `json:"name"`
	Extension        string      `json:"extension"`
	Email            string      `json:"email"`
	Role             models.Role `json:"role"`
	DepartmentID     string      `json:"department_id"`
	Title            string      `json:"title"`
	IsDepartmentHead bool        `json:"is_department_head"`
}

type UserUpdate struct {
	EmployeeID       *string      `json:"employee_id"`
	Name             *string      `json:"name"`
	Extension        *string      `json:"extension"`
	Email            *string      `json:"email"`
	Role             *models.Role `json:"role"`
	DepartmentID     *string      `json:"department_id"`
	Title            *string      `json:"title"`
	IsDepartmentHead *bool        `json:"is_department_head"`
	IsActive         *bool        `json:"is_active"`
}

func (s *AdminService) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	return s.repos.Users.GetAll(ctx, skip, limit)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repos.Users.GetByID(ctx, id)
}

// CreateUser registers a new employee. Only a sysadmin may hand out an
// administrator role.
func (s *AdminService) CreateUser(ctx context.Context, actor models.User, in UserInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, models.ErrInvalidRole
	}
	if role.IsAdmin() && actor.Role != models.RoleSysAdmin {
		return nil, models.ErrForbidden
	}
	employeeID, name := strings.TrimSpace(in.EmployeeID), strings.TrimSpace(in.Name)
	if employeeID == "" || name == "" {
		return nil, models.ErrNameRequired
	}

	u := &models.User{
		ID:               s.newID(),
		EmployeeID:       employeeID,
		Name:             name,
		Extension:        strings.TrimSpace(in.Extension),
		Email:            strings.TrimSpace(in.Email),
		Role:             role,
		DepartmentID:     in.DepartmentID,
		Title:            strings.TrimSpace(in.Title),
		IsDepartmentHead: in.IsDepartmentHead,
		IsActive:         true,
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("actor", actor.EmployeeID).Str("employee_id", u.EmployeeID).Str("role", string(u.Role)).Msg("user created")
	return u, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, actor models.User, id string, in UserUpdate) (*models.User, error) {
	u, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardAdminTarget(actor, *u); err != nil {
		return nil, err
	}

	if in.EmployeeID != nil {
		v := strings.TrimSpace(*in.EmployeeID)
		if v == "" {
			return nil, models.ErrNameRequired
		}
		u.EmployeeID = v
	}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return nil, models.ErrNameRequired
		}
		u.Name = v
	}
	if in.Extension != nil {
		u.Extension = strings.TrimSpace(*in.Extension)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, models.ErrInvalidRole
		}
		if in.Role.IsAdmin() && actor.Role != models.RoleSysAdmin {
			return nil, models.ErrForbidden
		}
		u.Role = *in.Role
	}
	if in.DepartmentID != nil {
		u.DepartmentID = *in.DepartmentID
	}
	if in.Title != nil {
		u.Title = strings.TrimSpace(*in.Title)
	}
	if in.IsDepartmentHead != nil {
		u.IsDepartmentHead = *in.IsDepartmentHead
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes the user and every order they hold.
func (s *AdminService) DeleteUser(ctx context.Context, actor models.User, id string) error {
	if actor.ID == id {
		return models.ErrForbidden
	}
	u, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := guardAdminTarget(actor, *u); err != nil {
		return err
	}
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("actor", actor.EmployeeID).Str("employee_id", u.EmployeeID).Msg("user deleted")
	return nil
}

// guardAdminTarget stops plain admins from touching other administrators.
func guardAdminTarget(actor, target models.User) error {
	if target.Role.IsAdmin() && actor.Role != models.RoleSysAdmin {
		return models.ErrForbidden
	}
	return nil
}

type DepartmentInput struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

type DepartmentUpdate struct {
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

func (s *AdminService) ListDepartments(ctx context.Context, includeInactive bool) ([]*models.Department, error) {
	return s.repos.Departments.GetAll(ctx, !includeInactive)
}

// CreateDepartment reactivates a previously deleted department of the same
// name instead of creating a duplicate.
func (s *AdminService) CreateDepartment(ctx context.Context, in DepartmentInput) (*models.Department, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.ErrNameRequired
	}

	existing, err := s.repos.Departments.GetByName(ctx, name)
	switch {
	case err == nil && existing.IsActive:
		return nil, models.ErrDepartmentExists
	case err == nil:
		existing.IsActive = true
		existing.DisplayOrder = in.DisplayOrder
		if err := s.repos.Departments.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, models.ErrDepartmentNotFound):
		return nil, err
	}

	d := &models.Department{ID: s.newID(), Name: name, DisplayOrder: in.DisplayOrder, IsActive: true}
	if err := s.repos.Departments.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *AdminService) UpdateDepartment(ctx context.Context, id string, in DepartmentUpdate) (*models.Department, error) {
	d, err := s.repos.Departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.ErrNameRequired
		}
		d.Name = name
	}
	if in.DisplayOrder != nil {
		d.DisplayOrder = *in.DisplayOrder
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if err := s.repos.Departments.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *AdminService) DeleteDepartment(ctx context.Context, id string) error {
	active := false
	_, err := s.UpdateDepartment(ctx, id, DepartmentUpdate{IsActive: &active})
	return err
}

func (s *AdminService) ListSpecialDays(ctx context.Context) ([]models.SpecialDay, error) {
	return s.repos.SpecialDays.GetAll(ctx)
}

// UpsertSpecialDay creates or replaces the override for day.Date.
func (s *AdminService) UpsertSpecialDay(ctx context.Context, day models.SpecialDay) (models.SpecialDay, error) {
	if day.Date.IsZero() {
		return models.SpecialDay{}, models.ErrInvalidDate
	}
	if day.ID == "" {
		day.ID = s.newID()
	}
	day.Description = strings.TrimSpace(day.Description)
	if err := s.repos.SpecialDays.Upsert(ctx, &day); err != nil {
		return models.SpecialDay{}, err
	}
	return day, nil
}

func (s *AdminService) DeleteSpecialDay(ctx context.Context, date models.Date) error {
	return s.repos.SpecialDays.DeleteByDate(ctx, date)
}

// Stats totals the orders of date per vendor and menu item. Vendors are
// ranked by revenue, items by popularity.
func (s *AdminService) Stats(ctx context.Context, date models.Date) (models.DailyStats, error) {
	details, err := s.repos.Orders.ListDetailsByRange(ctx, date, date)
	if err != nil {
		return models.DailyStats{}, err
	}

	stats := models.DailyStats{Date: date, Vendors: []models.VendorStat{}}
	vendors := map[string]*models.VendorStat{}
	items := map[string]map[string]*models.ItemStat{}
	for _, d := range details {
		if d.IsNoOrder() {
			stats.NoOrders++
			continue
		}
		stats.TotalOrders++
		stats.TotalAmount += d.ItemPrice

		vs, ok := vendors[d.VendorID]
		if !ok {
			vs = &models.VendorStat{VendorID: d.VendorID, Name: d.VendorName, Color: d.VendorColor}
			vendors[d.VendorID] = vs
			items[d.VendorID] = map[string]*models.ItemStat{}
		}
		vs.Orders++
		vs.Total += d.ItemPrice

		is, ok := items[d.VendorID][d.MenuItemID]
		if !ok {
			is = &models.ItemStat{MenuItemID: d.MenuItemID, Name: d.ItemName, Price: d.ItemPrice}
			items[d.VendorID][d.MenuItemID] = is
		}
		is.Count++
		is.Total += d.ItemPrice
	}

	for id, vs := range vendors {
		for _, is := range items[id] {
			vs.Items = append(vs.Items, *is)
		}
		sort.Slice(vs.Items, func(i, j int) bool {
			if vs.Items[i].Count != vs.Items[j].Count {
				return vs.Items[i].Count > vs.Items[j].Count
			}
			return vs.Items[i].Name < vs.Items[j].Name
		})
		stats.Vendors = append(stats.Vendors, *vs)
	}
	sort.Slice(stats.Vendors, func(i, j int) bool {
		if stats.Vendors[i].Total != stats.Vendors[j].Total {
			return stats.Vendors[i].Total > stats.Vendors[j].Total
		}
		return stats.Vendors[i].Name < stats.Vendors[j].Name
	})
	return stats, nil
}

// DailyDetails lists every active user with their order for date.
func (s *AdminService) DailyDetails(ctx context.Context, date models.Date) ([]models.DailyDetail, error) {
	users, err := s.repos.Users.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	byUser, err := s.ordersByUser(ctx, date)
	if err != nil {
		return nil, err
	}
	departments, err := s.departmentNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyDetail, 0, len(users))
	for _, u := range users {
		dd := models.DailyDetail{
			UserID:         u.ID,
			EmployeeID:     u.EmployeeID,
			Name:           u.Name,
			DepartmentName: departments[u.DepartmentID],
		}
		if o, ok := byUser[u.ID]; ok {
			o := o
			dd.Order = &o
		}
		out = append(out, dd)
	}
	return out, nil
}

type UserOrderInput struct {
	UserID     string      `json:"user_id"`
	Date       models.Date `json:"date"`
	VendorID   string      `json:"vendor_id"`
	MenuItemID string      `json:"menu_item_id"`
	NoOrder    bool        `json:"no_order"`
	Cancel     bool        `json:"cancel"`
}

// SetUserOrder lets an administrator set or cancel any user's order for a
// date regardless of the cutoff. A set order is recorded as confirmed.
func (s *AdminService) SetUserOrder(ctx context.Context, actor models.User, in UserOrderInput) (*models.Order, error) {
	if in.Date.IsZero() {
		return nil, models.ErrInvalidDate
	}
	if _, err := s.repos.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	if in.Cancel {
		existing, err := s.repos.Orders.GetByUserAndDate(ctx, in.UserID, in.Date)
		if err != nil {
			return nil, err
		}
		if err := s.repos.Orders.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		s.events.OrderCancelled(*existing)
		s.logger.Info().Str("actor", actor.EmployeeID).Str("user_id", in.UserID).Stringer("date", in.Date).Msg("order cancelled by admin")
		return nil, nil
	}

	order := &models.Order{
		ID:     s.newID(),
		UserID: in.UserID,
		Date:   in.Date,
		Status: models.OrderStatusConfirmed,
	}
	if in.NoOrder {
		order.Status = models.OrderStatusNoOrder
	} else {
		if in.VendorID == "" || in.MenuItemID == "" {
			return nil, models.ErrVendorRequired
		}
		if _, err := s.repos.Vendors.GetByID(ctx, in.VendorID); err != nil {
			return nil, err
		}
		item, err := s.repos.MenuItems.GetByID(ctx, in.MenuItemID)
		if err != nil {
			return nil, err
		}
		if item.VendorID != in.VendorID {
			return nil, models.ErrMenuItemNotFound
		}
		order.VendorID, order.MenuItemID = in.VendorID, in.MenuItemID
	}
	if err := s.repos.Orders.Upsert(ctx, order); err != nil {
		return nil, err
	}
	s.events.OrderOverridden(*order)
	s.logger.Info().Str("actor", actor.EmployeeID).Str("user_id", in.UserID).Stringer("date", in.Date).Msg("order set by admin")
	return order, nil
}

// Announcement groups the orders of date per menu item, ready to be read
// out or posted. Items are sorted by vendor then name; people keep
// employee id order.
func (s *AdminService) Announcement(ctx context.Context, date models.Date) (models.Announcement, error) {
	details, err := s.repos.Orders.ListDetailsByRange(ctx, date, date)
	if err != nil {
		return models.Announcement{}, err
	}

	out := models.Announcement{Date: date, Items: []models.AnnouncementItem{}}
	index := map[string]int{}
	for _, d := range details {
		if d.IsNoOrder() {
			continue
		}
		i, ok := index[d.MenuItemID]
		if !ok {
			i = len(out.Items)
			index[d.MenuItemID] = i
			out.Items = append(out.Items, models.AnnouncementItem{
				VendorName: d.VendorName,
				ItemName:   d.ItemName,
				Price:      d.ItemPrice,
				People:     []string{},
			})
		}
		out.Items[i].Count++
		out.Items[i].People = append(out.Items[i].People, d.UserName)
		out.TotalOrders++
		out.TotalAmount += d.ItemPrice
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		if out.Items[i].VendorName != out.Items[j].VendorName {
			return out.Items[i].VendorName < out.Items[j].VendorName
		}
		return out.Items[i].ItemName < out.Items[j].ItemName
	})
	return out, nil
}

// MissingUsers returns the active users that hold no record at all for
// date. A no-order record counts as an answer.
func (s *AdminService) MissingUsers(ctx context.Context, date models.Date) ([]*models.User, error) {
	users, err := s.repos.Users.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	byUser, err := s.ordersByUser(ctx, date)
	if err != nil {
		return nil, err
	}
	out := []*models.User{}
	for _, u := range users {
		if _, ok := byUser[u.ID]; !ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// SendReminders publishes a reminder for every missing user and returns
// how many were sent. Individual failures are joined into the error.
func (s *AdminService) SendReminders(ctx context.Context, date models.Date) (int, error) {
	users, err := s.MissingUsers(ctx, date)
	if err != nil {
		return 0, err
	}
	sent := 0
	var errs []error
	for _, u := range users {
		if err := s.events.ReminderRequested(*u, date); err != nil {
			errs = append(errs, fmt.Errorf("remind %s: %w", u.EmployeeID, err))
			continue
		}
		sent++
	}
	s.logger.Info().Stringer("date", date).Int("sent", sent).Int("failed", len(errs)).Msg("reminders sent")
	return sent, errors.Join(errs...)
}

type DebugTime struct {
	Now     time.Time     `json:"now"`
	Local   string        `json:"local"`
	Offset  time.Duration `json:"offset"`
	Enabled bool          `json:"enabled"`
}

func (s *AdminService) DebugTime(actor models.User) (DebugTime, error) {
	if actor.Role != models.RoleSysAdmin {
		return DebugTime{}, models.ErrForbidden
	}
	now := s.clock.Now()
	out := DebugTime{
		Now:     now,
		Local:   now.In(s.policy.Location()).Format(time.RFC3339),
		Enabled: s.debug != nil,
	}
	if s.debug != nil {
		out.Offset = s.debug.Offset()
	}
	return out, nil
}

// SetDebugTime moves the service clock so that it reads t.
func (s *AdminService) SetDebugTime(actor models.User, t time.Time) (DebugTime, error) {
	if actor.Role != models.RoleSysAdmin {
		return DebugTime{}, models.ErrForbidden
	}
	if s.debug == nil {
		return DebugTime{}, models.ErrTimeOverrideOff
	}
	s.debug.Set(t)
	s.logger.Warn().Str("actor", actor.EmployeeID).Time("at", t).Msg("clock overridden")
	return s.DebugTime(actor)
}

func (s *AdminService) ResetDebugTime(actor models.User) (DebugTime, error) {
	if actor.Role != models.RoleSysAdmin {
		return DebugTime{}, models.ErrForbidden
	}
	if s.debug == nil {
		return DebugTime{}, models.ErrTimeOverrideOff
	}
	s.debug.Reset()
	return s.DebugTime(actor)
}

func (s *AdminService) ordersByUser(ctx context.Context, date models.Date) (map[string]models.OrderDetail, error) {
	details, err := s.repos.Orders.ListDetailsByRange(ctx, date, date)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.OrderDetail, len(details))
	for _, d := range details {
		m[d.UserID] = d
	}
	return m, nil
}

func (s *AdminService) departmentNames(ctx context.Context) (map[string]string, error) {
	deps, err := s.repos.Departments.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(deps))
	for _, d := range deps {
		m[d.ID] = d.Name
	}
	return m, nil
}
