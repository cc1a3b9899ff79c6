package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/webdiner/internal/clock"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
	"github.com/chrisdamba/webdiner/internal/repositories/memory"
)

var taipei = time.FixedZone("CST", 8*3600)

// Monday 2024-06-10, one hour before the cutoff.
var testNow = time.Date(2024, time.June, 10, 8, 0, 0, 0, taipei)

func date(y int, m time.Month, d int) models.Date { return models.NewDate(y, m, d) }

func intPtr(v int) *int { return &v }

type recordingPublisher struct {
	mu         sync.Mutex
	placed     []models.Order
	cancelled  []models.Order
	overridden []models.Order
	reminded   []string
	failRemind map[string]error
}

func (r *recordingPublisher) OrderPlaced(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed = append(r.placed, o)
}

func (r *recordingPublisher) OrderCancelled(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, o)
}

func (r *recordingPublisher) OrderOverridden(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overridden = append(r.overridden, o)
}

func (r *recordingPublisher) ReminderRequested(u models.User, _ models.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failRemind[u.EmployeeID]; err != nil {
		return err
	}
	r.reminded = append(r.reminded, u.EmployeeID)
	return nil
}

type fixture struct {
	store  *memory.Store
	repos  Repositories
	policy ordering.Policy
	clock  *clock.Adjustable
	events *recordingPublisher
	seq    int

	user, other, admin, sysadmin models.User

	vendor, noodles, closed models.Vendor
	daily, monday, ramen    models.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	f := &fixture{
		store: store,
		repos: Repositories{
			Users:       store.Users,
			Departments: store.Departments,
			Vendors:     store.Vendors,
			MenuItems:   store.MenuItems,
			SpecialDays: store.SpecialDays,
			Orders:      store.Orders,
		},
		policy: ordering.NewPolicy(taipei, ordering.DefaultCutoffHour),
		clock:  clock.NewAdjustable(clock.NewFixed(testNow)),
		events: &recordingPublisher{},
	}

	dep := &models.Department{ID: "dep-eng", Name: "Engineering", IsActive: true}
	require.NoError(t, store.Departments.Create(ctx, dep))

	users := []*models.User{
		{ID: "u1", EmployeeID: "E001", Name: "Alice", Role: models.RoleUser, DepartmentID: dep.ID, IsActive: true},
		{ID: "u2", EmployeeID: "E002", Name: "Bob", Role: models.RoleUser, IsActive: true},
		{ID: "adm", EmployeeID: "A001", Name: "Ada", Role: models.RoleAdmin, IsActive: true},
		{ID: "sys", EmployeeID: "S001", Name: "Sam", Role: models.RoleSysAdmin, IsActive: true},
	}
	require.NoError(t, store.Users.BulkCreate(ctx, users))
	f.user, f.other, f.admin, f.sysadmin = *users[0], *users[1], *users[2], *users[3]

	vendors := []*models.Vendor{
		{ID: "v1", Name: "Bento Box", Color: "#EF4444", IsActive: true},
		{ID: "v2", Name: "Noodle House", Color: "#10B981", IsActive: true},
		{ID: "v3", Name: "Closed Diner", Color: models.DefaultVendorColor, IsActive: false},
	}
	require.NoError(t, store.Vendors.BulkCreate(ctx, vendors))
	f.vendor, f.noodles, f.closed = *vendors[0], *vendors[1], *vendors[2]

	items := []*models.MenuItem{
		{ID: "i1", VendorID: "v1", Name: "Chicken Bento", Price: 100, IsActive: true},
		{ID: "i2", VendorID: "v1", Name: "Monday Curry", Price: 120, Weekday: intPtr(0), IsActive: true},
		{ID: "i3", VendorID: "v2", Name: "Ramen", Price: 90, IsActive: true},
		{ID: "i4", VendorID: "v3", Name: "Stale Toast", Price: 10, IsActive: true},
	}
	require.NoError(t, store.MenuItems.BulkCreate(ctx, items))
	f.daily, f.monday, f.ramen = *items[0], *items[1], *items[2]

	return f
}

func (f *fixture) opts() []Option {
	return []Option{
		WithEvents(f.events),
		WithIDGenerator(func() string {
			f.seq++
			return fmt.Sprintf("id-%d", f.seq)
		}),
	}
}

func (f *fixture) orders() *OrderService {
	return NewOrderService(f.repos, f.clock, f.policy, f.opts()...)
}

func (f *fixture) vendors() *VendorService {
	return NewVendorService(f.repos, f.opts()...)
}

func (f *fixture) adminService(debug bool) *AdminService {
	opts := f.opts()
	if debug {
		opts = append(opts, WithDebugClock(f.clock))
	}
	return NewAdminService(f.repos, f.clock, f.policy, opts...)
}

// seedOrder stores an order directly, bypassing every business rule.
func (f *fixture) seedOrder(t *testing.T, id string, user models.User, d models.Date, item models.MenuItem) models.Order {
	t.Helper()
	o := models.Order{ID: id, UserID: user.ID, Date: d, VendorID: item.VendorID, MenuItemID: item.ID, Status: models.OrderStatusPending}
	require.NoError(t, f.store.Orders.Create(context.Background(), &o))
	return o
}
