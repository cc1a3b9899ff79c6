package app

import (
	"context"
	"errors"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"

	"github.com/chrisdamba/webdiner/internal/clock"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
	"github.com/chrisdamba/webdiner/internal/repositories"
)

// Repositories groups the storage ports the services depend on.
type Repositories struct {
	Users       repositories.UserRepository
	Departments repositories.DepartmentRepository
	Vendors     repositories.VendorRepository
	MenuItems   repositories.MenuItemRepository
	SpecialDays repositories.SpecialDayRepository
	Orders      repositories.OrderRepository
}

// EventPublisher receives order lifecycle notifications.
type EventPublisher interface {
	OrderPlaced(order models.Order)
	OrderCancelled(order models.Order)
	OrderOverridden(order models.Order)
	ReminderRequested(user models.User, date models.Date) error
}

type noopPublisher struct{}

func (noopPublisher) OrderPlaced(models.Order) {}
func (noopPublisher) OrderCancelled(models.Order) {}
func (noopPublisher) OrderOverridden(models.Order) {}
func (noopPublisher) ReminderRequested(models.User, models.Date) error { return nil }

type options struct {
	events EventPublisher
	logger zerolog.Logger
	newID  func() string
	debug  *clock.Adjustable
}

func defaultOptions() options {
	return options{
		events: noopPublisher{},
		logger: zerolog.Nop(),
		newID:  cuid.New,
	}
}

type Option func(*options)

func WithEvents(p EventPublisher) Option {
	return func(o *options) {
		if p != nil {
			o.events = p
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIDGenerator overrides cuid based identifiers, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithDebugClock enables the admin time override on the given clock.
func WithDebugClock(c *clock.Adjustable) Option {
	return func(o *options) { o.debug = c }
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func loadCalendar(ctx context.Context, repo repositories.SpecialDayRepository, from, to models.Date) (ordering.Calendar, error) {
	days, err := repo.GetRange(ctx, from, to)
	if err != nil {
		return ordering.Calendar{}, err
	}
	return ordering.NewCalendar(days), nil
}

var rejections = []error{
	models.ErrHoliday,
	models.ErrPastCutoff,
	models.ErrVendorRequired,
	models.ErrVendorNotFound,
	models.ErrVendorInactive,
	models.ErrMenuItemNotFound,
	models.ErrItemUnavailable,
	models.ErrOrderExists,
}

// isRejection reports whether err is a business rule refusal rather than
// an infrastructure failure.
func isRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
