package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/webdiner/internal/clock"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
)

type OrderService struct {
	repos  Repositories
	clock  clock.Clock
	policy ordering.Policy
	events EventPublisher
	logger zerolog.Logger
	newID  func() string
}

func NewOrderService(repos Repositories, clk clock.Clock, policy ordering.Policy, opts ...Option) *OrderService {
	o := applyOptions(opts)
	return &OrderService{
		repos:  repos,
		clock:  clk,
		policy: policy,
		events: o.events,
		logger: o.logger,
		newID:  o.newID,
	}
}

func (s *OrderService) Now() time.Time { return s.clock.Now() }

func (s *OrderService) Policy() ordering.Policy { return s.policy }

// CreateOrder places a single order after checking, in order: holiday,
// cutoff, vendor, menu item and the one-order-per-day rule.
func (s *OrderService) CreateOrder(ctx context.Context, user models.User, sel models.Selection) (models.Order, error) {
	cal, err := loadCalendar(ctx, s.repos.SpecialDays, sel.Date, sel.Date)
	if err != nil {
		return models.Order{}, err
	}
	return s.create(ctx, user, sel, cal)
}

// CreateBatch places every acceptable selection and silently skips the
// rest. Only infrastructure failures are returned.
func (s *OrderService) CreateBatch(ctx context.Context, user models.User, sels []models.Selection) ([]models.Order, error) {
	created := []models.Order{}
	if len(sels) == 0 {
		return created, nil
	}

	from, to := sels[0].Date, sels[0].Date
	for _, sel := range sels[1:] {
		if sel.Date.Before(from) {
			from = sel.Date
		}
		if sel.Date.After(to) {
			to = sel.Date
		}
	}
	cal, err := loadCalendar(ctx, s.repos.SpecialDays, from, to)
	if err != nil {
		return created, err
	}

	for _, sel := range sels {
		order, err := s.create(ctx, user, sel, cal)
		if err != nil {
			if isRejection(err) {
				s.logger.Debug().Err(err).Str("user_id", user.ID).Stringer("date", sel.Date).Msg("batch entry skipped")
				continue
			}
			return created, err
		}
		created = append(created, order)
	}
	return created, nil
}

// CancelOrder removes one of the user's orders while its date is open.
func (s *OrderService) CancelOrder(ctx context.Context, user models.User, orderID string) (models.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != user.ID {
		return models.Order{}, models.ErrOrderNotFound
	}
	if !s.policy.CanCancel(order.Date, s.clock.Now()) {
		return models.Order{}, models.ErrPastCutoff
	}
	if err := s.repos.Orders.Delete(ctx, order.ID); err != nil {
		return models.Order{}, err
	}
	s.events.OrderCancelled(*order)
	return *order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, user models.User) ([]models.OrderDetail, error) {
	return s.repos.Orders.ListByUser(ctx, user.ID)
}

func (s *OrderService) MonthOrders(ctx context.Context, user models.User, month models.Month) ([]models.Order, error) {
	return s.repos.Orders.ListByUserRange(ctx, user.ID, month.First(), month.Last())
}

func (s *OrderService) SpecialDays(ctx context.Context) ([]models.SpecialDay, error) {
	return s.repos.SpecialDays.GetAll(ctx)
}

type CalendarDay struct {
	Date        models.Date        `json:"date"`
	Status      ordering.DayStatus `json:"status"`
	Description string             `json:"description,omitempty"`
	Cutoff      time.Time          `json:"cutoff"`
	CanCancel   bool               `json:"can_cancel"`
	Order       *models.Order      `json:"order"`
}

type MonthCalendar struct {
	Month        models.Month  `json:"month"`
	Now          time.Time     `json:"now"`
	MinOrderDate models.Date   `json:"min_order_date"`
	Days         []CalendarDay `json:"days"`
}

// MonthCalendar describes every day of month as seen by user at the
// current instant.
func (s *OrderService) MonthCalendar(ctx context.Context, user models.User, month models.Month) (MonthCalendar, error) {
	now := s.clock.Now()
	cal, err := loadCalendar(ctx, s.repos.SpecialDays, month.First(), month.Last())
	if err != nil {
		return MonthCalendar{}, err
	}
	orders, err := s.repos.Orders.ListByUserRange(ctx, user.ID, month.First(), month.Last())
	if err != nil {
		return MonthCalendar{}, err
	}
	existing := indexByDate(orders)

	out := MonthCalendar{Month: month, Now: now, MinOrderDate: s.policy.MinOrderDate(now)}
	for _, d := range month.Days() {
		day := CalendarDay{
			Date:   d,
			Status: s.policy.Status(d, now, cal),
			Cutoff: s.policy.Cutoff(d),
		}
		if sd, ok := cal.Lookup(d); ok {
			day.Description = sd.Description
		}
		if o, ok := existing[d]; ok {
			o := o
			day.Order = &o
			day.CanCancel = s.policy.CanCancel(d, now)
		}
		out.Days = append(out.Days, day)
	}
	return out, nil
}

type ReconcileInput struct {
	Month         models.Month
	Selections    []models.Selection
	Mode          ordering.Mode
	SkipUnchanged bool
}

type ReconcileResult struct {
	Plan    ordering.Plan       `json:"plan"`
	Created []models.Order      `json:"created"`
	Deleted []ordering.OrderRef `json:"deleted"`
	Skipped []models.Date       `json:"skipped"`
}

// ReconcileMonth moves the user's orders in a month towards the given
// selections. A *ordering.PartialBatchFailure is returned together with the
// result when some dates could not be written.
func (s *OrderService) ReconcileMonth(ctx context.Context, user models.User, in ReconcileInput) (ReconcileResult, error) {
	desired := make(map[models.Date]models.Selection, len(in.Selections))
	for _, sel := range in.Selections {
		if !in.Month.Contains(sel.Date) {
			return ReconcileResult{}, fmt.Errorf("%s is outside %s: %w", sel.Date, in.Month, models.ErrInvalidRange)
		}
		if _, dup := desired[sel.Date]; dup {
			return ReconcileResult{}, fmt.Errorf("%s is selected more than once: %w", sel.Date, models.ErrInvalidRange)
		}
		desired[sel.Date] = sel
	}

	from, to := in.Month.First(), in.Month.Last()
	cal, err := loadCalendar(ctx, s.repos.SpecialDays, from, to)
	if err != nil {
		return ReconcileResult{}, err
	}
	orders, err := s.repos.Orders.ListByUserRange(ctx, user.ID, from, to)
	if err != nil {
		return ReconcileResult{}, err
	}

	opts := []ordering.ReconcileOption{ordering.WithHolidays(cal)}
	if in.SkipUnchanged {
		opts = append(opts, ordering.SkipUnchanged())
	}
	plan := s.policy.Reconcile(indexByDate(orders), desired, s.clock.Now(), in.Mode, opts...)

	planned := make(map[models.Date]bool, len(plan.ToCreate))
	for _, sel := range plan.ToCreate {
		planned[sel.Date] = true
	}
	skipped := []models.Date{}
	for _, sel := range in.Selections {
		if !planned[sel.Date] {
			skipped = append(skipped, sel.Date)
		}
	}

	batch, err := plan.Apply(ctx, &planExecutor{svc: s, user: user, cal: cal})
	result := ReconcileResult{Plan: plan, Created: batch.Created, Deleted: batch.Deleted, Skipped: skipped}
	s.logBatch("reconcile", user, batch, err)
	return result, err
}

// ClearRange cancels every order of the user between from and to that is
// still open.
func (s *OrderService) ClearRange(ctx context.Context, user models.User, from, to models.Date) (ordering.BatchResult, error) {
	if to.Before(from) {
		return ordering.BatchResult{}, models.ErrInvalidRange
	}
	orders, err := s.repos.Orders.ListByUserRange(ctx, user.ID, from, to)
	if err != nil {
		return ordering.BatchResult{}, err
	}
	plan := ordering.Plan{ToDelete: s.policy.Cancellable(indexByDate(orders), s.clock.Now())}

	batch, err := plan.Apply(ctx, &planExecutor{svc: s, user: user})
	s.logBatch("clear", user, batch, err)
	return batch, err
}

func (s *OrderService) logBatch(op string, user models.User, batch ordering.BatchResult, err error) {
	var partial *ordering.PartialBatchFailure
	var ev *zerolog.Event
	switch {
	case errors.As(err, &partial):
		ev = s.logger.Warn().Int("failed", len(partial.Failed))
	case err != nil:
		ev = s.logger.Error().Err(err)
	default:
		ev = s.logger.Info()
	}
	ev.Str("op", op).Str("user_id", user.ID).
		Int("created", len(batch.Created)).Int("deleted", len(batch.Deleted)).
		Msg("order batch applied")
}

func (s *OrderService) create(ctx context.Context, user models.User, sel models.Selection, cal ordering.Calendar) (models.Order, error) {
	if err := s.validate(ctx, user, sel, cal); err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		ID:     s.newID(),
		UserID: user.ID,
		Date:   sel.Date,
		Status: models.OrderStatusPending,
	}
	if sel.NoOrder {
		order.Status = models.OrderStatusNoOrder
	} else {
		order.VendorID = sel.VendorID
		order.MenuItemID = sel.MenuItemID
	}
	if err := s.repos.Orders.Create(ctx, &order); err != nil {
		return models.Order{}, err
	}
	s.events.OrderPlaced(order)
	return order, nil
}

func (s *OrderService) validate(ctx context.Context, user models.User, sel models.Selection, cal ordering.Calendar) error {
	if cal.IsHoliday(sel.Date) {
		return models.ErrHoliday
	}
	if s.policy.IsPast(sel.Date, s.clock.Now()) {
		return models.ErrPastCutoff
	}

	if !sel.NoOrder {
		if sel.VendorID == "" || sel.MenuItemID == "" {
			return models.ErrVendorRequired
		}
		vendor, err := s.repos.Vendors.GetByID(ctx, sel.VendorID)
		if err != nil {
			return err
		}
		if !vendor.IsActive {
			return models.ErrVendorInactive
		}
		item, err := s.repos.MenuItems.GetByID(ctx, sel.MenuItemID)
		if err != nil {
			return err
		}
		if item.VendorID != vendor.ID || !item.IsActive {
			return models.ErrMenuItemNotFound
		}
		if !item.AvailableOn(sel.Date) {
			return models.ErrItemUnavailable
		}
	}

	_, err := s.repos.Orders.GetByUserAndDate(ctx, user.ID, sel.Date)
	switch {
	case err == nil:
		return models.ErrOrderExists
	case errors.Is(err, models.ErrOrderNotFound):
		return nil
	default:
		return err
	}
}

// planExecutor re-validates every operation of a plan against the store at
// the moment it runs.
type planExecutor struct {
	svc  *OrderService
	user models.User
	cal  ordering.Calendar
}

func (e *planExecutor) DeleteOrder(ctx context.Context, ref ordering.OrderRef) error {
	_, err := e.svc.CancelOrder(ctx, e.user, ref.ID)
	return err
}

func (e *planExecutor) CreateOrder(ctx context.Context, sel models.Selection) (models.Order, error) {
	return e.svc.create(ctx, e.user, sel, e.cal)
}

func indexByDate(orders []models.Order) map[models.Date]models.Order {
	m := make(map[models.Date]models.Order, len(orders))
	for _, o := range orders {
		m[o.Date] = o
	}
	return m
}
