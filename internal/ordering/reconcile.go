package ordering

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chrisdamba/webdiner/internal/models"
)

type Mode int

const (
	// MergeMode only fills dates that have no order yet.
	MergeMode Mode = iota
	// ReplaceMode swaps existing open orders for the desired selection.
	ReplaceMode
)

func (m Mode) String() string {
	if m == ReplaceMode {
		return "replace"
	}
	return "merge"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "merge":
		return MergeMode, nil
	case "replace":
		return ReplaceMode, nil
	}
	return MergeMode, fmt.Errorf("unknown reconcile mode %q", s)
}

// OrderRef identifies a persisted order scheduled for deletion.
type OrderRef struct {
	ID   string      `json:"id"`
	Date models.Date `json:"date"`
}

// Plan is the set of store operations that moves existing orders towards
// the desired selections. Both lists are sorted by date. Deletions must be
// applied before creations.
type Plan struct {
	ToCreate []models.Selection `json:"to_create"`
	ToDelete []OrderRef         `json:"to_delete"`
}

func (p Plan) Empty() bool { return len(p.ToCreate) == 0 && len(p.ToDelete) == 0 }

func (p Plan) DeleteIDs() []string {
	ids := make([]string, len(p.ToDelete))
	for i, ref := range p.ToDelete {
		ids[i] = ref.ID
	}
	return ids
}

type reconcileConfig struct {
	calendar      *Calendar
	skipUnchanged bool
}

type ReconcileOption func(*reconcileConfig)

// WithHolidays drops holiday dates from the plan.
func WithHolidays(cal Calendar) ReconcileOption {
	return func(c *reconcileConfig) { c.calendar = &cal }
}

// SkipUnchanged leaves an existing order alone in replace mode when it
// already matches the selection for its date.
func SkipUnchanged() ReconcileOption {
	return func(c *reconcileConfig) { c.skipUnchanged = true }
}

// Reconcile computes the plan for one user's orders. Dates that are past at
// now never appear in the plan. The map key is authoritative for each
// selection's date. The result depends only on the arguments.
func (p Policy) Reconcile(
	existing map[models.Date]models.Order,
	desired map[models.Date]models.Selection,
	now time.Time,
	mode Mode,
	opts ...ReconcileOption,
) Plan {
	var cfg reconcileConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	plan := Plan{
		ToCreate: []models.Selection{},
		ToDelete: []OrderRef{},
	}
	for _, date := range sortedDates(desired) {
		if p.IsPast(date, now) {
			continue
		}
		if cfg.calendar != nil && cfg.calendar.IsHoliday(date) {
			continue
		}

		sel := desired[date]
		sel.Date = date

		current, has := existing[date]
		switch {
		case !has:
			plan.ToCreate = append(plan.ToCreate, sel)
		case mode == ReplaceMode:
			if cfg.skipUnchanged && sel.Matches(current) {
				continue
			}
			plan.ToDelete = append(plan.ToDelete, OrderRef{ID: current.ID, Date: date})
			plan.ToCreate = append(plan.ToCreate, sel)
		}
	}
	return plan
}

// Cancellable lists the existing orders that may still be cancelled at
// now, in date order.
func (p Policy) Cancellable(existing map[models.Date]models.Order, now time.Time) []OrderRef {
	refs := []OrderRef{}
	for _, date := range sortedDates(existing) {
		if p.CanCancel(date, now) {
			refs = append(refs, OrderRef{ID: existing[date].ID, Date: date})
		}
	}
	return refs
}

func sortedDates[V any](m map[models.Date]V) []models.Date {
	dates := make([]models.Date, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
