package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/webdiner/internal/models"
)

type BatchOp string

const (
	OpCreate BatchOp = "create"
	OpDelete BatchOp = "delete"
)

// ErrReplaceAborted marks a create skipped because the delete it replaces
// failed.
var ErrReplaceAborted = errors.New("replacement skipped after failed delete")

type DateFailure struct {
	Date models.Date
	Op   BatchOp
	Err  error
}

// PartialBatchFailure reports a batch in which some dates were written and
// others were not. Nothing is rolled back.
type PartialBatchFailure struct {
	Succeeded []models.Date
	Failed    []DateFailure
}

func (e *PartialBatchFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "batch partially failed: %d succeeded, %d failed", len(e.Succeeded), len(e.Failed))
	for i, f := range e.Failed {
		if i == 3 {
			fmt.Fprintf(&b, "; and %d more", len(e.Failed)-i)
			break
		}
		fmt.Fprintf(&b, "; %s %s: %v", f.Date, f.Op, f.Err)
	}
	return b.String()
}

func (e *PartialBatchFailure) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f.Err
	}
	return errs
}

func (e *PartialBatchFailure) FailedDates() []models.Date {
	dates := make([]models.Date, len(e.Failed))
	for i, f := range e.Failed {
		dates[i] = f.Date
	}
	return dates
}

// Executor performs the individual store operations of a plan.
type Executor interface {
	DeleteOrder(ctx context.Context, ref OrderRef) error
	CreateOrder(ctx context.Context, sel models.Selection) (models.Order, error)
}

type BatchResult struct {
	Created []models.Order `json:"created"`
	Deleted []OrderRef     `json:"deleted"`
}

// Apply runs every deletion and then every creation of the plan. A date
// whose deletion failed does not get its replacement. The returned error is
// a *PartialBatchFailure when any operation failed.
func (p Plan) Apply(ctx context.Context, exec Executor) (BatchResult, error) {
	result := BatchResult{Created: []models.Order{}, Deleted: []OrderRef{}}
	failed := make(map[models.Date]bool)
	var failures []DateFailure
	var touched []models.Date
	seen := make(map[models.Date]bool)
	touch := func(d models.Date) {
		if !seen[d] {
			seen[d] = true
			touched = append(touched, d)
		}
	}

	for _, ref := range p.ToDelete {
		touch(ref.Date)
		if err := exec.DeleteOrder(ctx, ref); err != nil {
			failed[ref.Date] = true
			failures = append(failures, DateFailure{Date: ref.Date, Op: OpDelete, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, ref)
	}

	for _, sel := range p.ToCreate {
		touch(sel.Date)
		if failed[sel.Date] {
			failures = append(failures, DateFailure{Date: sel.Date, Op: OpCreate, Err: ErrReplaceAborted})
			continue
		}
		order, err := exec.CreateOrder(ctx, sel)
		if err != nil {
			failed[sel.Date] = true
			failures = append(failures, DateFailure{Date: sel.Date, Op: OpCreate, Err: err})
			continue
		}
		result.Created = append(result.Created, order)
	}

	if len(failures) == 0 {
		return result, nil
	}
	perr := &PartialBatchFailure{Succeeded: []models.Date{}, Failed: failures}
	for _, d := range touched {
		if !failed[d] {
			perr.Succeeded = append(perr.Succeeded, d)
		}
	}
	return result, perr
}
