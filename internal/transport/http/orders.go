package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chrisdamba/webdiner/internal/app"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
)

type batchRequest struct {
	Orders []models.Selection `json:"orders"`
}

type reconcileRequest struct {
	Mode          string             `json:"mode"`
	SkipUnchanged bool               `json:"skip_unchanged"`
	Selections    []models.Selection `json:"selections"`
}

type clearRequest struct {
	From models.Date `json:"from"`
	To   models.Date `json:"to"`
}

type batchResponse struct {
	Created []models.Order      `json:"created"`
	Deleted []ordering.OrderRef `json:"deleted"`
	Skipped []models.Date       `json:"skipped,omitempty"`
	Failed  []batchFailure      `json:"failed"`
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListOrders(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var sel models.Selection
	if err := decodeJSON(r, &sel); err != nil {
		writeDecodeError(w, err)
		return
	}
	if sel.Date.IsZero() {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "date is required")
		return
	}
	order, err := h.Orders.CreateOrder(r.Context(), currentUser(r), sel)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *handler) createBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	created, err := h.Orders.CreateBatch(r.Context(), currentUser(r), req.Orders)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.Metrics.ObserveBatch(len(created), 0, false)
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.CancelOrder(r.Context(), currentUser(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *handler) specialDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.Orders.SpecialDays(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *handler) monthOrders(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	orders, err := h.Orders.MonthOrders(r.Context(), currentUser(r), month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *handler) monthCalendar(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	cal, err := h.Orders.MonthCalendar(r.Context(), currentUser(r), month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

// reconcileMonth answers 200 even when some dates failed; the failures are
// listed in the body so the client can retry them.
func (h *handler) reconcileMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	var req reconcileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	mode, err := ordering.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidMode, err.Error())
		return
	}

	res, err := h.Orders.ReconcileMonth(r.Context(), currentUser(r), app.ReconcileInput{
		Month:         month,
		Selections:    req.Selections,
		Mode:          mode,
		SkipUnchanged: req.SkipUnchanged,
	})
	failed, partial := partialFailures(err)
	if err != nil && !partial {
		writeServiceError(w, r, err)
		return
	}
	h.Metrics.ObserveBatch(len(res.Created), len(res.Deleted), partial)
	writeJSON(w, http.StatusOK, batchResponse{
		Created: res.Created,
		Deleted: res.Deleted,
		Skipped: res.Skipped,
		Failed:  nonNil(failed),
	})
}

func (h *handler) clearOrders(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.From.IsZero() || req.To.IsZero() {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "from and to are required")
		return
	}

	res, err := h.Orders.ClearRange(r.Context(), currentUser(r), req.From, req.To)
	failed, partial := partialFailures(err)
	if err != nil && !partial {
		writeServiceError(w, r, err)
		return
	}
	h.Metrics.ObserveBatch(0, len(res.Deleted), partial)
	writeJSON(w, http.StatusOK, batchResponse{
		Created: res.Created,
		Deleted: res.Deleted,
		Failed:  nonNil(failed),
	})
}

func monthParam(w http.ResponseWriter, r *http.Request) (models.Month, bool) {
	month, err := models.ParseMonth(mux.Vars(r)["month"])
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidMonth, err.Error())
		return models.Month{}, false
	}
	return month, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
