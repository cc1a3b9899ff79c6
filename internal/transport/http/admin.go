package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrisdamba/webdiner/internal/app"
	"github.com/chrisdamba/webdiner/internal/models"
)

type dateRequest struct {
	Date models.Date `json:"date"`
}

type remindersResponse struct {
	Date   models.Date `json:"date"`
	Sent   int         `json:"sent"`
	Errors []string    `json:"errors"`
}

type debugTimeRequest struct {
	Time time.Time `json:"time"`
}

// dateQuery reads ?date=YYYY-MM-DD, defaulting to today.
func (h *handler) dateQuery(w http.ResponseWriter, r *http.Request) (models.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.Admin.Today(), true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, err.Error())
		return models.Date{}, false
	}
	return d, true
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	d, ok := h.dateQuery(w, r)
	if !ok {
		return
	}
	stats, err := h.Admin.Stats(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handler) missingUsers(w http.ResponseWriter, r *http.Request) {
	d, ok := h.dateQuery(w, r)
	if !ok {
		return
	}
	users, err := h.Admin.MissingUsers(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) sendReminders(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Date.IsZero() {
		req.Date = h.Admin.Today()
	}

	sent, err := h.Admin.SendReminders(r.Context(), req.Date)
	resp := remindersResponse{Date: req.Date, Sent: sent, Errors: []string{}}
	if err != nil {
		joined, ok := err.(interface{ Unwrap() []error })
		if !ok {
			writeServiceError(w, r, err)
			return
		}
		for _, e := range joined.Unwrap() {
			resp.Errors = append(resp.Errors, e.Error())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if skip < 0 {
		skip = 0
	}
	users, err := h.Admin.ListUsers(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Admin.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in app.UserInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	u, err := h.Admin.CreateUser(r.Context(), currentUser(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var in app.UserUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	u, err := h.Admin.UpdateUser(r.Context(), currentUser(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.DeleteUser(r.Context(), currentUser(r), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.Admin.ListDepartments(r.Context(), r.URL.Query().Get("include_inactive") == "true")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deps)
}

func (h *handler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var in app.DepartmentInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	d, err := h.Admin.CreateDepartment(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *handler) updateDepartment(w http.ResponseWriter, r *http.Request) {
	var in app.DepartmentUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	d, err := h.Admin.UpdateDepartment(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handler) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.DeleteDepartment(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) dailyDetails(w http.ResponseWriter, r *http.Request) {
	d, ok := h.dateQuery(w, r)
	if !ok {
		return
	}
	details, err := h.Admin.DailyDetails(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *handler) setUserOrder(w http.ResponseWriter, r *http.Request) {
	var in app.UserOrderInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	order, err := h.Admin.SetUserOrder(r.Context(), currentUser(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if order == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *handler) listSpecialDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.Admin.ListSpecialDays(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *handler) upsertSpecialDay(w http.ResponseWriter, r *http.Request) {
	var in models.SpecialDay
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	day, err := h.Admin.UpsertSpecialDay(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (h *handler) deleteSpecialDay(w http.ResponseWriter, r *http.Request) {
	d, err := models.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, err.Error())
		return
	}
	if err := h.Admin.DeleteSpecialDay(r.Context(), d); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) announcement(w http.ResponseWriter, r *http.Request) {
	d, ok := h.dateQuery(w, r)
	if !ok {
		return
	}
	ann, err := h.Admin.Announcement(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ann)
}

func (h *handler) debugTime(w http.ResponseWriter, r *http.Request) {
	dt, err := h.Admin.DebugTime(currentUser(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dt)
}

func (h *handler) setDebugTime(w http.ResponseWriter, r *http.Request) {
	var req debugTimeRequest
	if err := decodeJSON(r, &req); err != nil || req.Time.IsZero() {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "time must be an RFC 3339 timestamp")
		return
	}
	dt, err := h.Admin.SetDebugTime(currentUser(r), req.Time)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dt)
}

func (h *handler) resetDebugTime(w http.ResponseWriter, r *http.Request) {
	dt, err := h.Admin.ResetDebugTime(currentUser(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dt)
}
