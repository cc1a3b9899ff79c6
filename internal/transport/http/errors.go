package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
)

const (
	codeNotFound             = "not_found"
	codeMethodNotAllowed     = "method_not_allowed"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidDate          = "invalid_date"
	codeInvalidMonth         = "invalid_month"
	codeInvalidMode          = "invalid_mode"
	codeInvalidRange         = "invalid_range"
	codeUnauthenticated      = "unauthenticated"
	codeForbidden            = "forbidden"
	codeOrderNotFound        = "order_not_found"
	codeOrderExists          = "order_exists"
	codePastCutoff           = "past_cutoff"
	codeHoliday              = "holiday"
	codeVendorRequired       = "vendor_required"
	codeVendorNotFound       = "vendor_not_found"
	codeVendorInactive       = "vendor_inactive"
	codeVendorExists         = "vendor_exists"
	codeMenuItemNotFound     = "menu_item_not_found"
	codeItemUnavailable      = "item_unavailable"
	codeInvalidWeekday       = "invalid_weekday"
	codeInvalidPrice         = "invalid_price"
	codeNameRequired         = "name_required"
	codeUserNotFound         = "user_not_found"
	codeUserExists           = "user_exists"
	codeInvalidRole          = "invalid_role"
	codeDepartmentNotFound   = "department_not_found"
	codeDepartmentExists     = "department_exists"
	codeSpecialDayNotFound   = "special_day_not_found"
	codeTimeOverrideDisabled = "time_override_disabled"
	codeTimeout              = "timeout"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{models.ErrOrderNotFound, http.StatusNotFound, codeOrderNotFound},
	{models.ErrVendorNotFound, http.StatusNotFound, codeVendorNotFound},
	{models.ErrMenuItemNotFound, http.StatusNotFound, codeMenuItemNotFound},
	{models.ErrUserNotFound, http.StatusNotFound, codeUserNotFound},
	{models.ErrDepartmentNotFound, http.StatusNotFound, codeDepartmentNotFound},
	{models.ErrSpecialDayNotFound, http.StatusNotFound, codeSpecialDayNotFound},
	{models.ErrOrderExists, http.StatusConflict, codeOrderExists},
	{models.ErrVendorExists, http.StatusConflict, codeVendorExists},
	{models.ErrUserExists, http.StatusConflict, codeUserExists},
	{models.ErrDepartmentExists, http.StatusConflict, codeDepartmentExists},
	{models.ErrPastCutoff, http.StatusBadRequest, codePastCutoff},
	{models.ErrHoliday, http.StatusBadRequest, codeHoliday},
	{models.ErrVendorRequired, http.StatusBadRequest, codeVendorRequired},
	{models.ErrVendorInactive, http.StatusBadRequest, codeVendorInactive},
	{models.ErrItemUnavailable, http.StatusBadRequest, codeItemUnavailable},
	{models.ErrInvalidWeekday, http.StatusBadRequest, codeInvalidWeekday},
	{models.ErrInvalidPrice, http.StatusBadRequest, codeInvalidPrice},
	{models.ErrNameRequired, http.StatusBadRequest, codeNameRequired},
	{models.ErrInvalidRole, http.StatusBadRequest, codeInvalidRole},
	{models.ErrInvalidRange, http.StatusBadRequest, codeInvalidRange},
	{models.ErrInvalidDate, http.StatusBadRequest, codeInvalidDate},
	{models.ErrUserInactive, http.StatusUnauthorized, codeUnauthenticated},
	{models.ErrForbidden, http.StatusForbidden, codeForbidden},
	{models.ErrTimeOverrideOff, http.StatusForbidden, codeTimeOverrideDisabled},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, codeTimeout},
}

// writeServiceError translates a service error into a JSON error response.
// Unknown errors are logged and reported as internal.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

type batchFailure struct {
	Date  models.Date      `json:"date"`
	Op    ordering.BatchOp `json:"op"`
	Error string           `json:"error"`
}

// partialFailures extracts the per-date failures of a partially applied
// batch. ok is false for any other error.
func partialFailures(err error) (failed []batchFailure, ok bool) {
	var partial *ordering.PartialBatchFailure
	if !errors.As(err, &partial) {
		return nil, false
	}
	failed = make([]batchFailure, 0, len(partial.Failed))
	for _, f := range partial.Failed {
		failed = append(failed, batchFailure{Date: f.Date, Op: f.Op, Error: f.Err.Error()})
	}
	return failed, true
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeDecodeError reports a body that could not be decoded. A malformed
// date keeps its own code so clients can point at the offending field.
func writeDecodeError(w http.ResponseWriter, err error) {
	var invalidDate *models.InvalidDateError
	if errors.As(err, &invalidDate) {
		writeError(w, http.StatusBadRequest, codeInvalidDate, invalidDate.Error())
		return
	}
	writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
}
