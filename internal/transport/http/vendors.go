package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chrisdamba/webdiner/internal/app"
	"github.com/chrisdamba/webdiner/internal/models"
)

// listVendors shows inactive vendors to administrators asking for them.
func (h *handler) listVendors(w http.ResponseWriter, r *http.Request) {
	includeInactive := currentUser(r).Role.IsAdmin() && r.URL.Query().Get("include_inactive") == "true"
	vendors, err := h.Vendors.ListVendors(r.Context(), includeInactive)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *handler) getVendor(w http.ResponseWriter, r *http.Request) {
	v, err := h.Vendors.GetVendor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var in app.VendorInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	v, err := h.Vendors.CreateVendor(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	var in app.VendorUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	v, err := h.Vendors.UpdateVendor(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.Vendors.DeleteVendor(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listMenu(w http.ResponseWriter, r *http.Request) {
	includeInactive := currentUser(r).Role.IsAdmin() && r.URL.Query().Get("include_inactive") == "true"
	items, err := h.Vendors.ListMenu(r.Context(), mux.Vars(r)["id"], includeInactive)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var in app.MenuItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	item, err := h.Vendors.CreateMenuItem(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in app.MenuItemUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	vars := mux.Vars(r)
	item, err := h.Vendors.UpdateMenuItem(r.Context(), vars["id"], vars["itemId"], in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.Vendors.DeleteMenuItem(r.Context(), vars["id"], vars["itemId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) availableVendors(w http.ResponseWriter, r *http.Request) {
	d, err := models.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, err.Error())
		return
	}
	menus, err := h.Vendors.Available(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}
