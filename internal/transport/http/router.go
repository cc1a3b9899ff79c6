package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/chrisdamba/webdiner/internal/app"
	"github.com/chrisdamba/webdiner/internal/metrics"
	"github.com/chrisdamba/webdiner/internal/models"
)

// API bundles what the handlers need.
type API struct {
	Orders  *app.OrderService
	Vendors *app.VendorService
	Admin   *app.AdminService
	Users   UserLookup
	Metrics *metrics.Registry
}

type handler struct {
	API
}

// NewRouter wires every route and the middleware chain.
func NewRouter(api API, cfg models.HTTPConfig, logger zerolog.Logger) http.Handler {
	if api.Metrics == nil {
		api.Metrics = metrics.NewRegistry()
	}
	h := &handler{API: api}

	r := mux.NewRouter()
	r.Use(Metrics(api.Metrics))
	r.NotFoundHandler = NotFoundHandler()
	r.MethodNotAllowedHandler = MethodNotAllowedHandler()

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", api.Metrics.Handler()).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(Authenticate(api.Users))

	orders := apiRouter.PathPrefix("/orders").Subrouter()
	orders.HandleFunc("", h.listOrders).Methods(http.MethodGet)
	orders.HandleFunc("", h.createOrder).Methods(http.MethodPost)
	orders.HandleFunc("/batch", h.createBatch).Methods(http.MethodPost)
	orders.HandleFunc("/clear", h.clearOrders).Methods(http.MethodPost)
	orders.HandleFunc("/special_days", h.specialDays).Methods(http.MethodGet)
	orders.HandleFunc("/month/{month}", h.monthOrders).Methods(http.MethodGet)
	orders.HandleFunc("/month/{month}/reconcile", h.reconcileMonth).Methods(http.MethodPost)
	orders.HandleFunc("/calendar/{month}", h.monthCalendar).Methods(http.MethodGet)
	orders.HandleFunc("/{id}", h.cancelOrder).Methods(http.MethodDelete)

	vendors := apiRouter.PathPrefix("/vendors").Subrouter()
	vendors.HandleFunc("", h.listVendors).Methods(http.MethodGet)
	vendors.Handle("", adminOnly(h.createVendor)).Methods(http.MethodPost)
	vendors.HandleFunc("/available/{date}", h.availableVendors).Methods(http.MethodGet)
	vendors.HandleFunc("/{id}", h.getVendor).Methods(http.MethodGet)
	vendors.Handle("/{id}", adminOnly(h.updateVendor)).Methods(http.MethodPut)
	vendors.Handle("/{id}", adminOnly(h.deleteVendor)).Methods(http.MethodDelete)
	vendors.HandleFunc("/{id}/menu", h.listMenu).Methods(http.MethodGet)
	vendors.Handle("/{id}/menu", adminOnly(h.createMenuItem)).Methods(http.MethodPost)
	vendors.Handle("/{id}/menu/{itemId}", adminOnly(h.updateMenuItem)).Methods(http.MethodPut)
	vendors.Handle("/{id}/menu/{itemId}", adminOnly(h.deleteMenuItem)).Methods(http.MethodDelete)

	admin := apiRouter.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin)
	admin.HandleFunc("/stats", h.stats).Methods(http.MethodGet)
	admin.HandleFunc("/reminders/missing", h.missingUsers).Methods(http.MethodGet)
	admin.HandleFunc("/reminders/send", h.sendReminders).Methods(http.MethodPost)
	admin.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", h.getUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.updateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", h.deleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/departments", h.listDepartments).Methods(http.MethodGet)
	admin.HandleFunc("/departments", h.createDepartment).Methods(http.MethodPost)
	admin.HandleFunc("/departments/{id}", h.updateDepartment).Methods(http.MethodPut)
	admin.HandleFunc("/departments/{id}", h.deleteDepartment).Methods(http.MethodDelete)
	admin.HandleFunc("/orders/daily_details", h.dailyDetails).Methods(http.MethodGet)
	admin.HandleFunc("/orders/user_order", h.setUserOrder).Methods(http.MethodPut)
	admin.HandleFunc("/special_days", h.listSpecialDays).Methods(http.MethodGet)
	admin.HandleFunc("/special_days", h.upsertSpecialDay).Methods(http.MethodPost)
	admin.HandleFunc("/special_days/{date}", h.deleteSpecialDay).Methods(http.MethodDelete)
	admin.HandleFunc("/order_announcement", h.announcement).Methods(http.MethodGet)
	admin.HandleFunc("/debug/time", h.debugTime).Methods(http.MethodGet)
	admin.HandleFunc("/debug/time", h.setDebugTime).Methods(http.MethodPut)
	admin.HandleFunc("/debug/time", h.resetDebugTime).Methods(http.MethodDelete)

	var out http.Handler = r
	out = Timeout(cfg.RequestTimeout, out)
	out = CORS(cfg.CORSOrigins, out)
	out = RequestLogger(out)
	out = RequestID(logger, out)
	return out
}

func adminOnly(fn http.HandlerFunc) http.Handler {
	return RequireAdmin(fn)
}

// currentUser is only called behind Authenticate.
func currentUser(r *http.Request) models.User {
	u, _ := UserFrom(r.Context())
	return u
}
