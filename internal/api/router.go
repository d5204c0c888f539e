package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"greenpark/internal/auth"
	"greenpark/internal/metrics"
	"greenpark/internal/toast"
)

// Routes groups the handlers mounted by NewRouter.
type Routes struct {
	Landing   *LandingHandler
	Toasts    *ToastHandler
	Users     *UserReservationHandler
	Admin     *AdminHandler
	Stripe    *StripeWebhookHandler
	Registry  *toast.Registry
	Metrics   *metrics.Metrics
	JWTSecret string
	// Health reports whether the server can serve requests.
	Health func(ctx context.Context) error
}

func NewRouter(rt Routes) *mux.Router {
	r := mux.NewRouter()
	withToasts := toast.Middleware(rt.Registry)

	// Landing page
	r.Handle("/", withToasts(http.HandlerFunc(rt.Landing.Index))).Methods(http.MethodGet)
	r.Handle("/reserve", withToasts(http.HandlerFunc(rt.Landing.Reserve))).Methods(http.MethodPost)
	r.Handle("/toasts/stream", withToasts(http.HandlerFunc(rt.Toasts.Stream))).Methods(http.MethodGet)
	r.Handle("/toasts/{id}/dismiss", withToasts(http.HandlerFunc(rt.Toasts.Dismiss))).Methods(http.MethodPost)

	// Public endpoints
	r.HandleFunc("/api/vehicle-types", rt.Users.GetVehicleTypes).Methods(http.MethodGet)
	r.HandleFunc("/api/prices", rt.Users.GetPrices).Methods(http.MethodGet)
	r.HandleFunc("/api/availability", rt.Users.CheckAvailability).Methods(http.MethodPost)
	r.HandleFunc("/api/reservations", rt.Users.CreateReservation).Methods(http.MethodPost)
	r.HandleFunc("/api/reservations/session", rt.Users.GetReservationBySessionID).Methods(http.MethodGet)
	r.HandleFunc("/api/reservations/{code}", rt.Users.GetReservation).Methods(http.MethodPost)
	r.HandleFunc("/api/reservations/{code}", rt.Users.CancelReservation).Methods(http.MethodDelete)
	r.HandleFunc("/api/stripe/webhook", rt.Stripe.HandleWebhook).Methods(http.MethodPost)

	// Admin endpoints
	r.HandleFunc("/admin/login", rt.Admin.Login).Methods(http.MethodPost)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(rt.JWTSecret))
	admin.HandleFunc("/reservations", rt.Admin.ListReservations).Methods(http.MethodGet)
	admin.HandleFunc("/users", rt.Admin.CreateUserAdmin).Methods(http.MethodPost)

	r.Handle("/metrics", rt.Metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if rt.Health != nil {
			if err := rt.Health(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
