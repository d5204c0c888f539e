package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"greenpark/internal/entities"
	"greenpark/internal/metrics"
	"greenpark/internal/service"
	"greenpark/internal/toast"
	"greenpark/internal/ui"
)

// formTimeLayout is the value format of datetime-local inputs.
const formTimeLayout = "2006-01-02T15:04"

const reservationAnchor = "/#reservation"

const checkoutRedirectNotice = "Redirection vers le paiement…"

type LandingHandler struct {
	backend  ReservationBackend
	toasts   *toast.Registry
	whatsApp *ui.WhatsAppButton
	metrics  *metrics.Metrics
	logger   *zap.Logger
	location *time.Location
}

// NewLandingHandler serves the landing page. whatsApp may be nil.
func NewLandingHandler(backend ReservationBackend, toasts *toast.Registry, whatsApp *ui.WhatsAppButton, m *metrics.Metrics, logger *zap.Logger) *LandingHandler {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		loc = time.UTC
	}
	return &LandingHandler{
		backend:  backend,
		toasts:   toasts,
		whatsApp: whatsApp,
		metrics:  m,
		logger:   logger,
		location: loc,
	}
}

func (h *LandingHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("session_id")
	canceled := r.URL.Query().Get("checkout") == "canceled"

	if sessionID != "" || canceled {
		h.dropCheckoutRedirects(ctx)
	}
	if sessionID != "" {
		ctx = h.paymentReturn(ctx, sessionID)
	}
	if canceled {
		h.raiseOnce(ctx, toast.KindInfo, "Paiement annulé. Votre réservation n'a pas été confirmée.")
	}

	page := ui.LandingPage{
		VehicleTypes: h.vehicleTypes(ctx),
		Form:         ui.ReservationForm{PaymentMethodID: ui.PaymentOnline, Language: "fr"},
		Toasts:       h.visibleToasts(ctx),
		WhatsApp:     h.whatsApp,
	}

	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		h.logger.Error("Error rendering landing page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Debug("Landing page write failed", zap.Error(err))
	}
}

// paymentReturn raises the toast for a visitor coming back from Stripe
// Checkout. The returned context marks the form pending while the payment
// is not confirmed yet.
func (h *LandingHandler) paymentReturn(ctx context.Context, sessionID string) context.Context {
	res, err := h.backend.GetReservationBySessionID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.logger.Error("Error fetching reservation by session", zap.String("session_id", sessionID), zap.Error(err))
		}
		h.raiseOnce(ctx, toast.KindError, "Réservation introuvable.")
		return ctx
	}
	switch {
	case service.PaymentSucceeded(res):
		h.raiseOnce(ctx, toast.KindSuccess, "Paiement confirmé ! Votre code de réservation est "+res.Code+".")
	case service.PaymentPending(res):
		h.raiseOnce(ctx, toast.KindInfo, "Paiement en cours de confirmation pour la réservation "+res.Code+".")
		ctx = ui.WithFormStatus(ctx, ui.FormStatus{Pending: true})
	default:
		h.raiseOnce(ctx, toast.KindInfo, "Réservation "+res.Code+" : "+service.StatusTranslation(res.Status, "fr")+".")
	}
	return ctx
}

// raiseOnce adds a toast unless the same one is still visible, so
// reloading a return URL does not stack copies.
func (h *LandingHandler) raiseOnce(ctx context.Context, kind toast.Kind, message string) {
	for _, n := range h.visibleToasts(ctx) {
		if n.Kind == kind && n.Message == message {
			return
		}
	}
	if _, err := toast.FromContext(ctx).Add(message, kind); err != nil {
		h.logger.Error("Error adding toast", zap.Error(err))
	}
}

// dropCheckoutRedirects removes the redirect notices of checkouts the
// visitor came back from.
func (h *LandingHandler) dropCheckoutRedirects(ctx context.Context) {
	m := toast.FromContext(ctx)
	for _, n := range h.visibleToasts(ctx) {
		if strings.HasSuffix(n.Message, checkoutRedirectNotice) {
			m.Remove(n.ID)
		}
	}
}

func (h *LandingHandler) vehicleTypes(ctx context.Context) []ui.Option {
	types, err := h.backend.GetVehicleTypes(ctx)
	if err != nil || len(types) == 0 {
		if err != nil {
			h.logger.Warn("Falling back to default vehicle types", zap.Error(err))
		}
		return ui.FallbackVehicleTypes()
	}
	out := make([]ui.Option, len(types))
	for i, vt := range types {
		out[i] = ui.Option{ID: vt.ID, Label: ui.VehicleLabel(vt.Name)}
	}
	return out
}

func (h *LandingHandler) visibleToasts(ctx context.Context) []toast.Notification {
	id, ok := toast.SessionFromContext(ctx)
	if !ok {
		return nil
	}
	store, ok := h.toasts.Lookup(id)
	if !ok {
		return nil
	}
	return store.List()
}

// Reserve handles the landing page form. Every outcome is reported as a
// toast.
func (h *LandingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	action := r.PostFormValue("action")
	if action != "check" {
		action = "reserve"
	}

	req, err := h.parseForm(r)
	if err != nil {
		h.metrics.ReservationForm(action, "invalid")
		toast.Error(ctx, err.Error())
		http.Redirect(w, r, reservationAnchor, http.StatusSeeOther)
		return
	}

	if action == "check" {
		h.check(w, r, req)
		return
	}

	checkout, err := h.backend.CreateReservation(ctx, req)
	if err != nil {
		h.metrics.ReservationForm(action, "error")
		toast.Error(ctx, h.userMessage(err))
		http.Redirect(w, r, reservationAnchor, http.StatusSeeOther)
		return
	}
	h.metrics.ReservationForm(action, "ok")
	toast.Success(ctx, "Réservation "+checkout.Code+" créée. "+checkoutRedirectNotice)
	http.Redirect(w, r, checkout.URL, http.StatusSeeOther)
}

func (h *LandingHandler) check(w http.ResponseWriter, r *http.Request, req *entities.ReservationRequest) {
	ctx := r.Context()
	resp, err := h.backend.CheckAvailability(ctx, entities.AvailabilityRequest{
		VehicleTypeID: req.VehicleTypeID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	switch {
	case err != nil:
		h.metrics.ReservationForm("check", "error")
		toast.Error(ctx, h.userMessage(err))
	case resp.IsOverallAvailable:
		h.metrics.ReservationForm("check", "available")
		toast.Info(ctx, "Places disponibles pour la période demandée.")
	default:
		h.metrics.ReservationForm("check", "unavailable")
		toast.Error(ctx, "Aucune place disponible pour la période demandée.")
	}
	http.Redirect(w, r, reservationAnchor, http.StatusSeeOther)
}

type formError string

func (e formError) Error() string { return string(e) }

func (h *LandingHandler) parseForm(r *http.Request) (*entities.ReservationRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, formError("Formulaire invalide.")
	}
	start, err := time.ParseInLocation(formTimeLayout, r.PostFormValue("start_time"), h.location)
	if err != nil {
		return nil, formError("Date d'arrivée invalide.")
	}
	end, err := time.ParseInLocation(formTimeLayout, r.PostFormValue("end_time"), h.location)
	if err != nil {
		return nil, formError("Date de départ invalide.")
	}
	vehicleTypeID, ok := ParseID(r.PostFormValue("vehicle_type_id"))
	if !ok {
		return nil, formError("Veuillez choisir un type de véhicule.")
	}
	paymentMethodID, ok := ParseID(r.PostFormValue("payment_method_id"))
	if !ok {
		paymentMethodID = ui.PaymentOnline
	}
	lang := strings.TrimSpace(r.PostFormValue("language"))
	if lang == "" {
		lang = "fr"
	}
	return &entities.ReservationRequest{
		VehicleTypeID:   vehicleTypeID,
		UserName:        r.PostFormValue("user_name"),
		UserEmail:       r.PostFormValue("user_email"),
		UserPhone:       r.PostFormValue("user_phone"),
		VehiclePlate:    r.PostFormValue("vehicle_plate"),
		VehicleModel:    r.PostFormValue("vehicle_model"),
		PaymentMethodID: paymentMethodID,
		StartTime:       start,
		EndTime:         end,
		Language:        lang,
	}, nil
}

// userMessage turns a backend error into the French toast text. Unknown
// errors are logged and reported generically.
func (h *LandingHandler) userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange):
		return "La date de départ doit être postérieure à la date d'arrivée."
	case errors.Is(err, service.ErrStartInPast):
		return "La date d'arrivée doit être dans le futur."
	case errors.Is(err, service.ErrUnknownVehicleType):
		return "Type de véhicule inconnu."
	case errors.Is(err, service.ErrUnsupportedPaymentMethod):
		return "Mode de paiement non pris en charge."
	case errors.Is(err, service.ErrMissingContact):
		return "Nom, e-mail et téléphone sont obligatoires."
	case errors.Is(err, service.ErrNotAvailable):
		return "Aucune place disponible pour la période demandée."
	}
	h.logger.Error("Reservation form failed", zap.Error(err))
	return "Une erreur est survenue. Veuillez réessayer."
}
