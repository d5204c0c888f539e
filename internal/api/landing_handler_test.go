package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"greenpark/internal/entities"
	"greenpark/internal/metrics"
	"greenpark/internal/service"
	"greenpark/internal/toast"
	"greenpark/internal/ui"
)

const testSession = "6f1c1f5e-2f47-4c39-9a55-7f7f3f0a5b21"

type landingFixture struct {
	router  *mux.Router
	backend *fakeBackend
	toasts  *toast.Registry
}

func newLandingFixture() *landingFixture {
	b := newFakeBackend()
	reg := toast.NewRegistry()
	m := metrics.New()
	landing := NewLandingHandler(b, reg, &ui.WhatsAppButton{Phone: "393331234567"}, m, zap.NewNop())
	toasts := NewToastHandler(reg, m, zap.NewNop())

	r := mux.NewRouter()
	r.Use(toast.Middleware(reg))
	r.HandleFunc("/", landing.Index).Methods(http.MethodGet)
	r.HandleFunc("/reserve", landing.Reserve).Methods(http.MethodPost)
	r.HandleFunc("/toasts/stream", toasts.Stream).Methods(http.MethodGet)
	r.HandleFunc("/toasts/{id}/dismiss", toasts.Dismiss).Methods(http.MethodPost)
	return &landingFixture{router: r, backend: b, toasts: reg}
}

func (f *landingFixture) do(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: toast.CookieName, Value: testSession})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *landingFixture) messages() []string {
	var out []string
	for _, n := range f.toasts.Get(testSession).List() {
		out = append(out, string(n.Kind)+": "+n.Message)
	}
	return out
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/reserve", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func reservationForm(action string) url.Values {
	return url.Values{
		"action":            {action},
		"start_time":        {"2026-07-01T08:30"},
		"end_time":          {"2026-07-03T18:00"},
		"vehicle_type_id":   {"1"},
		"user_name":         {"Ada Lovelace"},
		"user_email":        {"ada@example.com"},
		"user_phone":        {"+393331234567"},
		"vehicle_plate":     {"AB123CD"},
		"vehicle_model":     {"Fiat Panda"},
		"payment_method_id": {"1"},
		"language":          {"fr"},
	}
}

func TestIndex_AssignsSession(t *testing.T) {
	f := newLandingFixture()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, toast.CookieName, cookies[0].Name)

	body := rec.Body.String()
	assert.Contains(t, body, "Voiture")
	assert.Contains(t, body, "Moto")
	assert.Contains(t, body, "https://wa.me/393331234567?text=")
	assert.Contains(t, body, `id="toaster"`)
}

func TestIndex_FallbackVehicleTypes(t *testing.T) {
	f := newLandingFixture()
	f.backend.typesErr = errBoom

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUV / Van")
}

func TestIndex_PaymentReturn(t *testing.T) {
	f := newLandingFixture()
	f.backend.bySession["cs_paid"] = &entities.ReservationResponse{Code: "ABCD1234", Status: "active", PaymentStatus: "succeeded"}
	f.backend.bySession["cs_wait"] = &entities.ReservationResponse{Code: "WAIT0001", Status: "pending", PaymentStatus: "pending"}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/?session_id=cs_paid", nil))
	assert.Contains(t, rec.Body.String(), "Paiement confirmé ! Votre code de réservation est ABCD1234.")
	assert.NotContains(t, rec.Body.String(), `aria-busy="true"`)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/?session_id=cs_wait", nil))
	assert.Contains(t, rec.Body.String(), "Paiement en cours de confirmation pour la réservation WAIT0001.")
	assert.Contains(t, rec.Body.String(), `aria-busy="true"`)

	f.do(httptest.NewRequest(http.MethodGet, "/?session_id=cs_unknown", nil))
	assert.Contains(t, f.messages(), "error: Réservation introuvable.")
}

func TestReserve_Check(t *testing.T) {
	f := newLandingFixture()

	rec := f.do(postForm(reservationForm("check")))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#reservation", rec.Header().Get("Location"))
	assert.Equal(t, []string{"info: Places disponibles pour la période demandée."}, f.messages())
	assert.Nil(t, f.backend.createdReq)

	f.backend.available = false
	f.do(postForm(reservationForm("check")))
	assert.Contains(t, f.messages(), "error: Aucune place disponible pour la période demandée.")
}

func TestReserve_RedirectsToCheckout(t *testing.T) {
	f := newLandingFixture()

	rec := f.do(postForm(reservationForm("reserve")))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", rec.Header().Get("Location"))

	req := f.backend.createdReq
	require.NotNil(t, req)
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	assert.True(t, req.StartTime.Equal(time.Date(2026, 7, 1, 8, 30, 0, 0, rome)))
	assert.Equal(t, service.PaymentMethodOnSite, req.PaymentMethodID)
	assert.Equal(t, "Ada Lovelace", req.UserName)
	assert.Equal(t, []string{"success: Réservation ABCD1234 créée. Redirection vers le paiement…"}, f.messages())
}

func TestReserve_Errors(t *testing.T) {
	f := newLandingFixture()
	values := reservationForm("reserve")
	values.Set("start_time", "tomorrow")

	rec := f.do(postForm(values))
	assert.Equal(t, "/#reservation", rec.Header().Get("Location"))
	assert.Equal(t, []string{"error: Date d'arrivée invalide."}, f.messages())

	f.backend.createErr = service.ErrNotAvailable
	f.do(postForm(reservationForm("reserve")))
	assert.Contains(t, f.messages(), "error: Aucune place disponible pour la période demandée.")

	f.backend.createErr = errBoom
	f.do(postForm(reservationForm("reserve")))
	assert.Contains(t, f.messages(), "error: Une erreur est survenue. Veuillez réessayer.")
}

func TestIndex_ReloadingReturnURLShowsOneToast(t *testing.T) {
	f := newLandingFixture()
	f.backend.bySession["cs_paid"] = &entities.ReservationResponse{Code: "ABCD1234", Status: "active", PaymentStatus: "succeeded"}

	for i := 0; i < 3; i++ {
		f.do(httptest.NewRequest(http.MethodGet, "/?session_id=cs_paid", nil))
	}
	for i := 0; i < 2; i++ {
		f.do(httptest.NewRequest(http.MethodGet, "/?checkout=canceled", nil))
	}
	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{
		"success: Paiement confirmé ! Votre code de réservation est ABCD1234.",
		"info: Paiement annulé. Votre réservation n'a pas été confirmée.",
	}, f.messages())
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "Paiement confirmé !"))
}

func TestIndex_ReturnFromCheckoutDropsRedirectNotice(t *testing.T) {
	f := newLandingFixture()
	f.backend.bySession["cs_1"] = &entities.ReservationResponse{Code: "ABCD1234", Status: "active", PaymentStatus: "succeeded"}

	f.do(postForm(reservationForm("reserve")))
	require.Equal(t, []string{"success: Réservation ABCD1234 créée. Redirection vers le paiement…"}, f.messages())

	f.do(httptest.NewRequest(http.MethodGet, "/?session_id=cs_1", nil))
	assert.Equal(t, []string{"success: Paiement confirmé ! Votre code de réservation est ABCD1234."}, f.messages())
}

type failingWriter struct {
	header http.Header
}

func (w *failingWriter) Header() http.Header       { return w.header }
func (w *failingWriter) WriteHeader(int)           {}
func (w *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestIndex_LogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := toast.NewRegistry()
	h := NewLandingHandler(newFakeBackend(), reg, nil, metrics.New(), zap.New(core))

	w := &failingWriter{header: http.Header{}}
	toast.Middleware(reg)(http.HandlerFunc(h.Index)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	entries := logs.FilterMessage("Landing page write failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}
