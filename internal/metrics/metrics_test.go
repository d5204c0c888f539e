package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpark/internal/toast"
)

func TestToastListener(t *testing.T) {
	m := New()
	s := toast.NewStore(toast.WithListener(m.ToastListener()))

	id, err := s.Add("ok", toast.KindSuccess)
	require.NoError(t, err)
	_, err = s.Add("ko", toast.KindError)
	require.NoError(t, err)
	s.Remove(id)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.toastEvents.WithLabelValues("added", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toastEvents.WithLabelValues("added", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toastEvents.WithLabelValues("removed", "success")))
}

func TestGaugesAndHandler(t *testing.T) {
	m := New()
	m.ReservationForm("check", "available")
	m.SetToastSessions(3)
	m.StreamOpened()
	m.StreamOpened()
	m.StreamClosed()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.toastSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.streamClients))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `greenpark_reservation_form_submissions_total{action="check",outcome="available"} 1`)
}
