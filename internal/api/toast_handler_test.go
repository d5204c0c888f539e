package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpark/internal/toast"
)

func TestDismiss(t *testing.T) {
	f := newLandingFixture()
	store := f.toasts.Get(testSession)
	first, err := store.Add("first", toast.KindInfo)
	require.NoError(t, err)
	second, err := store.Add("second", toast.KindError)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/toasts/"+first+"/dismiss", nil)
	req.Header.Set("Accept", "application/json")
	rec := f.do(req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"error: second"}, f.messages())

	req = httptest.NewRequest(http.MethodPost, "/toasts/"+second+"/dismiss", nil)
	req.Header.Set("Referer", "/?checkout=canceled")
	rec = f.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?checkout=canceled", rec.Header().Get("Location"))
	assert.Empty(t, f.messages())

	rec = f.do(httptest.NewRequest(http.MethodPost, "/toasts/unknown/dismiss", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestStream(t *testing.T) {
	f := newLandingFixture()
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	header := http.Header{}
	header.Set("Cookie", toast.CookieName+"="+testSession)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/toasts/stream", header)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var list []toast.Notification
	require.NoError(t, conn.ReadJSON(&list))
	assert.Empty(t, list)

	id, err := f.toasts.Get(testSession).Add("Réservation créée", toast.KindSuccess)
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, toast.KindSuccess, list[0].Kind)
}
