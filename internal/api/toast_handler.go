package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"greenpark/internal/metrics"
	"greenpark/internal/toast"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type ToastHandler struct {
	toasts   *toast.Registry
	metrics  *metrics.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewToastHandler(toasts *toast.Registry, m *metrics.Metrics, logger *zap.Logger) *ToastHandler {
	return &ToastHandler{
		toasts:  toasts,
		metrics: m,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Dismiss removes a toast of the visitor. Unknown ids succeed.
func (h *ToastHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	toast.FromContext(r.Context()).Remove(mux.Vars(r)["id"])

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept") {
		if strings.Contains(v, "application/json") {
			return true
		}
	}
	return false
}

// Stream pushes the visitor's toast list over a websocket after every
// change.
func (h *ToastHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id, ok := toast.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "no toast session", http.StatusBadRequest)
		return
	}
	store := h.toasts.Get(id)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}
	h.metrics.StreamOpened()
	defer h.metrics.StreamClosed()

	// Only the latest snapshot matters, so a slow client skips the
	// intermediate ones.
	snapshots := make(chan []toast.Notification, 1)
	push := func(list []toast.Notification) {
		select {
		case snapshots <- list:
		default:
			select {
			case <-snapshots:
			default:
			}
			select {
			case snapshots <- list:
			default:
			}
		}
	}
	cancel := store.Subscribe(func(ev toast.Event) { push(ev.Snapshot) })
	defer cancel()
	push(store.List())

	closed := make(chan struct{})
	go h.readPump(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case list := <-snapshots:
			if list == nil {
				list = []toast.Notification{}
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(list); err != nil {
				h.logger.Debug("Toast stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readPump consumes control frames until the client goes away.
func (h *ToastHandler) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
