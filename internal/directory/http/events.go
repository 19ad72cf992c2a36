package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/synkcrm/sessiond/internal/directory/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	eventWriteTimeout = 10 * time.Second
	eventPingInterval = 30 * time.Second
)

// EventsHandler serves GET /v1/auth/events, a websocket stream of session
// transitions. Events carry no secrets; clients use them purely as a signal
// to re-derive their state through authenticated calls.
type EventsHandler struct {
	Events *service.EventHub
	Logger *slog.Logger
}

// ServeHTTP godoc
//
//	@Summary		Session Change Stream
//	@Description	Upgrades to a websocket and streams session transitions (SIGNED_IN,
//	@Description	SIGNED_OUT, TOKEN_REFRESHED) as JSON messages until the client disconnects.
//	@Tags			Auth
//	@Success		101	"switching protocols"
//	@Router			/v1/auth/events [get].
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	events, cancel := h.Events.Subscribe()
	defer cancel()

	// Reader goroutine: the client never sends application messages, but
	// reading is what surfaces close frames and connection loss.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(eventPingInterval)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
