package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	liveBuffer   = 4
	writeTimeout = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// liveHandler pushes the application status to WebSocket clients after
// every frame. Clients that fall behind skip frames.
type liveHandler struct {
	source StatusSource
	log    zerolog.Logger
}

func newLiveHandler(source StatusSource, log zerolog.Logger) *liveHandler {
	return &liveHandler{source: source, log: log}
}

func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.source.Subscribe(liveBuffer)
	defer unsubscribe()

	// The read side only detects the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				unsubscribe()
				return
			}
		}
	}()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(h.source.Status()); err != nil {
		return
	}

	for status := range updates {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(status); err != nil {
			h.log.Debug().Err(err).Msg("live client dropped")
			return
		}
	}
}
