package httpinterface

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// streamEvents upgrades the connection to a websocket and pushes every event
// committed from now on, optionally only those of the vault given as query
// param.
func (h *handler) streamEvents(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var vault domain.Address
	if v := r.URL.Query().Get("vault"); v != "" {
		addr, err := parseAddress(v)
		if err != nil {
			writeError(w, err)
			return
		}
		vault = addr
	}

	// listen before completing the handshake so that the client does not
	// miss any event committed right after connecting
	events, stop := h.pubsubSvc.Listen()
	defer stop()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied to the client
		log.WithError(err).Debug("http: failed to upgrade connection")
		return
	}
	defer conn.Close()

	// the read loop only handles control messages and detects when the client
	// goes away
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		//nolint
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				//nolint
				conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(writeWait),
				)
				return
			}
			if !vault.IsZero() && event.Vault != vault {
				continue
			}
			//nolint
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				log.WithError(err).Debug("http: failed to write event to stream")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(
				websocket.PingMessage, nil, time.Now().Add(writeWait),
			); err != nil {
				return
			}
		}
	}
}
