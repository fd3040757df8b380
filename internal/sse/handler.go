package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/logger"
)

// Handler streams garden events. ?user= narrows the stream to one garden and
// ?types= to a comma separated list of event types.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		rc := http.NewResponseController(w)

		userID := r.URL.Query().Get(QueryParamUser)
		var eventTypes []string
		if filter := r.URL.Query().Get(QueryParamTypes); filter != "" {
			eventTypes = strings.Split(filter, ",")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		client := hub.Register(userID, eventTypes)
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"user_id", userID,
			"filters", eventTypes,
			"total_clients", hub.ClientCount())
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		send := func(e Event) bool {
			msg, err := FormatSSEMessage(e)
			if err != nil {
				log.Error(LogMsgWriteError, "error", err)
				return true
			}
			_ = rc.SetWriteDeadline(time.Now().Add(WriteTimeout))
			if _, err := w.Write(msg); err != nil {
				log.Warn(LogMsgWriteError, "error", err)
				return false
			}
			if err := rc.Flush(); err != nil {
				slog.Warn(LogMsgStreamUnsupported, "error", err)
				return false
			}
			return true
		}

		connected := Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			UserID:    userID,
			Timestamp: time.Now().UnixMilli(),
			Payload: map[string]interface{}{
				"client_id": client.ID,
				"filters":   eventTypes,
			},
		}
		if !send(connected) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					return
				}
				if !send(event) {
					return
				}

			case <-ticker.C:
				if !send(Event{Type: EventTypeKeepalive, Timestamp: time.Now().UnixMilli()}) {
					return
				}
			}
		}
	}
}
