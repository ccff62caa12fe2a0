package language

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"privatelives/internal/handler/http/respond"
	"privatelives/internal/observability/logging"
)

const msgLiveUnavailable = "Live transcription is not available"

// LiveHandler is the placeholder for streaming transcription. Every method,
// WebSocket upgrades included, gets 501.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if websocket.IsWebSocketUpgrade(r) {
		logging.FromContext(r.Context()).Info("websocket upgrade refused",
			slog.String("path", r.URL.Path))
	}
	respond.Message(w, http.StatusNotImplemented, msgLiveUnavailable)
}
