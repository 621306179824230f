// Package transport exposes the AG-UI HTTP surface: the run endpoints with
// SSE streaming, the health check and CORS for browser clients.  The run
// handler is the outermost error boundary; malformed requests answer with
// 500 and {"error": ...} rather than an aborted stream.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/viant/agui/protocol"
	"github.com/viant/agui/service/messaging"
)

// Dispatcher runs a single agent turn, streaming events onto the returned
// queue until a terminal event.
type Dispatcher interface {
	Run(ctx context.Context, input *protocol.RunInput) messaging.Queue[protocol.Event]
}

// Handler serves run requests over HTTP.
type Handler struct {
	dispatcher Dispatcher
	origins    []string
}

// Option customises the handler.
type Option func(*Handler)

// WithAllowedOrigins overrides the CORS origin allow-list.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.origins = origins
		}
	}
}

// New builds the HTTP handler: POST / and POST /agent stream agent runs,
// GET /health reports liveness.
func New(dispatcher Dispatcher, options ...Option) http.Handler {
	handler := &Handler{dispatcher: dispatcher, origins: DefaultAllowedOrigins}
	for _, option := range options {
		option(handler)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handler.handleHealth)
	mux.HandleFunc("/agent", handler.handleRun)
	mux.HandleFunc("/", handler.handleRun)
	return cors(handler.origins, mux)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"protocol": "ag-ui",
		"features": []string{"hitl", "state_sync"},
	})
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/agent" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	input, err := Normalize(body)
	if err != nil {
		writeError(w, err)
		return
	}

	queue := h.dispatcher.Run(r.Context(), input)

	header := w.Header()
	header.Set("Content-Type", protocol.ContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for {
		message, err := queue.Consume(r.Context())
		if err != nil {
			// client went away mid-stream
			return
		}
		event := message.T()
		_ = message.Ack()
		if err := protocol.WriteEvent(w, event); err != nil {
			log.Printf("[transport] failed to write %v event: %v", event.Type, err)
			return
		}
		if event.IsTerminal() {
			return
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
