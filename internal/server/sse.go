package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// PreviewEvent is one rendered preview
type PreviewEvent struct {
	Revision uint64
	Tree     *rendering.DisplayTree
}

// Hub fans preview updates out to stream subscribers. A slow subscriber only ever
// sees the newest preview; older undelivered ones are dropped.
type Hub struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan PreviewEvent
	latest *PreviewEvent
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan PreviewEvent)}
}

// Subscribe registers a subscriber. The current preview, if any, is queued immediately.
func (h *Hub) Subscribe() (int, <-chan PreviewEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan PreviewEvent, 1)
	if h.latest != nil {
		ch <- *h.latest
	}
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish records a new preview and offers it to every subscriber. Revisions older
// than the latest published one are ignored.
func (h *Hub) Publish(revision uint64, tree *rendering.DisplayTree) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.latest != nil && revision <= h.latest.Revision {
		return
	}
	ev := PreviewEvent{Revision: revision, Tree: tree}
	h.latest = &ev

	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}

// Subscribers returns the number of open subscriptions
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
