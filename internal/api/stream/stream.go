// Package stream implements the incrementally-flushed event channel a chat
// turn is served over.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/openloom/workspace-chat/internal/domain"
)

// ErrClosed is returned by writes against a closed channel
var ErrClosed = errors.New("stream: channel closed")

// Channel is an open server-sent-events connection. It is owned by exactly
// one chat session; Close is idempotent and writes after Close or after the
// client disconnects are best-effort failures, never panics.
type Channel struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu     sync.Mutex
	closed bool
}

// Open upgrades the response to a live event stream and flushes headers so
// the client starts receiving before any body bytes exist.
func Open(w http.ResponseWriter) *Channel {
	h := w.Header()
	h.Set("Cache-Control", "no-cache")
	h.Set("Content-Type", "text/event-stream")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")

	flusher, _ := w.(http.Flusher)
	w.WriteHeader(http.StatusOK)
	if flusher != nil {
		flusher.Flush()
	}

	return &Channel{w: w, flusher: flusher}
}

// Write serializes one event as a data frame and flushes it. Safe to call
// any number of times while the channel is open.
func (c *Channel) Write(event domain.ResponseEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("stream: failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(c.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("stream: failed to write event: %w", err)
	}
	if c.flusher != nil {
		c.flusher.Flush()
	}

	return nil
}

// Close ends the stream. Calling it again is a no-op.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether the channel has been closed
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
