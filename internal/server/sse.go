package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// sseRingBufferSize is the number of recent events kept in memory for
	// Last-Event-ID reconnection support.
	sseRingBufferSize = 256

	// sseKeepaliveInterval is how often keepalive comments are sent to
	// prevent connection timeouts.
	sseKeepaliveInterval = 15 * time.Second
)

// sseEvent is a single event stored in the ring buffer and sent to SSE clients.
type sseEvent struct {
	ID    uint64 // monotonically increasing sequence number
	Topic string
	Data  []byte // JSON-encoded payload
}

// sseHub fans published events out to connected SSE clients and keeps the
// most recent ones for replay.
type sseHub struct {
	mu      sync.Mutex
	clients map[*sseClient]struct{}
	nextID  uint64
	ring    []sseEvent // oldest first, at most sseRingBufferSize
}

// sseClient represents a single connected SSE consumer.
type sseClient struct {
	topics []string       // topic patterns to match (empty = all)
	ch     chan *sseEvent // buffered channel for event delivery
}

func newSSEHub() *sseHub {
	return &sseHub{clients: make(map[*sseClient]struct{})}
}

// broadcast sends an event to all connected clients whose topic filters
// match. Slow clients drop events rather than block the publisher.
func (h *sseHub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	evt := sseEvent{ID: h.nextID, Topic: topic, Data: payload}
	if len(h.ring) == sseRingBufferSize {
		h.ring = append(h.ring[:0], h.ring[1:]...)
	}
	h.ring = append(h.ring, evt)

	for c := range h.clients {
		if c.matchesTopic(topic) {
			select {
			case c.ch <- &evt:
			default:
			}
		}
	}
}

// subscribe registers a new SSE client and returns it. Call unsubscribe when done.
func (h *sseHub) subscribe(topics []string) *sseClient {
	c := &sseClient{topics: topics, ch: make(chan *sseEvent, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *sseHub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// subscribeAfter registers a client and returns, in the same critical
// section, the buffered events with ID > lastID that match its topics. An
// event is therefore either in the backlog or delivered on the channel,
// never both.
func (h *sseHub) subscribeAfter(topics []string, lastID uint64) (*sseClient, []sseEvent) {
	c := &sseClient{topics: topics, ch: make(chan *sseEvent, 64)}
	h.mu.Lock()
	defer h.mu.Unlock()

	var backlog []sseEvent
	for _, evt := range h.ring {
		if evt.ID > lastID && c.matchesTopic(evt.Topic) {
			backlog = append(backlog, evt)
		}
	}
	h.clients[c] = struct{}{}
	return c, backlog
}

func (c *sseClient) matchesTopic(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, pattern := range c.topics {
		if matchTopicPattern(pattern, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches a dot-separated topic against a pattern.
// Supports "*" as a single-segment wildcard and ">" as a multi-segment
// suffix wildcard (NATS-style).
func matchTopicPattern(pattern, topic string) bool {
	if pattern == topic {
		return true
	}

	patParts := strings.Split(pattern, ".")
	topParts := strings.Split(topic, ".")

	for i, pp := range patParts {
		if pp == ">" {
			return i < len(topParts)
		}
		if i >= len(topParts) {
			return false
		}
		if pp != "*" && pp != topParts[i] {
			return false
		}
	}
	return len(patParts) == len(topParts)
}

// parseTopics splits a comma-separated ?topics= value.
func parseTopics(q string) []string {
	var topics []string
	for _, t := range strings.Split(q, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// handleEventStream handles GET /api/v1/events/stream.
func (s *RiskServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	topics := parseTopics(r.URL.Query().Get("topics"))
	var (
		client  *sseClient
		backlog []sseEvent
	)
	if lastID, err := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64); err == nil {
		client, backlog = s.sseHub.subscribeAfter(topics, lastID)
	} else {
		client = s.sseHub.subscribe(topics)
	}
	defer s.sseHub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	for i := range backlog {
		writeSSEEvent(w, &backlog[i])
	}
	flusher.Flush()

	ctx := r.Context()
	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-client.ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, evt *sseEvent) {
	fmt.Fprintf(w, "id:%d\n", evt.ID)
	fmt.Fprintf(w, "event:%s\n", evt.Topic)
	fmt.Fprintf(w, "data:%s\n\n", evt.Data)
}
