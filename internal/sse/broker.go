// Package sse implements a Server-Sent Events broker that tells browsers
// about content reloads.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types sent to clients.
const (
	EventArticleCreated   = "article.created"
	EventArticleUpdated   = "article.updated"
	EventArticleDeleted   = "article.deleted"
	EventRoadmapUpdated   = "roadmap.updated"
	EventRegistryReloaded = "registry.reloaded"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// message is one publish request for the event loop. Exactly one of its
// fields is set. All publishes share one channel so clients see them in
// call order.
type message struct {
	event   *Event
	article *articleEventReq
	roadmap bool
}

type articleEventReq struct {
	kind string
	slug string
}

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable state
// (clients + roadmap throttle timestamp). Public methods communicate with this loop
// through channels, so no mutexes are required.
type Broker struct {
	roadmapMin time.Duration
	heartbeat  time.Duration
	retry      time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan message
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// Option configures a Broker.
type Option func(*Broker)

// WithHeartbeat sets how often idle streams get a keepalive comment.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.heartbeat = d
		}
	}
}

// WithRetry sets the reconnect delay suggested to browsers.
func WithRetry(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.retry = d
		}
	}
}

// NewBroker creates a new SSE broker. roadmapThrottle is the minimum gap
// between roadmap.updated events that follow article events.
func NewBroker(roadmapThrottle time.Duration, opts ...Option) *Broker {
	if roadmapThrottle <= 0 {
		roadmapThrottle = 2 * time.Second
	}

	b := &Broker{
		roadmapMin:    roadmapThrottle,
		heartbeat:     15 * time.Second,
		retry:         3 * time.Second,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan message, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		lastRoadmap time.Time
		seq         uint64
	)

	// Event ids increase for the life of the broker.
	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		seq++
		raw := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, event.Type, payload))

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case msg := <-b.publishCh:
			switch {
			case msg.event != nil:
				broadcast(*msg.event)

			case msg.roadmap:
				lastRoadmap = time.Now()
				broadcast(Event{Type: EventRoadmapUpdated, Data: map[string]string{}})

			case msg.article != nil:
				data := map[string]string{"slug": msg.article.slug}
				switch msg.article.kind {
				case "created":
					broadcast(Event{Type: EventArticleCreated, Data: data})
				case "updated":
					broadcast(Event{Type: EventArticleUpdated, Data: data})
				case "deleted":
					broadcast(Event{Type: EventArticleDeleted, Data: data})
				default:
					continue
				}

				now := time.Now()
				if now.Sub(lastRoadmap) >= b.roadmapMin {
					lastRoadmap = now
					broadcast(Event{Type: EventRoadmapUpdated, Data: map[string]string{}})
				}
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	b.send(message{event: &event})
}

// PublishArticleEvent publishes an article change (kind is created, updated
// or deleted) and a throttled roadmap.updated event.
func (b *Broker) PublishArticleEvent(kind, slug string) {
	if b.closed.Load() {
		return
	}
	b.send(message{article: &articleEventReq{kind: kind, slug: slug}})
}

// PublishRoadmapUpdated sends roadmap.updated immediately and restarts the
// throttle window.
func (b *Broker) PublishRoadmapUpdated() {
	if b.closed.Load() {
		return
	}
	b.send(message{roadmap: true})
}

func (b *Broker) send(msg message) {
	select {
	case b.publishCh <- msg:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", b.retry.Milliseconds())
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
