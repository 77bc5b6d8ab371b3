package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: EventArticleCreated, Data: map[string]string{"slug": "rope"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: article.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"slug":"rope"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishArticleEvent_RoadmapThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger roadmap.updated.
	b.PublishArticleEvent("created", "rope")
	// Second event immediately should NOT trigger another roadmap.updated.
	b.PublishArticleEvent("updated", "alibi")

	// Drain and count events.
	time.Sleep(50 * time.Millisecond)
	roadmapCount, articleCount := countEvents(ch)
	if articleCount != 2 {
		t.Errorf("article events = %d, want 2", articleCount)
	}
	if roadmapCount != 1 {
		t.Errorf("roadmap events = %d, want 1 (throttled)", roadmapCount)
	}
}

// countEvents drains ch and splits roadmap.updated from everything else.
func countEvents(ch chan []byte) (roadmap, other int) {
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), "event: "+EventRoadmapUpdated) {
				roadmap++
			} else {
				other++
			}
		default:
			return roadmap, other
		}
	}
}

func TestPublishArticleEvent_UnknownKind(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishArticleEvent("renamed", "rope")
	time.Sleep(50 * time.Millisecond)
	if roadmap, other := countEvents(ch); roadmap+other != 0 {
		t.Errorf("got %d events for unknown kind, want 0", roadmap+other)
	}
}

func TestPublishRoadmapUpdated_ResetsThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishRoadmapUpdated()
	time.Sleep(50 * time.Millisecond)
	b.PublishArticleEvent("updated", "rope")
	time.Sleep(50 * time.Millisecond)

	roadmapCount, articleCount := countEvents(ch)
	if roadmapCount != 1 || articleCount != 1 {
		t.Errorf("roadmap/article = %d/%d, want 1/1", roadmapCount, articleCount)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	// Start handler in background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Publish(Event{Type: EventArticleUpdated, Data: map[string]string{"slug": "rope"}})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: article.updated") {
		t.Errorf("handler output missing event: %q", body)
	}

	// Client should be cleaned up.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill buffer (capacity 64) and then one more should not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
	// If we reach here without deadlock, the test passes.
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.Publish(Event{Type: EventArticleUpdated, Data: map[string]string{"slug": "rope"}})
	b.PublishArticleEvent("updated", "rope")
	b.PublishRoadmapUpdated()
}

func TestEventIDsIncrease(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: EventRegistryReloaded, Data: map[string]string{"generation": "a"}})
	b.Publish(Event{Type: EventRegistryReloaded, Data: map[string]string{"generation": "b"}})

	for _, want := range []string{"id: 1\nevent: registry.reloaded\n", "id: 2\nevent: registry.reloaded\n"} {
		select {
		case msg := <-ch:
			if !strings.HasPrefix(string(msg), want) {
				t.Errorf("message %q, want prefix %q", msg, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for message")
		}
	}
}

func TestSSEHandler_RetryAndHeartbeat(t *testing.T) {
	b := NewBroker(time.Hour, WithHeartbeat(10*time.Millisecond), WithRetry(1500*time.Millisecond))
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	b.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.HasPrefix(body, "retry: 1500\n\n") {
		t.Errorf("body should start with the retry hint: %q", body)
	}
	if !strings.Contains(body, ": keepalive\n\n") {
		t.Errorf("no keepalive in %q", body)
	}
}
