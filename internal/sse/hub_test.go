package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/testing/leaktest"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	h.Start()
	t.Cleanup(h.Stop)
	return h
}

func registered(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		t.Fatalf("unexpected event %s", e.Type)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestHub_FiltersByUserAndType(t *testing.T) {
	h := startHub(t)
	all := h.Register("", nil)
	alice := h.Register("alice", nil)
	aliceHarvests := h.Register("alice", []string{string(event.Harvested), " "})
	registered(t, h, 3)

	h.Broadcast(string(event.Planted), "alice", "p1")
	h.Broadcast(string(event.Harvested), "bob", "h1")
	h.Broadcast(string(event.Harvested), "alice", "h2")

	assert.Equal(t, "p1", receive(t, all).Payload)
	assert.Equal(t, "h1", receive(t, all).Payload)
	assert.Equal(t, "h2", receive(t, all).Payload)

	assert.Equal(t, "p1", receive(t, alice).Payload)
	got := receive(t, alice)
	assert.Equal(t, "h2", got.Payload)
	assert.Equal(t, "alice", got.UserID)
	assert.NotEmpty(t, got.ID)

	assert.Equal(t, "h2", receive(t, aliceHarvests).Payload)
	assertSilent(t, aliceHarvests)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	h := startHub(t)
	c := h.Register("", nil)
	registered(t, h, 1)

	h.Unregister(c.ID)
	registered(t, h, 0)
	_, ok := <-c.EventChannel
	assert.False(t, ok)
}

func TestHub_StopClosesClientsAndRejectsNew(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)
	h := NewHub()
	h.Start()
	c := h.Register("", nil)
	registered(t, h, 1)

	h.Stop()
	h.Stop()
	_, ok := <-c.EventChannel
	assert.False(t, ok)

	late := h.Register("alice", nil)
	_, ok = <-late.EventChannel
	assert.False(t, ok)
	h.Unregister(late.ID)
	checker.Check(0)
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	h := startHub(t)
	slow := h.Register("", nil)
	registered(t, h, 1)

	for i := 0; i < ClientEventBuffer*2; i++ {
		h.Broadcast(string(event.Saved), "alice", i)
	}
	require.Eventually(t, func() bool { return len(h.broadcast) == 0 }, time.Second, 5*time.Millisecond)
	assert.Len(t, slow.EventChannel, ClientEventBuffer)

	fast := h.Register("", nil)
	registered(t, h, 2)
	h.Broadcast(string(event.Saved), "alice", "last")

	assert.Equal(t, "last", receive(t, fast).Payload)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: "garden.planted", UserID: "alice", Timestamp: 5, Payload: map[string]int{"x": 2}})
	require.NoError(t, err)
	assert.Equal(t,
		"id: 1\nevent: garden.planted\ndata: {\"id\":\"1\",\"type\":\"garden.planted\",\"user_id\":\"alice\",\"timestamp\":5,\"payload\":{\"x\":2}}\n\n",
		string(msg))

	msg, err = FormatSSEMessage(Event{Type: EventTypeKeepalive})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(msg), "event: keepalive\n"))

	_, err = FormatSSEMessage(Event{Type: "bad", Payload: make(chan int)})
	assert.Error(t, err)
}

func TestSubscriber_ForwardsGardenEvents(t *testing.T) {
	h := startHub(t)
	bus := event.NewMemoryBus()
	NewSubscriber(h, bus).Subscribe()

	c := h.Register("alice", nil)
	registered(t, h, 1)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.New(event.Planted, event.PlantedPayloadV1{UserID: "alice", AssetType: "carrot", X: 1, Y: 2})))
	require.NoError(t, bus.Publish(ctx, event.New(event.Planted, event.PlantedPayloadV1{UserID: "bob"})))
	require.NoError(t, bus.Publish(ctx, event.New(event.Saved, map[string]interface{}{"reason": "no user"})))

	got := receive(t, c)
	assert.Equal(t, string(event.Planted), got.Type)
	assert.Equal(t, "carrot", got.Payload.(event.PlantedPayloadV1).AssetType)
	assertSilent(t, c)
}

func TestHandler_StreamsEvents(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?user=alice&types=garden.harvested", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var lines []string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if line == "\n" {
				return strings.Join(lines, "")
			}
			lines = append(lines, line)
		}
	}

	assert.Contains(t, readEvent(), "event: connected\n")
	registered(t, h, 1)

	h.Broadcast(string(event.Planted), "alice", "skipped")
	h.Broadcast(string(event.Harvested), "bob", "skipped")
	h.Broadcast(string(event.Harvested), "alice", "hello")

	msg := readEvent()
	assert.Contains(t, msg, "event: garden.harvested\n")
	assert.Contains(t, msg, `"payload":"hello"`)

	cancel()
	registered(t, h, 0)
}
