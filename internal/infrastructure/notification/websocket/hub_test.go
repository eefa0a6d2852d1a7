package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/dreschagin/prompt-server/internal/application/dto"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

func newTestClient(h *Hub) *Client {
	return &Client{id: "test", hub: h, send: make(chan Message, 4), logger: h.logger}
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", want, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsPromptEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(logger.New("error"))
	go h.Run(ctx)

	client := newTestClient(h)
	h.Register(client)
	waitForClients(t, h, 1)

	h.BroadcastPromptEvent(dto.NewPromptEventDTO(dto.PromptEventSaved, "a.json", dto.PromptEventSourceAPI))

	select {
	case msg := <-client.send:
		if msg.Type != "prompt_event" {
			t.Fatalf("unexpected message type: %s", msg.Type)
		}
		event, ok := msg.Data.(*dto.PromptEventDTO)
		if !ok || event.Filename != "a.json" {
			t.Fatalf("unexpected message data: %#v", msg.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}

	h.Unregister(client)
	waitForClients(t, h, 0)
	if _, ok := <-client.send; ok {
		t.Fatal("expected client channel to be closed after unregister")
	}
}

func TestHubStopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := NewHub(logger.New("error"))
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	client := newTestClient(h)
	h.Register(client)
	waitForClients(t, h, 1)

	cancel()
	<-stopped

	if _, ok := <-client.send; ok {
		t.Fatal("expected client channel to be closed on shutdown")
	}

	// must not block once the hub is gone
	late := newTestClient(h)
	h.Register(late)
	h.Unregister(late)
	if _, ok := <-late.send; ok {
		t.Fatal("expected late client channel to be closed")
	}
}
