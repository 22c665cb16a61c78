package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func fakeClient(h *Hub, userID uuid.UUID, queue int) *Client {
	return &Client{hub: h, userID: userID, send: make(chan []byte, queue)}
}

func decode(t *testing.T, msg []byte) Event {
	t.Helper()
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("bad event %q: %v", msg, err)
	}
	return ev
}

func TestPublishTargetsUser(t *testing.T) {
	h := NewHub()
	ana, bob := uuid.New(), uuid.New()
	a1, a2, b := fakeClient(h, ana, 4), fakeClient(h, ana, 4), fakeClient(h, bob, 4)
	h.Register(a1)
	h.Register(a2)
	h.Register(b)

	h.Publish(Event{Type: EventUnreadCount, Data: 3}, ana)

	for _, c := range []*Client{a1, a2} {
		select {
		case msg := <-c.send:
			if ev := decode(t, msg); ev.Type != EventUnreadCount {
				t.Fatalf("type = %q", ev.Type)
			}
		default:
			t.Fatalf("connection of the recipient got nothing")
		}
	}
	if len(b.send) != 0 {
		t.Fatalf("other user received a private event")
	}
}

func TestBroadcastReachesEveryone(t *testing.T) {
	h := NewHub()
	clients := []*Client{fakeClient(h, uuid.New(), 1), fakeClient(h, uuid.New(), 1)}
	for _, c := range clients {
		h.Register(c)
	}

	h.Broadcast(Event{Type: EventPostDeleted, Data: map[string]string{"id": "x"}})

	for _, c := range clients {
		if len(c.send) != 1 {
			t.Fatalf("client queue = %d, want 1", len(c.send))
		}
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	c := fakeClient(h, id, 1)
	h.Register(c)

	h.Publish(Event{Type: EventPostLikes}, id)
	h.Publish(Event{Type: EventPostLikes}, id)

	if n := h.Connections(id); n != 0 {
		t.Fatalf("Connections() = %d, want slow client removed", n)
	}
	<-c.send
	if _, ok := <-c.send; ok {
		t.Fatalf("queue of dropped client should be closed")
	}

	h.Unregister(c)
}

func TestCloseDropsAll(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	h.Register(fakeClient(h, id, 1))
	h.Register(fakeClient(h, id, 1))

	h.Close()

	if n := h.Connections(id); n != 0 {
		t.Fatalf("Connections() = %d after Close", n)
	}
}

func TestServeWS(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	upgrader := NewUpgrader(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(h, upgrader, w, r, userID)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.Connections(userID) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.Publish(Event{Type: EventNotificationCreated, Data: map[string]string{"type": "like"}}, userID)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() failed: %v", err)
	}
	if ev := decode(t, msg); ev.Type != EventNotificationCreated {
		t.Fatalf("type = %q", ev.Type)
	}
}

func TestUpgraderOrigins(t *testing.T) {
	up := NewUpgrader([]string{"https://app.example"})

	req := httptest.NewRequest(http.MethodGet, "http://api.example/api/ws", nil)
	req.Header.Set("Origin", "https://evil.example")
	if up.CheckOrigin(req) {
		t.Fatalf("foreign origin accepted")
	}
	req.Header.Set("Origin", "https://app.example")
	if !up.CheckOrigin(req) {
		t.Fatalf("allowed origin rejected")
	}
	req.Header.Set("Origin", "http://api.example")
	if !up.CheckOrigin(req) {
		t.Fatalf("same-host origin rejected")
	}
}
