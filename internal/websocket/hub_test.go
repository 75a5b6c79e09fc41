package websocket

import (
	"encoding/json"
	"testing"

	"intelidoc-rag-be/internal/dto"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func addTestClient(h *Hub) *Client {
	c := &Client{Hub: h, ID: uuid.New(), Send: make(chan []byte, 4)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	return c
}

func received(c *Client) []byte {
	select {
	case data := <-c.Send:
		return data
	default:
		return nil
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	first := addTestClient(hub)
	second := addTestClient(hub)

	event := dto.DocumentStatusEvent{
		Type:       "document_status",
		DocumentId: uuid.New(),
		Status:     "processing",
		Progress:   20,
	}
	hub.Broadcast(event)

	for _, c := range []*Client{first, second} {
		data := received(c)
		if data == nil {
			t.Fatal("client received nothing")
		}
		var got dto.DocumentStatusEvent
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal delivered event: %v", err)
		}
		if got.DocumentId != event.DocumentId || got.Progress != 20 {
			t.Errorf("delivered event = %+v", got)
		}
	}
}

func TestRelaySkipsOwnOrigin(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	client := addTestClient(hub)

	data, _ := json.Marshal(dto.DocumentStatusEvent{Type: "document_status", Progress: 60})
	payload, _ := json.Marshal(relayEnvelope{Origin: hub.instanceId, Event: data})

	hub.handleRelay(payload)

	if got := received(client); got != nil {
		t.Errorf("self-originated relay delivered %s, want nothing", got)
	}
}

func TestRelayDeliversForeignOrigin(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	client := addTestClient(hub)

	data, _ := json.Marshal(dto.DocumentStatusEvent{Type: "document_status", Progress: 80})
	payload, _ := json.Marshal(relayEnvelope{Origin: uuid.NewString(), Event: data})

	hub.handleRelay(payload)

	got := received(client)
	if got == nil {
		t.Fatal("foreign relay delivered nothing")
	}
	var event dto.DocumentStatusEvent
	if err := json.Unmarshal(got, &event); err != nil {
		t.Fatalf("unmarshal relayed event: %v", err)
	}
	if event.Progress != 80 {
		t.Errorf("relayed event = %+v", event)
	}
}

func TestRelayIgnoresMalformedPayload(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	client := addTestClient(hub)

	hub.handleRelay([]byte("not json"))

	if got := received(client); got != nil {
		t.Errorf("malformed relay delivered %s, want nothing", got)
	}
}
