package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var msg websocket.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.messages <- &msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Subscribe sends a SUBSCRIBE message to open the live contact feed
func (c *WSClient) Subscribe() {
	c.t.Helper()

	msg := &websocket.Message{
		Type:      websocket.MessageTypeSubscribe,
		Timestamp: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send subscribe: %v", err)
	}
}

// WaitForMessage waits for the next message of the given type, skipping
// messages of other types
func (c *WSClient) WaitForMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("websocket error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timed out waiting for %s", msgType)
		}
	}
}

// WaitForSnapshot waits for the next SNAPSHOT and returns its contact set
func (c *WSClient) WaitForSnapshot(timeout time.Duration) []domain.Contact {
	c.t.Helper()

	msg := c.WaitForMessage(websocket.MessageTypeSnapshot, timeout)

	var payload websocket.SnapshotPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to unmarshal snapshot payload: %v", err)
	}
	return payload.Contacts
}

// WaitForSnapshotWithCount waits for a SNAPSHOT carrying exactly count
// contacts, skipping earlier snapshots that raced with the mutation
func (c *WSClient) WaitForSnapshotWithCount(count int, timeout time.Duration) []domain.Contact {
	c.t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.t.Fatalf("timed out waiting for snapshot with %d contacts", count)
		}
		contacts := c.WaitForSnapshot(remaining)
		if len(contacts) == count {
			return contacts
		}
	}
}

// WaitForError waits for the next ERROR and returns its payload
func (c *WSClient) WaitForError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	msg := c.WaitForMessage(websocket.MessageTypeError, timeout)

	var payload websocket.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	return &payload
}

// ExpectNoMessage asserts that nothing arrives within the window
func (c *WSClient) ExpectNoMessage(window time.Duration) {
	c.t.Helper()

	select {
	case msg, ok := <-c.messages:
		if ok {
			c.t.Fatalf("unexpected %s message", msg.Type)
		}
	case <-time.After(window):
	}
}
