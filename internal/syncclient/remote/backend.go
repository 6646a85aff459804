// Package remote implements the sync core's Backend against the real
// service: REST for auth and mutations, a websocket subscription for the
// live contact feed.
package remote

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/syncclient"
	"github.com/abarros/contact-sync/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Backend struct {
	api   *APIClient
	wsURL string

	mu      sync.Mutex
	session *syncclient.Session
	token   string
	fns     []func(*syncclient.Session)
}

func New(baseURL string) *Backend {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/api/v1/ws"
	return &Backend{
		api:   NewAPIClient(baseURL),
		wsURL: wsURL,
	}
}

// Auth surface. These drive the session listeners registered through
// OnSessionChange.

func (b *Backend) Register(ctx context.Context, email, password string) error {
	result, err := b.api.Register(email, password)
	if err != nil {
		return err
	}
	b.setSession(result)
	return nil
}

func (b *Backend) Login(ctx context.Context, email, password string) error {
	result, err := b.api.Login(email, password)
	if err != nil {
		return err
	}
	b.setSession(result)
	return nil
}

func (b *Backend) Logout(ctx context.Context) error {
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()

	if token == "" {
		return nil
	}

	if err := b.api.Logout(token); err != nil {
		// The local session ends regardless; the server-side refresh
		// token expires on its own.
		log.Warn().Err(err).Msg("server-side logout failed")
	}

	b.mu.Lock()
	b.session = nil
	b.token = ""
	fns := b.copyFnsLocked()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(nil)
	}
	return nil
}

func (b *Backend) setSession(result *AuthResponse) {
	b.mu.Lock()
	b.session = &syncclient.Session{UserID: result.User.ID, Email: result.User.Email}
	b.token = result.AccessToken
	session := b.session
	fns := b.copyFnsLocked()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

// Backend interface

func (b *Backend) OnSessionChange(fn func(*syncclient.Session)) func() {
	b.mu.Lock()
	b.fns = append(b.fns, fn)
	idx := len(b.fns) - 1
	session := b.session
	b.mu.Unlock()

	fn(session)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if idx < len(b.fns) {
			b.fns[idx] = func(*syncclient.Session) {}
		}
	}
}

func (b *Backend) SubscribeQuery(ownerID string, onSnapshot func([]domain.Contact), onError func(error)) (syncclient.Handle, error) {
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()

	if token == "" {
		return nil, &syncclient.BackendError{Code: syncclient.CodeUnauthenticated, Message: "no active session"}
	}

	conn, _, err := ws.DefaultDialer.Dial(b.wsURL+"?token="+token, nil)
	if err != nil {
		return nil, &syncclient.BackendError{Code: syncclient.CodeUnavailable, Message: err.Error()}
	}

	subscribe, err := websocket.NewMessage(websocket.MessageTypeSubscribe, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		conn.Close()
		return nil, &syncclient.BackendError{Code: syncclient.CodeUnavailable, Message: err.Error()}
	}

	handle := &wsHandle{conn: conn}
	go handle.readLoop(onSnapshot, onError)
	return handle, nil
}

func (b *Backend) CreateContact(ctx context.Context, ownerID string, fields domain.ContactFields) (string, error) {
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()

	contact, err := b.api.CreateContact(token, fields)
	if err != nil {
		return "", err
	}
	return contact.ID.String(), nil
}

func (b *Backend) UpdateContact(ctx context.Context, contactID string, fields domain.ContactFields) error {
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()

	return b.api.UpdateContact(token, contactID, fields)
}

func (b *Backend) DeleteContact(ctx context.Context, contactID string) error {
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()

	return b.api.DeleteContact(token, contactID)
}

func (b *Backend) copyFnsLocked() []func(*syncclient.Session) {
	fns := make([]func(*syncclient.Session), len(b.fns))
	copy(fns, b.fns)
	return fns
}

// wsHandle owns one websocket subscription connection.
type wsHandle struct {
	conn *ws.Conn
	once sync.Once

	mu     sync.Mutex
	closed bool
}

func (h *wsHandle) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		h.conn.Close()
	})
}

func (h *wsHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *wsHandle) readLoop(onSnapshot func([]domain.Contact), onError func(error)) {
	for {
		var msg websocket.Message
		if err := h.conn.ReadJSON(&msg); err != nil {
			if !h.isClosed() {
				onError(&syncclient.BackendError{Code: syncclient.CodeUnavailable, Message: err.Error()})
			}
			return
		}

		switch msg.Type {
		case websocket.MessageTypeSnapshot:
			var payload websocket.SnapshotPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				log.Warn().Err(err).Msg("malformed snapshot payload")
				continue
			}
			onSnapshot(payload.Contacts)

		case websocket.MessageTypeError:
			var payload websocket.ErrorPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				payload.Message = "unreadable error payload"
			}
			h.Close()
			onError(&syncclient.BackendError{Code: syncclient.CodeUnavailable, Message: payload.Message})
			return

		default:
			log.Debug().Str("type", string(msg.Type)).Msg("ignoring unexpected message")
		}
	}
}
