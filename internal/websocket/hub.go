package websocket

import (
	"context"
	"sync"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Hub fans complete contact snapshots out to live subscribers. Each
// connection subscribes under its authenticated user id; every accepted
// mutation for that owner triggers a fresh full snapshot push.
type Hub struct {
	feeds       map[uuid.UUID]map[*Client]bool
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Client
	notify      chan uuid.UUID
	stop        chan struct{}
	done        chan struct{} // closed when Run() exits
	stopped     bool
	contactRepo repository.ContactRepository
	mu          sync.RWMutex
}

func NewHub(contactRepo repository.ContactRepository) *Hub {
	return &Hub{
		feeds:       make(map[uuid.UUID]map[*Client]bool),
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Client),
		notify:      make(chan uuid.UUID, 16),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		contactRepo: contactRepo,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.feeds = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					h.removeFromFeed(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case client := <-h.subscribe:
			h.handleSubscribe(client)

		case ownerID := <-h.notify:
			h.pushSnapshot(ownerID)
		}
	}
}

// Stop gracefully shuts down the hub. It blocks until Run() has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister safely unregisters a client, handling the case where the hub
// may be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
		// Hub stopped between check and send - that's ok
	}
}

// Subscribe attaches the client to its owner feed and queues the initial
// snapshot.
func (h *Hub) Subscribe(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.subscribe <- client:
	default:
	}
}

// ContactsChanged implements service.ChangeNotifier. It requests a snapshot
// push for every live subscriber of the owner.
func (h *Hub) ContactsChanged(ownerID uuid.UUID) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.notify <- ownerID:
	case <-h.done:
	}
}

func (h *Hub) handleSubscribe(client *Client) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}

	feed, exists := h.feeds[client.userID]
	if !exists {
		feed = make(map[*Client]bool)
		h.feeds[client.userID] = feed
	}
	feed[client] = true
	h.mu.Unlock()

	log.Debug().Str("owner_id", client.userID.String()).Msg("client subscribed to contact feed")

	msg, err := h.buildSnapshot(client.userID)
	if err != nil {
		h.failFeed(client.userID, err)
		return
	}
	client.Send(msg)
}

// pushSnapshot rebuilds the owner's snapshot and delivers it to every
// subscribed client.
func (h *Hub) pushSnapshot(ownerID uuid.UUID) {
	h.mu.RLock()
	feed := h.feeds[ownerID]
	subscribers := make([]*Client, 0, len(feed))
	for client := range feed {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()

	if len(subscribers) == 0 {
		return
	}

	msg, err := h.buildSnapshot(ownerID)
	if err != nil {
		h.failFeed(ownerID, err)
		return
	}

	for _, client := range subscribers {
		client.Send(msg)
	}
}

func (h *Hub) buildSnapshot(ownerID uuid.UUID) (*Message, error) {
	contacts, err := h.contactRepo.GetByOwnerID(context.Background(), ownerID)
	if err != nil {
		return nil, err
	}

	payload := SnapshotPayload{Contacts: make([]domain.Contact, len(contacts))}
	for i, c := range contacts {
		payload.Contacts[i] = *c
	}

	return NewMessage(MessageTypeSnapshot, payload)
}

// failFeed tells every subscriber of the owner that the query failed and
// drops them from the feed. Subscriptions are not auto-healed; clients must
// resubscribe.
func (h *Hub) failFeed(ownerID uuid.UUID, err error) {
	log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("contact feed query failed")

	h.mu.Lock()
	feed := h.feeds[ownerID]
	delete(h.feeds, ownerID)
	h.mu.Unlock()

	for client := range feed {
		client.sendError("QUERY_FAILED", "Could not load contacts")
	}
}

// removeFromFeed must be called with h.mu held.
func (h *Hub) removeFromFeed(client *Client) {
	if feed, exists := h.feeds[client.userID]; exists {
		delete(feed, client)
		if len(feed) == 0 {
			delete(h.feeds, client.userID)
		}
	}
}
