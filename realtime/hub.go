package realtime

import (
	"sync"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"github.com/sirupsen/logrus"
)

// Hub fans events out to registered connections. Connections are keyed by
// business and branch; branch 0 subscribes to every branch of the business.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan Envelope

	logger *logrus.Logger
	done   chan struct{}
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Envelope, 256),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run processes register/unregister/broadcast until Close.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case envelope := <-h.broadcast:
			h.fanOut(envelope)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

func (h *Hub) Close() {
	close(h.done)
}

// Publish queues an event for fan-out. Safe to call from request handlers;
// drops the event if the hub's queue is full rather than blocking.
func (h *Hub) Publish(envelope Envelope) {
	if !config.RealtimeEventsEnabled() {
		return
	}
	select {
	case h.broadcast <- envelope:
	default:
		if h.logger != nil {
			h.logger.WithFields(logrus.Fields{
				"field":       "RealtimeHub",
				"event":       envelope.Event,
				"business_id": envelope.BusinessId,
			}).Warn("realtime broadcast queue full, event dropped")
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := client.businessId
	if h.clients[key] == nil {
		h.clients[key] = make(map[*Client]struct{})
	}
	h.clients[key][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[client.businessId]; ok {
		if _, ok := set[client]; ok {
			delete(set, client)
			close(client.send)
			if len(set) == 0 {
				delete(h.clients, client.businessId)
			}
		}
	}
}

func (h *Hub) fanOut(envelope Envelope) {
	data, err := envelope.marshal()
	if err != nil {
		return
	}

	h.mu.RLock()
	var slow []*Client
	for client := range h.clients[envelope.BusinessId] {
		if envelope.BranchId != 0 && client.branchId != 0 && client.branchId != envelope.BranchId {
			continue
		}
		if envelope.Event == EventMessageCreated && client.userId != envelope.recipientId() {
			continue
		}
		select {
		case client.send <- data:
		default:
			// slow consumer, drop the connection instead of blocking the hub
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		if h.logger != nil {
			h.logger.WithFields(logrus.Fields{
				"field":       "RealtimeHub",
				"business_id": client.businessId,
				"user_id":     client.userId,
			}).Warn("dropping slow realtime consumer")
		}
		h.removeClient(client)
		client.conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			close(client.send)
			client.conn.Close()
		}
	}
	h.clients = make(map[string]map[*Client]struct{})
}

// ConnectionCount reports active connections for a business, for ops checks.
func (h *Hub) ConnectionCount(businessId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[businessId])
}

// recipientId extracts the target user for direct-message events.
func (e Envelope) recipientId() int {
	type hasRecipient interface{ GetRecipientId() int }
	if p, ok := e.Payload.(hasRecipient); ok {
		return p.GetRecipientId()
	}
	return 0
}
