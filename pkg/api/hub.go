package api

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/open-teleop/overlay/pkg/config"
	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/notify"
	"github.com/open-teleop/overlay/pkg/render"
)

// clientBuffer is the number of pending messages per client before new
// ones are dropped.
const clientBuffer = 32

// Client is one connected front-end.
type Client struct {
	ID   string
	send chan []byte
}

// Messages delivers the client's outbound messages.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Hub fans outbound messages out to every connected front-end. It is a
// render.Renderer, a banner listener and a catalog publisher.
type Hub struct {
	logger customlog.Logger

	mu      sync.Mutex
	clients map[string]*Client
	dropped uint64
}

var _ render.Renderer = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger customlog.Logger) *Hub {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Hub{logger: logger, clients: make(map[string]*Client)}
}

// Register adds a client.
func (h *Hub) Register() *Client {
	c := &Client{ID: uuid.NewString(), send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c.ID] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debugf("Client %s registered (%d connected)", c.ID, n)
	return c
}

// Unregister removes a client and closes its message channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.send)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped counts messages discarded for slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Broadcast marshals msg once and queues it for every client.
func (h *Hub) Broadcast(msg OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped++
		}
	}
	return nil
}

// SendTo queues msg for a single client. It reports false when the client
// is gone or its buffer is full.
func (h *Hub) SendTo(c *Client, msg OutboundMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warnf("Failed to marshal %s message: %v", msg.Type, err)
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		h.dropped++
		return false
	}
}

// Draw implements render.Renderer.
func (h *Hub) Draw(frame render.Frame) error {
	scene := NewSceneMessage(frame)
	return h.Broadcast(OutboundMessage{Type: MessageScene, Scene: &scene})
}

// ShowBanner is a notify.Listener.
func (h *Hub) ShowBanner(msg notify.Message) {
	if err := h.Broadcast(OutboundMessage{Type: MessageBanner, Banner: &msg}); err != nil {
		h.logger.Warnf("Failed to broadcast banner: %v", err)
	}
}

// PublishCatalogUpdated tells front-ends the model list changed.
func (h *Hub) PublishCatalogUpdated(cfg *config.Config) error {
	cat := CatalogMessage{ConfigID: cfg.ConfigID, DefaultModel: cfg.DefaultModel}
	for _, m := range cfg.Models {
		cat.Models = append(cat.Models, m.Name)
	}
	return h.Broadcast(OutboundMessage{Type: MessageCatalog, Catalog: &cat})
}
