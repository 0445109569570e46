package zeromq

import (
	"fmt"
	"sync"

	"github.com/pebbe/zmq4"

	"github.com/open-teleop/overlay/pkg/config"
	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/render"
	"github.com/open-teleop/overlay/pkg/wire"
)

// DefaultSceneTopic prefixes every scene frame.
const DefaultSceneTopic = "overlay.scene"

// CatalogTopic carries catalog change notifications.
const CatalogTopic = "overlay.catalog"

// ScenePublisher publishes drawn frames on a PUB socket. It is a
// render.Renderer and a catalog update publisher.
type ScenePublisher struct {
	ctx    *zmq4.Context
	socket *zmq4.Socket
	topic  string
	logger customlog.Logger

	mu      sync.Mutex
	running bool
	sent    uint64
}

var _ render.Renderer = (*ScenePublisher)(nil)

// NewScenePublisher binds a PUB socket to address.
func NewScenePublisher(address, topic string, logger customlog.Logger) (*ScenePublisher, error) {
	if topic == "" {
		topic = DefaultSceneTopic
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	ctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZMQ context: %w", err)
	}
	socket, err := newSocket(ctx, zmq4.PUB)
	if err != nil {
		ctx.Term()
		return nil, err
	}
	if err := socket.Bind(address); err != nil {
		socket.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to bind to %s: %w", address, err)
	}

	p := &ScenePublisher{ctx: ctx, socket: socket, topic: topic, logger: logger, running: true}
	logger.Infof("Scene publisher bound to %s (topic %s)", p.Endpoint(), topic)
	return p, nil
}

// Endpoint is the resolved bind address, useful with wildcard ports.
func (p *ScenePublisher) Endpoint() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.socket == nil {
		return ""
	}
	ep, err := p.socket.GetLastEndpoint()
	if err != nil {
		return ""
	}
	return ep
}

// PublishMessage sends a message with the given topic
func (p *ScenePublisher) PublishMessage(topic string, message []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrServiceClosed
	}

	if _, err := p.socket.Send(topic, zmq4.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := p.socket.SendBytes(message, 0); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	p.sent++
	return nil
}

// Draw implements render.Renderer.
func (p *ScenePublisher) Draw(frame render.Frame) error {
	return p.PublishMessage(p.topic, wire.EncodeSceneFrame(frame))
}

// PublishCatalogUpdated announces a new model catalog.
func (p *ScenePublisher) PublishCatalogUpdated(cfg *config.Config) error {
	notification := map[string]interface{}{
		"config_id":     cfg.ConfigID,
		"version":       cfg.Version,
		"default_model": cfg.DefaultModel,
		"models":        len(cfg.Models),
	}
	data, err := marshalEnvelope(MsgTypeCatalogUpdated, notification)
	if err != nil {
		return err
	}
	p.logger.Debugf("Publishing catalog update notification (ID: %s)", cfg.ConfigID)
	return p.PublishMessage(CatalogTopic, data)
}

// Sent counts published messages.
func (p *ScenePublisher) Sent() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

// Close cleans up resources
func (p *ScenePublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	p.socket.Close()
	p.socket = nil
	p.ctx.Term()
	p.logger.Infof("Scene publisher closed after %d messages", p.sent)
}
