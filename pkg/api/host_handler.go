package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/transform"
)

var (
	// ErrUnknownEvent is returned for an unrecognised event type.
	ErrUnknownEvent = errors.New("unknown host event")
	// ErrInvalidEvent is returned when an event is missing a required field.
	ErrInvalidEvent = errors.New("invalid host event")
	// ErrUnknownModel is returned when loadModel names a model outside the catalog.
	ErrUnknownModel = errors.New("unknown model")
)

// DefaultStartupTimeout bounds a startup triggered by a host event.
const DefaultStartupTimeout = 10 * time.Second

// HostController is the lifecycle surface host events drive.
type HostController interface {
	HandleReady(ctx context.Context) error
	HandleViewportChanged(ctx context.Context, expanded bool, vp transform.Viewport) error
	LoadModel(name string)
	ToggleAutoRotate() bool
	Pinch(s float64) bool
	Rotate(r float64) bool
}

// ModelCatalog answers whether a model name may be loaded.
type ModelCatalog interface {
	HasModel(name string) bool
}

// HostHandler turns host events into controller calls.
type HostHandler struct {
	ctrl           HostController
	catalog        ModelCatalog
	hub            *Hub
	logger         customlog.Logger
	startupTimeout time.Duration
}

// NewHostHandler creates a handler. A nil catalog accepts every model name.
func NewHostHandler(ctrl HostController, catalog ModelCatalog, hub *Hub, startupTimeout time.Duration, logger customlog.Logger) *HostHandler {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	if startupTimeout <= 0 {
		startupTimeout = DefaultStartupTimeout
	}
	return &HostHandler{
		ctrl:           ctrl,
		catalog:        catalog,
		hub:            hub,
		logger:         logger,
		startupTimeout: startupTimeout,
	}
}

// ParseHostEvent decodes one inbound JSON event.
func ParseHostEvent(data []byte) (HostEvent, error) {
	var ev HostEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return HostEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.Type == "" {
		return HostEvent{}, fmt.Errorf("%w: missing type", ErrInvalidEvent)
	}
	return ev, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Dispatch applies one host event. Events are handled in the order they
// are dispatched; lifecycle events block until startup completes.
func (h *HostHandler) Dispatch(ev HostEvent) error {
	switch ev.Type {
	case EventReady:
		ctx, cancel := context.WithTimeout(context.Background(), h.startupTimeout)
		defer cancel()
		return h.ctrl.HandleReady(ctx)

	case EventExpand, EventViewportChanged:
		expanded := ev.Type == EventExpand
		if ev.IsExpanded != nil {
			expanded = *ev.IsExpanded
		} else if ev.Type == EventViewportChanged {
			return fmt.Errorf("%w: viewportChanged without isExpanded", ErrInvalidEvent)
		}
		ctx, cancel := context.WithTimeout(context.Background(), h.startupTimeout)
		defer cancel()
		vp := transform.Viewport{Width: ev.Width, Height: ev.Height}
		return h.ctrl.HandleViewportChanged(ctx, expanded, vp)

	case EventPinch:
		if !finite(ev.Scale) {
			return fmt.Errorf("%w: pinch scale %v", ErrInvalidEvent, ev.Scale)
		}
		h.ctrl.Pinch(ev.Scale)
		return nil

	case EventRotate:
		if !finite(ev.Angle) {
			return fmt.Errorf("%w: rotate angle %v", ErrInvalidEvent, ev.Angle)
		}
		h.ctrl.Rotate(ev.Angle)
		return nil

	case EventToggleRotate:
		on := h.ctrl.ToggleAutoRotate()
		h.logger.Debugf("Auto-rotate now %v", on)
		return nil

	case EventLoadModel:
		if ev.Name == "" {
			return fmt.Errorf("%w: loadModel without name", ErrInvalidEvent)
		}
		if h.catalog != nil && !h.catalog.HasModel(ev.Name) {
			return fmt.Errorf("%w: %s", ErrUnknownModel, ev.Name)
		}
		h.ctrl.LoadModel(ev.Name)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}

// Serve runs the read loop for one host connection. Outbound frames and
// banners reach the connection through the hub.
func (h *HostHandler) Serve(conn *websocket.Conn) {
	logger := h.logger.WithField("remote", conn.RemoteAddr().String())
	logger.Infof("Host WebSocket connected")

	client := h.hub.Register()
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for data := range client.Messages() {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debugf("Host WS write failed: %v", err)
				_ = conn.Close()
				// Keep draining until the hub closes the channel.
				for range client.Messages() {
				}
				return
			}
		}
	}()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("Host WS read error: %v", err)
			} else if err != websocket.ErrCloseSent && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
				logger.Infof("Host WS connection closed: %v", err)
			} else {
				logger.Infof("Host WS connection closed normally.")
			}
			break
		}
		if mt != websocket.TextMessage {
			logger.Infof("Ignoring non-text host WS message type: %d", mt)
			continue
		}

		ev, err := ParseHostEvent(msg)
		if err == nil {
			logger.Debugf("Host event: %s", ev.Type)
			err = h.Dispatch(ev)
		}
		if err != nil {
			logger.Warnf("Host event rejected: %v", err)
			h.hub.SendTo(client, OutboundMessage{Type: MessageError, Error: err.Error()})
		}
	}

	h.hub.Unregister(client)
	<-writerDone
	logger.Infof("Host WebSocket disconnected")
}

// RegisterHostRoutes mounts the host WebSocket at /ws/host.
func RegisterHostRoutes(app *fiber.App, h *HostHandler) {
	ws := app.Group("/ws")
	ws.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/host", websocket.New(h.Serve))
	h.logger.Infof("Registered host WebSocket endpoint at /ws/host")
}
