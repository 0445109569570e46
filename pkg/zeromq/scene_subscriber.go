package zeromq

import (
	"fmt"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/wire"
)

// SceneSubscriber listens for scene frames from a ScenePublisher.
type SceneSubscriber struct {
	ctx     *zmq.Context
	socket  *zmq.Socket
	poller  *zmq.Poller
	logger  customlog.Logger
	handler func(wire.SceneFrame)

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewSceneSubscriber connects a SUB socket to address filtered on topic.
func NewSceneSubscriber(address, topic string, handler func(wire.SceneFrame), logger customlog.Logger) (*SceneSubscriber, error) {
	if topic == "" {
		topic = DefaultSceneTopic
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	ctx, err := zmq.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZMQ context: %w", err)
	}
	socket, err := newSocket(ctx, zmq.SUB)
	if err != nil {
		ctx.Term()
		return nil, err
	}
	if err := socket.SetSubscribe(topic); err != nil {
		socket.Close()
		ctx.Term()
		return nil, err
	}
	if err := socket.Connect(address); err != nil {
		socket.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	poller := zmq.NewPoller()
	poller.Add(socket, zmq.POLLIN)

	return &SceneSubscriber{
		ctx:     ctx,
		socket:  socket,
		poller:  poller,
		logger:  logger,
		handler: handler,
	}, nil
}

// Start begins receiving frames.
func (l *SceneSubscriber) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.done = make(chan struct{})
	go l.receiveLoop(l.done)
}

func (l *SceneSubscriber) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Stop stops the subscriber and releases the socket.
func (l *SceneSubscriber) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	done := l.done
	l.mu.Unlock()

	<-done
	l.socket.Close()
	l.ctx.Term()
}

// receiveLoop continuously receives and decodes frames
func (l *SceneSubscriber) receiveLoop(done chan struct{}) {
	defer close(done)
	for l.isRunning() {
		sockets, err := l.poller.Poll(100 * time.Millisecond)
		if err != nil {
			l.logger.Warnf("Error polling scene socket: %v", err)
			continue
		}
		if len(sockets) == 0 {
			continue
		}

		parts, err := l.socket.RecvMessageBytes(0)
		if err != nil {
			l.logger.Warnf("Error receiving scene frame: %v", err)
			continue
		}
		if len(parts) != 2 {
			l.logger.Debugf("Ignoring %d-part message", len(parts))
			continue
		}

		frame, err := wire.DecodeSceneFrame(parts[1])
		if err != nil {
			l.logger.Warnf("Dropping scene frame: %v", err)
			continue
		}
		if l.handler != nil {
			l.handler(frame)
		}
	}
}
