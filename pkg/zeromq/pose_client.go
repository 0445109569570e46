package zeromq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pebbe/zmq4"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/pose"
	"github.com/open-teleop/overlay/pkg/wire"
)

// PoseClientConfig configures the sidecar connection.
type PoseClientConfig struct {
	Endpoint         string
	ResultBufferSize int
	PollTimeout      time.Duration
}

// PoseClient talks to the pose sidecar over a DEALER socket. The socket is
// owned by the receive loop goroutine; Send hands encoded requests to it
// through a channel.
type PoseClient struct {
	ctx         *zmq4.Context
	socket      *zmq4.Socket
	poller      *zmq4.Poller
	logger      customlog.Logger
	pollTimeout time.Duration

	outbound chan []byte
	results  chan pose.Result
	stop     chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	running bool
	closed  bool
}

var _ pose.Estimator = (*PoseClient)(nil)

// NewPoseClient connects a DEALER socket to the sidecar endpoint.
func NewPoseClient(cfg PoseClientConfig, logger customlog.Logger) (*PoseClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("pose sidecar endpoint is required")
	}
	if cfg.ResultBufferSize <= 0 {
		cfg.ResultBufferSize = 16
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 20 * time.Millisecond
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	ctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZMQ context: %w", err)
	}
	socket, err := newSocket(ctx, zmq4.DEALER)
	if err != nil {
		ctx.Term()
		return nil, err
	}
	if err := socket.Connect(cfg.Endpoint); err != nil {
		socket.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Endpoint, err)
	}

	poller := zmq4.NewPoller()
	poller.Add(socket, zmq4.POLLIN)

	logger.Infof("Pose client connected to %s", cfg.Endpoint)
	return &PoseClient{
		ctx:         ctx,
		socket:      socket,
		poller:      poller,
		logger:      logger,
		pollTimeout: cfg.PollTimeout,
		outbound:    make(chan []byte, cfg.ResultBufferSize),
		results:     make(chan pose.Result, cfg.ResultBufferSize),
		stop:        make(chan struct{}),
	}, nil
}

// Start begins the send/receive loop.
func (c *PoseClient) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.closed {
		return
	}
	c.running = true
	c.wg.Add(1)
	go c.loop()
}

// Send queues req for the sidecar. It blocks only while the outbound
// queue is full.
func (c *PoseClient) Send(ctx context.Context, req pose.Request) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrServiceClosed
	}

	msg := wire.EncodeFrameRequest(req)
	select {
	case c.outbound <- msg:
		return nil
	case <-c.stop:
		return ErrServiceClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results implements pose.Estimator. The channel is closed by Close.
func (c *PoseClient) Results() <-chan pose.Result {
	return c.results
}

func (c *PoseClient) loop() {
	defer c.wg.Done()
	defer close(c.results)
	c.logger.Debugf("Pose client loop started")

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		c.flushOutbound()

		sockets, err := c.poller.Poll(c.pollTimeout)
		if err != nil {
			c.logger.Warnf("Error polling pose socket: %v", err)
			continue
		}
		if len(sockets) == 0 {
			continue
		}

		frames, err := c.socket.RecvMessageBytes(0)
		if err != nil {
			c.logger.Warnf("Error receiving pose result: %v", err)
			continue
		}
		if len(frames) == 0 {
			continue
		}
		// A ROUTER peer may prepend an empty delimiter; the table is last.
		res, err := wire.DecodePoseResult(frames[len(frames)-1])
		if err != nil {
			c.logger.Warnf("Dropping pose result: %v", err)
			continue
		}

		select {
		case c.results <- res:
		case <-c.stop:
			return
		}
	}
}

func (c *PoseClient) flushOutbound() {
	for {
		select {
		case msg := <-c.outbound:
			if _, err := c.socket.SendBytes(msg, zmq4.DONTWAIT); err != nil {
				c.logger.Warnf("Error sending frame request (%d bytes): %v", len(msg), err)
			}
		default:
			return
		}
	}
}

// Close stops the loop and releases the socket and context.
func (c *PoseClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	running := c.running
	close(c.stop)
	c.mu.Unlock()

	if running {
		c.wg.Wait()
	} else {
		close(c.results)
	}

	c.socket.Close()
	if err := c.ctx.Term(); err != nil {
		return fmt.Errorf("terminating ZMQ context: %w", err)
	}
	c.logger.Infof("Pose client closed")
	return nil
}
