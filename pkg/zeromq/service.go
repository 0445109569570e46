package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pebbe/zmq4"
)

// Common errors
var (
	ErrServiceClosed  = errors.New("zeromq service is closed")
	ErrInvalidMessage = errors.New("invalid message format")
)

// Message types carried in JSON envelopes
const (
	MsgTypeCatalogUpdated = "CATALOG_UPDATED"
)

// ZeroMQMessage is the JSON envelope for non-flatbuffer notifications
type ZeroMQMessage struct {
	Type      string      `json:"type"`
	Timestamp float64     `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

func marshalEnvelope(messageType string, data interface{}) ([]byte, error) {
	msg := ZeroMQMessage{
		Type:      messageType,
		Timestamp: float64(time.Now().Unix()),
		Data:      data,
	}
	msgData, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return msgData, nil
}

// newSocket creates a socket with linger disabled so Close never blocks on
// undelivered messages.
func newSocket(ctx *zmq4.Context, t zmq4.Type) (*zmq4.Socket, error) {
	socket, err := ctx.NewSocket(t)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s socket: %w", t, err)
	}
	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}
	return socket, nil
}
