package camera

import (
	"sync"
	"sync/atomic"
)

// Stream is an acquired camera stream. It owns the device until Stop.
type Stream struct {
	ID          string
	Constraints Constraints

	device  Device
	stopped atomic.Bool
	once    sync.Once
	stopErr error
	done    chan struct{}
}

func newStream(id string, c Constraints, d Device) *Stream {
	return &Stream{
		ID:          id,
		Constraints: c,
		device:      d,
		done:        make(chan struct{}),
	}
}

// Stop stops the stream's track and closes the device. Only the first call
// does any work.
func (s *Stream) Stop() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		s.stopped.Store(true)
		close(s.done)
		s.stopErr = s.device.Close()
	})
	return s.stopErr
}

// Stopped reports whether Stop has been called.
func (s *Stream) Stopped() bool {
	return s != nil && s.stopped.Load()
}

// Done is closed when the stream is stopped.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}
