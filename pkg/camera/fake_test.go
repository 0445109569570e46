package camera

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errClosed = errors.New("device closed")

// fakeDevice hands out frames from a channel until closed.
type fakeDevice struct {
	frames chan Frame
	closed chan struct{}
	once   sync.Once
	closes int
	mu     sync.Mutex
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{frames: make(chan Frame, 16), closed: make(chan struct{})}
}

func (d *fakeDevice) ReadFrame() (Frame, error) {
	select {
	case f, ok := <-d.frames:
		if !ok {
			return Frame{}, errors.New("device unplugged")
		}
		return f, nil
	case <-d.closed:
		return Frame{}, errClosed
	}
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	d.closes++
	d.mu.Unlock()
	d.once.Do(func() { close(d.closed) })
	return nil
}

func (d *fakeDevice) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

func jpegFrame(w, h int) Frame {
	return Frame{Timestamp: time.Unix(0, 0), Width: w, Height: h, Data: []byte{0xff, 0xd8, 0xff, 0xd9}}
}

func openerFor(d Device, err error) Opener {
	return OpenerFunc(func(ctx context.Context, c Constraints) (Device, error) {
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
