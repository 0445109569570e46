package camera

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	customlog "github.com/open-teleop/overlay/pkg/log"
)

// Manager acquires, binds and releases camera streams.
type Manager struct {
	opener Opener
	logger customlog.Logger
}

// NewManager creates a manager opening devices through opener.
func NewManager(opener Opener, logger customlog.Logger) *Manager {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Manager{opener: opener, logger: logger}
}

type openResult struct {
	device Device
	err    error
}

// Acquire opens a stream matching c and blocks until the device is granted,
// denied or ctx is done. Device failures are reported as ErrAccessDenied. No
// stream is held when an error is returned.
func (m *Manager) Acquire(ctx context.Context, c Constraints) (*Stream, error) {
	if m.opener == nil {
		return nil, fmt.Errorf("%w: no camera backend configured", ErrAccessDenied)
	}

	resultCh := make(chan openResult, 1)
	go func() {
		d, err := m.opener.Open(ctx, c)
		resultCh <- openResult{device: d, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			m.logger.Warnf("Camera acquisition failed (%s): %v", c, res.err)
			if errors.Is(res.err, ErrAccessDenied) {
				return nil, res.err
			}
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, res.err)
		}
		if res.device == nil {
			return nil, fmt.Errorf("%w: backend returned no device", ErrAccessDenied)
		}
		s := newStream(uuid.NewString(), c, res.device)
		m.logger.Infof("Camera stream %s acquired (%s)", s.ID, c)
		return s, nil
	case <-ctx.Done():
		// A device granted after the caller gave up is closed straight away.
		go func() {
			if res := <-resultCh; res.err == nil && res.device != nil {
				_ = res.device.Close()
			}
		}()
		return nil, fmt.Errorf("camera acquisition cancelled: %w", ctx.Err())
	}
}

// BindVideoSink starts pumping frames from s into a new sink and blocks
// until the first frame is decodable. The pump ends when the stream stops
// or the device fails, leaving the sink in HaveNothing.
func (m *Manager) BindVideoSink(ctx context.Context, s *Stream) (*VideoSink, error) {
	if s == nil || s.Stopped() {
		return nil, ErrStreamStopped
	}

	sink := NewVideoSink()
	pumpDone := make(chan struct{})
	go m.pump(s, sink, pumpDone)

	select {
	case <-sink.MetadataReady():
		w, h := sink.Dimensions()
		m.logger.Infof("Video sink bound to stream %s (%dx%d)", s.ID, w, h)
		return sink, nil
	case <-pumpDone:
		if err := sink.Err(); err != nil {
			return nil, fmt.Errorf("binding video sink: %w", err)
		}
		return nil, ErrStreamStopped
	case <-ctx.Done():
		return nil, fmt.Errorf("binding video sink: %w", ctx.Err())
	}
}

func (m *Manager) pump(s *Stream, sink *VideoSink, done chan<- struct{}) {
	defer close(done)

	var seq uint64
	for !s.Stopped() {
		f, err := s.device.ReadFrame()
		if err != nil {
			if s.Stopped() {
				sink.Detach(nil)
				return
			}
			m.logger.Errorf("Camera stream %s read failed: %v", s.ID, err)
			sink.Detach(err)
			return
		}
		seq++
		if f.Seq == 0 {
			f.Seq = seq
		}
		sink.Push(f)
	}
	sink.Detach(nil)
}

// Release stops every track of s. Nil and already stopped streams are
// ignored.
func (m *Manager) Release(s *Stream) {
	if s == nil || s.Stopped() {
		return
	}
	if err := s.Stop(); err != nil {
		m.logger.Warnf("Closing camera stream %s: %v", s.ID, err)
		return
	}
	m.logger.Infof("Camera stream %s released", s.ID)
}
