package camera

import (
	"sync"
)

// ReadyState mirrors the HTML media element ready states.
type ReadyState int

const (
	HaveNothing ReadyState = iota
	HaveMetadata
	HaveCurrentData
	HaveFutureData
	HaveEnoughData
)

func (r ReadyState) String() string {
	switch r {
	case HaveNothing:
		return "HAVE_NOTHING"
	case HaveMetadata:
		return "HAVE_METADATA"
	case HaveCurrentData:
		return "HAVE_CURRENT_DATA"
	case HaveFutureData:
		return "HAVE_FUTURE_DATA"
	case HaveEnoughData:
		return "HAVE_ENOUGH_DATA"
	default:
		return "UNKNOWN"
	}
}

// enoughDataFrames is the frame count after which the sink reports
// HaveEnoughData.
const enoughDataFrames = 3

// VideoSink holds the latest decoded frame of a bound stream.
type VideoSink struct {
	mu       sync.RWMutex
	state    ReadyState
	frame    Frame
	width    int
	height   int
	received uint64
	err      error

	metaOnce sync.Once
	metadata chan struct{}
}

// NewVideoSink returns an unbound sink in HaveNothing.
func NewVideoSink() *VideoSink {
	return &VideoSink{metadata: make(chan struct{})}
}

// ReadyState returns the current ready state.
func (v *VideoSink) ReadyState() ReadyState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// CurrentFrame returns the latest frame when at least HaveCurrentData.
func (v *VideoSink) CurrentFrame() (Frame, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.state < HaveCurrentData {
		return Frame{}, false
	}
	return v.frame, true
}

// Dimensions returns the stream's frame size once metadata is known.
func (v *VideoSink) Dimensions() (width, height int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// Received counts frames pushed into the sink.
func (v *VideoSink) Received() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.received
}

// Err is the error that ended the pump, if any.
func (v *VideoSink) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// MetadataReady is closed once the first frame has been decoded.
func (v *VideoSink) MetadataReady() <-chan struct{} {
	return v.metadata
}

// Push stores f as the current frame and advances the ready state.
// Frames without image data or dimensions are ignored.
func (v *VideoSink) Push(f Frame) {
	if len(f.Data) == 0 || f.Width <= 0 || f.Height <= 0 {
		return
	}

	v.mu.Lock()
	v.frame = f
	v.width, v.height = f.Width, f.Height
	v.received++
	switch {
	case v.received >= enoughDataFrames:
		v.state = HaveEnoughData
	case v.received >= 2:
		v.state = HaveFutureData
	default:
		v.state = HaveCurrentData
	}
	v.mu.Unlock()

	v.metaOnce.Do(func() { close(v.metadata) })
}

// Detach drops the current frame and returns the sink to HaveNothing.
func (v *VideoSink) Detach(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = HaveNothing
	v.frame = Frame{}
	if err != nil && v.err == nil {
		v.err = err
	}
}
