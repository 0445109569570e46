package render

import (
	"errors"
	"sync"

	"github.com/open-teleop/overlay/pkg/scene"
)

// Frame is what a renderer receives on every draw.
type Frame struct {
	Seq         uint64         `json:"seq"`
	TimestampNs int64          `json:"timestamp_ns"`
	AutoRotate  bool           `json:"auto_rotate"`
	Scene       scene.Snapshot `json:"scene"`
}

// Renderer draws one frame. The controller never rasterises; renderers hand
// the frame to whatever does.
type Renderer interface {
	Draw(frame Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(frame Frame) error

// Draw calls f.
func (f RendererFunc) Draw(frame Frame) error {
	return f(frame)
}

// Fanout draws to every registered renderer and joins their errors.
type Fanout struct {
	mu        sync.RWMutex
	renderers []Renderer
}

// NewFanout creates a fan-out over rs.
func NewFanout(rs ...Renderer) *Fanout {
	f := &Fanout{}
	for _, r := range rs {
		f.Add(r)
	}
	return f
}

// Add registers r. Nil renderers are ignored.
func (f *Fanout) Add(r Renderer) {
	if r == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderers = append(f.renderers, r)
}

// Draw implements Renderer.
func (f *Fanout) Draw(frame Frame) error {
	f.mu.RLock()
	renderers := f.renderers
	f.mu.RUnlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Draw(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
