// Package gesture applies pinch and rotate deltas to the live model
// transform.
package gesture

import (
	"math"
	"sync"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/transform"
)

// DefaultRotationFactor converts a rotate gesture's angle to yaw radians.
const DefaultRotationFactor = 0.1

// Options configures a Controller. Zero MinScale or MaxScale leaves that
// side unbounded.
type Options struct {
	RotationFactor float64 `yaml:"rotation_factor"`
	MinScale       float64 `yaml:"min_scale"`
	MaxScale       float64 `yaml:"max_scale"`
}

// State is the cumulative effect of the gestures applied so far.
type State struct {
	PinchFactor    float64 `json:"pinch_factor"`
	RotationOffset float64 `json:"rotation_offset"`
	Enabled        bool    `json:"enabled"`
}

// Controller writes gesture deltas straight into the scene. A write races
// tracking and auto-rotate updates; whichever lands last is kept.
type Controller struct {
	scene  *scene.Scene
	logger customlog.Logger
	opts   Options

	mu      sync.Mutex
	enabled bool
	pinch   float64
	offset  float64
}

// NewController creates a disabled controller.
func NewController(s *scene.Scene, logger customlog.Logger, opts Options) *Controller {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	if opts.RotationFactor == 0 {
		opts.RotationFactor = DefaultRotationFactor
	}
	return &Controller{scene: s, logger: logger, opts: opts, pinch: 1}
}

// Enable starts accepting gestures.
func (c *Controller) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
}

// Disable drops gestures until the next Enable.
func (c *Controller) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
}

// Reset clears the cumulative state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinch = 1
	c.offset = 0
}

// Pinch multiplies every scale component by s. It reports whether the
// transform changed; non-positive or non-finite factors are ignored.
func (c *Controller) Pinch(s float64) bool {
	if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		c.logger.Debugf("Ignoring pinch factor %v", s)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return false
	}
	ratio := 1.0
	applied := c.scene.UpdateModel(func(t *transform.ModelTransform) {
		before := t.Scale.X()
		t.Scale = t.Scale.Mul(s)
		for i := range t.Scale {
			t.Scale[i] = c.clamp(t.Scale[i])
		}
		if before != 0 {
			ratio = t.Scale.X() / before
		}
	})
	if applied {
		// Only the part of s that survived clamping counts.
		c.pinch *= ratio
	}
	return applied
}

func (c *Controller) clamp(v float64) float64 {
	if c.opts.MinScale > 0 && v < c.opts.MinScale {
		return c.opts.MinScale
	}
	if c.opts.MaxScale > 0 && v > c.opts.MaxScale {
		return c.opts.MaxScale
	}
	return v
}

// Rotate adds r times the rotation factor to the yaw.
func (c *Controller) Rotate(r float64) bool {
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return false
	}
	delta := r * c.opts.RotationFactor
	applied := c.scene.UpdateModel(func(t *transform.ModelTransform) {
		t.RotationY += delta
	})
	if applied {
		c.offset += delta
	}
	return applied
}

// State returns the cumulative gesture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{PinchFactor: c.pinch, RotationOffset: c.offset, Enabled: c.enabled}
}
