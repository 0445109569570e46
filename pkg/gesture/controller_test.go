package gesture

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/transform"
)

func newScene(withModel bool) *scene.Scene {
	s := scene.New(transform.Viewport{Width: 1000, Height: 800})
	if withModel {
		s.SetModel(scene.NewNode(&scene.Asset{Name: "cap"}, 1))
	}
	return s
}

func enabled(s *scene.Scene, opts Options) *Controller {
	c := NewController(s, nil, opts)
	c.Enable()
	return c
}

func TestPinchIsCumulative(t *testing.T) {
	s := newScene(true)
	c := enabled(s, Options{})

	assert.True(t, c.Pinch(2.0))
	assert.True(t, c.Pinch(0.5))

	got := s.Snapshot().Transform.Scale
	assert.True(t, got.ApproxEqual(mgl64.Vec3{1, 1, 1}), "scale %v", got)
	assert.InDelta(t, 1.0, c.State().PinchFactor, 1e-12)
}

func TestRotateUsesFactor(t *testing.T) {
	s := newScene(true)
	c := enabled(s, Options{})

	c.Rotate(1)
	c.Rotate(2)

	assert.InDelta(t, 0.3, s.Snapshot().Transform.RotationY, 1e-12)
	assert.InDelta(t, 0.3, c.State().RotationOffset, 1e-12)
}

func TestGesturesWithoutModelAreNoOps(t *testing.T) {
	s := newScene(false)
	c := enabled(s, Options{})

	assert.False(t, c.Pinch(2))
	assert.False(t, c.Rotate(1))
	assert.Equal(t, State{PinchFactor: 1, Enabled: true}, c.State())
}

func TestDisabledControllerIgnoresInput(t *testing.T) {
	s := newScene(true)
	c := NewController(s, nil, Options{})

	assert.False(t, c.Pinch(3))
	c.Enable()
	c.Disable()
	assert.False(t, c.Rotate(5))

	assert.Equal(t, transform.Identity(), s.Snapshot().Transform)
}

func TestInvalidPinchFactorsIgnored(t *testing.T) {
	s := newScene(true)
	c := enabled(s, Options{})

	assert.False(t, c.Pinch(0))
	assert.False(t, c.Pinch(-1))
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, s.Snapshot().Transform.Scale)
}

func TestClampBoundsScale(t *testing.T) {
	s := newScene(true)
	c := enabled(s, Options{MinScale: 0.5, MaxScale: 2})

	c.Pinch(10)
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, s.Snapshot().Transform.Scale)

	c.Pinch(0.01)
	assert.Equal(t, mgl64.Vec3{0.5, 0.5, 0.5}, s.Snapshot().Transform.Scale)
}

func TestPinchFactorTracksClampedScale(t *testing.T) {
	s := newScene(true)
	c := enabled(s, Options{MinScale: 0.5, MaxScale: 2})

	assert.True(t, c.Pinch(10))
	assert.InDelta(t, 2.0, c.State().PinchFactor, 1e-12)

	// Pinching further at the bound changes nothing.
	assert.True(t, c.Pinch(3))
	assert.InDelta(t, 2.0, c.State().PinchFactor, 1e-12)

	// Pinching back in undoes exactly what was applied.
	assert.True(t, c.Pinch(0.5))
	assert.InDelta(t, 1.0, c.State().PinchFactor, 1e-12)
	assert.True(t, s.Snapshot().Transform.Scale.ApproxEqual(mgl64.Vec3{1, 1, 1}))
}

func TestReset(t *testing.T) {
	c := enabled(newScene(true), Options{})
	c.Pinch(4)
	c.Rotate(1)
	c.Reset()
	assert.Equal(t, State{PinchFactor: 1, Enabled: true}, c.State())
}
