package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/overlay/pkg/transform"
)

func TestEmptySceneIsNoOp(t *testing.T) {
	s := New(transform.Viewport{Width: 1000, Height: 800})

	called := false
	ok := s.UpdateModel(func(*transform.ModelTransform) { called = true })

	assert.False(t, ok)
	assert.False(t, called)
	assert.False(t, s.Snapshot().HasModel)
	assert.Nil(t, s.RemoveModel())
}

func TestSetModelReplacesPrevious(t *testing.T) {
	s := New(transform.Viewport{Width: 1000, Height: 800})

	first := NewNode(&Asset{Name: "cap"}, 0.5)
	assert.Nil(t, s.SetModel(first))
	gen := s.Generation()

	second := NewNode(&Asset{Name: "glasses"}, 0.5)
	prev := s.SetModel(second)
	require.Same(t, first, prev)
	assert.Equal(t, gen+1, s.Generation())

	snap := s.Snapshot()
	assert.True(t, snap.HasModel)
	assert.Equal(t, "glasses", snap.Model)
	assert.Equal(t, mgl64.Vec3{0.5, 0.5, 0.5}, snap.Transform.Scale)
}

func TestUpdateModelIfRejectsStaleGeneration(t *testing.T) {
	s := New(transform.Viewport{Width: 10, Height: 10})
	s.SetModel(NewNode(&Asset{Name: "a"}, 1))
	stale := s.Generation()
	s.SetModel(NewNode(&Asset{Name: "b"}, 1))

	ok := s.UpdateModelIf(stale, func(t *transform.ModelTransform) { t.RotationY = 3 })
	assert.False(t, ok)
	assert.Zero(t, s.Snapshot().Transform.RotationY)

	ok = s.UpdateModelIf(s.Generation(), func(t *transform.ModelTransform) { t.RotationY = 3 })
	assert.True(t, ok)
	assert.Equal(t, 3.0, s.Snapshot().Transform.RotationY)
}

func TestSetViewportIgnoresEmpty(t *testing.T) {
	s := New(transform.Viewport{Width: 1000, Height: 800})

	assert.False(t, s.SetViewport(transform.Viewport{Width: 0, Height: 600}))
	assert.Equal(t, transform.Viewport{Width: 1000, Height: 800}, s.Viewport())

	assert.True(t, s.SetViewport(transform.Viewport{Width: 390, Height: 844}))
	assert.Equal(t, 390.0, s.Snapshot().Viewport.Width)
}
