package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/timeutil"
	"github.com/open-teleop/overlay/pkg/transform"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (r *recorder) Draw(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func newScene(withModel bool) *scene.Scene {
	s := scene.New(transform.Viewport{Width: 1000, Height: 800})
	if withModel {
		s.SetModel(scene.NewNode(&scene.Asset{Name: "cap"}, 0.5))
	}
	return s
}

func TestFrameAlwaysDraws(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	rec := &recorder{}
	loop := NewLoop(newScene(false), rec, clock, nil, Options{})

	loop.Frame()
	loop.Frame()

	require.Equal(t, 2, rec.count())
	assert.Equal(t, uint64(2), rec.frames[1].Seq)
	assert.False(t, rec.frames[1].Scene.HasModel)
}

func TestAutoRotateUsesElapsedSinceConstruction(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	s := newScene(true)
	loop := NewLoop(s, &recorder{}, clock, nil, Options{AutoRotate: true})

	clock.Advance(500 * time.Millisecond)
	loop.Frame()
	assert.InDelta(t, 0.5, s.Snapshot().Transform.RotationY, 1e-9)

	clock.Advance(250 * time.Millisecond)
	loop.Frame()
	assert.InDelta(t, 0.75, s.Snapshot().Transform.RotationY, 1e-9)
}

func TestToggleTwiceRestoresFlagWithoutYaw(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	s := newScene(true)
	loop := NewLoop(s, &recorder{}, clock, nil, Options{})

	assert.True(t, loop.ToggleAutoRotate())
	assert.False(t, loop.ToggleAutoRotate())
	assert.False(t, loop.AutoRotate())
	assert.Zero(t, s.Snapshot().Transform.RotationY)

	clock.Advance(time.Second)
	loop.Frame()
	assert.Zero(t, s.Snapshot().Transform.RotationY)
}

func TestRotationOnlyWhileEnabled(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	s := newScene(true)
	loop := NewLoop(s, &recorder{}, clock, nil, Options{})

	clock.Advance(2 * time.Second)
	loop.Frame()

	loop.ToggleAutoRotate()
	clock.Advance(300 * time.Millisecond)
	loop.Frame()

	assert.InDelta(t, 0.3, s.Snapshot().Transform.RotationY, 1e-9)
}

func TestAutoRotateWithoutModelIsNoOp(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	rec := &recorder{}
	loop := NewLoop(newScene(false), rec, clock, nil, Options{AutoRotate: true})

	clock.Advance(time.Second)
	loop.Frame()
	assert.Equal(t, 1, rec.count())
}

func TestDrawErrorsAreCounted(t *testing.T) {
	rec := &recorder{err: errors.New("client gone")}
	loop := NewLoop(newScene(true), rec, timeutil.NewMockClock(epoch), nil, Options{})

	loop.Frame()
	assert.Equal(t, uint64(1), loop.DrawErrors())
	assert.Equal(t, uint64(1), loop.Frames())
}

func TestStartStopDrivesFrames(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	rec := &recorder{}
	loop := NewLoop(newScene(true), rec, clock, nil, Options{FPS: 50})

	loop.Start(context.Background())
	loop.Start(context.Background())
	require.True(t, loop.Running())
	require.Len(t, clock.Tickers(), 1)

	clock.Advance(20 * time.Millisecond)
	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, time.Millisecond)

	loop.Stop()
	loop.Stop()
	assert.False(t, loop.Running())
	assert.True(t, clock.Tickers()[0].Stopped())
}

func TestFanoutJoinsErrors(t *testing.T) {
	ok := &recorder{}
	bad := RendererFunc(func(Frame) error { return errors.New("boom") })
	f := NewFanout(ok, nil, bad)

	err := f.Draw(Frame{Seq: 1})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, ok.count())
}
