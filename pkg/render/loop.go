// Package render drives the per-frame draw of the overlay scene.
package render

import (
	"context"
	"sync"
	"time"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/timeutil"
	"github.com/open-teleop/overlay/pkg/transform"
)

// DefaultFPS approximates a display refresh when none is configured.
const DefaultFPS = 60

// Loop is the render loop. Each frame it advances auto-rotation by the
// wall-clock time since the previous frame and draws, whether or not
// anything changed.
type Loop struct {
	scene    *scene.Scene
	renderer Renderer
	clock    timeutil.Clock
	logger   customlog.Logger
	interval time.Duration

	mu         sync.Mutex
	autoRotate bool
	last       time.Time
	seq        uint64
	drawErrors uint64
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}
}

// Options configures a Loop.
type Options struct {
	FPS        int
	AutoRotate bool
}

// NewLoop creates a render loop. The first frame's elapsed time is measured
// from this call.
func NewLoop(s *scene.Scene, r Renderer, clock timeutil.Clock, logger customlog.Logger, opts Options) *Loop {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		scene:      s,
		renderer:   r,
		clock:      clock,
		logger:     logger,
		interval:   time.Second / time.Duration(fps),
		autoRotate: opts.AutoRotate,
		last:       clock.Now(),
	}
}

// ToggleAutoRotate flips auto-rotation and returns the new state. It does
// not touch the transform.
func (l *Loop) ToggleAutoRotate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autoRotate = !l.autoRotate
	l.logger.Debugf("Auto-rotate %v", l.autoRotate)
	return l.autoRotate
}

// AutoRotate reports the current flag.
func (l *Loop) AutoRotate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.autoRotate
}

// Frames returns how many frames have been drawn.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// DrawErrors returns how many draws failed.
func (l *Loop) DrawErrors() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawErrors
}

// Frame runs one iteration: rotate if enabled and a model exists, then draw.
func (l *Loop) Frame() {
	now := l.clock.Now()

	l.mu.Lock()
	elapsed := now.Sub(l.last)
	l.last = now
	rotate := l.autoRotate
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	if rotate && elapsed > 0 {
		l.scene.UpdateModel(func(t *transform.ModelTransform) {
			t.RotationY += elapsed.Seconds()
		})
	}

	if l.renderer == nil {
		return
	}
	frame := Frame{
		Seq:         seq,
		TimestampNs: now.UnixNano(),
		AutoRotate:  rotate,
		Scene:       l.scene.Snapshot(),
	}
	if err := l.renderer.Draw(frame); err != nil {
		l.mu.Lock()
		l.drawErrors++
		l.mu.Unlock()
		l.logger.Debugf("Draw of frame %d failed: %v", seq, err)
	}
}

// Start runs the loop on its own goroutine until Stop or ctx is done.
// Calling Start on a running loop does nothing.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.running = true
	l.cancel = cancel
	l.done = make(chan struct{})

	ticker := l.clock.NewTicker(l.interval)
	go l.run(runCtx, ticker, l.done)
	l.logger.Infof("Render loop started (%v per frame)", l.interval)
}

// Running reports whether the loop goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Stop halts the loop and waits for the goroutine to exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	cancel()
	<-done
	l.logger.Infof("Render loop stopped after %d frames", l.Frames())
}

func (l *Loop) run(ctx context.Context, ticker timeutil.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			l.Frame()
		}
	}
}
