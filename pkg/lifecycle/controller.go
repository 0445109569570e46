// Package lifecycle sequences session startup and teardown in response to
// host lifecycle events.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/open-teleop/overlay/pkg/camera"
	"github.com/open-teleop/overlay/pkg/gesture"
	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/notify"
	"github.com/open-teleop/overlay/pkg/pose"
	"github.com/open-teleop/overlay/pkg/render"
	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/timeutil"
	"github.com/open-teleop/overlay/pkg/tracking"
	"github.com/open-teleop/overlay/pkg/transform"
)

var (
	// ErrSessionActive is returned by Startup while a session is running.
	ErrSessionActive = errors.New("tracking session already active")
	// ErrStartupInProgress is returned when Startup is already running.
	ErrStartupInProgress = errors.New("session startup in progress")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("lifecycle controller closed")
	// ErrStartupCancelled is returned when a teardown arrives while startup
	// is still in progress.
	ErrStartupCancelled = errors.New("session startup cancelled by teardown")
)

// Camera is the camera manager surface used during startup and teardown.
type Camera interface {
	Acquire(ctx context.Context, c camera.Constraints) (*camera.Stream, error)
	BindVideoSink(ctx context.Context, s *camera.Stream) (*camera.VideoSink, error)
	Release(s *camera.Stream)
}

// ModelLoader loads model assets off the caller's goroutine.
type ModelLoader interface {
	LoadAsync(ctx context.Context, name string, onSuccess func(*scene.Asset), onFailure func(error))
}

// Models resolves catalog names to assets and initial scales.
type Models interface {
	DefaultModel() string
	AssetName(name string) string
	InitialScale(name string) float64
}

// Options configures the controller.
type Options struct {
	Constraints    camera.Constraints
	TrackingPeriod time.Duration
	Tracking       tracking.Options
}

// Deps are the collaborators the controller sequences.
type Deps struct {
	Camera    Camera
	Scene     *scene.Scene
	Loader    ModelLoader
	Models    Models
	Render    *render.Loop
	Gestures  *gesture.Controller
	Estimator pose.Estimator
	Transform transform.Estimator
	Banner    *notify.Banner
	Clock     timeutil.Clock
	Logger    customlog.Logger
}

// Controller owns the scene and the single tracking session.
type Controller struct {
	deps Deps
	opts Options

	baseCtx context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	session   *Session
	starting  bool
	teardown  bool
	stopStart context.CancelFunc
	closed    bool
	loadSeq   uint64
	lastStart error
}

// New creates a controller. Loops it starts run until Shutdown or Close.
func New(deps Deps, opts Options) *Controller {
	if deps.Clock == nil {
		deps.Clock = timeutil.RealClock{}
	}
	if deps.Logger == nil {
		deps.Logger = customlog.NewNopLogger()
	}
	if opts.TrackingPeriod <= 0 {
		opts.TrackingPeriod = tracking.DefaultPeriod
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{deps: deps, opts: opts, baseCtx: ctx, cancel: cancel}
}

// Scene returns the application-state record.
func (c *Controller) Scene() *scene.Scene {
	return c.deps.Scene
}

// Startup runs acquire camera, bind video sink, bind render and model,
// start tracking, enable gestures, in that order. The first failure aborts
// the remaining steps and raises a banner. Nothing is retried.
func (c *Controller) Startup(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.starting:
		c.mu.Unlock()
		return ErrStartupInProgress
	case c.session != nil:
		c.mu.Unlock()
		return ErrSessionActive
	}
	startCtx, stopStart := context.WithCancel(ctx)
	c.starting = true
	c.teardown = false
	c.stopStart = stopStart
	c.mu.Unlock()
	defer stopStart()

	sess, err := c.startup(startCtx)

	c.mu.Lock()
	c.starting = false
	c.stopStart = nil
	cancelled := c.teardown
	c.teardown = false
	if err == nil && !cancelled {
		c.session = sess
	}
	c.mu.Unlock()

	if cancelled {
		if sess != nil {
			c.stopSession(sess)
			err = ErrStartupCancelled
		} else {
			err = fmt.Errorf("%w: %v", ErrStartupCancelled, err)
		}
		c.mu.Lock()
		c.lastStart = err
		closed := c.closed
		c.mu.Unlock()
		if closed {
			c.deps.Render.Stop()
		}
		c.deps.Logger.Infof("Session startup abandoned: %v", err)
		return err
	}

	c.mu.Lock()
	c.lastStart = err
	c.mu.Unlock()

	if err != nil {
		c.deps.Logger.Errorf("Session startup failed: %v", err)
		c.deps.Banner.ShowError(err)
		return err
	}
	return nil
}

func (c *Controller) startup(ctx context.Context) (*Session, error) {
	logger := c.deps.Logger

	stream, err := c.deps.Camera.Acquire(ctx, c.opts.Constraints)
	if err != nil {
		return nil, fmt.Errorf("acquiring camera: %w", err)
	}

	sink, err := c.deps.Camera.BindVideoSink(ctx, stream)
	if err != nil {
		c.deps.Camera.Release(stream)
		return nil, fmt.Errorf("binding video: %w", err)
	}

	c.deps.Render.Start(c.baseCtx)
	if !c.deps.Scene.HasModel() {
		if name := c.deps.Models.DefaultModel(); name != "" {
			c.LoadModel(name)
		}
	}

	sess := &Session{
		id:        uuid.NewString(),
		startedAt: c.deps.Clock.Now(),
		stream:    stream,
		sink:      sink,
	}
	sess.active.Store(true)
	sess.loop = tracking.NewLoop(sess, c.deps.Scene, c.deps.Estimator, c.deps.Transform,
		c.deps.Clock, logger, c.opts.Tracking)
	if err := sess.loop.Start(c.baseCtx, sink, c.opts.TrackingPeriod); err != nil {
		sess.active.Store(false)
		c.deps.Camera.Release(stream)
		return nil, fmt.Errorf("starting tracking: %w", err)
	}

	c.deps.Gestures.Reset()
	c.deps.Gestures.Enable()

	logger.Infof("Session %s started on stream %s", sess.id, stream.ID)
	return sess, nil
}

// Shutdown stops tracking and releases the camera. It reports whether a
// session was running; calling it with none is harmless. A startup still in
// progress is cancelled and its session torn down as soon as it returns.
func (c *Controller) Shutdown() bool {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	if c.starting {
		c.teardown = true
		if c.stopStart != nil {
			c.stopStart()
		}
	}
	c.mu.Unlock()

	if sess == nil {
		return false
	}
	c.stopSession(sess)
	return true
}

func (c *Controller) stopSession(sess *Session) {
	sess.active.Store(false)
	sess.loop.Stop()
	c.deps.Camera.Release(sess.stream)
	c.deps.Gestures.Disable()

	c.deps.Logger.Infof("Session %s stopped after %v", sess.id,
		c.deps.Clock.Since(sess.startedAt).Round(time.Millisecond))
}

// HandleReady reacts to the host signalling it is ready.
func (c *Controller) HandleReady(ctx context.Context) error {
	return c.Startup(ctx)
}

// HandleViewportChanged records the new viewport size, tears the session
// down when the host collapses, and starts a fresh session when it expands
// without one.
func (c *Controller) HandleViewportChanged(ctx context.Context, expanded bool, vp transform.Viewport) error {
	if c.deps.Scene.SetViewport(vp) {
		c.deps.Logger.Debugf("Viewport resized to %.0fx%.0f", vp.Width, vp.Height)
	}
	if !expanded {
		c.Shutdown()
		return nil
	}
	if c.Active() {
		return nil
	}
	err := c.Startup(ctx)
	if errors.Is(err, ErrSessionActive) || errors.Is(err, ErrStartupInProgress) || errors.Is(err, ErrStartupCancelled) {
		return nil
	}
	return err
}

// LoadModel replaces the displayed model once name has loaded. A failure
// leaves the current model in place. When loads overlap, only the most
// recently requested one is attached or reported.
func (c *Controller) LoadModel(name string) {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	c.deps.Loader.LoadAsync(c.baseCtx, c.deps.Models.AssetName(name),
		func(asset *scene.Asset) {
			c.mu.Lock()
			current := seq == c.loadSeq
			c.mu.Unlock()
			if !current {
				c.deps.Logger.Debugf("Dropping superseded model '%s'", name)
				return
			}
			node := scene.NewNode(asset, c.deps.Models.InitialScale(name))
			node.Name = name
			if prev := c.deps.Scene.SetModel(node); prev != nil {
				c.deps.Logger.Infof("Model '%s' replaced '%s'", name, prev.Name)
				return
			}
			c.deps.Logger.Infof("Model '%s' attached", name)
		},
		func(err error) {
			c.mu.Lock()
			current := seq == c.loadSeq
			c.mu.Unlock()
			if !current {
				c.deps.Logger.Debugf("Ignoring failure of superseded model '%s': %v", name, err)
				return
			}
			c.deps.Banner.ShowError(err)
		})
}

// ToggleAutoRotate flips auto-rotation on the render loop.
func (c *Controller) ToggleAutoRotate() bool {
	return c.deps.Render.ToggleAutoRotate()
}

// Pinch forwards a pinch gesture.
func (c *Controller) Pinch(s float64) bool {
	return c.deps.Gestures.Pinch(s)
}

// Rotate forwards a rotate gesture.
func (c *Controller) Rotate(r float64) bool {
	return c.deps.Gestures.Rotate(r)
}

// Active reports whether a session is running.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Close shuts down the session and the render loop. The controller cannot
// be restarted afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.Shutdown()
	c.deps.Render.Stop()
	c.cancel()
}
