// Package tracking samples the camera at a fixed period, submits frames to
// the pose estimator and applies the resulting transform to the scene.
package tracking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/open-teleop/overlay/pkg/camera"
	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/pose"
	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/timeutil"
	"github.com/open-teleop/overlay/pkg/transform"
)

// DefaultPeriod is the sampling period of the reference pipeline.
const DefaultPeriod = 150 * time.Millisecond

// ErrNotIdle is returned when starting a loop that already ran.
var ErrNotIdle = errors.New("tracking loop already started")

// State is the loop lifecycle. Stopped is terminal.
type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Session is the view of the owning tracking session the loop needs.
type Session interface {
	ID() string
	Active() bool
}

// FrameSource is satisfied by camera.VideoSink.
type FrameSource interface {
	ReadyState() camera.ReadyState
	CurrentFrame() (camera.Frame, bool)
}

// Options configures a Loop.
type Options struct {
	// MaxInFlight caps outstanding requests; 0 means unbounded.
	MaxInFlight int
	// DropStale discards results older than the last applied one.
	DropStale bool
	// ResultTimeout frees the slot of a request whose result has not come
	// back. Zero means four periods.
	ResultTimeout time.Duration
	Pose          pose.Options
}

// request is an outstanding submission.
type request struct {
	sentAt time.Time
	// generation is the scene attachment the frame was taken against.
	generation uint64
}

// Loop is one session's tracking loop.
type Loop struct {
	session   Session
	scene     *scene.Scene
	estimator pose.Estimator
	tf        transform.Estimator
	clock     timeutil.Clock
	logger    customlog.Logger
	opts      Options

	state atomic.Int32
	stats counters

	mu          sync.Mutex
	source      FrameSource
	period      time.Duration
	seq         uint64
	pending     map[uint64]request
	timeout     time.Duration
	lastApplied uint64
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewLoop creates an idle loop.
func NewLoop(session Session, s *scene.Scene, est pose.Estimator, tf transform.Estimator,
	clock timeutil.Clock, logger customlog.Logger, opts Options) *Loop {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	l := &Loop{
		session:   session,
		scene:     s,
		estimator: est,
		tf:        tf,
		clock:     clock,
		logger:    logger.WithField("session", session.ID()),
		opts:      opts,
		pending:   make(map[uint64]request),
		ctx:       context.Background(),
	}
	l.state.Store(int32(Idle))
	return l
}

// State returns the current state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Start moves Idle to Running and begins sampling src every period. Results
// are consumed on the same goroutine, so they apply in arrival order.
func (l *Loop) Start(ctx context.Context, src FrameSource, period time.Duration) error {
	if period <= 0 {
		period = DefaultPeriod
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrNotIdle
	}

	l.source = src
	l.period = period
	l.timeout = l.opts.ResultTimeout
	if l.timeout <= 0 {
		l.timeout = 4 * period
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})

	ticker := l.clock.NewTicker(period)
	go l.run(l.ctx, ticker, l.done)

	l.logger.Infof("Tracking loop started (period %v, max in flight %d)", period, l.opts.MaxInFlight)
	return nil
}

func (l *Loop) run(ctx context.Context, ticker timeutil.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	var results <-chan pose.Result
	if l.estimator != nil {
		results = l.estimator.Results()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			l.Tick()
		case res, ok := <-results:
			if !ok {
				l.logger.Warnf("Pose result stream closed")
				results = nil
				continue
			}
			l.HandleResult(res)
		}
	}
}

// Tick runs one sampling step. Frames are submitted only while Running and
// once the source has current data.
func (l *Loop) Tick() {
	if l.State() != Running {
		return
	}
	l.stats.ticks.Add(1)
	generation := l.scene.Generation()
	now := l.clock.Now()

	l.mu.Lock()
	src := l.source
	if src == nil || l.estimator == nil || src.ReadyState() < camera.HaveCurrentData {
		l.mu.Unlock()
		l.stats.skipped.Add(1)
		return
	}
	frame, ok := src.CurrentFrame()
	if !ok {
		l.mu.Unlock()
		l.stats.skipped.Add(1)
		return
	}
	l.expireLocked(now)
	if l.opts.MaxInFlight > 0 && len(l.pending) >= l.opts.MaxInFlight {
		l.mu.Unlock()
		l.stats.busy.Add(1)
		return
	}
	l.seq++
	l.pending[l.seq] = request{sentAt: now, generation: generation}
	req := pose.Request{
		SessionID: l.session.ID(),
		Seq:       l.seq,
		Frame:     frame,
		Options:   l.opts.Pose,
	}
	ctx, period := l.ctx, l.period
	l.mu.Unlock()

	sendCtx, cancel := context.WithTimeout(ctx, period)
	defer cancel()
	if err := l.estimator.Send(sendCtx, req); err != nil {
		l.mu.Lock()
		delete(l.pending, req.Seq)
		l.mu.Unlock()
		l.stats.sendErrors.Add(1)
		l.logger.Warnf("Submitting frame %d failed: %v", req.Seq, err)
		return
	}
	l.stats.submitted.Add(1)
}

// expireLocked frees the slots of requests unanswered for longer than the
// result timeout. A result that still turns up later is handled like any
// other.
func (l *Loop) expireLocked(now time.Time) {
	for seq, req := range l.pending {
		if now.Sub(req.sentAt) >= l.timeout {
			delete(l.pending, seq)
			l.stats.expired.Add(1)
			l.logger.Debugf("Frame %d unanswered after %v, slot reclaimed", seq, l.timeout)
		}
	}
}

// HandleResult applies one estimator result. Results arriving after the
// loop stopped, after the session went inactive, or for another session are
// discarded. A result for a frame taken before the model was replaced is
// not applied to the new model.
func (l *Loop) HandleResult(res pose.Result) {
	if l.State() != Running || !l.session.Active() || res.SessionID != l.session.ID() {
		l.stats.discarded.Add(1)
		return
	}

	l.mu.Lock()
	req, tracked := l.pending[res.Seq]
	delete(l.pending, res.Seq)
	if l.opts.DropStale && res.Seq <= l.lastApplied {
		l.mu.Unlock()
		l.stats.stale.Add(1)
		return
	}
	l.mu.Unlock()

	if res.Err != nil {
		l.stats.resultErrors.Add(1)
		l.logger.Warnf("Pose estimation for frame %d failed: %v", res.Seq, res.Err)
		return
	}
	if res.Landmarks == nil {
		l.stats.noBody.Add(1)
		return
	}

	update, ok := l.tf.Estimate(res.Landmarks, l.scene.Viewport())
	if !ok {
		l.stats.missingLandmarks.Add(1)
		return
	}
	var updated bool
	if tracked {
		updated = l.scene.UpdateModelIf(req.generation, update.Apply)
	} else {
		updated = l.scene.UpdateModel(update.Apply)
	}
	if !updated {
		if tracked && l.scene.HasModel() {
			l.stats.replaced.Add(1)
			return
		}
		l.stats.noModel.Add(1)
		return
	}

	l.mu.Lock()
	if res.Seq > l.lastApplied {
		l.lastApplied = res.Seq
	}
	l.mu.Unlock()
	l.stats.applied.Add(1)
}

// Stop moves the loop to Stopped and cancels the ticker. Calling it again,
// or on a loop that never started, is harmless.
func (l *Loop) Stop() {
	l.mu.Lock()
	prev := State(l.state.Swap(int32(Stopped)))
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	if prev != Running {
		return
	}
	cancel()
	<-done
	s := l.Stats()
	l.logger.Infof("Tracking loop stopped (%d submitted, %d applied, %d discarded)",
		s.Submitted, s.Applied, s.Discarded)
}

// InFlight returns the number of requests awaiting a result.
func (l *Loop) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
