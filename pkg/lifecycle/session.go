package lifecycle

import (
	"sync/atomic"
	"time"

	"github.com/open-teleop/overlay/pkg/camera"
	"github.com/open-teleop/overlay/pkg/tracking"
)

// Session is one camera acquisition and the tracking loop sampling it.
// Only the Controller writes active.
type Session struct {
	id        string
	startedAt time.Time
	stream    *camera.Stream
	sink      *camera.VideoSink
	loop      *tracking.Loop
	active    atomic.Bool
}

// ID implements tracking.Session.
func (s *Session) ID() string { return s.id }

// Active implements tracking.Session.
func (s *Session) Active() bool { return s.active.Load() }

// StartedAt is when the session became active.
func (s *Session) StartedAt() time.Time { return s.startedAt }
