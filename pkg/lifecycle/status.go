package lifecycle

import (
	"time"

	"github.com/open-teleop/overlay/pkg/gesture"
	"github.com/open-teleop/overlay/pkg/notify"
	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/tracking"
)

// Status is the externally visible session state.
type Status struct {
	Active       bool            `json:"active"`
	SessionID    string          `json:"session_id,omitempty"`
	StreamID     string          `json:"stream_id,omitempty"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	VideoState   string          `json:"video_state,omitempty"`
	Tracking     *tracking.Stats `json:"tracking,omitempty"`
	Scene        scene.Snapshot  `json:"scene"`
	Gestures     gesture.State   `json:"gestures"`
	AutoRotate   bool            `json:"auto_rotate"`
	RenderFrames uint64          `json:"render_frames"`
	Banner       *notify.Message `json:"banner,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
}

// Status collects the current state of every component.
func (c *Controller) Status() Status {
	c.mu.Lock()
	sess := c.session
	lastErr := c.lastStart
	c.mu.Unlock()

	st := Status{
		Scene:        c.deps.Scene.Snapshot(),
		Gestures:     c.deps.Gestures.State(),
		AutoRotate:   c.deps.Render.AutoRotate(),
		RenderFrames: c.deps.Render.Frames(),
	}
	if sess != nil {
		started := sess.startedAt
		stats := sess.loop.Stats()
		st.Active = true
		st.SessionID = sess.id
		st.StreamID = sess.stream.ID
		st.StartedAt = &started
		st.VideoState = sess.sink.ReadyState().String()
		st.Tracking = &stats
	}
	if msg, ok := c.deps.Banner.Active(); ok {
		st.Banner = &msg
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}
	return st
}

// TrackingStats returns the running session's tracking counters.
func (c *Controller) TrackingStats() (tracking.Stats, bool) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return tracking.Stats{}, false
	}
	return sess.loop.Stats(), true
}
