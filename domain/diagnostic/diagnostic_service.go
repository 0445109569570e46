package diagnostic

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/processing"
	"github.com/open-teleop/overlay/pkg/tracking"
	"github.com/open-teleop/overlay/pkg/wire"
	"github.com/open-teleop/overlay/pkg/zeromq"
)

// TrackingSource reports the running session's tracking counters.
type TrackingSource interface {
	TrackingStats() (tracking.Stats, bool)
}

// RenderSource reports render loop counters.
type RenderSource interface {
	Frames() uint64
	DrawErrors() uint64
}

// HubSource reports front-end connection counters.
type HubSource interface {
	Clients() int
	Dropped() uint64
}

// PublisherSource reports scene publisher counters.
type PublisherSource interface {
	Sent() uint64
}

// PoolSource reports worker pool counters.
type PoolSource interface {
	GetMetrics() processing.PoolMetrics
}

// Sources are the components diagnostics read from. Any may be nil.
type Sources struct {
	Tracking  TrackingSource
	Render    RenderSource
	Hub       HubSource
	Publisher PublisherSource
	Loader    PoolSource
}

// SceneEcho summarises frames received back from the scene publisher.
type SceneEcho struct {
	Received   uint64    `json:"received"`
	LastSeq    uint64    `json:"last_seq"`
	LastModel  string    `json:"last_model,omitempty"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// SystemMetrics represents controller diagnostics information
type SystemMetrics struct {
	Timestamp        time.Time               `json:"timestamp"`
	SessionActive    bool                    `json:"session_active"`
	Tracking         *tracking.Stats         `json:"tracking,omitempty"`
	RenderFrames     uint64                  `json:"render_frames"`
	RenderDrawErrors uint64                  `json:"render_draw_errors"`
	Clients          int                     `json:"clients"`
	ClientDropped    uint64                  `json:"client_dropped"`
	ScenesPublished  uint64                  `json:"scenes_published"`
	ModelLoads       *processing.PoolMetrics `json:"model_loads,omitempty"`
	SceneEcho        *SceneEcho              `json:"scene_echo,omitempty"`
}

// DiagnosticService handles controller diagnostics
type DiagnosticService struct {
	sources Sources
	logger  customlog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	echo     *SceneEcho
	listener *zeromq.SceneSubscriber
}

// NewDiagnosticService creates a new diagnostic service instance
func NewDiagnosticService(sources Sources, logger customlog.Logger) *DiagnosticService {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &DiagnosticService{sources: sources, logger: logger, now: time.Now}
}

// GetMetricsHandler handles API requests for controller metrics
func (s *DiagnosticService) GetMetricsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"metrics": s.GetMetrics(),
	})
}

// GetMetrics collects the current counters
func (s *DiagnosticService) GetMetrics() SystemMetrics {
	m := SystemMetrics{Timestamp: s.now()}
	if src := s.sources.Tracking; src != nil {
		if stats, ok := src.TrackingStats(); ok {
			m.SessionActive = true
			m.Tracking = &stats
		}
	}
	if src := s.sources.Render; src != nil {
		m.RenderFrames = src.Frames()
		m.RenderDrawErrors = src.DrawErrors()
	}
	if src := s.sources.Hub; src != nil {
		m.Clients = src.Clients()
		m.ClientDropped = src.Dropped()
	}
	if src := s.sources.Publisher; src != nil {
		m.ScenesPublished = src.Sent()
	}
	if src := s.sources.Loader; src != nil {
		loads := src.GetMetrics()
		m.ModelLoads = &loads
	}

	s.mu.RLock()
	if s.echo != nil {
		echo := *s.echo
		m.SceneEcho = &echo
	}
	s.mu.RUnlock()
	return m
}

// RecordSceneEcho stores a frame received back from the scene publisher
func (s *DiagnosticService) RecordSceneEcho(f wire.SceneFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.echo == nil {
		s.echo = &SceneEcho{}
	}
	s.echo.Received++
	s.echo.LastSeq = f.Seq
	s.echo.LastModel = f.Model
	s.echo.LastSeenAt = s.now()
}

// StartSceneMonitor subscribes to the scene publisher at address so the
// metrics show whether published frames actually leave the process.
func (s *DiagnosticService) StartSceneMonitor(address, topic string) error {
	listener, err := zeromq.NewSceneSubscriber(address, topic, s.RecordSceneEcho, s.logger)
	if err != nil {
		return err
	}
	listener.Start()

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.logger.Infof("Scene monitor subscribed to %s", address)
	return nil
}

// Stop stops the scene monitor
func (s *DiagnosticService) Stop() {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	if listener != nil {
		listener.Stop()
	}
}
