package session

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/open-teleop/overlay/pkg/camera"
	"github.com/open-teleop/overlay/pkg/lifecycle"
)

// Controller is the lifecycle surface the session endpoints drive.
type Controller interface {
	Startup(ctx context.Context) error
	Shutdown() bool
	LoadModel(name string)
	ToggleAutoRotate() bool
	Status() lifecycle.Status
}

// Catalog answers whether a model may be loaded.
type Catalog interface {
	HasModel(name string) bool
}

// ModelRequest selects a model by catalog name.
type ModelRequest struct {
	Name string `json:"name"`
}

// SessionService exposes the tracking session over HTTP
type SessionService struct {
	ctrl           Controller
	catalog        Catalog
	startupTimeout time.Duration
}

// NewSessionService creates a new session service instance
func NewSessionService(ctrl Controller, catalog Catalog, startupTimeout time.Duration) *SessionService {
	if startupTimeout <= 0 {
		startupTimeout = 10 * time.Second
	}
	return &SessionService{ctrl: ctrl, catalog: catalog, startupTimeout: startupTimeout}
}

// RegisterRoutes mounts the session endpoints on r.
func (s *SessionService) RegisterRoutes(r fiber.Router) {
	r.Get("/", s.StatusHandler)
	r.Post("/start", s.StartHandler)
	r.Post("/stop", s.StopHandler)
	r.Post("/model", s.ModelHandler)
	r.Post("/autorotate", s.AutoRotateHandler)
}

// StatusHandler returns the current session status
func (s *SessionService) StatusHandler(c *fiber.Ctx) error {
	return c.JSON(s.ctrl.Status())
}

func startupStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrSessionActive), errors.Is(err, lifecycle.ErrStartupInProgress),
		errors.Is(err, lifecycle.ErrStartupCancelled):
		return fiber.StatusConflict
	case errors.Is(err, camera.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, lifecycle.ErrClosed):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// StartHandler runs session startup and waits for it to finish
func (s *SessionService) StartHandler(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.startupTimeout)
	defer cancel()

	if err := s.ctrl.Startup(ctx); err != nil {
		return c.Status(startupStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "session started",
		"session": s.ctrl.Status(),
	})
}

// StopHandler tears the session down; stopping with none running is not an error
func (s *SessionService) StopHandler(c *fiber.Ctx) error {
	stopped := s.ctrl.Shutdown()
	return c.JSON(fiber.Map{
		"status":  "session stopped",
		"stopped": stopped,
	})
}

// ModelHandler requests a model load. The load completes asynchronously.
func (s *SessionService) ModelHandler(c *fiber.Ctx) error {
	var req ModelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "model name is required",
		})
	}
	if s.catalog != nil && !s.catalog.HasModel(req.Name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown model: " + req.Name,
		})
	}

	s.ctrl.LoadModel(req.Name)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "model load requested",
		"model":  req.Name,
	})
}

// AutoRotateHandler flips auto-rotation
func (s *SessionService) AutoRotateHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"auto_rotate": s.ctrl.ToggleAutoRotate(),
	})
}
