package gesture

import (
	"errors"
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/open-teleop/overlay/pkg/gesture"
)

// Gesture types accepted by CommandHandler.
const (
	TypePinch  = "pinch"
	TypeRotate = "rotate"
)

// ErrInvalidCommand is returned by ValidateCommand.
var ErrInvalidCommand = errors.New("invalid gesture command")

// Command represents a touch gesture reported by the front-end
type Command struct {
	Type  string  `json:"type"`
	Scale float64 `json:"scale,omitempty"`
	Angle float64 `json:"angle,omitempty"`
}

// Target applies gestures to the live model.
type Target interface {
	Pinch(s float64) bool
	Rotate(r float64) bool
}

// StateSource reports the cumulative gesture state.
type StateSource interface {
	State() gesture.State
}

// GestureService handles gesture commands
type GestureService struct {
	target Target
	state  StateSource
}

// NewGestureService creates a new gesture service instance
func NewGestureService(target Target, state StateSource) *GestureService {
	return &GestureService{target: target, state: state}
}

// CommandHandler processes incoming gesture commands
func (s *GestureService) CommandHandler(c *fiber.Ctx) error {
	var cmd Command
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := s.ValidateCommand(cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	applied := s.SendCommand(cmd)
	resp := fiber.Map{
		"status":  "command received",
		"applied": applied,
		"command": cmd,
	}
	if s.state != nil {
		resp["state"] = s.state.State()
	}
	return c.JSON(resp)
}

// ValidateCommand checks the type and that the value is usable
func (s *GestureService) ValidateCommand(cmd Command) error {
	switch cmd.Type {
	case TypePinch:
		if math.IsNaN(cmd.Scale) || math.IsInf(cmd.Scale, 0) || cmd.Scale <= 0 {
			return fmt.Errorf("%w: pinch scale must be positive, got %v", ErrInvalidCommand, cmd.Scale)
		}
	case TypeRotate:
		if math.IsNaN(cmd.Angle) || math.IsInf(cmd.Angle, 0) {
			return fmt.Errorf("%w: rotate angle must be finite", ErrInvalidCommand)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, cmd.Type)
	}
	return nil
}

// SendCommand applies a validated command. It reports false when there is
// no model or gestures are disabled.
func (s *GestureService) SendCommand(cmd Command) bool {
	if cmd.Type == TypePinch {
		return s.target.Pinch(cmd.Scale)
	}
	return s.target.Rotate(cmd.Angle)
}
