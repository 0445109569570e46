// Package camera acquires and releases the video stream the tracker samples.
package camera

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAccessDenied wraps every permission or hardware failure during
	// acquisition.
	ErrAccessDenied = errors.New("camera access denied")
	// ErrStreamStopped is returned when binding a sink to a stopped stream.
	ErrStreamStopped = errors.New("camera stream stopped")
)

// FacingMode selects the front or back camera.
type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// Constraints are the acquisition preferences.
type Constraints struct {
	FacingMode FacingMode `json:"facing_mode" yaml:"facing_mode"`
	Width      int        `json:"width" yaml:"width"`
	Height     int        `json:"height" yaml:"height"`
}

func (c Constraints) String() string {
	return fmt.Sprintf("%s %dx%d", c.FacingMode, c.Width, c.Height)
}

// Frame is one captured image, JPEG encoded.
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	Width     int
	Height    int
	Data      []byte
}

// Device is an opened capture device delivering frames one at a time.
// ReadFrame blocks until the next frame; after Close it returns an error.
type Device interface {
	ReadFrame() (Frame, error)
	Close() error
}

// Opener opens a capture device matching the constraints.
type Opener interface {
	Open(ctx context.Context, c Constraints) (Device, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, c Constraints) (Device, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, c Constraints) (Device, error) {
	return f(ctx, c)
}
