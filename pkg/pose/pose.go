// Package pose defines the boundary to the pose estimator collaborator.
package pose

import (
	"context"

	"github.com/open-teleop/overlay/pkg/camera"
	"github.com/open-teleop/overlay/pkg/landmark"
)

// Options are the estimator settings sent with every request.
type Options struct {
	ModelComplexity int  `yaml:"model_complexity"`
	SmoothLandmarks bool `yaml:"smooth_landmarks"`
}

// DefaultOptions match the reference pipeline.
func DefaultOptions() Options {
	return Options{ModelComplexity: 1, SmoothLandmarks: true}
}

// Request is one frame submitted for estimation.
type Request struct {
	SessionID string
	Seq       uint64
	Frame     camera.Frame
	Options   Options
}

// Result is delivered asynchronously for a Request. Landmarks is nil when no
// body was found.
type Result struct {
	SessionID string
	Seq       uint64
	Landmarks *landmark.Set
	Err       error
}

// Estimator accepts frames and delivers results out of band. Send must not
// block on the estimation itself.
type Estimator interface {
	Send(ctx context.Context, req Request) error
	Results() <-chan Result
}
