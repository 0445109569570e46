// Package transform maps pose landmarks onto the overlay model's transform.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/open-teleop/overlay/pkg/landmark"
)

// DefaultScaleFactor converts shoulder width in pixels to model scale.
const DefaultScaleFactor = 0.005

// Required are the keypoints Estimate needs to produce an update.
var Required = []landmark.BodyPart{
	landmark.LeftShoulder,
	landmark.RightShoulder,
	landmark.LeftHip,
}

// ModelTransform is the live placement of the displayed model node.
type ModelTransform struct {
	Position  mgl64.Vec3 `json:"position"`
	Scale     mgl64.Vec3 `json:"scale"`
	RotationY float64    `json:"rotation_y"`
}

// Identity is a transform at the origin with unit scale.
func Identity() ModelTransform {
	return ModelTransform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Uniform is a transform at the origin scaled by s on every axis.
func Uniform(s float64) ModelTransform {
	return ModelTransform{Scale: mgl64.Vec3{s, s, s}}
}

// Viewport is the pixel size of the render surface.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Update is the position and scale derived from one LandmarkSet. Rotation is
// never estimated from landmarks.
type Update struct {
	Position mgl64.Vec3
	Scale    mgl64.Vec3
}

// Apply overwrites position and scale on t, leaving rotation alone.
func (u Update) Apply(t *ModelTransform) {
	t.Position = u.Position
	t.Scale = u.Scale
}

// Estimator turns landmark sets into transform updates.
type Estimator struct {
	ScaleFactor float64
}

// NewEstimator returns an Estimator; k <= 0 selects DefaultScaleFactor.
func NewEstimator(k float64) Estimator {
	if k <= 0 {
		k = DefaultScaleFactor
	}
	return Estimator{ScaleFactor: k}
}

// Estimate projects the shoulder/hip midpoint into a pixel-centred, y-up
// space and sizes the model by shoulder width. ok is false when a required
// keypoint is absent or the viewport is empty; callers keep the previous
// transform in that case.
func (e Estimator) Estimate(set *landmark.Set, vp Viewport) (Update, bool) {
	if !vp.Valid() {
		return Update{}, false
	}
	ls, ok := set.Get(landmark.LeftShoulder)
	if !ok {
		return Update{}, false
	}
	rs, ok := set.Get(landmark.RightShoulder)
	if !ok {
		return Update{}, false
	}
	lh, ok := set.Get(landmark.LeftHip)
	if !ok {
		return Update{}, false
	}

	midX := (ls.X + rs.X) / 2
	midY := (ls.Y + lh.Y) / 2

	k := e.ScaleFactor
	if k <= 0 {
		k = DefaultScaleFactor
	}
	shoulderWidthPx := math.Abs(ls.X-rs.X) * vp.Width
	s := shoulderWidthPx * k

	return Update{
		Position: mgl64.Vec3{
			midX*vp.Width - vp.Width/2,
			-midY*vp.Height + vp.Height/2,
			0,
		},
		Scale: mgl64.Vec3{s, s, 1},
	}, true
}
