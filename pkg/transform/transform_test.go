package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/overlay/pkg/landmark"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func referenceSet(t *testing.T) *landmark.Set {
	t.Helper()
	set, err := landmark.NewSet(map[landmark.BodyPart]landmark.Landmark{
		landmark.LeftShoulder:  {X: 0.4, Y: 0.3},
		landmark.RightShoulder: {X: 0.6, Y: 0.3},
		landmark.LeftHip:       {X: 0.4, Y: 0.6},
	})
	require.NoError(t, err)
	return set
}

func TestEstimateReferencePose(t *testing.T) {
	est := NewEstimator(0)

	update, ok := est.Estimate(referenceSet(t), Viewport{Width: 1000, Height: 800})
	require.True(t, ok)

	// -(0.3+0.6)/2*800 + 400 = -360 + 400 = 40
	want := Update{
		Position: mgl64.Vec3{0, 40, 0},
		Scale:    mgl64.Vec3{1, 1, 1},
	}
	if diff := cmp.Diff(want, update, approx); diff != "" {
		t.Errorf("Estimate() mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimateMirroredShoulders(t *testing.T) {
	set, err := landmark.NewSet(map[landmark.BodyPart]landmark.Landmark{
		landmark.LeftShoulder:  {X: 0.7, Y: 0.2},
		landmark.RightShoulder: {X: 0.3, Y: 0.2},
		landmark.LeftHip:       {X: 0.7, Y: 0.8},
	})
	require.NoError(t, err)

	update, ok := NewEstimator(0.01).Estimate(set, Viewport{Width: 200, Height: 100})
	require.True(t, ok)

	want := Update{
		Position: mgl64.Vec3{0, 0, 0},
		Scale:    mgl64.Vec3{0.8, 0.8, 1},
	}
	if diff := cmp.Diff(want, update, approx); diff != "" {
		t.Errorf("Estimate() mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimateMissingRequiredLandmark(t *testing.T) {
	for _, missing := range Required {
		t.Run(missing.String(), func(t *testing.T) {
			points := map[landmark.BodyPart]landmark.Landmark{
				landmark.LeftShoulder:  {X: 0.4, Y: 0.3},
				landmark.RightShoulder: {X: 0.6, Y: 0.3},
				landmark.LeftHip:       {X: 0.4, Y: 0.6},
			}
			delete(points, missing)
			set, err := landmark.NewSet(points)
			require.NoError(t, err)

			_, ok := NewEstimator(0).Estimate(set, Viewport{Width: 1000, Height: 800})
			assert.False(t, ok)
		})
	}
}

func TestEstimateEmptyViewport(t *testing.T) {
	_, ok := NewEstimator(0).Estimate(referenceSet(t), Viewport{})
	assert.False(t, ok)
}

func TestUpdateApplyKeepsRotation(t *testing.T) {
	tr := Uniform(0.5)
	tr.RotationY = 1.25

	Update{Position: mgl64.Vec3{1, 2, 0}, Scale: mgl64.Vec3{2, 2, 1}}.Apply(&tr)

	assert.Equal(t, mgl64.Vec3{1, 2, 0}, tr.Position)
	assert.Equal(t, mgl64.Vec3{2, 2, 1}, tr.Scale)
	assert.Equal(t, 1.25, tr.RotationY)
}
