// Package landmark defines the body keypoints produced by the pose estimator.
package landmark

import "fmt"

// Count is the number of keypoints in a full pose result.
const Count = 33

// BodyPart identifies a keypoint by its fixed index in a pose result.
type BodyPart int

const (
	Nose BodyPart = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

var partNames = [Count]string{
	"nose", "left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear", "mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_pinky", "right_pinky",
	"left_index", "right_index", "left_thumb", "right_thumb",
	"left_hip", "right_hip", "left_knee", "right_knee",
	"left_ankle", "right_ankle", "left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

// Valid reports whether p is one of the 33 defined keypoints.
func (p BodyPart) Valid() bool {
	return p >= 0 && int(p) < Count
}

func (p BodyPart) String() string {
	if !p.Valid() {
		return fmt.Sprintf("body_part(%d)", int(p))
	}
	return partNames[p]
}

// Landmark is a normalized keypoint. X and Y are in [0,1] image space, Z is
// depth relative to the hips and Visibility is the model's confidence.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Set is one inference result. A keypoint may be absent; absence is tracked
// separately from the zero Landmark. A Set is not modified after NewSet.
type Set struct {
	points  [Count]Landmark
	present uint64
}

// NewSet builds a Set from keypoints keyed by body part. Invalid parts are
// rejected so index typos surface at the producer.
func NewSet(points map[BodyPart]Landmark) (*Set, error) {
	s := &Set{}
	for part, lm := range points {
		if !part.Valid() {
			return nil, fmt.Errorf("invalid body part index %d", int(part))
		}
		s.points[part] = lm
		s.present |= 1 << uint(part)
	}
	return s, nil
}

// FromSlice builds a full Set from an ordered slice of Count keypoints.
func FromSlice(points []Landmark) (*Set, error) {
	if len(points) != Count {
		return nil, fmt.Errorf("expected %d landmarks, got %d", Count, len(points))
	}
	s := &Set{}
	copy(s.points[:], points)
	s.present = 1<<Count - 1
	return s, nil
}

// FromMask rebuilds a Set from a wire presence mask. Points whose bit is
// clear are ignored.
func FromMask(points [Count]Landmark, mask uint64) *Set {
	s := &Set{points: points, present: mask & (1<<Count - 1)}
	for i := 0; i < Count; i++ {
		if s.present&(1<<uint(i)) == 0 {
			s.points[i] = Landmark{}
		}
	}
	return s
}

// Get returns the keypoint for part and whether it is present.
func (s *Set) Get(part BodyPart) (Landmark, bool) {
	if s == nil || !part.Valid() || s.present&(1<<uint(part)) == 0 {
		return Landmark{}, false
	}
	return s.points[part], true
}

// Has reports whether every listed part is present.
func (s *Set) Has(parts ...BodyPart) bool {
	for _, p := range parts {
		if _, ok := s.Get(p); !ok {
			return false
		}
	}
	return true
}

// Len is the number of present keypoints.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for m := s.present; m != 0; m &= m - 1 {
		n++
	}
	return n
}

// Mask returns the presence bitmask (bit i set = part i present).
func (s *Set) Mask() uint64 {
	if s == nil {
		return 0
	}
	return s.present
}

// Points returns a copy of all keypoint slots. Absent slots are zero.
func (s *Set) Points() [Count]Landmark {
	if s == nil {
		return [Count]Landmark{}
	}
	return s.points
}
