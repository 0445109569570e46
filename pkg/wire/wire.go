// Package wire encodes the flatbuffer tables exchanged over ZeroMQ.
package wire

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/open-teleop/overlay/pkg/camera"
	fb "github.com/open-teleop/overlay/pkg/flatbuffers/open_teleop/overlay"
	"github.com/open-teleop/overlay/pkg/landmark"
	"github.com/open-teleop/overlay/pkg/pose"
	"github.com/open-teleop/overlay/pkg/render"
	"github.com/open-teleop/overlay/pkg/transform"
)

// ErrMalformed is returned for buffers that are not valid tables.
var ErrMalformed = errors.New("malformed flatbuffer")

// valuesPerLandmark is x, y, z, visibility.
const valuesPerLandmark = 4

// decode runs fn, converting the panics the flatbuffers runtime raises on
// truncated input into ErrMalformed.
func decode(data []byte, fn func()) (err error) {
	if len(data) < flatbuffers.SizeUOffsetT {
		return fmt.Errorf("%w: %d bytes", ErrMalformed, len(data))
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	fn()
	return nil
}

// EncodeFrameRequest serialises a pose request.
func EncodeFrameRequest(req pose.Request) []byte {
	b := flatbuffers.NewBuilder(len(req.Frame.Data) + 128)

	jpeg := b.CreateByteVector(req.Frame.Data)
	session := b.CreateString(req.SessionID)

	fb.FrameRequestStart(b)
	fb.FrameRequestAddSessionId(b, session)
	fb.FrameRequestAddSeq(b, req.Seq)
	fb.FrameRequestAddWidth(b, int32(req.Frame.Width))
	fb.FrameRequestAddHeight(b, int32(req.Frame.Height))
	fb.FrameRequestAddModelComplexity(b, int32(req.Options.ModelComplexity))
	fb.FrameRequestAddSmoothLandmarks(b, req.Options.SmoothLandmarks)
	fb.FrameRequestAddJpeg(b, jpeg)
	if !req.Frame.Timestamp.IsZero() {
		fb.FrameRequestAddTimestampNs(b, req.Frame.Timestamp.UnixNano())
	}
	b.Finish(fb.FrameRequestEnd(b))
	return b.FinishedBytes()
}

// DecodeFrameRequest is the inverse of EncodeFrameRequest.
func DecodeFrameRequest(data []byte) (pose.Request, error) {
	var req pose.Request
	err := decode(data, func() {
		t := fb.GetRootAsFrameRequest(data, 0)
		req = pose.Request{
			SessionID: string(t.SessionId()),
			Seq:       t.Seq(),
			Frame: camera.Frame{
				Width:  int(t.Width()),
				Height: int(t.Height()),
				Data:   append([]byte(nil), t.JpegBytes()...),
			},
			Options: pose.Options{
				ModelComplexity: int(t.ModelComplexity()),
				SmoothLandmarks: t.SmoothLandmarks(),
			},
		}
		if ns := t.TimestampNs(); ns != 0 {
			req.Frame.Timestamp = time.Unix(0, ns)
		}
	})
	return req, err
}

// EncodePoseResult serialises a result. A nil landmark set is encoded with
// an empty presence mask.
func EncodePoseResult(res pose.Result) []byte {
	b := flatbuffers.NewBuilder(landmark.Count*valuesPerLandmark*4 + 128)

	var errOff flatbuffers.UOffsetT
	if res.Err != nil {
		errOff = b.CreateString(res.Err.Error())
	}
	var lmOff flatbuffers.UOffsetT
	var mask uint64
	if res.Landmarks != nil {
		points := res.Landmarks.Points()
		mask = res.Landmarks.Mask()
		fb.PoseResultStartLandmarksVector(b, landmark.Count*valuesPerLandmark)
		for i := landmark.Count - 1; i >= 0; i-- {
			p := points[i]
			b.PrependFloat32(float32(p.Visibility))
			b.PrependFloat32(float32(p.Z))
			b.PrependFloat32(float32(p.Y))
			b.PrependFloat32(float32(p.X))
		}
		lmOff = b.EndVector(landmark.Count * valuesPerLandmark)
	}
	session := b.CreateString(res.SessionID)

	fb.PoseResultStart(b)
	fb.PoseResultAddSessionId(b, session)
	fb.PoseResultAddSeq(b, res.Seq)
	if lmOff != 0 {
		fb.PoseResultAddLandmarks(b, lmOff)
	}
	fb.PoseResultAddPresence(b, mask)
	if errOff != 0 {
		fb.PoseResultAddError(b, errOff)
	}
	b.Finish(fb.PoseResultEnd(b))
	return b.FinishedBytes()
}

// DecodePoseResult rebuilds a pose.Result. An empty presence mask means no
// body was detected and yields nil Landmarks.
func DecodePoseResult(data []byte) (pose.Result, error) {
	var (
		res    pose.Result
		badLen int
	)
	err := decode(data, func() {
		t := fb.GetRootAsPoseResult(data, 0)
		res.SessionID = string(t.SessionId())
		res.Seq = t.Seq()
		if msg := t.Error(); len(msg) > 0 {
			res.Err = errors.New(string(msg))
		}

		mask := t.Presence()
		if mask == 0 {
			return
		}
		n := t.LandmarksLength()
		if n != landmark.Count*valuesPerLandmark {
			badLen = n
			return
		}
		var points [landmark.Count]landmark.Landmark
		for i := range points {
			base := i * valuesPerLandmark
			points[i] = landmark.Landmark{
				X:          float64(t.Landmarks(base)),
				Y:          float64(t.Landmarks(base + 1)),
				Z:          float64(t.Landmarks(base + 2)),
				Visibility: float64(t.Landmarks(base + 3)),
			}
		}
		res.Landmarks = landmark.FromMask(points, mask)
	})
	if err != nil {
		return pose.Result{}, err
	}
	if badLen != 0 {
		return pose.Result{}, fmt.Errorf("%w: %d landmark values, want %d", ErrMalformed, badLen, landmark.Count*valuesPerLandmark)
	}
	return res, nil
}

// SceneFrame is a decoded scene table.
type SceneFrame struct {
	Seq        uint64
	Timestamp  time.Time
	AutoRotate bool
	HasModel   bool
	Model      string
	Transform  transform.ModelTransform
}

// EncodeSceneFrame serialises one drawn frame.
func EncodeSceneFrame(f render.Frame) []byte {
	b := flatbuffers.NewBuilder(256)

	var model flatbuffers.UOffsetT
	if f.Scene.HasModel {
		model = b.CreateString(f.Scene.Model)
	}
	tr := f.Scene.Transform

	fb.SceneFrameStart(b)
	fb.SceneFrameAddSeq(b, f.Seq)
	fb.SceneFrameAddTimestampNs(b, f.TimestampNs)
	fb.SceneFrameAddHasModel(b, f.Scene.HasModel)
	if model != 0 {
		fb.SceneFrameAddModel(b, model)
	}
	fb.SceneFrameAddPositionX(b, tr.Position.X())
	fb.SceneFrameAddPositionY(b, tr.Position.Y())
	fb.SceneFrameAddPositionZ(b, tr.Position.Z())
	fb.SceneFrameAddScaleX(b, tr.Scale.X())
	fb.SceneFrameAddScaleY(b, tr.Scale.Y())
	fb.SceneFrameAddScaleZ(b, tr.Scale.Z())
	fb.SceneFrameAddRotationY(b, tr.RotationY)
	fb.SceneFrameAddAutoRotate(b, f.AutoRotate)
	b.Finish(fb.SceneFrameEnd(b))
	return b.FinishedBytes()
}

// DecodeSceneFrame is the inverse of EncodeSceneFrame.
func DecodeSceneFrame(data []byte) (SceneFrame, error) {
	var out SceneFrame
	err := decode(data, func() {
		t := fb.GetRootAsSceneFrame(data, 0)
		out = SceneFrame{
			Seq:        t.Seq(),
			Timestamp:  time.Unix(0, t.TimestampNs()),
			AutoRotate: t.AutoRotate(),
			HasModel:   t.HasModel(),
			Model:      string(t.Model()),
			Transform: transform.ModelTransform{
				Position:  mgl64.Vec3{t.PositionX(), t.PositionY(), t.PositionZ()},
				Scale:     mgl64.Vec3{t.ScaleX(), t.ScaleY(), t.ScaleZ()},
				RotationY: t.RotationY(),
			},
		}
	})
	return out, err
}
