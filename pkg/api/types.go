package api

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/open-teleop/overlay/pkg/notify"
	"github.com/open-teleop/overlay/pkg/render"
)

// --- Data Structures for WebSocket Messages ---

// Host event types sent by the mini-app shell.
const (
	EventReady           = "ready"
	EventExpand          = "expand"
	EventViewportChanged = "viewportChanged"
	EventPinch           = "pinch"
	EventRotate          = "rotate"
	EventToggleRotate    = "toggleRotate"
	EventLoadModel       = "loadModel"
)

// Outbound message types.
const (
	MessageScene   = "scene"
	MessageBanner  = "banner"
	MessageCatalog = "catalog"
	MessageError   = "error"
)

// Vector3 defines a standard 3D vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vector3(v mgl64.Vec3) Vector3 {
	return Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// HostEvent is one inbound event. Only the fields relevant to Type are set.
type HostEvent struct {
	Type       string  `json:"type"`
	IsExpanded *bool   `json:"isExpanded,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Angle      float64 `json:"angle,omitempty"`
	Name       string  `json:"name,omitempty"`
}

// SceneMessage is the per-frame payload the front-end renders.
type SceneMessage struct {
	Seq         uint64  `json:"seq"`
	TimestampNs int64   `json:"timestamp_ns"`
	AutoRotate  bool    `json:"auto_rotate"`
	HasModel    bool    `json:"has_model"`
	Model       string  `json:"model,omitempty"`
	Position    Vector3 `json:"position"`
	Scale       Vector3 `json:"scale"`
	RotationY   float64 `json:"rotation_y"`
}

// NewSceneMessage flattens a render frame.
func NewSceneMessage(f render.Frame) SceneMessage {
	tr := f.Scene.Transform
	return SceneMessage{
		Seq:         f.Seq,
		TimestampNs: f.TimestampNs,
		AutoRotate:  f.AutoRotate,
		HasModel:    f.Scene.HasModel,
		Model:       f.Scene.Model,
		Position:    vector3(tr.Position),
		Scale:       vector3(tr.Scale),
		RotationY:   tr.RotationY,
	}
}

// CatalogMessage lists the selectable models.
type CatalogMessage struct {
	ConfigID     string   `json:"config_id"`
	DefaultModel string   `json:"default_model"`
	Models       []string `json:"models"`
}

// OutboundMessage wraps everything pushed to the front-end.
type OutboundMessage struct {
	Type    string          `json:"type"`
	Scene   *SceneMessage   `json:"scene,omitempty"`
	Banner  *notify.Message `json:"banner,omitempty"`
	Catalog *CatalogMessage `json:"catalog,omitempty"`
	Error   string          `json:"error,omitempty"`
}
