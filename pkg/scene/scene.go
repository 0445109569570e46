// Package scene holds the application-state record shared by the tracking,
// gesture and render loops: the single model node and the viewport.
package scene

import (
	"sync"

	"github.com/open-teleop/overlay/pkg/transform"
)

// Node is the displayed model and its live transform.
type Node struct {
	Name      string
	Asset     *Asset
	Transform transform.ModelTransform
}

// NewNode wraps a loaded asset with a uniform initial scale.
func NewNode(asset *Asset, initialScale float64) *Node {
	name := ""
	if asset != nil {
		name = asset.Name
	}
	return &Node{
		Name:      name,
		Asset:     asset,
		Transform: transform.Uniform(initialScale),
	}
}

// Snapshot is a copy of the scene taken under the lock.
type Snapshot struct {
	HasModel   bool                     `json:"has_model"`
	Model      string                   `json:"model,omitempty"`
	Transform  transform.ModelTransform `json:"transform"`
	Viewport   transform.Viewport       `json:"viewport"`
	Generation uint64                   `json:"generation"`
}

// Scene owns the model node. All reads and writes of the transform go
// through it, so concurrent writers resolve as last-write-wins.
type Scene struct {
	mu         sync.Mutex
	model      *Node
	viewport   transform.Viewport
	generation uint64
}

// New creates an empty scene for the given viewport.
func New(vp transform.Viewport) *Scene {
	return &Scene{viewport: vp}
}

// SetModel detaches the current node, if any, and attaches n. It returns the
// detached node.
func (s *Scene) SetModel(n *Node) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.model
	s.model = nil
	if n != nil {
		s.model = n
		s.generation++
	}
	return prev
}

// RemoveModel detaches the current node and returns it.
func (s *Scene) RemoveModel() *Node {
	return s.SetModel(nil)
}

// HasModel reports whether a model node is attached.
func (s *Scene) HasModel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model != nil
}

// Generation increments every time a new node is attached.
func (s *Scene) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// UpdateModel runs fn on the live transform. It returns false, without
// calling fn, when no model is attached.
func (s *Scene) UpdateModel(fn func(t *transform.ModelTransform)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return false
	}
	fn(&s.model.Transform)
	return true
}

// UpdateModelIf is UpdateModel restricted to a specific attachment. A stale
// generation is treated like a missing model.
func (s *Scene) UpdateModelIf(generation uint64, fn func(t *transform.ModelTransform)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil || s.generation != generation {
		return false
	}
	fn(&s.model.Transform)
	return true
}

// Viewport returns the current render surface size.
func (s *Scene) Viewport() transform.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// SetViewport ignores sizes that are not strictly positive.
func (s *Scene) SetViewport(vp transform.Viewport) bool {
	if !vp.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = vp
	return true
}

// Snapshot copies the scene state.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Viewport:   s.viewport,
		Generation: s.generation,
	}
	if s.model != nil {
		snap.HasModel = true
		snap.Model = s.model.Name
		snap.Transform = s.model.Transform
	}
	return snap
}
