package scene

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/overlay/pkg/processing"
)

func writeModel(t *testing.T, dir, name string) {
	t.Helper()
	doc := &gltf.Document{
		Asset:  gltf.Asset{Version: "2.0", Generator: "overlay-test"},
		Scenes: []*gltf.Scene{{Name: "root", Nodes: []int{0}}},
		Nodes:  []*gltf.Node{{Name: "hat"}},
	}
	require.NoError(t, gltf.SaveBinary(doc, filepath.Join(dir, name+".glb")))
}

func TestLoaderPath(t *testing.T) {
	l := NewLoader("models", ".glb", nil)
	assert.Equal(t, filepath.Join("models", "cap.glb"), l.Path("cap"))

	l = NewLoader("models", "", nil)
	assert.Equal(t, filepath.Join("models", "cap.glb"), l.Path("cap"))
}

func TestLoadParsesModel(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "hat")

	asset, err := NewLoader(dir, "glb", nil).Load(context.Background(), "hat")
	require.NoError(t, err)
	assert.Equal(t, "hat", asset.Name)
	assert.Equal(t, 1, asset.Scenes)
	assert.Equal(t, 1, asset.Nodes)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.glb"), []byte("not a model"), 0644))
	loader := NewLoader(dir, "glb", nil)

	cases := map[string]string{
		"missing file":   "absent",
		"corrupt file":   "broken",
		"path traversal": "../etc/passwd",
		"empty name":     "",
	}
	for label, name := range cases {
		t.Run(label, func(t *testing.T) {
			_, err := loader.Load(context.Background(), name)
			assert.ErrorIs(t, err, ErrModelLoad)
		})
	}
}

func TestLoadAsyncReportsOnce(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "hat")
	loader := NewLoader(dir, "glb", nil)

	loaded := make(chan *Asset, 1)
	failed := make(chan error, 1)
	loader.LoadAsync(context.Background(), "hat",
		func(a *Asset) { loaded <- a },
		func(err error) { failed <- err })

	select {
	case a := <-loaded:
		assert.Equal(t, "hat", a.Name)
	case err := <-failed:
		t.Fatalf("unexpected failure: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}

	loader.LoadAsync(context.Background(), "absent",
		func(a *Asset) { loaded <- a },
		func(err error) { failed <- err })

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, ErrModelLoad)
	case <-loaded:
		t.Fatal("absent model reported success")
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}
}

func TestLoadAsyncOnPool(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "hat")
	loader := NewLoader(dir, "glb", nil)
	pool := processing.NewPool("models", 1, 2, nil)
	loader.UsePool(pool)

	failed := make(chan error, 1)
	loader.LoadAsync(context.Background(), "hat", nil, func(err error) { failed <- err })
	err := <-failed
	assert.ErrorIs(t, err, ErrModelLoad)
	assert.ErrorIs(t, err, processing.ErrPoolNotRunning)

	pool.Start()
	loaded := make(chan *Asset, 1)
	loader.LoadAsync(context.Background(), "hat", func(a *Asset) { loaded <- a }, nil)
	select {
	case a := <-loaded:
		assert.Equal(t, "hat", a.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}
	pool.Stop()
	assert.Equal(t, int64(1), pool.GetMetrics().ProcessedCount)
}
