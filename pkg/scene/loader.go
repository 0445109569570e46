package scene

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/processing"
)

// ErrModelLoad is wrapped by every asset fetch or parse failure.
var ErrModelLoad = errors.New("model load failed")

// DefaultExtension is used when the loader is built without one.
const DefaultExtension = "glb"

// Asset is a parsed model file.
type Asset struct {
	Name   string
	Path   string
	Scenes int
	Nodes  int
	Meshes int
}

// Loader resolves model names to <dir>/<name>.<ext> and parses them.
type Loader struct {
	dir    string
	ext    string
	logger customlog.Logger
	pool   *processing.Pool
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir, ext string, logger customlog.Logger) *Loader {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = DefaultExtension
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Loader{dir: dir, ext: ext, logger: logger}
}

// Path returns the file a model name resolves to.
func (l *Loader) Path(name string) string {
	return filepath.Join(l.dir, name+"."+l.ext)
}

// Load parses the named model. Names must be plain identifiers, not paths.
func (l *Loader) Load(ctx context.Context, name string) (*Asset, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: invalid model name %q", ErrModelLoad, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, name, err)
	}

	path := l.Path(name)
	l.logger.Debugf("Loading model '%s' from %s", name, path)

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, name, err)
	}

	return &Asset{
		Name:   name,
		Path:   path,
		Scenes: len(doc.Scenes),
		Nodes:  len(doc.Nodes),
		Meshes: len(doc.Meshes),
	}, nil
}

// UsePool runs subsequent async loads on p instead of a goroutine each.
func (l *Loader) UsePool(p *processing.Pool) {
	l.pool = p
}

// LoadAsync runs Load off the caller's goroutine and reports through exactly
// one of the callbacks.
func (l *Loader) LoadAsync(ctx context.Context, name string, onSuccess func(*Asset), onFailure func(error)) {
	fail := func(err error) {
		l.logger.Warnf("Model '%s' failed to load: %v", name, err)
		if onFailure != nil {
			onFailure(err)
		}
	}
	run := func() error {
		asset, err := l.Load(ctx, name)
		if err != nil {
			fail(err)
			return err
		}
		l.logger.Infof("Model '%s' loaded (%d nodes, %d meshes)", name, asset.Nodes, asset.Meshes)
		if onSuccess != nil {
			onSuccess(asset)
		}
		return nil
	}

	if l.pool == nil {
		go run()
		return
	}
	if err := l.pool.Submit("load "+name, run); err != nil {
		fail(fmt.Errorf("%w: %s: %w", ErrModelLoad, name, err))
	}
}
