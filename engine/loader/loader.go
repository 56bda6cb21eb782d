// Package loader loads glTF 1.0 scenes: it fetches a document and its external
// resources, links every id reference, decodes geometry, binds materials and
// builds a transformed scene hierarchy with world bounds.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
)

// LoaderBackendType identifies the scene file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF 1.0 loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

var (
	errUnsupportedFormat = errors.New("unsupported scene format")
	errLoaderClosed      = errors.New("loader is closed")
)

// Result is a completed load.
type Result struct {
	// Path is the location the document was loaded from.
	Path string
	// Document holds every linked record of the file.
	Document *model.Document
	// Root is the built hierarchy of the active scene.
	Root *scene.Root
	// Stages holds the duration of each pipeline stage.
	Stages []profiler.Stage
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu     sync.RWMutex
	closed atomic.Bool

	ctx     renderer.Context
	log     *slog.Logger
	client  *http.Client
	fsys    fs.FS
	workers int

	pool worker.DynamicWorkerPool

	resultCache map[string]*Result

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching glTF scenes.
// It abstracts the file format behind a backend and keeps completed loads by path.
type Loader interface {
	// Load starts loading the document at path on its own goroutine. done is
	// invoked exactly once, with either a result or an error. A path already in
	// the cache completes with the cached result.
	//
	// Parameters:
	//   - path: a file path, a path inside the configured fs.FS, or an http(s) URL
	//   - done: the completion callback
	Load(path string, done func(*Result, error))

	// LoadSync loads the document at path and blocks until it completes.
	//
	// Parameters:
	//   - path: a file path, a path inside the configured fs.FS, or an http(s) URL
	//
	// Returns:
	//   - *Result: the loaded scene
	//   - error: the first fatal error
	LoadSync(path string) (*Result, error)

	// Get retrieves a cached result by path. Returns nil if not found.
	//
	// Parameters:
	//   - path: the cache key to look up
	//
	// Returns:
	//   - *Result: the cached result or nil
	Get(path string) *Result

	// Results returns a copy of the result cache.
	//
	// Returns:
	//   - map[string]*Result: all completed loads keyed by path
	Results() map[string]*Result

	// Close stops the worker pool. Loads started afterwards fail.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		workers:     4,
		resultCache: make(map[string]*Result),
	}

	for _, option := range options {
		option(l)
	}
	if l.log == nil {
		l.log = slog.Default().With("component", "gltf")
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(&gltfImporter{
			pool:   l.pool,
			client: l.client,
			fsys:   l.fsys,
			ctx:    l.ctx,
			log:    l.log,
		})
	}
	return l
}

func (l *loader) Load(path string, done func(*Result, error)) {
	go func() {
		done(l.load(path))
	}()
}

func (l *loader) LoadSync(path string) (*Result, error) {
	return l.load(path)
}

func (l *loader) load(path string) (*Result, error) {
	if l.closed.Load() {
		return nil, errLoaderClosed
	}

	l.mu.RLock()
	if cached, ok := l.resultCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	res, err := backend.Load(path)
	if err != nil {
		l.log.Warn("glTF load failed", "path", path, "error", err)
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	if _, ok := l.resultCache[path]; !ok {
		l.resultCache[path] = res
	}
	l.mu.Unlock()

	return res, nil
}

func (l *loader) Get(path string) *Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.resultCache[path]
}

func (l *loader) Results() map[string]*Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.resultCache)
}

func (l *loader) Close() {
	if l.closed.Swap(true) {
		return
	}
	l.pool.Stop()
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF JSON is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	p := path
	if u, err := url.Parse(path); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		p = u.Path
	}
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".gltf":
		if l.backend == nil {
			return nil, model.ConfigError("document", path, "", fmt.Errorf("%w: no backend configured", errUnsupportedFormat))
		}
		return l.backend, nil
	default:
		return nil, model.ConfigError("document", path, "", fmt.Errorf("%w: %q", errUnsupportedFormat, ext))
	}
}
