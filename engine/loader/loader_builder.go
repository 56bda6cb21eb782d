package loader

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderContext is an option builder that sets the render context geometry and
// textures are uploaded to. Without one, loads are CPU-only.
//
// Parameters:
//   - ctx: the render context
//
// Returns:
//   - LoaderBuilderOption: a function that applies the render context option to a loader
func WithRenderContext(ctx renderer.Context) LoaderBuilderOption {
	return func(l *loader) {
		l.ctx = ctx
	}
}

// WithLogger sets the structured logger. The default is slog.Default() tagged with component=gltf.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(log *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.log = log
	}
}

// WithWorkers sets the number of concurrent fetch workers shared by all loads.
//
// Parameters:
//   - n: the worker count; values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithHTTPClient sets the client used for documents loaded from http(s) URLs.
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		l.client = client
	}
}

// WithFS makes file paths resolve inside fsys instead of the operating system.
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithResult is an option builder that pre-populates the result cache.
//
// Parameters:
//   - path: the cache key
//   - result: the result to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the result option to a loader
func WithResult(path string, result *Result) LoaderBuilderOption {
	return func(l *loader) {
		l.resultCache[path] = result
	}
}
