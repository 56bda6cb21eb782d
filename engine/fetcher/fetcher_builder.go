package fetcher

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

type fetcherOptions struct {
	client *http.Client
	fsys   fs.FS
}

// FetcherBuilderOption is a functional option for configuring a Fetcher via NewFetcher.
type FetcherBuilderOption func(*fetcherImpl)

// WithPool makes the fetcher submit work to an existing pool. The fetcher does not stop it on Close.
//
// Parameters:
//   - pool: the worker pool to share
//
// Returns:
//   - FetcherBuilderOption: a function that applies the pool option
func WithPool(pool worker.DynamicWorkerPool) FetcherBuilderOption {
	return func(f *fetcherImpl) {
		f.pool = pool
	}
}

// WithWorkers sets the size of the private worker pool. Ignored when WithPool is used.
//
// Parameters:
//   - n: the maximum number of concurrent fetches
//
// Returns:
//   - FetcherBuilderOption: a function that applies the workers option
func WithWorkers(n int) FetcherBuilderOption {
	return func(f *fetcherImpl) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithHTTPClient sets the client used for http(s) base paths.
//
// Parameters:
//   - client: the HTTP client
//
// Returns:
//   - FetcherBuilderOption: a function that applies the client option
func WithHTTPClient(client *http.Client) FetcherBuilderOption {
	return func(f *fetcherImpl) {
		f.opts.client = client
	}
}

// WithFS reads file URIs from fsys instead of the operating system. The base path
// is then interpreted as a directory inside fsys.
//
// Parameters:
//   - fsys: the filesystem to read from
//
// Returns:
//   - FetcherBuilderOption: a function that applies the filesystem option
func WithFS(fsys fs.FS) FetcherBuilderOption {
	return func(f *fetcherImpl) {
		f.opts.fsys = fsys
	}
}

// WithContext sets the context carried by HTTP requests.
//
// Parameters:
//   - ctx: the request context
//
// Returns:
//   - FetcherBuilderOption: a function that applies the context option
func WithContext(ctx context.Context) FetcherBuilderOption {
	return func(f *fetcherImpl) {
		f.ctx = ctx
	}
}
