// Package fetcher retrieves the external resources of a glTF document
// (the document itself, buffers, images and shader sources) concurrently on a
// shared worker pool.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// Kind selects how fetched bytes are post-processed.
type Kind int

const (
	// KindBinary returns the raw bytes.
	KindBinary Kind = iota
	// KindText returns the bytes as a string.
	KindText
	// KindJSON returns the raw bytes after checking they are valid JSON.
	KindJSON
	// KindImage decodes the bytes into an RGBA image.
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Resource identifies one thing to fetch.
type Resource struct {
	// Collection is the glTF collection the resource belongs to, such as "buffer". Used in errors.
	Collection string
	// ID is the resource id within its collection.
	ID string
	// URI is relative to the fetcher's base path, absolute, or a data: URI.
	URI string
	// Kind selects post-processing.
	Kind Kind
}

// Result is a completed fetch.
type Result struct {
	Resource Resource
	Bytes    []byte
	Text     string
	// Image is set for KindImage when decoding succeeded.
	Image *image.RGBA
	// MIME is the sniffed or declared media type, if known.
	MIME string
	// DecodeErr is set for KindImage when the bytes arrived but could not be decoded.
	DecodeErr error
}

var (
	errInvalidJSON = errors.New("not valid JSON")
	errSkipped     = errors.New("skipped after an earlier failure in the same group")
	errClosed      = errors.New("fetcher is closed")
)

type fetcherImpl struct {
	base    string
	backend fetcherBackend
	ctx     context.Context

	pool     worker.DynamicWorkerPool
	ownsPool bool
	workers  int
	taskID   atomic.Int64
	closed   atomic.Bool

	// built from options before the backend is chosen
	opts fetcherOptions
}

// Fetcher retrieves resources relative to a base path.
type Fetcher interface {
	// Fetch retrieves one resource asynchronously. done is called at most once, from a pool worker.
	// A resource without a URI is rejected synchronously and done is never called.
	//
	// Parameters:
	//   - res: the resource to fetch
	//   - done: completion handler receiving either the result or an error
	//
	// Returns:
	//   - error: a config error when res has no URI, or an error if the fetcher is closed
	Fetch(res Resource, done func(Result, error)) error

	// FetchGroup starts fetching every resource and returns a join handle. Every URI is
	// validated before any fetch begins.
	//
	// Parameters:
	//   - resources: the resources to fetch; ids must be unique
	//
	// Returns:
	//   - Group: the join handle
	//   - error: a config error naming the first resource without a URI
	FetchGroup(resources []Resource) (Group, error)

	// BasePath returns the directory or URL relative URIs resolve against.
	BasePath() string

	// Close stops the worker pool if the fetcher created it.
	Close()
}

var _ Fetcher = &fetcherImpl{}

// NewFetcher creates a Fetcher resolving relative URIs against base, which is either a
// directory or an http(s) URL. Without WithPool a private worker pool is started.
//
// Parameters:
//   - base: the base directory or URL
//   - options: functional options
//
// Returns:
//   - Fetcher: the fetcher
func NewFetcher(base string, options ...FetcherBuilderOption) Fetcher {
	f := &fetcherImpl{
		base:    base,
		ctx:     context.Background(),
		workers: 4,
	}
	for _, option := range options {
		option(f)
	}

	switch {
	case isHTTP(base):
		u, err := url.Parse(base)
		if err != nil {
			f.backend = &brokenBackend{err: err}
		} else {
			f.backend = newHTTPBackend(f.opts.client, u)
		}
	case f.opts.fsys != nil:
		f.backend = newFSBackend(f.opts.fsys, base)
	default:
		f.backend = newOSBackend(base)
	}

	if f.pool == nil {
		f.pool = worker.NewDynamicWorkerPool(f.workers, 256, 1*time.Second)
		f.ownsPool = true
	}
	return f
}

// Split separates a document location into the base path for NewFetcher and the
// URI of the document itself relative to that base.
//
// Parameters:
//   - location: a file path or http(s) URL
//
// Returns:
//   - string: the base path
//   - string: the document URI
func Split(location string) (string, string) {
	if isHTTP(location) {
		// relative references resolve against the document URL itself
		return location, location
	}
	return filepath.Dir(location), filepath.ToSlash(filepath.Base(location))
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (f *fetcherImpl) BasePath() string {
	return f.base
}

func (f *fetcherImpl) Fetch(res Resource, done func(Result, error)) error {
	if err := Validate(res); err != nil {
		return err
	}
	if f.closed.Load() {
		return errClosed
	}
	f.submit(res, nil, done)
	return nil
}

func (f *fetcherImpl) FetchGroup(resources []Resource) (Group, error) {
	for _, res := range resources {
		if err := Validate(res); err != nil {
			return nil, err
		}
	}
	if f.closed.Load() {
		return nil, errClosed
	}

	g := newGroup(len(resources))
	for _, res := range resources {
		g.wg.Add(1)
		f.submit(res, g.failed.Load, func(r Result, err error) {
			defer g.wg.Done()
			g.record(r, err)
		})
	}
	return g, nil
}

func (f *fetcherImpl) Close() {
	if f.closed.Swap(true) {
		return
	}
	if f.ownsPool {
		f.pool.Stop()
	}
}

// Validate rejects a resource without a URI with a config error.
func Validate(res Resource) error {
	if strings.TrimSpace(res.URI) == "" {
		return model.ConfigError(res.Collection, res.ID, "uri", model.ErrMissingURI)
	}
	return nil
}

// submit queues the fetch of res. When skip reports true at the time a worker picks the
// task up, the transport is never touched and done receives errSkipped.
func (f *fetcherImpl) submit(res Resource, skip func() bool, done func(Result, error)) {
	f.pool.SubmitTask(worker.Task{
		ID:      int(f.taskID.Add(1)),
		Payload: res,
		Do: func() (any, error) {
			if skip != nil && skip() {
				done(Result{Resource: res}, errSkipped)
				return nil, errSkipped
			}
			r, err := f.fetch(res)
			done(r, err)
			return r, err
		},
	})
}

func (f *fetcherImpl) fetch(res Resource) (Result, error) {
	r := Result{Resource: res}

	var data []byte
	if strings.HasPrefix(res.URI, "data:") {
		d, mime, err := decodeDataURI(res.URI)
		if err != nil {
			return r, model.FormatError(res.Collection, res.ID, "uri", err)
		}
		data, r.MIME = d, mime
	} else {
		d, err := f.backend.Read(f.ctx, res.URI)
		if err != nil {
			return r, model.FetchError(res.Collection, res.ID, err)
		}
		data = d
	}
	r.Bytes = data

	switch res.Kind {
	case KindText:
		r.Text = string(data)
	case KindJSON:
		if !json.Valid(data) {
			return r, model.FormatError(res.Collection, res.ID, "", errInvalidJSON)
		}
	case KindImage:
		img, mime, err := decodeImage(data)
		if mime != "" {
			r.MIME = mime
		}
		r.Image = img
		r.DecodeErr = err
	}
	return r, nil
}
