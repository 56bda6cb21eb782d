package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

var (
	errInvalidPath = errors.New("path escapes the filesystem root")
	errHTTPStatus  = errors.New("unexpected HTTP status")
)

// fetcherBackend reads the bytes behind a non-data URI.
type fetcherBackend interface {
	// Read returns the full contents addressed by uri.
	Read(ctx context.Context, uri string) ([]byte, error)
}

// --- Operating system ---

type osBackend struct {
	dir string
}

func newOSBackend(dir string) *osBackend {
	return &osBackend{dir: dir}
}

func (b *osBackend) Read(_ context.Context, uri string) ([]byte, error) {
	name, err := url.PathUnescape(uri)
	if err != nil {
		return nil, fmt.Errorf("unescape %q: %w", uri, err)
	}
	p := filepath.FromSlash(name)
	if !filepath.IsAbs(p) {
		p = filepath.Join(b.dir, p)
	}
	return os.ReadFile(p)
}

// --- io/fs ---

type fsBackend struct {
	fsys fs.FS
	dir  string
}

func newFSBackend(fsys fs.FS, dir string) *fsBackend {
	return &fsBackend{fsys: fsys, dir: filepath.ToSlash(dir)}
}

func (b *fsBackend) Read(_ context.Context, uri string) ([]byte, error) {
	name, err := url.PathUnescape(uri)
	if err != nil {
		return nil, fmt.Errorf("unescape %q: %w", uri, err)
	}
	full := path.Join(b.dir, name)
	if !fs.ValidPath(full) {
		return nil, fmt.Errorf("%w: %q", errInvalidPath, uri)
	}
	return fs.ReadFile(b.fsys, full)
}

// --- HTTP ---

type httpBackend struct {
	client *http.Client
	base   *url.URL
}

func newHTTPBackend(client *http.Client, base *url.URL) *httpBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpBackend{client: client, base: base}
}

func (b *httpBackend) Read(ctx context.Context, uri string) ([]byte, error) {
	ref, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", uri, err)
	}
	target := b.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", errHTTPStatus, target, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// brokenBackend fails every read with the error that prevented backend construction.
type brokenBackend struct {
	err error
}

func (b *brokenBackend) Read(context.Context, string) ([]byte, error) {
	return nil, b.err
}
