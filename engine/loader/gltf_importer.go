package loader

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/fetcher"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
)

// gltfImporter runs the load pipeline for one glTF 1.0 document: fetch the
// JSON, fetch buffers, images and shaders concurrently, then link, build
// geometry, bind materials, link programs and build the scene, waiting on each
// fetch group just before the stage that needs it.
type gltfImporter struct {
	pool   worker.DynamicWorkerPool
	client *http.Client
	fsys   fs.FS
	ctx    renderer.Context
	log    *slog.Logger
}

// Import loads the document at path.
//
// Parameters:
//   - path: a file path, a path inside the configured fs.FS, or an http(s) URL
//
// Returns:
//   - *Result: the linked document and built scene
//   - error: the first fatal error; the load is all-or-nothing
func (imp *gltfImporter) Import(path string) (*Result, error) {
	prof := profiler.NewProfiler()
	log := imp.log.With("path", path)

	base, name := fetcher.Split(path)
	opts := []fetcher.FetcherBuilderOption{fetcher.WithPool(imp.pool)}
	if imp.client != nil {
		opts = append(opts, fetcher.WithHTTPClient(imp.client))
	}
	if imp.fsys != nil {
		opts = append(opts, fetcher.WithFS(imp.fsys))
	}
	f := fetcher.NewFetcher(base, opts...)
	defer f.Close()

	data, err := fetchDocument(f, name)
	if err != nil {
		return nil, err
	}
	raw, err := parseGLTF(name, data)
	if err != nil {
		return nil, err
	}
	prof.Mark("document")

	buffers, images, shaders := raw.bufferResources(), raw.imageResources(), raw.shaderResources()
	for _, list := range [][]fetcher.Resource{buffers, images, shaders} {
		for _, res := range list {
			if err := fetcher.Validate(res); err != nil {
				return nil, err
			}
		}
	}

	bufGroup, err := f.FetchGroup(buffers)
	if err != nil {
		return nil, err
	}
	imgGroup, err := f.FetchGroup(images)
	if err != nil {
		return nil, err
	}
	shaderGroup, err := f.FetchGroup(shaders)
	if err != nil {
		return nil, err
	}
	log.Debug("fetch groups started", "buffers", bufGroup.Len(), "images", imgGroup.Len(), "shaders", shaderGroup.Len())

	bufResults, err := bufGroup.Wait()
	if err != nil {
		return nil, err
	}
	bufData := make(map[string][]byte, len(bufResults))
	for id, r := range bufResults {
		bufData[id] = r.Bytes
	}
	prof.Mark("buffers")

	doc, err := link(name, raw, f.BasePath(), bufData)
	if err != nil {
		return nil, err
	}
	prof.Mark("link")
	log.Debug("document linked", "stage", "link", "nodes", len(doc.Nodes), "meshes", len(doc.Meshes), "accessors", len(doc.Accessors))

	prims, err := newGLTFMeshBuilder(imp.ctx).BuildAll(doc)
	if err != nil {
		doc.Release()
		return nil, err
	}
	prof.Mark("meshes")
	log.Debug("geometry built", "stage", "meshes", "primitives", prims)

	imgResults, err := imgGroup.Wait()
	if err != nil {
		doc.Release()
		return nil, err
	}
	for _, id := range common.SortedKeys(imgResults) {
		r := imgResults[id]
		if r.DecodeErr != nil {
			log.Debug("image not decoded", "image", id, "mime", r.MIME, "error", r.DecodeErr)
			continue
		}
		if img, ok := doc.Images[id]; ok {
			img.Pixels = r.Image
		}
	}
	prof.Mark("images")

	bindings, err := newGLTFMaterialBuilder(imp.ctx, log).BuildAll(doc)
	if err != nil {
		doc.Release()
		return nil, err
	}
	prof.Mark("materials")
	log.Debug("materials bound", "stage", "materials",
		"textured", bindings[model.MaterialTexture], "color", bindings[model.MaterialColor], "none", bindings[model.MaterialNone])

	shaderResults, err := shaderGroup.Wait()
	if err != nil {
		doc.Release()
		return nil, err
	}
	for id, r := range shaderResults {
		if s, ok := doc.Shaders[id]; ok {
			s.Source = r.Text
		}
	}
	if err := linkPrograms(raw, doc); err != nil {
		doc.Release()
		return nil, err
	}
	prof.Mark("programs")

	root, visited, err := buildScene(doc)
	if err != nil {
		doc.Release()
		return nil, err
	}
	prof.Mark("scene")
	log.Info("glTF loaded",
		"scene", root.SceneID,
		"nodes", visited,
		"primitives", prims,
		"stages", prof,
	)

	return &Result{Path: path, Document: doc, Root: root, Stages: prof.Stages()}, nil
}

// fetchDocument retrieves the JSON document through the fetcher's pool.
func fetchDocument(f fetcher.Fetcher, name string) ([]byte, error) {
	type outcome struct {
		data []byte
		err  error
	}
	ch := make(chan outcome, 1)

	err := f.Fetch(fetcher.Resource{Collection: "document", ID: name, URI: name, Kind: fetcher.KindJSON},
		func(r fetcher.Result, err error) {
			ch <- outcome{data: r.Bytes, err: err}
		})
	if err != nil {
		return nil, err
	}

	o := <-ch
	return o.data, o.err
}
