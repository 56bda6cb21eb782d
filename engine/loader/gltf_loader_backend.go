package loader

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer *gltfImporter
}

// gltfLoaderBackend is a loaderBackend implementation for glTF 1.0 JSON files.
// It delegates to the gltfImporter pipeline.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - importer: the configured import pipeline
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF files
func newGLTFLoaderBackend(importer *gltfImporter) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{importer: importer}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*Result, error) {
	return b.importer.Import(path)
}
