package loader

// loaderBackend loads one scene file format.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load runs the full import of the document at path.
	//
	// Parameters:
	//   - path: a file path, a path inside the configured fs.FS, or an http(s) URL
	//
	// Returns:
	//   - *Result: the loaded document and scene
	//   - error: error if loading fails
	Load(path string) (*Result, error)
}
