package renderer

import "github.com/cogentcore/webgpu/wgpu"

type contextConfig struct {
	label                string
	forceFallbackAdapter bool
	device               *wgpu.Device
	queue                *wgpu.Queue
}

// ContextBuilderOption is a functional option applied to a Context during construction via NewContext.
type ContextBuilderOption func(*contextConfig)

// WithLabel sets the label prefix used for GPU object names.
//
// Parameters:
//   - label: the label prefix
//
// Returns:
//   - ContextBuilderOption: a function that applies the label option
func WithLabel(label string) ContextBuilderOption {
	return func(c *contextConfig) {
		c.label = label
	}
}

// WithDevice makes the WGPU backend allocate on an existing device and queue instead of
// requesting a headless adapter of its own. The context does not take ownership of either.
//
// Parameters:
//   - device: the device to allocate on
//   - queue: the queue used for buffer and texture writes
//
// Returns:
//   - ContextBuilderOption: a function that applies the device option
func WithDevice(device *wgpu.Device, queue *wgpu.Queue) ContextBuilderOption {
	return func(c *contextConfig) {
		c.device = device
		c.queue = queue
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - ContextBuilderOption: a function that applies the force software renderer option
func WithForceSoftwareRenderer(force bool) ContextBuilderOption {
	return func(c *contextConfig) {
		c.forceFallbackAdapter = force
	}
}
