package compute

// ComputeShaderOption is a functional option used to configure a ComputeShader during construction.
type ComputeShaderOption func(*computeShader)

// WithBackend overrides the compute backend used by the resource. Intended for tests
// that exercise the resource logic against a mock backend without a GPU.
//
// Parameters:
//   - backend: the backend to use instead of the default wgpu backend
//
// Returns:
//   - ComputeShaderOption: a function that sets the backend for this resource
func WithBackend(backend ComputeBackend) ComputeShaderOption {
	return func(c *computeShader) {
		c.backendOverride = backend
	}
}

// WithForceFallbackAdapter forces the standalone device path to use a CPU/software
// fallback adapter instead of hardware. Has no effect when a share token or backend
// override is supplied.
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - ComputeShaderOption: a function that sets the fallback adapter flag
func WithForceFallbackAdapter(force bool) ComputeShaderOption {
	return func(c *computeShader) {
		c.forceFallbackAdapter = force
	}
}

// WithGlobalWorkSize sets the initial global work size for the resource.
//
// Parameters:
//   - size: total invocations in x, y, z
//
// Returns:
//   - ComputeShaderOption: a function that sets the initial global work size
func WithGlobalWorkSize(size [3]uint32) ComputeShaderOption {
	return func(c *computeShader) {
		for i, v := range size {
			if v == 0 {
				size[i] = 1
			}
		}
		c.globalWorkSize = size
	}
}

// WithDispatchQueueSize sets the capacity of the sequential dispatch queue. Runs
// submitted beyond this capacity block until earlier dispatches drain.
//
// Parameters:
//   - size: the queue capacity (values below 1 are clamped to 1)
//
// Returns:
//   - ComputeShaderOption: a function that sets the dispatch queue capacity
func WithDispatchQueueSize(size int) ComputeShaderOption {
	return func(c *computeShader) {
		if size < 1 {
			size = 1
		}
		c.queueSize = size
	}
}
