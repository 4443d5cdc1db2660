package compute

// ImageAccess declares how a kernel accesses a bound image.
type ImageAccess int

const (
	// ImageAccessReadOnly binds the image for sampling/loads only.
	ImageAccessReadOnly ImageAccess = iota

	// ImageAccessWriteOnly binds the image for stores only.
	ImageAccessWriteOnly

	// ImageAccessReadWrite binds the image for both loads and stores.
	ImageAccessReadWrite
)

// String returns a short name for the access mode, used in log output.
func (a ImageAccess) String() string {
	switch a {
	case ImageAccessReadOnly:
		return "read"
	case ImageAccessWriteOnly:
		return "write"
	case ImageAccessReadWrite:
		return "read_write"
	default:
		return "unknown"
	}
}

// ImageDims describes the dimensions of an image bound to a kernel.
// A Depth of 0 or 1 indicates a 2D image; anything larger indicates a 3D image.
type ImageDims struct {
	Width  uint32
	Height uint32
	Depth  uint32
}

// Is3D reports whether the dims describe a 3D image.
//
// Returns:
//   - bool: true if Depth is greater than 1
func (d ImageDims) Is3D() bool {
	return d.Depth > 1
}

// DeviceInfo describes the compute device a backend acquired, for logging at init.
type DeviceInfo struct {
	// Name is the adapter/device name reported by the driver, or a description of a shared device.
	Name string
	// Backend is the underlying GPU API the device runs on (e.g. Vulkan, Metal).
	Backend string
	// Fallback is true when the device is a CPU/software fallback rather than hardware.
	Fallback bool
}

// Kernel is a compiled compute program with a resolved entry point, ready for dispatch.
type Kernel interface {
	// Key returns the identifier the kernel was built under.
	//
	// Returns:
	//   - string: the kernel key
	Key() string

	// EntryPoint returns the resolved entry point name.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// WorkgroupSize returns the workgroup size declared in the kernel source,
	// parsed once at build time and cached.
	//
	// Returns:
	//   - [3]uint32: the workgroup size as [x, y, z]
	WorkgroupSize() [3]uint32

	// Release frees GPU resources held by the kernel.
	Release()
}

// ImageObject is an externally-owned texture wrapped for kernel access.
// The wrap holds a view over the texture's memory; releasing the wrap does not
// release the underlying texture.
type ImageObject interface {
	// TextureID returns the registry handle of the wrapped texture.
	//
	// Returns:
	//   - int: the texture handle
	TextureID() int

	// Dims returns the dimensions the image was wrapped with.
	//
	// Returns:
	//   - ImageDims: the wrap dimensions
	Dims() ImageDims

	// Access returns the access mode the image was wrapped with.
	//
	// Returns:
	//   - ImageAccess: the wrap access mode
	Access() ImageAccess

	// Release frees the wrap's view resources. The underlying texture is untouched.
	Release()
}

// Argument is a single kernel argument staged for dispatch, either an image or a scalar.
// Exactly one of Image / the scalar fields is meaningful, selected by IsImage.
type Argument struct {
	// Index is the kernel argument index, which maps to the WGSL binding index.
	Index int
	// IsImage is true when the argument is a bound image, false for a scalar.
	IsImage bool
	// Image is the wrapped image for image arguments.
	Image ImageObject
	// Scalar is the raw 4-byte scalar value for scalar arguments (int32 or float32 bits).
	Scalar [4]byte
}

// ComputeBackend abstracts the GPU API used for kernel compilation and dispatch so the
// ComputeShader logic can be exercised against a mock in tests.
type ComputeBackend interface {
	// DeviceInfo returns a description of the acquired device for logging.
	//
	// Returns:
	//   - DeviceInfo: the device description
	DeviceInfo() DeviceInfo

	// BuildKernel compiles kernel source and resolves the entry point.
	//
	// Parameters:
	//   - key: an identifier for the kernel, used for labels and caching
	//   - source: the kernel source code
	//   - entryPoint: the entry point function name to resolve
	//
	// Returns:
	//   - Kernel: the compiled kernel on success
	//   - error: a *BuildError on compile failure, ErrEntryPointNotFound when the
	//     program compiles but lacks the entry point, or another error otherwise
	BuildKernel(key, source, entryPoint string) (Kernel, error)

	// WrapImage wraps an externally-owned texture as a kernel image with the given
	// access mode and dimensionality.
	//
	// Parameters:
	//   - textureID: the registry handle of the texture to wrap
	//   - dims: the image dimensions (Depth > 1 for 3D)
	//   - access: the declared access mode
	//
	// Returns:
	//   - ImageObject: the wrapped image on success
	//   - error: ErrImageWrapFailed (possibly wrapped) on failure
	WrapImage(textureID int, dims ImageDims, access ImageAccess) (ImageObject, error)

	// Dispatch encodes and submits one kernel execution with the given arguments and
	// global work size. The global work size is the total invocation count per axis;
	// the backend derives the workgroup count from the kernel's workgroup size.
	//
	// Parameters:
	//   - kernel: the compiled kernel to execute
	//   - args: the staged arguments, ordered by index
	//   - globalWorkSize: total invocations in x, y, z
	//
	// Returns:
	//   - error: ErrDispatchFailed (possibly wrapped) if encoding or submission fails
	Dispatch(kernel Kernel, args []Argument, globalWorkSize [3]uint32) error

	// Finish blocks until all previously submitted dispatches have completed on the device.
	Finish()

	// Release frees backend resources. Shared devices obtained from a share token are
	// not released; owned (standalone) devices are.
	Release()
}
