// package compute wraps GPU compute kernel execution against shared image resources.
// A ComputeShader owns a compiled kernel, a bounded table of image bindings over
// textures owned by the renderer, staged scalar arguments, and a dedicated sequential
// dispatch queue. Submissions share the renderer's GPU queue, so kernel writes are
// ordered before any draws encoded afterwards.
package compute

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// State is the lifecycle state of a ComputeShader.
type State int

const (
	// StateUninitialized is the zero state before construction completes.
	StateUninitialized State = iota

	// StateInitializing indicates the compute context is acquired but no kernel is built yet.
	StateInitializing

	// StateReady indicates a kernel is built and the resource accepts binds and dispatches.
	StateReady

	// StateDispatching indicates one or more dispatches are queued or executing.
	// Transitions back to Ready when the queue drains.
	StateDispatching

	// StateBuildFailed is an absorbing failure state entered when kernel compilation or
	// entry point resolution fails.
	StateBuildFailed

	// StateBindFailed is an absorbing failure state entered when wrapping a texture as a
	// kernel image fails.
	StateBindFailed
)

// String returns a short name for the state, used in log and error output.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateDispatching:
		return "dispatching"
	case StateBuildFailed:
		return "build_failed"
	case StateBindFailed:
		return "bind_failed"
	default:
		return "unknown"
	}
}

// MaxArguments bounds the valid kernel argument index range. Image and scalar
// arguments share this range; each index maps to the matching binding in the
// kernel source.
const MaxArguments = 32

// computeShader is the implementation of the ComputeShader interface.
type computeShader struct {
	mu sync.Mutex

	key     string
	state   State
	backend ComputeBackend

	kernel  Kernel
	images  imageTable
	scalars map[int][4]byte

	globalWorkSize [3]uint32

	// pool is the dedicated sequential dispatch queue: one worker, so dispatches
	// for this resource execute in submission order.
	pool       worker.DynamicWorkerPool
	nextTaskID int
	pending    sync.WaitGroup
	inFlight   int

	lastDispatchErr error

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	queueSize            int
	backendOverride      ComputeBackend
}

// ComputeShader defines the interface for a GPU compute kernel resource. It covers the
// full lifecycle: context acquisition at construction, kernel compilation, image and
// scalar argument binding, and queued dispatch with a configurable global work size.
type ComputeShader interface {
	// Key returns the unique identifier for this compute resource.
	//
	// Returns:
	//   - string: the resource key
	Key() string

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Build compiles kernel source and resolves the entry point, transitioning the
	// resource to Ready on success. A compile failure returns a *BuildError carrying
	// the full diagnostic log; a missing entry point returns ErrEntryPointNotFound.
	// Either failure leaves the resource in the absorbing BuildFailed state.
	//
	// Parameters:
	//   - source: the kernel source code
	//   - entryPoint: the entry point function name
	//
	// Returns:
	//   - error: nil on success, *BuildError / ErrEntryPointNotFound / ErrInvalidState otherwise
	Build(source, entryPoint string) error

	// BuildFromPath reads kernel source from a file and builds it via Build.
	//
	// Parameters:
	//   - path: the file path to read kernel source from
	//   - entryPoint: the entry point function name
	//
	// Returns:
	//   - error: nil on success, otherwise the read or build error
	BuildFromPath(path, entryPoint string) error

	// SetIntArgument stages a 32-bit integer scalar argument at the given index.
	//
	// Parameters:
	//   - index: the kernel argument index
	//   - value: the value to stage
	//
	// Returns:
	//   - error: ErrArgumentIndexOutOfRange or ErrInvalidState on failure
	SetIntArgument(index int, value int32) error

	// SetFloatArgument stages a 32-bit float scalar argument at the given index.
	//
	// Parameters:
	//   - index: the kernel argument index
	//   - value: the value to stage
	//
	// Returns:
	//   - error: ErrArgumentIndexOutOfRange or ErrInvalidState on failure
	SetFloatArgument(index int, value float32) error

	// BindReadableImage wraps a renderer-owned texture as a read-only kernel image at
	// the given argument index. Rebinding an index releases the prior wrap; rebinding
	// with an identical (texture, dims, access) triple is a no-op.
	//
	// Parameters:
	//   - index: the kernel argument index
	//   - textureID: the renderer texture registry handle
	//   - dims: the image dimensions (Depth > 1 for a 3D image)
	//
	// Returns:
	//   - error: ErrArgumentIndexOutOfRange, ErrImageTableFull, ErrImageWrapFailed,
	//     or ErrInvalidState on failure
	BindReadableImage(index, textureID int, dims ImageDims) error

	// BindWritableImage wraps a renderer-owned texture as a write-only kernel image.
	// Semantics otherwise match BindReadableImage.
	//
	// Parameters:
	//   - index: the kernel argument index
	//   - textureID: the renderer texture registry handle
	//   - dims: the image dimensions (Depth > 1 for a 3D image)
	//
	// Returns:
	//   - error: see BindReadableImage
	BindWritableImage(index, textureID int, dims ImageDims) error

	// BindReadWriteImage wraps a renderer-owned texture as a read-write kernel image.
	// Semantics otherwise match BindReadableImage.
	//
	// Parameters:
	//   - index: the kernel argument index
	//   - textureID: the renderer texture registry handle
	//   - dims: the image dimensions (Depth > 1 for a 3D image)
	//
	// Returns:
	//   - error: see BindReadableImage
	BindReadWriteImage(index, textureID int, dims ImageDims) error

	// BoundImageCount returns the number of occupied image table slots.
	//
	// Returns:
	//   - int: the occupied slot count (0 to MaxImages)
	BoundImageCount() int

	// SetGlobalWorkSize sets the total invocation count per axis for subsequent runs.
	//
	// Parameters:
	//   - size: total invocations in x, y, z (zero components are treated as 1)
	SetGlobalWorkSize(size [3]uint32)

	// GlobalWorkSize returns the currently configured global work size.
	//
	// Returns:
	//   - [3]uint32: total invocations in x, y, z
	GlobalWorkSize() [3]uint32

	// WorkgroupSize returns the workgroup size of the built kernel, cached at build time.
	// Returns [1, 1, 1] before a successful build.
	//
	// Returns:
	//   - [3]uint32: the workgroup size as [x, y, z]
	WorkgroupSize() [3]uint32

	// Run enqueues one kernel execution on the resource's sequential dispatch queue with
	// the current arguments and global work size, then returns without waiting for
	// completion. Multiple runs may be outstanding at once; they execute in submission
	// order, and the resource returns to Ready when the queue drains. A dispatch failure
	// is logged and reported by Finish; the resource may be re-run without rebuilding.
	//
	// Returns:
	//   - error: ErrInvalidState when no kernel is built or the resource is in a failure state
	Run() error

	// Finish blocks until all enqueued runs have completed on the device.
	//
	// Returns:
	//   - error: the error from the most recent dispatch, or nil when it succeeded
	Finish() error

	// Release waits for pending runs, releases all image wraps, the kernel, and the
	// backend context. Shared devices obtained from a share token are left intact.
	Release()
}

var _ ComputeShader = &computeShader{}

// NewComputeShader creates a new ComputeShader, acquiring a compute context during
// construction. When shareToken is a Renderer (or anything exposing the same device,
// queue, and texture registry), the context shares that device so image bindings alias
// renderer textures without copies. When shareToken is nil a standalone device is
// acquired: hardware first, CPU fallback second.
//
// Parameters:
//   - key: a unique identifier for this compute resource
//   - shareToken: the renderer to share a device with, or nil for a standalone device
//   - opts: a variadic list of ComputeShaderOption functions to configure the resource
//
// Returns:
//   - ComputeShader: the constructed resource in the Initializing state
//   - error: ErrDeviceNotFound or ErrContextCreationFailed when no context could be acquired
func NewComputeShader(key string, shareToken any, opts ...ComputeShaderOption) (ComputeShader, error) {
	c := &computeShader{
		key:            key,
		state:          StateUninitialized,
		scalars:        make(map[int][4]byte),
		globalWorkSize: [3]uint32{1, 1, 1},
		queueSize:      64,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.backendOverride != nil:
		c.backend = c.backendOverride
	case shareToken != nil:
		backend, err := newSharedWGPUComputeBackend(shareToken)
		if err != nil {
			return nil, err
		}
		c.backend = backend
	default:
		backend, err := newStandaloneWGPUComputeBackend(c.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		c.backend = backend
	}

	info := c.backend.DeviceInfo()
	log.Printf("compute %q: using device %s (%s), fallback=%t", key, info.Name, info.Backend, info.Fallback)

	c.pool = worker.NewDynamicWorkerPool(1, c.queueSize, 1*time.Second)
	c.state = StateInitializing
	return c, nil
}

func (c *computeShader) Key() string {
	return c.key
}

func (c *computeShader) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *computeShader) Build(source, entryPoint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInitializing && c.state != StateReady {
		return fmt.Errorf("%w: build in state %s", ErrInvalidState, c.state)
	}

	kernel, err := c.backend.BuildKernel(c.key, source, entryPoint)
	if err != nil {
		c.state = StateBuildFailed
		return err
	}

	if c.kernel != nil {
		c.kernel.Release()
	}
	c.kernel = kernel
	c.state = StateReady
	return nil
}

func (c *computeShader) BuildFromPath(path, entryPoint string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		c.mu.Lock()
		c.state = StateBuildFailed
		c.mu.Unlock()
		return fmt.Errorf("read kernel source %q: %w", path, err)
	}
	return c.Build(string(data), entryPoint)
}

func (c *computeShader) SetIntArgument(index int, value int32) error {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], uint32(value))
	return c.setScalar(index, raw)
}

func (c *computeShader) SetFloatArgument(index int, value float32) error {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], math.Float32bits(value))
	return c.setScalar(index, raw)
}

func (c *computeShader) setScalar(index int, raw [4]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return fmt.Errorf("%w: set argument in state %s", ErrInvalidState, c.state)
	}
	if index < 0 || index >= MaxArguments {
		return fmt.Errorf("%w: %d", ErrArgumentIndexOutOfRange, index)
	}
	c.scalars[index] = raw
	return nil
}

func (c *computeShader) BindReadableImage(index, textureID int, dims ImageDims) error {
	return c.bindImage(index, textureID, dims, ImageAccessReadOnly)
}

func (c *computeShader) BindWritableImage(index, textureID int, dims ImageDims) error {
	return c.bindImage(index, textureID, dims, ImageAccessWriteOnly)
}

func (c *computeShader) BindReadWriteImage(index, textureID int, dims ImageDims) error {
	return c.bindImage(index, textureID, dims, ImageAccessReadWrite)
}

func (c *computeShader) bindImage(index, textureID int, dims ImageDims, access ImageAccess) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return fmt.Errorf("%w: bind image in state %s", ErrInvalidState, c.state)
	}
	if index < 0 || index >= MaxArguments {
		return fmt.Errorf("%w: %d", ErrArgumentIndexOutOfRange, index)
	}

	slot := c.images.find(index)
	if slot >= 0 && c.images.matches(slot, textureID, dims, access) {
		// identical rebind is a no-op: the existing wrap stays live
		return nil
	}
	if slot < 0 && c.images.count() >= MaxImages {
		return fmt.Errorf("%w: %d images bound", ErrImageTableFull, MaxImages)
	}

	img, err := c.backend.WrapImage(textureID, dims, access)
	if err != nil {
		c.state = StateBindFailed
		return err
	}

	if slot >= 0 {
		c.images.release(slot)
	}
	// a slot is guaranteed free after the capacity check and optional release
	if insErr := c.images.insert(imageBinding{
		argIndex:  index,
		textureID: textureID,
		dims:      dims,
		access:    access,
		image:     img,
	}); insErr != nil {
		img.Release()
		return insErr
	}
	return nil
}

func (c *computeShader) BoundImageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images.count()
}

func (c *computeShader) SetGlobalWorkSize(size [3]uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, v := range size {
		if v == 0 {
			size[i] = 1
		}
	}
	c.globalWorkSize = size
}

func (c *computeShader) GlobalWorkSize() [3]uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.globalWorkSize
}

func (c *computeShader) WorkgroupSize() [3]uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kernel == nil {
		return [3]uint32{1, 1, 1}
	}
	return c.kernel.WorkgroupSize()
}

func (c *computeShader) Run() error {
	c.mu.Lock()

	if (c.state != StateReady && c.state != StateDispatching) || c.kernel == nil {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: run in state %s", ErrInvalidState, state)
	}

	// Snapshot the arguments under the lock so a rebind racing the dispatch cannot
	// change what this run sees.
	kernel := c.kernel
	size := c.globalWorkSize
	args := c.stagedArgsLocked()

	// Enqueue while a prior run is still in flight is legal; the one-worker pool
	// keeps execution in submission order and the resource stays Dispatching until
	// the queue drains.
	c.state = StateDispatching
	c.inFlight++
	c.pending.Add(1)
	id := c.nextTaskID
	c.nextTaskID++
	c.mu.Unlock()

	c.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			err := c.backend.Dispatch(kernel, args, size)

			c.mu.Lock()
			if err != nil {
				log.Printf("compute %q: dispatch failed: %v", c.key, err)
				c.lastDispatchErr = err
			} else {
				// a successful dispatch supersedes any earlier failure
				c.lastDispatchErr = nil
			}
			c.inFlight--
			if c.inFlight == 0 && c.state == StateDispatching {
				c.state = StateReady
			}
			c.mu.Unlock()
			c.pending.Done()
			return nil, err
		},
	})

	return nil
}

// stagedArgsLocked assembles the dispatch argument list from the image table and the
// scalar staging map, ordered by argument index. Caller must hold c.mu.
func (c *computeShader) stagedArgsLocked() []Argument {
	args := make([]Argument, 0, c.images.count()+len(c.scalars))
	for _, b := range c.images.bindings() {
		args = append(args, Argument{
			Index:   b.argIndex,
			IsImage: true,
			Image:   b.image,
		})
	}
	for index, raw := range c.scalars {
		args = append(args, Argument{
			Index:  index,
			Scalar: raw,
		})
	}
	for i := 1; i < len(args); i++ {
		for j := i; j > 0 && args[j-1].Index > args[j].Index; j-- {
			args[j-1], args[j] = args[j], args[j-1]
		}
	}
	return args
}

func (c *computeShader) Finish() error {
	c.pending.Wait()
	c.backend.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDispatchErr
}

func (c *computeShader) Release() {
	c.pending.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.images.releaseAll()
	if c.kernel != nil {
		c.kernel.Release()
		c.kernel = nil
	}
	if c.backend != nil {
		c.backend.Release()
	}
	c.state = StateUninitialized
}
