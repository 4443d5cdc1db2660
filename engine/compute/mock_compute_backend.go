package compute

import (
	"fmt"
	"sync"

	"github.com/voxtrace/vct-go/engine/renderer/shader"
)

// mockComputeBackend is an in-memory ComputeBackend used to exercise resource logic
// without a GPU. It parses entry points and workgroup sizes from real kernel source
// but performs no device work, and records wraps, releases, and dispatches so tests
// can assert on bookkeeping.
type mockComputeBackend struct {
	mu sync.Mutex

	// failure injection
	buildLog      string // when non-empty, BuildKernel fails with this log
	failWrap      bool   // when true, WrapImage fails
	failDispatch  bool   // when true, Dispatch fails
	unknownHandle int    // WrapImage fails for this handle even when failWrap is false

	// blockDispatch, when non-nil, makes Dispatch wait until the channel is closed,
	// so tests can hold a dispatch in flight.
	blockDispatch chan struct{}

	builtKernels   []string
	wrappedImages  int
	releasedImages int
	dispatches     []mockDispatch
}

// mockDispatch records one Dispatch call.
type mockDispatch struct {
	kernelKey      string
	argIndices     []int
	imageArgs      int
	scalarArgs     int
	globalWorkSize [3]uint32
	groupCount     [3]uint32
}

var _ ComputeBackend = &mockComputeBackend{}

func newMockComputeBackend() *mockComputeBackend {
	return &mockComputeBackend{unknownHandle: -1}
}

func (m *mockComputeBackend) DeviceInfo() DeviceInfo {
	return DeviceInfo{Name: "mock device", Backend: "mock"}
}

// mockKernel carries the metadata a real kernel would, with no GPU state.
type mockKernel struct {
	key           string
	entryPoint    string
	workgroupSize [3]uint32
	released      bool
}

var _ Kernel = &mockKernel{}

func (k *mockKernel) Key() string              { return k.key }
func (k *mockKernel) EntryPoint() string       { return k.entryPoint }
func (k *mockKernel) WorkgroupSize() [3]uint32 { return k.workgroupSize }
func (k *mockKernel) Release()                 { k.released = true }

func (m *mockComputeBackend) BuildKernel(key, source, entryPoint string) (Kernel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.buildLog != "" {
		return nil, &BuildError{Log: m.buildLog}
	}
	if !shader.HasComputeEntryPoint(source, entryPoint) {
		return nil, fmt.Errorf("%w: %q", ErrEntryPointNotFound, entryPoint)
	}

	parsed := shader.NewShaderFromSource(key, shader.ShaderTypeCompute, source)
	m.builtKernels = append(m.builtKernels, key)
	return &mockKernel{
		key:           key,
		entryPoint:    entryPoint,
		workgroupSize: parsed.WorkgroupSize(),
	}, nil
}

// mockImage counts its own release back into the backend.
type mockImage struct {
	backend   *mockComputeBackend
	textureID int
	dims      ImageDims
	access    ImageAccess
	released  bool
}

var _ ImageObject = &mockImage{}

func (i *mockImage) TextureID() int      { return i.textureID }
func (i *mockImage) Dims() ImageDims     { return i.dims }
func (i *mockImage) Access() ImageAccess { return i.access }

func (i *mockImage) Release() {
	if i.released {
		return
	}
	i.released = true
	i.backend.mu.Lock()
	i.backend.releasedImages++
	i.backend.mu.Unlock()
}

func (m *mockComputeBackend) WrapImage(textureID int, dims ImageDims, access ImageAccess) (ImageObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrap {
		return nil, fmt.Errorf("%w: injected wrap failure", ErrImageWrapFailed)
	}
	if textureID == m.unknownHandle {
		return nil, fmt.Errorf("%w: unknown texture handle %d", ErrImageWrapFailed, textureID)
	}

	m.wrappedImages++
	return &mockImage{
		backend:   m,
		textureID: textureID,
		dims:      dims,
		access:    access,
	}, nil
}

func (m *mockComputeBackend) Dispatch(kernel Kernel, args []Argument, globalWorkSize [3]uint32) error {
	m.mu.Lock()
	block := m.blockDispatch
	m.mu.Unlock()
	if block != nil {
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDispatch {
		return fmt.Errorf("%w: injected dispatch failure", ErrDispatchFailed)
	}

	wg := kernel.WorkgroupSize()
	d := mockDispatch{
		kernelKey:      kernel.Key(),
		globalWorkSize: globalWorkSize,
		groupCount: [3]uint32{
			groupCount(globalWorkSize[0], wg[0]),
			groupCount(globalWorkSize[1], wg[1]),
			groupCount(globalWorkSize[2], wg[2]),
		},
	}
	for _, a := range args {
		d.argIndices = append(d.argIndices, a.Index)
		if a.IsImage {
			d.imageArgs++
		} else {
			d.scalarArgs++
		}
	}
	m.dispatches = append(m.dispatches, d)
	return nil
}

func (m *mockComputeBackend) Finish() {}

func (m *mockComputeBackend) Release() {}

// snapshot returns the recorded counters under the lock, for assertions from test
// goroutines after Finish.
func (m *mockComputeBackend) snapshot() (wrapped, released, dispatched int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wrappedImages, m.releasedImages, len(m.dispatches)
}
