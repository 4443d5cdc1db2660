package compute

import (
	"fmt"
	"strings"
	"sync"

	"github.com/voxtrace/vct-go/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// DeviceProvider grants a compute backend access to an existing GPU device and queue.
// The renderer satisfies this interface, making it usable as a share token.
type DeviceProvider interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
}

// TextureSource resolves external texture handles for image wrapping. The renderer's
// texture registry satisfies this interface.
type TextureSource interface {
	Texture(id int) *wgpu.Texture
	TextureDims(id int) (uint32, uint32, uint32, bool)
}

// wgpuComputeBackend is the wgpu implementation of ComputeBackend. In shared mode it
// borrows the device and queue from a DeviceProvider; in standalone mode it owns them.
type wgpuComputeBackend struct {
	mu sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue

	// textures resolves external handles; nil in standalone mode, where no external
	// texture registry exists and image wrapping is unavailable.
	textures TextureSource

	// owned resources, only set in standalone mode
	instance *wgpu.Instance
	adapter  *wgpu.Adapter

	info DeviceInfo
}

var _ ComputeBackend = &wgpuComputeBackend{}

// newSharedWGPUComputeBackend creates a backend sharing the device behind the given
// token. The token must implement DeviceProvider; implementing TextureSource as well
// enables image wrapping against its texture registry.
func newSharedWGPUComputeBackend(token any) (ComputeBackend, error) {
	provider, ok := token.(DeviceProvider)
	if !ok {
		return nil, fmt.Errorf("%w: share token %T does not provide a device", ErrContextCreationFailed, token)
	}
	device := provider.Device()
	queue := provider.Queue()
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: share token has no live device", ErrContextCreationFailed)
	}

	b := &wgpuComputeBackend{
		device: device,
		queue:  queue,
		info: DeviceInfo{
			Name:    "shared renderer device",
			Backend: "wgpu",
		},
	}
	if src, ok := token.(TextureSource); ok {
		b.textures = src
	}
	return b, nil
}

// newStandaloneWGPUComputeBackend creates a backend owning its own device. A hardware
// adapter is requested first; when that fails (or forceFallback is set) a CPU/software
// fallback adapter is requested before giving up with ErrDeviceNotFound.
func newStandaloneWGPUComputeBackend(forceFallback bool) (ComputeBackend, error) {
	instance := wgpu.CreateInstance(nil)

	fallback := forceFallback
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallback,
	})
	if err != nil && !forceFallback {
		// hardware unavailable, try the software path before failing
		fallback = true
		adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			ForceFallbackAdapter: true,
		})
	}
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrDeviceNotFound, err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Compute Device",
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrContextCreationFailed, err)
	}

	adapterInfo := adapter.GetInfo()
	return &wgpuComputeBackend{
		device:   device,
		queue:    device.GetQueue(),
		instance: instance,
		adapter:  adapter,
		info: DeviceInfo{
			Name:     adapterInfo.Name,
			Backend:  adapterInfo.BackendType.String(),
			Fallback: fallback,
		},
	}, nil
}

func (b *wgpuComputeBackend) DeviceInfo() DeviceInfo {
	return b.info
}

// wgpuKernel is a compiled compute pipeline plus cached metadata and per-argument
// scalar uniform buffers.
type wgpuKernel struct {
	key           string
	entryPoint    string
	workgroupSize [3]uint32

	device   *wgpu.Device
	pipeline *wgpu.ComputePipeline

	// scalarBufs caches one 4-byte uniform buffer per scalar argument index so
	// repeated dispatches rewrite rather than reallocate.
	scalarBufs map[int]*wgpu.Buffer
}

var _ Kernel = &wgpuKernel{}

func (k *wgpuKernel) Key() string {
	return k.key
}

func (k *wgpuKernel) EntryPoint() string {
	return k.entryPoint
}

func (k *wgpuKernel) WorkgroupSize() [3]uint32 {
	return k.workgroupSize
}

func (k *wgpuKernel) Release() {
	for _, buf := range k.scalarBufs {
		if buf != nil {
			buf.Release()
		}
	}
	k.scalarBufs = nil
	if k.pipeline != nil {
		k.pipeline.Release()
		k.pipeline = nil
	}
}

func (b *wgpuComputeBackend) BuildKernel(key, source, entryPoint string) (Kernel, error) {
	// Resolve the entry point against the declared @compute functions before
	// compiling, so "compiled fine but no such kernel" is reported distinctly
	// from a compile failure.
	declared := shader.ComputeEntryPoints(source)
	if len(declared) == 0 {
		return nil, &BuildError{Log: "source declares no @compute entry points"}
	}
	if !shader.HasComputeEntryPoint(source, entryPoint) {
		return nil, fmt.Errorf("%w: %q (declared: %s)", ErrEntryPointNotFound, entryPoint, strings.Join(declared, ", "))
	}

	parsed := shader.NewShaderFromSource(key, shader.ShaderTypeCompute, source)

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, &BuildError{Log: err.Error()}
	}

	pipeline, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: key + " Compute Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		return nil, &BuildError{Log: err.Error()}
	}

	return &wgpuKernel{
		key:           key,
		entryPoint:    entryPoint,
		workgroupSize: parsed.WorkgroupSize(),
		device:        b.device,
		pipeline:      pipeline,
		scalarBufs:    make(map[int]*wgpu.Buffer),
	}, nil
}

// wgpuImage is a texture view over an externally-owned texture.
type wgpuImage struct {
	textureID int
	dims      ImageDims
	access    ImageAccess
	view      *wgpu.TextureView
}

var _ ImageObject = &wgpuImage{}

func (i *wgpuImage) TextureID() int {
	return i.textureID
}

func (i *wgpuImage) Dims() ImageDims {
	return i.dims
}

func (i *wgpuImage) Access() ImageAccess {
	return i.access
}

func (i *wgpuImage) Release() {
	if i.view != nil {
		i.view.Release()
		i.view = nil
	}
}

func (b *wgpuComputeBackend) WrapImage(textureID int, dims ImageDims, access ImageAccess) (ImageObject, error) {
	if b.textures == nil {
		return nil, fmt.Errorf("%w: context has no texture source", ErrImageWrapFailed)
	}

	tex := b.textures.Texture(textureID)
	if tex == nil {
		return nil, fmt.Errorf("%w: unknown texture handle %d", ErrImageWrapFailed, textureID)
	}

	w, h, d, ok := b.textures.TextureDims(textureID)
	if !ok {
		return nil, fmt.Errorf("%w: texture handle %d has no dimensions", ErrImageWrapFailed, textureID)
	}
	wantDepth := dims.Depth
	if wantDepth == 0 {
		wantDepth = 1
	}
	if w != dims.Width || h != dims.Height || d != wantDepth {
		return nil, fmt.Errorf("%w: requested dims %dx%dx%d do not match texture %dx%dx%d",
			ErrImageWrapFailed, dims.Width, dims.Height, wantDepth, w, h, d)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageWrapFailed, err)
	}

	return &wgpuImage{
		textureID: textureID,
		dims:      dims,
		access:    access,
		view:      view,
	}, nil
}

func (b *wgpuComputeBackend) Dispatch(kernel Kernel, args []Argument, globalWorkSize [3]uint32) error {
	k, ok := kernel.(*wgpuKernel)
	if !ok {
		return fmt.Errorf("%w: kernel was not built by this backend", ErrDispatchFailed)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make([]wgpu.BindGroupEntry, 0, len(args))
	for _, a := range args {
		if a.IsImage {
			img, imgOK := a.Image.(*wgpuImage)
			if !imgOK || img.view == nil {
				return fmt.Errorf("%w: argument %d has no live image view", ErrDispatchFailed, a.Index)
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     uint32(a.Index),
				TextureView: img.view,
			})
			continue
		}

		buf := k.scalarBufs[a.Index]
		if buf == nil {
			created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s Scalar Arg %d", k.key, a.Index),
				Size:  4,
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return fmt.Errorf("%w: scalar argument %d: %v", ErrDispatchFailed, a.Index, err)
			}
			k.scalarBufs[a.Index] = created
			buf = created
		}
		b.queue.WriteBuffer(buf, 0, a.Scalar[:])
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: uint32(a.Index),
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		})
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   k.key + " Dispatch Bind Group",
		Layout:  k.pipeline.GetBindGroupLayout(0),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	defer bindGroup.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(
		groupCount(globalWorkSize[0], k.workgroupSize[0]),
		groupCount(globalWorkSize[1], k.workgroupSize[1]),
		groupCount(globalWorkSize[2], k.workgroupSize[2]),
	)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

func (b *wgpuComputeBackend) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.device.Poll(true, nil)
}

func (b *wgpuComputeBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// shared devices are owned by the renderer; only standalone resources are released
	if b.adapter != nil {
		b.device.Release()
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// groupCount derives the workgroup count for one axis from the total invocation
// count and the kernel's workgroup size, rounding up so every invocation runs.
func groupCount(global, local uint32) uint32 {
	if local == 0 {
		local = 1
	}
	if global == 0 {
		global = 1
	}
	return (global + local - 1) / local
}
