package compute

import (
	"errors"
	"testing"
)

const testKernelSource = `
@group(0) @binding(0)
var voxel_albedo: texture_storage_3d<rgba8unorm, write>;

@compute @workgroup_size(4, 4, 4)
fn clear_grid(@builtin(global_invocation_id) id: vec3<u32>) {
    textureStore(voxel_albedo, vec3<i32>(id), vec4<f32>(0.0));
}
`

func newTestShader(t *testing.T, backend ComputeBackend) ComputeShader {
	t.Helper()
	cs, err := NewComputeShader("test", nil, WithBackend(backend))
	if err != nil {
		t.Fatalf("NewComputeShader() error = %v", err)
	}
	return cs
}

func TestRunBeforeBuildFailsWithStateError(t *testing.T) {
	cs := newTestShader(t, newMockComputeBackend())

	err := cs.Run()
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Run() before Build error = %v, want ErrInvalidState", err)
	}
	if got := cs.State(); got != StateInitializing {
		t.Errorf("State() = %v, want %v", got, StateInitializing)
	}
}

func TestBuildInvalidSourceReturnsDiagnosticLog(t *testing.T) {
	backend := newMockComputeBackend()
	backend.buildLog = "error: unknown identifier 'texel' at 3:14"
	cs := newTestShader(t, backend)

	err := cs.Build("not wgsl at all", "clear_grid")
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("Build() error = %v, want *BuildError", err)
	}
	if buildErr.Log == "" {
		t.Error("BuildError.Log is empty, want non-empty diagnostic")
	}
	if got := cs.State(); got != StateBuildFailed {
		t.Errorf("State() = %v, want %v", got, StateBuildFailed)
	}
}

func TestBuildUnknownEntryPoint(t *testing.T) {
	cs := newTestShader(t, newMockComputeBackend())

	err := cs.Build(testKernelSource, "doesnotexist")
	if !errors.Is(err, ErrEntryPointNotFound) {
		t.Fatalf("Build() error = %v, want ErrEntryPointNotFound", err)
	}
	if got := cs.State(); got != StateBuildFailed {
		t.Errorf("State() = %v, want %v", got, StateBuildFailed)
	}

	// BuildFailed is absorbing: a later valid build is rejected
	if err := cs.Build(testKernelSource, "clear_grid"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Build() after failure error = %v, want ErrInvalidState", err)
	}
}

func TestBuildParsesWorkgroupSize(t *testing.T) {
	cs := newTestShader(t, newMockComputeBackend())

	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := cs.WorkgroupSize(); got != [3]uint32{4, 4, 4} {
		t.Errorf("WorkgroupSize() = %v, want [4 4 4]", got)
	}
	if got := cs.State(); got != StateReady {
		t.Errorf("State() = %v, want %v", got, StateReady)
	}
}

func TestRebindReleasesExactlyOnePriorImage(t *testing.T) {
	backend := newMockComputeBackend()
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dims := ImageDims{Width: 64, Height: 64, Depth: 64}
	if err := cs.BindWritableImage(0, 1, dims); err != nil {
		t.Fatalf("BindWritableImage() error = %v", err)
	}
	if err := cs.BindWritableImage(0, 2, dims); err != nil {
		t.Fatalf("rebind error = %v", err)
	}

	wrapped, released, _ := backend.snapshot()
	if wrapped != 2 {
		t.Errorf("wrapped images = %d, want 2", wrapped)
	}
	if released != 1 {
		t.Errorf("released images = %d, want exactly 1", released)
	}
	if got := cs.BoundImageCount(); got != 1 {
		t.Errorf("BoundImageCount() = %d, want 1", got)
	}
}

func TestIdenticalRebindIsNoOp(t *testing.T) {
	backend := newMockComputeBackend()
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dims := ImageDims{Width: 64, Height: 64, Depth: 64}
	for i := 0; i < 3; i++ {
		if err := cs.BindWritableImage(0, 1, dims); err != nil {
			t.Fatalf("bind %d error = %v", i, err)
		}
	}

	wrapped, released, _ := backend.snapshot()
	if wrapped != 1 {
		t.Errorf("wrapped images = %d, want 1 (identical rebinds must not re-wrap)", wrapped)
	}
	if released != 0 {
		t.Errorf("released images = %d, want 0", released)
	}
}

func TestImageTableCapacityIsDeterministic(t *testing.T) {
	backend := newMockComputeBackend()
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dims := ImageDims{Width: 32, Height: 32}
	for i := 0; i < MaxImages; i++ {
		if err := cs.BindReadableImage(i, 100+i, dims); err != nil {
			t.Fatalf("bind %d error = %v", i, err)
		}
	}

	err := cs.BindReadableImage(MaxImages, 200, dims)
	if !errors.Is(err, ErrImageTableFull) {
		t.Fatalf("bind %d error = %v, want ErrImageTableFull", MaxImages, err)
	}
	// a full table is not a failure state; the resource stays usable
	if got := cs.State(); got != StateReady {
		t.Errorf("State() = %v, want %v", got, StateReady)
	}
	if got := cs.BoundImageCount(); got != MaxImages {
		t.Errorf("BoundImageCount() = %d, want %d", got, MaxImages)
	}

	// rebinding an occupied index still works at capacity
	if err := cs.BindReadableImage(0, 300, dims); err != nil {
		t.Errorf("rebind at capacity error = %v", err)
	}
}

func TestBindArgumentIndexOutOfRange(t *testing.T) {
	cs := newTestShader(t, newMockComputeBackend())
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dims := ImageDims{Width: 8, Height: 8}
	if err := cs.BindReadableImage(-1, 1, dims); !errors.Is(err, ErrArgumentIndexOutOfRange) {
		t.Errorf("bind at -1 error = %v, want ErrArgumentIndexOutOfRange", err)
	}
	if err := cs.BindReadableImage(MaxArguments, 1, dims); !errors.Is(err, ErrArgumentIndexOutOfRange) {
		t.Errorf("bind at %d error = %v, want ErrArgumentIndexOutOfRange", MaxArguments, err)
	}
	if got := cs.State(); got != StateReady {
		t.Errorf("State() = %v, want %v", got, StateReady)
	}
}

func TestWrapFailureEntersBindFailed(t *testing.T) {
	backend := newMockComputeBackend()
	backend.failWrap = true
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	err := cs.BindWritableImage(0, 1, ImageDims{Width: 8, Height: 8})
	if !errors.Is(err, ErrImageWrapFailed) {
		t.Fatalf("bind error = %v, want ErrImageWrapFailed", err)
	}
	if got := cs.State(); got != StateBindFailed {
		t.Errorf("State() = %v, want %v", got, StateBindFailed)
	}

	// BindFailed is absorbing
	if err := cs.Run(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Run() after bind failure error = %v, want ErrInvalidState", err)
	}
}

func TestVolumeDispatchScenario(t *testing.T) {
	backend := newMockComputeBackend()
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if err := cs.BindWritableImage(0, 1, ImageDims{Width: 64, Height: 64, Depth: 64}); err != nil {
		t.Fatalf("BindWritableImage() error = %v", err)
	}
	cs.SetGlobalWorkSize([3]uint32{64, 64, 64})

	if err := cs.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := cs.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if got := cs.State(); got != StateReady {
		t.Errorf("State() after run = %v, want %v", got, StateReady)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.dispatches) != 1 {
		t.Fatalf("dispatches = %d, want 1", len(backend.dispatches))
	}
	d := backend.dispatches[0]
	if d.imageArgs != 1 {
		t.Errorf("image args = %d, want 1", d.imageArgs)
	}
	if d.globalWorkSize != [3]uint32{64, 64, 64} {
		t.Errorf("global work size = %v, want [64 64 64]", d.globalWorkSize)
	}
	// 64 invocations per axis at @workgroup_size(4,4,4) is 16 groups per axis
	if d.groupCount != [3]uint32{16, 16, 16} {
		t.Errorf("group count = %v, want [16 16 16]", d.groupCount)
	}
}

func TestDispatchFailureLeavesResourceRetryable(t *testing.T) {
	backend := newMockComputeBackend()
	backend.failDispatch = true
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if err := cs.Run(); err != nil {
		t.Fatalf("Run() error = %v (enqueue itself should succeed)", err)
	}
	if err := cs.Finish(); !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("Finish() error = %v, want ErrDispatchFailed", err)
	}
	if got := cs.State(); got != StateReady {
		t.Errorf("State() after failed dispatch = %v, want %v (retryable)", got, StateReady)
	}

	// retry succeeds once the underlying cause is gone
	backend.mu.Lock()
	backend.failDispatch = false
	backend.mu.Unlock()
	if err := cs.Run(); err != nil {
		t.Fatalf("retry Run() error = %v", err)
	}
	if err := cs.Finish(); err != nil {
		t.Errorf("Finish() after successful retry = %v, want nil", err)
	}

	_, _, dispatched := backend.snapshot()
	if dispatched != 1 {
		t.Errorf("successful dispatches = %d, want 1", dispatched)
	}
}

func TestRunWhileDispatchInFlightEnqueues(t *testing.T) {
	backend := newMockComputeBackend()
	backend.blockDispatch = make(chan struct{})
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if err := cs.Run(); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	// the first dispatch is parked on the worker; further enqueues stay legal
	if err := cs.Run(); err != nil {
		t.Fatalf("Run() with a dispatch in flight error = %v", err)
	}
	if err := cs.Run(); err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	if got := cs.State(); got != StateDispatching {
		t.Errorf("State() with runs outstanding = %v, want %v", got, StateDispatching)
	}

	close(backend.blockDispatch)
	if err := cs.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	if got := cs.State(); got != StateReady {
		t.Errorf("State() after drain = %v, want %v", got, StateReady)
	}
	_, _, dispatched := backend.snapshot()
	if dispatched != 3 {
		t.Errorf("dispatches = %d, want 3", dispatched)
	}
}

func TestScalarArgumentsStaged(t *testing.T) {
	backend := newMockComputeBackend()
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if err := cs.SetIntArgument(1, 42); err != nil {
		t.Fatalf("SetIntArgument() error = %v", err)
	}
	if err := cs.SetFloatArgument(2, 0.5); err != nil {
		t.Fatalf("SetFloatArgument() error = %v", err)
	}
	if err := cs.SetIntArgument(MaxArguments, 1); !errors.Is(err, ErrArgumentIndexOutOfRange) {
		t.Errorf("SetIntArgument out of range error = %v, want ErrArgumentIndexOutOfRange", err)
	}

	if err := cs.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := cs.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	d := backend.dispatches[0]
	if d.scalarArgs != 2 {
		t.Errorf("scalar args = %d, want 2", d.scalarArgs)
	}
	if len(d.argIndices) != 2 || d.argIndices[0] != 1 || d.argIndices[1] != 2 {
		t.Errorf("arg indices = %v, want [1 2] in order", d.argIndices)
	}
}

func TestReleaseFreesAllBindings(t *testing.T) {
	backend := newMockComputeBackend()
	cs := newTestShader(t, backend)
	if err := cs.Build(testKernelSource, "clear_grid"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dims := ImageDims{Width: 16, Height: 16}
	for i := 0; i < 3; i++ {
		if err := cs.BindReadableImage(i, 10+i, dims); err != nil {
			t.Fatalf("bind %d error = %v", i, err)
		}
	}
	cs.Release()

	wrapped, released, _ := backend.snapshot()
	if released != wrapped {
		t.Errorf("released = %d, wrapped = %d, want all wraps released", released, wrapped)
	}
	if got := cs.State(); got != StateUninitialized {
		t.Errorf("State() after release = %v, want %v", got, StateUninitialized)
	}
}
