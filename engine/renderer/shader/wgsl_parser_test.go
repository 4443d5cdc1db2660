package shader

import (
	"testing"
)

const parserComputeSource = `
// clears the voxel albedo grid
@group(0) @binding(0)
var voxel_albedo: texture_storage_3d<rgba8unorm, write>;

@group(0) @binding(1) var<uniform> clear_value: f32;

@compute @workgroup_size(8, 8, 2)
fn clear_grid(@builtin(global_invocation_id) id: vec3<u32>) {
    textureStore(voxel_albedo, vec3<i32>(id), vec4<f32>(clear_value));
}

@compute @workgroup_size(64)
fn reduce_row(@builtin(global_invocation_id) id: vec3<u32>) {
}

/* commented-out kernel:
@compute @workgroup_size(1)
fn old_kernel() {}
*/
`

func TestComputeEntryPoints(t *testing.T) {
	got := ComputeEntryPoints(parserComputeSource)
	want := []string{"clear_grid", "reduce_row"}
	if len(got) != len(want) {
		t.Fatalf("ComputeEntryPoints() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry point %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestComputeEntryPointsIgnoresComments(t *testing.T) {
	if HasComputeEntryPoint(parserComputeSource, "old_kernel") {
		t.Error("found entry point declared only inside a block comment")
	}
	if !HasComputeEntryPoint(parserComputeSource, "clear_grid") {
		t.Error("HasComputeEntryPoint(clear_grid) = false")
	}
	if HasComputeEntryPoint(parserComputeSource, "doesnotexist") {
		t.Error("HasComputeEntryPoint(doesnotexist) = true")
	}
}

func TestWorkgroupSizeParsing(t *testing.T) {
	s := NewShaderFromSource("clear", ShaderTypeCompute, parserComputeSource)
	if got := s.WorkgroupSize(); got != [3]uint32{8, 8, 2} {
		t.Errorf("WorkgroupSize() = %v, want [8 8 2]", got)
	}
}

func TestWorkgroupSizeDefaultsOmittedAxes(t *testing.T) {
	src := `
@compute @workgroup_size(64)
fn run(@builtin(global_invocation_id) id: vec3<u32>) {}
`
	s := NewShaderFromSource("run", ShaderTypeCompute, src)
	if got := s.WorkgroupSize(); got != [3]uint32{64, 1, 1} {
		t.Errorf("WorkgroupSize() = %v, want [64 1 1]", got)
	}
}

func TestBindingVarNames(t *testing.T) {
	s := NewShaderFromSource("clear", ShaderTypeCompute, parserComputeSource)

	if got := s.BindGroupVarName(0, 0); got != "voxel_albedo" {
		t.Errorf("BindGroupVarName(0, 0) = %q, want voxel_albedo", got)
	}
	if got := s.BindGroupVarName(0, 1); got != "clear_value" {
		t.Errorf("BindGroupVarName(0, 1) = %q, want clear_value", got)
	}
	if got := s.BindGroupVarName(3, 0); got != "" {
		t.Errorf("BindGroupVarName(3, 0) = %q, want empty", got)
	}
}

func TestResolveVarName(t *testing.T) {
	src := `
@group(0) @binding(0) var<uniform> view_proj: mat4x4<f32>;
@group(2) @binding(1) var<storage, read> light_buffer: array<u32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`
	s := NewShaderFromSource("fs", ShaderTypeFragment, src)

	group, binding, ok := s.ResolveVarName("light_buffer")
	if !ok || group != 2 || binding != 1 {
		t.Errorf("ResolveVarName(light_buffer) = (%d, %d, %t), want (2, 1, true)", group, binding, ok)
	}

	group, binding, ok = s.ResolveVarName("missing")
	if ok || group != -1 || binding != -1 {
		t.Errorf("ResolveVarName(missing) = (%d, %d, %t), want (-1, -1, false)", group, binding, ok)
	}
}

func TestEntryPointParsing(t *testing.T) {
	s := NewShaderFromSource("clear", ShaderTypeCompute, parserComputeSource)
	if got := s.EntryPoint(); got != "clear_grid" {
		t.Errorf("EntryPoint() = %q, want clear_grid (first declared)", got)
	}
}
