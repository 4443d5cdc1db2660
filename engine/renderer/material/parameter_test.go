package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/voxtrace/vct-go/engine/light"
	"github.com/voxtrace/vct-go/engine/renderer/shader"
)

const testVertexSource = `
@group(0) @binding(0) var<uniform> view_proj: mat4x4<f32>;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return view_proj * vec4<f32>(position, 1.0);
}
`

const testFragmentSource = `
@group(0) @binding(1) var<uniform> base_color: vec4<f32>;
@group(1) @binding(0) var albedo_tex: texture_2d<f32>;
@group(1) @binding(1) var voxel_tex: texture_3d<f32>;
@group(2) @binding(0) var<storage, read> lights: array<u32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return base_color;
}
`

// recordingSink records every upload so tests can assert on resolution,
// ordering, and texture unit assignment.
type recordingSink struct {
	writes   []recordedWrite
	texBinds []recordedTexBind
}

type recordedWrite struct {
	group, binding int
	offset         uint64
	data           []byte
}

type recordedTexBind struct {
	group, binding, unit, textureID int
}

var _ ParameterSink = &recordingSink{}

func (s *recordingSink) WriteBinding(group, binding int, offset uint64, data []byte) error {
	s.writes = append(s.writes, recordedWrite{group: group, binding: binding, offset: offset, data: data})
	return nil
}

func (s *recordingSink) BindTexture(group, binding, unit, textureID int) error {
	s.texBinds = append(s.texBinds, recordedTexBind{group: group, binding: binding, unit: unit, textureID: textureID})
	return nil
}

func newTestMaterial(t *testing.T, options ...MaterialBuilderOption) Material {
	t.Helper()
	opts := append([]MaterialBuilderOption{
		WithName("test material"),
		WithVertexShader(shader.NewShaderFromSource("test_vs", shader.ShaderTypeVertex, testVertexSource)),
		WithFragmentShader(shader.NewShaderFromSource("test_fs", shader.ShaderTypeFragment, testFragmentSource)),
	}, options...)
	return NewMaterial(opts...)
}

func TestUploadResolvesAcrossBothStages(t *testing.T) {
	m := newTestMaterial(t)
	m.SetParameter("view_proj", Mat4Param([16]float32{0: 1, 5: 1, 10: 1, 15: 1}))
	m.SetParameter("base_color", Vec4Param([4]float32{1, 0, 0, 1}))

	sink := &recordingSink{}
	if err := m.UploadParameters(sink); err != nil {
		t.Fatalf("UploadParameters() error = %v", err)
	}
	if len(sink.writes) != 2 {
		t.Fatalf("writes = %d, want 2", len(sink.writes))
	}

	// view_proj lives only in the vertex stage
	if w := sink.writes[0]; w.group != 0 || w.binding != 0 || len(w.data) != 64 {
		t.Errorf("view_proj write = group %d binding %d len %d, want 0/0/64", w.group, w.binding, len(w.data))
	}
	if w := sink.writes[1]; w.group != 0 || w.binding != 1 || len(w.data) != 16 {
		t.Errorf("base_color write = group %d binding %d len %d, want 0/1/16", w.group, w.binding, len(w.data))
	}
}

func TestUploadSkipsUnresolvedNames(t *testing.T) {
	m := newTestMaterial(t)
	m.SetParameter("no_such_uniform", FloatParam(1))
	m.SetParameter("base_color", Vec4Param([4]float32{0, 1, 0, 1}))

	sink := &recordingSink{}
	if err := m.UploadParameters(sink); err != nil {
		t.Fatalf("UploadParameters() error = %v (unresolved names must not fail the pass)", err)
	}
	if len(sink.writes) != 1 {
		t.Fatalf("writes = %d, want 1 (only base_color)", len(sink.writes))
	}
	if w := sink.writes[0]; w.binding != 1 {
		t.Errorf("write binding = %d, want 1", w.binding)
	}
}

func TestTextureUnitsMonotonicAndResetPerPass(t *testing.T) {
	m := newTestMaterial(t)
	m.SetParameter("albedo_tex", Sampler2DParam(7))
	m.SetParameter("base_color", Vec4Param([4]float32{1, 1, 1, 1}))
	m.SetParameter("voxel_tex", Sampler3DParam(9))

	sink := &recordingSink{}
	if err := m.UploadParameters(sink); err != nil {
		t.Fatalf("UploadParameters() error = %v", err)
	}
	if len(sink.texBinds) != 2 {
		t.Fatalf("texture binds = %d, want 2", len(sink.texBinds))
	}
	if b := sink.texBinds[0]; b.unit != 0 || b.textureID != 7 {
		t.Errorf("first bind = unit %d texture %d, want unit 0 texture 7", b.unit, b.textureID)
	}
	// the intervening non-sampler parameter must not consume a unit
	if b := sink.texBinds[1]; b.unit != 1 || b.textureID != 9 {
		t.Errorf("second bind = unit %d texture %d, want unit 1 texture 9", b.unit, b.textureID)
	}

	// the counter starts over on the next pass
	second := &recordingSink{}
	if err := m.UploadParameters(second); err != nil {
		t.Fatalf("second UploadParameters() error = %v", err)
	}
	if b := second.texBinds[0]; b.unit != 0 {
		t.Errorf("unit after pass reset = %d, want 0", b.unit)
	}
}

func TestPointLightWritesAtRecordOffset(t *testing.T) {
	m := newTestMaterial(t)
	l := light.NewPointLight(
		light.WithPosition(1, 2, 3),
		light.WithIndex(2),
	)
	m.SetParameter("lights", PointLightParam(l))

	sink := &recordingSink{}
	if err := m.UploadParameters(sink); err != nil {
		t.Fatalf("UploadParameters() error = %v", err)
	}
	if len(sink.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(sink.writes))
	}

	w := sink.writes[0]
	if w.group != 2 || w.binding != 0 {
		t.Errorf("light write = group %d binding %d, want 2/0", w.group, w.binding)
	}
	if want := light.LightBufferOffset(2); w.offset != want {
		t.Errorf("light write offset = %d, want %d", w.offset, want)
	}
	if len(w.data) != light.GPULightStride {
		t.Errorf("light write len = %d, want %d", len(w.data), light.GPULightStride)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(w.data[0:4])); got != 1 {
		t.Errorf("light position.x = %v, want 1", got)
	}
}

func TestParamsGroupReplacePreservesOrder(t *testing.T) {
	g := NewShaderParamsGroup()
	g.Set("a", FloatParam(1))
	g.Set("b", FloatParam(2))
	g.Set("a", FloatParam(3))

	names := g.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("Names() = %v, want [a b]", names)
	}
	if p, ok := g.Get("a"); !ok || p.Float != 3 {
		t.Errorf("Get(a) = %v %t, want replaced value 3", p.Float, ok)
	}
}

func TestParameterMarshalSizes(t *testing.T) {
	cases := []struct {
		name  string
		param ShaderParameter
		want  int
	}{
		{"mat4", Mat4Param([16]float32{}), 64},
		{"vec4", Vec4Param([4]float32{}), 16},
		{"vec3", Vec3Param([3]float32{}), 12},
		{"vec2", Vec2Param([2]float32{}), 8},
		{"float", FloatParam(0), 4},
		{"int", IntParam(0), 4},
		{"uint", UIntParam(0), 4},
		{"bool", BoolParam(true), 4},
	}
	for _, tc := range cases {
		if got := len(tc.param.Marshal()); got != tc.want {
			t.Errorf("%s Marshal() len = %d, want %d", tc.name, got, tc.want)
		}
	}

	if buf := BoolParam(true).Marshal(); binary.LittleEndian.Uint32(buf) != 1 {
		t.Error("BoolParam(true) did not marshal as u32 1")
	}
	if buf := BoolParam(false).Marshal(); binary.LittleEndian.Uint32(buf) != 0 {
		t.Error("BoolParam(false) did not marshal as u32 0")
	}
}
