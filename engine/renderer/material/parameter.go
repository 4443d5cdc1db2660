package material

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/voxtrace/vct-go/engine/light"
)

// ShaderParamType identifies which variant of the ShaderParameter union is set.
type ShaderParamType int

const (
	// ParamMat4 is a 4x4 float32 matrix parameter (64 bytes, column-major).
	ParamMat4 ShaderParamType = iota

	// ParamVec4 is a 4-component float32 vector parameter.
	ParamVec4

	// ParamVec3 is a 3-component float32 vector parameter.
	ParamVec3

	// ParamVec2 is a 2-component float32 vector parameter.
	ParamVec2

	// ParamFloat is a single float32 parameter.
	ParamFloat

	// ParamInt is a single int32 parameter.
	ParamInt

	// ParamUInt is a single uint32 parameter.
	ParamUInt

	// ParamBool is a boolean parameter, uploaded as a u32 (0 or 1).
	ParamBool

	// ParamSampler2D is a 2D texture sampler parameter referencing a registry texture.
	ParamSampler2D

	// ParamSampler3D is a 3D texture sampler parameter referencing a registry texture.
	ParamSampler3D

	// ParamPointLight is a point light reference parameter. Uploading it writes the
	// light's GPU record in place at its index within the light storage buffer.
	ParamPointLight
)

// String returns a short name for the parameter type, used in log output.
func (t ShaderParamType) String() string {
	switch t {
	case ParamMat4:
		return "mat4"
	case ParamVec4:
		return "vec4"
	case ParamVec3:
		return "vec3"
	case ParamVec2:
		return "vec2"
	case ParamFloat:
		return "float"
	case ParamInt:
		return "int"
	case ParamUInt:
		return "uint"
	case ParamBool:
		return "bool"
	case ParamSampler2D:
		return "sampler2D"
	case ParamSampler3D:
		return "sampler3D"
	case ParamPointLight:
		return "pointLight"
	default:
		return "unknown"
	}
}

// ShaderParameter is a tagged union holding one typed shader parameter value.
// Only the field matching Type is meaningful. Construct values with the
// *Param helper functions rather than filling the struct directly.
type ShaderParameter struct {
	Type ShaderParamType

	Mat4  [16]float32
	Vec4  [4]float32
	Vec3  [3]float32
	Vec2  [2]float32
	Float float32
	Int   int32
	UInt  uint32
	Bool  bool

	// TextureID references a renderer registry texture for sampler parameters.
	TextureID int

	// Light references a point light for ParamPointLight parameters.
	Light light.PointLight
}

// Mat4Param creates a 4x4 matrix parameter.
func Mat4Param(m [16]float32) ShaderParameter {
	return ShaderParameter{Type: ParamMat4, Mat4: m}
}

// Vec4Param creates a 4-component vector parameter.
func Vec4Param(v [4]float32) ShaderParameter {
	return ShaderParameter{Type: ParamVec4, Vec4: v}
}

// Vec3Param creates a 3-component vector parameter.
func Vec3Param(v [3]float32) ShaderParameter {
	return ShaderParameter{Type: ParamVec3, Vec3: v}
}

// Vec2Param creates a 2-component vector parameter.
func Vec2Param(v [2]float32) ShaderParameter {
	return ShaderParameter{Type: ParamVec2, Vec2: v}
}

// FloatParam creates a float parameter.
func FloatParam(v float32) ShaderParameter {
	return ShaderParameter{Type: ParamFloat, Float: v}
}

// IntParam creates an int parameter.
func IntParam(v int32) ShaderParameter {
	return ShaderParameter{Type: ParamInt, Int: v}
}

// UIntParam creates a uint parameter.
func UIntParam(v uint32) ShaderParameter {
	return ShaderParameter{Type: ParamUInt, UInt: v}
}

// BoolParam creates a bool parameter.
func BoolParam(v bool) ShaderParameter {
	return ShaderParameter{Type: ParamBool, Bool: v}
}

// Sampler2DParam creates a 2D sampler parameter referencing a registry texture.
func Sampler2DParam(textureID int) ShaderParameter {
	return ShaderParameter{Type: ParamSampler2D, TextureID: textureID}
}

// Sampler3DParam creates a 3D sampler parameter referencing a registry texture.
func Sampler3DParam(textureID int) ShaderParameter {
	return ShaderParameter{Type: ParamSampler3D, TextureID: textureID}
}

// PointLightParam creates a point light reference parameter.
func PointLightParam(l light.PointLight) ShaderParameter {
	return ShaderParameter{Type: ParamPointLight, Light: l}
}

// Marshal serializes the parameter's value into a little-endian byte buffer
// suitable for GPU upload. Sampler parameters have no buffer representation and
// return nil.
//
// Returns:
//   - []byte: the serialized value, or nil for sampler parameters
func (p ShaderParameter) Marshal() []byte {
	switch p.Type {
	case ParamMat4:
		buf := make([]byte, 64)
		for i := range 16 {
			binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(p.Mat4[i]))
		}
		return buf
	case ParamVec4:
		buf := make([]byte, 16)
		for i := range 4 {
			binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(p.Vec4[i]))
		}
		return buf
	case ParamVec3:
		buf := make([]byte, 12)
		for i := range 3 {
			binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(p.Vec3[i]))
		}
		return buf
	case ParamVec2:
		buf := make([]byte, 8)
		for i := range 2 {
			binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(p.Vec2[i]))
		}
		return buf
	case ParamFloat:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(p.Float))
		return buf
	case ParamInt:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(p.Int))
		return buf
	case ParamUInt:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, p.UInt)
		return buf
	case ParamBool:
		buf := make([]byte, 4)
		if p.Bool {
			binary.LittleEndian.PutUint32(buf, 1)
		}
		return buf
	case ParamPointLight:
		if p.Light == nil {
			return nil
		}
		gpu := light.ToGPULight(p.Light)
		return gpu.Marshal()
	default:
		return nil
	}
}

// namedParam is one entry of a ShaderParamsGroup.
type namedParam struct {
	name  string
	param ShaderParameter
}

// ShaderParamsGroup is an ordered collection of named shader parameters.
// Setting an existing name replaces its value in place; new names append.
// Upload order is insertion order, which keeps texture unit assignment
// deterministic across frames.
type ShaderParamsGroup struct {
	entries []namedParam
}

// NewShaderParamsGroup creates an empty parameter group.
//
// Returns:
//   - *ShaderParamsGroup: the new group
func NewShaderParamsGroup() *ShaderParamsGroup {
	return &ShaderParamsGroup{}
}

// Set stores a parameter under the given name, preserving insertion order on
// replacement.
//
// Parameters:
//   - name: the shader variable name to bind the value to
//   - param: the typed parameter value
func (g *ShaderParamsGroup) Set(name string, param ShaderParameter) {
	for i := range g.entries {
		if g.entries[i].name == name {
			g.entries[i].param = param
			return
		}
	}
	g.entries = append(g.entries, namedParam{name: name, param: param})
}

// Get retrieves the parameter stored under the given name.
//
// Parameters:
//   - name: the shader variable name
//
// Returns:
//   - ShaderParameter: the stored parameter, or the zero value if absent
//   - bool: true if the name is present
func (g *ShaderParamsGroup) Get(name string) (ShaderParameter, bool) {
	for i := range g.entries {
		if g.entries[i].name == name {
			return g.entries[i].param, true
		}
	}
	return ShaderParameter{}, false
}

// Names returns the parameter names in insertion order.
//
// Returns:
//   - []string: the ordered names
func (g *ShaderParamsGroup) Names() []string {
	names := make([]string, len(g.entries))
	for i := range g.entries {
		names[i] = g.entries[i].name
	}
	return names
}

// Len returns the number of parameters in the group.
//
// Returns:
//   - int: the entry count
func (g *ShaderParamsGroup) Len() int {
	return len(g.entries)
}

// NameResolver resolves a shader variable name to its group and binding
// indices. shader.Shader satisfies this interface; a Material's linked resolver
// searches both of its stages.
type NameResolver interface {
	// ResolveVarName searches the binding table for a variable name.
	//
	// Parameters:
	//   - varName: the variable name to search for
	//
	// Returns:
	//   - int: the group index, or -1 if not found
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable name was found
	ResolveVarName(varName string) (int, int, bool)

	// Key returns an identifier for the resolver, used in warning logs.
	//
	// Returns:
	//   - string: the identifier
	Key() string
}

// ParameterSink receives resolved parameter uploads from UploadParameters.
// The renderer-backed implementation stages buffer writes and texture view
// bindings; tests substitute a recording sink.
type ParameterSink interface {
	// WriteBinding stages a byte write into the buffer at the given group and
	// binding, starting at the given offset.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//   - offset: the byte offset within the bound buffer
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: nil on success
	WriteBinding(group, binding int, offset uint64, data []byte) error

	// BindTexture binds a registry texture to the given group and binding,
	// claiming the given texture unit.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//   - unit: the claimed texture unit (monotonic within one upload pass)
	//   - textureID: the renderer texture registry handle
	//
	// Returns:
	//   - error: nil on success
	BindTexture(group, binding, unit, textureID int) error
}

// UploadParameters resolves every parameter in the group against the shader's
// binding table and uploads it through the sink. Names that do not resolve are
// logged as warnings and skipped; they never fail the pass. Sampler parameters
// claim texture units monotonically in group order, and the counter resets at
// the start of every pass.
//
// Parameters:
//   - s: the resolver whose binding table resolves parameter names
//   - group: the ordered parameter group to upload
//   - sink: the upload target
//
// Returns:
//   - error: the first sink error encountered, or nil
func UploadParameters(s NameResolver, group *ShaderParamsGroup, sink ParameterSink) error {
	textureUnit := 0

	for i := range group.entries {
		e := &group.entries[i]
		bindGroup, binding, ok := s.ResolveVarName(e.name)
		if !ok {
			log.Printf("material: parameter %q (%s) not found in shader %q, skipping", e.name, e.param.Type, s.Key())
			continue
		}

		switch e.param.Type {
		case ParamSampler2D, ParamSampler3D:
			unit := textureUnit
			textureUnit++
			if err := sink.BindTexture(bindGroup, binding, unit, e.param.TextureID); err != nil {
				return err
			}
		case ParamPointLight:
			if e.param.Light == nil {
				log.Printf("material: parameter %q references a nil light, skipping", e.name)
				continue
			}
			offset := light.LightBufferOffset(e.param.Light.Index())
			if err := sink.WriteBinding(bindGroup, binding, offset, e.param.Marshal()); err != nil {
				return err
			}
		default:
			if err := sink.WriteBinding(bindGroup, binding, 0, e.param.Marshal()); err != nil {
				return err
			}
		}
	}
	return nil
}
