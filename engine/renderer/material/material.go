package material

import (
	"github.com/voxtrace/vct-go/engine/renderer/bind_group_provider"
	"github.com/voxtrace/vct-go/engine/renderer/shader"
)

// material is the implementation of the Material interface.
type material struct {
	name              string
	vertexShader      shader.Shader
	fragmentShader    shader.Shader
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
	params            *ShaderParamsGroup
}

// Material defines the interface for a render material: the identity of a linked
// shader program (vertex/fragment pair plus pipeline key), the GPU resources bound
// for its draws, and an ordered group of named parameters uploaded each frame.
//
// The shader pair and name are set at construction and read-only through this
// interface. GPU resource references (pipeline key, bind group provider) are
// mutable so they can be configured after construction during GPU init.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// VertexShader retrieves the vertex stage of the linked program, or nil.
	//
	// Returns:
	//   - shader.Shader: the vertex shader
	VertexShader() shader.Shader

	// FragmentShader retrieves the fragment stage of the linked program, or nil.
	//
	// Returns:
	//   - shader.Shader: the fragment shader
	FragmentShader() shader.Shader

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Parameters retrieves the material's ordered parameter group. Mutating the
	// returned group changes what the next UploadParameters pass uploads.
	//
	// Returns:
	//   - *ShaderParamsGroup: the parameter group
	Parameters() *ShaderParamsGroup

	// SetParameter stores a named parameter in the material's group, replacing any
	// existing value under the same name.
	//
	// Parameters:
	//   - name: the shader variable name
	//   - param: the typed parameter value
	SetParameter(name string, param ShaderParameter)

	// UploadParameters runs one upload pass over the material's parameter group,
	// resolving each name against the linked program's binding tables (fragment
	// stage first, then vertex). Unresolved names are logged and skipped. The
	// texture unit counter resets at the start of the pass.
	//
	// Parameters:
	//   - sink: the upload target
	//
	// Returns:
	//   - error: the first sink error encountered, or nil
	UploadParameters(sink ParameterSink) error

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		params: NewShaderParamsGroup(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) VertexShader() shader.Shader {
	return m.vertexShader
}

func (m *material) FragmentShader() shader.Shader {
	return m.fragmentShader
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) Parameters() *ShaderParamsGroup {
	return m.params
}

func (m *material) SetParameter(name string, param ShaderParameter) {
	m.params.Set(name, param)
}

func (m *material) UploadParameters(sink ParameterSink) error {
	return UploadParameters(&linkedResolver{m: m}, m.params, sink)
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}

// linkedResolver resolves parameter names against both stages of a material's
// linked program, fragment stage first.
type linkedResolver struct {
	m *material
}

var _ NameResolver = &linkedResolver{}

func (r *linkedResolver) ResolveVarName(varName string) (int, int, bool) {
	if r.m.fragmentShader != nil {
		if group, binding, ok := r.m.fragmentShader.ResolveVarName(varName); ok {
			return group, binding, true
		}
	}
	if r.m.vertexShader != nil {
		if group, binding, ok := r.m.vertexShader.ResolveVarName(varName); ok {
			return group, binding, true
		}
	}
	return -1, -1, false
}

func (r *linkedResolver) Key() string {
	return r.m.name
}
