package material

import (
	"github.com/voxtrace/vct-go/engine/renderer/bind_group_provider"
	"github.com/voxtrace/vct-go/engine/renderer/shader"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithVertexShader is an option builder that sets the vertex stage of the
// material's linked program.
//
// Parameters:
//   - s: the vertex shader
//
// Returns:
//   - MaterialBuilderOption: a function that applies the vertex shader option to a material
func WithVertexShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.vertexShader = s
	}
}

// WithFragmentShader is an option builder that sets the fragment stage of the
// material's linked program.
//
// Parameters:
//   - s: the fragment shader
//
// Returns:
//   - MaterialBuilderOption: a function that applies the fragment shader option to a material
func WithFragmentShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.fragmentShader = s
	}
}

// WithParameter is an option builder that stores a named parameter in the
// material's group at construction.
//
// Parameters:
//   - name: the shader variable name
//   - param: the typed parameter value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the parameter option to a material
func WithParameter(name string, param ShaderParameter) MaterialBuilderOption {
	return func(m *material) {
		m.params.Set(name, param)
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key to associate with the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithBindGroupProvider is an option builder that sets the bind group provider for the material.
//
// Parameters:
//   - provider: the bind group provider containing GPU resources for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the bind group provider option to a material
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}
