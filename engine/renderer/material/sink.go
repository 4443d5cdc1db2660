package material

import (
	"github.com/voxtrace/vct-go/engine/renderer/bind_group_provider"
)

// TextureBinder creates a texture view over a registry texture and stores it on a
// provider at the given binding key. The renderer satisfies this interface.
type TextureBinder interface {
	// InitRegistryTextureView creates a view over a shared registry texture and
	// stores it on the provider.
	//
	// Parameters:
	//   - provider: the bind group provider to store the view on
	//   - bindingKey: the binding index the view occupies
	//   - textureID: the renderer texture registry handle
	//
	// Returns:
	//   - error: an error if the handle is unknown or view creation fails
	InitRegistryTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, textureID int) error
}

// ProviderSink is the renderer-backed ParameterSink. Buffer parameter uploads are
// staged as BufferWrite entries against the material's bind group provider, to be
// flushed through the renderer's WriteBuffers in one batch; sampler parameters
// create texture views on the provider through the TextureBinder.
//
// Under wgpu the binding index is authoritative for texture placement; the pass's
// texture unit is tracked for upload ordering but does not select a hardware slot.
type ProviderSink struct {
	provider bind_group_provider.BindGroupProvider
	binder   TextureBinder
	writes   []bind_group_provider.BufferWrite
}

var _ ParameterSink = &ProviderSink{}

// NewProviderSink creates a ParameterSink staging against the given provider.
//
// Parameters:
//   - provider: the bind group provider owning the material's GPU buffers
//   - binder: the texture binder (typically the renderer), or nil if the material
//     has no sampler parameters
//
// Returns:
//   - *ProviderSink: the new sink
func NewProviderSink(provider bind_group_provider.BindGroupProvider, binder TextureBinder) *ProviderSink {
	return &ProviderSink{
		provider: provider,
		binder:   binder,
	}
}

func (s *ProviderSink) WriteBinding(group, binding int, offset uint64, data []byte) error {
	s.writes = append(s.writes, bind_group_provider.BufferWrite{
		Provider: s.provider,
		Binding:  binding,
		Offset:   offset,
		Data:     data,
	})
	return nil
}

func (s *ProviderSink) BindTexture(group, binding, unit, textureID int) error {
	if s.binder == nil {
		return nil
	}
	return s.binder.InitRegistryTextureView(s.provider, binding, textureID)
}

// Writes drains and returns the staged buffer writes, ready for the renderer's
// WriteBuffers.
//
// Returns:
//   - []bind_group_provider.BufferWrite: the staged writes in upload order
func (s *ProviderSink) Writes() []bind_group_provider.BufferWrite {
	writes := s.writes
	s.writes = nil
	return writes
}
