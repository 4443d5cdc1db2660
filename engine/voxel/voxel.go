// package voxel provides the voxel volume resource container shared between the
// raster pipeline and compute kernels. A volume owns the 3D voxel grid textures
// (albedo and normal) allocated through the renderer's texture registry, so
// kernels can write the grids in place and cone-tracing passes can sample them
// without copies.
package voxel

import (
	"fmt"

	"github.com/voxtrace/vct-go/engine/compute"
)

// TextureAllocator allocates and releases registry textures. The renderer
// satisfies this interface.
type TextureAllocator interface {
	// CreateTexture3D creates a 3D texture and returns its registry handle.
	//
	// Parameters:
	//   - label: a debug label for the texture
	//   - width: texture width in texels
	//   - height: texture height in texels
	//   - depth: texture depth in texels
	//
	// Returns:
	//   - int: the registry handle for the created texture
	//   - error: an error if texture creation fails
	CreateTexture3D(label string, width, height, depth uint32) (int, error)

	// ReleaseTexture releases the GPU texture behind a registry handle.
	//
	// Parameters:
	//   - id: the registry handle to release
	ReleaseTexture(id int)
}

// voxelVolume is the implementation of the VoxelVolume interface.
type voxelVolume struct {
	allocator  TextureAllocator
	resolution uint32
	albedoID   int
	normalID   int
	released   bool
}

// VoxelVolume defines the interface for a cubic voxel grid resource pair.
// The grids are allocated at construction and remain valid until Release.
type VoxelVolume interface {
	// Resolution returns the cubic grid resolution in voxels per axis.
	//
	// Returns:
	//   - uint32: the per-axis resolution
	Resolution() uint32

	// AlbedoTextureID returns the registry handle of the albedo grid texture.
	//
	// Returns:
	//   - int: the registry handle
	AlbedoTextureID() int

	// NormalTextureID returns the registry handle of the normal grid texture.
	//
	// Returns:
	//   - int: the registry handle
	NormalTextureID() int

	// Dims returns the grid dimensions as compute image dimensions, suitable for
	// passing directly to an image bind.
	//
	// Returns:
	//   - compute.ImageDims: the cubic dimensions
	Dims() compute.ImageDims

	// GridWorkSize returns the global work size covering every voxel in the grid,
	// one invocation per voxel.
	//
	// Returns:
	//   - [3]uint32: the per-axis invocation counts
	GridWorkSize() [3]uint32

	// Release frees both grid textures. Safe to call more than once.
	Release()
}

var _ VoxelVolume = &voxelVolume{}

// NewVoxelVolume creates a new VoxelVolume, allocating the albedo and normal grid
// textures through the given allocator.
//
// Parameters:
//   - allocator: the texture allocator (typically the renderer)
//   - opts: a variadic list of VoxelVolumeOption functions to configure the volume
//
// Returns:
//   - VoxelVolume: the constructed volume
//   - error: an error if either grid texture could not be allocated
func NewVoxelVolume(allocator TextureAllocator, opts ...VoxelVolumeOption) (VoxelVolume, error) {
	v := &voxelVolume{
		allocator:  allocator,
		resolution: 64,
	}
	for _, opt := range opts {
		opt(v)
	}

	res := v.resolution
	albedoID, err := allocator.CreateTexture3D("Voxel Albedo Grid", res, res, res)
	if err != nil {
		return nil, fmt.Errorf("allocate voxel albedo grid: %w", err)
	}
	normalID, err := allocator.CreateTexture3D("Voxel Normal Grid", res, res, res)
	if err != nil {
		allocator.ReleaseTexture(albedoID)
		return nil, fmt.Errorf("allocate voxel normal grid: %w", err)
	}

	v.albedoID = albedoID
	v.normalID = normalID
	return v, nil
}

func (v *voxelVolume) Resolution() uint32 {
	return v.resolution
}

func (v *voxelVolume) AlbedoTextureID() int {
	return v.albedoID
}

func (v *voxelVolume) NormalTextureID() int {
	return v.normalID
}

func (v *voxelVolume) Dims() compute.ImageDims {
	return compute.ImageDims{
		Width:  v.resolution,
		Height: v.resolution,
		Depth:  v.resolution,
	}
}

func (v *voxelVolume) GridWorkSize() [3]uint32 {
	return [3]uint32{v.resolution, v.resolution, v.resolution}
}

func (v *voxelVolume) Release() {
	if v.released {
		return
	}
	v.released = true
	v.allocator.ReleaseTexture(v.albedoID)
	v.allocator.ReleaseTexture(v.normalID)
}
