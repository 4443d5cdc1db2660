package voxel

// VoxelVolumeOption is a functional option used to configure a VoxelVolume during construction.
type VoxelVolumeOption func(*voxelVolume)

// WithResolution sets the cubic grid resolution in voxels per axis.
//
// Parameters:
//   - resolution: voxels per axis (values below 1 are clamped to 1)
//
// Returns:
//   - VoxelVolumeOption: a function that sets the resolution for the volume
func WithResolution(resolution uint32) VoxelVolumeOption {
	return func(v *voxelVolume) {
		if resolution < 1 {
			resolution = 1
		}
		v.resolution = resolution
	}
}
