package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUGIParamsSource is the canonical WGSL definition of the GIParams struct.
// Matches GPUGIParams layout exactly (16 bytes, std430 aligned). Fragment
// shaders that sample the voxel grids prepend this to their source so the
// uniform layout stays in one place.
//
//go:embed assets/gi_params.wgsl
var GPUGIParamsSource string

// GPUGIParams is the GPU-aligned uniform controlling cone-traced lighting in
// fragment shaders. Matches the WGSL GIParams struct layout exactly (see
// GPUGIParamsSource).
// Size: 16 bytes (std430 aligned).
type GPUGIParams struct {
	GIStrength       float32 // offset 0: scale applied to the indirect lighting term (4 bytes)
	VoxelSize        float32 // offset 4: world-space edge length of one voxel (4 bytes)
	ConeCount        uint32  // offset 8: number of cones traced per fragment (4 bytes)
	MaxTraceDistance float32 // offset 12: world-space cutoff for cone marching (4 bytes)
}

// Size returns the size of the GPUGIParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUGIParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUGIParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUGIParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.GIStrength))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.VoxelSize))
	binary.LittleEndian.PutUint32(buf[8:12], g.ConeCount)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.MaxTraceDistance))
	return buf
}
