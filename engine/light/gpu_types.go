package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the maximum number of point lights that can be marshaled into
// the GPU storage buffer per frame. The CPU-side light list is unbounded; this
// cap controls only how many lights the GPU evaluates.
const MaxGPULights = 256

// GPULightHeaderSize is the byte size of the header prepended to the light
// storage buffer.
const GPULightHeaderSize = 16

// GPULightStride is the byte stride of one light record in the storage buffer.
const GPULightStride = 32

// GPULightSource is the canonical WGSL definition of the PointLight struct.
// Matches GPULight layout exactly (32 bytes, WGSL aligned).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of a single point light.
// Matches the WGSL PointLight struct layout exactly (see GPULightSource).
// Size: 32 bytes.
type GPULight struct {
	Position   [3]float32 // offset  0: world-space position
	LightRange float32    // offset 12: attenuation cutoff distance
	Color      [3]float32 // offset 16: RGB color
	Intensity  float32    // offset 28: scalar multiplier
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, GPULightStride)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.LightRange))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	return buf
}

// GPULightHeaderSource is the canonical WGSL definition of the LightHeader struct.
// Matches GPULightHeader layout exactly (16 bytes, WGSL aligned).
//
//go:embed assets/light_header.wgsl
var GPULightHeaderSource string

// GPULightHeader is the header prepended to the light storage buffer.
// Contains the ambient color and the active light count.
// Matches the WGSL LightHeader struct layout exactly (see GPULightHeaderSource).
// Size: 16 bytes (vec3 + u32, WGSL aligned).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: scene ambient RGB
	LightCount   uint32     // offset 12: number of active lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, GPULightHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(h.AmbientColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(h.AmbientColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(h.AmbientColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// LightBufferOffset returns the byte offset of the light record at the given
// index within the light storage buffer, accounting for the header.
//
// Parameters:
//   - index: the light record index
//
// Returns:
//   - uint64: the byte offset of the record
func LightBufferOffset(index int) uint64 {
	return uint64(GPULightHeaderSize + index*GPULightStride)
}

// ToGPULight converts a PointLight interface value into the GPU-aligned GPULight
// struct suitable for writing into the light storage buffer.
//
// Parameters:
//   - l: the PointLight to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l PointLight) GPULight {
	return GPULight{
		Position:   l.Position(),
		LightRange: l.Range(),
		Color:      l.Color(),
		Intensity:  l.Intensity(),
	}
}

// MarshalLightBuffer marshals a slice of enabled lights into a byte buffer
// suitable for GPU upload. The buffer layout is:
//
//	[GPULightHeader (16 bytes)] [GPULight × count (32 bytes each)]
//
// Only enabled lights are included, up to MaxGPULights. Lights beyond the
// budget are silently dropped.
//
// Parameters:
//   - lights: the full slice of lights to marshal (only enabled lights are included)
//   - ambient: the scene ambient color as RGB
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []PointLight, ambient [3]float32) []byte {
	enabledCount := 0
	for _, l := range lights {
		if l.Enabled() {
			enabledCount++
			if enabledCount >= MaxGPULights {
				break
			}
		}
	}

	buf := make([]byte, GPULightHeaderSize+enabledCount*GPULightStride)

	header := GPULightHeader{
		AmbientColor: ambient,
		LightCount:   uint32(enabledCount),
	}
	copy(buf[0:GPULightHeaderSize], header.Marshal())

	offset := GPULightHeaderSize
	written := 0
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		if written >= MaxGPULights {
			break
		}
		gpu := ToGPULight(l)
		copy(buf[offset:offset+GPULightStride], gpu.Marshal())
		offset += GPULightStride
		written++
	}

	return buf
}
