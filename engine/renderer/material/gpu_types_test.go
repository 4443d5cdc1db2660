package material

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

func TestGPUGIParamsMarshalLayout(t *testing.T) {
	p := GPUGIParams{
		GIStrength:       1.5,
		VoxelSize:        0.25,
		ConeCount:        6,
		MaxTraceDistance: 40,
	}

	buf := p.Marshal()
	if len(buf) != 16 {
		t.Fatalf("len = %d, want 16", len(buf))
	}
	if p.Size() != 16 {
		t.Errorf("Size() = %d, want 16", p.Size())
	}

	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])); got != 1.5 {
		t.Errorf("gi_strength at offset 0 = %v, want 1.5", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])); got != 0.25 {
		t.Errorf("voxel_size at offset 4 = %v, want 0.25", got)
	}
	if got := binary.LittleEndian.Uint32(buf[8:12]); got != 6 {
		t.Errorf("cone_count at offset 8 = %d, want 6", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])); got != 40 {
		t.Errorf("max_trace_distance at offset 12 = %v, want 40", got)
	}
}

func TestGPUGIParamsSourceDeclaresStruct(t *testing.T) {
	for _, field := range []string{"struct GIParams", "gi_strength", "voxel_size", "cone_count", "max_trace_distance"} {
		if !strings.Contains(GPUGIParamsSource, field) {
			t.Errorf("embedded source missing %q", field)
		}
	}
}
