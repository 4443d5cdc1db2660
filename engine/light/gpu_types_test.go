package light

import (
	"encoding/binary"
	"math"
	"testing"
)

func f32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}

func TestGPULightMarshalLayout(t *testing.T) {
	g := GPULight{
		Position:   [3]float32{1, 2, 3},
		LightRange: 15,
		Color:      [3]float32{0.5, 0.25, 0.125},
		Intensity:  2,
	}
	buf := g.Marshal()

	if len(buf) != GPULightStride {
		t.Fatalf("Marshal() len = %d, want %d", len(buf), GPULightStride)
	}
	if got := f32At(buf, 0); got != 1 {
		t.Errorf("position.x = %v, want 1", got)
	}
	if got := f32At(buf, 12); got != 15 {
		t.Errorf("light_range = %v, want 15", got)
	}
	if got := f32At(buf, 16); got != 0.5 {
		t.Errorf("color.r = %v, want 0.5", got)
	}
	if got := f32At(buf, 28); got != 2 {
		t.Errorf("intensity = %v, want 2", got)
	}
	if g.Size() != GPULightStride {
		t.Errorf("Size() = %d, want %d", g.Size(), GPULightStride)
	}
}

func TestLightBufferOffset(t *testing.T) {
	if got := LightBufferOffset(0); got != GPULightHeaderSize {
		t.Errorf("LightBufferOffset(0) = %d, want %d", got, GPULightHeaderSize)
	}
	if got := LightBufferOffset(3); got != GPULightHeaderSize+3*GPULightStride {
		t.Errorf("LightBufferOffset(3) = %d, want %d", got, GPULightHeaderSize+3*GPULightStride)
	}
}

func TestMarshalLightBufferSkipsDisabled(t *testing.T) {
	lights := []PointLight{
		NewPointLight(WithPosition(1, 0, 0), WithIndex(0)),
		NewPointLight(WithPosition(2, 0, 0), WithEnabled(false)),
		NewPointLight(WithPosition(3, 0, 0), WithIndex(1)),
	}
	buf := MarshalLightBuffer(lights, [3]float32{0.1, 0.1, 0.1})

	if len(buf) != GPULightHeaderSize+2*GPULightStride {
		t.Fatalf("buffer len = %d, want %d", len(buf), GPULightHeaderSize+2*GPULightStride)
	}
	if count := binary.LittleEndian.Uint32(buf[12:16]); count != 2 {
		t.Errorf("light_count = %d, want 2", count)
	}
	// the disabled light's record is omitted entirely, not zeroed
	if got := f32At(buf, GPULightHeaderSize); got != 1 {
		t.Errorf("first record position.x = %v, want 1", got)
	}
	if got := f32At(buf, GPULightHeaderSize+GPULightStride); got != 3 {
		t.Errorf("second record position.x = %v, want 3", got)
	}
}

func TestNewPointLightDefaults(t *testing.T) {
	l := NewPointLight()
	if !l.Enabled() {
		t.Error("new light not enabled by default")
	}
	if l.Intensity() != 1 {
		t.Errorf("Intensity() = %v, want 1", l.Intensity())
	}
	if l.Range() != 10 {
		t.Errorf("Range() = %v, want 10", l.Range())
	}
	if l.Color() != [3]float32{1, 1, 1} {
		t.Errorf("Color() = %v, want white", l.Color())
	}
}
