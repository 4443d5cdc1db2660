package common

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 9
	}
	Identity(m)

	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if m[i] != want {
			t.Errorf("m[%d] = %v, want %v", i, m[i], want)
		}
	}
}

func TestMul4Identity(t *testing.T) {
	a := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	id := make([]float32, 16)
	Identity(id)

	out := make([]float32, 16)
	Mul4(out, a, id)
	for i := range 16 {
		if out[i] != a[i] {
			t.Fatalf("A*I differs at %d: %v != %v", i, out[i], a[i])
		}
	}

	Mul4(out, id, a)
	for i := range 16 {
		if out[i] != a[i] {
			t.Fatalf("I*A differs at %d: %v != %v", i, out[i], a[i])
		}
	}
}

func TestMul4AliasesOutput(t *testing.T) {
	a := []float32{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	// out aliases a; the internal buffer must make this safe
	Mul4(a, a, a)
	if a[0] != 4 || a[5] != 4 || a[10] != 4 || a[15] != 1 {
		t.Errorf("aliased Mul4 = %v, want scale 4", a[:16])
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 3, -2, 7, 0.3, 1.1, -0.4, 2, 2, 2)

	inv := make([]float32, 16)
	if !Invert4(inv, m) {
		t.Fatal("Invert4() = false for an invertible model matrix")
	}

	out := make([]float32, 16)
	Mul4(out, m, inv)
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if !approxEqual(out[i], want, 1e-4) {
			t.Errorf("M*M^-1 at %d = %v, want %v", i, out[i], want)
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	singular := make([]float32, 16) // all zeros
	out := []float32{
		7, 7, 7, 7,
		7, 7, 7, 7,
		7, 7, 7, 7,
		7, 7, 7, 7,
	}
	if Invert4(out, singular) {
		t.Fatal("Invert4() = true for a singular matrix")
	}
	// output must be untouched on failure
	for i := range 16 {
		if out[i] != 7 {
			t.Fatalf("out[%d] = %v, want unchanged 7", i, out[i])
		}
	}
}

func TestOrthoMapsDepthToWebGPURange(t *testing.T) {
	m := make([]float32, 16)
	Ortho(m, -10, 10, -10, 10, 1, 101)

	// z = -near maps to 0, z = -far maps to 1 (view space looks down -Z)
	nearZ := m[10]*(-1) + m[14]
	farZ := m[10]*(-101) + m[14]
	if !approxEqual(nearZ, 0, 1e-5) {
		t.Errorf("near plane maps to %v, want 0", nearZ)
	}
	if !approxEqual(farZ, 1, 1e-5) {
		t.Errorf("far plane maps to %v, want 1", farZ)
	}

	// x = left maps to -1, x = right maps to +1
	leftX := m[0]*(-10) + m[12]
	rightX := m[0]*10 + m[12]
	if !approxEqual(leftX, -1, 1e-5) || !approxEqual(rightX, 1, 1e-5) {
		t.Errorf("horizontal extents map to %v..%v, want -1..1", leftX, rightX)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	m := make([]float32, 16)
	near, far := float32(0.1), float32(100)
	Perspective(m, float32(math.Pi/2), 16.0/9.0, near, far)

	// after perspective divide, z = -near maps to 0 and z = -far maps to 1
	nearZ := (m[10]*(-near) + m[14]) / near
	farZ := (m[10]*(-far) + m[14]) / far
	if !approxEqual(nearZ, 0, 1e-4) {
		t.Errorf("near plane maps to %v, want 0", nearZ)
	}
	if !approxEqual(farZ, 1, 1e-4) {
		t.Errorf("far plane maps to %v, want 1", farZ)
	}
}

func TestLookAtTransformsTargetToViewAxis(t *testing.T) {
	m := make([]float32, 16)
	LookAt(m, 0, 0, 10, 0, 0, 0, 0, 1, 0)

	// the target point lands on the -Z axis at the eye distance
	x := m[0]*0 + m[4]*0 + m[8]*0 + m[12]
	y := m[1]*0 + m[5]*0 + m[9]*0 + m[13]
	z := m[2]*0 + m[6]*0 + m[10]*0 + m[14]
	if !approxEqual(x, 0, 1e-5) || !approxEqual(y, 0, 1e-5) || !approxEqual(z, -10, 1e-5) {
		t.Errorf("target in view space = (%v, %v, %v), want (0, 0, -10)", x, y, z)
	}
}

func TestSliceToBytes(t *testing.T) {
	data := []float32{1, 2}
	buf := SliceToBytes(data)
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	if buf := SliceToBytes([]float32(nil)); buf != nil {
		t.Error("SliceToBytes(nil) != nil")
	}
}
