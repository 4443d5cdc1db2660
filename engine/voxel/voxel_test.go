package voxel

import (
	"errors"
	"testing"
)

// mockAllocator hands out sequential handles and records releases.
type mockAllocator struct {
	nextID   int
	failAt   int // fail the nth allocation (1-based), 0 disables
	created  []string
	released []int
}

func newMockAllocator() *mockAllocator {
	return &mockAllocator{nextID: 1}
}

func (m *mockAllocator) CreateTexture3D(label string, width, height, depth uint32) (int, error) {
	if m.failAt > 0 && len(m.created)+1 == m.failAt {
		return 0, errors.New("out of device memory")
	}
	m.created = append(m.created, label)
	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *mockAllocator) ReleaseTexture(id int) {
	m.released = append(m.released, id)
}

func TestNewVoxelVolumeDefaults(t *testing.T) {
	alloc := newMockAllocator()
	v, err := NewVoxelVolume(alloc)
	if err != nil {
		t.Fatalf("NewVoxelVolume() error = %v", err)
	}

	if got := v.Resolution(); got != 64 {
		t.Errorf("Resolution() = %d, want 64", got)
	}
	if len(alloc.created) != 2 {
		t.Fatalf("allocations = %d, want 2 (albedo + normal)", len(alloc.created))
	}
	if v.AlbedoTextureID() == v.NormalTextureID() {
		t.Error("albedo and normal grids share a handle")
	}
	if dims := v.Dims(); dims.Width != 64 || dims.Height != 64 || dims.Depth != 64 {
		t.Errorf("Dims() = %+v, want 64x64x64", dims)
	}
	if !v.Dims().Is3D() {
		t.Error("Dims().Is3D() = false, want true")
	}
	if ws := v.GridWorkSize(); ws != [3]uint32{64, 64, 64} {
		t.Errorf("GridWorkSize() = %v, want [64 64 64]", ws)
	}
}

func TestNewVoxelVolumeCustomResolution(t *testing.T) {
	alloc := newMockAllocator()
	v, err := NewVoxelVolume(alloc, WithResolution(128))
	if err != nil {
		t.Fatalf("NewVoxelVolume() error = %v", err)
	}
	if got := v.Resolution(); got != 128 {
		t.Errorf("Resolution() = %d, want 128", got)
	}
}

func TestNewVoxelVolumeSecondAllocationFailure(t *testing.T) {
	alloc := newMockAllocator()
	alloc.failAt = 2

	_, err := NewVoxelVolume(alloc)
	if err == nil {
		t.Fatal("NewVoxelVolume() error = nil, want allocation failure")
	}
	// the first grid must not leak when the second allocation fails
	if len(alloc.released) != 1 || alloc.released[0] != 1 {
		t.Errorf("released = %v, want [1]", alloc.released)
	}
}

func TestVoxelVolumeReleaseIsIdempotent(t *testing.T) {
	alloc := newMockAllocator()
	v, err := NewVoxelVolume(alloc)
	if err != nil {
		t.Fatalf("NewVoxelVolume() error = %v", err)
	}

	v.Release()
	v.Release()

	if len(alloc.released) != 2 {
		t.Errorf("released = %v, want exactly both grids once", alloc.released)
	}
}
