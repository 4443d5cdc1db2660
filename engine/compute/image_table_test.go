package compute

import (
	"errors"
	"testing"
)

func testBinding(argIndex, textureID int) imageBinding {
	return imageBinding{
		argIndex:  argIndex,
		textureID: textureID,
		dims:      ImageDims{Width: 8, Height: 8},
		access:    ImageAccessReadOnly,
		image: &mockImage{
			backend:   newMockComputeBackend(),
			textureID: textureID,
		},
	}
}

func TestImageTableInsertAndFind(t *testing.T) {
	var tbl imageTable

	if err := tbl.insert(testBinding(3, 30)); err != nil {
		t.Fatalf("insert error = %v", err)
	}
	if err := tbl.insert(testBinding(1, 10)); err != nil {
		t.Fatalf("insert error = %v", err)
	}

	if got := tbl.count(); got != 2 {
		t.Errorf("count() = %d, want 2", got)
	}
	if slot := tbl.find(3); slot < 0 || tbl.slots[slot].textureID != 30 {
		t.Errorf("find(3) = %d, want slot holding texture 30", slot)
	}
	if slot := tbl.find(7); slot >= 0 {
		t.Errorf("find(7) = %d, want -1", slot)
	}
}

func TestImageTableFull(t *testing.T) {
	var tbl imageTable

	for i := 0; i < MaxImages; i++ {
		if err := tbl.insert(testBinding(i, 100+i)); err != nil {
			t.Fatalf("insert %d error = %v", i, err)
		}
	}
	err := tbl.insert(testBinding(MaxImages, 200))
	if !errors.Is(err, ErrImageTableFull) {
		t.Fatalf("insert at capacity error = %v, want ErrImageTableFull", err)
	}
	if got := tbl.count(); got != MaxImages {
		t.Errorf("count() = %d, want %d", got, MaxImages)
	}
}

func TestImageTableReleaseFreesSlot(t *testing.T) {
	var tbl imageTable

	for i := 0; i < MaxImages; i++ {
		if err := tbl.insert(testBinding(i, 100+i)); err != nil {
			t.Fatalf("insert %d error = %v", i, err)
		}
	}

	slot := tbl.find(4)
	if slot < 0 {
		t.Fatal("find(4) returned no slot")
	}
	img := tbl.slots[slot].image.(*mockImage)
	tbl.release(slot)

	if !img.released {
		t.Error("release(slot) did not release the wrapped image")
	}
	if got := tbl.count(); got != MaxImages-1 {
		t.Errorf("count() = %d, want %d", got, MaxImages-1)
	}
	if err := tbl.insert(testBinding(20, 300)); err != nil {
		t.Errorf("insert into freed slot error = %v", err)
	}
}

func TestImageTableMatches(t *testing.T) {
	var tbl imageTable

	dims := ImageDims{Width: 64, Height: 64, Depth: 64}
	b := testBinding(0, 5)
	b.dims = dims
	b.access = ImageAccessWriteOnly
	if err := tbl.insert(b); err != nil {
		t.Fatalf("insert error = %v", err)
	}
	slot := tbl.find(0)

	if !tbl.matches(slot, 5, dims, ImageAccessWriteOnly) {
		t.Error("matches() = false for identical binding")
	}
	if tbl.matches(slot, 6, dims, ImageAccessWriteOnly) {
		t.Error("matches() = true for different texture")
	}
	if tbl.matches(slot, 5, ImageDims{Width: 32, Height: 32, Depth: 32}, ImageAccessWriteOnly) {
		t.Error("matches() = true for different dims")
	}
	if tbl.matches(slot, 5, dims, ImageAccessReadOnly) {
		t.Error("matches() = true for different access")
	}
}

func TestImageTableBindingsOrderedByIndex(t *testing.T) {
	var tbl imageTable

	for _, idx := range []int{8, 2, 5, 0} {
		if err := tbl.insert(testBinding(idx, 100+idx)); err != nil {
			t.Fatalf("insert %d error = %v", idx, err)
		}
	}

	got := tbl.bindings()
	want := []int{0, 2, 5, 8}
	if len(got) != len(want) {
		t.Fatalf("bindings() len = %d, want %d", len(got), len(want))
	}
	for i, b := range got {
		if b.argIndex != want[i] {
			t.Errorf("bindings()[%d].argIndex = %d, want %d", i, b.argIndex, want[i])
		}
	}
}

func TestImageTableReleaseAll(t *testing.T) {
	var tbl imageTable

	imgs := make([]*mockImage, 0, 3)
	for i := 0; i < 3; i++ {
		b := testBinding(i, 100+i)
		imgs = append(imgs, b.image.(*mockImage))
		if err := tbl.insert(b); err != nil {
			t.Fatalf("insert %d error = %v", i, err)
		}
	}
	tbl.releaseAll()

	if got := tbl.count(); got != 0 {
		t.Errorf("count() = %d, want 0", got)
	}
	for i, img := range imgs {
		if !img.released {
			t.Errorf("image %d not released", i)
		}
	}
}
