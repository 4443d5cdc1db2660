package compute

// MaxImages is the fixed capacity of a kernel's image table. Binding more than
// MaxImages distinct images fails deterministically with ErrImageTableFull.
const MaxImages = 9

// imageBinding is one occupied slot in the image table.
type imageBinding struct {
	argIndex  int
	textureID int
	dims      ImageDims
	access    ImageAccess
	image     ImageObject
}

// imageTable is a bounded array-backed arena of image bindings keyed by kernel
// argument index. Slots are reused on release, lookups and releases are O(capacity)
// over a 9-element array, and no allocation happens after construction.
type imageTable struct {
	slots [MaxImages]imageBinding
	used  [MaxImages]bool
}

// find returns the slot index holding a binding for the given argument index.
//
// Parameters:
//   - argIndex: the kernel argument index to look up
//
// Returns:
//   - int: the slot index, or -1 if no binding exists for the argument
func (t *imageTable) find(argIndex int) int {
	for i := range t.slots {
		if t.used[i] && t.slots[i].argIndex == argIndex {
			return i
		}
	}
	return -1
}

// matches reports whether the binding at the given slot already wraps the same
// texture with the same dims and access. Used to make identical rebinds idempotent.
func (t *imageTable) matches(slot int, textureID int, dims ImageDims, access ImageAccess) bool {
	b := &t.slots[slot]
	return b.textureID == textureID && b.dims == dims && b.access == access
}

// insert stores a new binding in the first free slot.
//
// Parameters:
//   - b: the binding to store
//
// Returns:
//   - error: ErrImageTableFull when every slot is occupied
func (t *imageTable) insert(b imageBinding) error {
	for i := range t.slots {
		if !t.used[i] {
			t.slots[i] = b
			t.used[i] = true
			return nil
		}
	}
	return ErrImageTableFull
}

// release frees the slot at the given index, releasing its wrapped image.
// The underlying texture is owned elsewhere and is not touched.
func (t *imageTable) release(slot int) {
	if slot < 0 || slot >= MaxImages || !t.used[slot] {
		return
	}
	if t.slots[slot].image != nil {
		t.slots[slot].image.Release()
	}
	t.slots[slot] = imageBinding{}
	t.used[slot] = false
}

// releaseAll frees every occupied slot.
func (t *imageTable) releaseAll() {
	for i := range t.slots {
		t.release(i)
	}
}

// count returns the number of occupied slots.
func (t *imageTable) count() int {
	n := 0
	for i := range t.used {
		if t.used[i] {
			n++
		}
	}
	return n
}

// bindings returns the occupied bindings ordered by argument index, for staging
// dispatch arguments deterministically.
func (t *imageTable) bindings() []imageBinding {
	out := make([]imageBinding, 0, MaxImages)
	for i := range t.slots {
		if t.used[i] {
			out = append(out, t.slots[i])
		}
	}
	// insertion order is slot order; sort by argument index for stable staging
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].argIndex > out[j].argIndex; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
