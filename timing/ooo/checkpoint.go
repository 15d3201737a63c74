package ooo

// Checkpoint is the branch-speculation slot allocator: at most
// SpeculateDepth in-flight branches may be unresolved at once, each
// holding one bit of a SpeculateMask. Allocating slot k stamps every
// younger instruction's DependOn with bit k, so a later misprediction or
// resolution at k can select (Rewind) or drop (Free) exactly the
// instructions that were speculated past it.
type Checkpoint struct {
	depth int
	used  SpeculateMask // bit k set: slot k is currently allocated

	numNew, numFree, numRewind int
	maxNew, maxFree, maxRewind int
}

// NewCheckpoint allocates a Checkpoint with room for depth in-flight
// branches.
func NewCheckpoint(depth int, maxNew, maxFree, maxRewind int) *Checkpoint {
	return &Checkpoint{
		depth:     depth,
		maxNew:    maxNew,
		maxFree:   maxFree,
		maxRewind: maxRewind,
	}
}

// BeginCycle resets the per-cycle port-usage counters.
func (c *Checkpoint) BeginCycle() {
	c.numNew, c.numFree, c.numRewind = 0, 0, 0
}

// HasFree reports whether at least one checkpoint slot is free.
func (c *Checkpoint) HasFree() bool {
	return PopCount(uint64(c.used)) < c.depth
}

// NextFree returns the index of a free slot. Callers must check HasFree
// first; calling with no free slot is a fault.
func (c *Checkpoint) NextFree() int {
	for k := 0; k < c.depth; k++ {
		if !c.used.Set(k) {
			return k
		}
	}
	assertf("Checkpoint", "NextFree", false, "no free checkpoint slot (depth %d)", c.depth)
	return -1
}

// New allocates slot k (k must come from NextFree on a cycle where
// HasFree held).
func (c *Checkpoint) New(k int) {
	c.numNew++
	assertf("Checkpoint", "New", c.maxNew == 0 || c.numNew <= c.maxNew,
		"allocation port limit %d exceeded", c.maxNew)
	assertf("Checkpoint", "New", !c.used.Set(k), "slot %d already allocated", k)

	c.used = c.used.WithBit(k)
}

// Free releases every slot named in mask — called when a branch resolves
// correctly-predicted, or (together with Rewind) when it resolves
// mispredicted.
func (c *Checkpoint) Free(mask SpeculateMask) {
	c.numFree++
	assertf("Checkpoint", "Free", c.maxFree == 0 || c.numFree <= c.maxFree,
		"free port limit %d exceeded", c.maxFree)

	c.used &^= mask
}

// Rewind is a query: it reports which slots mask names that are still
// allocated, for the caller to then squash and Free. Checkpoint itself
// holds no rewindable state beyond `used` — the snapshot data lives in
// RMap and the Active List.
func (c *Checkpoint) Rewind(mask SpeculateMask) SpeculateMask {
	c.numRewind++
	assertf("Checkpoint", "Rewind", c.maxRewind == 0 || c.numRewind <= c.maxRewind,
		"rewind port limit %d exceeded", c.maxRewind)

	return c.used & mask
}

// Ground asserts that mask names at most one checkpoint slot.
// queryExecute calls it on the cycle's rewind and free masks, so at most
// one branch resolves each way per cycle. Mirrors the reference
// implementation's "ground" bit-count check in magic.h.
func (c *Checkpoint) Ground(mask SpeculateMask) {
	assertf("Checkpoint", "Ground", mask == 0 || IsSetOnce(mask),
		"mask %#x names more than one checkpoint slot", mask)
}

// Reset releases every slot.
func (c *Checkpoint) Reset() {
	c.BeginCycle()
	c.used = 0
}
