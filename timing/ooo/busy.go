package ooo

// BusyTable holds one bit per register-file index: true means "a result
// for this register has been dispatched but not yet produced". Index 0
// (L0 / ZeroTag) never becomes busy.
type BusyTable struct {
	bits []bool

	maxRead, maxWrite, maxClear int
	numRead, numWrite, numClear int
}

// NewBusyTable allocates a BusyTable with size entries.
func NewBusyTable(size, maxRead, maxWrite, maxClear int) *BusyTable {
	b := &BusyTable{
		bits:     make([]bool, size),
		maxRead:  maxRead,
		maxWrite: maxWrite,
		maxClear: maxClear,
	}
	return b
}

// BeginCycle resets the per-cycle port-usage counters.
func (b *BusyTable) BeginCycle() {
	b.numRead, b.numWrite, b.numClear = 0, 0, 0
}

// IsBusy reports whether physical/ROB index idx is marked busy.
func (b *BusyTable) IsBusy(idx int) bool {
	b.numRead++
	assertf("BusyTable", "IsBusy", b.maxRead == 0 || b.numRead <= b.maxRead,
		"read port limit %d exceeded", b.maxRead)

	if idx == 0 {
		return false
	}
	return b.bits[idx]
}

// SetBusy marks idx busy (Stage 2, on allocating a new destination tag).
func (b *BusyTable) SetBusy(idx int) {
	b.numWrite++
	assertf("BusyTable", "SetBusy", b.maxWrite == 0 || b.numWrite <= b.maxWrite,
		"write port limit %d exceeded", b.maxWrite)

	if idx == 0 {
		return
	}
	b.bits[idx] = true
}

// ClearBusy clears idx (Stage 4, on issue — the result is now guaranteed
// to be produced by the time any dependent consumer executes).
func (b *BusyTable) ClearBusy(idx int) {
	b.numClear++
	assertf("BusyTable", "ClearBusy", b.maxClear == 0 || b.numClear <= b.maxClear,
		"clear port limit %d exceeded", b.maxClear)

	if idx == 0 {
		return
	}
	b.bits[idx] = false
}

// Reset clears every bit.
func (b *BusyTable) Reset() {
	b.BeginCycle()
	for i := range b.bits {
		b.bits[i] = false
	}
}
