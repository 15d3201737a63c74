package ooo

import "github.com/sarchlab/r10ksim/arch"

// regFilePortLimits bounds how many reads and writes RegFile tolerates in
// a single cycle, mirroring the reference implementation's
// MAX_REGFILE_READ / MAX_REGFILE_WRITE port-usage counters.
type regFilePortLimits struct {
	maxRead  int
	maxWrite int
}

// RegFile is an indexed store of DataValue, one entry per physical
// register (physical-file mode) or per ROB slot plus the architectural
// file (ROB-rename mode — see Datapath for how the two uses differ).
// Index 0 always reads as zero; writes to index 0 are ignored.
type RegFile struct {
	limits regFilePortLimits
	values []arch.DataValue

	numRead, numWrite int
}

// NewRegFile allocates a RegFile with size entries (size 0 always reads
// zero) and the given per-cycle port limits.
func NewRegFile(size, maxRead, maxWrite int) *RegFile {
	r := &RegFile{
		limits: regFilePortLimits{maxRead: maxRead, maxWrite: maxWrite},
		values: make([]arch.DataValue, size),
	}
	r.Reset()
	return r
}

// Reset reinitializes every register i to hold value i, matching the
// reference implementation's rReset (used by the testable-property
// scenarios, which assume RF[i]=i for i<32 initially).
func (r *RegFile) Reset() {
	r.BeginCycle()
	for i := range r.values {
		r.values[i] = arch.DataValue(i)
	}
}

// BeginCycle resets the per-cycle port-usage counters. Grounded on the
// reference implementation's simTick().
func (r *RegFile) BeginCycle() {
	r.numRead = 0
	r.numWrite = 0
}

// Read returns the value at physical index idx. Index 0 always reads 0.
func (r *RegFile) Read(idx int) arch.DataValue {
	r.numRead++
	assertf("RegFile", "Read", r.numRead <= r.limits.maxRead || r.limits.maxRead == 0,
		"read port limit %d exceeded", r.limits.maxRead)

	if idx == 0 {
		return 0
	}
	assertf("RegFile", "Read", idx >= 0 && idx < len(r.values), "index %d out of range", idx)
	return r.values[idx]
}

// Write stores value at physical index idx. Writes to index 0 are
// discarded.
func (r *RegFile) Write(idx int, value arch.DataValue) {
	r.numWrite++
	assertf("RegFile", "Write", r.numWrite <= r.limits.maxWrite || r.limits.maxWrite == 0,
		"write port limit %d exceeded", r.limits.maxWrite)

	if idx == 0 {
		return
	}
	assertf("RegFile", "Write", idx >= 0 && idx < len(r.values), "index %d out of range", idx)
	r.values[idx] = value
}

// Peek reads the value at physical index idx without charging a read
// port. Unlike Read, this is not a modeled pipeline action — it exists
// for drivers and tests to observe committed architectural state
// between cycles, mirroring ActiveList.Occupancy's "structural
// introspection, not a modeled port" carve-out.
func (r *RegFile) Peek(idx int) arch.DataValue {
	if idx == 0 {
		return 0
	}
	assertf("RegFile", "Peek", idx >= 0 && idx < len(r.values), "index %d out of range", idx)
	return r.values[idx]
}

// TagToIndex converts a RenameTag to a RegFile index. Both tag kinds
// already carry a resolved RegFile index (see RenameTag's doc comment) —
// this is a thin, named conversion kept at the RegFile boundary so
// callers never index a RegFile with a raw int.
func TagToIndex(t RenameTag) int {
	return t.Idx
}
