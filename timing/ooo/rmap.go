package ooo

import "github.com/sarchlab/r10ksim/arch"

// RMap is the logical-to-tag rename map table, with a snapshot stack used
// to restore the map on branch misprediction rewind. L0 is conceptually
// fixed to ZeroTag: GetMap special-cases it and SetMap/unmap ignore it.
type RMap struct {
	robRename bool

	array []RenameTag                  // array[l] = current mapping of logical register l
	stack map[int][]RenameTag          // stack[k] = snapshot of array at checkpoint k

	numRead, numWrite, numCheckpoint, numUnmap int
	maxRead, maxWrite, maxCheckpoint, maxUnmap int
}

// NewRMap builds an RMap for numLogicalReg registers.
func NewRMap(robRename bool, numLogicalReg int, maxRead, maxWrite, maxCheckpoint, maxUnmap int) *RMap {
	r := &RMap{
		robRename:     robRename,
		array:         make([]RenameTag, numLogicalReg),
		stack:         make(map[int][]RenameTag),
		maxRead:       maxRead,
		maxWrite:      maxWrite,
		maxCheckpoint: maxCheckpoint,
		maxUnmap:      maxUnmap,
	}
	r.Reset()
	return r
}

// BeginCycle resets the per-cycle port-usage counters.
func (r *RMap) BeginCycle() {
	r.numRead, r.numWrite, r.numCheckpoint, r.numUnmap = 0, 0, 0, 0
}

// Reset maps every logical register to itself via an Architectural tag.
// This is correct in both modes: ROB mode starts fully unmapped (the
// steady state an instruction returns to once retired), and physical
// mode starts with every logical register pointing at RegFile index i,
// which is exactly what ArchTag(i) resolves to.
func (r *RMap) Reset() {
	r.BeginCycle()
	for i := range r.array {
		r.array[i] = ArchTag(arch.LogicalRegName(i))
	}
}

// GetMap looks up the current mapping of logical register l.
func (r *RMap) GetMap(l arch.LogicalRegName) RenameTag {
	r.numRead++
	assertf("RMap", "GetMap", r.maxRead == 0 || r.numRead <= r.maxRead,
		"read port limit %d exceeded", r.maxRead)

	if l == arch.R0 {
		return ZeroTag
	}
	return r.array[l]
}

// PeekMap looks up the current mapping of logical register l without
// charging a read port — structural introspection for drivers and tests
// observing committed architectural state, not a modeled pipeline query.
func (r *RMap) PeekMap(l arch.LogicalRegName) RenameTag {
	if l == arch.R0 {
		return ZeroTag
	}
	return r.array[l]
}

// SetMap installs a new mapping for logical register l. Mapping L0 is a
// no-op.
func (r *RMap) SetMap(l arch.LogicalRegName, tag RenameTag) {
	r.numWrite++
	assertf("RMap", "SetMap", r.maxWrite == 0 || r.numWrite <= r.maxWrite,
		"write port limit %d exceeded", r.maxWrite)

	if l == arch.R0 {
		return
	}
	r.array[l] = tag
}

// Checkpoint snapshots the current map under slot k.
func (r *RMap) Checkpoint(k int) {
	r.numCheckpoint++
	assertf("RMap", "Checkpoint", r.maxCheckpoint == 0 || r.numCheckpoint <= r.maxCheckpoint,
		"checkpoint port limit %d exceeded", r.maxCheckpoint)

	snap := make([]RenameTag, len(r.array))
	copy(snap, r.array)
	r.stack[k] = snap
}

// Rewind restores the map from the snapshot taken at slot k.
func (r *RMap) Rewind(k int) {
	snap, ok := r.stack[k]
	assertf("RMap", "Rewind", ok, "no snapshot recorded for checkpoint slot %d", k)
	copy(r.array, snap)
}

// UnmapOnRetire implements the ROB-rename retirement-time unmap: if the
// current mapping of l still equals old, it is cleared back to
// Architectural (meaning "read from the architectural file"). The clear
// must also reach every snapshot in the stack — a snapshot taken before
// this retirement can still reference the tag being retired, and it would
// otherwise dangle after the ROB slot is reused.
func (r *RMap) UnmapOnRetire(l arch.LogicalRegName, old RenameTag) {
	r.numUnmap++
	assertf("RMap", "UnmapOnRetire", r.maxUnmap == 0 || r.numUnmap <= r.maxUnmap,
		"unmap port limit %d exceeded", r.maxUnmap)

	if l == arch.R0 {
		return
	}
	assertf("RMap", "UnmapOnRetire", !r.robRename || r.array[l].Kind == Speculative,
		"unmapping a register that is already architectural")

	if TagEqual(r.array[l], old) {
		r.array[l] = ArchTag(l)
	}
	for k, snap := range r.stack {
		if TagEqual(snap[l], old) {
			snap[l] = ArchTag(l)
		}
		r.stack[k] = snap
	}
}

// UnmapBundle restores map[rds[i]] = tdOlds[i] for i in [0, len), applied
// in the order given by the caller. Physical-rename mode only: the
// per-bundle step of serial exception unwind, consuming the Active
// List's log of the last decode bundle's prior mappings, youngest entry
// first (the caller is responsible for ordering rds/tdOlds youngest-first).
func (r *RMap) UnmapBundle(rds []arch.LogicalRegName, tdOlds []RenameTag) {
	for i := range rds {
		r.SetMap(rds[i], tdOlds[i])
	}
}

// GetMapBundle renames up to len(inst) instructions from a fetch bundle in
// one cycle, with intra-bundle dependency forwarding: ts1/ts2 for
// position i are overridden by the destination tag of the youngest prior
// position j<i whose rd matches. TdOld[i] captures the prior mapping of
// rd[i] (with the same intra-bundle override), used only in
// physical-rename mode to restore the map on exception unwind. When
// rd[i]==L0 in physical mode, TdOld[i] is still set to the freshly
// allocated (but never mapped) free tag for that slot, so the free-list
// accounting at retirement stays uniform — see DESIGN.md.
func (r *RMap) GetMapBundle(inst []arch.Instruction, free []RenameTag) RMapBundle {
	n := len(inst)
	bundle := RMapBundle{
		Howmany: n,
		Op:      make([]Operation, n),
		TdOld:   make([]RenameTag, n),
	}

	td := make([]RenameTag, n)
	for i := 0; i < n; i++ {
		if inst[i].Rd != arch.R0 {
			td[i] = free[i]
		} else {
			td[i] = ZeroTag
		}
		bundle.Op[i].Td = td[i]
	}

	for i := 0; i < n; i++ {
		bundle.Op[i].Ts1 = r.GetMap(inst[i].Rs1)
		for j := i - 1; j >= 0; j-- {
			if inst[i].Rs1 != arch.R0 && inst[i].Rs1 == inst[j].Rd {
				bundle.Op[i].Ts1 = td[j]
				break
			}
		}

		bundle.Op[i].Ts2 = r.GetMap(inst[i].Rs2)
		for j := i - 1; j >= 0; j-- {
			if inst[i].Rs2 != arch.R0 && inst[i].Rs2 == inst[j].Rd {
				bundle.Op[i].Ts2 = td[j]
				break
			}
		}

		if r.robRename {
			continue
		}

		if inst[i].Rd != arch.R0 {
			bundle.TdOld[i] = r.GetMap(inst[i].Rd)
			for j := i - 1; j >= 0; j-- {
				if inst[i].Rd != arch.R0 && inst[i].Rd == inst[j].Rd {
					bundle.TdOld[i] = td[j]
					break
				}
			}
		} else {
			bundle.TdOld[i] = free[i]
		}
	}

	return bundle
}

// SetMapBundle installs map[rd[i]] = free[i] for every i with rd[i]!=L0.
func (r *RMap) SetMapBundle(inst []arch.Instruction, free []RenameTag) {
	for i := range inst {
		r.SetMap(inst[i].Rd, free[i])
	}
}
