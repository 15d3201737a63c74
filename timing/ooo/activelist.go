package ooo

import "github.com/sarchlab/r10ksim/arch"

// activeListEntry is one Active List (reorder buffer) slot.
type activeListEntry struct {
	pcLike    uint64
	completed bool
	exception bool
	rd        arch.LogicalRegName
	cookie    Cookie

	// physical-rename mode only.
	tdNew RenameTag // this slot's current free-list entry
	tdOld RenameTag // prior mapping of rd, needed to unwind on exception

	// DRIS checker bookkeeping, populated only when drisChecker is set.
	drisRs1, drisRs2         arch.LogicalRegName
	drisTd, drisTs1, drisTs2 RenameTag
	drisIssued               bool
	drisTs1Rdy, drisTs2Rdy   bool
}

// ActiveListLimits bounds how many times each ActiveList entry point may
// be exercised in a single cycle.
type ActiveListLimits struct {
	MaxReadPC, MaxReadOld, MaxReadFree, MaxReadStatus int
	MaxAccept, MaxComplete, MaxExcept, MaxRetire      int
}

// ActiveList is the reorder buffer: a circular queue of in-flight
// instructions addressed by a color-bit pointer pair so that "enqPtr ==
// deqPtr" is unambiguous between empty and full. In ROB-rename mode it
// also doubles as the speculative register file's backing slots (slot i
// is the rename tag SpecTag(NumLogicalReg+i)); in
// physical-rename mode it only tracks program order and retirement
// status, with renaming fully owned by RMap/the free list held in
// tdNew.
type ActiveList struct {
	ooDegree       int
	decodeWidth    int
	retireWidth    int
	speculateDepth int
	robRename      bool
	drisChecker    bool

	array []activeListEntry

	enqPtr, deqPtr int
	enqPtrStack    map[int]int // physical mode only: checkpoint slot -> enqPtr snapshot

	numReadPC, numReadOld, numReadFree, numReadStatus int
	numAccept, numComplete, numExcept, numRetire      int
	limits                                            ActiveListLimits
}

// NewActiveList allocates an ActiveList holding up to ooDegree
// in-flight instructions.
func NewActiveList(ooDegree, decodeWidth, retireWidth, speculateDepth int, robRename, drisChecker bool, limits ActiveListLimits) *ActiveList {
	a := &ActiveList{
		ooDegree:       ooDegree,
		decodeWidth:    decodeWidth,
		retireWidth:    retireWidth,
		speculateDepth: speculateDepth,
		robRename:      robRename,
		drisChecker:    drisChecker,
		array:          make([]activeListEntry, ooDegree),
		enqPtrStack:    make(map[int]int),
		limits:         limits,
	}
	a.Reset()
	return a
}

// BeginCycle resets the per-cycle port-usage counters.
func (a *ActiveList) BeginCycle() {
	a.numReadPC, a.numReadOld, a.numReadFree, a.numReadStatus = 0, 0, 0, 0
	a.numAccept, a.numComplete, a.numExcept, a.numRetire = 0, 0, 0, 0
}

// Reset empties the Active List.
func (a *ActiveList) Reset() {
	a.BeginCycle()
	if !a.robRename {
		for i := range a.array {
			a.array[i].tdNew = SpecTag(arch.NumLogicalReg + i)
		}
	}
	a.enqPtr = 0
	a.deqPtr = 0
}

func (a *ActiveList) mod2() int { return 2 * a.ooDegree }

func (a *ActiveList) entry(ptr int) *activeListEntry {
	return &a.array[ptr%a.ooDegree]
}

// sizeActiveList returns the number of slots currently occupied.
func (a *ActiveList) sizeActiveList() int {
	enqColor, enqIdx := a.enqPtr/a.ooDegree, a.enqPtr%a.ooDegree
	deqColor, deqIdx := a.deqPtr/a.ooDegree, a.deqPtr%a.ooDegree

	assertf("ActiveList", "sizeActiveList", enqColor <= 1, "enqPtr color bit out of range")
	assertf("ActiveList", "sizeActiveList", deqColor <= 1, "deqPtr color bit out of range")

	if enqColor == deqColor {
		return enqIdx - deqIdx
	}
	return (enqIdx + a.ooDegree) - deqIdx
}

// isOlder reports whether young's program-order position is strictly
// younger than old's, comparing color bits to resolve wraparound.
func (a *ActiveList) isOlder(young, old int) bool {
	oldColor, oldIdx := old/a.ooDegree, old%a.ooDegree
	youngColor, youngIdx := young/a.ooDegree, young%a.ooDegree

	assertf("ActiveList", "isOlder", oldColor <= 1, "old color bit out of range")
	assertf("ActiveList", "isOlder", youngColor <= 1, "young color bit out of range")

	if oldColor == youngColor {
		return youngIdx > oldIdx
	}
	return youngIdx <= oldIdx
}

// GetPC returns the fetch-order position ("PC-like" serial value) of
// the instruction at Active List index atag.
func (a *ActiveList) GetPC(atag int) uint64 {
	a.numReadPC++
	assertf("ActiveList", "GetPC", a.limits.MaxReadPC == 0 || a.numReadPC <= a.limits.MaxReadPC,
		"PC read port limit %d exceeded", a.limits.MaxReadPC)

	if a.robRename {
		assertf("ActiveList", "GetPC", atag < a.mod2(), "active list index %d out of range", atag)
	} else {
		assertf("ActiveList", "GetPC", atag < a.ooDegree, "active list index %d out of range", atag)
	}

	e := a.entry(atag)
	assertf("ActiveList", "GetPC", e.pcLike == e.cookie.Serial, "pcLike/cookie serial mismatch")
	return e.pcLike
}

// GetExceptionPC returns the PC of the oldest (head) entry, which must
// be completed and excepting.
func (a *ActiveList) GetExceptionPC() uint64 {
	e := a.entry(a.deqPtr)
	assertf("ActiveList", "GetExceptionPC", e.completed, "exception PC query on an incomplete head entry")
	assertf("ActiveList", "GetExceptionPC", e.exception, "exception PC query on a non-excepting head entry")
	return a.GetPC(a.deqPtr % a.ooDegree)
}

// HandleException reports whether the head of the Active List has
// completed with an exception pending retirement.
func (a *ActiveList) HandleException() bool {
	a.numReadStatus++
	assertf("ActiveList", "HandleException", a.limits.MaxReadStatus == 0 || a.numReadStatus <= a.limits.MaxReadStatus,
		"status read port limit %d exceeded", a.limits.MaxReadStatus)

	if a.deqPtr == a.enqPtr {
		return false
	}
	e := a.entry(a.deqPtr)
	return e.completed && e.exception
}

// Unmap reports, youngest-first, the (rd, tdOld) pairs of the last
// decode bundle still sitting at the tail of the Active List —
// physical-rename mode only, used to serially unwind the rename map
// during exception recovery.
func (a *ActiveList) Unmap() UnmapBundle {
	assertf("ActiveList", "Unmap", !a.robRename, "Unmap is physical-rename-mode only")

	a.numReadOld++
	assertf("ActiveList", "Unmap", a.limits.MaxReadOld == 0 || a.numReadOld <= a.limits.MaxReadOld,
		"oldmap read port limit %d exceeded", a.limits.MaxReadOld)
	assertf("ActiveList", "Unmap", a.sizeActiveList() <= a.ooDegree, "active list overflow")

	howmany := min(a.sizeActiveList(), a.decodeWidth)
	bundle := UnmapBundle{
		Howmany: howmany,
		Rd:      make([]arch.LogicalRegName, howmany),
		TdOld:   make([]RenameTag, howmany),
	}

	j := a.enqPtr
	for i := 0; i < howmany; i++ {
		j = (j - 1 + a.mod2()) % a.mod2()
		e := a.entry(j)
		bundle.TdOld[i] = e.tdOld
		bundle.Rd[i] = e.rd
	}
	return bundle
}

// ApplyUnmap retires the unmap of the last howmany entries off the tail
// of the Active List — physical-rename mode only, paired with Unmap.
func (a *ActiveList) ApplyUnmap(howmany int) {
	assertf("ActiveList", "ApplyUnmap", !a.robRename, "ApplyUnmap is physical-rename-mode only")
	assertf("ActiveList", "ApplyUnmap", a.sizeActiveList() <= a.ooDegree, "active list overflow")
	assertf("ActiveList", "ApplyUnmap", a.sizeActiveList() >= howmany, "unmapping more entries than are live")

	a.enqPtr = (a.enqPtr - howmany + a.mod2()) % a.mod2()
}

// GetFreeReg returns up to DecodeWidth freshly allocated destination
// tags, one per open Active List slot, paired with the Active List
// index ("atag") each will occupy.
func (a *ActiveList) GetFreeReg() FreeRegBundle {
	a.numReadFree++
	assertf("ActiveList", "GetFreeReg", a.limits.MaxReadFree == 0 || a.numReadFree <= a.limits.MaxReadFree,
		"free-reg read port limit %d exceeded", a.limits.MaxReadFree)
	assertf("ActiveList", "GetFreeReg", a.sizeActiveList() <= a.ooDegree, "active list overflow")

	remaining := a.ooDegree - a.sizeActiveList()
	howmany := min(remaining, a.decodeWidth)

	bundle := FreeRegBundle{
		Howmany: howmany,
		Free:    make([]RenameTag, howmany),
		ATag:    make([]int, howmany),
	}

	j := a.enqPtr
	for i := 0; i < howmany; i++ {
		if a.robRename {
			bundle.Free[i] = SpecTag(arch.NumLogicalReg + j%a.ooDegree)
			bundle.ATag[i] = j % a.mod2()
		} else {
			bundle.Free[i] = a.entry(j).tdNew
			bundle.ATag[i] = j % a.ooDegree
		}
		j = (j + 1) % a.mod2()
	}
	return bundle
}

// ToRetire reports up to RetireWidth entries eligible to retire this
// cycle: the oldest contiguous completed, non-excepting run at the
// head. It does not mutate state — Retire commits the advance.
func (a *ActiveList) ToRetire() RetireBundle {
	bundle := RetireBundle{
		Td:     make([]RenameTag, a.retireWidth),
		Rd:     make([]arch.LogicalRegName, a.retireWidth),
		Val:    make([]arch.DataValue, a.retireWidth),
		Cookie: make([]Cookie, a.retireWidth),
	}
	if !a.robRename {
		bundle.Ptd = make([]RenameTag, a.retireWidth)
	}

	howmany := 0
	j := a.deqPtr
	for i := 0; i < a.retireWidth; i++ {
		if j == a.enqPtr {
			break
		}
		e := a.entry(j)
		if !e.completed || e.exception {
			break
		}

		bundle.Rd[i] = e.rd
		bundle.Cookie[i] = e.cookie

		if a.robRename {
			if e.rd != arch.R0 {
				bundle.Td[i] = SpecTag(arch.NumLogicalReg + j%a.ooDegree)
			} else {
				bundle.Td[i] = ZeroTag
			}
		} else {
			bundle.Td[i] = e.tdOld
			// e.tdNew still names the physical register this entry's
			// own result was written into at execute — Retire is what
			// overwrites it with the freed tdOld for reuse, so it must
			// be captured here first.
			bundle.Ptd[i] = e.tdNew
		}

		howmany++
		j = (j + 1) % a.mod2()
	}

	bundle.Howmany = howmany
	assertf("ActiveList", "ToRetire", howmany <= a.retireWidth, "retire width exceeded")
	assertf("ActiveList", "ToRetire", a.sizeActiveList() >= howmany, "retiring more entries than are live")
	return bundle
}

// Accept enqueues up to DecodeWidth freshly renamed instructions at the
// tail of the Active List. tdOld is consulted in physical-rename mode
// only; pass nil in ROB mode.
func (a *ActiveList) Accept(howmany int, inst []arch.Instruction, pcLike []uint64, tdOld []RenameTag, renameBndl RMapBundle, cookie []Cookie) {
	a.numAccept++
	assertf("ActiveList", "Accept", a.limits.MaxAccept == 0 || a.numAccept <= a.limits.MaxAccept,
		"accept port limit %d exceeded", a.limits.MaxAccept)
	assertf("ActiveList", "Accept", howmany <= a.ooDegree-a.sizeActiveList(), "active list would overflow")

	j := a.enqPtr
	for i := 0; i < howmany; i++ {
		e := a.entry(j)
		e.completed = false
		e.exception = false
		e.pcLike = pcLike[i]
		e.rd = inst[i].Rd
		if !a.robRename {
			e.tdOld = tdOld[i]
		}
		e.cookie = cookie[i]
		assertf("ActiveList", "Accept", e.pcLike == e.cookie.Serial, "pcLike/cookie serial mismatch")

		if a.drisChecker {
			a.acceptDRIS(j, inst[i], renameBndl.Op[i])
		}

		j = (j + 1) % a.mod2()
	}
	a.enqPtr = j
}

// acceptDRIS populates the DRIS checker bookkeeping for the entry just
// accepted at Active List index j, scanning backward to find each
// operand's producer (if any) among live, older entries.
func (a *ActiveList) acceptDRIS(j int, inst arch.Instruction, op Operation) {
	e := a.entry(j)

	e.drisRs1 = inst.Rs1
	e.drisRs2 = inst.Rs2

	if inst.Rd != arch.R0 {
		e.drisTd = SpecTag(j)
	} else {
		e.drisTd = ZeroTag
	}

	e.drisTs1Rdy = true
	e.drisTs1 = ArchTag(inst.Rs1)
	e.drisTs2Rdy = true
	e.drisTs2 = ArchTag(inst.Rs2)

	if inst.Rs1 != arch.R0 {
		for k := j; k != a.deqPtr; {
			k = (k - 1 + a.mod2()) % a.mod2()
			producer := a.entry(k)
			if inst.Rs1 == producer.rd {
				e.drisTs1 = producer.drisTd
				e.drisTs1Rdy = producer.drisIssued
				break
			}
		}
	}
	if inst.Rs2 != arch.R0 {
		for k := j; k != a.deqPtr; {
			k = (k - 1 + a.mod2()) % a.mod2()
			producer := a.entry(k)
			if inst.Rs2 == producer.rd {
				e.drisTs2 = producer.drisTd
				e.drisTs2Rdy = producer.drisIssued
				break
			}
		}
	}

	assertf("ActiveList", "acceptDRIS", TagEqual(a.drisRegTag(e.drisTd), op.Td), "DRIS td disagrees with rename bundle")
	assertf("ActiveList", "acceptDRIS", TagEqual(a.drisRegTag(e.drisTs1), op.Ts1), "DRIS ts1 disagrees with rename bundle")
	assertf("ActiveList", "acceptDRIS", TagEqual(a.drisRegTag(e.drisTs2), op.Ts2), "DRIS ts2 disagrees with rename bundle")

	e.drisIssued = false
}

// drisRegTag converts a DRIS tag, whose Speculative Idx is the producer's
// Active List pointer, into the RegFile-index encoding rename bundles use.
func (a *ActiveList) drisRegTag(t RenameTag) RenameTag {
	if t.Kind != Speculative {
		return t
	}
	if a.robRename {
		return SpecTag(arch.NumLogicalReg + t.Idx%a.ooDegree)
	}
	return a.entry(t.Idx).tdNew
}

// CheckIssue is the DRIS checker's issue-time cross-check: it verifies
// the Instruction Queue's view of an operand's producer agrees with the
// Active List's own backward scan, then wakes any younger entries
// waiting on this entry's destination.
func (a *ActiveList) CheckIssue(atag int, op Operation) {
	assertf("ActiveList", "CheckIssue", a.drisChecker, "CheckIssue requires the DRIS checker to be enabled")
	assertf("ActiveList", "CheckIssue", a.isOlder(a.enqPtr, atag), "atag is not live")
	assertf("ActiveList", "CheckIssue", !a.isOlder(a.deqPtr, atag), "atag is not live")

	e := a.entry(atag)

	if a.isOlder(a.deqPtr, e.drisTs1.Idx) {
		assertf("ActiveList", "CheckIssue", TagEqual(op.Ts1, ArchTag(e.drisRs1)), "ts1 should read the architectural file")
	} else {
		assertf("ActiveList", "CheckIssue", TagEqual(op.Ts1, a.drisRegTag(e.drisTs1)), "ts1 disagrees with DRIS producer")
	}
	if a.isOlder(a.deqPtr, e.drisTs2.Idx) {
		assertf("ActiveList", "CheckIssue", TagEqual(op.Ts2, ArchTag(e.drisRs2)), "ts2 should read the architectural file")
	} else {
		assertf("ActiveList", "CheckIssue", TagEqual(op.Ts2, a.drisRegTag(e.drisTs2)), "ts2 disagrees with DRIS producer")
	}
	assertf("ActiveList", "CheckIssue", e.drisTs1Rdy, "issuing before ts1 is ready")
	assertf("ActiveList", "CheckIssue", e.drisTs2Rdy, "issuing before ts2 is ready")

	for k := a.enqPtr; k != a.deqPtr; {
		k = (k - 1 + a.mod2()) % a.mod2()
		consumer := a.entry(k)
		if e.rd != arch.R0 && TagEqual(e.drisTd, consumer.drisTs1) {
			assertf("ActiveList", "CheckIssue", !consumer.drisTs1Rdy, "waking an already-ready consumer")
			consumer.drisTs1Rdy = true
		}
	}
	for k := a.enqPtr; k != a.deqPtr; {
		k = (k - 1 + a.mod2()) % a.mod2()
		consumer := a.entry(k)
		if e.rd != arch.R0 && TagEqual(e.drisTd, consumer.drisTs2) {
			assertf("ActiveList", "CheckIssue", !consumer.drisTs2Rdy, "waking an already-ready consumer")
			consumer.drisTs2Rdy = true
		}
	}

	assertf("ActiveList", "CheckIssue", !e.drisIssued, "issuing an already-issued entry")
	e.drisIssued = true
}

// Checkpoint snapshots the enqueue pointer under slot which —
// physical-rename mode only, paired with RMap.Checkpoint.
func (a *ActiveList) Checkpoint(which int) {
	assertf("ActiveList", "Checkpoint", !a.robRename, "Checkpoint is physical-rename-mode only")
	assertf("ActiveList", "Checkpoint", which < a.speculateDepth, "checkpoint slot %d out of range", which)

	a.enqPtrStack[which] = a.enqPtr
}

// Complete marks the entry at Active List index atag as having
// produced its result.
func (a *ActiveList) Complete(atag int) {
	a.numComplete++
	assertf("ActiveList", "Complete", a.limits.MaxComplete == 0 || a.numComplete <= a.limits.MaxComplete,
		"complete port limit %d exceeded", a.limits.MaxComplete)

	e := a.entry(atag)
	assertf("ActiveList", "Complete", !e.completed, "completing an already-completed entry")
	e.completed = true

	if a.drisChecker {
		assertf("ActiveList", "Complete", e.drisIssued, "completing an entry that was never issued")
	}
}

// Exception marks the entry at Active List index atag as having raised
// an exception.
func (a *ActiveList) Exception(atag int) {
	a.numExcept++
	assertf("ActiveList", "Exception", a.limits.MaxExcept == 0 || a.numExcept <= a.limits.MaxExcept,
		"exception port limit %d exceeded", a.limits.MaxExcept)

	e := a.entry(atag)
	assertf("ActiveList", "Exception", !e.exception, "raising an already-excepting entry")
	e.exception = true
}

// Retire commits the advance of the dequeue pointer past bundle's
// entries, recording each slot's new free-list tag in physical-rename
// mode (the tag that retirement just freed for a later GetFreeReg).
func (a *ActiveList) Retire(bundle RetireBundle) {
	a.numRetire++
	assertf("ActiveList", "Retire", a.limits.MaxRetire == 0 || a.numRetire <= a.limits.MaxRetire,
		"retire port limit %d exceeded", a.limits.MaxRetire)
	assertf("ActiveList", "Retire", bundle.Howmany <= a.retireWidth, "retire width exceeded")
	assertf("ActiveList", "Retire", a.sizeActiveList() >= bundle.Howmany, "retiring more entries than are live")

	j := a.deqPtr
	for i := 0; i < bundle.Howmany; i++ {
		assertf("ActiveList", "Retire", j != a.enqPtr, "retiring past the enqueue pointer")
		e := a.entry(j)
		assertf("ActiveList", "Retire", e.completed && !e.exception, "retiring an entry that is not cleanly completed")

		if !a.robRename {
			e.tdNew = bundle.Td[i]
		}

		j = (j + 1) % a.mod2()
	}
	a.deqPtr = j
}

// RewindToActiveListIdx truncates the Active List to just past atag —
// ROB-rename mode only, used on branch misprediction.
func (a *ActiveList) RewindToActiveListIdx(atag int) {
	assertf("ActiveList", "RewindToActiveListIdx", a.robRename, "RewindToActiveListIdx is ROB-rename-mode only")
	assertf("ActiveList", "RewindToActiveListIdx", atag < a.mod2(), "active list index %d out of range", atag)

	a.enqPtr = (atag + 1) % a.mod2()
}

// RewindToCheckpoint restores the enqueue pointer from the snapshot
// taken at slot which — physical-rename mode only, used on branch
// misprediction.
func (a *ActiveList) RewindToCheckpoint(which int) {
	assertf("ActiveList", "RewindToCheckpoint", !a.robRename, "RewindToCheckpoint is physical-rename-mode only")

	snap, ok := a.enqPtrStack[which]
	assertf("ActiveList", "RewindToCheckpoint", ok, "no snapshot recorded for checkpoint slot %d", which)
	a.enqPtr = snap
}

// Occupancy reports how many entries are currently live. Unlike the
// read/accept/retire methods above this is not a modeled port — it is a
// structural introspection the datapath orchestrator uses to decide how
// many more cycles a serial exception unwind needs, mirroring the several
// unguarded calls to sizeActiveList() sprinkled through the reference
// datapath's own control logic.
func (a *ActiveList) Occupancy() int {
	return a.sizeActiveList()
}

// RetireExceptionHead removes the excepting head entry without a
// register writeback — physical-rename mode only, the last step of a
// serial exception unwind once every younger entry has already been
// unmapped off the tail via Unmap/ApplyUnmap.
func (a *ActiveList) RetireExceptionHead() {
	assertf("ActiveList", "RetireExceptionHead", !a.robRename, "RetireExceptionHead is physical-rename-mode only")

	e := a.entry(a.deqPtr)
	assertf("ActiveList", "RetireExceptionHead", e.completed && e.exception, "head is not a completed exception")
	assertf("ActiveList", "RetireExceptionHead", a.deqPtr == (a.enqPtr-1+a.mod2())%a.mod2() || a.sizeActiveList() == 1,
		"younger entries remain unwound")

	a.deqPtr = (a.deqPtr + 1) % a.mod2()
}
