package ooo

import (
	"math/rand"

	"github.com/sarchlab/r10ksim/config"
)

// InstQEntry is one Instruction Queue (reservation station) slot.
type InstQEntry struct {
	SlotIdx            int
	Valid              bool
	ATag               int
	Op                 Operation
	Ts1Ready, Ts2Ready bool
	Cookie             Cookie
}

// InstQ is the Instruction Queue: a CAM-addressed pool of waiting
// operations. Readied does a content-addressable scan for any entry
// whose operands are both ready; Release and RetireTag are
// content-addressable writes that wake consumers of a tag as soon as it
// is known to produce a value.
type InstQ struct {
	size   int
	scan   config.InstQScanPolicy
	rand   *rand.Rand
	inUse  int
	cursor int
	array  []InstQEntry

	numReadied, numInsert, numIssue int
	numRelease, numRetire           int
	numSquash, numClear             int

	maxReadied, maxInsert, maxIssue int
	maxRelease, maxRetire           int
	maxSquash, maxClear             int
}

// NewInstQ allocates an InstQ with size slots.
func NewInstQ(size int, scan config.InstQScanPolicy, maxReadied, maxInsert, maxIssue, maxRelease, maxRetire, maxSquash, maxClear int) *InstQ {
	q := &InstQ{
		size:       size,
		scan:       scan,
		rand:       rand.New(rand.NewSource(1)),
		array:      make([]InstQEntry, size),
		maxReadied: maxReadied,
		maxInsert:  maxInsert,
		maxIssue:   maxIssue,
		maxRelease: maxRelease,
		maxRetire:  maxRetire,
		maxSquash:  maxSquash,
		maxClear:   maxClear,
	}
	q.Reset()
	return q
}

// BeginCycle resets the per-cycle port-usage counters.
func (q *InstQ) BeginCycle() {
	q.numReadied, q.numInsert, q.numIssue = 0, 0, 0
	q.numRelease, q.numRetire = 0, 0
	q.numSquash, q.numClear = 0, 0
}

// Reset empties the queue.
func (q *InstQ) Reset() {
	q.BeginCycle()
	q.inUse = 0
	q.cursor = 0
	for i := range q.array {
		q.array[i] = InstQEntry{SlotIdx: i, Valid: false}
	}
}

func (q *InstQ) scanStart() int {
	switch q.scan {
	case config.ScanRandom:
		return q.rand.Intn(q.size)
	default:
		return q.cursor % q.size
	}
}

// NumSlots reports how many Instruction Queue entries are free.
func (q *InstQ) NumSlots() int {
	assertf("InstQ", "NumSlots", q.inUse <= q.size, "in-use count exceeds capacity")
	return q.size - q.inUse
}

// Readied performs a CAM scan and returns the first (in scan order)
// valid entry whose operands are both ready. The returned entry's Valid
// field is false if nothing is ready.
func (q *InstQ) Readied() InstQEntry {
	q.numReadied++
	assertf("InstQ", "Readied", q.maxReadied == 0 || q.numReadied <= q.maxReadied,
		"readied CAM-read port limit %d exceeded", q.maxReadied)

	which := -1
	q.cursor = q.scanStart()
	if q.inUse > 0 {
		for i := 0; i < q.size; i++ {
			e := &q.array[q.cursor]
			if e.Valid && e.Ts1Ready && e.Ts2Ready {
				which = q.cursor
				break
			}
			q.cursor = (q.cursor + 1) % q.size
		}
	}

	if which == -1 {
		return InstQEntry{Valid: false}
	}
	assertf("InstQ", "Readied", q.inUse > 0, "readied a slot while inUse==0")
	return q.array[which]
}

// Insert places a newly dispatched operation into the first free slot
// found from the scan cursor.
func (q *InstQ) Insert(atag int, op Operation, ts1Busy, ts2Busy bool, cookie Cookie) {
	q.numInsert++
	assertf("InstQ", "Insert", q.maxInsert == 0 || q.numInsert <= q.maxInsert,
		"insert write port limit %d exceeded", q.maxInsert)
	assertf("InstQ", "Insert", q.inUse < q.size, "queue is full")

	cur := q.scanStart()
	for i := 0; i < q.size; i++ {
		if !q.array[cur].Valid {
			q.inUse++
			q.array[cur] = InstQEntry{
				SlotIdx:  cur,
				Valid:    true,
				ATag:     atag,
				Op:       op,
				Ts1Ready: !ts1Busy,
				Ts2Ready: !ts2Busy,
				Cookie:   cookie,
			}
			return
		}
		cur = (cur + 1) % q.size
	}
	assertf("InstQ", "Insert", false, "no free slot found despite inUse < size")
}

// Issue removes the entry at slot which, which must have been the
// result of a prior Readied call this cycle.
func (q *InstQ) Issue(which int) {
	q.numIssue++
	assertf("InstQ", "Issue", q.maxIssue == 0 || q.numIssue <= q.maxIssue,
		"issue port limit %d exceeded", q.maxIssue)
	assertf("InstQ", "Issue", which < q.size, "slot %d out of range", which)
	assertf("InstQ", "Issue", q.array[which].Valid, "issuing an invalid slot")
	assertf("InstQ", "Issue", q.inUse > 0, "issuing while inUse==0")

	q.array[which].Valid = false
	q.inUse--
}

// Release wakes every waiting entry whose ts1 or ts2 names tag — called
// when tag's producer issues.
func (q *InstQ) Release(tag RenameTag, cookie Cookie) {
	q.numRelease++
	assertf("InstQ", "Release", q.maxRelease == 0 || q.numRelease <= q.maxRelease,
		"release CAM-write port limit %d exceeded", q.maxRelease)

	if IsZero(tag) {
		return
	}
	for i := range q.array {
		e := &q.array[i]
		if TagEqual(e.Op.Ts1, tag) {
			assertf("InstQ", "Release", !e.Valid || e.Cookie.Serial > cookie.Serial, "releasing an older consumer")
			assertf("InstQ", "Release", !e.Valid || !e.Ts1Ready, "releasing an already-ready operand")
			e.Ts1Ready = true
		}
		if TagEqual(e.Op.Ts2, tag) {
			assertf("InstQ", "Release", !e.Valid || e.Cookie.Serial > cookie.Serial, "releasing an older consumer")
			assertf("InstQ", "Release", !e.Valid || !e.Ts2Ready, "releasing an already-ready operand")
			e.Ts2Ready = true
		}
	}
}

// Squash discards every valid entry whose DependOn names any slot in
// mask — mispredicted-branch cleanup.
func (q *InstQ) Squash(mask SpeculateMask, cookie Cookie) {
	q.numSquash++
	assertf("InstQ", "Squash", q.maxSquash == 0 || q.numSquash <= q.maxSquash,
		"squash CAM-clear port limit %d exceeded", q.maxSquash)
	assertf("InstQ", "Squash", IsSetOnce(mask), "squash mask does not name exactly one checkpoint")

	for i := range q.array {
		e := &q.array[i]
		if e.Valid && DependsOn(e.Op.DependOn, mask) {
			assertf("InstQ", "Squash", e.Cookie.Serial > cookie.Serial, "squashing an older entry")
			e.Valid = false
			q.inUse--
		}
	}
}

// ClearMask clears mask's bits from every entry's DependOn — a
// correctly resolved branch no longer needs tracking.
func (q *InstQ) ClearMask(mask SpeculateMask, cookie Cookie) {
	q.numClear++
	assertf("InstQ", "ClearMask", q.maxClear == 0 || q.numClear <= q.maxClear,
		"clear CAM-clear port limit %d exceeded", q.maxClear)
	assertf("InstQ", "ClearMask", IsSetOnce(mask), "clear mask does not name exactly one checkpoint")

	for i := range q.array {
		e := &q.array[i]
		if DependsOn(e.Op.DependOn, mask) {
			assertf("InstQ", "ClearMask", !e.Valid || e.Cookie.Serial > cookie.Serial, "clearing an older entry")
			e.Op.DependOn &^= mask
		}
	}
}

// RetireTag rewrites every waiting entry's reference to ptag into ltag
// — ROB-rename mode only, used when a retiring instruction's Active
// List slot is about to be recycled so consumers still describe their
// dependency correctly (a younger producer could later land in that
// same physical slot).
func (q *InstQ) RetireTag(ptag, ltag RenameTag, cookie Cookie) {
	q.numRetire++
	assertf("InstQ", "RetireTag", q.maxRetire == 0 || q.numRetire <= q.maxRetire,
		"retire CAM-write port limit %d exceeded", q.maxRetire)

	if IsZero(ptag) {
		return
	}
	for i := range q.array {
		e := &q.array[i]
		if TagEqual(e.Op.Ts1, ptag) {
			assertf("InstQ", "RetireTag", !e.Valid || e.Cookie.Serial > cookie.Serial, "retiring tag for an older entry")
			e.Op.Ts1 = ltag
		}
		if TagEqual(e.Op.Ts2, ptag) {
			assertf("InstQ", "RetireTag", !e.Valid || e.Cookie.Serial > cookie.Serial, "retiring tag for an older entry")
			e.Op.Ts2 = ltag
		}
	}
}
