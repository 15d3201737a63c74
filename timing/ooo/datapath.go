package ooo

import (
	"github.com/sarchlab/r10ksim/arch"
	"github.com/sarchlab/r10ksim/config"
)

// mapEntry is one instruction carried through the Map(2)->Dispatch(3)
// pipeline latch: renamed, but not yet inserted into an Instruction
// Queue lane.
type mapEntry struct {
	inst   arch.Instruction
	pcLike uint64
	cookie Cookie
	op     Operation
	tdOld  RenameTag // physical-rename mode only
	atag   int
	lane   int
}

// mapLatch is the Stage2->Stage3 pipeline register: the Map stage's
// output from last cycle, consumed by Dispatch this cycle. Every entry
// in one mapLatch shares the same DependOn mask (truncation stops a
// rename bundle right after any branch it contains, so nothing within
// a bundle is ever more speculative than anything else in it) — so
// dropped is a single bundle-wide flag, not per-entry.
type mapLatch struct {
	entries        []mapEntry
	neededPerLane  []int
	hasBR          bool
	checkpointSlot int
	dropped        bool
}

// operandSlot is one lane's entry in the Issue->OperandFetch pipeline
// latch (used only when CascadeIssueOperand is false).
type operandSlot struct {
	valid  bool
	atag   int
	op     Operation
	cookie Cookie
}

// executeSlot is one lane's entry in the OperandFetch->Execute pipeline
// latch, always present regardless of cascade mode.
type executeSlot struct {
	valid    bool
	atag     int
	op       Operation
	vs1, vs2 arch.DataValue
	cookie   Cookie
}

// Datapath is the per-cycle orchestrator tying every structural
// component together into the seven-stage pipeline described by the
// specification: 0 Exception Restart, 2 Map, 3 Dispatch, 4 Issue,
// 5 Operand Fetch, 6 Execute, 7 Retire (stage 1, Fetch, belongs to the
// external Source collaborator). Tick drives one full clock: a
// combinational query phase (stages in ascending order, reading
// latches and component state left over from last cycle), a
// same-cycle forwarding overlay, and a commit phase (stages in
// descending order, mirroring the reference implementation's Tick/Tock
// split so that a stage's commit can see what a later stage queried
// this same cycle before deciding whether to squash it).
type Datapath struct {
	cfg config.Config

	activeList *ActiveList
	alus       []*Alu
	busy       *BusyTable
	checkpoint *Checkpoint
	exception  *ExceptionTracker
	instq      []*InstQ
	rf         *RegFile
	rmap       *RMap

	curMask   SpeculateMask // union of all currently allocated checkpoint bits
	unwinding bool          // physical-rename mode: serial exception unwind in progress

	mapOut   mapLatch
	operand  []operandSlot // len == ExecuteWidth; unused when CascadeIssueOperand
	execute  []executeSlot // len == ExecuteWidth

	restartPending bool
	restartPC      uint64

	phase phase
}

// phase is the process-wide combinational/commit discipline described by
// the specification: components read state during phaseQuery and mutate
// it during phaseCommit, never both in the same half of a cycle.
type phase int

const (
	phaseQuery phase = iota
	phaseCommit
)

// assertPhase is called at the top of every query*/commit* method to
// catch a stage called out of turn — a programmer error, not a
// modeling one, but one the reference implementation guards against with
// exactly this kind of phase flag.
func (d *Datapath) assertPhase(want phase, op string) {
	assertf("Datapath", op, d.phase == want, "called during wrong phase (want %d, have %d)", want, d.phase)
}

// Option configures a Datapath at construction time.
type Option func(*Datapath)

// NewDatapath builds a Datapath from cfg, allocating every structural
// component with port limits derived from the configured widths. The
// port-limit choices follow the reference implementation's
// MAX_*_READ/WRITE conventions: one combinational query per component
// per logical "thing that needs it" per cycle, scaled by whichever
// pipeline width drives that traffic.
func NewDatapath(cfg config.Config, opts ...Option) *Datapath {
	ew := cfg.ExecuteWidth
	dw := cfg.DecodeWidth
	rw := cfg.RetireWidth

	// ROB-rename mode writes the RegFile twice per retiring instruction's
	// lifetime (once speculatively at execute, once into the
	// architectural sub-region at retire); physical-rename mode only
	// ever writes once, at execute.
	rfMaxWrite := ew
	if cfg.ROBRename {
		rfMaxWrite += rw
	}

	// Physical-rename mode also reads rd's prior mapping (tdOld) for every
	// renamed instruction, on top of its two source operands.
	rmapMaxRead := dw * 2
	if !cfg.ROBRename {
		rmapMaxRead = dw * 3
	}

	d := &Datapath{
		cfg: cfg,
		activeList: NewActiveList(cfg.OOODegree, dw, rw, cfg.SpeculateDepth, cfg.ROBRename, cfg.DRISChecker,
			ActiveListLimits{
				MaxReadPC:     ew,
				MaxReadOld:    1,
				MaxReadFree:   1,
				MaxReadStatus: 1,
				MaxAccept:     1,
				MaxComplete:   ew,
				MaxExcept:     ew,
				MaxRetire:     1,
			}),
		busy:       NewBusyTable(arch.NumLogicalReg+cfg.OOODegree, dw*2, dw, ew),
		checkpoint: NewCheckpoint(cfg.SpeculateDepth, 1, 1, ew),
		exception:  NewExceptionTracker(),
		rf:         NewRegFile(arch.NumLogicalReg+cfg.OOODegree, ew*2+rw, rfMaxWrite),
		rmap:       NewRMap(cfg.ROBRename, arch.NumLogicalReg, rmapMaxRead, dw, 1, rw),

		operand: make([]operandSlot, ew),
		execute: make([]executeSlot, ew),
	}

	d.alus = make([]*Alu, ew)
	for i := range d.alus {
		d.alus[i] = NewAlu()
	}

	d.instq = make([]*InstQ, ew)
	for i := range d.instq {
		d.instq[i] = NewInstQ(cfg.InstQSize, cfg.InstQScan, 1, dw, 1, ew, rw, 1, 1)
	}

	for _, opt := range opts {
		opt(d)
	}

	d.Reset()
	return d
}

// Reset restores every component to its power-on state and clears all
// pipeline latches.
func (d *Datapath) Reset() {
	d.activeList.Reset()
	for _, a := range d.alus {
		_ = a // stateless; nothing to reset
	}
	d.busy.Reset()
	d.checkpoint.Reset()
	d.exception.Reset()
	for _, q := range d.instq {
		q.Reset()
	}
	d.rf.Reset()
	d.rmap.Reset()

	d.curMask = 0
	d.unwinding = false
	d.mapOut = mapLatch{}
	for i := range d.operand {
		d.operand[i] = operandSlot{}
	}
	for i := range d.execute {
		d.execute[i] = executeSlot{}
	}
	d.restartPending = false
	d.restartPC = 0
}

// ReadArchReg reports the value of logical register l as seen through
// the current rename map, the same way regardless of rename mode: ROB
// mode's RMap names l's Active List slot while an in-flight instruction
// writes l and its Architectural tag otherwise, and physical mode's RMap
// names the physical register of the youngest mapped writer of l. The
// result is l's last committed value only when no in-flight instruction
// writes l (for example once the datapath has drained). Unmetered — a
// driver/test introspection point, not a pipeline stage.
func (d *Datapath) ReadArchReg(l arch.LogicalRegName) arch.DataValue {
	return d.rf.Peek(TagToIndex(d.rmap.PeekMap(l)))
}

func (d *Datapath) beginCycle() {
	d.activeList.BeginCycle()
	d.busy.BeginCycle()
	d.checkpoint.BeginCycle()
	for _, q := range d.instq {
		q.BeginCycle()
	}
	d.rf.BeginCycle()
	d.rmap.BeginCycle()
}
