package ooo

import "github.com/sarchlab/r10ksim/arch"

// Cookie is a per-instruction record of the golden-reference result,
// carried alongside an instruction from Fetch through Retire so the
// datapath can assert parity with the functional reference at any stage.
// It is produced by a Source (see below), which is an external
// collaborator out of scope for this package — the fetch unit and the
// golden functional reference. The ooo package only consumes Cookie
// values opaquely, except for Serial (retirement ordering) and the
// fields the DivergenceChecker compares.
type Cookie struct {
	Serial      uint64
	Vd, Vs1, Vs2 arch.DataValue
	Inst        arch.Instruction
	Op          Operation
	// Speculating is the source's own count of branches it had in flight
	// when it produced this Cookie — a diagnostic mirror carried through
	// for anyone inspecting a captured trace, never read by the datapath
	// itself or by any control decision in this package.
	Speculating uint64
}

// FetchBundle is what the upstream fetch collaborator presents to the
// datapath each cycle: up to DecodeWidth instructions plus the
// speculative metadata the datapath needs to rename and schedule them.
type FetchBundle struct {
	Howmany   int
	Inst      []arch.Instruction
	PcLike    []uint64
	PredTaken []bool
	OParity   []bool
	Cookie    []Cookie
}

// Source is the boundary the (out-of-scope) fetch unit and golden
// reference implement. Datapath.Tick calls Next once per cycle to obtain
// this cycle's fetch bundle, and calls Redirect whenever it asserts
// Rewind or Restart so the source can resume fetching from the new PC,
// and whenever it accepts fewer instructions than the bundle held so the
// unaccepted ones are presented again.
type Source interface {
	// Next returns this cycle's fetch bundle. Called during the
	// combinational phase.
	Next() FetchBundle
	// Redirect tells the source to discard its speculative state and
	// resume fetching from gotoPC. Called during the commit phase.
	Redirect(gotoPC uint64)
}
