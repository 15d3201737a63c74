// Package golden provides the golden-reference functional model and a
// deterministic trace-driven fetch collaborator: the two external
// collaborators core spec §6 describes as out of scope for the timing
// model itself, but needed to drive and check it end to end.
package golden

import "github.com/sarchlab/r10ksim/arch"

// Biscuit is the golden functional result of executing one instruction
// in strict program order: the same arithmetic the real datapath's ALU
// performs, computed without speculation so it is always right. Named
// after the reference implementation's Magic::aFunctional return type.
type Biscuit struct {
	Serial      uint64
	Vd, Vs1, Vs2 arch.DataValue
	Inst        arch.Instruction
	// Speculating mirrors how many branches TraceSource had in flight
	// when it built this Biscuit — a diagnostic only, never consulted by
	// Model.Execute or by anything downstream to decide control flow.
	Speculating uint64
}

// ReplayLog is one entry of the golden model's per-serial fetch
// history: TraceSource records one for every instruction it fetches,
// overwriting the entry when a serial is fetched again. Nothing in this
// package reads it back; a re-fetched serial is recomputed against a
// model rebuilt by TraceSource.Redirect.
type ReplayLog struct {
	Serial      uint64
	Rd          arch.LogicalRegName
	Val         arch.DataValue
	IsMiss      bool
	IsException bool
}

// Model is the golden architectural register file: a plain, in-order
// interpreter with no speculation, no renaming, and no structural
// limits. It exists only to produce Biscuits for TraceSource to compare
// the timing model against.
type Model struct {
	rf [arch.NumLogicalReg]arch.DataValue
}

// NewModel returns a Model with RF[i]=i for i<32, the initial
// architectural state assumed by the concrete scenarios.
func NewModel() *Model {
	m := &Model{}
	for i := range m.rf {
		m.rf[i] = arch.DataValue(i)
	}
	return m
}

func (m *Model) read(l arch.LogicalRegName) arch.DataValue {
	if l == arch.R0 {
		return 0
	}
	return m.rf[l]
}

func (m *Model) write(l arch.LogicalRegName, v arch.DataValue) {
	if l == arch.R0 {
		return
	}
	m.rf[l] = v
}

// Execute computes the golden Biscuit for inst and, for ADD, commits its
// result into the model's architectural register file. speculating is
// carried through verbatim as a diagnostic mirror of how many branches
// are currently in flight from the fetch collaborator's point of view —
// it is not used for any control-flow decision here, since this model
// never actually branches: the instruction stream is a fixed, straight-
// line trace and Miss/Exception are trace-authored facts about it, not
// something this model decides.
func (m *Model) Execute(serial uint64, inst arch.Instruction, speculating uint64) Biscuit {
	vs1 := m.read(inst.Rs1)
	vs2 := m.read(inst.Rs2)

	vd := vs1 + vs2
	if inst.Opcode == arch.ADD {
		m.write(inst.Rd, vd)
	}

	return Biscuit{
		Serial:      serial,
		Vd:          vd,
		Vs1:         vs1,
		Vs2:         vs2,
		Inst:        inst,
		Speculating: speculating,
	}
}
