package golden

import "github.com/sarchlab/r10ksim/arch"

func add(rd, rs1, rs2 arch.LogicalRegName) arch.Instruction {
	return arch.Instruction{Opcode: arch.ADD, Rd: rd, Rs1: rs1, Rs2: rs2}
}

func halt() arch.Instruction {
	return arch.Instruction{Opcode: arch.HALT}
}

// ScenarioRAWWAW is concrete scenario 1: a read-after-write and a
// write-after-write chain through the same physical/ROB slot rename
// logic must see. Expected architectural state after drain: R4=8,
// R2=8, R8=16; retired serials 0,1,2,3.
func ScenarioRAWWAW() []arch.Instruction {
	return []arch.Instruction{
		add(4, 0, 8),
		add(2, 0, 4),
		add(4, 0, 8),
		add(8, 4, 8),
		halt(),
	}
}

// ScenarioIntraBundleForwarding is concrete scenario 2: all four
// instructions are accepted in one Map cycle, each depending on the
// rename of the instruction immediately before it in the same bundle.
// Expected retirement: R1=5, R2=5, R3=10, R4=15.
func ScenarioIntraBundleForwarding() []arch.Instruction {
	return []arch.Instruction{
		add(1, 0, 5),
		add(2, 1, 0),
		add(3, 2, 1),
		add(4, 3, 2),
		halt(),
	}
}

// ScenarioCorrectBranch is concrete scenario 3: a branch whose operands
// are literally the same register, so vs1==vs2 always holds, tagged
// Miss=false (predictor guesses taken and is right). No rewind expected;
// the checkpoint frees the cycle after Execute.
func ScenarioCorrectBranch() []arch.Instruction {
	return []arch.Instruction{
		add(1, 0, 2),
		{Opcode: arch.BEQ, Rd: 0, Rs1: 1, Rs2: 1, Miss: false},
		halt(),
	}
}

// ScenarioMispredictedBranch is concrete scenario 4: identical to
// ScenarioCorrectBranch but the fetch collaborator tags the branch
// Miss=true, so TraceSource derives a PredTaken that disagrees with the
// branch's actual outcome. Expect a Rewind the cycle after Execute with
// GotoPC equal to the branch's own serial, and no younger instruction
// retiring.
func ScenarioMispredictedBranch() []arch.Instruction {
	return []arch.Instruction{
		add(1, 0, 2),
		{Opcode: arch.BEQ, Rd: 0, Rs1: 1, Rs2: 1, Miss: true},
		halt(),
	}
}

// ScenarioPreciseException is concrete scenario 5: an accepted branch
// followed three instructions later by one tagged Exception=true. When
// that instruction reaches the Active List head, Restart fires with
// GotoPC equal to its serial; the architectural file must match the
// golden reference exactly up to but not including it, and any
// speculative instructions past it that had already completed are
// discarded.
func ScenarioPreciseException() []arch.Instruction {
	return []arch.Instruction{
		add(1, 0, 2),
		{Opcode: arch.BEQ, Rd: 0, Rs1: 1, Rs2: 1, Miss: false},
		add(2, 1, 1),
		add(3, 2, 1),
		{Opcode: arch.ADD, Rd: 4, Rs1: 3, Rs2: 2, Exception: true},
		add(5, 4, 1),
		halt(),
	}
}

// ScenarioCascadeChain is concrete scenario 6: eight back-to-back
// single-cycle-dependent ADDs, meant to be run under
// config.Config.CascadeIssueOperand with ExecuteWidth=1 — the minimum
// achievable throughput once the pipeline is warm is one retirement per
// cycle.
func ScenarioCascadeChain() []arch.Instruction {
	trace := make([]arch.Instruction, 0, 9)
	prev := arch.LogicalRegName(0)
	for i := 1; i <= 8; i++ {
		rd := arch.LogicalRegName(i)
		trace = append(trace, add(rd, prev, prev))
		prev = rd
	}
	return append(trace, halt())
}
