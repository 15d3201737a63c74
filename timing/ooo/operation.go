package ooo

import "github.com/sarchlab/r10ksim/arch"

// Operation is the renamed form of a decoded instruction: the unit of
// work carried by the Instruction Queue, the Active List, and the
// pipeline registers between stages.
type Operation struct {
	Opcode     arch.OpCode
	Td         RenameTag
	Ts1        RenameTag
	Ts2        RenameTag
	PredTaken  bool
	OParity    bool
	Checkpoint int
	DependOn   SpeculateMask
}

// RMapBundle is the result of renaming up to DecodeWidth instructions in
// one cycle.
type RMapBundle struct {
	Howmany int
	Op      []Operation
	// TdOld holds, for each renamed instruction, the prior mapping of its
	// destination register — used only in physical-register-file mode to
	// restore the Rename Map during serial exception unwind.
	TdOld []RenameTag
}

// FreeRegBundle is a batch of freshly allocated destination tags plus the
// matching Active List slot index ("atag") each is paired with.
type FreeRegBundle struct {
	Howmany int
	Free    []RenameTag
	ATag    []int
}

// UnmapBundle is the Active List's log of the last decode bundle's
// (oldTag, rd) pairs, consumed one bundle at a time during physical-mode
// serial exception unwind.
type UnmapBundle struct {
	Howmany int
	Rd      []arch.LogicalRegName
	TdOld   []RenameTag
}

// RetireBundle is the set of instructions retiring this cycle, oldest
// first. Rd, Val and Cookie are populated in both rename modes so a
// driver can observe the committed architectural state (and the §8
// ROB/physical idempotence law) the same way regardless of config —
// only Td and Ptd carry mode-specific meaning: Td is the tag the
// Active List recycles on retirement (ROB mode: this slot's own tag;
// physical mode: the prior mapping being freed), and Ptd (physical
// mode only) is the physical register that actually holds the
// retiring value, read to populate Val.
type RetireBundle struct {
	Howmany int
	Td      []RenameTag
	Ptd     []RenameTag
	Rd      []arch.LogicalRegName
	Val     []arch.DataValue
	Cookie  []Cookie
}
