package ooo

import "github.com/sarchlab/r10ksim/arch"

// AluOut is the single-cycle result of executing one operand pair:
// the computed value, whether the operation was a branch, whether that
// branch was mispredicted, and whether the result carries an exception.
type AluOut struct {
	Vd           arch.DataValue
	IsBr         bool
	IsMispredict bool
	IsException  bool
}

// Alu is the single, stateless functional unit. Every operation in this
// model is ADD-shaped (the destination value is vs1+vs2); BEQ
// distinguishes itself only by how its result is interpreted —
// mispredicted if the zero-flag of vs1+vs2's would-be subtraction
// disagrees with PredTaken, here approximated directly as vs1==vs2. A
// result carries an exception when its population count's parity
// disagrees with the instruction's recorded OParity, matching the
// reference implementation's deliberately artificial exception trigger.
type Alu struct{}

// NewAlu constructs an Alu. It holds no state.
func NewAlu() *Alu {
	return &Alu{}
}

// Execute computes the result of op applied to vs1, vs2. When valid is
// false the returned Vd is still the sum of vs1 and vs2 (a don't-care
// slot), but IsBr/IsMispredict/IsException are all false.
func (a *Alu) Execute(valid bool, op Operation, vs1, vs2 arch.DataValue, cookie Cookie) AluOut {
	out := AluOut{Vd: vs1 + vs2}

	if !valid {
		return out
	}

	assertf("Alu", "Execute", vs1 == cookie.Vs1, "vs1 disagrees with golden cookie")
	assertf("Alu", "Execute", vs2 == cookie.Vs2, "vs2 disagrees with golden cookie")
	assertf("Alu", "Execute", out.Vd == cookie.Vd, "result disagrees with golden cookie")

	out.IsBr = op.Opcode == arch.BEQ
	out.IsMispredict = (vs1 == vs2) != op.PredTaken
	out.IsException = (PopCount(uint64(out.Vd))%2 == 1) != op.OParity

	return out
}
