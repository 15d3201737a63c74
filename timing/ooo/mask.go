package ooo

import "math/bits"

// SpeculateMask is a fixed-width bitmask over checkpoint slots: bit k set
// means "depends on (or identifies) checkpoint slot k". SPECULATE_DEPTH is
// required to fit in a machine word (enforced by config.Config.Validate),
// so all mask operations are constant-time, per the specification's
// design notes.
type SpeculateMask uint64

// Bit returns a mask with only bit k set.
func Bit(k int) SpeculateMask {
	return SpeculateMask(1) << uint(k)
}

// Set reports whether bit k is set in m.
func (m SpeculateMask) Set(k int) bool {
	return m&Bit(k) != 0
}

// WithBit returns m with bit k set.
func (m SpeculateMask) WithBit(k int) SpeculateMask {
	return m | Bit(k)
}

// ClearBit returns m with bit k cleared.
func (m SpeculateMask) ClearBit(k int) SpeculateMask {
	return m &^ Bit(k)
}

// DependsOn reports whether mask and spec share any set bit — i.e.
// whether an entity carrying dependOn=mask depends on any slot named by
// spec.
func DependsOn(mask, spec SpeculateMask) bool {
	return mask&spec != 0
}

// IsSet reports whether any bit of spec is set.
func IsSet(spec SpeculateMask) bool {
	return spec != 0
}

// IsSetOnce reports whether exactly one bit of spec is set.
func IsSetOnce(spec SpeculateMask) bool {
	return bits.OnesCount64(uint64(spec)) == 1
}

// Which returns the single set bit's index. Panics if spec does not carry
// exactly one bit, mirroring the reference implementation's ASSERT.
func Which(spec SpeculateMask) int {
	if !IsSetOnce(spec) {
		panic(&Fault{Kind: InvariantViolation, Component: "mask", Op: "Which", Msg: "mask does not carry exactly one bit"})
	}
	return bits.TrailingZeros64(uint64(spec))
}

// PopCount returns the number of set bits in v — used both for the ALU's
// exception-parity check and for the exception tracker's
// "less-speculative-wins" comparison.
func PopCount(v uint64) int {
	return bits.OnesCount64(v)
}
