// Package ooo implements the out-of-order datapath: register renaming,
// dynamic scheduling via reservation stations, speculative execution past
// branches, and precise exception recovery, in the style of the MIPS
// R10000. See datapath.go for the per-cycle orchestration entry point.
package ooo

import "github.com/sarchlab/r10ksim/arch"

// TagKind discriminates the two things a RenameTag can mean.
type TagKind uint8

const (
	// Architectural means "read from the committed architectural file at
	// this logical register" — used in ROB-rename mode for an unmapped
	// logical register, and always for L0.
	Architectural TagKind = iota
	// Speculative means "read from this physical register (physical-file
	// mode) or this Active List slot (ROB mode)".
	Speculative
)

// RenameTag identifies a physical storage location for a register value,
// or the architectural fallback. This is the tagged-union representation
// called for in the specification's design notes, replacing the
// reference implementation's ad-hoc {mapped bool, idx} pair except where
// that pair is the natural in-memory layout (it is: Kind is one bit,
// Idx is the payload).
//
// Idx is always the final RegFile index the tag names — not an offset
// relative to the logical register count. ArchTag's Idx is a logical
// register number (it happens to equal its own RegFile index, since the
// architectural file occupies RegFile's low NumLogicalReg entries).
// SpecTag's Idx is whatever Active List slot or physical register the
// caller has already resolved to a concrete RegFile position (typically
// NumLogicalReg-relative in both ROB and physical-file mode, since both
// extend the same unified array past the architectural range).
type RenameTag struct {
	Kind TagKind
	Idx  int
}

// ZeroTag is the distinguished tag representing L0: architectural, index
// 0, always reads as zero and is never a live mapping target.
var ZeroTag = RenameTag{Kind: Architectural, Idx: int(arch.R0)}

// TagEqual reports whether two tags name the same storage location.
func TagEqual(a, b RenameTag) bool {
	return a.Kind == b.Kind && a.Idx == b.Idx
}

// IsZero reports whether t is the zero-register tag.
func IsZero(t RenameTag) bool {
	return TagEqual(t, ZeroTag)
}

// ArchTag builds an Architectural tag for logical register l.
func ArchTag(l arch.LogicalRegName) RenameTag {
	return RenameTag{Kind: Architectural, Idx: int(l)}
}

// SpecTag builds a Speculative tag for the RegFile index idx (already
// resolved — not relative to NumLogicalReg).
func SpecTag(idx int) RenameTag {
	return RenameTag{Kind: Speculative, Idx: idx}
}
