package ooo

import (
	"github.com/google/go-cmp/cmp"
)

// DivergenceChecker asserts, at retirement, that the real pipeline's
// result agrees with the golden-reference Cookie the instruction
// carried from Fetch — the only place the two are compared field by
// field rather than by the narrower checks Datapath.Tick already makes
// inline (retiring value vs cookie.Vd, DRIS parity, and so on). It is
// deliberately NOT wired into the default Tick path: it exists as an
// opt-in, heavier diagnostic for tests and the CLI's -v mode, the way
// the reference implementation's retirement assertions are compiled out
// of the non-debug build.
type DivergenceChecker struct{}

// NewDivergenceChecker returns a ready-to-use checker. It is stateless.
func NewDivergenceChecker() *DivergenceChecker { return &DivergenceChecker{} }

// cookieFields is the subset of a Cookie that a correct retirement must
// agree with: the golden serial, operand values, and result.
type cookieFields struct {
	Serial       uint64
	Vd, Vs1, Vs2 uint64
}

// Check compares one retiring (serial, val, cookie) triple against the
// golden reference and returns a *Fault describing any mismatch, or nil
// if they agree. rd==R0 is skipped by the caller — R0 never carries a
// meaningful value on either side.
func (c *DivergenceChecker) Check(retiredSerial uint64, val uint64, cookie Cookie) *Fault {
	got := cookieFields{Serial: retiredSerial, Vd: val, Vs1: uint64(cookie.Vs1), Vs2: uint64(cookie.Vs2)}
	want := cookieFields{Serial: cookie.Serial, Vd: uint64(cookie.Vd), Vs1: uint64(cookie.Vs1), Vs2: uint64(cookie.Vs2)}

	if diff := cmp.Diff(want, got); diff != "" {
		return &Fault{
			Kind:      ModelingDivergence,
			Component: "DivergenceChecker",
			Op:        "Check",
			Msg:       "retired instruction disagrees with golden-reference cookie (-want +got):\n" + diff,
		}
	}
	return nil
}
