package golden

import (
	"github.com/sarchlab/r10ksim/arch"
	"github.com/sarchlab/r10ksim/timing/ooo"
)

// TraceSource is a deterministic ooo.Source backed by a fixed, literal
// instruction trace — the ambient harness's stand-in for a real fetch
// unit, branch predictor, and pre-decode parity checker. Serial numbers
// double as this toy architecture's "PC-like" value: the trace has no
// real branch targets, so every Redirect target ("the instruction after
// a resolved branch", "the excepting instruction's serial", or "the
// first fetched instruction the datapath did not accept") is reached by
// replaying the model up to it and repositioning the fetch cursor.
type TraceSource struct {
	trace       []arch.Instruction
	fetchWidth  int
	model       *Model
	cursor      uint64
	speculating uint64
	log         []ReplayLog
}

// NewTraceSource builds a TraceSource over trace, presenting at most
// fetchWidth instructions per Next call (callers typically pass
// config.Config.DecodeWidth).
func NewTraceSource(trace []arch.Instruction, fetchWidth int) *TraceSource {
	return &TraceSource{
		trace:      trace,
		fetchWidth: fetchWidth,
		model:      NewModel(),
		log:        make([]ReplayLog, len(trace)),
	}
}

// Done reports whether every instruction in the trace has been fetched
// at least once and the cursor has not since been rewound behind them.
func (s *TraceSource) Done() bool {
	return s.cursor >= uint64(len(s.trace))
}

// Next implements ooo.Source.
func (s *TraceSource) Next() ooo.FetchBundle {
	remaining := len(s.trace) - int(s.cursor)
	n := s.fetchWidth
	if remaining < n {
		n = remaining
	}
	if n <= 0 {
		return ooo.FetchBundle{}
	}

	bundle := ooo.FetchBundle{
		Howmany:   n,
		Inst:      make([]arch.Instruction, n),
		PcLike:    make([]uint64, n),
		PredTaken: make([]bool, n),
		OParity:   make([]bool, n),
		Cookie:    make([]ooo.Cookie, n),
	}

	for i := 0; i < n; i++ {
		serial := s.cursor
		inst := s.trace[serial]
		biscuit := s.model.Execute(serial, inst, s.speculating)

		actualTaken := biscuit.Vs1 == biscuit.Vs2
		predTaken := actualTaken != inst.Miss

		actualParity := ooo.PopCount(uint64(biscuit.Vd))%2 == 1
		oParity := actualParity != inst.Exception

		if inst.Opcode == arch.BEQ {
			s.speculating++
		}

		bundle.Inst[i] = inst
		bundle.PcLike[i] = serial
		bundle.PredTaken[i] = predTaken
		bundle.OParity[i] = oParity
		bundle.Cookie[i] = ooo.Cookie{
			Serial: serial,
			Vd:     biscuit.Vd,
			Vs1:    biscuit.Vs1,
			Vs2:    biscuit.Vs2,
			Inst:   inst,
			Op: ooo.Operation{
				Opcode:    inst.Opcode,
				PredTaken: predTaken,
				OParity:   oParity,
			},
			Speculating: s.speculating,
		}

		s.log[serial] = ReplayLog{
			Serial:      serial,
			Rd:          inst.Rd,
			Val:         biscuit.Vd,
			IsMiss:      inst.Miss,
			IsException: inst.Exception,
		}

		s.cursor++
	}

	return bundle
}

// Redirect implements ooo.Source. The trace is a fixed straight-line
// program with no real control flow, so the golden model's state before
// gotoPC is that of executing serials 0..gotoPC-1 in order: Redirect
// rebuilds the model that way (so re-fetching serial gotoPC recomputes
// the same Biscuit it did the first time) and resets the fetch cursor
// and the in-flight-branch mirror.
func (s *TraceSource) Redirect(gotoPC uint64) {
	s.model = NewModel()
	for serial := uint64(0); serial < gotoPC && serial < uint64(len(s.trace)); serial++ {
		s.model.Execute(serial, s.trace[serial], 0)
	}
	s.cursor = gotoPC
	s.speculating = 0
}
