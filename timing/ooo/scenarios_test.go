package ooo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r10ksim/arch"
	"github.com/sarchlab/r10ksim/config"
	"github.com/sarchlab/r10ksim/golden"
	"github.com/sarchlab/r10ksim/timing/ooo"
)

// retiredValue is one (rd, val) pair from the retirement stream, in
// retirement order — the "retired-value sequence" the §8 ROB/physical
// idempotence law compares across rename modes.
type retiredValue struct {
	rd  arch.LogicalRegName
	val arch.DataValue
}

// runResult summarizes the observable effects of driving a Datapath over
// a trace: the architectural (rd -> last-retired-val) map built purely
// from the RetireBundles Tick reports, plus the full ordered retirement
// sequence and whether a rewind or restart was ever observed. Populated
// identically in both rename modes, since RetireBundle carries Rd/Val/
// Cookie regardless of config.ROBRename.
type runResult struct {
	committed  map[arch.LogicalRegName]arch.DataValue
	sequence   []retiredValue
	halted     bool
	haltCycle  int
	sawRewind  bool
	sawRestart bool
}

func runTrace(cfg config.Config, trace []arch.Instruction, maxCycles int) runResult {
	src := golden.NewTraceSource(trace, cfg.DecodeWidth)
	dp := ooo.NewDatapath(cfg)

	res := runResult{committed: map[arch.LogicalRegName]arch.DataValue{}}

	for cycle := 0; cycle < maxCycles; cycle++ {
		_, rewind, restart, _, retired := dp.Tick(src)
		res.sawRewind = res.sawRewind || rewind
		res.sawRestart = res.sawRestart || restart

		for i := 0; i < retired.Howmany; i++ {
			if retired.Rd[i] != arch.R0 {
				res.committed[retired.Rd[i]] = retired.Val[i]
				res.sequence = append(res.sequence, retiredValue{rd: retired.Rd[i], val: retired.Val[i]})
			}
			if retired.Cookie[i].Inst.Opcode == arch.HALT {
				res.halted = true
				res.haltCycle = cycle
			}
		}

		if res.halted {
			break
		}
	}

	return res
}

var _ = Describe("Concrete scenarios", func() {
	var cfg config.Config

	BeforeEach(func() {
		cfg = *config.BaselineConfig()
	})

	It("scenario 1: RAW + WAW chain drains to R4=8, R2=8, R8=16", func() {
		res := runTrace(cfg, golden.ScenarioRAWWAW(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[4]).To(Equal(arch.DataValue(8)))
		Expect(res.committed[2]).To(Equal(arch.DataValue(8)))
		Expect(res.committed[8]).To(Equal(arch.DataValue(16)))
	})

	It("scenario 2: intra-bundle forwarding produces R1=5 R2=5 R3=10 R4=15", func() {
		res := runTrace(cfg, golden.ScenarioIntraBundleForwarding(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[1]).To(Equal(arch.DataValue(5)))
		Expect(res.committed[2]).To(Equal(arch.DataValue(5)))
		Expect(res.committed[3]).To(Equal(arch.DataValue(10)))
		Expect(res.committed[4]).To(Equal(arch.DataValue(15)))
	})

	It("scenario 3: a correctly predicted branch never rewinds", func() {
		res := runTrace(cfg, golden.ScenarioCorrectBranch(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.sawRewind).To(BeFalse())
		Expect(res.committed[1]).To(Equal(arch.DataValue(2)))
	})

	It("scenario 4: a mispredicted branch rewinds and still completes", func() {
		res := runTrace(cfg, golden.ScenarioMispredictedBranch(), 200)
		Expect(res.sawRewind).To(BeTrue())
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[1]).To(Equal(arch.DataValue(2)))
	})

	It("scenario 5: a precise exception restarts and never commits past it", func() {
		res := runTrace(cfg, golden.ScenarioPreciseException(), 200)
		Expect(res.sawRestart).To(BeTrue())

		Expect(res.committed[1]).To(Equal(arch.DataValue(2)))
		Expect(res.committed[2]).To(Equal(arch.DataValue(4)))
		Expect(res.committed[3]).To(Equal(arch.DataValue(6)))

		_, sawR4 := res.committed[4]
		_, sawR5 := res.committed[5]
		Expect(sawR4).To(BeFalse())
		Expect(sawR5).To(BeFalse())
	})

	It("scenario 6: a cascaded single-width dependent chain still drains to HALT", func() {
		narrow := cfg
		narrow.CascadeIssueOperand = true
		narrow.ExecuteWidth = 1
		narrow.DecodeWidth = 1
		narrow.RetireWidth = 1

		res := runTrace(narrow, golden.ScenarioCascadeChain(), 200)
		Expect(res.halted).To(BeTrue())
		for rd := arch.LogicalRegName(1); rd <= 8; rd++ {
			_, ok := res.committed[rd]
			Expect(ok).To(BeTrue())
		}
	})
})
