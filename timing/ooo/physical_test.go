package ooo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r10ksim/arch"
	"github.com/sarchlab/r10ksim/config"
	"github.com/sarchlab/r10ksim/golden"
	"github.com/sarchlab/r10ksim/timing/ooo"
)

func physicalConfig() config.Config {
	cfg := *config.BaselineConfig()
	cfg.ROBRename = false
	return cfg
}

var _ = Describe("Physical-rename mode", func() {
	It("scenario 1: RAW + WAW chain drains to R4=8, R2=8, R8=16", func() {
		res := runTrace(physicalConfig(), golden.ScenarioRAWWAW(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[4]).To(Equal(arch.DataValue(8)))
		Expect(res.committed[2]).To(Equal(arch.DataValue(8)))
		Expect(res.committed[8]).To(Equal(arch.DataValue(16)))
	})

	It("scenario 2: intra-bundle forwarding produces R1=5 R2=5 R3=10 R4=15", func() {
		res := runTrace(physicalConfig(), golden.ScenarioIntraBundleForwarding(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[1]).To(Equal(arch.DataValue(5)))
		Expect(res.committed[2]).To(Equal(arch.DataValue(5)))
		Expect(res.committed[3]).To(Equal(arch.DataValue(10)))
		Expect(res.committed[4]).To(Equal(arch.DataValue(15)))
	})

	It("scenario 3: a correctly predicted branch never rewinds", func() {
		res := runTrace(physicalConfig(), golden.ScenarioCorrectBranch(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.sawRewind).To(BeFalse())
		Expect(res.committed[1]).To(Equal(arch.DataValue(2)))
	})

	It("scenario 4: a mispredicted branch rewinds via the checkpoint snapshot stack and still completes", func() {
		res := runTrace(physicalConfig(), golden.ScenarioMispredictedBranch(), 200)
		Expect(res.sawRewind).To(BeTrue())
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[1]).To(Equal(arch.DataValue(2)))
	})

	It("scenario 5: a precise exception serially unwinds the rename map and never commits past it", func() {
		res := runTrace(physicalConfig(), golden.ScenarioPreciseException(), 200)
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
		narrow := physicalConfig()
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

	It("exposes committed state identically through the retirement stream and through RMap+RegFile", func() {
		res := runTrace(physicalConfig(), golden.ScenarioRAWWAW(), 200)
		Expect(res.halted).To(BeTrue())

		dp := ooo.NewDatapath(physicalConfig())
		src := golden.NewTraceSource(golden.ScenarioRAWWAW(), physicalConfig().DecodeWidth)
		for cycle := 0; cycle < 200; cycle++ {
			_, _, _, _, retired := dp.Tick(src)
			halted := false
			for i := 0; i < retired.Howmany; i++ {
				if retired.Cookie[i].Inst.Opcode == arch.HALT {
					halted = true
				}
			}
			if halted {
				break
			}
		}

		for rd, val := range res.committed {
			Expect(dp.ReadArchReg(rd)).To(Equal(val))
		}
	})

	DescribeTable("ROB-rename and physical-rename modes retire the same (rd, val) sequence",
		func(trace []arch.Instruction) {
			rob := runTrace(*config.BaselineConfig(), trace, 200)
			physical := runTrace(physicalConfig(), trace, 200)

			Expect(rob.halted).To(BeTrue())
			Expect(physical.halted).To(BeTrue())
			Expect(physical.sequence).To(Equal(rob.sequence))
		},
		Entry("RAW + WAW chain", golden.ScenarioRAWWAW()),
		Entry("intra-bundle forwarding", golden.ScenarioIntraBundleForwarding()),
		Entry("correctly predicted branch", golden.ScenarioCorrectBranch()),
		Entry("mispredicted branch", golden.ScenarioMispredictedBranch()),
	)
})
