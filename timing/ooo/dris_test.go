package ooo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r10ksim/arch"
	"github.com/sarchlab/r10ksim/config"
	"github.com/sarchlab/r10ksim/golden"
)

// These exercise the DRIS checker (the centralized shadow-bookkeeping
// oracle gated by config.Config.DRISChecker) across three of the
// scenarios scenarios_test.go runs without it: DRISChecker only ever asserts, it
// never changes committed results, so a passing run here should commit
// the identical architectural state as the DRISChecker-off run.
var _ = Describe("DRIS checker", func() {
	withDRIS := func() config.Config {
		cfg := *config.BaselineConfig()
		cfg.DRISChecker = true
		return cfg
	}

	It("agrees with normal issue bookkeeping on a RAW/WAW chain", func() {
		res := runTrace(withDRIS(), golden.ScenarioRAWWAW(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[4]).To(Equal(arch.DataValue(8)))
		Expect(res.committed[2]).To(Equal(arch.DataValue(8)))
		Expect(res.committed[8]).To(Equal(arch.DataValue(16)))
	})

	It("agrees with normal issue bookkeeping on intra-bundle forwarding", func() {
		res := runTrace(withDRIS(), golden.ScenarioIntraBundleForwarding(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.committed[1]).To(Equal(arch.DataValue(5)))
		Expect(res.committed[4]).To(Equal(arch.DataValue(15)))
	})

	It("agrees with normal issue bookkeeping across a mispredicted branch", func() {
		res := runTrace(withDRIS(), golden.ScenarioMispredictedBranch(), 200)
		Expect(res.halted).To(BeTrue())
		Expect(res.sawRewind).To(BeTrue())
		Expect(res.committed[1]).To(Equal(arch.DataValue(2)))
	})
})
