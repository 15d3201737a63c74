package golden_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r10ksim/arch"
	"github.com/sarchlab/r10ksim/golden"
)

var _ = Describe("Model", func() {
	It("initializes RF[i]=i", func() {
		m := golden.NewModel()
		b := m.Execute(0, arch.Instruction{Opcode: arch.ADD, Rd: 9, Rs1: 0, Rs2: 5}, 0)
		Expect(b.Vs2).To(Equal(arch.DataValue(5)))
	})

	It("computes vd=vs1+vs2 for ADD and commits it", func() {
		m := golden.NewModel()
		first := m.Execute(0, arch.Instruction{Opcode: arch.ADD, Rd: 1, Rs1: 0, Rs2: 5}, 0)
		Expect(first.Vd).To(Equal(arch.DataValue(5)))

		second := m.Execute(1, arch.Instruction{Opcode: arch.ADD, Rd: 2, Rs1: 1, Rs2: 0}, 0)
		Expect(second.Vs1).To(Equal(arch.DataValue(5)))
		Expect(second.Vd).To(Equal(arch.DataValue(5)))
	})

	It("never writes R0", func() {
		m := golden.NewModel()
		m.Execute(0, arch.Instruction{Opcode: arch.ADD, Rd: 0, Rs1: 0, Rs2: 5}, 0)
		b := m.Execute(1, arch.Instruction{Opcode: arch.ADD, Rd: 1, Rs1: 0, Rs2: 0}, 0)
		Expect(b.Vd).To(Equal(arch.DataValue(0)))
	})

	It("does not commit a BEQ's would-be result", func() {
		m := golden.NewModel()
		b := m.Execute(0, arch.Instruction{Opcode: arch.BEQ, Rd: 3, Rs1: 1, Rs2: 1}, 0)
		Expect(b.Vd).To(Equal(arch.DataValue(2)))
		after := m.Execute(1, arch.Instruction{Opcode: arch.ADD, Rd: 4, Rs1: 3, Rs2: 0}, 0)
		Expect(after.Vs1).To(Equal(arch.DataValue(3)))
	})
})

var _ = Describe("TraceSource", func() {
	It("fetches at most fetchWidth instructions per Next call", func() {
		trace := golden.ScenarioRAWWAW()
		src := golden.NewTraceSource(trace, 2)

		bundle := src.Next()
		Expect(bundle.Howmany).To(Equal(2))
		Expect(bundle.Inst[0]).To(Equal(trace[0]))
		Expect(bundle.Inst[1]).To(Equal(trace[1]))
	})

	It("derives PredTaken so a correctly-predicted branch always agrees with the actual outcome", func() {
		trace := golden.ScenarioCorrectBranch()
		src := golden.NewTraceSource(trace, len(trace))
		bundle := src.Next()

		beq := bundle.Inst[1]
		Expect(beq.Miss).To(BeFalse())
		actualTaken := bundle.Cookie[1].Vs1 == bundle.Cookie[1].Vs2
		Expect(bundle.PredTaken[1]).To(Equal(actualTaken))
	})

	It("derives PredTaken so a mispredicted branch always disagrees with the actual outcome", func() {
		trace := golden.ScenarioMispredictedBranch()
		src := golden.NewTraceSource(trace, len(trace))
		bundle := src.Next()

		beq := bundle.Inst[1]
		Expect(beq.Miss).To(BeTrue())
		actualTaken := bundle.Cookie[1].Vs1 == bundle.Cookie[1].Vs2
		Expect(bundle.PredTaken[1]).ToNot(Equal(actualTaken))
	})

	It("returns an empty bundle once the trace is exhausted", func() {
		trace := []arch.Instruction{{Opcode: arch.ADD, Rd: 1, Rs1: 0, Rs2: 0}}
		src := golden.NewTraceSource(trace, 4)
		src.Next()
		Expect(src.Done()).To(BeTrue())
		Expect(src.Next().Howmany).To(Equal(0))
	})

	It("resumes fetching from gotoPC after Redirect", func() {
		trace := golden.ScenarioRAWWAW()
		src := golden.NewTraceSource(trace, 1)
		src.Next()
		src.Next()
		src.Redirect(1)
		bundle := src.Next()
		Expect(bundle.Inst[0]).To(Equal(trace[1]))
	})
})

var _ = Describe("Scenario", func() {
	It("looks up a built-in scenario by name", func() {
		trace, err := golden.Scenario("rawwaw")
		Expect(err).ToNot(HaveOccurred())
		Expect(trace).To(Equal(golden.ScenarioRAWWAW()))
	})

	It("errors on an unknown scenario name", func() {
		_, err := golden.Scenario("does-not-exist")
		Expect(err).To(HaveOccurred())
	})
})
