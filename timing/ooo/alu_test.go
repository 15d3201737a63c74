package ooo

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r10ksim/arch"
)

var _ = Describe("Alu", func() {
	var alu *Alu

	BeforeEach(func() {
		alu = NewAlu()
	})

	It("computes vs1+vs2 regardless of opcode", func() {
		cookie := Cookie{Vs1: 3, Vs2: 4, Vd: 7}
		out := alu.Execute(true, Operation{Opcode: arch.ADD}, 3, 4, cookie)
		Expect(out.Vd).To(Equal(arch.DataValue(7)))
		Expect(out.IsBr).To(BeFalse())
	})

	It("flags IsBr only for BEQ", func() {
		cookie := Cookie{Vs1: 1, Vs2: 1, Vd: 2}
		out := alu.Execute(true, Operation{Opcode: arch.BEQ, PredTaken: true}, 1, 1, cookie)
		Expect(out.IsBr).To(BeTrue())
		Expect(out.IsMispredict).To(BeFalse())
	})

	It("flags a mispredict when vs1==vs2 disagrees with PredTaken", func() {
		cookie := Cookie{Vs1: 1, Vs2: 2, Vd: 3}
		out := alu.Execute(true, Operation{Opcode: arch.BEQ, PredTaken: true}, 1, 2, cookie)
		Expect(out.IsMispredict).To(BeTrue())
	})

	It("flags an exception when result parity disagrees with OParity", func() {
		// Vd=0b11 (popcount 2, even parity) but OParity claims odd.
		cookie := Cookie{Vs1: 1, Vs2: 2, Vd: 3}
		out := alu.Execute(true, Operation{Opcode: arch.ADD, OParity: true}, 1, 2, cookie)
		Expect(out.IsException).To(BeTrue())
	})

	It("produces no flags and skips assertions when invalid", func() {
		out := alu.Execute(false, Operation{Opcode: arch.BEQ, PredTaken: true}, 1, 2, Cookie{})
		Expect(out.IsBr).To(BeFalse())
		Expect(out.IsMispredict).To(BeFalse())
		Expect(out.IsException).To(BeFalse())
	})

	It("panics when vs1 disagrees with the golden cookie", func() {
		cookie := Cookie{Vs1: 99, Vs2: 2, Vd: 101}
		Expect(func() { alu.Execute(true, Operation{}, 1, 2, cookie) }).To(Panic())
	})
})
