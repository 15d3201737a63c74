package ooo

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SpeculateMask", func() {
	It("sets and clears individual bits", func() {
		var m SpeculateMask
		m = m.WithBit(3)
		Expect(m.Set(3)).To(BeTrue())
		Expect(m.Set(2)).To(BeFalse())

		m = m.ClearBit(3)
		Expect(m.Set(3)).To(BeFalse())
	})

	It("DependsOn reports any shared bit", func() {
		a := Bit(1) | Bit(4)
		b := Bit(4) | Bit(7)
		Expect(DependsOn(a, b)).To(BeTrue())
		Expect(DependsOn(a, Bit(2))).To(BeFalse())
	})

	It("IsSetOnce distinguishes zero/one/many bits", func() {
		Expect(IsSetOnce(0)).To(BeFalse())
		Expect(IsSetOnce(Bit(5))).To(BeTrue())
		Expect(IsSetOnce(Bit(5) | Bit(6))).To(BeFalse())
	})

	It("Which returns the single set bit's index", func() {
		Expect(Which(Bit(9))).To(Equal(9))
	})

	It("Which panics on a mask that isn't exactly one bit", func() {
		Expect(func() { Which(Bit(1) | Bit(2)) }).To(PanicWith(BeAssignableToTypeOf(&Fault{})))
		Expect(func() { Which(0) }).To(Panic())
	})

	It("PopCount counts set bits", func() {
		Expect(PopCount(0)).To(Equal(0))
		Expect(PopCount(0b10110)).To(Equal(3))
	})
})
