package ooo

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DivergenceChecker", func() {
	var checker *DivergenceChecker

	BeforeEach(func() {
		checker = NewDivergenceChecker()
	})

	It("reports no fault when the retired value agrees with the cookie", func() {
		cookie := Cookie{Serial: 7, Vd: 42, Vs1: 10, Vs2: 32}
		Expect(checker.Check(7, 42, cookie)).To(BeNil())
	})

	It("reports a ModelingDivergence fault when the retired value disagrees", func() {
		cookie := Cookie{Serial: 7, Vd: 42, Vs1: 10, Vs2: 32}
		fault := checker.Check(7, 41, cookie)
		Expect(fault).ToNot(BeNil())
		Expect(fault.Kind).To(Equal(ModelingDivergence))
	})

	It("reports a fault when the serial disagrees", func() {
		cookie := Cookie{Serial: 7, Vd: 42, Vs1: 10, Vs2: 32}
		fault := checker.Check(8, 42, cookie)
		Expect(fault).ToNot(BeNil())
	})
})
