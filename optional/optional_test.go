package optional_test

import (
	"vulkan-triangle/optional"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Optional", func() {
	It("is empty by default", func() {
		var o optional.Optional[uint32]
		Expect(o.HasValue()).To(BeFalse())
		Expect(func() { o.Get() }).To(Panic())
	})

	It("holds a zero value once set", func() {
		var o optional.Optional[uint32]
		o.Set(0)
		Expect(o.HasValue()).To(BeTrue())
		Expect(o.Get()).To(Equal(uint32(0)))
	})

	It("keeps the last value set", func() {
		var o optional.Optional[string]
		o.Set("first")
		o.Set("main")
		Expect(o.Get()).To(Equal("main"))
	})
})
