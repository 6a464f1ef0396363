package queues_test

import (
	"github.com/pkg/errors"

	"vulkan-triangle/queues"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Queue family selection", func() {
	It("picks the first family which supports graphics and presentation", func() {
		families := []queues.Family{
			{Index: 0, Graphics: true},
			{Index: 1, Present: true},
			{Index: 2, Graphics: true, Present: true},
			{Index: 3, Graphics: true, Present: true},
		}

		index, err := queues.Select(families)
		Expect(err).NotTo(HaveOccurred())
		Expect(index).To(Equal(uint32(2)))
	})

	It("records separate graphics and present families on the way", func() {
		indices := queues.Find([]queues.Family{
			{Index: 0, Graphics: true},
			{Index: 1, Present: true},
		})

		Expect(indices.Graphics.Get()).To(Equal(uint32(0)))
		Expect(indices.Present.Get()).To(Equal(uint32(1)))
		Expect(indices.IsComplete()).To(BeFalse())
	})

	It("fails when the capabilities live in different families", func() {
		_, err := queues.Select([]queues.Family{
			{Index: 0, Graphics: true},
			{Index: 1, Present: true},
		})
		Expect(errors.Cause(err)).To(Equal(queues.ErrNoQueueFamily))
	})

	It("fails when there are no families at all", func() {
		_, err := queues.Select(nil)
		Expect(errors.Cause(err)).To(Equal(queues.ErrNoQueueFamily))
	})
})
