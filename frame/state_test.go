package frame

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("State", func() {
	DescribeTable("transitions",
		func(from, to State, allowed bool) {
			Expect(CanTransition(from, to)).To(Equal(allowed))
		},
		Entry("Idle to Acquiring", Idle, Acquiring, true),
		Entry("Idle to Quitting", Idle, Quitting, true),
		Entry("Acquiring to Recording", Acquiring, Recording, true),
		Entry("Recording to Submitted", Recording, Submitted, true),
		Entry("Submitted to Presenting", Submitted, Presenting, true),
		Entry("Presenting to Idle", Presenting, Idle, true),
		Entry("Idle to Recording", Idle, Recording, false),
		Entry("Acquiring to Quitting", Acquiring, Quitting, false),
		Entry("Recording to Presenting", Recording, Presenting, false),
		Entry("Presenting to Acquiring", Presenting, Acquiring, false),
		Entry("Quitting to Idle", Quitting, Idle, false),
		Entry("Quitting to Acquiring", Quitting, Acquiring, false),
	)

	It("has readable names", func() {
		Expect(Submitted.String()).To(Equal("Submitted"))
		Expect(State(42).String()).To(Equal("Unknown"))
	})
})

var _ = Describe("quitRequested", func() {
	DescribeTable("events",
		func(events []Event, quit bool) {
			Expect(quitRequested(events)).To(Equal(quit))
		},
		Entry("none", []Event{}, false),
		Entry("close request", []Event{CloseRequested{}}, true),
		Entry("Escape pressed", []Event{KeyboardInput{Key: KeyEscape, State: Pressed}}, true),
		Entry("Escape released", []Event{KeyboardInput{Key: KeyEscape, State: Released}}, false),
		Entry("other key pressed", []Event{KeyboardInput{Key: KeyUnknown, State: Pressed}}, false),
		Entry("unknown event", []Event{resized{}}, false),
		Entry("close among others", []Event{resized{}, CloseRequested{}, KeyboardInput{}}, true),
	)
})

var _ = Describe("releaseStack", func() {
	It("releases newest first and only once", func() {
		var released []string
		var stack releaseStack

		for _, name := range []string{"a", "b", "c"} {
			name := name
			stack.push(name, func() {
				released = append(released, name)
			})
		}
		Expect(stack.len()).To(Equal(3))

		stack.releaseAll()
		stack.releaseAll()

		Expect(released).To(Equal([]string{"c", "b", "a"}))
		Expect(stack.len()).To(BeZero())
	})
})
