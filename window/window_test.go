package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"vulkan-triangle/frame"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("keyboardInput", func() {
	DescribeTable("translates GLFW keys",
		func(key glfw.Key, action glfw.Action, expected frame.KeyboardInput) {
			Expect(keyboardInput(key, action)).To(Equal(expected))
		},
		Entry("Escape down", glfw.KeyEscape, glfw.Press,
			frame.KeyboardInput{Key: frame.KeyEscape, State: frame.Pressed}),
		Entry("Escape held", glfw.KeyEscape, glfw.Repeat,
			frame.KeyboardInput{Key: frame.KeyEscape, State: frame.Pressed}),
		Entry("Escape up", glfw.KeyEscape, glfw.Release,
			frame.KeyboardInput{Key: frame.KeyEscape, State: frame.Released}),
		Entry("Enter down", glfw.KeyEnter, glfw.Press,
			frame.KeyboardInput{Key: frame.KeyUnknown, State: frame.Pressed}),
		Entry("Space up", glfw.KeySpace, glfw.Release,
			frame.KeyboardInput{Key: frame.KeyUnknown, State: frame.Released}),
		Entry("other key", glfw.KeyA, glfw.Press,
			frame.KeyboardInput{Key: frame.KeyUnknown, State: frame.Pressed}),
	)
})

var _ = Describe("Window callbacks", func() {
	It("buffers events until they are taken", func() {
		w := &Window{}
		w.onKey(nil, glfw.KeyEscape, 0, glfw.Press, 0)
		w.onClose(nil)

		Expect(w.pending).To(Equal([]frame.Event{
			frame.KeyboardInput{Key: frame.KeyEscape, State: frame.Pressed},
			frame.CloseRequested{},
		}))
	})
})
