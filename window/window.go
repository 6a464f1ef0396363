// Package window opens the GLFW window the renderer draws into and turns its
// callbacks into frame events.
package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/frame"
	"vulkan-triangle/gpu"
)

// Window is a fixed size GLFW window without a client API. It must be
// created, polled and destroyed on the main thread.
type Window struct {
	window  *glfw.Window
	pending []frame.Event
}

// New initializes GLFW and opens a non-resizable window.
func New(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw.Init")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "creating window")
	}

	w := &Window{window: window}
	window.SetKeyCallback(w.onKey)
	window.SetCloseCallback(w.onClose)

	return w, nil
}

// Destroy closes the window and shuts GLFW down.
func (w *Window) Destroy() {
	w.window.Destroy()
	glfw.Terminate()
}

// PollEvents processes pending window system events and returns the ones
// reported since the previous call.
func (w *Window) PollEvents() []frame.Event {
	glfw.PollEvents()

	events := w.pending
	w.pending = nil
	return events
}

// Extent returns the framebuffer size in pixels.
func (w *Window) Extent() gpu.Extent {
	width, height := w.window.GetFramebufferSize()
	return gpu.Extent{Width: uint32(width), Height: uint32(height)}
}

func (w *Window) GetInstanceProcAddress() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.GetRequiredInstanceExtensions()
}

func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surfacePtr, err := w.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "cannot create surface within GLFW window")
	}

	return vk.SurfaceFromPointer(surfacePtr), nil
}

func (w *Window) onKey(
	_ *glfw.Window,
	key glfw.Key,
	_ int,
	action glfw.Action,
	_ glfw.ModifierKey,
) {
	w.pending = append(w.pending, keyboardInput(key, action))
}

func (w *Window) onClose(_ *glfw.Window) {
	w.pending = append(w.pending, frame.CloseRequested{})
}

func keyboardInput(key glfw.Key, action glfw.Action) frame.KeyboardInput {
	input := frame.KeyboardInput{
		Key:   frame.KeyUnknown,
		State: frame.Released,
	}

	if key == glfw.KeyEscape {
		input.Key = frame.KeyEscape
	}

	if action == glfw.Press || action == glfw.Repeat {
		input.State = frame.Pressed
	}

	return input
}
