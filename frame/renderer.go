package frame

import (
	"github.com/pkg/errors"

	"vulkan-triangle/gpu"
)

// MaxCommandBuffers is the most command buffers the pool hands out between two
// resets. A frame uses exactly one.
const MaxCommandBuffers = 16

// Shaders holds the compiled vertex and fragment shader bytecode. Both stages
// start at a function called "main".
type Shaders struct {
	Vertex   []byte
	Fragment []byte
}

// Options tune the Renderer.
type Options struct {
	// Extent is the window size in pixels. It becomes the swapchain size when
	// the surface does not dictate one.
	Extent gpu.Extent

	// FenceFrames makes every frame wait until the GPU has finished the
	// previous frame's command buffer before resetting the command pool, and
	// gates the submission on the acquired image at color attachment output.
	FenceFrames bool

	// Clear is the color every frame starts from, clamped to 0..1. Nil clears
	// to opaque black.
	Clear *gpu.ClearColor

	// Observer, when set, is called for every state transition of the loop.
	Observer func(Transition)
}

// Renderer draws a single triangle into every swapchain image it acquires.
type Renderer struct {
	dev     gpu.Device
	opts    Options
	release releaseStack

	frameSemaphore   gpu.Semaphore
	presentSemaphore gpu.Semaphore
	inFlightFence    gpu.Fence

	commandPool gpu.CommandPool

	vertexShader   gpu.ShaderModule
	fragmentShader gpu.ShaderModule

	colorFormat  gpu.Format
	extent       gpu.Extent
	swapchain    gpu.Swapchain
	backbuffer   gpu.Backbuffer
	renderPass   gpu.RenderPass
	imageViews   []gpu.ImageView
	framebuffers []gpu.Framebuffer

	pipelineLayout gpu.PipelineLayout
	pipeline       gpu.Pipeline

	clear  gpu.ClearColor
	state  State
	frames uint64
	closed bool
}

// New creates every GPU object the frame loop needs. When it fails, whatever
// had been created is destroyed before returning.
func New(dev gpu.Device, shaders Shaders, opts Options) (*Renderer, error) {
	r := &Renderer{
		dev:   dev,
		opts:  opts,
		clear: defaultClearColor,
		state: Idle,
	}
	if opts.Clear != nil {
		r.clear = opts.Clear.Clamped()
	}

	if err := r.init(shaders); err != nil {
		r.release.releaseAll()
		return nil, err
	}

	return r, nil
}

// init creates the objects in the reverse of the order they must be destroyed
// in, see the package documentation.
func (r *Renderer) init(shaders Shaders) error {
	if err := r.createSyncObjects(); err != nil {
		return errors.Wrap(err, "createSyncObjects")
	}

	if err := r.createCommandPool(); err != nil {
		return errors.Wrap(err, "createCommandPool")
	}

	if err := r.createShaderModules(shaders); err != nil {
		return errors.Wrap(err, "createShaderModules")
	}

	if err := r.createSwapChain(); err != nil {
		return errors.Wrap(err, "createSwapChain")
	}

	if err := r.createRenderPass(); err != nil {
		return errors.Wrap(err, "createRenderPass")
	}

	if err := r.createFramebuffers(); err != nil {
		return errors.Wrap(err, "createFramebuffers")
	}

	if err := r.createGraphicsPipeline(); err != nil {
		return errors.Wrap(err, "createGraphicsPipeline")
	}

	gpu.Logger().Info("renderer ready",
		"format", r.colorFormat,
		"width", r.extent.Width,
		"height", r.extent.Height,
		"framebuffers", len(r.framebuffers),
		"fenced", r.inFlightFence != 0,
	)
	return nil
}

// Close waits for the device to finish its work and destroys every object the
// renderer created. Calling Close again does nothing.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.dev.WaitIdle()
	r.release.releaseAll()

	return errors.Wrap(err, "waiting for the device to become idle")
}

// State returns the current state of the frame loop.
func (r *Renderer) State() State {
	return r.state
}

// Frames returns the number of frames presented so far.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// ColorFormat returns the format of the swapchain images.
func (r *Renderer) ColorFormat() gpu.Format {
	return r.colorFormat
}

// Extent returns the size of the swapchain images.
func (r *Renderer) Extent() gpu.Extent {
	return r.extent
}

func (r *Renderer) createSyncObjects() error {
	if r.opts.FenceFrames {
		fence, err := r.dev.CreateFence(true)
		if err != nil {
			return errors.Wrap(err, "in flight fence")
		}
		r.inFlightFence = fence
		r.release.push("in flight fence", func() {
			r.dev.DestroyFence(fence)
		})
	}

	presentSemaphore, err := r.dev.CreateSemaphore()
	if err != nil {
		return errors.Wrap(err, "present semaphore")
	}

	frameSemaphore, err := r.dev.CreateSemaphore()
	if err != nil {
		r.dev.DestroySemaphore(presentSemaphore)
		return errors.Wrap(err, "frame semaphore")
	}

	r.frameSemaphore = frameSemaphore
	r.presentSemaphore = presentSemaphore
	r.release.push("semaphores", func() {
		r.dev.DestroySemaphore(frameSemaphore)
		r.dev.DestroySemaphore(presentSemaphore)
	})

	return nil
}

func (r *Renderer) createCommandPool() error {
	pool, err := r.dev.CreateCommandPool(MaxCommandBuffers)
	if err != nil {
		return err
	}

	r.commandPool = pool
	r.release.push("command pool", func() {
		r.dev.DestroyCommandPool(pool)
	})

	return nil
}

func (r *Renderer) createShaderModules(shaders Shaders) error {
	vertex, err := r.dev.CreateShaderModule(shaders.Vertex)
	if err != nil {
		return errors.Wrap(err, "vertex shader")
	}

	fragment, err := r.dev.CreateShaderModule(shaders.Fragment)
	if err != nil {
		r.dev.DestroyShaderModule(vertex)
		return errors.Wrap(err, "fragment shader")
	}

	r.vertexShader = vertex
	r.fragmentShader = fragment
	r.release.push("shader modules", func() {
		r.dev.DestroyShaderModule(vertex)
		r.dev.DestroyShaderModule(fragment)
	})

	return nil
}

func (r *Renderer) createSwapChain() error {
	caps, formats, err := r.dev.SurfaceCompatibility()
	if err != nil {
		return errors.Wrap(err, "querying surface compatibility")
	}

	colorFormat, err := ChooseColorFormat(formats)
	if err != nil {
		return err
	}

	config := SwapchainConfig(caps, colorFormat, r.opts.Extent)
	gpu.Logger().Debug("swapchain config",
		"format", config.Format,
		"images", config.ImageCount,
		"width", config.Extent.Width,
		"height", config.Extent.Height,
	)

	swapchain, backbuffer, err := r.dev.CreateSwapchain(config)
	if err != nil {
		return err
	}

	r.colorFormat = colorFormat
	r.extent = config.Extent
	r.swapchain = swapchain
	r.release.push("swapchain", func() {
		r.dev.DestroySwapchain(swapchain)
	})

	// Views and framebuffers over the backbuffer need the render pass.
	r.backbuffer = backbuffer

	return nil
}

func (r *Renderer) createRenderPass() error {
	pass, err := r.dev.CreateRenderPass(ColorRenderPass(r.colorFormat))
	if err != nil {
		return err
	}

	r.renderPass = pass
	r.release.push("render pass", func() {
		r.dev.DestroyRenderPass(pass)
	})

	return nil
}

func (r *Renderer) createFramebuffers() error {
	views, framebuffers, err := createFramebuffers(
		r.dev,
		r.backbuffer,
		r.renderPass,
		r.colorFormat,
		r.extent,
	)

	if len(views) > 0 {
		r.release.push("image views", func() {
			for _, view := range views {
				r.dev.DestroyImageView(view)
			}
		})
	}

	if len(framebuffers) > 0 {
		r.release.push("framebuffers", func() {
			for _, framebuffer := range framebuffers {
				r.dev.DestroyFramebuffer(framebuffer)
			}
		})
	}

	if err != nil {
		return err
	}

	r.imageViews = views
	r.framebuffers = framebuffers

	return nil
}

func (r *Renderer) createGraphicsPipeline() error {
	layout, err := r.dev.CreatePipelineLayout()
	if err != nil {
		return errors.Wrap(err, "pipeline layout")
	}

	r.pipelineLayout = layout
	r.release.push("pipeline layout", func() {
		r.dev.DestroyPipelineLayout(layout)
	})

	desc := TrianglePipeline(r.vertexShader, r.fragmentShader, layout, r.renderPass)
	pipeline, err := r.dev.CreateGraphicsPipeline(desc)
	if err != nil {
		return errors.Wrap(err, "pipeline")
	}

	r.pipeline = pipeline
	r.release.push("graphics pipeline", func() {
		r.dev.DestroyGraphicsPipeline(pipeline)
	})

	return nil
}
