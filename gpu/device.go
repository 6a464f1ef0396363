package gpu

// Infinite is an unbounded timeout for the blocking Device calls.
const Infinite = ^uint64(0)

// Commands records work into a command buffer. Calls between
// BeginCommandBuffer and EndCommandBuffer never fail on their own; the first
// problem is reported by EndCommandBuffer.
type Commands interface {
	BeginCommandBuffer(cb CommandBuffer) error
	SetViewport(cb CommandBuffer, viewport Viewport)
	SetScissor(cb CommandBuffer, scissor Rect)
	BindGraphicsPipeline(cb CommandBuffer, pipeline Pipeline)

	// BeginRenderPass starts an inline render pass on framebuffer.
	BeginRenderPass(
		cb CommandBuffer,
		pass RenderPass,
		framebuffer Framebuffer,
		area Rect,
		clear []ClearColor,
	)
	Draw(cb CommandBuffer, vertices, instances Range)
	EndRenderPass(cb CommandBuffer)
	EndCommandBuffer(cb CommandBuffer) error
}

// Device is a logical GPU device with one queue which supports both graphics
// work and presentation to the window surface. All methods must be called from
// a single goroutine.
type Device interface {
	Commands

	// SurfaceCompatibility reports the surface limits and the formats it
	// supports. A nil format list means the surface has no preference.
	SurfaceCompatibility() (SurfaceCapabilities, []Format, error)

	// CreateCommandPool creates a pool which hands out at most maxBuffers
	// primary command buffers between resets.
	CreateCommandPool(maxBuffers int) (CommandPool, error)

	// ResetCommandPool returns every buffer to the pool. Buffers acquired
	// before the reset must not be used again.
	ResetCommandPool(pool CommandPool) error
	AcquireCommandBuffer(pool CommandPool) (CommandBuffer, error)
	DestroyCommandPool(pool CommandPool)

	CreateShaderModule(code []byte) (ShaderModule, error)
	DestroyShaderModule(module ShaderModule)

	CreateRenderPass(desc RenderPassDesc) (RenderPass, error)
	DestroyRenderPass(pass RenderPass)

	// CreatePipelineLayout creates a layout with no descriptor sets and no push
	// constants.
	CreatePipelineLayout() (PipelineLayout, error)
	DestroyPipelineLayout(layout PipelineLayout)

	CreateGraphicsPipeline(desc GraphicsPipelineDesc) (Pipeline, error)
	DestroyGraphicsPipeline(pipeline Pipeline)

	CreateSwapchain(config SwapchainConfig) (Swapchain, Backbuffer, error)
	DestroySwapchain(swapchain Swapchain)

	CreateImageView(image Image, desc ImageViewDesc) (ImageView, error)
	DestroyImageView(view ImageView)

	CreateFramebuffer(pass RenderPass, views []ImageView, extent Extent) (Framebuffer, error)
	DestroyFramebuffer(framebuffer Framebuffer)

	CreateSemaphore() (Semaphore, error)
	DestroySemaphore(semaphore Semaphore)

	CreateFence(signaled bool) (Fence, error)
	WaitForFence(fence Fence, timeout uint64) error
	ResetFence(fence Fence) error
	DestroyFence(fence Fence)

	// AcquireImage returns the index of the next swapchain image. signal is
	// signaled once the image may be rendered into.
	AcquireImage(swapchain Swapchain, timeout uint64, signal Semaphore) (uint32, error)

	// Submit queues the submission. fence may be zero.
	Submit(submission Submission, fence Fence) error

	// Present queues image index of swapchain for display after every wait
	// semaphore is signaled.
	Present(swapchain Swapchain, index uint32, wait []Semaphore) error

	// WaitIdle blocks until the device has finished all submitted work.
	WaitIdle() error
}
