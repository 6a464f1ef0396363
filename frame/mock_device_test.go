package frame

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"vulkan-triangle/gpu"
)

// mockDevice is an instrumented gpu.Device. Every call is appended to calls as
// "Method arg arg..." and every object remembers which objects it was built
// from, so destroying a dependency too early is caught as a violation.
type mockDevice struct {
	calls []string

	caps    gpu.SurfaceCapabilities
	formats []gpu.Format

	// images is the number of raw swapchain images. Zero makes the swapchain
	// return a single platform framebuffer instead.
	images int

	acquireIndex uint32
	failures     map[string]error

	submissions  []gpu.Submission
	submitFences []gpu.Fence
	presents     []mockPresent
	draws        []mockDraw
	clears       [][]gpu.ClearColor
	viewports    []gpu.Viewport
	scissors     []gpu.Rect
	renderPasses []gpu.RenderPassDesc
	pipelines    []gpu.GraphicsPipelineDesc
	swapchains   []gpu.SwapchainConfig

	poolMax      int
	poolAcquired int

	next       uint64
	live       map[uint64]string
	deps       map[uint64][]uint64
	violations []string
}

type mockPresent struct {
	index uint32
	wait  []gpu.Semaphore
}

type mockDraw struct {
	vertices  gpu.Range
	instances gpu.Range
}

func newMockDevice() *mockDevice {
	current := gpu.Extent{Width: 256, Height: 256}
	return &mockDevice{
		caps: gpu.SurfaceCapabilities{
			MinImageCount: 2,
			MaxImageCount: 8,
			CurrentExtent: &current,
			MinExtent:     gpu.Extent{Width: 1, Height: 1},
			MaxExtent:     gpu.Extent{Width: 4096, Height: 4096},
		},
		formats:  []gpu.Format{gpu.FormatBgra8Srgb},
		images:   3,
		failures: make(map[string]error),
		live:     make(map[uint64]string),
		deps:     make(map[uint64][]uint64),
	}
}

func (m *mockDevice) failOn(method string) error {
	err := errors.Errorf("mock %s failure", method)
	m.failures[method] = err
	return err
}

func (m *mockDevice) record(method string, args ...any) error {
	parts := []string{method}
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	m.calls = append(m.calls, strings.Join(parts, " "))
	return m.failures[method]
}

func (m *mockDevice) create(kind string, deps ...uint64) uint64 {
	m.next++
	m.live[m.next] = kind
	m.deps[m.next] = deps
	return m.next
}

func (m *mockDevice) destroy(handle uint64) {
	kind, ok := m.live[handle]
	if !ok {
		m.violations = append(m.violations, fmt.Sprintf("destroyed unknown object %d", handle))
		return
	}

	for other, deps := range m.deps {
		if _, alive := m.live[other]; !alive || other == handle {
			continue
		}
		for _, dep := range deps {
			if dep == handle {
				m.violations = append(m.violations, fmt.Sprintf(
					"%s %d destroyed while %s %d still uses it",
					kind, handle, m.live[other], other,
				))
			}
		}
	}

	delete(m.live, handle)
}

// methods returns the method names of the recorded calls.
func (m *mockDevice) methods() []string {
	names := make([]string, 0, len(m.calls))
	for _, call := range m.calls {
		names = append(names, strings.Fields(call)[0])
	}
	return names
}

// methodsAfter returns the method names recorded after the first n calls.
func (m *mockDevice) methodsAfter(n int) []string {
	return m.methods()[n:]
}

func (m *mockDevice) count(method string) int {
	total := 0
	for _, name := range m.methods() {
		if name == method {
			total++
		}
	}
	return total
}

func (m *mockDevice) SurfaceCompatibility() (gpu.SurfaceCapabilities, []gpu.Format, error) {
	err := m.record("SurfaceCompatibility")
	return m.caps, m.formats, err
}

func (m *mockDevice) CreateCommandPool(maxBuffers int) (gpu.CommandPool, error) {
	if err := m.record("CreateCommandPool", maxBuffers); err != nil {
		return 0, err
	}
	m.poolMax = maxBuffers
	return gpu.CommandPool(m.create("command pool")), nil
}

func (m *mockDevice) ResetCommandPool(pool gpu.CommandPool) error {
	m.poolAcquired = 0
	return m.record("ResetCommandPool", pool)
}

func (m *mockDevice) AcquireCommandBuffer(pool gpu.CommandPool) (gpu.CommandBuffer, error) {
	if err := m.record("AcquireCommandBuffer", pool); err != nil {
		return 0, err
	}
	if m.poolAcquired >= m.poolMax {
		return 0, errors.New("mock command pool exhausted")
	}
	m.poolAcquired++
	m.next++
	return gpu.CommandBuffer(m.next), nil
}

func (m *mockDevice) DestroyCommandPool(pool gpu.CommandPool) {
	m.record("DestroyCommandPool", pool)
	m.destroy(uint64(pool))
}

func (m *mockDevice) CreateShaderModule(code []byte) (gpu.ShaderModule, error) {
	if err := m.record("CreateShaderModule", len(code)); err != nil {
		return 0, err
	}
	return gpu.ShaderModule(m.create("shader module")), nil
}

func (m *mockDevice) DestroyShaderModule(module gpu.ShaderModule) {
	m.record("DestroyShaderModule", module)
	m.destroy(uint64(module))
}

func (m *mockDevice) CreateRenderPass(desc gpu.RenderPassDesc) (gpu.RenderPass, error) {
	if err := m.record("CreateRenderPass"); err != nil {
		return 0, err
	}
	m.renderPasses = append(m.renderPasses, desc)
	return gpu.RenderPass(m.create("render pass")), nil
}

func (m *mockDevice) DestroyRenderPass(pass gpu.RenderPass) {
	m.record("DestroyRenderPass", pass)
	m.destroy(uint64(pass))
}

func (m *mockDevice) CreatePipelineLayout() (gpu.PipelineLayout, error) {
	if err := m.record("CreatePipelineLayout"); err != nil {
		return 0, err
	}
	return gpu.PipelineLayout(m.create("pipeline layout")), nil
}

func (m *mockDevice) DestroyPipelineLayout(layout gpu.PipelineLayout) {
	m.record("DestroyPipelineLayout", layout)
	m.destroy(uint64(layout))
}

func (m *mockDevice) CreateGraphicsPipeline(desc gpu.GraphicsPipelineDesc) (gpu.Pipeline, error) {
	if err := m.record("CreateGraphicsPipeline"); err != nil {
		return 0, err
	}
	m.pipelines = append(m.pipelines, desc)

	deps := []uint64{
		uint64(desc.Layout),
		uint64(desc.RenderPass),
		uint64(desc.Shaders.Vertex.Module),
	}
	if desc.Shaders.Fragment != nil {
		deps = append(deps, uint64(desc.Shaders.Fragment.Module))
	}
	return gpu.Pipeline(m.create("pipeline", deps...)), nil
}

func (m *mockDevice) DestroyGraphicsPipeline(pipeline gpu.Pipeline) {
	m.record("DestroyGraphicsPipeline", pipeline)
	m.destroy(uint64(pipeline))
}

func (m *mockDevice) CreateSwapchain(config gpu.SwapchainConfig) (gpu.Swapchain, gpu.Backbuffer, error) {
	if err := m.record("CreateSwapchain", config.Format); err != nil {
		return 0, gpu.Backbuffer{}, err
	}
	m.swapchains = append(m.swapchains, config)

	swapchain := m.create("swapchain")
	if m.images == 0 {
		fb := gpu.Framebuffer(m.create("framebuffer", swapchain))
		return gpu.Swapchain(swapchain), gpu.Backbuffer{Framebuffer: fb}, nil
	}

	images := make([]gpu.Image, m.images)
	for i := range images {
		// Swapchain images are owned by the swapchain, they are never
		// destroyed on their own.
		m.next++
		images[i] = gpu.Image(m.next)
		m.deps[m.next] = []uint64{swapchain}
	}
	return gpu.Swapchain(swapchain), gpu.Backbuffer{Images: images}, nil
}

func (m *mockDevice) DestroySwapchain(swapchain gpu.Swapchain) {
	m.record("DestroySwapchain", swapchain)
	m.destroy(uint64(swapchain))
}

func (m *mockDevice) CreateImageView(image gpu.Image, desc gpu.ImageViewDesc) (gpu.ImageView, error) {
	if err := m.record("CreateImageView", image, desc.Format); err != nil {
		return 0, err
	}
	return gpu.ImageView(m.create("image view", m.deps[uint64(image)]...)), nil
}

func (m *mockDevice) DestroyImageView(view gpu.ImageView) {
	m.record("DestroyImageView", view)
	m.destroy(uint64(view))
}

func (m *mockDevice) CreateFramebuffer(
	pass gpu.RenderPass,
	views []gpu.ImageView,
	extent gpu.Extent,
) (gpu.Framebuffer, error) {
	if err := m.record("CreateFramebuffer", pass, len(views), extent.Width, extent.Height); err != nil {
		return 0, err
	}

	deps := []uint64{uint64(pass)}
	for _, view := range views {
		deps = append(deps, uint64(view))
	}
	return gpu.Framebuffer(m.create("framebuffer", deps...)), nil
}

func (m *mockDevice) DestroyFramebuffer(framebuffer gpu.Framebuffer) {
	m.record("DestroyFramebuffer", framebuffer)
	m.destroy(uint64(framebuffer))
}

func (m *mockDevice) CreateSemaphore() (gpu.Semaphore, error) {
	if err := m.record("CreateSemaphore"); err != nil {
		return 0, err
	}
	return gpu.Semaphore(m.create("semaphore")), nil
}

func (m *mockDevice) DestroySemaphore(semaphore gpu.Semaphore) {
	m.record("DestroySemaphore", semaphore)
	m.destroy(uint64(semaphore))
}

func (m *mockDevice) CreateFence(signaled bool) (gpu.Fence, error) {
	if err := m.record("CreateFence", signaled); err != nil {
		return 0, err
	}
	return gpu.Fence(m.create("fence")), nil
}

func (m *mockDevice) WaitForFence(fence gpu.Fence, timeout uint64) error {
	return m.record("WaitForFence", fence)
}

func (m *mockDevice) ResetFence(fence gpu.Fence) error {
	return m.record("ResetFence", fence)
}

func (m *mockDevice) DestroyFence(fence gpu.Fence) {
	m.record("DestroyFence", fence)
	m.destroy(uint64(fence))
}

func (m *mockDevice) AcquireImage(
	swapchain gpu.Swapchain,
	timeout uint64,
	signal gpu.Semaphore,
) (uint32, error) {
	if err := m.record("AcquireImage", swapchain, signal); err != nil {
		return 0, err
	}
	return m.acquireIndex, nil
}

func (m *mockDevice) Submit(submission gpu.Submission, fence gpu.Fence) error {
	if err := m.record("Submit"); err != nil {
		return err
	}
	m.submissions = append(m.submissions, submission)
	m.submitFences = append(m.submitFences, fence)
	return nil
}

func (m *mockDevice) Present(swapchain gpu.Swapchain, index uint32, wait []gpu.Semaphore) error {
	if err := m.record("Present", swapchain, index); err != nil {
		return err
	}
	m.presents = append(m.presents, mockPresent{index: index, wait: wait})
	return nil
}

func (m *mockDevice) WaitIdle() error {
	return m.record("WaitIdle")
}

func (m *mockDevice) BeginCommandBuffer(cb gpu.CommandBuffer) error {
	return m.record("BeginCommandBuffer", cb)
}

func (m *mockDevice) SetViewport(cb gpu.CommandBuffer, viewport gpu.Viewport) {
	m.record("SetViewport", cb)
	m.viewports = append(m.viewports, viewport)
}

func (m *mockDevice) SetScissor(cb gpu.CommandBuffer, scissor gpu.Rect) {
	m.record("SetScissor", cb)
	m.scissors = append(m.scissors, scissor)
}

func (m *mockDevice) BindGraphicsPipeline(cb gpu.CommandBuffer, pipeline gpu.Pipeline) {
	m.record("BindGraphicsPipeline", cb, pipeline)
}

func (m *mockDevice) BeginRenderPass(
	cb gpu.CommandBuffer,
	pass gpu.RenderPass,
	framebuffer gpu.Framebuffer,
	area gpu.Rect,
	clear []gpu.ClearColor,
) {
	m.record("BeginRenderPass", cb, pass, framebuffer)
	m.clears = append(m.clears, clear)
}

func (m *mockDevice) Draw(cb gpu.CommandBuffer, vertices, instances gpu.Range) {
	m.record("Draw", cb)
	m.draws = append(m.draws, mockDraw{vertices: vertices, instances: instances})
}

func (m *mockDevice) EndRenderPass(cb gpu.CommandBuffer) {
	m.record("EndRenderPass", cb)
}

func (m *mockDevice) EndCommandBuffer(cb gpu.CommandBuffer) error {
	return m.record("EndCommandBuffer", cb)
}

// scriptedEvents returns one batch of events per poll. Once the script runs out
// it keeps asking the loop to close.
type scriptedEvents struct {
	batches [][]Event
	polls   int
}

func (s *scriptedEvents) PollEvents() []Event {
	s.polls++
	if len(s.batches) == 0 {
		return []Event{CloseRequested{}}
	}

	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch
}

// idleFrames scripts n polls without events.
func idleFrames(n int) [][]Event {
	return make([][]Event, n)
}

var _ gpu.Device = (*mockDevice)(nil)
