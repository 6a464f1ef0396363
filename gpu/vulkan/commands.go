package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/gpu"
)

// ErrCommandPoolExhausted is returned when every command buffer of a pool is
// in use and the pool has reached its size limit.
var ErrCommandPoolExhausted = errors.New("command pool exhausted")

// commandPool hands out primary command buffers. Buffers are allocated lazily
// up to max and only come back through a pool reset.
type commandPool struct {
	pool    vk.CommandPool
	max     int
	buffers []gpu.CommandBuffer
	inUse   int
}

type commandBuffer struct {
	cmd vk.CommandBuffer

	// err is the first recording problem since BeginCommandBuffer.
	err error
}

func (cb *commandBuffer) fail(err error) {
	if cb.err == nil {
		cb.err = err
	}
}

// recording returns the buffer behind handle unless it is unknown or a
// previous command already failed. Nothing more is recorded after a failure.
func (d *Device) recording(handle gpu.CommandBuffer) (*commandBuffer, bool) {
	cb, ok := d.commandBuffers.get(handle)
	if !ok || cb.err != nil {
		return nil, false
	}
	return cb, true
}

// CreateCommandPool creates a pool on the device queue family. The pool has
// no creation flags, so its buffers are recycled by ResetCommandPool only.
func (d *Device) CreateCommandPool(maxBuffers int) (gpu.CommandPool, error) {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.queueFamily,
	}

	var pool vk.CommandPool
	res := vk.CreateCommandPool(d.device, &poolInfo, nil, &pool)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create command pool")
	}

	return d.pools.insert(&commandPool{pool: pool, max: maxBuffers}), nil
}

func (d *Device) ResetCommandPool(handle gpu.CommandPool) error {
	pool, ok := d.pools.get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "command pool %d", handle)
	}

	if err := vk.Error(vk.ResetCommandPool(d.device, pool.pool, 0)); err != nil {
		return errors.Wrap(err, "failed to reset command pool")
	}
	pool.inUse = 0

	return nil
}

func (d *Device) AcquireCommandBuffer(handle gpu.CommandPool) (gpu.CommandBuffer, error) {
	pool, ok := d.pools.get(handle)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "command pool %d", handle)
	}

	if pool.inUse < len(pool.buffers) {
		buffer := pool.buffers[pool.inUse]
		pool.inUse++
		return buffer, nil
	}

	if len(pool.buffers) >= pool.max {
		return 0, errors.Wrapf(ErrCommandPoolExhausted, "all %d buffers in use", pool.max)
	}

	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}

	commandBuffers := make([]vk.CommandBuffer, 1)
	res := vk.AllocateCommandBuffers(d.device, &allocInfo, commandBuffers)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to allocate command buffer")
	}

	buffer := d.commandBuffers.insert(&commandBuffer{cmd: commandBuffers[0]})
	pool.buffers = append(pool.buffers, buffer)
	pool.inUse++

	gpu.Logger().Debug("allocated command buffer", "pool", handle, "buffers", len(pool.buffers))
	return buffer, nil
}

// DestroyCommandPool destroys the pool together with every buffer it handed
// out.
func (d *Device) DestroyCommandPool(handle gpu.CommandPool) {
	pool, ok := d.pools.remove(handle)
	if !ok {
		return
	}

	for _, buffer := range pool.buffers {
		d.commandBuffers.remove(buffer)
	}
	vk.DestroyCommandPool(d.device, pool.pool, nil)
}

func (d *Device) BeginCommandBuffer(handle gpu.CommandBuffer) error {
	cb, ok := d.commandBuffers.get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "command buffer %d", handle)
	}
	cb.err = nil

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}

	res := vk.BeginCommandBuffer(cb.cmd, &beginInfo)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "cannot add begin command to the buffer")
	}

	return nil
}

func (d *Device) SetViewport(handle gpu.CommandBuffer, viewport gpu.Viewport) {
	if cb, ok := d.recording(handle); ok {
		vk.CmdSetViewport(cb.cmd, 0, 1, []vk.Viewport{convertViewport(viewport)})
	}
}

func (d *Device) SetScissor(handle gpu.CommandBuffer, scissor gpu.Rect) {
	if cb, ok := d.recording(handle); ok {
		vk.CmdSetScissor(cb.cmd, 0, 1, []vk.Rect2D{convertRect(scissor)})
	}
}

func (d *Device) BindGraphicsPipeline(handle gpu.CommandBuffer, pipeline gpu.Pipeline) {
	cb, ok := d.recording(handle)
	if !ok {
		return
	}

	vkPipeline, ok := d.pipelines.get(pipeline)
	if !ok {
		cb.fail(errors.Wrapf(ErrUnknownHandle, "pipeline %d", pipeline))
		return
	}

	vk.CmdBindPipeline(cb.cmd, vk.PipelineBindPointGraphics, vkPipeline)
}

func (d *Device) BeginRenderPass(
	handle gpu.CommandBuffer,
	pass gpu.RenderPass,
	framebuffer gpu.Framebuffer,
	area gpu.Rect,
	clear []gpu.ClearColor,
) {
	cb, ok := d.recording(handle)
	if !ok {
		return
	}

	renderPass, ok := d.renderPasses.get(pass)
	if !ok {
		cb.fail(errors.Wrapf(ErrUnknownHandle, "render pass %d", pass))
		return
	}

	fb, ok := d.framebuffers.get(framebuffer)
	if !ok {
		cb.fail(errors.Wrapf(ErrUnknownHandle, "framebuffer %d", framebuffer))
		return
	}

	clearValues := convertClearColors(clear)
	renderPassInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      renderPass,
		Framebuffer:     fb,
		RenderArea:      convertRect(area),
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}

	vk.CmdBeginRenderPass(cb.cmd, &renderPassInfo, vk.SubpassContentsInline)
}

func (d *Device) Draw(handle gpu.CommandBuffer, vertices, instances gpu.Range) {
	if cb, ok := d.recording(handle); ok {
		vk.CmdDraw(cb.cmd, vertices.Count(), instances.Count(), vertices.Start, instances.Start)
	}
}

func (d *Device) EndRenderPass(handle gpu.CommandBuffer) {
	if cb, ok := d.recording(handle); ok {
		vk.CmdEndRenderPass(cb.cmd)
	}
}

func (d *Device) EndCommandBuffer(handle gpu.CommandBuffer) error {
	cb, ok := d.commandBuffers.get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "command buffer %d", handle)
	}

	if err := vk.Error(vk.EndCommandBuffer(cb.cmd)); err != nil {
		return errors.Wrap(err, "recording commands to buffer failed")
	}

	return cb.err
}
