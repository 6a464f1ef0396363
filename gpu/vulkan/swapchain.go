package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/gpu"
)

type swapchain struct {
	handle vk.Swapchain
	images []gpu.Image
}

// SurfaceCompatibility queries the surface limits and formats for the chosen
// adapter.
func (d *Device) SurfaceCompatibility() (gpu.SurfaceCapabilities, []gpu.Format, error) {
	var capabilities vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(d.adapter, d.surface, &capabilities)
	if err := vk.Error(res); err != nil {
		return gpu.SurfaceCapabilities{}, nil,
			errors.Wrap(err, "failed to query device surface capabilities")
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()
	d.transform = capabilities.CurrentTransform

	var formatCount uint32
	res = vk.GetPhysicalDeviceSurfaceFormats(d.adapter, d.surface, &formatCount, nil)
	if err := vk.Error(res); err != nil {
		return gpu.SurfaceCapabilities{}, nil,
			errors.Wrap(err, "failed to query device surface formats")
	}

	reported := make([]vk.SurfaceFormat, formatCount)
	if formatCount != 0 {
		res = vk.GetPhysicalDeviceSurfaceFormats(d.adapter, d.surface, &formatCount, reported)
		if err := vk.Error(res); err != nil {
			return gpu.SurfaceCapabilities{}, nil,
				errors.Wrap(err, "failed to enumerate device surface formats")
		}
		for i := range reported {
			reported[i].Deref()
		}
	}

	formats, colorSpaces := surfaceFormats(reported)
	if formats != nil && len(formats) == 0 {
		gpu.Logger().Warn("surface offers no known formats", "reported", formatCount)
	}
	d.colorSpaces = colorSpaces

	return capabilitiesFromVk(capabilities), formats, nil
}

// CreateSwapchain creates a swapchain on the window surface and returns its
// raw images. Images are shared by nothing but the single device queue.
func (d *Device) CreateSwapchain(config gpu.SwapchainConfig) (gpu.Swapchain, gpu.Backbuffer, error) {
	colorSpace, ok := d.colorSpaces[config.Format]
	if !ok {
		colorSpace = vk.ColorSpaceSrgbNonlinear
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          d.surface,
		MinImageCount:    config.ImageCount,
		ImageColorSpace:  colorSpace,
		ImageFormat:      convertFormat(config.Format),
		ImageExtent:      convertExtent(config.Extent),
		ImageArrayLayers: config.ImageLayers,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     d.transform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
	}

	var handle vk.Swapchain
	res := vk.CreateSwapchain(d.device, &createInfo, nil, &handle)
	if err := vk.Error(res); err != nil {
		return 0, gpu.Backbuffer{}, errors.Wrap(err, "failed to create swap chain")
	}

	var imagesCount uint32
	res = vk.GetSwapchainImages(d.device, handle, &imagesCount, nil)
	if err := vk.Error(res); err != nil {
		vk.DestroySwapchain(d.device, handle, nil)
		return 0, gpu.Backbuffer{}, errors.Wrap(err, "failed to count swap chain images")
	}

	vkImages := make([]vk.Image, imagesCount)
	res = vk.GetSwapchainImages(d.device, handle, &imagesCount, vkImages)
	if err := vk.Error(res); err != nil {
		vk.DestroySwapchain(d.device, handle, nil)
		return 0, gpu.Backbuffer{}, errors.Wrap(err, "failed to get swap chain images")
	}

	sc := &swapchain{handle: handle}
	for _, image := range vkImages {
		sc.images = append(sc.images, d.images.insert(image))
	}

	gpu.Logger().Info("swapchain created",
		"format", config.Format,
		"images", len(sc.images),
		"width", config.Extent.Width,
		"height", config.Extent.Height,
	)

	return d.swapchains.insert(sc), gpu.Backbuffer{Images: sc.images}, nil
}

// DestroySwapchain destroys the swapchain. Its images go with it.
func (d *Device) DestroySwapchain(handle gpu.Swapchain) {
	sc, ok := d.swapchains.remove(handle)
	if !ok {
		return
	}

	for _, image := range sc.images {
		d.images.remove(image)
	}
	vk.DestroySwapchain(d.device, sc.handle, nil)
}

// AcquireImage returns the index of the next presentable image. A suboptimal
// swapchain still delivers an image and is only logged.
func (d *Device) AcquireImage(
	handle gpu.Swapchain,
	timeout uint64,
	signal gpu.Semaphore,
) (uint32, error) {
	sc, ok := d.swapchains.get(handle)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "swapchain %d", handle)
	}

	semaphore, ok := d.semaphores.get(signal)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "semaphore %d", signal)
	}

	var imageIndex uint32
	res := vk.AcquireNextImage(
		d.device,
		sc.handle,
		timeout,
		semaphore,
		vk.Fence(vk.NullHandle),
		&imageIndex,
	)
	if res == vk.Suboptimal {
		gpu.Logger().Warn("acquired image from a suboptimal swapchain", "image", imageIndex)
		return imageIndex, nil
	}
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "acquiring next image")
	}

	return imageIndex, nil
}

func (d *Device) Submit(submission gpu.Submission, fence gpu.Fence) error {
	waitSemaphores := make([]vk.Semaphore, 0, len(submission.Wait))
	waitStages := make([]vk.PipelineStageFlags, 0, len(submission.Wait))
	for _, wait := range submission.Wait {
		semaphore, ok := d.semaphores.get(wait.Semaphore)
		if !ok {
			return errors.Wrapf(ErrUnknownHandle, "wait semaphore %d", wait.Semaphore)
		}
		waitSemaphores = append(waitSemaphores, semaphore)
		waitStages = append(waitStages, convertStages(wait.Stages))
	}

	signalSemaphores, err := d.lookupSemaphores(submission.Signal)
	if err != nil {
		return errors.Wrap(err, "signal semaphores")
	}

	commandBuffers := make([]vk.CommandBuffer, 0, len(submission.CommandBuffers))
	for _, handle := range submission.CommandBuffers {
		cb, ok := d.commandBuffers.get(handle)
		if !ok {
			return errors.Wrapf(ErrUnknownHandle, "command buffer %d", handle)
		}
		commandBuffers = append(commandBuffers, cb.cmd)
	}

	vkFence := vk.Fence(vk.NullHandle)
	if fence != 0 {
		f, ok := d.fences.get(fence)
		if !ok {
			return errors.Wrapf(ErrUnknownHandle, "fence %d", fence)
		}
		vkFence = f
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(waitSemaphores)),
		PWaitSemaphores:      waitSemaphores,
		PWaitDstStageMask:    waitStages,
		CommandBufferCount:   uint32(len(commandBuffers)),
		PCommandBuffers:      commandBuffers,
		SignalSemaphoreCount: uint32(len(signalSemaphores)),
		PSignalSemaphores:    signalSemaphores,
	}

	res := vk.QueueSubmit(d.queue, 1, []vk.SubmitInfo{submitInfo}, vkFence)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "queue submit error")
	}

	return nil
}

// Present queues the image for display on the device queue. Like
// AcquireImage it treats a suboptimal swapchain as success.
func (d *Device) Present(handle gpu.Swapchain, index uint32, wait []gpu.Semaphore) error {
	sc, ok := d.swapchains.get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "swapchain %d", handle)
	}

	waitSemaphores, err := d.lookupSemaphores(wait)
	if err != nil {
		return errors.Wrap(err, "wait semaphores")
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waitSemaphores)),
		PWaitSemaphores:    waitSemaphores,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.handle},
		PImageIndices:      []uint32{index},
	}

	res := vk.QueuePresent(d.queue, &presentInfo)
	if res == vk.Suboptimal {
		gpu.Logger().Warn("presented to a suboptimal swapchain", "image", index)
		return nil
	}

	return errors.Wrap(vk.Error(res), "queue present error")
}

func (d *Device) WaitIdle() error {
	return errors.Wrap(vk.Error(vk.DeviceWaitIdle(d.device)), "device wait idle")
}

func (d *Device) lookupSemaphores(handles []gpu.Semaphore) ([]vk.Semaphore, error) {
	semaphores := make([]vk.Semaphore, 0, len(handles))
	for _, handle := range handles {
		semaphore, ok := d.semaphores.get(handle)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownHandle, "semaphore %d", handle)
		}
		semaphores = append(semaphores, semaphore)
	}
	return semaphores, nil
}
