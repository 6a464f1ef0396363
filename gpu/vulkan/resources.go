package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/gpu"
	"vulkan-triangle/unsafer"
)

// CreateShaderModule checks that code looks like SPIR-V before handing it to
// the driver.
func (d *Device) CreateShaderModule(code []byte) (gpu.ShaderModule, error) {
	if err := gpu.ValidateSpirv(code); err != nil {
		return 0, err
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    unsafer.RepackUint32(code),
	}

	var shaderModule vk.ShaderModule
	res := vk.CreateShaderModule(d.device, &createInfo, nil, &shaderModule)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create shader module")
	}

	gpu.Logger().Debug("created shader module", "bytes", len(code))
	return d.shaderModules.insert(shaderModule), nil
}

func (d *Device) DestroyShaderModule(module gpu.ShaderModule) {
	if shaderModule, ok := d.shaderModules.remove(module); ok {
		vk.DestroyShaderModule(d.device, shaderModule, nil)
	}
}

func (d *Device) CreateRenderPass(desc gpu.RenderPassDesc) (gpu.RenderPass, error) {
	attachments := make([]vk.AttachmentDescription, 0, len(desc.Attachments))
	for _, attachment := range desc.Attachments {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         convertFormat(attachment.Format),
			Samples:        vk.SampleCountFlagBits(attachment.Samples),
			LoadOp:         convertLoadOp(attachment.Ops.Load),
			StoreOp:        convertStoreOp(attachment.Ops.Store),
			StencilLoadOp:  convertLoadOp(attachment.StencilOps.Load),
			StencilStoreOp: convertStoreOp(attachment.StencilOps.Store),
			InitialLayout:  convertLayout(attachment.InitialLayout),
			FinalLayout:    convertLayout(attachment.FinalLayout),
		})
	}

	subpasses := make([]vk.SubpassDescription, 0, len(desc.Subpasses))
	for _, subpass := range desc.Subpasses {
		colors := make([]vk.AttachmentReference, 0, len(subpass.Colors))
		for _, ref := range subpass.Colors {
			colors = append(colors, vk.AttachmentReference{
				Attachment: ref.Attachment,
				Layout:     convertLayout(ref.Layout),
			})
		}

		subpasses = append(subpasses, vk.SubpassDescription{
			PipelineBindPoint:    vk.PipelineBindPointGraphics,
			ColorAttachmentCount: uint32(len(colors)),
			PColorAttachments:    colors,
		})
	}

	dependencies := make([]vk.SubpassDependency, 0, len(desc.Dependencies))
	for _, dependency := range desc.Dependencies {
		dependencies = append(dependencies, vk.SubpassDependency{
			SrcSubpass:    dependency.SrcSubpass,
			DstSubpass:    dependency.DstSubpass,
			SrcStageMask:  convertStages(dependency.SrcStages),
			DstStageMask:  convertStages(dependency.DstStages),
			SrcAccessMask: convertAccess(dependency.SrcAccess),
			DstAccessMask: convertAccess(dependency.DstAccess),
		})
	}

	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}

	var renderPass vk.RenderPass
	res := vk.CreateRenderPass(d.device, &renderPassInfo, nil, &renderPass)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create render pass")
	}

	return d.renderPasses.insert(renderPass), nil
}

func (d *Device) DestroyRenderPass(pass gpu.RenderPass) {
	if renderPass, ok := d.renderPasses.remove(pass); ok {
		vk.DestroyRenderPass(d.device, renderPass, nil)
	}
}

func (d *Device) CreatePipelineLayout() (gpu.PipelineLayout, error) {
	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 0,
	}

	var pipelineLayout vk.PipelineLayout
	res := vk.CreatePipelineLayout(d.device, &pipelineLayoutInfo, nil, &pipelineLayout)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create pipeline layout")
	}

	return d.layouts.insert(pipelineLayout), nil
}

func (d *Device) DestroyPipelineLayout(layout gpu.PipelineLayout) {
	if pipelineLayout, ok := d.layouts.remove(layout); ok {
		vk.DestroyPipelineLayout(d.device, pipelineLayout, nil)
	}
}

func (d *Device) shaderStage(
	stage vk.ShaderStageFlagBits,
	entry gpu.EntryPoint,
) (vk.PipelineShaderStageCreateInfo, error) {
	module, ok := d.shaderModules.get(entry.Module)
	if !ok {
		return vk.PipelineShaderStageCreateInfo{},
			errors.Wrapf(ErrUnknownHandle, "shader module %d", entry.Module)
	}

	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: module,
		PName:  cString(entry.Entry),
	}, nil
}

// CreateGraphicsPipeline compiles desc with dynamic viewport and scissor
// state, no vertex input and no depth testing.
func (d *Device) CreateGraphicsPipeline(desc gpu.GraphicsPipelineDesc) (gpu.Pipeline, error) {
	layout, ok := d.layouts.get(desc.Layout)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "pipeline layout %d", desc.Layout)
	}

	renderPass, ok := d.renderPasses.get(desc.RenderPass)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "render pass %d", desc.RenderPass)
	}

	vertexStage, err := d.shaderStage(vk.ShaderStageVertexBit, desc.Shaders.Vertex)
	if err != nil {
		return 0, errors.Wrap(err, "vertex stage")
	}
	shaderStages := []vk.PipelineShaderStageCreateInfo{vertexStage}

	if desc.Shaders.Fragment != nil {
		fragmentStage, err := d.shaderStage(vk.ShaderStageFragmentBit, *desc.Shaders.Fragment)
		if err != nil {
			return 0, errors.Wrap(err, "fragment stage")
		}
		shaderStages = append(shaderStages, fragmentStage)
	}

	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType: vk.StructureTypePipelineVertexInputStateCreateInfo,

		VertexBindingDescriptionCount:   0,
		VertexAttributeDescriptionCount: 0,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}

	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
	}

	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		LineWidth:               1,
		CullMode:                vk.CullModeFlags(vk.CullModeNone),
		FrontFace:               vk.FrontFaceCounterClockwise,
		DepthBiasEnable:         vk.False,
	}

	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vk.SampleCount1Bit,
		MinSampleShading:      1,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	blendAttachments := make([]vk.PipelineColorBlendAttachmentState, 0, len(desc.Targets))
	for _, target := range desc.Targets {
		blendAttachments = append(blendAttachments, convertColorBlend(target))
	}

	colorBlending := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
	}

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(shaderStages)),
		PStages:             shaderStages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PDepthStencilState:  nil,
		PColorBlendState:    &colorBlending,
		PDynamicState:       &dynamicState,
		Layout:              layout,
		RenderPass:          renderPass,
		Subpass:             desc.Subpass,
		BasePipelineHandle:  vk.Pipeline(vk.NullHandle),
		BasePipelineIndex:   -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateGraphicsPipelines(
		d.device,
		vk.PipelineCache(vk.NullHandle),
		1,
		[]vk.GraphicsPipelineCreateInfo{pipelineInfo},
		nil,
		pipelines,
	)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create graphics pipeline")
	}

	return d.pipelines.insert(pipelines[0]), nil
}

func (d *Device) DestroyGraphicsPipeline(pipeline gpu.Pipeline) {
	if vkPipeline, ok := d.pipelines.remove(pipeline); ok {
		vk.DestroyPipeline(d.device, vkPipeline, nil)
	}
}

// CreateImageView creates a 2D view over the color aspect of one mip level
// and one array layer of image.
func (d *Device) CreateImageView(image gpu.Image, desc gpu.ImageViewDesc) (gpu.ImageView, error) {
	vkImage, ok := d.images.get(image)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "image %d", image)
	}

	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    vkImage,
		ViewType: vk.ImageViewType2d,
		Format:   convertFormat(desc.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   desc.BaseLevel,
			LevelCount:     1,
			BaseArrayLayer: desc.BaseLayer,
			LayerCount:     1,
		},
	}

	var imageView vk.ImageView
	res := vk.CreateImageView(d.device, &createInfo, nil, &imageView)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create image view")
	}

	return d.imageViews.insert(imageView), nil
}

func (d *Device) DestroyImageView(view gpu.ImageView) {
	if imageView, ok := d.imageViews.remove(view); ok {
		vk.DestroyImageView(d.device, imageView, nil)
	}
}

func (d *Device) CreateFramebuffer(
	pass gpu.RenderPass,
	views []gpu.ImageView,
	extent gpu.Extent,
) (gpu.Framebuffer, error) {
	renderPass, ok := d.renderPasses.get(pass)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "render pass %d", pass)
	}

	attachments := make([]vk.ImageView, 0, len(views))
	for _, view := range views {
		imageView, ok := d.imageViews.get(view)
		if !ok {
			return 0, errors.Wrapf(ErrUnknownHandle, "image view %d", view)
		}
		attachments = append(attachments, imageView)
	}

	frameBufferInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}

	var frameBuffer vk.Framebuffer
	res := vk.CreateFramebuffer(d.device, &frameBufferInfo, nil, &frameBuffer)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create frame buffer")
	}

	return d.framebuffers.insert(frameBuffer), nil
}

func (d *Device) DestroyFramebuffer(framebuffer gpu.Framebuffer) {
	if frameBuffer, ok := d.framebuffers.remove(framebuffer); ok {
		vk.DestroyFramebuffer(d.device, frameBuffer, nil)
	}
}

func (d *Device) CreateSemaphore() (gpu.Semaphore, error) {
	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var semaphore vk.Semaphore
	res := vk.CreateSemaphore(d.device, &semaphoreInfo, nil, &semaphore)
	if err := vk.Error(res); err != nil {
		return 0, errors.Wrap(err, "failed to create semaphore")
	}

	return d.semaphores.insert(semaphore), nil
}

func (d *Device) DestroySemaphore(semaphore gpu.Semaphore) {
	if vkSemaphore, ok := d.semaphores.remove(semaphore); ok {
		vk.DestroySemaphore(d.device, vkSemaphore, nil)
	}
}

func (d *Device) CreateFence(signaled bool) (gpu.Fence, error) {
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fenceInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	if err := vk.Error(vk.CreateFence(d.device, &fenceInfo, nil, &fence)); err != nil {
		return 0, errors.Wrap(err, "failed to create fence")
	}

	return d.fences.insert(fence), nil
}

func (d *Device) WaitForFence(fence gpu.Fence, timeout uint64) error {
	vkFence, ok := d.fences.get(fence)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "fence %d", fence)
	}

	res := vk.WaitForFences(d.device, 1, []vk.Fence{vkFence}, vk.True, timeout)
	return errors.Wrap(vk.Error(res), "waiting for fence")
}

func (d *Device) ResetFence(fence gpu.Fence) error {
	vkFence, ok := d.fences.get(fence)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "fence %d", fence)
	}

	return errors.Wrap(vk.Error(vk.ResetFences(d.device, 1, []vk.Fence{vkFence})), "resetting fence")
}

func (d *Device) DestroyFence(fence gpu.Fence) {
	if vkFence, ok := d.fences.remove(fence); ok {
		vk.DestroyFence(d.device, vkFence, nil)
	}
}
