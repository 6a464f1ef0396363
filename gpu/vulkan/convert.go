package vulkan

import (
	"math"

	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/gpu"
)

var formats = map[gpu.Format]vk.Format{
	gpu.FormatRgba8Unorm:       vk.FormatR8g8b8a8Unorm,
	gpu.FormatRgba8Srgb:        vk.FormatR8g8b8a8Srgb,
	gpu.FormatBgra8Unorm:       vk.FormatB8g8r8a8Unorm,
	gpu.FormatBgra8Srgb:        vk.FormatB8g8r8a8Srgb,
	gpu.FormatRgba16Sfloat:     vk.FormatR16g16b16a16Sfloat,
	gpu.FormatA2b10g10r10Unorm: vk.FormatA2b10g10r10UnormPack32,
}

func convertFormat(format gpu.Format) vk.Format {
	if f, ok := formats[format]; ok {
		return f
	}
	return vk.FormatUndefined
}

func formatFromVk(format vk.Format) (gpu.Format, bool) {
	for f, v := range formats {
		if v == format {
			return f, true
		}
	}
	return gpu.FormatUndefined, false
}

// surfaceFormats converts the formats a surface reports. A surface without a
// preference reports nothing or a single undefined format; both become nil.
// Formats with no gpu counterpart are skipped. The color space paired with
// every kept format is returned alongside.
func surfaceFormats(reported []vk.SurfaceFormat) ([]gpu.Format, map[gpu.Format]vk.ColorSpace) {
	colorSpaces := make(map[gpu.Format]vk.ColorSpace)

	if len(reported) == 0 ||
		(len(reported) == 1 && reported[0].Format == vk.FormatUndefined) {
		return nil, colorSpaces
	}

	converted := make([]gpu.Format, 0, len(reported))
	for _, surfaceFormat := range reported {
		format, ok := formatFromVk(surfaceFormat.Format)
		if !ok {
			continue
		}
		if _, seen := colorSpaces[format]; seen {
			continue
		}

		colorSpaces[format] = surfaceFormat.ColorSpace
		converted = append(converted, format)
	}

	return converted, colorSpaces
}

func capabilitiesFromVk(caps vk.SurfaceCapabilities) gpu.SurfaceCapabilities {
	converted := gpu.SurfaceCapabilities{
		MinImageCount: caps.MinImageCount,
		MaxImageCount: caps.MaxImageCount,
		MinExtent:     extentFromVk(caps.MinImageExtent),
		MaxExtent:     extentFromVk(caps.MaxImageExtent),
	}

	// A current width of 0xFFFFFFFF means the swapchain decides the size.
	if caps.CurrentExtent.Width != math.MaxUint32 {
		current := extentFromVk(caps.CurrentExtent)
		converted.CurrentExtent = &current
	}

	return converted
}

func extentFromVk(extent vk.Extent2D) gpu.Extent {
	return gpu.Extent{Width: extent.Width, Height: extent.Height}
}

func convertExtent(extent gpu.Extent) vk.Extent2D {
	return vk.Extent2D{Width: extent.Width, Height: extent.Height}
}

func convertRect(rect gpu.Rect) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: rect.X, Y: rect.Y},
		Extent: convertExtent(rect.Extent),
	}
}

func convertViewport(viewport gpu.Viewport) vk.Viewport {
	return vk.Viewport{
		X:        viewport.Origin[0],
		Y:        viewport.Origin[1],
		Width:    viewport.Size[0],
		Height:   viewport.Size[1],
		MinDepth: viewport.MinDepth,
		MaxDepth: viewport.MaxDepth,
	}
}

func convertClearColors(colors []gpu.ClearColor) []vk.ClearValue {
	values := make([]vk.ClearValue, 0, len(colors))
	for _, c := range colors {
		values = append(values, vk.NewClearValue([]float32{c[0], c[1], c[2], c[3]}))
	}
	return values
}

func convertLayout(layout gpu.Layout) vk.ImageLayout {
	switch layout {
	case gpu.LayoutColorAttachmentOptimal:
		return vk.ImageLayoutColorAttachmentOptimal
	case gpu.LayoutPresent:
		return vk.ImageLayoutPresentSrc
	default:
		return vk.ImageLayoutUndefined
	}
}

func convertLoadOp(op gpu.LoadOp) vk.AttachmentLoadOp {
	if op == gpu.LoadOpClear {
		return vk.AttachmentLoadOpClear
	}
	return vk.AttachmentLoadOpDontCare
}

func convertStoreOp(op gpu.StoreOp) vk.AttachmentStoreOp {
	if op == gpu.StoreOpStore {
		return vk.AttachmentStoreOpStore
	}
	return vk.AttachmentStoreOpDontCare
}

func convertStages(stages gpu.PipelineStage) vk.PipelineStageFlags {
	var flags vk.PipelineStageFlagBits
	if stages&gpu.StageColorAttachmentOutput != 0 {
		flags |= vk.PipelineStageColorAttachmentOutputBit
	}
	if stages&gpu.StageBottomOfPipe != 0 {
		flags |= vk.PipelineStageBottomOfPipeBit
	}
	return vk.PipelineStageFlags(flags)
}

func convertAccess(access gpu.Access) vk.AccessFlags {
	var flags vk.AccessFlagBits
	if access&gpu.AccessColorAttachmentRead != 0 {
		flags |= vk.AccessColorAttachmentReadBit
	}
	if access&gpu.AccessColorAttachmentWrite != 0 {
		flags |= vk.AccessColorAttachmentWriteBit
	}
	return vk.AccessFlags(flags)
}

func convertBlendFactor(factor gpu.BlendFactor) vk.BlendFactor {
	switch factor {
	case gpu.BlendSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case gpu.BlendOneMinusSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	default:
		return vk.BlendFactorOne
	}
}

func convertColorMask(mask gpu.ColorMask) vk.ColorComponentFlags {
	var flags vk.ColorComponentFlagBits
	if mask&gpu.ColorMaskRed != 0 {
		flags |= vk.ColorComponentRBit
	}
	if mask&gpu.ColorMaskGreen != 0 {
		flags |= vk.ColorComponentGBit
	}
	if mask&gpu.ColorMaskBlue != 0 {
		flags |= vk.ColorComponentBBit
	}
	if mask&gpu.ColorMaskAlpha != 0 {
		flags |= vk.ColorComponentABit
	}
	return vk.ColorComponentFlags(flags)
}

// convertColorBlend fills a blend attachment state. A target without a blend
// state writes the source color unchanged.
func convertColorBlend(target gpu.ColorBlendDesc) vk.PipelineColorBlendAttachmentState {
	state := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask:      convertColorMask(target.Mask),
		BlendEnable:         vk.False,
		SrcColorBlendFactor: vk.BlendFactorOne,
		DstColorBlendFactor: vk.BlendFactorZero,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
	}

	if blend := target.Blend; blend != nil {
		state.BlendEnable = vk.True
		state.SrcColorBlendFactor = convertBlendFactor(blend.Color.Src)
		state.DstColorBlendFactor = convertBlendFactor(blend.Color.Dst)
		state.SrcAlphaBlendFactor = convertBlendFactor(blend.Alpha.Src)
		state.DstAlphaBlendFactor = convertBlendFactor(blend.Alpha.Dst)
	}

	return state
}

