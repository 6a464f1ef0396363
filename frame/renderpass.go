package frame

import (
	"vulkan-triangle/gpu"
)

// ColorRenderPass describes a render pass with a single color attachment which
// is cleared on load, stored at the end and handed to the presentation engine
// afterwards.
func ColorRenderPass(format gpu.Format) gpu.RenderPassDesc {
	colorAttachment := gpu.Attachment{
		Format:  format,
		Samples: 1,
		Ops: gpu.AttachmentOps{
			Load:  gpu.LoadOpClear,
			Store: gpu.StoreOpStore,
		},
		StencilOps: gpu.AttachmentOps{
			Load:  gpu.LoadOpDontCare,
			Store: gpu.StoreOpDontCare,
		},
		InitialLayout: gpu.LayoutUndefined,
		FinalLayout:   gpu.LayoutPresent,
	}

	subpass := gpu.SubpassDesc{
		Colors: []gpu.AttachmentRef{
			{Attachment: 0, Layout: gpu.LayoutColorAttachmentOptimal},
		},
	}

	// The layout transition at the start of the pass must not happen before
	// the swapchain image has been acquired.
	dependency := gpu.SubpassDependency{
		SrcSubpass: gpu.SubpassExternal,
		DstSubpass: 0,
		SrcStages:  gpu.StageColorAttachmentOutput,
		DstStages:  gpu.StageColorAttachmentOutput,
		SrcAccess:  0,
		DstAccess:  gpu.AccessColorAttachmentRead | gpu.AccessColorAttachmentWrite,
	}

	return gpu.RenderPassDesc{
		Attachments:  []gpu.Attachment{colorAttachment},
		Subpasses:    []gpu.SubpassDesc{subpass},
		Dependencies: []gpu.SubpassDependency{dependency},
	}
}
