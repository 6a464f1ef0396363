package frame

import (
	"github.com/pkg/errors"

	"vulkan-triangle/gpu"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ChooseColorFormat", func() {
	It("picks the first sRGB format", func() {
		format, err := ChooseColorFormat([]gpu.Format{gpu.FormatRgba8Unorm, gpu.FormatBgra8Srgb})
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal(gpu.FormatBgra8Srgb))
	})

	It("keeps the enumeration order when several formats are sRGB", func() {
		format, err := ChooseColorFormat([]gpu.Format{
			gpu.FormatBgra8Unorm,
			gpu.FormatRgba8Srgb,
			gpu.FormatBgra8Srgb,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal(gpu.FormatRgba8Srgb))
	})

	It("falls back to Rgba8Srgb when the surface has no preference", func() {
		format, err := ChooseColorFormat(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal(gpu.FormatRgba8Srgb))
	})

	It("fails when the surface offered only formats without a name", func() {
		_, err := ChooseColorFormat([]gpu.Format{})
		Expect(errors.Cause(err)).To(Equal(ErrNoSrgbFormat))
	})

	It("fails when no offered format is sRGB", func() {
		_, err := ChooseColorFormat([]gpu.Format{gpu.FormatRgba8Unorm, gpu.FormatRgba16Sfloat})
		Expect(errors.Cause(err)).To(Equal(ErrNoSrgbFormat))
	})
})

var _ = Describe("ColorRenderPass", func() {
	for _, format := range []gpu.Format{gpu.FormatRgba8Srgb, gpu.FormatBgra8Srgb} {
		format := format

		It("clears, stores and hands "+format.String()+" images to presentation", func() {
			desc := ColorRenderPass(format)

			Expect(desc.Attachments).To(HaveLen(1))
			attachment := desc.Attachments[0]
			Expect(attachment.Format).To(Equal(format))
			Expect(attachment.Samples).To(Equal(uint32(1)))
			Expect(attachment.Ops).To(Equal(gpu.AttachmentOps{
				Load:  gpu.LoadOpClear,
				Store: gpu.StoreOpStore,
			}))
			Expect(attachment.StencilOps).To(Equal(gpu.AttachmentOps{
				Load:  gpu.LoadOpDontCare,
				Store: gpu.StoreOpDontCare,
			}))
			Expect(attachment.InitialLayout).To(Equal(gpu.LayoutUndefined))
			Expect(attachment.FinalLayout).To(Equal(gpu.LayoutPresent))
		})
	}

	It("has one subpass writing the color attachment", func() {
		desc := ColorRenderPass(gpu.FormatRgba8Srgb)

		Expect(desc.Subpasses).To(Equal([]gpu.SubpassDesc{{
			Colors: []gpu.AttachmentRef{
				{Attachment: 0, Layout: gpu.LayoutColorAttachmentOptimal},
			},
		}}))
	})

	It("orders the subpass after the external color output", func() {
		desc := ColorRenderPass(gpu.FormatRgba8Srgb)

		Expect(desc.Dependencies).To(Equal([]gpu.SubpassDependency{{
			SrcSubpass: gpu.SubpassExternal,
			DstSubpass: 0,
			SrcStages:  gpu.StageColorAttachmentOutput,
			DstStages:  gpu.StageColorAttachmentOutput,
			SrcAccess:  0,
			DstAccess:  gpu.AccessColorAttachmentRead | gpu.AccessColorAttachmentWrite,
		}}))
	})
})

var _ = Describe("TrianglePipeline", func() {
	It("describes the fixed triangle pipeline", func() {
		desc := TrianglePipeline(1, 2, 3, 4)

		Expect(desc.Shaders.Vertex).To(Equal(gpu.EntryPoint{Module: 1, Entry: "main"}))
		Expect(desc.Shaders.Fragment).To(Equal(&gpu.EntryPoint{Module: 2, Entry: "main"}))
		Expect(desc.Layout).To(Equal(gpu.PipelineLayout(3)))
		Expect(desc.RenderPass).To(Equal(gpu.RenderPass(4)))
		Expect(desc.Subpass).To(BeZero())
	})

	It("alpha blends into a single fully writable target", func() {
		desc := TrianglePipeline(1, 2, 3, 4)

		Expect(desc.Targets).To(HaveLen(1))
		Expect(desc.Targets[0].Mask).To(Equal(gpu.ColorMaskAll))
		Expect(*desc.Targets[0].Blend).To(Equal(gpu.BlendAlpha))
	})
})

var _ = Describe("SwapchainConfig", func() {
	var caps gpu.SurfaceCapabilities

	BeforeEach(func() {
		caps = gpu.SurfaceCapabilities{
			MinImageCount: 2,
			MaxImageCount: 3,
			MinExtent:     gpu.Extent{Width: 64, Height: 64},
			MaxExtent:     gpu.Extent{Width: 1024, Height: 1024},
		}
	})

	It("uses the surface's current extent when it has one", func() {
		caps.CurrentExtent = &gpu.Extent{Width: 300, Height: 200}

		config := SwapchainConfig(caps, gpu.FormatBgra8Srgb, gpu.Extent{Width: 256, Height: 256})
		Expect(config.Extent).To(Equal(gpu.Extent{Width: 300, Height: 200}))
		Expect(config.Format).To(Equal(gpu.FormatBgra8Srgb))
		Expect(config.ImageLayers).To(Equal(uint32(1)))
	})

	It("clamps the requested extent to the surface limits otherwise", func() {
		config := SwapchainConfig(caps, gpu.FormatBgra8Srgb, gpu.Extent{Width: 32, Height: 2048})
		Expect(config.Extent).To(Equal(gpu.Extent{Width: 64, Height: 1024}))
	})

	It("asks for one image more than the minimum", func() {
		config := SwapchainConfig(caps, gpu.FormatBgra8Srgb, gpu.Extent{})
		Expect(config.ImageCount).To(Equal(uint32(3)))
	})

	It("never asks for more images than allowed", func() {
		caps.MaxImageCount = 2
		config := SwapchainConfig(caps, gpu.FormatBgra8Srgb, gpu.Extent{})
		Expect(config.ImageCount).To(Equal(uint32(2)))
	})

	It("treats a zero maximum as unbounded", func() {
		caps.MinImageCount = 4
		caps.MaxImageCount = 0
		config := SwapchainConfig(caps, gpu.FormatBgra8Srgb, gpu.Extent{})
		Expect(config.ImageCount).To(Equal(uint32(5)))
	})
})
