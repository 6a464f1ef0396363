package frame

import (
	"cmp"

	"github.com/pkg/errors"

	"vulkan-triangle/gpu"
)

// SwapchainConfig derives the swapchain settings from the surface limits.
// requested is used as the image size when the surface leaves it to the
// swapchain.
func SwapchainConfig(
	caps gpu.SurfaceCapabilities,
	format gpu.Format,
	requested gpu.Extent,
) gpu.SwapchainConfig {
	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	return gpu.SwapchainConfig{
		Format:      format,
		Extent:      chooseExtent(caps, requested),
		ImageCount:  imageCount,
		ImageLayers: 1,
	}
}

func chooseExtent(caps gpu.SurfaceCapabilities, requested gpu.Extent) gpu.Extent {
	if caps.CurrentExtent != nil {
		return *caps.CurrentExtent
	}

	return gpu.Extent{
		Width:  clamp(requested.Width, caps.MinExtent.Width, caps.MaxExtent.Width),
		Height: clamp(requested.Height, caps.MinExtent.Height, caps.MaxExtent.Height),
	}
}

// createFramebuffers turns the swapchain backbuffer into framebuffers for pass,
// index aligned with the swapchain images. Raw images get one color view each;
// a platform framebuffer is used as it is and yields no views.
//
// Objects created before a failure are still returned so the caller can
// release them.
func createFramebuffers(
	dev gpu.Device,
	backbuffer gpu.Backbuffer,
	pass gpu.RenderPass,
	format gpu.Format,
	extent gpu.Extent,
) ([]gpu.ImageView, []gpu.Framebuffer, error) {
	if backbuffer.Images == nil {
		if backbuffer.Framebuffer == 0 {
			return nil, nil, errors.New("swapchain returned an empty backbuffer")
		}
		return nil, []gpu.Framebuffer{backbuffer.Framebuffer}, nil
	}

	views := make([]gpu.ImageView, 0, len(backbuffer.Images))
	for i, image := range backbuffer.Images {
		view, err := dev.CreateImageView(image, gpu.ImageViewDesc{
			Format:    format,
			BaseLevel: 0,
			BaseLayer: 0,
		})
		if err != nil {
			return views, nil, errors.Wrapf(err, "image view %d", i)
		}
		views = append(views, view)
	}

	framebuffers := make([]gpu.Framebuffer, 0, len(views))
	for i, view := range views {
		framebuffer, err := dev.CreateFramebuffer(pass, []gpu.ImageView{view}, extent)
		if err != nil {
			return views, framebuffers, errors.Wrapf(err, "framebuffer %d", i)
		}
		framebuffers = append(framebuffers, framebuffer)
	}

	return views, framebuffers, nil
}

func clamp[T cmp.Ordered](val, min, max T) T {
	if val < min {
		val = min
	}
	if val > max {
		val = max
	}
	return val
}
