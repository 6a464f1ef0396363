package frame

import (
	"vulkan-triangle/gpu"
)

// shaderEntry is the entry point of both triangle shaders.
const shaderEntry = "main"

// TrianglePipeline describes the pipeline drawing the hard-coded triangle. It
// has no vertex input: the vertex shader derives each corner from the built-in
// vertex index.
func TrianglePipeline(
	vertex, fragment gpu.ShaderModule,
	layout gpu.PipelineLayout,
	pass gpu.RenderPass,
) gpu.GraphicsPipelineDesc {
	blend := gpu.BlendAlpha

	return gpu.GraphicsPipelineDesc{
		Shaders: gpu.GraphicsShaderSet{
			Vertex: gpu.EntryPoint{Module: vertex, Entry: shaderEntry},
			Fragment: &gpu.EntryPoint{
				Module: fragment,
				Entry:  shaderEntry,
			},
		},
		Targets: []gpu.ColorBlendDesc{
			{Mask: gpu.ColorMaskAll, Blend: &blend},
		},
		Layout:     layout,
		RenderPass: pass,
		Subpass:    0,
	}
}
