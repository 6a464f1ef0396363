// Package gpu describes the capability set the renderer needs from a graphics
// backend.
//
// The renderer never talks to a graphics API directly. Everything it creates,
// records, submits and destroys goes through the Device interface, which a
// backend (see package vulkan-triangle/gpu/vulkan) implements on top of the
// real driver. Objects are referred to by small opaque handles; the zero value
// of every handle type means "no object".
//
// Descriptions passed to the Create* methods (RenderPassDesc,
// GraphicsPipelineDesc, SwapchainConfig and so on) are plain values so they can
// be built and inspected without a GPU.
package gpu
