package gpu

import (
	"github.com/xlab/linmath"
)

// Opaque object handles. The zero value of each type is the null handle.
type (
	Semaphore      uint64
	Fence          uint64
	CommandPool    uint64
	CommandBuffer  uint64
	ShaderModule   uint64
	RenderPass     uint64
	PipelineLayout uint64
	Pipeline       uint64
	Swapchain      uint64
	Image          uint64
	ImageView      uint64
	Framebuffer    uint64
)

// Extent is a two dimensional size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// Rect is a pixel rectangle anchored at its top left corner.
type Rect struct {
	X, Y int32
	Extent
}

// Viewport maps normalized device coordinates to framebuffer pixels.
type Viewport struct {
	// Origin is the top left corner and Size the width and height, both in
	// pixels.
	Origin linmath.Vec2
	Size   linmath.Vec2

	MinDepth float32
	MaxDepth float32
}

// FullViewport returns a viewport covering the whole of r with the default
// 0..1 depth range.
func FullViewport(r Rect) Viewport {
	return Viewport{
		Origin:   linmath.Vec2{float32(r.X), float32(r.Y)},
		Size:     linmath.Vec2{float32(r.Width), float32(r.Height)},
		MinDepth: 0,
		MaxDepth: 1,
	}
}

// ClearColor is an RGBA clear value in the attachment's color space.
type ClearColor linmath.Vec4

// Clamped returns c with every channel limited to 0..1, the range a normalized
// or sRGB attachment can hold.
func (c ClearColor) Clamped() ClearColor {
	var (
		v    = linmath.Vec4(c)
		low  linmath.Vec4
		high = linmath.Vec4{1, 1, 1, 1}
	)
	v.Max(&v, &low)
	v.Min(&v, &high)
	return ClearColor(v)
}

// Range is a half-open [Start, End) interval of vertices or instances.
type Range struct {
	Start uint32
	End   uint32
}

// Count returns the number of elements in the range.
func (r Range) Count() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Layout is the memory layout of an image at a point of its lifetime.
type Layout int

// Image layouts.
const (
	LayoutUndefined Layout = iota
	LayoutColorAttachmentOptimal
	LayoutPresent
)

// LoadOp says what happens to an attachment's contents at the start of a
// render pass.
type LoadOp int

// Load operations.
const (
	LoadOpDontCare LoadOp = iota
	LoadOpClear
)

// StoreOp says what happens to an attachment's contents at the end of a render
// pass.
type StoreOp int

// Store operations.
const (
	StoreOpDontCare StoreOp = iota
	StoreOpStore
)

// AttachmentOps pairs a load and a store operation.
type AttachmentOps struct {
	Load  LoadOp
	Store StoreOp
}

// PipelineStage is a set of pipeline stages.
type PipelineStage uint32

// Pipeline stages.
const (
	StageColorAttachmentOutput PipelineStage = 1 << iota
	StageBottomOfPipe
)

// Access is a set of memory access types.
type Access uint32

// Access types.
const (
	AccessColorAttachmentRead Access = 1 << iota
	AccessColorAttachmentWrite
)

// SubpassExternal refers to work outside of the render pass in a subpass
// dependency.
const SubpassExternal = ^uint32(0)

// Attachment describes one image used by a render pass.
type Attachment struct {
	Format        Format
	Samples       uint32
	Ops           AttachmentOps
	StencilOps    AttachmentOps
	InitialLayout Layout
	FinalLayout   Layout
}

// AttachmentRef points a subpass at one of the render pass attachments.
type AttachmentRef struct {
	Attachment uint32
	Layout     Layout
}

// SubpassDesc lists the attachments one subpass renders into.
type SubpassDesc struct {
	Colors []AttachmentRef
}

// SubpassDependency orders the work of two subpasses.
type SubpassDependency struct {
	SrcSubpass uint32
	DstSubpass uint32
	SrcStages  PipelineStage
	DstStages  PipelineStage
	SrcAccess  Access
	DstAccess  Access
}

// RenderPassDesc is everything needed to create a render pass.
type RenderPassDesc struct {
	Attachments  []Attachment
	Subpasses    []SubpassDesc
	Dependencies []SubpassDependency
}

// BlendFactor is a multiplier in the blend equation.
type BlendFactor int

// Blend factors.
const (
	BlendOne BlendFactor = iota
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

// BlendOp combines the weighted source and destination.
type BlendOp int

// Blend operations.
const (
	BlendOpAdd BlendOp = iota
)

// BlendComponent is one half (color or alpha) of a blend equation.
type BlendComponent struct {
	Src BlendFactor
	Dst BlendFactor
	Op  BlendOp
}

// BlendState is the blend equation of one color target. A nil *BlendState on a
// target disables blending.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// BlendAlpha is standard "over" alpha blending.
var BlendAlpha = BlendState{
	Color: BlendComponent{Src: BlendSrcAlpha, Dst: BlendOneMinusSrcAlpha, Op: BlendOpAdd},
	Alpha: BlendComponent{Src: BlendOne, Dst: BlendOneMinusSrcAlpha, Op: BlendOpAdd},
}

// ColorMask selects the channels written to a color target.
type ColorMask uint8

// Color channels.
const (
	ColorMaskRed ColorMask = 1 << iota
	ColorMaskGreen
	ColorMaskBlue
	ColorMaskAlpha

	ColorMaskAll = ColorMaskRed | ColorMaskGreen | ColorMaskBlue | ColorMaskAlpha
)

// ColorBlendDesc configures one color target of a pipeline.
type ColorBlendDesc struct {
	Mask  ColorMask
	Blend *BlendState
}

// EntryPoint names the function a shader stage starts at.
type EntryPoint struct {
	Module ShaderModule
	Entry  string
}

// GraphicsShaderSet holds the programmable stages of a graphics pipeline.
type GraphicsShaderSet struct {
	Vertex   EntryPoint
	Fragment *EntryPoint
}

// GraphicsPipelineDesc is everything needed to compile a graphics pipeline.
// Pipelines draw triangle lists, filled and without culling. Viewport and
// scissor are always dynamic state.
type GraphicsPipelineDesc struct {
	Shaders    GraphicsShaderSet
	Targets    []ColorBlendDesc
	Layout     PipelineLayout
	RenderPass RenderPass
	Subpass    uint32
}

// SurfaceCapabilities are the limits a surface puts on swapchains created for
// it.
type SurfaceCapabilities struct {
	MinImageCount uint32
	// MaxImageCount is zero when there is no upper limit.
	MaxImageCount uint32

	// CurrentExtent is nil when the surface size is decided by the swapchain.
	CurrentExtent *Extent
	MinExtent     Extent
	MaxExtent     Extent
}

// SwapchainConfig is everything needed to create a swapchain. Images are
// presented in FIFO order, which every surface supports.
type SwapchainConfig struct {
	Format      Format
	Extent      Extent
	ImageCount  uint32
	ImageLayers uint32
}

// Backbuffer is the storage behind a swapchain. Exactly one of Images and
// Framebuffer is set: either a list of raw images the caller wraps in views and
// framebuffers, or a single framebuffer already built by the platform.
type Backbuffer struct {
	Images      []Image
	Framebuffer Framebuffer
}

// ImageViewDesc describes a view over the color aspect of an image. Views
// always cover a single mip level and array layer.
type ImageViewDesc struct {
	Format    Format
	BaseLevel uint32
	BaseLayer uint32
}

// SemaphoreWait makes a submission wait for a semaphore at the given stages.
type SemaphoreWait struct {
	Semaphore Semaphore
	Stages    PipelineStage
}

// Submission is one batch of command buffers sent to the queue.
type Submission struct {
	Wait           []SemaphoreWait
	Signal         []Semaphore
	CommandBuffers []CommandBuffer
}
