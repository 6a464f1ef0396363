package gpu

import "fmt"

// Format is the pixel format of an image or attachment.
type Format int

// Formats understood by the renderer. Backends map their own formats onto this
// list and drop the ones they cannot express.
const (
	FormatUndefined Format = iota
	FormatRgba8Unorm
	FormatRgba8Srgb
	FormatBgra8Unorm
	FormatBgra8Srgb
	FormatRgba16Sfloat
	FormatA2b10g10r10Unorm
)

// ChannelType is the numeric interpretation of a format's channels.
type ChannelType int

// Channel types.
const (
	ChannelUnknown ChannelType = iota
	ChannelUnorm
	ChannelSrgb
	ChannelSfloat
)

// ChannelType returns how the channels of f are interpreted.
func (f Format) ChannelType() ChannelType {
	switch f {
	case FormatRgba8Unorm, FormatBgra8Unorm, FormatA2b10g10r10Unorm:
		return ChannelUnorm
	case FormatRgba8Srgb, FormatBgra8Srgb:
		return ChannelSrgb
	case FormatRgba16Sfloat:
		return ChannelSfloat
	default:
		return ChannelUnknown
	}
}

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "Undefined"
	case FormatRgba8Unorm:
		return "Rgba8Unorm"
	case FormatRgba8Srgb:
		return "Rgba8Srgb"
	case FormatBgra8Unorm:
		return "Bgra8Unorm"
	case FormatBgra8Srgb:
		return "Bgra8Srgb"
	case FormatRgba16Sfloat:
		return "Rgba16Sfloat"
	case FormatA2b10g10r10Unorm:
		return "A2b10g10r10Unorm"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func (c ChannelType) String() string {
	switch c {
	case ChannelUnorm:
		return "Unorm"
	case ChannelSrgb:
		return "Srgb"
	case ChannelSfloat:
		return "Sfloat"
	default:
		return "Unknown"
	}
}
