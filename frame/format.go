package frame

import (
	"github.com/pkg/errors"

	"vulkan-triangle/gpu"
)

// DefaultColorFormat is used when the surface has no format preference.
const DefaultColorFormat = gpu.FormatRgba8Srgb

// ErrNoSrgbFormat is returned when the surface lists formats but none of them
// is sRGB, including a list left empty by formats the backend cannot name.
var ErrNoSrgbFormat = errors.New("surface offers no sRGB format")

// ChooseColorFormat returns the first sRGB format from the surface's list. A
// nil list means any format is fine and DefaultColorFormat is used.
func ChooseColorFormat(formats []gpu.Format) (gpu.Format, error) {
	if formats == nil {
		return DefaultColorFormat, nil
	}

	for _, format := range formats {
		if format.ChannelType() == gpu.ChannelSrgb {
			return format, nil
		}
	}

	return gpu.FormatUndefined, errors.Wrapf(ErrNoSrgbFormat, "offered %v", formats)
}
