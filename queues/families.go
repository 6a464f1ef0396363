package queues

import (
	"github.com/pkg/errors"

	"vulkan-triangle/optional"
)

// ErrNoQueueFamily is returned when no queue family can both run graphics work
// and present to the surface.
var ErrNoQueueFamily = errors.New("no queue family supports both graphics and presentation")

// Family describes the capabilities of one queue family of a physical device.
type Family struct {
	// Index is the position of the family as enumerated by the device.
	Index uint32

	// Graphics is true when the family supports graphics operations.
	Graphics bool

	// Present is true when the family can present to the drawing surface.
	Present bool
}

// FamilyIndices holds the indexes of queue families needed by the renderer.
type FamilyIndices struct {

	// Graphics is the index of the first graphics queue family.
	Graphics optional.Optional[uint32]

	// Present is the index of the first queue family able to present to the
	// drawing surface.
	Present optional.Optional[uint32]

	// GraphicsPresent is the index of the first family which does both. The
	// renderer submits and presents on a single queue from this family.
	GraphicsPresent optional.Optional[uint32]
}

// IsComplete returns true if a family supporting both graphics and
// presentation has been found.
func (f *FamilyIndices) IsComplete() bool {
	return f.GraphicsPresent.HasValue()
}

// Find walks the families in enumeration order and records the first match for
// every capability. It stops as soon as a shared graphics and present family
// is found.
func Find(families []Family) FamilyIndices {
	indices := FamilyIndices{}

	for _, family := range families {
		if family.Graphics && !indices.Graphics.HasValue() {
			indices.Graphics.Set(family.Index)
		}

		if family.Present && !indices.Present.HasValue() {
			indices.Present.Set(family.Index)
		}

		if family.Graphics && family.Present {
			indices.GraphicsPresent.Set(family.Index)
			break
		}
	}

	return indices
}

// Select returns the index of the family the renderer should open its single
// queue from.
func Select(families []Family) (uint32, error) {
	indices := Find(families)
	if !indices.IsComplete() {
		return 0, errors.Wrapf(ErrNoQueueFamily, "searched %d families", len(families))
	}

	return indices.GraphicsPresent.Get(), nil
}
