package gpu

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// SpirvMagic is the first word of every SPIR-V module.
const SpirvMagic uint32 = 0x07230203

// ErrInvalidShader is returned for shader bytecode which is obviously not a
// SPIR-V module.
var ErrInvalidShader = errors.New("invalid shader bytecode")

// ValidateSpirv performs the cheap structural checks a driver would otherwise
// crash on: a whole number of 32 bit words, a complete header and the magic
// number in host (little endian) order.
func ValidateSpirv(code []byte) error {
	const headerSize = 5 * 4

	if len(code) == 0 {
		return errors.Wrap(ErrInvalidShader, "empty module")
	}
	if len(code)%4 != 0 {
		return errors.Wrapf(ErrInvalidShader, "size %d is not a multiple of 4", len(code))
	}
	if len(code) < headerSize {
		return errors.Wrapf(ErrInvalidShader, "size %d is smaller than the header", len(code))
	}
	if magic := binary.LittleEndian.Uint32(code); magic != SpirvMagic {
		return errors.Wrapf(ErrInvalidShader, "bad magic %#08x", magic)
	}
	return nil
}
