package shaders

import (
	"embed"

	"github.com/pkg/errors"
)

//go:generate ./compile.sh

// FS embeds the vertex and fragment shaders. Run `go generate` in order to
// compile them again.
//
//go:embed frag.spv
//go:embed vert.spv
var FS embed.FS

// Load returns the SPIR-V bytecode of the triangle's vertex and fragment
// shaders.
func Load() (vertex, fragment []byte, err error) {
	vertex, err = FS.ReadFile("vert.spv")
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read vertex shader bytecode")
	}

	fragment, err = FS.ReadFile("frag.spv")
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read fragment shader bytecode")
	}

	return vertex, fragment, nil
}
