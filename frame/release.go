package frame

import (
	"vulkan-triangle/gpu"
)

// releaseStack remembers how to destroy every object in the order the objects
// were created and destroys them in reverse.
type releaseStack struct {
	entries []releaseEntry
}

type releaseEntry struct {
	name    string
	release func()
}

func (s *releaseStack) push(name string, release func()) {
	s.entries = append(s.entries, releaseEntry{name: name, release: release})
}

// releaseAll runs and forgets every entry, newest first. It is safe to call
// more than once.
func (s *releaseStack) releaseAll() {
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		gpu.Logger().Debug("releasing", "object", entry.name)
		entry.release()
	}
	s.entries = nil
}

func (s *releaseStack) len() int {
	return len(s.entries)
}
