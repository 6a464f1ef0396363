package vulkan

// table maps opaque gpu handles to the objects behind them. Handles start at
// one so that the zero handle is never valid.
type table[H ~uint64, T any] struct {
	last    H
	objects map[H]T
}

func (t *table[H, T]) insert(object T) H {
	if t.objects == nil {
		t.objects = make(map[H]T)
	}

	t.last++
	t.objects[t.last] = object
	return t.last
}

func (t *table[H, T]) get(handle H) (T, bool) {
	object, ok := t.objects[handle]
	return object, ok
}

func (t *table[H, T]) remove(handle H) (T, bool) {
	object, ok := t.objects[handle]
	if ok {
		delete(t.objects, handle)
	}
	return object, ok
}

func (t *table[H, T]) len() int {
	return len(t.objects)
}
