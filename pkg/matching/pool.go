package matching

// objectPool hands out recycled instances so the matching hot path does not
// allocate. Instances are owned by a single goroutine; a released instance is
// logically destroyed and must not be read by the releaser afterwards, but its
// link fields are deliberately left intact: the match loop walks next/prev of
// nodes that were just unlinked and pooled. All state is reset on acquire, not
// on release.
type objectPool[T any] struct {
	free []*T
}

func newObjectPool[T any](capacity int) *objectPool[T] {
	p := &objectPool[T]{free: make([]*T, capacity)}
	for i := range p.free {
		p.free[i] = new(T)
	}
	return p
}

func (p *objectPool[T]) acquire() *T {
	n := len(p.free)
	if n == 0 {
		return new(T)
	}
	obj := p.free[n-1]
	p.free = p.free[:n-1]
	return obj
}

func (p *objectPool[T]) release(obj *T) {
	p.free = append(p.free, obj)
}

func (p *objectPool[T]) size() int {
	return len(p.free)
}
