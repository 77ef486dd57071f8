package archetype

// column is the type-erased interface an Archetype uses to grow every
// component's storage in lockstep as entities are allocated.
type column interface {
	ensureCapacity(n int)
}

// columnOf is the typed backing store for one component within an
// Archetype: a growable list of address-stable chunks, indexed by dense
// slot. Growing a columnOf only appends new chunk pointers — it never
// reallocates an existing chunk's backing array, preserving element
// addresses the way the original's linked chunk list does.
type columnOf[T any] struct {
	chunkSizeBytes int
	perChunk       int
	chunks         []*chunk[T]
}

func newColumnOf[T any](chunkSizeBytes int) *columnOf[T] {
	return &columnOf[T]{
		chunkSizeBytes: chunkSizeBytes,
		perChunk:       chunkCapacity[T](chunkSizeBytes),
	}
}

func (c *columnOf[T]) ensureCapacity(n int) {
	needed := (n + c.perChunk - 1) / c.perChunk
	for len(c.chunks) < needed {
		c.chunks = append(c.chunks, newChunk[T](c.perChunk))
	}
}

// at returns a pointer to the element at dense index i. The caller is
// responsible for having called ensureCapacity(i+1) first (Archetype does
// this on every Allocate).
func (c *columnOf[T]) at(i int) *T {
	return &c.chunks[i/c.perChunk].data[i%c.perChunk]
}

var _ column = (*columnOf[int])(nil)

// Column returns the typed column for id within a, creating it on first use
// and growing it to cover every currently allocated slot.
func Column[T any](a *Archetype, id ComponentID) *columnOf[T] {
	c, ok := a.columns[id]
	if !ok {
		created := newColumnOf[T](a.chunkSizeBytes)
		created.ensureCapacity(len(a.entities))
		a.columns[id] = created
		return created
	}
	return c.(*columnOf[T])
}

// Get returns a pointer to the T component of the entity at dense index idx
// within a.
func Get[T any](a *Archetype, id ComponentID, idx int) *T {
	return Column[T](a, id).at(idx)
}
