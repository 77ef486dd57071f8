package archetype

import ecs "github.com/kestrelengine/core"

// View1 iterates entities matching a Query, fetching a single typed
// component per entity. Go's generics cannot express a variadic
// "view over N components" the way the original's templates do, so the
// view family is a bounded set of arities (1 through 3 here) instead — the
// teacher's own example systems never touch more than three components at
// once, and that bound is generous for this module's purposes.
type View1[A any] struct {
	archetypes []*Archetype
	colA       ComponentID
	readOnly   bool
	archIdx    int
	cursor     int
}

// NewView1 builds a view over every archetype matching q, ready to fetch
// component colA typed as A. readOnly is checked at runtime, not at compile
// time — see DESIGN.md: on a read-only view FetchA panics, while PeekA still
// returns a pointer that Go does not stop a caller from writing through.
func NewView1[A any](admin *Admin, q Query, colA ComponentID, readOnly bool) *View1[A] {
	return &View1[A]{archetypes: admin.Match(q), colA: colA, readOnly: readOnly, cursor: -1}
}

// FindNextEntity advances the cursor to the next live entity, skipping
// emptied slots and exhausted archetypes. It returns false once every
// matching archetype has been fully walked.
func (v *View1[A]) FindNextEntity() bool {
	for v.archIdx < len(v.archetypes) {
		arch := v.archetypes[v.archIdx]
		v.cursor++
		if v.cursor >= arch.Len() {
			v.archIdx++
			v.cursor = -1
			continue
		}
		if arch.EntityAt(v.cursor).IsZero() {
			continue
		}
		return true
	}
	return false
}

// Entity returns the entity at the view's current cursor position.
func (v *View1[A]) Entity() ecs.EntityID {
	return v.archetypes[v.archIdx].EntityAt(v.cursor)
}

// FetchA returns a pointer to the current entity's A component.
func (v *View1[A]) FetchA() *A {
	if v.readOnly {
		panic("archetype: FetchA called for write on a read-only view")
	}
	return Get[A](v.archetypes[v.archIdx], v.colA, v.cursor)
}

// PeekA is the read-only counterpart of FetchA; it never panics regardless
// of the view's readOnly flag.
func (v *View1[A]) PeekA() *A {
	return Get[A](v.archetypes[v.archIdx], v.colA, v.cursor)
}

// View2 is View1 extended to two typed components.
type View2[A, B any] struct {
	archetypes []*Archetype
	colA, colB ComponentID
	archIdx    int
	cursor     int
}

func NewView2[A, B any](admin *Admin, q Query, colA, colB ComponentID) *View2[A, B] {
	return &View2[A, B]{archetypes: admin.Match(q), colA: colA, colB: colB, cursor: -1}
}

func (v *View2[A, B]) FindNextEntity() bool {
	for v.archIdx < len(v.archetypes) {
		arch := v.archetypes[v.archIdx]
		v.cursor++
		if v.cursor >= arch.Len() {
			v.archIdx++
			v.cursor = -1
			continue
		}
		if arch.EntityAt(v.cursor).IsZero() {
			continue
		}
		return true
	}
	return false
}

func (v *View2[A, B]) Entity() ecs.EntityID {
	return v.archetypes[v.archIdx].EntityAt(v.cursor)
}

func (v *View2[A, B]) FetchA() *A { return Get[A](v.archetypes[v.archIdx], v.colA, v.cursor) }
func (v *View2[A, B]) FetchB() *B { return Get[B](v.archetypes[v.archIdx], v.colB, v.cursor) }

// View3 is View1 extended to three typed components.
type View3[A, B, C any] struct {
	archetypes       []*Archetype
	colA, colB, colC ComponentID
	archIdx          int
	cursor           int
}

func NewView3[A, B, C any](admin *Admin, q Query, colA, colB, colC ComponentID) *View3[A, B, C] {
	return &View3[A, B, C]{archetypes: admin.Match(q), colA: colA, colB: colB, colC: colC, cursor: -1}
}

func (v *View3[A, B, C]) FindNextEntity() bool {
	for v.archIdx < len(v.archetypes) {
		arch := v.archetypes[v.archIdx]
		v.cursor++
		if v.cursor >= arch.Len() {
			v.archIdx++
			v.cursor = -1
			continue
		}
		if arch.EntityAt(v.cursor).IsZero() {
			continue
		}
		return true
	}
	return false
}

func (v *View3[A, B, C]) Entity() ecs.EntityID {
	return v.archetypes[v.archIdx].EntityAt(v.cursor)
}

func (v *View3[A, B, C]) FetchA() *A { return Get[A](v.archetypes[v.archIdx], v.colA, v.cursor) }
func (v *View3[A, B, C]) FetchB() *B { return Get[B](v.archetypes[v.archIdx], v.colB, v.cursor) }
func (v *View3[A, B, C]) FetchC() *C { return Get[C](v.archetypes[v.archIdx], v.colC, v.cursor) }
