package archetype

import (
	"sort"

	ecs "github.com/kestrelengine/core"
)

// Range is a half-open [Start, End) span of dense slots, used to track
// deallocated entity slots available for reuse.
type Range struct {
	Start, End int
}

// Archetype groups every entity that carries exactly the component set
// named by its Fingerprint, storing each component in its own column. It is
// the Go rendition of the original's ArchetypeBase plus Archetype<TComponents...>
// — here the component set is a runtime fingerprint rather than a
// compile-time type list, per the spec's own guidance that the fingerprint,
// not type-level sorting, is the source of truth for archetype identity.
type Archetype struct {
	fingerprint    Fingerprint
	columns        map[ComponentID]column
	entities       []ecs.EntityID
	emptyRanges    []Range
	chunkSizeBytes int
}

func newArchetype(fp Fingerprint, chunkSizeBytes int) *Archetype {
	return &Archetype{
		fingerprint:    fp,
		columns:        make(map[ComponentID]column),
		chunkSizeBytes: chunkSizeBytes,
	}
}

// Fingerprint returns the archetype's component-set identity.
func (a *Archetype) Fingerprint() Fingerprint {
	return a.fingerprint
}

// Len returns the number of dense slots the archetype has ever allocated,
// including currently-empty ones freed by Deallocate.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// EntityAt returns the entity occupying dense slot idx, or the zero
// EntityID if idx is within an empty range.
func (a *Archetype) EntityAt(idx int) ecs.EntityID {
	return a.entities[idx]
}

// Allocate reserves a dense slot for id: an emptied slot from a prior
// Deallocate is reused when one is available (first-fit against the
// lowest-indexed empty range), otherwise the archetype grows by one slot
// and every column is grown to match.
func (a *Archetype) Allocate(id ecs.EntityID) int {
	if len(a.emptyRanges) > 0 {
		r := &a.emptyRanges[0]
		idx := r.Start
		r.Start++
		if r.Start >= r.End {
			a.emptyRanges = a.emptyRanges[1:]
		}
		a.entities[idx] = id
		return idx
	}

	idx := len(a.entities)
	a.entities = append(a.entities, id)
	for _, col := range a.columns {
		col.ensureCapacity(idx + 1)
	}
	return idx
}

// Deallocate frees dense slot idx and coalesces it into the archetype's
// empty-range list, merging it with any adjacent or overlapping range so
// the list never grows unboundedly under churn.
func (a *Archetype) Deallocate(idx int) {
	a.entities[idx] = ecs.EntityID{}
	a.insertEmptyRange(Range{Start: idx, End: idx + 1})
}

func (a *Archetype) insertEmptyRange(added Range) {
	merged := make([]Range, 0, len(a.emptyRanges)+1)
	placed := false

	for _, r := range a.emptyRanges {
		if added.End < r.Start {
			if !placed {
				merged = append(merged, added)
				placed = true
			}
			merged = append(merged, r)
			continue
		}
		if r.End < added.Start {
			merged = append(merged, r)
			continue
		}
		// Overlapping or adjacent: absorb r into added instead of
		// appending it, growing added's bounds to cover both.
		if r.Start < added.Start {
			added.Start = r.Start
		}
		if r.End > added.End {
			added.End = r.End
		}
	}
	if !placed {
		merged = append(merged, added)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	a.emptyRanges = merged
}

// EmptyRanges returns a snapshot of the archetype's currently tracked empty
// ranges, primarily for tests.
func (a *Archetype) EmptyRanges() []Range {
	out := make([]Range, len(a.emptyRanges))
	copy(out, a.emptyRanges)
	return out
}
