package archetype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ecs "github.com/kestrelengine/core"
	"github.com/kestrelengine/core/ecs/archetype"
)

type velocity struct{ DX, DY float64 }

func TestQueryMatchesIncludeExclude(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	pos := reg.ComponentID("Position")
	vel := reg.ComponentID("Velocity")
	frozen := reg.ComponentID("Frozen")

	moving := (archetype.Fingerprint{}).Set(pos).Set(vel)
	frozenFp := moving.Set(frozen)

	q := archetype.Query{
		Include: (archetype.Fingerprint{}).Set(pos).Set(vel),
		Exclude: (archetype.Fingerprint{}).Set(frozen),
	}

	require.True(t, q.Matches(moving))
	require.False(t, q.Matches(frozenFp))
}

func TestView2IteratesAcrossMultipleArchetypes(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)

	pos := reg.ComponentID("Position")
	vel := reg.ComponentID("Velocity")
	tagID := reg.ComponentID("Tagged")

	fpPlain := (archetype.Fingerprint{}).Set(pos).Set(vel)
	fpTagged := fpPlain.Set(tagID)

	e1 := ecs.EntityIDFromParts(1, 0)
	e2 := ecs.EntityIDFromParts(2, 0)

	arch1 := admin.CreateEntity(e1, fpPlain)
	*archetype.Get[position](arch1, pos, 0) = position{X: 1}
	*archetype.Get[velocity](arch1, vel, 0) = velocity{DX: 1}

	arch2 := admin.CreateEntity(e2, fpTagged)
	*archetype.Get[position](arch2, pos, 0) = position{X: 2}
	*archetype.Get[velocity](arch2, vel, 0) = velocity{DX: 2}

	q := archetype.Query{Include: (archetype.Fingerprint{}).Set(pos).Set(vel)}
	view := archetype.NewView2[position, velocity](admin, q, pos, vel)

	seen := map[uint32]float64{}
	for view.FindNextEntity() {
		seen[view.Entity().Index()] = view.FetchA().X
	}

	require.Equal(t, map[uint32]float64{1: 1, 2: 2}, seen)
}

func TestView1SkipsDeallocatedSlots(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)
	pos := reg.ComponentID("Position")
	fp := (archetype.Fingerprint{}).Set(pos)

	e1 := ecs.EntityIDFromParts(1, 0)
	e2 := ecs.EntityIDFromParts(2, 0)
	admin.CreateEntity(e1, fp)
	admin.CreateEntity(e2, fp)
	admin.DestroyEntity(e1)

	view := archetype.NewView1[position](admin, archetype.Query{Include: fp}, pos, false)
	count := 0
	for view.FindNextEntity() {
		count++
		require.Equal(t, e2, view.Entity())
	}
	require.Equal(t, 1, count)
}

func TestView1PanicsOnWriteWhenReadOnly(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)
	pos := reg.ComponentID("Position")
	fp := (archetype.Fingerprint{}).Set(pos)
	admin.CreateEntity(ecs.EntityIDFromParts(1, 0), fp)

	view := archetype.NewView1[position](admin, archetype.Query{Include: fp}, pos, true)
	require.True(t, view.FindNextEntity())
	require.Panics(t, func() { view.FetchA() })
}
