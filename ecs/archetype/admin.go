package archetype

import (
	"context"
	"time"

	ecs "github.com/kestrelengine/core"
	"github.com/kestrelengine/core/runtime"
)

type entityLocation struct {
	archetype *Archetype
	index     int
}

// Admin owns every Archetype, the entity-to-slot index, the exclusive-
// component store, and the Systems that run against them. It is grounded on
// the original's EntityAdmin, generalized from DaemonRenderer's simpler
// variant to also hold Ruken's fuller System/ExecutionPlan-driven update
// loop. Entity identifiers are allocated through an ecs.EntityRegistry
// rather than invented locally, so generation recycling and liveness
// checks are shared with the rest of the module instead of duplicated here.
type Admin struct {
	registry       *Registry
	chunkSizeBytes int
	archetypes     map[Fingerprint]*Archetype
	locations      map[ecs.EntityID]entityLocation
	entities       *ecs.EntityRegistry
	exclusives     *exclusiveStore
	systems        []System
	plan           *runtime.ExecutionPlan
	tick           uint64

	logger   ecs.Logger
	tracer   ecs.Tracer
	metrics  ecs.MetricsCollector
	exporter ecs.TraceExporter
}

// NewAdmin constructs an empty Admin backed by registry, with component
// columns chunked at chunkSizeBytes (use DefaultChunkSizeBytes unless
// benchmarking suggests otherwise).
func NewAdmin(registry *Registry, chunkSizeBytes int) *Admin {
	return &Admin{
		registry:       registry,
		chunkSizeBytes: chunkSizeBytes,
		archetypes:     make(map[Fingerprint]*Archetype),
		locations:      make(map[ecs.EntityID]entityLocation),
		entities:       ecs.NewEntityRegistry(),
		exclusives:     newExclusiveStore(),
	}
}

// Registry exposes the Admin's component id allocator.
func (a *Admin) Registry() *Registry { return a.registry }

// SetObservability wires the sinks UpdateSimulation reports each tick
// through. Any of the four may be nil; UpdateSimulation skips a sink that
// isn't set instead of requiring all-or-nothing configuration.
func (a *Admin) SetObservability(logger ecs.Logger, tracer ecs.Tracer, metrics ecs.MetricsCollector, exporter ecs.TraceExporter) {
	a.logger = logger
	a.tracer = tracer
	a.metrics = metrics
	a.exporter = exporter
}

// Spawn allocates a fresh EntityID from the Admin's entity registry and
// places it into the archetype identified by fp. Prefer this over
// CreateEntity for new entities; CreateEntity remains for callers that
// already hold an externally allocated EntityID, such as deferred command
// replay or save-state loading.
func (a *Admin) Spawn(fp Fingerprint) (ecs.EntityID, *Archetype) {
	id := a.entities.Create()
	return id, a.CreateEntity(id, fp)
}

// Despawn frees id's registry slot in addition to its archetype slot,
// recycling the index for a future Spawn. It reports false if id is not
// currently tracked.
func (a *Admin) Despawn(id ecs.EntityID) bool {
	if !a.DestroyEntity(id) {
		return false
	}
	return a.entities.Destroy(id)
}

// Alive reports whether id is both registered and currently alive according
// to the Admin's entity registry.
func (a *Admin) Alive(id ecs.EntityID) bool {
	return a.entities.IsAlive(id)
}

// CreateEntity places id into the archetype identified by fp, creating that
// archetype on first use, and returns the archetype it now lives in.
func (a *Admin) CreateEntity(id ecs.EntityID, fp Fingerprint) *Archetype {
	arch, ok := a.archetypes[fp]
	if !ok {
		arch = newArchetype(fp, a.chunkSizeBytes)
		a.archetypes[fp] = arch
	}
	idx := arch.Allocate(id)
	a.locations[id] = entityLocation{archetype: arch, index: idx}
	return arch
}

// DestroyEntity frees id's slot in its archetype. It reports false if id is
// not currently tracked.
func (a *Admin) DestroyEntity(id ecs.EntityID) bool {
	loc, ok := a.locations[id]
	if !ok {
		return false
	}
	loc.archetype.Deallocate(loc.index)
	delete(a.locations, id)
	return true
}

// Locate returns the archetype and dense index id currently occupies.
func (a *Admin) Locate(id ecs.EntityID) (arch *Archetype, index int, ok bool) {
	loc, ok := a.locations[id]
	if !ok {
		return nil, 0, false
	}
	return loc.archetype, loc.index, true
}

// Match returns every archetype satisfying q.
func (a *Admin) Match(q Query) []*Archetype {
	var out []*Archetype
	for fp, arch := range a.archetypes {
		if q.Matches(fp) {
			out = append(out, arch)
		}
	}
	return out
}

// ArchetypeCount reports how many distinct archetypes currently exist.
func (a *Admin) ArchetypeCount() int {
	return len(a.archetypes)
}

// RegisterSystem appends sys to the Admin's update pipeline. Registration
// order determines pack order in BuildUpdatePlan.
func (a *Admin) RegisterSystem(sys System) {
	a.systems = append(a.systems, sys)
	a.plan = nil
}

// BuildUpdatePlan lays out one instruction pack per registered system, in
// registration order — the conservative layout the spec names as the
// default: every system waits for the previous one to finish before
// starting, even though nothing stops a caller writing systems that are
// provably independent and grouping them into the same pack instead.
func (a *Admin) BuildUpdatePlan() *runtime.ExecutionPlan {
	plan := runtime.NewExecutionPlan()
	for _, sys := range a.systems {
		sys := sys
		plan.AddInstruction(func(ctx context.Context) error {
			return sys.OnUpdate(ctx, a)
		})
		plan.EndInstructionPack()
	}
	a.plan = plan
	return plan
}

// StartSimulation runs every system's OnStart hook, in registration order,
// on the calling goroutine.
func (a *Admin) StartSimulation(ctx context.Context) error {
	for _, sys := range a.systems {
		if err := sys.OnStart(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSimulation runs one tick of every system's OnUpdate hook. With a
// nil pool it runs synchronously and in registration order; with a pool it
// dispatches through the Admin's ExecutionPlan (building one via
// BuildUpdatePlan first if none exists yet). Whatever sinks SetObservability
// configured receive an UpdateReport for the tick regardless of outcome.
func (a *Admin) UpdateSimulation(ctx context.Context, pool *runtime.WorkerPool) error {
	if a.plan == nil {
		a.BuildUpdatePlan()
	}

	var span ecs.TraceSpan
	if a.tracer != nil {
		ctx, span = a.tracer.Start(ctx, "ecs.update_simulation")
	}

	start := time.Now()
	var err error
	if pool == nil {
		err = a.plan.ExecuteSynchronously(ctx)
	} else {
		err = a.plan.ExecuteAsynchronously(ctx, pool)
	}
	elapsed := time.Since(start)

	if span != nil {
		span.End()
	}

	a.tick++
	executed := len(a.systems)
	if err != nil {
		executed = 0
	}
	report := ecs.UpdateReport{
		Tick:            a.tick,
		Async:           pool != nil,
		Duration:        elapsed,
		SystemsTotal:    len(a.systems),
		SystemsExecuted: executed,
		SystemsSkipped:  len(a.systems) - executed,
		Err:             err,
	}
	if a.metrics != nil {
		a.metrics.ObserveUpdate(report)
	}
	if a.exporter != nil {
		a.exporter.ExportUpdate(report)
	}
	if a.logger != nil {
		if err != nil {
			a.logger.Error("simulation tick failed", "tick", report.Tick, "error", err)
		} else {
			a.logger.Info("simulation tick completed", "tick", report.Tick, "duration_ms", elapsed.Milliseconds())
		}
	}
	return err
}

// EndSimulation runs every system's OnEnd hook, in registration order.
func (a *Admin) EndSimulation(ctx context.Context) error {
	for _, sys := range a.systems {
		if err := sys.OnEnd(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
