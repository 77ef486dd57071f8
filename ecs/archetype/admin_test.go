package archetype_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	ecs "github.com/kestrelengine/core"
	"github.com/kestrelengine/core/ecs/archetype"
	"github.com/kestrelengine/core/runtime"
)

type recordingSystem struct {
	name   string
	mu     *sync.Mutex
	order  *[]string
	starts *int
	ends   *int
}

func (s *recordingSystem) Descriptor() archetype.SystemDescriptor {
	return archetype.SystemDescriptor{Name: s.name}
}

func (s *recordingSystem) OnStart(ctx context.Context, admin *archetype.Admin) error {
	*s.starts++
	return nil
}

func (s *recordingSystem) OnUpdate(ctx context.Context, admin *archetype.Admin) error {
	s.mu.Lock()
	*s.order = append(*s.order, s.name)
	s.mu.Unlock()
	return nil
}

func (s *recordingSystem) OnEnd(ctx context.Context, admin *archetype.Admin) error {
	*s.ends++
	return nil
}

func TestAdminUpdateSimulationSynchronousPreservesOrder(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)

	var mu sync.Mutex
	var order []string
	starts, ends := 0, 0

	admin.RegisterSystem(&recordingSystem{name: "movement", mu: &mu, order: &order, starts: &starts, ends: &ends})
	admin.RegisterSystem(&recordingSystem{name: "render", mu: &mu, order: &order, starts: &starts, ends: &ends})

	require.NoError(t, admin.StartSimulation(context.Background()))
	require.NoError(t, admin.UpdateSimulation(context.Background(), nil))
	require.NoError(t, admin.EndSimulation(context.Background()))

	require.Equal(t, []string{"movement", "render"}, order)
	require.Equal(t, 2, starts)
	require.Equal(t, 2, ends)
}

func TestAdminUpdateSimulationAsyncUsesWorkerPool(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)

	var mu sync.Mutex
	var order []string
	starts, ends := 0, 0
	admin.RegisterSystem(&recordingSystem{name: "first", mu: &mu, order: &order, starts: &starts, ends: &ends})
	admin.RegisterSystem(&recordingSystem{name: "second", mu: &mu, order: &order, starts: &starts, ends: &ends})

	pool := runtime.NewWorkerPool(4)
	defer pool.Shutdown()

	require.NoError(t, admin.UpdateSimulation(context.Background(), pool))
	require.Equal(t, []string{"first", "second"}, order, "each system is its own pack, so packs still run in order")
}

func TestAdminSpawnDespawnAlive(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)

	fp := archetype.Fingerprint{}
	id, arch := admin.Spawn(fp)
	require.False(t, id.IsZero())
	require.NotNil(t, arch)
	require.True(t, admin.Alive(id))

	gotArch, _, ok := admin.Locate(id)
	require.True(t, ok)
	require.Same(t, arch, gotArch)

	require.True(t, admin.Despawn(id))
	require.False(t, admin.Alive(id))

	_, _, ok = admin.Locate(id)
	require.False(t, ok, "despawn must free the archetype slot too")

	require.False(t, admin.Despawn(id), "despawning twice reports false")
}

func TestAdminSpawnRecyclesRegistryIndices(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)

	fp := archetype.Fingerprint{}
	first, _ := admin.Spawn(fp)
	require.True(t, admin.Despawn(first))

	second, _ := admin.Spawn(fp)
	require.Equal(t, first.Index(), second.Index())
	require.NotEqual(t, first.Generation(), second.Generation())
	require.False(t, admin.Alive(first), "the stale handle must not read as alive after recycling")
	require.True(t, admin.Alive(second))
}

type recordingLogger struct {
	mu     sync.Mutex
	fields map[string]any
	infos  int
	errors int
}

func (l *recordingLogger) With(key string, value any) ecs.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fields == nil {
		l.fields = map[string]any{}
	}
	l.fields[key] = value
	return l
}

func (l *recordingLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos++
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors++
}

type recordingMetrics struct {
	mu      sync.Mutex
	reports []ecs.UpdateReport
}

func (m *recordingMetrics) ObserveUpdate(report ecs.UpdateReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
}

type recordingExporter struct {
	mu      sync.Mutex
	reports []ecs.UpdateReport
}

func (e *recordingExporter) ExportUpdate(report ecs.UpdateReport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reports = append(e.reports, report)
}

func TestAdminUpdateSimulationReportsObservability(t *testing.T) {
	reg, err := archetype.NewRegistry(64)
	require.NoError(t, err)
	admin := archetype.NewAdmin(reg, archetype.DefaultChunkSizeBytes)

	var mu sync.Mutex
	var order []string
	starts, ends := 0, 0
	admin.RegisterSystem(&recordingSystem{name: "only", mu: &mu, order: &order, starts: &starts, ends: &ends})

	logger := &recordingLogger{}
	metrics := &recordingMetrics{}
	exporter := &recordingExporter{}
	admin.SetObservability(logger, nil, metrics, exporter)

	require.NoError(t, admin.UpdateSimulation(context.Background(), nil))

	require.Len(t, metrics.reports, 1)
	require.Equal(t, uint64(1), metrics.reports[0].Tick)
	require.Equal(t, 1, metrics.reports[0].SystemsTotal)
	require.Equal(t, 1, metrics.reports[0].SystemsExecuted)
	require.Equal(t, 0, metrics.reports[0].SystemsSkipped)
	require.NoError(t, metrics.reports[0].Err)

	require.Len(t, exporter.reports, 1)
	require.Equal(t, metrics.reports[0], exporter.reports[0])

	require.Equal(t, 1, logger.infos)
	require.Equal(t, 0, logger.errors)

	require.NoError(t, admin.UpdateSimulation(context.Background(), nil))
	require.Len(t, metrics.reports, 2)
	require.Equal(t, uint64(2), metrics.reports[1].Tick)
}
