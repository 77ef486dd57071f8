package runtime

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
)

// Job is a unit of scheduled work. Unlike the original's bare std::function<void()>,
// jobs here take a context and can report an error, so a WorkerPool can
// propagate cancellation and surface failures instead of swallowing them.
type Job func(ctx context.Context) error

// Worker identifies one of a pool's background goroutines. Labels are only
// populated when labeling is requested, matching the build-time
// thread_labels_enabled switch.
type Worker struct {
	Index int
	Label string
}

// WorkerPool runs Jobs pulled from an internal BlockingQueue across a fixed
// number of goroutines, the Go analogue of the original's Scheduler (the
// "worker pool" half of it — the original bundles the queue and workers into
// one Scheduler service; here the two are split so BlockingQueue can be
// used and tested standalone).
type WorkerPool struct {
	queue   *BlockingQueue[Job]
	workers []Worker
	running atomic.Bool
	onPanic func(workerIndex int, recovered any)
}

// WorkerPoolOption configures a WorkerPool at construction time.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	labeled bool
	onPanic func(workerIndex int, recovered any)
}

// WithThreadLabels assigns each worker a stable uuid label, mirroring the
// build-time thread_labels_enabled flag.
func WithThreadLabels() WorkerPoolOption {
	return func(c *workerPoolConfig) { c.labeled = true }
}

// WithPanicHandler installs a callback invoked whenever a Job panics. If
// unset, panics are silently recovered and the worker moves on to the next
// job.
func WithPanicHandler(fn func(workerIndex int, recovered any)) WorkerPoolOption {
	return func(c *workerPoolConfig) { c.onPanic = fn }
}

// NewWorkerPool starts size workers draining a shared BlockingQueue. A size
// of zero resolves to runtime.NumCPU()-1 (minimum 1), matching the original's
// `in_workers_count == 0 ? hardware_concurrency() - 1 : in_workers_count`.
func NewWorkerPool(size int, opts ...WorkerPoolOption) *WorkerPool {
	if size <= 0 {
		size = runtime.NumCPU() - 1
		if size < 1 {
			size = 1
		}
	}

	cfg := workerPoolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &WorkerPool{
		queue:   NewBlockingQueue[Job](),
		workers: make([]Worker, size),
		onPanic: cfg.onPanic,
	}
	p.running.Store(true)

	for i := 0; i < size; i++ {
		w := Worker{Index: i}
		if cfg.labeled {
			w.Label = fmt.Sprintf("kestrel-worker-%s", uuid.NewString())
		}
		p.workers[i] = w
		go p.workerLoop(w)
	}
	return p
}

// Workers returns a snapshot of the pool's worker descriptors.
func (p *WorkerPool) Workers() []Worker {
	out := make([]Worker, len(p.workers))
	copy(out, p.workers)
	return out
}

func (p *WorkerPool) workerLoop(w Worker) {
	for {
		job, ok := p.queue.Dequeue()
		if !ok {
			return
		}
		if !p.running.Load() {
			return
		}
		p.runJob(w, job)
	}
}

func (p *WorkerPool) runJob(w Worker, job Job) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(w.Index, r)
		}
	}()
	_ = job(context.Background())
}

// Schedule enqueues a job for execution. It is a no-op once Shutdown has
// begun, matching the original's ScheduleTask, which checks m_running before
// enqueueing.
func (p *WorkerPool) Schedule(job Job) {
	if !p.running.Load() {
		return
	}
	p.queue.Enqueue(job)
}

// WaitForQueuedTasks blocks until the pool's queue has drained. This only
// guarantees that every job has been *dequeued*, not that it has finished
// running — a job in flight on a worker is invisible to this call, exactly
// as in the original's WaitUntilEmpty spin.
func (p *WorkerPool) WaitForQueuedTasks() {
	p.queue.WaitUntilEmpty()
}

// Shutdown stops the pool. It clears pending jobs, flips the running flag,
// and releases the queue so every blocked worker goroutine returns. It does
// not wait for in-flight jobs to finish or for worker goroutines to exit —
// the original detaches its OS threads rather than joining them, and a
// goroutine has no equivalent "detach" short of simply not waiting on it.
// Shutdown is idempotent and safe to call more than once or concurrently.
func (p *WorkerPool) Shutdown() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.queue.Clear()
	p.queue.Release()
}

// Running reports whether the pool still accepts scheduled jobs.
func (p *WorkerPool) Running() bool {
	return p.running.Load()
}
