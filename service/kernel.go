package service

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/kestrelengine/core/external"
	"github.com/kestrelengine/core/runtime"
)

// Kernel owns the process-wide Provider and drives the main loop, mirroring
// the original's Core/Kernel.hpp. Services are registered one SetupService
// call at a time, in the order the caller makes those calls; once a required
// service fails, every later SetupService call
// is ignored so the Kernel can fail fast without piling up more errors.
type Kernel struct {
	provider *Provider
	config   BuildConfig
	logger   external.Logger
	window   external.WindowManager

	exitCode          atomic.Int32
	shutdownRequested atomic.Bool
	bootFailed        atomic.Bool
}

// NewKernel constructs a Kernel with the given build configuration.
func NewKernel(cfg BuildConfig) *Kernel {
	return &Kernel{
		provider: NewProvider(),
		config:   cfg,
	}
}

// Provider exposes the Kernel's service registry.
func (k *Kernel) Provider() *Provider {
	return k.provider
}

// SetupService registers a service via ctor. If required is true and ctor
// either errors or the resulting service reports StatusFailed, the Kernel
// marks boot as failed, sets a nonzero exit code, and SetupService becomes a
// no-op for every subsequent call — mirroring the original's documented
// short-circuit behavior.
func SetupService[S Service](k *Kernel, required bool, ctor func(*Provider) (S, error)) (S, bool) {
	var zero S
	if k.bootFailed.Load() {
		return zero, false
	}

	svc, err := Provide(k.provider, ctor)
	if err != nil {
		if required {
			k.failBoot()
		}
		return zero, false
	}

	if status, _ := svc.CheckStatus(); status == StatusFailed && required {
		k.failBoot()
		return svc, false
	}
	return svc, true
}

func (k *Kernel) failBoot() {
	k.bootFailed.Store(true)
	k.exitCode.Store(1)
}

// BindAmbient wires the Kernel's logger and window manager once they have
// been registered as services, so the main loop can use them directly
// without a type assertion at every iteration.
func (k *Kernel) BindAmbient(logger external.Logger, window external.WindowManager) {
	k.logger = logger
	k.window = window
}

// RequestShutdown is thread-safe and irreversible: once called, Run exits at
// the end of its current iteration. Calling it before Run starts means Run
// returns immediately once invoked.
func (k *Kernel) RequestShutdown(exitCode int32) {
	k.shutdownRequested.Store(true)
	k.exitCode.Store(exitCode)
}

// ExitCode returns the code Run will return (or has returned).
func (k *Kernel) ExitCode() int32 {
	return k.exitCode.Load()
}

// Run executes the main loop: poll window events, check the shutdown flag,
// repeat. If MaxFrameRate is set, iterations are paced with a token-bucket
// limiter instead of running as fast as possible — an enrichment over the
// original's unthrottled loop, since a busy-loop is not how the rest of this
// module's ecosystem stack would pace recurring work.
func (k *Kernel) Run(ctx context.Context) int32 {
	if k.bootFailed.Load() {
		return k.exitCode.Load()
	}

	var limiter *rate.Limiter
	if k.config.MaxFrameRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(k.config.MaxFrameRate), 1)
	}

	for {
		if k.shutdownRequested.Load() {
			return k.exitCode.Load()
		}
		select {
		case <-ctx.Done():
			return k.exitCode.Load()
		default:
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return k.exitCode.Load()
			}
		}

		if k.window != nil {
			if err := k.window.PollEvents(); err != nil {
				if k.logger != nil {
					k.logger.Error("window event poll failed", "error", err)
				}
				k.RequestShutdown(1)
				continue
			}
			if k.window.ShouldClose() {
				k.RequestShutdown(0)
				continue
			}
		}

		if limiter == nil {
			time.Sleep(time.Millisecond)
		}
	}
}

// NewScheduler constructs a runtime.WorkerPool-backed scheduler service sized
// from the Kernel's build configuration: a single worker when
// MultithreadEnabled is false (so the behavior degrades to strictly
// sequential execution rather than disappearing), otherwise the
// runtime-default worker count. A job that panics is logged through the
// Kernel's logger, when one is bound, and the worker carries on.
func NewScheduler(k *Kernel) (*SchedulerService, error) {
	size := 0
	if !k.config.MultithreadEnabled {
		size = 1
	}
	opts := []runtime.WorkerPoolOption{
		runtime.WithPanicHandler(func(workerIndex int, recovered any) {
			if k.logger != nil {
				k.logger.Error("scheduled job panicked", "worker", workerIndex, "panic", recovered)
			}
		}),
	}
	if k.config.ThreadLabelsEnabled {
		opts = append(opts, runtime.WithThreadLabels())
	}
	return &SchedulerService{pool: runtime.NewWorkerPool(size, opts...)}, nil
}

// SchedulerService adapts a runtime.WorkerPool to the Service contract so it
// can be registered on, and torn down by, the Kernel's Provider.
type SchedulerService struct {
	Base
	pool *runtime.WorkerPool
}

// Pool exposes the underlying worker pool.
func (s *SchedulerService) Pool() *runtime.WorkerPool { return s.pool }

// Close shuts the pool down; called by Provider.Close during teardown.
func (s *SchedulerService) Close() error {
	s.pool.Shutdown()
	return nil
}

var _ Service = (*SchedulerService)(nil)
