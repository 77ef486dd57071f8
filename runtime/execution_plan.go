package runtime

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ExecutionPlan is a build-once, run-many sequence of instruction packs. All
// instructions within a pack may run concurrently; pack i+1 never starts
// until every instruction in pack i has completed. It is the Go rendition of
// the original's ExecutionPlan, which barriers packs with one std::latch per
// pack.
type ExecutionPlan struct {
	mu              sync.Mutex
	instructions    []Job
	packSizes       []int
	currentPackSize int
}

// NewExecutionPlan returns an empty plan.
func NewExecutionPlan() *ExecutionPlan {
	return &ExecutionPlan{}
}

// AddInstruction appends a job to the current, still-open pack.
func (p *ExecutionPlan) AddInstruction(job Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instructions = append(p.instructions, job)
	p.currentPackSize++
}

// EndInstructionPack closes the current pack. It is a no-op if the current
// pack is empty, matching the original's guard against zero-sized packs.
func (p *ExecutionPlan) EndInstructionPack() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.currentPackSize == 0 {
		return
	}
	p.packSizes = append(p.packSizes, p.currentPackSize)
	p.currentPackSize = 0
}

// ResetPlan discards every pack and instruction, returning the plan to its
// initial empty state.
func (p *ExecutionPlan) ResetPlan() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instructions = nil
	p.packSizes = nil
	p.currentPackSize = 0
}

// ExecuteSynchronously runs every instruction on the calling goroutine, in
// the order it was added, ignoring pack boundaries entirely — packs only
// matter for the asynchronous path.
func (p *ExecutionPlan) ExecuteSynchronously(ctx context.Context) error {
	p.mu.Lock()
	instructions := append([]Job(nil), p.instructions...)
	p.mu.Unlock()

	for _, instruction := range instructions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := instruction(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteAsynchronously dispatches every instruction onto pool, gating pack
// i+1 behind the completion of every instruction in pack i via a per-pack
// sync.WaitGroup (the Go down-counting analogue of the original's
// std::latch). Every instruction in every pack is scheduled up front — only
// their execution is gated on the previous pack's latch — the same
// scheduling-ahead-of-time shortcut the original calls out with its own
// "scheduling every job right away" note. ExecuteAsynchronously blocks until
// the final pack completes, or returns early with the first error or the
// context's cancellation. A panicking instruction is recovered and reported
// as an error.
func (p *ExecutionPlan) ExecuteAsynchronously(ctx context.Context, pool *WorkerPool) error {
	p.mu.Lock()
	instructions := append([]Job(nil), p.instructions...)
	packSizes := append([]int(nil), p.packSizes...)
	p.mu.Unlock()

	if len(packSizes) == 0 {
		return nil
	}

	latches := make([]*sync.WaitGroup, len(packSizes))
	for i, size := range packSizes {
		wg := &sync.WaitGroup{}
		wg.Add(size)
		latches[i] = wg
	}

	group, groupCtx := errgroup.WithContext(ctx)

	offset := 0
	for packIndex, size := range packSizes {
		packIndex, latch := packIndex, latches[packIndex]
		pack := instructions[offset : offset+size]
		offset += size

		for _, instruction := range pack {
			instruction := instruction
			done := make(chan error, 1)

			pool.Schedule(func(jobCtx context.Context) (err error) {
				if packIndex > 0 {
					latches[packIndex-1].Wait()
				}
				defer latch.Done()
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("runtime: instruction panicked: %v", r)
						done <- err
					}
				}()
				if jobCtx.Err() == nil {
					err = instruction(jobCtx)
				} else {
					err = jobCtx.Err()
				}
				done <- err
				return err
			})

			// Each errgroup goroutine only waits on its own job's
			// completion signal; the instruction itself always runs on a
			// pool worker, keeping concurrency bounded by the pool size
			// regardless of how many instructions the plan holds.
			group.Go(func() error {
				select {
				case err := <-done:
					return err
				case <-groupCtx.Done():
					return groupCtx.Err()
				}
			})
		}
	}

	return group.Wait()
}
