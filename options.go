package kraster

import (
	"runtime"

	"github.com/kabasset/KRaster/internal/parallel"
)

// ApplyOption configures how a filter or affinity evaluation runs.
// Use functional options on the applying call:
//
//	out := kraster.Apply(f, src, kraster.WithWorkers(0))
type ApplyOption func(*applyConfig)

// applyConfig holds per-call evaluation settings.
type applyConfig struct {
	workers int
	pool    *parallel.WorkerPool
}

// newApplyConfig resolves options against the sequential default.
func newApplyConfig(opts []ApplyOption) applyConfig {
	cfg := applyConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// run dispatches evaluation tasks through the configured pool, or
// through a one-shot fork-join when no pool is set.
func (cfg applyConfig) run(tasks []func()) {
	if cfg.pool != nil {
		cfg.pool.Run(tasks...)
		return
	}
	parallel.Do(cfg.workers, tasks...)
}

// WithWorkers partitions the output index space across n goroutines.
// Every per-position computation is independent, so no synchronization
// beyond the partitioning is needed. n <= 0 selects GOMAXPROCS.
// The default is sequential evaluation.
func WithWorkers(n int) ApplyOption {
	return func(cfg *applyConfig) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		cfg.workers = n
	}
}

// WithPool evaluates on a long-lived worker pool instead of spawning
// goroutines per call. The output is partitioned across as many slabs
// as the pool has workers. The caller keeps ownership of the pool.
func WithPool(p *WorkerPool) ApplyOption {
	return func(cfg *applyConfig) {
		cfg.pool = p.p
		cfg.workers = p.Workers()
	}
}

// WorkerPool reuses a fixed set of goroutines across evaluations.
// Amortizes goroutine startup when many filters run back to back over
// small rasters. Close releases the workers.
type WorkerPool struct {
	p *parallel.WorkerPool
}

// NewWorkerPool starts a pool with the given number of workers.
// workers <= 0 selects GOMAXPROCS.
func NewWorkerPool(workers int) *WorkerPool {
	return &WorkerPool{p: parallel.NewWorkerPool(workers)}
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.p.Workers()
}

// Close stops the workers. The pool cannot be reused afterwards.
func (p *WorkerPool) Close() {
	p.p.Close()
}
