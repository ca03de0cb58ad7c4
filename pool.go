package md2pdf

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ConverterPool hands out up to Size converters at once. Converters are
// created lazily on first acquire, all with the same options.
type ConverterPool struct {
	size    int
	opts    []Option
	sem     chan *Converter
	mu      sync.Mutex
	created int
}

// NewConverterPool creates a pool with capacity for n converters.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &ConverterPool{
		size: n,
		opts: opts,
		sem:  make(chan *Converter, n),
	}
}

// Acquire returns an idle converter, creates one while under capacity, or
// blocks until one is released or ctx is done.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	select {
	case c := <-p.sem:
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		c, err := NewConverter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return c, nil
	}
	p.mu.Unlock()

	select {
	case c := <-p.sem:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a converter to the pool.
func (p *ConverterPool) Release(c *Converter) {
	if c == nil {
		return
	}
	p.sem <- c
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// BatchResult is the outcome of one conversion in ConvertAll.
type BatchResult struct {
	Input    string
	Output   string
	Result   *Result
	Err      error
	Duration time.Duration
}

// ConvertAll converts every job with at most pool.Size() conversions in
// flight. Results are in job order. Jobs not started before ctx is done
// report ctx.Err().
func ConvertAll(ctx context.Context, pool *ConverterPool, jobs []Options) []BatchResult {
	if len(jobs) == 0 {
		return nil
	}

	workers := min(pool.Size(), len(jobs))
	results := make([]BatchResult, len(jobs))
	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				results[idx] = convertJob(ctx, pool, jobs[idx])
			}
		}()
	}
	wg.Wait()
	return results
}

func convertJob(ctx context.Context, pool *ConverterPool, job Options) BatchResult {
	start := time.Now()
	br := BatchResult{Input: job.Input, Output: job.Output}
	if err := ctx.Err(); err != nil {
		br.Err = err
		return br
	}

	conv, err := pool.Acquire(ctx)
	if err != nil {
		br.Err = err
		br.Duration = time.Since(start)
		return br
	}
	defer pool.Release(conv)

	br.Result, br.Err = conv.ConvertFile(ctx, job)
	if br.Result != nil {
		br.Output = br.Result.Output
	}
	br.Duration = time.Since(start)
	return br
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
