package sts

import "sync"

// JobFunc computes the per-configuration results for one bitstream. It
// must not touch the Report or any other shared mutable state: per spec.md
// §5, per-slot working state is disjoint and Report writes happen only on
// the driver thread after join.
type JobFunc func(bitstream *Bitstream) ([]TestResult, error)

// Pool is the join-all worker pool the optionally-parallel kernels (DFT
// and Random-Excursions) use (spec.md §5). Random-Excursions-Variant does
// not use it: that kernel has no threadCount parameter and evaluates each
// bitstream directly in Execute. A Pool holds up to capacity pending
// (bitstream, job) pairs; when full, Submit
// runs all of them concurrently, blocks until every one completes, and
// returns their results in submission order regardless of completion
// order — there is no polling and no sleeping, only a sync.WaitGroup
// acting as the join barrier (spec.md §9: "replace with proper join-all
// semantics... no sleeps, no polled counters"). Each worker writes only
// its own result slot, so no mutex is involved.
type Pool struct {
	capacity int
	job      JobFunc
	queue    []*Bitstream
}

// NewPool creates a Pool with the given slot capacity (T in spec.md §5,
// T ∈ [1,128]) and the job every queued bitstream is run through.
func NewPool(capacity int, job JobFunc) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{capacity: capacity, job: job}
}

// Submit queues bitstream. When the pool is full, it runs every queued
// job concurrently, waits for all to finish, and returns their results
// (paired with the bitstream each group belongs to) in submission order;
// otherwise it returns (nil, nil, nil) and the caller should keep
// submitting.
func (p *Pool) Submit(bs *Bitstream) ([][]TestResult, []*Bitstream, error) {
	p.queue = append(p.queue, bs)
	if len(p.queue) < p.capacity {
		return nil, nil, nil
	}
	return p.drain()
}

// Flush runs whatever remains queued (spec.md §5: "On Finalize, any
// still-queued slots are joined"), even if fewer than capacity are
// pending.
func (p *Pool) Flush() ([][]TestResult, []*Bitstream, error) {
	if len(p.queue) == 0 {
		return nil, nil, nil
	}
	return p.drain()
}

func (p *Pool) drain() ([][]TestResult, []*Bitstream, error) {
	n := len(p.queue)
	results := make([][]TestResult, n)
	errs := make([]error, n)
	bitstreams := make([]*Bitstream, n)
	copy(bitstreams, p.queue)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, bs := range p.queue {
		go func(slot int, bitstream *Bitstream) {
			defer wg.Done()
			r, err := p.job(bitstream)
			results[slot] = r
			errs[slot] = err
		}(i, bs)
	}
	wg.Wait()

	p.queue = p.queue[:0]

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return results, bitstreams, nil
}
