// ABOUTME: Analytics engine construction and fan-out plumbing
// ABOUTME: Holds the injected data source, reference timezone, and read concurrency bound
package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultTimezone is the fixed reference timezone used for bucketing
// when none is configured. Bucketing must not follow the server clock:
// two records on the same local calendar day have to land in the same
// bucket wherever the process runs.
const DefaultTimezone = "America/Chicago"

// DefaultMaxConcurrency bounds how many sub-aggregations may hold a
// store read at once. The store's connection pool is not ours to size;
// this keeps a full dashboard fan-out from flooding it.
const DefaultMaxConcurrency = 8

// Engine computes report and dashboard aggregations over an injected
// DataSource. It keeps no state between calls and never mutates data.
type Engine struct {
	src           DataSource
	loc           *time.Location
	maxConcurrent int64
	sem           *semaphore.Weighted
}

type Option func(*Engine)

// WithLocation sets the reference timezone for all bucketing.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithMaxConcurrency sets the bound on concurrent store reads.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrent = int64(n)
		}
	}
}

func NewEngine(src DataSource, opts ...Option) *Engine {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	e := &Engine{
		src:           src,
		loc:           loc,
		maxConcurrent: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sem = semaphore.NewWeighted(e.maxConcurrent)
	return e
}

// Location returns the engine's reference timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// spawn runs one sub-aggregation on the group, gated by the read
// semaphore. The first failure cancels the group context, so waiting
// siblings unblock with a context error.
func (e *Engine) spawn(ctx context.Context, g *errgroup.Group, fn func() error) {
	g.Go(func() error {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer e.sem.Release(1)
		return fn()
	})
}
