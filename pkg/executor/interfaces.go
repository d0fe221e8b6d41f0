package executor

import (
	"context"
)

// Executor knows how to reach a server (or pretend to) and return one
// CPU utilization reading in percent.
type Executor interface {
	Probe(ctx context.Context, server string) (float64, error)
}

// Sampler returns a value in [0, 1).
type Sampler func() float64
