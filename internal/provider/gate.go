package provider

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultGateCapacity caps concurrent Amadeus calls process-wide so the
// upstream rate limiter is not tripped.
const DefaultGateCapacity = 3

// Gate is a fixed-capacity admission gate. Callers beyond capacity wait;
// nobody is rejected.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
}

func NewGate(capacity int) *Gate {
	if capacity <= 0 {
		capacity = DefaultGateCapacity
	}
	return &Gate{sem: semaphore.NewWeighted(int64(capacity)), capacity: int64(capacity)}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.inFlight.Add(1)
	return nil
}

func (g *Gate) Release() {
	g.inFlight.Add(-1)
	g.sem.Release(1)
}

// Do runs fn while holding a slot. The slot is returned on every exit path,
// panics included.
func (g *Gate) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn(ctx)
}

func (g *Gate) Capacity() int {
	return int(g.capacity)
}

func (g *Gate) InFlight() int {
	return int(g.inFlight.Load())
}
