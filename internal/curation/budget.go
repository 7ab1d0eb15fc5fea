package curation

import (
	"context"
	"sync/atomic"
)

// Budget is the shared external-call allowance. One unit is one supplier
// search, however many HTTP requests the supplier makes for it (Google
// Places needs a text search and a details lookup). Answers served from a
// supplier cache cost nothing. Consume must be safe for concurrent use by
// every hotel being processed.
type Budget interface {
	Remaining() int
	Consume(n int) bool
}

// Limiter paces supplier calls; *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// CallBudget is a fixed-size counter of calls-allowed minus calls-used.
// A negative limit means unlimited.
type CallBudget struct {
	limit int64
	used  atomic.Int64
}

func NewCallBudget(limit int) *CallBudget {
	return &CallBudget{limit: int64(limit)}
}

func (b *CallBudget) Remaining() int {
	if b.limit < 0 {
		return int(^uint(0) >> 1)
	}
	r := b.limit - b.used.Load()
	if r < 0 {
		return 0
	}
	return int(r)
}

func (b *CallBudget) Consume(n int) bool {
	if n <= 0 {
		return true
	}
	if b.limit < 0 {
		b.used.Add(int64(n))
		return true
	}
	for {
		used := b.used.Load()
		if used+int64(n) > b.limit {
			return false
		}
		if b.used.CompareAndSwap(used, used+int64(n)) {
			return true
		}
	}
}

func (b *CallBudget) Used() int { return int(b.used.Load()) }

type nopLimiter struct{}

func (nopLimiter) Wait(ctx context.Context) error { return ctx.Err() }

// NoLimit is a Limiter that never waits.
var NoLimit Limiter = nopLimiter{}
