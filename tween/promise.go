package tween

import (
	"context"
	"errors"
	"sync"
)

// ErrKilled rejects the promise of a tween stopped before it finished.
var ErrKilled = errors.New("tween: killed")

// Result is what a resolved Promise hands back.
type Result struct {
	// Value is the final tweened value.
	Value float32
	// Params are the values given with WithThenParams.
	Params []any
}

// Promise settles once when its tween finishes or is killed. Done and Wait
// may be used from any goroutine.
type Promise struct {
	done   chan struct{}
	once   sync.Once
	result Result
	err    error
	stop   func()
}

func newPromise(stop func()) *Promise {
	p := new(Promise)
	p.done = make(chan struct{})
	p.stop = stop
	return p
}

// Done is closed when the promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the promise settles or ctx ends.
func (p *Promise) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Kill stops the tween and rejects the promise with ErrKilled. It has no
// effect once the promise has settled. Call it from the ticker's dispatch
// context.
func (p *Promise) Kill() {
	p.once.Do(func() {
		p.stop()
		p.err = ErrKilled
		close(p.done)
	})
}

func (p *Promise) resolve(r Result) {
	p.once.Do(func() {
		p.result = r
		close(p.done)
	})
}
