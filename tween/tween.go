// Package tween runs gween tweens off a ticker.Port and reports their end
// through a Promise instead of a completion callback.
package tween

import (
	"time"

	"github.com/matt-g-everett/ledanim/ticker"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// An Option configures a tween.
type Option func(*Tween)

// WithOnComplete sets a callback run when the tween finishes, before the
// promise resolves.
func WithOnComplete(fn func()) Option {
	return func(t *Tween) { t.onComplete = fn }
}

// WithOnUpdate calls fn after every new value is applied.
func WithOnUpdate(fn func(float32)) Option {
	return func(t *Tween) { t.onUpdate = fn }
}

// WithThenParams attaches values handed back in the Result.
func WithThenParams(params ...any) Option {
	return func(t *Tween) { t.params = params }
}

// WithRate sets the tick rate requested from the ticker.
func WithRate(rate float64) Option {
	return func(t *Tween) { t.rate = rate }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(t *Tween) { t.clock = clock }
}

// Tween drives a single gween.Tween. Like the other tick driven types it
// is used from the ticker's dispatch context only.
type Tween struct {
	port       ticker.Port
	tween      *gween.Tween
	apply      func(float32)
	clock      func() time.Time
	rate       float64
	onComplete func()
	onUpdate   func(float32)
	params     []any

	last    time.Time
	value   float32
	promise *Promise
}

// Run tweens from begin to end over seconds, passing every value to apply.
func Run(port ticker.Port, begin, end, seconds float32, easing ease.TweenFunc, apply func(float32), opts ...Option) *Promise {
	if easing == nil {
		easing = ease.Linear
	}

	t := new(Tween)
	t.port = port
	t.tween = gween.New(begin, end, seconds, easing)
	t.apply = apply
	t.clock = time.Now
	t.rate = ticker.DefaultRate
	for _, opt := range opts {
		opt(t)
	}
	t.promise = newPromise(t.kill)

	t.start()
	return t.promise
}

// To tweens *target from its current value to end.
func To(port ticker.Port, target *float32, end, seconds float32, easing ease.TweenFunc, opts ...Option) *Promise {
	return Run(port, *target, end, seconds, easing, setter(target), opts...)
}

// From tweens *target from start back to its current value.
func From(port ticker.Port, target *float32, start, seconds float32, easing ease.TweenFunc, opts ...Option) *Promise {
	return Run(port, start, *target, seconds, easing, setter(target), opts...)
}

// FromTo tweens *target from start to end.
func FromTo(port ticker.Port, target *float32, start, end, seconds float32, easing ease.TweenFunc, opts ...Option) *Promise {
	return Run(port, start, end, seconds, easing, setter(target), opts...)
}

func setter(target *float32) func(float32) {
	return func(v float32) { *target = v }
}

func (t *Tween) start() {
	t.last = t.clock()
	value, _ := t.tween.Set(0)
	t.set(value)
	t.port.Register(t, t.rate, t.tick)
}

func (t *Tween) set(value float32) {
	t.value = value
	if t.apply != nil {
		t.apply(value)
	}
	if t.onUpdate != nil {
		t.onUpdate(value)
	}
}

func (t *Tween) tick() {
	now := t.clock()
	dt := now.Sub(t.last).Seconds()
	t.last = now

	value, finished := t.tween.Update(float32(dt))
	t.set(value)
	if !finished {
		return
	}

	t.port.Unregister(t, t.rate)
	if t.onComplete != nil {
		t.onComplete()
	}
	t.promise.resolve(Result{Value: value, Params: t.params})
}

func (t *Tween) kill() {
	t.port.Unregister(t, t.rate)
}
