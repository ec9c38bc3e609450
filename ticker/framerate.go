package ticker

import (
	"sort"
	"sync"
	"time"
)

type group struct {
	ticker *time.Ticker
	done   chan struct{}
	fns    map[any]registration
}

type registration struct {
	seq uint64
	fn  Func
}

type keyedRegistration struct {
	owner any
	registration
}

func snapshot(fns map[any]registration) []keyedRegistration {
	out := make([]keyedRegistration, 0, len(fns))
	for owner, r := range fns {
		out = append(out, keyedRegistration{owner, r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// FrameRate is a Port driven by the wall clock. Each distinct rate gets its
// own time.Ticker, dispatch is serialized so callbacks never overlap.
type FrameRate struct {
	mu       sync.Mutex
	dispatch sync.Mutex
	groups   map[float64]*group
	seq      uint64
	closed   bool
}

// NewFrameRate creates an instance of a FrameRate.
func NewFrameRate() *FrameRate {
	f := new(FrameRate)
	f.groups = make(map[float64]*group)
	return f
}

// Register starts calling fn at approximately rate ticks per second.
func (f *FrameRate) Register(owner any, rate float64, fn Func) {
	rate = normaliseRate(rate)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	g, ok := f.groups[rate]
	if !ok {
		g = &group{
			ticker: time.NewTicker(time.Duration(float64(time.Second) / rate)),
			done:   make(chan struct{}),
			fns:    make(map[any]registration),
		}
		f.groups[rate] = g
		go f.run(g)
	}

	f.seq++
	g.fns[owner] = registration{seq: f.seq, fn: fn}
}

// Unregister stops ticks for owner at rate. Unknown keys are ignored.
func (f *FrameRate) Unregister(owner any, rate float64) {
	rate = normaliseRate(rate)

	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.groups[rate]
	if !ok {
		return
	}
	delete(g.fns, owner)
	if len(g.fns) == 0 {
		f.stopGroup(rate, g)
	}
}

// Lock blocks tick dispatch so callers outside the ticker can mutate state
// shared with tick callbacks.
func (f *FrameRate) Lock() {
	f.dispatch.Lock()
}

// Unlock resumes tick dispatch.
func (f *FrameRate) Unlock() {
	f.dispatch.Unlock()
}

// Close stops every group. Later registrations are ignored.
func (f *FrameRate) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for rate, g := range f.groups {
		f.stopGroup(rate, g)
	}
	f.closed = true
}

// stopGroup must be called with mu held.
func (f *FrameRate) stopGroup(rate float64, g *group) {
	g.ticker.Stop()
	close(g.done)
	delete(f.groups, rate)
}

func (f *FrameRate) run(g *group) {
	for {
		select {
		case <-g.done:
			return
		case <-g.ticker.C:
			f.tick(g)
		}
	}
}

func (f *FrameRate) tick(g *group) {
	f.dispatch.Lock()
	defer f.dispatch.Unlock()

	f.mu.Lock()
	select {
	case <-g.done:
		f.mu.Unlock()
		return
	default:
	}
	fns := snapshot(g.fns)
	f.mu.Unlock()

	for _, r := range fns {
		if fn, ok := f.current(g, r.owner); ok {
			fn()
		}
	}
}

// current returns the live callback for owner. A callback earlier in the
// same tick may have unregistered or replaced it.
func (f *FrameRate) current(g *group, owner any) (Func, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := g.fns[owner]
	return cur.fn, ok
}
