package ticker

import "sort"

// Manual is a Port that only ticks when told to. It suits tests and hosts
// that already own a frame loop.
type Manual struct {
	fns map[key]registration
	seq uint64
}

// NewManual creates an instance of a Manual ticker.
func NewManual() *Manual {
	m := new(Manual)
	m.fns = make(map[key]registration)
	return m
}

// Register adds fn under owner and rate.
func (m *Manual) Register(owner any, rate float64, fn Func) {
	m.seq++
	m.fns[key{owner, normaliseRate(rate)}] = registration{seq: m.seq, fn: fn}
}

// Unregister removes the registration for owner and rate.
func (m *Manual) Unregister(owner any, rate float64) {
	delete(m.fns, key{owner, normaliseRate(rate)})
}

// Len returns the number of live registrations.
func (m *Manual) Len() int {
	return len(m.fns)
}

// Registered reports whether owner is registered at rate.
func (m *Manual) Registered(owner any, rate float64) bool {
	_, ok := m.fns[key{owner, normaliseRate(rate)}]
	return ok
}

// Tick calls every registration once in registration order. Keys added
// during the tick wait for the next one.
func (m *Manual) Tick() {
	m.tick(func(key) bool { return true })
}

// TickRate calls only the registrations at rate.
func (m *Manual) TickRate(rate float64) {
	rate = normaliseRate(rate)
	m.tick(func(k key) bool { return k.rate == rate })
}

func (m *Manual) tick(match func(key) bool) {
	type entry struct {
		k key
		r registration
	}
	entries := make([]entry, 0, len(m.fns))
	for k, r := range m.fns {
		if match(k) {
			entries = append(entries, entry{k, r})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].r.seq < entries[j].r.seq })

	for _, e := range entries {
		// Skip anything an earlier callback unregistered. A key it replaced
		// runs the replacement.
		if cur, ok := m.fns[e.k]; ok {
			cur.fn()
		}
	}
}
