package ticker

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultRate is the rate in ticks per second used when a registration
// does not ask for one.
const DefaultRate = 30.0

// MaxRate is the fastest rate a ticker can deliver, one tick per
// nanosecond.
const MaxRate = float64(time.Second)

// ErrInvalidRate is returned by ValidateRate.
var ErrInvalidRate = errors.New("ticker: invalid rate")

// Func is called once per tick.
type Func func()

// A Port delivers ticks to registered callbacks. Registrations are keyed by
// owner and rate, registering the same key twice replaces the callback.
// Owners must be comparable, pointers are the usual choice.
type Port interface {
	Register(owner any, rate float64, fn Func)
	Unregister(owner any, rate float64)
}

// ValidateRate rejects rates no ticker can honour. Rates <= 0 are valid and
// select DefaultRate.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || rate > MaxRate {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	return nil
}

type key struct {
	owner any
	rate  float64
}

// normaliseRate maps every rate onto a usable map key and ticker interval.
func normaliseRate(rate float64) float64 {
	switch {
	case math.IsNaN(rate) || rate <= 0:
		return DefaultRate
	case rate > MaxRate:
		return MaxRate
	}
	return rate
}
