// Package momentum turns a fling velocity into a decelerating run of
// per-tick displacements.
//
// A run is one dimensional. Start derives a constant deceleration from the
// engine's friction, then every tick samples the clock, integrates position
// under that deceleration and reports the change since the previous tick.
// Elapsed time is read from a wall clock (time.Now unless WithClock is
// given), so a late tick simply integrates over a longer interval.
package momentum

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matt-g-everett/ledanim/ticker"
)

// DistanceMultiplier scales the kinematic distance into display units.
const DistanceMultiplier = 100.0

const (
	minAccel = 10.0
	maxAccel = 50.0
)

var (
	// ErrInvalidConfiguration is returned for friction outside [0,1], a
	// negative maximum velocity, an unusable tick rate or a non-finite
	// velocity.
	ErrInvalidConfiguration = errors.New("momentum: invalid configuration")
	// ErrInvalidState is returned when Start is called on a moving engine.
	ErrInvalidState = errors.New("momentum: engine already moving")
)

// Config holds the per-engine constants.
type Config struct {
	Friction    float64 `yaml:"friction"`
	VelocityMax float64 `yaml:"velocityMax"`
}

// DefaultConfig returns friction 0 and a maximum velocity of 25.
func DefaultConfig() Config {
	return Config{Friction: 0, VelocityMax: 25}
}

// Validate checks the ranges of c.
func (c Config) Validate() error {
	if math.IsNaN(c.Friction) || c.Friction < 0 || c.Friction > 1 {
		return fmt.Errorf("%w: friction %v outside [0,1]", ErrInvalidConfiguration, c.Friction)
	}
	if math.IsNaN(c.VelocityMax) || c.VelocityMax < 0 {
		return fmt.Errorf("%w: velocityMax %v is negative", ErrInvalidConfiguration, c.VelocityMax)
	}
	return nil
}

// State is a snapshot of an engine handed to callbacks.
type State struct {
	// Velocity at the last tick, zero once the run has finished.
	Velocity float64
	// Displacement since the previous tick.
	Displacement float64
	// Distance covered so far in the run, signed like the velocity.
	Distance float64
	// TotalDistance is the unsigned length of the whole run.
	TotalDistance float64
	// TotalTime is the run length in seconds.
	TotalTime float64
	IsMoving  bool
}

// An Option configures an Engine.
type Option func(*Engine)

// WithOnUpdate sets the callback invoked on every tick that moves.
func WithOnUpdate(fn func(State)) Option {
	return func(e *Engine) { e.onUpdate = fn }
}

// WithOnComplete sets the callback invoked once when a run finishes.
func WithOnComplete(fn func(State)) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRate sets the tick rate requested from the ticker.
func WithRate(rate float64) Option {
	return func(e *Engine) { e.rate = rate }
}

// Engine is a momentum engine. It is not safe for concurrent use, all calls
// are expected on the ticker's dispatch context.
type Engine struct {
	port       ticker.Port
	config     Config
	clock      func() time.Time
	rate       float64
	onUpdate   func(State)
	onComplete func(State)

	velocity        float64
	velocityInitial float64
	accel           float64
	totalDistance   float64
	totalTime       float64
	startTime       time.Time
	prevDis         float64
	displacement    float64
	isMoving        bool
}

// New creates an instance of an Engine.
func New(port ticker.Port, config Config, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := new(Engine)
	e.port = port
	e.config = config
	e.clock = time.Now
	e.rate = ticker.DefaultRate
	for _, opt := range opts {
		opt(e)
	}
	if err := ticker.ValidateRate(e.rate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return e, nil
}

// ValidateVelocity rejects velocities no run can be derived from.
func ValidateVelocity(velocity float64) error {
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		return fmt.Errorf("%w: velocity %v is not finite", ErrInvalidConfiguration, velocity)
	}
	return nil
}

// Start begins a run at velocity. A zero velocity is ignored. The velocity
// is clamped to the configured maximum magnitude.
func (e *Engine) Start(velocity float64) error {
	if err := ValidateVelocity(velocity); err != nil {
		return err
	}
	if velocity == 0 {
		return nil
	}
	if e.isMoving {
		return ErrInvalidState
	}

	velocity = math.Max(-e.config.VelocityMax, math.Min(velocity, e.config.VelocityMax))
	if velocity == 0 {
		return nil
	}

	e.velocity = velocity
	e.velocityInitial = velocity

	e.accel = e.applyFriction()
	if velocity > 0 {
		e.accel *= -1
	}

	e.totalDistance = velocity * velocity / (2 * math.Abs(e.accel)) * DistanceMultiplier
	e.totalTime = math.Abs(velocity / e.accel)

	e.startTime = e.clock()
	e.prevDis = 0
	e.displacement = 0

	e.isMoving = true
	e.port.Register(e, e.rate, e.settle)
	return nil
}

// Stop ends the run without a completion callback. It is idempotent.
func (e *Engine) Stop() {
	e.isMoving = false
	e.port.Unregister(e, e.rate)
}

// IsMoving reports whether a run is in progress.
func (e *Engine) IsMoving() bool {
	return e.isMoving
}

// Acceleration returns the signed deceleration of the current or last run.
func (e *Engine) Acceleration() float64 {
	return e.accel
}

// State returns a snapshot of the engine.
func (e *Engine) State() State {
	return State{
		Velocity:      e.velocity,
		Displacement:  e.displacement,
		Distance:      e.prevDis,
		TotalDistance: e.totalDistance,
		TotalTime:     e.totalTime,
		IsMoving:      e.isMoving,
	}
}

func (e *Engine) settle() {
	if !e.isMoving {
		return
	}

	t := e.clock().Sub(e.startTime).Seconds()
	e.velocity = e.velocityInitial + e.accel*t
	if t >= e.totalTime {
		e.Stop()
		e.velocity = 0

		// Snap to the end of the run so the displacements sum to the total.
		end := math.Copysign(e.totalDistance, e.velocityInitial)
		e.displacement = end - e.prevDis
		e.prevDis = end
	} else {
		dis := (e.velocityInitial*t + 0.5*e.accel*t*t) * DistanceMultiplier
		e.displacement = dis - e.prevDis
		e.prevDis = dis
	}

	if e.onUpdate != nil {
		e.onUpdate(e.State())
	}

	if !e.isMoving && e.onComplete != nil {
		e.onComplete(e.State())
	}
}

// applyFriction maps friction in [0,1] onto a deceleration in [10,50].
func (e *Engine) applyFriction() float64 {
	return e.config.Friction*(maxAccel-minAccel) + minAccel
}
