package stream

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/matt-g-everett/ledanim/momentum"
	"github.com/matt-g-everett/ledanim/sprite"
	"github.com/matt-g-everett/ledanim/ticker"
	"github.com/matt-g-everett/ledanim/tween"
	"github.com/tanema/gween/ease"
)

// A Chime is played when a sprite loops or completes.
type Chime interface {
	Play()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithChime plays chime on sprite loop and completion.
func WithChime(chime Chime) ControllerOption {
	return func(c *Controller) { c.chime = chime }
}

// WithClock replaces time.Now for momentum and transitions.
func WithClock(clock func() time.Time) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

// SpriteStatus reports the playing sprite.
type SpriteStatus struct {
	Name        string  `json:"name"`
	Frame       int     `json:"frame"`
	TotalFrames int     `json:"totalFrames"`
	Playing     bool    `json:"playing"`
	Direction   string  `json:"direction"`
	LoopCount   int     `json:"loopCount"`
	Speed       float64 `json:"speed"`
}

// MomentumStatus reports the momentum engine.
type MomentumStatus struct {
	Moving   bool    `json:"moving"`
	Velocity float64 `json:"velocity"`
	Distance float64 `json:"distance"`
}

// Status is a snapshot of a Controller.
type Status struct {
	Sprite        SpriteStatus   `json:"sprite"`
	Momentum      MomentumStatus `json:"momentum"`
	Offset        float64        `json:"offset"`
	Transitioning bool           `json:"transitioning"`
}

// Controller that manages animations. Everything it owns runs on ticks
// from port, and lock must exclude those ticks while callers outside the
// ticker touch the controller.
type Controller struct {
	mu      sync.Locker
	port    ticker.Port
	config  Config
	clock   func() time.Time
	chime   Chime
	sheets  []Sheet
	surface *Surface

	sequencer  *sprite.Sequencer
	engine     *momentum.Engine
	current    int
	pending    int
	mix        float32
	transition *tween.Promise
}

// NewController creates an instance of a Controller playing sheets in
// order, one per configured sprite.
func NewController(config Config, port ticker.Port, lock sync.Locker, sheets []Sheet,
	sinks []Sink, opts ...ControllerOption) (*Controller, error) {

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(sheets) == 0 || len(sheets) != len(config.Sprites) {
		return nil, fmt.Errorf("need one sheet per sprite, got %d sheets for %d sprites", len(sheets), len(config.Sprites))
	}

	c := new(Controller)
	c.mu = lock
	c.port = port
	c.config = config
	c.clock = time.Now
	c.sheets = sheets
	for _, opt := range opts {
		opt(c)
	}

	c.surface = NewSurface(config.Strip.Pixels, config.BackColour(), sheets[0], sinks...)

	var err error
	c.engine, err = momentum.New(port, config.Momentum.Config,
		momentum.WithOnUpdate(c.handleMomentum),
		momentum.WithRate(config.Strip.FrameRate),
		momentum.WithClock(c.clock))
	if err != nil {
		return nil, err
	}

	c.sequencer, err = c.newSequencer(0)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Controller) newSequencer(i int) (*sprite.Sequencer, error) {
	s := c.config.Sprites[i]
	seq, err := sprite.New(c.port, c.surface, sprite.Config{
		TotalFrames: c.sheets[i].Len(),
		Speed:       s.Speed,
		Loop:        s.Loop,
		TargetFrame: s.TargetFrame,
		Reverse:     s.Reverse,
	}, sprite.WithOnLoop(c.handleLoop), sprite.WithOnComplete(c.handleComplete))
	if err != nil {
		return nil, fmt.Errorf("sprite %q: %w", s.Name, err)
	}
	return seq, nil
}

func (c *Controller) handleMomentum(s momentum.State) {
	c.surface.Pan(s.Displacement * c.config.Momentum.Scale)
	c.redrawIfPaused()
}

func (c *Controller) handleLoop() {
	if c.chime != nil {
		c.chime.Play()
	}
}

func (c *Controller) handleComplete() {
	log.Printf("Sprite %q complete", c.config.Sprites[c.current].Name)
	if c.chime != nil {
		c.chime.Play()
	}
	c.beginTransition()
}

// redrawIfPaused renders the current frame when nothing else will.
func (c *Controller) redrawIfPaused() {
	if !c.sequencer.IsPlaying() {
		c.sequencer.Clear()
		c.sequencer.Render()
	}
}

func (c *Controller) beginTransition() *tween.Promise {
	if c.transition != nil {
		return c.transition
	}

	c.pending = (c.current + 1) % len(c.sheets)
	name := c.config.Sprites[c.pending].Name
	log.Printf("Transition to %q", name)

	c.surface.BeginTransition(c.sheets[c.pending])
	c.transition = tween.FromTo(c.port, &c.mix, 0, 1, float32(c.config.Cycle.TransitionTime.Seconds()), ease.InOutQuad,
		tween.WithOnUpdate(c.applyMix),
		tween.WithOnComplete(c.finishTransition),
		tween.WithThenParams(name),
		tween.WithRate(c.config.Strip.FrameRate),
		tween.WithClock(c.clock))
	return c.transition
}

// applyMix moves the crossfade. At mix 0 the strip still shows the last
// rendered frame, so there is nothing to redraw.
func (c *Controller) applyMix(mix float32) {
	c.surface.SetMix(mix)
	if mix > 0 {
		c.redrawIfPaused()
	}
}

func (c *Controller) finishTransition() {
	c.transition = nil
	seq, err := c.newSequencer(c.pending)
	if err != nil {
		log.Printf("Transition to %q abandoned: %v", c.config.Sprites[c.pending].Name, err)
		c.surface.CancelTransition()
		c.redrawIfPaused()
		return
	}

	c.surface.CompleteTransition()
	c.sequencer.Pause()
	c.current = c.pending
	c.sequencer = seq
	c.sequencer.Play()
}

// Start plays the first sprite.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sequencer.Play()
}

// Close stops all ticking.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sequencer.Pause()
	c.engine.Stop()
	if c.transition != nil {
		c.transition.Kill()
		c.transition = nil
	}
}

// Next crossfades to the following sprite. The promise resolves when the
// new sprite starts playing, with its name as the only param.
func (c *Controller) Next() *tween.Promise {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginTransition()
}

// Fling throws the picture along the strip. A run already in progress is
// replaced.
func (c *Controller) Fling(velocity float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := momentum.ValidateVelocity(velocity); err != nil {
		return err
	}
	if c.engine.IsMoving() {
		c.engine.Stop()
	}
	if err := c.engine.Start(velocity); err != nil {
		return err
	}
	log.Printf("Fling %.2f", velocity)
	return nil
}

// Play resumes the current sprite.
func (c *Controller) Play() {
	c.withSequencer((*sprite.Sequencer).Play)
}

// Pause holds the current sprite.
func (c *Controller) Pause() {
	c.withSequencer((*sprite.Sequencer).Pause)
}

// Stop rewinds the current sprite.
func (c *Controller) Stop() {
	c.withSequencer((*sprite.Sequencer).Stop)
}

// Forward plays the current sprite forwards.
func (c *Controller) Forward() {
	c.withSequencer((*sprite.Sequencer).Forward)
}

// Reverse plays the current sprite backwards.
func (c *Controller) Reverse() {
	c.withSequencer((*sprite.Sequencer).Reverse)
}

// SetFrame jumps the current sprite to frame.
func (c *Controller) SetFrame(frame float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequencer.SetFrame(frame)
}

// SetSpeed changes the current sprite's rate.
func (c *Controller) SetSpeed(rate float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequencer.SetSpeed(rate)
}

func (c *Controller) withSequencer(fn func(*sprite.Sequencer)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.sequencer)
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.engine.State()
	return Status{
		Sprite: SpriteStatus{
			Name:        c.config.Sprites[c.current].Name,
			Frame:       c.sequencer.Frame(),
			TotalFrames: c.sequencer.TotalFrames(),
			Playing:     c.sequencer.IsPlaying(),
			Direction:   c.sequencer.Direction().String(),
			LoopCount:   c.sequencer.LoopCount(),
			Speed:       c.sequencer.Speed(),
		},
		Momentum: MomentumStatus{
			Moving:   m.IsMoving,
			Velocity: m.Velocity,
			Distance: m.Distance,
		},
		Offset:        c.surface.Offset(),
		Transitioning: c.transition != nil,
	}
}

// Run causes the Controller to cycle through animations until ctx ends.
func (c *Controller) Run(ctx context.Context) error {
	if c.config.Cycle.AnimationTime <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	publishTimer := time.NewTicker(c.config.Cycle.AnimationTime)
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-publishTimer.C:
			c.Next()
		}
	}
}
