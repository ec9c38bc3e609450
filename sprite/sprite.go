// Package sprite plays a fixed set of frames onto a Surface, one step per
// tick, with direction, loop counting and an optional target frame.
package sprite

import (
	"errors"
	"fmt"
	"math"

	"github.com/matt-g-everett/ledanim/ticker"
)

// Infinite as a loop limit repeats forever.
const Infinite = -1

// LastFrame as a target frame means the final frame of the set.
const LastFrame = -1

// DefaultSpeed is the tick rate used when none is configured.
const DefaultSpeed = 24.0

// ErrInvalidConfiguration is returned for a non-positive frame count, an
// out of range target frame, an unusable speed or a NaN frame.
var ErrInvalidConfiguration = errors.New("sprite: invalid configuration")

// A Surface is drawn on by a Sequencer. The caller owns it, a Sequencer
// only holds a reference.
type Surface interface {
	Clear()
	Render(frame int)
}

// Direction of playback.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Config is applied by New.
type Config struct {
	TotalFrames int     `yaml:"frames"`
	Speed       float64 `yaml:"speed"`
	Frame       int     `yaml:"frame"`
	// Loop is the number of extra passes, 0 plays once and Infinite
	// repeats forever.
	Loop        int  `yaml:"loop"`
	TargetFrame *int `yaml:"targetFrame"`
	Reverse     bool `yaml:"reverse"`
	AutoPlay    bool `yaml:"autoPlay"`
}

// An Option configures a Sequencer.
type Option func(*Sequencer)

// WithOnLoop sets the callback invoked every time the target frame is reached.
func WithOnLoop(fn func()) Option {
	return func(s *Sequencer) { s.onLoop = fn }
}

// WithOnComplete sets the callback invoked when playback finishes.
func WithOnComplete(fn func()) Option {
	return func(s *Sequencer) { s.onComplete = fn }
}

// Sequencer steps through frames. It is not safe for concurrent use, all
// calls are expected on the ticker's dispatch context.
type Sequencer struct {
	port       ticker.Port
	surface    Surface
	onLoop     func()
	onComplete func()

	total     int
	frame     int
	target    int
	hasTarget bool
	direction Direction
	looping   bool
	loopLimit int
	loopCount int
	speed     float64
	isPlaying bool
	iterate   bool
}

// New creates an instance of a Sequencer.
func New(port ticker.Port, surface Surface, config Config, opts ...Option) (*Sequencer, error) {
	if config.TotalFrames <= 0 {
		return nil, fmt.Errorf("%w: %d frames", ErrInvalidConfiguration, config.TotalFrames)
	}

	if err := validateSpeed(config.Speed); err != nil {
		return nil, err
	}

	s := new(Sequencer)
	s.port = port
	s.surface = surface
	s.total = config.TotalFrames
	s.speed = config.Speed
	if s.speed <= 0 {
		s.speed = DefaultSpeed
	}
	s.loopCount = -1
	for _, opt := range opts {
		opt(s)
	}

	if config.TargetFrame != nil {
		if err := s.SetTargetFrame(*config.TargetFrame); err != nil {
			return nil, err
		}
	}
	if config.Reverse {
		s.direction = Reverse
	}
	s.SetLoop(config.Loop)
	s.frame = s.wrap(config.Frame)

	if config.AutoPlay {
		s.Play()
	}

	return s, nil
}

// SetLoop sets the number of extra passes. 0 disables looping and any
// negative value loops forever.
func (s *Sequencer) SetLoop(n int) {
	switch {
	case n < 0:
		s.looping = true
		s.loopLimit = Infinite
	case n == 0:
		s.looping = false
		s.loopLimit = Infinite
	default:
		s.looping = true
		s.loopLimit = n
	}
}

// SetLooping switches between looping forever and playing once.
func (s *Sequencer) SetLooping(on bool) {
	s.looping = on
	s.loopLimit = Infinite
}

// Loop returns whether looping is enabled and the limit, Infinite when
// unbounded.
func (s *Sequencer) Loop() (bool, int) {
	return s.looping, s.loopLimit
}

// LoopCount returns the passes completed, -1 before the first arrival at
// the target frame.
func (s *Sequencer) LoopCount() int {
	return s.loopCount
}

// SetFrame jumps to the nearest whole frame and renders it. Values past
// the end wrap to 0, negative values wrap to the last frame.
func (s *Sequencer) SetFrame(value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("%w: frame is NaN", ErrInvalidConfiguration)
	}

	// Clamp before converting, wrap only looks at which side it fell.
	value = math.Max(-1, math.Min(math.Round(value), float64(s.total)))
	s.frame = s.wrap(int(value))
	s.Render()
	return nil
}

// Frame returns the current frame index.
func (s *Sequencer) Frame() int {
	return s.frame
}

// TotalFrames returns the size of the frame set.
func (s *Sequencer) TotalFrames() int {
	return s.total
}

// SetTargetFrame sets the frame that ends a pass. LastFrame selects the
// final frame.
func (s *Sequencer) SetTargetFrame(frame int) error {
	if frame < LastFrame || frame >= s.total {
		return fmt.Errorf("%w: target frame %d outside [-1,%d)", ErrInvalidConfiguration, frame, s.total)
	}
	if frame == LastFrame {
		frame = s.total - 1
	}
	s.target = frame
	s.hasTarget = true
	return nil
}

// ClearTargetFrame reverts to the natural end frame for the direction.
func (s *Sequencer) ClearTargetFrame() {
	s.hasTarget = false
}

// TargetFrame returns the explicit target frame, if any.
func (s *Sequencer) TargetFrame() (int, bool) {
	return s.target, s.hasTarget
}

// SetSpeed changes the tick rate. A playing sequencer re-registers with
// the ticker, which shows as a brief gap. A rejected rate leaves the
// sequencer untouched.
func (s *Sequencer) SetSpeed(rate float64) error {
	if err := validateSpeed(rate); err != nil {
		return err
	}
	if rate <= 0 {
		rate = DefaultSpeed
	}
	if !s.isPlaying {
		s.speed = rate
		return nil
	}
	s.Pause()
	s.speed = rate
	s.Play()
	return nil
}

func validateSpeed(rate float64) error {
	if err := ticker.ValidateRate(rate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

// Speed returns the tick rate.
func (s *Sequencer) Speed() float64 {
	return s.speed
}

// Play starts ticking. The first tick renders the current frame without
// advancing.
func (s *Sequencer) Play() {
	if s.isPlaying {
		return
	}
	s.iterate = false
	s.port.Register(s, s.speed, s.tick)
	s.isPlaying = true
}

// Pause stops ticking and keeps the position.
func (s *Sequencer) Pause() {
	if !s.isPlaying {
		return
	}
	s.port.Unregister(s, s.speed)
	s.isPlaying = false
}

// Stop rewinds to frame 0 and pauses.
func (s *Sequencer) Stop() {
	s.loopCount = 0
	s.frame = 0
	s.Pause()
}

// IsPlaying reports whether the sequencer is registered for ticks.
func (s *Sequencer) IsPlaying() bool {
	return s.isPlaying
}

// Forward plays towards the last frame.
func (s *Sequencer) Forward() {
	s.direction = Forward
}

// Reverse plays towards frame 0.
func (s *Sequencer) Reverse() {
	s.direction = Reverse
}

// Direction returns the playback direction.
func (s *Sequencer) Direction() Direction {
	return s.direction
}

// Render draws the current frame.
func (s *Sequencer) Render() {
	s.surface.Render(s.frame)
}

// Clear clears the surface.
func (s *Sequencer) Clear() {
	s.surface.Clear()
}

func (s *Sequencer) wrap(frame int) int {
	if frame >= s.total {
		return 0
	} else if frame < 0 {
		return s.total - 1
	}
	return frame
}

func (s *Sequencer) tick() {
	s.Clear()
	if s.iterate {
		if s.direction == Forward {
			s.frame = s.wrap(s.frame + 1)
		} else {
			s.frame = s.wrap(s.frame - 1)
		}
	}
	s.Render()
	s.iterate = true
	s.checkComplete()
}

func (s *Sequencer) targetEnd() int {
	if s.hasTarget {
		return s.target
	}
	if s.direction == Forward {
		return s.total - 1
	}
	return 0
}

func (s *Sequencer) checkComplete() {
	if s.frame != s.targetEnd() {
		return
	}

	s.loopCount++
	if s.onLoop != nil {
		s.onLoop()
	}

	if !s.looping || (s.loopLimit != Infinite && s.loopCount >= s.loopLimit) {
		s.Pause()
		if s.onComplete != nil {
			s.onComplete()
		}
	}
}
