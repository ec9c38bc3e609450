package stream

import (
	"fmt"
	"io"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledanim/momentum"
	"github.com/matt-g-everett/ledanim/ticker"
	"gopkg.in/yaml.v2"
)

// Sprite sheet kinds.
const (
	KindGradient = "gradient"
	KindStripe   = "stripe"
	KindTwinkle  = "twinkle"
	KindStreak   = "streak"
)

// SpriteConfig describes one sheet and how to play it.
type SpriteConfig struct {
	Name        string  `yaml:"name"`
	Kind        string  `yaml:"kind"`
	Frames      int     `yaml:"frames"`
	Speed       float64 `yaml:"speed"`
	Loop        int     `yaml:"loop"`
	Reverse     bool    `yaml:"reverse"`
	TargetFrame *int    `yaml:"targetFrame"`
	// TrailLength is the gradient period in pixels.
	TrailLength int `yaml:"trailLength"`
	// PixelsPerFrame is how far stripes scroll each frame, and the fastest
	// a streak moves.
	PixelsPerFrame float64 `yaml:"pixelsPerFrame"`
	StripeMin      int32   `yaml:"stripeMin"`
	StripeMax      int32   `yaml:"stripeMax"`
	// TwinkleChance is the 1 in n chance a resting pixel starts to twinkle.
	TwinkleChance int32    `yaml:"twinkleChance"`
	Streaks       int      `yaml:"streaks"`
	StreakLength  float64  `yaml:"streakLength"`
	Palette       []string `yaml:"palette"`
}

// StripConfig describes the LED strip.
type StripConfig struct {
	Pixels     int     `yaml:"pixels"`
	FrameRate  float64 `yaml:"frameRate"`
	BackColour string  `yaml:"backColour"`
}

// MomentumConfig configures fling handling.
type MomentumConfig struct {
	momentum.Config `yaml:",inline"`
	// Scale converts momentum displacement into pixels.
	Scale float64 `yaml:"scale"`
}

// CycleConfig controls automatic switching between sprites.
type CycleConfig struct {
	AnimationTime  time.Duration `yaml:"animationTime"`
	TransitionTime time.Duration `yaml:"transitionTime"`
}

// AudioConfig controls the loop and complete chime.
type AudioConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Frequency float64       `yaml:"frequency"`
	Duration  time.Duration `yaml:"duration"`
}

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		Qos      byte   `yaml:"qos"`
		Topics   struct {
			Stream string `yaml:"stream"`
			Fling  string `yaml:"fling"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Strip    StripConfig    `yaml:"strip"`
	Momentum MomentumConfig `yaml:"momentum"`
	Sprites  []SpriteConfig `yaml:"sprites"`
	Cycle    CycleConfig    `yaml:"cycle"`
	Api      struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
	Preview struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"preview"`
	Audio AudioConfig `yaml:"audio"`
}

// DefaultConfig returns a Config that runs without a config file.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledanim"
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Mqtt.Topics.Fling = "home/xmastree/fling"
	c.Strip = StripConfig{Pixels: DefaultPixels, FrameRate: 30, BackColour: "#000005"}
	c.Momentum = MomentumConfig{Config: momentum.DefaultConfig(), Scale: 0.1}
	c.Sprites = []SpriteConfig{
		{Name: "rainbow", Kind: KindGradient, Frames: 60, Speed: 30, Loop: 3, TrailLength: 180},
		{Name: "stripes", Kind: KindStripe, Frames: 48, Speed: 24, Loop: 2, PixelsPerFrame: 4, StripeMin: 150, StripeMax: 400},
		{Name: "twinkle", Kind: KindTwinkle, Frames: 96, Speed: 24, Loop: 2, TwinkleChance: 60,
			Palette: []string{"#000005", "#100505", "#051005"}},
		{Name: "streaks", Kind: KindStreak, Frames: 90, Speed: 30, Loop: 2, PixelsPerFrame: 1, Streaks: 6, StreakLength: 10,
			Palette: []string{"#e05010", "#1040e0"}},
	}
	c.Cycle = CycleConfig{AnimationTime: 5 * time.Minute, TransitionTime: 5 * time.Second}
	c.Api.Listen = ":3000"
	c.Audio = AudioConfig{Frequency: 880, Duration: 50 * time.Millisecond}
	return c
}

// LoadConfig decodes YAML from r over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks the parts of c that would otherwise fail later.
func (c Config) Validate() error {
	if c.Strip.Pixels <= 0 || c.Strip.Pixels > 0xffff {
		return fmt.Errorf("strip.pixels %d outside [1,65535]", c.Strip.Pixels)
	}
	if _, err := colorful.Hex(c.Strip.BackColour); err != nil {
		return fmt.Errorf("strip.backColour: %w", err)
	}
	if err := ticker.ValidateRate(c.Strip.FrameRate); err != nil {
		return fmt.Errorf("strip.frameRate: %w", err)
	}
	if err := c.Momentum.Validate(); err != nil {
		return err
	}
	if len(c.Sprites) == 0 {
		return fmt.Errorf("no sprites configured")
	}
	for _, s := range c.Sprites {
		if s.Frames <= 0 {
			return fmt.Errorf("sprite %q: frames must be positive", s.Name)
		}
		if err := ticker.ValidateRate(s.Speed); err != nil {
			return fmt.Errorf("sprite %q: speed: %w", s.Name, err)
		}
		if s.TargetFrame != nil && (*s.TargetFrame < -1 || *s.TargetFrame >= s.Frames) {
			return fmt.Errorf("sprite %q: targetFrame %d outside [-1,%d)", s.Name, *s.TargetFrame, s.Frames)
		}
		switch s.Kind {
		case KindGradient, KindStripe:
		case KindTwinkle, KindStreak:
			if len(s.Palette) == 0 {
				return fmt.Errorf("sprite %q: %s needs a palette", s.Name, s.Kind)
			}
		default:
			return fmt.Errorf("sprite %q: unknown kind %q", s.Name, s.Kind)
		}
		for _, hex := range s.Palette {
			if _, err := colorful.Hex(hex); err != nil {
				return fmt.Errorf("sprite %q: palette: %w", s.Name, err)
			}
		}
	}
	return nil
}

// BackColour returns the parsed strip back colour.
func (c Config) BackColour() colorful.Color {
	back, _ := colorful.Hex(c.Strip.BackColour)
	return back
}
