package stream

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	yaml := `
mqtt:
  url: tcp://broker:1883
  topics:
    stream: tree/stream
strip:
  pixels: 64
momentum:
  friction: 0.3
  scale: 0.5
cycle:
  animationTime: 2m
sprites:
  - name: sunset
    kind: gradient
    frames: 12
    loop: -1
  - name: flags
    kind: stripe
    frames: 8
    targetFrame: 3
    palette: ["#ff0000", "#00ff00"]
`
	c, err := LoadConfig(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if c.Mqtt.URL != "tcp://broker:1883" || c.Mqtt.Topics.Stream != "tree/stream" {
		t.Fatalf("mqtt not decoded: %+v", c.Mqtt)
	}
	if c.Mqtt.Topics.Fling != "home/xmastree/fling" || c.Mqtt.ClientID != "ledanim" {
		t.Fatalf("mqtt defaults lost: %+v", c.Mqtt)
	}
	if c.Strip.Pixels != 64 || c.Strip.FrameRate != 30 {
		t.Fatalf("unexpected strip %+v", c.Strip)
	}
	if c.Momentum.Friction != 0.3 || c.Momentum.VelocityMax != 25 || c.Momentum.Scale != 0.5 {
		t.Fatalf("unexpected momentum %+v", c.Momentum)
	}
	if c.Cycle.AnimationTime != 2*time.Minute || c.Cycle.TransitionTime != 5*time.Second {
		t.Fatalf("unexpected cycle %+v", c.Cycle)
	}
	if len(c.Sprites) != 2 || c.Sprites[0].Loop != -1 || *c.Sprites[1].TargetFrame != 3 {
		t.Fatalf("unexpected sprites %+v", c.Sprites)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	c, err := LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Strip.Pixels != DefaultPixels || len(c.Sprites) != 4 {
		t.Fatalf("expected defaults, got %+v", c)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad_yaml", "strip: [1"},
		{"friction", "momentum:\n  friction: 2\n"},
		{"velocity_max", "momentum:\n  velocityMax: -1\n"},
		{"pixels", "strip:\n  pixels: 0\n"},
		{"back_colour", "strip:\n  backColour: nope\n"},
		{"no_sprites", "sprites: []\n"},
		{"sprite_frames", "sprites:\n  - {name: a, kind: gradient, frames: 0}\n"},
		{"sprite_kind", "sprites:\n  - {name: a, kind: sparkle, frames: 4}\n"},
		{"twinkle_palette", "sprites:\n  - {name: a, kind: twinkle, frames: 4}\n"},
		{"streak_palette", "sprites:\n  - {name: a, kind: streak, frames: 4}\n"},
		{"palette", "sprites:\n  - {name: a, kind: stripe, frames: 4, palette: [red]}\n"},
		{"frame_rate_inf", "strip:\n  frameRate: .inf\n"},
		{"frame_rate_nan", "strip:\n  frameRate: .nan\n"},
		{"sprite_speed_inf", "sprites:\n  - {name: a, kind: gradient, frames: 4, speed: .inf}\n"},
		{"target_frame_high", "sprites:\n  - {name: a, kind: gradient, frames: 4, targetFrame: 4}\n"},
		{"target_frame_low", "sprites:\n  - {name: a, kind: gradient, frames: 4, targetFrame: -2}\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := LoadConfig(strings.NewReader(c.yaml)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestValidateTargetFrameBounds(t *testing.T) {
	for _, target := range []int{-1, 0, 3} {
		c := DefaultConfig()
		c.Sprites = []SpriteConfig{{Name: "a", Kind: KindGradient, Frames: 4, TargetFrame: &target}}
		if err := c.Validate(); err != nil {
			t.Errorf("targetFrame %d: %v", target, err)
		}
	}
}
