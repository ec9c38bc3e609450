// Package cue plays short audio cues when sprites loop or complete.
package cue

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Config for a Chime.
type Config struct {
	Frequency float64
	Duration  time.Duration
}

// Chime plays a fading sine tone through the speaker.
type Chime struct {
	mu          sync.Mutex
	config      Config
	mixer       *beep.Mixer
	initialized bool
}

// New creates an instance of a Chime with the speaker running. If the
// speaker can't be opened the error is returned with a Chime that stays
// silent.
func New(config Config) (*Chime, error) {
	if config.Frequency <= 0 || config.Frequency >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("chime frequency %.1f outside (0,%d)", config.Frequency, sampleRate/2)
	}
	if config.Duration <= 0 {
		return nil, fmt.Errorf("chime duration %s must be positive", config.Duration)
	}

	c := new(Chime)
	c.config = config
	c.mixer = &beep.Mixer{}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return c, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return c, nil
}

// Tone returns the streamer for one chime.
func (c *Chime) Tone() beep.Streamer {
	return beep.Take(sampleRate.N(c.config.Duration), newToneGenerator(sampleRate, c.config.Frequency, c.config.Duration))
}

// Play starts a chime. Overlapping chimes are mixed.
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(c.Tone())
	speaker.Unlock()
}

// Close silences the chime.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	c.initialized = false
}

// toneGenerator is a sine wave with a short attack and a linear release
// over its duration.
type toneGenerator struct {
	sr     beep.SampleRate
	freq   float64
	length int
	pos    int
}

func newToneGenerator(sr beep.SampleRate, freq float64, d time.Duration) *toneGenerator {
	return &toneGenerator{sr: sr, freq: freq, length: sr.N(d)}
}

func (g *toneGenerator) envelope() float64 {
	attack := math.Min(float64(g.pos)/float64(g.sr)/0.005, 1)
	release := 1 - float64(g.pos)/float64(g.length)
	return math.Max(attack*release, 0)
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.25 * math.Sin(2*math.Pi*g.freq*t) * g.envelope()
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error {
	return nil
}
