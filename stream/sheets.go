package stream

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledanim/stream/stripe"
	"github.com/matt-g-everett/ledanim/util"
)

// BuildSheets generates a sheet for every configured sprite.
func BuildSheets(config Config, r *rand.Rand) ([]Sheet, error) {
	memoizer := util.NewMemoizer()
	pixels := config.Strip.Pixels

	sheets := make([]Sheet, 0, len(config.Sprites))
	for _, s := range config.Sprites {
		palette := make([]colorful.Color, 0, len(s.Palette))
		for _, hex := range s.Palette {
			c, err := colorful.Hex(hex)
			if err != nil {
				return nil, fmt.Errorf("sprite %q: %w", s.Name, err)
			}
			palette = append(palette, c)
		}

		switch s.Kind {
		case KindGradient:
			lut := util.GenerateLutMemoized(s.Frames, memoizer)
			sheets = append(sheets, NewGradientSheet(DefaultGradient, s.Frames, pixels, s.TrailLength, lut))
		case KindStripe:
			generator := stripe.NewRandomStripeGenerator(r, palette, s.StripeMin, s.StripeMax)
			sheets = append(sheets, NewStripeSheet(generator, s.Frames, pixels, s.PixelsPerFrame))
		case KindTwinkle:
			sheets = append(sheets, NewTwinkleSheet(r, palette, s.Frames, pixels, s.TwinkleChance, memoizer))
		case KindStreak:
			sheets = append(sheets, NewStreakSheet(r, palette, config.BackColour(), s.Frames, pixels,
				s.Streaks, s.StreakLength, s.PixelsPerFrame))
		default:
			return nil, fmt.Errorf("sprite %q: unknown kind %q", s.Name, s.Kind)
		}
	}

	return sheets, nil
}
