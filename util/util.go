package util

import (
	"math/rand"
	"sync"

	"github.com/fogleman/ease"
)

// RandomiseSaturation picks a saturation in [min,max).
func RandomiseSaturation(r *rand.Rand, min float64, max float64) float64 {
	return r.Float64()*(max-min) + min
}

// GenerateLut builds a pulse that eases from 0 up to 1 across the first half
// and back down across the second.
func GenerateLut(length int) []float64 {
	lut := make([]float64, length)
	if length < 2 {
		return lut
	}

	increment := 1.0 / float64(length/2)
	for i, j := 0, length-1; i < length/2; i, j = i+1, j-1 {
		value := float64(i) * increment
		lut[i] = ease.InOutQuad(value)
		lut[j] = ease.InOutQuad(value)
	}
	if length%2 == 1 {
		lut[length/2] = 1
	}
	return lut
}

// Memoizer caches LUTs by length. The zero value is not usable, create one
// with NewMemoizer.
type Memoizer struct {
	mu   *sync.Mutex
	luts map[int][]float64
}

// NewMemoizer creates an empty Memoizer.
func NewMemoizer() Memoizer {
	return Memoizer{mu: new(sync.Mutex), luts: make(map[int][]float64)}
}

// GenerateLutMemoized returns the cached LUT for length, building it once.
// Callers must not modify the returned slice.
func GenerateLutMemoized(length int, memoizer Memoizer) []float64 {
	memoizer.mu.Lock()
	defer memoizer.mu.Unlock()

	if lut, ok := memoizer.luts[length]; ok {
		return lut
	}
	lut := GenerateLut(length)
	memoizer.luts[length] = lut
	return lut
}
