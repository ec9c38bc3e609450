package util

import (
	"math/rand"
	"testing"
)

func TestGenerateLut(t *testing.T) {
	cases := []struct {
		name   string
		length int
		peak   int
	}{
		{"even", 10, 4},
		{"odd", 9, 4},
		{"two", 2, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lut := GenerateLut(c.length)
			if len(lut) != c.length {
				t.Fatalf("expected length %d, got %d", c.length, len(lut))
			}
			if lut[0] != 0 {
				t.Fatalf("pulse should start at 0, got %v", lut[0])
			}
			for i, j := 0, len(lut)-1; i < j; i, j = i+1, j-1 {
				if lut[i] != lut[j] {
					t.Fatalf("pulse should be symmetric, lut[%d]=%v lut[%d]=%v", i, lut[i], j, lut[j])
				}
			}
			for i := 1; i <= c.peak; i++ {
				if lut[i] < lut[i-1] {
					t.Fatalf("pulse should rise to the middle, lut=%v", lut)
				}
			}
			for _, v := range lut {
				if v < 0 || v > 1 {
					t.Fatalf("value %v outside [0,1]", v)
				}
			}
		})
	}
}

func TestGenerateLutShort(t *testing.T) {
	for _, n := range []int{0, 1} {
		lut := GenerateLut(n)
		if len(lut) != n {
			t.Fatalf("expected length %d, got %d", n, len(lut))
		}
	}
}

func TestGenerateLutMemoized(t *testing.T) {
	m := NewMemoizer()
	a := GenerateLutMemoized(12, m)
	b := GenerateLutMemoized(12, m)
	if &a[0] != &b[0] {
		t.Fatalf("expected the cached slice to be reused")
	}
	c := GenerateLutMemoized(8, m)
	if len(c) != 8 {
		t.Fatalf("expected a new LUT of length 8, got %d", len(c))
	}
}

func TestRandomiseSaturation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		s := RandomiseSaturation(r, 0.6, 0.9)
		if s < 0.6 || s >= 0.9 {
			t.Fatalf("saturation %v outside [0.6,0.9)", s)
		}
	}
}
