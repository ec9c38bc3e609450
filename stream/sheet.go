package stream

// A Sheet is a fixed set of frames played by a sprite sequencer.
type Sheet interface {
	Len() int
	Frame(i int) *Frame
}

// FrameSheet is a Sheet held in memory.
type FrameSheet []*Frame

// Len returns the number of frames.
func (s FrameSheet) Len() int {
	return len(s)
}

// Frame returns frame i, wrapping indices outside the sheet.
func (s FrameSheet) Frame(i int) *Frame {
	i %= len(s)
	if i < 0 {
		i += len(s)
	}
	return s[i]
}
