package itinerary

import "time"

// DefaultStagger is the delay between consecutive blocks appearing.
const DefaultStagger = 200 * time.Millisecond

// Schedule returns when each block should appear, relative to the first one.
// Offsets never decrease, so a block never shows before the one above it.
func Schedule(blocks []Block, stagger time.Duration) []time.Duration {
	if stagger < 0 {
		stagger = 0
	}
	offsets := make([]time.Duration, len(blocks))
	for i := range blocks {
		offsets[i] = time.Duration(i) * stagger
	}
	return offsets
}
