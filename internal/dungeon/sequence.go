package dungeon

import (
	"math/rand"
	"slices"
)

// GenerateSequence draws length notes. With probability reuseBias a draw
// comes from the notes already known to be available; otherwise, or while
// none are known, it comes from the whole scale. Every drawn note joins the
// available pool for the following draws, so notes may repeat.
func GenerateSequence(length int, known []Note, reuseBias float64, rng *rand.Rand) []Note {
	available := slices.Clone(known)
	seq := make([]Note, 0, length)
	for range length {
		pool := AllNotes
		if len(available) > 0 && rng.Float64() < reuseBias {
			pool = available
		}
		n := pool[rng.Intn(len(pool))]
		seq = append(seq, n)
		if !slices.Contains(available, n) {
			available = append(available, n)
		}
	}
	return seq
}
