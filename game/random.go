package game

import "math/rand/v2"

// Source is the randomness the generators consume. *rand.Rand satisfies it;
// tests pass a seeded one for reproducible cards.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource is safe for concurrent use.
var DefaultSource Source = globalSource{}

func orDefault(src Source) Source {
	if src == nil {
		return DefaultSource
	}
	return src
}
