package game

import (
	"fmt"
	"slices"

	"github.com/bellapacxx/bingo-rooms/models"
)

// GenerateCard returns cardSize unique numbers from [1, universeMax], ascending.
func GenerateCard(src Source, cardSize, universeMax int) ([]int, error) {
	if cardSize <= 0 || universeMax <= 0 || cardSize > universeMax {
		return nil, fmt.Errorf("%w: card of %d numbers from a universe of %d",
			models.ErrInvalidConfiguration, cardSize, universeMax)
	}
	src = orDefault(src)

	picked := make(map[int]struct{}, cardSize)
	for len(picked) < cardSize {
		picked[src.IntN(universeMax)+1] = struct{}{}
	}

	card := make([]int, 0, cardSize)
	for n := range picked {
		card = append(card, n)
	}
	slices.Sort(card)
	return card, nil
}

// CardFor generates a card sized by the room rules.
func CardFor(src Source, rules models.Rules) ([]int, error) {
	return GenerateCard(src, rules.CardSize, rules.UniverseMax)
}
