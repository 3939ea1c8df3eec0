package game

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-rooms/models"
)

func TestGenerateCard_Valid(t *testing.T) {
	cases := []struct {
		name        string
		size, upper int
	}{
		{"classic", 10, 60},
		{"dashboard", 20, 100},
		{"whole universe", 8, 8},
		{"single", 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				card, err := GenerateCard(nil, tc.size, tc.upper)
				require.NoError(t, err)
				require.Len(t, card, tc.size)
				assert.True(t, slices.IsSorted(card), "card must be ascending: %v", card)
				seen := map[int]bool{}
				for _, n := range card {
					assert.GreaterOrEqual(t, n, 1)
					assert.LessOrEqual(t, n, tc.upper)
					assert.False(t, seen[n], "duplicate %d in %v", n, card)
					seen[n] = true
				}
			}
		})
	}
}

func TestGenerateCard_InvalidConfiguration(t *testing.T) {
	for _, tc := range [][2]int{{11, 10}, {0, 60}, {10, 0}, {-1, 60}} {
		_, err := GenerateCard(nil, tc[0], tc[1])
		assert.ErrorIs(t, err, models.ErrInvalidConfiguration, "size=%d universe=%d", tc[0], tc[1])
	}
}

func TestGenerateCard_Randomness(t *testing.T) {
	first, err := GenerateCard(nil, 10, 60)
	require.NoError(t, err)

	distinct := false
	for i := 0; i < 20 && !distinct; i++ {
		next, err := GenerateCard(nil, 10, 60)
		require.NoError(t, err)
		distinct = !slices.Equal(first, next)
	}
	assert.True(t, distinct, "twenty cards in a row were identical")
}

func TestGenerateCard_SeededIsReproducible(t *testing.T) {
	a, err := GenerateCard(rand.New(rand.NewPCG(7, 9)), 10, 60)
	require.NoError(t, err)
	b, err := GenerateCard(rand.New(rand.NewPCG(7, 9)), 10, 60)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCardFor_UsesRules(t *testing.T) {
	card, err := CardFor(nil, models.DashboardRules)
	require.NoError(t, err)
	assert.Len(t, card, 20)
	assert.LessOrEqual(t, card[len(card)-1], 100)
}
