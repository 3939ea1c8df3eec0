package game

// DrawNext picks one number from [1, universeMax] that is not in drawn.
// ok is false once the universe is exhausted. drawn is never modified.
//
// The pick is uniform over the undrawn numbers, so it always terminates in
// O(universeMax) regardless of how close the room is to exhaustion.
func DrawNext(src Source, drawn []int, universeMax int) (n int, ok bool) {
	if len(drawn) >= universeMax {
		return 0, false
	}

	seen := make([]bool, universeMax+1)
	for _, d := range drawn {
		if d >= 1 && d <= universeMax {
			seen[d] = true
		}
	}

	remaining := make([]int, 0, universeMax-len(drawn))
	for i := 1; i <= universeMax; i++ {
		if !seen[i] {
			remaining = append(remaining, i)
		}
	}
	if len(remaining) == 0 {
		return 0, false
	}
	return remaining[orDefault(src).IntN(len(remaining))], true
}

// Deck is a pre-shuffled universe, for callers that hold a whole round in
// memory and want O(1) draws. Not safe for concurrent use.
type Deck struct {
	numbers []int
	next    int
}

// NewDeck shuffles 1..universeMax.
func NewDeck(src Source, universeMax int) *Deck {
	src = orDefault(src)
	nums := make([]int, universeMax)
	for i := range nums {
		nums[i] = i + 1
	}
	for i := len(nums) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		nums[i], nums[j] = nums[j], nums[i]
	}
	return &Deck{numbers: nums}
}

// Next returns the next number, or false when the deck is empty.
func (d *Deck) Next() (int, bool) {
	if d.next >= len(d.numbers) {
		return 0, false
	}
	n := d.numbers[d.next]
	d.next++
	return n, true
}

// Drawn returns the numbers dealt so far, in order.
func (d *Deck) Drawn() []int {
	return append([]int(nil), d.numbers[:d.next]...)
}

// Remaining is the count of numbers still in the deck.
func (d *Deck) Remaining() int {
	return len(d.numbers) - d.next
}
