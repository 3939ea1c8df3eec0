package game

// IsComplete reports whether every number on card has been drawn.
// An empty card is complete.
func IsComplete(card []int, drawn map[int]struct{}) bool {
	for _, n := range card {
		if _, ok := drawn[n]; !ok {
			return false
		}
	}
	return true
}

// Covered returns card ∩ drawn in card order.
func Covered(card []int, drawn map[int]struct{}) []int {
	out := make([]int, 0, len(card))
	for _, n := range card {
		if _, ok := drawn[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Set builds a membership index from a list of numbers.
func Set(numbers []int) map[int]struct{} {
	set := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set
}
