package game

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRoomCode returns a 4 to 6 character code players can type in.
func NewRoomCode(src Source) string {
	src = orDefault(src)
	n := 4 + src.IntN(3)
	b := make([]byte, n)
	for i := range b {
		b[i] = roomCodeAlphabet[src.IntN(len(roomCodeAlphabet))]
	}
	return string(b)
}
