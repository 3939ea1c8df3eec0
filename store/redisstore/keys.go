package redisstore

import "fmt"

// DefaultPrefix namespaces every key this store writes.
const DefaultPrefix = "bingo"

// BuildRoomKey room:{id} -> JSON room document
func BuildRoomKey(prefix, roomID string) string {
	return fmt.Sprintf("%s:room:%s", prefix, roomID)
}

// BuildRoomIndexKey set of every room id
func BuildRoomIndexKey(prefix string) string {
	return prefix + ":rooms"
}

// BuildPlayerKey room:{id}:player:{pid} -> JSON player document
func BuildPlayerKey(prefix, roomID, playerID string) string {
	return fmt.Sprintf("%s:room:%s:player:%s", prefix, roomID, playerID)
}

// BuildRoomPlayersKey set of the player ids of a room
func BuildRoomPlayersKey(prefix, roomID string) string {
	return fmt.Sprintf("%s:room:%s:players", prefix, roomID)
}
