package domain

import "strings"

const MaxRoomIDLen = 64

type RoomID string

// NormalizeRoomID trims a client supplied room id and checks its bounds.
func NormalizeRoomID(raw string) (RoomID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrRoomIDEmpty
	}
	if len(id) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(id), nil
}

// LiveRoom is the directory view of a room.
type LiveRoom struct {
	ID              RoomID `json:"id"`
	Name            string `json:"name"`
	UserCount       int    `json:"userCount"`
	HasActiveStream bool   `json:"hasActiveStream"`
}
