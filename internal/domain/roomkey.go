package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Room keys identify fan-out targets. Channel rooms are backed by a Channel
// row; direct rooms are not stored anywhere, their key is a pure function of
// the two participant ids.
const (
	channelRoomPrefix = "channel:"
	directRoomPrefix  = "dm:"
)

// ChannelRoomKey returns the room key of a channel.
func ChannelRoomKey(channelID uint) string {
	return fmt.Sprintf("%s%d", channelRoomPrefix, channelID)
}

// DirectRoomKey returns the canonical key of the two-party conversation
// between a and b. The lower id always comes first, so the key is symmetric
// regardless of call order.
func DirectRoomKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s%d:%d", directRoomPrefix, a, b)
}

// IsDirectRoom reports whether key names a direct room.
func IsDirectRoom(key string) bool {
	return strings.HasPrefix(key, directRoomPrefix)
}

// ParseChannelRoomKey extracts the channel id from a channel room key.
func ParseChannelRoomKey(key string) (uint, bool) {
	rest, ok := strings.CutPrefix(key, channelRoomPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseDirectRoomKey extracts the two participant ids from a direct room key.
// It only accepts canonical keys (lower id first).
func ParseDirectRoomKey(key string) (uint, uint, bool) {
	rest, ok := strings.CutPrefix(key, directRoomPrefix)
	if !ok {
		return 0, 0, false
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.ParseUint(parts[0], 10, 32)
	b, errB := strconv.ParseUint(parts[1], 10, 32)
	if errA != nil || errB != nil || a == 0 || b == 0 || a >= b {
		return 0, 0, false
	}
	return uint(a), uint(b), true
}

// DirectRoomHas reports whether userID is one of the two participants of a
// direct room key.
func DirectRoomHas(key string, userID uint) bool {
	a, b, ok := ParseDirectRoomKey(key)
	return ok && (a == userID || b == userID)
}
