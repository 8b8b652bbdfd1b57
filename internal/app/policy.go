package app

import (
	"strings"

	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	EvictChannel
)

// Policy decides what happens to a channel that refused a relayed frame.
type Policy interface {
	OnBackPressure(roomID domain.RoomID, ch core.Channel) BackpressureAction
}

// DropPolicy loses the frame and keeps the channel joined.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomID, core.Channel) BackpressureAction {
	return DropFrame
}

// EvictPolicy removes the slow channel from the room.
type EvictPolicy struct{}

func (EvictPolicy) OnBackPressure(domain.RoomID, core.Channel) BackpressureAction {
	return EvictChannel
}

// PolicyFromString maps the relay_policy config value.
func PolicyFromString(s string) Policy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "evict", "kick":
		return EvictPolicy{}
	default:
		return DropPolicy{}
	}
}
