package app

import (
	"sync"

	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
	"github.com/rs/zerolog/log"
)

// roomMembers is the membership set of one room.
// dead is set once the set emptied and was unlinked from the relay.
type roomMembers struct {
	mu   sync.RWMutex
	set  map[core.Channel]struct{}
	dead bool
}

// channelState serializes membership changes of one channel.
type channelState struct {
	mu   sync.Mutex
	room domain.RoomID
}

// Relay forwards opaque negotiation frames between channels joined to the
// same room. It never inspects, buffers or retries frames.
type Relay struct {
	rooms    sync.Map // domain.RoomID -> *roomMembers
	channels sync.Map // core.Channel -> *channelState
}

func NewRelay() *Relay {
	return &Relay{}
}

// Join adds ch to roomID. A channel sits in one room at a time, so joining
// a new room leaves the previous one.
func (r *Relay) Join(roomID domain.RoomID, ch core.Channel) {
	v, _ := r.channels.LoadOrStore(ch, &channelState{})
	st := v.(*channelState)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.room == roomID {
		return
	}
	if st.room != "" {
		r.remove(st.room, ch)
	}
	r.add(roomID, ch)
	st.room = roomID
	log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Msg("channel joined")
}

// Leave removes ch from roomID if it is joined there.
func (r *Relay) Leave(roomID domain.RoomID, ch core.Channel) {
	v, ok := r.channels.Load(ch)
	if !ok {
		return
	}
	st := v.(*channelState)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.room != roomID {
		return
	}
	r.remove(roomID, ch)
	st.room = ""
	log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Msg("channel left")
}

// LeaveAll forgets ch entirely. Used when the transport goes away.
func (r *Relay) LeaveAll(ch core.Channel) {
	v, ok := r.channels.LoadAndDelete(ch)
	if !ok {
		return
	}
	st := v.(*channelState)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.room != "" {
		r.remove(st.room, ch)
		st.room = ""
	}
}

// RoomOf returns the room ch is joined to.
func (r *Relay) RoomOf(ch core.Channel) (domain.RoomID, bool) {
	v, ok := r.channels.Load(ch)
	if !ok {
		return "", false
	}
	st := v.(*channelState)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.room, st.room != ""
}

// Members returns how many channels are joined to roomID.
func (r *Relay) Members(roomID domain.RoomID) int {
	v, ok := r.rooms.Load(roomID)
	if !ok {
		return 0
	}
	rm := v.(*roomMembers)
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.set)
}

// Relay forwards frame to every channel in roomID except sender. The sender
// must be joined to the room. With no other member the frame is dropped.
func (r *Relay) Relay(roomID domain.RoomID, sender core.Channel, frame core.Frame) (core.PublishResult, error) {
	res := core.PublishResult{}
	v, ok := r.rooms.Load(roomID)
	if !ok {
		return res, domain.ErrNotAuthorized
	}
	rm := v.(*roomMembers)

	rm.mu.RLock()
	if _, member := rm.set[sender]; !member {
		rm.mu.RUnlock()
		return res, domain.ErrNotAuthorized
	}
	peers := make([]core.Channel, 0, len(rm.set))
	for ch := range rm.set {
		if ch != sender {
			peers = append(peers, ch)
		}
	}
	rm.mu.RUnlock()

	if len(peers) == 0 {
		metrics.SignalsDroppedTotal.WithLabelValues("no_peer").Inc()
		return res, nil
	}
	for _, ch := range peers {
		if err := ch.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, ch)
			metrics.SignalsDroppedTotal.WithLabelValues("backpressure").Inc()
			continue
		}
		res.SentTo++
		metrics.SignalsRelayedTotal.Inc()
	}
	log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("relay result")
	return res, nil
}

func (r *Relay) add(roomID domain.RoomID, ch core.Channel) {
	for {
		v, ok := r.rooms.Load(roomID)
		if !ok {
			v, _ = r.rooms.LoadOrStore(roomID, &roomMembers{set: make(map[core.Channel]struct{})})
		}
		rm := v.(*roomMembers)
		rm.mu.Lock()
		if rm.dead {
			rm.mu.Unlock()
			continue
		}
		rm.set[ch] = struct{}{}
		rm.mu.Unlock()
		return
	}
}

func (r *Relay) remove(roomID domain.RoomID, ch core.Channel) {
	v, ok := r.rooms.Load(roomID)
	if !ok {
		return
	}
	rm := v.(*roomMembers)
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.set, ch)
	if len(rm.set) == 0 && !rm.dead {
		rm.dead = true
		r.rooms.CompareAndDelete(roomID, rm)
	}
}
