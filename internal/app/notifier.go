package app

import (
	"encoding/json"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/rs/zerolog/log"
)

// PresenceNotifier pushes JSON frames to whatever channel the user holds
// right now. Offline users simply miss the frame.
type PresenceNotifier struct {
	presence *Presence
}

func NewNotifier(p *Presence) *PresenceNotifier {
	return &PresenceNotifier{presence: p}
}

func (n *PresenceNotifier) Notify(uid domain.UserID, v any) bool {
	ch, ok := n.presence.Lookup(uid)
	if !ok {
		log.Debug().Str("module", "app.notifier").Str("user", string(uid)).Msg("user offline, notification dropped")
		return false
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.notifier").Msg("marshal notification")
		return false
	}
	if err := ch.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "app.notifier").Str("user", string(uid)).Msg("notification dropped")
		return false
	}
	return true
}
