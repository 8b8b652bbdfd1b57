package session

import (
	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
)

// armRoleSwitchLocked replaces the room's role-switch timer with a fresh one.
// Caller holds e.mu.
func (m *Manager) armRoleSwitchLocked(e *roomEntry) {
	m.stopTimerLocked(e)
	if m.closed.Load() {
		return
	}
	gen := e.gen
	id := e.room.ID
	e.timer = m.afterFunc(m.cfg.RoleSwitchWindow, func() { m.fireRoleSwitch(id, gen) })
}

// stopTimerLocked invalidates any pending firing. Caller holds e.mu.
func (m *Manager) stopTimerLocked(e *roomEntry) {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// fireRoleSwitch swaps roles once for the generation it was armed with.
func (m *Manager) fireRoleSwitch(roomID domain.RoomID, gen uint64) {
	e, ok := m.load(roomID)
	if !ok {
		return
	}
	e.mu.Lock()
	if gen != e.gen || e.room.Status != domain.RoomActive || m.closed.Load() {
		e.mu.Unlock()
		return
	}
	e.room.SwapRoles()
	e.room.RoleSwitchDeadline = e.room.RoleSwitchDeadline.Add(m.cfg.RoleSwitchWindow)
	m.armRoleSwitchLocked(e)
	snap := e.room.Clone()
	e.mu.Unlock()

	metrics.RoleSwitchesTotal.Inc()
	for _, p := range snap.Participants {
		m.notify(p.UserID, domain.RoleSwitched{
			Type:     domain.NoteRoleSwitched,
			RoomID:   roomID,
			Role:     p.Role,
			Deadline: snap.RoleSwitchDeadline,
			Switches: snap.RoleSwitches,
		})
	}
	m.log.Info().Str("room", string(roomID)).Int("switches", snap.RoleSwitches).Msg("roles switched")
}
