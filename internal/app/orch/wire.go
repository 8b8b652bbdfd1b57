package orch

import (
	"time"

	"github.com/dkeye/peerview/internal/app"
	"github.com/dkeye/peerview/internal/app/invite"
	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/core"
	"github.com/rs/zerolog"
)

type Config struct {
	InvitationTTL       time.Duration
	InvitationRetention time.Duration
	RoleSwitchWindow    time.Duration
	QuestionCount       int
	RelayPolicy         string
}

// Collaborators are the external stores the engine talks to.
type Collaborators struct {
	Users     core.UserDirectory
	Archive   core.RoomArchive
	Questions core.QuestionBank
	Ledger    core.RatingLedger
}

// New builds the engine once at startup.
func New(cfg Config, c Collaborators, logger zerolog.Logger) *Orchestrator {
	presence := app.NewPresence()
	relay := app.NewRelay()
	notifier := app.NewNotifier(presence)

	sessions := session.NewManager(session.Config{
		RoleSwitchWindow: cfg.RoleSwitchWindow,
		QuestionCount:    cfg.QuestionCount,
	}, session.Deps{
		Presence:  presence,
		Relay:     relay,
		Notifier:  notifier,
		Users:     c.Users,
		Archive:   c.Archive,
		Questions: c.Questions,
		Ledger:    c.Ledger,
	}, logger)

	invites := invite.NewCoordinator(invite.Config{
		TTL:           cfg.InvitationTTL,
		QuestionCount: cfg.QuestionCount,
		Retention:     cfg.InvitationRetention,
	}, invite.Deps{
		Presence:  presence,
		Rooms:     sessions,
		Notifier:  notifier,
		Users:     c.Users,
		Questions: c.Questions,
	}, logger)

	return &Orchestrator{
		Presence: presence,
		Relay:    relay,
		Policy:   app.PolicyFromString(cfg.RelayPolicy),
		Invites:  invites,
		Sessions: sessions,
	}
}
