package domain

import "time"

type InvitationID string

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationRejected  InvitationStatus = "rejected"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationExpired   InvitationStatus = "expired"
)

// DefaultInvitationTTL bounds how long an invitee has to answer.
const DefaultInvitationTTL = 5 * time.Minute

// Terminal reports whether no further transition is possible.
func (s InvitationStatus) Terminal() bool {
	return s != InvitationPending
}

// CanTransitionTo reports whether a transition from s to next is valid.
// Only pending moves, and only into a terminal state.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	return s == InvitationPending && next.Terminal()
}

type Invitation struct {
	ID                InvitationID      `json:"invitationId"`
	InviterID         UserID            `json:"inviterId"`
	InviteeID         UserID            `json:"inviteeId"`
	RoomID            RoomID            `json:"roomId"`
	Domain            string            `json:"domain"`
	SelectedQuestions []QuestionSummary `json:"selectedQuestions"`
	Status            InvitationStatus  `json:"status"`
	CreatedAt         time.Time         `json:"createdAt"`
	ExpiresAt         time.Time         `json:"expiresAt"`
	ResolvedAt        time.Time         `json:"resolvedAt,omitzero"`
}

// Expired reports whether a pending invitation is past its deadline at now.
func (i *Invitation) Expired(now time.Time) bool {
	return i.Status == InvitationPending && !now.Before(i.ExpiresAt)
}

func (i *Invitation) Clone() Invitation {
	out := *i
	out.SelectedQuestions = CloneQuestions(i.SelectedQuestions)
	return out
}
