package domain

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NoteInvitationReceived  NotificationType = "invitationReceived"
	NoteInvitationAccepted  NotificationType = "invitationAccepted"
	NoteInvitationRejected  NotificationType = "invitationRejected"
	NoteInvitationCancelled NotificationType = "invitationCancelled"
	NoteInvitationExpired   NotificationType = "invitationExpired"
	NoteInvitationFailed    NotificationType = "invitationFailed"
	NoteParticipantJoined   NotificationType = "participantJoined"
	NoteRoleSwitched        NotificationType = "roleSwitched"
	NoteSessionEnded        NotificationType = "sessionEnded"
	NoteSignal              NotificationType = "signal"
)

// InvitationReceived is pushed to the invitee. It carries the question count
// only; bodies are fetched on demand.
type InvitationReceived struct {
	Type          NotificationType `json:"type"`
	InvitationID  InvitationID     `json:"invitationId"`
	RoomID        RoomID           `json:"roomId"`
	Inviter       UserSummary      `json:"inviter"`
	Domain        string           `json:"domain"`
	QuestionCount int              `json:"questionCount"`
	ExpiresAt     time.Time        `json:"expiresAt"`
}

// InvitationResolved is pushed to both parties once an invitation leaves
// pending. Role is set for accepted invitations only.
type InvitationResolved struct {
	Type         NotificationType `json:"type"`
	InvitationID InvitationID     `json:"invitationId"`
	RoomID       RoomID           `json:"roomId"`
	Status       InvitationStatus `json:"status"`
	Role         Role             `json:"role,omitempty"`
}

type InvitationFailed struct {
	Type         NotificationType `json:"type"`
	InvitationID InvitationID     `json:"invitationId,omitempty"`
	InviteeID    UserID           `json:"inviteeId,omitempty"`
	Reason       string           `json:"reason"`
}

type ParticipantJoined struct {
	Type   NotificationType `json:"type"`
	RoomID RoomID           `json:"roomId"`
	UserID UserID           `json:"userId"`
	Status RoomStatus       `json:"status"`
}

type RoleSwitched struct {
	Type     NotificationType `json:"type"`
	RoomID   RoomID           `json:"roomId"`
	Role     Role             `json:"role"`
	Deadline time.Time        `json:"deadline"`
	Switches int              `json:"switches"`
}

type SessionEnded struct {
	Type    NotificationType `json:"type"`
	RoomID  RoomID           `json:"roomId"`
	Status  RoomStatus       `json:"status"`
	EndedBy UserID           `json:"endedBy,omitempty"`
}

// SignalFrame wraps an opaque negotiation payload relayed to the peer.
type SignalFrame struct {
	Type    NotificationType `json:"type"`
	RoomID  RoomID           `json:"roomId"`
	From    UserID           `json:"from"`
	Payload json.RawMessage  `json:"payload"`
}
