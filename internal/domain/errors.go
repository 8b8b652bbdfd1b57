package domain

import "errors"

var (
	// ErrInviteeOffline: the proposal target has no live connection.
	ErrInviteeOffline = errors.New("invitee offline")
	// ErrAlreadyResolved: the entity already reached a terminal state.
	ErrAlreadyResolved = errors.New("already resolved")
	// ErrNotAuthorized: caller is not the inviter/invitee/participant required.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidRating: rating outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New("invalid rating")

	ErrRoomNotFound       = errors.New("room not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrInvitationPending  = errors.New("invitation already pending")
	ErrParticipantOffline = errors.New("participant offline")
	ErrInvalidRoomState   = errors.New("invalid room state")
	ErrEmptyReason        = errors.New("report reason required")
)
