package signal

import (
	"errors"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/validate"
)

var (
	errBadPayload  = errors.New("bad payload")
	errUnknownType = errors.New("unknown type")
	errRateLimited = errors.New("rate limited")
)

// reason maps an error to the short code clients switch on.
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInviteeOffline):
		return "invitee_offline"
	case errors.Is(err, domain.ErrAlreadyResolved):
		return "already_resolved"
	case errors.Is(err, domain.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, domain.ErrInvalidRating):
		return "invalid_rating"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, domain.ErrInvitationNotFound):
		return "invitation_not_found"
	case errors.Is(err, domain.ErrInvitationExpired):
		return "invitation_expired"
	case errors.Is(err, domain.ErrInvitationPending):
		return "invitation_pending"
	case errors.Is(err, domain.ErrParticipantOffline):
		return "participant_offline"
	case errors.Is(err, domain.ErrInvalidRoomState):
		return "invalid_room_state"
	case errors.Is(err, domain.ErrEmptyReason):
		return "empty_reason"
	case errors.Is(err, validate.ErrInvalid), errors.Is(err, errBadPayload):
		return "bad_payload"
	case errors.Is(err, errUnknownType):
		return "unknown_type"
	case errors.Is(err, errRateLimited):
		return "rate_limited"
	default:
		return "internal"
	}
}

type errorFrame struct {
	Type   string `json:"type"`
	Op     string `json:"op,omitempty"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, op string, err error) {
	f := errorFrame{Type: "error", Op: op, Error: reason(err)}
	if errors.Is(err, validate.ErrInvalid) {
		f.Detail = err.Error()
	}
	ctl.sendJSON(c, f)
}

// sendInvitationFailed reports a failed invitation operation to the caller
// only. The other party learns nothing.
func (ctl *SignalWSController) sendInvitationFailed(c *WsSignalConn, id domain.InvitationID, invitee domain.UserID, err error) {
	ctl.sendJSON(c, domain.InvitationFailed{
		Type:         domain.NoteInvitationFailed,
		InvitationID: id,
		InviteeID:    invitee,
		Reason:       reason(err),
	})
}
