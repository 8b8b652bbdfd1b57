package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/validate"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var errBadBody = errors.New("malformed body")

type errorResponse struct {
	Error string `json:"error"`
}

func resolveError(c *gin.Context, err error) {
	code, msg := statusOf(err)
	if code == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("module", "adapters.http").
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("unhandled error")
	}
	c.AbortWithStatusJSON(code, errorResponse{Error: msg})
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrInvitationNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, validate.ErrInvalid),
		errors.Is(err, errBadBody),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrEmptyReason):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvitationExpired):
		return http.StatusGone, err.Error()
	case errors.Is(err, domain.ErrAlreadyResolved),
		errors.Is(err, domain.ErrInvitationPending),
		errors.Is(err, domain.ErrInvalidRoomState):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInviteeOffline),
		errors.Is(err, domain.ErrParticipantOffline):
		return http.StatusUnprocessableEntity, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errBadBody
	}
	return validate.Struct(v)
}
