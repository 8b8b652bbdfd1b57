package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	sessionUserKey = "user_id"
	ctxUserKey     = "user_id"
)

var errUnauthenticated = errors.New("unauthenticated")

// Verifier turns an HS256 token from the auth service into a user id. The
// user id is the sub claim.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) UserID(raw string) (domain.UserID, error) {
	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", errUnauthenticated
	}
	uid, err := domain.ParseUserID(claims.Subject)
	if err != nil {
		return "", errUnauthenticated
	}
	return uid, nil
}

func bearer(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireUser resolves the caller from the session cookie, a bearer token,
// a ?token= query (browsers cannot set headers on WebSocket upgrades) or, in
// debug mode, a ?user= query.
func RequireUser(v *Verifier, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := sessions.Default(c).Get(sessionUserKey).(string); ok {
			if uid, err := domain.ParseUserID(raw); err == nil {
				c.Set(ctxUserKey, uid)
				c.Next()
				return
			}
		}

		token := bearer(c)
		if token == "" {
			token = c.Query("token")
		}
		if token != "" {
			uid, err := v.UserID(token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				return
			}
			c.Set(ctxUserKey, uid)
			c.Next()
			return
		}

		if debug {
			if uid, err := domain.ParseUserID(c.Query("user")); err == nil {
				log.Debug().Str("module", "adapters.http").Str("user", string(uid)).Msg("debug identity")
				c.Set(ctxUserKey, uid)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	}
}

func userOf(c *gin.Context) domain.UserID {
	uid, _ := c.Get(ctxUserKey)
	id, _ := uid.(domain.UserID)
	return id
}

type sessionRequest struct {
	Token  string `json:"token"`
	UserID string `json:"userId" validate:"max=64"`
}

// handleLogin binds an identity to the session cookie.
func (h *handlers) handleLogin(c *gin.Context) {
	var req sessionRequest
	if err := bindJSON(c, &req); err != nil {
		resolveError(c, err)
		return
	}

	var (
		uid domain.UserID
		err error
	)
	switch {
	case req.Token != "":
		uid, err = h.verifier.UserID(req.Token)
	case h.debug && req.UserID != "":
		uid, err = domain.ParseUserID(req.UserID)
	default:
		err = errUnauthenticated
	}
	if err != nil {
		resolveError(c, errUnauthenticated)
		return
	}

	s := sessions.Default(c)
	s.Set(sessionUserKey, string(uid))
	if err := s.Save(); err != nil {
		resolveError(c, err)
		return
	}
	log.Info().Str("module", "adapters.http").Str("user", string(uid)).Msg("session opened")
	c.JSON(http.StatusOK, gin.H{"userId": uid})
}

func (h *handlers) handleLogout(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	if err := s.Save(); err != nil {
		resolveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
