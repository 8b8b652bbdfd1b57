// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen = 64
)

var (
	ErrUserIDTooLong = errors.New("user id too long")
	ErrUserIDEmpty   = errors.New("user id empty")
)

type UserID string

// ParseUserID trims and bounds an identity handed over by the auth layer.
func ParseUserID(raw string) (UserID, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == 0 {
		return "", ErrUserIDEmpty
	}
	if len(raw) > MaxUserIDLen {
		return "", ErrUserIDTooLong
	}
	return UserID(raw), nil
}

// UserSummary is the slice of a profile the engine needs. It is owned by the
// external user directory.
type UserSummary struct {
	ID              UserID   `json:"id"`
	Name            string   `json:"name"`
	Domain          string   `json:"domain,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Rating          float64  `json:"rating"`
	TotalInterviews int      `json:"totalInterviews"`
}
