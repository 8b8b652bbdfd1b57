package http

import (
	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
)

type nopChannel struct {
	owner domain.UserID
}

func (*nopChannel) TrySend(core.Frame) error { return nil }
func (*nopChannel) Close()                   {}
