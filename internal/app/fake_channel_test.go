package app

import (
	"sync"

	"github.com/dkeye/peerview/internal/core"
)

type fakeChannel struct {
	mu     sync.Mutex
	name   string
	frames []core.Frame
	full   bool
	closed bool
}

func newFakeChannel(name string) *fakeChannel {
	return &fakeChannel{name: name}
}

func (f *fakeChannel) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrChannelClosed
	}
	if f.full {
		return core.ErrBackpressure
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeChannel) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeChannel) received() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Frame(nil), f.frames...)
}
