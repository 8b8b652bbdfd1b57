package core

import "errors"

// ErrBackpressure is returned by TrySend when the channel's send buffer is full.
var ErrBackpressure = errors.New("backpressure")

// ErrChannelClosed is returned by TrySend after Close.
var ErrChannelClosed = errors.New("channel closed")

// Frame is a raw payload written to one client channel.
type Frame []byte

// Channel abstracts a live client transport.
// Owned by the adapter; the adapter must Close() it.
type Channel interface {
	TrySend(Frame) error
	Close()
}
