package core

import "errors"

// Frame is a raw encoded payload (one JSON text message).
type Frame []byte

// ConnID identifies one live socket for the process lifetime.
type ConnID string

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking; ErrBackpressure when the outbound buffer is full.
	TrySend(Frame) error
	Close()
}
