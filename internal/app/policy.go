package app

import "github.com/Dragon57t/GAME-ART/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropMessage
	KickPeer
)

// Policy decides what happens when a participant's send buffer is full
// during a relay or broadcast.
type Policy interface {
	OnBackPressure(slow domain.ConnID) BackpressureAction
}

// SimplePolicy drops the message. Relays are fire-and-forget; a slow
// reader loses events rather than stalling the session or getting kicked.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(slow domain.ConnID) BackpressureAction {
	return DropMessage
}
