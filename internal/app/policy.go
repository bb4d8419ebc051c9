package app

import (
	"fmt"

	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose outbound buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomID, conn core.ConnID) BackpressureAction
}

// DropPolicy keeps broadcast fire-and-forget: the frame is lost, the member stays.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomID, core.ConnID) BackpressureAction {
	return DropFrame
}

type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.RoomID, core.ConnID) BackpressureAction {
	return KickMember
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown backpressure policy %q", name)
}
