package core

import (
	"time"

	"github.com/dkeye/CodeCurrent/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []ConnID
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ConnectionID ConnID `json:"connectionId"`
	DisplayName  string `json:"displayName"`
	Color        string `json:"color"`
}

// JoinResult is what a joining connection needs for its initial sync.
type JoinResult struct {
	Color string
	Files map[domain.Filename]string
	// Created is set when this join brought the room into existence.
	Created bool
	// WasInVoice is set when a same-room rejoin reset an active voice flag.
	WasInVoice bool
}

type RoomInfo struct {
	ID          domain.RoomID     `json:"id"`
	MemberCount int               `json:"memberCount"`
	VoiceCount  int               `json:"voiceCount"`
	Files       []domain.Filename `json:"files"`
	CreatedAt   time.Time         `json:"createdAt"`
	IdleSince   time.Time         `json:"idleSince,omitzero"`
}

// RoomStore owns every RoomState. All mutations are total: unknown rooms,
// files and connections degrade to no-ops.
type RoomStore interface {
	JoinRoom(conn ConnID, room domain.RoomID, displayName string) JoinResult
	MutateFile(room domain.RoomID, name domain.Filename, content string)
	CreateFile(room domain.RoomID, name domain.Filename) bool
	DeleteFile(room domain.RoomID, name domain.Filename) bool
	RenameFile(room domain.RoomID, oldName, newName domain.Filename) bool
	Leave(conn ConnID) (domain.RoomID, bool)
	ListMembers(room domain.RoomID) []MemberDTO
	Member(room domain.RoomID, conn ConnID) (domain.Member, bool)

	SetVoice(room domain.RoomID, conn ConnID, inVoice bool) bool
	VoiceMembers(room domain.RoomID) []ConnID

	Snapshot(room domain.RoomID) (map[domain.Filename]string, bool)
	RoomInfo(room domain.RoomID) (RoomInfo, bool)
	List() []RoomInfo
	EvictIdle(olderThan time.Duration) []domain.RoomID
}
