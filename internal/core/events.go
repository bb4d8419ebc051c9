package core

import (
	"encoding/json"

	"github.com/dkeye/CodeCurrent/internal/domain"
)

// Inbound event types.
const (
	EventJoin      = "join"
	EventJoinRoom  = "join-room"
	EventLeaveRoom = "leave-room"
	EventPing      = "ping"
	EventWhoAmI    = "whoami"

	EventCodeChange  = "code-change"
	EventCursorMove  = "cursor-move"
	EventFileCreate  = "file-create"
	EventFileDelete  = "file-delete"
	EventFileRename  = "file-rename"
	EventChatMessage = "chat-message"

	EventVoiceJoin     = "voice-join"
	EventVoiceLeave    = "voice-leave"
	EventVoiceOffer    = "voice-offer"
	EventVoiceAnswer   = "voice-answer"
	EventVoiceICE      = "voice-ice"
	EventVoiceMute     = "voice-mute"
	EventVoiceSpeaking = "voice-speaking"
)

// Outbound-only event types.
const (
	EventSyncCode      = "sync-code"
	EventUserList      = "user-list"
	EventUserJoined    = "user-joined"
	EventUserLeft      = "user-left"
	EventLeft          = "left"
	EventPong          = "pong"
	EventVoiceUserList = "voice-user-list"
)

// Envelope is decoded first to route a frame by its type.
type Envelope struct {
	Type string `json:"type"`
}

type JoinPayload struct {
	RoomID      domain.RoomID `json:"roomId"`
	DisplayName string        `json:"displayName"`
	// Username is accepted for older clients.
	Username string `json:"username,omitempty"`
}

type CodeChangePayload struct {
	RoomID   domain.RoomID   `json:"roomId"`
	Filename domain.Filename `json:"filename"`
	Content  string          `json:"content"`
}

type CursorPayload struct {
	RoomID   domain.RoomID   `json:"roomId"`
	Position json.RawMessage `json:"position"`
}

type FilePayload struct {
	RoomID   domain.RoomID   `json:"roomId"`
	Filename domain.Filename `json:"filename"`
}

type RenamePayload struct {
	RoomID  domain.RoomID   `json:"roomId"`
	OldName domain.Filename `json:"oldName"`
	NewName domain.Filename `json:"newName"`
}

type ChatPayload struct {
	RoomID    domain.RoomID   `json:"roomId"`
	Text      string          `json:"text"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type VoicePayload struct {
	RoomID domain.RoomID `json:"roomId"`
}

// SignalPayload carries one of offer, answer or candidate; contents are opaque.
type SignalPayload struct {
	To        ConnID          `json:"to"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type MutePayload struct {
	RoomID domain.RoomID `json:"roomId"`
	Muted  bool          `json:"muted"`
}

type SpeakingPayload struct {
	RoomID   domain.RoomID `json:"roomId"`
	Speaking bool          `json:"speaking"`
}

type SyncCodeMsg struct {
	Type         string                     `json:"type"`
	ConnectionID ConnID                     `json:"connectionId"`
	Color        string                     `json:"color"`
	Files        map[domain.Filename]string `json:"files"`
}

type UserListMsg struct {
	Type  string      `json:"type"`
	Users []MemberDTO `json:"users"`
}

type PresenceMsg struct {
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color,omitempty"`
}

type CodeChangeMsg struct {
	Type     string          `json:"type"`
	Filename domain.Filename `json:"filename"`
	Content  string          `json:"content"`
}

type CursorMsg struct {
	Type         string          `json:"type"`
	ConnectionID ConnID          `json:"connectionId"`
	Position     json.RawMessage `json:"position"`
	DisplayName  string          `json:"displayName"`
	Color        string          `json:"color"`
}

type FileMsg struct {
	Type     string          `json:"type"`
	Filename domain.Filename `json:"filename"`
}

type RenameMsg struct {
	Type    string          `json:"type"`
	OldName domain.Filename `json:"oldName"`
	NewName domain.Filename `json:"newName"`
}

type ChatMsg struct {
	Type        string          `json:"type"`
	DisplayName string          `json:"displayName"`
	Text        string          `json:"text"`
	Timestamp   json.RawMessage `json:"timestamp"`
}

type VoiceUserListMsg struct {
	Type      string   `json:"type"`
	SocketIDs []ConnID `json:"socketIds"`
}

type VoicePresenceMsg struct {
	Type         string `json:"type"`
	ConnectionID ConnID `json:"connectionId"`
	DisplayName  string `json:"displayName,omitempty"`
}

type SignalMsg struct {
	Type      string          `json:"type"`
	From      ConnID          `json:"from"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type MuteMsg struct {
	Type         string `json:"type"`
	ConnectionID ConnID `json:"connectionId"`
	Muted        bool   `json:"muted"`
}

type SpeakingMsg struct {
	Type         string `json:"type"`
	ConnectionID ConnID `json:"connectionId"`
	Speaking     bool   `json:"speaking"`
}

type WhoAmIMsg struct {
	Type         string        `json:"type"`
	ConnectionID ConnID        `json:"connectionId"`
	DisplayName  string        `json:"displayName"`
	RoomID       domain.RoomID `json:"roomId,omitempty"`
}

type ControlMsg struct {
	Type string `json:"type"`
}
