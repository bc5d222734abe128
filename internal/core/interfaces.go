package core

import "github.com/parthdv/huddle/internal/domain"

// Frame is an encoded payload ready for the wire.
type Frame []byte

type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds a participant to its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// RoomService is the core-facing API of a room.
// It owns the membership set and accumulated meeting state,
// but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int

	AddMember(sid SessionID, ms MemberSession)
	RemoveMember(sid SessionID)
	Broadcast(from SessionID, data Frame) PublishResult

	AppendTranscript(fragment string)
	Transcript() (string, bool)

	SetNote(text string)
	Note() (string, bool)
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
}

// RoomRegistry hands out room state, creating it lazily on first use.
type RoomRegistry interface {
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	List() []RoomInfo
}
