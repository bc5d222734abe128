// Package orch coordinates registries, rooms and the external collaborators.
// Adapters translate transport events into calls on the Orchestrator; the
// Orchestrator owns no transport resources itself.
package orch

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/parthdv/huddle/internal/app"
	"github.com/parthdv/huddle/internal/core"
	"github.com/parthdv/huddle/internal/domain"
)

// Transcriber is the narrow contract with the speech-to-text collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Summarizer is the narrow contract with the summarization collaborator.
type Summarizer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomRegistry

	Speech     Transcriber
	Summarizer Summarizer

	// TempDir holds spooled audio chunks; empty means os.TempDir.
	TempDir string

	chunkSem *semaphore.Weighted
	sf       singleflight.Group
}

func New(registry *app.Registry, rooms core.RoomRegistry, speech Transcriber, summarizer Summarizer, tempDir string, maxInflightChunks int64) *Orchestrator {
	if maxInflightChunks <= 0 {
		maxInflightChunks = 16
	}
	return &Orchestrator{
		Registry:   registry,
		Rooms:      rooms,
		Speech:     speech,
		Summarizer: summarizer,
		TempDir:    tempDir,
		chunkSem:   semaphore.NewWeighted(maxInflightChunks),
	}
}

// Join binds a connection to a room, creating the room on first join.
// First join wins: a connection already bound to another room is refused,
// re-joining the same room is a no-op.
func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID) bool {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return false
	}
	if bound, _, ok := o.Registry.RoomOf(sid); ok {
		if bound != roomID {
			log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("bound", string(bound)).Str("room", string(roomID)).Msg("join refused, already bound")
			return false
		}
		return true
	}
	if !o.Registry.BindRoom(sid, roomID) {
		return false
	}
	o.Rooms.GetOrCreate(roomID).AddMember(sid, sess)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("joined room")
	return true
}

// Disconnect removes the connection from its room, if any. The room itself
// survives, transcript included.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	if roomID, _, ok := o.Registry.RoomOf(sid); ok {
		if room, ok := o.Rooms.Get(roomID); ok {
			room.RemoveMember(sid)
		}
	}
	o.Registry.Unbind(sid)
}

// PublishNote stores the latest shared-note text and fans it out to every
// other participant of the room. Last write wins, no merge.
func (o *Orchestrator) PublishNote(sid core.SessionID, roomID domain.RoomID, text string) {
	room := o.Rooms.GetOrCreate(roomID)
	room.SetNote(text)

	frame, err := encodeEvent(struct {
		Type string `json:"type"`
		Note string `json:"note"`
	}{Type: "receive-note", Note: text})
	if err != nil {
		return
	}
	res := room.Broadcast(sid, frame)
	log.Debug().Str("module", "orch").Str("room", string(roomID)).Int("sent_to", res.SendTo).Msg("note published")
}

func encodeEvent(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return nil, err
	}
	return core.Frame(b), nil
}
