package orch

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/parthdv/huddle/internal/domain"
)

// ErrNoTranscript means no audio was ever successfully transcribed for the
// room, either because the room is unknown or because every chunk failed.
var ErrNoTranscript = errors.New("orch: no transcript for room")

const summaryPrompt = `You are an AI meeting assistant. Given a meeting transcript, generate a concise 1 to 2 paragraph summary and a bullet list of key action items.

Transcript:
`

// GenerateSummary sends the room's accumulated transcript to the
// summarization collaborator and returns its text verbatim. The room is not
// closed or reset; it keeps accepting joins, notes and audio afterwards.
// Concurrent requests for the same room share one upstream call.
func (o *Orchestrator) GenerateSummary(ctx context.Context, roomID domain.RoomID) (string, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return "", ErrNoTranscript
	}
	transcript, ok := room.Transcript()
	if !ok {
		return "", ErrNoTranscript
	}

	v, err, shared := o.sf.Do(string(roomID), func() (any, error) {
		return o.Summarizer.Generate(ctx, summaryPrompt+transcript)
	})
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(roomID)).Msg("summary generation failed")
		return "", err
	}
	log.Info().Str("module", "orch").Str("room", string(roomID)).Bool("shared", shared).Msg("summary generated")
	return v.(string), nil
}
