package orch

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/parthdv/huddle/internal/core"
	"github.com/parthdv/huddle/internal/domain"
)

// SubmitChunk hands one audio chunk to the transcription pipeline and
// returns immediately. A failed chunk is logged and dropped; the submitter
// is never notified and the chunk is never retried. Completions for the
// same room may race and land in the transcript in completion order.
func (o *Orchestrator) SubmitChunk(roomID domain.RoomID, audio []byte) {
	go o.processChunk(context.Background(), roomID, audio)
}

func (o *Orchestrator) processChunk(ctx context.Context, roomID domain.RoomID, audio []byte) {
	if err := o.chunkSem.Acquire(ctx, 1); err != nil {
		return
	}
	defer o.chunkSem.Release(1)

	path, err := o.spoolChunk(audio)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(roomID)).Msg("spool audio chunk")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("path", path).Msg("remove spooled chunk")
		}
	}()

	spooled, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("path", path).Msg("read spooled chunk")
		return
	}

	text, err := o.Speech.Transcribe(ctx, spooled)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(roomID)).Msg("transcription failed, chunk dropped")
		return
	}

	room := o.Rooms.GetOrCreate(roomID)
	room.AppendTranscript(text)

	frame, err := encodeEvent(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: "receive-transcript", Text: text})
	if err != nil {
		return
	}
	// Transcript fragments go to the whole room, sender included.
	room.Broadcast(core.SessionID(""), frame)
	log.Info().Str("module", "orch").Str("room", string(roomID)).Int("chars", len(text)).Msg("transcript fragment appended")
}

func (o *Orchestrator) spoolChunk(audio []byte) (string, error) {
	f, err := os.CreateTemp(o.TempDir, "audio-*.wav")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write chunk: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
