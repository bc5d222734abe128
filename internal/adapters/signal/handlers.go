package signal

import (
	"encoding/base64"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/parthdv/huddle/internal/core"
	"github.com/parthdv/huddle/internal/domain"
)

func (ctl *WSController) handleJoin(sid core.SessionID, conn *wsConn, data []byte) {
	type joinPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Msg("join-room")
	if !ctl.Orch.Join(sid, domain.RoomID(p.RoomID)) {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "already in another room",
		})
		return
	}

	room := ctl.Orch.Rooms.GetOrCreate(domain.RoomID(p.RoomID))
	resp := struct {
		Type  string `json:"type"`
		Room  string `json:"roomId"`
		Count int    `json:"count"`
	}{
		Type:  "room-joined",
		Room:  p.RoomID,
		Count: room.MemberCount(),
	}
	ctl.sendJSON(conn, resp)

	// Late joiners get the current shared note right away.
	if note, ok := room.Note(); ok {
		ctl.sendJSON(conn, struct {
			Type string `json:"type"`
			Note string `json:"note"`
		}{Type: "receive-note", Note: note})
	}
}

func (ctl *WSController) handleNote(sid core.SessionID, conn *wsConn, data []byte) {
	type notePayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		Note   string `json:"note"`
	}
	var p notePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad note payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	ctl.Orch.PublishNote(sid, domain.RoomID(p.RoomID), p.Note)
}

func (ctl *WSController) handleAudioChunk(sid core.SessionID, conn *wsConn, data []byte) {
	type chunkPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		Blob   string `json:"blob"`
	}
	var p chunkPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad audio payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	audio, err := base64.StdEncoding.DecodeString(p.Blob)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad audio blob")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_blob",
		})
		return
	}

	log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Int("bytes", len(audio)).Msg("audio-chunk")
	// Fire and forget: transcription failures never reach this connection.
	ctl.Orch.SubmitChunk(domain.RoomID(p.RoomID), audio)
}

func (ctl *WSController) handlePing(conn *wsConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}
