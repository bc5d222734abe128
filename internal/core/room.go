package core

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/parthdv/huddle/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// One mutex guards membership, transcript and note; broadcasts take it
// exclusively, so per-room delivery order matches the order broadcasts
// were issued. It never closes adapter-owned resources.
type roomImpl struct {
	room *domain.Room

	mu        sync.RWMutex
	bySID     map[SessionID]MemberSession
	fragments []string
	note      string
	hasNote   bool
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:  room,
		bySID: make(map[SessionID]MemberSession),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

// AddMember is idempotent per session: re-adding replaces the stored
// session and never duplicates membership.
func (r *roomImpl) AddMember(sid SessionID, ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySID[sid] = ms
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member added")
}

func (r *roomImpl) RemoveMember(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySID, sid)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member removed")
}

// Broadcast delivers data to every member except from. Best-effort: a slow
// or closed peer is reported as dropped and never blocks the rest.
// Pass an empty SessionID to reach everyone, sender included.
// The exclusive lock serializes concurrent broadcasts, keeping the room a
// single dispatch point; TrySend never blocks, so holding it is cheap.
func (r *roomImpl) Broadcast(from SessionID, data Frame) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := PublishResult{}
	for sid, m := range r.bySID {
		if sid == from {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("from", string(from)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// AppendTranscript records one transcribed fragment. Fragments land in the
// order their transcriptions complete, which may differ from send order.
func (r *roomImpl) AppendTranscript(fragment string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fragments = append(r.fragments, fragment)
}

// Transcript returns the space-joined transcript. The second value is false
// when no fragment was ever appended, which is distinct from an empty string.
func (r *roomImpl) Transcript() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.fragments == nil {
		return "", false
	}
	return strings.Join(r.fragments, " "), true
}

// SetNote stores the latest shared-note text. Last write wins, no merge.
func (r *roomImpl) SetNote(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.note = text
	r.hasNote = true
}

func (r *roomImpl) Note() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.note, r.hasNote
}
