package app

import (
	"sync"

	"github.com/parthdv/huddle/internal/core"
	"github.com/parthdv/huddle/internal/domain"
)

// Rooms maps room ids to live room state. Rooms are created lazily on first
// use and never evicted; entries live until process restart. Durable state is
// the storage adapter's concern, not this map's.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[domain.RoomID]core.RoomService)}
}

func (f *Rooms) GetOrCreate(id domain.RoomID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room
	}
	room = core.NewRoomService(&domain.Room{ID: id})
	f.rooms[id] = room
	return room
}

// Get is the non-creating lookup used at summary time.
func (f *Rooms) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *Rooms) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: r.MemberCount()})
	}
	return out
}
