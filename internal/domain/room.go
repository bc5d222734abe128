// Package domain contains entity without logic, just meta-data
package domain

// RoomID is the opaque meeting identifier generated by the client.
// Never validated for collisions; the first join creates the room.
type RoomID string

type Room struct {
	ID RoomID
}
