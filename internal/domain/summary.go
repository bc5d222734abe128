package domain

import "time"

// DefaultMeetingName is used when a room was never scheduled ahead of time.
const DefaultMeetingName = "Ad-hoc Meeting"

// SummaryRecord is a persisted meeting summary, owned by the storage adapter.
type SummaryRecord struct {
	UID         string    `json:"uid"`
	RoomID      RoomID    `json:"roomId"`
	MeetingName string    `json:"meetingName"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScheduledMeeting names a room before anyone joins it.
type ScheduledMeeting struct {
	RoomID RoomID `json:"roomId"`
	Name   string `json:"name"`
	UID    string `json:"uid"`
}
