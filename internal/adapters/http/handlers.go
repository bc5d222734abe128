package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/parthdv/huddle/internal/adapters/store"
	"github.com/parthdv/huddle/internal/app/orch"
	"github.com/parthdv/huddle/internal/domain"
)

// SummaryStore is what the REST surface needs from the storage collaborator.
type SummaryStore interface {
	FindScheduledMeeting(ctx context.Context, roomID domain.RoomID) (string, error)
	SaveSummary(ctx context.Context, uid string, roomID domain.RoomID, summary, meetingName string) error
	ListSummaries(ctx context.Context, uid string) ([]domain.SummaryRecord, error)
	ScheduleMeeting(ctx context.Context, m domain.ScheduledMeeting) error
}

type Handlers struct {
	Orch  *orch.Orchestrator
	Store SummaryStore // nil when no store is configured
}

func (h *Handlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Orch.Rooms.List()})
}

func (h *Handlers) GenerateSummary(c *gin.Context) {
	var req struct {
		RoomID string `json:"roomId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid roomId"})
		return
	}

	summary, err := h.Orch.GenerateSummary(c.Request.Context(), domain.RoomID(req.RoomID))
	if errors.Is(err, orch.ErrNoTranscript) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transcript not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI summarization failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *Handlers) SaveSummary(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}
	var req struct {
		UID     string `json:"uid"`
		RoomID  string `json:"roomId"`
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" || req.RoomID == "" || req.Summary == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid fields"})
		return
	}

	roomID := domain.RoomID(req.RoomID)
	meetingName, err := h.Store.FindScheduledMeeting(c.Request.Context(), roomID)
	if errors.Is(err, store.ErrNotFound) {
		meetingName = domain.DefaultMeetingName
	} else if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", req.RoomID).Msg("scheduled meeting lookup")
		meetingName = domain.DefaultMeetingName
	}

	if err := h.Store.SaveSummary(c.Request.Context(), req.UID, roomID, req.Summary, meetingName); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", req.RoomID).Msg("save summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetingName": meetingName})
}

func (h *Handlers) ListSummaries(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing uid"})
		return
	}
	records, err := h.Store.ListSummaries(c.Request.Context(), uid)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("uid", uid).Msg("list summaries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list summaries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": records})
}

func (h *Handlers) ScheduleMeeting(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}
	var req struct {
		RoomID string `json:"roomId"`
		Name   string `json:"name"`
		UID    string `json:"uid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid fields"})
		return
	}
	m := domain.ScheduledMeeting{RoomID: domain.RoomID(req.RoomID), Name: req.Name, UID: req.UID}
	if err := h.Store.ScheduleMeeting(c.Request.Context(), m); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", req.RoomID).Msg("schedule meeting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule meeting"})
		return
	}
	c.JSON(http.StatusOK, m)
}
