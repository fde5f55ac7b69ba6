package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/connector"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/integration"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/session"
)

// ArchiveReader loads completed sessions that are no longer live
type ArchiveReader interface {
	FindByID(ctx context.Context, sessionID string) (*entities.SessionArchive, error)
}

// Meeting handles meeting-session HTTP requests. Audio flows through the
// platform connector: ingest pushes into the connector stream and a bridge
// goroutine per session feeds the stream into the orchestrator.
type Meeting struct {
	orchestrator *session.Orchestrator
	connectors   *connector.Registry
	push         *connector.PushConnector
	syncer       *integration.TaskSyncer
	scheduler    *integration.CalendarScheduler
	archive      ArchiveReader
	logger       *zap.Logger

	mu      sync.Mutex
	bridges map[string]chan struct{}
}

// NewMeetingHandler creates a new meeting handler. archive may be nil when
// persistence is disabled.
func NewMeetingHandler(
	orchestrator *session.Orchestrator,
	connectors *connector.Registry,
	push *connector.PushConnector,
	syncer *integration.TaskSyncer,
	scheduler *integration.CalendarScheduler,
	archive ArchiveReader,
	logger *zap.Logger,
) *Meeting {
	return &Meeting{
		orchestrator: orchestrator,
		connectors:   connectors,
		push:         push,
		syncer:       syncer,
		scheduler:    scheduler,
		archive:      archive,
		logger:       logger,
		bridges:      make(map[string]chan struct{}),
	}
}

// StartMeeting handles POST /v1/meetings
func (h *Meeting) StartMeeting(c echo.Context) error {
	var req meeting.StartMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	cfg := toMeetingConfig(&req)
	s, err := h.orchestrator.StartMeeting(c.Request().Context(), cfg)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	conn, err := h.connectors.Get(s.Platform)
	if err != nil {
		// roll the session back, nothing can feed it audio
		h.orchestrator.EndMeeting(c.Request().Context(), s.ID)
		return HandleError(h.logger, c, err)
	}
	if err := conn.Connect(c.Request().Context(), s); err != nil {
		h.orchestrator.EndMeeting(c.Request().Context(), s.ID)
		return HandleError(h.logger, c, err)
	}
	h.startBridge(s.ID, conn)

	resp := &meeting.StartMeetingResponse{
		SessionID: s.ID,
		Status:    string(s.Status),
		StartTime: s.StartTime,
	}
	if lk, ok := conn.(*connector.LiveKitConnector); ok && len(s.Participants) > 0 {
		token, tokenErr := lk.GenerateJoinToken(s.ID, s.Participants[0])
		if tokenErr != nil {
			if h.logger != nil {
				h.logger.Warn("⚠️ Failed to issue join token",
					zap.String("session_id", s.ID), zap.Error(tokenErr))
			}
		} else {
			resp.JoinToken = token
		}
	}

	return c.JSON(http.StatusCreated, resp)
}

// IngestAudio handles POST /v1/meetings/:id/audio
func (h *Meeting) IngestAudio(c echo.Context) error {
	sessionID := c.Param("id")

	var req meeting.IngestAudioRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	data, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("audio must be base64-encoded"))
	}

	chunk := entities.AudioChunk{Sequence: req.Sequence, Data: data}
	if req.ReceivedAt != nil {
		chunk.Received = *req.ReceivedAt
	} else {
		chunk.Received = time.Now().UTC()
	}

	if err := h.push.Push(sessionID, chunk); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusAccepted, &meeting.IngestAudioResponse{
		SessionID: sessionID,
		Sequence:  req.Sequence,
		Accepted:  true,
	})
}

// EndMeeting handles POST /v1/meetings/:id/end
func (h *Meeting) EndMeeting(c echo.Context) error {
	sessionID := c.Param("id")

	var req meeting.EndMeetingRequest
	if err := c.Bind(&req); err != nil {
		// the body is optional
		req = meeting.EndMeetingRequest{}
	}

	// Stop the audio feed first so the bridge drains every pushed chunk into
	// the orchestrator before the session queue closes.
	if s, ok := h.orchestrator.GetSession(sessionID); ok {
		if conn, err := h.connectors.Get(s.Platform); err == nil {
			if err := conn.Disconnect(c.Request().Context(), sessionID); err != nil && h.logger != nil {
				h.logger.Warn("⚠️ Connector disconnect failed",
					zap.String("session_id", sessionID), zap.Error(err))
			}
		}
		h.waitBridge(sessionID)
	}

	snapshot, err := h.orchestrator.EndMeeting(c.Request().Context(), sessionID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := &meeting.EndMeetingResponse{
		MeetingSnapshotResponse: *presenter.ToMeetingSnapshot(snapshot),
	}

	if len(req.SyncPlatforms) > 0 && len(snapshot.ActionItems) > 0 {
		platforms := make([]entities.TaskPlatform, 0, len(req.SyncPlatforms))
		for _, p := range req.SyncPlatforms {
			platforms = append(platforms, entities.TaskPlatform(p))
		}
		resp.ActionItems = h.syncer.SyncActionItems(c.Request().Context(),
			snapshot.ActionItems, platforms, snapshot.Participants)
	}

	if snapshot.Summary != nil {
		resp.CalendarPlan = presenter.ToCalendarPlan(
			h.scheduler.PlanFollowUps(snapshot.Summary, resp.ActionItems))
	}

	return c.JSON(http.StatusOK, resp)
}

// GetMeeting handles GET /v1/meetings/:id. Live sessions come from the
// orchestrator; completed ones fall back to the archive when available.
func (h *Meeting) GetMeeting(c echo.Context) error {
	sessionID := c.Param("id")

	if s, ok := h.orchestrator.GetSession(sessionID); ok {
		return c.JSON(http.StatusOK, presenter.ToMeetingSnapshot(s))
	}

	if h.archive != nil {
		archived, err := h.archive.FindByID(c.Request().Context(), sessionID)
		if err == nil {
			return c.JSON(http.StatusOK, toArchivedSnapshot(archived))
		}
		if !apperrors.IsSessionNotFound(err) {
			return HandleError(h.logger, c, err)
		}
	}

	return HandleError(h.logger, c, apperrors.ErrSessionNotFound(sessionID))
}

// startBridge pumps the connector stream into the orchestrator queue
func (h *Meeting) startBridge(sessionID string, conn connector.Platform) {
	stream, err := conn.GetAudioStream(sessionID)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("Audio stream unavailable",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return
	}

	done := make(chan struct{})
	h.mu.Lock()
	h.bridges[sessionID] = done
	h.mu.Unlock()

	go func() {
		defer close(done)
		for chunk := range stream {
			if err := h.orchestrator.IngestAudio(context.Background(), sessionID, chunk); err != nil {
				if h.logger != nil {
					h.logger.Warn("⚠️ Dropped audio chunk",
						zap.String("session_id", sessionID),
						zap.Uint64("sequence", chunk.Sequence),
						zap.Error(err))
				}
			}
		}
	}()
}

// waitBridge blocks until the session's bridge goroutine has drained
func (h *Meeting) waitBridge(sessionID string) {
	h.mu.Lock()
	done, ok := h.bridges[sessionID]
	delete(h.bridges, sessionID)
	h.mu.Unlock()
	if ok {
		<-done
	}
}

func toMeetingConfig(req *meeting.StartMeetingRequest) session.MeetingConfig {
	participants := make([]entities.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, entities.Participant{
			ID:         p.ID,
			Name:       p.Name,
			Email:      p.Email,
			Role:       p.Role,
			Department: p.Department,
		})
	}
	return session.MeetingConfig{
		Title:               req.Title,
		Participants:        participants,
		Platform:            entities.MeetingPlatform(req.Platform),
		Template:            entities.MeetingTemplate(req.Template),
		CustomVocabulary:    req.CustomVocabulary,
		PrivacyLevel:        entities.PrivacyLevel(req.PrivacyLevel),
		RecordingEnabled:    req.RecordingEnabled,
		AIProcessingEnabled: req.AIProcessingEnabled,
	}
}

func toArchivedSnapshot(a *entities.SessionArchive) *meeting.MeetingSnapshotResponse {
	endTime := a.EndTime
	summary := a.Summary.Data()
	return &meeting.MeetingSnapshotResponse{
		SessionID:     a.ID,
		Title:         a.Title,
		Platform:      a.Platform,
		Status:        string(entities.StatusCompleted),
		StartTime:     a.StartTime,
		EndTime:       &endTime,
		Participants:  a.Participants.Data(),
		Transcription: a.Transcription.Data(),
		ActionItems:   a.ActionItems.Data(),
		Decisions:     a.Decisions.Data(),
		Summary:       &summary,
	}
}
