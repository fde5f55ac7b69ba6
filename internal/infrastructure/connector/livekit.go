package connector

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/external/livekit"
)

// LiveKitConnector attaches sessions to LiveKit rooms. Room lifecycle, join
// tokens, and the live roster go through the server SDK; the audio itself is
// still pushed over the ingest endpoint, so the stream side delegates to a
// push connector.
type LiveKitConnector struct {
	client livekit.Client
	push   *PushConnector
	logger *zap.Logger
}

// NewLiveKitConnector creates a LiveKit-backed connector
func NewLiveKitConnector(client livekit.Client, push *PushConnector, logger *zap.Logger) *LiveKitConnector {
	return &LiveKitConnector{client: client, push: push, logger: logger}
}

// Connect ensures the session's room exists and opens the ingest stream
func (l *LiveKitConnector) Connect(ctx context.Context, session *entities.MeetingSession) error {
	room, err := l.client.EnsureRoom(ctx, session.ID, session.Title)
	if err != nil {
		return apperrors.ErrConnectorFailed(string(entities.PlatformLiveKit), err)
	}
	if err := l.push.Connect(ctx, session); err != nil {
		return err
	}
	if l.logger != nil {
		l.logger.Info("🎥 LiveKit room ready",
			zap.String("session_id", session.ID),
			zap.String("room_sid", room.SID))
	}
	return nil
}

// GetAudioStream returns the session's ingest-fed chunk stream
func (l *LiveKitConnector) GetAudioStream(sessionID string) (<-chan entities.AudioChunk, error) {
	return l.push.GetAudioStream(sessionID)
}

// GetParticipants reads the live roster from the room. Identities that match
// a declared participant keep that participant's details.
func (l *LiveKitConnector) GetParticipants(ctx context.Context, sessionID string) ([]entities.Participant, error) {
	declared, err := l.push.GetParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entities.Participant, len(declared))
	for _, p := range declared {
		byID[p.ID] = p
	}

	roster, err := l.client.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, apperrors.ErrConnectorFailed(string(entities.PlatformLiveKit), err)
	}
	if len(roster) == 0 {
		return declared, nil
	}

	participants := make([]entities.Participant, 0, len(roster))
	for _, p := range roster {
		if known, ok := byID[p.Identity]; ok {
			participants = append(participants, known)
			continue
		}
		participants = append(participants, entities.Participant{
			ID:   p.Identity,
			Name: p.Name,
		})
	}
	return participants, nil
}

// GenerateJoinToken issues a join token for one participant of the session
func (l *LiveKitConnector) GenerateJoinToken(sessionID string, participant entities.Participant) (string, error) {
	token, err := l.client.GenerateToken(sessionID, participant.ID, participant.Name)
	if err != nil {
		return "", apperrors.ErrConnectorFailed(string(entities.PlatformLiveKit), err)
	}
	return token, nil
}

// Disconnect closes the ingest stream and tears the room down
func (l *LiveKitConnector) Disconnect(ctx context.Context, sessionID string) error {
	if err := l.push.Disconnect(ctx, sessionID); err != nil {
		return err
	}
	if err := l.client.CloseRoom(ctx, sessionID); err != nil {
		if l.logger != nil {
			l.logger.Warn("⚠️ Failed to close LiveKit room",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return nil
}
