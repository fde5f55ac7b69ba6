package connector

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// PushConnector serves platforms without a server-side media API. Audio
// arrives over the ingest endpoint and Push adapts it into the stream that
// GetAudioStream exposes. One connector instance can back several platform
// tags at once.
type PushConnector struct {
	mu       sync.RWMutex
	sessions map[string]*pushSession
	logger   *zap.Logger
	bufSize  int
}

type pushSession struct {
	stream       chan entities.AudioChunk
	participants []entities.Participant
	closed       bool
}

// NewPushConnector creates a push connector. bufSize bounds the per-session
// stream buffer; zero falls back to a small default.
func NewPushConnector(bufSize int, logger *zap.Logger) *PushConnector {
	if bufSize <= 0 {
		bufSize = 64
	}
	return &PushConnector{
		sessions: make(map[string]*pushSession),
		logger:   logger,
		bufSize:  bufSize,
	}
}

// Connect opens a stream for the session and snapshots its declared roster
func (p *PushConnector) Connect(ctx context.Context, session *entities.MeetingSession) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[session.ID]; ok {
		return apperrors.ErrConnectorFailed(string(session.Platform), fmt.Errorf("session already connected: %s", session.ID))
	}

	participants := make([]entities.Participant, len(session.Participants))
	copy(participants, session.Participants)

	p.sessions[session.ID] = &pushSession{
		stream:       make(chan entities.AudioChunk, p.bufSize),
		participants: participants,
	}

	if p.logger != nil {
		p.logger.Info("🔌 Connected push stream",
			zap.String("session_id", session.ID),
			zap.String("platform", string(session.Platform)))
	}
	return nil
}

// Push feeds one ingested chunk into the session's stream. Chunks come out
// of GetAudioStream in the order they were pushed.
func (p *PushConnector) Push(sessionID string, chunk entities.AudioChunk) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.sessions[sessionID]
	if !ok || entry.closed {
		return apperrors.ErrInvalidSession(sessionID)
	}
	select {
	case entry.stream <- chunk:
		return nil
	default:
		return apperrors.ErrInternal(fmt.Errorf("audio stream full for session %s", sessionID))
	}
}

// GetAudioStream returns the session's chunk stream. The channel closes when
// the session disconnects.
func (p *PushConnector) GetAudioStream(sessionID string) (<-chan entities.AudioChunk, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrInvalidSession(sessionID)
	}
	return entry.stream, nil
}

// GetParticipants returns the roster declared when the meeting started.
// Push platforms have no live presence API, so the snapshot is all we have.
func (p *PushConnector) GetParticipants(ctx context.Context, sessionID string) ([]entities.Participant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrInvalidSession(sessionID)
	}
	participants := make([]entities.Participant, len(entry.participants))
	copy(participants, entry.participants)
	return participants, nil
}

// Disconnect closes the session's stream and forgets it
func (p *PushConnector) Disconnect(ctx context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.sessions[sessionID]
	if !ok {
		return apperrors.ErrInvalidSession(sessionID)
	}
	if !entry.closed {
		entry.closed = true
		close(entry.stream)
	}
	delete(p.sessions, sessionID)
	return nil
}
