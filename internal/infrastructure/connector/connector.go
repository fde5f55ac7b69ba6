package connector

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Platform abstracts a meeting platform: attach to a meeting, expose its
// audio as a stream of chunks, report who is present, and detach.
type Platform interface {
	Connect(ctx context.Context, session *entities.MeetingSession) error
	GetAudioStream(sessionID string) (<-chan entities.AudioChunk, error)
	GetParticipants(ctx context.Context, sessionID string) ([]entities.Participant, error)
	Disconnect(ctx context.Context, sessionID string) error
}

// Registry maps platform tags to their connector implementations
type Registry struct {
	mu        sync.RWMutex
	platforms map[entities.MeetingPlatform]Platform
}

// NewRegistry creates an empty connector registry
func NewRegistry() *Registry {
	return &Registry{platforms: make(map[entities.MeetingPlatform]Platform)}
}

// Register binds a connector to a platform tag
func (r *Registry) Register(platform entities.MeetingPlatform, connector Platform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platforms[platform] = connector
}

// Get resolves the connector for a platform tag
func (r *Registry) Get(platform entities.MeetingPlatform) (Platform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connector, ok := r.platforms[platform]
	if !ok {
		return nil, apperrors.ErrConnectorFailed(string(platform), fmt.Errorf("no connector registered"))
	}
	return connector, nil
}
