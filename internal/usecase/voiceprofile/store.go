package voiceprofile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Store identifies speakers by acoustic fingerprint and maintains their
// profiles. Identification never fails: an observation that matches nothing
// becomes a new profile. Implementations are safe for concurrent use.
type Store interface {
	// IdentifySpeaker returns the speaker id whose profile matches the
	// observation, creating a new profile when nothing matches
	IdentifySpeaker(ctx context.Context, obs entities.AudioCharacteristics) string

	// UpdateProfile folds a confirmed observation into the speaker's profile
	UpdateProfile(ctx context.Context, speakerID string, obs entities.AudioCharacteristics)

	// BindIdentity attaches a known user to a speaker profile
	BindIdentity(ctx context.Context, speakerID, userID string)

	// GetProfile returns a copy of the stored profile, if present
	GetProfile(ctx context.Context, speakerID string) (entities.VoiceProfile, bool)
}

// MemoryStore keeps profiles in process memory, scoped to the service
// lifetime. Speaker ids are a deterministic counter sequence so repeated runs
// over the same audio produce the same attribution.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*entities.VoiceProfile
	counter  uint64
	logger   *zap.Logger
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory profile store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*entities.VoiceProfile),
		logger:   logger,
		now:      time.Now,
	}
}

// IdentifySpeaker matches the observation against every stored profile.
// Among profiles inside the match radius the closest by Euclidean distance
// wins; an exact distance tie goes to the most recently updated profile.
func (s *MemoryStore) IdentifySpeaker(_ context.Context, obs entities.AudioCharacteristics) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *entities.VoiceProfile
	var bestDist float64
	for _, p := range s.profiles {
		if !p.Matches(obs) {
			continue
		}
		d := p.DistanceTo(obs)
		switch {
		case best == nil, d < bestDist:
			best, bestDist = p, d
		case d == bestDist && p.LastUpdated.After(best.LastUpdated):
			best = p
		}
	}
	if best != nil {
		return best.SpeakerID
	}

	s.counter++
	id := fmt.Sprintf("speaker_%d", s.counter)
	profile := entities.NewVoiceProfile(id, obs, s.now())
	s.profiles[id] = &profile

	if s.logger != nil {
		s.logger.Debug("🆕 Registered new voice profile", zap.String("speaker_id", id))
	}
	return id
}

// UpdateProfile folds the observation into the profile as a weighted average.
// The observation weight shrinks as the sample count grows, so an established
// profile drifts slowly. Unknown speaker ids are ignored.
func (s *MemoryStore) UpdateProfile(_ context.Context, speakerID string, obs entities.AudioCharacteristics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[speakerID]
	if !ok {
		return
	}
	w := 1.0 / float64(p.SampleCount+1)
	p.Absorb(obs, w, s.now())
	if p.Confidence < 0.95 {
		p.Confidence += (0.95 - p.Confidence) * 0.1
	}
}

// BindIdentity attaches a user id to a speaker profile
func (s *MemoryStore) BindIdentity(_ context.Context, speakerID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[speakerID]; ok {
		p.UserID = userID
	}
}

// GetProfile returns a copy of the stored profile, if present
func (s *MemoryStore) GetProfile(_ context.Context, speakerID string) (entities.VoiceProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[speakerID]; ok {
		return *p, true
	}
	return entities.VoiceProfile{}, false
}
