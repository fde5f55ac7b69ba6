package voiceprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

const (
	profileKeyPrefix  = "voiceprofile:"
	profileIndexKey   = "voiceprofile:index"
	profileCounterKey = "voiceprofile:counter"
)

// RedisStore keeps voice profiles in Redis so speaker identities survive
// restarts and are shared across service instances. It degrades to creating
// throwaway profiles when Redis is unreachable, keeping the never-fails
// identification contract.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed profile store
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

func profileKey(speakerID string) string {
	return profileKeyPrefix + speakerID
}

// IdentifySpeaker loads all indexed profiles and matches locally. Among
// profiles inside the match radius the closest by Euclidean distance wins,
// most recently updated on a tie.
func (s *RedisStore) IdentifySpeaker(ctx context.Context, obs entities.AudioCharacteristics) string {
	profiles, err := s.loadAll(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Profile scan failed, registering unmatched speaker", zap.Error(err))
		}
		return s.register(ctx, obs)
	}

	var best *entities.VoiceProfile
	var bestDist float64
	for i := range profiles {
		p := &profiles[i]
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
	return s.register(ctx, obs)
}

// UpdateProfile applies the weighted-average update inside a WATCH
// transaction so concurrent updates to the same profile never lose samples
func (s *RedisStore) UpdateProfile(ctx context.Context, speakerID string, obs entities.AudioCharacteristics) {
	key := profileKey(speakerID)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		var p entities.VoiceProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		w := 1.0 / float64(p.SampleCount+1)
		p.Absorb(obs, w, s.now())
		if p.Confidence < 0.95 {
			p.Confidence += (0.95 - p.Confidence) * 0.1
		}
		updated, err := json.Marshal(&p)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}, key)
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Profile update failed",
			zap.String("speaker_id", speakerID),
			zap.Error(err))
	}
}

// BindIdentity attaches a user id to a speaker profile
func (s *RedisStore) BindIdentity(ctx context.Context, speakerID, userID string) {
	key := profileKey(speakerID)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		var p entities.VoiceProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		p.UserID = userID
		updated, err := json.Marshal(&p)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}, key)
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Identity bind failed",
			zap.String("speaker_id", speakerID),
			zap.Error(err))
	}
}

// GetProfile returns the stored profile, if present
func (s *RedisStore) GetProfile(ctx context.Context, speakerID string) (entities.VoiceProfile, bool) {
	raw, err := s.client.Get(ctx, profileKey(speakerID)).Bytes()
	if err != nil {
		return entities.VoiceProfile{}, false
	}
	var p entities.VoiceProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return entities.VoiceProfile{}, false
	}
	return p, true
}

func (s *RedisStore) loadAll(ctx context.Context) ([]entities.VoiceProfile, error) {
	ids, err := s.client.SMembers(ctx, profileIndexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	profiles := make([]entities.VoiceProfile, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var p entities.VoiceProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *RedisStore) register(ctx context.Context, obs entities.AudioCharacteristics) string {
	n, err := s.client.Incr(ctx, profileCounterKey).Result()
	if err != nil {
		// Unreachable Redis: hand back an ephemeral id so the pipeline
		// keeps flowing. The profile is not persisted.
		id := fmt.Sprintf("speaker_unscoped_%d", s.now().UnixNano())
		if s.logger != nil {
			s.logger.Warn("⚠️ Profile counter unavailable, using ephemeral speaker id",
				zap.String("speaker_id", id),
				zap.Error(err))
		}
		return id
	}
	id := fmt.Sprintf("speaker_%d", n)
	profile := entities.NewVoiceProfile(id, obs, s.now())
	raw, err := json.Marshal(&profile)
	if err == nil {
		pipe := s.client.TxPipeline()
		pipe.Set(ctx, profileKey(id), raw, 0)
		pipe.SAdd(ctx, profileIndexKey, id)
		_, err = pipe.Exec(ctx)
	}
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Profile persist failed", zap.String("speaker_id", id), zap.Error(err))
	}
	return id
}
