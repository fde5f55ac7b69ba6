package transcription

import (
	"context"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/voiceprofile"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
)

// Engine turns raw audio chunks into attributed transcript segments. A chunk
// flows through preprocessing, diarization, speaker identification, speech
// recognition, and text enrichment. Failures are recoverable: a chunk that
// cannot be transcribed produces no segments and the session keeps going.
type Engine struct {
	recognizer Recognizer
	diarizer   Diarizer
	profiles   voiceprofile.Store
	logger     *zap.Logger
	maxRetries uint64

	mu        sync.Mutex
	lastStamp map[string]time.Time
}

// NewEngine creates a transcription engine
func NewEngine(recognizer Recognizer, diarizer Diarizer, profiles voiceprofile.Store, logger *zap.Logger) *Engine {
	return &Engine{
		recognizer: recognizer,
		diarizer:   diarizer,
		profiles:   profiles,
		logger:     logger,
		maxRetries: 3,
		lastStamp:  make(map[string]time.Time),
	}
}

// SetMaxRetries overrides the per-turn recognition retry budget
func (e *Engine) SetMaxRetries(n int) {
	if n > 0 {
		e.maxRetries = uint64(n)
	}
}

// Transcribe processes one chunk and returns the new segments in speech
// order. Timestamps never move backwards within a session, even when the
// chunk arrives late.
func (e *Engine) Transcribe(ctx context.Context, sessionID string, chunk entities.AudioChunk, vocabulary []string) []entities.TranscriptSegment {
	audio := preprocess(chunk.Data)
	if len(audio) == 0 {
		return nil
	}

	turns := e.diarizer.Diarize(audio)
	segments := make([]entities.TranscriptSegment, 0, len(turns))

	base := chunk.Received
	if base.IsZero() {
		base = time.Now().UTC()
	}

	for _, turn := range turns {
		rec, err := e.recognizeWithRetry(ctx, turn.Audio, vocabulary)
		if err != nil {
			if e.logger != nil {
				e.logger.Warn("⚠️ Recognition failed, dropping turn",
					zap.String("session_id", sessionID),
					zap.Uint64("chunk_sequence", chunk.Sequence),
					zap.Error(err))
			}
			continue
		}
		// interim hypotheses never become segments
		if !rec.IsFinal || rec.Text == "" {
			continue
		}

		speakerID := e.profiles.IdentifySpeaker(ctx, turn.Characteristics)
		e.profiles.UpdateProfile(ctx, speakerID, turn.Characteristics)

		ts := e.clampTimestamp(sessionID, base.Add(turn.Offset))

		segment := entities.NewTranscriptSegment(speakerID, rec.Text, ts, rec.Confidence, DetectLanguage(rec.Text))
		segment.Sentiment = AnalyzeSentiment(rec.Text)
		segment.Keywords = ExtractKeywords(rec.Text)
		segments = append(segments, segment)
	}

	if e.logger != nil && len(segments) > 0 {
		e.logger.Debug("📝 Chunk transcribed",
			zap.String("session_id", sessionID),
			zap.Uint64("chunk_sequence", chunk.Sequence),
			zap.Int("segment_count", len(segments)))
	}
	return segments
}

// ReleaseSession drops the per-session timestamp watermark after the
// session ends
func (e *Engine) ReleaseSession(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.lastStamp, sessionID)
}

// clampTimestamp enforces per-session monotonic timestamps
func (e *Engine) clampTimestamp(sessionID string, ts time.Time) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	if last, ok := e.lastStamp[sessionID]; ok && ts.Before(last) {
		ts = last
	}
	e.lastStamp[sessionID] = ts
	return ts
}

// recognizeWithRetry retries transient recognizer failures with exponential
// backoff; permanent failures abort immediately
func (e *Engine) recognizeWithRetry(ctx context.Context, audio []byte, vocabulary []string) (Recognition, error) {
	var rec Recognition
	attempt := func() error {
		r, err := e.recognizer.Recognize(ctx, audio, vocabulary)
		if err != nil {
			if jobcontext.IsRetryableError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		rec = r
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), e.maxRetries)
	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		return Recognition{}, err
	}
	return rec, nil
}

// preprocess normalizes a chunk before diarization. Leading and trailing
// silence is stripped; an all-silence chunk becomes empty.
func preprocess(audio []byte) []byte {
	start := 0
	for start < len(audio) && isSilence(audio[start]) {
		start++
	}
	end := len(audio)
	for end > start && isSilence(audio[end-1]) {
		end--
	}
	return audio[start:end]
}

func isSilence(b byte) bool {
	return b == 0 || b == ' ' || b == '\t' || b == '\r'
}
