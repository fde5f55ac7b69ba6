package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/transcription"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
)

// RecordingStore archives raw audio chunks of sessions that opted into
// recording. Failures are best-effort.
type RecordingStore interface {
	StoreChunk(ctx context.Context, sessionID string, chunk entities.AudioChunk) error
}

// ArchiveRepository persists completed session snapshots
type ArchiveRepository interface {
	Save(ctx context.Context, archive *entities.SessionArchive) error
}

// Orchestrator owns the meeting lifecycle. It is the only mutator of
// MeetingSession records: the transcription engine and analyzer compute,
// the orchestrator merges under the session lock.
type Orchestrator struct {
	store      SessionStore
	engine     *transcription.Engine
	analyzer   *analysis.Analyzer
	recordings RecordingStore
	archive    ArchiveRepository
	logger     *zap.Logger
	queueSize  int
}

// NewOrchestrator wires the pipeline. Recording store and archive repository
// are optional; pass nil to disable them.
func NewOrchestrator(
	store SessionStore,
	engine *transcription.Engine,
	analyzer *analysis.Analyzer,
	recordings RecordingStore,
	archive ArchiveRepository,
	queueSize int,
	logger *zap.Logger,
) *Orchestrator {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Orchestrator{
		store:      store,
		engine:     engine,
		analyzer:   analyzer,
		recordings: recordings,
		archive:    archive,
		logger:     logger,
		queueSize:  queueSize,
	}
}

// StartMeeting validates the config, creates the session, and spawns its
// worker. The returned session is a snapshot; later mutations are not
// visible through it.
func (o *Orchestrator) StartMeeting(ctx context.Context, cfg MeetingConfig) (*entities.MeetingSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := entities.NewMeetingSession(cfg.Title, cfg.Participants, cfg.Platform, cfg.Metadata())
	entry, err := o.store.Register(s, cfg, o.queueSize)
	if err != nil {
		return nil, err
	}

	go o.runWorker(s.ID, entry)

	if o.logger != nil {
		o.logger.Info("🚀 Meeting started",
			zap.String("session_id", s.ID),
			zap.String("title", s.Title),
			zap.String("platform", string(s.Platform)),
			zap.Int("participant_count", len(s.Participants)))
	}
	return s.Clone(), nil
}

// IngestAudio enqueues a chunk for the session worker. It returns as soon as
// the chunk is queued; transcription happens asynchronously. Resubmitting an
// already-accepted sequence is a no-op.
func (o *Orchestrator) IngestAudio(_ context.Context, sessionID string, chunk entities.AudioChunk) error {
	entry, ok := o.store.Get(sessionID)
	if !ok {
		return apperrors.ErrInvalidSession(sessionID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.ending || !entry.session.IsActive() {
		return apperrors.ErrInvalidSession(sessionID)
	}
	if _, dup := entry.seen[chunk.Sequence]; dup {
		return nil
	}
	if chunk.Received.IsZero() {
		chunk.Received = time.Now().UTC()
	}

	select {
	case entry.queue <- chunk:
		entry.seen[chunk.Sequence] = struct{}{}
		return nil
	default:
		return apperrors.ErrInternal(nil).
			WithDetail("reason", "chunk queue full").
			WithDetail("session_id", sessionID)
	}
}

// EndMeeting stops intake, waits for in-flight chunks to drain, runs the
// final full-transcript analysis, and returns the completed snapshot. A
// session can be ended exactly once; later calls fail with
// SESSION_NOT_FOUND.
func (o *Orchestrator) EndMeeting(ctx context.Context, sessionID string) (*entities.MeetingSession, error) {
	entry, ok := o.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound(sessionID)
	}

	entry.mu.Lock()
	if entry.ending {
		entry.mu.Unlock()
		return nil, apperrors.ErrSessionNotFound(sessionID)
	}
	entry.ending = true
	close(entry.queue)
	entry.mu.Unlock()

	// wait for the worker to finish everything already queued
	<-entry.drained

	entry.mu.Lock()
	s := entry.session
	if entry.config.AIProcessingEnabled {
		// the full-transcript pass replaces everything accumulated
		// incrementally during the meeting
		final := o.analyzer.AnalyzeFull(ctx, sessionID, s.Transcription)
		s.ActionItems = final.ActionItems
		s.Decisions = final.Decisions
		s.Summary = final.Summary
	} else {
		summary := analysis.BuildSummary(s.Transcription, nil, nil)
		s.Summary = &summary
	}
	now := time.Now().UTC()
	s.EndTime = &now
	s.Status = entities.StatusCompleted
	snapshot := s.Clone()
	entry.mu.Unlock()

	o.engine.ReleaseSession(sessionID)
	o.store.Remove(sessionID)

	if o.archive != nil {
		if err := o.archive.Save(ctx, entities.NewSessionArchive(snapshot)); err != nil && o.logger != nil {
			o.logger.Error("❌ Failed to archive session",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}

	if o.logger != nil {
		o.logger.Info("🏁 Meeting ended",
			zap.String("session_id", sessionID),
			zap.Int("segment_count", len(snapshot.Transcription)),
			zap.Int("action_item_count", len(snapshot.ActionItems)),
			zap.Int("decision_count", len(snapshot.Decisions)))
	}
	return snapshot, nil
}

// GetSession returns a snapshot of an active session
func (o *Orchestrator) GetSession(sessionID string) (*entities.MeetingSession, bool) {
	entry, ok := o.store.Get(sessionID)
	if !ok {
		return nil, false
	}
	var snapshot *entities.MeetingSession
	entry.WithLock(func(s *entities.MeetingSession) {
		snapshot = s.Clone()
	})
	return snapshot, true
}

// Shutdown ends every active session and waits for the workers to drain
func (o *Orchestrator) Shutdown(ctx context.Context) {
	for _, id := range o.store.List() {
		if _, err := o.EndMeeting(ctx, id); err != nil && !apperrors.IsSessionNotFound(err) {
			if o.logger != nil {
				o.logger.Warn("⚠️ Failed to end session during shutdown",
					zap.String("session_id", id),
					zap.Error(err))
			}
		}
	}
	o.store.Teardown()
}

// runWorker consumes the session queue until EndMeeting closes it. Chunks
// are processed strictly in arrival order.
func (o *Orchestrator) runWorker(sessionID string, entry *Entry) {
	defer entry.finish()

	for chunk := range entry.queue {
		o.processChunk(sessionID, entry, chunk)
	}
}

// processChunk runs one chunk through transcription and incremental
// analysis, merging the results into the session under its lock
func (o *Orchestrator) processChunk(sessionID string, entry *Entry, chunk entities.AudioChunk) {
	ctx, cancel := jobcontext.ChunkBegin(context.Background(), sessionID, chunk.Sequence)
	defer cancel()

	if entry.config.RecordingEnabled && o.recordings != nil {
		if err := o.recordings.StoreChunk(ctx, sessionID, chunk); err != nil && o.logger != nil {
			o.logger.Warn("⚠️ Failed to archive chunk",
				zap.String("session_id", sessionID),
				zap.Uint64("chunk_sequence", chunk.Sequence),
				zap.Error(err))
		}
	}

	segments := o.engine.Transcribe(ctx, sessionID, chunk, entry.config.CustomVocabulary)
	if len(segments) == 0 {
		return
	}

	entry.WithLock(func(s *entities.MeetingSession) {
		s.Transcription = append(s.Transcription, segments...)
	})

	if !entry.config.AIProcessingEnabled {
		return
	}

	result := o.analyzer.AnalyzeBatch(ctx, sessionID, segments)
	entry.WithLock(func(s *entities.MeetingSession) {
		s.ActionItems = analysis.MergeActionItems(s.ActionItems, result.ActionItems)
		s.Decisions = analysis.MergeDecisions(s.Decisions, result.Decisions)
	})
}
