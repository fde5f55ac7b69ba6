package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/transcription"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/voiceprofile"
)

// prefixDiarizer splits a chunk into lines and maps the "A:"/"B:" prefix to
// a fixed voice, so tests control speaker attribution precisely
type prefixDiarizer struct{}

func (prefixDiarizer) Diarize(audio []byte) []transcription.SpeechTurn {
	lines := strings.Split(string(audio), "\n")
	turns := make([]transcription.SpeechTurn, 0, len(lines))
	var offset time.Duration
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pitch := 100.0
		if strings.HasPrefix(line, "B:") {
			pitch = 200.0
		}
		turns = append(turns, transcription.SpeechTurn{
			Audio: []byte(strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "A:"), "B:"))),
			Characteristics: entities.AudioCharacteristics{
				Pitch: pitch, Tone: 0.5, Pace: 1.0, VolumeLevel: 0.5, QualityScore: 0.9,
			},
			Offset: offset,
		})
		offset += 100 * time.Millisecond
	}
	return turns
}

type captureRecordings struct {
	mu     sync.Mutex
	chunks []uint64
}

func (c *captureRecordings) StoreChunk(_ context.Context, _ string, chunk entities.AudioChunk) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, chunk.Sequence)
	return nil
}

type failingArchive struct{ saves int }

func (f *failingArchive) Save(context.Context, *entities.SessionArchive) error {
	f.saves++
	return errors.New("connection refused")
}

func newTestOrchestrator(recordings RecordingStore, archive ArchiveRepository) *Orchestrator {
	engine := transcription.NewEngine(
		transcription.NewStaticRecognizer(),
		prefixDiarizer{},
		voiceprofile.NewMemoryStore(nil),
		nil,
	)
	analyzer := analysis.NewAnalyzer(analysis.NewRuleExtractor(), nil)
	store := NewMemoryStore()
	store.Init()
	return NewOrchestrator(store, engine, analyzer, recordings, archive, 16, nil)
}

func validConfig() MeetingConfig {
	return MeetingConfig{
		Title: "Sprint planning",
		Participants: []entities.Participant{
			{ID: "p1", Name: "Dana", Email: "dana@example.com"},
		},
		Platform:            entities.PlatformZoom,
		AIProcessingEnabled: true,
	}
}

func textChunk(seq uint64, text string) entities.AudioChunk {
	return entities.AudioChunk{Sequence: seq, Data: []byte(text), Received: time.Now()}
}

func TestStartMeeting_Validation(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		mut  func(*MeetingConfig)
	}{
		{"empty title", func(c *MeetingConfig) { c.Title = "  " }},
		{"no participants", func(c *MeetingConfig) { c.Participants = nil }},
		{"unknown platform", func(c *MeetingConfig) { c.Platform = "carrier_pigeon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mut(&cfg)
			if _, err := o.StartMeeting(ctx, cfg); !apperrors.IsCode(err, apperrors.ErrorCode_INVALID_ARGUMENT) {
				t.Fatalf("expected INVALID_ARGUMENT got %v", err)
			}
		})
	}
}

func TestStartMeeting_SessionIsActive(t *testing.T) {
	o := newTestOrchestrator(nil, nil)

	s, err := o.StartMeeting(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != entities.StatusInProgress {
		t.Fatalf("expected in_progress got %s", s.Status)
	}
	if s.ID == "" || !strings.HasPrefix(s.ID, "session_") {
		t.Fatalf("unexpected session id %q", s.ID)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	s, _ := o.StartMeeting(ctx, validConfig())

	if err := o.IngestAudio(ctx, s.ID, textChunk(1, "A: John should complete the API integration by Friday")); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	final, err := o.EndMeeting(ctx, s.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}

	if final.Status != entities.StatusCompleted {
		t.Fatalf("expected completed got %s", final.Status)
	}
	if final.EndTime == nil {
		t.Fatal("end time not stamped")
	}
	if len(final.Transcription) != 1 {
		t.Fatalf("expected 1 segment got %d", len(final.Transcription))
	}
	if len(final.ActionItems) != 1 {
		t.Fatalf("expected 1 action item got %d", len(final.ActionItems))
	}
	if !strings.Contains(final.ActionItems[0].Description, "API integration") {
		t.Fatalf("unexpected action item description: %q", final.ActionItems[0].Description)
	}
	if final.ActionItems[0].Priority == entities.PriorityLow {
		t.Fatalf("priority must not default to low, got %s", final.ActionItems[0].Priority)
	}
	if final.Summary == nil {
		t.Fatal("expected summary")
	}
}

func TestPipeline_SpeakerAttributionAndParticipation(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	s, _ := o.StartMeeting(ctx, validConfig())

	o.IngestAudio(ctx, s.ID, textChunk(1, "A: Kicking off the roadmap review\nB: Thanks, I have updates"))
	o.IngestAudio(ctx, s.ID, textChunk(2, "A: Closing thoughts before we wrap"))

	final, err := o.EndMeeting(ctx, s.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if len(final.Transcription) != 3 {
		t.Fatalf("expected 3 segments got %d", len(final.Transcription))
	}

	participation := final.Summary.Participation
	if got := participation["speaker_1"].InteractionCount; got != 2 {
		t.Fatalf("expected speaker_1 interactions 2 got %d", got)
	}
	if got := participation["speaker_2"].InteractionCount; got != 1 {
		t.Fatalf("expected speaker_2 interactions 1 got %d", got)
	}
}

func TestIngestAudio_UnknownSessionIsInvalid(t *testing.T) {
	o := newTestOrchestrator(nil, nil)

	err := o.IngestAudio(context.Background(), "session_missing", textChunk(1, "hello"))
	if !apperrors.IsInvalidSession(err) {
		t.Fatalf("expected INVALID_SESSION got %v", err)
	}
}

func TestIngestAudio_AfterEndIsInvalid(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	s, _ := o.StartMeeting(ctx, validConfig())
	o.EndMeeting(ctx, s.ID)

	err := o.IngestAudio(ctx, s.ID, textChunk(1, "too late"))
	if !apperrors.IsInvalidSession(err) {
		t.Fatalf("expected INVALID_SESSION got %v", err)
	}
}

func TestEndMeeting_TwiceIsNotFound(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	s, _ := o.StartMeeting(ctx, validConfig())
	if _, err := o.EndMeeting(ctx, s.ID); err != nil {
		t.Fatalf("first end failed: %v", err)
	}
	if _, err := o.EndMeeting(ctx, s.ID); !apperrors.IsSessionNotFound(err) {
		t.Fatalf("expected SESSION_NOT_FOUND got %v", err)
	}
}

func TestIngestAudio_DuplicateSequenceIsNoOp(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	s, _ := o.StartMeeting(ctx, validConfig())

	chunk := textChunk(7, "A: We must document the rollout plan")
	if err := o.IngestAudio(ctx, s.ID, chunk); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if err := o.IngestAudio(ctx, s.ID, chunk); err != nil {
		t.Fatalf("resubmission must be a no-op, got %v", err)
	}

	final, _ := o.EndMeeting(ctx, s.ID)
	if len(final.Transcription) != 1 {
		t.Fatalf("expected 1 segment after dedup got %d", len(final.Transcription))
	}
}

func TestPipeline_ChunksProcessedInOrder(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	s, _ := o.StartMeeting(ctx, validConfig())

	texts := []string{"first remark", "second remark", "third remark", "fourth remark"}
	for i, text := range texts {
		if err := o.IngestAudio(ctx, s.ID, textChunk(uint64(i+1), "A: "+text)); err != nil {
			t.Fatalf("ingest %d failed: %v", i, err)
		}
	}

	final, _ := o.EndMeeting(ctx, s.ID)
	if len(final.Transcription) != len(texts) {
		t.Fatalf("expected %d segments got %d", len(texts), len(final.Transcription))
	}
	for i, seg := range final.Transcription {
		if seg.Text != texts[i] {
			t.Fatalf("segment %d out of order: got %q want %q", i, seg.Text, texts[i])
		}
	}
}

func TestPipeline_AIProcessingDisabled(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	cfg := validConfig()
	cfg.AIProcessingEnabled = false
	s, _ := o.StartMeeting(ctx, cfg)

	o.IngestAudio(ctx, s.ID, textChunk(1, "A: We should fix the login bug immediately"))

	final, _ := o.EndMeeting(ctx, s.ID)
	if len(final.Transcription) != 1 {
		t.Fatalf("transcription must still run, got %d segments", len(final.Transcription))
	}
	if len(final.ActionItems) != 0 || len(final.Decisions) != 0 {
		t.Fatal("insight extraction must be skipped")
	}
	if final.Summary == nil {
		t.Fatal("summary must still be computed")
	}
}

func TestPipeline_RecordingStoreReceivesChunks(t *testing.T) {
	recordings := &captureRecordings{}
	o := newTestOrchestrator(recordings, nil)
	ctx := context.Background()

	cfg := validConfig()
	cfg.RecordingEnabled = true
	s, _ := o.StartMeeting(ctx, cfg)

	o.IngestAudio(ctx, s.ID, textChunk(1, "A: hello there"))
	o.IngestAudio(ctx, s.ID, textChunk(2, "A: more words"))
	o.EndMeeting(ctx, s.ID)

	recordings.mu.Lock()
	defer recordings.mu.Unlock()
	if len(recordings.chunks) != 2 {
		t.Fatalf("expected 2 archived chunks got %d", len(recordings.chunks))
	}
}

func TestEndMeeting_ArchiveFailureDoesNotFailEnd(t *testing.T) {
	archive := &failingArchive{}
	o := newTestOrchestrator(nil, archive)
	ctx := context.Background()

	s, _ := o.StartMeeting(ctx, validConfig())
	o.IngestAudio(ctx, s.ID, textChunk(1, "A: wrap up"))

	final, err := o.EndMeeting(ctx, s.ID)
	if err != nil {
		t.Fatalf("end must succeed despite archive failure: %v", err)
	}
	if final.Status != entities.StatusCompleted {
		t.Fatalf("expected completed got %s", final.Status)
	}
	if archive.saves != 1 {
		t.Fatalf("expected archive attempt, got %d", archive.saves)
	}
}

func TestSessions_RunConcurrently(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := o.StartMeeting(ctx, validConfig())
			if err != nil {
				t.Errorf("start failed: %v", err)
				return
			}
			for seq := uint64(1); seq <= 5; seq++ {
				if err := o.IngestAudio(ctx, s.ID, textChunk(seq, "A: parallel session chatter")); err != nil {
					t.Errorf("ingest failed: %v", err)
					return
				}
			}
			final, err := o.EndMeeting(ctx, s.ID)
			if err != nil {
				t.Errorf("end failed: %v", err)
				return
			}
			if len(final.Transcription) != 5 {
				t.Errorf("expected 5 segments got %d", len(final.Transcription))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("concurrent sessions deadlocked")
	}
}

func TestShutdown_EndsAllSessions(t *testing.T) {
	o := newTestOrchestrator(nil, nil)
	ctx := context.Background()

	a, _ := o.StartMeeting(ctx, validConfig())
	b, _ := o.StartMeeting(ctx, validConfig())

	o.Shutdown(ctx)

	if _, ok := o.GetSession(a.ID); ok {
		t.Fatal("session a still active after shutdown")
	}
	if _, ok := o.GetSession(b.ID); ok {
		t.Fatal("session b still active after shutdown")
	}
}
