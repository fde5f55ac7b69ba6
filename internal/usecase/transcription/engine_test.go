package transcription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/voiceprofile"
)

type stubDiarizer struct {
	characteristics entities.AudioCharacteristics
}

func (d stubDiarizer) Diarize(audio []byte) []SpeechTurn {
	return []SpeechTurn{{Audio: audio, Characteristics: d.characteristics}}
}

type failingRecognizer struct{}

func (failingRecognizer) Recognize(context.Context, []byte, []string) (Recognition, error) {
	// non-retryable so the engine fails fast
	return Recognition{}, errors.New("bad request: unsupported codec")
}

type interimRecognizer struct{}

func (interimRecognizer) Recognize(_ context.Context, audio []byte, _ []string) (Recognition, error) {
	return Recognition{Text: string(audio), Confidence: 0.5, IsFinal: false}, nil
}

func chunk(seq uint64, text string, received time.Time) entities.AudioChunk {
	return entities.AudioChunk{Sequence: seq, Data: []byte(text), Received: received}
}

func newTestEngine(r Recognizer, d Diarizer) *Engine {
	return NewEngine(r, d, voiceprofile.NewMemoryStore(nil), nil)
}

func TestTranscribe_ProducesEnrichedSegments(t *testing.T) {
	engine := newTestEngine(NewStaticRecognizer(), stubDiarizer{obsFixture(120)})

	segs := engine.Transcribe(context.Background(), "s1", chunk(1, "Great progress on the deployment", time.Now()), nil)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment got %d", len(segs))
	}
	seg := segs[0]
	if seg.SpeakerID != "speaker_1" {
		t.Fatalf("expected speaker_1 got %s", seg.SpeakerID)
	}
	if seg.Sentiment.Overall != entities.SentimentPositive {
		t.Fatalf("expected positive sentiment got %s", seg.Sentiment.Overall)
	}
	if len(seg.Keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if seg.Language != "en" {
		t.Fatalf("expected en got %s", seg.Language)
	}
}

func TestTranscribe_RecognitionFailureYieldsEmptyBatch(t *testing.T) {
	engine := newTestEngine(failingRecognizer{}, stubDiarizer{obsFixture(120)})

	segs := engine.Transcribe(context.Background(), "s1", chunk(1, "anything", time.Now()), nil)
	if len(segs) != 0 {
		t.Fatalf("expected empty batch got %d segments", len(segs))
	}
}

func TestTranscribe_InterimResultsSuppressed(t *testing.T) {
	engine := newTestEngine(interimRecognizer{}, stubDiarizer{obsFixture(120)})

	segs := engine.Transcribe(context.Background(), "s1", chunk(1, "partial words", time.Now()), nil)
	if len(segs) != 0 {
		t.Fatalf("interim hypotheses must not become segments, got %d", len(segs))
	}
}

func TestTranscribe_SilentChunkIgnored(t *testing.T) {
	engine := newTestEngine(NewStaticRecognizer(), NewFeatureDiarizer())

	segs := engine.Transcribe(context.Background(), "s1", chunk(1, "   \t ", time.Now()), nil)
	if len(segs) != 0 {
		t.Fatalf("expected no segments for silence, got %d", len(segs))
	}
}

func TestTranscribe_MonotonicTimestamps(t *testing.T) {
	engine := newTestEngine(NewStaticRecognizer(), stubDiarizer{obsFixture(120)})
	ctx := context.Background()

	later := time.Now()
	earlier := later.Add(-10 * time.Second)

	first := engine.Transcribe(ctx, "s1", chunk(1, "first utterance", later), nil)
	second := engine.Transcribe(ctx, "s1", chunk(2, "late arriving utterance", earlier), nil)

	if second[0].Timestamp.Before(first[0].Timestamp) {
		t.Fatalf("timestamp moved backwards: %v then %v", first[0].Timestamp, second[0].Timestamp)
	}
}

func TestTranscribe_TimestampWatermarkIsPerSession(t *testing.T) {
	engine := newTestEngine(NewStaticRecognizer(), stubDiarizer{obsFixture(120)})
	ctx := context.Background()

	later := time.Now()
	earlier := later.Add(-10 * time.Second)

	engine.Transcribe(ctx, "s1", chunk(1, "one", later), nil)
	other := engine.Transcribe(ctx, "s2", chunk(1, "two", earlier), nil)

	if !other[0].Timestamp.Equal(earlier) {
		t.Fatalf("other session clamped: got %v want %v", other[0].Timestamp, earlier)
	}
}

func TestTranscribe_StableSpeakerAttribution(t *testing.T) {
	engine := newTestEngine(NewStaticRecognizer(), stubDiarizer{obsFixture(120)})
	ctx := context.Background()

	a := engine.Transcribe(ctx, "s1", chunk(1, "hello", time.Now()), nil)
	b := engine.Transcribe(ctx, "s1", chunk(2, "hello again", time.Now()), nil)

	if a[0].SpeakerID != b[0].SpeakerID {
		t.Fatalf("same voice got different speakers: %s vs %s", a[0].SpeakerID, b[0].SpeakerID)
	}
}

func obsFixture(pitch float64) entities.AudioCharacteristics {
	return entities.AudioCharacteristics{
		Pitch:        pitch,
		Tone:         0.5,
		Pace:         1.0,
		VolumeLevel:  0.5,
		QualityScore: 0.9,
	}
}
