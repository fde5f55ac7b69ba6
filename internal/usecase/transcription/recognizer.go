package transcription

import (
	"context"
	"strings"
)

// Recognition is one speech-to-text hypothesis. Non-final hypotheses never
// leave the engine; they exist so recognizer implementations can report
// in-progress state without the engine emitting partial segments.
type Recognition struct {
	Text       string
	Confidence float64
	IsFinal    bool
}

// Recognizer converts a unit of audio into text. Implementations are chosen
// at composition time; the engine adds retry around transient failures.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, vocabulary []string) (Recognition, error)
}

// StaticRecognizer treats the audio payload as UTF-8 text. It backs local
// development and tests, where chunks carry the words they should produce.
type StaticRecognizer struct{}

// NewStaticRecognizer creates the pass-through recognizer
func NewStaticRecognizer() *StaticRecognizer {
	return &StaticRecognizer{}
}

// Recognize returns the payload as a final hypothesis
func (r *StaticRecognizer) Recognize(_ context.Context, audio []byte, _ []string) (Recognition, error) {
	return Recognition{
		Text:       strings.TrimSpace(string(audio)),
		Confidence: 0.92,
		IsFinal:    true,
	}, nil
}
