package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SentimentLabel is the dominant tone of a segment
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentScore holds per-class weights plus the dominant label.
// Weights are in [0,1] and sum to 1.
type SentimentScore struct {
	Positive float64        `json:"positive"`
	Negative float64        `json:"negative"`
	Neutral  float64        `json:"neutral"`
	Overall  SentimentLabel `json:"overall"`
}

// NeutralSentiment is the fallback when no tone signal is present
func NeutralSentiment() SentimentScore {
	return SentimentScore{
		Positive: 0.5,
		Negative: 0.2,
		Neutral:  0.3,
		Overall:  SentimentNeutral,
	}
}

// AudioCharacteristics is the acoustic fingerprint of a speech turn, used to
// match the turn against stored voice profiles
type AudioCharacteristics struct {
	Pitch        float64 `json:"pitch"`
	Tone         float64 `json:"tone"`
	Pace         float64 `json:"pace"`
	VolumeLevel  float64 `json:"volume_level"`
	QualityScore float64 `json:"quality_score"`
}

// TranscriptSegment is one attributed speech turn. Segments are append-only
// within a session and timestamps are monotonically non-decreasing.
type TranscriptSegment struct {
	ID         string         `json:"id"`
	SpeakerID  string         `json:"speaker_id"`
	Text       string         `json:"text"`
	Timestamp  time.Time      `json:"timestamp"`
	Confidence float64        `json:"confidence"`
	Language   string         `json:"language"`
	Sentiment  SentimentScore `json:"sentiment"`
	Keywords   []string       `json:"keywords"`
}

// NewTranscriptSegment creates a segment with a fresh id
func NewTranscriptSegment(speakerID, text string, timestamp time.Time, confidence float64, language string) TranscriptSegment {
	return TranscriptSegment{
		ID:         fmt.Sprintf("segment_%s", uuid.New().String()),
		SpeakerID:  speakerID,
		Text:       text,
		Timestamp:  timestamp,
		Confidence: confidence,
		Language:   language,
		Keywords:   make([]string, 0),
	}
}

// AudioChunk is a unit of raw audio handed to the pipeline. Sequence is
// assigned by the producer and strictly increasing per session; resubmitting
// an already-processed sequence is a no-op.
type AudioChunk struct {
	Sequence uint64    `json:"sequence"`
	Data     []byte    `json:"data"`
	Received time.Time `json:"received"`
}
