package transcription

import (
	"bytes"
	"context"
	"fmt"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// AssemblyAIRecognizer transcribes audio through the AssemblyAI API: upload
// the chunk, submit a transcription job, poll until it settles. Queued and
// processing statuses surface as non-final hypotheses.
type AssemblyAIRecognizer struct {
	client *aai.Client
	logger *zap.Logger
}

// NewAssemblyAIRecognizer creates a recognizer backed by AssemblyAI
func NewAssemblyAIRecognizer(apiKey string, logger *zap.Logger) *AssemblyAIRecognizer {
	return &AssemblyAIRecognizer{
		client: aai.NewClient(apiKey),
		logger: logger,
	}
}

// Recognize uploads the audio and polls the transcript until completed
func (r *AssemblyAIRecognizer) Recognize(ctx context.Context, audio []byte, vocabulary []string) (Recognition, error) {
	uploadURL, err := r.client.Upload(ctx, bytes.NewReader(audio))
	if err != nil {
		return Recognition{}, fmt.Errorf("failed to upload audio: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(false),
	}
	if len(vocabulary) > 0 {
		params.WordBoost = vocabulary
	}

	transcript, err := r.client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return Recognition{}, fmt.Errorf("failed to submit transcription: %w", err)
	}
	if transcript.ID == nil {
		return Recognition{}, fmt.Errorf("transcription submitted without id")
	}
	transcriptID := *transcript.ID

	if r.logger != nil {
		r.logger.Debug("🎙️ Transcription submitted", zap.String("transcript_id", transcriptID))
	}

	var result Recognition
	pollFn := func() error {
		t, err := r.client.Transcripts.Get(ctx, transcriptID)
		if err != nil {
			return err
		}
		switch t.Status {
		case aai.TranscriptStatusCompleted:
			if t.Text != nil {
				result.Text = *t.Text
			}
			if t.Confidence != nil {
				result.Confidence = *t.Confidence
			}
			result.IsFinal = true
			return nil

		case aai.TranscriptStatusError:
			msg := "transcription failed"
			if t.Error != nil {
				msg = *t.Error
			}
			return backoff.Permanent(fmt.Errorf("assemblyai error: %s", msg))

		default:
			// queued / processing: not final yet, keep polling
			return fmt.Errorf("transcript %s still %s", transcriptID, t.Status)
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 90 * time.Second

	if err := backoff.Retry(pollFn, backoff.WithContext(bo, ctx)); err != nil {
		return Recognition{}, err
	}
	return result, nil
}
