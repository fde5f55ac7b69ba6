package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Analyzer runs insight extraction over transcript batches and summarization
// over whole transcripts. Extraction failures degrade to empty results so a
// flaky model call never stalls a session.
type Analyzer struct {
	extractor Extractor
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer around the given extractor
func NewAnalyzer(extractor Extractor, logger *zap.Logger) *Analyzer {
	return &Analyzer{extractor: extractor, logger: logger}
}

// AnalyzeBatch extracts insights from the newly transcribed segments only
func (a *Analyzer) AnalyzeBatch(ctx context.Context, sessionID string, batch []entities.TranscriptSegment) entities.AnalysisResult {
	if len(batch) == 0 {
		return entities.EmptyAnalysisResult()
	}

	result, err := a.extractor.Extract(ctx, batch)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("⚠️ Batch extraction failed, degrading to empty result",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
		return entities.EmptyAnalysisResult()
	}
	return result
}

// AnalyzeFull reruns extraction over the complete transcript and builds the
// definitive summary. The output supersedes everything accumulated
// incrementally during the meeting.
func (a *Analyzer) AnalyzeFull(ctx context.Context, sessionID string, transcript []entities.TranscriptSegment) entities.AnalysisResult {
	result, err := a.extractor.Extract(ctx, transcript)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("❌ Final extraction failed, summarizing transcript only",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
		result = entities.EmptyAnalysisResult()
	}

	result.ActionItems = MergeActionItems(nil, result.ActionItems)
	result.Decisions = MergeDecisions(nil, result.Decisions)
	result.Risks = MergeStrings(nil, result.Risks)
	result.NextSteps = MergeStrings(nil, result.NextSteps)

	summary := BuildSummary(transcript, result.Risks, result.NextSteps)
	result.Summary = &summary
	return result
}
