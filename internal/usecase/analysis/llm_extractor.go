package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

const extractionPrompt = `You are a meeting analyst. Extract insights from the transcript below.
Respond with ONLY a JSON object, no prose, in this shape:
{
  "action_items": [{"description": "", "priority": "low|medium|high|critical"}],
  "decisions": [{"description": "", "impact": "low|medium|high|critical", "category": "strategic|operational|technical|financial|personnel"}],
  "risks": [""],
  "next_steps": [""]
}

Transcript:
%s`

// llmExtraction is the JSON shape the model is asked to produce
type llmExtraction struct {
	ActionItems []struct {
		Description string `json:"description"`
		Priority    string `json:"priority"`
	} `json:"action_items"`
	Decisions []struct {
		Description string `json:"description"`
		Impact      string `json:"impact"`
		Category    string `json:"category"`
	} `json:"decisions"`
	Risks     []string `json:"risks"`
	NextSteps []string `json:"next_steps"`
}

// GroqExtractor asks a Groq-hosted LLM for insights. Any failure (transport,
// malformed JSON) is reported to the caller, which degrades the batch to an
// empty result.
type GroqExtractor struct {
	client *ai.GroqClient
	logger *zap.Logger
}

// NewGroqExtractor creates an LLM-backed extractor
func NewGroqExtractor(client *ai.GroqClient, logger *zap.Logger) *GroqExtractor {
	return &GroqExtractor{client: client, logger: logger}
}

// Extract formats the segments as a speaker-tagged transcript and parses the
// model's JSON answer into an analysis result
func (e *GroqExtractor) Extract(ctx context.Context, segments []entities.TranscriptSegment) (entities.AnalysisResult, error) {
	if len(segments) == 0 {
		return entities.EmptyAnalysisResult(), nil
	}

	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(fmt.Sprintf("[%s]: %s\n", seg.SpeakerID, seg.Text))
	}

	content, err := e.client.GenerateStructuredAnalysis(ctx, fmt.Sprintf(extractionPrompt, sb.String()))
	if err != nil {
		return entities.AnalysisResult{}, fmt.Errorf("llm extraction failed: %w", err)
	}

	var parsed llmExtraction
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		if e.logger != nil {
			e.logger.Warn("⚠️ Unparseable LLM extraction response", zap.Error(err))
		}
		return entities.AnalysisResult{}, fmt.Errorf("failed to parse llm response: %w", err)
	}

	result := entities.EmptyAnalysisResult()
	anchor := segments[len(segments)-1]
	for _, item := range parsed.ActionItems {
		if item.Description == "" {
			continue
		}
		result.ActionItems = append(result.ActionItems,
			entities.NewActionItem(item.Description, item.Description, anchor.ID, parsePriority(item.Priority), 0.85))
	}
	for _, d := range parsed.Decisions {
		if d.Description == "" {
			continue
		}
		result.Decisions = append(result.Decisions, entities.NewDecision(
			d.Description, anchor.SpeakerID, d.Description, anchor.ID, anchor.Timestamp,
			parseImpact(d.Impact), parseCategory(d.Category)))
	}
	result.Risks = append(result.Risks, parsed.Risks...)
	result.NextSteps = append(result.NextSteps, parsed.NextSteps...)
	return result, nil
}

// extractJSON strips markdown code fences the model sometimes wraps the
// payload in
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

func parsePriority(s string) entities.Priority {
	switch strings.ToLower(s) {
	case "critical":
		return entities.PriorityCritical
	case "high":
		return entities.PriorityHigh
	case "low":
		return entities.PriorityLow
	default:
		return entities.PriorityMedium
	}
}

func parseImpact(s string) entities.ImpactLevel {
	switch strings.ToLower(s) {
	case "critical":
		return entities.ImpactCritical
	case "high":
		return entities.ImpactHigh
	case "low":
		return entities.ImpactLow
	default:
		return entities.ImpactMedium
	}
}

func parseCategory(s string) entities.DecisionCategory {
	switch strings.ToLower(s) {
	case "strategic":
		return entities.CategoryStrategic
	case "technical":
		return entities.CategoryTechnical
	case "financial":
		return entities.CategoryFinancial
	case "personnel":
		return entities.CategoryPersonnel
	default:
		return entities.CategoryOperational
	}
}
