package analysis

import (
	"context"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Extractor pulls structured insights out of transcript segments.
// Implementations are chosen at composition time.
type Extractor interface {
	Extract(ctx context.Context, segments []entities.TranscriptSegment) (entities.AnalysisResult, error)
}

var obligationMarkers = []string{
	"should", "need to", "needs to", "must", "will ", "have to", "has to",
	"going to", "action item", "take care of", "responsible for",
}

var urgentMarkers = []string{
	"urgent", "asap", "immediately", "right away", "critical", "emergency",
}

var highMarkers = []string{
	"important", "priority", "by tomorrow", "by friday", "this week", "soon",
}

var decisionMarkers = []string{
	"decided", "we will go with", "go with", "agreed", "approved",
	"final decision", "chose", "choose to", "settled on", "implement",
}

var riskMarkers = []string{
	"concern", "issue", "problem", "risk", "blocker", "challenge",
}

var nextStepMarkers = []string{
	"next", "follow up", "action", "todo", "will do", "should",
}

// RuleExtractor is the deterministic keyword-rule extractor. It needs no
// external service, so it never degrades, and identical input always yields
// identical insight sets.
type RuleExtractor struct{}

// NewRuleExtractor creates the rule-based extractor
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Extract scans each segment independently for obligations, decisions,
// risks, and next steps
func (e *RuleExtractor) Extract(_ context.Context, segments []entities.TranscriptSegment) (entities.AnalysisResult, error) {
	result := entities.EmptyAnalysisResult()

	for _, seg := range segments {
		lower := strings.ToLower(seg.Text)

		if containsAny(lower, obligationMarkers) {
			item := entities.NewActionItem(seg.Text, seg.Text, seg.ID, classifyPriority(lower), 0.75)
			result.ActionItems = append(result.ActionItems, item)
		}

		if containsAny(lower, decisionMarkers) {
			decision := entities.NewDecision(
				seg.Text,
				seg.SpeakerID,
				seg.Text,
				seg.ID,
				seg.Timestamp,
				classifyImpact(lower),
				classifyCategory(lower),
			)
			result.Decisions = append(result.Decisions, decision)
		}

		if containsAny(lower, riskMarkers) {
			result.Risks = append(result.Risks, seg.Text)
		}

		if containsAny(lower, nextStepMarkers) {
			result.NextSteps = append(result.NextSteps, seg.Text)
		}
	}

	return result, nil
}

// classifyPriority maps urgency vocabulary onto a priority. An obligation
// with no urgency signal lands on MEDIUM, keeping it visible in sorted
// output instead of sinking to the bottom.
func classifyPriority(lower string) entities.Priority {
	if containsAny(lower, urgentMarkers) {
		return entities.PriorityCritical
	}
	if containsAny(lower, highMarkers) {
		return entities.PriorityHigh
	}
	return entities.PriorityMedium
}

func classifyImpact(lower string) entities.ImpactLevel {
	if containsAny(lower, urgentMarkers) {
		return entities.ImpactCritical
	}
	if strings.Contains(lower, "major") || strings.Contains(lower, "significant") || containsAny(lower, highMarkers) {
		return entities.ImpactHigh
	}
	return entities.ImpactMedium
}

func classifyCategory(lower string) entities.DecisionCategory {
	switch {
	case strings.Contains(lower, "architecture") || strings.Contains(lower, "deploy") ||
		strings.Contains(lower, "code") || strings.Contains(lower, "technical") ||
		strings.Contains(lower, "system") || strings.Contains(lower, "database"):
		return entities.CategoryTechnical
	case strings.Contains(lower, "hire") || strings.Contains(lower, "team") ||
		strings.Contains(lower, "role") || strings.Contains(lower, "staffing"):
		return entities.CategoryPersonnel
	case strings.Contains(lower, "budget") || strings.Contains(lower, "cost") ||
		strings.Contains(lower, "pricing") || strings.Contains(lower, "revenue") ||
		strings.Contains(lower, "spend"):
		return entities.CategoryFinancial
	case strings.Contains(lower, "strategy") || strings.Contains(lower, "roadmap") ||
		strings.Contains(lower, "vision") || strings.Contains(lower, "long term") ||
		strings.Contains(lower, "long-term"):
		return entities.CategoryStrategic
	default:
		return entities.CategoryOperational
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
