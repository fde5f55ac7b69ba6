package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImpactLevel grades how far a decision reaches
type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "low"
	ImpactMedium   ImpactLevel = "medium"
	ImpactHigh     ImpactLevel = "high"
	ImpactCritical ImpactLevel = "critical"
)

// DecisionCategory buckets decisions for reporting
type DecisionCategory string

const (
	CategoryStrategic   DecisionCategory = "strategic"
	CategoryOperational DecisionCategory = "operational"
	CategoryTechnical   DecisionCategory = "technical"
	CategoryFinancial   DecisionCategory = "financial"
	CategoryPersonnel   DecisionCategory = "personnel"
)

// Decision is a committed choice extracted from the transcript
type Decision struct {
	ID            string           `json:"id"`
	Description   string           `json:"description"`
	DecisionMaker string           `json:"decision_maker"`
	Timestamp     time.Time        `json:"timestamp"`
	Context       string           `json:"context"`
	Impact        ImpactLevel      `json:"impact"`
	Category      DecisionCategory `json:"category"`
	ExtractedFrom string           `json:"extracted_from"`
}

// NewDecision creates a decision referencing the segment it came from
func NewDecision(description, decisionMaker, context, segmentID string, timestamp time.Time, impact ImpactLevel, category DecisionCategory) Decision {
	return Decision{
		ID:            fmt.Sprintf("decision_%s", uuid.New().String()),
		Description:   description,
		DecisionMaker: decisionMaker,
		Timestamp:     timestamp,
		Context:       context,
		Impact:        impact,
		Category:      category,
		ExtractedFrom: segmentID,
	}
}

// Clone returns a copy of the decision
func (d Decision) Clone() Decision {
	return d
}
