package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Priority orders action items. Comparison uses Weight, not the string value.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityWeights = map[Priority]int{
	PriorityCritical: 4,
	PriorityHigh:     3,
	PriorityMedium:   2,
	PriorityLow:      1,
}

// Weight returns the numeric rank used for descending priority sorts.
// Unknown values rank below LOW.
func (p Priority) Weight() int {
	return priorityWeights[p]
}

// TaskStatus tracks an action item through its lifecycle
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskPlatform identifies an external task manager
type TaskPlatform string

const (
	TaskPlatformAsana    TaskPlatform = "asana"
	TaskPlatformTrello   TaskPlatform = "trello"
	TaskPlatformJira     TaskPlatform = "jira"
	TaskPlatformMonday   TaskPlatform = "monday"
	TaskPlatformLoopback TaskPlatform = "loopback"
)

// IntegrationStatus is the sync state of one external task record
type IntegrationStatus string

const (
	IntegrationSynced  IntegrationStatus = "synced"
	IntegrationPending IntegrationStatus = "pending"
	IntegrationFailed  IntegrationStatus = "failed"
)

// TaskIntegration records one externally created task for an action item
type TaskIntegration struct {
	Platform   TaskPlatform      `json:"platform"`
	ExternalID string            `json:"external_id"`
	Status     IntegrationStatus `json:"status"`
	SyncedAt   *time.Time        `json:"synced_at,omitempty"`
}

// ActionItem is a commitment extracted from the transcript
type ActionItem struct {
	ID               string            `json:"id"`
	Description      string            `json:"description"`
	AssignedTo       string            `json:"assigned_to,omitempty"`
	DueDate          *time.Time        `json:"due_date,omitempty"`
	Priority         Priority          `json:"priority"`
	Status           TaskStatus        `json:"status"`
	Context          string            `json:"context"`
	ExtractedFrom    string            `json:"extracted_from"`
	Confidence       float64           `json:"confidence"`
	TaskIntegrations []TaskIntegration `json:"task_integrations,omitempty"`
}

// NewActionItem creates a pending item referencing the segment it came from
func NewActionItem(description, context, segmentID string, priority Priority, confidence float64) ActionItem {
	return ActionItem{
		ID:            fmt.Sprintf("action_%s", uuid.New().String()),
		Description:   description,
		Priority:      priority,
		Status:        TaskPending,
		Context:       context,
		ExtractedFrom: segmentID,
		Confidence:    confidence,
	}
}

// Clone deep-copies the item including its integration records
func (a ActionItem) Clone() ActionItem {
	out := a
	out.TaskIntegrations = append([]TaskIntegration(nil), a.TaskIntegrations...)
	if a.DueDate != nil {
		t := *a.DueDate
		out.DueDate = &t
	}
	return out
}
