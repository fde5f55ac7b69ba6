package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// TaskClient is the uniform surface over external task managers. One
// interface covers every platform; concrete clients register themselves in a
// Registry under their platform tag.
type TaskClient interface {
	CreateTask(ctx context.Context, item entities.ActionItem) (externalID string, err error)
	GetTaskStatus(ctx context.Context, externalID string) (entities.TaskStatus, error)
	UpdateTask(ctx context.Context, externalID string, item entities.ActionItem) error
}

// Registry maps platform tags to task clients
type Registry struct {
	mu      sync.RWMutex
	clients map[entities.TaskPlatform]TaskClient
}

// NewRegistry creates an empty task client registry
func NewRegistry() *Registry {
	return &Registry{clients: make(map[entities.TaskPlatform]TaskClient)}
}

// Register adds a client under a platform tag, replacing any previous one
func (r *Registry) Register(platform entities.TaskPlatform, client TaskClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[platform] = client
}

// Get returns the client registered for a platform
func (r *Registry) Get(platform entities.TaskPlatform) (TaskClient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[platform]
	return c, ok
}

// LoopbackClient keeps tasks in memory. It backs development and tests, and
// doubles as the reference TaskClient implementation.
type LoopbackClient struct {
	mu    sync.Mutex
	tasks map[string]entities.ActionItem
}

// NewLoopbackClient creates an in-memory task client
func NewLoopbackClient() *LoopbackClient {
	return &LoopbackClient{tasks: make(map[string]entities.ActionItem)}
}

// CreateTask stores the item and returns a fresh external id
func (c *LoopbackClient) CreateTask(_ context.Context, item entities.ActionItem) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	externalID := fmt.Sprintf("task_%s", uuid.New().String())
	c.tasks[externalID] = item
	return externalID, nil
}

// GetTaskStatus returns the stored task's status
func (c *LoopbackClient) GetTaskStatus(_ context.Context, externalID string) (entities.TaskStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.tasks[externalID]
	if !ok {
		return "", apperrors.ErrNotFound("task").WithDetail("external_id", externalID)
	}
	return item.Status, nil
}

// UpdateTask replaces the stored task
func (c *LoopbackClient) UpdateTask(_ context.Context, externalID string, item entities.ActionItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tasks[externalID]; !ok {
		return apperrors.ErrNotFound("task").WithDetail("external_id", externalID)
	}
	c.tasks[externalID] = item
	return nil
}

// TaskSyncer pushes extracted action items to the configured task platforms
// after a meeting ends. Sync is best-effort per platform: a failing platform
// records a failed integration and the rest proceed.
type TaskSyncer struct {
	registry *Registry
	logger   *zap.Logger
	now      func() time.Time
}

// NewTaskSyncer creates a syncer over a client registry
func NewTaskSyncer(registry *Registry, logger *zap.Logger) *TaskSyncer {
	return &TaskSyncer{registry: registry, logger: logger, now: time.Now}
}

// SyncActionItems fills in missing due dates and assignees, then creates one
// external task per item per platform. The returned items carry the
// integration records.
func (s *TaskSyncer) SyncActionItems(
	ctx context.Context,
	items []entities.ActionItem,
	platforms []entities.TaskPlatform,
	participants []entities.Participant,
) []entities.ActionItem {
	out := make([]entities.ActionItem, len(items))
	for i, item := range items {
		item = item.Clone()
		if item.DueDate == nil {
			due := s.suggestDueDate(item)
			item.DueDate = &due
		}
		if item.AssignedTo == "" {
			item.AssignedTo = suggestAssignee(item.Description, participants)
		}

		for _, platform := range platforms {
			integration := entities.TaskIntegration{Platform: platform, Status: entities.IntegrationFailed}

			client, ok := s.registry.Get(platform)
			if !ok {
				if s.logger != nil {
					s.logger.Warn("⚠️ No task client registered",
						zap.String("platform", string(platform)))
				}
				item.TaskIntegrations = append(item.TaskIntegrations, integration)
				continue
			}

			externalID, err := client.CreateTask(ctx, item)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("⚠️ Task creation failed",
						zap.String("platform", string(platform)),
						zap.String("action_item_id", item.ID),
						zap.Error(err))
				}
				item.TaskIntegrations = append(item.TaskIntegrations, integration)
				continue
			}

			syncedAt := s.now()
			integration.ExternalID = externalID
			integration.Status = entities.IntegrationSynced
			integration.SyncedAt = &syncedAt
			item.TaskIntegrations = append(item.TaskIntegrations, integration)
		}
		out[i] = item
	}

	if s.logger != nil {
		s.logger.Info("✅ Action items synced",
			zap.Int("item_count", len(out)),
			zap.Int("platform_count", len(platforms)))
	}
	return out
}

var urgencyWords = []string{"urgent", "asap", "immediately", "right away", "emergency"}
var shortTermWords = []string{"this week", "by friday", "end of week", "soon"}
var mediumTermWords = []string{"next week", "next sprint", "two weeks"}

// suggestDueDate derives a due date from the item's urgency signals: urgent
// or critical lands tomorrow, short-term or high at the end of the week,
// medium-term two weeks out, everything else a month out
func (s *TaskSyncer) suggestDueDate(item entities.ActionItem) time.Time {
	now := s.now()
	lower := strings.ToLower(item.Description)

	switch {
	case containsAny(lower, urgencyWords) || item.Priority == entities.PriorityCritical:
		return now.AddDate(0, 0, 1)
	case containsAny(lower, shortTermWords) || item.Priority == entities.PriorityHigh:
		return endOfWeek(now)
	case containsAny(lower, mediumTermWords) || item.Priority == entities.PriorityMedium:
		return now.AddDate(0, 0, 14)
	default:
		return now.AddDate(0, 0, 30)
	}
}

// endOfWeek returns the upcoming Friday, or the Friday of next week when
// already past it
func endOfWeek(now time.Time) time.Time {
	days := int(time.Friday - now.Weekday())
	if days <= 0 {
		days += 7
	}
	return now.AddDate(0, 0, days)
}

// suggestAssignee maps work-type vocabulary to participant roles, falling
// back to the first participant
func suggestAssignee(description string, participants []entities.Participant) string {
	if len(participants) == 0 {
		return ""
	}
	lower := strings.ToLower(description)

	var wantRole string
	switch {
	case strings.Contains(lower, "design"):
		wantRole = "designer"
	case strings.Contains(lower, "code") || strings.Contains(lower, "develop") || strings.Contains(lower, "implement"):
		wantRole = "developer"
	case strings.Contains(lower, "test") || strings.Contains(lower, "verify"):
		wantRole = "qa"
	}

	if wantRole != "" {
		for _, p := range participants {
			if strings.EqualFold(p.Role, wantRole) {
				return p.Name
			}
		}
	}
	return participants[0].Name
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
