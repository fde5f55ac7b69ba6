package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

type brokenClient struct{}

func (brokenClient) CreateTask(context.Context, entities.ActionItem) (string, error) {
	return "", errors.New("service unavailable")
}
func (brokenClient) GetTaskStatus(context.Context, string) (entities.TaskStatus, error) {
	return "", errors.New("service unavailable")
}
func (brokenClient) UpdateTask(context.Context, string, entities.ActionItem) error {
	return errors.New("service unavailable")
}

func item(description string, priority entities.Priority) entities.ActionItem {
	return entities.NewActionItem(description, description, "seg1", priority, 0.8)
}

func fixedSyncer(registry *Registry, now time.Time) *TaskSyncer {
	s := NewTaskSyncer(registry, nil)
	s.now = func() time.Time { return now }
	return s
}

func TestSyncActionItems_CreatesTasksAndRecordsIntegrations(t *testing.T) {
	registry := NewRegistry()
	loopback := NewLoopbackClient()
	registry.Register(entities.TaskPlatformAsana, loopback)

	syncer := NewTaskSyncer(registry, nil)
	items := syncer.SyncActionItems(context.Background(),
		[]entities.ActionItem{item("Write the release notes", entities.PriorityMedium)},
		[]entities.TaskPlatform{entities.TaskPlatformAsana},
		[]entities.Participant{{ID: "p1", Name: "Dana"}},
	)

	if len(items) != 1 {
		t.Fatalf("expected 1 item got %d", len(items))
	}
	integrations := items[0].TaskIntegrations
	if len(integrations) != 1 {
		t.Fatalf("expected 1 integration got %d", len(integrations))
	}
	if integrations[0].Status != entities.IntegrationSynced {
		t.Fatalf("expected synced got %s", integrations[0].Status)
	}
	if integrations[0].ExternalID == "" || integrations[0].SyncedAt == nil {
		t.Fatal("integration record incomplete")
	}

	status, err := loopback.GetTaskStatus(context.Background(), integrations[0].ExternalID)
	if err != nil {
		t.Fatalf("task not stored: %v", err)
	}
	if status != entities.TaskPending {
		t.Fatalf("expected pending got %s", status)
	}
}

func TestSyncActionItems_FailedPlatformRecordsFailure(t *testing.T) {
	registry := NewRegistry()
	registry.Register(entities.TaskPlatformJira, brokenClient{})
	registry.Register(entities.TaskPlatformTrello, NewLoopbackClient())

	syncer := NewTaskSyncer(registry, nil)
	items := syncer.SyncActionItems(context.Background(),
		[]entities.ActionItem{item("Ship the hotfix", entities.PriorityHigh)},
		[]entities.TaskPlatform{entities.TaskPlatformJira, entities.TaskPlatformTrello},
		nil,
	)

	integrations := items[0].TaskIntegrations
	if len(integrations) != 2 {
		t.Fatalf("expected 2 integrations got %d", len(integrations))
	}
	if integrations[0].Status != entities.IntegrationFailed {
		t.Fatalf("jira should have failed, got %s", integrations[0].Status)
	}
	if integrations[1].Status != entities.IntegrationSynced {
		t.Fatalf("trello should have synced, got %s", integrations[1].Status)
	}
}

func TestSyncActionItems_UnregisteredPlatformRecordsFailure(t *testing.T) {
	syncer := NewTaskSyncer(NewRegistry(), nil)
	items := syncer.SyncActionItems(context.Background(),
		[]entities.ActionItem{item("Anything", entities.PriorityLow)},
		[]entities.TaskPlatform{entities.TaskPlatformMonday},
		nil,
	)

	if items[0].TaskIntegrations[0].Status != entities.IntegrationFailed {
		t.Fatal("unregistered platform must record a failed integration")
	}
}

func TestSuggestDueDate(t *testing.T) {
	// a Monday
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	syncer := fixedSyncer(NewRegistry(), now)

	cases := []struct {
		name string
		item entities.ActionItem
		want time.Time
	}{
		{"urgent word", item("Fix the outage asap", entities.PriorityMedium), now.AddDate(0, 0, 1)},
		{"critical priority", item("Patch the vulnerability", entities.PriorityCritical), now.AddDate(0, 0, 1)},
		{"short-term word", item("Finish the draft this week", entities.PriorityLow), time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)},
		{"high priority", item("Review the contract", entities.PriorityHigh), time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)},
		{"medium priority", item("Clean up the backlog", entities.PriorityMedium), now.AddDate(0, 0, 14)},
		{"default horizon", item("Research options", entities.PriorityLow), now.AddDate(0, 0, 30)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := syncer.suggestDueDate(tc.item); !got.Equal(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestSuggestAssignee(t *testing.T) {
	participants := []entities.Participant{
		{ID: "p1", Name: "Dana", Role: "manager"},
		{ID: "p2", Name: "Noor", Role: "designer"},
		{ID: "p3", Name: "Kim", Role: "developer"},
		{ID: "p4", Name: "Ravi", Role: "qa"},
	}

	cases := []struct {
		description string
		want        string
	}{
		{"Redesign the onboarding flow", "Noor"},
		{"Develop the export endpoint", "Kim"},
		{"Test the rollback path", "Ravi"},
		{"Send the agenda", "Dana"},
	}
	for _, tc := range cases {
		if got := suggestAssignee(tc.description, participants); got != tc.want {
			t.Fatalf("%q: got %s want %s", tc.description, got, tc.want)
		}
	}
}

func TestPlanFollowUps(t *testing.T) {
	scheduler := NewCalendarScheduler(nil)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	scheduler.now = func() time.Time { return now }

	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	withDue := item("Deliver the audit report", entities.PriorityHigh)
	withDue.DueDate = &due

	summary := entities.EmptySummary()
	summary.NextSteps = []string{"schedule design review", "confirm budget"}

	events := scheduler.PlanFollowUps(&summary, []entities.ActionItem{withDue})

	if len(events) != 3 {
		t.Fatalf("expected 3 events got %d", len(events))
	}
	if events[0].Kind != EventFollowUp || !events[0].Start.Equal(now.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected first follow-up: %+v", events[0])
	}
	if events[0].End.Sub(events[0].Start) != 15*time.Minute {
		t.Fatal("events must be 15-minute blocks")
	}
	reminder := events[2]
	if reminder.Kind != EventReminder || !reminder.Start.Equal(due.AddDate(0, 0, -1)) {
		t.Fatalf("reminder must land the day before the due date: %+v", reminder)
	}
}
