package integration

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// EventKind distinguishes planned calendar entries
type EventKind string

const (
	EventFollowUp EventKind = "follow_up"
	EventReminder EventKind = "reminder"
)

// CalendarEvent is one planned entry. Events are 15-minute blocks.
type CalendarEvent struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Kind  EventKind `json:"kind"`
}

const eventBlock = 15 * time.Minute

// CalendarScheduler plans follow-up events from a completed meeting: one
// follow-up block per next step the day after the meeting, and one reminder
// per action item the day before it is due. Planning is best-effort and
// purely advisory.
type CalendarScheduler struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarScheduler creates a calendar scheduler
func NewCalendarScheduler(logger *zap.Logger) *CalendarScheduler {
	return &CalendarScheduler{logger: logger, now: time.Now}
}

// PlanFollowUps derives the calendar entries for a completed session
func (c *CalendarScheduler) PlanFollowUps(summary *entities.MeetingSummary, items []entities.ActionItem) []CalendarEvent {
	events := make([]CalendarEvent, 0)

	if summary != nil {
		start := c.now().AddDate(0, 0, 1)
		for _, step := range summary.NextSteps {
			events = append(events, CalendarEvent{
				Title: fmt.Sprintf("Follow up: %s", step),
				Start: start,
				End:   start.Add(eventBlock),
				Kind:  EventFollowUp,
			})
			start = start.Add(eventBlock)
		}
	}

	for _, item := range items {
		if item.DueDate == nil {
			continue
		}
		start := item.DueDate.AddDate(0, 0, -1)
		events = append(events, CalendarEvent{
			Title: fmt.Sprintf("Due tomorrow: %s", item.Description),
			Start: start,
			End:   start.Add(eventBlock),
			Kind:  EventReminder,
		})
	}

	if c.logger != nil && len(events) > 0 {
		c.logger.Info("📅 Planned follow-up events", zap.Int("event_count", len(events)))
	}
	return events
}
