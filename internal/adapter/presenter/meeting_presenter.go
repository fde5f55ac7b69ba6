package presenter

import (
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/integration"
)

// ToMeetingSnapshot converts a session entity to its snapshot DTO
func ToMeetingSnapshot(s *entities.MeetingSession) *meeting.MeetingSnapshotResponse {
	if s == nil {
		return nil
	}
	return &meeting.MeetingSnapshotResponse{
		SessionID:     s.ID,
		Title:         s.Title,
		Platform:      string(s.Platform),
		Status:        string(s.Status),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Participants:  s.Participants,
		Transcription: s.Transcription,
		ActionItems:   s.ActionItems,
		Decisions:     s.Decisions,
		Summary:       s.Summary,
	}
}

// ToCalendarPlan converts planned calendar events to response DTOs
func ToCalendarPlan(events []integration.CalendarEvent) []meeting.CalendarEventResponse {
	if len(events) == 0 {
		return nil
	}
	out := make([]meeting.CalendarEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, meeting.CalendarEventResponse{
			Title: e.Title,
			Start: e.Start,
			End:   e.End,
			Kind:  string(e.Kind),
		})
	}
	return out
}
