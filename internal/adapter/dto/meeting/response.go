package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// StartMeetingResponse is returned when a session starts
type StartMeetingResponse struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	JoinToken string    `json:"join_token,omitempty"`
}

// IngestAudioResponse acknowledges an accepted chunk
type IngestAudioResponse struct {
	SessionID string `json:"session_id"`
	Sequence  uint64 `json:"sequence"`
	Accepted  bool   `json:"accepted"`
}

// CalendarEventResponse is one planned follow-up entry
type CalendarEventResponse struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Kind  string    `json:"kind"`
}

// MeetingSnapshotResponse is the full state of a session
type MeetingSnapshotResponse struct {
	SessionID     string                       `json:"session_id"`
	Title         string                       `json:"title"`
	Platform      string                       `json:"platform"`
	Status        string                       `json:"status"`
	StartTime     time.Time                    `json:"start_time"`
	EndTime       *time.Time                   `json:"end_time,omitempty"`
	Participants  []entities.Participant       `json:"participants"`
	Transcription []entities.TranscriptSegment `json:"transcription"`
	ActionItems   []entities.ActionItem        `json:"action_items"`
	Decisions     []entities.Decision          `json:"decisions"`
	Summary       *entities.MeetingSummary     `json:"summary,omitempty"`
}

// EndMeetingResponse is the final snapshot plus the post-meeting plan
type EndMeetingResponse struct {
	MeetingSnapshotResponse
	CalendarPlan []CalendarEventResponse `json:"calendar_plan,omitempty"`
}
