package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MeetingPlatform identifies the conferencing platform a session runs on
type MeetingPlatform string

const (
	PlatformZoom         MeetingPlatform = "zoom"
	PlatformTeams        MeetingPlatform = "teams"
	PlatformGoogleMeet   MeetingPlatform = "google_meet"
	PlatformSlackHuddles MeetingPlatform = "slack_huddles"
	PlatformLiveKit      MeetingPlatform = "livekit"
)

// MeetingStatus is the session state machine
type MeetingStatus string

const (
	StatusScheduled  MeetingStatus = "scheduled"
	StatusInProgress MeetingStatus = "in_progress"
	StatusCompleted  MeetingStatus = "completed"
	StatusCancelled  MeetingStatus = "cancelled"
)

// PrivacyLevel classifies who may see session output
type PrivacyLevel string

const (
	PrivacyPublic       PrivacyLevel = "public"
	PrivacyInternal     PrivacyLevel = "internal"
	PrivacyConfidential PrivacyLevel = "confidential"
	PrivacyRestricted   PrivacyLevel = "restricted"
)

// MeetingTemplate hints at the meeting format
type MeetingTemplate string

const (
	TemplateStandup       MeetingTemplate = "standup"
	TemplatePlanning      MeetingTemplate = "planning"
	TemplateRetrospective MeetingTemplate = "retrospective"
	TemplateOneOnOne      MeetingTemplate = "one_on_one"
	TemplateAllHands      MeetingTemplate = "all_hands"
	TemplateClientMeeting MeetingTemplate = "client_meeting"
	TemplateBrainstorming MeetingTemplate = "brainstorming"
)

// MeetingMetadata is set at session creation and never mutated afterwards
type MeetingMetadata struct {
	Template            MeetingTemplate `json:"template,omitempty"`
	CustomVocabulary    []string        `json:"custom_vocabulary,omitempty"`
	PrivacyLevel        PrivacyLevel    `json:"privacy_level"`
	RecordingEnabled    bool            `json:"recording_enabled"`
	AIProcessingEnabled bool            `json:"ai_processing_enabled"`
}

// Participant is a person attending the meeting. The voice profile reference
// is many-to-one into the profile store and not owned by the participant.
type Participant struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role,omitempty"`
	Department      string   `json:"department,omitempty"`
	VoiceProfileID  string   `json:"voice_profile_id,omitempty"`
	EngagementScore *float64 `json:"engagement_score,omitempty"`
}

// MeetingSession is the stateful record of one meeting. It is owned by the
// session orchestrator: the transcript is append-only and timestamp ordered,
// action items and decisions are deduplicated sets, and the summary is a
// derived aggregate recomputable from the other fields.
type MeetingSession struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	StartTime     time.Time           `json:"start_time"`
	EndTime       *time.Time          `json:"end_time,omitempty"`
	Participants  []Participant       `json:"participants"`
	Platform      MeetingPlatform     `json:"platform"`
	Status        MeetingStatus       `json:"status"`
	Transcription []TranscriptSegment `json:"transcription"`
	ActionItems   []ActionItem        `json:"action_items"`
	Decisions     []Decision          `json:"decisions"`
	Summary       *MeetingSummary     `json:"summary,omitempty"`
	Metadata      MeetingMetadata     `json:"metadata"`
}

// NewMeetingSession creates a session already in progress (scheduling is
// handled upstream of this service)
func NewMeetingSession(title string, participants []Participant, platform MeetingPlatform, metadata MeetingMetadata) *MeetingSession {
	return &MeetingSession{
		ID:            fmt.Sprintf("session_%s", uuid.New().String()),
		Title:         title,
		StartTime:     time.Now().UTC(),
		Participants:  participants,
		Platform:      platform,
		Status:        StatusInProgress,
		Transcription: make([]TranscriptSegment, 0),
		ActionItems:   make([]ActionItem, 0),
		Decisions:     make([]Decision, 0),
		Metadata:      metadata,
	}
}

// IsActive reports whether the session accepts audio
func (s *MeetingSession) IsActive() bool {
	return s != nil && s.Status == StatusInProgress
}

// Clone returns a deep copy used as the immutable snapshot handed to callers
// on endMeeting. Slices are copied so later reuse of the original cannot leak
// into the snapshot.
func (s *MeetingSession) Clone() *MeetingSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Participants = append([]Participant(nil), s.Participants...)
	out.Transcription = append([]TranscriptSegment(nil), s.Transcription...)
	out.ActionItems = make([]ActionItem, len(s.ActionItems))
	for i, a := range s.ActionItems {
		out.ActionItems[i] = a.Clone()
	}
	out.Decisions = make([]Decision, len(s.Decisions))
	for i, d := range s.Decisions {
		out.Decisions[i] = d.Clone()
	}
	if s.Summary != nil {
		sum := s.Summary.Clone()
		out.Summary = &sum
	}
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	return &out
}
