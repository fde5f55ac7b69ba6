package meeting

import "time"

// ParticipantRequest declares one expected attendee of a meeting
type ParticipantRequest struct {
	ID         string `json:"id" validate:"required,min=1,max=64"`
	Name       string `json:"name" validate:"required,min=1,max=255"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Role       string `json:"role,omitempty" validate:"omitempty,max=64"`
	Department string `json:"department,omitempty" validate:"omitempty,max=64"`
}

// StartMeetingRequest represents the request to start a meeting session
type StartMeetingRequest struct {
	Title               string               `json:"title" validate:"required,min=1,max=500"`
	Platform            string               `json:"platform" validate:"required,oneof=zoom teams google_meet slack_huddles livekit"`
	Participants        []ParticipantRequest `json:"participants" validate:"required,min=1,dive"`
	Template            string               `json:"template,omitempty"`
	CustomVocabulary    []string             `json:"custom_vocabulary,omitempty"`
	PrivacyLevel        string               `json:"privacy_level,omitempty" validate:"omitempty,oneof=public internal confidential restricted"`
	RecordingEnabled    bool                 `json:"recording_enabled"`
	AIProcessingEnabled bool                 `json:"ai_processing_enabled"`
}

// IngestAudioRequest carries one audio chunk. Audio is base64-encoded raw
// bytes; sequence numbers make retried submissions idempotent.
type IngestAudioRequest struct {
	Sequence   uint64     `json:"sequence" validate:"required,min=1"`
	Audio      string     `json:"audio" validate:"required"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

// EndMeetingRequest represents the request to end a meeting session
type EndMeetingRequest struct {
	SyncPlatforms []string `json:"sync_platforms,omitempty" validate:"omitempty,dive,oneof=asana trello jira monday loopback"`
}
