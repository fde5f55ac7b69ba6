package session

import (
	"strings"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// MeetingConfig describes a meeting at start time. The validate tags drive
// the HTTP layer; Validate covers callers that bypass it.
type MeetingConfig struct {
	Title               string                   `json:"title" validate:"required,min=1,max=500"`
	Participants        []entities.Participant   `json:"participants" validate:"required,min=1"`
	Platform            entities.MeetingPlatform `json:"platform" validate:"required"`
	Template            entities.MeetingTemplate `json:"template,omitempty"`
	CustomVocabulary    []string                 `json:"custom_vocabulary,omitempty"`
	PrivacyLevel        entities.PrivacyLevel    `json:"privacy_level,omitempty"`
	RecordingEnabled    bool                     `json:"recording_enabled"`
	AIProcessingEnabled bool                     `json:"ai_processing_enabled"`
}

var knownPlatforms = map[entities.MeetingPlatform]struct{}{
	entities.PlatformZoom:         {},
	entities.PlatformTeams:        {},
	entities.PlatformGoogleMeet:   {},
	entities.PlatformSlackHuddles: {},
	entities.PlatformLiveKit:      {},
}

// Validate checks the config invariants
func (c *MeetingConfig) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return apperrors.ErrInvalidArgument("title is required")
	}
	if len(c.Participants) == 0 {
		return apperrors.ErrInvalidArgument("at least one participant is required")
	}
	if _, ok := knownPlatforms[c.Platform]; !ok {
		return apperrors.ErrInvalidArgument("unknown platform").WithDetail("platform", string(c.Platform))
	}
	return nil
}

// Metadata converts the config into immutable session metadata
func (c *MeetingConfig) Metadata() entities.MeetingMetadata {
	privacy := c.PrivacyLevel
	if privacy == "" {
		privacy = entities.PrivacyInternal
	}
	return entities.MeetingMetadata{
		Template:            c.Template,
		CustomVocabulary:    append([]string(nil), c.CustomVocabulary...),
		PrivacyLevel:        privacy,
		RecordingEnabled:    c.RecordingEnabled,
		AIProcessingEnabled: c.AIProcessingEnabled,
	}
}
