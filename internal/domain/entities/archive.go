package entities

import (
	"time"

	"gorm.io/datatypes"
)

// SessionArchive is the durable row written after a session completes. The
// snapshot columns carry the full JSON documents; the scalar columns exist
// for querying without unpacking JSONB.
type SessionArchive struct {
	ID              string                                       `json:"id" gorm:"type:varchar(64);primaryKey"`
	Title           string                                       `json:"title" gorm:"type:varchar(500);not null"`
	Platform        string                                       `json:"platform" gorm:"type:varchar(50);index"`
	StartTime       time.Time                                    `json:"start_time" gorm:"index"`
	EndTime         time.Time                                    `json:"end_time"`
	ActionItemCount int                                          `json:"action_item_count" gorm:"default:0"`
	DecisionCount   int                                          `json:"decision_count" gorm:"default:0"`
	SegmentCount    int                                          `json:"segment_count" gorm:"default:0"`
	Participants    datatypes.JSONType[[]Participant]            `json:"participants" gorm:"type:jsonb;serializer:json"`
	Transcription   datatypes.JSONType[[]TranscriptSegment]      `json:"transcription" gorm:"type:jsonb;serializer:json"`
	ActionItems     datatypes.JSONType[[]ActionItem]             `json:"action_items" gorm:"type:jsonb;serializer:json"`
	Decisions       datatypes.JSONType[[]Decision]               `json:"decisions" gorm:"type:jsonb;serializer:json"`
	Summary         datatypes.JSONType[MeetingSummary]           `json:"summary" gorm:"type:jsonb;serializer:json"`
	Metadata        datatypes.JSONType[MeetingMetadata]          `json:"metadata" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time                                    `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SessionArchive) TableName() string {
	return "meeting_archives"
}

// NewSessionArchive builds the archive row from a completed session snapshot
func NewSessionArchive(s *MeetingSession) *SessionArchive {
	row := &SessionArchive{
		ID:              s.ID,
		Title:           s.Title,
		Platform:        string(s.Platform),
		StartTime:       s.StartTime,
		ActionItemCount: len(s.ActionItems),
		DecisionCount:   len(s.Decisions),
		SegmentCount:    len(s.Transcription),
		Participants:    datatypes.NewJSONType(s.Participants),
		Transcription:   datatypes.NewJSONType(s.Transcription),
		ActionItems:     datatypes.NewJSONType(s.ActionItems),
		Decisions:       datatypes.NewJSONType(s.Decisions),
		Metadata:        datatypes.NewJSONType(s.Metadata),
	}
	if s.EndTime != nil {
		row.EndTime = *s.EndTime
	}
	if s.Summary != nil {
		row.Summary = datatypes.NewJSONType(*s.Summary)
	}
	return row
}
