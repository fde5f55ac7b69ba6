package entities

// ParticipationStats aggregates one speaker's activity over a transcript
type ParticipationStats struct {
	SpeakerID        string  `json:"speaker_id"`
	SpeakingTime     float64 `json:"speaking_time"`
	InteractionCount int     `json:"interaction_count"`
	EngagementScore  float64 `json:"engagement_score"`
}

// MeetingSummary is a pure aggregate of a transcript and its extracted
// insights. Given the same inputs the summarizer always produces the same
// summary, so a final full-transcript pass can safely replace any summary
// built incrementally.
type MeetingSummary struct {
	KeyTopics        []string                      `json:"key_topics"`
	MainDiscussions  []string                      `json:"main_discussions"`
	Highlights       []string                      `json:"highlights"`
	OverallSentiment SentimentScore                `json:"overall_sentiment"`
	Participation    map[string]ParticipationStats `json:"participation"`
	NextSteps        []string                      `json:"next_steps"`
	Risks            []string                      `json:"risks"`
}

// EmptySummary is the neutral fallback for a session with no transcript
func EmptySummary() MeetingSummary {
	return MeetingSummary{
		KeyTopics:        make([]string, 0),
		MainDiscussions:  make([]string, 0),
		Highlights:       make([]string, 0),
		OverallSentiment: NeutralSentiment(),
		Participation:    make(map[string]ParticipationStats),
		NextSteps:        make([]string, 0),
		Risks:            make([]string, 0),
	}
}

// Clone deep-copies the summary
func (s MeetingSummary) Clone() MeetingSummary {
	out := s
	out.KeyTopics = append([]string(nil), s.KeyTopics...)
	out.MainDiscussions = append([]string(nil), s.MainDiscussions...)
	out.Highlights = append([]string(nil), s.Highlights...)
	out.NextSteps = append([]string(nil), s.NextSteps...)
	out.Risks = append([]string(nil), s.Risks...)
	out.Participation = make(map[string]ParticipationStats, len(s.Participation))
	for k, v := range s.Participation {
		out.Participation[k] = v
	}
	return out
}

// AnalysisResult is one analyzer pass over a batch or a full transcript
type AnalysisResult struct {
	ActionItems []ActionItem    `json:"action_items"`
	Decisions   []Decision      `json:"decisions"`
	Risks       []string        `json:"risks"`
	NextSteps   []string        `json:"next_steps"`
	Summary     *MeetingSummary `json:"summary,omitempty"`
}

// EmptyAnalysisResult is the degraded output when extraction fails or
// AI processing is disabled
func EmptyAnalysisResult() AnalysisResult {
	return AnalysisResult{
		ActionItems: make([]ActionItem, 0),
		Decisions:   make([]Decision, 0),
		Risks:       make([]string, 0),
		NextSteps:   make([]string, 0),
	}
}
