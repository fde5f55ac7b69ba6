package entities

import "time"

// VoiceProfile is a rolling acoustic fingerprint for one speaker. The
// characteristics converge toward the speaker's true voice through weighted
// averaging on every confirmed attribution.
type VoiceProfile struct {
	SpeakerID       string               `json:"speaker_id"`
	UserID          string               `json:"user_id,omitempty"`
	Characteristics AudioCharacteristics `json:"characteristics"`
	Confidence      float64              `json:"confidence"`
	SampleCount     int                  `json:"sample_count"`
	LastUpdated     time.Time            `json:"last_updated"`
}

// NewVoiceProfile seeds a profile from a first observation
func NewVoiceProfile(speakerID string, characteristics AudioCharacteristics, now time.Time) VoiceProfile {
	return VoiceProfile{
		SpeakerID:       speakerID,
		Characteristics: characteristics,
		Confidence:      0.8,
		SampleCount:     1,
		LastUpdated:     now,
	}
}

// Matches reports whether the observation falls inside the fixed match
// radius on every axis: pitch within 20, tone within 0.3, pace within 0.5
func (p VoiceProfile) Matches(obs AudioCharacteristics) bool {
	return abs(p.Characteristics.Pitch-obs.Pitch) < 20 &&
		abs(p.Characteristics.Tone-obs.Tone) < 0.3 &&
		abs(p.Characteristics.Pace-obs.Pace) < 0.5
}

// DistanceTo is the Euclidean distance over the three matching axes, used to
// break ties when an observation matches more than one profile
func (p VoiceProfile) DistanceTo(obs AudioCharacteristics) float64 {
	dp := p.Characteristics.Pitch - obs.Pitch
	dt := p.Characteristics.Tone - obs.Tone
	dc := p.Characteristics.Pace - obs.Pace
	return dp*dp + dt*dt + dc*dc
}

// Absorb folds a new observation into the profile with weight w for the
// observation and (1-w) for the stored values
func (p *VoiceProfile) Absorb(obs AudioCharacteristics, w float64, now time.Time) {
	keep := 1 - w
	p.Characteristics.Pitch = p.Characteristics.Pitch*keep + obs.Pitch*w
	p.Characteristics.Tone = p.Characteristics.Tone*keep + obs.Tone*w
	p.Characteristics.Pace = p.Characteristics.Pace*keep + obs.Pace*w
	p.Characteristics.VolumeLevel = p.Characteristics.VolumeLevel*keep + obs.VolumeLevel*w
	p.Characteristics.QualityScore = p.Characteristics.QualityScore*keep + obs.QualityScore*w
	p.SampleCount++
	p.LastUpdated = now
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
