package analysis

import (
	"sort"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// BuildSummary derives a meeting summary from the accumulated transcript.
// The computation is pure: the same transcript and insight lists always
// produce the same summary, so the end-of-meeting full pass can safely
// replace anything built incrementally.
func BuildSummary(segments []entities.TranscriptSegment, risks, nextSteps []string) entities.MeetingSummary {
	summary := entities.EmptySummary()
	summary.Risks = append(summary.Risks, risks...)
	summary.NextSteps = append(summary.NextSteps, nextSteps...)

	if len(segments) == 0 {
		return summary
	}

	summary.KeyTopics = topTopics(segments, 5)
	summary.MainDiscussions = mainDiscussions(segments, summary.KeyTopics, 3)
	summary.Highlights = highlights(segments, 3)
	summary.OverallSentiment = averageSentiment(segments)
	summary.Participation = participation(segments)
	return summary
}

// topTopics ranks keywords by frequency across the transcript, alphabetical
// on equal counts so the ranking is total
func topTopics(segments []entities.TranscriptSegment, limit int) []string {
	counts := make(map[string]int)
	for _, seg := range segments {
		for _, k := range seg.Keywords {
			counts[k]++
		}
	}

	topics := make([]string, 0, len(counts))
	for k := range counts {
		topics = append(topics, k)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})

	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

// mainDiscussions picks, for each leading topic, the first segment that
// mentions it
func mainDiscussions(segments []entities.TranscriptSegment, topics []string, limit int) []string {
	discussions := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, topic := range topics {
		if len(discussions) == limit {
			break
		}
		for _, seg := range segments {
			if !strings.Contains(strings.ToLower(seg.Text), topic) {
				continue
			}
			if _, dup := seen[seg.ID]; dup {
				break
			}
			seen[seg.ID] = struct{}{}
			discussions = append(discussions, seg.Text)
			break
		}
	}
	return discussions
}

// highlights are the highest-confidence utterances, transcript order on ties
func highlights(segments []entities.TranscriptSegment, limit int) []string {
	idx := make([]int, len(segments))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return segments[idx[a]].Confidence > segments[idx[b]].Confidence
	})

	if len(idx) > limit {
		idx = idx[:limit]
	}
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = segments[n].Text
	}
	return out
}

// averageSentiment averages per-segment weights and relabels the result
func averageSentiment(segments []entities.TranscriptSegment) entities.SentimentScore {
	var score entities.SentimentScore
	for _, seg := range segments {
		score.Positive += seg.Sentiment.Positive
		score.Negative += seg.Sentiment.Negative
		score.Neutral += seg.Sentiment.Neutral
	}
	n := float64(len(segments))
	score.Positive /= n
	score.Negative /= n
	score.Neutral /= n

	switch {
	case score.Positive > score.Negative && score.Positive > score.Neutral:
		score.Overall = entities.SentimentPositive
	case score.Negative > score.Positive && score.Negative > score.Neutral:
		score.Overall = entities.SentimentNegative
	default:
		score.Overall = entities.SentimentNeutral
	}
	return score
}

// participation aggregates speaking volume per speaker. Speaking time is
// proxied by text length; engagement folds in a bonus per interaction.
func participation(segments []entities.TranscriptSegment) map[string]entities.ParticipationStats {
	stats := make(map[string]entities.ParticipationStats)
	for _, seg := range segments {
		s := stats[seg.SpeakerID]
		s.SpeakerID = seg.SpeakerID
		s.SpeakingTime += float64(len(seg.Text))
		s.InteractionCount++
		s.EngagementScore = (s.SpeakingTime + 10*float64(s.InteractionCount)) / 100
		stats[seg.SpeakerID] = s
	}
	return stats
}
