package transcription

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

var positiveWords = []string{
	"good", "great", "excellent", "awesome", "perfect", "love", "agree",
	"happy", "success", "progress", "fantastic", "helpful", "excited",
}

var negativeWords = []string{
	"bad", "terrible", "problem", "issue", "concern", "disagree", "wrong",
	"difficult", "fail", "blocked", "worried", "frustrating", "delay",
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "this": {}, "with": {}, "have": {},
	"will": {}, "from": {}, "they": {}, "been": {}, "were": {}, "said": {},
	"each": {}, "which": {}, "their": {}, "would": {}, "there": {}, "about": {},
	"should": {}, "could": {}, "going": {}, "just": {}, "like": {}, "what": {},
	"when": {}, "them": {}, "then": {}, "than": {}, "some": {}, "into": {},
	"also": {}, "because": {}, "really": {}, "think": {}, "need": {},
}

var nonWord = regexp.MustCompile(`[^a-z0-9']+`)

// AnalyzeSentiment scores a text by counting tone words. Texts with no tone
// signal get the neutral default; otherwise positive and negative split the
// tone-word total between them.
func AnalyzeSentiment(text string) entities.SentimentScore {
	words := strings.Fields(strings.ToLower(text))

	var pos, neg float64
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()")
		for _, p := range positiveWords {
			if w == p {
				pos++
				break
			}
		}
		for _, n := range negativeWords {
			if w == n {
				neg++
				break
			}
		}
	}

	if pos == 0 && neg == 0 {
		return entities.NeutralSentiment()
	}

	total := pos + neg
	score := entities.SentimentScore{
		Positive: pos / total,
		Negative: neg / total,
	}
	score.Neutral = 1 - score.Positive - score.Negative
	switch {
	case pos > neg:
		score.Overall = entities.SentimentPositive
	case neg > pos:
		score.Overall = entities.SentimentNegative
	default:
		score.Overall = entities.SentimentNeutral
	}
	return score
}

// ExtractKeywords returns up to five distinct content words: lowercased,
// stop words and short words dropped, first occurrence order kept
func ExtractKeywords(text string) []string {
	raw := nonWord.Split(strings.ToLower(text), -1)

	seen := make(map[string]struct{})
	keywords := make([]string, 0, 5)
	for _, w := range raw {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
		if len(keywords) == 5 {
			break
		}
	}
	return keywords
}
