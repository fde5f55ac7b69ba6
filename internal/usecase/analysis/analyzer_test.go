package analysis

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

func seg(speaker, text string) entities.TranscriptSegment {
	s := entities.NewTranscriptSegment(speaker, text, time.Now(), 0.9, "en")
	s.Sentiment = entities.NeutralSentiment()
	return s
}

func TestRuleExtractor_ObligationBecomesActionItem(t *testing.T) {
	extractor := NewRuleExtractor()

	result, err := extractor.Extract(context.Background(),
		[]entities.TranscriptSegment{seg("speaker_1", "John should complete the API integration by Friday")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ActionItems) != 1 {
		t.Fatalf("expected 1 action item got %d", len(result.ActionItems))
	}
	if result.ActionItems[0].Priority == entities.PriorityLow {
		t.Fatalf("obligation must not default to low priority, got %s", result.ActionItems[0].Priority)
	}
}

func TestRuleExtractor_DefaultPriorityIsMedium(t *testing.T) {
	extractor := NewRuleExtractor()

	result, _ := extractor.Extract(context.Background(),
		[]entities.TranscriptSegment{seg("speaker_1", "Someone must update the onboarding docs")})
	if len(result.ActionItems) != 1 {
		t.Fatalf("expected 1 action item got %d", len(result.ActionItems))
	}
	if got := result.ActionItems[0].Priority; got != entities.PriorityMedium {
		t.Fatalf("expected medium got %s", got)
	}
}

func TestRuleExtractor_UrgencyEscalatesPriority(t *testing.T) {
	extractor := NewRuleExtractor()

	result, _ := extractor.Extract(context.Background(), []entities.TranscriptSegment{
		seg("speaker_1", "We need to patch the outage immediately, this is urgent"),
	})
	if len(result.ActionItems) != 1 {
		t.Fatalf("expected 1 action item got %d", len(result.ActionItems))
	}
	if got := result.ActionItems[0].Priority; got != entities.PriorityCritical {
		t.Fatalf("expected critical got %s", got)
	}
}

func TestRuleExtractor_DecisionsRisksNextSteps(t *testing.T) {
	extractor := NewRuleExtractor()

	result, _ := extractor.Extract(context.Background(), []entities.TranscriptSegment{
		seg("speaker_1", "We decided to go with the managed database"),
		seg("speaker_2", "My main concern is the migration blocker"),
		seg("speaker_1", "I will follow up with the vendor"),
	})
	if len(result.Decisions) != 1 {
		t.Fatalf("expected 1 decision got %d", len(result.Decisions))
	}
	if result.Decisions[0].DecisionMaker != "speaker_1" {
		t.Fatalf("expected speaker_1 as decision maker got %s", result.Decisions[0].DecisionMaker)
	}
	if result.Decisions[0].Category != entities.CategoryTechnical {
		t.Fatalf("expected technical category got %s", result.Decisions[0].Category)
	}
	if len(result.Risks) != 1 {
		t.Fatalf("expected 1 risk got %d", len(result.Risks))
	}
	if len(result.NextSteps) == 0 {
		t.Fatal("expected next steps")
	}
}

func TestRuleExtractor_DecisionCategories(t *testing.T) {
	cases := []struct {
		text string
		want entities.DecisionCategory
	}{
		{"We decided to migrate the database to the new system", entities.CategoryTechnical},
		{"We decided to hire two engineers for the team", entities.CategoryPersonnel},
		{"We decided to cut the marketing budget for next quarter", entities.CategoryFinancial},
		{"We agreed on the product roadmap for next year", entities.CategoryStrategic},
		{"We decided to move the weekly sync to Tuesdays", entities.CategoryOperational},
	}
	extractor := NewRuleExtractor()
	for _, tc := range cases {
		result, _ := extractor.Extract(context.Background(),
			[]entities.TranscriptSegment{seg("speaker_1", tc.text)})
		if len(result.Decisions) != 1 {
			t.Fatalf("%q: expected 1 decision got %d", tc.text, len(result.Decisions))
		}
		if got := result.Decisions[0].Category; got != tc.want {
			t.Errorf("%q: expected %s got %s", tc.text, tc.want, got)
		}
	}
}

func TestMergeActionItems_CaseInsensitiveDedupKeepsFirst(t *testing.T) {
	first := entities.NewActionItem("Fix the login bug", "ctx", "seg1", entities.PriorityMedium, 0.75)
	dup1 := entities.NewActionItem("fix the login bug", "ctx", "seg2", entities.PriorityHigh, 0.75)
	dup2 := entities.NewActionItem("FIX THE LOGIN BUG", "ctx", "seg3", entities.PriorityLow, 0.75)

	merged := MergeActionItems([]entities.ActionItem{first}, []entities.ActionItem{dup1, dup2})
	if len(merged) != 1 {
		t.Fatalf("expected 1 item after dedup got %d", len(merged))
	}
	if merged[0].ID != first.ID {
		t.Fatal("first occurrence must win")
	}
	if merged[0].Description != "Fix the login bug" {
		t.Fatalf("unexpected description %q", merged[0].Description)
	}
}

func TestMergeActionItems_StableDescendingPrioritySort(t *testing.T) {
	a := entities.NewActionItem("low one", "", "s", entities.PriorityLow, 0.75)
	b := entities.NewActionItem("critical one", "", "s", entities.PriorityCritical, 0.75)
	c := entities.NewActionItem("medium one", "", "s", entities.PriorityMedium, 0.75)
	d := entities.NewActionItem("medium two", "", "s", entities.PriorityMedium, 0.75)
	e := entities.NewActionItem("high one", "", "s", entities.PriorityHigh, 0.75)

	merged := MergeActionItems([]entities.ActionItem{a, b, c}, []entities.ActionItem{d, e})

	want := []string{"critical one", "high one", "medium one", "medium two", "low one"}
	got := make([]string, len(merged))
	for i, item := range merged {
		got[i] = item.Description
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch: got %v want %v", got, want)
	}
}

func TestBuildSummary_EmptyTranscriptIsNeutral(t *testing.T) {
	summary := BuildSummary(nil, nil, nil)

	want := entities.SentimentScore{Positive: 0.5, Negative: 0.2, Neutral: 0.3, Overall: entities.SentimentNeutral}
	if summary.OverallSentiment != want {
		t.Fatalf("expected neutral default got %+v", summary.OverallSentiment)
	}
	if len(summary.KeyTopics) != 0 || len(summary.Participation) != 0 {
		t.Fatal("empty transcript must yield empty aggregates")
	}
}

func TestBuildSummary_Deterministic(t *testing.T) {
	segments := []entities.TranscriptSegment{
		seg("speaker_1", "The deployment pipeline needs attention"),
		seg("speaker_2", "Agreed, the pipeline failed twice"),
		seg("speaker_1", "Great progress on the dashboard though"),
	}
	for i := range segments {
		segments[i].Keywords = []string{"pipeline", "deployment"}
	}

	first := BuildSummary(segments, []string{"pipeline risk"}, []string{"fix pipeline"})
	second := BuildSummary(segments, []string{"pipeline risk"}, []string{"fix pipeline"})

	if !reflect.DeepEqual(first, second) {
		t.Fatal("summary must be deterministic for identical input")
	}
}

func TestBuildSummary_ParticipationCounts(t *testing.T) {
	segments := []entities.TranscriptSegment{
		seg("speaker_1", "first remark"),
		seg("speaker_2", "a reply"),
		seg("speaker_1", "closing remark"),
	}

	summary := BuildSummary(segments, nil, nil)

	if got := summary.Participation["speaker_1"].InteractionCount; got != 2 {
		t.Fatalf("expected speaker_1 interactions 2 got %d", got)
	}
	if got := summary.Participation["speaker_2"].InteractionCount; got != 1 {
		t.Fatalf("expected speaker_2 interactions 1 got %d", got)
	}

	s1 := summary.Participation["speaker_1"]
	wantTime := float64(len("first remark") + len("closing remark"))
	if s1.SpeakingTime != wantTime {
		t.Fatalf("expected speaking time %f got %f", wantTime, s1.SpeakingTime)
	}
	wantEngagement := (wantTime + 10*2) / 100
	if s1.EngagementScore != wantEngagement {
		t.Fatalf("expected engagement %f got %f", wantEngagement, s1.EngagementScore)
	}
}

func TestBuildSummary_TopicTieBreaksAlphabetically(t *testing.T) {
	segments := []entities.TranscriptSegment{seg("speaker_1", "x")}
	segments[0].Keywords = []string{"zebra", "apple"}

	summary := BuildSummary(segments, nil, nil)
	if len(summary.KeyTopics) != 2 || summary.KeyTopics[0] != "apple" {
		t.Fatalf("expected alphabetical tie-break got %v", summary.KeyTopics)
	}
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, []entities.TranscriptSegment) (entities.AnalysisResult, error) {
	return entities.AnalysisResult{}, context.DeadlineExceeded
}

func TestAnalyzeBatch_DegradesOnExtractorFailure(t *testing.T) {
	analyzer := NewAnalyzer(failingExtractor{}, nil)

	result := analyzer.AnalyzeBatch(context.Background(), "s1",
		[]entities.TranscriptSegment{seg("speaker_1", "we should do things")})

	if len(result.ActionItems) != 0 || len(result.Decisions) != 0 {
		t.Fatal("failed extraction must degrade to empty result")
	}
}

func TestAnalyzeFull_SummaryPresentEvenWhenExtractionFails(t *testing.T) {
	analyzer := NewAnalyzer(failingExtractor{}, nil)

	result := analyzer.AnalyzeFull(context.Background(), "s1",
		[]entities.TranscriptSegment{seg("speaker_1", "closing words")})

	if result.Summary == nil {
		t.Fatal("final analysis must carry a summary")
	}
	if result.Summary.Participation["speaker_1"].InteractionCount != 1 {
		t.Fatal("summary must cover the transcript")
	}
}
