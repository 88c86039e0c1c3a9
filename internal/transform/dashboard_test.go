package transform

import (
	"errors"
	"testing"

	"github.com/codebuildervaibhav/audio-intelligence/internal/request"
	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

func completeTranscript() *types.Transcript {
	return &types.Transcript{
		ID:     "tx1",
		Status: types.StatusCompleted,
		Text:   "Alice met Bob in Rome.",
		Utterances: []types.Utterance{
			{Speaker: "A", Text: "Alice met Bob in Rome."},
		},
		AutoHighlightsResult: &types.AutoHighlights{Results: []types.Highlight{{Text: "Rome", Rank: 0.8}}},
		IABCategoriesResult:  &types.IABCategories{Summary: types.Scores{{Label: "Travel>Europe", Value: 0.7}}},
		SentimentAnalysisResults: []types.SentimentResult{
			{Text: "Alice met Bob in Rome.", Sentiment: "POSITIVE", Confidence: 0.6},
		},
		Entities:            []types.Entity{{EntityType: "location", Text: "Rome"}},
		Chapters:            []types.Chapter{{Headline: "Meeting", Summary: "They met."}},
		ContentSafetyLabels: &types.ContentSafetyLabels{Summary: types.Scores{{Label: "profanity", Value: 0.1}}},
	}
}

func allFlags() request.Flags {
	return request.Flags{
		"speaker_labels":     true,
		"auto_highlights":    true,
		"iab_categories":     true,
		"sentiment_analysis": true,
		"entity_detection":   true,
		"auto_chapters":      true,
		"content_safety":     true,
		"language_code":      "en_us",
	}
}

func TestBuildDashboardAllBlocks(t *testing.T) {
	d, err := BuildDashboard(completeTranscript(), []types.Paragraph{{Text: "Alice met Bob in Rome."}}, allFlags(), Options{})
	if err != nil {
		t.Fatalf("BuildDashboard() error = %v", err)
	}

	if d.TranscriptID != "tx1" || len(d.Speakers) != 1 {
		t.Fatalf("dashboard = %+v", d)
	}
	if d.Highlights == nil || len(d.Highlights.Spans) != 1 {
		t.Fatalf("highlights = %+v", d.Highlights)
	}
	if d.Topics.Child("Travel").Child("Europe") == nil || d.TopicsHTML == "" {
		t.Fatalf("topics = %+v", d.Topics)
	}
	if d.SentimentHTML == "" || d.EntitiesHTML == "" || d.SummaryHTML == "" {
		t.Fatal("rendered blocks missing")
	}
	if d.Safety == nil || d.Safety.Labels[0] != "Profanity" {
		t.Fatalf("safety = %+v", d.Safety)
	}
}

func TestBuildDashboardSkipsDisabledBlocks(t *testing.T) {
	tr := &types.Transcript{ID: "tx2", Text: "plain"}
	d, err := BuildDashboard(tr, nil, request.Flags{"language_code": "en_us"}, Options{})
	if err != nil {
		t.Fatalf("BuildDashboard() error = %v", err)
	}
	if d.Text != "plain" || d.Highlights != nil || d.Topics != nil || d.Safety != nil {
		t.Fatalf("dashboard = %+v", d)
	}
}

func TestBuildDashboardMissingBlock(t *testing.T) {
	tr := completeTranscript()
	tr.Chapters = nil

	_, err := BuildDashboard(tr, nil, allFlags(), Options{})
	var terr *TransformError
	if !errors.As(err, &terr) || terr.Transform != "summary" {
		t.Fatalf("err = %v, want summary TransformError", err)
	}
}
