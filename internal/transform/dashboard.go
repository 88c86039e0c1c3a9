package transform

import (
	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
	"github.com/codebuildervaibhav/audio-intelligence/internal/request"
	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// Options tunes the filtering thresholds of the transformers
type Options struct {
	TopicThreshold     float64 `yaml:"topic_threshold"`
	HighlightThreshold float64 `yaml:"highlight_threshold"`
}

// Dashboard is everything the result tabs display
type Dashboard struct {
	TranscriptID  string           `json:"transcript_id"`
	Text          string           `json:"text"`
	Speakers      []SpeakerTurn    `json:"speakers,omitempty"`
	Highlights    *HighlightedText `json:"highlights,omitempty"`
	Topics        *TopicNode       `json:"topics,omitempty"`
	TopicsHTML    string           `json:"topics_html,omitempty"`
	SentimentHTML string           `json:"sentiment_html,omitempty"`
	Entities      []EntityGroup    `json:"entities,omitempty"`
	EntitiesHTML  string           `json:"entities_html,omitempty"`
	SummaryHTML   string           `json:"summary_html,omitempty"`
	Safety        *ChartData       `json:"safety,omitempty"`
}

// BuildDashboard runs the transformer of every feature enabled in flags.
// A requested result block missing from the transcript is a TransformError.
func BuildDashboard(t *types.Transcript, paragraphs []types.Paragraph, flags request.Flags, opts Options) (*Dashboard, error) {
	if t == nil {
		return nil, transformErr("dashboard", "no transcript")
	}

	d := &Dashboard{TranscriptID: t.ID, Text: t.Text}
	if len(paragraphs) > 0 {
		d.Text = ParagraphText(paragraphs)
	}

	if flags.Enabled(features.SpeakerLabels.Flag()) {
		if t.Utterances == nil {
			return nil, transformErr("speaker labels", "response has no utterances")
		}
		d.Speakers = SpeakerTurns(t.Utterances)
	}

	if flags.Enabled(features.AutoHighlights.Flag()) {
		if t.AutoHighlightsResult == nil {
			return nil, transformErr("highlights", "response has no auto_highlights_result")
		}
		h, err := HighlightSpans(d.Text, t.AutoHighlightsResult.Results, opts.HighlightThreshold)
		if err != nil {
			return nil, err
		}
		d.Highlights = h
	}

	if flags.Enabled(features.TopicDetection.Flag()) {
		if t.IABCategoriesResult == nil {
			return nil, transformErr("topics", "response has no iab_categories_result")
		}
		d.Topics = BuildTopicTree(t.IABCategoriesResult.Summary, opts.TopicThreshold)
		d.TopicsHTML = RenderTopics(d.Topics)
	}

	if flags.Enabled(features.SentimentAnalysis.Flag()) {
		if t.SentimentAnalysisResults == nil {
			return nil, transformErr("sentiment", "response has no sentiment_analysis_results")
		}
		html, err := RenderSentiment(t.SentimentAnalysisResults)
		if err != nil {
			return nil, err
		}
		d.SentimentHTML = html
	}

	if flags.Enabled(features.EntityDetection.Flag()) {
		if t.Entities == nil {
			return nil, transformErr("entities", "response has no entities")
		}
		groups, err := GroupEntities(t.Entities, t.Text)
		if err != nil {
			return nil, err
		}
		d.Entities = groups
		d.EntitiesHTML = RenderEntities(groups)
	}

	if flags.Enabled(features.Summarization.Flag()) {
		if t.Chapters == nil {
			return nil, transformErr("summary", "response has no chapters")
		}
		d.SummaryHTML = RenderSummary(t.Chapters)
	}

	if flags.Enabled(features.ContentModeration.Flag()) {
		if t.ContentSafetyLabels == nil {
			return nil, transformErr("content safety", "response has no content_safety_labels")
		}
		chart, err := SafetyChart(t.ContentSafetyLabels.Summary)
		if err != nil {
			return nil, err
		}
		d.Safety = chart
	}

	return d, nil
}
