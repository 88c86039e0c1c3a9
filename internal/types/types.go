package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Remote transcript status values
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Local job status values, reported to the dashboard
const (
	JobQueued     = "QUEUED"
	JobProcessing = "PROCESSING"
	JobCompleted  = "COMPLETED"
	JobFailed     = "FAILED"
)

// Source type constants
const (
	SourceUpload = "upload"
	SourceGDrive = "gdrive"
	SourceRecord = "record"
)

// Transcript is the result document returned by the transcript endpoint
type Transcript struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Error        string  `json:"error,omitempty"`
	AudioURL     string  `json:"audio_url"`
	Text         string  `json:"text"`
	LanguageCode string  `json:"language_code,omitempty"`
	Duration     float64 `json:"audio_duration,omitempty"`

	Utterances               []Utterance          `json:"utterances,omitempty"`
	AutoHighlightsResult     *AutoHighlights      `json:"auto_highlights_result,omitempty"`
	IABCategoriesResult      *IABCategories       `json:"iab_categories_result,omitempty"`
	SentimentAnalysisResults []SentimentResult    `json:"sentiment_analysis_results,omitempty"`
	Entities                 []Entity             `json:"entities,omitempty"`
	Chapters                 []Chapter            `json:"chapters,omitempty"`
	ContentSafetyLabels      *ContentSafetyLabels `json:"content_safety_labels,omitempty"`
}

// Utterance is one speaker turn
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// AutoHighlights holds key phrases ranked by relevance
type AutoHighlights struct {
	Status  string      `json:"status"`
	Results []Highlight `json:"results"`
}

// Highlight is one key phrase
type Highlight struct {
	Text  string  `json:"text"`
	Rank  float64 `json:"rank"`
	Count int     `json:"count"`
}

// IABCategories holds detected topics
type IABCategories struct {
	Status  string `json:"status"`
	Summary Scores `json:"summary"`
}

// SentimentResult is the sentiment of one sentence
type SentimentResult struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker,omitempty"`
}

// Entity is one detected entity occurrence
type Entity struct {
	EntityType string `json:"entity_type"`
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// Chapter is one auto-generated summary section
type Chapter struct {
	Headline string `json:"headline"`
	Gist     string `json:"gist"`
	Summary  string `json:"summary"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// ContentSafetyLabels holds per-label severity scores
type ContentSafetyLabels struct {
	Status  string `json:"status"`
	Summary Scores `json:"summary"`
}

// Paragraph is one entry of the paragraphs sub-resource
type Paragraph struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Score is one label/value pair of a JSON object
type Score struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Scores decodes a JSON object of numbers, keeping key order
type Scores []Score

// UnmarshalJSON reads {"label": number, ...} in document order
func (s *Scores) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("scores: expected object, got %v", tok)
	}

	var out Scores
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("scores: expected key, got %v", tok)
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("scores: value of %q: %w", label, err)
		}
		out = append(out, Score{Label: label, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON writes the scores back as an object in the same order
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, score := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(score.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(score.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
