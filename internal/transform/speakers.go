package transform

import (
	"strings"

	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// SpeakerTurn is one labelled utterance
type SpeakerTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// SpeakerTurns labels utterances as "Speaker A", "Speaker B", ...
func SpeakerTurns(utterances []types.Utterance) []SpeakerTurn {
	turns := make([]SpeakerTurn, 0, len(utterances))
	for _, u := range utterances {
		turns = append(turns, SpeakerTurn{
			Speaker: "Speaker " + u.Speaker,
			Text:    u.Text,
			Start:   u.Start,
			End:     u.End,
		})
	}
	return turns
}

// ParagraphText joins paragraph texts with blank lines
func ParagraphText(paragraphs []types.Paragraph) string {
	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
