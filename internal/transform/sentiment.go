package transform

import (
	"fmt"
	"html"
	"strings"

	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// Sentiment labels reported per sentence
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

var sentimentRGB = map[string]string{
	SentimentPositive: "0, 176, 80",
	SentimentNegative: "230, 58, 58",
}

// SentimentAlpha maps a confidence in [0,1] to a tint opacity
func SentimentAlpha(confidence float64) float64 {
	confidence = max(0, min(1, confidence))
	return 0.1 + 0.9*confidence
}

// RenderSentiment tints every sentence by its label; neutral sentences stay plain
func RenderSentiment(results []types.SentimentResult) (string, error) {
	var b strings.Builder
	b.WriteString(`<div class="sentiment">`)
	for i, r := range results {
		if i > 0 {
			b.WriteByte(' ')
		}
		label := strings.ToUpper(r.Sentiment)
		text := html.EscapeString(r.Text)
		switch label {
		case SentimentNeutral:
			fmt.Fprintf(&b, `<span class="neutral">%s</span>`, text)
		case SentimentPositive, SentimentNegative:
			fmt.Fprintf(&b, `<span class="%s" style="background-color: rgba(%s, %.2f)">%s</span>`,
				strings.ToLower(label), sentimentRGB[label], SentimentAlpha(r.Confidence), text)
		default:
			return "", transformErr("sentiment", "sentence %d has unknown sentiment %q", i, r.Sentiment)
		}
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}
