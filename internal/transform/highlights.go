package transform

import (
	"sort"
	"strings"

	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// Intensity range highlight ranks are mapped onto
const (
	MinIntensity = 0.25
	MaxIntensity = 1.0
)

// Span is one highlighted occurrence. Offsets count runes of the source text.
type Span struct {
	Text      string  `json:"text"`
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Intensity float64 `json:"intensity"`
}

// HighlightedText is a text with highlight spans sorted by Start
type HighlightedText struct {
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
}

// HighlightSpans marks every occurrence of each phrase ranked at least threshold.
// Ranks are rescaled linearly to [MinIntensity, MaxIntensity] over every
// entry that passes the threshold. A phrase listed more than once takes its
// best rank.
func HighlightSpans(text string, highlights []types.Highlight, threshold float64) (*HighlightedText, error) {
	var kept []types.Highlight
	index := map[string]int{}
	minRank, maxRank := 0.0, 0.0
	for _, h := range highlights {
		if h.Rank < threshold || h.Text == "" {
			continue
		}
		if len(index) == 0 {
			minRank, maxRank = h.Rank, h.Rank
		}
		minRank = min(minRank, h.Rank)
		maxRank = max(maxRank, h.Rank)

		if i, ok := index[h.Text]; ok {
			kept[i].Rank = max(kept[i].Rank, h.Rank)
			continue
		}
		index[h.Text] = len(kept)
		kept = append(kept, h)
	}
	if len(kept) == 0 {
		return nil, transformErr("highlights", "no highlight ranked %.2f or above", threshold)
	}

	scale := func(rank float64) float64 {
		if maxRank == minRank {
			return MaxIntensity
		}
		return MinIntensity + (rank-minRank)*(MaxIntensity-MinIntensity)/(maxRank-minRank)
	}

	runes := runeIndex(text)
	spans := []Span{}
	for _, h := range kept {
		intensity := scale(h.Rank)
		for pos := 0; pos <= len(text); {
			i := strings.Index(text[pos:], h.Text)
			if i < 0 {
				break
			}
			start := pos + i
			end := start + len(h.Text)
			spans = append(spans, Span{
				Text:      h.Text,
				Start:     runes[start],
				End:       runes[end],
				Intensity: intensity,
			})
			pos = end
		}
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return &HighlightedText{Text: text, Spans: spans}, nil
}
