package transform

import (
	"errors"
	"testing"

	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

func TestHighlightSpans(t *testing.T) {
	got, err := HighlightSpans("hello world hello", []types.Highlight{
		{Text: "hello", Rank: 1},
		{Text: "world", Rank: 3},
	}, 0)
	if err != nil {
		t.Fatalf("HighlightSpans() error = %v", err)
	}

	want := []Span{
		{Text: "hello", Start: 0, End: 5, Intensity: MinIntensity},
		{Text: "world", Start: 6, End: 11, Intensity: MaxIntensity},
		{Text: "hello", Start: 12, End: 17, Intensity: MinIntensity},
	}
	if len(got.Spans) != len(want) {
		t.Fatalf("spans = %+v", got.Spans)
	}
	for i := range want {
		if got.Spans[i] != want[i] {
			t.Fatalf("span %d = %+v, want %+v", i, got.Spans[i], want[i])
		}
	}
}

func TestHighlightSpansEqualRanks(t *testing.T) {
	got, err := HighlightSpans("one two", []types.Highlight{{Text: "one", Rank: 0.2}, {Text: "two", Rank: 0.2}}, 0)
	if err != nil {
		t.Fatalf("HighlightSpans() error = %v", err)
	}
	for _, s := range got.Spans {
		if s.Intensity != MaxIntensity {
			t.Fatalf("intensity = %v, want %v", s.Intensity, MaxIntensity)
		}
	}
}

func TestHighlightSpansMidpointAndThreshold(t *testing.T) {
	got, err := HighlightSpans("a b c", []types.Highlight{
		{Text: "a", Rank: 0.1},
		{Text: "b", Rank: 0.5},
		{Text: "c", Rank: 0.7},
		{Text: "zzz", Rank: 0.9},
	}, 0.3)
	if err != nil {
		t.Fatalf("HighlightSpans() error = %v", err)
	}
	if len(got.Spans) != 2 {
		t.Fatalf("spans = %+v", got.Spans)
	}
	// b sits at 0.5 within [0.5, 0.9]
	if got.Spans[0].Text != "b" || got.Spans[0].Intensity != MinIntensity {
		t.Fatalf("span 0 = %+v", got.Spans[0])
	}
	if diff := got.Spans[1].Intensity - 0.625; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("c intensity = %v, want 0.625", got.Spans[1].Intensity)
	}
}

func TestHighlightSpansNonOverlapping(t *testing.T) {
	got, err := HighlightSpans("aaaa", []types.Highlight{{Text: "aa", Rank: 1}}, 0)
	if err != nil {
		t.Fatalf("HighlightSpans() error = %v", err)
	}
	if len(got.Spans) != 2 || got.Spans[1].Start != 2 {
		t.Fatalf("spans = %+v", got.Spans)
	}
}

func TestHighlightSpansRuneOffsets(t *testing.T) {
	got, err := HighlightSpans("café bar", []types.Highlight{{Text: "bar", Rank: 1}}, 0)
	if err != nil {
		t.Fatalf("HighlightSpans() error = %v", err)
	}
	if got.Spans[0].Start != 5 || got.Spans[0].End != 8 {
		t.Fatalf("span = %+v", got.Spans[0])
	}
}

func TestHighlightSpansEmptyFails(t *testing.T) {
	_, err := HighlightSpans("text", []types.Highlight{{Text: "text", Rank: 0.1}}, 0.5)
	var terr *TransformError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransformError", err)
	}
}

func TestHighlightSpansRepeatedPhrase(t *testing.T) {
	got, err := HighlightSpans("a b", []types.Highlight{
		{Text: "a", Rank: 1},
		{Text: "b", Rank: 2},
		{Text: "a", Rank: 3},
	}, 0)
	if err != nil {
		t.Fatalf("HighlightSpans() error = %v", err)
	}
	if len(got.Spans) != 2 {
		t.Fatalf("spans = %+v", got.Spans)
	}
	if got.Spans[0].Text != "a" || got.Spans[0].Intensity != MaxIntensity {
		t.Fatalf("a = %+v, want intensity %v", got.Spans[0], MaxIntensity)
	}
	if diff := got.Spans[1].Intensity - 0.625; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("b intensity = %v, want 0.625", got.Spans[1].Intensity)
	}
}
