package features

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Family groups features into the two checkbox groups shown by the dashboard
type Family string

const (
	FamilyTranscription Family = "transcription"
	FamilyIntelligence  Family = "intelligence"
)

// Feature is a togglable analysis capability requested from the remote service
type Feature int

const (
	SpeakerLabels Feature = iota
	FilterProfanity
	LanguageDetection
	Summarization
	AutoHighlights
	TopicDetection
	EntityDetection
	SentimentAnalysis
	PIIRedaction
	ContentModeration
)

type featureInfo struct {
	name   string
	flag   string
	family Family
}

// Ordered by Feature value. Display order of the checkbox groups follows this table.
var featureTable = [...]featureInfo{
	SpeakerLabels:     {"Speaker Labels", "speaker_labels", FamilyTranscription},
	FilterProfanity:   {"Filter Profanity", "filter_profanity", FamilyTranscription},
	LanguageDetection: {"Automatic Language Detection", "language_detection", FamilyTranscription},
	Summarization:     {"Summarization", "auto_chapters", FamilyIntelligence},
	AutoHighlights:    {"Auto Highlights", "auto_highlights", FamilyIntelligence},
	TopicDetection:    {"Topic Detection", "iab_categories", FamilyIntelligence},
	EntityDetection:   {"Entity Detection", "entity_detection", FamilyIntelligence},
	SentimentAnalysis: {"Sentiment Analysis", "sentiment_analysis", FamilyIntelligence},
	PIIRedaction:      {"PII Redaction", "redact_pii", FamilyIntelligence},
	ContentModeration: {"Content Moderation", "content_safety", FamilyIntelligence},
}

func (f Feature) info() featureInfo {
	if f < 0 || int(f) >= len(featureTable) {
		panic(fmt.Sprintf("features: unknown feature %d", int(f)))
	}
	return featureTable[f]
}

// Name returns the label shown next to the checkbox
func (f Feature) Name() string { return f.info().name }

// Flag returns the API flag the feature enables
func (f Feature) Flag() string { return f.info().flag }

// Family returns the checkbox group the feature belongs to
func (f Feature) Family() Family { return f.info().family }

func (f Feature) String() string { return f.Name() }

// MarshalText encodes the feature by display name
func (f Feature) MarshalText() ([]byte, error) {
	return []byte(f.Name()), nil
}

// UnmarshalText decodes a display name
func (f *Feature) UnmarshalText(b []byte) error {
	parsed, err := ParseFeature(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFeature looks up a feature by display name
func ParseFeature(name string) (Feature, error) {
	for i, info := range featureTable {
		if info.name == name {
			return Feature(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

// All returns every feature of a family in display order
func All(family Family) []Feature {
	var out []Feature
	for i, info := range featureTable {
		if info.family == family {
			out = append(out, Feature(i))
		}
	}
	return out
}

// Set is an unordered collection of features
type Set map[Feature]struct{}

// NewSet builds a set from the given features
func NewSet(fs ...Feature) Set {
	s := make(Set, len(fs))
	for _, f := range fs {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is in the set
func (s Set) Has(f Feature) bool {
	_, ok := s[f]
	return ok
}

// Minus returns the features of s not present in other
func (s Set) Minus(other Set) Set {
	out := make(Set, len(s))
	for f := range s {
		if !other.Has(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

// Intersect returns the features present in both sets
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for f := range s {
		if other.Has(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

// Union returns the features present in either set
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for f := range s {
		out[f] = struct{}{}
	}
	for f := range other {
		out[f] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same features
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for f := range s {
		if !other.Has(f) {
			return false
		}
	}
	return true
}

// Sorted returns the features in display order
func (s Set) Sorted() []Feature {
	out := make([]Feature, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Names returns display names in display order
func (s Set) Names() []string {
	sorted := s.Sorted()
	names := make([]string, len(sorted))
	for i, f := range sorted {
		names[i] = f.Name()
	}
	return names
}

// MarshalJSON encodes the set as a list of display names
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes a list of display names
func (s *Set) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	out := make(Set, len(names))
	for _, name := range names {
		f, err := ParseFeature(name)
		if err != nil {
			return err
		}
		out[f] = struct{}{}
	}
	*s = out
	return nil
}

// ParseSet parses display names into a set. Features outside family are rejected.
func ParseSet(family Family, names []string) (Set, error) {
	s := make(Set, len(names))
	for _, name := range names {
		f, err := ParseFeature(name)
		if err != nil {
			return nil, err
		}
		if f.Family() != family {
			return nil, fmt.Errorf("feature %q is not a %s feature", name, family)
		}
		s[f] = struct{}{}
	}
	return s, nil
}
