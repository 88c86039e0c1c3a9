// Package selection reconciles the features a user has checked with what the
// chosen language supports.
//
// Two selections are tracked per session: Desired is everything the user has
// asked for, Effective is Desired minus what the current language forbids.
// The UI always renders Effective. Features hidden by a language stay in
// Desired so they come back when a compatible language is picked again.
package selection

import (
	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
)

// DetectionWarning is shown while automatic language detection is enabled
const DetectionWarning = "Automatic Language Detection is enabled. Features the detected language does not support will be skipped by the API."

// Selection holds one set per feature family
type Selection struct {
	Transcription features.Set `json:"transcription"`
	Intelligence  features.Set `json:"intelligence"`
}

// NewSelection returns an empty selection
func NewSelection() Selection {
	return Selection{
		Transcription: features.NewSet(),
		Intelligence:  features.NewSet(),
	}
}

// Clone returns a deep copy
func (s Selection) Clone() Selection {
	return Selection{
		Transcription: s.Transcription.Union(nil),
		Intelligence:  s.Intelligence.Union(nil),
	}
}

// Equal reports whether both families match
func (s Selection) Equal(other Selection) bool {
	return s.Transcription.Equal(other.Transcription) && s.Intelligence.Equal(other.Intelligence)
}

// DetectionEnabled reports whether automatic language detection is selected
func (s Selection) DetectionEnabled() bool {
	return s.Transcription.Has(features.LanguageDetection)
}

// Resolve returns desired minus whatever lang does not support.
// With language detection selected no rule applies.
func Resolve(lang features.Language, desired Selection) Selection {
	if desired.DetectionEnabled() {
		return desired.Clone()
	}
	rule := features.Unsupported(lang)
	return Selection{
		Transcription: desired.Transcription.Minus(rule.Transcription),
		Intelligence:  desired.Intelligence.Minus(rule.Intelligence),
	}
}

// Allowed returns the features that may be shown for lang
func Allowed(lang features.Language, detection bool) Selection {
	all := Selection{
		Transcription: features.NewSet(features.All(features.FamilyTranscription)...),
		Intelligence:  features.NewSet(features.All(features.FamilyIntelligence)...),
	}
	if detection {
		return all
	}
	return Resolve(lang, all)
}

// State is the per-session selection state
type State struct {
	Language  features.Language `json:"language"`
	Desired   Selection         `json:"desired"`
	Effective Selection         `json:"effective"`
}

// NewState returns a state with nothing selected and the default language
func NewState() *State {
	return &State{
		Language:  features.DefaultLanguage,
		Desired:   NewSelection(),
		Effective: NewSelection(),
	}
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	return &State{
		Language:  s.Language,
		Desired:   s.Desired.Clone(),
		Effective: s.Effective.Clone(),
	}
}

// ChangeLanguage switches language and recomputes the effective selection
func (s *State) ChangeLanguage(lang features.Language) View {
	s.Language = lang
	s.Effective = Resolve(s.Language, s.Desired)
	return s.View()
}

// ChangeTranscription applies the transcription checkboxes as currently checked
func (s *State) ChangeTranscription(checked features.Set) View {
	// Detection is never excluded by a language, so the new toggle value decides what is allowed.
	allowed := Allowed(s.Language, checked.Has(features.LanguageDetection))
	s.Desired.Transcription = merge(checked, s.Desired.Transcription, allowed.Transcription)
	s.Effective = Resolve(s.Language, s.Desired)
	return s.View()
}

// ChangeIntelligence applies the intelligence checkboxes as currently checked
func (s *State) ChangeIntelligence(checked features.Set) View {
	allowed := Allowed(s.Language, s.Desired.DetectionEnabled())
	s.Desired.Intelligence = merge(checked, s.Desired.Intelligence, allowed.Intelligence)
	s.Effective = Resolve(s.Language, s.Desired)
	return s.View()
}

// merge keeps the visible checkboxes as checked and the hidden ones as they were
func merge(checked, desired, allowed features.Set) features.Set {
	return checked.Intersect(allowed).Union(desired.Minus(allowed))
}

// Group is one checkbox group as the UI should render it
type Group struct {
	Choices  []string `json:"choices"`
	Selected []string `json:"selected"`
}

// View is what the UI re-renders after every event
type View struct {
	Language        string `json:"language"`
	LanguageVisible bool   `json:"language_visible"`
	Warning         string `json:"warning,omitempty"`
	Transcription   Group  `json:"transcription"`
	Intelligence    Group  `json:"intelligence"`
}

// View renders the current state
func (s *State) View() View {
	detection := s.Effective.DetectionEnabled()
	allowed := Allowed(s.Language, detection)

	v := View{
		Language:        s.Language.Name(),
		LanguageVisible: !detection,
		Transcription: Group{
			Choices:  allowed.Transcription.Names(),
			Selected: s.Effective.Transcription.Names(),
		},
		Intelligence: Group{
			Choices:  allowed.Intelligence.Names(),
			Selected: s.Effective.Intelligence.Names(),
		},
	}
	if detection {
		v.Warning = DetectionWarning
	}
	return v
}
