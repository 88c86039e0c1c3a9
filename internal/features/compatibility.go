package features

// Rule lists the features a language does not support
type Rule struct {
	Transcription Set
	Intelligence  Set
}

var allIntelligence = NewSet(All(FamilyIntelligence)...)

var compatibility = map[Language]Rule{
	Spanish:    {Transcription: NewSet(), Intelligence: allIntelligence},
	French:     {Transcription: NewSet(), Intelligence: allIntelligence},
	German:     {Transcription: NewSet(), Intelligence: allIntelligence},
	Portuguese: {Transcription: NewSet(), Intelligence: allIntelligence},
	Italian:    {Transcription: NewSet(SpeakerLabels), Intelligence: allIntelligence},
	Dutch:      {Transcription: NewSet(SpeakerLabels), Intelligence: allIntelligence},
	Hindi:      {Transcription: NewSet(SpeakerLabels), Intelligence: allIntelligence},
	Japanese:   {Transcription: NewSet(SpeakerLabels), Intelligence: allIntelligence},
}

// Unsupported returns the features lang cannot be combined with.
// Languages without an entry support everything. The returned sets are copies.
func Unsupported(lang Language) Rule {
	rule, ok := compatibility[lang]
	if !ok {
		return Rule{Transcription: NewSet(), Intelligence: NewSet()}
	}
	return Rule{
		Transcription: rule.Transcription.Union(nil),
		Intelligence:  rule.Intelligence.Union(nil),
	}
}

// Table returns the whole rule table keyed by language name, for clients that filter locally
func Table() map[string]map[Family][]string {
	out := make(map[string]map[Family][]string, len(languageTable))
	for _, lang := range Languages() {
		rule := Unsupported(lang)
		out[lang.Name()] = map[Family][]string{
			FamilyTranscription: rule.Transcription.Names(),
			FamilyIntelligence:  rule.Intelligence.Names(),
		}
	}
	return out
}
