package features

import "testing"

func TestEveryFeatureHasUniqueFlag(t *testing.T) {
	seen := map[string]Feature{}
	for _, family := range []Family{FamilyTranscription, FamilyIntelligence} {
		for _, f := range All(family) {
			if f.Family() != family {
				t.Fatalf("%s family = %s, want %s", f, f.Family(), family)
			}
			if prev, ok := seen[f.Flag()]; ok {
				t.Fatalf("flag %q shared by %s and %s", f.Flag(), prev, f)
			}
			seen[f.Flag()] = f
		}
	}
	if len(seen) != len(featureTable) {
		t.Fatalf("flags = %d, want %d", len(seen), len(featureTable))
	}
}

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature("Topic Detection")
	if err != nil {
		t.Fatalf("ParseFeature() error = %v", err)
	}
	if f != TopicDetection || f.Flag() != "iab_categories" {
		t.Fatalf("got %v (%s)", f, f.Flag())
	}

	if _, err := ParseFeature("Telepathy"); err == nil {
		t.Fatal("expected error for unknown feature")
	}
}

func TestUnknownFeaturePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_ = Feature(99).Flag()
}

func TestParseSetRejectsWrongFamily(t *testing.T) {
	if _, err := ParseSet(FamilyTranscription, []string{"Summarization"}); err == nil {
		t.Fatal("expected family error")
	}

	s, err := ParseSet(FamilyIntelligence, []string{"Summarization", "PII Redaction", "Summarization"})
	if err != nil {
		t.Fatalf("ParseSet() error = %v", err)
	}
	if len(s) != 2 || !s.Has(Summarization) || !s.Has(PIIRedaction) {
		t.Fatalf("set = %v", s.Names())
	}
}

func TestSetOperations(t *testing.T) {
	a := NewSet(SpeakerLabels, FilterProfanity)
	b := NewSet(FilterProfanity, LanguageDetection)

	if got := a.Minus(b); !got.Equal(NewSet(SpeakerLabels)) {
		t.Fatalf("Minus = %v", got.Names())
	}
	if got := a.Intersect(b); !got.Equal(NewSet(FilterProfanity)) {
		t.Fatalf("Intersect = %v", got.Names())
	}
	if got := a.Union(b); len(got) != 3 {
		t.Fatalf("Union = %v", got.Names())
	}

	names := NewSet(LanguageDetection, SpeakerLabels).Names()
	if names[0] != "Speaker Labels" || names[1] != "Automatic Language Detection" {
		t.Fatalf("Names order = %v", names)
	}
}

func TestLanguageCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"US English", "en_us"},
		{"Spanish", "es"},
		{"Japanese", "ja"},
	}
	for _, tt := range tests {
		lang, err := ParseLanguage(tt.name)
		if err != nil {
			t.Fatalf("ParseLanguage(%q) error = %v", tt.name, err)
		}
		if lang.Code() != tt.code {
			t.Fatalf("%s code = %q, want %q", tt.name, lang.Code(), tt.code)
		}
	}
	if DefaultLanguage.Code() != "en_us" {
		t.Fatalf("default code = %q", DefaultLanguage.Code())
	}
}

func TestUnsupportedIsTotal(t *testing.T) {
	for _, lang := range Languages() {
		rule := Unsupported(lang)
		if rule.Transcription == nil || rule.Intelligence == nil {
			t.Fatalf("%s: nil exclusion set", lang)
		}
	}

	if rule := Unsupported(USEnglish); len(rule.Transcription)+len(rule.Intelligence) != 0 {
		t.Fatalf("US English should support everything, got %+v", rule)
	}
	if rule := Unsupported(Dutch); !rule.Transcription.Has(SpeakerLabels) || !rule.Intelligence.Has(Summarization) {
		t.Fatalf("Dutch rule = %+v", rule)
	}
}

func TestUnsupportedReturnsCopies(t *testing.T) {
	rule := Unsupported(Spanish)
	delete(rule.Intelligence, Summarization)

	if !Unsupported(Spanish).Intelligence.Has(Summarization) {
		t.Fatal("mutating a returned rule changed the table")
	}
}
